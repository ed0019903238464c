package main

import (
	"bytes"
	"crypto/rand"
	"encoding/hex"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func Test_run(t *testing.T) {
	t.Run("default length", func(t *testing.T) {
		var out bytes.Buffer

		err := run(&out, rand.Reader, nil)

		require.NoError(t, err)
		key, err := hex.DecodeString(strings.TrimSpace(out.String()))
		require.NoError(t, err, "output must be hex")
		require.Len(t, key, SecretKeyBytesLen)
	})

	t.Run("custom length", func(t *testing.T) {
		var out bytes.Buffer

		err := run(&out, rand.Reader, []string{"--bytes", "64"})

		require.NoError(t, err)
		require.Len(t, strings.TrimSpace(out.String()), 128)
	})

	t.Run("too short", func(t *testing.T) {
		var out bytes.Buffer

		err := run(&out, rand.Reader, []string{"-b", "16"})

		require.Error(t, err)
		require.Empty(t, out.String())
	})

	t.Run("random source exhausted", func(t *testing.T) {
		var out bytes.Buffer

		err := run(&out, strings.NewReader("short"), nil)

		require.Error(t, err)
	})
}
