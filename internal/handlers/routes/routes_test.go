package routes

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestClassifier_IsPublic(t *testing.T) {
	c, err := New(PublicRules(DefaultPublic...)...)
	require.NoError(t, err)

	tests := []struct {
		path     string
		expected bool
	}{
		{"/login", true},
		{"/swagger-ui.html", true},
		{"/v3/api-docs", true},
		{"/v3/api-docs/", true},
		{"/v3/api-docs/swagger-config", true},
		{"/v3/api-docs/a/b/c", true},
		{"/swagger-ui/index.html", true},
		{"/swagger-ui", true},

		{"/patients", false},
		{"/me", false},
		{"/", false},
		{"", false},
		{"/login/extra", false},
		{"/loginx", false},
		{"/v3/api-docsx", false},
		{"/swagger-ui.htm", false},
		{"/v3", false},

		// Cleaned before matching so dot segments can't reach protected paths
		{"/login/../patients", false},
		{"/v3/api-docs/../../patients", false},
		{"//login", true},
		{"/./login", true},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			require.Equalf(t, tt.expected, c.IsPublic(tt.path), "path %q", tt.path)
		})
	}
}

func TestClassifier_Rules(t *testing.T) {
	t.Run("first match wins", func(t *testing.T) {
		c, err := New(
			Rule{Pattern: "/docs/private", Access: Authenticated},
			Rule{Pattern: "/docs/**", Access: Public},
		)
		require.NoError(t, err)

		require.False(t, c.IsPublic("/docs/private"))
		require.True(t, c.IsPublic("/docs/public"))
	})

	t.Run("single segment wildcard", func(t *testing.T) {
		c, err := New(PublicRules("/files/*/meta", "/static/*")...)
		require.NoError(t, err)

		require.True(t, c.IsPublic("/files/1/meta"))
		require.False(t, c.IsPublic("/files/1/2/meta"))
		require.True(t, c.IsPublic("/static/app.js"))
		require.False(t, c.IsPublic("/static/js/app.js"))
	})

	t.Run("wildcard prefix with double star", func(t *testing.T) {
		c, err := New(PublicRules("/files/*/**")...)
		require.NoError(t, err)

		require.True(t, c.IsPublic("/files/1"))
		require.True(t, c.IsPublic("/files/1/meta/raw"))
		require.False(t, c.IsPublic("/files"))
	})

	t.Run("everything", func(t *testing.T) {
		c, err := New(PublicRules("/**")...)
		require.NoError(t, err)

		require.True(t, c.IsPublic("/"))
		require.True(t, c.IsPublic("/patients/1"))
	})

	t.Run("empty table protects everything", func(t *testing.T) {
		c, err := New()
		require.NoError(t, err)

		require.False(t, c.IsPublic("/login"))
		require.Equal(t, Authenticated, c.Access("/login"))
	})

	t.Run("nil classifier protects everything", func(t *testing.T) {
		var c *Classifier

		require.False(t, c.IsPublic("/login"))
	})

	t.Run("relative pattern is rejected", func(t *testing.T) {
		_, err := New(PublicRules("login")...)

		require.Error(t, err)
	})

	t.Run("rules are copied", func(t *testing.T) {
		rules := PublicRules("/login")
		c, err := New(rules...)
		require.NoError(t, err)

		rules[0].Pattern = "/patients"

		require.True(t, c.IsPublic("/login"))
		require.False(t, c.IsPublic("/patients"))
	})
}

func TestPublicRules(t *testing.T) {
	require.Equal(t, []Rule{
		{Pattern: "/login", Access: Public},
		{Pattern: "/swagger-ui/**", Access: Public},
	}, PublicRules("/login", "/swagger-ui/**"))

	require.Empty(t, PublicRules())
}

func TestAccess_String(t *testing.T) {
	require.Equal(t, "public", Public.String())
	require.Equal(t, "authenticated", Authenticated.String())
}
