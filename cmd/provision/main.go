// Command provision stores a login credential that can be exchanged for bearer tokens.
//
//	provision --database postgres://... --login alice --password secret
//
// Password may be given with VOLLMED_PASSWORD instead of the flag to keep it out of shell history.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"

	"github.com/nkiryanov/vollmed/internal/db"
	"github.com/nkiryanov/vollmed/internal/logger"
	"github.com/nkiryanov/vollmed/internal/repository/postgres"
	"github.com/nkiryanov/vollmed/internal/service/auth"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	l, _ := logger.NewTextLogger(logger.LevelInfo)

	if err := run(ctx, os.Stdout, os.Getenv, os.Args[1:]); err != nil {
		l.Error("can't provision credential", "error", err.Error())
		os.Exit(1) // nolint:gocritic
	}
}

type options struct {
	DatabaseDSN string
	Login       string
	Password    string
}

func parseOptions(getenv func(string) string, args []string) (options, error) {
	o := options{
		DatabaseDSN: getenv("DATABASE_URI"),
		Password:    getenv("VOLLMED_PASSWORD"),
	}

	fs := pflag.NewFlagSet("provision", pflag.ContinueOnError)
	fs.StringVarP(&o.DatabaseDSN, "database", "d", o.DatabaseDSN, "Database connection string")
	fs.StringVarP(&o.Login, "login", "u", o.Login, "Login to provision")
	fs.StringVarP(&o.Password, "password", "p", o.Password, "Password for the login")
	if err := fs.Parse(args); err != nil {
		return o, err
	}

	var errs []error
	if o.DatabaseDSN == "" {
		errs = append(errs, errors.New("database DSN is not set"))
	}
	if o.Login == "" {
		errs = append(errs, errors.New("login is not set"))
	}
	if o.Password == "" {
		errs = append(errs, errors.New("password is not set"))
	}

	return o, errors.Join(errs...)
}

func run(ctx context.Context, w io.Writer, getenv func(string) string, args []string) error {
	o, err := parseOptions(getenv, args)
	if err != nil {
		return err
	}

	pool, err := db.ConnectAndMigrate(ctx, o.DatabaseDSN)
	if err != nil {
		return fmt.Errorf("error while connecting to db. Err: %w", err)
	}
	defer pool.Close()

	s, err := auth.NewService(auth.Config{}, nil, postgres.NewStorage(pool).Credential())
	if err != nil {
		return err
	}

	credential, err := s.Provision(ctx, o.Login, o.Password)
	if err != nil {
		return err
	}

	_, err = fmt.Fprintf(w, "credential %s provisioned for %q\n", credential.ID, credential.Identifier)
	return err
}
