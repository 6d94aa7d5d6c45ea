package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/tendermint/tendermint/libs/log"

	"github.com/iov-one/timelock"
	"github.com/iov-one/timelock/app"
	"github.com/iov-one/timelock/errors"
	"github.com/iov-one/timelock/store/iavl"
)

// clock is the source of the ledger time.
var clock timelock.Clock = &timelock.SystemClock{}

// env returns the value of an environment variable if provided (even if
// empty) or a fallback value.
func env(name, fallback string) string {
	if v, ok := os.LookupEnv(name); ok {
		return v
	}
	return fallback
}

// commonFlags are accepted by every command that opens the ledger state.
type commonFlags struct {
	home     *string
	logLevel *string
}

func registerCommonFlags(fl *flag.FlagSet) commonFlags {
	defaultHome := filepath.Join(os.ExpandEnv("$HOME"), ".timelockd")
	return commonFlags{
		home: fl.String("home", env("TIMELOCKD_HOME", defaultHome),
			"Directory the ledger state is stored in. You can use TIMELOCKD_HOME environment variable to set it."),
		logLevel: fl.String("log-level", "error",
			"Minimal level of the log messages written to stderr: debug, info, error or none."),
	}
}

func (c commonFlags) logger() (log.Logger, error) {
	opt, err := log.AllowLevel(*c.logLevel)
	if err != nil {
		return nil, errors.Wrap(errors.ErrInput, err.Error())
	}
	logger := log.NewTMLogger(log.NewSyncWriter(os.Stderr)).With("module", "timelockd")
	return log.NewFilter(logger, opt), nil
}

// openApp opens the application state kept in the home directory. Events of
// committed transactions are written to output. Call the returned function
// to release the state.
func openApp(c commonFlags, output io.Writer) (*app.Application, func(), error) {
	logger, err := c.logger()
	if err != nil {
		return nil, nil, err
	}
	if err := os.MkdirAll(*c.home, 0700); err != nil {
		return nil, nil, errors.Wrapf(errors.ErrInput, "cannot create home directory: %s", err)
	}
	db, err := iavl.NewCommitStore(*c.home, "state")
	if err != nil {
		return nil, nil, err
	}

	sink := timelock.EventSinkFunc(func(e timelock.Event) {
		fmt.Fprintf(output, "event: %s\n", e)
	})
	a, err := app.NewApplication(db, clock, app.WithLogger(logger), app.WithEventSink(sink))
	if err != nil {
		db.Close()
		return nil, nil, err
	}
	return a, db.Close, nil
}

// writeJSON prints a query result.
func writeJSON(output io.Writer, v interface{}) error {
	raw, err := json.MarshalIndent(v, "", "\t")
	if err != nil {
		return errors.Wrap(errors.ErrModel, err.Error())
	}
	_, err = fmt.Fprintln(output, string(raw))
	return err
}
