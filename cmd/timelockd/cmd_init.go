package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"io/ioutil"

	"github.com/iov-one/timelock/app"
	"github.com/iov-one/timelock/errors"
)

func cmdInit(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Initialize the ledger state from a genesis file.

The genesis declares the chain id, the escrow configuration and the initial
wallets. When no genesis file is given, it is read from the standard input.

	{
	  "chain_id": "local-timelock",
	  "app_state": {
	    "conf": {"escrow": {"asset": "IOV", "max_lockup_duration": 86400}},
	    "cash": [{"address": "tlk1...", "balances": [{"ticker": "IOV", "amount": "1000"}]}]
	  }
	}
`)
		fl.PrintDefaults()
	}
	common := registerCommonFlags(fl)
	genesisFl := fl.String("genesis", "", "Path to the genesis file.")
	fl.Parse(args)

	var gen *app.Genesis
	if *genesisFl != "" {
		g, err := app.LoadGenesis(*genesisFl)
		if err != nil {
			return err
		}
		gen = g
	} else {
		raw, err := ioutil.ReadAll(input)
		if err != nil {
			return errors.Wrapf(errors.ErrInput, "cannot read genesis: %s", err)
		}
		gen = &app.Genesis{}
		if err := json.Unmarshal(raw, gen); err != nil {
			return errors.Wrapf(errors.ErrInput, "cannot decode genesis: %s", err)
		}
	}

	a, cleanup, err := openApp(common, output)
	if err != nil {
		return err
	}
	defer cleanup()

	if err := a.InitChain(gen); err != nil {
		return err
	}
	_, err = fmt.Fprintf(output, "initialized %s\n", a.ChainID())
	return err
}
