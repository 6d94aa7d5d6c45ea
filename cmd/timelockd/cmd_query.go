package main

import (
	"flag"
	"fmt"
	"io"

	"github.com/iov-one/timelock"
	"github.com/iov-one/timelock/errors"
)

// accountFlags select an account either by its address or by a key file.
type accountFlags struct {
	address *string
	keyPath *string
}

func registerAccountFlags(fl *flag.FlagSet) accountFlags {
	return accountFlags{
		address: fl.String("account", "", "Address of the account. If not given, the address of the key is used."),
		keyPath: keyFlag(fl),
	}
}

func (f accountFlags) account() (timelock.Address, error) {
	if *f.address != "" {
		return timelock.ParseAddress(*f.address)
	}
	key, err := loadKey(*f.keyPath)
	if err != nil {
		return nil, err
	}
	return key.PublicKey().Address(), nil
}

func cmdShow(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Print the escrow of an account.
`)
		fl.PrintDefaults()
	}
	common := registerCommonFlags(fl)
	accountFl := registerAccountFlags(fl)
	fl.Parse(args)

	account, err := accountFl.account()
	if err != nil {
		return err
	}
	a, cleanup, err := openApp(common, output)
	if err != nil {
		return err
	}
	defer cleanup()

	d, err := a.Escrow(account)
	if err != nil {
		return err
	}
	if d == nil {
		return errors.Wrapf(errors.ErrNotFound, "no escrow of %s", account)
	}
	return writeJSON(output, d)
}

func cmdList(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Print all escrows, in the order they were created.
`)
		fl.PrintDefaults()
	}
	common := registerCommonFlags(fl)
	fl.Parse(args)

	a, cleanup, err := openApp(common, output)
	if err != nil {
		return err
	}
	defer cleanup()

	list, err := a.Escrows()
	if err != nil {
		return err
	}
	return writeJSON(output, list)
}

func cmdBalance(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Print the balance of an account. The ledger asset is used if no ticker is
given.
`)
		fl.PrintDefaults()
	}
	common := registerCommonFlags(fl)
	accountFl := registerAccountFlags(fl)
	tickerFl := fl.String("ticker", "", "Ticker of the asset.")
	fl.Parse(args)

	account, err := accountFl.account()
	if err != nil {
		return err
	}
	a, cleanup, err := openApp(common, output)
	if err != nil {
		return err
	}
	defer cleanup()

	ticker := *tickerFl
	if ticker == "" {
		conf, err := a.Configuration()
		if err != nil {
			return err
		}
		ticker = conf.Asset
	}
	amount, err := a.Balance(account, ticker)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(output, "%s %s\n", amount, ticker)
	return err
}
