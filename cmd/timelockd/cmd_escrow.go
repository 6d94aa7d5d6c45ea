package main

import (
	"flag"
	"fmt"
	"io"

	"github.com/iov-one/timelock"
	"github.com/iov-one/timelock/app"
	"github.com/iov-one/timelock/coin"
	"github.com/iov-one/timelock/crypto"
	"github.com/iov-one/timelock/errors"
	"github.com/iov-one/timelock/x/escrow"
)

func cmdLock(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Lock funds of the key owner until the claim time.

The claim time is either given directly or as a number of seconds from now.
`)
		fl.PrintDefaults()
	}
	common := registerCommonFlags(fl)
	var (
		keyPathFl    = keyFlag(fl)
		amountFl     = fl.String("amount", "", "Amount of the ledger asset to lock.")
		claimAfterFl = fl.Uint64("claim-after", 0, "Time, in seconds since epoch, after which the funds can be unlocked.")
		forFl        = fl.Uint64("for", 0, "Number of seconds the funds are locked for. Ignored if -claim-after is given.")
	)
	fl.Parse(args)

	amount, err := coin.ParseAmount(*amountFl)
	if err != nil {
		return errors.Wrap(err, "amount")
	}
	claimAfter := timelock.Timestamp(*claimAfterFl)
	if claimAfter == 0 {
		if *forFl == 0 {
			return errors.Wrap(errors.ErrInput, "either -claim-after or -for is required")
		}
		claimAfter = clock.Now().Add(*forFl)
	}

	key, err := loadKey(*keyPathFl)
	if err != nil {
		return err
	}
	a, cleanup, err := openApp(common, output)
	if err != nil {
		return err
	}
	defer cleanup()

	msg := &escrow.LockMsg{
		Account:    key.PublicKey().Address(),
		Amount:     amount,
		ClaimAfter: claimAfter,
	}
	if _, err := submit(a, key, msg); err != nil {
		return err
	}
	_, err = fmt.Fprintf(output, "locked %s until %d\n", amount, claimAfter)
	return err
}

func cmdUnlock(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Return the funds of a matured escrow to the key owner.
`)
		fl.PrintDefaults()
	}
	common := registerCommonFlags(fl)
	keyPathFl := keyFlag(fl)
	fl.Parse(args)

	key, err := loadKey(*keyPathFl)
	if err != nil {
		return err
	}
	a, cleanup, err := openApp(common, output)
	if err != nil {
		return err
	}
	defer cleanup()

	res, err := submit(a, key, &escrow.UnlockMsg{Account: key.PublicKey().Address()})
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(output, "unlocked %s\n", res.Data)
	return err
}

func cmdRetain(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Keep at least the given number of historical state versions on disk.
`)
		fl.PrintDefaults()
	}
	common := registerCommonFlags(fl)
	var (
		keyPathFl = keyFlag(fl)
		periodFl  = fl.Uint64("period", 0, "Number of versions to keep.")
	)
	fl.Parse(args)

	if *periodFl == 0 || *periodFl > 1<<32-1 {
		return errors.Wrapf(errors.ErrInput, "invalid period %d", *periodFl)
	}

	key, err := loadKey(*keyPathFl)
	if err != nil {
		return err
	}
	a, cleanup, err := openApp(common, output)
	if err != nil {
		return err
	}
	defer cleanup()

	_, err = submit(a, key, &escrow.ExtendRetentionMsg{Period: uint32(*periodFl)})
	return err
}

// submit signs a transaction carrying given message and delivers it.
func submit(a *app.Application, key *crypto.PrivateKey, msg timelock.Msg) (*timelock.DeliverResult, error) {
	tx, err := app.NewTx(msg)
	if err != nil {
		return nil, err
	}
	seq, err := a.NextSequence(key.PublicKey())
	if err != nil {
		return nil, err
	}
	if err := tx.Sign(key, a.ChainID(), seq); err != nil {
		return nil, err
	}
	if _, err := a.Check(tx); err != nil {
		return nil, err
	}
	return a.Deliver(tx)
}
