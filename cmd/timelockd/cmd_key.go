package main

import (
	"flag"
	"fmt"
	"io"
	"io/ioutil"
	"os"

	amino "github.com/tendermint/go-amino"
	"golang.org/x/crypto/ed25519"

	"github.com/iov-one/timelock/crypto"
	"github.com/iov-one/timelock/errors"
)

var cdc = amino.NewCodec()

// keyFile is the content of a private key file.
type keyFile struct {
	Address string `json:"address"`
	Ed25519 []byte `json:"ed25519"`
}

func keyFlag(fl *flag.FlagSet) *string {
	return fl.String("key", env("TIMELOCKD_PRIV_KEY", os.ExpandEnv("$HOME/.timelockd.priv.key")),
		"Path to the private key file. You can use TIMELOCKD_PRIV_KEY environment variable to set it.")
}

func cmdKeygen(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Generate a new private key and print its address.

This command fails if the private key file already exists.
`)
		fl.PrintDefaults()
	}
	keyPathFl := keyFlag(fl)
	fl.Parse(args)

	if _, err := os.Stat(*keyPathFl); !os.IsNotExist(err) {
		// Never overwrite a key, it might be the only copy.
		return errors.Wrapf(errors.ErrDuplicate, "private key file %q already exists", *keyPathFl)
	}

	key := crypto.GenPrivKeyEd25519()
	raw, err := cdc.MarshalJSONIndent(keyFile{
		Address: key.PublicKey().Address().String(),
		Ed25519: key.Ed25519,
	}, "", "  ")
	if err != nil {
		return errors.Wrap(errors.ErrModel, err.Error())
	}
	if err := ioutil.WriteFile(*keyPathFl, raw, 0600); err != nil {
		return errors.Wrapf(errors.ErrInput, "cannot write private key file: %s", err)
	}
	_, err = fmt.Fprintln(output, key.PublicKey().Address())
	return err
}

// loadKey reads a private key file created by the keygen command.
func loadKey(path string) (*crypto.PrivateKey, error) {
	raw, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "cannot read private key file: %s", err)
	}
	var kf keyFile
	if err := cdc.UnmarshalJSON(raw, &kf); err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "cannot decode private key file: %s", err)
	}
	if len(kf.Ed25519) != ed25519.PrivateKeySize {
		return nil, errors.Wrapf(errors.ErrInput, "invalid private key length: %d", len(kf.Ed25519))
	}
	return &crypto.PrivateKey{Ed25519: kf.Ed25519}, nil
}
