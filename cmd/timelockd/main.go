/*
Command timelockd manages a time-locked custody ledger stored in a local
directory.

Every command opens the ledger state stored in the home directory, applies a
single operation and exits. Transactions are signed with an ed25519 key kept
in a key file created by the keygen command.

	$ timelockd keygen -key alice.key
	$ timelockd init -genesis genesis.json
	$ timelockd lock -key alice.key -amount 200 -for 3600
	$ timelockd show -key alice.key
*/
package main

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/iov-one/timelock/errors"
)

// commands is a register of all available commands. The name is matched
// against the first argument.
//
// A command function reads only from the given input and writes only to
// the given output. Arguments are the command line arguments without the
// program and the command name.
var commands = map[string]func(input io.Reader, output io.Writer, args []string) error{
	"balance": cmdBalance,
	"init":    cmdInit,
	"keygen":  cmdKeygen,
	"list":    cmdList,
	"lock":    cmdLock,
	"retain":  cmdRetain,
	"show":    cmdShow,
	"unlock":  cmdUnlock,
	"version": cmdVersion,
}

func main() {
	if len(os.Args) == 1 {
		fmt.Fprintf(os.Stderr, "%s manages a time-locked custody ledger.\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Usage: %s <command> [<flags>]\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\nAvailable commands are:\n\t%s\n", strings.Join(availableCmds(), "\n\t"))
		fmt.Fprintf(os.Stderr, "Run '%s <command> -help' to learn more about each command.\n", os.Args[0])
		os.Exit(2)
	}
	run, ok := commands[os.Args[1]]
	if !ok {
		fmt.Fprintf(os.Stderr, "Unknown command %q\n", os.Args[1])
		fmt.Fprintf(os.Stderr, "\nAvailable commands are:\n\t%s\n", strings.Join(availableCmds(), "\n\t"))
		os.Exit(2)
	}

	if err := run(os.Stdin, os.Stdout, os.Args[2:]); err != nil {
		code, log := errors.ABCIInfo(err, os.Getenv("TIMELOCKD_DEBUG") != "")
		fmt.Fprintf(os.Stderr, "error %d: %s\n", code, log)
		os.Exit(1)
	}
}

func availableCmds() []string {
	available := make([]string, 0, len(commands))
	for name := range commands {
		available = append(available, name)
	}
	sort.Strings(available)
	return available
}

func cmdVersion(in io.Reader, out io.Writer, args []string) error {
	fmt.Fprintln(out, gitHash)
	return nil
}

// gitHash is set during the compilation time.
var gitHash = "dev"
