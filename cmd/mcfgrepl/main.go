/*
Mcfgrepl starts an interactive MCFG parsing session.

It loads a grammar from a TOML grammar file and then reads lines of input
from stdin, parsing each against the loaded grammar and printing the
resulting derivation trace or a rejection message.

Usage:

	mcfgrepl [flags]

The flags are:

	-v, --version
		Give the current version of mcfgrepl and then exit.

	-g, --grammar FILE
		Use the provided MCFG grammar TOML file. Defaults to "grammar.toml" in
		the current working directory.

	-d, --direct
		Force reading directly from the console as opposed to using GNU
		readline based routines for reading input, even when launched in a
		tty with stdin and stdout.

	-c, --command INPUT
		Immediately parse the given input at start and leave the interpreter
		open.

Once a session has started, each line of input is tokenized and parsed
against the loaded grammar. To exit, type "QUIT".
*/
package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/chzyer/readline"
	"github.com/dekarrin/rosed"
	"github.com/spf13/pflag"

	mcfg "github.com/mgershovitz/MCFGParser"
	"github.com/mgershovitz/MCFGParser/internal/mcfgfile"
	"github.com/mgershovitz/MCFGParser/internal/version"
)

const (
	ExitSuccess = iota
	ExitParseError
	ExitInitError
)

const consoleOutputWidth = 80

var (
	flagVersion    = pflag.BoolP("version", "v", false, "Gives the version info")
	grammarFile    = pflag.StringP("grammar", "g", "grammar.toml", "The MCFG grammar TOML file to load")
	forceDirect    = pflag.BoolP("direct", "d", false, "Force reading directly from stdin instead of going through GNU readline where possible")
	startCommand   = pflag.StringP("command", "c", "", "Parse the given input immediately at start and leave the interpreter open")
	returnCode int = ExitSuccess
)

// commandReader is the subset of behavior this REPL needs from either an
// interactive readline session or a direct stdin reader, grounded on the
// teacher's internal/input.CommandReader pair.
type commandReader interface {
	ReadLine() (string, error)
	Close() error
}

type directReader struct {
	r *bufio.Reader
}

func (d directReader) ReadLine() (string, error) {
	line, err := d.r.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func (d directReader) Close() error { return nil }

type interactiveReader struct {
	rl *readline.Instance
}

func (i interactiveReader) ReadLine() (string, error) {
	line, err := i.rl.Readline()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func (i interactiveReader) Close() error { return i.rl.Close() }

func newReader(direct bool) (commandReader, error) {
	if direct || !isatty(os.Stdin) {
		return directReader{r: bufio.NewReader(os.Stdin)}, nil
	}
	rl, err := readline.NewEx(&readline.Config{Prompt: "mcfg> "})
	if err != nil {
		return nil, fmt.Errorf("create readline config: %w", err)
	}
	return interactiveReader{rl: rl}, nil
}

func isatty(f *os.File) bool {
	fi, err := f.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}

func main() {
	defer func() {
		if panicErr := recover(); panicErr != nil {
			panic(fmt.Sprintf("unrecoverable panic occurred: %v", panicErr))
		} else {
			os.Exit(returnCode)
		}
	}()

	pflag.Parse()

	if *flagVersion {
		fmt.Printf("%s\n", version.Current)
		return
	}

	g, err := mcfgfile.Load(*grammarFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
		returnCode = ExitInitError
		return
	}

	reader, err := newReader(*forceDirect)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
		returnCode = ExitInitError
		return
	}
	defer reader.Close()

	if *startCommand != "" {
		for _, cmd := range strings.Split(*startCommand, ";") {
			runOne(g, strings.TrimSpace(cmd))
		}
	}

	for {
		line, err := reader.ReadLine()
		if err != nil {
			if errors.Is(err, io.EOF) || strings.Contains(err.Error(), "Interrupt") {
				break
			}
			fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
			returnCode = ExitParseError
			break
		}
		if line == "" {
			continue
		}
		if strings.EqualFold(line, "QUIT") {
			break
		}
		runOne(g, line)
	}

	fmt.Println("Goodbye")
}

func runOne(g mcfg.Grammar, input string) {
	if input == "" {
		return
	}
	tr, ok, err := mcfg.ParseString(g, input)
	if err != nil {
		printWrapped(fmt.Sprintf("error: %s", err.Error()))
		return
	}
	if !ok {
		printWrapped(fmt.Sprintf("%q is not in the language", input))
		return
	}
	fmt.Println(tr.String())
}

func printWrapped(msg string) {
	fmt.Println(rosed.Edit(msg).Wrap(consoleOutputWidth).String())
}
