// Package mcfgfile loads Multiple Context-Free Grammars from a TOML-based
// file format, grounded on the teacher's tqw package: a raw TOML struct is
// unmarshaled from disk and then converted into the domain type, keeping the
// on-disk shape and the in-memory grammar model independent of each other.
package mcfgfile

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/mgershovitz/MCFGParser/internal/mcfg/grammar"
	"github.com/mgershovitz/MCFGParser/internal/mcfgerrors"
)

// rawComponent is one component of a function's result vector as written in
// a TOML file: a list of atom strings, each either a bare terminal or a
// Name(index) placeholder, parsed by grammar.ParseAtom.
type rawComponent struct {
	Atoms []string `toml:"atoms"`
}

type rawFunction struct {
	Name       string         `toml:"name"`
	FormalArgs []string       `toml:"args"`
	Result     []rawComponent `toml:"result"`
}

type rawRule struct {
	Symbol   string   `toml:"symbol"`
	Terminal string   `toml:"terminal"`
	Func     string   `toml:"func"`
	Vars     []string `toml:"vars"`
}

// topLevel is the root structure of an MCFG grammar TOML file.
type topLevel struct {
	Format    string        `toml:"format"`
	Start     string        `toml:"start"`
	Terminals []string      `toml:"terminals"`
	Functions []rawFunction `toml:"function"`
	Rules     []rawRule     `toml:"rule"`
}

// ExpectedFormat is the value topLevel.Format must have for Load to accept
// the file.
const ExpectedFormat = "MCFG"

// Load reads a grammar definition from the TOML file at path and builds a
// simplified grammar.Grammar from it, per spec section 6's construction
// rules.
func Load(path string) (grammar.Grammar, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return grammar.Grammar{}, err
	}
	return Parse(data)
}

// Parse builds a grammar.Grammar from raw TOML-encoded bytes.
func Parse(data []byte) (grammar.Grammar, error) {
	var raw topLevel
	if _, err := toml.Decode(string(data), &raw); err != nil {
		return grammar.Grammar{}, mcfgerrors.Wrap(err, mcfgerrors.KindMalformedGrammar, "invalid grammar file: %v", err)
	}
	if raw.Format != "" && raw.Format != ExpectedFormat {
		return grammar.Grammar{}, mcfgerrors.New(mcfgerrors.KindMalformedGrammar, "unsupported grammar file format %q, expected %q", raw.Format, ExpectedFormat)
	}

	functions := make([]grammar.Function, len(raw.Functions))
	for i, rf := range raw.Functions {
		result := make([]grammar.Component, len(rf.Result))
		for ci, rc := range rf.Result {
			comp := make(grammar.Component, len(rc.Atoms))
			for ai, a := range rc.Atoms {
				atom, err := grammar.ParseAtom(a)
				if err != nil {
					return grammar.Grammar{}, fmt.Errorf("function %q: result component %d, atom %d: %w", rf.Name, ci, ai, err)
				}
				comp[ai] = atom
			}
			result[ci] = comp
		}
		functions[i] = grammar.Function{
			Name:       rf.Name,
			FormalArgs: rf.FormalArgs,
			Result:     result,
		}
	}

	rules := make([]grammar.Rule, len(raw.Rules))
	for i, rr := range raw.Rules {
		switch {
		case rr.Func != "":
			rules[i] = grammar.NewFunctional(rr.Symbol, rr.Func, rr.Vars)
		case rr.Terminal != "":
			rules[i] = grammar.NewTerminating(rr.Symbol, rr.Terminal)
		default:
			return grammar.Grammar{}, mcfgerrors.New(mcfgerrors.KindMalformedGrammar, "rule %q declares neither a terminal nor a function", rr.Symbol)
		}
	}

	return grammar.BuildGrammar(raw.Terminals, functions, rules, raw.Start)
}
