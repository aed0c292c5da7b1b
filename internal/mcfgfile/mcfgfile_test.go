package mcfgfile

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mgershovitz/MCFGParser/internal/mcfgerrors"
)

const validGrammar = `
format = "MCFG"
start = "S"
terminals = ["a", "b"]

[[function]]
name = "base"
args = []
[[function.result]]
atoms = ["a"]
[[function.result]]
atoms = ["b"]

[[function]]
name = "wrap"
args = ["T"]
[[function.result]]
atoms = ["a", "T(0)"]
[[function.result]]
atoms = ["T(1)", "b"]

[[rule]]
symbol = "S"
func = "base"
vars = []

[[rule]]
symbol = "S"
func = "wrap"
vars = ["S"]
`

func Test_Parse_BuildsGrammarFromValidTOML(t *testing.T) {
	assert := assert.New(t)

	g, err := Parse([]byte(validGrammar))
	assert.NoError(err)
	assert.Equal("S", g.StartSymbol())
	assert.Len(g.RulesFor("S"), 2)
}

func Test_Parse_RejectsWrongFormat(t *testing.T) {
	assert := assert.New(t)

	_, err := Parse([]byte(`format = "OTHER"
start = "S"
terminals = ["a"]
[[rule]]
symbol = "S"
terminal = "a"
`))

	assert.Error(err)
	assert.True(errors.Is(err, mcfgerrors.Malformed))
}

func Test_Parse_RejectsMalformedTOML(t *testing.T) {
	assert := assert.New(t)

	_, err := Parse([]byte("this is not valid toml {{{"))
	assert.Error(err)
	assert.True(errors.Is(err, mcfgerrors.Malformed))
}

func Test_Parse_RejectsRuleWithNeitherTerminalNorFunc(t *testing.T) {
	assert := assert.New(t)

	_, err := Parse([]byte(`start = "S"
terminals = ["a"]
[[rule]]
symbol = "S"
`))

	assert.Error(err)
	assert.True(errors.Is(err, mcfgerrors.Malformed))
}

func Test_Parse_RejectsBadPlaceholderAtom(t *testing.T) {
	assert := assert.New(t)

	_, err := Parse([]byte(`start = "S"
terminals = ["a"]

[[function]]
name = "f"
args = ["T"]
[[function.result]]
atoms = ["("]

[[rule]]
symbol = "S"
func = "f"
vars = ["S"]
`))

	assert.Error(err)
}

func Test_Parse_AcceptsTerminatingRuleWithoutFunctions(t *testing.T) {
	assert := assert.New(t)

	g, err := Parse([]byte(`start = "S"
terminals = ["a"]

[[rule]]
symbol = "S"
terminal = "a"
`))

	assert.NoError(err)
	assert.Equal("a", g.RulesFor("S")[0].Terminal)
}

func Test_Load_MissingFileReturnsError(t *testing.T) {
	assert := assert.New(t)

	_, err := Load("/nonexistent/path/to/grammar.toml")
	assert.Error(err)
}
