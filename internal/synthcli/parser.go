package synthcli

import (
	"fmt"

	"github.com/alecthomas/participle/v2"
	"github.com/pkg/errors"
)

var synthParser = buildParser()

func buildParser() *participle.Parser[Program] {
	p, err := participle.Build[Program](
		participle.Lexer(synthLexer),
		participle.Elide("Whitespace", "Comment"),
		participle.UseLookahead(4),
	)
	if err != nil {
		panic(fmt.Errorf("synthcli: grammar failed to build: %w", err))
	}
	return p
}

// Parse parses one .synth source file into its AST. It does not resolve
// identifiers or build expr.Expr/types.Type values — call Build on the
// result for that.
func Parse(name, src string) (*Program, error) {
	prog, err := synthParser.ParseString(name, src)
	if err != nil {
		return nil, errors.Wrapf(err, "synthcli: parsing %s", name)
	}
	return prog, nil
}
