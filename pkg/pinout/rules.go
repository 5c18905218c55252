package pinout

import (
	_ "embed"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

//go:embed default.rules
var defaultRules string

// DefaultRulesText returns the source of the built-in rules.
func DefaultRulesText() string {
	return defaultRules
}

// RulesParser parses signal filter rules files.
type RulesParser struct {
	parser *participle.Parser[Rules]
}

// NewRulesParser creates a new rules parser instance
func NewRulesParser() (*RulesParser, error) {
	parser, err := participle.Build[Rules](
		participle.Lexer(RulesLexer),
		participle.Elide("Comment", "Whitespace"),
		participle.Map(unquote, "String"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to build rules parser: %w", err)
	}
	return &RulesParser{parser: parser}, nil
}

// unquote strips the surrounding quotes and resolves \" escapes. Other
// backslashes belong to the regular expression.
func unquote(tok lexer.Token) (lexer.Token, error) {
	v := tok.Value
	if len(v) >= 2 && v[0] == '"' && v[len(v)-1] == '"' {
		v = v[1 : len(v)-1]
	}
	tok.Value = strings.ReplaceAll(v, `\"`, `"`)
	return tok, nil
}

// Parse parses rules from a reader. name is used in error positions.
func (p *RulesParser) Parse(name string, r io.Reader) (*Rules, error) {
	rules, err := p.parser.Parse(name, r)
	if err != nil {
		return nil, fmt.Errorf("rules parse error: %w", err)
	}
	return rules, nil
}

// ParseString parses rules from a string
func (p *RulesParser) ParseString(name, input string) (*Rules, error) {
	rules, err := p.parser.ParseString(name, input)
	if err != nil {
		return nil, fmt.Errorf("rules parse error: %w", err)
	}
	return rules, nil
}

// ParseFile parses rules from a file path
func (p *RulesParser) ParseFile(filename string) (*Rules, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open rules file: %w", err)
	}
	defer file.Close()

	return p.Parse(filename, file)
}

// DefaultRules parses the built-in rules.
func DefaultRules() (*Rules, error) {
	p, err := NewRulesParser()
	if err != nil {
		return nil, err
	}
	return p.ParseString("default.rules", defaultRules)
}
