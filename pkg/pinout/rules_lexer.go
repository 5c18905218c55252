package pinout

import (
	"github.com/alecthomas/participle/v2/lexer"
)

// RulesLexer defines the lexical structure of signal filter rules files.
//
// Strings hold regular expressions, so backslashes are kept verbatim; only
// \" is an escape.
var RulesLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Comment", Pattern: `#[^\n]*`},
	{Name: "Whitespace", Pattern: `[\s]+`},

	{Name: "String", Pattern: `"(?:[^"\\]|\\.)*"`},
	{Name: "Ident", Pattern: `[a-zA-Z_][a-zA-Z0-9_]*`},
	{Name: "Semicolon", Pattern: `;`},
})
