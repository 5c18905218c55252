package pinout

import "github.com/alecthomas/participle/v2/lexer"

// Rules is a parsed rules file.
//
// Example:
//
//	# shorten TIM1_CH1 to T1_CH1
//	shorten "((?:HR|LP)?T)IM";
//	factor "ADC(\d)_IN[NP]?\d+";
//	factor "[SUT]\d_(.+)" sep "/";
//	exclude "SYS";
type Rules struct {
	Rules []*Rule `parser:"@@*"`
}

// Rule is one statement of a rules file.
type Rule struct {
	Pos lexer.Position

	Shorten *ShortenRule `parser:"  @@"`
	Factor  *FactorRule  `parser:"| @@"`
	Exclude *ExcludeRule `parser:"| @@"`
}

// ShortenRule shortens a signal name prefix. The pattern must have a group
// for the kept part; it only applies when followed by a digit or underscore.
type ShortenRule struct {
	Pattern string `parser:"\"shorten\" @String Semicolon"`
}

// FactorRule merges signals that only differ by the first group of the
// pattern.
type FactorRule struct {
	Pattern   string  `parser:"\"factor\" @String"`
	Separator *string `parser:"( \"sep\" @String )? Semicolon"`
}

// ExcludeRule drops signals of a peripheral.
type ExcludeRule struct {
	Pattern string `parser:"\"exclude\" @String Semicolon"`
}

// Sep returns the separator used to join merged terms.
func (r *FactorRule) Sep() string {
	if r.Separator == nil {
		return ""
	}
	return *r.Separator
}
