package spec

import "fmt"

type SyntaxError struct {
	message string
}

func newSyntaxError(message string) *SyntaxError {
	return &SyntaxError{
		message: message,
	}
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("syntax error: %s", e.message)
}

var (
	// lexical errors
	synErrUnclosedTerminal = newSyntaxError("unclosed terminal")
	synErrEmptyTerminal    = newSyntaxError("a quoted terminal must include at least one character")
	synErrInvalidChar      = newSyntaxError("invalid character")

	// syntax errors
	synErrInvalidToken       = newSyntaxError("invalid token")
	synErrNoProduction       = newSyntaxError("a grammar must have at least one production")
	synErrNoProductionName   = newSyntaxError("a production name is missing")
	synErrNoArrow            = newSyntaxError("an arrow (->) must precede alternatives")
	synErrNoNewline          = newSyntaxError("a production must be followed by a newline")
	synErrNoDirectiveName    = newSyntaxError("a directive needs a name")
	synErrUnknownDirective   = newSyntaxError("unknown directive")
	synErrDirectiveParam     = newSyntaxError("a directive takes just one name")
	synErrDirectiveAfterProd = newSyntaxError("directives must precede productions")
)
