package grammar

type SemanticError struct {
	message string
}

func newSemanticError(message string) *SemanticError {
	return &SemanticError{
		message: message,
	}
}

func (e *SemanticError) Error() string {
	return e.message
}

var (
	semErrNoProduction        = newSemanticError("a grammar needs at least one production")
	semErrUndefinedSym        = newSemanticError("undefined symbol")
	semErrUndefinedStart      = newSemanticError("the start symbol must be a non-terminal having productions")
	semErrReservedSym         = newSemanticError("a reserved symbol cannot be used here")
	semErrDuplicateProduction = newSemanticError("duplicate production")
	semErrDuplicateName       = newSemanticError("duplicate names are not allowed between terminals and non-terminals")
	semErrDuplicateDir        = newSemanticError("a directive cannot be specified more than once")
	semErrInvalidName         = newSemanticError("a grammar name must consist of lower-case letters, digits, and underscores")
)
