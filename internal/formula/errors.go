package formula

import "fmt"

// ParseError represents a syntax or validation error in a move formula.
// Position is the byte offset of the offending token in the input text.
type ParseError struct {
	Message  string
	Position int
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s at index %d", e.Message, e.Position)
}

func parseErrorf(position int, format string, args ...any) *ParseError {
	return &ParseError{Message: fmt.Sprintf(format, args...), Position: position}
}
