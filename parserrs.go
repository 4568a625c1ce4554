package cellcalc

import "strconv"

// OperandError is an error indicating a missing or malformed operand: a word
// that is neither a reference nor a number, or no word at all where an
// operand was expected. It implements InputError.
type OperandError struct {
	// Col is the position of the token where the operand was expected.
	Col int
	// Text is the malformed word, or the empty string if there was none.
	Text string
}

func (err *OperandError) Error() string {
	if err.Text == "" {
		return errpos(err.Col, "missing operand")
	}
	return errpos(err.Col, "invalid operand "+strconv.Quote(err.Text))
}

func (err *OperandError) Pos() int {
	return err.Col
}

// BracketError is an error indicating an open parenthesis which is not
// matched by a close parenthesis. It implements InputError.
type BracketError struct {
	// Col is the position of the token found instead of the close
	// parenthesis.
	Col int
	// Open is the position of the open parenthesis.
	Open int
	// Right is the token found instead of the close parenthesis. It is the
	// empty string at the end of the input.
	Right string
}

func (err *BracketError) Error() string {
	if err.Right == "" {
		return errpos(err.Col, "open bracket at "+strconv.Itoa(err.Open)+" with no close bracket")
	}
	return errpos(err.Col, "expected close bracket for "+strconv.Itoa(err.Open)+", found "+strconv.Quote(err.Right))
}

func (err *BracketError) Pos() int {
	return err.Col
}

// TrailingError is an error indicating input left over after a complete
// expression. It implements InputError.
type TrailingError struct {
	// Col is the position of the first unconsumed token.
	Col int
	// Text is the first unconsumed token.
	Text string
}

func (err *TrailingError) Error() string {
	return errpos(err.Col, "unexpected "+strconv.Quote(err.Text)+" after expression")
}

func (err *TrailingError) Pos() int {
	return err.Col
}

// errpos is a shortcut to create an error message with a position.
func errpos(pos int, msg string) string {
	return strconv.Itoa(pos) + ": " + msg
}

// InputError is an error with position information. Every syntax error in a
// formula implements InputError.
type InputError interface {
	error
	// Pos returns the position of the error as the number of runes up to and
	// including the start of the token that caused the error.
	Pos() int
}

var (
	_ InputError = (*OperandError)(nil)
	_ InputError = (*BracketError)(nil)
	_ InputError = (*TrailingError)(nil)
)
