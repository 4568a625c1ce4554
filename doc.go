// Package cellcalc implements the formula language of a spreadsheet cell.
//
// Cell content takes one of three forms. Content beginning with a single
// quote is text: 'hello is the text "hello", and '42 is the text "42".
// Content beginning with '=' is a formula. Anything else is a number if it
// looks like one, and text otherwise.
//
// Formulas use the four arithmetic operators, unary minus, parentheses,
// decimal numbers, and references to other cells like A1 or z999: one letter
// for the column and one to three digits for the row. Whitespace is ignored
// everywhere, so "= 1 2 + 3" is 15. A reference to an empty cell is 0.
//
// Evaluation never fails with an error. A malformed formula, arithmetic on
// text, or division by zero produces Invalid, and any arithmetic involving
// Invalid is Invalid, so a single mistake anywhere in a formula makes the
// whole cell Invalid. Hosts conventionally display Invalid as "####".
//
// Cell caches values and breaks reference cycles. Grids that host cells live
// elsewhere; see package sheet.
package cellcalc
