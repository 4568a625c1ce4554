package live

import (
	"github.com/zephyrtronium/cellcalc/sheet"
)

// Operations a client may request.
const (
	OpSet         = "set"
	OpRecalculate = "recalculate"
	OpSnapshot    = "snapshot"
)

// Request is a message from a client.
type Request struct {
	Op      string `json:"op"`
	Cell    string `json:"cell,omitempty"`
	Formula string `json:"formula,omitempty"`
}

// Message types sent to clients.
const (
	TypeCells = "cells"
	TypeError = "error"
)

// Message is a message to a client: either the state of every populated cell
// or an error in response to a bad request.
type Message struct {
	Type  string      `json:"type"`
	Cells []CellState `json:"cells,omitempty"`
	Error string      `json:"error,omitempty"`
}

// CellState is the state of one cell as clients see it. Kind is "number",
// "text", or "invalid", so that clients can align numbers and text
// differently.
type CellState struct {
	Cell    string `json:"cell"`
	Formula string `json:"formula"`
	Kind    string `json:"kind"`
	Display string `json:"display"`
}

func snapshot(s *sheet.Sheet) Message {
	entries := s.Entries()
	m := Message{Type: TypeCells, Cells: make([]CellState, len(entries))}
	for i, e := range entries {
		m.Cells[i] = CellState{
			Cell:    e.Ref.String(),
			Formula: e.Formula,
			Kind:    e.Value.Kind().String(),
			Display: e.Value.String(),
		}
	}
	return m
}

func errorMessage(err error) Message {
	return Message{Type: TypeError, Error: err.Error()}
}
