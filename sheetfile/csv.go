package sheetfile

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/csimplestring/go-csv/detector"

	"github.com/zephyrtronium/cellcalc"
	"github.com/zephyrtronium/cellcalc/sheet"
)

// delimiters are the CSV delimiters DecodeCSV accepts, in order of preference.
const delimiters = ",;\t|"

// DecodeCSV reads a CSV document. Each field becomes the content of the cell
// at its row and column; empty fields are empty cells. The delimiter is
// detected from the first lines of the input and defaults to a comma.
func DecodeCSV(r io.Reader) (*Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = detectDelimiter(data)
	reader.FieldsPerRecord = -1

	doc := Document{}
	for row := 0; ; row++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		for col, field := range record {
			if field == "" {
				continue
			}
			ref := cellcalc.Ref{Row: row, Col: col}
			if !ref.Valid() {
				return nil, fmt.Errorf("csv line %d field %d: %w", row+1, col+1, sheet.ErrOutOfRange)
			}
			doc.Cells = append(doc.Cells, Cell{Ref: ref, Formula: field})
		}
	}
	return &doc, nil
}

// detectDelimiter picks the delimiter of CSV data. Formulas contain operator
// characters that can look like delimiters, so only the usual delimiters are
// considered.
func detectDelimiter(data []byte) rune {
	found := detector.New().DetectDelimiter(bytes.NewReader(data), '"')
	best := ','
	rank := len(delimiters)
	for _, d := range found {
		if i := strings.Index(delimiters, d); d != "" && i >= 0 && i < rank {
			best, rank = rune(delimiters[i]), i
		}
	}
	return best
}

// WriteCSV writes the displayed values of a sheet as CSV, one record per row up
// to the last populated row and one field per column up to the last populated
// column.
func WriteCSV(w io.Writer, s *sheet.Sheet) error {
	refs := s.Refs()
	if len(refs) == 0 {
		return nil
	}
	rows, cols := 0, 0
	for _, ref := range refs {
		rows = max(rows, ref.Row+1)
		cols = max(cols, ref.Col+1)
	}
	cw := csv.NewWriter(w)
	record := make([]string, cols)
	for row := 0; row < rows; row++ {
		for col := range record {
			record[col] = s.Display(cellcalc.Ref{Row: row, Col: col})
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
