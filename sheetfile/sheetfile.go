// Package sheetfile reads and writes sheets as HCL or CSV documents.
//
// An HCL sheet file has an optional sheet block with settings and one cell
// block per populated cell:
//
//	sheet {
//	  rows               = 100
//	  columns            = 10
//	  auto_recalculate   = false
//	  track_dependencies = true
//	}
//
//	cell "A1" {
//	  formula = "=B1*2"
//	}
//
// Files written with values also carry each cell's value as of the save, as
// value = 14 or value = "text", or invalid = true. Those are informational;
// cells are always recomputed from their formulas.
package sheetfile

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/hashicorp/hcl/v2/hclwrite"
	"github.com/zclconf/go-cty/cty"

	"github.com/zephyrtronium/cellcalc"
	"github.com/zephyrtronium/cellcalc/sheet"
)

// Document is a decoded sheet file.
type Document struct {
	// Rows and Cols are the sheet size. Zero means the default size.
	Rows, Cols int
	// AutoRecalculate and TrackDependencies are the sheet settings, or nil
	// where the file does not set them.
	AutoRecalculate   *bool
	TrackDependencies *bool
	// Cells are the populated cells in file order.
	Cells []Cell
}

// Cell is one cell of a document.
type Cell struct {
	Ref     cellcalc.Ref
	Formula string
	// Saved is the value recorded when the file was written, if HasSaved.
	Saved    cellcalc.Value
	HasSaved bool
}

// fileRoot is the top-level schema of an HCL sheet file.
type fileRoot struct {
	Sheet *sheetBlock  `hcl:"sheet,block"`
	Cells []*cellBlock `hcl:"cell,block"`
}

type sheetBlock struct {
	Rows              *int  `hcl:"rows,optional"`
	Columns           *int  `hcl:"columns,optional"`
	AutoRecalculate   *bool `hcl:"auto_recalculate,optional"`
	TrackDependencies *bool `hcl:"track_dependencies,optional"`
}

type cellBlock struct {
	Name    string    `hcl:"name,label"`
	Formula string    `hcl:"formula"`
	Value   cty.Value `hcl:"value,optional"`
	Invalid *bool     `hcl:"invalid,optional"`
}

// Decode parses an HCL sheet document. filename is used in diagnostics.
func Decode(src []byte, filename string) (*Document, error) {
	parser := hclparse.NewParser()
	f, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse sheet file %s: %w", filename, diags)
	}
	var root fileRoot
	diags = gohcl.DecodeBody(f.Body, nil, &root)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode sheet file %s: %w", filename, diags)
	}

	doc := Document{Cells: make([]Cell, 0, len(root.Cells))}
	if b := root.Sheet; b != nil {
		if b.Rows != nil {
			if *b.Rows < 1 || *b.Rows > cellcalc.MaxRows {
				return nil, fmt.Errorf("sheet file %s: rows must be between 1 and %d, have %d", filename, cellcalc.MaxRows, *b.Rows)
			}
			doc.Rows = *b.Rows
		}
		if b.Columns != nil {
			if *b.Columns < 1 || *b.Columns > cellcalc.MaxCols {
				return nil, fmt.Errorf("sheet file %s: columns must be between 1 and %d, have %d", filename, cellcalc.MaxCols, *b.Columns)
			}
			doc.Cols = *b.Columns
		}
		doc.AutoRecalculate = b.AutoRecalculate
		doc.TrackDependencies = b.TrackDependencies
	}
	seen := make(map[cellcalc.Ref]bool, len(root.Cells))
	for _, c := range root.Cells {
		ref, ok := cellcalc.ParseRef(c.Name)
		if !ok {
			return nil, fmt.Errorf("sheet file %s: invalid cell name %q", filename, c.Name)
		}
		if seen[ref] {
			return nil, fmt.Errorf("sheet file %s: duplicate cell %v", filename, ref)
		}
		seen[ref] = true
		cell := Cell{Ref: ref, Formula: c.Formula}
		cell.Saved, cell.HasSaved = savedValue(c)
		doc.Cells = append(doc.Cells, cell)
	}
	return &doc, nil
}

// savedValue converts the recorded value of a cell block.
func savedValue(c *cellBlock) (cellcalc.Value, bool) {
	if c.Invalid != nil && *c.Invalid {
		return cellcalc.Invalid, true
	}
	v := c.Value
	if v.IsNull() || !v.IsKnown() {
		return cellcalc.Invalid, false
	}
	switch v.Type() {
	case cty.Number:
		f, _ := v.AsBigFloat().Float64()
		return cellcalc.Number(f), true
	case cty.String:
		return cellcalc.Text(v.AsString()), true
	default:
		return cellcalc.Invalid, false
	}
}

// Load reads a sheet file. Files ending in .csv are read as CSV; anything else
// is HCL.
func Load(path string) (*Document, error) {
	if strings.EqualFold(filepath.Ext(path), ".csv") {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		doc, err := DecodeCSV(f)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}
		return doc, nil
	}
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Decode(src, path)
}

// Options returns the sheet options the document sets.
func (d *Document) Options() []sheet.Option {
	var opts []sheet.Option
	if d.Rows != 0 || d.Cols != 0 {
		rows, cols := d.Rows, d.Cols
		if rows == 0 {
			rows = cellcalc.MaxRows
		}
		if cols == 0 {
			cols = cellcalc.MaxCols
		}
		opts = append(opts, sheet.WithSize(rows, cols))
	}
	if d.AutoRecalculate != nil {
		opts = append(opts, sheet.WithAutoRecalculate(*d.AutoRecalculate))
	}
	if d.TrackDependencies != nil {
		opts = append(opts, sheet.WithDependencyTracking(*d.TrackDependencies))
	}
	return opts
}

// Build creates a sheet holding the document's cells. opts apply after the
// document's own settings.
func (d *Document) Build(opts ...sheet.Option) (*sheet.Sheet, error) {
	s := sheet.New(append(d.Options(), opts...)...)
	for _, c := range d.Cells {
		if err := s.Set(c.Ref, c.Formula); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Encode writes a sheet as an HCL document. With withValues, each cell also
// records its current value.
func Encode(s *sheet.Sheet, withValues bool) []byte {
	f := hclwrite.NewEmptyFile()
	body := f.Body()
	sb := body.AppendNewBlock("sheet", nil).Body()
	sb.SetAttributeValue("rows", cty.NumberIntVal(int64(s.Rows())))
	sb.SetAttributeValue("columns", cty.NumberIntVal(int64(s.Cols())))
	sb.SetAttributeValue("auto_recalculate", cty.BoolVal(s.AutoRecalculate()))
	sb.SetAttributeValue("track_dependencies", cty.BoolVal(s.TracksDependencies()))
	for _, e := range s.Entries() {
		body.AppendNewline()
		cb := body.AppendNewBlock("cell", []string{e.Ref.String()}).Body()
		cb.SetAttributeValue("formula", cty.StringVal(e.Formula))
		if !withValues {
			continue
		}
		switch e.Value.Kind() {
		case cellcalc.KindNumber:
			n, _ := e.Value.Num()
			cb.SetAttributeValue("value", cty.NumberFloatVal(n))
		case cellcalc.KindText:
			t, _ := e.Value.Text()
			cb.SetAttributeValue("value", cty.StringVal(t))
		default:
			cb.SetAttributeValue("invalid", cty.True)
		}
	}
	return hclwrite.Format(f.Bytes())
}
