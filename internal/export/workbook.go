package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

type tone int

const (
	plain tone = iota
	danger
	success
)

const (
	headerFill  = "2563EB"
	dangerFont  = "DC2626"
	successFont = "166534"
)

type column struct {
	title string
	width float64
}

type cell struct {
	value any
	tone  tone
}

// table is one sheet: a styled header row and one row per record.
type table struct {
	sheet   string
	columns []column
	rows    [][]cell
}

type styles struct {
	header  int
	plain   int
	danger  int
	success int
}

func newStyles(f *excelize.File) (styles, error) {
	border := []excelize.Border{
		{Type: "left", Color: "000000", Style: 1},
		{Type: "top", Color: "000000", Style: 1},
		{Type: "bottom", Color: "000000", Style: 1},
		{Type: "right", Color: "000000", Style: 1},
	}
	center := &excelize.Alignment{Horizontal: "center", Vertical: "center"}

	var s styles
	var err error
	if s.header, err = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF", Size: 12},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{headerFill}, Pattern: 1},
		Alignment: center,
		Border:    border,
	}); err != nil {
		return s, fmt.Errorf("header style: %w", err)
	}
	if s.plain, err = f.NewStyle(&excelize.Style{Alignment: center, Border: border}); err != nil {
		return s, fmt.Errorf("cell style: %w", err)
	}
	if s.danger, err = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: dangerFont},
		Alignment: center,
		Border:    border,
	}); err != nil {
		return s, fmt.Errorf("danger style: %w", err)
	}
	if s.success, err = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: successFont},
		Alignment: center,
		Border:    border,
	}); err != nil {
		return s, fmt.Errorf("success style: %w", err)
	}
	return s, nil
}

func (s styles) pick(t tone) int {
	switch t {
	case danger:
		return s.danger
	case success:
		return s.success
	}
	return s.plain
}

// build renders t into a new workbook. The caller closes it.
func (t table) build() (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName(f.GetSheetName(0), t.sheet); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("name sheet: %w", err)
	}
	st, err := newStyles(f)
	if err != nil {
		_ = f.Close()
		return nil, err
	}

	header := make([]any, len(t.columns))
	for i, c := range t.columns {
		header[i] = c.title
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			_ = f.Close()
			return nil, err
		}
		if err := f.SetColWidth(t.sheet, col, col, c.width); err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("column width: %w", err)
		}
	}
	if err := t.writeRow(f, 1, header); err != nil {
		_ = f.Close()
		return nil, err
	}
	if err := t.styleRange(f, 1, 1, len(t.columns), st.header); err != nil {
		_ = f.Close()
		return nil, err
	}

	for i, row := range t.rows {
		rowNum := i + 2
		values := make([]any, len(row))
		for j, c := range row {
			values[j] = c.value
		}
		if err := t.writeRow(f, rowNum, values); err != nil {
			_ = f.Close()
			return nil, err
		}
		for j, c := range row {
			if err := t.styleRange(f, rowNum, j+1, j+1, st.pick(c.tone)); err != nil {
				_ = f.Close()
				return nil, err
			}
		}
	}
	return f, nil
}

func (t table) writeRow(f *excelize.File, row int, values []any) error {
	start, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(t.sheet, start, &values); err != nil {
		return fmt.Errorf("write row %d: %w", row, err)
	}
	return nil
}

func (t table) styleRange(f *excelize.File, row, fromCol, toCol, style int) error {
	from, err := excelize.CoordinatesToCellName(fromCol, row)
	if err != nil {
		return err
	}
	to, err := excelize.CoordinatesToCellName(toCol, row)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(t.sheet, from, to, style); err != nil {
		return fmt.Errorf("style row %d: %w", row, err)
	}
	return nil
}

// writeTo streams the workbook as .xlsx.
func (t table) writeTo(w io.Writer) error {
	f, err := t.build()
	if err != nil {
		return err
	}
	defer f.Close()
	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

// saveAs writes the workbook to path.
func (t table) saveAs(path string) error {
	f, err := t.build()
	if err != nil {
		return err
	}
	defer f.Close()
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	return nil
}
