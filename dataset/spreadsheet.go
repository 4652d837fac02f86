package dataset

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/extrame/xls"
	"github.com/xuri/excelize/v2"
)

// ReadSpreadsheet decodes the first sheet of an .xlsx or .xls workbook. The
// first row is the header.
func ReadSpreadsheet(path string) (*Table, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, &NotFoundError{Path: path, Err: err}
		}
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	var (
		cells [][]string
		err   error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		cells, err = readXLSX(path)
	case ".xls":
		cells, err = readXLS(path)
	default:
		return nil, &DecodeError{Source: path, Err: fmt.Errorf("unsupported spreadsheet extension %q", filepath.Ext(path))}
	}
	if err != nil {
		return nil, &DecodeError{Source: path, Err: err}
	}
	return gridToTable(path, cells)
}

func readXLSX(path string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.New("workbook has no sheets")
	}
	// raw values keep numbers free of display formatting
	return f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
}

func readXLS(path string) (cells [][]string, err error) {
	// the legacy BIFF reader panics on some corrupt inputs
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("corrupt workbook: %v", r)
		}
	}()
	wb, err := xls.Open(path, "utf-8")
	if err != nil {
		return nil, err
	}
	if wb.NumSheets() == 0 {
		return nil, errors.New("workbook has no sheets")
	}
	sheet := wb.GetSheet(0)
	if sheet == nil {
		return nil, errors.New("workbook has no sheets")
	}
	for i := 0; i <= int(sheet.MaxRow); i++ {
		row := sheet.Row(i)
		if row == nil {
			cells = append(cells, nil)
			continue
		}
		line := make([]string, row.LastCol())
		for c := row.FirstCol(); c < row.LastCol(); c++ {
			line[c] = row.Col(c)
		}
		cells = append(cells, line)
	}
	return cells, nil
}

// gridToTable turns raw sheet cells into a table. Short rows are padded with
// nulls and blank rows are skipped; a non-empty cell beyond the header is an error.
func gridToTable(source string, cells [][]string) (*Table, error) {
	for len(cells) > 0 && blank(cells[0]) {
		cells = cells[1:]
	}
	if len(cells) == 0 {
		return Empty(), nil
	}
	header := cells[0]
	for len(header) > 0 && strings.TrimSpace(header[len(header)-1]) == "" {
		header = header[:len(header)-1]
	}
	names := UniqueNames(header)

	var rows [][]Value
	for r, line := range cells[1:] {
		if blank(line) {
			continue
		}
		row := make([]Value, len(names))
		for c, cell := range line {
			if c >= len(names) {
				if strings.TrimSpace(cell) != "" {
					return nil, &DecodeError{Source: source, Row: r + 2, Err: fmt.Errorf("cell %d outside the %d header columns", c+1, len(names))}
				}
				continue
			}
			row[c] = Infer(cell)
		}
		rows = append(rows, row)
	}
	t, err := New(names, rows)
	if err != nil {
		return nil, &DecodeError{Source: source, Err: err}
	}
	return t, nil
}

func blank(line []string) bool {
	for _, c := range line {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
