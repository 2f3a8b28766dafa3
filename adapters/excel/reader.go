package excel

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"fieldprof/domain/dataset"
	"fieldprof/internal"
)

// Reader reads Excel and CSV files into a dataset table. Cell text passes
// through untouched: the classifier decides what each cell is. Absent
// cells are nulls; empty cells stay empty strings.
type Reader struct {
	// SheetName selects the worksheet for .xlsx sources. Empty means the
	// first sheet.
	SheetName string

	log *internal.Logger
}

// NewReader creates a file reader.
func NewReader() *Reader {
	return &Reader{log: internal.DefaultLogger}
}

// ReadRows implements ports.RowReader for .xlsx and .csv files. maxRows
// of <=0 reads everything; the first row is always the header.
func (r *Reader) ReadRows(ctx context.Context, source string, maxRows int) (*dataset.Table, error) {
	if _, err := os.Stat(source); os.IsNotExist(err) {
		return nil, fmt.Errorf("file not found: %s", source)
	}

	var rows [][]string
	var err error
	switch strings.ToLower(filepath.Ext(source)) {
	case ".csv":
		rows, err = r.readCSV(source)
	case ".xlsx", ".xlsm":
		rows, err = r.readExcel(source)
	default:
		return nil, fmt.Errorf("unsupported file type: %s", filepath.Ext(source))
	}
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(rows) < 1 {
		return nil, fmt.Errorf("file has no header row: %s", source)
	}

	return r.assemble(rows, maxRows), nil
}

func (r *Reader) readExcel(source string) ([][]string, error) {
	f, err := excelize.OpenFile(source)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	sheet := r.SheetName
	if sheet == "" {
		sheet = f.GetSheetName(0)
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", sheet, err)
	}
	r.log.Debug("read %d rows from %s (%s)", len(rows), source, sheet)
	return rows, nil
}

func (r *Reader) readCSV(source string) ([][]string, error) {
	file, err := os.Open(source)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV file: %w", err)
	}
	r.log.Debug("read %d rows from %s", len(rows), source)
	return rows, nil
}

func (r *Reader) assemble(rows [][]string, maxRows int) *dataset.Table {
	header := rows[0]
	fields := make([]string, len(header))
	for i, h := range header {
		name := strings.TrimSpace(h)
		if name == "" {
			name = fmt.Sprintf("column_%d", i+1)
		}
		fields[i] = name
	}

	data := rows[1:]
	if maxRows > 0 && len(data) > maxRows {
		data = data[:maxRows]
	}

	out := make([]dataset.Row, len(data))
	for i, cells := range data {
		row := make(dataset.Row, len(fields))
		for j, name := range fields {
			if j < len(cells) {
				row[name] = cells[j]
			} else {
				row[name] = nil
			}
		}
		out[i] = row
	}
	return dataset.NewTable(fields, out)
}
