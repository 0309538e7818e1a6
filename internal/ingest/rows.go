package ingest

import (
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"
)

// ErrUnsupportedFileType is the only batch-fatal condition: it surfaces
// before any dispatch begins.
var ErrUnsupportedFileType = errors.New("unsupported file type")

// ParseRows reads the uploaded spreadsheet into raw column-name → value
// rows. First row is the header; missing cells come back as empty strings.
func ParseRows(path string) ([]map[string]string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		return parseXLSX(path)
	case ".csv":
		return parseCSV(path)
	default:
		return nil, ErrUnsupportedFileType
	}
}

func parseXLSX(path string) ([]map[string]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "open xlsx")
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.New("xlsx has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, errors.Wrap(err, "read sheet")
	}
	return tableToRows(rows), nil
}

func parseCSV(path string) ([]map[string]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open csv")
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.Comma = ';'
	r.FieldsPerRecord = -1

	var table [][]string
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrap(err, "read csv")
		}
		table = append(table, rec)
	}
	return tableToRows(table), nil
}

func tableToRows(table [][]string) []map[string]string {
	if len(table) == 0 {
		return nil
	}
	header := table[0]
	out := make([]map[string]string, 0, len(table)-1)
	for _, rec := range table[1:] {
		row := make(map[string]string, len(header))
		for i, col := range header {
			col = strings.TrimSpace(col)
			if col == "" {
				continue
			}
			if i < len(rec) {
				row[col] = rec[i]
			} else {
				row[col] = ""
			}
		}
		out = append(out, row)
	}
	return out
}
