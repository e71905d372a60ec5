package loader

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/xuri/excelize/v2"
)

type rawRecord struct {
	row    int
	fields map[string]any
	raw    string // source text of a JSON entry that is not an object
	err    error
}

func readCSV(path string) ([]rawRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	var rows [][]string
	rowErrs := make(map[int]error)
	for {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var parseErr *csv.ParseError
			if !errors.As(err, &parseErr) || len(rows) == 0 {
				return nil, fmt.Errorf("read csv %s: %w", path, err)
			}
			rowErrs[len(rows)] = err
			rows = append(rows, nil)
			continue
		}
		rows = append(rows, rec)
	}
	return fromTable(rows, rowErrs)
}

func readXLSX(path string) ([]rawRecord, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open xlsx %s: %w", path, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %q of %s: %w", sheets[0], path, err)
	}
	return fromTable(rows, nil)
}

// fromTable turns a header row plus data rows into records keyed by the
// normalized header names. Blank rows are ignored. rowErrs holds rows that
// could not be parsed, keyed by their index in rows.
func fromTable(rows [][]string, rowErrs map[int]error) ([]rawRecord, error) {
	if len(rows) == 0 {
		return nil, nil
	}

	header := make([]string, len(rows[0]))
	present := make(map[string]bool, len(header))
	for i, name := range rows[0] {
		name = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")))
		header[i] = name
		present[name] = true
	}
	var missing []string
	for _, col := range RequiredColumns {
		if !present[col] {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingColumns, strings.Join(missing, ", "))
	}

	var records []rawRecord
	for i, row := range rows[1:] {
		if err := rowErrs[i+1]; err != nil {
			records = append(records, rawRecord{row: i + 1, err: err})
			continue
		}
		if blank(row) {
			continue
		}
		fields := make(map[string]any, len(header))
		for c, name := range header {
			if c < len(row) {
				fields[name] = row[c]
			}
		}
		records = append(records, rawRecord{row: i + 1, fields: fields})
	}
	return records, nil
}

func blank(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

var errNotObject = errors.New("entry is not an object")

func readJSON(path string) ([]rawRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	var entries []json.RawMessage
	dec := json.NewDecoder(f)
	dec.UseNumber()
	if err := dec.Decode(&entries); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("decode json %s: %w", path, err)
	}

	records := make([]rawRecord, 0, len(entries))
	for i, entry := range entries {
		var fields map[string]any
		dec := json.NewDecoder(bytes.NewReader(entry))
		dec.UseNumber()
		if err := dec.Decode(&fields); err != nil || fields == nil {
			records = append(records, rawRecord{row: i + 1, raw: string(entry), err: errNotObject})
			continue
		}
		records = append(records, rawRecord{row: i + 1, fields: fields})
	}
	return records, nil
}
