// Package loader reads provider lists from CSV, JSON or XLSX files and
// normalizes them into models.Provider records. Rows that cannot be
// converted are skipped and reported; file-level problems abort the load.
package loader

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"maintenance-dispatch/geohash"
	"maintenance-dispatch/models"
)

var (
	ErrNotFound          = errors.New("provider file not found")
	ErrUnsupportedFormat = errors.New("unsupported provider file format")
	ErrMissingColumns    = errors.New("missing required columns")
)

// Source column names, shared by every format.
const (
	ColumnID           = "id"
	ColumnName         = "nom"
	ColumnTrades       = "metiers"
	ColumnLatitude     = "latitude"
	ColumnLongitude    = "longitude"
	ColumnAvailability = "disponibilite"
)

// RequiredColumns must all appear in the header of a tabular file.
var RequiredColumns = []string{
	ColumnID, ColumnName, ColumnTrades, ColumnLatitude, ColumnLongitude, ColumnAvailability,
}

type Format string

const (
	FormatCSV  Format = ".csv"
	FormatJSON Format = ".json"
	FormatXLSX Format = ".xlsx"
)

// FormatFor selects a format from the file extension only.
func FormatFor(path string) (Format, error) {
	switch f := Format(strings.ToLower(filepath.Ext(path))); f {
	case FormatCSV, FormatJSON, FormatXLSX:
		return f, nil
	default:
		return "", fmt.Errorf("%w: %q (expected .csv, .json or .xlsx)", ErrUnsupportedFormat, filepath.Ext(path))
	}
}

// DefaultGeohashPrecision is the precision of Provider.Geohash.
const DefaultGeohashPrecision = 7

type options struct {
	geohashPrecision uint
}

type Option func(*options)

// WithGeohashPrecision sets the precision of the geohash stored on each
// provider. Zero disables it.
func WithGeohashPrecision(p uint) Option {
	return func(o *options) { o.geohashPrecision = p }
}

// Load reads the provider file at path.
func Load(path string, opts ...Option) (*Report, error) {
	o := options{geohashPrecision: DefaultGeohashPrecision}
	for _, opt := range opts {
		opt(&o)
	}

	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}

	format, err := FormatFor(path)
	if err != nil {
		return nil, err
	}

	var records []rawRecord
	switch format {
	case FormatCSV:
		records, err = readCSV(path)
	case FormatJSON:
		records, err = readJSON(path)
	case FormatXLSX:
		records, err = readXLSX(path)
	}
	if err != nil {
		return nil, err
	}

	report := &Report{Source: path, Format: format}
	for _, rec := range records {
		report.add(normalize(rec, o))
	}
	return report, nil
}

// RowResult is the outcome of converting one source record.
type RowResult struct {
	Row      int // 1-based position in the source, header excluded
	Provider models.Provider
	Err      error
}

func (r RowResult) OK() bool { return r.Err == nil }

// Report aggregates the outcome of a load.
type Report struct {
	Source    string
	Format    Format
	Providers []models.Provider
	Rows      []RowResult
}

func (r *Report) add(res RowResult) {
	r.Rows = append(r.Rows, res)
	if res.OK() {
		r.Providers = append(r.Providers, res.Provider)
	}
}

// Skipped returns the number of rows dropped by conversion errors.
func (r *Report) Skipped() int {
	return len(r.Rows) - len(r.Providers)
}

// Failures returns the rows that could not be converted, in source order.
func (r *Report) Failures() []RowResult {
	var out []RowResult
	for _, res := range r.Rows {
		if !res.OK() {
			out = append(out, res)
		}
	}
	return out
}

func normalize(rec rawRecord, o options) RowResult {
	res := RowResult{Row: rec.row}
	if rec.err != nil {
		res.Err = &RecordConversionError{Row: rec.row, Field: "record", Value: rec.raw, Err: rec.err}
		return res
	}

	lat, err := parseCoordinate(rec.fields[ColumnLatitude])
	if err != nil {
		res.Err = &RecordConversionError{Row: rec.row, Field: ColumnLatitude, Value: rec.fields[ColumnLatitude], Err: err}
		return res
	}
	lon, err := parseCoordinate(rec.fields[ColumnLongitude])
	if err != nil {
		res.Err = &RecordConversionError{Row: rec.row, Field: ColumnLongitude, Value: rec.fields[ColumnLongitude], Err: err}
		return res
	}

	res.Provider = models.Provider{
		ID:        toText(rec.fields[ColumnID]),
		Name:      toText(rec.fields[ColumnName]),
		Trades:    strings.ToLower(toText(rec.fields[ColumnTrades])),
		Latitude:  lat,
		Longitude: lon,
		Available: availabilityOf(rec.fields[ColumnAvailability]),
	}
	if o.geohashPrecision > 0 {
		res.Provider.Geohash = geohash.Encode(lat, lon, o.geohashPrecision)
	}
	return res
}
