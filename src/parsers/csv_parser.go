// src/parsers/csv_parser.go
package parsers

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
)

// ErrMalformedCSV wraps any read or tokenizing failure of an input file.
var ErrMalformedCSV = errors.New("malformed CSV")

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// CSVReader reads comma-separated exports with ragged rows. Blank lines are skipped.
type CSVReader struct{}

func NewCSVReader() *CSVReader {
	return &CSVReader{}
}

func (r *CSVReader) ReadRows(file io.Reader) ([][]string, error) {
	data, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read file: %v", ErrMalformedCSV, err)
	}
	data = bytes.TrimPrefix(data, utf8BOM)

	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedCSV, err)
	}
	return records, nil
}
