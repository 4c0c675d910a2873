package parsers

import (
	"io"
)

// RowReader splits a raw file into rows of text cells.
type RowReader interface {
	ReadRows(file io.Reader) ([][]string, error)
}
