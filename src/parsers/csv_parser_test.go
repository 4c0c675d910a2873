package parsers

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("disk on fire") }

func TestCSVReader_ReadRows(t *testing.T) {
	t.Parallel()

	input := "\uFEFFDate,Description,Amount\n\n01/15/2024,\"WHOLE FOODS, NYC\",$54.12\n01/16/2024,SHORT\n"
	rows, err := NewCSVReader().ReadRows(strings.NewReader(input))
	require.NoError(t, err)

	require.Len(t, rows, 3, "blank lines are skipped")
	assert.Equal(t, []string{"Date", "Description", "Amount"}, rows[0], "byte order mark stripped")
	assert.Equal(t, "WHOLE FOODS, NYC", rows[1][1])
	assert.Len(t, rows[2], 2, "ragged rows allowed")
}

func TestCSVReader_Empty(t *testing.T) {
	t.Parallel()

	rows, err := NewCSVReader().ReadRows(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestCSVReader_ReadFailure(t *testing.T) {
	t.Parallel()

	_, err := NewCSVReader().ReadRows(failingReader{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMalformedCSV))
}
