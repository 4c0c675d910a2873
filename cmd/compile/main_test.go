package main

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/username/spendfolio/src/models"
)

const discoverCSV = "Trans. Date,Post Date,Description,Amount,Category\n" +
	"02/01/2024,02/02/2024,SHELL OIL,-40.00,Gasoline\n" +
	"02/03/2024,02/04/2024,INTERNET PAYMENT - THANK YOU,100.00,Payments and Credits\n" +
	"01/28/2024,01/29/2024,LYFT RIDE,-12.30,Travel/ Entertainment\n"

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestParseFileArg(t *testing.T) {
	t.Parallel()

	path, meta := parseFileArg("/tmp/exports/chase-sapphire-preferred.csv")
	assert.Equal(t, "/tmp/exports/chase-sapphire-preferred.csv", path)
	assert.Equal(t, "chase-sapphire-preferred.csv", meta.Name)
	assert.Equal(t, models.FormatChase, meta.Format)
	assert.Equal(t, "Chase - Sapphire Preferred", meta.Source)

	path, meta = parseFileArg("data/a=b.csv=capital-one:Joint Card")
	assert.Equal(t, "data/a=b.csv", path)
	assert.Equal(t, models.FormatCapitalOne, meta.Format)
	assert.Equal(t, "Joint Card", meta.Source)

	_, meta = parseFileArg("amex-gold.csv=venmo")
	assert.Equal(t, models.FormatVenmo, meta.Format)
	assert.Equal(t, "Amex - Gold", meta.Label())
	require.NotNil(t, meta.VenmoSign)

	_, meta = parseFileArg("statement.csv=AMEX")
	assert.Equal(t, "statement.csv", meta.Label())

	_, meta = parseFileArg("export.csv=ACME")
	assert.Equal(t, models.Format("ACME"), meta.Format)

	path, meta = parseFileArg("/data/a=b/chase-freedom-flex.csv")
	assert.Equal(t, "/data/a=b/chase-freedom-flex.csv", path, "an equals sign inside a directory is part of the path")
	assert.Equal(t, models.FormatChase, meta.Format)
	assert.Equal(t, "Chase - Freedom Flex", meta.Source)

	path, meta = parseFileArg(`C:\exports\x=y\discover.csv=AMEX`)
	assert.Equal(t, `C:\exports\x=y\discover.csv`, path)
	assert.Equal(t, models.FormatAmex, meta.Format)
}

func TestParseFileArg_ExistingFileWithEquals(t *testing.T) {
	t.Parallel()
	input := writeFile(t, t.TempDir(), "report=2024.csv", "")

	path, meta := parseFileArg(input)
	assert.Equal(t, input, path)
	assert.Equal(t, "report=2024.csv", meta.Name)
	assert.Equal(t, models.FormatChase, meta.Format)

	path, meta = parseFileArg(input + "=DISCOVER")
	assert.Equal(t, input, path)
	assert.Equal(t, models.FormatDiscover, meta.Format)
}

// run replaces the global logger, so these tests do not run in parallel.
func TestRunWritesCSV(t *testing.T) {
	dir := t.TempDir()
	input := writeFile(t, dir, "discover.csv", discoverCSV)

	var out bytes.Buffer
	code := run([]string{"-spender", "ALEX", "-sort", "date", input}, &out)
	require.Equal(t, 0, code)

	rows, err := csv.NewReader(&out).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3, "header plus two non-payment rows")
	assert.Equal(t, "Source", rows[0][0])
	assert.Equal(t, []string{"Discover", "01/28/2024", "LYFT RIDE", "-12.3", "Transport", "ALEX"}, rows[1])
	assert.Equal(t, "SHELL OIL", rows[2][2])
}

func TestRunOutputFile(t *testing.T) {
	dir := t.TempDir()
	input := writeFile(t, dir, "discover.csv", discoverCSV)
	output := filepath.Join(dir, "out.csv")

	var stdout bytes.Buffer
	require.Equal(t, 0, run([]string{"-o", output, input}, &stdout))
	assert.Empty(t, stdout.String())

	data, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.Contains(t, string(data), "SHELL OIL")
}

func TestRunFileErrors(t *testing.T) {
	dir := t.TempDir()
	good := writeFile(t, dir, "discover.csv", discoverCSV)
	bad := writeFile(t, dir, "venmo.csv", "Date,Amount\n01/01/2024,5\n")

	var out bytes.Buffer
	assert.Equal(t, 1, run([]string{good, bad}, &out))
	rows, err := csv.NewReader(&out).ReadAll()
	require.NoError(t, err)
	assert.Len(t, rows, 3, "isolation keeps the good file")

	out.Reset()
	assert.Equal(t, 1, run([]string{"-policy", "all-or-nothing", good, bad}, &out))
	rows, err = csv.NewReader(&out).ReadAll()
	require.NoError(t, err)
	assert.Len(t, rows, 1, "header only")
}

func TestRunUsageErrors(t *testing.T) {
	dir := t.TempDir()
	input := writeFile(t, dir, "discover.csv", discoverCSV)

	var out bytes.Buffer
	assert.Equal(t, 2, run(nil, &out))
	assert.Equal(t, 2, run([]string{"-policy", "strict", input}, &out))
	assert.Equal(t, 2, run([]string{"-sort", "merchant", input}, &out))
	assert.Equal(t, 2, run([]string{"-unknown-flag", input}, &out))
	assert.Equal(t, 1, run([]string{filepath.Join(dir, "missing.csv")}, &out))
	assert.Empty(t, out.String())
}
