package dataset

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadCSV_Tab(t *testing.T) {
	tbl, err := ReadCSV(strings.NewReader("Coin\tResult\nHeads\tWin\nTails\n"), '\t')
	require.NoError(t, err)
	assert.Equal(t, []string{"Coin", "Result"}, tbl.Columns)
	require.Equal(t, 2, tbl.Len())
	assert.Equal(t, Record{"Coin": "Heads", "Result": "Win"}, tbl.Records[0])

	_, present := tbl.Records[1]["Result"]
	assert.False(t, present, "short rows leave trailing columns missing")
}

func TestReadCSV_ExtraCellsIgnored(t *testing.T) {
	tbl, err := ReadCSV(strings.NewReader("a;b\n1;2;3\n"), ';')
	require.NoError(t, err)
	assert.Equal(t, Record{"a": "1", "b": "2"}, tbl.Records[0])
}

func TestReadCSV_Errors(t *testing.T) {
	_, err := ReadCSV(strings.NewReader(""), ',')
	var derr *DataError
	require.True(t, errors.As(err, &derr))

	_, err = ReadCSV(strings.NewReader("a,a\n1,2\n"), ',')
	require.True(t, errors.As(err, &derr))
	assert.Equal(t, "a", derr.Column)
}

func TestReadCSVFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.csv")
	require.NoError(t, os.WriteFile(path, []byte("x y\n1 2\n"), 0o644))

	tbl, err := ReadCSVFile(path, ' ')
	require.NoError(t, err)
	assert.True(t, tbl.HasColumn("y"))
	assert.False(t, tbl.HasColumn("z"))

	_, err = ReadCSVFile(filepath.Join(t.TempDir(), "missing.csv"), ' ')
	assert.Error(t, err)
}
