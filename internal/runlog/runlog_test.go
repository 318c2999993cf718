package runlog

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	d, _ := decimal.NewFromString(s)
	return d
}

func sampleEntry() Entry {
	return Entry{
		Timestamp:    time.Date(2024, 2, 1, 9, 30, 0, 0, time.UTC),
		RunID:        "3f1c9a2e",
		InputFile:    "data/sales_data.txt",
		Parsed:       100,
		Skipped:      3,
		Invalid:      5,
		Final:        92,
		Matched:      80,
		TotalRevenue: dec("12345.67"),
	}
}

func TestAppendAndRead(t *testing.T) {
	dir := t.TempDir()

	require.NoError(t, Append(dir, sampleEntry()))

	second := sampleEntry()
	second.RunID = "b2d4e6f8"
	second.Final = 90
	require.NoError(t, Append(dir, second))

	// Header written exactly once.
	raw, err := os.ReadFile(filepath.Join(dir, "logs", "run-history.csv"))
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(string(raw), "timestamp,"))

	entries, err := Read(dir)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	got := entries[0]
	want := sampleEntry()
	assert.True(t, got.Timestamp.Equal(want.Timestamp))
	assert.Equal(t, want.RunID, got.RunID)
	assert.Equal(t, want.InputFile, got.InputFile)
	assert.Equal(t, want.Parsed, got.Parsed)
	assert.Equal(t, want.Skipped, got.Skipped)
	assert.Equal(t, want.Invalid, got.Invalid)
	assert.Equal(t, want.Final, got.Final)
	assert.Equal(t, want.Matched, got.Matched)
	assert.True(t, got.TotalRevenue.Equal(want.TotalRevenue))

	assert.Equal(t, "b2d4e6f8", entries[1].RunID)
}

func TestRead_NoFile(t *testing.T) {
	entries, err := Read(t.TempDir())
	require.NoError(t, err)
	assert.Nil(t, entries)
}

func TestUnmarshalEntry_WrongFieldCount(t *testing.T) {
	_, err := UnmarshalEntry([]string{"only", "three", "fields"})
	assert.Error(t, err)
}
