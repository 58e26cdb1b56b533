package dataframe

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRowFloat(t *testing.T) {
	row := Row{
		"native":     float64(3.5),
		"integer":    12,
		"text":       "280",
		"decimal":    "1.5",
		"empty":      "",
		"na":         "NA",
		"nan_text":   "NaN",
		"nan_native": math.NaN(),
		"junk":       "n/a",
		"nil":        nil,
	}

	tests := []struct {
		column string
		want   float64
		ok     bool
	}{
		{"native", 3.5, true},
		{"integer", 12, true},
		{"text", 280, true},
		{"decimal", 1.5, true},
		{"empty", 0, false},
		{"na", 0, false},
		{"nan_text", 0, false},
		{"nan_native", 0, false},
		{"junk", 0, false},
		{"nil", 0, false},
		{"missing", 0, false},
	}
	for _, tt := range tests {
		got, ok := row.Float(tt.column)
		assert.Equal(t, tt.ok, ok, "column %s", tt.column)
		assert.Equal(t, tt.want, got, "column %s", tt.column)
	}
}

func TestRowIntRoundsToNearest(t *testing.T) {
	row := Row{"half": 1.5, "low": "2.4", "text": "27"}

	got, ok := row.Int("half")
	require.True(t, ok)
	assert.Equal(t, 2, got)

	got, ok = row.Int("low")
	require.True(t, ok)
	assert.Equal(t, 2, got)

	got, ok = row.Int("text")
	require.True(t, ok)
	assert.Equal(t, 27, got)

	_, ok = row.Int("missing")
	assert.False(t, ok)
}

func TestRowString(t *testing.T) {
	row := Row{"text": "KAN", "number": 27, "float": 4.5, "nil": nil}

	assert.Equal(t, "KAN", row.String("text"))
	assert.Equal(t, "27", row.String("number"))
	assert.Equal(t, "4.5", row.String("float"))
	assert.Equal(t, "", row.String("nil"))
	assert.Equal(t, "", row.String("missing"))
}

func TestFrameAppendMergesColumns(t *testing.T) {
	frame := New("a", "b")
	frame.Append(Row{"a": 1, "b": 2})
	frame.Append(Row{"a": 3, "c": 4})

	assert.Equal(t, 2, frame.Len())
	assert.True(t, frame.HasColumn("c"))
	assert.ElementsMatch(t, []string{"a", "b", "c"}, frame.Columns())
}

func TestFrameSetAll(t *testing.T) {
	frame := New("player_id")
	frame.Append(Row{"player_id": "QB1"})
	frame.Append(Row{"player_id": "WR1"})

	frame.SetAll("season", 2023)

	require.True(t, frame.HasColumn("season"))
	for _, row := range frame.Rows() {
		season, ok := row.Int("season")
		require.True(t, ok)
		assert.Equal(t, 2023, season)
	}
}

func TestFrameExtend(t *testing.T) {
	first := New("a")
	first.Append(Row{"a": 1})

	second := New("a", "b")
	second.Append(Row{"a": 2, "b": 3})

	first.Extend(second)

	assert.Equal(t, 2, first.Len())
	assert.True(t, first.HasColumn("b"))
}
