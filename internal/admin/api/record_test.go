package api

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestRecordAccessors(t *testing.T) {
	rec := Record{
		"_id":         "65a1",
		"name":        nil,
		"coins":       1500.0,
		"level":       "3",
		"isCompleted": true,
		"startTime":   "2024-03-01T10:30:00Z",
		"tags":        []any{"a"},
	}

	require.Equal(t, "65a1", rec.ID())
	require.False(t, rec.Has("name"))
	require.Equal(t, "", rec.String("name"))
	require.Equal(t, "1500", rec.String("coins"))
	require.Equal(t, int64(3), rec.Int("level"))
	require.True(t, rec.Bool("isCompleted"))
	require.False(t, rec.Bool("missing"))
	require.Equal(t, `["a"]`, rec.String("tags"))

	ts, ok := rec.Time("startTime")
	require.True(t, ok)
	require.Equal(t, time.Date(2024, 3, 1, 10, 30, 0, 0, time.UTC), ts)

	_, ok = rec.Float("name")
	require.False(t, ok)
}

func TestParseFloatRejectsNonFinite(t *testing.T) {
	for _, v := range []any{"NaN", "Inf", "-Infinity", math.NaN(), math.Inf(-1)} {
		f, ok := ParseFloat(v)
		require.False(t, ok, "%v", v)
		require.Zero(t, f)
	}
	f, ok := ParseFloat(" 12.5 ")
	require.True(t, ok)
	require.Equal(t, 12.5, f)
}

func TestRecordIDPrefersID(t *testing.T) {
	require.Equal(t, "7", Record{"id": 7.0, "_id": "x"}.ID())
	require.Equal(t, "", Record{}.ID())
}

func TestParseTime(t *testing.T) {
	_, ok := ParseTime("")
	require.False(t, ok)
	_, ok = ParseTime("yesterday")
	require.False(t, ok)

	ts, ok := ParseTime(float64(0))
	require.True(t, ok)
	require.Equal(t, int64(0), ts.UnixMilli())

	ts, ok = ParseTime("2024-01-02")
	require.True(t, ok)
	require.Equal(t, 2, ts.Day())
}

func TestRecordCloneIsShallowCopy(t *testing.T) {
	orig := Record{"id": "1"}
	cp := orig.Clone()
	cp["id"] = "2"
	require.Equal(t, "1", orig.ID())
	require.Nil(t, Record(nil).Clone())
}
