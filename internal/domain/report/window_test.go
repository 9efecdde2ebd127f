package report

import (
	"errors"
	"testing"
	"time"

	"github.com/inventario/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveTimeRange(t *testing.T) {
	now := time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		token string
		days  int
	}{
		{"", 7},
		{"7d", 7},
		{"30d", 30},
		{"90d", 90},
	}
	for _, tt := range tests {
		t.Run("token "+tt.token, func(t *testing.T) {
			w, err := ResolveTimeRange(tt.token, now)
			require.NoError(t, err)
			assert.Equal(t, now.AddDate(0, 0, -tt.days), w.Start)
			assert.Equal(t, now, w.End)
		})
	}

	t.Run("rejects unknown token", func(t *testing.T) {
		_, err := ResolveTimeRange("1y", now)
		assert.True(t, errors.Is(err, shared.ErrInvalidRange))
	})
}

func TestWindow_SevenDayScope(t *testing.T) {
	now := time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC)
	w, err := ResolveTimeRange("7d", now)
	require.NoError(t, err)

	assert.False(t, w.Contains(now.AddDate(0, 0, -8)))
	assert.True(t, w.Contains(now.AddDate(0, 0, -3)))
	assert.True(t, w.Contains(now.Add(-time.Minute)))
}

func TestWindow_Facts(t *testing.T) {
	w := Window{
		Start: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC),
	}
	facts := []SaleFact{
		{SoldAt: w.Start},
		{SoldAt: w.Start.Add(-time.Second)},
		{SoldAt: w.End.Add(-time.Second)},
		{SoldAt: w.End},
	}

	kept := w.Facts(facts)
	require.Len(t, kept, 2)
	assert.Equal(t, w.Start, kept[0].SoldAt)
	assert.Equal(t, w.End.Add(-time.Second), kept[1].SoldAt)
	assert.Len(t, facts, 4)
	assert.Empty(t, w.Facts(nil))
}

func TestWindowFromDates(t *testing.T) {
	w, err := WindowFromDates("2026-01-01", "2026-01-31")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), w.Start)
	assert.Equal(t, time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC), w.End)
	assert.True(t, w.Contains(time.Date(2026, 1, 31, 23, 59, 0, 0, time.UTC)))

	_, err = WindowFromDates("2026-02-01", "2026-01-01")
	assert.True(t, errors.Is(err, shared.ErrInvalidRange))

	_, err = WindowFromDates("", "2026-01-01")
	assert.True(t, errors.Is(err, shared.ErrInvalidInput))

	_, err = WindowFromDates("01/02/2026", "2026-01-03")
	assert.True(t, errors.Is(err, shared.ErrInvalidInput))
}
