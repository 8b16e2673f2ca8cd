package release

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func fixedNow(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestResolveReleaseTimestamp(t *testing.T) {
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

	t.Run("Far Future Unmodified", func(t *testing.T) {
		res, err := ResolveReleaseTimestamp("2025-01-10", 10, 0, "UTC", fixedNow(now))

		assert.NoError(t, err)
		assert.Equal(t, time.Date(2025, 1, 10, 10, 0, 0, 0, time.UTC).Unix(), res.ReleaseTimestamp)
		assert.False(t, res.AutoAdjusted)
		assert.Empty(t, res.Note)
	})

	t.Run("Empty Timezone Defaults To UTC", func(t *testing.T) {
		res, err := ResolveReleaseTimestamp("2025-01-10", 10, 0, "", fixedNow(now))

		assert.NoError(t, err)
		assert.Equal(t, time.Date(2025, 1, 10, 10, 0, 0, 0, time.UTC).Unix(), res.ReleaseTimestamp)
	})

	t.Run("Named Timezone Wall Clock", func(t *testing.T) {
		res, err := ResolveReleaseTimestamp("2025-06-15", 9, 30, "America/New_York", fixedNow(now))

		assert.NoError(t, err)
		// EDT is UTC-4 in June.
		assert.Equal(t, time.Date(2025, 6, 15, 13, 30, 0, 0, time.UTC).Unix(), res.ReleaseTimestamp)
		assert.False(t, res.AutoAdjusted)
	})

	t.Run("Past Date Clamped Forward", func(t *testing.T) {
		res, err := ResolveReleaseTimestamp("2024-12-01", 8, 0, "UTC", fixedNow(now))

		assert.NoError(t, err)
		assert.Equal(t, now.Add(MinFutureOffset).Unix(), res.ReleaseTimestamp)
		assert.True(t, res.AutoAdjusted)
		assert.Equal(t, AdjustedNote, res.Note)
	})

	t.Run("Near Future Clamped Forward", func(t *testing.T) {
		// Ten minutes ahead is inside the minimum offset window.
		res, err := ResolveReleaseTimestamp("2025-01-01", 12, 10, "UTC", fixedNow(now))

		assert.NoError(t, err)
		assert.Equal(t, now.Add(MinFutureOffset).Unix(), res.ReleaseTimestamp)
		assert.True(t, res.AutoAdjusted)
	})

	t.Run("Exactly At Boundary Clamped", func(t *testing.T) {
		res, err := ResolveReleaseTimestamp("2025-01-01", 12, 30, "UTC", fixedNow(now))

		assert.NoError(t, err)
		assert.Equal(t, now.Add(MinFutureOffset).Unix(), res.ReleaseTimestamp)
		assert.True(t, res.AutoAdjusted)
	})

	t.Run("Malformed Date", func(t *testing.T) {
		_, err := ResolveReleaseTimestamp("10/01/2025", 10, 0, "UTC", fixedNow(now))
		assert.ErrorIs(t, err, ErrInvalidDateTime)
	})

	t.Run("Hour Out Of Range", func(t *testing.T) {
		_, err := ResolveReleaseTimestamp("2025-01-10", 24, 0, "UTC", fixedNow(now))
		assert.ErrorIs(t, err, ErrInvalidDateTime)
	})

	t.Run("Minute Out Of Range", func(t *testing.T) {
		_, err := ResolveReleaseTimestamp("2025-01-10", 10, 60, "UTC", fixedNow(now))
		assert.ErrorIs(t, err, ErrInvalidDateTime)
	})

	t.Run("Unknown Timezone", func(t *testing.T) {
		_, err := ResolveReleaseTimestamp("2025-01-10", 10, 0, "Mars/Olympus", fixedNow(now))
		assert.ErrorIs(t, err, ErrInvalidDateTime)
	})
}

func TestResolveOffset(t *testing.T) {
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

	t.Run("Beyond Minimum Unmodified", func(t *testing.T) {
		res := ResolveOffset(24*time.Hour, fixedNow(now))
		assert.Equal(t, now.Add(24*time.Hour).Unix(), res.ReleaseTimestamp)
		assert.False(t, res.AutoAdjusted)
	})

	t.Run("Inside Minimum Clamped", func(t *testing.T) {
		res := ResolveOffset(5*time.Minute, fixedNow(now))
		assert.Equal(t, now.Add(MinFutureOffset).Unix(), res.ReleaseTimestamp)
		assert.True(t, res.AutoAdjusted)
	})
}

func TestHourConversionRoundTrip(t *testing.T) {
	for h := 0; h <= 23; h++ {
		hour12, ampm := To12Hour(h)
		assert.Equal(t, h, To24Hour(hour12, ampm), "round trip failed for hour %d", h)
	}
}

func TestTo12Hour(t *testing.T) {
	cases := []struct {
		in     int
		hour12 int
		ampm   string
	}{
		{0, 12, "AM"},
		{1, 1, "AM"},
		{11, 11, "AM"},
		{12, 12, "PM"},
		{13, 1, "PM"},
		{23, 11, "PM"},
		{-5, 12, "AM"}, // clamped
		{30, 11, "PM"}, // clamped
	}
	for _, c := range cases {
		hour12, ampm := To12Hour(c.in)
		assert.Equal(t, c.hour12, hour12)
		assert.Equal(t, c.ampm, ampm)
	}
}
