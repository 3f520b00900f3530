// internal/domain/schedule/generator_test.go
package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func TestGenerateQuarterlyForcesDecember(t *testing.T) {
	dates, err := Generate(date(2025, time.January, 15), 4, 3)
	require.NoError(t, err)
	require.Len(t, dates, 4)

	assert.Equal(t, date(2025, time.January, 15), dates[0])
	assert.Equal(t, date(2025, time.April, 15), dates[1])
	assert.Equal(t, date(2025, time.July, 15), dates[2])
	// 4th quarterly application lands in December, not October
	assert.Equal(t, date(2025, time.December, 15), dates[3])
}

func TestGenerateYearRollover(t *testing.T) {
	dates, err := Generate(date(2025, time.November, 10), 3, 2)
	require.NoError(t, err)
	require.Len(t, dates, 3)

	assert.Equal(t, date(2025, time.November, 10), dates[0])
	assert.Equal(t, date(2026, time.January, 10), dates[1])
	assert.Equal(t, date(2026, time.March, 10), dates[2])
}

func TestGenerateFirstDateIsStartUnchanged(t *testing.T) {
	loc, err := time.LoadLocation("America/Bogota")
	require.NoError(t, err)

	start := time.Date(2025, time.June, 3, 14, 30, 0, 0, loc)
	dates, err := Generate(start, 2, 1)
	require.NoError(t, err)

	assert.True(t, start.Equal(dates[0]))
	assert.Equal(t, 14, dates[1].Hour())
	assert.Equal(t, 30, dates[1].Minute())
	assert.Equal(t, loc, dates[1].Location())
}

func TestGenerateDayOverflowRollsForward(t *testing.T) {
	// Jan 31 + 1 month has no Feb 31; the date normalizes into March
	dates, err := Generate(date(2025, time.January, 31), 2, 1)
	require.NoError(t, err)

	assert.Equal(t, date(2025, time.March, 3), dates[1])
}

func TestGenerateNonQuarterlyDoesNotForceDecember(t *testing.T) {
	dates, err := Generate(date(2025, time.January, 15), 4, 2)
	require.NoError(t, err)

	assert.Equal(t, date(2025, time.July, 15), dates[3])
}

func TestGenerateCountOfOne(t *testing.T) {
	start := date(2025, time.May, 20)
	dates, err := Generate(start, 1, 3)
	require.NoError(t, err)
	require.Len(t, dates, 1)
	assert.Equal(t, start, dates[0])
}

func TestGenerateInvalidArguments(t *testing.T) {
	_, err := Generate(date(2025, time.January, 1), 0, 3)
	assert.ErrorIs(t, err, ErrInvalidCount)

	_, err = Generate(date(2025, time.January, 1), -2, 3)
	assert.ErrorIs(t, err, ErrInvalidCount)

	_, err = Generate(date(2025, time.January, 1), 3, 0)
	assert.ErrorIs(t, err, ErrInvalidInterval)
}
