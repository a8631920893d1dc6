package daterange

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Wednesday.
var fixedNow = time.Date(2025, time.May, 14, 15, 30, 0, 0, time.UTC)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestResolve(t *testing.T) {
	tests := []struct {
		token Token
		from  time.Time
	}{
		{Last7Days, time.Date(2025, time.May, 7, 15, 30, 0, 0, time.UTC)},
		{Last30Days, time.Date(2025, time.April, 14, 15, 30, 0, 0, time.UTC)},
		{ThisWeek, date(2025, time.May, 12)},
		{ThisMonth, date(2025, time.May, 1)},
		{ThisYear, date(2025, time.January, 1)},
	}
	for _, tt := range tests {
		t.Run(string(tt.token), func(t *testing.T) {
			r, err := Resolve(tt.token, fixedNow)
			require.NoError(t, err)
			assert.True(t, tt.from.Equal(r.From), "from = %s", r.From)
			assert.True(t, fixedNow.Equal(r.To))
		})
	}
}

func TestResolve_WeekStartsMonday(t *testing.T) {
	sunday := time.Date(2025, time.May, 18, 9, 0, 0, 0, time.UTC)
	r, err := Resolve(ThisWeek, sunday)
	require.NoError(t, err)
	assert.Equal(t, date(2025, time.May, 12), r.From)

	monday := time.Date(2025, time.May, 12, 0, 5, 0, 0, time.UTC)
	r, err = Resolve(ThisWeek, monday)
	require.NoError(t, err)
	assert.Equal(t, date(2025, time.May, 12), r.From)
}

func TestResolve_Errors(t *testing.T) {
	_, err := Resolve(Custom, fixedNow)
	assert.True(t, errors.Is(err, ErrCustomRange))

	_, err = Resolve("fortnight", fixedNow)
	assert.True(t, errors.Is(err, ErrUnknownToken))
}

func TestMatch_Idempotent(t *testing.T) {
	for _, token := range Presets() {
		r, err := Resolve(token, fixedNow)
		require.NoError(t, err)
		assert.Equal(t, token, Match(r, fixedNow), "token %s", token)
	}
}

func TestMatch_FirstWins(t *testing.T) {
	// On Jan 1st month and year resolve to the same days; month comes first.
	jan1 := time.Date(2025, time.January, 1, 12, 0, 0, 0, time.UTC)
	r, err := Resolve(ThisYear, jan1)
	require.NoError(t, err)
	assert.Equal(t, ThisMonth, Match(r, jan1))
}

func TestMatch_Custom(t *testing.T) {
	r := Range{From: date(2025, time.March, 3), To: date(2025, time.March, 9)}
	assert.Equal(t, Custom, Match(r, fixedNow))
	assert.Equal(t, Custom, Match(Range{From: date(2025, time.May, 7)}, fixedNow))
}

func TestMatch_IgnoresTimeOfDay(t *testing.T) {
	r := Range{From: date(2025, time.May, 7), To: time.Date(2025, time.May, 14, 23, 59, 0, 0, time.UTC)}
	assert.Equal(t, Last7Days, Match(r, fixedNow))
}

func TestRepair(t *testing.T) {
	inverted := Range{From: date(2025, time.May, 10), To: date(2025, time.May, 3)}
	fixed := Repair(inverted)
	assert.Equal(t, inverted.From, fixed.From)
	assert.True(t, fixed.To.IsZero())
	assert.Equal(t, fixed, Repair(fixed))

	sameDay := Range{From: time.Date(2025, time.May, 10, 18, 0, 0, 0, time.UTC), To: date(2025, time.May, 10)}
	assert.Equal(t, sameDay, Repair(sameDay))

	ordered := Range{From: date(2025, time.May, 1), To: date(2025, time.May, 3)}
	assert.Equal(t, ordered, Repair(ordered))
}

func TestParseToken(t *testing.T) {
	tok, err := ParseToken(" Month ")
	require.NoError(t, err)
	assert.Equal(t, ThisMonth, tok)

	tok, err = ParseToken("custom")
	require.NoError(t, err)
	assert.Equal(t, Custom, tok)

	_, err = ParseToken("2w")
	assert.ErrorIs(t, err, ErrUnknownToken)
}

func TestRange_Query(t *testing.T) {
	r := Range{From: date(2025, time.May, 1), To: fixedNow}
	from, to := r.Query()
	assert.Equal(t, "2025-05-01", from)
	assert.Equal(t, "2025-05-14", to)
	assert.Equal(t, "2025-05-01 → 2025-05-14", r.String())

	from, to = Range{}.Query()
	assert.Empty(t, from)
	assert.Empty(t, to)
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2025-02-28", time.UTC)
	require.NoError(t, err)
	assert.Equal(t, date(2025, time.February, 28), d)

	_, err = ParseDate("28/02/2025", time.UTC)
	assert.Error(t, err)
}
