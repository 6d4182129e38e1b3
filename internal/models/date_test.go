package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2025-07-24")
	require.NoError(t, err)
	assert.Equal(t, Date{Year: 2025, Month: time.July, Day: 24}, d)
	assert.Equal(t, "2025-07-24", d.String())

	for _, raw := range []string{"", "2025-02-30", "24/07/2025", "2025-7-4"} {
		_, err := ParseDate(raw)
		assert.Error(t, err, raw)
	}
}

func TestDateOfIgnoresZoneShift(t *testing.T) {
	// 23:30 on the 23rd in UTC-5 is already the 24th in UTC; the local wall day wins.
	loc := time.FixedZone("UTC-5", -5*3600)
	d := DateOf(time.Date(2025, time.July, 23, 23, 30, 0, 0, loc))
	assert.Equal(t, MustParseDate("2025-07-23"), d)
}

func TestDateArithmetic(t *testing.T) {
	d := MustParseDate("2025-12-30")
	assert.Equal(t, MustParseDate("2026-01-02"), d.AddDays(3))
	assert.Equal(t, MustParseDate("2025-12-01"), d.FirstOfMonth())
	assert.Equal(t, 31, d.DaysInMonth())
	assert.Equal(t, 29, MustParseDate("2024-02-10").DaysInMonth())
	assert.Equal(t, time.Tuesday, d.Weekday())
	assert.Equal(t, 3, d.DaysUntil(MustParseDate("2026-01-02")))
	assert.True(t, d.Between(MustParseDate("2025-12-30"), MustParseDate("2025-12-31")))
	assert.True(t, d.Before(d.AddDays(1)))
	assert.True(t, d.After(d.AddDays(-1)))
	assert.Equal(t, 0, d.Compare(MustParseDate("2025-12-30")))
}

func TestDateAddMonthsClamps(t *testing.T) {
	assert.Equal(t, MustParseDate("2025-02-28"), MustParseDate("2025-01-31").AddMonths(1))
	assert.Equal(t, MustParseDate("2024-02-29"), MustParseDate("2024-01-31").AddMonths(1))
	assert.Equal(t, MustParseDate("2024-11-30"), MustParseDate("2025-01-30").AddMonths(-2))
	assert.Equal(t, MustParseDate("2026-01-15"), MustParseDate("2025-12-15").AddMonths(1))
}

func TestDateJSON(t *testing.T) {
	payload, err := json.Marshal(struct {
		D Date `json:"d"`
	}{D: MustParseDate("2025-07-24")})
	require.NoError(t, err)
	assert.JSONEq(t, `{"d":"2025-07-24"}`, string(payload))

	var out struct {
		D Date `json:"d"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"d":"2025-07-21"}`), &out))
	assert.Equal(t, MustParseDate("2025-07-21"), out.D)

	assert.Error(t, json.Unmarshal([]byte(`{"d":"2025-13-01"}`), &out))
	assert.Error(t, json.Unmarshal([]byte(`{"d":20250101}`), &out))
}

func TestTimeOfDay(t *testing.T) {
	tod, err := ParseTimeOfDay("08:05")
	require.NoError(t, err)
	assert.Equal(t, 485, tod.Minutes())
	assert.Equal(t, "08:05", tod.String())

	_, err = ParseTimeOfDay("25:00")
	assert.Error(t, err)

	var out struct {
		T TimeOfDay `json:"t"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"t":"13:45"}`), &out))
	assert.Equal(t, TimeOfDay{Hour: 13, Minute: 45}, out.T)
}

func TestLessonFilterMatches(t *testing.T) {
	day := MustParseDate("2025-07-24")
	l := Lesson{ClassID: "c1", PeriodID: "p1", Date: day}

	assert.True(t, LessonFilter{}.Matches(l))
	assert.True(t, LessonFilter{ClassID: "c1", PeriodID: "p1", Date: &day}.Matches(l))
	assert.False(t, LessonFilter{ClassID: "c2"}.Matches(l))
	other := day.AddDays(1)
	assert.False(t, LessonFilter{Date: &other}.Matches(l))
}
