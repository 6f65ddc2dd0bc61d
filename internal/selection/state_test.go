package selection

import (
	"encoding/json"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"uocsclub.net/aocboard/internal/types"
)

var now = time.Date(2024, time.December, 10, 12, 0, 0, 0, time.UTC)

func query(raw string) func(string) string {
	values, _ := url.ParseQuery(raw)
	return values.Get
}

func TestFromQuery(t *testing.T) {
	s, err := FromQuery(query("year=2023&code=abc&day=4&part=2&player=7&view=player"), now)
	require.NoError(t, err)
	assert.Equal(t, State{Year: "2023", Code: "abc", Day: "4", Part: "2", Player: "7", View: ViewPlayer}, s)

	s, err = FromQuery(query("year=2023&code=abc&day=zero&part=3&view=nope"), now)
	require.NoError(t, err)
	assert.Equal(t, "", s.Day)
	assert.Equal(t, "", s.Part)
	assert.Equal(t, ViewDay, s.View)
}

func TestFromQueryInvalid(t *testing.T) {
	tests := []struct {
		name  string
		query string
	}{
		{"MissingYear", "code=abc"},
		{"TooEarly", "year=2014&code=abc"},
		{"Future", "year=2025&code=abc"},
		{"NotANumber", "year=twenty&code=abc"},
		{"MissingCode", "year=2024"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FromQuery(query(tt.query), now)
			assert.Error(t, err)
		})
	}
}

func TestWithDefaults(t *testing.T) {
	doc := &types.Leaderboard{}
	require.NoError(t, json.Unmarshal([]byte(`{"members": {
		"1": {"id": 1, "name": "Zed", "completion_day_level": {"2": {"1": {"get_star_ts": 1}, "2": {"get_star_ts": 2}}}},
		"2": {"id": 2, "name": "Amy", "completion_day_level": {"3": {"1": {"get_star_ts": 1}}}}
	}}`), doc))

	s := State{Year: "2024", Code: "abc", View: ViewDay}.WithDefaults(doc)
	assert.Equal(t, "2", s.Day)
	assert.Equal(t, "2", s.Part)
	assert.Equal(t, "2", s.Player)

	// explicit choices survive, unknown players are replaced
	s = State{Year: "2024", Code: "abc", Day: "3", Player: "99", View: ViewPlayer}.WithDefaults(doc)
	assert.Equal(t, "3", s.Day)
	assert.Equal(t, "1", s.Part)
	assert.Equal(t, "2", s.Player)
	assert.Equal(t, 3, s.DayNumber())

	s = State{Year: "2024", Code: "abc", Player: "1"}.WithDefaults(doc)
	assert.Equal(t, "1", s.Player)
	assert.Equal(t, ViewDay, s.View)
}

func TestLink(t *testing.T) {
	s := State{Year: "2024", Code: "abc", Day: "1", Part: "1", View: ViewDay}

	link := s.Link(func(next *State) { next.Part = "2" })
	assert.Equal(t, "/board?code=abc&day=1&part=2&view=day&year=2024", link)
	assert.Equal(t, "1", s.Part)
}

func TestWithDefaultsPartForChosenDay(t *testing.T) {
	doc := &types.Leaderboard{}
	require.NoError(t, json.Unmarshal([]byte(`{"members": {
		"1": {"id": 1, "completion_day_level": {"1": {"1": {"get_star_ts": 1}}, "5": {"1": {"get_star_ts": 1}, "2": {"get_star_ts": 2}}}}
	}}`), doc))

	s := State{Year: "2024", Code: "abc", Day: "5"}.WithDefaults(doc)
	assert.Equal(t, "2", s.Part)
}
