package templates

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/a-h/templ"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"uocsclub.net/aocboard/internal/leaderboard"
)

func render(t *testing.T, component templ.Component) string {
	t.Helper()
	var out bytes.Buffer
	require.NoError(t, component.Render(context.Background(), &out))
	return out.String()
}

func TestBoardPageDayView(t *testing.T) {
	body := render(t, BoardPage(Board{
		Year: "2024",
		Code: "123",
		View: "day",
		Day:  "1",
		Part: "2",
		Days: []DayTile{
			{Day: 1, Part1: true, Part2: true, Selected: true, Link: "/board?day=1"},
			{Day: 2, Part1: true, Link: "/board?day=2"},
			{Day: 3, Link: "/board?day=3"},
		},
		Parts: []PartTab{
			{Part: "1", Available: true, Link: "/board?part=1"},
			{Part: "2", Available: false, Selected: true, Link: "/board?part=2"},
		},
		Rows: []leaderboard.RankedRow{
			{ID: "1", Name: "<b>Ann</b>", CompletedAt: "Dec 01 06:00:00", Rank: 1, Elapsed: time.Hour},
		},
		FetchedAt: "Dec 10 12:00:00",
		FromCache: true,
	}))

	assert.Contains(t, body, `data-stars="gold" data-selected>1</a>`)
	assert.Contains(t, body, `data-stars="silver">2</a>`)
	assert.Contains(t, body, `data-stars="none">3</a>`)
	assert.Contains(t, body, `class="part" data-selected data-unavailable>Part 2</a>`)
	assert.Contains(t, body, "&lt;b&gt;Ann&lt;/b&gt;")
	assert.NotContains(t, body, "<b>Ann</b>")
	assert.Contains(t, body, "<td>1:00:00</td>")
	assert.Contains(t, body, "(cached)")
	assert.Contains(t, body, "Refresh now")
}

func TestBoardPageEmptyAndError(t *testing.T) {
	body := render(t, BoardPage(Board{View: "day", Day: "4", Part: "1"}))
	assert.Contains(t, body, "Nobody has completed day 4 part 1 yet.")

	body = render(t, BoardPage(Board{Error: "Failed to fetch leaderboard: 404", Hint: "check the year and leaderboard code"}))
	assert.Contains(t, body, "Failed to fetch leaderboard: 404")
	assert.Contains(t, body, `<p class="hint">check the year and leaderboard code</p>`)
	assert.NotContains(t, body, "By day")
}

func TestBoardPagePlayerView(t *testing.T) {
	body := render(t, BoardPage(Board{
		View:       "player",
		Featured:   true,
		PlayerName: "Ann",
		Players:    []PlayerChoice{{ID: "1", Name: "Ann", Stars: 3, Selected: true, Link: "/board?player=1"}},
		Submissions: []leaderboard.SubmissionRow{
			{Day: 1, Part: 1, State: leaderboard.Completed(1733032800, "Dec 01 06:00:00")},
			{Day: 1, Part: 2},
		},
	}))

	assert.Contains(t, body, `class="player" data-selected>Ann <small>3*</small></a>`)
	assert.Contains(t, body, "<tr><td>1</td><td>1</td><td>Dec 01 06:00:00</td></tr>")
	assert.Contains(t, body, "<tr data-missing><td>1</td><td>2</td><td>Not completed</td></tr>")
	assert.NotContains(t, body, "Refresh now")
}

func TestLandingPage(t *testing.T) {
	body := render(t, LandingPage(Landing{
		Form: CredentialsForm{Year: "2023", Years: []int{2024, 2023}, Error: "a leaderboard code is required"},
	}))

	assert.Contains(t, body, `<option value="2023" selected>2023</option>`)
	assert.Contains(t, body, `<option value="2024">2024</option>`)
	assert.Contains(t, body, "a leaderboard code is required")
	assert.Contains(t, body, `placeholder="session cookie value" required`)
	assert.NotContains(t, body, "Featured leaderboard")
}

func TestIndexWrapsChild(t *testing.T) {
	body := render(t, Index(LandingPage(Landing{})))

	assert.True(t, strings.HasPrefix(body, "<!doctype html>"))
	assert.Contains(t, body, `<main><section class="landing">`)
	assert.True(t, strings.HasSuffix(body, "</main></body></html>"))
}
