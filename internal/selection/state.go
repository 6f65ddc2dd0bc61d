package selection

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"uocsclub.net/aocboard/internal/leaderboard"
	"uocsclub.net/aocboard/internal/types"
)

type View string

const (
	ViewDay    View = "day"
	ViewPlayer View = "player"
)

const FirstYear = 2015

// State is what the user is currently looking at.
type State struct {
	Year   string
	Code   string
	Day    string
	Part   string
	Player string
	View   View
}

// FromQuery reads a selection from request values. Unknown or malformed
// day, part and view values are dropped so defaults can fill them in.
func FromQuery(get func(key string) string, now time.Time) (State, error) {
	s := State{
		Year:   strings.TrimSpace(get("year")),
		Code:   strings.TrimSpace(get("code")),
		Day:    strings.TrimSpace(get("day")),
		Part:   strings.TrimSpace(get("part")),
		Player: strings.TrimSpace(get("player")),
		View:   View(get("view")),
	}

	if err := ValidateYear(s.Year, now); err != nil {
		return s, err
	}
	if len(s.Code) == 0 {
		return s, fmt.Errorf("a leaderboard code is required")
	}

	if day, err := strconv.Atoi(s.Day); err != nil || day < 1 {
		s.Day = ""
	}
	if s.Part != "1" && s.Part != "2" {
		s.Part = ""
	}
	if s.View != ViewPlayer {
		s.View = ViewDay
	}

	return s, nil
}

// ValidateYear accepts event years from 2015 up to the current year.
func ValidateYear(year string, now time.Time) error {
	if len(year) == 0 {
		return fmt.Errorf("a year is required")
	}

	y, err := strconv.Atoi(year)
	if err != nil {
		return fmt.Errorf("year %q is not a number", year)
	}
	if y < FirstYear || y > now.Year() {
		return fmt.Errorf("year must be between %d and %d", FirstYear, now.Year())
	}
	return nil
}

// WithDefaults fills unset or unknown selections from the loaded document.
func (s State) WithDefaults(doc *types.Leaderboard) State {
	if len(s.Day) == 0 {
		def := leaderboard.FindDefaultSelection(doc)
		s.Day = def.Day
		if len(s.Part) == 0 {
			s.Part = def.Part
		}
	}
	if len(s.Part) == 0 {
		s.Part = "1"
		if leaderboard.ComputePartAvailability(doc)[s.DayNumber()].Part2 {
			s.Part = "2"
		}
	}

	if len(s.Player) == 0 || doc == nil || !hasPlayer(doc, s.Player) {
		s.Player = leaderboard.FindDefaultPlayerID(doc)
	}

	if len(s.View) == 0 {
		s.View = ViewDay
	}
	return s
}

func hasPlayer(doc *types.Leaderboard, id string) bool {
	for _, member := range doc.Members {
		if member != nil && member.IdString() == id {
			return true
		}
	}
	return false
}

// DayNumber is the selected day as an int, 0 when unset.
func (s State) DayNumber() int {
	day, _ := strconv.Atoi(s.Day)
	return day
}

func (s State) Query() url.Values {
	values := url.Values{}
	values.Set("year", s.Year)
	values.Set("code", s.Code)
	if len(s.Day) > 0 {
		values.Set("day", s.Day)
	}
	if len(s.Part) > 0 {
		values.Set("part", s.Part)
	}
	if len(s.Player) > 0 {
		values.Set("player", s.Player)
	}
	if len(s.View) > 0 {
		values.Set("view", string(s.View))
	}
	return values
}

// Link returns the board URL for this selection with changes applied.
func (s State) Link(change func(*State)) string {
	next := s
	if change != nil {
		change(&next)
	}
	return "/board?" + next.Query().Encode()
}
