package templates

import (
	"uocsclub.net/aocboard/internal/leaderboard"
)

type CredentialsForm struct {
	Year     string
	Code     string
	Years    []int
	HasToken bool
	Error    string
}

type Landing struct {
	Form     CredentialsForm
	Featured *Board
}

type DayTile struct {
	Day      int
	Part1    bool
	Part2    bool
	Selected bool
	Link     string
}

type PartTab struct {
	Part      string
	Available bool
	Selected  bool
	Link      string
}

type PlayerChoice struct {
	ID       string
	Name     string
	Stars    int
	Selected bool
	Link     string
}

type Board struct {
	Year   string
	Code   string
	View   string
	Day    string
	Part   string
	Player string

	DayViewLink    string
	PlayerViewLink string

	Days        []DayTile
	Parts       []PartTab
	Rows        []leaderboard.RankedRow
	Players     []PlayerChoice
	PlayerName  string
	Submissions []leaderboard.SubmissionRow

	FetchedAt string
	FromCache bool
	Featured  bool

	Error string
	Hint  string
}

// Stars is how far anyone got on the tile's day.
func (t DayTile) Stars() string {
	switch {
	case t.Part2:
		return "gold"
	case t.Part1:
		return "silver"
	}
	return "none"
}
