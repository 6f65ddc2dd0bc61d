package leaderboard

import (
	"sort"
	"strconv"
	"strings"
	"time"

	"uocsclub.net/aocboard/internal/types"
)

type Selection struct {
	Day  string
	Part string
}

type RankedRow struct {
	ID          int
	Name        string
	CompletedAt string
	Timestamp   int64
	Rank        int
	Elapsed     time.Duration // since the puzzle unlocked, zero when the year is unknown
}

type PartAvailability struct {
	Part1 bool
	Part2 bool
}

type PlayerOption struct {
	ID    string
	Name  string
	Stars int
}

// FindDefaultSelection picks the earliest day anyone has a star on, and the
// furthest part solved on that day.
func FindDefaultSelection(doc *types.Leaderboard) Selection {
	days := completedDays(doc)
	if len(days) == 0 {
		return Selection{Day: "1", Part: "1"}
	}

	day := strconv.Itoa(days[0])
	part := "1"
	for _, member := range doc.SortedMembers() {
		if _, ok := member.Completion(day, "2"); ok {
			part = "2"
			break
		}
	}

	return Selection{Day: day, Part: part}
}

// BuildLeaderboard ranks the members who solved the given part of the given
// day by when they got the star. Equal timestamps keep member id order.
func (f Formatter) BuildLeaderboard(doc *types.Leaderboard, day string, part string) []RankedRow {
	rows := []RankedRow{}
	if doc == nil {
		return rows
	}

	var unlock time.Time
	dayNum, err := strconv.Atoi(day)
	if year := doc.Year(); year > 0 && err == nil {
		unlock = unlockTime(year, dayNum)
	}

	for _, member := range doc.SortedMembers() {
		completion, ok := member.Completion(day, part)
		if !ok {
			continue
		}

		row := RankedRow{
			ID:          member.Id,
			Name:        member.DisplayName(),
			CompletedAt: f.Format(completion.StarTS),
			Timestamp:   completion.StarTS,
		}
		if !unlock.IsZero() {
			row.Elapsed = time.Unix(completion.StarTS, 0).Sub(unlock)
		}
		rows = append(rows, row)
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Timestamp < rows[j].Timestamp
	})

	for i := range rows {
		rows[i].Rank = i + 1
	}

	return rows
}

func BuildLeaderboard(doc *types.Leaderboard, day string, part string) []RankedRow {
	return DefaultFormatter().BuildLeaderboard(doc, day, part)
}

// FindDefaultPlayerID returns the id of the alphabetically first member, or ""
// for an empty leaderboard.
func FindDefaultPlayerID(doc *types.Leaderboard) string {
	players := PlayerOptions(doc)
	if len(players) == 0 {
		return ""
	}
	return players[0].ID
}

// PlayerOptions lists the members sorted by display name.
func PlayerOptions(doc *types.Leaderboard) []PlayerOption {
	members := doc.SortedMembers()
	options := make([]PlayerOption, 0, len(members))
	for _, member := range members {
		options = append(options, PlayerOption{
			ID:    member.IdString(),
			Name:  member.DisplayName(),
			Stars: member.Stars,
		})
	}

	sort.SliceStable(options, func(i, j int) bool {
		return strings.ToLower(options[i].Name) < strings.ToLower(options[j].Name)
	})
	return options
}

// ComputePartAvailability reports, per day, whether anyone solved each part.
func ComputePartAvailability(doc *types.Leaderboard) map[int]PartAvailability {
	availability := map[int]PartAvailability{}
	for _, member := range doc.SortedMembers() {
		for dayKey, level := range member.Completions {
			day, err := strconv.Atoi(dayKey)
			if err != nil {
				continue
			}

			entry := availability[day]
			if _, ok := level.Part("1"); ok {
				entry.Part1 = true
			}
			if _, ok := level.Part("2"); ok {
				entry.Part2 = true
			}
			availability[day] = entry
		}
	}
	return availability
}

// completedDays is the sorted set of days any member has a completion entry for.
func completedDays(doc *types.Leaderboard) []int {
	seen := map[int]bool{}
	for _, member := range doc.SortedMembers() {
		for dayKey := range member.Completions {
			day, err := strconv.Atoi(dayKey)
			if err != nil {
				continue
			}
			seen[day] = true
		}
	}

	days := make([]int, 0, len(seen))
	for day := range seen {
		days = append(days, day)
	}
	sort.Ints(days)
	return days
}
