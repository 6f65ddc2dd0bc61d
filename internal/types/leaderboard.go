package types

import (
	"fmt"
	"sort"
	"strconv"
)

// Leaderboard is the private leaderboard document served by
// adventofcode.com/{year}/leaderboard/private/view/{code}.json
type Leaderboard struct {
	OwnerId        int                `json:"owner_id"`
	NumDays        int                `json:"num_days,omitempty"`
	StartTimestamp int64              `json:"day1_ts,omitempty"`
	Event          string             `json:"event"`
	Members        map[string]*Member `json:"members"`
}

type Member struct {
	Id                int                 `json:"id"`
	Name              string              `json:"name,omitempty"` // null for anonymous users
	LocalScore        int                 `json:"local_score"`
	Stars             int                 `json:"stars"`
	LastStarTimestamp int64               `json:"last_star_ts"`
	Completions       map[string]DayLevel `json:"completion_day_level"` // indexed by day
}

// DayLevel only holds the parts that were actually solved.
type DayLevel struct {
	Part1 *Completion `json:"1,omitempty"`
	Part2 *Completion `json:"2,omitempty"`
}

type Completion struct {
	StarTS    int64 `json:"get_star_ts"`
	StarIndex int64 `json:"star_index,omitempty"`
}

// Part looks up the completion for part "1" or "2".
func (d DayLevel) Part(part string) (Completion, bool) {
	var c *Completion
	switch part {
	case "1":
		c = d.Part1
	case "2":
		c = d.Part2
	}
	if c == nil {
		return Completion{}, false
	}
	return *c, true
}

// Completion returns the member's completion of the given day and part, if any.
func (m *Member) Completion(day string, part string) (Completion, bool) {
	if m == nil {
		return Completion{}, false
	}
	level, ok := m.Completions[day]
	if !ok {
		return Completion{}, false
	}
	return level.Part(part)
}

func (m *Member) DisplayName() string {
	if len(m.Name) > 0 {
		return m.Name
	}
	return fmt.Sprintf("Anonymous #%d", m.Id)
}

func (m *Member) IdString() string {
	return strconv.Itoa(m.Id)
}

// SortedMembers returns the members ordered by ascending id, which is the
// iteration order every derived view starts from.
func (l *Leaderboard) SortedMembers() []*Member {
	if l == nil {
		return nil
	}

	members := make([]*Member, 0, len(l.Members))
	for _, member := range l.Members {
		if member == nil {
			continue
		}
		members = append(members, member)
	}

	sort.Slice(members, func(i, j int) bool {
		return members[i].Id < members[j].Id
	})
	return members
}

// Year is the event year, or 0 when the document doesn't carry one.
func (l *Leaderboard) Year() int {
	if l == nil {
		return 0
	}
	year, err := strconv.Atoi(l.Event)
	if err != nil {
		return 0
	}
	return year
}

// Days lists the puzzle days of the event. AoC ran 25 days up to 2024 and
// 12 from 2025 on.
func (l *Leaderboard) Days() []int {
	n := 25
	if l != nil && l.NumDays > 0 {
		n = l.NumDays
	} else if l.Year() >= 2025 {
		n = 12
	}

	days := make([]int, n)
	for i := range days {
		days[i] = i + 1
	}
	return days
}
