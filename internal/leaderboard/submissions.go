package leaderboard

import (
	"strconv"

	"uocsclub.net/aocboard/internal/types"
)

const NotCompletedText = "Not completed"

// SubmissionState is either completed at a point in time or not completed.
// The zero value is NotCompleted.
type SubmissionState struct {
	completed   bool
	Timestamp   int64
	CompletedAt string
}

var NotCompleted = SubmissionState{}

func Completed(ts int64, formatted string) SubmissionState {
	return SubmissionState{completed: true, Timestamp: ts, CompletedAt: formatted}
}

func (s SubmissionState) IsCompleted() bool {
	return s.completed
}

func (s SubmissionState) String() string {
	if !s.completed {
		return NotCompletedText
	}
	return s.CompletedAt
}

type SubmissionRow struct {
	Day   int
	Part  int
	State SubmissionState
}

// BuildPlayerSubmissions lists every (day, part) pair for one member, day-major.
func (f Formatter) BuildPlayerSubmissions(doc *types.Leaderboard, playerID string, days []int) []SubmissionRow {
	rows := []SubmissionRow{}
	if doc == nil || len(playerID) == 0 {
		return rows
	}

	var player *types.Member
	for _, member := range doc.SortedMembers() {
		if member.IdString() == playerID {
			player = member
			break
		}
	}
	if player == nil {
		return rows
	}

	rows = make([]SubmissionRow, 0, len(days)*2)
	for _, day := range days {
		dayKey := strconv.Itoa(day)
		for part := 1; part <= 2; part++ {
			row := SubmissionRow{Day: day, Part: part, State: NotCompleted}
			if completion, ok := player.Completion(dayKey, strconv.Itoa(part)); ok {
				row.State = Completed(completion.StarTS, f.Format(completion.StarTS))
			}
			rows = append(rows, row)
		}
	}

	return rows
}

func BuildPlayerSubmissions(doc *types.Leaderboard, playerID string, days []int) []SubmissionRow {
	return DefaultFormatter().BuildPlayerSubmissions(doc, playerID, days)
}
