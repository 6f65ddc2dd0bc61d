package leaderboard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildPlayerSubmissions(t *testing.T) {
	doc := parse(t, exampleDoc)
	days := []int{1, 2, 3}

	rows := utc.BuildPlayerSubmissions(doc, "2", days)
	require.Len(t, rows, len(days)*2)

	i := 0
	for _, day := range days {
		for part := 1; part <= 2; part++ {
			assert.Equal(t, day, rows[i].Day)
			assert.Equal(t, part, rows[i].Part)
			i++
		}
	}

	assert.True(t, rows[0].State.IsCompleted())
	assert.Equal(t, int64(500), rows[0].State.Timestamp)
	assert.Equal(t, "Jan 01 00:08:20", rows[0].State.String())

	for _, row := range rows[1:] {
		assert.False(t, row.State.IsCompleted())
		assert.Equal(t, NotCompletedText, row.State.String())
	}
}

func TestBuildPlayerSubmissionsBothParts(t *testing.T) {
	rows := utc.BuildPlayerSubmissions(parse(t, exampleDoc), "1", []int{1})
	require.Len(t, rows, 2)
	assert.True(t, rows[0].State.IsCompleted())
	assert.True(t, rows[1].State.IsCompleted())
	assert.Equal(t, int64(2000), rows[1].State.Timestamp)
}

func TestBuildPlayerSubmissionsUnknownPlayer(t *testing.T) {
	doc := parse(t, exampleDoc)

	assert.Empty(t, utc.BuildPlayerSubmissions(doc, "", []int{1}))
	assert.Empty(t, utc.BuildPlayerSubmissions(doc, "42", []int{1}))
	assert.Empty(t, utc.BuildPlayerSubmissions(nil, "1", []int{1}))
}
