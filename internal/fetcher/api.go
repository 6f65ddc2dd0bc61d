package fetcher

import (
	"encoding/json"
	"strconv"
	"strings"

	"uocsclub.net/aocboard/internal/types"
)

// Request is both the proxy endpoint body and the input to Client.Fetch.
type Request struct {
	Year            string `json:"year"`
	LeaderboardCode string `json:"leaderboardCode"`
	SessionToken    string `json:"sessionToken"`
}

// UnmarshalJSON accepts the year as either a number or a string. null, false
// and a numeric zero count as missing.
func (r *Request) UnmarshalJSON(data []byte) error {
	var raw struct {
		Year            json.RawMessage `json:"year"`
		LeaderboardCode string          `json:"leaderboardCode"`
		SessionToken    string          `json:"sessionToken"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	year := strings.TrimSpace(string(raw.Year))
	switch {
	case year == "null" || year == "false":
		year = ""
	case !strings.HasPrefix(year, `"`):
		if value, err := strconv.ParseFloat(year, 64); err == nil && value == 0 {
			year = ""
		}
	}
	r.Year = strings.Trim(year, `"`)
	r.LeaderboardCode = raw.LeaderboardCode
	r.SessionToken = raw.SessionToken
	return nil
}

// Trimmed strips surrounding whitespace pasted along with the values.
func (r Request) Trimmed() Request {
	return Request{
		Year:            strings.TrimSpace(r.Year),
		LeaderboardCode: strings.TrimSpace(r.LeaderboardCode),
		SessionToken:    strings.TrimSpace(r.SessionToken),
	}
}

// Validate reports the first missing field.
func (r Request) Validate() error {
	if len(strings.TrimSpace(r.Year)) == 0 {
		return &ValidationError{Field: "year"}
	}
	if len(strings.TrimSpace(r.LeaderboardCode)) == 0 {
		return &ValidationError{Field: "leaderboardCode"}
	}
	if len(strings.TrimSpace(r.SessionToken)) == 0 {
		return &ValidationError{Field: "sessionToken"}
	}
	return nil
}

// Decode parses a raw leaderboard body.
func Decode(body []byte) (*types.Leaderboard, error) {
	data := &types.Leaderboard{}
	if err := json.Unmarshal(body, data); err != nil {
		return nil, &TransportError{Err: err}
	}
	if data.Members == nil {
		data.Members = map[string]*types.Member{}
	}
	return data, nil
}
