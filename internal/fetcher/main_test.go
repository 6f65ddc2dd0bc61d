package fetcher

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const body = `{"event":"2024","owner_id":1,"members":{"1":{"id":1,"name":"Ann","stars":1,"completion_day_level":{"1":{"1":{"get_star_ts":1000,"star_index":3}}}}}}`

func TestFetch(t *testing.T) {
	var gotPath, gotCookie, gotAgent string
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		if cookie, err := r.Cookie("session"); err == nil {
			gotCookie = cookie.Value
		}
		gotAgent = r.UserAgent()
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(body))
	}))
	defer upstream.Close()

	client := New(AOCFetcherConfig{BaseURL: upstream.URL, UserAgent: "aocboard-test"})
	raw, err := client.Fetch(context.Background(), Request{Year: "2024", LeaderboardCode: "123456", SessionToken: "secret"})
	require.NoError(t, err)

	assert.JSONEq(t, body, string(raw))
	assert.Equal(t, "/2024/leaderboard/private/view/123456.json", gotPath)
	assert.Equal(t, "secret", gotCookie)
	assert.Equal(t, "aocboard-test", gotAgent)

	doc, err := Decode(raw)
	require.NoError(t, err)
	assert.Equal(t, 2024, doc.Year())
	completion, ok := doc.Members["1"].Completion("1", "1")
	require.True(t, ok)
	assert.Equal(t, int64(1000), completion.StarTS)
}

func TestFetchUpstreamStatus(t *testing.T) {
	for _, status := range []int{http.StatusBadRequest, http.StatusNotFound, http.StatusFound, http.StatusInternalServerError} {
		upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if status == http.StatusFound {
				http.Redirect(w, r, "/2024/leaderboard/private", status)
				return
			}
			w.WriteHeader(status)
		}))

		_, err := New(AOCFetcherConfig{BaseURL: upstream.URL}).Fetch(context.Background(), Request{Year: "2024", LeaderboardCode: "1", SessionToken: "x"})
		upstream.Close()

		var upstreamErr *UpstreamError
		require.True(t, errors.As(err, &upstreamErr), "status %d", status)
		assert.Equal(t, status, upstreamErr.Status)
		assert.Contains(t, err.Error(), strconv.Itoa(status))
	}
}

func TestFetchValidation(t *testing.T) {
	calls := 0
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
	}))
	defer upstream.Close()
	client := New(AOCFetcherConfig{BaseURL: upstream.URL})

	tests := []struct {
		name    string
		request Request
		field   string
	}{
		{"MissingYear", Request{LeaderboardCode: "1", SessionToken: "x"}, "year"},
		{"MissingCode", Request{Year: "2024", SessionToken: "x"}, "leaderboardCode"},
		{"MissingToken", Request{Year: "2024", LeaderboardCode: "1", SessionToken: "  "}, "sessionToken"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := client.Fetch(context.Background(), tt.request)
			var validationErr *ValidationError
			require.True(t, errors.As(err, &validationErr))
			assert.Equal(t, tt.field, validationErr.Field)
		})
	}
	assert.Zero(t, calls)
}

func TestFetchTransportError(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	upstream.Close()

	_, err := New(AOCFetcherConfig{BaseURL: upstream.URL}).Fetch(context.Background(), Request{Year: "2024", LeaderboardCode: "1", SessionToken: "x"})
	var transportErr *TransportError
	require.True(t, errors.As(err, &transportErr))
	assert.NotNil(t, errors.Unwrap(err))
}

func TestDecodeInvalid(t *testing.T) {
	_, err := Decode([]byte("<html>login</html>"))
	var transportErr *TransportError
	assert.True(t, errors.As(err, &transportErr))
}

func TestRequestUnmarshal(t *testing.T) {
	var numeric, quoted, missing Request
	require.NoError(t, json.Unmarshal([]byte(`{"year":2023,"leaderboardCode":"1","sessionToken":"t"}`), &numeric))
	require.NoError(t, json.Unmarshal([]byte(`{"year":"2022","leaderboardCode":"1","sessionToken":"t"}`), &quoted))
	require.NoError(t, json.Unmarshal([]byte(`{"leaderboardCode":"1"}`), &missing))

	assert.Equal(t, "2023", numeric.Year)
	assert.Equal(t, "2022", quoted.Year)
	assert.Equal(t, "", missing.Year)
	assert.Error(t, missing.Validate())
}

func TestRequestUnmarshalEmptyYear(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"Zero", `{"year":0,"leaderboardCode":"1","sessionToken":"t"}`},
		{"ZeroFloat", `{"year":0.0,"leaderboardCode":"1","sessionToken":"t"}`},
		{"Null", `{"year":null,"leaderboardCode":"1","sessionToken":"t"}`},
		{"False", `{"year":false,"leaderboardCode":"1","sessionToken":"t"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var request Request
			require.NoError(t, json.Unmarshal([]byte(tt.body), &request))
			assert.Equal(t, "", request.Year)

			var validationErr *ValidationError
			require.True(t, errors.As(request.Validate(), &validationErr))
			assert.Equal(t, "year", validationErr.Field)
		})
	}
}
