package web

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"uocsclub.net/aocboard/internal/board"
	"uocsclub.net/aocboard/internal/fetcher"
	"uocsclub.net/aocboard/internal/leaderboard"
	"uocsclub.net/aocboard/internal/selection"
	"uocsclub.net/aocboard/internal/web/templates"
)

const sessionTokenKey = "aoc_session"

func (s *Server) HandleRoot(c *fiber.Ctx) error {
	sess, err := s.store.Get(c)
	if err != nil {
		return c.SendStatus(fiber.StatusInternalServerError)
	}

	token, _ := sess.Get(sessionTokenKey).(string)
	landing := templates.Landing{
		Form: s.credentialsForm(c.Query("year"), c.Query("code"), len(token) > 0, ""),
	}

	featured := s.config.Featured
	if featured.Enabled() {
		creds := board.Credentials{
			Year:            featured.Year,
			LeaderboardCode: featured.LeaderboardId,
			SessionToken:    featured.SessionCookie,
		}
		if loaded, ok := s.board.Cached(creds); ok {
			state := selection.State{
				Year: featured.Year,
				Code: featured.LeaderboardId,
				View: selection.ViewDay,
			}.WithDefaults(loaded.Doc)

			view := s.boardView(state, loaded)
			view.Featured = true
			landing.Featured = &view
		}
	}

	return s.Render(c, templates.LandingPage(landing))
}

// HandleLoad keeps the token in the session and sends the browser to the board.
func (s *Server) HandleLoad(c *fiber.Ctx) error {
	sess, err := s.store.Get(c)
	if err != nil {
		return c.SendStatus(fiber.StatusInternalServerError)
	}

	year := strings.TrimSpace(c.FormValue("year"))
	code := strings.TrimSpace(c.FormValue("code"))
	token := strings.TrimSpace(c.FormValue("token"))

	stored, _ := sess.Get(sessionTokenKey).(string)
	if len(token) == 0 {
		token = stored
	}

	if err := s.validateCredentials(year, code, token); err != nil {
		c.Status(fiber.StatusBadRequest)
		return s.Render(c, templates.LandingPage(templates.Landing{
			Form: s.credentialsForm(year, code, len(stored) > 0, err.Error()),
		}))
	}

	sess.Set(sessionTokenKey, token)
	if err := sess.Save(); err != nil {
		slog.Error("Failed to save session", slog.String("error", err.Error()))
		return c.SendStatus(fiber.StatusInternalServerError)
	}

	state := selection.State{Year: year, Code: code, View: selection.ViewDay}
	return redirect(c, state.Link(nil))
}

func (s *Server) HandleBoard(c *fiber.Ctx) error {
	get := func(key string) string {
		return c.Query(key)
	}
	return s.handleBoard(c, get, false)
}

// HandleRefresh refetches regardless of the cache. The page asks for
// confirmation before posting here.
func (s *Server) HandleRefresh(c *fiber.Ctx) error {
	get := func(key string) string {
		return c.FormValue(key)
	}
	return s.handleBoard(c, get, true)
}

func (s *Server) handleBoard(c *fiber.Ctx, get func(key string) string, force bool) error {
	state, err := selection.FromQuery(get, s.clock.Now())
	if err != nil {
		c.Status(fiber.StatusBadRequest)
		return s.Render(c, templates.LandingPage(templates.Landing{
			Form: s.credentialsForm(state.Year, state.Code, false, err.Error()),
		}))
	}

	sess, err := s.store.Get(c)
	if err != nil {
		return c.SendStatus(fiber.StatusInternalServerError)
	}

	token, _ := sess.Get(sessionTokenKey).(string)
	featured := s.isFeatured(state)
	if len(token) == 0 && featured {
		token = s.config.Featured.SessionCookie
	}
	if len(token) == 0 {
		c.Status(fiber.StatusBadRequest)
		return s.Render(c, templates.LandingPage(templates.Landing{
			Form: s.credentialsForm(state.Year, state.Code, false, "Enter your session token to load this leaderboard."),
		}))
	}

	creds := board.Credentials{Year: state.Year, LeaderboardCode: state.Code, SessionToken: token}
	var loaded *board.Loaded
	if force && !featured {
		loaded, err = s.board.Refresh(c.UserContext(), creds)
	} else {
		loaded, err = s.board.Load(c.UserContext(), creds)
	}

	if err != nil {
		status, message, hint := describeError(err)
		if c.Get("HX-Request") != "true" {
			c.Status(status)
		}
		return s.Render(c, templates.BoardPage(templates.Board{
			Year:  state.Year,
			Code:  state.Code,
			Error: message,
			Hint:  hint,
		}))
	}

	view := s.boardView(state.WithDefaults(loaded.Doc), loaded)
	view.Featured = featured && len(token) > 0 && token == s.config.Featured.SessionCookie
	return s.Render(c, templates.BoardPage(view))
}

func (s *Server) HandleLogout(c *fiber.Ctx) error {
	sess, err := s.store.Get(c)
	if err == nil {
		sess.Destroy()
	}

	return redirect(c, "/")
}

func (s *Server) isFeatured(state selection.State) bool {
	featured := s.config.Featured
	return featured.Enabled() && featured.Year == state.Year && featured.LeaderboardId == state.Code
}

func (s *Server) validateCredentials(year string, code string, token string) error {
	if err := selection.ValidateYear(year, s.clock.Now()); err != nil {
		return err
	}
	if len(code) == 0 {
		return errors.New("a leaderboard code is required")
	}
	if len(token) == 0 {
		return errors.New("a session token is required")
	}
	return nil
}

func (s *Server) credentialsForm(year string, code string, hasToken bool, message string) templates.CredentialsForm {
	now := s.clock.Now().Year()
	years := make([]int, 0, now-selection.FirstYear+1)
	for y := now; y >= selection.FirstYear; y-- {
		years = append(years, y)
	}
	if len(year) == 0 {
		year = strconv.Itoa(now)
	}

	return templates.CredentialsForm{
		Year:     year,
		Code:     code,
		Years:    years,
		HasToken: hasToken,
		Error:    message,
	}
}

// describeError maps a load failure to a response status and inline message.
func describeError(err error) (int, string, string) {
	var validationErr *fetcher.ValidationError
	var upstreamErr *fetcher.UpstreamError
	var transportErr *fetcher.TransportError

	switch {
	case errors.As(err, &validationErr):
		return fiber.StatusBadRequest, validationErr.Error(), ""
	case errors.As(err, &upstreamErr):
		return fiber.StatusBadGateway, fmt.Sprintf("Failed to fetch leaderboard: %d", upstreamErr.Status), upstreamErr.Hint()
	case errors.As(err, &transportErr) && transportErr.Err != nil:
		return fiber.StatusBadGateway, transportErr.Error(), ""
	}
	return fiber.StatusBadGateway, "Failed to fetch leaderboard", ""
}

func (s *Server) boardView(state selection.State, loaded *board.Loaded) templates.Board {
	doc := loaded.Doc

	view := templates.Board{
		Year:      state.Year,
		Code:      state.Code,
		View:      string(state.View),
		Day:       state.Day,
		Part:      state.Part,
		Player:    state.Player,
		FetchedAt: s.format.FormatTime(loaded.FetchedAt),
		FromCache: loaded.FromCache,

		DayViewLink:    state.Link(func(next *selection.State) { next.View = selection.ViewDay }),
		PlayerViewLink: state.Link(func(next *selection.State) { next.View = selection.ViewPlayer }),
	}

	availability := leaderboard.ComputePartAvailability(doc)
	for _, day := range doc.Days() {
		dayKey := strconv.Itoa(day)
		parts := availability[day]
		view.Days = append(view.Days, templates.DayTile{
			Day:      day,
			Part1:    parts.Part1,
			Part2:    parts.Part2,
			Selected: dayKey == state.Day,
			Link: state.Link(func(next *selection.State) {
				next.Day = dayKey
				next.Part = "2"
				if !parts.Part2 {
					next.Part = "1"
				}
			}),
		})
	}

	selected := availability[state.DayNumber()]
	for _, part := range []string{"1", "2"} {
		view.Parts = append(view.Parts, templates.PartTab{
			Part:      part,
			Available: (part == "1" && selected.Part1) || (part == "2" && selected.Part2),
			Selected:  part == state.Part,
			Link:      state.Link(func(next *selection.State) { next.Part = part }),
		})
	}

	if state.View == selection.ViewPlayer {
		for _, option := range leaderboard.PlayerOptions(doc) {
			choice := templates.PlayerChoice{
				ID:       option.ID,
				Name:     option.Name,
				Stars:    option.Stars,
				Selected: option.ID == state.Player,
				Link:     state.Link(func(next *selection.State) { next.Player = option.ID }),
			}
			if choice.Selected {
				view.PlayerName = option.Name
			}
			view.Players = append(view.Players, choice)
		}
		view.Submissions = s.format.BuildPlayerSubmissions(doc, state.Player, doc.Days())
		return view
	}

	view.Rows = s.format.BuildLeaderboard(doc, state.Day, state.Part)
	return view
}
