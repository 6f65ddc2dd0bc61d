package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"uocsclub.net/aocboard/internal/fetcher"
)

func setProxyCORSHeaders(c *fiber.Ctx) {
	c.Set(fiber.HeaderAccessControlAllowOrigin, "*")
	c.Set(fiber.HeaderAccessControlAllowMethods, "POST,OPTIONS")
	c.Set(fiber.HeaderAccessControlAllowHeaders, "Content-Type")
}

// HandleProxy forwards {year, leaderboardCode, sessionToken} to AoC and
// relays the leaderboard json untouched.
func (s *Server) HandleProxy(c *fiber.Ctx) error {
	setProxyCORSHeaders(c)

	switch c.Method() {
	case fiber.MethodOptions:
		return c.SendStatus(fiber.StatusNoContent)
	case fiber.MethodPost:
	default:
		return c.Status(fiber.StatusMethodNotAllowed).JSON(fiber.Map{"error": "Method not allowed"})
	}

	request := fetcher.Request{}
	if err := json.Unmarshal(c.Body(), &request); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Request body must be JSON"})
	}

	if err := request.Trimmed().Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Missing required fields: year, leaderboardCode, sessionToken"})
	}

	body, err := s.fetcher.Fetch(c.UserContext(), request)
	if err != nil {
		var upstreamErr *fetcher.UpstreamError
		if errors.As(err, &upstreamErr) {
			return c.Status(upstreamErr.Status).JSON(fiber.Map{
				"error": fmt.Sprintf("Failed to fetch leaderboard: %d", upstreamErr.Status),
			})
		}

		slog.Error("Proxy fetch failed", slog.String("error", err.Error()))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	if !json.Valid(body) {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Upstream returned an invalid leaderboard"})
	}

	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return c.Status(fiber.StatusOK).Send(body)
}
