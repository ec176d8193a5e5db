package server

import (
	"errors"
	"strconv"
	"strings"

	"togather/internal/middleware"
	"togather/internal/models"
	"togather/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// errResponseWritten is a sentinel indicating the HTTP response was already
// committed by a helper. Handlers must return nil (not this error) to avoid
// Fiber's ErrorHandler overwriting the response.
var errResponseWritten = errors.New("response already written")

var paramLabels = map[string]string{
	"postId":        "게시물",
	"commentId":     "댓글",
	"participantId": "신청",
	"chatId":        "채팅방",
}

// parseID extracts a route parameter by name as a positive uint.
// On failure it writes a 400 JSON response and returns errResponseWritten.
// Callers should check: if err != nil { return nil }
func parseID(c *fiber.Ctx, param string) (uint, error) {
	id, err := c.ParamsInt(param)
	if err != nil || id <= 0 {
		label, ok := paramLabels[param]
		if !ok {
			label = param
		}
		_ = models.RespondWithError(c, models.NewBadRequestError("잘못된 "+label+" id입니다."))
		return 0, errResponseWritten
	}
	return uint(id), nil
}

// parseCursor reads the comment cursor query parameter. A missing cursor
// means the latest page.
func parseCursor(c *fiber.Ctx) (int64, error) {
	raw := strings.TrimSpace(c.Query("cursor"))
	if raw == "" {
		return 0, nil
	}
	cursor, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		_ = models.RespondWithError(c, models.NewBadRequestError("잘못된 커서 값입니다."))
		return 0, errResponseWritten
	}
	return cursor, nil
}

// bind parses the JSON body into req and checks its validate tags.
// On failure it writes a 400 JSON response and returns errResponseWritten.
func bind(c *fiber.Ctx, req interface{}) error {
	if err := c.BodyParser(req); err != nil {
		_ = models.RespondWithError(c, models.NewBadRequestError("요청 본문이 올바르지 않습니다."))
		return errResponseWritten
	}
	if err := validation.Struct(req); err != nil {
		_ = models.RespondWithError(c, err)
		return errResponseWritten
	}
	return nil
}

// currentUser returns the caller set by AuthRequired.
func currentUser(c *fiber.Ctx) (uint, error) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		_ = models.RespondWithError(c, models.NewUnauthorizedError("로그인이 필요합니다."))
		return 0, errResponseWritten
	}
	return userID, nil
}
