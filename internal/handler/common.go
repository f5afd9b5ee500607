package handler

import (
	"net/http"

	"shop/internal/middleware"
	"shop/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// ErrorResponseは失敗レスポンスの固定形。errorは安定したコード値。
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

func writeError(c echo.Context, err error) error {
	if err == nil {
		return nil
	}
	if ae, ok := usecase.AsAPIError(err); ok {
		return c.JSON(ae.Status, ErrorResponse{Error: ae.Code, Message: ae.Message})
	}

	//500
	return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: usecase.CodeInternal, Message: "internal error"})
}

func getUserIDFromContext(c echo.Context) (uuid.UUID, bool) {
	id, ok := c.Get(middleware.CtxUserIDKey).(uuid.UUID)
	return id, ok
}
