package handler

import (
	"net/http"

	"storefront/internal/middleware"
	repo "storefront/internal/repository"
	"storefront/internal/usecase"

	"github.com/labstack/echo/v4"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

func writeError(c echo.Context, err error) error {
	if err == nil {
		return nil
	}
	if he, ok := usecase.AsHTTPError(err); ok {
		return c.JSON(he.Status, ErrorResponse{Error: he.Message})
	}

	//500
	return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
}

// :slug とセッションcookieから保存枠のキーを作る
func slotKeyFromContext(c echo.Context) (repo.SlotKey, bool) {
	sessionID, ok := middleware.CartSessionID(c)
	if !ok {
		return repo.SlotKey{}, false
	}
	return repo.SlotKey{ShopSlug: c.Param("slug"), SessionID: sessionID}, true
}
