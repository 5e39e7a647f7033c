package handler

import (
	"net/http"

	"storefront/internal/domain/model"
	"storefront/internal/usecase"

	"github.com/labstack/echo/v4"
)

// /store/:slug/cart のHTTP
type CartHandler struct {
	uc *usecase.CartUsecase
}

// DI
func NewCartHandler(uc *usecase.CartUsecase) *CartHandler {
	return &CartHandler{uc: uc}
}

type AddCartRequest struct {
	ProductID string            `json:"product_id"`
	Options   map[string]string `json:"options"`
	Quantity  int64             `json:"quantity"`
}

type UpdateCartItemRequest struct {
	Quantity *int64 `json:"quantity"`
}

// /cart, /cart/:itemId を登録。mにはセッションmiddlewareを渡す
func (h *CartHandler) RegisterRoutes(g *echo.Group, m ...echo.MiddlewareFunc) {
	g.GET("/cart", h.getCart, m...)
	g.POST("/cart", h.addItem, m...)
	g.DELETE("/cart", h.clear, m...)
	g.PATCH("/cart/:itemId", h.patchItem, m...)
	g.DELETE("/cart/:itemId", h.deleteItem, m...)
}

func (h *CartHandler) getCart(c echo.Context) error {
	key, ok := slotKeyFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "no cart session"})
	}

	out, err := h.uc.GetCart(c.Request().Context(), key)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}

func (h *CartHandler) addItem(c echo.Context) error {
	key, ok := slotKeyFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "no cart session"})
	}

	var req AddCartRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.uc.AddItem(c.Request().Context(), key, usecase.AddCartItemInput{
		ProductID: req.ProductID,
		Options:   model.OptionSelection(req.Options),
		Quantity:  req.Quantity,
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}

func (h *CartHandler) patchItem(c echo.Context) error {
	key, ok := slotKeyFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "no cart session"})
	}

	var req UpdateCartItemRequest
	if err := c.Bind(&req); err != nil || req.Quantity == nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.uc.SetQuantity(c.Request().Context(), key, c.Param("itemId"), *req.Quantity)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}

func (h *CartHandler) deleteItem(c echo.Context) error {
	key, ok := slotKeyFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "no cart session"})
	}

	out, err := h.uc.RemoveItem(c.Request().Context(), key, c.Param("itemId"))
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}

func (h *CartHandler) clear(c echo.Context) error {
	key, ok := slotKeyFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "no cart session"})
	}

	out, err := h.uc.Clear(c.Request().Context(), key)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}
