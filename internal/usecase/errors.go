package usecase

import (
	"errors"
	"fmt"
	"net/http"

	repo "storefront/internal/repository"
)

type HTTPError struct {
	Status  int
	Message string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("%d: %s", e.Status, e.Message)
}

func NewHTTPError(status int, message string) error {
	return &HTTPError{
		Status:  status,
		Message: message,
	}
}

func AsHTTPError(err error) (*HTTPError, bool) {
	var he *HTTPError
	ok := errors.As(err, &he)
	return he, ok
}

// カタログ読み取りの失敗をHTTPに寄せる
func catalogError(err error, notFound string) error {
	switch {
	case errors.Is(err, repo.ErrNotFound):
		return NewHTTPError(http.StatusNotFound, notFound)
	case errors.Is(err, repo.ErrUnavailable):
		return NewHTTPError(http.StatusServiceUnavailable, "catalog unavailable")
	default:
		return NewHTTPError(http.StatusBadGateway, "catalog error")
	}
}
