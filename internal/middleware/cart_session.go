package middleware

import (
	"errors"
	"net/http"
	"time"

	"storefront/internal/config"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const (
	CartSessionCookie = "cart_session"
	CtxCartSessionKey = "cart_session_id" // string
)

// CartSession はカートセッションcookieを検証し、無ければ発行する。
// 期限が近いcookieは同じセッションIDのまま発行し直す。
// cookieの中身はHS256署名のJWTで、subがセッションID（uuid）。
func CartSession(cfg config.Config) echo.MiddlewareFunc {
	secret := []byte(cfg.SessionSecret)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			now := time.Now()
			sessionID := ""
			renew := true
			if ck, err := c.Cookie(CartSessionCookie); err == nil && ck.Value != "" {
				if id, exp, err := parseSessionToken(ck.Value, secret); err == nil {
					sessionID = id
					//残りがTTLの半分を切ったら同じIDで延長
					renew = exp.Sub(now) < cfg.CartTTL/2
				}
			}

			//無い・壊れている場合は新しく発行
			if sessionID == "" {
				sessionID = uuid.NewString()
			}
			if renew {
				token, err := issueSessionToken(sessionID, secret, now, cfg.CartTTL)
				if err != nil {
					return c.JSON(http.StatusInternalServerError, errorJSON("internal error"))
				}
				c.SetCookie(&http.Cookie{
					Name:     CartSessionCookie,
					Value:    token,
					Path:     "/",
					MaxAge:   int(cfg.CartTTL.Seconds()),
					HttpOnly: true,
					Secure:   !cfg.IsDev(),
					SameSite: http.SameSiteLaxMode,
				})
			}

			c.Set(CtxCartSessionKey, sessionID)
			return next(c)
		}
	}
}

// CartSessionID はcontextからセッションIDを取り出す
func CartSessionID(c echo.Context) (string, bool) {
	id, ok := c.Get(CtxCartSessionKey).(string)
	if !ok || id == "" {
		return "", false
	}
	return id, true
}

func issueSessionToken(sessionID string, secret []byte, now time.Time, ttl time.Duration) (string, error) {
	claims := jwt.RegisteredClaims{
		Subject:   sessionID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

// subのセッションIDと期限を返す。期限なしは期限切れ扱いで延長させる
func parseSessionToken(raw string, secret []byte) (string, time.Time, error) {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return secret, nil
	})
	if err != nil || token == nil || !token.Valid {
		return "", time.Time{}, errors.New("invalid session token")
	}

	//subはuuidのみ
	id, err := uuid.Parse(claims.Subject)
	if err != nil {
		return "", time.Time{}, errors.New("invalid sub")
	}

	var exp time.Time
	if claims.ExpiresAt != nil {
		exp = claims.ExpiresAt.Time
	}
	return id.String(), exp, nil
}

type errorResponse struct {
	Error string `json:"error"`
}

func errorJSON(msg string) errorResponse {
	return errorResponse{Error: msg}
}
