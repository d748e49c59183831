// apps/go-server/internal/httpserver/share.go
//
// Signed share receipts for daily results. When a daily game finishes the
// server hands back a compact HS256 token encoding date/guesses/won; the
// /daily/verify endpoint (or anything else holding the secret) can confirm
// a posted result without trusting the client.

package httpserver

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// shareTTL is how long a receipt stays verifiable.
const shareTTL = 30 * 24 * time.Hour

// signShareReceipt creates an HS256 token for a finished daily game.
func signShareReceipt(date string, guesses int, won bool) (string, error) {
	secret := getEnv("SHARE_SECRET", "dev_secret_change_me")
	now := time.Now()
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"date":    date,
		"guesses": guesses,
		"won":     won,
		"iat":     now.Unix(),
		"exp":     now.Add(shareTTL).Unix(),
	})
	return t.SignedString([]byte(secret))
}

// parseShareReceipt validates a token and unpacks its claims.
func parseShareReceipt(token string) (date string, guesses int, won bool, err error) {
	claims := jwt.MapClaims{}
	t, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(getEnv("SHARE_SECRET", "dev_secret_change_me")), nil
	})
	if err != nil || !t.Valid {
		return "", 0, false, errors.New("invalid share token")
	}

	date, _ = claims["date"].(string)
	if date == "" {
		return "", 0, false, errors.New("invalid share token")
	}
	// JSON numbers decode as float64
	g, _ := claims["guesses"].(float64)
	won, _ = claims["won"].(bool)
	return date, int(g), won, nil
}
