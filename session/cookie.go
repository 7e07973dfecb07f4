package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

const tokenType = "session"

// ErrInvalidCookie covers tampered, expired and malformed cookies.
var ErrInvalidCookie = errors.New("invalid session cookie")

// Codec signs session ids into cookie values and verifies them back.
type Codec struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewCodec(secret string, ttl time.Duration) *Codec {
	return &Codec{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Encode returns an HS256 token carrying sid.
func (c *Codec) Encode(sid string) (string, error) {
	now := c.now()
	claims := jwt.MapClaims{
		"sid": sid,
		"typ": tokenType,
		"iat": now.Unix(),
		"exp": now.Add(c.ttl).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("sign session cookie: %w", err)
	}
	return token, nil
}

// Decode verifies value and returns the session id it carries.
func (c *Codec) Decode(value string) (string, error) {
	parser := jwt.Parser{ValidMethods: []string{jwt.SigningMethodHS256.Alg()}}
	token, err := parser.Parse(value, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return c.secret, nil
	})
	if err != nil || token == nil || !token.Valid {
		return "", ErrInvalidCookie
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", ErrInvalidCookie
	}
	if typ, _ := claims["typ"].(string); typ != tokenType {
		return "", ErrInvalidCookie
	}
	sid, _ := claims["sid"].(string)
	if sid == "" {
		return "", ErrInvalidCookie
	}
	return sid, nil
}
