package session

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// CookieName is the cookie carrying the signed session token.
const CookieName = "session"

// Manager signs and verifies the session cookie. The cookie payload is
// an HS256 JWT holding only the numeric user id and an expiry; the user
// itself is re-fetched from the store on every request.
type Manager struct {
	secret []byte
	ttl    time.Duration
}

func NewManager(secret string, ttl time.Duration) *Manager {
	return &Manager{secret: []byte(secret), ttl: ttl}
}

// Issue creates a signed token for the given user id.
func (m *Manager) Issue(userID int) (string, error) {
	claims := jwt.MapClaims{
		"user_id": userID,
		"exp":     time.Now().Add(m.ttl).Unix(),
		"iat":     time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

// Parse validates a token and extracts the user id.
func (m *Manager) Parse(tokenStr string) (int, error) {
	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		return m.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return 0, err
	}
	if !token.Valid {
		return 0, jwt.ErrTokenInvalidClaims
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, jwt.ErrTokenMalformed
	}

	userIDFloat, ok := claims["user_id"].(float64)
	if !ok {
		return 0, jwt.ErrTokenMalformed
	}
	return int(userIDFloat), nil
}

// Establish binds an authenticated session to the response.
func (m *Manager) Establish(c *gin.Context, userID int) error {
	token, err := m.Issue(userID)
	if err != nil {
		return err
	}
	c.SetCookie(CookieName, token, int(m.ttl.Seconds()), "/", "", false, true)
	return nil
}

// Clear drops the session cookie.
func (m *Manager) Clear(c *gin.Context) {
	c.SetCookie(CookieName, "", -1, "/", "", false, true)
}

// UserID resolves the persisted user id from the request cookie. A
// missing, expired, or tampered cookie yields ok == false and the
// request proceeds as anonymous.
func (m *Manager) UserID(c *gin.Context) (int, bool) {
	tokenStr, err := c.Cookie(CookieName)
	if err != nil || tokenStr == "" {
		return 0, false
	}
	id, err := m.Parse(tokenStr)
	if err != nil {
		return 0, false
	}
	return id, true
}
