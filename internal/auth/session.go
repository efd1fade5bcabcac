package auth

import (
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const cookieName = "snftrack_session"

// SessionUser is the identity carried by a valid session.
type SessionUser struct {
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

// sessionClaims is the JWT payload stored in the session cookie.
type sessionClaims struct {
	SessionID string `json:"sid"`
	UserID    int64  `json:"uid"`
	Username  string `json:"username"`
	Role      string `json:"role"`
	jwt.RegisteredClaims
}

var (
	errMissingSession = errors.New("missing session")
	errInvalidSession = errors.New("invalid session")
	errExpiredSession = errors.New("session expired")
)

// Sessions issues and validates signed session cookies. The cookie value
// is an HS256 JWT; a server-side registry maps session ids to expiries so
// logout revokes immediately and a process restart invalidates everything.
// Expiry is sliding: each successful validation extends the session by the
// full TTL and re-issues the cookie.
type Sessions struct {
	secret []byte
	ttl    time.Duration

	mu     sync.Mutex
	active map[string]time.Time // session id -> expiry
}

// NewSessions creates a session manager with the given signing secret and
// sliding TTL.
func NewSessions(secret string, ttl time.Duration) *Sessions {
	return &Sessions{
		secret: []byte(secret),
		ttl:    ttl,
		active: make(map[string]time.Time),
	}
}

// Establish creates a session for u and sets the cookie on w.
func (s *Sessions) Establish(w http.ResponseWriter, u SessionUser) error {
	sid := uuid.New().String()
	expires := time.Now().Add(s.ttl)

	claims := sessionClaims{
		SessionID: sid,
		UserID:    u.UserID,
		Username:  u.Username,
		Role:      u.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt: jwt.NewNumericDate(time.Now()),
			Issuer:   "snftrack",
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return fmt.Errorf("sign session token: %w", err)
	}

	s.mu.Lock()
	s.active[sid] = expires
	s.mu.Unlock()

	s.setCookie(w, token, expires)
	return nil
}

// Validate checks the session cookie on r. On success it extends the
// session and re-issues the cookie with the new expiry. An expired
// session is dropped from the registry on the way out.
func (s *Sessions) Validate(w http.ResponseWriter, r *http.Request) (SessionUser, error) {
	c, err := r.Cookie(cookieName)
	if err != nil || c.Value == "" {
		return SessionUser{}, errMissingSession
	}

	claims, err := s.parse(c.Value)
	if err != nil {
		return SessionUser{}, errInvalidSession
	}

	now := time.Now()
	expires := now.Add(s.ttl)

	s.mu.Lock()
	exp, ok := s.active[claims.SessionID]
	if ok {
		if now.Before(exp) {
			s.active[claims.SessionID] = expires
		} else {
			delete(s.active, claims.SessionID)
		}
	}
	s.mu.Unlock()

	if !ok {
		return SessionUser{}, errInvalidSession
	}
	if !now.Before(exp) {
		return SessionUser{}, errExpiredSession
	}

	s.setCookie(w, c.Value, expires)
	return SessionUser{UserID: claims.UserID, Username: claims.Username, Role: claims.Role}, nil
}

// Clear revokes the session referenced by r's cookie (if any) and expires
// the cookie on w.
func (s *Sessions) Clear(w http.ResponseWriter, r *http.Request) {
	if c, err := r.Cookie(cookieName); err == nil && c.Value != "" {
		if claims, err := s.parse(c.Value); err == nil {
			s.mu.Lock()
			delete(s.active, claims.SessionID)
			s.mu.Unlock()
		}
	}
	http.SetCookie(w, &http.Cookie{
		Name:     cookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Expires:  time.Unix(0, 0),
	})
}

func (s *Sessions) parse(tokenStr string) (*sessionClaims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &sessionClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*sessionClaims)
	if !ok || !token.Valid || claims.SessionID == "" {
		return nil, errInvalidSession
	}
	return claims, nil
}

func (s *Sessions) setCookie(w http.ResponseWriter, token string, expires time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     cookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Expires:  expires,
	})
}
