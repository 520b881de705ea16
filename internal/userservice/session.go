package userservice

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrExpiredSession   = errors.New("expired session")
	ErrMalformedSession = errors.New("malformed session")
)

// SessionManager issues and verifies stateless signed session tokens. There
// is no server-side session state and no revocation list: logout is a
// client-side discard, and an issued token stays honorable until its expiry.
type SessionManager struct {
	secret []byte
	ttl    time.Duration
}

type sessionClaims struct {
	Role  string `json:"role"`
	Realm string `json:"realm"`
	jwt.RegisteredClaims
}

func NewSessionManager(secret string, ttl time.Duration) *SessionManager {
	return &SessionManager{secret: []byte(secret), ttl: ttl}
}

// Issue creates a session for the user with the role snapshot at issuance
// time, bound to one realm.
func (sm *SessionManager) Issue(user *User, realm Realm) (*Session, error) {
	expiry := time.Now().Add(sm.ttl)

	claims := sessionClaims{
		Role:  string(user.Role),
		Realm: string(realm),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.Itoa(user.ID),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(expiry),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(sm.secret)
	if err != nil {
		return nil, fmt.Errorf("could not sign session token: %w", err)
	}

	return &Session{
		Token:  signed,
		UserID: user.ID,
		Role:   user.Role,
		Realm:  realm,
		Expiry: expiry,
	}, nil
}

// Verify is a pure check: it parses and validates the token against the
// realm and returns the embedded session without touching any state.
func (sm *SessionManager) Verify(token string, realm Realm) (*Session, error) {
	var claims sessionClaims

	parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return sm.secret, nil
	})
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, ErrExpiredSession
		default:
			return nil, ErrMalformedSession
		}
	}

	if !parsed.Valid || claims.Realm != string(realm) {
		return nil, ErrMalformedSession
	}

	userID, err := strconv.Atoi(claims.Subject)
	if err != nil || userID < 1 {
		return nil, ErrMalformedSession
	}

	role := Role(claims.Role)
	if !role.Valid() {
		return nil, ErrMalformedSession
	}

	return &Session{
		Token:  token,
		UserID: userID,
		Role:   role,
		Realm:  realm,
		Expiry: claims.ExpiresAt.Time,
	}, nil
}
