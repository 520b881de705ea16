package userservice

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/netatlas/contenthub/internal/common"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInactiveUser       = errors.New("user account is not active")
)

func NewUserService(db *sql.DB, c *common.Cache, sessionSecret string, sessionTTL time.Duration) *UserService {
	return &UserService{
		m:        newUserModel(db),
		sessions: NewSessionManager(sessionSecret, sessionTTL),
		c:        c,
	}
}

// CreateUser creates an account with a temporary secret. This is an
// administrative action; self-registration does not exist.
func (s *UserService) CreateUser(ctx context.Context, name, email, tempSecret string, role Role) (*User, error) {
	v := common.NewValidator()
	validateName(v, name)
	validateEmail(v, email)
	validatePassword(v, tempSecret)
	validateRole(v, role)
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	u := User{
		Name:  name,
		Email: email,
		Role:  role,
	}

	if err := u.Password.set(tempSecret); err != nil {
		return nil, err
	}

	if err := s.m.insert(ctx, &u); err != nil {
		return nil, err
	}

	return &u, nil
}

// Authenticate verifies the secret against the active account matching the
// email and issues a session bound to the realm. Missing accounts, inactive
// accounts and wrong secrets all surface as ErrInvalidCredentials so a
// caller cannot probe which emails exist.
func (s *UserService) Authenticate(ctx context.Context, realm Realm, email, secret string) (*Session, *User, error) {
	v := common.NewValidator()
	validateEmail(v, email)
	v.Check(secret != "", "secret", "must be provided")
	if !v.Valid() {
		return nil, nil, v.ValidationError()
	}

	user, err := s.m.getByEmail(ctx, email)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			return nil, nil, ErrInvalidCredentials
		default:
			return nil, nil, err
		}
	}

	if !user.Active {
		return nil, nil, ErrInvalidCredentials
	}

	ok, err := user.Password.compare(secret)
	if err != nil {
		return nil, nil, err
	}
	if !ok {
		return nil, nil, ErrInvalidCredentials
	}

	session, err := s.sessions.Issue(user, realm)
	if err != nil {
		return nil, nil, err
	}

	return session, user, nil
}

// VerifySession resolves the user behind a bearer token. The token check
// itself is pure; the user row is read to attach the display name and
// current account state, with a short-lived cache in front.
func (s *UserService) VerifySession(ctx context.Context, token string, realm Realm) (*User, error) {
	session, err := s.sessions.Verify(token, realm)
	if err != nil {
		return nil, err
	}

	if cached, ok := s.c.Get(common.CacheKeyUserBySession(token)); ok {
		if user, ok := cached.(*User); ok {
			return user, nil
		}
	}

	user, err := s.m.getByID(ctx, session.UserID)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			return nil, ErrMalformedSession
		default:
			return nil, err
		}
	}

	// the session carries the role snapshot from issuance time
	user.Role = session.Role

	s.c.Set(common.CacheKeyUserBySession(token), user, time.Until(session.Expiry))

	return user, nil
}

// Logout discards the server-side verification cache entry. The credential
// itself is client-held and stays honorable by VerifySession until its
// natural expiry; there is no revocation list.
func (s *UserService) Logout(ctx context.Context, token string) {
	s.c.Delete(common.CacheKeyUserBySession(token))
}

// ToggleUserStatus flips the active flag of an account.
func (s *UserService) ToggleUserStatus(ctx context.Context, id int) (*User, error) {
	v := common.NewValidator()
	validateInt(v, id, "id")
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	user, err := s.m.getByID(ctx, id)
	if err != nil {
		return nil, err
	}

	return s.m.toggleActive(ctx, user.ID, user.Version)
}

// UpdateUserRole assigns a new role to an account. Sessions issued before
// the change keep their old role snapshot until they expire.
func (s *UserService) UpdateUserRole(ctx context.Context, id int, role Role) (*User, error) {
	v := common.NewValidator()
	validateInt(v, id, "id")
	validateRole(v, role)
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	user, err := s.m.getByID(ctx, id)
	if err != nil {
		return nil, err
	}

	return s.m.updateRole(ctx, user.ID, user.Version, role)
}

func (s *UserService) GetUserByID(ctx context.Context, id int) (*User, error) {
	v := common.NewValidator()
	validateInt(v, id, "id")
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	return s.m.getByID(ctx, id)
}

func (u *User) IsAnonymous() bool {
	return u == &AnonymousUser
}

func (u *User) IsActive() bool {
	return u.Active
}
