package userservice

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/netatlas/contenthub/internal/common"
	"github.com/stretchr/testify/assert"
)

func setupTestEnvironment(t *testing.T) (*UserService, *sql.DB, func() error) {
	db := common.TestDB("file://../../migrations", t)
	cache := common.NewCache(5*time.Minute, 10*time.Minute)

	cleanup := func() error {
		_, err := db.Exec("DELETE FROM users")
		if err != nil {
			return err
		}

		cache.Flush()

		return nil
	}

	return NewUserService(db, cache, testSecret, time.Hour), db, cleanup
}

func TestCreateUser(t *testing.T) {
	s, _, cleanup := setupTestEnvironment(t)

	testCases := []struct {
		name        string
		displayName string
		email       string
		secret      string
		role        Role
		expectedErr error
	}{
		{
			name:        "valid author",
			displayName: "Ada Lovelace",
			email:       "ada@netatlas.io",
			secret:      "Str0ng!Password",
			role:        RoleAuthor,
		},
		{
			name:        "valid admin",
			displayName: "Grace Hopper",
			email:       "grace@netatlas.io",
			secret:      "Str0ng!Password",
			role:        RoleAdmin,
		},
		{
			name:        "duplicate email",
			displayName: "Ada Again",
			email:       "ada@netatlas.io",
			secret:      "Str0ng!Password",
			role:        RoleAuthor,
			expectedErr: ErrDuplicateEmail,
		},
		{
			name:        "weak secret",
			displayName: "Weak User",
			email:       "weak@netatlas.io",
			secret:      "weak",
			role:        RoleAuthor,
			expectedErr: common.ValidationError{},
		},
		{
			name:        "unknown role",
			displayName: "No Role",
			email:       "norole@netatlas.io",
			secret:      "Str0ng!Password",
			role:        Role("superuser"),
			expectedErr: common.ValidationError{},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			user, err := s.CreateUser(context.Background(), tc.displayName, tc.email, tc.secret, tc.role)
			switch tc.expectedErr.(type) {
			case nil:
				assert.NoError(t, err)
				assert.Equal(t, tc.role, user.Role)
				assert.True(t, user.Active)
			case common.ValidationError:
				assert.ErrorAs(t, err, &common.ValidationError{})
			default:
				assert.ErrorIs(t, err, tc.expectedErr)
			}
		})
	}

	assert.NoError(t, cleanup())
}

func TestAuthenticate(t *testing.T) {
	s, _, cleanup := setupTestEnvironment(t)
	defer cleanup()

	user, err := s.CreateUser(context.Background(), "Ada Lovelace", "ada@netatlas.io", "Str0ng!Password", RoleAuthor)
	assert.NoError(t, err)

	t.Run("valid credentials", func(t *testing.T) {
		session, authed, err := s.Authenticate(context.Background(), RealmGeneral, "ada@netatlas.io", "Str0ng!Password")
		assert.NoError(t, err)
		assert.Equal(t, user.ID, authed.ID)
		assert.Equal(t, RoleAuthor, session.Role)
		assert.True(t, session.Expiry.After(time.Now()))
	})

	t.Run("wrong secret", func(t *testing.T) {
		_, _, err := s.Authenticate(context.Background(), RealmGeneral, "ada@netatlas.io", "Wr0ng!Password")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("unknown email", func(t *testing.T) {
		_, _, err := s.Authenticate(context.Background(), RealmGeneral, "ghost@netatlas.io", "Str0ng!Password")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("inactive account", func(t *testing.T) {
		toggled, err := s.ToggleUserStatus(context.Background(), user.ID)
		assert.NoError(t, err)
		assert.False(t, toggled.Active)

		_, _, err = s.Authenticate(context.Background(), RealmGeneral, "ada@netatlas.io", "Str0ng!Password")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})
}

func TestVerifySession(t *testing.T) {
	s, _, cleanup := setupTestEnvironment(t)
	defer cleanup()

	created, err := s.CreateUser(context.Background(), "Grace Hopper", "grace@netatlas.io", "Str0ng!Password", RoleAdmin)
	assert.NoError(t, err)

	session, _, err := s.Authenticate(context.Background(), RealmGeneral, "grace@netatlas.io", "Str0ng!Password")
	assert.NoError(t, err)

	user, err := s.VerifySession(context.Background(), session.Token, RealmGeneral)
	assert.NoError(t, err)
	assert.Equal(t, created.ID, user.ID)
	assert.Equal(t, "Grace Hopper", user.Name)
	assert.Equal(t, RoleAdmin, user.Role)

	// second call is served by the cache
	cached, err := s.VerifySession(context.Background(), session.Token, RealmGeneral)
	assert.NoError(t, err)
	assert.Equal(t, user, cached)

	// wrong realm fails even with a valid token
	_, err = s.VerifySession(context.Background(), session.Token, RealmCountry)
	assert.ErrorIs(t, err, ErrMalformedSession)
}

// Logout only clears the verification cache; the token itself remains
// honorable until its natural expiry since there is no revocation list.
func TestLogoutKeepsTokenHonorable(t *testing.T) {
	s, _, cleanup := setupTestEnvironment(t)
	defer cleanup()

	_, err := s.CreateUser(context.Background(), "Ada Lovelace", "ada@netatlas.io", "Str0ng!Password", RoleAuthor)
	assert.NoError(t, err)

	session, _, err := s.Authenticate(context.Background(), RealmGeneral, "ada@netatlas.io", "Str0ng!Password")
	assert.NoError(t, err)

	s.Logout(context.Background(), session.Token)

	user, err := s.VerifySession(context.Background(), session.Token, RealmGeneral)
	assert.NoError(t, err)
	assert.Equal(t, "Ada Lovelace", user.Name)
}

func TestUpdateUserRole(t *testing.T) {
	s, _, cleanup := setupTestEnvironment(t)
	defer cleanup()

	user, err := s.CreateUser(context.Background(), "Ada Lovelace", "ada@netatlas.io", "Str0ng!Password", RoleAuthor)
	assert.NoError(t, err)

	promoted, err := s.UpdateUserRole(context.Background(), user.ID, RoleAdmin)
	assert.NoError(t, err)
	assert.Equal(t, RoleAdmin, promoted.Role)
	assert.Equal(t, user.Version+1, promoted.Version)

	_, err = s.UpdateUserRole(context.Background(), 999999, RoleAdmin)
	assert.ErrorIs(t, err, ErrNotFound)
}
