package userservice

import (
	"database/sql"
	"time"

	"github.com/netatlas/contenthub/internal/common"
)

type Role string

type Realm string

type Capability string

const (
	RoleAdmin  Role = "admin"
	RoleAuthor Role = "author"

	// The three authentication contexts of the site share one service,
	// discriminated by realm.
	RealmGeneral Realm = "general"
	RealmEvent   Realm = "event"
	RealmCountry Realm = "country"

	CapabilitySubmitContent   Capability = "content:submit"
	CapabilityModerateContent Capability = "content:moderate"
	CapabilityManageUsers     Capability = "users:manage"
)

var roleCapabilities = map[Role][]Capability{
	RoleAuthor: {CapabilitySubmitContent},
	RoleAdmin:  {CapabilitySubmitContent, CapabilityModerateContent, CapabilityManageUsers},
}

// Can reports whether the role carries the capability. Admin covers every
// author capability plus moderation.
func (r Role) Can(c Capability) bool {
	for _, cap := range roleCapabilities[r] {
		if cap == c {
			return true
		}
	}
	return false
}

func (r Role) Valid() bool {
	_, ok := roleCapabilities[r]
	return ok
}

var AnonymousUser = User{}

type UserService struct {
	m        *DBModel
	sessions *SessionManager
	c        *common.Cache
}

type DBModel struct {
	db *sql.DB
}

type User struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Password  Password  `json:"-"`
	Role      Role      `json:"role"`
	Active    bool      `json:"is_active"`
	Deleted   bool      `json:"-"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Version   int       `json:"version"`
}

type Password struct {
	Plain string `json:"-"`
	hash  []byte `json:"-"`
}

// Session is a time-bounded credential binding a caller to an identity and
// a role snapshot taken at issuance. It is never persisted server-side.
type Session struct {
	Token  string    `json:"token"`
	UserID int       `json:"-"`
	Role   Role      `json:"-"`
	Realm  Realm     `json:"-"`
	Expiry time.Time `json:"expiry"`
}
