package userservice

import (
	"testing"

	"github.com/netatlas/contenthub/internal/common"
	"github.com/stretchr/testify/assert"
)

func TestValidateEmail(t *testing.T) {
	testCases := []struct {
		name  string
		email string
		valid bool
	}{
		{name: "valid email", email: "editor@netatlas.io", valid: true},
		{name: "subdomain", email: "editor@mail.netatlas.io", valid: true},
		{name: "empty", email: "", valid: false},
		{name: "no at sign", email: "editor.netatlas.io", valid: false},
		{name: "no tld", email: "editor@netatlas", valid: false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			v := common.NewValidator()
			validateEmail(v, tc.email)
			assert.Equal(t, tc.valid, v.Valid())
		})
	}
}

func TestValidatePassword(t *testing.T) {
	testCases := []struct {
		name     string
		password string
		valid    bool
	}{
		{name: "valid password", password: "Str0ng!Password", valid: true},
		{name: "empty", password: "", valid: false},
		{name: "too short", password: "S7!a", valid: false},
		{name: "no uppercase", password: "weak!passw0rd", valid: false},
		{name: "no symbol", password: "Weakpassw0rd", valid: false},
		{name: "no number", password: "Weak!password", valid: false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			v := common.NewValidator()
			validatePassword(v, tc.password)
			assert.Equal(t, tc.valid, v.Valid())
		})
	}
}

func TestValidateRole(t *testing.T) {
	for _, role := range []Role{RoleAdmin, RoleAuthor} {
		v := common.NewValidator()
		validateRole(v, role)
		assert.True(t, v.Valid())
	}

	v := common.NewValidator()
	validateRole(v, Role("superuser"))
	assert.False(t, v.Valid())
}

func TestValidateName(t *testing.T) {
	testCases := []struct {
		name    string
		display string
		valid   bool
	}{
		{name: "valid name", display: "Ada Lovelace", valid: true},
		{name: "empty", display: "", valid: false},
		{name: "whitespace only", display: "   ", valid: false},
		{name: "single character", display: "A", valid: false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			v := common.NewValidator()
			validateName(v, tc.display)
			assert.Equal(t, tc.valid, v.Valid())
		})
	}
}
