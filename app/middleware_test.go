package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/netatlas/contenthub/internal/userservice"
)

func strptr(s string) *string {
	return &s
}

func newBareApplication() *application {
	return &application{
		config: &Config{},
		logger: slog.New(slog.NewJSONHandler(os.Stdout, nil)),
	}
}

func TestRecoverPanic(t *testing.T) {
	app := newBareApplication()

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("something went wrong")
	})

	middleware := app.recoverPanic(handler)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	res := httptest.NewRecorder()

	middleware.ServeHTTP(res, req)

	assert.Equal(t, res.Code, http.StatusInternalServerError)
}

func TestAuthenticateMiddleware(t *testing.T) {
	app, _, _ := newTestApplication(t)

	token := loginTestUser(t, app, "author@netatlas.io", userservice.RoleAuthor)

	tests := []struct {
		name           string
		authHeader     *string
		expectedStatus int
	}{
		{
			name:           "No Authentication Header",
			authHeader:     nil,
			expectedStatus: http.StatusOK,
		},
		{
			name:           "Malformed Token",
			authHeader:     strptr("invalid-token"),
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "Valid Token",
			authHeader:     &token,
			expectedStatus: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
			})

			middleware := app.authenticate(handler)

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.authHeader != nil {
				req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", *tt.authHeader))
			}

			res := httptest.NewRecorder()

			middleware.ServeHTTP(res, req)

			assert.Equal(t, tt.expectedStatus, res.Code)
		})
	}
}

func TestRequireCapability(t *testing.T) {
	app := newBareApplication()

	admin := &userservice.User{ID: 1, Role: userservice.RoleAdmin, Active: true}
	author := &userservice.User{ID: 2, Role: userservice.RoleAuthor, Active: true}
	inactive := &userservice.User{ID: 3, Role: userservice.RoleAdmin, Active: false}

	tests := []struct {
		name           string
		user           *userservice.User
		capability     userservice.Capability
		expectedStatus int
	}{
		{
			name:           "Admin May Moderate",
			user:           admin,
			capability:     userservice.CapabilityModerateContent,
			expectedStatus: http.StatusOK,
		},
		{
			name:           "Author May Not Moderate",
			user:           author,
			capability:     userservice.CapabilityModerateContent,
			expectedStatus: http.StatusForbidden,
		},
		{
			name:           "Author May Submit",
			user:           author,
			capability:     userservice.CapabilitySubmitContent,
			expectedStatus: http.StatusOK,
		},
		{
			name:           "Anonymous Is Unauthenticated",
			user:           &userservice.AnonymousUser,
			capability:     userservice.CapabilitySubmitContent,
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "Inactive Account Is Forbidden",
			user:           inactive,
			capability:     userservice.CapabilityModerateContent,
			expectedStatus: http.StatusForbidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var handlerCalled bool
			handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				handlerCalled = true
				w.WriteHeader(http.StatusOK)
			})

			guarded := app.requireCapability(handler, tt.capability)

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req = app.createUserContext(req, tt.user)

			res := httptest.NewRecorder()

			guarded.ServeHTTP(res, req)

			assert.Equal(t, tt.expectedStatus, res.Code)
			assert.Equal(t, tt.expectedStatus == http.StatusOK, handlerCalled)
		})
	}
}

func TestRateLimit(t *testing.T) {
	app := &application{
		config: &Config{
			RateLimitRPS:     2,
			RateLimitBurst:   4,
			RateLimitEnabled: true,
		},
		logger: slog.New(slog.NewJSONHandler(os.Stdout, nil)),
	}

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	middleware := app.rateLimit(handler)

	server := httptest.NewServer(middleware)
	defer server.Close()

	tests := []struct {
		name           string
		requests       int
		expectedStatus int
	}{
		{
			name:           "Within Limit",
			requests:       4,
			expectedStatus: http.StatusOK,
		},
		{
			name:           "Over Limit",
			requests:       6,
			expectedStatus: http.StatusTooManyRequests,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var lastStatusCode int

			for i := 0; i < tt.requests; i++ {
				res, err := http.Get(server.URL)
				assert.NoError(t, err)

				lastStatusCode = res.StatusCode
			}

			assert.Equal(t, tt.expectedStatus, lastStatusCode)
		})
	}
}
