package main

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/netatlas/contenthub/internal/userservice"
)

func submitFields() map[string]string {
	return map[string]string{
		"title":        "Broadband Rollout 2026",
		"introduction": "Where fibre went live this year.",
		"body":         "The long middle section with all the numbers.",
		"conclusion":   "Coverage keeps climbing.",
		"tags":         "fiber, statistics",
	}
}

func TestHealthCheckHandler(t *testing.T) {
	app := newBareApplication()
	app.config.Environment = "test"
	app.config.Version = "test"

	ts := newTestServer(t, app.routes())

	status, _, body := ts.get(t, "/v1/healthcheck", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "available", body["status"])
}

func TestLoginUserHandler(t *testing.T) {
	app, _, _ := newTestApplication(t)
	ts := newTestServer(t, app.routes())

	ctx := context.Background()
	_, err := app.userService.CreateUser(ctx, "Test Author", "author@netatlas.io", "Test_1234!", userservice.RoleAuthor)
	assert.NoError(t, err)

	tests := []struct {
		name           string
		payload        map[string]string
		expectedStatus int
	}{
		{
			name:           "Valid Credentials",
			payload:        map[string]string{"email": "author@netatlas.io", "password": "Test_1234!"},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "Wrong Password",
			payload:        map[string]string{"email": "author@netatlas.io", "password": "Wrong_1234!"},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "Unknown Email",
			payload:        map[string]string{"email": "nobody@netatlas.io", "password": "Test_1234!"},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "Unknown Realm",
			payload:        map[string]string{"email": "author@netatlas.io", "password": "Test_1234!", "realm": "galaxy"},
			expectedStatus: http.StatusUnprocessableEntity,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, _, body := ts.post(t, "/v1/auth/login", tt.payload, nil)
			assert.Equal(t, tt.expectedStatus, status)

			if tt.expectedStatus == http.StatusOK {
				session := body["session"].(map[string]any)
				assert.NotEmpty(t, session["token"])
			}
		})
	}
}

func TestSubmitBlogHandler(t *testing.T) {
	app, _, store := newTestApplication(t)
	ts := newTestServer(t, app.routes())

	authorToken := loginTestUser(t, app, "author@netatlas.io", userservice.RoleAuthor)

	t.Run("without a session", func(t *testing.T) {
		status, _, _ := ts.postMultipart(t, "/v1/blogs", submitFields(), nil, nil)
		assert.Equal(t, http.StatusUnauthorized, status)
	})

	t.Run("with media", func(t *testing.T) {
		media := &mediaPart{filename: "chart.png", mimeType: "image/png", data: []byte("png-bytes")}

		status, _, body := ts.postMultipart(t, "/v1/blogs", submitFields(), media, &authorToken)
		assert.Equal(t, http.StatusCreated, status)

		blog := body["blog"].(map[string]any)
		assert.Equal(t, "pending", blog["status"])
		assert.NotEmpty(t, blog["slug"])
		assert.NotNil(t, blog["media"])
		assert.Equal(t, 1, store.Len())
	})

	t.Run("unsupported media type", func(t *testing.T) {
		media := &mediaPart{filename: "notes.txt", mimeType: "text/plain", data: []byte("hello")}

		status, _, _ := ts.postMultipart(t, "/v1/blogs", submitFields(), media, &authorToken)
		assert.Equal(t, http.StatusUnprocessableEntity, status)
	})

	t.Run("missing fields", func(t *testing.T) {
		fields := submitFields()
		fields["title"] = ""

		status, _, _ := ts.postMultipart(t, "/v1/blogs", fields, nil, &authorToken)
		assert.Equal(t, http.StatusUnprocessableEntity, status)
	})
}

func TestModerationFlow(t *testing.T) {
	app, _, _ := newTestApplication(t)
	ts := newTestServer(t, app.routes())

	authorToken := loginTestUser(t, app, "author@netatlas.io", userservice.RoleAuthor)
	adminToken := loginTestUser(t, app, "admin@netatlas.io", userservice.RoleAdmin)

	status, _, body := ts.postMultipart(t, "/v1/blogs", submitFields(), nil, &authorToken)
	assert.Equal(t, http.StatusCreated, status)

	blog := body["blog"].(map[string]any)
	id := int(blog["id"].(float64))
	slug := blog["slug"].(string)

	t.Run("moderation queue needs the moderate capability", func(t *testing.T) {
		status, _, _ := ts.get(t, "/v1/blogs/status/pending", &authorToken)
		assert.Equal(t, http.StatusForbidden, status)
	})

	t.Run("pending post is not public", func(t *testing.T) {
		status, _, _ := ts.get(t, "/v1/posts/"+slug, nil)
		assert.Equal(t, http.StatusNotFound, status)
	})

	t.Run("admin sees the pending queue", func(t *testing.T) {
		status, _, body := ts.get(t, "/v1/blogs/status/pending", &adminToken)
		assert.Equal(t, http.StatusOK, status)
		assert.Len(t, body["blogs"].([]any), 1)
	})

	t.Run("approve and publish", func(t *testing.T) {
		status, _, body := ts.put(t, fmt.Sprintf("/v1/blogs/%d/approve", id), &adminToken, map[string]any{"publish": true})
		assert.Equal(t, http.StatusOK, status)
		assert.Equal(t, "approved", body["blog"].(map[string]any)["status"])
	})

	t.Run("published post is public", func(t *testing.T) {
		status, _, body := ts.get(t, "/v1/posts/"+slug, nil)
		assert.Equal(t, http.StatusOK, status)
		assert.Equal(t, slug, body["blog"].(map[string]any)["slug"])
	})

	t.Run("second decision conflicts", func(t *testing.T) {
		status, _, _ := ts.put(t, fmt.Sprintf("/v1/blogs/%d/reject", id), &adminToken, map[string]any{"note": "too late"})
		assert.Equal(t, http.StatusConflict, status)
	})

	t.Run("unknown id is not found", func(t *testing.T) {
		status, _, _ := ts.put(t, "/v1/blogs/999999/approve", &adminToken, map[string]any{"publish": false})
		assert.Equal(t, http.StatusNotFound, status)
	})
}

func TestRejectBlogHandler(t *testing.T) {
	app, _, _ := newTestApplication(t)
	ts := newTestServer(t, app.routes())

	authorToken := loginTestUser(t, app, "author@netatlas.io", userservice.RoleAuthor)
	adminToken := loginTestUser(t, app, "admin@netatlas.io", userservice.RoleAdmin)

	status, _, body := ts.postMultipart(t, "/v1/blogs", submitFields(), nil, &authorToken)
	assert.Equal(t, http.StatusCreated, status)
	id := int(body["blog"].(map[string]any)["id"].(float64))

	t.Run("empty note fails validation", func(t *testing.T) {
		status, _, _ := ts.put(t, fmt.Sprintf("/v1/blogs/%d/reject", id), &adminToken, map[string]any{"note": "   "})
		assert.Equal(t, http.StatusUnprocessableEntity, status)
	})

	t.Run("reject with a note", func(t *testing.T) {
		status, _, body := ts.put(t, fmt.Sprintf("/v1/blogs/%d/reject", id), &adminToken, map[string]any{"note": "needs sources"})
		assert.Equal(t, http.StatusOK, status)

		blog := body["blog"].(map[string]any)
		assert.Equal(t, "rejected", blog["status"])
		assert.Equal(t, "needs sources", blog["moderation_note"])
	})
}

func TestDeleteBlogHandler(t *testing.T) {
	app, _, store := newTestApplication(t)
	ts := newTestServer(t, app.routes())

	authorToken := loginTestUser(t, app, "author@netatlas.io", userservice.RoleAuthor)
	adminToken := loginTestUser(t, app, "admin@netatlas.io", userservice.RoleAdmin)

	media := &mediaPart{filename: "chart.png", mimeType: "image/png", data: []byte("png-bytes")}
	status, _, body := ts.postMultipart(t, "/v1/blogs", submitFields(), media, &authorToken)
	assert.Equal(t, http.StatusCreated, status)
	id := int(body["blog"].(map[string]any)["id"].(float64))
	assert.Equal(t, 1, store.Len())

	t.Run("authors may not delete", func(t *testing.T) {
		status, _, _ := ts.delete(t, fmt.Sprintf("/v1/blogs/%d", id), &authorToken)
		assert.Equal(t, http.StatusForbidden, status)
	})

	t.Run("delete removes the post and its media", func(t *testing.T) {
		status, _, _ := ts.delete(t, fmt.Sprintf("/v1/blogs/%d", id), &adminToken)
		assert.Equal(t, http.StatusNoContent, status)
		assert.Equal(t, 0, store.Len())
	})

	t.Run("second delete is not found", func(t *testing.T) {
		status, _, _ := ts.delete(t, fmt.Sprintf("/v1/blogs/%d", id), &adminToken)
		assert.Equal(t, http.StatusNotFound, status)
	})
}

func TestUserAdminHandlers(t *testing.T) {
	app, _, _ := newTestApplication(t)
	ts := newTestServer(t, app.routes())

	adminToken := loginTestUser(t, app, "admin@netatlas.io", userservice.RoleAdmin)
	authorToken := loginTestUser(t, app, "author@netatlas.io", userservice.RoleAuthor)

	t.Run("authors may not manage users", func(t *testing.T) {
		payload := map[string]string{"name": "New Author", "email": "new@netatlas.io", "password": "Test_1234!", "role": "author"}
		status, _, _ := ts.post(t, "/v1/users", payload, &authorToken)
		assert.Equal(t, http.StatusForbidden, status)
	})

	var userID int

	t.Run("create a user", func(t *testing.T) {
		payload := map[string]string{"name": "New Author", "email": "new@netatlas.io", "password": "Test_1234!", "role": "author"}
		status, _, body := ts.post(t, "/v1/users", payload, &adminToken)
		assert.Equal(t, http.StatusCreated, status)

		user := body["user"].(map[string]any)
		userID = int(user["id"].(float64))
		assert.Equal(t, "author", user["role"])
		assert.Equal(t, true, user["is_active"])
	})

	t.Run("duplicate email fails validation", func(t *testing.T) {
		payload := map[string]string{"name": "New Author", "email": "new@netatlas.io", "password": "Test_1234!", "role": "author"}
		status, _, _ := ts.post(t, "/v1/users", payload, &adminToken)
		assert.Equal(t, http.StatusUnprocessableEntity, status)
	})

	t.Run("promote to admin", func(t *testing.T) {
		status, _, body := ts.put(t, fmt.Sprintf("/v1/users/%d/role", userID), &adminToken, map[string]string{"role": "admin"})
		assert.Equal(t, http.StatusOK, status)
		assert.Equal(t, "admin", body["user"].(map[string]any)["role"])
	})

	t.Run("toggle status", func(t *testing.T) {
		status, _, body := ts.put(t, fmt.Sprintf("/v1/users/%d/toggle-status", userID), &adminToken, nil)
		assert.Equal(t, http.StatusOK, status)
		assert.Equal(t, false, body["user"].(map[string]any)["is_active"])
	})

	t.Run("unknown user is not found", func(t *testing.T) {
		status, _, _ := ts.put(t, "/v1/users/999999/role", &adminToken, map[string]string{"role": "admin"})
		assert.Equal(t, http.StatusNotFound, status)
	})
}

func TestLogoutUserHandler(t *testing.T) {
	app, _, _ := newTestApplication(t)
	ts := newTestServer(t, app.routes())

	token := loginTestUser(t, app, "author@netatlas.io", userservice.RoleAuthor)

	status, _, _ := ts.post(t, "/v1/auth/logout", nil, &token)
	assert.Equal(t, http.StatusOK, status)

	// the credential stays honorable until expiry
	status, _, _ = ts.postMultipart(t, "/v1/blogs", submitFields(), nil, &token)
	assert.Equal(t, http.StatusCreated, status)
}
