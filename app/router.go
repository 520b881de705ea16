package main

import (
	"net/http"

	"github.com/julienschmidt/httprouter"

	"github.com/netatlas/contenthub/internal/userservice"
)

func (app *application) routes() http.Handler {
	router := httprouter.New()

	router.NotFound = http.HandlerFunc(app.notFoundErrorResponse)
	router.MethodNotAllowed = http.HandlerFunc(app.methodNotAllowedErrorResponse)

	router.HandlerFunc(http.MethodGet, "/v1/healthcheck", app.healthCheckHandler)

	// sessions
	router.HandlerFunc(http.MethodPost, "/v1/auth/login", app.loginUserHandler)
	router.HandlerFunc(http.MethodPost, "/v1/auth/logout", app.logoutUserHandler)

	// content submission and public reads
	router.HandlerFunc(http.MethodPost, "/v1/blogs", app.requireCapability(app.submitBlogHandler, userservice.CapabilitySubmitContent))
	router.HandlerFunc(http.MethodGet, "/v1/posts/:slug", app.getPublishedBlogHandler)
	router.HandlerFunc(http.MethodDelete, "/v1/blogs/:id", app.requireCapability(app.deleteBlogHandler, userservice.CapabilityModerateContent))

	// moderation queue
	router.HandlerFunc(http.MethodGet, "/v1/blogs/status/:status", app.requireCapability(app.listBlogsByStatusHandler, userservice.CapabilityModerateContent))
	router.HandlerFunc(http.MethodPut, "/v1/blogs/:id/approve", app.requireCapability(app.approveBlogHandler, userservice.CapabilityModerateContent))
	router.HandlerFunc(http.MethodPut, "/v1/blogs/:id/reject", app.requireCapability(app.rejectBlogHandler, userservice.CapabilityModerateContent))

	// user administration
	router.HandlerFunc(http.MethodPost, "/v1/users", app.requireCapability(app.createUserHandler, userservice.CapabilityManageUsers))
	router.HandlerFunc(http.MethodPut, "/v1/users/:id/toggle-status", app.requireCapability(app.toggleUserStatusHandler, userservice.CapabilityManageUsers))
	router.HandlerFunc(http.MethodPut, "/v1/users/:id/role", app.requireCapability(app.updateUserRoleHandler, userservice.CapabilityManageUsers))

	return app.recoverPanic(app.logRequest(app.rateLimit(app.authenticate(router))))
}
