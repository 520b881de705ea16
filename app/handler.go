package main

import (
	"errors"
	"net/http"

	"github.com/netatlas/contenthub/internal/blogservice"
	"github.com/netatlas/contenthub/internal/common"
	"github.com/netatlas/contenthub/internal/mediaservice"
	"github.com/netatlas/contenthub/internal/userservice"
)

type loginUserRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Realm    string `json:"realm"`
}

func (app *application) loginUserHandler(w http.ResponseWriter, r *http.Request) {
	var input loginUserRequest

	err := app.parseJSON(w, r, &input)
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	realm := userservice.Realm(input.Realm)
	if input.Realm == "" {
		realm = userservice.RealmGeneral
	}
	if !common.PermittedValue(realm, userservice.RealmGeneral, userservice.RealmEvent, userservice.RealmCountry) {
		app.failedValidationErrorResponse(w, r, map[string]string{"realm": "must be a known realm"})
		return
	}

	session, user, err := app.userService.Authenticate(r.Context(), realm, input.Email, input.Password)
	if err != nil {
		switch {
		case errors.Is(err, userservice.ErrInvalidCredentials):
			app.invalidCredentialsErrorResponse(w, r)
		case errors.As(err, &common.ValidationError{}):
			validationErr := err.(common.ValidationError)
			app.failedValidationErrorResponse(w, r, validationErr.Errors)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"session": session, "user": user}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}
}

func (app *application) logoutUserHandler(w http.ResponseWriter, r *http.Request) {
	token := app.extractTokenFromHeader(r.Header.Get("Authorization"))
	if token == "" {
		app.invalidSessionErrorResponse(w, r)
		return
	}

	app.userService.Logout(r.Context(), token)

	err := app.writeJSON(w, http.StatusOK, envelope{"message": "user logged out"}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}
}

type createUserRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

func (app *application) createUserHandler(w http.ResponseWriter, r *http.Request) {
	var input createUserRequest

	err := app.parseJSON(w, r, &input)
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	user, err := app.userService.CreateUser(r.Context(), input.Name, input.Email, input.Password, userservice.Role(input.Role))
	if err != nil {
		switch {
		case errors.Is(err, userservice.ErrDuplicateEmail):
			app.failedValidationErrorResponse(w, r, map[string]string{"email": "a user with this email address already exists"})
		case errors.As(err, &common.ValidationError{}):
			validationErr := err.(common.ValidationError)
			app.failedValidationErrorResponse(w, r, validationErr.Errors)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	err = app.writeJSON(w, http.StatusCreated, envelope{"user": user}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}
}

func (app *application) toggleUserStatusHandler(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r, "id")
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	user, err := app.userService.ToggleUserStatus(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, userservice.ErrNotFound):
			app.notFoundErrorResponse(w, r)
		case errors.As(err, &common.ValidationError{}):
			validationErr := err.(common.ValidationError)
			app.failedValidationErrorResponse(w, r, validationErr.Errors)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"user": user}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}
}

type updateUserRoleRequest struct {
	Role string `json:"role"`
}

func (app *application) updateUserRoleHandler(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r, "id")
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	var input updateUserRoleRequest
	err = app.parseJSON(w, r, &input)
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	user, err := app.userService.UpdateUserRole(r.Context(), id, userservice.Role(input.Role))
	if err != nil {
		switch {
		case errors.Is(err, userservice.ErrNotFound):
			app.notFoundErrorResponse(w, r)
		case errors.As(err, &common.ValidationError{}):
			validationErr := err.(common.ValidationError)
			app.failedValidationErrorResponse(w, r, validationErr.Errors)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"user": user}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}
}

func (app *application) submitBlogHandler(w http.ResponseWriter, r *http.Request) {
	req, err := app.parseMultipartSubmit(w, r)
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}
	req.Author = app.getUserContext(r)

	post, err := app.blogService.Submit(r.Context(), req)
	if err != nil {
		switch {
		case errors.As(err, &common.ValidationError{}):
			validationErr := err.(common.ValidationError)
			app.failedValidationErrorResponse(w, r, validationErr.Errors)
		case errors.Is(err, blogservice.ErrInactiveAuthor):
			app.forbiddenErrorResponse(w, r)
		case errors.Is(err, mediaservice.ErrUnsupportedMediaType):
			app.failedValidationErrorResponse(w, r, map[string]string{"media": "unsupported media type"})
		case errors.Is(err, mediaservice.ErrPayloadTooLarge):
			app.payloadTooLargeErrorResponse(w, r)
		case errors.Is(err, mediaservice.ErrUpstreamUnavailable):
			app.mediaUpstreamErrorResponse(w, r, err)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	err = app.writeJSON(w, http.StatusCreated, envelope{"blog": post}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}
}

func (app *application) listBlogsByStatusHandler(w http.ResponseWriter, r *http.Request) {
	status := blogservice.Status(app.readStringParam(r, "status"))

	blogs, err := app.blogService.ListByStatus(r.Context(), status)
	if err != nil {
		switch {
		case errors.As(err, &common.ValidationError{}):
			validationErr := err.(common.ValidationError)
			app.failedValidationErrorResponse(w, r, validationErr.Errors)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"blogs": blogs}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}
}

type approveBlogRequest struct {
	Publish bool `json:"publish"`
}

func (app *application) approveBlogHandler(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r, "id")
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	var input approveBlogRequest
	if r.ContentLength != 0 {
		err = app.parseJSON(w, r, &input)
		if err != nil {
			app.badRequestErrorResponse(w, r, err)
			return
		}
	}

	post, err := app.blogService.Approve(r.Context(), id, input.Publish)
	if err != nil {
		app.moderationErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"blog": post}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}
}

type rejectBlogRequest struct {
	Note string `json:"note"`
}

func (app *application) rejectBlogHandler(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r, "id")
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	var input rejectBlogRequest
	err = app.parseJSON(w, r, &input)
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	post, err := app.blogService.Reject(r.Context(), id, input.Note)
	if err != nil {
		app.moderationErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"blog": post}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}
}

// moderationErrorResponse maps the shared failure modes of a moderation
// decision to their status codes.
func (app *application) moderationErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, blogservice.ErrRecordNotFound):
		app.notFoundErrorResponse(w, r)
	case errors.Is(err, blogservice.ErrStaleState):
		app.staleDecisionErrorResponse(w, r)
	case errors.As(err, &common.ValidationError{}):
		validationErr := err.(common.ValidationError)
		app.failedValidationErrorResponse(w, r, validationErr.Errors)
	default:
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) deleteBlogHandler(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r, "id")
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	err = app.blogService.Delete(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, blogservice.ErrRecordNotFound):
			app.notFoundErrorResponse(w, r)
		case errors.Is(err, mediaservice.ErrUpstreamUnavailable):
			app.mediaUpstreamErrorResponse(w, r, err)
		case errors.As(err, &common.ValidationError{}):
			validationErr := err.(common.ValidationError)
			app.failedValidationErrorResponse(w, r, validationErr.Errors)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (app *application) getPublishedBlogHandler(w http.ResponseWriter, r *http.Request) {
	slug := app.readStringParam(r, "slug")

	post, err := app.blogService.GetPublishedBySlug(r.Context(), slug)
	if err != nil {
		switch {
		case errors.Is(err, blogservice.ErrRecordNotFound):
			app.notFoundErrorResponse(w, r)
		case errors.As(err, &common.ValidationError{}):
			validationErr := err.(common.ValidationError)
			app.failedValidationErrorResponse(w, r, validationErr.Errors)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"blog": post}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}
}
