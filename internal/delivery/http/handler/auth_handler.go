package handler

import (
	"errors"
	"net/http"

	"clinic-booking/internal/delivery/dto"
	"clinic-booking/internal/delivery/http/middleware"
	"clinic-booking/internal/delivery/http/view"
	"clinic-booking/internal/domain/entity"
	"clinic-booking/internal/service"
	"clinic-booking/internal/usecase"
)

const (
	msgWelcomeBack      = "Welcome back!"
	msgAccountCreated   = "Account created successfully!"
	msgLoggedOut        = "You have been logged out."
	msgInvalidLogin     = "Invalid credentials. Please try again."
	msgFieldsRequired   = "All fields are required"
	msgUsernameTaken    = "Username already exists"
	msgRegistrationFail = "Registration failed. Please try again."
)

type AuthHandler struct {
	web
	authUsecase    usecase.AuthUsecase
	authMiddleware *middleware.AuthMiddleware
}

func NewAuthHandler(
	authUsecase usecase.AuthUsecase,
	authMiddleware *middleware.AuthMiddleware,
	renderer *view.Renderer,
	flashService service.FlashService,
) *AuthHandler {
	return &AuthHandler{
		web:            web{renderer: renderer, flashService: flashService},
		authUsecase:    authUsecase,
		authMiddleware: authMiddleware,
	}
}

// Login shows the login form and signs the user in on POST, then follows ?next=.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if _, ok := middleware.GetIdentityFromContext(r.Context()); ok {
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}

	next := r.URL.Query().Get("next")
	page := h.page(r, "Login")
	page.Next = next

	if r.Method != http.MethodPost {
		h.renderer.Render(w, http.StatusOK, view.PageLogin, page)
		return
	}

	req := dto.LoginRequest{
		Username: r.PostFormValue("username"),
		Password: r.PostFormValue("password"),
	}
	page.Form = map[string]string{"username": req.Username}

	session, err := h.authUsecase.Login(r.Context(), &req)
	if err != nil {
		message := msgInvalidLogin
		if !errors.Is(err, usecase.ErrInvalidCredentials) {
			message = "Login failed. Please try again."
		}
		page.Flashes = append(page.Flashes, entity.Flash{Level: entity.FlashError, Message: message})
		h.renderer.Render(w, http.StatusOK, view.PageLogin, page)
		return
	}

	h.authMiddleware.SetAuthCookie(w, session.Token, session.ExpiresIn)
	h.flash(r, entity.FlashSuccess, msgWelcomeBack)
	http.Redirect(w, r, safeRedirect(next), http.StatusFound)
}

// Signup registers a new account and logs it in.
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	if _, ok := middleware.GetIdentityFromContext(r.Context()); ok {
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}

	page := h.page(r, "Sign up")
	if r.Method != http.MethodPost {
		h.renderer.Render(w, http.StatusOK, view.PageSignup, page)
		return
	}

	req := dto.SignupRequest{
		Username: r.PostFormValue("username"),
		Email:    r.PostFormValue("email"),
		Password: r.PostFormValue("password"),
	}
	page.Form = map[string]string{"username": req.Username, "email": req.Email}

	session, err := h.authUsecase.Signup(r.Context(), &req)
	if err != nil {
		var message string
		switch {
		case errors.Is(err, usecase.ErrMissingFields):
			message = msgFieldsRequired
		case errors.Is(err, usecase.ErrUsernameExists):
			message = msgUsernameTaken
		default:
			message = msgRegistrationFail
		}
		page.Flashes = append(page.Flashes, entity.Flash{Level: entity.FlashError, Message: message})
		h.renderer.Render(w, http.StatusOK, view.PageSignup, page)
		return
	}

	h.authMiddleware.SetAuthCookie(w, session.Token, session.ExpiresIn)
	h.flash(r, entity.FlashSuccess, msgAccountCreated)
	http.Redirect(w, r, "/", http.StatusFound)
}

// Logout ends the login, if any, and always lands on the home page.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if identity, ok := middleware.GetIdentityFromContext(r.Context()); ok {
		// Failure is logged by the usecase; the cookie is dropped regardless
		_ = h.authUsecase.Logout(r.Context(), identity.UserID, identity.TokenID)
		h.authMiddleware.ClearAuthCookie(w)
		h.flash(r, entity.FlashInfo, msgLoggedOut)
	}
	http.Redirect(w, r, "/", http.StatusFound)
}
