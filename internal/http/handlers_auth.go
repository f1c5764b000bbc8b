package httpx

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	domainauth "github.com/airportmgmt/airport-web/internal/domain/auth"
	"github.com/airportmgmt/airport-web/internal/service"
)

// AuthServiceInterface defines the interface for auth service operations.
type AuthServiceInterface interface {
	Login(ctx context.Context, creds domainauth.Credentials) (*domainauth.Session, error)
	Register(ctx context.Context, reg domainauth.Registration) (string, error)
	GetSession(ctx context.Context, sessionID string) (*domainauth.Session, error)
	Logout(ctx context.Context, sessionID string) error
}

var _ AuthServiceInterface = (*service.AuthService)(nil)

// AuthHandlers provides HTTP handlers for authentication operations.
type AuthHandlers struct {
	Svc          AuthServiceInterface
	CookieDomain string
	Logger       *slog.Logger
	// Pages renders the login and register forms when a submission fails.
	Pages *UIHandlers
}

func (h *AuthHandlers) logger() *slog.Logger {
	if h != nil && h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

func loginPageMeta() PageMeta {
	return PageMeta{Title: "Login - Airport Management", PageTitle: "Login", CurrentPage: PageLogin}
}

func registerPageMeta() PageMeta {
	return PageMeta{Title: "Register - Airport Management", PageTitle: "Register", CurrentPage: PageRegister}
}

// loginForm is echoed back into the login form on failure. The password never is.
type loginForm struct {
	Username    string
	RedirectURI string
}

type registerForm struct {
	Username string
	Email    string
}

// LoginPage renders the login form. Authenticated users are sent home.
func (h *UIHandlers) LoginPage(w http.ResponseWriter, r *http.Request) {
	if !IsGuestUser(r.Context()) {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	redirect := safeRedirectPath(r.URL.Query().Get("redirect_uri"))
	h.Page(w, r, PageSpec{
		Meta: loginPageMeta(),
		Fetch: func(_ context.Context, data map[string]any) error {
			data["FormData"] = loginForm{RedirectURI: redirect}
			return nil
		},
	})
}

// RegisterPage renders the registration form. Authenticated users are sent home.
func (h *UIHandlers) RegisterPage(w http.ResponseWriter, r *http.Request) {
	if !IsGuestUser(r.Context()) {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	h.Page(w, r, PageSpec{
		Meta: registerPageMeta(),
		Fetch: func(_ context.Context, data map[string]any) error {
			data["FormData"] = registerForm{}
			return nil
		},
	})
}

// Login handles POST /login. A successful login stores the identity slot, sets the
// session cookie and sends the browser to the requested page.
func (h *AuthHandlers) Login(w http.ResponseWriter, r *http.Request) {
	if err := parseRequestForm(r); err != nil {
		http.Error(w, "invalid form submission", http.StatusBadRequest)
		return
	}

	form := loginForm{
		Username:    strings.TrimSpace(r.FormValue("username")),
		RedirectURI: safeRedirectPath(r.FormValue("redirect_uri")),
	}
	session, err := h.Svc.Login(r.Context(), domainauth.Credentials{
		Username: form.Username,
		Password: r.FormValue("password"),
	})
	if err != nil {
		if clientGone(r, err) {
			return
		}
		h.logger().InfoContext(r.Context(), "login failed", "username", form.Username, "error", err)
		h.renderAuthFormError(w, r, authFormFailure{
			Meta: loginPageMeta(), Fragment: "login-form", FormData: form, Err: err, Fallback: "Login failed",
		})
		return
	}

	setCookie(w, r, cookieParams{
		Name:   SessionCookieName,
		Value:  session.ID,
		Domain: h.CookieDomain,
		MaxAge: int(time.Until(session.ExpiresAt).Seconds()),
	})

	if IsHTMX(r) {
		HTMX(w).Toast("Welcome back, "+session.Username+"!", ToastSuccess).
			RedirectAfter(form.RedirectURI, LoginRedirectDelay).
			NoContent()
		return
	}
	http.Redirect(w, r, form.RedirectURI, http.StatusSeeOther)
}

// Register handles POST /register and points the new user at the login page.
func (h *AuthHandlers) Register(w http.ResponseWriter, r *http.Request) {
	if err := parseRequestForm(r); err != nil {
		http.Error(w, "invalid form submission", http.StatusBadRequest)
		return
	}

	form := registerForm{
		Username: strings.TrimSpace(r.FormValue("username")),
		Email:    strings.TrimSpace(r.FormValue("email")),
	}
	password := r.FormValue("password")
	if password != r.FormValue("confirmPassword") && r.Form.Has("confirmPassword") {
		h.renderAuthFormError(w, r, authFormFailure{
			Meta:        registerPageMeta(),
			Fragment:    "register-form",
			FormData:    form,
			FieldErrors: map[string]string{"confirmPassword": "Passwords do not match"},
		})
		return
	}

	msg, err := h.Svc.Register(r.Context(), domainauth.Registration{
		Username: form.Username,
		Email:    form.Email,
		Password: password,
	})
	if err != nil {
		if clientGone(r, err) {
			return
		}
		h.renderAuthFormError(w, r, authFormFailure{
			Meta: registerPageMeta(), Fragment: "register-form", FormData: form, Err: err, Fallback: "Registration failed",
		})
		return
	}

	if IsHTMX(r) {
		HTMX(w).Toast(msg, ToastSuccess).RedirectAfter("/login", LoginRedirectDelay).NoContent()
		return
	}
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// Logout handles POST /logout. The identity slot and cookie are always cleared,
// even when the backend logout fails.
func (h *AuthHandlers) Logout(w http.ResponseWriter, r *http.Request) {
	if ck, err := r.Cookie(SessionCookieName); err == nil && ck.Value != "" {
		if logoutErr := h.Svc.Logout(r.Context(), ck.Value); logoutErr != nil {
			h.logger().WarnContext(r.Context(), "logout failed", "error", logoutErr)
		}
	}
	clearCookie(w, r, cookieParams{Name: SessionCookieName, Domain: h.CookieDomain})

	if IsHTMX(r) {
		HTMX(w).Toast("Logged out successfully", ToastSuccess).
			RedirectAfter("/", LogoutRedirectDelay).
			NoContent()
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// Status reports the current authentication state as JSON.
// GET /auth/status.
func (h *AuthHandlers) Status(w http.ResponseWriter, r *http.Request) {
	session := sessionResolver{auth: h.Svc, cookieDomain: h.CookieDomain}.resolve(w, r)
	if session == nil {
		WriteJSON(w, http.StatusOK, map[string]any{"authenticated": false})
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{
		"authenticated": true,
		"user": map[string]any{
			"id":       session.UserID,
			"username": session.Username,
			"email":    session.Email,
			"role":     session.Role,
		},
		"expires_at": session.ExpiresAt,
	})
}

type authFormFailure struct {
	Meta        PageMeta
	Fragment    string
	FormData    any
	Err         error
	Fallback    string
	FieldErrors map[string]string
}

// renderAuthFormError re-renders the login or register form. htmx requests get
// just the form plus a toast; plain posts get the whole page back.
func (h *AuthHandlers) renderAuthFormError(w http.ResponseWriter, r *http.Request, f authFormFailure) {
	if h.Pages == nil || h.Pages.T == nil {
		msg := userMessage(f.Err, f.Fallback)
		if msg == "" {
			msg = errMsgFixBelow
		}
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "auth_failed", Err: errors.New(msg)})
		return
	}

	renderer := h.Pages.renderPage
	if IsHTMX(r) {
		renderer = func(w http.ResponseWriter, r *http.Request, data map[string]any) {
			h.Pages.renderFragment(w, r, f.Fragment, data)
		}
	}

	RenderError(ErrorOpts{
		W:           w,
		R:           r,
		Err:         f.Err,
		Fallback:    f.Fallback,
		FieldErrors: f.FieldErrors,
		Renderer:    renderer,
		PageMeta:    f.Meta,
		Data:        map[string]any{"FormData": f.FormData},
		ShowToast:   IsHTMX(r),
	})
}
