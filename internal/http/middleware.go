package httpx

import (
	"errors"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"runtime/debug"
	"strings"
	"time"

	domainauth "github.com/airportmgmt/airport-web/internal/domain/auth"
)

// Logging returns a middleware that logs HTTP requests and responses.
func Logging(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := &respWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(ww, r)
			logger.Info("http",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", ww.status),
				slog.Bool("htmx", IsHTMX(r)),
				slog.Duration("duration", time.Since(start)),
			)
		})
	}
}

type respWriter struct {
	http.ResponseWriter
	status int
}

func (w *respWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

func (w *respWriter) Unwrap() http.ResponseWriter { return w.ResponseWriter }

// Recover returns a middleware that recovers from panics and logs them.
func Recover(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					logger.Error("panic",
						slog.Any("error", err),
						slog.String("path", r.URL.Path),
						slog.String("method", r.Method),
						slog.String("stack", string(debug.Stack())))
					http.Error(w, "Internal Server Error", http.StatusInternalServerError)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// sessionResolver loads the identity slot named by the session cookie.
type sessionResolver struct {
	auth         AuthServiceInterface
	cookieDomain string
}

// resolve returns the live session for r, or nil for guests. A cookie naming a
// slot that is gone or expired is cleared so the browser stops sending it. Any
// other lookup failure, such as the session store being unreachable, serves the
// request as a guest but keeps the cookie for the next request.
func (s sessionResolver) resolve(w http.ResponseWriter, r *http.Request) *domainauth.Session {
	if s.auth == nil {
		return nil
	}
	ck, err := r.Cookie(SessionCookieName)
	if err != nil || ck.Value == "" {
		return nil
	}
	session, err := s.auth.GetSession(r.Context(), ck.Value)
	if err != nil {
		if errors.Is(err, domainauth.ErrSessionNotFound) || errors.Is(err, domainauth.ErrSessionExpired) {
			clearCookie(w, r, cookieParams{Name: SessionCookieName, Domain: s.cookieDomain})
			return nil
		}
		slog.WarnContext(r.Context(), "session lookup failed", "error", err)
		return nil
	}
	if !session.IsAuthenticated() {
		clearCookie(w, r, cookieParams{Name: SessionCookieName, Domain: s.cookieDomain})
		return nil
	}
	return session
}

// OptionalAuth returns a middleware that adds the session to the request context when present.
// Guests continue without session information.
func OptionalAuth(authSvc AuthServiceInterface, cookieDomain string) func(http.Handler) http.Handler {
	res := sessionResolver{auth: authSvc, cookieDomain: cookieDomain}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if session := res.resolve(w, r); session != nil {
				r = r.WithContext(SetSessionInContext(r.Context(), session))
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireAuthBrowser redirects guests to the login page and passes authenticated requests through.
func RequireAuthBrowser(authSvc AuthServiceInterface, cookieDomain string) func(http.Handler) http.Handler {
	return RequireRoleBrowser(authSvc, cookieDomain)
}

// RequireRoleBrowser requires an authenticated session holding one of roles.
// With no roles any authenticated session passes. Guests are sent to the login
// page; authenticated users lacking the role get an access-denied response.
func RequireRoleBrowser(
	authSvc AuthServiceInterface,
	cookieDomain string,
	roles ...domainauth.Role,
) func(http.Handler) http.Handler {
	res := sessionResolver{auth: authSvc, cookieDomain: cookieDomain}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			session := res.resolve(w, r)
			if session == nil {
				redirectToLogin(w, r)
				return
			}
			if len(roles) > 0 && !session.HasRole(roles...) {
				showAccessDenied(w, r)
				return
			}
			next.ServeHTTP(w, r.WithContext(SetSessionInContext(r.Context(), session)))
		})
	}
}

// redirectToLogin sends the browser to /login, remembering where it was headed.
func redirectToLogin(w http.ResponseWriter, r *http.Request) {
	loginURL := "/login?redirect_uri=" + url.QueryEscape(redirectPathForRequest(r))

	if IsHTMX(r) {
		HTMX(w).Toast("Please login to continue", ToastError)
		SetHXRedirect(w, loginURL)
		w.WriteHeader(http.StatusOK)
		return
	}
	http.Redirect(w, r, loginURL, http.StatusSeeOther)
}

func redirectPathForRequest(r *http.Request) string {
	if IsHTMX(r) {
		if current := safeRedirectFromURL(r.Header.Get("Hx-Current-Url")); current != "" {
			return current
		}
		if referer := safeRedirectFromURL(r.Header.Get("Referer")); referer != "" {
			return referer
		}
	}
	if r.Method != http.MethodGet {
		return "/"
	}
	return safeRedirectPath(r.URL.RequestURI())
}

func safeRedirectFromURL(raw string) string {
	if raw == "" {
		return ""
	}
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	// Reject scheme-relative or host-only references.
	if u.Host != "" && !u.IsAbs() {
		return ""
	}
	if u.IsAbs() {
		return safeRedirectPath(u.RequestURI())
	}
	return safeRedirectPath(raw)
}

// showAccessDenied answers a request the session is not allowed to make.
func showAccessDenied(w http.ResponseWriter, r *http.Request) {
	if IsHTMX(r) {
		HTMX(w).Toast("Access denied", ToastError).Reswap("none")
		w.WriteHeader(http.StatusForbidden)
		return
	}
	http.Error(w, "Access Denied: You don't have permission to access this resource", http.StatusForbidden)
}

// cookieParams groups the attributes used when writing or clearing a cookie.
type cookieParams struct {
	Name   string
	Value  string
	Domain string
	MaxAge int
}

func isSecureRequest(r *http.Request) bool {
	return r.TLS != nil || isForwardedHTTPS(r)
}

// setCookie writes an HttpOnly, SameSite=Lax cookie.
func setCookie(w http.ResponseWriter, r *http.Request, p cookieParams) {
	http.SetCookie(w, &http.Cookie{
		Name:     p.Name,
		Value:    p.Value,
		Path:     "/",
		Domain:   p.Domain,
		HttpOnly: true,
		Secure:   isSecureRequest(r),
		SameSite: http.SameSiteLaxMode,
		MaxAge:   p.MaxAge,
	})
}

// clearCookie expires a cookie, mirroring the attributes used when it was set.
func clearCookie(w http.ResponseWriter, r *http.Request, p cookieParams) {
	http.SetCookie(w, &http.Cookie{
		Name:     p.Name,
		Value:    "",
		Path:     "/",
		Domain:   p.Domain,
		HttpOnly: true,
		Secure:   isSecureRequest(r),
		MaxAge:   -1,
		Expires:  time.Unix(0, 0).UTC(),
		SameSite: http.SameSiteLaxMode,
	})
}

// clientIP returns the best-effort client address used for throttling.
func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		if first, _, _ := strings.Cut(xff, ","); strings.TrimSpace(first) != "" {
			return strings.TrimSpace(first)
		}
	}
	if xr := strings.TrimSpace(r.Header.Get("X-Real-Ip")); xr != "" {
		return xr
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
