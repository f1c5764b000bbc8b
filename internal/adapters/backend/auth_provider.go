package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"

	"golang.org/x/net/publicsuffix"

	domainauth "github.com/airportmgmt/airport-web/internal/domain/auth"
	"github.com/airportmgmt/airport-web/internal/ports"
)

// AuthProvider authenticates against the backend's /auth endpoints.
type AuthProvider struct {
	client *Client
	// SessionCookie names the backend session cookie; empty keeps every cookie the backend sets.
	SessionCookie string
}

var _ ports.AuthProvider = (*AuthProvider)(nil)

// NewAuthProvider returns an AuthProvider sharing c's transport.
func NewAuthProvider(c *Client, sessionCookie string) *AuthProvider {
	return &AuthProvider{client: c, SessionCookie: sessionCookie}
}

type userData struct {
	ID       json.Number `json:"id"`
	Username string      `json:"username"`
	Email    string      `json:"email"`
	Role     string      `json:"role"`
}

// Login posts the credentials and captures the backend session cookies through a
// per-login cookie jar.
func (p *AuthProvider) Login(ctx context.Context, creds domainauth.Credentials) (domainauth.Identity, error) {
	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return domainauth.Identity{}, fmt.Errorf("create cookie jar: %w", err)
	}
	hc := &http.Client{
		Transport:     p.client.http.Transport,
		CheckRedirect: p.client.http.CheckRedirect,
		Timeout:       p.client.http.Timeout,
		Jar:           jar,
	}

	resp, err := p.client.do(ctx, hc, ports.BackendRequest{
		Method: http.MethodPost,
		Path:   "/auth/login",
		Form:   url.Values{"username": {creds.Username}, "password": {creds.Password}},
	})
	if err != nil {
		return domainauth.Identity{}, err
	}

	var u userData
	if err := json.Unmarshal(resp.Data, &u); err != nil {
		return domainauth.Identity{}, fmt.Errorf("%w: decode user: %w", ErrInvalidResponse, err)
	}

	base, err := url.Parse(p.client.baseURL + "/")
	if err != nil {
		return domainauth.Identity{}, fmt.Errorf("parse base url: %w", err)
	}
	var cookies []domainauth.Cookie
	for _, ck := range jar.Cookies(base) {
		if p.SessionCookie != "" && !strings.EqualFold(ck.Name, p.SessionCookie) {
			continue
		}
		cookies = append(cookies, domainauth.Cookie{Name: ck.Name, Value: ck.Value})
	}

	id := u.ID.String()
	if id == "" {
		id = u.Username
	}
	return domainauth.Identity{
		UserID:   id,
		Username: u.Username,
		Email:    u.Email,
		Groups:   []string{u.Role},
		Cookies:  cookies,
	}, nil
}

// Register creates a passenger account and returns the backend confirmation.
func (p *AuthProvider) Register(ctx context.Context, reg domainauth.Registration) (string, error) {
	resp, err := p.client.Call(ctx, ports.BackendRequest{
		Method: http.MethodPost,
		Path:   "/auth/register",
		Form: url.Values{
			"username": {reg.Username},
			"password": {reg.Password},
			"email":    {reg.Email},
		},
	})
	if err != nil {
		return "", err
	}
	return resp.Message, nil
}

// Logout ends the backend session identified by the cookies held in sess.
func (p *AuthProvider) Logout(ctx context.Context, sess domainauth.Session) error {
	if len(sess.BackendCookies) == 0 {
		return nil
	}
	_, err := p.client.Call(domainauth.WithSession(ctx, &sess), ports.BackendRequest{
		Method: http.MethodPost,
		Path:   "/auth/logout",
	})
	return err
}
