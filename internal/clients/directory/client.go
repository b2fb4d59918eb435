// internal/clients/directory/client.go
//
// Client for a Keycloak-compatible identity provider. Local group and
// role changes are mirrored into the directory's groups and role
// mappings over the admin REST API. Every sync call is best-effort:
// failures are logged and swallowed, never surfaced to the caller.
package directory

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/oauth2"
)

// Sync mirrors group and role state into an external directory.
type Sync interface {
	CreateGroup(ctx context.Context, name string)
	DeleteGroup(ctx context.Context, name string)
	AddUserToGroup(ctx context.Context, email, group string)
	RemoveUserFromGroup(ctx context.Context, email, group string)
	GrantRole(ctx context.Context, email, role string)
	RevokeRole(ctx context.Context, email, role string)
}

// NoOp is used when the integration is not configured.
type NoOp struct{}

func (NoOp) CreateGroup(context.Context, string)            {}
func (NoOp) DeleteGroup(context.Context, string)            {}
func (NoOp) AddUserToGroup(context.Context, string, string) {}
func (NoOp) RemoveUserFromGroup(context.Context, string, string) {
}
func (NoOp) GrantRole(context.Context, string, string)  {}
func (NoOp) RevokeRole(context.Context, string, string) {}

// refreshMargin is how long before expiry a token is renewed.
const refreshMargin = 30 * time.Second

// Client implements Sync against a Keycloak-style admin API.
type Client struct {
	baseURL  string
	realm    string
	username string
	password string
	oauth    *oauth2.Config
	http     *http.Client
	log      *zap.Logger

	// now is replaceable in tests to drive token expiry.
	now func() time.Time

	mu    sync.Mutex
	token *oauth2.Token
}

// Config holds the directory connection settings.
type Config struct {
	BaseURL  string // e.g. "https://idp.example.org"
	Realm    string
	ClientID string
	Username string
	Password string
}

// New builds a directory client using the resource-owner password grant
// against the realm's token endpoint.
func New(cfg Config, logger *zap.Logger) *Client {
	base := strings.TrimRight(cfg.BaseURL, "/")
	return &Client{
		baseURL:  base,
		realm:    cfg.Realm,
		username: cfg.Username,
		password: cfg.Password,
		oauth: &oauth2.Config{
			ClientID: cfg.ClientID,
			Endpoint: oauth2.Endpoint{
				TokenURL: base + "/realms/" + cfg.Realm + "/protocol/openid-connect/token",
			},
		},
		http: &http.Client{Timeout: 10 * time.Second},
		log:  logger,
		now:  time.Now,
	}
}

// accessToken returns a valid bearer token, renewing proactively when
// the cached one is within refreshMargin of expiry. Renewal uses the
// refresh token when present and falls back to a fresh password grant.
func (c *Client) accessToken(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.token != nil && c.token.Expiry.After(c.now().Add(refreshMargin)) {
		return c.token.AccessToken, nil
	}

	if c.token != nil && c.token.RefreshToken != "" {
		// TokenSource refreshes only once the token is expired by its
		// own clock; mark the cached copy stale so renewal happens
		// while still inside the margin.
		stale := *c.token
		stale.Expiry = time.Unix(1, 0)
		tok, err := c.oauth.TokenSource(ctx, &stale).Token()
		if err == nil {
			c.token = tok
			return tok.AccessToken, nil
		}
		c.log.Warn("directory token refresh failed, re-authenticating", zap.Error(err))
	}

	tok, err := c.oauth.PasswordCredentialsToken(ctx, c.username, c.password)
	if err != nil {
		return "", fmt.Errorf("directory token grant: %w", err)
	}
	c.token = tok
	return tok.AccessToken, nil
}

func (c *Client) adminURL(path string) string {
	return c.baseURL + "/admin/realms/" + c.realm + path
}

// do performs an authenticated admin API call. A non-nil out decodes
// the JSON response body into it.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	token, err := c.accessToken(ctx)
	if err != nil {
		return err
	}

	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.adminURL(path), reader)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("directory %s %s: status %d: %s", method, path, resp.StatusCode, strings.TrimSpace(string(msg)))
	}
	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}

// ref is the {id, name} pair the directory uses for groups and roles.
type ref struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func (c *Client) findGroup(ctx context.Context, name string) (ref, error) {
	var groups []ref
	path := "/groups?search=" + url.QueryEscape(name)
	if err := c.do(ctx, http.MethodGet, path, nil, &groups); err != nil {
		return ref{}, err
	}
	for _, g := range groups {
		if g.Name == name {
			return g, nil
		}
	}
	return ref{}, fmt.Errorf("directory group %q not found", name)
}

func (c *Client) findUser(ctx context.Context, email string) (string, error) {
	var users []struct {
		ID    string `json:"id"`
		Email string `json:"email"`
	}
	path := "/users?email=" + url.QueryEscape(email) + "&exact=true"
	if err := c.do(ctx, http.MethodGet, path, nil, &users); err != nil {
		return "", err
	}
	for _, u := range users {
		if strings.EqualFold(u.Email, email) {
			return u.ID, nil
		}
	}
	return "", fmt.Errorf("directory user %q not found", email)
}

func (c *Client) findRole(ctx context.Context, name string) (ref, error) {
	var role ref
	path := "/roles/" + url.PathEscape(name)
	if err := c.do(ctx, http.MethodGet, path, nil, &role); err != nil {
		return ref{}, err
	}
	return role, nil
}

func (c *Client) CreateGroup(ctx context.Context, name string) {
	err := c.do(ctx, http.MethodPost, "/groups", map[string]string{"name": name}, nil)
	if err != nil {
		c.log.Warn("directory group create failed", zap.String("group", name), zap.Error(err))
	}
}

func (c *Client) DeleteGroup(ctx context.Context, name string) {
	g, err := c.findGroup(ctx, name)
	if err == nil {
		err = c.do(ctx, http.MethodDelete, "/groups/"+g.ID, nil, nil)
	}
	if err != nil {
		c.log.Warn("directory group delete failed", zap.String("group", name), zap.Error(err))
	}
}

func (c *Client) AddUserToGroup(ctx context.Context, email, group string) {
	if err := c.changeGroupMembership(ctx, http.MethodPut, email, group); err != nil {
		c.log.Warn("directory group join failed",
			zap.String("email", email), zap.String("group", group), zap.Error(err))
	}
}

func (c *Client) RemoveUserFromGroup(ctx context.Context, email, group string) {
	if err := c.changeGroupMembership(ctx, http.MethodDelete, email, group); err != nil {
		c.log.Warn("directory group leave failed",
			zap.String("email", email), zap.String("group", group), zap.Error(err))
	}
}

func (c *Client) changeGroupMembership(ctx context.Context, method, email, group string) error {
	uid, err := c.findUser(ctx, email)
	if err != nil {
		return err
	}
	g, err := c.findGroup(ctx, group)
	if err != nil {
		return err
	}
	return c.do(ctx, method, "/users/"+uid+"/groups/"+g.ID, nil, nil)
}

func (c *Client) GrantRole(ctx context.Context, email, role string) {
	if err := c.changeRoleMapping(ctx, http.MethodPost, email, role); err != nil {
		c.log.Warn("directory role grant failed",
			zap.String("email", email), zap.String("role", role), zap.Error(err))
	}
}

func (c *Client) RevokeRole(ctx context.Context, email, role string) {
	if err := c.changeRoleMapping(ctx, http.MethodDelete, email, role); err != nil {
		c.log.Warn("directory role revoke failed",
			zap.String("email", email), zap.String("role", role), zap.Error(err))
	}
}

func (c *Client) changeRoleMapping(ctx context.Context, method, email, role string) error {
	uid, err := c.findUser(ctx, email)
	if err != nil {
		return err
	}
	r, err := c.findRole(ctx, role)
	if err != nil {
		return err
	}
	return c.do(ctx, method, "/users/"+uid+"/role-mappings/realm", []ref{r}, nil)
}
