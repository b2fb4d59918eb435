package directory_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/dalemusser/teamhub/internal/clients/directory"
	"go.uber.org/zap"
)

// fakeIdP is a minimal Keycloak-shaped server: a password-grant token
// endpoint plus the handful of admin API routes the client uses.
type fakeIdP struct {
	t          *testing.T
	tokenCalls int
	calls      []string // "METHOD path"
}

func (f *fakeIdP) handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/realms/main/protocol/openid-connect/token", func(w http.ResponseWriter, r *http.Request) {
		f.tokenCalls++
		if err := r.ParseForm(); err != nil {
			f.t.Errorf("token form: %v", err)
		}
		if g := r.PostFormValue("grant_type"); g != "password" {
			f.t.Errorf("grant_type: got %q", g)
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"access_token": "test-token",
			"token_type":   "Bearer",
			"expires_in":   3600,
		})
	})

	mux.HandleFunc("/admin/realms/main/", func(w http.ResponseWriter, r *http.Request) {
		if auth := r.Header.Get("Authorization"); auth != "Bearer test-token" {
			f.t.Errorf("Authorization: got %q", auth)
		}
		path := strings.TrimPrefix(r.URL.Path, "/admin/realms/main")
		f.calls = append(f.calls, r.Method+" "+path)

		switch {
		case path == "/groups" && r.Method == http.MethodGet:
			json.NewEncoder(w).Encode([]map[string]string{
				{"id": "g1", "name": r.URL.Query().Get("search")},
			})
		case path == "/groups" && r.Method == http.MethodPost:
			w.WriteHeader(http.StatusCreated)
		case path == "/users" && r.Method == http.MethodGet:
			json.NewEncoder(w).Encode([]map[string]string{
				{"id": "u1", "email": r.URL.Query().Get("email")},
			})
		case strings.HasPrefix(path, "/roles/"):
			json.NewEncoder(w).Encode(map[string]string{
				"id": "r1", "name": strings.TrimPrefix(path, "/roles/"),
			})
		default:
			w.WriteHeader(http.StatusNoContent)
		}
	})

	return mux
}

func newTestClient(t *testing.T) (*directory.Client, *fakeIdP) {
	t.Helper()
	idp := &fakeIdP{t: t}
	srv := httptest.NewServer(idp.handler())
	t.Cleanup(srv.Close)

	c := directory.New(directory.Config{
		BaseURL:  srv.URL,
		Realm:    "main",
		ClientID: "admin-cli",
		Username: "admin",
		Password: "secret",
	}, zap.NewNop())
	return c, idp
}

func TestCreateGroup(t *testing.T) {
	c, idp := newTestClient(t)
	c.CreateGroup(context.Background(), "chess-club")

	if len(idp.calls) != 1 || idp.calls[0] != "POST /groups" {
		t.Errorf("calls: %v", idp.calls)
	}
}

func TestDeleteGroup_ResolvesIDFirst(t *testing.T) {
	c, idp := newTestClient(t)
	c.DeleteGroup(context.Background(), "chess-club")

	want := []string{"GET /groups", "DELETE /groups/g1"}
	if len(idp.calls) != 2 || idp.calls[0] != want[0] || idp.calls[1] != want[1] {
		t.Errorf("calls: %v, want %v", idp.calls, want)
	}
}

func TestAddAndRemoveUserFromGroup(t *testing.T) {
	c, idp := newTestClient(t)
	ctx := context.Background()

	c.AddUserToGroup(ctx, "user@example.com", "chess-club")
	c.RemoveUserFromGroup(ctx, "user@example.com", "chess-club")

	want := []string{
		"GET /users", "GET /groups", "PUT /users/u1/groups/g1",
		"GET /users", "GET /groups", "DELETE /users/u1/groups/g1",
	}
	if len(idp.calls) != len(want) {
		t.Fatalf("calls: %v", idp.calls)
	}
	for i := range want {
		if idp.calls[i] != want[i] {
			t.Errorf("call %d: got %q, want %q", i, idp.calls[i], want[i])
		}
	}
}

func TestGrantRole(t *testing.T) {
	c, idp := newTestClient(t)
	c.GrantRole(context.Background(), "user@example.com", "chess-club:admin")

	want := []string{"GET /users", "GET /roles/chess-club:admin", "POST /users/u1/role-mappings/realm"}
	if len(idp.calls) != len(want) {
		t.Fatalf("calls: %v", idp.calls)
	}
	for i := range want {
		if idp.calls[i] != want[i] {
			t.Errorf("call %d: got %q, want %q", i, idp.calls[i], want[i])
		}
	}
}

func TestTokenIsCachedAcrossCalls(t *testing.T) {
	c, idp := newTestClient(t)
	ctx := context.Background()

	c.CreateGroup(ctx, "one")
	c.CreateGroup(ctx, "two")
	c.GrantRole(ctx, "user@example.com", "one:admin")

	if idp.tokenCalls != 1 {
		t.Errorf("token endpoint hit %d times, want 1", idp.tokenCalls)
	}
}

func TestSyncIsBestEffort(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "idp down", http.StatusInternalServerError)
	}))
	t.Cleanup(srv.Close)

	c := directory.New(directory.Config{
		BaseURL: srv.URL, Realm: "main", ClientID: "admin-cli",
		Username: "admin", Password: "secret",
	}, zap.NewNop())

	// None of these may panic or surface an error.
	ctx := context.Background()
	c.CreateGroup(ctx, "g")
	c.DeleteGroup(ctx, "g")
	c.AddUserToGroup(ctx, "a@example.com", "g")
	c.GrantRole(ctx, "a@example.com", "g:admin")
}

func TestNoOpImplementsSync(t *testing.T) {
	var s directory.Sync = directory.NoOp{}
	ctx := context.Background()
	s.CreateGroup(ctx, "g")
	s.DeleteGroup(ctx, "g")
	s.AddUserToGroup(ctx, "a@example.com", "g")
	s.RemoveUserFromGroup(ctx, "a@example.com", "g")
	s.GrantRole(ctx, "a@example.com", "r")
	s.RevokeRole(ctx, "a@example.com", "r")
}
