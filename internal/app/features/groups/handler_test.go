package groups_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/dalemusser/teamhub/internal/app/features/groups"
	"github.com/dalemusser/teamhub/internal/app/policy"
	bookmarkstore "github.com/dalemusser/teamhub/internal/app/store/bookmarks"
	groupstore "github.com/dalemusser/teamhub/internal/app/store/groups"
	membershipstore "github.com/dalemusser/teamhub/internal/app/store/memberships"
	userstore "github.com/dalemusser/teamhub/internal/app/store/users"
	"github.com/dalemusser/teamhub/internal/clients/directory"
	"github.com/dalemusser/teamhub/internal/clients/meeting"
	"github.com/dalemusser/teamhub/internal/domain/models"
	"github.com/dalemusser/teamhub/internal/testutil"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

func newTestHandler(t *testing.T) (*groups.Handler, *testutil.Fixtures) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	logger := zap.NewNop()

	handler := groups.NewHandler(
		groupstore.New(db),
		membershipstore.New(db),
		userstore.New(db),
		bookmarkstore.New(db),
		policy.NewChecker(db),
		meeting.New("", "", logger), // unconfigured
		directory.NoOp{},
		logger,
	)
	return handler, testutil.NewFixtures(t, db)
}

func jsonRequest(t *testing.T, method, path, body string) *http.Request {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func groupRequest(t *testing.T, method, body string, u models.User, g models.Group) *http.Request {
	t.Helper()
	req := jsonRequest(t, method, "/groups/"+g.ID.Hex(), body)
	req = testutil.AsUser(req, u)
	return testutil.WithURLParam(req, "id", g.ID.Hex())
}

func TestHandleCreateGroup(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	u := fixtures.CreateUser(ctx, "Creator", "creator@example.com")

	req := testutil.AsUser(jsonRequest(t, "POST", "/groups",
		`{"name":"Study Circle","type":5,"description":"weekly <b>sessions</b>"}`), u)
	rec := httptest.NewRecorder()
	handler.HandleCreateGroup(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status: got %d (body %s)", rec.Code, rec.Body.String())
	}

	var g models.Group
	if err := json.NewDecoder(rec.Body).Decode(&g); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if g.Slug != "study-circle" || g.Type != models.GroupTypeModerated {
		t.Errorf("created group: slug=%q type=%d", g.Slug, g.Type)
	}
	if g.OwnerID.Hex() != u.ID.Hex() {
		t.Errorf("owner: got %s", g.OwnerID.Hex())
	}
	if strings.Contains(g.Description, "<b>") {
		t.Errorf("description not sanitized: %q", g.Description)
	}

	// The creator governs and participates in their own group.
	for _, role := range []string{models.RoleAdmin, models.RoleAnimator, models.RoleMember} {
		held, err := fixtures.Memberships.Exists(ctx, g.ID, u.ID, role)
		if err != nil {
			t.Fatalf("Exists: %v", err)
		}
		if !held {
			t.Errorf("creator missing %s role", role)
		}
	}

	got, err := fixtures.Users.GetByID(ctx, u.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.GroupCount != 1 {
		t.Errorf("group_count: got %d, want 1", got.GroupCount)
	}
	if len(got.FavGroups) != 1 || got.FavGroups[0] != g.ID {
		t.Errorf("group not auto-favorited: %v", got.FavGroups)
	}
}

func TestHandleCreateGroup_QuotaExhausted(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	u := fixtures.CreateUser(ctx, "Creator", "creator@example.com")
	if err := fixtures.Users.SetQuota(ctx, u.ID, 0); err != nil {
		t.Fatalf("SetQuota: %v", err)
	}

	req := testutil.AsUser(jsonRequest(t, "POST", "/groups", `{"name":"Blocked","type":0}`), u)
	rec := httptest.NewRecorder()
	handler.HandleCreateGroup(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Errorf("status: got %d, want %d", rec.Code, http.StatusForbidden)
	}
}

func TestHandleCreateGroup_DuplicateNameReleasesQuota(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	u := fixtures.CreateUser(ctx, "Creator", "creator@example.com")
	fixtures.CreateGroup(ctx, "Taken", models.GroupTypeOpen, u)

	req := testutil.AsUser(jsonRequest(t, "POST", "/groups", `{"name":"Taken","type":0}`), u)
	rec := httptest.NewRecorder()
	handler.HandleCreateGroup(rec, req)

	if rec.Code != http.StatusConflict {
		t.Fatalf("status: got %d, want %d", rec.Code, http.StatusConflict)
	}

	got, err := fixtures.Users.GetByID(ctx, u.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.GroupCount != 0 {
		t.Errorf("quota slot not released on failed create: group_count=%d", got.GroupCount)
	}
}

func TestServeGroupView(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := fixtures.CreateUser(ctx, "Owner", "owner@example.com")
	member := fixtures.CreateUser(ctx, "Member", "member@example.com")
	g := fixtures.CreateGroup(ctx, "Viewed", models.GroupTypeOpen, owner)
	fixtures.GrantRole(ctx, g, member, models.RoleMember)

	rec := httptest.NewRecorder()
	handler.ServeGroupView(rec, groupRequest(t, "GET", "", member, g))

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d (body %s)", rec.Code, rec.Body.String())
	}

	var resp struct {
		Slug       string            `json:"slug"`
		Membership models.MemberView `json:"membership"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Slug != "viewed" {
		t.Errorf("slug: got %q", resp.Slug)
	}
	if len(resp.Membership.Members) != 1 || resp.Membership.Members[0] != member.ID {
		t.Errorf("members: got %v", resp.Membership.Members)
	}
}

func TestServeGroupView_BySlug(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := fixtures.CreateUser(ctx, "Owner", "owner@example.com")
	g := fixtures.CreateGroup(ctx, "Slug Addressed", models.GroupTypeOpen, owner)

	req := testutil.AsUser(jsonRequest(t, "GET", "/groups/"+g.Slug, ""), owner)
	req = testutil.WithURLParam(req, "id", g.Slug)
	rec := httptest.NewRecorder()
	handler.ServeGroupView(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d (body %s)", rec.Code, rec.Body.String())
	}
	var resp models.Group
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.ID != g.ID {
		t.Errorf("slug lookup resolved wrong group: %s", resp.ID.Hex())
	}

	// An unknown slug is a missing group, not a malformed id.
	req = testutil.AsUser(jsonRequest(t, "GET", "/groups/no-such-group", ""), owner)
	req = testutil.WithURLParam(req, "id", "no-such-group")
	rec = httptest.NewRecorder()
	handler.ServeGroupView(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Errorf("unknown slug: got %d, want %d", rec.Code, http.StatusNotFound)
	}
}

func TestHandleSetRole_SelfJoinOpenGroup(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := fixtures.CreateUser(ctx, "Owner", "owner@example.com")
	joiner := fixtures.CreateUser(ctx, "Joiner", "joiner@example.com")
	g := fixtures.CreateGroup(ctx, "Open Doors", models.GroupTypeOpen, owner)

	body := `{"user_id":"` + joiner.ID.Hex() + `","role":"member"}`
	rec := httptest.NewRecorder()
	handler.HandleSetRole(rec, groupRequest(t, "POST", body, joiner, g))

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d (body %s)", rec.Code, rec.Body.String())
	}

	held, err := fixtures.Memberships.Exists(ctx, g.ID, joiner.ID, models.RoleMember)
	if err != nil {
		t.Fatalf("Exists: %v", err)
	}
	if !held {
		t.Error("join did not create a member row")
	}
}

func TestHandleSetRole_SelfJoinClosedGroupForbidden(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := fixtures.CreateUser(ctx, "Owner", "owner@example.com")
	joiner := fixtures.CreateUser(ctx, "Joiner", "joiner@example.com")
	g := fixtures.CreateGroup(ctx, "Members Only", models.GroupTypeClosed, owner)

	body := `{"user_id":"` + joiner.ID.Hex() + `","role":"member"}`
	rec := httptest.NewRecorder()
	handler.HandleSetRole(rec, groupRequest(t, "POST", body, joiner, g))

	if rec.Code != http.StatusForbidden {
		t.Errorf("status: got %d, want %d", rec.Code, http.StatusForbidden)
	}
}

func TestHandleSetRole_CandidatePromotion(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := fixtures.CreateUser(ctx, "Owner", "owner@example.com")
	applicant := fixtures.CreateUser(ctx, "Applicant", "applicant@example.com")
	g := fixtures.CreateGroup(ctx, "Moderated", models.GroupTypeModerated, owner)
	fixtures.GrantRole(ctx, g, owner, models.RoleAdmin)

	// Apply.
	body := `{"user_id":"` + applicant.ID.Hex() + `","role":"candidate"}`
	rec := httptest.NewRecorder()
	handler.HandleSetRole(rec, groupRequest(t, "POST", body, applicant, g))
	if rec.Code != http.StatusOK {
		t.Fatalf("apply: got %d (body %s)", rec.Code, rec.Body.String())
	}

	// Group admin accepts.
	body = `{"user_id":"` + applicant.ID.Hex() + `","role":"member"}`
	rec = httptest.NewRecorder()
	handler.HandleSetRole(rec, groupRequest(t, "POST", body, owner, g))
	if rec.Code != http.StatusOK {
		t.Fatalf("accept: got %d (body %s)", rec.Code, rec.Body.String())
	}

	isCandidate, err := fixtures.Memberships.Exists(ctx, g.ID, applicant.ID, models.RoleCandidate)
	if err != nil {
		t.Fatalf("Exists: %v", err)
	}
	if isCandidate {
		t.Error("candidate row survived promotion")
	}
}

func TestHandleSetRole_AnimatorCannotGrantAdmin(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := fixtures.CreateUser(ctx, "Owner", "owner@example.com")
	animator := fixtures.CreateUser(ctx, "Animator", "animator@example.com")
	target := fixtures.CreateUser(ctx, "Target", "target@example.com")
	g := fixtures.CreateGroup(ctx, "Governed", models.GroupTypeClosed, owner)
	fixtures.GrantRole(ctx, g, animator, models.RoleAnimator)

	body := `{"user_id":"` + target.ID.Hex() + `","role":"admin"}`
	rec := httptest.NewRecorder()
	handler.HandleSetRole(rec, groupRequest(t, "POST", body, animator, g))

	if rec.Code != http.StatusForbidden {
		t.Errorf("status: got %d, want %d", rec.Code, http.StatusForbidden)
	}
}

func TestHandleSetRole_UnknownTarget(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := fixtures.CreateUser(ctx, "Owner", "owner@example.com")
	g := fixtures.CreateGroup(ctx, "G", models.GroupTypeOpen, owner)

	body := `{"user_id":"ffffffffffffffffffffffff","role":"member"}`
	rec := httptest.NewRecorder()
	handler.HandleSetRole(rec, groupRequest(t, "POST", body, owner, g))

	if rec.Code != http.StatusNotFound {
		t.Errorf("status: got %d, want %d", rec.Code, http.StatusNotFound)
	}
}

func TestHandleUnsetRole_MemberLeaves(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := fixtures.CreateUser(ctx, "Owner", "owner@example.com")
	member := fixtures.CreateUser(ctx, "Member", "member@example.com")
	g := fixtures.CreateGroup(ctx, "Leavable", models.GroupTypeClosed, owner)
	fixtures.GrantRole(ctx, g, member, models.RoleMember)

	body := `{"user_id":"` + member.ID.Hex() + `","role":"member"}`
	rec := httptest.NewRecorder()
	handler.HandleUnsetRole(rec, groupRequest(t, "DELETE", body, member, g))

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d (body %s)", rec.Code, rec.Body.String())
	}

	held, err := fixtures.Memberships.Exists(ctx, g.ID, member.ID, models.RoleMember)
	if err != nil {
		t.Fatalf("Exists: %v", err)
	}
	if held {
		t.Error("member row survived leaving")
	}
}

func TestHandleUpdateGroup_AnimatorScope(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := fixtures.CreateUser(ctx, "Owner", "owner@example.com")
	animator := fixtures.CreateUser(ctx, "Animator", "animator@example.com")
	g := fixtures.CreateGroup(ctx, "Editable", models.GroupTypeOpen, owner)
	fixtures.GrantRole(ctx, g, animator, models.RoleAnimator)

	// Info-only edit is within the animator's scope.
	rec := httptest.NewRecorder()
	handler.HandleUpdateGroup(rec, groupRequest(t, "PATCH", `{"description":"updated"}`, animator, g))
	if rec.Code != http.StatusOK {
		t.Fatalf("info edit: got %d (body %s)", rec.Code, rec.Body.String())
	}

	// Renaming is not.
	rec = httptest.NewRecorder()
	handler.HandleUpdateGroup(rec, groupRequest(t, "PATCH", `{"name":"Hijacked"}`, animator, g))
	if rec.Code != http.StatusForbidden {
		t.Errorf("rename by animator: got %d, want %d", rec.Code, http.StatusForbidden)
	}
}

func TestHandleUpdateGroup_OwnerRename(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := fixtures.CreateUser(ctx, "Owner", "owner@example.com")
	g := fixtures.CreateGroup(ctx, "Before Rename", models.GroupTypeOpen, owner)

	rec := httptest.NewRecorder()
	handler.HandleUpdateGroup(rec, groupRequest(t, "PATCH", `{"name":"After Rename"}`, owner, g))
	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d (body %s)", rec.Code, rec.Body.String())
	}

	got, err := fixtures.Groups.GetByID(ctx, g.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Slug != "after-rename" {
		t.Errorf("slug: got %q", got.Slug)
	}
}

func TestHandleDeleteGroup_Cascade(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := fixtures.CreateUser(ctx, "Owner", "owner@example.com")
	member := fixtures.CreateUser(ctx, "Member", "member@example.com")
	g := fixtures.CreateGroup(ctx, "Doomed", models.GroupTypeOpen, owner)
	fixtures.GrantRole(ctx, g, member, models.RoleMember)

	bookmarks := handler.Bookmarks
	if _, err := bookmarks.Create(ctx, models.Bookmark{
		URL: "https://example.com/kept-in-group", GroupID: g.ID, AuthorID: member.ID,
	}); err != nil {
		t.Fatalf("bookmark fixture: %v", err)
	}
	if err := fixtures.Users.AddFavGroup(ctx, member.ID, g.ID); err != nil {
		t.Fatalf("favorite fixture: %v", err)
	}
	if err := fixtures.Users.IncGroupCount(ctx, owner.ID); err != nil {
		t.Fatalf("quota fixture: %v", err)
	}

	rec := httptest.NewRecorder()
	handler.HandleDeleteGroup(rec, groupRequest(t, "DELETE", "", owner, g))
	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d (body %s)", rec.Code, rec.Body.String())
	}

	if _, err := fixtures.Groups.GetByID(ctx, g.ID); !errors.Is(err, mongo.ErrNoDocuments) {
		t.Errorf("group still present: %v", err)
	}
	held, err := fixtures.Memberships.Exists(ctx, g.ID, member.ID, models.RoleMember)
	if err != nil {
		t.Fatalf("Exists: %v", err)
	}
	if held {
		t.Error("membership rows not cascaded")
	}
	rows, err := bookmarks.ListByGroup(ctx, g.ID)
	if err != nil {
		t.Fatalf("ListByGroup: %v", err)
	}
	if len(rows) != 0 {
		t.Error("bookmarks not cascaded")
	}
	gotMember, err := fixtures.Users.GetByID(ctx, member.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if len(gotMember.FavGroups) != 0 {
		t.Error("favorites not cascaded")
	}
	gotOwner, err := fixtures.Users.GetByID(ctx, owner.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if gotOwner.GroupCount != 0 {
		t.Errorf("owner quota not released: group_count=%d", gotOwner.GroupCount)
	}
}

func TestHandleDeleteGroup_MemberForbidden(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := fixtures.CreateUser(ctx, "Owner", "owner@example.com")
	member := fixtures.CreateUser(ctx, "Member", "member@example.com")
	g := fixtures.CreateGroup(ctx, "Protected", models.GroupTypeOpen, owner)
	fixtures.GrantRole(ctx, g, member, models.RoleMember)

	rec := httptest.NewRecorder()
	handler.HandleDeleteGroup(rec, groupRequest(t, "DELETE", "", member, g))
	if rec.Code != http.StatusForbidden {
		t.Errorf("status: got %d, want %d", rec.Code, http.StatusForbidden)
	}
}

func TestHandleFavorite(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := fixtures.CreateUser(ctx, "Owner", "owner@example.com")
	u := fixtures.CreateUser(ctx, "Fan", "fan@example.com")
	g := fixtures.CreateGroup(ctx, "Favored", models.GroupTypeOpen, owner)

	rec := httptest.NewRecorder()
	handler.HandleFavorite(rec, groupRequest(t, "PUT", "", u, g))
	if rec.Code != http.StatusOK {
		t.Fatalf("favorite: got %d", rec.Code)
	}

	got, err := fixtures.Users.GetByID(ctx, u.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if len(got.FavGroups) != 1 {
		t.Fatalf("fav_groups: got %v", got.FavGroups)
	}

	rec = httptest.NewRecorder()
	handler.HandleUnfavorite(rec, groupRequest(t, "DELETE", "", u, g))
	if rec.Code != http.StatusOK {
		t.Fatalf("unfavorite: got %d", rec.Code)
	}

	got, err = fixtures.Users.GetByID(ctx, u.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if len(got.FavGroups) != 0 {
		t.Errorf("fav_groups after unfavorite: got %v", got.FavGroups)
	}
}

func TestServeGroupsList_Search(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := fixtures.CreateUser(ctx, "Owner", "owner@example.com")
	fixtures.CreateGroup(ctx, "Alpha Squad", models.GroupTypeOpen, owner)
	fixtures.CreateGroup(ctx, "Alpine Club", models.GroupTypeOpen, owner)
	fixtures.CreateGroup(ctx, "Beta Crew", models.GroupTypeOpen, owner)

	req := testutil.AsUser(httptest.NewRequest("GET", "/groups?q=alp", nil), owner)
	rec := httptest.NewRecorder()
	handler.ServeGroupsList(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d (body %s)", rec.Code, rec.Body.String())
	}

	var resp struct {
		Groups []models.Group `json:"groups"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Groups) != 2 {
		t.Errorf("search results: got %d, want 2", len(resp.Groups))
	}
}

func TestHandleCreateMeeting_Unconfigured(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := fixtures.CreateUser(ctx, "Owner", "owner@example.com")
	g := fixtures.CreateGroup(ctx, "No Meetings", models.GroupTypeOpen, owner)

	rec := httptest.NewRecorder()
	handler.HandleCreateMeeting(rec, groupRequest(t, "POST", "", owner, g))
	if rec.Code != http.StatusNotImplemented {
		t.Errorf("status: got %d, want %d", rec.Code, http.StatusNotImplemented)
	}
}
