package groupstore_test

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	groupstore "github.com/dalemusser/teamhub/internal/app/store/groups"
	"github.com/dalemusser/teamhub/internal/app/system/paging"
	"github.com/dalemusser/teamhub/internal/domain/models"
	"github.com/dalemusser/teamhub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestCreate_DerivesSlugAndFoldedName(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := groupstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := fixtures.CreateUser(ctx, "Owner", "owner@example.com")
	g, err := store.Create(ctx, models.Group{
		Name:    "Network Team",
		Type:    models.GroupTypeOpen,
		OwnerID: owner.ID,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if g.Slug != "network-team" {
		t.Errorf("slug: got %q", g.Slug)
	}
	if g.NameCI != "network team" {
		t.Errorf("name_ci: got %q", g.NameCI)
	}

	got, err := store.GetBySlug(ctx, g.Slug)
	if err != nil {
		t.Fatalf("GetBySlug: %v", err)
	}
	if got.ID != g.ID {
		t.Error("GetBySlug returned wrong group")
	}
}

func TestCreate_DuplicateName(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := groupstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := fixtures.CreateUser(ctx, "Owner", "owner@example.com")
	if _, err := store.Create(ctx, models.Group{Name: "Robotics", OwnerID: owner.ID}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	_, err := store.Create(ctx, models.Group{Name: "ROBOTICS", OwnerID: owner.ID})
	if !errors.Is(err, groupstore.ErrDuplicateGroupName) {
		t.Errorf("got %v, want ErrDuplicateGroupName", err)
	}
}

func TestCreate_SlugCollisionGetsSuffix(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := groupstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := fixtures.CreateUser(ctx, "Owner", "owner@example.com")
	// Distinct folded names, identical slugs.
	g1, err := store.Create(ctx, models.Group{Name: "Jazz Band", OwnerID: owner.ID})
	if err != nil {
		t.Fatalf("Create g1: %v", err)
	}
	g2, err := store.Create(ctx, models.Group{Name: "Jazz-Band", OwnerID: owner.ID})
	if err != nil {
		t.Fatalf("Create g2: %v", err)
	}
	if g2.Slug == g1.Slug {
		t.Errorf("second group kept colliding slug %q", g2.Slug)
	}
}

func TestUpdateFull_RenameRederivesSlug(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := groupstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := fixtures.CreateUser(ctx, "Owner", "owner@example.com")
	g := fixtures.CreateGroup(ctx, "Old Name", models.GroupTypeOpen, owner)

	name := "New Name"
	closed := models.GroupTypeClosed
	if err := store.UpdateFull(ctx, g.ID, groupstore.FullUpdate{Name: &name, Type: &closed}); err != nil {
		t.Fatalf("UpdateFull: %v", err)
	}

	got, err := store.GetByID(ctx, g.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Slug != "new-name" || got.NameCI != "new name" {
		t.Errorf("rename: slug=%q name_ci=%q", got.Slug, got.NameCI)
	}
	if got.Type != models.GroupTypeClosed {
		t.Errorf("type: got %d", got.Type)
	}
}

func TestUpdateFull_RenameSlugCollisionGetsSuffix(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := groupstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := fixtures.CreateUser(ctx, "Owner", "owner@example.com")
	existing := fixtures.CreateGroup(ctx, "Jazz Band", models.GroupTypeOpen, owner)
	g := fixtures.CreateGroup(ctx, "Brass Section", models.GroupTypeOpen, owner)

	// "Jazz-Band" folds to a distinct name_ci but the same slug as
	// "Jazz Band": the rename must succeed with a suffixed slug, not be
	// reported as a duplicate name.
	name := "Jazz-Band"
	if err := store.UpdateFull(ctx, g.ID, groupstore.FullUpdate{Name: &name}); err != nil {
		t.Fatalf("UpdateFull: %v", err)
	}

	got, err := store.GetByID(ctx, g.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Name != "Jazz-Band" {
		t.Errorf("name: got %q", got.Name)
	}
	if got.Slug == existing.Slug {
		t.Errorf("rename kept colliding slug %q", got.Slug)
	}
	if !strings.HasPrefix(got.Slug, "jazz-band-") {
		t.Errorf("slug: got %q, want a jazz-band suffix variant", got.Slug)
	}
}

func TestUpdateInfo_LeavesOtherFields(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := groupstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := fixtures.CreateUser(ctx, "Owner", "owner@example.com")
	g := fixtures.CreateGroup(ctx, "Chess Club", models.GroupTypeModerated, owner)

	desc := "weekly games"
	if err := store.UpdateInfo(ctx, g.ID, groupstore.InfoUpdate{Description: &desc}); err != nil {
		t.Fatalf("UpdateInfo: %v", err)
	}

	got, err := store.GetByID(ctx, g.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Description != "weekly games" {
		t.Errorf("description: got %q", got.Description)
	}
	if got.Name != "Chess Club" || got.Type != models.GroupTypeModerated {
		t.Error("info update touched protected fields")
	}
}

func TestClearOwner(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := groupstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := fixtures.CreateUser(ctx, "Owner", "owner@example.com")
	other := fixtures.CreateUser(ctx, "Other", "other@example.com")
	g1 := fixtures.CreateGroup(ctx, "G1", models.GroupTypeOpen, owner)
	fixtures.CreateGroup(ctx, "G2", models.GroupTypeOpen, owner)
	g3 := fixtures.CreateGroup(ctx, "G3", models.GroupTypeOpen, other)

	n, err := store.ClearOwner(ctx, owner.ID)
	if err != nil {
		t.Fatalf("ClearOwner: %v", err)
	}
	if n != 2 {
		t.Errorf("cleared %d groups, want 2", n)
	}

	got, err := store.GetByID(ctx, g1.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if !got.OwnerID.IsZero() {
		t.Errorf("owner not cleared: %v", got.OwnerID)
	}
	got, err = store.GetByID(ctx, g3.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.OwnerID != other.ID {
		t.Error("unrelated group lost its owner")
	}
}

func TestList_SearchAndPaging(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := groupstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := fixtures.CreateUser(ctx, "Owner", "owner@example.com")
	for i := 0; i < paging.PageSize+5; i++ {
		fixtures.CreateGroup(ctx, fmt.Sprintf("Atelier %03d", i), models.GroupTypeOpen, owner)
	}
	fixtures.CreateGroup(ctx, "Biology", models.GroupTypeOpen, owner)

	// Prefix search only matches the folded prefix.
	rows, err := store.List(ctx, "atelier", paging.ConfigureKeyset("", ""))
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(rows) != paging.PageSize+1 {
		t.Fatalf("first page fetch: got %d rows, want %d", len(rows), paging.PageSize+1)
	}
	for _, g := range rows {
		if g.NameCI[:7] != "atelier" {
			t.Fatalf("search leaked %q", g.Name)
		}
	}

	res := paging.TrimPage(&rows, "", "")
	if !res.HasNext || res.HasPrev {
		t.Errorf("first page: HasNext=%v HasPrev=%v", res.HasNext, res.HasPrev)
	}

	_, next := paging.BuildCursors(rows,
		func(g models.Group) string { return g.NameCI },
		func(g models.Group) primitive.ObjectID { return g.ID },
	)

	page2, err := store.List(ctx, "atelier", paging.ConfigureKeyset("", next))
	if err != nil {
		t.Fatalf("List page 2: %v", err)
	}
	if len(page2) != 5 {
		t.Fatalf("second page: got %d rows, want 5", len(page2))
	}
	if page2[0].NameCI <= rows[len(rows)-1].NameCI {
		t.Error("second page does not continue after the cursor")
	}
}
