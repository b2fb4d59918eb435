package bookmarkstore_test

import (
	"errors"
	"testing"

	bookmarkstore "github.com/dalemusser/teamhub/internal/app/store/bookmarks"
	"github.com/dalemusser/teamhub/internal/domain/models"
	"github.com/dalemusser/teamhub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestCreate_DuplicateURLIsGlobal(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := bookmarkstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	g1 := primitive.NewObjectID()
	g2 := primitive.NewObjectID()
	author := primitive.NewObjectID()

	if _, err := store.Create(ctx, models.Bookmark{
		URL: "https://example.com/doc ", Name: "Doc", GroupID: g1, AuthorID: author,
	}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	// The URL is unique across all groups, not per group.
	_, err := store.Create(ctx, models.Bookmark{
		URL: "https://example.com/doc", Name: "Same doc", GroupID: g2, AuthorID: author,
	})
	if !errors.Is(err, bookmarkstore.ErrDuplicateURL) {
		t.Errorf("got %v, want ErrDuplicateURL", err)
	}
}

func TestUpdate_BlankURLKeepsExisting(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := bookmarkstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	b, err := store.Create(ctx, models.Bookmark{
		URL: "https://example.com/a", Name: "A", Tag: "docs",
		GroupID: primitive.NewObjectID(), AuthorID: primitive.NewObjectID(),
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if err := store.Update(ctx, b.ID, "", "Renamed", "links"); err != nil {
		t.Fatalf("Update: %v", err)
	}

	got, err := store.GetByID(ctx, b.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.URL != "https://example.com/a" {
		t.Errorf("blank url overwrote stored value: %q", got.URL)
	}
	if got.Name != "Renamed" || got.Tag != "links" {
		t.Errorf("name/tag: got %q/%q", got.Name, got.Tag)
	}
}

func TestUpdate_URLCollision(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := bookmarkstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	g := primitive.NewObjectID()
	author := primitive.NewObjectID()
	if _, err := store.Create(ctx, models.Bookmark{URL: "https://example.com/a", GroupID: g, AuthorID: author}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	b, err := store.Create(ctx, models.Bookmark{URL: "https://example.com/b", GroupID: g, AuthorID: author})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	err = store.Update(ctx, b.ID, "https://example.com/a", "B", "")
	if !errors.Is(err, bookmarkstore.ErrDuplicateURL) {
		t.Errorf("got %v, want ErrDuplicateURL", err)
	}
}

func TestDeleteByGroup(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := bookmarkstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	g1 := primitive.NewObjectID()
	g2 := primitive.NewObjectID()
	author := primitive.NewObjectID()
	for _, url := range []string{"https://example.com/1", "https://example.com/2"} {
		if _, err := store.Create(ctx, models.Bookmark{URL: url, GroupID: g1, AuthorID: author}); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}
	if _, err := store.Create(ctx, models.Bookmark{URL: "https://example.com/3", GroupID: g2, AuthorID: author}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	n, err := store.DeleteByGroup(ctx, g1)
	if err != nil {
		t.Fatalf("DeleteByGroup: %v", err)
	}
	if n != 2 {
		t.Errorf("deleted %d, want 2", n)
	}

	rest, err := store.ListByGroup(ctx, g2)
	if err != nil {
		t.Fatalf("ListByGroup: %v", err)
	}
	if len(rest) != 1 {
		t.Errorf("other group's bookmarks: got %d, want 1", len(rest))
	}
}
