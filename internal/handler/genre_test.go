package handler

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/snnyvrz/locallibrary/internal/model"
	"github.com/snnyvrz/locallibrary/internal/repository"
	"github.com/snnyvrz/locallibrary/internal/testutil"
)

func TestListGenres_SortedByName(t *testing.T) {
	db := testutil.NewTestDB(t)
	router := setupRouter(db)

	testutil.SeedGenre(t, db, "Poetry")
	testutil.SeedGenre(t, db, "Fantasy")
	testutil.SeedGenre(t, db, "Horror")

	w := get(t, router, "/catalog/genres")

	expectStatus(t, w, http.StatusOK)
	expectOrder(t, w, "Fantasy", "Horror", "Poetry")
}

func TestGetGenre_ShowsBooks(t *testing.T) {
	db := testutil.NewTestDB(t)
	router := setupRouter(db)

	fantasy := testutil.SeedGenre(t, db, "Fantasy")
	author := testutil.SeedAuthor(t, db, "Patrick", "Rothfuss")
	testutil.SeedBook(t, db, author, "The Name of the Wind", fantasy)
	testutil.SeedBook(t, db, author, "Unrelated")

	w := get(t, router, fantasy.URL())

	expectStatus(t, w, http.StatusOK)
	expectBodyContains(t, w, "Genre: Fantasy", "The Name of the Wind")
	if body := w.Body.String(); strings.Contains(body, "Unrelated") {
		t.Errorf("expected only books of the genre, body=%s", body)
	}

	expectStatus(t, get(t, router, "/catalog/genre/"+uuid.New().String()), http.StatusNotFound)
}

func TestCreateGenre_Success(t *testing.T) {
	db := testutil.NewTestDB(t)
	router := setupRouter(db)

	w := submit(t, router, "/catalog/genre/create", url.Values{"name": {"  Fantasy  "}})

	var stored model.Genre
	if err := db.First(&stored).Error; err != nil {
		t.Fatalf("expected genre in db, got error: %v", err)
	}
	expectRedirect(t, w, stored.URL())

	if stored.Name != "Fantasy" {
		t.Errorf("expected trimmed name %q, got %q", "Fantasy", stored.Name)
	}
}

func TestCreateGenre_DuplicateRedirectsToExisting(t *testing.T) {
	db := testutil.NewTestDB(t)
	router := setupRouter(db)

	existing := testutil.SeedGenre(t, db, "Fantasy")

	w := submit(t, router, "/catalog/genre/create", url.Values{"name": {"Fantasy"}})

	expectRedirect(t, w, existing.URL())
	if n := countRows(t, db, &model.Genre{}); n != 1 {
		t.Fatalf("expected no duplicate genre, got %d genres", n)
	}
}

func TestCreateGenre_EmptyName(t *testing.T) {
	db := testutil.NewTestDB(t)
	router := setupRouter(db)

	w := submit(t, router, "/catalog/genre/create", url.Values{"name": {"   "}})

	expectStatus(t, w, http.StatusOK)
	expectBodyContains(t, w, "Genre name required")
	if n := countRows(t, db, &model.Genre{}); n != 0 {
		t.Fatalf("expected no genre persisted, got %d", n)
	}
}

func TestCreateGenre_NameTooLong(t *testing.T) {
	db := testutil.NewTestDB(t)
	router := setupRouter(db)

	w := submit(t, router, "/catalog/genre/create", url.Values{"name": {strings.Repeat("g", 101)}})

	expectStatus(t, w, http.StatusOK)
	expectBodyContains(t, w, "Genre name must be at most 100 characters.")
	if n := countRows(t, db, &model.Genre{}); n != 0 {
		t.Fatalf("expected no genre persisted, got %d", n)
	}
}

func TestCreateGenre_LookupFailure(t *testing.T) {
	store := repository.Store{Genres: &fakeGenreRepo{
		FindByNameFn: func(ctx context.Context, name string) (*model.Genre, error) {
			return nil, errStoreDown
		},
	}}
	router := setupRouterWithStore(store)

	w := submit(t, router, "/catalog/genre/create", url.Values{"name": {"Fantasy"}})

	expectStatus(t, w, http.StatusInternalServerError)
}

func TestUpdateGenre_NameTakenByAnotherGenre(t *testing.T) {
	db := testutil.NewTestDB(t)
	router := setupRouter(db)

	testutil.SeedGenre(t, db, "Fantasy")
	poetry := testutil.SeedGenre(t, db, "Poetry")

	w := submit(t, router, poetry.URL()+"/update", url.Values{"name": {"Fantasy"}})

	expectStatus(t, w, http.StatusOK)
	expectBodyContains(t, w, "Genre already exists in library")

	var stored model.Genre
	if err := db.First(&stored, "id = ?", poetry.ID).Error; err != nil {
		t.Fatalf("expected genre in db, got error: %v", err)
	}
	if stored.Name != "Poetry" {
		t.Errorf("expected name unchanged, got %q", stored.Name)
	}
}

func TestUpdateGenre_KeepsOwnName(t *testing.T) {
	db := testutil.NewTestDB(t)
	router := setupRouter(db)

	poetry := testutil.SeedGenre(t, db, "Poetry")

	w := submit(t, router, poetry.URL()+"/update", url.Values{"name": {"Poetry"}})
	expectRedirect(t, w, poetry.URL())

	w = submit(t, router, poetry.URL()+"/update", url.Values{"name": {"Verse"}})
	expectRedirect(t, w, poetry.URL())

	var stored model.Genre
	if err := db.First(&stored, "id = ?", poetry.ID).Error; err != nil {
		t.Fatalf("expected genre in db, got error: %v", err)
	}
	if stored.Name != "Verse" {
		t.Errorf("expected name Verse, got %q", stored.Name)
	}
}

func TestUpdateGenre_UniquenessQueryFailure(t *testing.T) {
	store := repository.Store{Genres: &fakeGenreRepo{
		FindByNameFn: func(ctx context.Context, name string) (*model.Genre, error) {
			return nil, errStoreDown
		},
		UpdateFn: func(ctx context.Context, g *model.Genre) error {
			t.Fatal("update must not run when the uniqueness check fails")
			return nil
		},
	}}
	router := setupRouterWithStore(store)

	w := submit(t, router, "/catalog/genre/"+uuid.New().String()+"/update", url.Values{"name": {"Fantasy"}})

	expectStatus(t, w, http.StatusInternalServerError)
}

func TestUpdateGenreForm_Prefills(t *testing.T) {
	db := testutil.NewTestDB(t)
	router := setupRouter(db)

	poetry := testutil.SeedGenre(t, db, "Poetry")

	w := get(t, router, poetry.URL()+"/update")

	expectStatus(t, w, http.StatusOK)
	expectBodyContains(t, w, `value="Poetry"`)
}

func TestDeleteGenre_BlockedByBooks(t *testing.T) {
	db := testutil.NewTestDB(t)
	router := setupRouter(db)

	fantasy := testutil.SeedGenre(t, db, "Fantasy")
	author := testutil.SeedAuthor(t, db, "Patrick", "Rothfuss")
	testutil.SeedBook(t, db, author, "The Name of the Wind", fantasy)

	w := submit(t, router, fantasy.URL()+"/delete", url.Values{})

	expectStatus(t, w, http.StatusOK)
	expectBodyContains(t, w, "Delete the following books", "The Name of the Wind")
	if n := countRows(t, db, &model.Genre{}); n != 1 {
		t.Fatalf("expected genre to remain, got %d", n)
	}
}

func TestDeleteGenre_Success(t *testing.T) {
	db := testutil.NewTestDB(t)
	router := setupRouter(db)

	fantasy := testutil.SeedGenre(t, db, "Fantasy")

	expectRedirect(t, submit(t, router, fantasy.URL()+"/delete", url.Values{}), "/catalog/genres")
	if n := countRows(t, db, &model.Genre{}); n != 0 {
		t.Fatalf("expected genre deleted, got %d", n)
	}

	expectRedirect(t, get(t, router, fantasy.URL()+"/delete"), "/catalog/genres")
}
