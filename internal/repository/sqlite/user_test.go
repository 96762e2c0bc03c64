package sqlite_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/msomdec/usergraph/internal/domain"
	"github.com/msomdec/usergraph/internal/repository/sqlite"
)

func newTestDB(t *testing.T) *sqlite.DB {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	db, err := sqlite.New(dbPath)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := db.Migrate(context.Background()); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func createUser(t *testing.T, repo *sqlite.UserRepository, username string) *domain.User {
	t.Helper()
	user := &domain.User{
		Username:     username,
		PasswordHash: "hash-" + username,
		FirstName:    "First",
		LastName:     "Last",
	}
	if err := repo.Create(context.Background(), user); err != nil {
		t.Fatalf("Create %s: %v", username, err)
	}
	return user
}

func usernames(users []domain.User) []string {
	names := make([]string, len(users))
	for i, u := range users {
		names[i] = u.Username
	}
	return names
}

func strPtr(s string) *string { return &s }

func TestUserRepository_Create(t *testing.T) {
	db := newTestDB(t)
	repo := sqlite.NewUserRepository(db)

	user := createUser(t, repo, "alice")

	if user.ID == "" {
		t.Fatal("expected user ID to be set after create")
	}
	if user.CreatedAt.IsZero() || user.UpdatedAt.IsZero() {
		t.Fatal("expected timestamps to be set")
	}
}

func TestUserRepository_Create_DuplicateUsername(t *testing.T) {
	db := newTestDB(t)
	repo := sqlite.NewUserRepository(db)
	createUser(t, repo, "dup")

	err := repo.Create(context.Background(), &domain.User{
		Username: "dup", PasswordHash: "x", FirstName: "A", LastName: "B",
	})
	if !errors.Is(err, domain.ErrUsernameTaken) {
		t.Fatalf("expected ErrUsernameTaken, got %v", err)
	}
}

func TestUserRepository_GetByID(t *testing.T) {
	db := newTestDB(t)
	repo := sqlite.NewUserRepository(db)
	ctx := context.Background()

	user := &domain.User{
		Username:     "bob",
		PasswordHash: "hashed",
		FirstName:    "Bob",
		LastName:     "Builder",
		ImageURL:     strPtr("https://img.example/bob.png"),
	}
	if err := repo.Create(ctx, user); err != nil {
		t.Fatalf("Create: %v", err)
	}

	got, err := repo.GetByID(ctx, user.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Username != "bob" || got.FirstName != "Bob" || got.LastName != "Builder" {
		t.Fatalf("unexpected user: %+v", got)
	}
	if got.PasswordHash != "hashed" {
		t.Fatalf("expected stored hash, got %q", got.PasswordHash)
	}
	if got.ImageURL == nil || *got.ImageURL != "https://img.example/bob.png" {
		t.Fatalf("unexpected image url: %v", got.ImageURL)
	}
}

func TestUserRepository_GetByID_NotFound(t *testing.T) {
	db := newTestDB(t)
	repo := sqlite.NewUserRepository(db)

	_, err := repo.GetByID(context.Background(), "missing")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestUserRepository_GetByUsername(t *testing.T) {
	db := newTestDB(t)
	repo := sqlite.NewUserRepository(db)
	ctx := context.Background()
	user := createUser(t, repo, "carol")

	got, err := repo.GetByUsername(ctx, "carol")
	if err != nil {
		t.Fatalf("GetByUsername: %v", err)
	}
	if got.ID != user.ID {
		t.Fatalf("expected ID %s, got %s", user.ID, got.ID)
	}
	if got.ImageURL != nil {
		t.Fatalf("expected no image url, got %q", *got.ImageURL)
	}

	_, err = repo.GetByUsername(ctx, "nobody")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestUserRepository_Update(t *testing.T) {
	db := newTestDB(t)
	repo := sqlite.NewUserRepository(db)
	ctx := context.Background()
	user := createUser(t, repo, "dave")

	got, err := repo.Update(ctx, user.ID, domain.ProfileUpdate{
		FirstName: strPtr("David"),
		ImageURL:  strPtr("https://img.example/dave.png"),
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if got.FirstName != "David" {
		t.Fatalf("expected first name David, got %q", got.FirstName)
	}
	if got.LastName != "Last" {
		t.Fatalf("expected last name untouched, got %q", got.LastName)
	}
	if got.ImageURL == nil || *got.ImageURL != "https://img.example/dave.png" {
		t.Fatalf("expected image url to be stored, got %v", got.ImageURL)
	}

	// Omitted image leaves it in place.
	got, err = repo.Update(ctx, user.ID, domain.ProfileUpdate{LastName: strPtr("Jones")})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if got.ImageURL == nil {
		t.Fatal("expected image url to survive a partial update")
	}

	// Empty image clears it.
	got, err = repo.Update(ctx, user.ID, domain.ProfileUpdate{ImageURL: strPtr("")})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if got.ImageURL != nil {
		t.Fatalf("expected image url cleared, got %q", *got.ImageURL)
	}
	if got.Username != "dave" || got.PasswordHash != "hash-dave" {
		t.Fatalf("identity fields changed: %+v", got)
	}
}

func TestUserRepository_Update_NotFound(t *testing.T) {
	db := newTestDB(t)
	repo := sqlite.NewUserRepository(db)

	_, err := repo.Update(context.Background(), "missing", domain.ProfileUpdate{FirstName: strPtr("x")})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestUserRepository_List(t *testing.T) {
	db := newTestDB(t)
	repo := sqlite.NewUserRepository(db)
	ctx := context.Background()

	users, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if users == nil || len(users) != 0 {
		t.Fatalf("expected empty non-nil list, got %v", users)
	}

	createUser(t, repo, "zed")
	createUser(t, repo, "amy")
	createUser(t, repo, "max")

	users, err = repo.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if diff := cmp.Diff([]string{"zed", "amy", "max"}, usernames(users)); diff != "" {
		t.Fatalf("List order mismatch (-want +got):\n%s", diff)
	}
}

func TestUserRepository_SearchByUsernamePrefix(t *testing.T) {
	db := newTestDB(t)
	repo := sqlite.NewUserRepository(db)
	ctx := context.Background()

	for _, name := range []string{"anna", "annabel", "andy", "bob", "an_ne", "anxious"} {
		createUser(t, repo, name)
	}

	tests := []struct {
		name   string
		prefix string
		limit  int
		want   []string
	}{
		{"prefix match sorted", "ann", 10, []string{"anna", "annabel"}},
		{"limit applied", "an", 2, []string{"an_ne", "andy"}},
		{"underscore is literal", "an_", 10, []string{"an_ne"}},
		{"percent is literal", "a%", 10, []string{}},
		{"no match", "zzz", 10, []string{}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			users, err := repo.SearchByUsernamePrefix(ctx, tc.prefix, tc.limit)
			if err != nil {
				t.Fatalf("SearchByUsernamePrefix: %v", err)
			}
			if diff := cmp.Diff(tc.want, usernames(users)); diff != "" {
				t.Fatalf("results mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
