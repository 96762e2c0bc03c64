package sqlite_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/msomdec/usergraph/internal/domain"
	"github.com/msomdec/usergraph/internal/repository/sqlite"
)

func TestFollowRepository_Create(t *testing.T) {
	db := newTestDB(t)
	users := sqlite.NewUserRepository(db)
	follows := sqlite.NewFollowRepository(db)
	ctx := context.Background()

	alice := createUser(t, users, "alice")
	bob := createUser(t, users, "bob")

	f := &domain.Follow{FollowerID: alice.ID, FollowingID: bob.ID}
	if err := follows.Create(ctx, f); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if f.ID == 0 {
		t.Fatal("expected follow ID to be set")
	}
	if f.CreatedAt.IsZero() {
		t.Fatal("expected CreatedAt to be set")
	}

	ok, err := follows.Exists(ctx, alice.ID, bob.ID)
	if err != nil {
		t.Fatalf("Exists: %v", err)
	}
	if !ok {
		t.Fatal("expected edge alice -> bob")
	}

	ok, err = follows.Exists(ctx, bob.ID, alice.ID)
	if err != nil {
		t.Fatalf("Exists: %v", err)
	}
	if ok {
		t.Fatal("edges are directed; bob -> alice must not exist")
	}
}

func TestFollowRepository_CreateErrors(t *testing.T) {
	db := newTestDB(t)
	users := sqlite.NewUserRepository(db)
	follows := sqlite.NewFollowRepository(db)
	ctx := context.Background()

	alice := createUser(t, users, "alice")
	bob := createUser(t, users, "bob")
	if err := follows.Create(ctx, &domain.Follow{FollowerID: alice.ID, FollowingID: bob.ID}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	tests := []struct {
		name      string
		follower  string
		following string
		want      error
	}{
		{"duplicate edge", alice.ID, bob.ID, domain.ErrAlreadyFollowing},
		{"self follow", alice.ID, alice.ID, domain.ErrSelfFollowForbidden},
		{"unknown target", alice.ID, "ghost", domain.ErrUserNotFound},
		{"unknown follower", "ghost", bob.ID, domain.ErrUserNotFound},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := follows.Create(ctx, &domain.Follow{FollowerID: tc.follower, FollowingID: tc.following})
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestFollowRepository_Delete(t *testing.T) {
	db := newTestDB(t)
	users := sqlite.NewUserRepository(db)
	follows := sqlite.NewFollowRepository(db)
	ctx := context.Background()

	alice := createUser(t, users, "alice")
	bob := createUser(t, users, "bob")

	created := &domain.Follow{FollowerID: alice.ID, FollowingID: bob.ID}
	if err := follows.Create(ctx, created); err != nil {
		t.Fatalf("Create: %v", err)
	}

	removed, err := follows.Delete(ctx, alice.ID, bob.ID)
	if err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if removed.ID != created.ID || removed.FollowerID != alice.ID || removed.FollowingID != bob.ID {
		t.Fatalf("unexpected removed edge: %+v", removed)
	}

	_, err = follows.Delete(ctx, alice.ID, bob.ID)
	if !errors.Is(err, domain.ErrNotFollowing) {
		t.Fatalf("expected ErrNotFollowing, got %v", err)
	}

	// The edge can be created again after removal.
	if err := follows.Create(ctx, &domain.Follow{FollowerID: alice.ID, FollowingID: bob.ID}); err != nil {
		t.Fatalf("re-follow: %v", err)
	}
}

func TestFollowRepository_Lists(t *testing.T) {
	db := newTestDB(t)
	users := sqlite.NewUserRepository(db)
	follows := sqlite.NewFollowRepository(db)
	ctx := context.Background()

	alice := createUser(t, users, "alice")
	bob := createUser(t, users, "bob")
	carol := createUser(t, users, "carol")
	dave := createUser(t, users, "dave")

	// alice follows dave first, then bob: insertion order wins over name order.
	for _, edge := range [][2]string{
		{alice.ID, dave.ID},
		{alice.ID, bob.ID},
		{carol.ID, bob.ID},
		{alice.ID, carol.ID},
		{dave.ID, bob.ID},
	} {
		if err := follows.Create(ctx, &domain.Follow{FollowerID: edge[0], FollowingID: edge[1]}); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}

	following, err := follows.ListFollowing(ctx, alice.ID)
	if err != nil {
		t.Fatalf("ListFollowing: %v", err)
	}
	if diff := cmp.Diff([]string{"dave", "bob", "carol"}, usernames(following)); diff != "" {
		t.Fatalf("following mismatch (-want +got):\n%s", diff)
	}

	followers, err := follows.ListFollowers(ctx, bob.ID)
	if err != nil {
		t.Fatalf("ListFollowers: %v", err)
	}
	if diff := cmp.Diff([]string{"alice", "carol", "dave"}, usernames(followers)); diff != "" {
		t.Fatalf("followers mismatch (-want +got):\n%s", diff)
	}

	ids, err := follows.ListFollowingIDs(ctx, alice.ID)
	if err != nil {
		t.Fatalf("ListFollowingIDs: %v", err)
	}
	if diff := cmp.Diff([]string{dave.ID, bob.ID, carol.ID}, ids); diff != "" {
		t.Fatalf("following ids mismatch (-want +got):\n%s", diff)
	}

	empty, err := follows.ListFollowers(ctx, alice.ID)
	if err != nil {
		t.Fatalf("ListFollowers: %v", err)
	}
	if empty == nil || len(empty) != 0 {
		t.Fatalf("expected empty non-nil list, got %v", empty)
	}

	noIDs, err := follows.ListFollowingIDs(ctx, bob.ID)
	if err != nil {
		t.Fatalf("ListFollowingIDs: %v", err)
	}
	if noIDs == nil || len(noIDs) != 0 {
		t.Fatalf("expected empty non-nil ids, got %v", noIDs)
	}
}
