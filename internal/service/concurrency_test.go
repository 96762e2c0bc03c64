package service_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/msomdec/usergraph/internal/domain"
	"github.com/msomdec/usergraph/internal/service"
)

const racers = 16

// race runs op on racers goroutines released at the same moment and counts
// successes, errors matching want, and anything else.
func race(t *testing.T, want error, op func() error) (ok, matched, other int) {
	t.Helper()
	var (
		wg    sync.WaitGroup
		mu    sync.Mutex
		start = make(chan struct{})
	)
	for range racers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			err := op()

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				ok++
			case errors.Is(err, want):
				matched++
			default:
				other++
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	close(start)
	wg.Wait()
	return ok, matched, other
}

func TestConcurrentFollow_OnlyOneEdge(t *testing.T) {
	f := newFixture(t, nil)
	alice := f.register(t, "alice", "pw1")
	bob := f.register(t, "bob", "pw2")

	ok, already, other := race(t, domain.ErrAlreadyFollowing, func() error {
		_, err := f.svc.Follow(as(alice.ID), "bob")
		return err
	})
	if ok != 1 || already != racers-1 || other != 0 {
		t.Fatalf("follow: ok=%d already=%d other=%d; want 1/%d/0", ok, already, other, racers-1)
	}

	followers, err := f.svc.ListFollowers(context.Background(), bob.ID)
	if err != nil {
		t.Fatalf("ListFollowers: %v", err)
	}
	if len(followers) != 1 {
		t.Fatalf("expected exactly one edge, got %d", len(followers))
	}
}

func TestConcurrentCreateAccount_OnlyOneUser(t *testing.T) {
	f := newFixture(t, nil)

	ok, taken, other := race(t, domain.ErrUsernameTaken, func() error {
		_, err := f.svc.CreateAccount(context.Background(), service.CreateAccountInput{
			Username:  "carol",
			Password:  "pw",
			FirstName: "Carol",
			LastName:  "C",
		})
		return err
	})
	if ok != 1 || taken != racers-1 || other != 0 {
		t.Fatalf("create: ok=%d taken=%d other=%d; want 1/%d/0", ok, taken, other, racers-1)
	}

	users, err := f.svc.ListUsers(context.Background())
	if err != nil {
		t.Fatalf("ListUsers: %v", err)
	}
	if got := names(users); len(got) != 1 || got[0] != "carol" {
		t.Fatalf("users = %v, want [carol]", got)
	}
}
