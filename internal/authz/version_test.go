package authz

import (
	"context"
	"sync"
	"testing"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestVersions(t *testing.T) *Versions {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewVersions(client)
}

func TestVersionsStartAtZero(t *testing.T) {
	versions := newTestVersions(t)
	ver, err := versions.Current(context.Background(), 1, 7)
	if err != nil {
		t.Fatalf("current: %v", err)
	}
	if ver != 0 {
		t.Fatalf("fresh key must read 0, got %d", ver)
	}
}

func TestVersionsBumpIncrementsByOne(t *testing.T) {
	versions := newTestVersions(t)
	ctx := context.Background()

	for want := int64(1); want <= 3; want++ {
		got, err := versions.Bump(ctx, 1, 7)
		if err != nil {
			t.Fatalf("bump: %v", err)
		}
		if got != want {
			t.Fatalf("bump returned %d, want %d", got, want)
		}
	}

	cur, err := versions.Current(ctx, 1, 7)
	if err != nil {
		t.Fatalf("current: %v", err)
	}
	if cur != 3 {
		t.Fatalf("current is %d, want 3", cur)
	}
}

func TestVersionsAreScopedPerTenantAndUser(t *testing.T) {
	versions := newTestVersions(t)
	ctx := context.Background()

	if _, err := versions.Bump(ctx, 1, 7); err != nil {
		t.Fatalf("bump: %v", err)
	}
	for _, pair := range [][2]int64{{1, 8}, {2, 7}} {
		ver, err := versions.Current(ctx, pair[0], pair[1])
		if err != nil {
			t.Fatalf("current: %v", err)
		}
		if ver != 0 {
			t.Fatalf("tenant %d user %d must be unaffected, got %d", pair[0], pair[1], ver)
		}
	}
}

func TestVersionsConcurrentBumps(t *testing.T) {
	versions := newTestVersions(t)
	ctx := context.Background()

	const bumps = 20
	var wg sync.WaitGroup
	for i := 0; i < bumps; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := versions.Bump(ctx, 1, 7); err != nil {
				t.Errorf("bump: %v", err)
			}
		}()
	}
	wg.Wait()

	ver, err := versions.Current(ctx, 1, 7)
	if err != nil {
		t.Fatalf("current: %v", err)
	}
	if ver != bumps {
		t.Fatalf("expected %d after %d concurrent bumps, got %d", bumps, bumps, ver)
	}
}
