package observability

import (
	"context"
	"testing"
	"time"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	g := NoopGrowthHooks{}
	g.OnGrowStart(ctx, 12, 3)
	g.OnGrowComplete(ctx, 12, 468, time.Second, nil)

	c := NoopCacheHooks{}
	c.OnCacheHit(ctx, "mesh")
	c.OnCacheMiss(ctx, "mesh")
	c.OnCacheSet(ctx, "mesh", 1024)
}

func TestGlobalHooksRegistry(t *testing.T) {
	// Reset to known state
	Reset()

	// Verify defaults are noop
	if _, ok := Growth().(NoopGrowthHooks); !ok {
		t.Error("Growth() should return NoopGrowthHooks by default")
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Error("Cache() should return NoopCacheHooks by default")
	}

	// Set custom hooks
	customGrowth := &testGrowthHooks{}
	SetGrowthHooks(customGrowth)
	if Growth() != customGrowth {
		t.Error("SetGrowthHooks should set custom hooks")
	}

	customCache := &testCacheHooks{}
	SetCacheHooks(customCache)
	if Cache() != customCache {
		t.Error("SetCacheHooks should set custom hooks")
	}

	// Reset and verify
	Reset()
	if _, ok := Growth().(NoopGrowthHooks); !ok {
		t.Error("Reset() should restore NoopGrowthHooks")
	}
}

func TestSetNilHooksIsIgnored(t *testing.T) {
	Reset()

	custom := &testGrowthHooks{}
	SetGrowthHooks(custom)

	// Setting nil should be ignored
	SetGrowthHooks(nil)

	if Growth() != custom {
		t.Error("SetGrowthHooks(nil) should be ignored")
	}

	Reset()
}

// Test implementations
type testGrowthHooks struct{ NoopGrowthHooks }
type testCacheHooks struct{ NoopCacheHooks }
