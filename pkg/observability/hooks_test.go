package observability

import (
	"context"
	"testing"
	"time"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	// Pipeline hooks
	p := NoopPipelineHooks{}
	p.OnLoadStart(ctx, "basin.sqlite")
	p.OnLoadComplete(ctx, "basin.sqlite", 120, time.Second, nil)
	p.OnBuildStart(ctx, 120)
	p.OnBuildComplete(ctx, 80, time.Second, nil)
	p.OnIntegrityWarning(ctx, "catchments", 6, 5)

	// Cache hooks
	c := NoopCacheHooks{}
	c.OnCacheHit(ctx, "records")
	c.OnCacheMiss(ctx, "records")
	c.OnCacheSet(ctx, "records", 1024)

	// Query hooks
	q := NoopQueryHooks{}
	q.OnTrace(ctx, "reach", "down", 4, time.Millisecond)
	q.OnMeasure(ctx, "catchment", "length", time.Millisecond, nil)
}

func TestGlobalHooksRegistry(t *testing.T) {
	// Reset to known state
	Reset()

	// Verify defaults are noop
	if _, ok := Pipeline().(NoopPipelineHooks); !ok {
		t.Error("Pipeline() should return NoopPipelineHooks by default")
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Error("Cache() should return NoopCacheHooks by default")
	}
	if _, ok := Query().(NoopQueryHooks); !ok {
		t.Error("Query() should return NoopQueryHooks by default")
	}

	// Set custom hooks
	customPipeline := &testPipelineHooks{}
	SetPipelineHooks(customPipeline)
	if Pipeline() != customPipeline {
		t.Error("SetPipelineHooks should set custom hooks")
	}

	customCache := &testCacheHooks{}
	SetCacheHooks(customCache)
	if Cache() != customCache {
		t.Error("SetCacheHooks should set custom hooks")
	}

	customQuery := &testQueryHooks{}
	SetQueryHooks(customQuery)
	if Query() != customQuery {
		t.Error("SetQueryHooks should set custom hooks")
	}

	// Reset and verify
	Reset()
	if _, ok := Pipeline().(NoopPipelineHooks); !ok {
		t.Error("Reset() should restore NoopPipelineHooks")
	}
	if _, ok := Query().(NoopQueryHooks); !ok {
		t.Error("Reset() should restore NoopQueryHooks")
	}
}

func TestSetNilHooksIsIgnored(t *testing.T) {
	Reset()

	custom := &testPipelineHooks{}
	SetPipelineHooks(custom)

	// Setting nil should be ignored
	SetPipelineHooks(nil)

	if Pipeline() != custom {
		t.Error("SetPipelineHooks(nil) should be ignored")
	}

	Reset()
}

// Test implementations
type testPipelineHooks struct{ NoopPipelineHooks }
type testCacheHooks struct{ NoopCacheHooks }
type testQueryHooks struct{ NoopQueryHooks }
