package lifecycle_test

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/JaimeStill/warden/pkg/lifecycle"
)

func TestReadiness(t *testing.T) {
	lc := lifecycle.New()
	if lc.Ready() {
		t.Fatal("ready before WaitForStartup")
	}

	lc.WaitForStartup()
	if !lc.Ready() {
		t.Fatal("not ready after WaitForStartup")
	}

	if err := lc.Shutdown(time.Second); err != nil {
		t.Fatalf("shutdown: %v", err)
	}
	if lc.Ready() {
		t.Error("still ready after Shutdown")
	}
}

type flag struct{ ok atomic.Bool }

func (f *flag) Ready() bool { return f.ok.Load() }

func TestTrackedReadiness(t *testing.T) {
	lc := lifecycle.New()

	db := &flag{}
	cache := &flag{}
	cache.ok.Store(true)
	lc.Track("database", db)
	lc.Track("cache", cache)

	lc.WaitForStartup()

	ready, systems := lc.Readiness()
	if ready {
		t.Error("ready while database is down")
	}
	if systems["database"] || !systems["cache"] {
		t.Errorf("systems = %v, want database=false cache=true", systems)
	}

	db.ok.Store(true)
	if !lc.Ready() {
		t.Error("not ready after every subsystem reports ready")
	}

	if err := lc.Shutdown(time.Second); err != nil {
		t.Fatalf("shutdown: %v", err)
	}
	if ready, _ := lc.Readiness(); ready {
		t.Error("ready after Shutdown")
	}
}

func TestStartupHooksComplete(t *testing.T) {
	lc := lifecycle.New()

	var count atomic.Int32
	for range 4 {
		lc.OnStartup(func() {
			time.Sleep(5 * time.Millisecond)
			count.Add(1)
		})
	}

	lc.WaitForStartup()

	if got := count.Load(); got != 4 {
		t.Errorf("startup hooks run = %d, want 4", got)
	}
}

func TestShutdownRunsHooks(t *testing.T) {
	lc := lifecycle.New()

	var closed atomic.Bool
	lc.OnShutdown(func() {
		<-lc.Context().Done()
		closed.Store(true)
	})

	if err := lc.Shutdown(time.Second); err != nil {
		t.Fatalf("shutdown: %v", err)
	}
	if !closed.Load() {
		t.Error("shutdown hook did not run")
	}

	select {
	case <-lc.Context().Done():
	default:
		t.Error("context not cancelled after shutdown")
	}
}

func TestShutdownTimeout(t *testing.T) {
	lc := lifecycle.New()

	lc.OnShutdown(func() {
		<-lc.Context().Done()
		time.Sleep(300 * time.Millisecond)
	})

	if err := lc.Shutdown(20 * time.Millisecond); err == nil {
		t.Error("expected timeout error")
	}
}
