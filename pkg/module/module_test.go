package module_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/JaimeStill/warden/pkg/module"
)

func mustModule(t *testing.T, prefix string, h http.Handler) *module.Module {
	t.Helper()
	m, err := module.New(prefix, h)
	if err != nil {
		t.Fatalf("New(%q) error = %v", prefix, err)
	}
	return m
}

func TestNewInvalidPrefix(t *testing.T) {
	for _, prefix := range []string{"", "api", "/api/v1"} {
		if _, err := module.New(prefix, http.NewServeMux()); err == nil {
			t.Errorf("New(%q) expected error", prefix)
		}
	}
}

func TestModuleStripsPrefix(t *testing.T) {
	var got string
	mux := http.NewServeMux()
	mux.HandleFunc("GET /submissions/stats", func(w http.ResponseWriter, r *http.Request) {
		got = r.URL.Path
	})
	mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		got = r.URL.Path
	})

	m := mustModule(t, "/api", mux)

	m.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/api/submissions/stats", nil))
	if got != "/submissions/stats" {
		t.Errorf("inner path = %q", got)
	}

	m.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/api", nil))
	if got != "/" {
		t.Errorf("root path = %q, want /", got)
	}
}

func TestModuleMiddleware(t *testing.T) {
	m := mustModule(t, "/api", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	called := false
	m.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			called = true
			next.ServeHTTP(w, r)
		})
	})

	m.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/api/x", nil))
	if !called {
		t.Error("middleware not called")
	}
}

func TestRouterDispatch(t *testing.T) {
	api := mustModule(t, "/api", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusAccepted)
	}))

	router := module.NewRouter()
	router.Mount(api)
	router.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	tests := []struct {
		path   string
		status int
	}{
		{"/api/feedback/dorm-life", http.StatusAccepted},
		{"/api/", http.StatusAccepted},
		{"/healthz", http.StatusOK},
		{"/apiary", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest("GET", tt.path, nil))
			if rec.Code != tt.status {
				t.Errorf("status = %d, want %d", rec.Code, tt.status)
			}
		})
	}
}
