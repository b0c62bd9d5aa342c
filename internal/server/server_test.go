package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/agbru/fibgrade/internal/annotation"
	"github.com/agbru/fibgrade/internal/config"
	"github.com/agbru/fibgrade/internal/fib"
	"github.com/agbru/fibgrade/internal/reference"
	"github.com/agbru/fibgrade/internal/student"
	"github.com/agbru/fibgrade/internal/trace"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()

	linear, err := annotation.NewTimeComplexity("iter-linear", "iter", "linear")
	if err != nil {
		t.Fatalf("NewTimeComplexity failed: %v", err)
	}
	ref, err := reference.New("fib-iterative", linear)
	if err != nil {
		t.Fatalf("reference.New failed: %v", err)
	}

	cfg := config.AppConfig{
		Student:    "student",
		ProfileMax: 12,
		Timeout:    30 * time.Second,
		Addr:       ":0",
	}

	return New(cfg, fib.NewDefaultFactory(), []*reference.ReferenceImplementation{ref}, newTestLogger())
}

func TestServer_handleHealth(t *testing.T) {
	s := newTestServer(t)

	t.Run("GET returns ok", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/healthz", http.NoBody)
		rec := httptest.NewRecorder()

		s.handleHealth(rec, req)

		if rec.Code != http.StatusOK {
			t.Errorf("status = %d, want %d", rec.Code, http.StatusOK)
		}
		if !strings.Contains(rec.Body.String(), `"status":"ok"`) {
			t.Errorf("body = %q, want status ok", rec.Body.String())
		}
	})

	t.Run("POST returns method not allowed", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/healthz", http.NoBody)
		rec := httptest.NewRecorder()

		s.handleHealth(rec, req)

		if rec.Code != http.StatusMethodNotAllowed {
			t.Errorf("status = %d, want %d", rec.Code, http.StatusMethodNotAllowed)
		}
	})
}

func TestServer_handleReferences(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest("GET", "/api/v1/references", http.NoBody)
	rec := httptest.NewRecorder()

	s.handleReferences(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}

	var resp referencesResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid JSON response: %v", err)
	}
	if len(resp.References) != 1 || resp.References[0] != "fib-iterative" {
		t.Errorf("references = %v, want [fib-iterative]", resp.References)
	}
}

func TestServer_handleCheck(t *testing.T) {
	s := newTestServer(t)

	t.Run("Valid check succeeds", func(t *testing.T) {
		body := `{"submission": "alice", "algo": "iter", "profile_max": 12}`
		req := httptest.NewRequest("POST", "/api/v1/check", strings.NewReader(body))
		rec := httptest.NewRecorder()

		s.handleCheck(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want %d (body: %s)", rec.Code, http.StatusOK, rec.Body.String())
		}

		var resp checkResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("invalid JSON response: %v", err)
		}
		if resp.Submission != "alice" {
			t.Errorf("submission = %q, want alice", resp.Submission)
		}
		if !resp.Correct {
			t.Errorf("iterative trace should satisfy the linear reference, got %+v", resp.Results)
		}
		if len(resp.Results) != 1 {
			t.Errorf("expected 1 reference result, got %d", len(resp.Results))
		}
	})

	t.Run("Defaults applied", func(t *testing.T) {
		body := `{"algo": "iter"}`
		req := httptest.NewRequest("POST", "/api/v1/check", strings.NewReader(body))
		rec := httptest.NewRecorder()

		s.handleCheck(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want %d (body: %s)", rec.Code, http.StatusOK, rec.Body.String())
		}
		var resp checkResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("invalid JSON response: %v", err)
		}
		if resp.Submission != "student" {
			t.Errorf("submission = %q, want configured default", resp.Submission)
		}
	})

	t.Run("Uploaded footprint graded directly", func(t *testing.T) {
		impl, err := student.Record("bob", func(c *trace.Collector) error {
			iter := &fib.Iterative{}
			for n := 0; n <= 12; n++ {
				if _, err := c.Bracket("iter", n, func(obs fib.Observer) error {
					_, err := iter.Calculate(context.Background(), n, obs)
					return err
				}); err != nil {
					return err
				}
			}
			return nil
		})
		if err != nil {
			t.Fatalf("tracing failed: %v", err)
		}

		body, err := json.Marshal(checkRequest{Submission: "bob", Footprint: impl.Footprint()})
		if err != nil {
			t.Fatalf("marshaling request failed: %v", err)
		}
		req := httptest.NewRequest("POST", "/api/v1/check", bytes.NewReader(body))
		rec := httptest.NewRecorder()

		s.handleCheck(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want %d (body: %s)", rec.Code, http.StatusOK, rec.Body.String())
		}
		var resp checkResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("invalid JSON response: %v", err)
		}
		if resp.Submission != "bob" || !resp.Correct {
			t.Errorf("uploaded footprint should grade correct for bob, got %+v", resp)
		}
	})

	t.Run("Unknown calculator rejected", func(t *testing.T) {
		body := `{"algo": "warp", "profile_max": 12}`
		req := httptest.NewRequest("POST", "/api/v1/check", strings.NewReader(body))
		rec := httptest.NewRecorder()

		s.handleCheck(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
		}
		if !strings.Contains(rec.Body.String(), "unknown calculator") {
			t.Errorf("body = %q, want unknown calculator error", rec.Body.String())
		}
	})

	t.Run("Oversized profile rejected", func(t *testing.T) {
		body := `{"algo": "iter", "profile_max": 100000}`
		req := httptest.NewRequest("POST", "/api/v1/check", strings.NewReader(body))
		rec := httptest.NewRecorder()

		s.handleCheck(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
		}
	})

	t.Run("Malformed body rejected", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/api/v1/check", strings.NewReader("{not json"))
		rec := httptest.NewRecorder()

		s.handleCheck(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
		}
	})

	t.Run("Unknown fields rejected", func(t *testing.T) {
		body := `{"algo": "iter", "bogus": true}`
		req := httptest.NewRequest("POST", "/api/v1/check", strings.NewReader(body))
		rec := httptest.NewRecorder()

		s.handleCheck(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
		}
	})

	t.Run("GET returns method not allowed", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/v1/check", http.NoBody)
		rec := httptest.NewRecorder()

		s.handleCheck(rec, req)

		if rec.Code != http.StatusMethodNotAllowed {
			t.Errorf("status = %d, want %d", rec.Code, http.StatusMethodNotAllowed)
		}
	})
}

// TestServer_handleCheck_MemoizedProfile grades the memoized calculator
// against its linear reference. Consecutive requests must grade
// identically: the second trace may not see memo state left behind by
// the first.
func TestServer_handleCheck_MemoizedProfile(t *testing.T) {
	linear, err := annotation.NewTimeComplexity("memo-linear", "memo", "linear")
	if err != nil {
		t.Fatalf("NewTimeComplexity failed: %v", err)
	}
	ref, err := reference.New("fib-memoized", linear)
	if err != nil {
		t.Fatalf("reference.New failed: %v", err)
	}

	cfg := config.AppConfig{
		Student:    "student",
		ProfileMax: 12,
		Timeout:    30 * time.Second,
		Addr:       ":0",
	}
	s := New(cfg, fib.NewDefaultFactory(), []*reference.ReferenceImplementation{ref}, newTestLogger())

	for _, name := range []string{"First request", "Second request"} {
		t.Run(name, func(t *testing.T) {
			body := `{"submission": "carol", "algo": "memo", "profile_max": 12}`
			req := httptest.NewRequest("POST", "/api/v1/check", strings.NewReader(body))
			rec := httptest.NewRecorder()

			s.handleCheck(rec, req)

			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d, want %d (body: %s)", rec.Code, http.StatusOK, rec.Body.String())
			}
			var resp checkResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatalf("invalid JSON response: %v", err)
			}
			if !resp.Correct {
				t.Errorf("memoized trace should fit the linear class, got %+v", resp.Results)
			}
		})
	}
}

func TestServer_HandlerRoutes(t *testing.T) {
	s := newTestServer(t)
	handler := s.Handler()

	tests := []struct {
		name       string
		method     string
		path       string
		wantStatus int
	}{
		{"Health", "GET", "/healthz", http.StatusOK},
		{"Metrics", "GET", "/metrics", http.StatusOK},
		{"References", "GET", "/api/v1/references", http.StatusOK},
		{"Preflight", "OPTIONS", "/api/v1/check", http.StatusNoContent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, http.NoBody)
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if rec.Header().Get("X-Content-Type-Options") != "nosniff" {
				t.Error("middleware chain should set security headers")
			}
		})
	}
}
