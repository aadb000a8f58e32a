package httpapi

import (
	"net/http"
	"testing"
	"time"

	"github.com/sachins-devloper/work-tracking/internal/auth"
)

func TestWithAuthRejectsMissingToken(t *testing.T) {
	srv := newTestServer(t)

	resp, body := doRequest(t, srv, http.MethodGet, "/activities", "", nil)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", resp.StatusCode)
	}
	if body["message"] != "Access token required" {
		t.Errorf("message = %v", body["message"])
	}
}

func TestWithAuthRejectsGarbageToken(t *testing.T) {
	srv := newTestServer(t)

	resp, body := doRequest(t, srv, http.MethodGet, "/activities", "not-a-jwt", nil)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", resp.StatusCode)
	}
	if body["message"] != "Invalid or expired token" {
		t.Errorf("message = %v", body["message"])
	}
}

func TestWithAuthRejectsForeignToken(t *testing.T) {
	srv := newTestServer(t)

	other, err := auth.NewService("different-secret")
	if err != nil {
		t.Fatalf("auth.NewService: %v", err)
	}
	token, _, err := other.GenerateToken("u1", "admin", "admin")
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	resp, _ := doRequest(t, srv, http.MethodGet, "/activities", token, nil)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", resp.StatusCode)
	}
}

func TestWithAuthRejectsExpiredToken(t *testing.T) {
	srv := newTestServer(t)

	past := time.Now().Add(-48 * time.Hour)
	issuer, err := auth.NewService("test-secret", auth.WithClock(func() time.Time { return past }))
	if err != nil {
		t.Fatalf("auth.NewService: %v", err)
	}
	token, _, err := issuer.GenerateToken("u1", "admin", "admin")
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	resp, body := doRequest(t, srv, http.MethodGet, "/activities", token, nil)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", resp.StatusCode)
	}
	if body["message"] != "Invalid or expired token" {
		t.Errorf("message = %v", body["message"])
	}
}

func TestPublicPathsSkipAuth(t *testing.T) {
	srv := newTestServer(t)

	for _, path := range []string{"/health", "/api/status", "/readyz", "/metrics"} {
		req, err := http.NewRequest(http.MethodGet, srv.URL+path, nil)
		if err != nil {
			t.Fatalf("new request: %v", err)
		}
		resp, err := srv.Client().Do(req)
		if err != nil {
			t.Fatalf("GET %s: %v", path, err)
		}
		resp.Body.Close()
		if resp.StatusCode == http.StatusUnauthorized {
			t.Errorf("GET %s without token = 401, want public", path)
		}
	}
}

func TestExtractBearerToken(t *testing.T) {
	tests := []struct {
		name    string
		header  string
		want    string
		wantErr bool
	}{
		{name: "valid", header: "Bearer abc.def.ghi", want: "abc.def.ghi"},
		{name: "empty", header: "", wantErr: true},
		{name: "wrong scheme", header: "Basic abc", wantErr: true},
		{name: "scheme only", header: "Bearer ", wantErr: true},
		{name: "lowercase scheme", header: "bearer abc", wantErr: true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := extractBearerToken(tc.header)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("extractBearerToken(%q) = %q, want error", tc.header, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("extractBearerToken(%q): %v", tc.header, err)
			}
			if got != tc.want {
				t.Errorf("extractBearerToken(%q) = %q, want %q", tc.header, got, tc.want)
			}
		})
	}
}
