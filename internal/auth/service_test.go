package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestTokenRoundTrip(t *testing.T) {
	s := NewService("test-secret")
	tok, err := s.IssueToken("user-1", "Ada")
	if err != nil {
		t.Fatalf("IssueToken: %v", err)
	}
	claims, err := s.Parse(tok)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if claims.Sub != "user-1" || claims.Name != "Ada" {
		t.Fatalf("claims = %+v", claims)
	}
}

func TestParseRejectsWrongSecret(t *testing.T) {
	tok, err := NewService("secret-a").IssueToken("user-1", "Ada")
	if err != nil {
		t.Fatalf("IssueToken: %v", err)
	}
	if _, err := NewService("secret-b").Parse(tok); err == nil {
		t.Fatal("token signed with another secret parsed")
	}
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("hunter22")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if !CheckPassword(hash, "hunter22") {
		t.Fatal("correct password rejected")
	}
	if CheckPassword(hash, "hunter23") {
		t.Fatal("wrong password accepted")
	}
}

func TestRequireUserRedirectsWithoutCookie(t *testing.T) {
	s := NewService("test-secret")
	h := RequireUser(s)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler reached without session")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("GET", "/dashboard", nil))
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want redirect", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/login" {
		t.Fatalf("redirect to %q", loc)
	}
}

func TestRequireUserPassesClaims(t *testing.T) {
	s := NewService("test-secret")
	tok, _ := s.IssueToken("user-1", "Ada")

	var got *Claims
	h := RequireUser(s)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = UserFromContext(r.Context())
	}))

	req := httptest.NewRequest("GET", "/dashboard", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: tok})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if got == nil || got.Sub != "user-1" {
		t.Fatalf("claims = %+v", got)
	}
}

func TestRequireUserRejectsGarbageToken(t *testing.T) {
	s := NewService("test-secret")
	h := RequireUser(s)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler reached with a bad token")
	}))

	req := httptest.NewRequest("GET", "/dashboard", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: "not-a-jwt"})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want redirect", rec.Code)
	}
}
