package main

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/barberlink-app/barberlink/libs/auth"
)

func TestRequireRole(t *testing.T) {
	h := requireRole(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}), auth.RoleAdmin)

	req := httptest.NewRequest(http.MethodGet, "http://example.com", nil)
	req.Header.Set("X-Role", auth.RoleClient)
	rw := httptest.NewRecorder()
	h.ServeHTTP(rw, req)
	if rw.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rw.Code)
	}

	reqOK := httptest.NewRequest(http.MethodGet, "http://example.com", nil)
	reqOK.Header.Set("X-Role", auth.RoleAdmin)
	rwOK := httptest.NewRecorder()
	h.ServeHTTP(rwOK, reqOK)
	if rwOK.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rwOK.Code)
	}
}

func TestRequireAuth(t *testing.T) {
	secret := "test-secret"
	claims := auth.Claims{
		Sub:  "client-1",
		Name: "João",
		Role: auth.RoleClient,
		Iat:  time.Now().Unix(),
		Exp:  time.Now().Add(1 * time.Hour).Unix(),
	}
	token, err := auth.SignHS256(claims, secret)
	if err != nil {
		t.Fatalf("SignHS256 failed: %v", err)
	}

	h := requireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-Client-Id") != claims.Sub {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		if r.Header.Get("X-Role") != claims.Role {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		w.WriteHeader(http.StatusOK)
	}), secret)

	req := httptest.NewRequest(http.MethodGet, "http://example.com", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rw := httptest.NewRecorder()
	h.ServeHTTP(rw, req)
	if rw.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rw.Code)
	}

	reqBad := httptest.NewRequest(http.MethodGet, "http://example.com", nil)
	reqBad.Header.Set("Authorization", "Bearer badtoken")
	rwBad := httptest.NewRecorder()
	h.ServeHTTP(rwBad, reqBad)
	if rwBad.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rwBad.Code)
	}

	// Spoofed identity headers never pass through.
	reqSpoof := httptest.NewRequest(http.MethodGet, "http://example.com", nil)
	reqSpoof.Header.Set("Authorization", "Bearer "+token)
	reqSpoof.Header.Set("X-Role", auth.RoleAdmin)
	rwSpoof := httptest.NewRecorder()
	spoofCheck := requireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-Role") != auth.RoleClient {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		w.WriteHeader(http.StatusOK)
	}), secret)
	spoofCheck.ServeHTTP(rwSpoof, reqSpoof)
	if rwSpoof.Code != http.StatusOK {
		t.Fatalf("expected spoofed role header to be replaced, got %d", rwSpoof.Code)
	}
}

func TestAdminExceptGet(t *testing.T) {
	secret := "test-secret"
	h := adminExceptGet(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}), secret)

	reqGet := httptest.NewRequest(http.MethodGet, "http://example.com/api/v1/services", nil)
	rwGet := httptest.NewRecorder()
	h.ServeHTTP(rwGet, reqGet)
	if rwGet.Code != http.StatusOK {
		t.Fatalf("expected GET to pass through, got %d", rwGet.Code)
	}

	reqPost := httptest.NewRequest(http.MethodPost, "http://example.com/api/v1/services", nil)
	rwPost := httptest.NewRecorder()
	h.ServeHTTP(rwPost, reqPost)
	if rwPost.Code != http.StatusUnauthorized {
		t.Fatalf("expected POST without token to be rejected, got %d", rwPost.Code)
	}

	adminToken, err := auth.SignHS256(auth.Claims{
		Sub:  "admin",
		Role: auth.RoleAdmin,
		Iat:  time.Now().Unix(),
		Exp:  time.Now().Add(time.Hour).Unix(),
	}, secret)
	if err != nil {
		t.Fatalf("SignHS256 failed: %v", err)
	}
	reqAdmin := httptest.NewRequest(http.MethodPost, "http://example.com/api/v1/services", nil)
	reqAdmin.Header.Set("Authorization", "Bearer "+adminToken)
	rwAdmin := httptest.NewRecorder()
	h.ServeHTTP(rwAdmin, reqAdmin)
	if rwAdmin.Code != http.StatusOK {
		t.Fatalf("expected POST with admin token to pass, got %d", rwAdmin.Code)
	}
}
