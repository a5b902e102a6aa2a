package handlers

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"golang.org/x/crypto/bcrypt"

	"github.com/barberlink-app/barberlink/libs/auth"
	"github.com/barberlink-app/barberlink/libs/db"
	"github.com/barberlink-app/barberlink/services/auth-service/internal/audit"
	"github.com/barberlink-app/barberlink/services/auth-service/internal/outbox"
	"github.com/barberlink-app/barberlink/services/auth-service/internal/sessions"
	"github.com/barberlink-app/barberlink/services/auth-service/internal/storage"
)

// AdminCredentials is the env-seeded back-office login. There is exactly one
// admin; it never lives in the clients table.
type AdminCredentials struct {
	Email        string
	Name         string
	PasswordHash string
}

type AuthHandler struct {
	signer     TokenSigner
	pool       *db.Pool
	clients    *storage.ClientRepository
	audit      *audit.Repository
	outbox     *outbox.Repository
	refresh    *sessions.RefreshRepository
	admin      AdminCredentials
	refreshTTL time.Duration
	accessTTL  time.Duration
}

func NewAuthHandler(
	signer TokenSigner,
	pool *db.Pool,
	clients *storage.ClientRepository,
	auditRepo *audit.Repository,
	outboxRepo *outbox.Repository,
	refreshRepo *sessions.RefreshRepository,
	admin AdminCredentials,
	refreshTTL time.Duration,
) *AuthHandler {
	return &AuthHandler{
		signer:     signer,
		pool:       pool,
		clients:    clients,
		audit:      auditRepo,
		outbox:     outboxRepo,
		refresh:    refreshRepo,
		admin:      admin,
		refreshTTL: refreshTTL,
		accessTTL:  1 * time.Hour,
	}
}

type registerRequest struct {
	Name     string `json:"name"`
	Phone    string `json:"phone"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken,omitempty"`
	TokenType    string `json:"tokenType"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type meResponse struct {
	ClientID string `json:"clientId"`
	Name     string `json:"name"`
	Role     string `json:"role"`
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json body", http.StatusBadRequest)
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.Password = strings.TrimSpace(req.Password)
	if req.Name == "" || req.Email == "" || req.Password == "" {
		http.Error(w, "name, email and password required", http.StatusBadRequest)
		return
	}

	hash, err := hashPassword(req.Password)
	if err != nil {
		http.Error(w, "failed to hash password", http.StatusInternalServerError)
		return
	}

	client := storage.Client{
		ID:           uuid.NewString(),
		Name:         req.Name,
		Phone:        strings.TrimSpace(req.Phone),
		Email:        req.Email,
		PasswordHash: hash,
		Role:         auth.RoleClient,
	}
	ctx := r.Context()
	tx, err := h.pool.Begin(ctx)
	if err != nil {
		http.Error(w, "failed to start transaction", http.StatusInternalServerError)
		return
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := h.clients.CreateTx(ctx, tx, client); err != nil {
		if pgErr, ok := err.(*pgconn.PgError); ok && pgErr.Code == "23505" {
			http.Error(w, "email already registered", http.StatusConflict)
			return
		}
		http.Error(w, "failed to create client", http.StatusInternalServerError)
		return
	}

	payload, err := json.Marshal(outbox.ClientRegisteredEvent{
		ClientID: client.ID,
		Name:     client.Name,
		Phone:    client.Phone,
		Email:    client.Email,
	})
	if err != nil {
		http.Error(w, "failed to marshal registration event", http.StatusInternalServerError)
		return
	}
	if err := h.outbox.Insert(ctx, tx, outbox.Event{
		AggregateType: "client",
		AggregateID:   client.ID,
		EventType:     outbox.TopicClientRegistered,
		Payload:       payload,
	}); err != nil {
		http.Error(w, "failed to enqueue registration event", http.StatusInternalServerError)
		return
	}

	if err := tx.Commit(ctx); err != nil {
		http.Error(w, "failed to commit transaction", http.StatusInternalServerError)
		return
	}

	_ = h.audit.Record(ctx, "client.register", client.ID, map[string]any{"email": client.Email})

	token, err := h.issueJWT(client.ID, client.Name, client.Role)
	if err != nil {
		http.Error(w, "failed to issue token", http.StatusInternalServerError)
		return
	}
	refreshToken, err := h.issueRefreshToken(ctx, client.ID)
	if err != nil {
		http.Error(w, "failed to issue refresh token", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusCreated, loginResponse{
		AccessToken:  token,
		RefreshToken: refreshToken,
		TokenType:    "Bearer",
	})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json body", http.StatusBadRequest)
		return
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.Password = strings.TrimSpace(req.Password)
	if req.Email == "" || req.Password == "" {
		http.Error(w, "email and password required", http.StatusBadRequest)
		return
	}

	client, err := h.clients.GetByEmail(r.Context(), req.Email)
	if err != nil {
		if storage.IsNotFound(err) {
			_ = h.audit.Record(r.Context(), "client.login.failed", "", map[string]any{"email": req.Email})
			http.Error(w, "invalid credentials", http.StatusUnauthorized)
			return
		}
		http.Error(w, "failed to lookup client", http.StatusInternalServerError)
		return
	}
	if err := verifyPassword(client.PasswordHash, req.Password); err != nil {
		_ = h.audit.Record(r.Context(), "client.login.failed", client.ID, map[string]any{"email": req.Email})
		http.Error(w, "invalid credentials", http.StatusUnauthorized)
		return
	}

	token, err := h.issueJWT(client.ID, client.Name, client.Role)
	if err != nil {
		http.Error(w, "failed to issue token", http.StatusInternalServerError)
		return
	}
	refreshToken, err := h.issueRefreshToken(r.Context(), client.ID)
	if err != nil {
		http.Error(w, "failed to issue refresh token", http.StatusInternalServerError)
		return
	}

	_ = h.audit.Record(r.Context(), "client.login", client.ID, map[string]any{"email": client.Email})
	writeJSON(w, http.StatusOK, loginResponse{
		AccessToken:  token,
		RefreshToken: refreshToken,
		TokenType:    "Bearer",
	})
}

// AdminLogin checks the env-seeded credentials and issues an admin token.
// Admin sessions are access-token only.
func (h *AuthHandler) AdminLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if h.admin.Email == "" || h.admin.PasswordHash == "" {
		http.Error(w, "admin login not configured", http.StatusNotFound)
		return
	}

	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json body", http.StatusBadRequest)
		return
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.Password = strings.TrimSpace(req.Password)

	emailOK := subtle.ConstantTimeCompare([]byte(req.Email), []byte(strings.ToLower(h.admin.Email))) == 1
	passOK := verifyPassword(h.admin.PasswordHash, req.Password) == nil
	if !emailOK || !passOK {
		_ = h.audit.Record(r.Context(), "admin.login.failed", "", map[string]any{"email": req.Email})
		http.Error(w, "invalid credentials", http.StatusUnauthorized)
		return
	}

	name := h.admin.Name
	if name == "" {
		name = "Administrador"
	}
	token, err := h.issueJWT("admin", name, auth.RoleAdmin)
	if err != nil {
		http.Error(w, "failed to issue token", http.StatusInternalServerError)
		return
	}

	_ = h.audit.Record(r.Context(), "admin.login", "admin", nil)
	writeJSON(w, http.StatusOK, loginResponse{
		AccessToken: token,
		TokenType:   "Bearer",
	})
}

func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req refreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json body", http.StatusBadRequest)
		return
	}
	req.RefreshToken = strings.TrimSpace(req.RefreshToken)
	if req.RefreshToken == "" {
		http.Error(w, "refreshToken required", http.StatusBadRequest)
		return
	}

	hash := sessions.HashToken(req.RefreshToken)
	record, err := h.refresh.GetByHash(r.Context(), hash)
	if err != nil {
		if sessions.IsNotFound(err) {
			http.Error(w, "invalid refresh token", http.StatusUnauthorized)
			return
		}
		http.Error(w, "failed to lookup refresh token", http.StatusInternalServerError)
		return
	}
	if record.RevokedAt != nil || record.ExpiresAt.Before(time.Now()) {
		http.Error(w, "refresh token expired", http.StatusUnauthorized)
		return
	}

	client, err := h.clients.GetByID(r.Context(), record.ClientID)
	if err != nil {
		if storage.IsNotFound(err) {
			http.Error(w, "invalid refresh token", http.StatusUnauthorized)
			return
		}
		http.Error(w, "failed to lookup client", http.StatusInternalServerError)
		return
	}

	// Rotation: the presented token is burned before a new one is issued.
	if err := h.refresh.Revoke(r.Context(), record.ID); err != nil {
		http.Error(w, "failed to rotate refresh token", http.StatusInternalServerError)
		return
	}
	newRefreshToken, err := h.issueRefreshToken(r.Context(), client.ID)
	if err != nil {
		http.Error(w, "failed to issue refresh token", http.StatusInternalServerError)
		return
	}
	newAccessToken, err := h.issueJWT(client.ID, client.Name, client.Role)
	if err != nil {
		http.Error(w, "failed to issue token", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, loginResponse{
		AccessToken:  newAccessToken,
		RefreshToken: newRefreshToken,
		TokenType:    "Bearer",
	})
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req refreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json body", http.StatusBadRequest)
		return
	}
	req.RefreshToken = strings.TrimSpace(req.RefreshToken)
	if req.RefreshToken == "" {
		http.Error(w, "refreshToken required", http.StatusBadRequest)
		return
	}

	hash := sessions.HashToken(req.RefreshToken)
	record, err := h.refresh.GetByHash(r.Context(), hash)
	if err != nil {
		if sessions.IsNotFound(err) {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		http.Error(w, "failed to lookup refresh token", http.StatusInternalServerError)
		return
	}

	if record.RevokedAt == nil {
		if err := h.refresh.Revoke(r.Context(), record.ID); err != nil {
			http.Error(w, "failed to revoke refresh token", http.StatusInternalServerError)
			return
		}
		_ = h.audit.Record(r.Context(), "client.logout", record.ClientID, nil)
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	authHeader := r.Header.Get("Authorization")
	token := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
	if !strings.HasPrefix(authHeader, "Bearer ") || token == "" {
		http.Error(w, "missing or invalid Authorization header", http.StatusUnauthorized)
		return
	}

	claims, err := h.signer.Verify(token)
	if err != nil {
		http.Error(w, "invalid token", http.StatusUnauthorized)
		return
	}

	writeJSON(w, http.StatusOK, meResponse{
		ClientID: claims.Sub,
		Name:     claims.Name,
		Role:     claims.Role,
	})
}

// Audit exposes the recent event trail to the admin.
func (h *AuthHandler) Audit(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	authHeader := r.Header.Get("Authorization")
	token := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
	claims, err := h.signer.Verify(token)
	if err != nil || claims.Role != auth.RoleAdmin {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			limit = n
		}
	}
	events, err := h.audit.ListRecent(r.Context(), limit)
	if err != nil {
		http.Error(w, "failed to load audit events", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, events)
}

func (h *AuthHandler) issueJWT(sub, name, role string) (string, error) {
	now := time.Now()
	return h.signer.Sign(auth.Claims{
		Sub:  sub,
		Name: name,
		Role: role,
		Iat:  now.Unix(),
		Exp:  now.Add(h.accessTTL).Unix(),
	})
}

func (h *AuthHandler) issueRefreshToken(ctx context.Context, clientID string) (string, error) {
	raw, err := newRefreshToken()
	if err != nil {
		return "", err
	}
	expiresAt := time.Now().Add(h.refreshTTL)
	if _, err := h.refresh.Create(ctx, clientID, raw, expiresAt); err != nil {
		return "", err
	}
	return raw, nil
}

func newRefreshToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

func hashPassword(raw string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(raw), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func verifyPassword(hash string, raw string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(raw))
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
