package handlers

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/barberlink-app/barberlink/services/campaign-service/internal/inactivity"
	"github.com/barberlink-app/barberlink/services/campaign-service/internal/message"
	"github.com/barberlink-app/barberlink/services/campaign-service/internal/model"
	"github.com/barberlink-app/barberlink/services/campaign-service/internal/sms"
	"github.com/barberlink-app/barberlink/services/campaign-service/internal/storage"
)

type CampaignHandler struct {
	repo        *storage.Repository
	sender      sms.Sender
	logger      *slog.Logger
	bookingLink string
	now         func() time.Time
}

func New(repo *storage.Repository, sender sms.Sender, logger *slog.Logger, bookingLink string) *CampaignHandler {
	return &CampaignHandler{
		repo:        repo,
		sender:      sender,
		logger:      logger,
		bookingLink: bookingLink,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

type campaignRequest struct {
	Name          string `json:"name"`
	ThresholdDays int    `json:"thresholdDays"`
	Template      string `json:"template"`
	Discount      string `json:"discount"`
	Active        *bool  `json:"active"`
}

type campaignResponse struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	ThresholdDays int    `json:"thresholdDays"`
	Template      string `json:"template"`
	Discount      string `json:"discount,omitempty"`
	Active        bool   `json:"active"`
	CreatedAt     string `json:"createdAt"`
}

func toCampaignResponse(c model.Campaign) campaignResponse {
	return campaignResponse{
		ID:            c.ID,
		Name:          c.Name,
		ThresholdDays: c.ThresholdDays,
		Template:      c.Template,
		Discount:      c.Discount,
		Active:        c.Active,
		CreatedAt:     c.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func (h *CampaignHandler) Campaigns(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		campaigns, err := h.repo.ListCampaigns(r.Context())
		if err != nil {
			http.Error(w, "failed to list campaigns", http.StatusInternalServerError)
			return
		}
		items := make([]campaignResponse, 0, len(campaigns))
		for _, c := range campaigns {
			items = append(items, toCampaignResponse(c))
		}
		writeJSON(w, http.StatusOK, items)
	case http.MethodPost:
		var req campaignRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json body", http.StatusBadRequest)
			return
		}
		req.Name = strings.TrimSpace(req.Name)
		req.Template = strings.TrimSpace(req.Template)
		if req.Name == "" || req.Template == "" {
			http.Error(w, "name and template required", http.StatusBadRequest)
			return
		}
		if req.ThresholdDays <= 0 {
			req.ThresholdDays = inactivity.DefaultThresholdDays
		}
		c := model.Campaign{
			Name:          req.Name,
			ThresholdDays: req.ThresholdDays,
			Template:      req.Template,
			Discount:      strings.TrimSpace(req.Discount),
			Active:        true,
		}
		if req.Active != nil {
			c.Active = *req.Active
		}
		id, err := h.repo.CreateCampaign(r.Context(), &c)
		if err != nil {
			http.Error(w, "failed to create campaign", http.StatusInternalServerError)
			return
		}
		c.ID = id
		c.CreatedAt = h.now()
		writeJSON(w, http.StatusCreated, toCampaignResponse(c))
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

// CampaignByID routes /api/v1/campaigns/{id} plus the nested /matches and
// /send actions.
func (h *CampaignHandler) CampaignByID(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/api/v1/campaigns/")
	if rest == "" {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}

	if id, ok := strings.CutSuffix(rest, "/matches"); ok {
		h.matches(w, r, id)
		return
	}
	if id, ok := strings.CutSuffix(rest, "/send"); ok {
		h.send(w, r, id)
		return
	}

	id := rest
	if strings.Contains(id, "/") {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}

	switch r.Method {
	case http.MethodGet:
		c, err := h.repo.GetCampaign(r.Context(), id)
		if err != nil {
			if storage.IsNotFound(err) {
				http.Error(w, "campaign not found", http.StatusNotFound)
				return
			}
			http.Error(w, "failed to load campaign", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, toCampaignResponse(c))
	case http.MethodPut:
		var req campaignRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json body", http.StatusBadRequest)
			return
		}
		current, err := h.repo.GetCampaign(r.Context(), id)
		if err != nil {
			if storage.IsNotFound(err) {
				http.Error(w, "campaign not found", http.StatusNotFound)
				return
			}
			http.Error(w, "failed to load campaign", http.StatusInternalServerError)
			return
		}
		if name := strings.TrimSpace(req.Name); name != "" {
			current.Name = name
		}
		if req.ThresholdDays > 0 {
			current.ThresholdDays = req.ThresholdDays
		}
		if tmpl := strings.TrimSpace(req.Template); tmpl != "" {
			current.Template = tmpl
		}
		if disc := strings.TrimSpace(req.Discount); disc != "" {
			current.Discount = disc
		}
		if req.Active != nil {
			current.Active = *req.Active
		}
		if err := h.repo.UpdateCampaign(r.Context(), &current); err != nil {
			http.Error(w, "failed to update campaign", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, toCampaignResponse(current))
	case http.MethodDelete:
		if err := h.repo.DeleteCampaign(r.Context(), id); err != nil {
			if storage.IsNotFound(err) {
				http.Error(w, "campaign not found", http.StatusNotFound)
				return
			}
			http.Error(w, "failed to delete campaign", http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

type matchItem struct {
	ClientID     string `json:"clientId"`
	Name         string `json:"name"`
	Phone        string `json:"phone,omitempty"`
	DaysInactive int    `json:"daysInactive"`
	Message      string `json:"message"`
	WhatsAppLink string `json:"whatsappLink,omitempty"`
}

func (h *CampaignHandler) matches(w http.ResponseWriter, r *http.Request, id string) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	items, _, ok := h.buildMatches(w, r, id)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, items)
}

// send pushes the rendered message to every match through the SMS gateway
// and drops one feed notification summarizing the run.
func (h *CampaignHandler) send(w http.ResponseWriter, r *http.Request, id string) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	items, campaign, ok := h.buildMatches(w, r, id)
	if !ok {
		return
	}

	sent := 0
	for _, item := range items {
		if item.Phone == "" {
			continue
		}
		if err := h.sender.Send(r.Context(), item.Phone, item.Message); err != nil {
			h.logger.Error("campaign send failed", "err", err, "client_id", item.ClientID, "provider", h.sender.ProviderID())
			continue
		}
		sent++
	}

	if _, err := h.repo.InsertNotification(r.Context(), &model.Notification{
		Kind:  "campanha",
		Title: campaign.Name,
		Body:  fmt.Sprintf("%d de %d clientes contatados", sent, len(items)),
	}); err != nil {
		h.logger.Error("failed to record campaign notification", "err", err)
	}
	writeJSON(w, http.StatusOK, map[string]int{"matched": len(items), "sent": sent})
}

// buildMatches loads the campaign, filters the client projection at its
// threshold and renders one message per match. It writes the HTTP error
// itself and reports ok=false when the caller should stop.
func (h *CampaignHandler) buildMatches(w http.ResponseWriter, r *http.Request, id string) ([]matchItem, model.Campaign, bool) {
	campaign, err := h.repo.GetCampaign(r.Context(), id)
	if err != nil {
		if storage.IsNotFound(err) {
			http.Error(w, "campaign not found", http.StatusNotFound)
			return nil, model.Campaign{}, false
		}
		http.Error(w, "failed to load campaign", http.StatusInternalServerError)
		return nil, model.Campaign{}, false
	}
	clients, err := h.repo.ListClients(r.Context())
	if err != nil {
		http.Error(w, "failed to list clients", http.StatusInternalServerError)
		return nil, model.Campaign{}, false
	}

	now := h.now()
	items := make([]matchItem, 0)
	for _, c := range inactivity.Filter(clients, now, campaign.ThresholdDays) {
		days := inactivity.DaysInactive(c, now)
		text := message.Render(campaign.Template, message.Fields{
			Nome:     c.Name,
			Dias:     days,
			Link:     h.bookingLink,
			Desconto: campaign.Discount,
		})
		item := matchItem{
			ClientID:     c.ID,
			Name:         c.Name,
			Phone:        c.Phone,
			DaysInactive: days,
			Message:      text,
		}
		if c.Phone != "" {
			item.WhatsAppLink = message.WALink(c.Phone, text)
		}
		items = append(items, item)
	}
	return items, campaign, true
}

// InactiveClients serves the default 30-day view behind the clients screen.
func (h *CampaignHandler) InactiveClients(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	threshold := inactivity.DefaultThresholdDays
	if raw := strings.TrimSpace(r.URL.Query().Get("days")); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			threshold = n
		}
	}
	clients, err := h.repo.ListClients(r.Context())
	if err != nil {
		http.Error(w, "failed to list clients", http.StatusInternalServerError)
		return
	}
	now := h.now()
	type item struct {
		ClientID     string `json:"clientId"`
		Name         string `json:"name"`
		Phone        string `json:"phone,omitempty"`
		DaysInactive int    `json:"daysInactive"`
	}
	items := make([]item, 0)
	for _, c := range inactivity.Filter(clients, now, threshold) {
		items = append(items, item{
			ClientID:     c.ID,
			Name:         c.Name,
			Phone:        c.Phone,
			DaysInactive: inactivity.DaysInactive(c, now),
		})
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *CampaignHandler) Clients(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	clients, err := h.repo.ListClients(r.Context())
	if err != nil {
		http.Error(w, "failed to list clients", http.StatusInternalServerError)
		return
	}
	now := h.now()
	type item struct {
		ClientID     string `json:"clientId"`
		Name         string `json:"name"`
		Phone        string `json:"phone,omitempty"`
		Email        string `json:"email,omitempty"`
		LastPaidAt   string `json:"lastPaidAt,omitempty"`
		DaysInactive int    `json:"daysInactive"`
		CreatedAt    string `json:"createdAt"`
	}
	items := make([]item, 0, len(clients))
	for _, c := range clients {
		it := item{
			ClientID:     c.ID,
			Name:         c.Name,
			Phone:        c.Phone,
			Email:        c.Email,
			DaysInactive: inactivity.DaysInactive(c, now),
			CreatedAt:    c.CreatedAt.UTC().Format(time.RFC3339),
		}
		if !c.LastPaidAt.IsZero() {
			it.LastPaidAt = c.LastPaidAt.UTC().Format(time.RFC3339)
		}
		items = append(items, it)
	}
	writeJSON(w, http.StatusOK, items)
}

// Notifications serves the feed; ?latest=true narrows to the newest entry.
func (h *CampaignHandler) Notifications(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	limit := 50
	if strings.TrimSpace(r.URL.Query().Get("latest")) == "true" {
		limit = 1
	} else if raw := strings.TrimSpace(r.URL.Query().Get("limit")); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 && n <= 200 {
			limit = n
		}
	}
	notifications, err := h.repo.ListNotifications(r.Context(), limit)
	if err != nil {
		http.Error(w, "failed to list notifications", http.StatusInternalServerError)
		return
	}
	type item struct {
		ID        string `json:"id"`
		Kind      string `json:"kind"`
		Title     string `json:"title"`
		Body      string `json:"body"`
		CreatedAt string `json:"createdAt"`
	}
	items := make([]item, 0, len(notifications))
	for _, n := range notifications {
		items = append(items, item{
			ID:        n.ID,
			Kind:      n.Kind,
			Title:     n.Title,
			Body:      n.Body,
			CreatedAt: n.CreatedAt.UTC().Format(time.RFC3339),
		})
	}
	writeJSON(w, http.StatusOK, items)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
