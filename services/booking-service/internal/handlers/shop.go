package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/barberlink-app/barberlink/services/booking-service/internal/model"
	"github.com/barberlink-app/barberlink/services/booking-service/internal/storage"
	"github.com/barberlink-app/barberlink/services/booking-service/internal/uploads"
)

type ShopHandler struct {
	shop    *storage.ShopRepository
	blocked *storage.BlockedSlotRepository
	uploads uploads.Client
	logger  *slog.Logger
}

func NewShopHandler(shop *storage.ShopRepository, blocked *storage.BlockedSlotRepository, uploadsClient uploads.Client, logger *slog.Logger) *ShopHandler {
	return &ShopHandler{
		shop:    shop,
		blocked: blocked,
		uploads: uploadsClient,
		logger:  logger,
	}
}

type shopConfigPayload struct {
	Name        string `json:"name"`
	Phone       string `json:"phone"`
	Address     string `json:"address"`
	LogoURL     string `json:"logoUrl"`
	CoverURL    string `json:"coverUrl"`
	BookingLink string `json:"bookingLink"`
	OpenTime    string `json:"openTime"`
	CloseTime   string `json:"closeTime"`
}

// Config serves the single settings row: GET for the public header, PUT for
// the admin settings screen.
func (h *ShopHandler) Config(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		cfg, err := h.shop.GetConfig(r.Context())
		if err != nil {
			http.Error(w, "failed to load shop config", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, shopConfigPayload{
			Name:        cfg.Name,
			Phone:       cfg.Phone,
			Address:     cfg.Address,
			LogoURL:     cfg.LogoURL,
			CoverURL:    cfg.CoverURL,
			BookingLink: cfg.BookingLink,
			OpenTime:    cfg.OpenTime,
			CloseTime:   cfg.CloseTime,
		})
	case http.MethodPut:
		var req shopConfigPayload
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json body", http.StatusBadRequest)
			return
		}
		cfg := model.ShopConfig{
			Name:        strings.TrimSpace(req.Name),
			Phone:       strings.TrimSpace(req.Phone),
			Address:     strings.TrimSpace(req.Address),
			LogoURL:     strings.TrimSpace(req.LogoURL),
			CoverURL:    strings.TrimSpace(req.CoverURL),
			BookingLink: strings.TrimSpace(req.BookingLink),
			OpenTime:    strings.TrimSpace(req.OpenTime),
			CloseTime:   strings.TrimSpace(req.CloseTime),
		}
		if cfg.OpenTime == "" {
			cfg.OpenTime = "08:00"
		}
		if cfg.CloseTime == "" {
			cfg.CloseTime = "20:00"
		}
		if err := h.shop.UpsertConfig(r.Context(), &cfg); err != nil {
			http.Error(w, "failed to save shop config", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, req)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

// UploadImage relays a multipart image to the external media host and stores
// the returned URL on the config field named by ?field= (logo or cover).
func (h *ShopHandler) UploadImage(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	field := strings.TrimSpace(r.URL.Query().Get("field"))
	if field != "logo" && field != "cover" {
		http.Error(w, "field must be logo or cover", http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "file is required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	url, err := h.uploads.Upload(r.Context(), header.Filename, file)
	if err != nil {
		h.logger.Error("image upload failed", "err", err, "provider", h.uploads.ProviderID())
		http.Error(w, "image host unavailable", http.StatusBadGateway)
		return
	}

	cfg, err := h.shop.GetConfig(r.Context())
	if err != nil {
		http.Error(w, "failed to load shop config", http.StatusInternalServerError)
		return
	}
	if field == "logo" {
		cfg.LogoURL = url
	} else {
		cfg.CoverURL = url
	}
	if err := h.shop.UpsertConfig(r.Context(), &cfg); err != nil {
		http.Error(w, "failed to save shop config", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"url": url})
}

type blockedSlotRequest struct {
	ProfessionalID string `json:"professionalId"`
	Date           string `json:"date"`
	StartTime      string `json:"startTime"`
	EndTime        string `json:"endTime"`
	Reason         string `json:"reason"`
	Recurring      bool   `json:"recurring"`
	Weekdays       []int  `json:"weekdays"`
}

type blockedSlotResponse struct {
	ID             string `json:"id"`
	ProfessionalID string `json:"professionalId"`
	Date           string `json:"date,omitempty"`
	StartTime      string `json:"startTime"`
	EndTime        string `json:"endTime"`
	Reason         string `json:"reason,omitempty"`
	Recurring      bool   `json:"recurring"`
	Weekdays       []int  `json:"weekdays,omitempty"`
	CreatedAt      string `json:"createdAt"`
}

func toBlockedSlotResponse(b model.BlockedSlot) blockedSlotResponse {
	return blockedSlotResponse{
		ID:             b.ID,
		ProfessionalID: b.ProfessionalID,
		Date:           b.Date,
		StartTime:      b.StartTime,
		EndTime:        b.EndTime,
		Reason:         b.Reason,
		Recurring:      b.Recurring,
		Weekdays:       b.Weekdays,
		CreatedAt:      b.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func (h *ShopHandler) BlockedSlots(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		slots, err := h.blocked.List(r.Context())
		if err != nil {
			http.Error(w, "failed to list blocked slots", http.StatusInternalServerError)
			return
		}
		items := make([]blockedSlotResponse, 0, len(slots))
		for _, b := range slots {
			items = append(items, toBlockedSlotResponse(b))
		}
		writeJSON(w, http.StatusOK, items)
	case http.MethodPost:
		var req blockedSlotRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json body", http.StatusBadRequest)
			return
		}
		req.ProfessionalID = strings.TrimSpace(req.ProfessionalID)
		req.Date = strings.TrimSpace(req.Date)
		req.StartTime = strings.TrimSpace(req.StartTime)
		req.EndTime = strings.TrimSpace(req.EndTime)
		if req.ProfessionalID == "" || req.StartTime == "" || req.EndTime == "" {
			http.Error(w, "professionalId, startTime and endTime required", http.StatusBadRequest)
			return
		}
		if req.Recurring {
			if len(req.Weekdays) == 0 {
				http.Error(w, "recurring block needs weekdays", http.StatusBadRequest)
				return
			}
			req.Date = ""
		} else if req.Date == "" {
			http.Error(w, "date required for one-off block", http.StatusBadRequest)
			return
		}
		slot := model.BlockedSlot{
			ProfessionalID: req.ProfessionalID,
			Date:           req.Date,
			StartTime:      req.StartTime,
			EndTime:        req.EndTime,
			Reason:         strings.TrimSpace(req.Reason),
			Recurring:      req.Recurring,
			Weekdays:       req.Weekdays,
		}
		id, err := h.blocked.Create(r.Context(), &slot)
		if err != nil {
			http.Error(w, "failed to create blocked slot", http.StatusInternalServerError)
			return
		}
		slot.ID = id
		slot.CreatedAt = time.Now().UTC()
		writeJSON(w, http.StatusCreated, toBlockedSlotResponse(slot))
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *ShopHandler) BlockedSlotByID(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/api/v1/blocked-slots/")
	if id == "" || strings.Contains(id, "/") {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}
	if r.Method != http.MethodDelete {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if err := h.blocked.Delete(r.Context(), id); err != nil {
		if storage.IsNotFound(err) {
			http.Error(w, "blocked slot not found", http.StatusNotFound)
			return
		}
		http.Error(w, "failed to delete blocked slot", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type reviewRequest struct {
	ClientName     string `json:"clientName"`
	ProfessionalID string `json:"professionalId"`
	Rating         int    `json:"rating"`
	Comment        string `json:"comment"`
}

func (h *ShopHandler) Reviews(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		limit := parseLimit(r, 100)
		revs, err := h.shop.ListReviews(r.Context(), limit)
		if err != nil {
			http.Error(w, "failed to list reviews", http.StatusInternalServerError)
			return
		}
		type item struct {
			ID             string `json:"id"`
			ClientName     string `json:"clientName"`
			ProfessionalID string `json:"professionalId,omitempty"`
			Rating         int    `json:"rating"`
			Comment        string `json:"comment,omitempty"`
			CreatedAt      string `json:"createdAt"`
		}
		items := make([]item, 0, len(revs))
		for _, rev := range revs {
			items = append(items, item{
				ID:             rev.ID,
				ClientName:     rev.ClientName,
				ProfessionalID: rev.ProfessionalID,
				Rating:         rev.Rating,
				Comment:        rev.Comment,
				CreatedAt:      rev.CreatedAt.UTC().Format(time.RFC3339),
			})
		}
		writeJSON(w, http.StatusOK, items)
	case http.MethodPost:
		var req reviewRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json body", http.StatusBadRequest)
			return
		}
		req.ClientName = strings.TrimSpace(req.ClientName)
		if req.ClientName == "" || req.Rating < 1 || req.Rating > 5 {
			http.Error(w, "clientName and rating 1-5 required", http.StatusBadRequest)
			return
		}
		rev := model.Review{
			ClientName:     req.ClientName,
			ProfessionalID: strings.TrimSpace(req.ProfessionalID),
			Rating:         req.Rating,
			Comment:        strings.TrimSpace(req.Comment),
		}
		id, err := h.shop.CreateReview(r.Context(), &rev)
		if err != nil {
			http.Error(w, "failed to create review", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusCreated, map[string]string{"id": id})
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

type suggestionRequest struct {
	ClientName string `json:"clientName"`
	Message    string `json:"message"`
}

func (h *ShopHandler) Suggestions(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		limit := parseLimit(r, 100)
		sugs, err := h.shop.ListSuggestions(r.Context(), limit)
		if err != nil {
			http.Error(w, "failed to list suggestions", http.StatusInternalServerError)
			return
		}
		type item struct {
			ID         string `json:"id"`
			ClientName string `json:"clientName"`
			Message    string `json:"message"`
			CreatedAt  string `json:"createdAt"`
		}
		items := make([]item, 0, len(sugs))
		for _, s := range sugs {
			items = append(items, item{
				ID:         s.ID,
				ClientName: s.ClientName,
				Message:    s.Message,
				CreatedAt:  s.CreatedAt.UTC().Format(time.RFC3339),
			})
		}
		writeJSON(w, http.StatusOK, items)
	case http.MethodPost:
		var req suggestionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json body", http.StatusBadRequest)
			return
		}
		req.ClientName = strings.TrimSpace(req.ClientName)
		req.Message = strings.TrimSpace(req.Message)
		if req.ClientName == "" || req.Message == "" {
			http.Error(w, "clientName and message required", http.StatusBadRequest)
			return
		}
		sug := model.Suggestion{ClientName: req.ClientName, Message: req.Message}
		id, err := h.shop.CreateSuggestion(r.Context(), &sug)
		if err != nil {
			http.Error(w, "failed to create suggestion", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusCreated, map[string]string{"id": id})
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func parseLimit(r *http.Request, def int) int {
	raw := strings.TrimSpace(r.URL.Query().Get("limit"))
	if raw == "" {
		return def
	}
	if n, err := strconv.Atoi(raw); err == nil && n > 0 && n <= 500 {
		return n
	}
	return def
}
