package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/barberlink-app/barberlink/services/booking-service/internal/model"
	"github.com/barberlink-app/barberlink/services/booking-service/internal/storage"
)

type CatalogHandler struct {
	catalog *storage.CatalogRepository
	logger  *slog.Logger
}

func NewCatalogHandler(catalog *storage.CatalogRepository, logger *slog.Logger) *CatalogHandler {
	return &CatalogHandler{catalog: catalog, logger: logger}
}

type serviceRequest struct {
	Name            string `json:"name"`
	Price           string `json:"price"`
	DurationMinutes int    `json:"durationMinutes"`
	Active          *bool  `json:"active"`
}

type serviceResponse struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	Price           string `json:"price"`
	DurationMinutes int    `json:"durationMinutes"`
	Active          bool   `json:"active"`
	CreatedAt       string `json:"createdAt"`
}

func toServiceResponse(s model.Service) serviceResponse {
	return serviceResponse{
		ID:              s.ID,
		Name:            s.Name,
		Price:           s.Price,
		DurationMinutes: s.DurationMinutes,
		Active:          s.Active,
		CreatedAt:       s.CreatedAt.UTC().Format(time.RFC3339),
	}
}

// Services serves the collection route: GET lists, POST creates.
// ?active=true narrows to the public catalog.
func (h *CatalogHandler) Services(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		activeOnly := strings.TrimSpace(r.URL.Query().Get("active")) == "true"
		svcs, err := h.catalog.ListServices(r.Context(), activeOnly)
		if err != nil {
			http.Error(w, "failed to list services", http.StatusInternalServerError)
			return
		}
		items := make([]serviceResponse, 0, len(svcs))
		for _, s := range svcs {
			items = append(items, toServiceResponse(s))
		}
		writeJSON(w, http.StatusOK, items)
	case http.MethodPost:
		var req serviceRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json body", http.StatusBadRequest)
			return
		}
		req.Name = strings.TrimSpace(req.Name)
		if req.Name == "" || req.DurationMinutes <= 0 {
			http.Error(w, "name and durationMinutes required", http.StatusBadRequest)
			return
		}
		svc := model.Service{
			Name:            req.Name,
			Price:           strings.TrimSpace(req.Price),
			DurationMinutes: req.DurationMinutes,
			Active:          true,
		}
		if req.Active != nil {
			svc.Active = *req.Active
		}
		id, err := h.catalog.CreateService(r.Context(), &svc)
		if err != nil {
			http.Error(w, "failed to create service", http.StatusInternalServerError)
			return
		}
		svc.ID = id
		svc.CreatedAt = time.Now().UTC()
		writeJSON(w, http.StatusCreated, toServiceResponse(svc))
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

// ServiceByID serves /api/v1/services/{id}: GET, PUT, DELETE.
func (h *CatalogHandler) ServiceByID(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/api/v1/services/")
	if id == "" || strings.Contains(id, "/") {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}

	switch r.Method {
	case http.MethodGet:
		svc, err := h.catalog.GetService(r.Context(), id)
		if err != nil {
			if storage.IsNotFound(err) {
				http.Error(w, "service not found", http.StatusNotFound)
				return
			}
			http.Error(w, "failed to load service", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, toServiceResponse(svc))
	case http.MethodPut:
		var req serviceRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json body", http.StatusBadRequest)
			return
		}
		current, err := h.catalog.GetService(r.Context(), id)
		if err != nil {
			if storage.IsNotFound(err) {
				http.Error(w, "service not found", http.StatusNotFound)
				return
			}
			http.Error(w, "failed to load service", http.StatusInternalServerError)
			return
		}
		if name := strings.TrimSpace(req.Name); name != "" {
			current.Name = name
		}
		if price := strings.TrimSpace(req.Price); price != "" {
			current.Price = price
		}
		if req.DurationMinutes > 0 {
			current.DurationMinutes = req.DurationMinutes
		}
		if req.Active != nil {
			current.Active = *req.Active
		}
		if err := h.catalog.UpdateService(r.Context(), &current); err != nil {
			http.Error(w, "failed to update service", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, toServiceResponse(current))
	case http.MethodDelete:
		if err := h.catalog.DeleteService(r.Context(), id); err != nil {
			if storage.IsNotFound(err) {
				http.Error(w, "service not found", http.StatusNotFound)
				return
			}
			http.Error(w, "failed to delete service", http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

type professionalRequest struct {
	Name        string   `json:"name"`
	Specialties []string `json:"specialties"`
	WorkStart   string   `json:"workStart"`
	WorkEnd     string   `json:"workEnd"`
}

type professionalResponse struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Specialties []string `json:"specialties"`
	WorkStart   string   `json:"workStart,omitempty"`
	WorkEnd     string   `json:"workEnd,omitempty"`
	Likes       int      `json:"likes"`
	CreatedAt   string   `json:"createdAt"`
}

func toProfessionalResponse(p model.Professional) professionalResponse {
	specs := p.Specialties
	if specs == nil {
		specs = []string{}
	}
	return professionalResponse{
		ID:          p.ID,
		Name:        p.Name,
		Specialties: specs,
		WorkStart:   p.WorkStart,
		WorkEnd:     p.WorkEnd,
		Likes:       p.Likes,
		CreatedAt:   p.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func (h *CatalogHandler) Professionals(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		pros, err := h.catalog.ListProfessionals(r.Context())
		if err != nil {
			http.Error(w, "failed to list professionals", http.StatusInternalServerError)
			return
		}
		items := make([]professionalResponse, 0, len(pros))
		for _, p := range pros {
			items = append(items, toProfessionalResponse(p))
		}
		writeJSON(w, http.StatusOK, items)
	case http.MethodPost:
		var req professionalRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json body", http.StatusBadRequest)
			return
		}
		req.Name = strings.TrimSpace(req.Name)
		if req.Name == "" {
			http.Error(w, "name required", http.StatusBadRequest)
			return
		}
		pro := model.Professional{
			Name:        req.Name,
			Specialties: req.Specialties,
			WorkStart:   strings.TrimSpace(req.WorkStart),
			WorkEnd:     strings.TrimSpace(req.WorkEnd),
		}
		id, err := h.catalog.CreateProfessional(r.Context(), &pro)
		if err != nil {
			http.Error(w, "failed to create professional", http.StatusInternalServerError)
			return
		}
		pro.ID = id
		pro.CreatedAt = time.Now().UTC()
		writeJSON(w, http.StatusCreated, toProfessionalResponse(pro))
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

// ProfessionalByID serves /api/v1/professionals/{id} and the public
// /api/v1/professionals/{id}/like counter.
func (h *CatalogHandler) ProfessionalByID(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/api/v1/professionals/")
	if rest == "" {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}

	if id, ok := strings.CutSuffix(rest, "/like"); ok {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		likes, err := h.catalog.LikeProfessional(r.Context(), id)
		if err != nil {
			if storage.IsNotFound(err) {
				http.Error(w, "professional not found", http.StatusNotFound)
				return
			}
			http.Error(w, "failed to like professional", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, map[string]int{"likes": likes})
		return
	}

	id := rest
	if strings.Contains(id, "/") {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}

	switch r.Method {
	case http.MethodGet:
		pro, err := h.catalog.GetProfessional(r.Context(), id)
		if err != nil {
			if storage.IsNotFound(err) {
				http.Error(w, "professional not found", http.StatusNotFound)
				return
			}
			http.Error(w, "failed to load professional", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, toProfessionalResponse(pro))
	case http.MethodPut:
		var req professionalRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json body", http.StatusBadRequest)
			return
		}
		current, err := h.catalog.GetProfessional(r.Context(), id)
		if err != nil {
			if storage.IsNotFound(err) {
				http.Error(w, "professional not found", http.StatusNotFound)
				return
			}
			http.Error(w, "failed to load professional", http.StatusInternalServerError)
			return
		}
		if name := strings.TrimSpace(req.Name); name != "" {
			current.Name = name
		}
		if req.Specialties != nil {
			current.Specialties = req.Specialties
		}
		if ws := strings.TrimSpace(req.WorkStart); ws != "" {
			current.WorkStart = ws
		}
		if we := strings.TrimSpace(req.WorkEnd); we != "" {
			current.WorkEnd = we
		}
		if err := h.catalog.UpdateProfessional(r.Context(), &current); err != nil {
			http.Error(w, "failed to update professional", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, toProfessionalResponse(current))
	case http.MethodDelete:
		if err := h.catalog.DeleteProfessional(r.Context(), id); err != nil {
			if storage.IsNotFound(err) {
				http.Error(w, "professional not found", http.StatusNotFound)
				return
			}
			http.Error(w, "failed to delete professional", http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}
