package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/barberlink-app/barberlink/services/billing-service/internal/model"
	"github.com/barberlink-app/barberlink/services/billing-service/internal/storage"
	"github.com/barberlink-app/barberlink/services/billing-service/internal/subscriptions"
)

type BillingHandler struct {
	repo   *storage.Repository
	subSvc *subscriptions.Service
	logger *slog.Logger
	now    func() time.Time
}

func New(repo *storage.Repository, subSvc *subscriptions.Service, logger *slog.Logger) *BillingHandler {
	return &BillingHandler{
		repo:   repo,
		subSvc: subSvc,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

type planRequest struct {
	Name         string  `json:"name"`
	Price        float64 `json:"price"`
	UsageLimit   int     `json:"usageLimit"`
	DurationDays int     `json:"durationDays"`
	ImageURL     string  `json:"imageUrl"`
}

type planResponse struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	Price        float64 `json:"price"`
	UsageLimit   int     `json:"usageLimit"`
	DurationDays int     `json:"durationDays"`
	ImageURL     string  `json:"imageUrl,omitempty"`
	CreatedAt    string  `json:"createdAt"`
}

func toPlanResponse(p model.Plan) planResponse {
	return planResponse{
		ID:           p.ID,
		Name:         p.Name,
		Price:        p.Price,
		UsageLimit:   p.UsageLimit,
		DurationDays: p.DurationDays,
		ImageURL:     p.ImageURL,
		CreatedAt:    p.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func (h *BillingHandler) Plans(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		plans, err := h.repo.ListPlans(r.Context())
		if err != nil {
			http.Error(w, "failed to list plans", http.StatusInternalServerError)
			return
		}
		items := make([]planResponse, 0, len(plans))
		for _, p := range plans {
			items = append(items, toPlanResponse(p))
		}
		writeJSON(w, http.StatusOK, items)
	case http.MethodPost:
		var req planRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json body", http.StatusBadRequest)
			return
		}
		req.Name = strings.TrimSpace(req.Name)
		if req.Name == "" || req.Price < 0 || req.DurationDays <= 0 {
			http.Error(w, "name, price and durationDays required", http.StatusBadRequest)
			return
		}
		plan := model.Plan{
			Name:         req.Name,
			Price:        req.Price,
			UsageLimit:   req.UsageLimit,
			DurationDays: req.DurationDays,
			ImageURL:     strings.TrimSpace(req.ImageURL),
		}
		id, err := h.repo.CreatePlan(r.Context(), &plan)
		if err != nil {
			http.Error(w, "failed to create plan", http.StatusInternalServerError)
			return
		}
		plan.ID = id
		plan.CreatedAt = h.now()
		writeJSON(w, http.StatusCreated, toPlanResponse(plan))
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *BillingHandler) PlanByID(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/api/v1/billing/plans/")
	if id == "" || strings.Contains(id, "/") {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}

	switch r.Method {
	case http.MethodGet:
		plan, err := h.repo.GetPlan(r.Context(), id)
		if err != nil {
			if storage.IsNotFound(err) {
				http.Error(w, "plan not found", http.StatusNotFound)
				return
			}
			http.Error(w, "failed to load plan", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, toPlanResponse(plan))
	case http.MethodPut:
		var req planRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json body", http.StatusBadRequest)
			return
		}
		current, err := h.repo.GetPlan(r.Context(), id)
		if err != nil {
			if storage.IsNotFound(err) {
				http.Error(w, "plan not found", http.StatusNotFound)
				return
			}
			http.Error(w, "failed to load plan", http.StatusInternalServerError)
			return
		}
		if name := strings.TrimSpace(req.Name); name != "" {
			current.Name = name
		}
		if req.Price > 0 {
			current.Price = req.Price
		}
		if req.UsageLimit >= 0 {
			current.UsageLimit = req.UsageLimit
		}
		if req.DurationDays > 0 {
			current.DurationDays = req.DurationDays
		}
		if img := strings.TrimSpace(req.ImageURL); img != "" {
			current.ImageURL = img
		}
		if err := h.repo.UpdatePlan(r.Context(), &current); err != nil {
			http.Error(w, "failed to update plan", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, toPlanResponse(current))
	case http.MethodDelete:
		if err := h.repo.DeletePlan(r.Context(), id); err != nil {
			if storage.IsNotFound(err) {
				http.Error(w, "plan not found", http.StatusNotFound)
				return
			}
			http.Error(w, "failed to delete plan", http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

type subscriptionResponse struct {
	ID           string  `json:"id"`
	ClientID     string  `json:"clientId"`
	ClientName   string  `json:"clientName"`
	PlanID       string  `json:"planId"`
	PlanName     string  `json:"planName"`
	Price        float64 `json:"price"`
	UsageLimit   int     `json:"usageLimit"`
	StartDate    string  `json:"startDate"`
	EndDate      string  `json:"endDate"`
	Status       string  `json:"status"`
	DaysLeft     int     `json:"daysLeft"`
	UsageCount   int     `json:"usageCount"`
	UsagePercent int     `json:"usagePercent"`
	Metered      bool    `json:"metered"`
	CreatedAt    string  `json:"createdAt"`
}

func (h *BillingHandler) toSubscriptionResponse(sub model.Subscription) subscriptionResponse {
	today := h.now()
	pct, metered := subscriptions.UsagePercent(sub.UsageCount, sub.UsageLimit)
	return subscriptionResponse{
		ID:           sub.ID,
		ClientID:     sub.ClientID,
		ClientName:   sub.ClientName,
		PlanID:       sub.PlanID,
		PlanName:     sub.PlanName,
		Price:        sub.Price,
		UsageLimit:   sub.UsageLimit,
		StartDate:    sub.StartDate,
		EndDate:      sub.EndDate,
		Status:       subscriptions.ComputedStatus(sub, today),
		DaysLeft:     subscriptions.DaysLeft(sub.EndDate, today),
		UsageCount:   sub.UsageCount,
		UsagePercent: pct,
		Metered:      metered,
		CreatedAt:    sub.CreatedAt.UTC().Format(time.RFC3339),
	}
}

type createSubscriptionRequest struct {
	ClientID   string `json:"clientId"`
	ClientName string `json:"clientName"`
	PlanID     string `json:"planId"`
}

func (h *BillingHandler) Subscriptions(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		subs, err := h.repo.ListSubscriptions(r.Context())
		if err != nil {
			http.Error(w, "failed to list subscriptions", http.StatusInternalServerError)
			return
		}
		items := make([]subscriptionResponse, 0, len(subs))
		for _, sub := range subs {
			items = append(items, h.toSubscriptionResponse(sub))
		}
		writeJSON(w, http.StatusOK, items)
	case http.MethodPost:
		var req createSubscriptionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json body", http.StatusBadRequest)
			return
		}
		req.ClientID = strings.TrimSpace(req.ClientID)
		req.ClientName = strings.TrimSpace(req.ClientName)
		req.PlanID = strings.TrimSpace(req.PlanID)
		if req.ClientName == "" || req.PlanID == "" {
			http.Error(w, "clientName and planId required", http.StatusBadRequest)
			return
		}

		ctx := r.Context()
		plan, err := h.repo.GetPlan(ctx, req.PlanID)
		if err != nil {
			if storage.IsNotFound(err) {
				http.Error(w, "plan not found", http.StatusBadRequest)
				return
			}
			http.Error(w, "failed to load plan", http.StatusInternalServerError)
			return
		}

		tx, err := h.repo.Begin(ctx)
		if err != nil {
			http.Error(w, "db error", http.StatusInternalServerError)
			return
		}
		defer func() { _ = tx.Rollback(ctx) }()

		sub, err := h.subSvc.Activate(ctx, tx, req.ClientID, req.ClientName, plan, h.now())
		if err != nil {
			http.Error(w, "failed to create subscription", http.StatusInternalServerError)
			return
		}
		if err := tx.Commit(ctx); err != nil {
			http.Error(w, "failed to commit", http.StatusInternalServerError)
			return
		}
		sub.CreatedAt = h.now()
		writeJSON(w, http.StatusCreated, h.toSubscriptionResponse(sub))
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

// SubscriptionByID routes /api/v1/billing/subscriptions/{id} and the nested
// /renew, /cancel and /payments actions.
func (h *BillingHandler) SubscriptionByID(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/api/v1/billing/subscriptions/")
	if rest == "" {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}

	if id, ok := strings.CutSuffix(rest, "/renew"); ok {
		h.renew(w, r, id)
		return
	}
	if id, ok := strings.CutSuffix(rest, "/cancel"); ok {
		h.cancel(w, r, id)
		return
	}
	if id, ok := strings.CutSuffix(rest, "/payments"); ok {
		h.payments(w, r, id)
		return
	}

	id := rest
	if strings.Contains(id, "/") {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	sub, err := h.repo.GetSubscription(r.Context(), id)
	if err != nil {
		if storage.IsNotFound(err) {
			http.Error(w, "subscription not found", http.StatusNotFound)
			return
		}
		http.Error(w, "failed to load subscription", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, h.toSubscriptionResponse(sub))
}

func (h *BillingHandler) renew(w http.ResponseWriter, r *http.Request, id string) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	ctx := r.Context()
	tx, err := h.repo.Begin(ctx)
	if err != nil {
		http.Error(w, "db error", http.StatusInternalServerError)
		return
	}
	defer func() { _ = tx.Rollback(ctx) }()

	sub, err := h.subSvc.Renew(ctx, tx, id, h.now())
	if err != nil {
		if storage.IsNotFound(err) {
			http.Error(w, "subscription not found", http.StatusNotFound)
			return
		}
		http.Error(w, "failed to renew subscription", http.StatusInternalServerError)
		return
	}
	if err := tx.Commit(ctx); err != nil {
		http.Error(w, "failed to commit", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, h.toSubscriptionResponse(sub))
}

func (h *BillingHandler) cancel(w http.ResponseWriter, r *http.Request, id string) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	ctx := r.Context()
	tx, err := h.repo.Begin(ctx)
	if err != nil {
		http.Error(w, "db error", http.StatusInternalServerError)
		return
	}
	defer func() { _ = tx.Rollback(ctx) }()

	sub, err := h.subSvc.Cancel(ctx, tx, id)
	if err != nil {
		if storage.IsNotFound(err) {
			http.Error(w, "subscription not found", http.StatusNotFound)
			return
		}
		http.Error(w, "failed to cancel subscription", http.StatusInternalServerError)
		return
	}
	if err := tx.Commit(ctx); err != nil {
		http.Error(w, "failed to commit", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, h.toSubscriptionResponse(sub))
}

type paymentRequest struct {
	Amount float64 `json:"amount"`
	Date   string  `json:"date"`
	Note   string  `json:"note"`
}

func (h *BillingHandler) payments(w http.ResponseWriter, r *http.Request, id string) {
	switch r.Method {
	case http.MethodGet:
		payments, err := h.repo.ListPayments(r.Context(), id)
		if err != nil {
			http.Error(w, "failed to list payments", http.StatusInternalServerError)
			return
		}
		type item struct {
			ID        string  `json:"id"`
			Amount    float64 `json:"amount"`
			Date      string  `json:"date"`
			Note      string  `json:"note,omitempty"`
			CreatedAt string  `json:"createdAt"`
		}
		items := make([]item, 0, len(payments))
		for _, p := range payments {
			items = append(items, item{
				ID:        p.ID,
				Amount:    p.Amount,
				Date:      p.Date,
				Note:      p.Note,
				CreatedAt: p.CreatedAt.UTC().Format(time.RFC3339),
			})
		}
		writeJSON(w, http.StatusOK, items)
	case http.MethodPost:
		var req paymentRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json body", http.StatusBadRequest)
			return
		}
		if req.Amount <= 0 {
			http.Error(w, "amount required", http.StatusBadRequest)
			return
		}
		if strings.TrimSpace(req.Date) == "" {
			req.Date = h.now().Format("2006-01-02")
		}

		ctx := r.Context()
		tx, err := h.repo.Begin(ctx)
		if err != nil {
			http.Error(w, "db error", http.StatusInternalServerError)
			return
		}
		defer func() { _ = tx.Rollback(ctx) }()

		// Lock the subscription so a payment against a deleted row fails
		// cleanly instead of orphaning.
		if _, err := h.repo.GetSubscriptionForUpdate(ctx, tx, id); err != nil {
			if storage.IsNotFound(err) {
				http.Error(w, "subscription not found", http.StatusNotFound)
				return
			}
			http.Error(w, "failed to load subscription", http.StatusInternalServerError)
			return
		}
		paymentID, err := h.repo.InsertPayment(ctx, tx, &model.PaymentRecord{
			SubscriptionID: id,
			Amount:         req.Amount,
			Date:           strings.TrimSpace(req.Date),
			Note:           strings.TrimSpace(req.Note),
		})
		if err != nil {
			http.Error(w, "failed to record payment", http.StatusInternalServerError)
			return
		}
		if err := tx.Commit(ctx); err != nil {
			http.Error(w, "failed to commit", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusCreated, map[string]string{"id": paymentID})
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

// MRR reports the monthly recurring revenue over computed-ATIVA
// subscriptions, at request time.
func (h *BillingHandler) MRR(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	subs, err := h.repo.ListSubscriptions(r.Context())
	if err != nil {
		http.Error(w, "failed to list subscriptions", http.StatusInternalServerError)
		return
	}
	today := h.now()
	active := 0
	for _, sub := range subs {
		if subscriptions.ComputedStatus(sub, today) == subscriptions.StatusAtiva {
			active++
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"mrr":                 subscriptions.MRR(subs, today),
		"activeSubscriptions": active,
	})
}

type financialEntryRequest struct {
	Kind        string  `json:"kind"`
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
	Date        string  `json:"date"`
}

type financialEntryResponse struct {
	ID            string  `json:"id"`
	Kind          string  `json:"kind"`
	Description   string  `json:"description"`
	Amount        float64 `json:"amount"`
	Date          string  `json:"date"`
	AppointmentID string  `json:"appointmentId,omitempty"`
	CreatedAt     string  `json:"createdAt"`
}

func toEntryResponse(e model.FinancialEntry) financialEntryResponse {
	return financialEntryResponse{
		ID:            e.ID,
		Kind:          e.Kind,
		Description:   e.Description,
		Amount:        e.Amount,
		Date:          e.Date,
		AppointmentID: e.AppointmentID,
		CreatedAt:     e.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func (h *BillingHandler) FinancialEntries(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		month := strings.TrimSpace(r.URL.Query().Get("month"))
		entries, err := h.repo.ListEntries(r.Context(), month)
		if err != nil {
			http.Error(w, "failed to list entries", http.StatusInternalServerError)
			return
		}
		items := make([]financialEntryResponse, 0, len(entries))
		for _, e := range entries {
			items = append(items, toEntryResponse(e))
		}
		writeJSON(w, http.StatusOK, items)
	case http.MethodPost:
		var req financialEntryRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json body", http.StatusBadRequest)
			return
		}
		req.Kind = strings.TrimSpace(req.Kind)
		req.Description = strings.TrimSpace(req.Description)
		req.Date = strings.TrimSpace(req.Date)
		if req.Kind != model.KindReceita && req.Kind != model.KindDespesa {
			http.Error(w, "kind must be receita or despesa", http.StatusBadRequest)
			return
		}
		if req.Description == "" || req.Amount <= 0 {
			http.Error(w, "description and amount required", http.StatusBadRequest)
			return
		}
		if req.Date == "" {
			req.Date = h.now().Format("2006-01-02")
		}

		ctx := r.Context()
		tx, err := h.repo.Begin(ctx)
		if err != nil {
			http.Error(w, "db error", http.StatusInternalServerError)
			return
		}
		defer func() { _ = tx.Rollback(ctx) }()

		entry := model.FinancialEntry{
			Kind:        req.Kind,
			Description: req.Description,
			Amount:      req.Amount,
			Date:        req.Date,
		}
		id, err := h.repo.CreateEntry(ctx, tx, &entry)
		if err != nil {
			http.Error(w, "failed to create entry", http.StatusInternalServerError)
			return
		}
		if err := tx.Commit(ctx); err != nil {
			http.Error(w, "failed to commit", http.StatusInternalServerError)
			return
		}
		entry.ID = id
		entry.CreatedAt = h.now()
		writeJSON(w, http.StatusCreated, toEntryResponse(entry))
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *BillingHandler) FinancialEntryByID(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/api/v1/billing/financial/")
	if id == "" || strings.Contains(id, "/") {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}

	switch r.Method {
	case http.MethodPut:
		var req financialEntryRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json body", http.StatusBadRequest)
			return
		}
		current, err := h.repo.GetEntry(r.Context(), id)
		if err != nil {
			if storage.IsNotFound(err) {
				http.Error(w, "entry not found", http.StatusNotFound)
				return
			}
			http.Error(w, "failed to load entry", http.StatusInternalServerError)
			return
		}
		if kind := strings.TrimSpace(req.Kind); kind == model.KindReceita || kind == model.KindDespesa {
			current.Kind = kind
		}
		if desc := strings.TrimSpace(req.Description); desc != "" {
			current.Description = desc
		}
		if req.Amount > 0 {
			current.Amount = req.Amount
		}
		if date := strings.TrimSpace(req.Date); date != "" {
			current.Date = date
		}
		if err := h.repo.UpdateEntry(r.Context(), &current); err != nil {
			http.Error(w, "failed to update entry", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, toEntryResponse(current))
	case http.MethodDelete:
		if err := h.repo.DeleteEntry(r.Context(), id); err != nil {
			if storage.IsNotFound(err) {
				http.Error(w, "entry not found", http.StatusNotFound)
				return
			}
			http.Error(w, "failed to delete entry", http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

// FinancialSummary returns receita, despesa and the balance for ?month=.
func (h *BillingHandler) FinancialSummary(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	month := strings.TrimSpace(r.URL.Query().Get("month"))
	if month == "" {
		month = h.now().Format("2006-01")
	}
	sum, err := h.repo.SummaryForMonth(r.Context(), month)
	if err != nil {
		http.Error(w, "failed to build summary", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"month":   sum.Month,
		"receita": sum.Revenue,
		"despesa": sum.Expense,
		"saldo":   sum.Revenue - sum.Expense,
	})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
