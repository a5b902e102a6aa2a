package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/barberlink-app/barberlink/services/booking-service/internal/grid"
	"github.com/barberlink-app/barberlink/services/booking-service/internal/model"
	"github.com/barberlink-app/barberlink/services/booking-service/internal/outbox"
	"github.com/barberlink-app/barberlink/services/booking-service/internal/slot"
	"github.com/barberlink-app/barberlink/services/booking-service/internal/status"
	"github.com/barberlink-app/barberlink/services/booking-service/internal/storage"
)

type AppointmentHandler struct {
	repo       *storage.AppointmentRepository
	catalog    *storage.CatalogRepository
	blocked    *storage.BlockedSlotRepository
	shop       *storage.ShopRepository
	outboxRepo *outbox.Repository
	logger     *slog.Logger
}

func NewAppointmentHandler(
	repo *storage.AppointmentRepository,
	catalog *storage.CatalogRepository,
	blocked *storage.BlockedSlotRepository,
	shop *storage.ShopRepository,
	outboxRepo *outbox.Repository,
	logger *slog.Logger,
) *AppointmentHandler {
	return &AppointmentHandler{
		repo:       repo,
		catalog:    catalog,
		blocked:    blocked,
		shop:       shop,
		outboxRepo: outboxRepo,
		logger:     logger,
	}
}

type createAppointmentRequest struct {
	ClientID       string `json:"clientId"`
	ClientName     string `json:"clientName"`
	ClientPhone    string `json:"clientPhone"`
	ServiceID      string `json:"serviceId"`
	ProfessionalID string `json:"professionalId"`
	Date           string `json:"date"`
	StartTime      string `json:"startTime"`
}

type appointmentResponse struct {
	AppointmentID    string `json:"appointmentId"`
	ClientID         string `json:"clientId,omitempty"`
	ClientName       string `json:"clientName"`
	ClientPhone      string `json:"clientPhone,omitempty"`
	ServiceID        string `json:"serviceId"`
	ServiceName      string `json:"serviceName"`
	ProfessionalID   string `json:"professionalId"`
	ProfessionalName string `json:"professionalName"`
	Date             string `json:"date"`
	StartTime        string `json:"startTime"`
	EndTime          string `json:"endTime"`
	Price            string `json:"price"`
	Status           string `json:"status"`
	CreatedAt        string `json:"createdAt"`
}

func toAppointmentResponse(a model.Appointment) appointmentResponse {
	return appointmentResponse{
		AppointmentID:    a.ID,
		ClientID:         a.ClientID,
		ClientName:       a.ClientName,
		ClientPhone:      a.ClientPhone,
		ServiceID:        a.ServiceID,
		ServiceName:      a.ServiceName,
		ProfessionalID:   a.ProfessionalID,
		ProfessionalName: a.ProfessionalName,
		Date:             a.Date,
		StartTime:        a.StartTime,
		EndTime:          a.EndTime,
		Price:            a.Price,
		Status:           a.Status,
		CreatedAt:        a.CreatedAt.UTC().Format(time.RFC3339),
	}
}

// CreatePublic serves the public booking form; appointments start PENDENTE
// and VIP usage caps apply.
func (h *AppointmentHandler) CreatePublic(w http.ResponseWriter, r *http.Request) {
	h.create(w, r, true)
}

// CreateAdmin serves the back office; appointments start AGENDADO and skip
// the VIP cap (the front desk can always book).
func (h *AppointmentHandler) CreateAdmin(w http.ResponseWriter, r *http.Request) {
	h.create(w, r, false)
}

func (h *AppointmentHandler) create(w http.ResponseWriter, r *http.Request, publicFlow bool) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req createAppointmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json body", http.StatusBadRequest)
		return
	}
	req.ClientName = strings.TrimSpace(req.ClientName)
	req.ClientPhone = strings.TrimSpace(req.ClientPhone)
	req.ServiceID = strings.TrimSpace(req.ServiceID)
	req.ProfessionalID = strings.TrimSpace(req.ProfessionalID)
	req.Date = strings.TrimSpace(req.Date)
	req.StartTime = strings.TrimSpace(req.StartTime)

	if req.ClientName == "" || req.ServiceID == "" || req.ProfessionalID == "" || req.Date == "" || req.StartTime == "" {
		http.Error(w, "missing required fields", http.StatusBadRequest)
		return
	}
	if _, err := time.Parse("2006-01-02", req.Date); err != nil {
		http.Error(w, "invalid date", http.StatusBadRequest)
		return
	}

	ctx := r.Context()

	svc, err := h.catalog.GetService(ctx, req.ServiceID)
	if err != nil {
		if storage.IsNotFound(err) {
			http.Error(w, "service not found", http.StatusBadRequest)
			return
		}
		http.Error(w, "failed to load service", http.StatusInternalServerError)
		return
	}
	if publicFlow && !svc.Active {
		http.Error(w, "service not available", http.StatusBadRequest)
		return
	}

	pro, err := h.catalog.GetProfessional(ctx, req.ProfessionalID)
	if err != nil {
		if storage.IsNotFound(err) {
			http.Error(w, "professional not found", http.StatusBadRequest)
			return
		}
		http.Error(w, "failed to load professional", http.StatusInternalServerError)
		return
	}

	endTime, err := slot.EndTime(req.StartTime, svc.DurationMinutes)
	if err != nil {
		http.Error(w, "invalid startTime", http.StatusBadRequest)
		return
	}

	workStart, workEnd, err := h.workingWindow(r, pro)
	if err != nil {
		http.Error(w, "failed to load shop config", http.StatusInternalServerError)
		return
	}
	within, err := slot.WithinWindow(req.StartTime, svc.DurationMinutes, workStart, workEnd)
	if err != nil {
		http.Error(w, "invalid startTime", http.StatusBadRequest)
		return
	}
	if !within {
		http.Error(w, "outside working hours", http.StatusUnprocessableEntity)
		return
	}

	blockedHit, err := h.isBlocked(r, req.ProfessionalID, req.Date, req.StartTime, endTime)
	if err != nil {
		http.Error(w, "failed to check blocked slots", http.StatusInternalServerError)
		return
	}
	if blockedHit {
		http.Error(w, "time slot is blocked", http.StatusUnprocessableEntity)
		return
	}

	if publicFlow && req.ClientID != "" {
		ok, err := h.withinVIPCap(r, req.ClientID, req.Date)
		if err != nil {
			http.Error(w, "entitlements check failed", http.StatusInternalServerError)
			return
		}
		if !ok {
			http.Error(w, "plan usage limit reached", http.StatusPaymentRequired)
			return
		}
	}

	appt := &model.Appointment{
		ClientID:         req.ClientID,
		ClientName:       req.ClientName,
		ClientPhone:      req.ClientPhone,
		ServiceID:        svc.ID,
		ServiceName:      svc.Name,
		ProfessionalID:   pro.ID,
		ProfessionalName: pro.Name,
		Date:             req.Date,
		StartTime:        req.StartTime,
		EndTime:          endTime,
		Price:            svc.Price,
		Status:           status.Initial(publicFlow),
	}

	tx, err := h.repo.Begin(ctx)
	if err != nil {
		http.Error(w, "db error", http.StatusInternalServerError)
		return
	}
	defer func() { _ = tx.Rollback(ctx) }()

	id, err := h.repo.Create(ctx, tx, appt)
	if err != nil {
		if storage.IsConflict(err) {
			http.Error(w, "time slot already booked", http.StatusConflict)
			return
		}
		http.Error(w, "failed to create appointment", http.StatusInternalServerError)
		return
	}
	appt.ID = id

	if err := h.insertEvent(ctx, tx, outbox.TopicAppointmentBooked, appt); err != nil {
		http.Error(w, "failed to write outbox event", http.StatusInternalServerError)
		return
	}

	if err := tx.Commit(ctx); err != nil {
		http.Error(w, "failed to commit", http.StatusInternalServerError)
		return
	}

	appt.CreatedAt = time.Now().UTC()
	writeJSON(w, http.StatusCreated, toAppointmentResponse(*appt))
}

// List serves ?date= (exact day), ?month= (YYYY-MM prefix), or everything.
func (h *AppointmentHandler) List(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var (
		appts []model.Appointment
		err   error
	)
	date := strings.TrimSpace(r.URL.Query().Get("date"))
	month := strings.TrimSpace(r.URL.Query().Get("month"))
	switch {
	case date != "":
		appts, err = h.repo.ListByDay(r.Context(), date)
	case month != "":
		appts, err = h.repo.ListByMonth(r.Context(), month)
	default:
		limit := 200
		if raw := strings.TrimSpace(r.URL.Query().Get("limit")); raw != "" {
			if n, convErr := strconv.Atoi(raw); convErr == nil && n > 0 && n <= 500 {
				limit = n
			}
		}
		appts, err = h.repo.ListAll(r.Context(), limit)
	}
	if err != nil {
		http.Error(w, "failed to list appointments", http.StatusInternalServerError)
		return
	}

	items := make([]appointmentResponse, 0, len(appts))
	for _, a := range appts {
		items = append(items, toAppointmentResponse(a))
	}
	writeJSON(w, http.StatusOK, items)
}

type gridCell struct {
	Label       string               `json:"label"`
	Appointment *appointmentResponse `json:"appointment,omitempty"`
}

type gridRow struct {
	ProfessionalID   string     `json:"professionalId"`
	ProfessionalName string     `json:"professionalName"`
	Cells            []gridCell `json:"cells"`
}

// Grid renders the professional-by-slot day view.
func (h *AppointmentHandler) Grid(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	date := strings.TrimSpace(r.URL.Query().Get("date"))
	if date == "" {
		http.Error(w, "date required", http.StatusBadRequest)
		return
	}

	cfg, err := h.shop.GetConfig(r.Context())
	if err != nil {
		http.Error(w, "failed to load shop config", http.StatusInternalServerError)
		return
	}
	labels, err := slot.Labels(cfg.OpenTime, cfg.CloseTime, 30)
	if err != nil {
		http.Error(w, "invalid shop hours", http.StatusInternalServerError)
		return
	}

	pros, err := h.catalog.ListProfessionals(r.Context())
	if err != nil {
		http.Error(w, "failed to list professionals", http.StatusInternalServerError)
		return
	}
	appts, err := h.repo.ListByDay(r.Context(), date)
	if err != nil {
		http.Error(w, "failed to list appointments", http.StatusInternalServerError)
		return
	}

	rows := grid.Build(pros, labels, appts)
	out := make([]gridRow, 0, len(rows))
	for _, row := range rows {
		gr := gridRow{
			ProfessionalID:   row.ProfessionalID,
			ProfessionalName: row.ProfessionalName,
			Cells:            make([]gridCell, 0, len(row.Cells)),
		}
		for _, cell := range row.Cells {
			gc := gridCell{Label: cell.Label}
			if cell.Appointment != nil {
				resp := toAppointmentResponse(*cell.Appointment)
				gc.Appointment = &resp
			}
			gr.Cells = append(gr.Cells, gc)
		}
		out = append(out, gr)
	}
	writeJSON(w, http.StatusOK, out)
}

// Slots lists the free start labels for a professional on a date; the
// public booking form reads it.
func (h *AppointmentHandler) Slots(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	professionalID := strings.TrimSpace(r.URL.Query().Get("professionalId"))
	date := strings.TrimSpace(r.URL.Query().Get("date"))
	if professionalID == "" || date == "" {
		http.Error(w, "professionalId and date are required", http.StatusBadRequest)
		return
	}

	durationMins := 30
	if serviceID := strings.TrimSpace(r.URL.Query().Get("serviceId")); serviceID != "" {
		svc, err := h.catalog.GetService(r.Context(), serviceID)
		if err != nil {
			if storage.IsNotFound(err) {
				http.Error(w, "service not found", http.StatusBadRequest)
				return
			}
			http.Error(w, "failed to load service", http.StatusInternalServerError)
			return
		}
		durationMins = svc.DurationMinutes
	}

	pro, err := h.catalog.GetProfessional(r.Context(), professionalID)
	if err != nil {
		if storage.IsNotFound(err) {
			http.Error(w, "professional not found", http.StatusBadRequest)
			return
		}
		http.Error(w, "failed to load professional", http.StatusInternalServerError)
		return
	}
	workStart, workEnd, err := h.workingWindow(r, pro)
	if err != nil {
		http.Error(w, "failed to load shop config", http.StatusInternalServerError)
		return
	}

	labels, err := slot.Labels(workStart, workEnd, 30)
	if err != nil {
		http.Error(w, "invalid working hours", http.StatusInternalServerError)
		return
	}

	occupied, err := h.repo.ListOccupied(r.Context(), professionalID, date)
	if err != nil {
		http.Error(w, "failed to load appointments", http.StatusInternalServerError)
		return
	}
	blocks, err := h.blocked.ListForDay(r.Context(), professionalID, date)
	if err != nil {
		http.Error(w, "failed to load blocked slots", http.StatusInternalServerError)
		return
	}

	free := make([]string, 0, len(labels))
	for _, label := range labels {
		end, err := slot.EndTime(label, durationMins)
		if err != nil {
			continue
		}
		within, err := slot.WithinWindow(label, durationMins, workStart, workEnd)
		if err != nil || !within {
			continue
		}
		if overlapsAny(label, end, occupied) {
			continue
		}
		if blockedOverlap(label, end, date, blocks) {
			continue
		}
		free = append(free, label)
	}
	writeJSON(w, http.StatusOK, map[string]any{"date": date, "slots": free})
}

type appointmentActionRequest struct {
	AppointmentID string `json:"appointmentId"`
}

// Pay marks an appointment CONCLUIDO_PAGO. Any prior state qualifies,
// CANCELADO included; the paid event drives the billing revenue entry.
// Paying an already settled appointment returns it unchanged and emits
// nothing, like Cancel on a CANCELADO one.
func (h *AppointmentHandler) Pay(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req appointmentActionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json body", http.StatusBadRequest)
		return
	}
	req.AppointmentID = strings.TrimSpace(req.AppointmentID)
	if req.AppointmentID == "" {
		http.Error(w, "appointmentId required", http.StatusBadRequest)
		return
	}

	ctx := r.Context()
	tx, err := h.repo.Begin(ctx)
	if err != nil {
		http.Error(w, "db error", http.StatusInternalServerError)
		return
	}
	defer func() { _ = tx.Rollback(ctx) }()

	appt, err := h.repo.GetForUpdate(ctx, tx, req.AppointmentID)
	if err != nil {
		if storage.IsNotFound(err) {
			http.Error(w, "appointment not found", http.StatusNotFound)
			return
		}
		http.Error(w, "failed to load appointment", http.StatusInternalServerError)
		return
	}

	if status.Settled(appt.Status) {
		writeJSON(w, http.StatusOK, toAppointmentResponse(appt))
		return
	}

	next, err := status.MarkPaid(appt.Status)
	if err != nil {
		http.Error(w, "appointment has unknown status", http.StatusConflict)
		return
	}
	if err := h.repo.UpdateStatus(ctx, tx, appt.ID, next); err != nil {
		http.Error(w, "failed to update appointment", http.StatusInternalServerError)
		return
	}
	appt.Status = next

	if err := h.insertEvent(ctx, tx, outbox.TopicAppointmentPaid, &appt); err != nil {
		http.Error(w, "failed to write outbox event", http.StatusInternalServerError)
		return
	}
	if err := tx.Commit(ctx); err != nil {
		http.Error(w, "failed to commit", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, toAppointmentResponse(appt))
}

// Cancel is idempotent: cancelling a CANCELADO appointment returns it
// unchanged and emits nothing.
func (h *AppointmentHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req appointmentActionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json body", http.StatusBadRequest)
		return
	}
	req.AppointmentID = strings.TrimSpace(req.AppointmentID)
	if req.AppointmentID == "" {
		http.Error(w, "appointmentId required", http.StatusBadRequest)
		return
	}

	ctx := r.Context()
	tx, err := h.repo.Begin(ctx)
	if err != nil {
		http.Error(w, "db error", http.StatusInternalServerError)
		return
	}
	defer func() { _ = tx.Rollback(ctx) }()

	appt, err := h.repo.GetForUpdate(ctx, tx, req.AppointmentID)
	if err != nil {
		if storage.IsNotFound(err) {
			http.Error(w, "appointment not found", http.StatusNotFound)
			return
		}
		http.Error(w, "failed to load appointment", http.StatusInternalServerError)
		return
	}

	if appt.Status == status.Cancelado {
		writeJSON(w, http.StatusOK, toAppointmentResponse(appt))
		return
	}

	next, err := status.Cancel(appt.Status)
	if err != nil {
		http.Error(w, "appointment has unknown status", http.StatusConflict)
		return
	}
	if err := h.repo.UpdateStatus(ctx, tx, appt.ID, next); err != nil {
		http.Error(w, "failed to update appointment", http.StatusInternalServerError)
		return
	}
	appt.Status = next

	if err := h.insertEvent(ctx, tx, outbox.TopicAppointmentCancelled, &appt); err != nil {
		http.Error(w, "failed to write outbox event", http.StatusInternalServerError)
		return
	}
	if err := tx.Commit(ctx); err != nil {
		http.Error(w, "failed to commit", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, toAppointmentResponse(appt))
}

type rescheduleRequest struct {
	AppointmentID string `json:"appointmentId"`
	Date          string `json:"date"`
	StartTime     string `json:"startTime"`
}

// Reschedule rewrites date and times and lands on REAGENDADO. A CANCELADO
// appointment stays where it is.
func (h *AppointmentHandler) Reschedule(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req rescheduleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json body", http.StatusBadRequest)
		return
	}
	req.AppointmentID = strings.TrimSpace(req.AppointmentID)
	req.Date = strings.TrimSpace(req.Date)
	req.StartTime = strings.TrimSpace(req.StartTime)
	if req.AppointmentID == "" || req.Date == "" || req.StartTime == "" {
		http.Error(w, "appointmentId, date and startTime required", http.StatusBadRequest)
		return
	}
	if _, err := time.Parse("2006-01-02", req.Date); err != nil {
		http.Error(w, "invalid date", http.StatusBadRequest)
		return
	}

	ctx := r.Context()
	tx, err := h.repo.Begin(ctx)
	if err != nil {
		http.Error(w, "db error", http.StatusInternalServerError)
		return
	}
	defer func() { _ = tx.Rollback(ctx) }()

	appt, err := h.repo.GetForUpdate(ctx, tx, req.AppointmentID)
	if err != nil {
		if storage.IsNotFound(err) {
			http.Error(w, "appointment not found", http.StatusNotFound)
			return
		}
		http.Error(w, "failed to load appointment", http.StatusInternalServerError)
		return
	}
	if !status.CanReschedule(appt.Status) {
		http.Error(w, "appointment cannot be rescheduled", http.StatusConflict)
		return
	}

	durationMins := h.serviceDuration(r, appt)
	endTime, err := slot.EndTime(req.StartTime, durationMins)
	if err != nil {
		http.Error(w, "invalid startTime", http.StatusBadRequest)
		return
	}

	if err := h.repo.Reschedule(ctx, tx, appt.ID, req.Date, req.StartTime, endTime, status.Reagendado); err != nil {
		if storage.IsConflict(err) {
			http.Error(w, "time slot already booked", http.StatusConflict)
			return
		}
		http.Error(w, "failed to reschedule", http.StatusInternalServerError)
		return
	}
	appt.Date = req.Date
	appt.StartTime = req.StartTime
	appt.EndTime = endTime
	appt.Status = status.Reagendado

	if err := h.insertEvent(ctx, tx, outbox.TopicAppointmentRescheduled, &appt); err != nil {
		http.Error(w, "failed to write outbox event", http.StatusInternalServerError)
		return
	}
	if err := tx.Commit(ctx); err != nil {
		http.Error(w, "failed to commit", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, toAppointmentResponse(appt))
}

func (h *AppointmentHandler) insertEvent(ctx context.Context, tx pgx.Tx, topic string, appt *model.Appointment) error {
	payload, err := json.Marshal(outbox.AppointmentEvent{
		AppointmentID:  appt.ID,
		ClientID:       appt.ClientID,
		ClientName:     appt.ClientName,
		ClientPhone:    appt.ClientPhone,
		ServiceID:      appt.ServiceID,
		ServiceName:    appt.ServiceName,
		ProfessionalID: appt.ProfessionalID,
		Date:           appt.Date,
		StartTime:      appt.StartTime,
		EndTime:        appt.EndTime,
		Price:          appt.Price,
		Status:         appt.Status,
	})
	if err != nil {
		return err
	}
	return h.outboxRepo.Insert(ctx, tx, outbox.Event{
		AggregateType: "appointment",
		AggregateID:   appt.ID,
		EventType:     topic,
		Payload:       payload,
	})
}

func (h *AppointmentHandler) workingWindow(r *http.Request, pro model.Professional) (string, string, error) {
	workStart, workEnd := pro.WorkStart, pro.WorkEnd
	if workStart != "" && workEnd != "" {
		return workStart, workEnd, nil
	}
	cfg, err := h.shop.GetConfig(r.Context())
	if err != nil {
		return "", "", err
	}
	if workStart == "" {
		workStart = cfg.OpenTime
	}
	if workEnd == "" {
		workEnd = cfg.CloseTime
	}
	return workStart, workEnd, nil
}

func (h *AppointmentHandler) isBlocked(r *http.Request, professionalID, date, start, end string) (bool, error) {
	blocks, err := h.blocked.ListForDay(r.Context(), professionalID, date)
	if err != nil {
		return false, err
	}
	return blockedOverlap(start, end, date, blocks), nil
}

func (h *AppointmentHandler) withinVIPCap(r *http.Request, clientID, date string) (bool, error) {
	ent, ok, err := h.repo.GetVIPEntitlements(r.Context(), clientID)
	if err != nil {
		return false, err
	}
	if !ok || !ent.Active || ent.ServiceCap <= 0 {
		return true, nil
	}
	month := date
	if len(date) >= 7 {
		month = date[:7]
	}
	used, err := h.repo.CountPaidInMonth(r.Context(), clientID, month)
	if err != nil {
		return false, err
	}
	return used < ent.ServiceCap, nil
}

// serviceDuration recovers the duration in minutes for a reschedule. The
// catalog row may be gone; the stored start/end of the appointment carries
// the duration then.
func (h *AppointmentHandler) serviceDuration(r *http.Request, appt model.Appointment) int {
	if svc, err := h.catalog.GetService(r.Context(), appt.ServiceID); err == nil && svc.DurationMinutes > 0 {
		return svc.DurationMinutes
	}
	startMins, err1 := slot.Minutes(appt.StartTime)
	endMins, err2 := slot.Minutes(appt.EndTime)
	if err1 == nil && err2 == nil && endMins > startMins {
		return endMins - startMins
	}
	return 30
}

func overlapsAny(start, end string, appts []model.Appointment) bool {
	for _, a := range appts {
		if hit, err := slot.Overlaps(start, end, a.StartTime, a.EndTime); err == nil && hit {
			return true
		}
	}
	return false
}

// blockedOverlap applies one-off blocks on the exact date and recurring
// blocks on the date's weekday.
func blockedOverlap(start, end, date string, blocks []model.BlockedSlot) bool {
	day, err := time.Parse("2006-01-02", date)
	if err != nil {
		return false
	}
	weekday := int(day.Weekday())
	for _, b := range blocks {
		if b.Recurring {
			if !containsInt(b.Weekdays, weekday) {
				continue
			}
		} else if b.Date != date {
			continue
		}
		if hit, err := slot.Overlaps(start, end, b.StartTime, b.EndTime); err == nil && hit {
			return true
		}
	}
	return false
}

func containsInt(xs []int, x int) bool {
	for _, v := range xs {
		if v == x {
			return true
		}
	}
	return false
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
