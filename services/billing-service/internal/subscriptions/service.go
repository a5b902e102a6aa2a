package subscriptions

import (
	"context"
	"encoding/json"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/barberlink-app/barberlink/services/billing-service/internal/model"
	"github.com/barberlink-app/barberlink/services/billing-service/internal/outbox"
	"github.com/barberlink-app/barberlink/services/billing-service/internal/storage"
)

// Service owns the subscription transitions and their side effects (outbox
// events). Keeping it out of the HTTP handlers makes the consumer path reuse
// it too.
type Service struct {
	repo       *storage.Repository
	outboxRepo *outbox.Repository
}

func New(repo *storage.Repository, outboxRepo *outbox.Repository) *Service {
	return &Service{repo: repo, outboxRepo: outboxRepo}
}

// Activate creates a membership from a plan snapshot. The end date comes
// from the plan's duration; the first payment record is written alongside.
func (s *Service) Activate(ctx context.Context, tx pgx.Tx, clientID, clientName string, plan model.Plan, today time.Time) (model.Subscription, error) {
	start := today.UTC().Format("2006-01-02")
	end := today.UTC().AddDate(0, 0, plan.DurationDays).Format("2006-01-02")

	sub := model.Subscription{
		ClientID:   clientID,
		ClientName: clientName,
		PlanID:     plan.ID,
		PlanName:   plan.Name,
		Price:      plan.Price,
		UsageLimit: plan.UsageLimit,
		StartDate:  start,
		EndDate:    end,
	}
	id, err := s.repo.CreateSubscription(ctx, tx, &sub)
	if err != nil {
		return model.Subscription{}, err
	}
	sub.ID = id

	if _, err := s.repo.InsertPayment(ctx, tx, &model.PaymentRecord{
		SubscriptionID: id,
		Amount:         plan.Price,
		Date:           start,
		Note:           "adesão",
	}); err != nil {
		return model.Subscription{}, err
	}

	if err := s.emit(ctx, tx, outbox.TopicSubscriptionActivated, sub); err != nil {
		return model.Subscription{}, err
	}
	return sub, nil
}

// Renew extends an existing membership by its plan duration from whichever
// is later, today or the current end date, and resets the usage counter.
func (s *Service) Renew(ctx context.Context, tx pgx.Tx, id string, today time.Time) (model.Subscription, error) {
	sub, err := s.repo.GetSubscriptionForUpdate(ctx, tx, id)
	if err != nil {
		return model.Subscription{}, err
	}

	durationDays := 30
	if plan, planErr := s.repo.GetPlan(ctx, sub.PlanID); planErr == nil && plan.DurationDays > 0 {
		durationDays = plan.DurationDays
	}

	base := today.UTC()
	if end, parseErr := time.Parse("2006-01-02", sub.EndDate); parseErr == nil && end.After(base) {
		base = end
	}
	newEnd := base.AddDate(0, 0, durationDays).Format("2006-01-02")

	if err := s.repo.Renew(ctx, tx, id, newEnd); err != nil {
		return model.Subscription{}, err
	}
	if _, err := s.repo.InsertPayment(ctx, tx, &model.PaymentRecord{
		SubscriptionID: id,
		Amount:         sub.Price,
		Date:           today.UTC().Format("2006-01-02"),
		Note:           "renovação",
	}); err != nil {
		return model.Subscription{}, err
	}

	sub.EndDate = newEnd
	sub.Canceled = false
	sub.UsageCount = 0
	if err := s.emit(ctx, tx, outbox.TopicSubscriptionActivated, sub); err != nil {
		return model.Subscription{}, err
	}
	return sub, nil
}

// Cancel is idempotent; a second cancel emits nothing.
func (s *Service) Cancel(ctx context.Context, tx pgx.Tx, id string) (model.Subscription, error) {
	sub, err := s.repo.GetSubscriptionForUpdate(ctx, tx, id)
	if err != nil {
		return model.Subscription{}, err
	}
	if sub.Canceled {
		return sub, nil
	}
	if err := s.repo.MarkCanceled(ctx, tx, id); err != nil {
		return model.Subscription{}, err
	}
	sub.Canceled = true
	if err := s.emit(ctx, tx, outbox.TopicSubscriptionCanceled, sub); err != nil {
		return model.Subscription{}, err
	}
	return sub, nil
}

func (s *Service) emit(ctx context.Context, tx pgx.Tx, topic string, sub model.Subscription) error {
	payload, err := json.Marshal(outbox.SubscriptionEvent{
		SubscriptionID: sub.ID,
		ClientID:       sub.ClientID,
		ClientName:     sub.ClientName,
		PlanID:         sub.PlanID,
		PlanName:       sub.PlanName,
		UsageLimit:     sub.UsageLimit,
		StartDate:      sub.StartDate,
		EndDate:        sub.EndDate,
	})
	if err != nil {
		return err
	}
	return s.outboxRepo.Insert(ctx, tx, outbox.Event{
		AggregateType: "subscription",
		AggregateID:   sub.ID,
		EventType:     topic,
		Payload:       payload,
	})
}
