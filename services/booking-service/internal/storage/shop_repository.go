package storage

import (
	"context"

	"github.com/barberlink-app/barberlink/libs/db"
	"github.com/barberlink-app/barberlink/services/booking-service/internal/model"
)

type ShopRepository struct {
	pool *db.Pool
}

func NewShopRepository(pool *db.Pool) *ShopRepository {
	return &ShopRepository{pool: pool}
}

// GetConfig reads the single settings row. A missing row yields the zero
// config, not an error, so a fresh install renders an unbranded page.
func (r *ShopRepository) GetConfig(ctx context.Context) (model.ShopConfig, error) {
	var cfg model.ShopConfig
	err := r.pool.QueryRow(ctx, `
		SELECT COALESCE(name, ''), COALESCE(phone, ''), COALESCE(address, ''),
			COALESCE(logo_url, ''), COALESCE(cover_url, ''), COALESCE(booking_link, ''),
			COALESCE(open_time, '08:00'), COALESCE(close_time, '20:00'), updated_at
		FROM shop_config
		WHERE id = 1
	`).Scan(
		&cfg.Name,
		&cfg.Phone,
		&cfg.Address,
		&cfg.LogoURL,
		&cfg.CoverURL,
		&cfg.BookingLink,
		&cfg.OpenTime,
		&cfg.CloseTime,
		&cfg.UpdatedAt,
	)
	if err != nil {
		if IsNotFound(err) {
			return model.ShopConfig{OpenTime: "08:00", CloseTime: "20:00"}, nil
		}
		return model.ShopConfig{}, err
	}
	return cfg, nil
}

func (r *ShopRepository) UpsertConfig(ctx context.Context, cfg *model.ShopConfig) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO shop_config (id, name, phone, address, logo_url, cover_url, booking_link, open_time, close_time, updated_at)
		VALUES (1, $1, $2, $3, $4, $5, $6, $7, $8, now())
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			phone = EXCLUDED.phone,
			address = EXCLUDED.address,
			logo_url = EXCLUDED.logo_url,
			cover_url = EXCLUDED.cover_url,
			booking_link = EXCLUDED.booking_link,
			open_time = EXCLUDED.open_time,
			close_time = EXCLUDED.close_time,
			updated_at = now()
	`, cfg.Name, cfg.Phone, cfg.Address, cfg.LogoURL, cfg.CoverURL, cfg.BookingLink,
		cfg.OpenTime, cfg.CloseTime)
	return err
}

func (r *ShopRepository) CreateReview(ctx context.Context, rev *model.Review) (string, error) {
	var id string
	err := r.pool.QueryRow(ctx, `
		INSERT INTO reviews (client_name, professional_id, rating, comment)
		VALUES ($1, NULLIF($2, ''), $3, $4)
		RETURNING id
	`, rev.ClientName, rev.ProfessionalID, rev.Rating, rev.Comment).Scan(&id)
	if err != nil {
		return "", err
	}
	return id, nil
}

func (r *ShopRepository) ListReviews(ctx context.Context, limit int) ([]model.Review, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := r.pool.Query(ctx, `
		SELECT id, client_name, COALESCE(professional_id::text, ''), rating, COALESCE(comment, ''), created_at
		FROM reviews
		ORDER BY created_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var revs []model.Review
	for rows.Next() {
		var rev model.Review
		if err := rows.Scan(&rev.ID, &rev.ClientName, &rev.ProfessionalID, &rev.Rating, &rev.Comment, &rev.CreatedAt); err != nil {
			return nil, err
		}
		revs = append(revs, rev)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return revs, nil
}

func (r *ShopRepository) CreateSuggestion(ctx context.Context, sug *model.Suggestion) (string, error) {
	var id string
	err := r.pool.QueryRow(ctx, `
		INSERT INTO suggestions (client_name, message)
		VALUES ($1, $2)
		RETURNING id
	`, sug.ClientName, sug.Message).Scan(&id)
	if err != nil {
		return "", err
	}
	return id, nil
}

func (r *ShopRepository) ListSuggestions(ctx context.Context, limit int) ([]model.Suggestion, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := r.pool.Query(ctx, `
		SELECT id, client_name, message, created_at
		FROM suggestions
		ORDER BY created_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sugs []model.Suggestion
	for rows.Next() {
		var sug model.Suggestion
		if err := rows.Scan(&sug.ID, &sug.ClientName, &sug.Message, &sug.CreatedAt); err != nil {
			return nil, err
		}
		sugs = append(sugs, sug)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return sugs, nil
}
