package storage

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/barberlink-app/barberlink/libs/db"
	"github.com/barberlink-app/barberlink/services/booking-service/internal/model"
)

type CatalogRepository struct {
	pool *db.Pool
}

func NewCatalogRepository(pool *db.Pool) *CatalogRepository {
	return &CatalogRepository{pool: pool}
}

func (r *CatalogRepository) CreateService(ctx context.Context, svc *model.Service) (string, error) {
	var id string
	err := r.pool.QueryRow(ctx, `
		INSERT INTO services (name, price, duration_minutes, active)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`, svc.Name, svc.Price, svc.DurationMinutes, svc.Active).Scan(&id)
	if err != nil {
		return "", err
	}
	return id, nil
}

func (r *CatalogRepository) UpdateService(ctx context.Context, svc *model.Service) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE services
		SET name = $2, price = $3, duration_minutes = $4, active = $5
		WHERE id = $1
	`, svc.ID, svc.Name, svc.Price, svc.DurationMinutes, svc.Active)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *CatalogRepository) DeleteService(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM services WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *CatalogRepository) GetService(ctx context.Context, id string) (model.Service, error) {
	var svc model.Service
	err := r.pool.QueryRow(ctx, `
		SELECT id, name, price, duration_minutes, active, created_at
		FROM services
		WHERE id = $1
	`, id).Scan(&svc.ID, &svc.Name, &svc.Price, &svc.DurationMinutes, &svc.Active, &svc.CreatedAt)
	if err != nil {
		return model.Service{}, err
	}
	return svc, nil
}

// ListServices returns the whole catalog for the admin, or only active rows
// for the public booking form.
func (r *CatalogRepository) ListServices(ctx context.Context, activeOnly bool) ([]model.Service, error) {
	query := `
		SELECT id, name, price, duration_minutes, active, created_at
		FROM services
		ORDER BY name ASC
	`
	if activeOnly {
		query = `
		SELECT id, name, price, duration_minutes, active, created_at
		FROM services
		WHERE active
		ORDER BY name ASC
	`
	}
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var svcs []model.Service
	for rows.Next() {
		var svc model.Service
		if err := rows.Scan(&svc.ID, &svc.Name, &svc.Price, &svc.DurationMinutes, &svc.Active, &svc.CreatedAt); err != nil {
			return nil, err
		}
		svcs = append(svcs, svc)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return svcs, nil
}

func (r *CatalogRepository) CreateProfessional(ctx context.Context, pro *model.Professional) (string, error) {
	var id string
	err := r.pool.QueryRow(ctx, `
		INSERT INTO professionals (name, specialties, work_start, work_end)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`, pro.Name, pro.Specialties, pro.WorkStart, pro.WorkEnd).Scan(&id)
	if err != nil {
		return "", err
	}
	return id, nil
}

func (r *CatalogRepository) UpdateProfessional(ctx context.Context, pro *model.Professional) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE professionals
		SET name = $2, specialties = $3, work_start = $4, work_end = $5
		WHERE id = $1
	`, pro.ID, pro.Name, pro.Specialties, pro.WorkStart, pro.WorkEnd)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *CatalogRepository) DeleteProfessional(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM professionals WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *CatalogRepository) GetProfessional(ctx context.Context, id string) (model.Professional, error) {
	var pro model.Professional
	err := r.pool.QueryRow(ctx, `
		SELECT id, name, specialties, COALESCE(work_start, ''), COALESCE(work_end, ''), likes, created_at
		FROM professionals
		WHERE id = $1
	`, id).Scan(&pro.ID, &pro.Name, &pro.Specialties, &pro.WorkStart, &pro.WorkEnd, &pro.Likes, &pro.CreatedAt)
	if err != nil {
		return model.Professional{}, err
	}
	return pro, nil
}

func (r *CatalogRepository) ListProfessionals(ctx context.Context) ([]model.Professional, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, name, specialties, COALESCE(work_start, ''), COALESCE(work_end, ''), likes, created_at
		FROM professionals
		ORDER BY name ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var pros []model.Professional
	for rows.Next() {
		var pro model.Professional
		if err := rows.Scan(&pro.ID, &pro.Name, &pro.Specialties, &pro.WorkStart, &pro.WorkEnd, &pro.Likes, &pro.CreatedAt); err != nil {
			return nil, err
		}
		pros = append(pros, pro)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return pros, nil
}

// LikeProfessional increments the public like counter and returns the new
// total. No per-client dedupe; the counter is a vanity metric.
func (r *CatalogRepository) LikeProfessional(ctx context.Context, id string) (int, error) {
	var likes int
	err := r.pool.QueryRow(ctx, `
		UPDATE professionals SET likes = likes + 1 WHERE id = $1 RETURNING likes
	`, id).Scan(&likes)
	if err != nil {
		return 0, err
	}
	return likes, nil
}
