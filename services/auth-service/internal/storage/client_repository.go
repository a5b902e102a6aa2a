package storage

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/barberlink-app/barberlink/libs/db"
)

type Client struct {
	ID           string
	Name         string
	Phone        string
	Email        string
	PasswordHash string
	Role         string
	CreatedAt    time.Time
}

type ClientRepository struct {
	pool *db.Pool
}

func NewClientRepository(pool *db.Pool) *ClientRepository {
	return &ClientRepository{pool: pool}
}

func (r *ClientRepository) CreateTx(ctx context.Context, tx pgx.Tx, c Client) error {
	_, err := tx.Exec(ctx, `
		INSERT INTO clients (id, name, phone, email, password_hash, role)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, c.ID, c.Name, c.Phone, c.Email, c.PasswordHash, c.Role)
	return err
}

func (r *ClientRepository) GetByEmail(ctx context.Context, email string) (Client, error) {
	var c Client
	err := r.pool.QueryRow(ctx, `
		SELECT id, name, phone, email, password_hash, role, created_at
		FROM clients
		WHERE email = $1
	`, email).Scan(&c.ID, &c.Name, &c.Phone, &c.Email, &c.PasswordHash, &c.Role, &c.CreatedAt)
	if err != nil {
		return Client{}, err
	}
	return c, nil
}

func (r *ClientRepository) GetByID(ctx context.Context, id string) (Client, error) {
	var c Client
	err := r.pool.QueryRow(ctx, `
		SELECT id, name, phone, email, password_hash, role, created_at
		FROM clients
		WHERE id = $1
	`, id).Scan(&c.ID, &c.Name, &c.Phone, &c.Email, &c.PasswordHash, &c.Role, &c.CreatedAt)
	if err != nil {
		return Client{}, err
	}
	return c, nil
}

func IsNotFound(err error) bool {
	return err == pgx.ErrNoRows
}
