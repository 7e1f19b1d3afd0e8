package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/drmcoder/garment-erp-pwa-sub006/internal/models"
)

type APIKeyRepo struct {
	pool *pgxpool.Pool
}

func NewAPIKeyRepo(pool *pgxpool.Pool) *APIKeyRepo {
	return &APIKeyRepo{pool: pool}
}

func (r *APIKeyRepo) Create(ctx context.Context, k *models.APIKey) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO api_keys (id, actor_id, actor_name, role, key_hash, key_prefix, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, k.ID, k.ActorID, k.ActorName, k.Role, k.KeyHash, k.KeyPrefix, k.IsActive)
	return err
}

func (r *APIKeyRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.APIKey, error) {
	var k models.APIKey
	err := r.pool.QueryRow(ctx, `
		SELECT id, actor_id, actor_name, role, key_hash, key_prefix, is_active
		FROM api_keys WHERE id = $1
	`, id).Scan(&k.ID, &k.ActorID, &k.ActorName, &k.Role, &k.KeyHash, &k.KeyPrefix, &k.IsActive)
	if err != nil {
		return nil, err
	}
	return &k, nil
}

func (r *APIKeyRepo) Deactivate(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, "UPDATE api_keys SET is_active = FALSE WHERE id = $1", id)
	return err
}

// FindByKeyHash returns the active api_key with the given hash.
func (r *APIKeyRepo) FindByKeyHash(ctx context.Context, keyHash string) (*models.APIKey, error) {
	var k models.APIKey
	err := r.pool.QueryRow(ctx, `
		SELECT id, actor_id, actor_name, role, key_hash, key_prefix, is_active
		FROM api_keys WHERE key_hash = $1 AND is_active = TRUE
	`, keyHash).Scan(&k.ID, &k.ActorID, &k.ActorName, &k.Role, &k.KeyHash, &k.KeyPrefix, &k.IsActive)
	if err != nil {
		return nil, err
	}
	return &k, nil
}
