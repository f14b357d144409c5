package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/aaravmahajanofficial/artisan-storefront/internal/models"
	"github.com/aaravmahajanofficial/artisan-storefront/internal/utils"
)

// ErrCartVersionConflict means the stored cart moved past the version the
// write was derived from.
var ErrCartVersionConflict = errors.New("cart version conflict")

type CartRepository interface {
	GetCart(ctx context.Context, sessionID string) (*models.Cart, error)
	PutCart(ctx context.Context, cart *models.Cart) error
	ClearCart(ctx context.Context, sessionID string) error
}

type cartRepository struct {
	DB *sql.DB
}

func NewCartRepo(db *sql.DB) CartRepository {
	return &cartRepository{DB: db}
}

// GetCart returns an empty, never persisted cart (version 0) when the session
// has none.
func (r *cartRepository) GetCart(ctx context.Context, sessionID string) (*models.Cart, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		SELECT items, version, updated_at
		FROM carts
		WHERE session_id = $1
	`

	cart := &models.Cart{SessionID: sessionID, Lines: []models.CartLine{}}

	var itemsJSON []byte

	err := r.DB.QueryRowContext(dbCtx, query, sessionID).Scan(&itemsJSON, &cart.Version, &cart.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return cart, nil
		}

		return nil, fmt.Errorf("querying database: %w", err)
	}

	if err := json.Unmarshal(itemsJSON, &cart.Lines); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cart items: %w", err)
	}

	return cart, nil
}

// PutCart replaces the whole line set. cart.Version must be the version the
// lines were derived from; on success it is advanced to the stored version.
// Version 0 means the caller derived from an absent cart, so only an insert
// may succeed.
func (r *cartRepository) PutCart(ctx context.Context, cart *models.Cart) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	lines := cart.Lines
	if lines == nil {
		lines = []models.CartLine{}
	}

	itemsJSON, err := json.Marshal(lines)
	if err != nil {
		return fmt.Errorf("failed to marshal cart items: %w", err)
	}

	query := `
		UPDATE carts
		SET items = $2, version = version + 1, updated_at = NOW()
		WHERE session_id = $1 AND version = $3
		RETURNING version, updated_at
	`
	args := []any{cart.SessionID, itemsJSON, cart.Version}

	if cart.Version == 0 {
		query = `
		INSERT INTO carts (session_id, items, version, updated_at)
		VALUES ($1, $2, 1, NOW())
		ON CONFLICT (session_id) DO NOTHING
		RETURNING version, updated_at
	`
		args = args[:2]
	}

	err = r.DB.QueryRowContext(dbCtx, query, args...).Scan(&cart.Version, &cart.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrCartVersionConflict
		}

		return fmt.Errorf("failed to put the cart: %w", err)
	}

	return nil
}

// ClearCart empties the stored cart but keeps its row, so the version keeps
// advancing and a write derived from the pre-clear cart still conflicts.
// Clearing an absent cart is not an error.
func (r *cartRepository) ClearCart(ctx context.Context, sessionID string) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		UPDATE carts
		SET items = '[]'::jsonb, version = version + 1, updated_at = NOW()
		WHERE session_id = $1
	`

	if _, err := r.DB.ExecContext(dbCtx, query, sessionID); err != nil {
		return fmt.Errorf("failed to clear the cart: %w", err)
	}

	return nil
}
