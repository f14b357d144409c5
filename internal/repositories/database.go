package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/XSAM/otelsql"
	"github.com/aaravmahajanofficial/artisan-storefront/internal/config"
	"go.opentelemetry.io/otel/attribute"

	_ "github.com/lib/pq"
)

// ErrRecordNotFound is returned by single-row lookups that match nothing.
var ErrRecordNotFound = errors.New("record not found")

type Repository struct {
	DB       *sql.DB
	Products ProductRepository
	Coupons  CouponRepository
	Carts    CartRepository
	Orders   OrderRepository
}

func New(cfg *config.Config) (*Repository, error) {

	db, err := otelsql.Open("postgres", cfg.Database.GetDSN(),
		otelsql.WithAttributes(attribute.String("db.system", "postgresql")),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)
	db.SetConnMaxIdleTime(cfg.Database.ConnMaxIdleTime)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := otelsql.RegisterDBStatsMetrics(db, otelsql.WithAttributes(attribute.String("db.system", "postgresql"))); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to register db stats metrics: %w", err)
	}

	return NewWithDB(db), nil
}

// NewWithDB wires every repository onto an already opened handle.
func NewWithDB(db *sql.DB) *Repository {
	return &Repository{
		DB:       db,
		Products: NewProductRepo(db),
		Coupons:  NewCouponRepo(db),
		Carts:    NewCartRepo(db),
		Orders:   NewOrderRepository(db),
	}
}

func (p *Repository) Close() error {
	return p.DB.Close()
}
