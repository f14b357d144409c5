package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/aaravmahajanofficial/artisan-storefront/internal/api/middleware"
	"github.com/aaravmahajanofficial/artisan-storefront/internal/cache"
	appErrors "github.com/aaravmahajanofficial/artisan-storefront/internal/errors"
	"github.com/aaravmahajanofficial/artisan-storefront/internal/metrics"
	"github.com/aaravmahajanofficial/artisan-storefront/internal/models"
	repository "github.com/aaravmahajanofficial/artisan-storefront/internal/repositories"
)

const (
	opAdd    = "add"
	opUpdate = "update"
	opRemove = "remove"
	opClear  = "clear"
)

// errUnchanged lets a mutation skip the write when the line set is untouched.
var errUnchanged = errors.New("cart unchanged")

// CartService owns cart synchronization for a session. Every mutation derives
// the full next line set from confirmed state and persists it as one replace;
// the confirmed state only moves after the store accepts the write.
type CartService interface {
	Load(ctx context.Context, sessionID string) (*models.Cart, error)
	// Hold locks the session's cart and returns its confirmed state. Every
	// other cart operation on the session waits until release is called.
	Hold(ctx context.Context, sessionID string) (cart *models.Cart, release func(), err error)
	Add(ctx context.Context, sessionID string, req *models.AddItemRequest) (*models.Cart, error)
	Update(ctx context.Context, sessionID string, req *models.UpdateItemRequest) (*models.Cart, error)
	Remove(ctx context.Context, sessionID string, req *models.RemoveItemRequest) (*models.Cart, error)
	Clear(ctx context.Context, sessionID string) error
}

type cartService struct {
	repo    repository.CartRepository
	catalog CatalogService
	cache   cache.Cache
	ttl     time.Duration
	locks   *sessionLocks
}

func NewCartService(repo repository.CartRepository, catalog CatalogService, cache cache.Cache, ttl time.Duration) CartService {
	return &cartService{
		repo:    repo,
		catalog: catalog,
		cache:   cache,
		ttl:     ttl,
		locks:   newSessionLocks(),
	}
}

func (s *cartService) Load(ctx context.Context, sessionID string) (*models.Cart, error) {
	unlock, err := s.locks.acquire(ctx, sessionID)
	if err != nil {
		return nil, appErrors.InternalError("Request cancelled").WithError(err)
	}
	defer unlock()

	return s.confirmed(ctx, sessionID)
}

func (s *cartService) Hold(ctx context.Context, sessionID string) (*models.Cart, func(), error) {
	unlock, err := s.locks.acquire(ctx, sessionID)
	if err != nil {
		return nil, nil, appErrors.InternalError("Request cancelled").WithError(err)
	}

	cart, err := s.confirmed(ctx, sessionID)
	if err != nil {
		unlock()
		return nil, nil, err
	}

	return cart, unlock, nil
}

func (s *cartService) Add(ctx context.Context, sessionID string, req *models.AddItemRequest) (*models.Cart, error) {
	qty := req.Quantity
	if qty == 0 {
		qty = 1
	}

	if qty < 1 {
		return nil, appErrors.AddValidationError("quantity", "must be at least 1")
	}

	product, err := s.catalog.GetProduct(ctx, req.ProductID)
	if err != nil {
		return nil, err
	}

	if !product.OffersSize(req.Size) {
		return nil, appErrors.AddValidationError("size", "not available for this product")
	}

	if !product.OffersColor(req.Color) {
		return nil, appErrors.AddValidationError("color", "not available for this product")
	}

	line := models.CartLine{ProductID: req.ProductID, Quantity: qty, Size: req.Size, Color: req.Color}

	return s.mutate(ctx, sessionID, opAdd, func(cart *models.Cart) error {
		cart.Lines = mergeLine(cart.Lines, line)
		return nil
	})
}

func (s *cartService) Update(ctx context.Context, sessionID string, req *models.UpdateItemRequest) (*models.Cart, error) {
	key := models.LineKey{ProductID: req.ProductID, Size: req.Size, Color: req.Color}

	return s.mutate(ctx, sessionID, opUpdate, func(cart *models.Cart) error {
		if req.Quantity <= 0 {
			next, removed := removeLine(cart.Lines, key)
			if !removed {
				return errUnchanged
			}

			cart.Lines = next

			return nil
		}

		i := findLine(cart.Lines, key)
		if i < 0 {
			return appErrors.NotFoundError("Item not found in the cart")
		}

		if cart.Lines[i].Quantity == req.Quantity {
			return errUnchanged
		}

		cart.Lines[i].Quantity = req.Quantity

		return nil
	})
}

func (s *cartService) Remove(ctx context.Context, sessionID string, req *models.RemoveItemRequest) (*models.Cart, error) {
	key := models.LineKey{ProductID: req.ProductID, Size: req.Size, Color: req.Color}

	return s.mutate(ctx, sessionID, opRemove, func(cart *models.Cart) error {
		next, removed := removeLine(cart.Lines, key)
		if !removed {
			return errUnchanged
		}

		cart.Lines = next

		return nil
	})
}

// Clear is idempotent; clearing an empty or absent cart succeeds.
func (s *cartService) Clear(ctx context.Context, sessionID string) error {
	unlock, err := s.locks.acquire(ctx, sessionID)
	if err != nil {
		return appErrors.InternalError("Request cancelled").WithError(err)
	}
	defer unlock()

	if err := s.repo.ClearCart(ctx, sessionID); err != nil {
		metrics.RecordCartMutation(opClear, metrics.OutcomeError)
		return appErrors.DatabaseError("Failed to clear cart").WithError(err)
	}

	s.forget(ctx, sessionID)
	metrics.RecordCartMutation(opClear, metrics.OutcomeSuccess)

	return nil
}

func (s *cartService) mutate(ctx context.Context, sessionID, op string, apply func(cart *models.Cart) error) (*models.Cart, error) {
	logger := middleware.LoggerFromContext(ctx)

	unlock, err := s.locks.acquire(ctx, sessionID)
	if err != nil {
		return nil, appErrors.InternalError("Request cancelled").WithError(err)
	}
	defer unlock()

	current, err := s.confirmed(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	next := current.Clone()

	if err := apply(next); err != nil {
		if errors.Is(err, errUnchanged) {
			return current, nil
		}

		metrics.RecordCartMutation(op, metrics.OutcomeRejected)

		return nil, err
	}

	if err := s.repo.PutCart(ctx, next); err != nil {
		if errors.Is(err, repository.ErrCartVersionConflict) {
			logger.Warn("Cart write lost a version race",
				slog.String("operation", op),
				slog.Int64("version", current.Version),
			)
			s.forget(ctx, sessionID)
			metrics.RecordCartMutation(op, metrics.OutcomeConflict)

			return nil, appErrors.ConflictError("Your cart changed in another tab. Please reload and try again.").WithError(err)
		}

		metrics.RecordCartMutation(op, metrics.OutcomeError)

		return nil, appErrors.DatabaseError("Failed to update cart").WithError(err)
	}

	s.remember(ctx, next)
	metrics.RecordCartMutation(op, metrics.OutcomeSuccess)

	return next, nil
}

// confirmed returns the last state the store accepted, from cache when
// possible. Callers must hold the session lock.
func (s *cartService) confirmed(ctx context.Context, sessionID string) (*models.Cart, error) {
	logger := middleware.LoggerFromContext(ctx)
	key := cache.Key(cache.CartKeyPrefix, sessionID)

	var cached models.Cart

	found, err := s.cache.Get(ctx, key, &cached)
	if err != nil {
		logger.Warn("Cart cache read failed", slog.Any("error", err))
	} else if found {
		if cached.Lines == nil {
			cached.Lines = []models.CartLine{}
		}

		return &cached, nil
	}

	cart, err := s.repo.GetCart(ctx, sessionID)
	if err != nil {
		return nil, appErrors.DatabaseError("Failed to load cart").WithError(err)
	}

	s.remember(ctx, cart)

	return cart, nil
}

func (s *cartService) remember(ctx context.Context, cart *models.Cart) {
	if err := s.cache.Set(ctx, cache.Key(cache.CartKeyPrefix, cart.SessionID), cart, s.ttl); err != nil {
		middleware.LoggerFromContext(ctx).Warn("Cart cache write failed", slog.Any("error", err))
	}
}

func (s *cartService) forget(ctx context.Context, sessionID string) {
	if err := s.cache.Delete(ctx, cache.Key(cache.CartKeyPrefix, sessionID)); err != nil {
		middleware.LoggerFromContext(ctx).Warn("Cart cache invalidation failed", slog.Any("error", err))
	}
}

func findLine(lines []models.CartLine, key models.LineKey) int {
	for i, line := range lines {
		if line.Key() == key {
			return i
		}
	}

	return -1
}

// mergeLine increments the matching line or appends a new one, keeping
// insertion order.
func mergeLine(lines []models.CartLine, line models.CartLine) []models.CartLine {
	if i := findLine(lines, line.Key()); i >= 0 {
		lines[i].Quantity += line.Quantity
		return lines
	}

	return append(lines, line)
}

func removeLine(lines []models.CartLine, key models.LineKey) ([]models.CartLine, bool) {
	i := findLine(lines, key)
	if i < 0 {
		return lines, false
	}

	return append(lines[:i], lines[i+1:]...), true
}
