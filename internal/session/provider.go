package session

import (
	"context"
	"log/slog"
	"strings"

	"github.com/aaravmahajanofficial/artisan-storefront/internal/api/middleware"
	"github.com/google/uuid"
)

const (
	idPrefix = "session_"
	idHexLen = 32
)

type Provider struct {
	store Store
}

func NewProvider(store Store) *Provider {
	return &Provider{store: store}
}

// GetOrCreate returns candidate when it is a well-formed session id, otherwise
// a freshly generated one. The id is persisted on a best-effort basis: a store
// failure is logged and the id is still returned.
func (p *Provider) GetOrCreate(ctx context.Context, candidate string) string {
	logger := middleware.LoggerFromContext(ctx)

	id := candidate
	if !IsValidID(id) {
		id = NewID()
		logger.Debug("Issued new session id", slog.String("sessionId", id))
	}

	if err := p.store.Persist(ctx, id); err != nil {
		logger.Warn("Failed to persist session id", slog.String("sessionId", id), slog.Any("error", err))
	}

	return id
}

func NewID() string {
	return idPrefix + strings.ReplaceAll(uuid.NewString(), "-", "")
}

func IsValidID(id string) bool {
	hex, ok := strings.CutPrefix(id, idPrefix)
	if !ok || len(hex) != idHexLen {
		return false
	}

	for _, c := range hex {
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return false
		}
	}

	return true
}
