package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"bot-metrics-service/internal/records/core/domain"
	"bot-metrics-service/internal/records/core/ports"
)

var ErrInvalidSelection = errors.New("invalid selection")

// SelectionUseCase remembers the last filter a client applied.
type SelectionUseCase struct {
	store ports.SelectionStorePort
	ttl   time.Duration
}

func NewSelectionUseCase(store ports.SelectionStorePort, ttl time.Duration) *SelectionUseCase {
	return &SelectionUseCase{store: store, ttl: ttl}
}

func (uc *SelectionUseCase) Save(ctx context.Context, clientID string, sel domain.Selection) error {
	clientID = strings.TrimSpace(clientID)
	if clientID == "" {
		return ErrInvalidSelection
	}
	if sel.From != nil && sel.To != nil && sel.From.After(*sel.To) {
		return ErrInvalidSelection
	}
	return uc.store.SaveSelection(ctx, clientID, sel, uc.ttl)
}

func (uc *SelectionUseCase) Load(ctx context.Context, clientID string) (domain.Selection, error) {
	clientID = strings.TrimSpace(clientID)
	if clientID == "" {
		return domain.Selection{}, ErrInvalidSelection
	}
	return uc.store.LoadSelection(ctx, clientID)
}
