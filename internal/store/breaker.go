package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sony/gobreaker"

	"github.com/dropDatabas3/roleviews/internal/domain/repository"
	"github.com/dropDatabas3/roleviews/internal/observability/logger"
)

// BreakerConfig configura el circuit breaker del repositorio de grupos.
type BreakerConfig struct {
	Name        string
	MaxFailures uint32        // fallos consecutivos para abrir
	OpenTimeout time.Duration // tiempo en estado open antes de half-open
}

// BreakerGroups protege un GroupRepository remoto (postgres) con un circuit breaker.
// Con el circuito abierto las llamadas fallan rápido con repository.ErrUnavailable.
type BreakerGroups struct {
	next repository.GroupRepository
	cb   *gobreaker.CircuitBreaker
}

// NewBreakerGroups envuelve next.
func NewBreakerGroups(next repository.GroupRepository, cfg BreakerConfig) *BreakerGroups {
	if cfg.MaxFailures == 0 {
		cfg.MaxFailures = 5
	}
	if cfg.Name == "" {
		cfg.Name = "groups"
	}
	st := gobreaker.Settings{
		Name:    cfg.Name,
		Timeout: cfg.OpenTimeout,
		ReadyToTrip: func(c gobreaker.Counts) bool {
			return c.ConsecutiveFailures >= cfg.MaxFailures
		},
		// Not found / conflict son respuestas válidas del store, no fallos de infraestructura
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, repository.ErrNotFound) || errors.Is(err, repository.ErrConflict)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.L().Warn("circuit breaker state change",
				logger.Component(name),
				logger.String("from", from.String()),
				logger.String("to", to.String()),
			)
		},
	}
	return &BreakerGroups{next: next, cb: gobreaker.NewCircuitBreaker(st)}
}

// State expone el estado actual del breaker.
func (b *BreakerGroups) State() gobreaker.State { return b.cb.State() }

func (b *BreakerGroups) exec(fn func() (any, error)) (any, error) {
	v, err := b.cb.Execute(fn)
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return nil, fmt.Errorf("%w: %v", repository.ErrUnavailable, err)
	}
	return v, err
}

func (b *BreakerGroups) ListGroups(ctx context.Context) ([]repository.Group, error) {
	v, err := b.exec(func() (any, error) { return b.next.ListGroups(ctx) })
	if err != nil {
		return nil, err
	}
	return v.([]repository.Group), nil
}

func (b *BreakerGroups) UserGroups(ctx context.Context, userID string) ([]repository.Group, error) {
	v, err := b.exec(func() (any, error) { return b.next.UserGroups(ctx, userID) })
	if err != nil {
		return nil, err
	}
	return v.([]repository.Group), nil
}

func (b *BreakerGroups) AddMember(ctx context.Context, userID, group string) error {
	_, err := b.exec(func() (any, error) { return nil, b.next.AddMember(ctx, userID, group) })
	return err
}

func (b *BreakerGroups) RemoveMember(ctx context.Context, userID, group string) error {
	_, err := b.exec(func() (any, error) { return nil, b.next.RemoveMember(ctx, userID, group) })
	return err
}
