package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/bookhaven/bookstore-api/internal/domains/orders/domain"
	"github.com/bookhaven/bookstore-api/internal/domains/orders/ports"
)

// Service orchestrates order use cases. Status transitions run exclusively
// through UpdateOrderStatus; no other code path writes Status, IsDelivered,
// or DeliveredAt.
type Service struct {
	repo    ports.Repository
	catalog ports.Catalog
	events  ports.EventPublisher
	logger  *slog.Logger
	now     func() time.Time
	newID   func() string
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithEventPublisher(events ports.EventPublisher) Option {
	return func(s *Service) {
		if events != nil {
			s.events = events
		}
	}
}

// WithClock overrides the time source, used by tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithIDGenerator overrides order id generation, used by tests.
func WithIDGenerator(newID func() string) Option {
	return func(s *Service) {
		if newID != nil {
			s.newID = newID
		}
	}
}

func NewService(repo ports.Repository, catalog ports.Catalog, opts ...Option) *Service {
	s := &Service{
		repo:    repo,
		catalog: catalog,
		events:  ports.NopEventPublisher,
		now:     time.Now,
		newID:   uuid.NewString,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// PlaceOrder reserves stock for each line, snapshots titles and prices, and
// persists a new pending order.
func (s *Service) PlaceOrder(ctx context.Context, userID string, lines []ports.LineInput) (*domain.Order, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, mapError(domain.ErrEmptyUserID)
	}
	if len(lines) == 0 {
		return nil, mapError(domain.ErrNoItems)
	}
	for _, line := range lines {
		if line.Quantity <= 0 {
			return nil, mapError(domain.ErrInvalidQuantity)
		}
	}
	items := make([]domain.OrderItem, 0, len(lines))
	reserved := make([]ports.LineInput, 0, len(lines))
	for _, line := range lines {
		snapshot, err := s.catalog.Reserve(ctx, line.BookID, line.Quantity)
		if err != nil {
			s.releaseReserved(ctx, reserved)
			return nil, mapError(err)
		}
		reserved = append(reserved, line)
		items = append(items, domain.OrderItem{
			BookID:         snapshot.BookID,
			Title:          snapshot.Title,
			Quantity:       line.Quantity,
			UnitPriceCents: snapshot.UnitPriceCents,
		})
	}
	order, err := domain.NewOrder(s.newID(), userID, items)
	if err != nil {
		s.releaseReserved(ctx, reserved)
		return nil, mapError(err)
	}
	saved, err := s.repo.Save(ctx, order)
	if err != nil {
		s.releaseReserved(ctx, reserved)
		return nil, fmt.Errorf("%w: %w", ErrPersistence, err)
	}
	return saved, nil
}

// releaseReserved returns stock already taken by a checkout that cannot
// complete. Release failures are logged; the caller's error stands either way.
func (s *Service) releaseReserved(ctx context.Context, reserved []ports.LineInput) {
	for _, line := range reserved {
		if err := s.catalog.Release(ctx, line.BookID, line.Quantity); err != nil {
			s.logWarn(ctx, "failed to release reserved stock", err,
				slog.String("book.id", line.BookID),
				slog.Int("quantity", int(line.Quantity)))
		}
	}
}

func (s *Service) GetOrderByID(ctx context.Context, id string) (*domain.Order, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) ListOrdersForUser(ctx context.Context, userID string) ([]*domain.Order, error) {
	return s.repo.ListByUser(ctx, userID)
}

func (s *Service) ListOrders(ctx context.Context) ([]*domain.Order, error) {
	return s.repo.List(ctx)
}

// UpdateOrderStatus normalizes and validates the candidate status, loads the
// order, applies the transition with its delivery side effects, and persists
// with a version-conditional write. On success it emits one audit log entry
// and a best-effort status-changed event.
func (s *Service) UpdateOrderStatus(ctx context.Context, input ports.StatusUpdateInput) (*domain.Order, error) {
	status, err := domain.ParseStatus(input.Status)
	if err != nil {
		return nil, mapError(err)
	}
	order, err := s.repo.GetByID(ctx, input.OrderID)
	if err != nil {
		return nil, err
	}
	previous := order.Status
	if err := order.ApplyStatus(status, s.now()); err != nil {
		return nil, mapError(err)
	}
	updated, err := s.repo.Save(ctx, order)
	if err != nil {
		if errors.Is(err, ports.ErrVersionConflict) || errors.Is(err, ports.ErrNotFound) {
			return nil, err
		}
		s.logError(ctx, "order status update failed to persist", err,
			slog.String("order.id", input.OrderID),
			slog.String("status.requested", string(status)))
		return nil, fmt.Errorf("%w: %w", ErrPersistence, err)
	}
	s.logInfo(ctx, "order status updated",
		slog.String("order.id", updated.ID),
		slog.String("status.previous", string(previous)),
		slog.String("status.new", string(updated.Status)),
		slog.String("admin.id", input.ActorID))
	event := ports.StatusChangedEvent{
		OrderID:        updated.ID,
		PreviousStatus: previous,
		NewStatus:      updated.Status,
		ActorID:        input.ActorID,
		OccurredAt:     s.now(),
	}
	if err := s.events.PublishStatusChanged(ctx, event); err != nil {
		// Event delivery is best effort; the transition is already durable.
		s.logWarn(ctx, "failed to publish status-changed event", err,
			slog.String("order.id", updated.ID))
	}
	return updated, nil
}

func (s *Service) logInfo(ctx context.Context, msg string, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	s.logger.LogAttrs(ctx, slog.LevelInfo, msg, attrs...)
}

func (s *Service) logWarn(ctx context.Context, msg string, err error, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	if err != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
	}
	s.logger.LogAttrs(ctx, slog.LevelWarn, msg, attrs...)
}

func (s *Service) logError(ctx context.Context, msg string, err error, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	if err != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
	}
	s.logger.LogAttrs(ctx, slog.LevelError, msg, attrs...)
}

var _ ports.Service = (*Service)(nil)
