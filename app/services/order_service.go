package services

import (
	"context"
	"errors"

	"github.com/shashiranjanraj/devburger/app/models"
	"github.com/shashiranjanraj/devburger/app/repositories"
	"github.com/shashiranjanraj/devburger/app/resources"
	"github.com/shashiranjanraj/devburger/pkg/auth"
	"github.com/shashiranjanraj/devburger/pkg/events"
	"github.com/shashiranjanraj/devburger/pkg/logger"
	"github.com/shashiranjanraj/devburger/pkg/metrics"
)

// OrderStore persists orders. UpdateStatus returns
// repositories.ErrOrderNotFound for unknown ids.
type OrderStore interface {
	Create(ctx context.Context, order *models.Order) error
	All(ctx context.Context) ([]models.Order, error)
	UpdateStatus(ctx context.Context, id, status string) error
}

// OrderLine is one requested product. Prices are never taken from the
// client here; the catalog is authoritative.
type OrderLine struct {
	ProductID uint
	Quantity  int64
}

type OrderService struct {
	products *repositories.ProductRepository
	orders   OrderStore
	events   events.Publisher
	baseURL  string
}

func NewOrderService(products *repositories.ProductRepository, orders OrderStore, pub events.Publisher, baseURL string) *OrderService {
	if pub == nil {
		pub = events.Nop{}
	}
	return &OrderService{products: products, orders: orders, events: pub, baseURL: baseURL}
}

// Place snapshots the requested products at their current catalog data.
// Ids missing from the catalog are dropped; if nothing is left the order is
// refused with ErrEmptyOrder. When an id repeats, the first quantity wins.
func (s *OrderService) Place(ctx context.Context, who auth.Identity, lines []OrderLine) (*models.Order, error) {
	quantities := make(map[uint]int64, len(lines))
	ids := make([]uint, 0, len(lines))
	for _, l := range lines {
		if _, seen := quantities[l.ProductID]; seen {
			continue
		}
		quantities[l.ProductID] = l.Quantity
		ids = append(ids, l.ProductID)
	}

	found, err := s.products.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	if len(found) == 0 {
		return nil, ErrEmptyOrder
	}

	snapshot := make([]models.OrderProduct, 0, len(found))
	for _, p := range found {
		category := ""
		if p.Category != nil {
			category = p.Category.Name
		}
		snapshot = append(snapshot, models.OrderProduct{
			ID:       p.ID,
			Name:     p.Name,
			Category: category,
			Price:    p.Price,
			URL:      resources.ImageURL(s.baseURL, resources.ProductFilePrefix, p.Path),
			Quantity: quantities[p.ID],
		})
	}

	order := &models.Order{
		User:     models.OrderUser{ID: who.UserID, Name: who.UserName},
		Products: snapshot,
		Status:   models.OrderStatusPlaced,
	}
	if err := s.orders.Create(ctx, order); err != nil {
		return nil, err
	}

	metrics.OrdersPlaced.Inc()
	s.publish(ctx, events.SubjectOrderPlaced, order)
	return order, nil
}

func (s *OrderService) List(ctx context.Context) ([]models.Order, error) {
	return s.orders.All(ctx)
}

// UpdateStatus sets a new status on an existing order.
func (s *OrderService) UpdateStatus(ctx context.Context, id, status string) error {
	err := s.orders.UpdateStatus(ctx, id, status)
	if errors.Is(err, repositories.ErrOrderNotFound) {
		return ErrOrderNotFound
	}
	if err != nil {
		return err
	}

	metrics.OrderStatusUpdates.Inc()
	s.publish(ctx, events.SubjectOrderStatusUpdated, map[string]string{"id": id, "status": status})
	return nil
}

// publish never fails the request; a lost notification is only logged.
func (s *OrderService) publish(ctx context.Context, subject string, payload any) {
	if err := s.events.Publish(ctx, subject, payload); err != nil {
		logger.WithCtx(ctx).Warn("orders: publish failed", "subject", subject, "error", err)
	}
}
