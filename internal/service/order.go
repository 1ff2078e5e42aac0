package service

import (
	"context"

	"github.com/hashicorp/go-hclog"
	"github.com/kahvecikaan/ecommerce-api/internal/domain"
	"github.com/kahvecikaan/ecommerce-api/internal/events"
	"github.com/kahvecikaan/ecommerce-api/internal/repository"
	"github.com/shopspring/decimal"
)

type OrderService interface {
	PlaceOrder(ctx context.Context, actor domain.Principal, req domain.OrderRequest) (*domain.Order, error)
	UpdateItemStatus(ctx context.Context, actor domain.Principal, itemID int64, status string) (*domain.OrderItem, error)
	FilterItems(ctx context.Context, actor domain.Principal, filter domain.OrderItemFilter, page domain.PageRequest) (domain.Page[domain.OrderItem], error)
}

type orderService struct {
	orders   repository.OrderRepository
	products repository.ProductRepository
	tx       Transactor
	eventBus *events.EventBus[any]
	logger   hclog.Logger
}

func NewOrderService(
	orders repository.OrderRepository,
	products repository.ProductRepository,
	tx Transactor,
	eventBus *events.EventBus[any],
	logger hclog.Logger,
) OrderService {
	return &orderService{
		orders:   orders,
		products: products,
		tx:       tx,
		eventBus: eventBus,
		logger:   logger,
	}
}

// PlaceOrder prices every line from the stored product and persists the order
// and its lines atomically. A positive requested total overrides the sum.
func (s *orderService) PlaceOrder(ctx context.Context, actor domain.Principal, req domain.OrderRequest) (*domain.Order, error) {
	if len(req.Items) == 0 {
		return nil, domain.InvalidArgument("Order must contain at least one item")
	}

	order := &domain.Order{}
	err := s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		sum := decimal.Zero
		for _, line := range req.Items {
			if line.Quantity < 1 {
				return domain.InvalidArgument("Quantity must be at least 1")
			}

			product, err := s.products.GetByID(ctx, line.ProductID)
			if err != nil {
				return err
			}
			if !product.Purchasable || !product.Price.Valid {
				return domain.RuleViolation("Product %s is not available for purchase", product.ProductCode)
			}

			price := product.Price.Decimal.Mul(decimal.NewFromInt(int64(line.Quantity)))
			sum = sum.Add(price)
			order.Items = append(order.Items, domain.OrderItem{
				Quantity:  line.Quantity,
				Price:     price,
				Status:    domain.OrderStatusPending,
				UserID:    actor.UserID,
				ProductID: product.ID,
			})
		}

		order.TotalPrice = sum
		if req.TotalPrice != nil && req.TotalPrice.IsPositive() {
			order.TotalPrice = *req.TotalPrice
		}

		return s.orders.Create(ctx, order)
	})
	if err != nil {
		s.logger.Error("Unable to place order", "user", actor.UserID, "error", err)
		return nil, err
	}

	s.logger.Info("Order placed", "id", order.ID, "user", actor.UserID, "items", len(order.Items))
	s.eventBus.Publish(events.OrderPlaced{
		OrderID:    order.ID,
		UserID:     actor.UserID,
		ItemCount:  len(order.Items),
		TotalPrice: order.TotalPrice.StringFixed(2),
	})
	return order, nil
}

func (s *orderService) UpdateItemStatus(ctx context.Context, actor domain.Principal, itemID int64, status string) (*domain.OrderItem, error) {
	if !actor.IsAdmin() {
		return nil, domain.Forbidden("Only administrators can update order status")
	}

	st, err := domain.ParseOrderStatus(status)
	if err != nil {
		return nil, err
	}

	if err := s.orders.UpdateItemStatus(ctx, itemID, st); err != nil {
		return nil, err
	}
	item, err := s.orders.GetItem(ctx, itemID)
	if err != nil {
		return nil, err
	}

	s.eventBus.Publish(events.OrderItemStatusChanged{ItemID: itemID, Status: string(st)})
	return item, nil
}

func (s *orderService) FilterItems(ctx context.Context, actor domain.Principal, filter domain.OrderItemFilter, page domain.PageRequest) (domain.Page[domain.OrderItem], error) {
	if !actor.IsAdmin() {
		return domain.Page[domain.OrderItem]{}, domain.Forbidden("Only administrators can browse orders")
	}

	items, total, err := s.orders.FilterItems(ctx, filter, page)
	if err != nil {
		return domain.Page[domain.OrderItem]{}, err
	}
	if len(items) == 0 {
		return domain.Page[domain.OrderItem]{}, domain.NotFound("No Order Found")
	}
	return domain.NewPage(items, total, page), nil
}
