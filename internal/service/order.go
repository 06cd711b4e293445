package service

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/avelkov/eshop-api/internal/models"
	"github.com/avelkov/eshop-api/internal/payment"
	"github.com/avelkov/eshop-api/internal/repo"
	"github.com/avelkov/eshop-api/internal/transport"
)

type OrderService struct {
	Repo     *repo.GormRepo
	Checkout payment.CheckoutClient
}

func (s *OrderService) List(ctx context.Context) ([]models.Order, error) {
	return s.Repo.ListOrders(ctx)
}

func (s *OrderService) Get(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	return s.Repo.GetOrder(ctx, id)
}

func (s *OrderService) ListUserOrders(ctx context.Context, userID uuid.UUID) ([]models.Order, error) {
	return s.Repo.ListUserOrders(ctx, userID)
}

// Create runs the order workflow: the line items are persisted and priced
// concurrently, the first failure aborts the whole fan-out, and the order is
// written last with the summed total. Items persisted before an aborted
// order write stay in storage; there is no compensating delete.
func (s *OrderService) Create(ctx context.Context, req transport.CreateOrderRequest) (*models.Order, error) {
	if len(req.OrderItems) == 0 {
		return nil, fmt.Errorf("%w: orderItems required", ErrValidation)
	}
	for _, item := range req.OrderItems {
		if item.Product == uuid.Nil {
			return nil, fmt.Errorf("%w: product required", ErrValidation)
		}
		if item.Quantity <= 0 {
			return nil, fmt.Errorf("%w: quantity must be > 0", ErrValidation)
		}
	}

	itemIDs := make([]uuid.UUID, len(req.OrderItems))
	lineTotals := make([]float64, len(req.OrderItems))

	g, gctx := errgroup.WithContext(ctx)
	for i, reqItem := range req.OrderItems {
		g.Go(func() error {
			item := &models.OrderItem{
				Quantity:  reqItem.Quantity,
				ProductID: reqItem.Product,
			}
			if _, err := s.Repo.CreateOrderItem(gctx, item); err != nil {
				return err
			}

			product, err := s.Repo.GetProduct(gctx, reqItem.Product)
			if err != nil {
				if errors.Is(err, ErrNotFound) {
					return fmt.Errorf("%w: product %s not found", ErrValidation, reqItem.Product)
				}
				return err
			}

			itemIDs[i] = item.ID
			lineTotals[i] = product.Price * float64(reqItem.Quantity)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var totalPrice float64
	for _, t := range lineTotals {
		totalPrice += t
	}

	status := req.Status
	if status == "" {
		status = "Pending"
	}

	order := &models.Order{
		ShippingAddress1: req.ShippingAddress1,
		ShippingAddress2: req.ShippingAddress2,
		City:             req.City,
		Zip:              req.Zip,
		Country:          req.Country,
		Phone:            req.Phone,
		Status:           status,
		TotalPrice:       totalPrice,
		UserID:           req.User,
	}
	return s.Repo.CreateOrder(ctx, order, itemIDs)
}

func (s *OrderService) UpdateStatus(ctx context.Context, id uuid.UUID, status string) (*models.Order, error) {
	if status == "" {
		return nil, fmt.Errorf("%w: status required", ErrValidation)
	}
	order, err := s.Repo.GetOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	order.Status = status
	if _, err := s.Repo.SaveOrder(ctx, order); err != nil {
		return nil, err
	}
	return order, nil
}

// Delete removes the order and every owned item. Sub-delete failures are
// aggregated and fail the whole operation instead of being dropped.
func (s *OrderService) Delete(ctx context.Context, id uuid.UUID) error {
	order, err := s.Repo.GetOrder(ctx, id)
	if err != nil {
		return err
	}

	var itemErrs []error
	for _, item := range order.OrderItems {
		if err := s.Repo.DeleteOrderItem(ctx, item.ID); err != nil {
			itemErrs = append(itemErrs, fmt.Errorf("order item %s: %w", item.ID, err))
		}
	}
	if len(itemErrs) > 0 {
		return errors.Join(itemErrs...)
	}

	return s.Repo.DeleteOrder(ctx, id)
}

// CreateCheckoutSession prices the cart against current product prices and
// asks the payment gateway for a hosted session. No order record is written.
func (s *OrderService) CreateCheckoutSession(ctx context.Context, items []transport.CheckoutItem) (string, error) {
	if len(items) == 0 {
		return "", fmt.Errorf("%w: checkout session can not be created, check the order items", ErrValidation)
	}
	if s.Checkout == nil {
		return "", fmt.Errorf("%w: payment gateway not configured", ErrUpstream)
	}

	lineItems := make([]payment.LineItem, 0, len(items))
	for _, item := range items {
		if item.Quantity <= 0 {
			return "", fmt.Errorf("%w: quantity must be > 0", ErrValidation)
		}
		product, err := s.Repo.GetProduct(ctx, item.Product)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				return "", fmt.Errorf("%w: product %s not found", ErrValidation, item.Product)
			}
			return "", err
		}
		lineItems = append(lineItems, payment.LineItem{
			Name:       product.Name,
			UnitAmount: int64(math.Round(product.Price * 100)),
			Quantity:   int64(item.Quantity),
		})
	}

	sessionID, err := s.Checkout.CreateCheckoutSession(ctx, lineItems)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	return sessionID, nil
}

func (s *OrderService) TotalSales(ctx context.Context) (float64, error) {
	return s.Repo.TotalSales(ctx)
}

func (s *OrderService) Count(ctx context.Context) (int64, error) {
	return s.Repo.CountOrders(ctx)
}
