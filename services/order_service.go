package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"ateaze/metrics"
	"ateaze/models"
	"ateaze/payment"
	"ateaze/repository"
)

var (
	ErrEmptyOrder         = errors.New("order must contain at least one item")
	ErrOrderNotFound      = errors.New("order not found")
	ErrVerificationFailed = errors.New("payment verification failed")
	ErrInvalidTransition  = errors.New("invalid status transition")
	ErrNotOrderVendor     = errors.New("not authorized to update this order")
)

// ItemError reports which line item failed validation and why. It carries a
// human-readable reason and produces no side effects.
type ItemError struct {
	ProductID string
	Reason    string
}

func (e *ItemError) Error() string {
	return e.Reason
}

type OrderItemInput struct {
	ProductID string
	Quantity  int
}

// OrderService runs the order-creation saga and payment verification.
type OrderService struct {
	orders        repository.OrderStore
	products      repository.ProductStore
	gateway       payment.Gateway
	gatewaySecret string
	logger        *zap.Logger
	metrics       *metrics.Metrics
}

func NewOrderService(
	orders repository.OrderStore,
	products repository.ProductStore,
	gateway payment.Gateway,
	gatewaySecret string,
	logger *zap.Logger,
	m *metrics.Metrics,
) *OrderService {
	return &OrderService{
		orders:        orders,
		products:      products,
		gateway:       gateway,
		gatewaySecret: gatewaySecret,
		logger:        logger,
		metrics:       m,
	}
}

// compensation is a rollback action for one committed step. Actions are
// pushed as steps commit and unwound in reverse on failure.
type compensation struct {
	step string
	run  func(ctx context.Context) error
}

func (s *OrderService) unwind(comps []compensation) {
	// The request context may already be cancelled; compensation gets its own.
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	for i := len(comps) - 1; i >= 0; i-- {
		if err := comps[i].run(ctx); err != nil {
			s.logger.Error("order_compensation_failed",
				zap.String("step", comps[i].step),
				zap.Error(err),
			)
		}
	}
}

// CreateOrder validates the requested items, snapshots prices, reserves stock
// atomically per item, opens a gateway order and persists the order record.
// Every committed step has a compensating action; on failure the whole
// sequence rolls back and no partial state stays visible.
func (s *OrderService) CreateOrder(
	ctx context.Context,
	user primitive.ObjectID,
	items []OrderItemInput,
	address models.ShippingAddress,
) (*models.Order, *payment.GatewayOrder, error) {
	if len(items) == 0 {
		s.metrics.OrderFailures.WithLabelValues("validation").Inc()
		return nil, nil, ErrEmptyOrder
	}

	var orderItems []models.OrderItem
	var total float64
	for _, item := range items {
		if item.Quantity < 1 {
			s.metrics.OrderFailures.WithLabelValues("validation").Inc()
			return nil, nil, &ItemError{
				ProductID: item.ProductID,
				Reason:    fmt.Sprintf("Quantity for product %s must be at least 1", item.ProductID),
			}
		}

		productID, err := primitive.ObjectIDFromHex(item.ProductID)
		if err != nil {
			s.metrics.OrderFailures.WithLabelValues("validation").Inc()
			return nil, nil, &ItemError{
				ProductID: item.ProductID,
				Reason:    fmt.Sprintf("Invalid product ID %s", item.ProductID),
			}
		}

		product, err := s.products.FindByID(ctx, productID)
		if errors.Is(err, repository.ErrNotFound) {
			s.metrics.OrderFailures.WithLabelValues("validation").Inc()
			return nil, nil, &ItemError{
				ProductID: item.ProductID,
				Reason:    fmt.Sprintf("Product with ID %s not found or is inactive", item.ProductID),
			}
		}
		if err != nil {
			s.metrics.OrderFailures.WithLabelValues("store").Inc()
			return nil, nil, fmt.Errorf("lookup product %s: %w", item.ProductID, err)
		}
		if !product.IsActive {
			s.metrics.OrderFailures.WithLabelValues("validation").Inc()
			return nil, nil, &ItemError{
				ProductID: item.ProductID,
				Reason:    fmt.Sprintf("Product with ID %s not found or is inactive", item.ProductID),
			}
		}
		if product.Stock < item.Quantity {
			s.metrics.OrderFailures.WithLabelValues("stock").Inc()
			return nil, nil, &ItemError{
				ProductID: item.ProductID,
				Reason:    fmt.Sprintf("Insufficient stock for %s", product.Name),
			}
		}

		// Price and vendor are captured here; the client never supplies them.
		total += product.Price * float64(item.Quantity)
		orderItems = append(orderItems, models.OrderItem{
			Product:  product.ID,
			Quantity: item.Quantity,
			Price:    product.Price,
			Vendor:   product.Vendor,
		})
	}

	var comps []compensation

	// Reserve all stock up front with conditional decrements, so two
	// concurrent orders can never both pass the sufficiency check and
	// oversell. All-or-nothing: any failure releases what was reserved.
	for _, item := range orderItems {
		if err := s.products.ReserveStock(ctx, item.Product, item.Quantity); err != nil {
			s.unwind(comps)
			if errors.Is(err, repository.ErrInsufficientStock) {
				s.metrics.OrderFailures.WithLabelValues("stock").Inc()
				return nil, nil, &ItemError{
					ProductID: item.Product.Hex(),
					Reason:    fmt.Sprintf("Insufficient stock for product %s", item.Product.Hex()),
				}
			}
			s.metrics.OrderFailures.WithLabelValues("store").Inc()
			return nil, nil, fmt.Errorf("reserve stock: %w", err)
		}

		reserved := item
		comps = append(comps, compensation{
			step: "release_stock",
			run: func(ctx context.Context) error {
				return s.products.ReleaseStock(ctx, reserved.Product, reserved.Quantity)
			},
		})
	}

	receipt := fmt.Sprintf("receipt_order_%d", time.Now().UnixMilli())
	amount := int64(math.Round(total * 100))
	gatewayOrder, err := s.gateway.CreateOrder(ctx, amount, "INR", receipt)
	if err != nil {
		s.unwind(comps)
		s.metrics.OrderFailures.WithLabelValues("gateway").Inc()
		s.logger.Error("gateway_order_create_failed", zap.Error(err))
		return nil, nil, fmt.Errorf("create gateway order: %w", err)
	}

	order := &models.Order{
		ID:              primitive.NewObjectID(),
		User:            user,
		Items:           orderItems,
		ShippingAddress: address,
		TotalAmount:     total,
		Status:          models.OrderStatusPending,
		RazorpayOrderID: gatewayOrder.ID,
		CreatedAt:       time.Now(),
	}
	if err := s.orders.Insert(ctx, order); err != nil {
		s.unwind(comps)
		s.metrics.OrderFailures.WithLabelValues("store").Inc()
		s.logger.Error("order_insert_failed", zap.Error(err))
		return nil, nil, fmt.Errorf("persist order: %w", err)
	}

	s.metrics.OrdersCreated.Inc()
	s.logger.Info("order_created",
		zap.String("order_id", order.ID.Hex()),
		zap.String("gateway_order_id", gatewayOrder.ID),
		zap.Float64("total", total),
	)
	return order, gatewayOrder, nil
}

// VerifyPayment confirms a payment callback came from the gateway and moves
// the order from pending to processing. The mutation is a pure overwrite, so
// re-verifying the same payload is safe.
func (s *OrderService) VerifyPayment(ctx context.Context, gatewayOrderID, paymentID, signature string) (*models.Order, error) {
	order, err := s.orders.FindByGatewayOrderID(ctx, gatewayOrderID)
	if errors.Is(err, repository.ErrNotFound) {
		s.metrics.PaymentVerifications.WithLabelValues("not_found").Inc()
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("lookup order: %w", err)
	}

	if !payment.VerifySignature(gatewayOrderID, paymentID, signature, s.gatewaySecret) {
		// Generic failure: no hint about which input mismatched.
		s.metrics.PaymentVerifications.WithLabelValues("mismatch").Inc()
		return nil, ErrVerificationFailed
	}

	order.PaymentInfo = models.PaymentInfo{
		ID:     paymentID,
		Status: "completed",
		Type:   "razorpay",
	}
	order.RazorpayPaymentID = paymentID
	order.RazorpaySignature = signature
	if order.Status == models.OrderStatusPending {
		order.Status = models.OrderStatusProcessing
	}

	if err := s.orders.Update(ctx, order); err != nil {
		return nil, fmt.Errorf("persist verified order: %w", err)
	}

	s.metrics.PaymentVerifications.WithLabelValues("verified").Inc()
	s.logger.Info("payment_verified",
		zap.String("order_id", order.ID.Hex()),
		zap.String("gateway_order_id", gatewayOrderID),
	)
	return order, nil
}

var orderStatusTransitions = map[models.OrderStatus][]models.OrderStatus{
	models.OrderStatusPending:    {models.OrderStatusProcessing, models.OrderStatusCancelled},
	models.OrderStatusProcessing: {models.OrderStatusShipped, models.OrderStatusCancelled},
	models.OrderStatusShipped:    {models.OrderStatusDelivered},
	models.OrderStatusDelivered:  {},
	models.OrderStatusCancelled:  {},
}

// UpdateStatus advances an order along the fixed lifecycle. Vendors may only
// touch orders containing at least one of their items; admins may touch any.
func (s *OrderService) UpdateStatus(
	ctx context.Context,
	orderID primitive.ObjectID,
	next models.OrderStatus,
	actor primitive.ObjectID,
	role string,
) (*models.Order, error) {
	order, err := s.orders.FindByID(ctx, orderID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("lookup order: %w", err)
	}

	if role == models.RoleVendor && !order.HasVendor(actor) {
		return nil, ErrNotOrderVendor
	}

	allowed := false
	for _, status := range orderStatusTransitions[order.Status] {
		if status == next {
			allowed = true
			break
		}
	}
	if !allowed {
		return nil, fmt.Errorf("%w: cannot change status from %s to %s", ErrInvalidTransition, order.Status, next)
	}

	order.Status = next
	if err := s.orders.Update(ctx, order); err != nil {
		return nil, fmt.Errorf("persist status update: %w", err)
	}
	return order, nil
}

func (s *OrderService) GetOrder(ctx context.Context, id primitive.ObjectID) (*models.Order, error) {
	order, err := s.orders.FindByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrOrderNotFound
	}
	return order, err
}

func (s *OrderService) ListUserOrders(ctx context.Context, user primitive.ObjectID) ([]models.Order, error) {
	return s.orders.ListByUser(ctx, user)
}

func (s *OrderService) ListVendorOrders(ctx context.Context, vendor primitive.ObjectID, status string, page, limit int64) ([]models.Order, int64, error) {
	return s.orders.ListByVendor(ctx, vendor, status, page, limit)
}

func (s *OrderService) ListAllOrders(ctx context.Context) ([]models.Order, error) {
	return s.orders.ListAll(ctx)
}
