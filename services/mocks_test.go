package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"ateaze/metrics"
	"ateaze/models"
	"ateaze/payment"
	"ateaze/repository"
)

// fakeProductStore implements repository.ProductStore in memory for tests.
type fakeProductStore struct {
	mu       sync.Mutex
	products map[primitive.ObjectID]*models.Product

	// reserveErr forces ReserveStock to fail for a given product.
	reserveErr map[primitive.ObjectID]error
}

func newFakeProductStore(products ...*models.Product) *fakeProductStore {
	s := &fakeProductStore{
		products:   make(map[primitive.ObjectID]*models.Product),
		reserveErr: make(map[primitive.ObjectID]error),
	}
	for _, p := range products {
		s.products[p.ID] = p
	}
	return s
}

func (s *fakeProductStore) stock(id primitive.ObjectID) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.products[id].Stock
}

func (s *fakeProductStore) FindByID(_ context.Context, id primitive.ObjectID) (*models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.products[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *p
	return &copied, nil
}

func (s *fakeProductStore) List(context.Context, repository.ProductQuery) ([]models.Product, int64, error) {
	return nil, 0, nil
}

func (s *fakeProductStore) ListByVendor(context.Context, primitive.ObjectID, int64, int64) ([]models.Product, int64, error) {
	return nil, 0, nil
}

func (s *fakeProductStore) Insert(_ context.Context, p *models.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products[p.ID] = p
	return nil
}

func (s *fakeProductStore) Update(_ context.Context, p *models.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.products[p.ID]; !ok {
		return repository.ErrNotFound
	}
	s.products[p.ID] = p
	return nil
}

func (s *fakeProductStore) Deactivate(_ context.Context, id primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.products[id]
	if !ok {
		return repository.ErrNotFound
	}
	p.IsActive = false
	return nil
}

func (s *fakeProductStore) ReserveStock(_ context.Context, id primitive.ObjectID, qty int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.reserveErr[id]; err != nil {
		return err
	}
	p, ok := s.products[id]
	if !ok || p.Stock < qty {
		return repository.ErrInsufficientStock
	}
	p.Stock -= qty
	return nil
}

func (s *fakeProductStore) ReleaseStock(_ context.Context, id primitive.ObjectID, qty int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p, ok := s.products[id]; ok {
		p.Stock += qty
	}
	return nil
}

func (s *fakeProductStore) SetRatings(_ context.Context, id primitive.ObjectID, ratings []models.Rating, average float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.products[id]
	if !ok {
		return repository.ErrNotFound
	}
	p.Ratings = ratings
	p.AverageRating = average
	return nil
}

func (s *fakeProductStore) CountActiveByVendor(context.Context, primitive.ObjectID) (int64, error) {
	return 0, nil
}

func (s *fakeProductStore) AverageVendorRating(context.Context, primitive.ObjectID) (float64, error) {
	return 0, nil
}

// fakeOrderStore implements repository.OrderStore in memory for tests.
type fakeOrderStore struct {
	mu        sync.Mutex
	orders    map[primitive.ObjectID]*models.Order
	insertErr error
	updateErr error
}

func newFakeOrderStore() *fakeOrderStore {
	return &fakeOrderStore{orders: make(map[primitive.ObjectID]*models.Order)}
}

func (s *fakeOrderStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.orders)
}

func (s *fakeOrderStore) Insert(_ context.Context, o *models.Order) error {
	if s.insertErr != nil {
		return s.insertErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *o
	s.orders[o.ID] = &copied
	return nil
}

func (s *fakeOrderStore) FindByID(_ context.Context, id primitive.ObjectID) (*models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.orders[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *o
	return &copied, nil
}

func (s *fakeOrderStore) FindByGatewayOrderID(_ context.Context, gatewayOrderID string) (*models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, o := range s.orders {
		if o.RazorpayOrderID == gatewayOrderID {
			copied := *o
			return &copied, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (s *fakeOrderStore) Update(_ context.Context, o *models.Order) error {
	if s.updateErr != nil {
		return s.updateErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.orders[o.ID]; !ok {
		return repository.ErrNotFound
	}
	copied := *o
	s.orders[o.ID] = &copied
	return nil
}

func (s *fakeOrderStore) ListByUser(_ context.Context, user primitive.ObjectID) ([]models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Order
	for _, o := range s.orders {
		if o.User == user {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (s *fakeOrderStore) ListByVendor(_ context.Context, vendor primitive.ObjectID, status string, _, _ int64) ([]models.Order, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Order
	for _, o := range s.orders {
		if o.HasVendor(vendor) && (status == "" || string(o.Status) == status) {
			out = append(out, *o)
		}
	}
	return out, int64(len(out)), nil
}

func (s *fakeOrderStore) ListAll(context.Context) ([]models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Order
	for _, o := range s.orders {
		out = append(out, *o)
	}
	return out, nil
}

func (s *fakeOrderStore) CountByVendor(context.Context, primitive.ObjectID) (int64, error) {
	return 0, nil
}

func (s *fakeOrderStore) VendorRevenue(context.Context, primitive.ObjectID) (float64, error) {
	return 0, nil
}

// fakeGateway implements payment.Gateway for tests.
type fakeGateway struct {
	err     error
	created []*payment.GatewayOrder
}

func (g *fakeGateway) CreateOrder(_ context.Context, amount int64, currency, receipt string) (*payment.GatewayOrder, error) {
	if g.err != nil {
		return nil, g.err
	}
	order := &payment.GatewayOrder{
		ID:       fmt.Sprintf("order_fake%d", len(g.created)+1),
		Amount:   amount,
		Currency: currency,
		Receipt:  receipt,
		Status:   "created",
	}
	g.created = append(g.created, order)
	return order, nil
}

const testGatewaySecret = "test_secret"

func newTestOrderService(orders repository.OrderStore, products repository.ProductStore, gw payment.Gateway) *OrderService {
	m := metrics.New(prometheus.NewRegistry())
	return NewOrderService(orders, products, gw, testGatewaySecret, zap.NewNop(), m)
}
