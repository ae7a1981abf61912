package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"ateaze/models"
	"ateaze/payment"
)

func activeProduct(name string, price float64, stock int) *models.Product {
	return &models.Product{
		ID:       primitive.NewObjectID(),
		Name:     name,
		Price:    price,
		Stock:    stock,
		Vendor:   primitive.NewObjectID(),
		IsActive: true,
	}
}

func testAddress() models.ShippingAddress {
	return models.ShippingAddress{
		Street:  "12 Potter Lane",
		City:    "Pune",
		State:   "Maharashtra",
		Country: "India",
		ZipCode: "411001",
	}
}

func TestCreateOrder_HappyPath(t *testing.T) {
	p1 := activeProduct("Clay Vase", 10.00, 5)
	products := newFakeProductStore(p1)
	orders := newFakeOrderStore()
	gw := &fakeGateway{}
	svc := newTestOrderService(orders, products, gw)

	user := primitive.NewObjectID()
	items := []OrderItemInput{{ProductID: p1.ID.Hex(), Quantity: 2}}

	order, gatewayOrder, err := svc.CreateOrder(context.Background(), user, items, testAddress())

	require.NoError(t, err)
	require.NotNil(t, order)
	require.NotNil(t, gatewayOrder)

	assert.Equal(t, 20.00, order.TotalAmount)
	assert.Equal(t, models.OrderStatusPending, order.Status)
	assert.Equal(t, user, order.User)
	assert.Equal(t, gatewayOrder.ID, order.RazorpayOrderID)

	require.Len(t, order.Items, 1)
	assert.Equal(t, p1.ID, order.Items[0].Product)
	assert.Equal(t, 2, order.Items[0].Quantity)
	assert.Equal(t, 10.00, order.Items[0].Price)
	assert.Equal(t, p1.Vendor, order.Items[0].Vendor)

	assert.Equal(t, int64(2000), gatewayOrder.Amount)
	assert.Equal(t, "INR", gatewayOrder.Currency)
	assert.Contains(t, gatewayOrder.Receipt, "receipt_order_")

	assert.Equal(t, 3, products.stock(p1.ID))
	assert.Equal(t, 1, orders.count())
}

func TestCreateOrder_SnapshotsPriceAtCreation(t *testing.T) {
	p1 := activeProduct("Woven Basket", 25.50, 10)
	products := newFakeProductStore(p1)
	orders := newFakeOrderStore()
	svc := newTestOrderService(orders, products, &fakeGateway{})

	order, _, err := svc.CreateOrder(context.Background(), primitive.NewObjectID(),
		[]OrderItemInput{{ProductID: p1.ID.Hex(), Quantity: 3}}, testAddress())
	require.NoError(t, err)

	// A later price change must not affect the captured line item.
	p1.Price = 99.99
	assert.Equal(t, 25.50, order.Items[0].Price)
	assert.Equal(t, 76.50, order.TotalAmount)
}

func TestCreateOrder_EmptyItems(t *testing.T) {
	svc := newTestOrderService(newFakeOrderStore(), newFakeProductStore(), &fakeGateway{})

	_, _, err := svc.CreateOrder(context.Background(), primitive.NewObjectID(), nil, testAddress())

	assert.ErrorIs(t, err, ErrEmptyOrder)
}

func TestCreateOrder_InvalidQuantity(t *testing.T) {
	p1 := activeProduct("Candle", 5.00, 5)
	products := newFakeProductStore(p1)
	orders := newFakeOrderStore()
	svc := newTestOrderService(orders, products, &fakeGateway{})

	_, _, err := svc.CreateOrder(context.Background(), primitive.NewObjectID(),
		[]OrderItemInput{{ProductID: p1.ID.Hex(), Quantity: 0}}, testAddress())

	var itemErr *ItemError
	require.ErrorAs(t, err, &itemErr)
	assert.Equal(t, 0, orders.count())
	assert.Equal(t, 5, products.stock(p1.ID))
}

func TestCreateOrder_ProductNotFound(t *testing.T) {
	products := newFakeProductStore()
	orders := newFakeOrderStore()
	svc := newTestOrderService(orders, products, &fakeGateway{})

	missing := primitive.NewObjectID()
	_, _, err := svc.CreateOrder(context.Background(), primitive.NewObjectID(),
		[]OrderItemInput{{ProductID: missing.Hex(), Quantity: 1}}, testAddress())

	var itemErr *ItemError
	require.ErrorAs(t, err, &itemErr)
	assert.Equal(t, missing.Hex(), itemErr.ProductID)
	assert.Contains(t, itemErr.Error(), "not found or is inactive")
	assert.Equal(t, 0, orders.count())
}

func TestCreateOrder_InactiveProduct(t *testing.T) {
	p1 := activeProduct("Retired Print", 15.00, 5)
	p1.IsActive = false
	products := newFakeProductStore(p1)
	orders := newFakeOrderStore()
	svc := newTestOrderService(orders, products, &fakeGateway{})

	_, _, err := svc.CreateOrder(context.Background(), primitive.NewObjectID(),
		[]OrderItemInput{{ProductID: p1.ID.Hex(), Quantity: 1}}, testAddress())

	var itemErr *ItemError
	require.ErrorAs(t, err, &itemErr)
	assert.Contains(t, itemErr.Error(), "not found or is inactive")
	assert.Equal(t, 0, orders.count())
	assert.Equal(t, 5, products.stock(p1.ID))
}

func TestCreateOrder_InsufficientStock(t *testing.T) {
	p1 := activeProduct("Silver Ring", 50.00, 1)
	products := newFakeProductStore(p1)
	orders := newFakeOrderStore()
	svc := newTestOrderService(orders, products, &fakeGateway{})

	_, _, err := svc.CreateOrder(context.Background(), primitive.NewObjectID(),
		[]OrderItemInput{{ProductID: p1.ID.Hex(), Quantity: 2}}, testAddress())

	var itemErr *ItemError
	require.ErrorAs(t, err, &itemErr)
	assert.Contains(t, itemErr.Error(), "Insufficient stock for Silver Ring")
	assert.Equal(t, 0, orders.count())
	assert.Equal(t, 1, products.stock(p1.ID))
}

func TestCreateOrder_RejectsWholeOrderOnOneBadItem(t *testing.T) {
	good := activeProduct("Good Mug", 8.00, 10)
	bad := activeProduct("Scarce Scarf", 30.00, 1)
	products := newFakeProductStore(good, bad)
	orders := newFakeOrderStore()
	svc := newTestOrderService(orders, products, &fakeGateway{})

	_, _, err := svc.CreateOrder(context.Background(), primitive.NewObjectID(),
		[]OrderItemInput{
			{ProductID: good.ID.Hex(), Quantity: 2},
			{ProductID: bad.ID.Hex(), Quantity: 5},
		}, testAddress())

	require.Error(t, err)
	assert.Equal(t, 0, orders.count())
	assert.Equal(t, 10, products.stock(good.ID))
	assert.Equal(t, 1, products.stock(bad.ID))
}

func TestCreateOrder_GatewayFailureReleasesStock(t *testing.T) {
	p1 := activeProduct("Oak Bowl", 40.00, 5)
	products := newFakeProductStore(p1)
	orders := newFakeOrderStore()
	gw := &fakeGateway{err: errors.New("gateway unreachable")}
	svc := newTestOrderService(orders, products, gw)

	_, _, err := svc.CreateOrder(context.Background(), primitive.NewObjectID(),
		[]OrderItemInput{{ProductID: p1.ID.Hex(), Quantity: 2}}, testAddress())

	require.Error(t, err)
	assert.Equal(t, 0, orders.count())
	assert.Equal(t, 5, products.stock(p1.ID))
}

func TestCreateOrder_PersistFailureReleasesStock(t *testing.T) {
	p1 := activeProduct("Linen Throw", 60.00, 4)
	products := newFakeProductStore(p1)
	orders := newFakeOrderStore()
	orders.insertErr = errors.New("write failed")
	gw := &fakeGateway{}
	svc := newTestOrderService(orders, products, gw)

	_, _, err := svc.CreateOrder(context.Background(), primitive.NewObjectID(),
		[]OrderItemInput{{ProductID: p1.ID.Hex(), Quantity: 3}}, testAddress())

	require.Error(t, err)
	assert.Equal(t, 0, orders.count())
	assert.Equal(t, 4, products.stock(p1.ID))
	// Gateway order was created before the persist step failed.
	assert.Len(t, gw.created, 1)
}

func TestCreateOrder_PartialReservationRollsBack(t *testing.T) {
	p1 := activeProduct("First", 10.00, 5)
	p2 := activeProduct("Second", 20.00, 5)
	products := newFakeProductStore(p1, p2)
	// Simulate a concurrent order draining p2 between validation and reserve.
	products.reserveErr[p2.ID] = errReserveRace
	orders := newFakeOrderStore()
	svc := newTestOrderService(orders, products, &fakeGateway{})

	_, _, err := svc.CreateOrder(context.Background(), primitive.NewObjectID(),
		[]OrderItemInput{
			{ProductID: p1.ID.Hex(), Quantity: 2},
			{ProductID: p2.ID.Hex(), Quantity: 2},
		}, testAddress())

	require.Error(t, err)
	assert.Equal(t, 0, orders.count())
	assert.Equal(t, 5, products.stock(p1.ID))
	assert.Equal(t, 5, products.stock(p2.ID))
}

var errReserveRace = errors.New("simulated reservation failure")

func createPendingOrder(t *testing.T, svc *OrderService, products *fakeProductStore, p *models.Product) (*models.Order, *payment.GatewayOrder) {
	t.Helper()
	order, gatewayOrder, err := svc.CreateOrder(context.Background(), primitive.NewObjectID(),
		[]OrderItemInput{{ProductID: p.ID.Hex(), Quantity: 1}}, testAddress())
	require.NoError(t, err)
	return order, gatewayOrder
}

func TestVerifyPayment_Success(t *testing.T) {
	p1 := activeProduct("Brass Lamp", 120.00, 3)
	products := newFakeProductStore(p1)
	orders := newFakeOrderStore()
	svc := newTestOrderService(orders, products, &fakeGateway{})
	_, gatewayOrder := createPendingOrder(t, svc, products, p1)

	sig := payment.Sign(gatewayOrder.ID, "pay_123", testGatewaySecret)
	verified, err := svc.VerifyPayment(context.Background(), gatewayOrder.ID, "pay_123", sig)

	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusProcessing, verified.Status)
	assert.Equal(t, "pay_123", verified.RazorpayPaymentID)
	assert.Equal(t, sig, verified.RazorpaySignature)
	assert.Equal(t, "pay_123", verified.PaymentInfo.ID)
	assert.Equal(t, "completed", verified.PaymentInfo.Status)
	assert.Equal(t, "razorpay", verified.PaymentInfo.Type)

	stored, err := orders.FindByID(context.Background(), verified.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusProcessing, stored.Status)
}

func TestVerifyPayment_BadSignatureLeavesOrderUntouched(t *testing.T) {
	p1 := activeProduct("Brass Lamp", 120.00, 3)
	products := newFakeProductStore(p1)
	orders := newFakeOrderStore()
	svc := newTestOrderService(orders, products, &fakeGateway{})
	order, gatewayOrder := createPendingOrder(t, svc, products, p1)

	_, err := svc.VerifyPayment(context.Background(), gatewayOrder.ID, "pay_123", "forged")

	assert.ErrorIs(t, err, ErrVerificationFailed)

	stored, findErr := orders.FindByID(context.Background(), order.ID)
	require.NoError(t, findErr)
	assert.Equal(t, models.OrderStatusPending, stored.Status)
	assert.Empty(t, stored.RazorpayPaymentID)
	assert.Empty(t, stored.PaymentInfo.ID)
}

func TestVerifyPayment_UnknownOrder(t *testing.T) {
	svc := newTestOrderService(newFakeOrderStore(), newFakeProductStore(), &fakeGateway{})

	_, err := svc.VerifyPayment(context.Background(), "order_missing", "pay_123", "sig")

	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestVerifyPayment_Idempotent(t *testing.T) {
	p1 := activeProduct("Brass Lamp", 120.00, 3)
	products := newFakeProductStore(p1)
	orders := newFakeOrderStore()
	svc := newTestOrderService(orders, products, &fakeGateway{})
	_, gatewayOrder := createPendingOrder(t, svc, products, p1)

	sig := payment.Sign(gatewayOrder.ID, "pay_123", testGatewaySecret)
	first, err := svc.VerifyPayment(context.Background(), gatewayOrder.ID, "pay_123", sig)
	require.NoError(t, err)

	second, err := svc.VerifyPayment(context.Background(), gatewayOrder.ID, "pay_123", sig)
	require.NoError(t, err)

	assert.Equal(t, first.Status, second.Status)
	assert.Equal(t, first.RazorpayPaymentID, second.RazorpayPaymentID)
}

func TestUpdateStatus_LegalTransition(t *testing.T) {
	p1 := activeProduct("Brass Lamp", 120.00, 3)
	products := newFakeProductStore(p1)
	orders := newFakeOrderStore()
	svc := newTestOrderService(orders, products, &fakeGateway{})
	order, _ := createPendingOrder(t, svc, products, p1)

	updated, err := svc.UpdateStatus(context.Background(), order.ID, models.OrderStatusProcessing,
		primitive.NewObjectID(), models.RoleAdmin)

	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusProcessing, updated.Status)
}

func TestUpdateStatus_IllegalTransition(t *testing.T) {
	p1 := activeProduct("Brass Lamp", 120.00, 3)
	products := newFakeProductStore(p1)
	orders := newFakeOrderStore()
	svc := newTestOrderService(orders, products, &fakeGateway{})
	order, _ := createPendingOrder(t, svc, products, p1)

	_, err := svc.UpdateStatus(context.Background(), order.ID, models.OrderStatusDelivered,
		primitive.NewObjectID(), models.RoleAdmin)

	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestUpdateStatus_VendorAuthorization(t *testing.T) {
	p1 := activeProduct("Brass Lamp", 120.00, 3)
	products := newFakeProductStore(p1)
	orders := newFakeOrderStore()
	svc := newTestOrderService(orders, products, &fakeGateway{})
	order, _ := createPendingOrder(t, svc, products, p1)

	_, err := svc.UpdateStatus(context.Background(), order.ID, models.OrderStatusProcessing,
		primitive.NewObjectID(), models.RoleVendor)
	assert.ErrorIs(t, err, ErrNotOrderVendor)

	updated, err := svc.UpdateStatus(context.Background(), order.ID, models.OrderStatusProcessing,
		p1.Vendor, models.RoleVendor)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusProcessing, updated.Status)
}

func TestUpdateStatus_UnknownOrder(t *testing.T) {
	svc := newTestOrderService(newFakeOrderStore(), newFakeProductStore(), &fakeGateway{})

	_, err := svc.UpdateStatus(context.Background(), primitive.NewObjectID(),
		models.OrderStatusProcessing, primitive.NewObjectID(), models.RoleAdmin)

	assert.ErrorIs(t, err, ErrOrderNotFound)
}
