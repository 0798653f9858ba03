package controllers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"quickbite-backend/controllers"
	"quickbite-backend/models"
	"quickbite-backend/routes"
	"quickbite-backend/services"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// mockOrderService returns canned responses per call.
type mockOrderService struct {
	order    *models.Order
	tracking []models.OrderTracking
	err      *services.ServiceError
}

func (m *mockOrderService) CreateOrder(_ context.Context, customerID uuid.UUID, _ *models.CreateOrderRequest) (*models.Order, *services.ServiceError) {
	if m.err != nil {
		return nil, m.err
	}
	m.order.CustomerID = customerID
	return m.order, nil
}

func (m *mockOrderService) GetOrder(_ context.Context, _, _ uuid.UUID, _ string) (*models.Order, *services.ServiceError) {
	if m.err != nil {
		return nil, m.err
	}
	return m.order, nil
}

func (m *mockOrderService) ListCustomerOrders(_ context.Context, _ uuid.UUID, _, _ int) ([]models.Order, int64, *services.ServiceError) {
	if m.err != nil {
		return nil, 0, m.err
	}
	return []models.Order{*m.order}, 1, nil
}

func (m *mockOrderService) ListRestaurantOrders(_ context.Context, _, _ uuid.UUID, _, _ string, _, _ int) ([]models.Order, int64, *services.ServiceError) {
	if m.err != nil {
		return nil, 0, m.err
	}
	return []models.Order{*m.order}, 1, nil
}

func (m *mockOrderService) ListPartnerOrders(_ context.Context, _ uuid.UUID, _, _ int) ([]models.Order, int64, *services.ServiceError) {
	if m.err != nil {
		return nil, 0, m.err
	}
	return []models.Order{*m.order}, 1, nil
}

func (m *mockOrderService) Transition(_ context.Context, _, _ uuid.UUID, _ string, req *models.TransitionOrderRequest) (*models.Order, *services.ServiceError) {
	if m.err != nil {
		return nil, m.err
	}
	m.order.Status = req.Status
	return m.order, nil
}

func (m *mockOrderService) GetTracking(_ context.Context, _, _ uuid.UUID, _ string) ([]models.OrderTracking, *services.ServiceError) {
	if m.err != nil {
		return nil, m.err
	}
	return m.tracking, nil
}

func (m *mockOrderService) SetPaymentStatus(_ context.Context, _ uuid.UUID, _, _ string) *services.ServiceError {
	return m.err
}

func (m *mockOrderService) CreateDeliveryReview(_ context.Context, _, _ uuid.UUID, _ *models.CreateDeliveryReviewRequest) (*models.DeliveryReview, *services.ServiceError) {
	if m.err != nil {
		return nil, m.err
	}
	return &models.DeliveryReview{ID: uuid.New()}, nil
}

func newOrderRouter(svc services.OrderService) *gin.Engine {
	r := gin.New()
	routes.RegisterOrderRoutes(r, controllers.NewOrderController(svc))
	return r
}

func authHeader(t *testing.T, userID uuid.UUID, role string) string {
	t.Helper()
	token, err := services.GenerateJWT(userID.String(), "tester", role)
	assert.NoError(t, err)
	return "Bearer " + token
}

func validCreateOrderBody() []byte {
	body, _ := json.Marshal(models.CreateOrderRequest{
		RestaurantID:      uuid.New(),
		DeliveryAddress:   "12 Test Lane",
		DeliveryLatitude:  12.97,
		DeliveryLongitude: 77.59,
		PaymentMethod:     models.PaymentMethodCOD,
		Items: []models.OrderItemRequest{
			{MenuItemID: uuid.New(), Quantity: 1},
		},
	})
	return body
}

func TestOrderController_CreateOrder_NoToken(t *testing.T) {
	r := newOrderRouter(&mockOrderService{})

	req := httptest.NewRequest(http.MethodPost, "/orders", bytes.NewReader(validCreateOrderBody()))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestOrderController_CreateOrder_WrongRole(t *testing.T) {
	r := newOrderRouter(&mockOrderService{})

	req := httptest.NewRequest(http.MethodPost, "/orders", bytes.NewReader(validCreateOrderBody()))
	req.Header.Set("Authorization", authHeader(t, uuid.New(), "restaurant"))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestOrderController_CreateOrder_InvalidBody(t *testing.T) {
	r := newOrderRouter(&mockOrderService{})

	req := httptest.NewRequest(http.MethodPost, "/orders", bytes.NewBufferString(`{"items": []}`))
	req.Header.Set("Authorization", authHeader(t, uuid.New(), "customer"))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid request")
}

func TestOrderController_CreateOrder_Success(t *testing.T) {
	order := &models.Order{ID: uuid.New(), OrderNumber: "ORD-20260830-ABCD1234", Status: models.OrderStatusPending, Total: 31.82}
	r := newOrderRouter(&mockOrderService{order: order})

	req := httptest.NewRequest(http.MethodPost, "/orders", bytes.NewReader(validCreateOrderBody()))
	req.Header.Set("Authorization", authHeader(t, uuid.New(), "customer"))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), order.OrderNumber)
}

func TestOrderController_GetOrder_BadID(t *testing.T) {
	r := newOrderRouter(&mockOrderService{})

	req := httptest.NewRequest(http.MethodGet, "/orders/not-a-uuid", nil)
	req.Header.Set("Authorization", authHeader(t, uuid.New(), "customer"))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestOrderController_TransitionOrder_ServiceErrorMapped(t *testing.T) {
	svc := &mockOrderService{err: &services.ServiceError{
		StatusCode: http.StatusConflict,
		Kind:       services.KindInvalidTransition,
		Message:    "Cannot move order from delivered to preparing",
	}}
	r := newOrderRouter(svc)

	body := []byte(`{"status": "preparing"}`)
	req := httptest.NewRequest(http.MethodPut, fmt.Sprintf("/orders/%s/status", uuid.New()), bytes.NewReader(body))
	req.Header.Set("Authorization", authHeader(t, uuid.New(), "restaurant"))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), services.KindInvalidTransition)
}

func TestOrderController_GetTracking(t *testing.T) {
	svc := &mockOrderService{tracking: []models.OrderTracking{
		{ID: uuid.New(), Status: models.OrderStatusConfirmed},
		{ID: uuid.New(), Status: models.OrderStatusPending},
	}}
	r := newOrderRouter(svc)

	req := httptest.NewRequest(http.MethodGet, fmt.Sprintf("/orders/%s/tracking", uuid.New()), nil)
	req.Header.Set("Authorization", authHeader(t, uuid.New(), "customer"))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Tracking []models.OrderTracking `json:"tracking"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Tracking, 2)
}
