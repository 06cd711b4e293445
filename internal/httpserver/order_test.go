package httpserver

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/avelkov/eshop-api/internal/models"
	"github.com/avelkov/eshop-api/internal/transport"
)

func TestCreateOrderComputesTotalAtCreationTime(t *testing.T) {
	env := newTestEnv(t)

	category := env.createCategory("electronics")
	p1 := env.createProduct("widget", 10, category)
	p2 := env.createProduct("gadget", 5, category)

	user := &models.User{Name: "Eve", Email: "eve@example.com", PasswordHash: "x"}
	require.NoError(t, env.DB.Create(user).Error)

	payload := transport.CreateOrderRequest{
		OrderItems: []transport.OrderItemRequest{
			{Product: p1.ID, Quantity: 2},
			{Product: p2.ID, Quantity: 1},
		},
		ShippingAddress1: "1 Main St",
		City:             "Lisbon",
		Zip:              "1000-001",
		Country:          "PT",
		Phone:            "+351000000000",
		User:             user.ID,
	}

	rec, c := env.doJSONRequest(http.MethodPost, "/orders", payload)
	require.NoError(t, env.Orders.CreateOrder(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	var order models.Order
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &order))
	require.Equal(t, float64(25), order.TotalPrice)
	require.Len(t, order.OrderItems, 2)
	require.Equal(t, "Pending", order.Status)

	var itemCount int64
	require.NoError(t, env.DB.Model(&models.OrderItem{}).Count(&itemCount).Error)
	require.Equal(t, int64(2), itemCount)

	// Raising a product price must not change the stored total.
	require.NoError(t, env.DB.Model(&models.Product{}).Where("id = ?", p1.ID).Update("price", 100).Error)

	var stored models.Order
	require.NoError(t, env.DB.Where("id = ?", order.ID).First(&stored).Error)
	require.Equal(t, float64(25), stored.TotalPrice)
}

func TestCreateOrderUnknownProduct(t *testing.T) {
	env := newTestEnv(t)

	payload := transport.CreateOrderRequest{
		OrderItems: []transport.OrderItemRequest{
			{Product: uuid.New(), Quantity: 1},
		},
		User: uuid.New(),
	}

	_, c := env.doJSONRequest(http.MethodPost, "/orders", payload)
	err := env.Orders.CreateOrder(c)
	require.Error(t, err)

	// No order record is written when the fan-out aborts.
	var orderCount int64
	require.NoError(t, env.DB.Model(&models.Order{}).Count(&orderCount).Error)
	require.Equal(t, int64(0), orderCount)
}

func TestCreateOrderRejectsEmptyAndInvalidItems(t *testing.T) {
	env := newTestEnv(t)

	_, c := env.doJSONRequest(http.MethodPost, "/orders", transport.CreateOrderRequest{})
	require.Error(t, env.Orders.CreateOrder(c))

	category := env.createCategory("books")
	p := env.createProduct("novel", 12, category)

	_, c = env.doJSONRequest(http.MethodPost, "/orders", transport.CreateOrderRequest{
		OrderItems: []transport.OrderItemRequest{{Product: p.ID, Quantity: 0}},
	})
	require.Error(t, env.Orders.CreateOrder(c))
}

func TestDeleteOrderCascadesToItems(t *testing.T) {
	env := newTestEnv(t)

	category := env.createCategory("garden")
	p1 := env.createProduct("rake", 7, category)
	p2 := env.createProduct("hose", 3, category)

	payload := transport.CreateOrderRequest{
		OrderItems: []transport.OrderItemRequest{
			{Product: p1.ID, Quantity: 1},
			{Product: p2.ID, Quantity: 4},
		},
		User: uuid.New(),
	}
	rec, c := env.doJSONRequest(http.MethodPost, "/orders", payload)
	require.NoError(t, env.Orders.CreateOrder(c))

	var order models.Order
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &order))
	require.Len(t, order.OrderItems, 2)

	rec, c = env.doJSONRequest(http.MethodDelete, "/orders/"+order.ID.String(), nil)
	c.SetParamNames("id")
	c.SetParamValues(order.ID.String())
	require.NoError(t, env.Orders.DeleteOrder(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp transport.Envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.True(t, resp.Success)

	var itemCount int64
	require.NoError(t, env.DB.Model(&models.OrderItem{}).Count(&itemCount).Error)
	require.Equal(t, int64(0), itemCount)

	for _, item := range order.OrderItems {
		var n int64
		require.NoError(t, env.DB.Model(&models.OrderItem{}).Where("id = ?", item.ID).Count(&n).Error)
		require.Equal(t, int64(0), n)
	}
}

func TestDeleteOrderNotFound(t *testing.T) {
	env := newTestEnv(t)

	rec, c := env.doJSONRequest(http.MethodDelete, "/orders/"+uuid.NewString(), nil)
	c.SetParamNames("id")
	c.SetParamValues(uuid.NewString())
	require.NoError(t, env.Orders.DeleteOrder(c))
	require.Equal(t, http.StatusNotFound, rec.Code)

	var resp transport.Envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.False(t, resp.Success)
}

func TestTotalSalesAndCountOnEmptyStore(t *testing.T) {
	env := newTestEnv(t)

	rec, c := env.doJSONRequest(http.MethodGet, "/orders/get/totalsales", nil)
	require.NoError(t, env.Orders.GetTotalSales(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var sales map[string]float64
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &sales))
	require.Equal(t, float64(0), sales["totalSales"])

	rec, c = env.doJSONRequest(http.MethodGet, "/orders/get/count", nil)
	require.NoError(t, env.Orders.GetOrderCount(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var count map[string]int64
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &count))
	require.Equal(t, int64(0), count["orderCount"])
}

func TestTotalSalesSumsOrders(t *testing.T) {
	env := newTestEnv(t)

	category := env.createCategory("music")
	p := env.createProduct("record", 20, category)

	for _, qty := range []int{1, 3} {
		payload := transport.CreateOrderRequest{
			OrderItems: []transport.OrderItemRequest{{Product: p.ID, Quantity: qty}},
			User:       uuid.New(),
		}
		_, c := env.doJSONRequest(http.MethodPost, "/orders", payload)
		require.NoError(t, env.Orders.CreateOrder(c))
	}

	rec, c := env.doJSONRequest(http.MethodGet, "/orders/get/totalsales", nil)
	require.NoError(t, env.Orders.GetTotalSales(c))

	var sales map[string]float64
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &sales))
	require.Equal(t, float64(80), sales["totalSales"])
}

func TestGetUserOrders(t *testing.T) {
	env := newTestEnv(t)

	category := env.createCategory("toys")
	p := env.createProduct("ball", 2, category)

	userID := uuid.New()
	otherID := uuid.New()

	for _, uid := range []uuid.UUID{userID, userID, otherID} {
		payload := transport.CreateOrderRequest{
			OrderItems: []transport.OrderItemRequest{{Product: p.ID, Quantity: 1}},
			User:       uid,
		}
		_, c := env.doJSONRequest(http.MethodPost, "/orders", payload)
		require.NoError(t, env.Orders.CreateOrder(c))
	}

	rec, c := env.doJSONRequest(http.MethodGet, "/orders/get/userOrders/"+userID.String(), nil)
	c.SetParamNames("userid")
	c.SetParamValues(userID.String())
	require.NoError(t, env.Orders.GetUserOrders(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var orders []models.Order
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &orders))
	require.Len(t, orders, 2)
	for _, order := range orders {
		require.Len(t, order.OrderItems, 1)
		require.NotNil(t, order.OrderItems[0].Product)
	}
}
