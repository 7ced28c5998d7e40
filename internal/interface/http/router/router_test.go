package router

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm/logger"

	appbook "github.com/xiebiao/readingroom/internal/application/book"
	appcart "github.com/xiebiao/readingroom/internal/application/cart"
	"github.com/xiebiao/readingroom/internal/application/checkout"
	apporder "github.com/xiebiao/readingroom/internal/application/order"
	"github.com/xiebiao/readingroom/internal/domain/book"
	"github.com/xiebiao/readingroom/internal/domain/inventory"
	"github.com/xiebiao/readingroom/internal/domain/payment"
	"github.com/xiebiao/readingroom/internal/infrastructure/messaging"
	"github.com/xiebiao/readingroom/internal/infrastructure/persistence/mysql"
	"github.com/xiebiao/readingroom/internal/infrastructure/persistence/redis"
	"github.com/xiebiao/readingroom/internal/interface/http/handler"
	"github.com/xiebiao/readingroom/internal/interface/http/middleware"
	"github.com/xiebiao/readingroom/pkg/jwt"
)

type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type testServer struct {
	engine *gin.Engine
	jwt    *jwt.Manager
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	log := logrus.New()
	log.SetOutput(io.Discard)

	dsn := filepath.Join(t.TempDir(), "api.db") + "?_busy_timeout=5000&_foreign_keys=on"
	db, err := mysql.Open(sqlite.Open(dsn), log, logger.Silent)
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	bookRepo := mysql.NewBookRepository(db)
	ledger := mysql.NewLedger(db)
	orderRepo := mysql.NewOrderRepository(db)
	carts := redis.NewCartStore(client, time.Hour)
	bookService := book.NewService(bookRepo, ledger)
	engine := inventory.NewEngine(ledger, log, inventory.WithTransactor(mysql.NewTxManager(db)))
	checkoutService := checkout.NewService(carts, ledger, bookRepo, engine, orderRepo,
		payment.NewSimulatedAuthorizer(), messaging.NoopPublisher{}, checkout.Config{Timeout: 5 * time.Second}, log)

	jwtManager := jwt.NewManager("test-secret", "readingroom", time.Hour)
	h := Handlers{
		Book: handler.NewBookHandler(
			appbook.NewPublishBookUseCase(bookService),
			appbook.NewGetBookUseCase(bookService),
			appbook.NewUpdateBookUseCase(bookService),
			appbook.NewRestockUseCase(bookService),
			appbook.NewAdjustStockUseCase(bookService),
			appbook.NewDeleteBookUseCase(bookService),
			appbook.NewListBooksUseCase(bookService),
		),
		Cart: handler.NewCartHandler(
			appcart.NewGetCartUseCase(carts, bookRepo, ledger),
			appcart.NewUpdateItemUseCase(carts, ledger),
			appcart.NewRemoveItemUseCase(carts),
			appcart.NewClearCartUseCase(carts),
		),
		Checkout: handler.NewCheckoutHandler(checkoutService),
		Order: handler.NewOrderHandler(
			apporder.NewListMyOrdersUseCase(orderRepo),
			apporder.NewGetOrderUseCase(orderRepo),
			apporder.NewListAllOrdersUseCase(orderRepo),
			apporder.NewDeleteOrderUseCase(orderRepo),
		),
	}

	r := New(Options{Mode: gin.TestMode, MetricsEnabled: true}, h, middleware.NewAuthMiddleware(jwtManager), log)
	return &testServer{engine: r, jwt: jwtManager}
}

func (s *testServer) token(t *testing.T, userID uint, role string) string {
	t.Helper()
	tok, err := s.jwt.GenerateToken(userID, role)
	require.NoError(t, err)
	return tok
}

func (s *testServer) do(t *testing.T, method, path, token string, body interface{}) (int, envelope) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)

	var env envelope
	if w.Body.Len() > 0 && w.Header().Get("Content-Type") == "application/json; charset=utf-8" {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	}
	return w.Code, env
}

func (s *testServer) publish(t *testing.T, title string, price int64, stock int) uint {
	t.Helper()
	code, env := s.do(t, http.MethodPost, "/api/v1/books", s.token(t, 99, jwt.RoleAdmin), map[string]interface{}{
		"title": title, "author": "author", "price": price, "physical_copies": stock,
	})
	require.Equal(t, http.StatusOK, code, env.Message)
	var view appbook.BookView
	require.NoError(t, json.Unmarshal(env.Data, &view))
	return view.ID
}

func validCard() map[string]string {
	return map[string]string{
		"card_number":      "4111111111111111",
		"card_holder_name": "Reader",
		"expiry_date":      "12/99",
		"cvv":              "123",
	}
}

func TestPingAndMetrics(t *testing.T) {
	s := newTestServer(t)

	code, env := s.do(t, http.MethodGet, "/ping", "", nil)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, 0, env.Code)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAuthAndRoles(t *testing.T) {
	s := newTestServer(t)
	body := map[string]interface{}{"title": "t", "price": 1, "physical_copies": 1}

	code, env := s.do(t, http.MethodPost, "/api/v1/books", "", body)
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, 40100, env.Code)

	code, _ = s.do(t, http.MethodPost, "/api/v1/books", "not-a-jwt", body)
	assert.Equal(t, http.StatusUnauthorized, code)

	code, env = s.do(t, http.MethodPost, "/api/v1/books", s.token(t, 1, jwt.RoleCustomer), body)
	assert.Equal(t, http.StatusForbidden, code)
	assert.Equal(t, 40104, env.Code)

	code, _ = s.do(t, http.MethodGet, "/api/v1/admin/orders", s.token(t, 1, jwt.RoleCustomer), nil)
	assert.Equal(t, http.StatusForbidden, code)
}

func TestCatalogAdmin(t *testing.T) {
	s := newTestServer(t)
	admin := s.token(t, 99, jwt.RoleAdmin)
	id := s.publish(t, "Clean Code", 1000, 1)

	code, env := s.do(t, http.MethodPut, fmt.Sprintf("/api/v1/books/%d", id), admin, map[string]interface{}{"price": 1200})
	require.Equal(t, http.StatusOK, code, env.Message)

	code, env = s.do(t, http.MethodPost, fmt.Sprintf("/api/v1/books/%d/restock", id), admin, map[string]interface{}{"quantity": 4})
	require.Equal(t, http.StatusOK, code, env.Message)

	code, env = s.do(t, http.MethodGet, fmt.Sprintf("/api/v1/books/%d", id), "", nil)
	require.Equal(t, http.StatusOK, code)
	var view appbook.BookView
	require.NoError(t, json.Unmarshal(env.Data, &view))
	assert.Equal(t, int64(1200), view.Price)
	assert.Equal(t, 5, view.PhysicalCopies)

	code, _ = s.do(t, http.MethodGet, "/api/v1/books/9999", "", nil)
	assert.Equal(t, http.StatusNotFound, code)
	code, _ = s.do(t, http.MethodGet, "/api/v1/books/abc", "", nil)
	assert.Equal(t, http.StatusBadRequest, code)

	code, env = s.do(t, http.MethodGet, "/api/v1/books?keyword=Clean&sort_by=price_desc", "", nil)
	require.Equal(t, http.StatusOK, code)
	var list appbook.ListBooksResponse
	require.NoError(t, json.Unmarshal(env.Data, &list))
	assert.Equal(t, int64(1), list.Total)

	// 报损: 5 -> 2
	code, env = s.do(t, http.MethodPut, fmt.Sprintf("/api/v1/books/%d/stock", id), admin, map[string]int{"physical_copies": 2})
	require.Equal(t, http.StatusOK, code, env.Message)
	require.NoError(t, json.Unmarshal(env.Data, &view))
	assert.Equal(t, 2, view.PhysicalCopies)

	code, _ = s.do(t, http.MethodPut, fmt.Sprintf("/api/v1/books/%d/stock", id), admin, map[string]int{})
	assert.Equal(t, http.StatusBadRequest, code)
	code, _ = s.do(t, http.MethodPut, fmt.Sprintf("/api/v1/books/%d/stock", id), admin, map[string]int{"physical_copies": -1})
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = s.do(t, http.MethodDelete, fmt.Sprintf("/api/v1/books/%d", id), s.token(t, 1, jwt.RoleCustomer), nil)
	assert.Equal(t, http.StatusForbidden, code)

	code, env = s.do(t, http.MethodDelete, fmt.Sprintf("/api/v1/books/%d", id), admin, nil)
	require.Equal(t, http.StatusOK, code, env.Message)

	code, _ = s.do(t, http.MethodGet, fmt.Sprintf("/api/v1/books/%d", id), "", nil)
	assert.Equal(t, http.StatusNotFound, code)
	code, _ = s.do(t, http.MethodDelete, fmt.Sprintf("/api/v1/books/%d", id), admin, nil)
	assert.Equal(t, http.StatusNotFound, code)

	code, env = s.do(t, http.MethodGet, "/api/v1/books?keyword=Clean", "", nil)
	require.Equal(t, http.StatusOK, code)
	require.NoError(t, json.Unmarshal(env.Data, &list))
	assert.Equal(t, int64(0), list.Total)
}

func TestCheckoutFlow(t *testing.T) {
	s := newTestServer(t)
	id := s.publish(t, "Go语言圣经", 999, 5)
	buyer := s.token(t, 1, jwt.RoleCustomer)

	code, env := s.do(t, http.MethodPut, fmt.Sprintf("/api/v1/cart/items/%d", id), buyer, map[string]int{"quantity": 6})
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, 40001, env.Code)

	code, env = s.do(t, http.MethodPut, fmt.Sprintf("/api/v1/cart/items/%d", id), buyer, map[string]int{"quantity": 2})
	require.Equal(t, http.StatusOK, code, env.Message)

	code, env = s.do(t, http.MethodGet, "/api/v1/cart", buyer, nil)
	require.Equal(t, http.StatusOK, code)
	var cartView appcart.CartView
	require.NoError(t, json.Unmarshal(env.Data, &cartView))
	assert.Equal(t, int64(1998), cartView.Total)

	code, env = s.do(t, http.MethodPost, "/api/v1/checkout", buyer, validCard())
	require.Equal(t, http.StatusOK, code, env.Message)
	var result struct {
		OrderNo   string `json:"order_no"`
		Total     int64  `json:"total"`
		TotalYuan string `json:"total_yuan"`
		State     string `json:"state"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &result))
	assert.Equal(t, int64(1998), result.Total)
	assert.Equal(t, "19.98", result.TotalYuan)
	assert.Equal(t, "completed", result.State)

	code, env = s.do(t, http.MethodGet, fmt.Sprintf("/api/v1/books/%d", id), "", nil)
	require.Equal(t, http.StatusOK, code)
	var view appbook.BookView
	require.NoError(t, json.Unmarshal(env.Data, &view))
	assert.Equal(t, 3, view.PhysicalCopies)
	assert.Equal(t, 2, view.SoldCopies)

	code, env = s.do(t, http.MethodGet, "/api/v1/orders", buyer, nil)
	require.Equal(t, http.StatusOK, code)
	var mine apporder.ListOrdersResponse
	require.NoError(t, json.Unmarshal(env.Data, &mine))
	require.Len(t, mine.List, 1)
	assert.Equal(t, result.OrderNo, mine.List[0].OrderNo)

	code, _ = s.do(t, http.MethodGet, "/api/v1/orders/"+result.OrderNo, s.token(t, 2, jwt.RoleCustomer), nil)
	assert.Equal(t, http.StatusNotFound, code)

	// 购物车已清空,再次结算视为参数错误
	code, _ = s.do(t, http.MethodPost, "/api/v1/checkout", buyer, validCard())
	assert.Equal(t, http.StatusBadRequest, code)

	admin := s.token(t, 99, jwt.RoleAdmin)
	code, env = s.do(t, http.MethodGet, "/api/v1/admin/orders", admin, nil)
	require.Equal(t, http.StatusOK, code)
	var all apporder.ListOrdersResponse
	require.NoError(t, json.Unmarshal(env.Data, &all))
	require.Len(t, all.List, 1)

	code, _ = s.do(t, http.MethodDelete, fmt.Sprintf("/api/v1/admin/orders/%d", all.List[0].ID), admin, nil)
	assert.Equal(t, http.StatusOK, code)
}

func TestCheckoutAborts(t *testing.T) {
	s := newTestServer(t)
	id := s.publish(t, "Refactoring", 4500, 1)
	buyer := s.token(t, 1, jwt.RoleCustomer)

	code, _ := s.do(t, http.MethodPut, fmt.Sprintf("/api/v1/cart/items/%d", id), buyer, map[string]int{"quantity": 1})
	require.Equal(t, http.StatusOK, code)

	card := validCard()
	card["cvv"] = "12"
	code, env := s.do(t, http.MethodPost, "/api/v1/checkout", buyer, card)
	assert.Equal(t, http.StatusPaymentRequired, code)
	assert.Equal(t, 40200, env.Code)
	var abort struct {
		Reason    string `json:"reason"`
		BookID    uint   `json:"book_id"`
		Retryable bool   `json:"retryable"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &abort))
	assert.Equal(t, "payment_rejected", abort.Reason)

	// 另一位买家先买走最后一本
	other := s.token(t, 2, jwt.RoleCustomer)
	code, _ = s.do(t, http.MethodPut, fmt.Sprintf("/api/v1/cart/items/%d", id), other, map[string]int{"quantity": 1})
	require.Equal(t, http.StatusOK, code)
	code, _ = s.do(t, http.MethodPost, "/api/v1/checkout", other, validCard())
	require.Equal(t, http.StatusOK, code)

	code, env = s.do(t, http.MethodPost, "/api/v1/checkout", buyer, validCard())
	assert.Equal(t, http.StatusConflict, code)
	require.NoError(t, json.Unmarshal(env.Data, &abort))
	assert.Equal(t, "insufficient_stock", abort.Reason)
	assert.Equal(t, id, abort.BookID)
	assert.False(t, abort.Retryable)
}

func TestCartRemoveAndClear(t *testing.T) {
	s := newTestServer(t)
	id := s.publish(t, "SICP", 4500, 3)
	buyer := s.token(t, 1, jwt.RoleCustomer)

	code, _ := s.do(t, http.MethodPut, fmt.Sprintf("/api/v1/cart/items/%d", id), buyer, map[string]int{"quantity": 1})
	require.Equal(t, http.StatusOK, code)

	code, _ = s.do(t, http.MethodDelete, fmt.Sprintf("/api/v1/cart/items/%d", id), buyer, nil)
	assert.Equal(t, http.StatusOK, code)
	code, _ = s.do(t, http.MethodDelete, fmt.Sprintf("/api/v1/cart/items/%d", id), buyer, nil)
	assert.Equal(t, http.StatusNotFound, code)

	code, _ = s.do(t, http.MethodDelete, "/api/v1/cart", buyer, nil)
	assert.Equal(t, http.StatusOK, code)
}
