package httpserver

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/avelkov/eshop-api/internal/models"
	"github.com/avelkov/eshop-api/internal/repo"
	"github.com/avelkov/eshop-api/internal/service"
)

var testJWTSecret = []byte("test-secret")

type testEnv struct {
	T  *testing.T
	E  *echo.Echo
	DB *gorm.DB

	Categories *CategoryHTTP
	Products   *ProductHTTP
	Users      *UserHTTP
	Orders     *OrderHTTP
}

func newTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		t.Fatalf("failed to open in-memory db: %v", err)
	}

	// A fresh connection to :memory: is a fresh database; keep the pool at
	// one connection so concurrent order-item writes share the schema.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(
		&models.Category{},
		&models.Product{},
		&models.User{},
		&models.OrderItem{},
		&models.Order{},
	); err != nil {
		t.Fatalf("failed to migrate tables: %v", err)
	}
	return db
}

func newTestEnv(t *testing.T) *testEnv {
	db := newTestDB(t)
	r := repo.New(db)

	return &testEnv{
		T:  t,
		E:  echo.New(),
		DB: db,

		Categories: &CategoryHTTP{Svc: &service.CategoryService{Repo: r}},
		Products:   &ProductHTTP{Svc: &service.ProductService{Repo: r}},
		Users:      &UserHTTP{Svc: &service.UserService{Repo: r, JWTSecret: testJWTSecret}},
		Orders:     &OrderHTTP{Svc: &service.OrderService{Repo: r}},
	}
}

func (env *testEnv) doJSONRequest(method, path string, body any) (*httptest.ResponseRecorder, echo.Context) {
	var buf bytes.Buffer
	if body != nil {
		require.NoError(env.T, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := env.E.NewContext(req, rec)
	return rec, c
}

func (env *testEnv) createCategory(name string) *models.Category {
	category := &models.Category{Name: name, Icon: "icon-" + name, Color: "#000000"}
	require.NoError(env.T, env.DB.Create(category).Error)
	return category
}

func (env *testEnv) createProduct(name string, price float64, category *models.Category) *models.Product {
	product := &models.Product{
		Name:        name,
		Description: name + " description",
		Price:       price,
		CategoryID:  category.ID,
	}
	require.NoError(env.T, env.DB.Create(product).Error)
	return product
}
