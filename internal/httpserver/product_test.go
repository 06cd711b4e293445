package httpserver

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/avelkov/eshop-api/internal/models"
	"github.com/avelkov/eshop-api/internal/transport"
	"github.com/avelkov/eshop-api/internal/upload"
)

type listResponse struct {
	Count    int64            `json:"count"`
	Products []models.Product `json:"products"`
}

func (env *testEnv) doListRequest(t *testing.T, target string) listResponse {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	c := env.E.NewContext(req, rec)

	require.NoError(t, env.Products.GetProducts(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp listResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestGetProductsPageIndexContract(t *testing.T) {
	env := newTestEnv(t)
	c := env.createCategory("misc")
	for _, name := range []string{"alpha", "bravo", "charlie", "delta", "echo"} {
		env.createProduct(name, 10, c)
	}

	// pageIndex carries the 0-based page first and the page size second.
	first := env.doListRequest(t, "/products?sort=name&pageIndex=0&pageIndex=2")
	require.EqualValues(t, 5, first.Count)
	require.Len(t, first.Products, 2)
	require.Equal(t, "alpha", first.Products[0].Name)

	third := env.doListRequest(t, "/products?sort=name&pageIndex=2&pageIndex=2")
	require.EqualValues(t, 5, third.Count)
	require.Len(t, third.Products, 1)
	require.Equal(t, "echo", third.Products[0].Name)

	// Without pagination the full set comes back and the count is the same.
	all := env.doListRequest(t, "/products")
	require.EqualValues(t, 5, all.Count)
	require.Len(t, all.Products, 5)
}

func TestGetProductsFiltersByCategory(t *testing.T) {
	env := newTestEnv(t)
	shoes := env.createCategory("shoes")
	hats := env.createCategory("hats")
	env.createProduct("runner", 50, shoes)
	env.createProduct("fedora", 30, hats)

	resp := env.doListRequest(t, "/products?categories="+shoes.ID.String())
	require.EqualValues(t, 1, resp.Count)
	require.Equal(t, "runner", resp.Products[0].Name)
	require.NotNil(t, resp.Products[0].Category)
	require.Equal(t, "shoes", resp.Products[0].Category.Name)
}

func TestGetProductsRejectsBadCategoryID(t *testing.T) {
	env := newTestEnv(t)

	req := httptest.NewRequest(http.MethodGet, "/products?categories=not-a-uuid", nil)
	c := env.E.NewContext(req, httptest.NewRecorder())

	err := env.Products.GetProducts(c)
	var he *echo.HTTPError
	require.ErrorAs(t, err, &he)
	require.Equal(t, http.StatusBadRequest, he.Code)
}

func productForm(t *testing.T, fields map[string]string, imageName, imageType string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	if imageName != "" {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", `form-data; name="image"; filename="`+imageName+`"`)
		h.Set("Content-Type", imageType)
		part, err := w.CreatePart(h)
		require.NoError(t, err)
		_, err = part.Write([]byte("image bytes"))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return &buf, w.FormDataContentType()
}

func TestCreateProductMultipart(t *testing.T) {
	env := newTestEnv(t)
	saver, err := upload.NewSaver(t.TempDir())
	require.NoError(t, err)
	env.Products.Saver = saver

	category := env.createCategory("mugs")
	body, contentType := productForm(t, map[string]string{
		"name":         "travel mug",
		"description":  "keeps coffee warm",
		"price":        "14.50",
		"category":     category.ID.String(),
		"countInStock": "12",
	}, "mug.png", "image/png")

	req := httptest.NewRequest(http.MethodPost, "/products", body)
	req.Header.Set(echo.HeaderContentType, contentType)
	rec := httptest.NewRecorder()
	c := env.E.NewContext(req, rec)

	require.NoError(t, env.Products.CreateProduct(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	var created models.Product
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	require.Equal(t, "travel mug", created.Name)
	require.Equal(t, 14.50, created.Price)
	require.Contains(t, created.Image, "/public/uploads/")
	require.True(t, strings.HasSuffix(created.Image, ".png"))

	var stored models.Product
	require.NoError(t, env.DB.First(&stored, "id = ?", created.ID).Error)
	require.Equal(t, created.Image, stored.Image)
}

func TestCreateProductRequiresImage(t *testing.T) {
	env := newTestEnv(t)
	saver, err := upload.NewSaver(t.TempDir())
	require.NoError(t, err)
	env.Products.Saver = saver

	category := env.createCategory("mugs")
	body, contentType := productForm(t, map[string]string{
		"name":     "travel mug",
		"price":    "14.50",
		"category": category.ID.String(),
	}, "", "")

	req := httptest.NewRequest(http.MethodPost, "/products", body)
	req.Header.Set(echo.HeaderContentType, contentType)
	c := env.E.NewContext(req, httptest.NewRecorder())

	err = env.Products.CreateProduct(c)
	var he *echo.HTTPError
	require.ErrorAs(t, err, &he)
	require.Equal(t, http.StatusBadRequest, he.Code)
}

func TestCreateProductRejectsUnknownCategory(t *testing.T) {
	env := newTestEnv(t)
	saver, err := upload.NewSaver(t.TempDir())
	require.NoError(t, err)
	env.Products.Saver = saver

	body, contentType := productForm(t, map[string]string{
		"name":     "orphan",
		"price":    "5",
		"category": uuid.NewString(),
	}, "orphan.png", "image/png")

	req := httptest.NewRequest(http.MethodPost, "/products", body)
	req.Header.Set(echo.HeaderContentType, contentType)
	c := env.E.NewContext(req, httptest.NewRecorder())

	err = env.Products.CreateProduct(c)
	var he *echo.HTTPError
	require.ErrorAs(t, err, &he)
	require.Equal(t, http.StatusBadRequest, he.Code)
}

func TestGetFeaturedProductsLimit(t *testing.T) {
	env := newTestEnv(t)
	c := env.createCategory("misc")
	for i := 0; i < 3; i++ {
		p := env.createProduct("featured", 10, c)
		require.NoError(t, env.DB.Model(p).Update("is_featured", true).Error)
	}
	env.createProduct("plain", 10, c)

	rec, ec := env.doJSONRequest(http.MethodGet, "/products/get/featured/2", nil)
	ec.SetParamNames("count")
	ec.SetParamValues("2")
	require.NoError(t, env.Products.GetFeaturedProducts(ec))
	require.Equal(t, http.StatusOK, rec.Code)

	var featured []models.Product
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &featured))
	require.Len(t, featured, 2)
}

func TestGetProductCountZeroIsValid(t *testing.T) {
	env := newTestEnv(t)

	rec, c := env.doJSONRequest(http.MethodGet, "/products/get/count", nil)
	require.NoError(t, env.Products.GetProductCount(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]int64
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.EqualValues(t, 0, resp["productCount"])
}

func TestSearchProductsUnavailableWithoutIndex(t *testing.T) {
	env := newTestEnv(t)

	req := httptest.NewRequest(http.MethodGet, "/products/search?q=mug", nil)
	c := env.E.NewContext(req, httptest.NewRecorder())

	err := env.Products.SearchProducts(c)
	var he *echo.HTTPError
	require.ErrorAs(t, err, &he)
	require.Equal(t, http.StatusBadGateway, he.Code)
}

func TestDeleteProductEnvelope(t *testing.T) {
	env := newTestEnv(t)
	c := env.createCategory("misc")
	product := env.createProduct("doomed", 10, c)

	rec, ec := env.doJSONRequest(http.MethodDelete, "/products/"+product.ID.String(), nil)
	ec.SetParamNames("id")
	ec.SetParamValues(product.ID.String())
	require.NoError(t, env.Products.DeleteProduct(ec))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp transport.Envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.True(t, resp.Success)

	rec, ec = env.doJSONRequest(http.MethodDelete, "/products/"+product.ID.String(), nil)
	ec.SetParamNames("id")
	ec.SetParamValues(product.ID.String())
	require.NoError(t, env.Products.DeleteProduct(ec))
	require.Equal(t, http.StatusNotFound, rec.Code)
}
