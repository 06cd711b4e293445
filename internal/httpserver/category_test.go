package httpserver

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/avelkov/eshop-api/internal/models"
	"github.com/avelkov/eshop-api/internal/transport"
)

func TestCategoryCRUD(t *testing.T) {
	env := newTestEnv(t)

	rec, c := env.doJSONRequest(http.MethodPost, "/categories", transport.CategoryRequest{
		Name:  "electronics",
		Icon:  "cpu",
		Color: "#00ff00",
	})
	require.NoError(t, env.Categories.CreateCategory(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	var created models.Category
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	require.NotEqual(t, uuid.Nil, created.ID)
	require.Equal(t, "electronics", created.Name)

	rec, c = env.doJSONRequest(http.MethodGet, "/categories/"+created.ID.String(), nil)
	c.SetParamNames("id")
	c.SetParamValues(created.ID.String())
	require.NoError(t, env.Categories.GetCategory(c))
	require.Equal(t, http.StatusOK, rec.Code)

	rec, c = env.doJSONRequest(http.MethodPut, "/categories/"+created.ID.String(), transport.CategoryRequest{
		Name: "computers",
	})
	c.SetParamNames("id")
	c.SetParamValues(created.ID.String())
	require.NoError(t, env.Categories.UpdateCategory(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var updated models.Category
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &updated))
	require.Equal(t, "computers", updated.Name)
	require.Equal(t, "cpu", updated.Icon)

	rec, c = env.doJSONRequest(http.MethodDelete, "/categories/"+created.ID.String(), nil)
	c.SetParamNames("id")
	c.SetParamValues(created.ID.String())
	require.NoError(t, env.Categories.DeleteCategory(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp transport.Envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.True(t, resp.Success)
}

func TestGetCategoryNotFound(t *testing.T) {
	env := newTestEnv(t)

	id := uuid.NewString()
	_, c := env.doJSONRequest(http.MethodGet, "/categories/"+id, nil)
	c.SetParamNames("id")
	c.SetParamValues(id)

	err := env.Categories.GetCategory(c)
	var he *echo.HTTPError
	require.ErrorAs(t, err, &he)
	require.Equal(t, http.StatusNotFound, he.Code)
}

func TestCreateCategoryRequiresName(t *testing.T) {
	env := newTestEnv(t)

	_, c := env.doJSONRequest(http.MethodPost, "/categories", transport.CategoryRequest{Icon: "x"})
	err := env.Categories.CreateCategory(c)
	var he *echo.HTTPError
	require.ErrorAs(t, err, &he)
	require.Equal(t, http.StatusBadRequest, he.Code)
}

func TestDeleteCategoryNotFound(t *testing.T) {
	env := newTestEnv(t)

	id := uuid.NewString()
	rec, c := env.doJSONRequest(http.MethodDelete, "/categories/"+id, nil)
	c.SetParamNames("id")
	c.SetParamValues(id)
	require.NoError(t, env.Categories.DeleteCategory(c))
	require.Equal(t, http.StatusNotFound, rec.Code)

	var resp transport.Envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.False(t, resp.Success)
}
