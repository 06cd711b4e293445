package httpserver

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/avelkov/eshop-api/internal/events"
	"github.com/avelkov/eshop-api/internal/logging"
	"github.com/avelkov/eshop-api/internal/models"
	"github.com/avelkov/eshop-api/internal/repo"
	"github.com/avelkov/eshop-api/internal/search"
	"github.com/avelkov/eshop-api/internal/service"
	"github.com/avelkov/eshop-api/internal/transport"
	"github.com/avelkov/eshop-api/internal/upload"
)

const maxGalleryImages = 10

type ProductHTTP struct {
	Svc      *service.ProductService
	Saver    *upload.Saver
	Producer *events.Producer
	Index    *search.Index
	// PublicBaseURL overrides the request-derived base for image links.
	PublicBaseURL string
}

func (h *ProductHTTP) uploadsBase(c echo.Context) string {
	if h.PublicBaseURL != "" {
		return strings.TrimSuffix(h.PublicBaseURL, "/") + "/public/uploads/"
	}
	return c.Scheme() + "://" + c.Request().Host + "/public/uploads/"
}

// publish and index are best-effort: a broker or search outage never fails
// the request that already committed to the database.
func (h *ProductHTTP) publish(c echo.Context, event map[string]any) {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Producer.PublishEvent(ctx, events.TopicProductEvents, events.TopicProductEvents, event); err != nil {
		logging.FromContext(c.Request().Context()).Error("kafka_publish_failed", "error", err)
	}
}

func (h *ProductHTTP) index(c echo.Context, product *models.Product) {
	if err := h.Index.IndexProduct(c.Request().Context(), product); err != nil {
		logging.FromContext(c.Request().Context()).Error("search_index_failed", "error", err)
	}
}

// parseQuery maps the listing query parameters onto a ProductQuery. The
// repeated pageIndex parameter carries a 0-based page index first and the
// page size second.
func parseQuery(c echo.Context) (repo.ProductQuery, error) {
	q := repo.ProductQuery{Page: 1}

	if raw := c.QueryParam("categories"); raw != "" {
		for _, part := range strings.Split(raw, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			id, err := uuid.Parse(part)
			if err != nil {
				return q, errors.New("categories contains an invalid id")
			}
			q.CategoryIDs = append(q.CategoryIDs, id)
		}
	}
	q.SearchText = c.QueryParam("searchText")

	switch sort := c.QueryParam("sort"); sort {
	case repo.SortName, repo.SortPriceAsc, repo.SortPriceDesc, repo.SortRating:
		q.Sort = sort
	}

	if pageIndex := c.QueryParams()["pageIndex"]; len(pageIndex) >= 2 {
		q.Page = parseIntDefault(pageIndex[0], 0) + 1
		if q.Page < 1 {
			q.Page = 1
		}
		q.PageSize = parseIntDefault(pageIndex[1], 0)
	}
	return q, nil
}

func (h *ProductHTTP) GetProducts(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.list")

	q, err := parseQuery(c)
	if err != nil {
		l.Warn("get_products_failed", "status", 400, "reason", err.Error())
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	total, products, err := h.Svc.Query(ctx, q)
	if err != nil {
		l.Error("get_products_failed", "status", 500, "error", err)
		return httpError(err, "cannot get products")
	}

	return c.JSON(http.StatusOK, map[string]any{
		"count":    total,
		"products": products,
	})
}

func (h *ProductHTTP) ListProductsAdmin(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.list_admin")

	products, err := h.Svc.List(ctx)
	if err != nil {
		l.Error("list_products_failed", "status", 500, "error", err)
		return httpError(err, "cannot get products")
	}
	return c.JSON(http.StatusOK, products)
}

func (h *ProductHTTP) GetProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.get")

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		l.Warn("get_product_failed", "status", 400, "reason", "id not a uuid", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "id not a uuid")
	}

	product, err := h.Svc.Get(ctx, id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			l.Warn("get_product_failed", "status", 404, "reason", "product not found")
			return echo.NewHTTPError(http.StatusNotFound, "product could NOT be found")
		}
		l.Error("get_product_failed", "status", 500, "error", err)
		return httpError(err, "cannot get product")
	}
	return c.JSON(http.StatusOK, product)
}

func (h *ProductHTTP) saveImage(c echo.Context, field string, required bool) (string, error) {
	fh, err := c.FormFile(field)
	if err != nil {
		if required {
			return "", echo.NewHTTPError(http.StatusBadRequest, "no image file in the request")
		}
		return "", nil
	}
	name, err := h.Saver.Save(fh)
	if err != nil {
		if errors.Is(err, upload.ErrInvalidImageType) {
			return "", echo.NewHTTPError(http.StatusBadRequest, "invalid image type")
		}
		return "", echo.NewHTTPError(http.StatusInternalServerError, "cannot store image")
	}
	return h.uploadsBase(c) + name, nil
}

func (h *ProductHTTP) CreateProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.create")

	var req transport.ProductForm
	if err := c.Bind(&req); err != nil {
		l.Warn("create_product_failed", "status", 400, "reason", "invalid form", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid form")
	}

	imageURL, err := h.saveImage(c, "image", true)
	if err != nil {
		l.Warn("create_product_failed", "reason", "image upload", "error", err)
		return err
	}

	product, err := h.Svc.Create(ctx, req, imageURL)
	if err != nil {
		l.Error("create_product_failed", "error", err)
		return httpError(err, "the product can not be created")
	}

	h.publish(c, map[string]any{"type": "product_created", "productID": product.ID, "name": product.Name})
	h.index(c, product)

	l.Info("create_product_success", "product_id", product.ID)
	return c.JSON(http.StatusCreated, product)
}

func (h *ProductHTTP) UpdateProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.update")

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		l.Warn("update_product_failed", "status", 400, "reason", "id not a uuid", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid product ID")
	}

	var req transport.ProductForm
	if err := c.Bind(&req); err != nil {
		l.Warn("update_product_failed", "status", 400, "reason", "invalid form", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid form")
	}

	imageURL, err := h.saveImage(c, "image", false)
	if err != nil {
		l.Warn("update_product_failed", "reason", "image upload", "error", err)
		return err
	}

	product, err := h.Svc.Update(ctx, id, req, imageURL)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			l.Warn("update_product_failed", "status", 404, "reason", "product not found")
			return echo.NewHTTPError(http.StatusNotFound, "invalid product")
		}
		l.Error("update_product_failed", "error", err)
		return httpError(err, "the product can not be updated")
	}

	h.publish(c, map[string]any{"type": "product_updated", "productID": product.ID, "name": product.Name})
	h.index(c, product)

	l.Info("update_product_success", "product_id", product.ID)
	return c.JSON(http.StatusOK, product)
}

func (h *ProductHTTP) UpdateGallery(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.gallery")

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		l.Warn("update_gallery_failed", "status", 400, "reason", "id not a uuid", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid product ID")
	}

	form, err := c.MultipartForm()
	if err != nil {
		l.Warn("update_gallery_failed", "status", 400, "reason", "invalid multipart form", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid multipart form")
	}

	files := form.File["images"]
	if len(files) > maxGalleryImages {
		files = files[:maxGalleryImages]
	}

	imageURLs := make([]string, 0, len(files))
	for _, fh := range files {
		name, err := h.Saver.Save(fh)
		if err != nil {
			if errors.Is(err, upload.ErrInvalidImageType) {
				l.Warn("update_gallery_failed", "status", 400, "reason", "invalid image type")
				return echo.NewHTTPError(http.StatusBadRequest, "invalid image type")
			}
			l.Error("update_gallery_failed", "status", 500, "error", err)
			return echo.NewHTTPError(http.StatusInternalServerError, "cannot store image")
		}
		imageURLs = append(imageURLs, h.uploadsBase(c)+name)
	}

	product, err := h.Svc.UpdateGallery(ctx, id, imageURLs)
	if err != nil {
		l.Error("update_gallery_failed", "error", err)
		return httpError(err, "the product can not be updated")
	}

	l.Info("update_gallery_success", "product_id", product.ID, "images", len(imageURLs))
	return c.JSON(http.StatusOK, product)
}

func (h *ProductHTTP) DeleteProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.delete")

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		l.Warn("delete_product_failed", "status", 400, "reason", "id not a uuid", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "id not a uuid")
	}

	if err := h.Svc.Delete(ctx, id); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			l.Warn("delete_product_failed", "status", 404, "reason", "product not found")
			return c.JSON(http.StatusNotFound, transport.Envelope{Success: false, Message: "product NOT found"})
		}
		l.Error("delete_product_failed", "status", 500, "error", err)
		return c.JSON(http.StatusInternalServerError, transport.Envelope{Success: false, Error: "cannot delete product"})
	}

	h.publish(c, map[string]any{"type": "product_deleted", "productID": id})
	if err := h.Index.DeleteProduct(ctx, id.String()); err != nil {
		l.Error("search_index_delete_failed", "error", err)
	}

	l.Info("delete_product_success", "product_id", id)
	return c.JSON(http.StatusOK, transport.Envelope{Success: true, Message: "the product was deleted"})
}

func (h *ProductHTTP) GetFeaturedProducts(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.featured")

	count := parseIntDefault(c.Param("count"), 0)

	products, err := h.Svc.Featured(ctx, count)
	if err != nil {
		l.Error("get_featured_failed", "status", 500, "error", err)
		return httpError(err, "cannot get featured products")
	}
	return c.JSON(http.StatusOK, products)
}

func (h *ProductHTTP) GetProductCount(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.count")

	n, err := h.Svc.Count(ctx)
	if err != nil {
		l.Error("get_product_count_failed", "status", 500, "error", err)
		return httpError(err, "cannot count products")
	}
	return c.JSON(http.StatusOK, map[string]int64{"productCount": n})
}

func (h *ProductHTTP) SearchProducts(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.search")

	q := c.QueryParam("q")
	if q == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "q is required")
	}

	page := parseIntDefault(c.QueryParam("page"), 1)
	size := parseIntDefault(c.QueryParam("size"), 10)
	if page < 1 {
		page = 1
	}
	if size <= 0 || size > 100 {
		size = 10
	}

	total, hits, err := h.Index.Search(ctx, q, (page-1)*size, size)
	if err != nil {
		l.Error("search_products_failed", "status", 502, "error", err)
		return echo.NewHTTPError(http.StatusBadGateway, "search unavailable")
	}
	return c.JSON(http.StatusOK, map[string]any{"total": total, "products": hits})
}
