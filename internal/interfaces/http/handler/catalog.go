package handler

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	catalogapp "github.com/Yitzhakza/electic/internal/application/catalog"
)

// ProductCatalog lists products and stores admin overrides
type ProductCatalog interface {
	ListAdmin(ctx context.Context, q catalogapp.AdminProductListQuery) (catalogapp.Page[catalogapp.AdminProductResponse], error)
	ListStorefront(ctx context.Context, q catalogapp.StorefrontListQuery) (catalogapp.Page[catalogapp.StorefrontProduct], error)
	UpsertOverride(ctx context.Context, productID uuid.UUID, req catalogapp.OverrideRequest) (*catalogapp.OverrideResponse, error)
}

// CouponCatalog lists the coupons shown on the storefront
type CouponCatalog interface {
	Coupons(ctx context.Context) (*catalogapp.CouponsResponse, error)
}

// CatalogHandler serves product and coupon listings
type CatalogHandler struct {
	BaseHandler
	products ProductCatalog
	coupons  CouponCatalog
}

// NewCatalogHandler creates a new CatalogHandler
func NewCatalogHandler(products ProductCatalog, coupons CouponCatalog) *CatalogHandler {
	return &CatalogHandler{
		products: products,
		coupons:  coupons,
	}
}

// ListAdminProducts returns products for the admin, 30 per page
func (h *CatalogHandler) ListAdminProducts(c *gin.Context) {
	var q catalogapp.AdminProductListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		h.BindError(c, err)
		return
	}

	page, err := h.products.ListAdmin(c.Request.Context(), q)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// UpsertOverride creates or patches a product's override
func (h *CatalogHandler) UpsertOverride(c *gin.Context) {
	id, ok := h.pathID(c, "product")
	if !ok {
		return
	}

	var req catalogapp.OverrideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	override, err := h.products.UpsertOverride(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, override)
}

// ListProducts returns the storefront product page
func (h *CatalogHandler) ListProducts(c *gin.Context) {
	var q catalogapp.StorefrontListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		h.BindError(c, err)
		return
	}
	h.storefrontPage(c, q)
}

// Search matches product titles. A blank query returns an empty page
// without touching the store.
func (h *CatalogHandler) Search(c *gin.Context) {
	var q catalogapp.StorefrontListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		h.BindError(c, err)
		return
	}
	q.Q = strings.TrimSpace(q.Q)
	if q.Q == "" {
		h.SuccessWithMeta(c, []catalogapp.StorefrontProduct{}, 0, max(q.Page, 1), 0)
		return
	}
	h.storefrontPage(c, q)
}

func (h *CatalogHandler) storefrontPage(c *gin.Context, q catalogapp.StorefrontListQuery) {
	page, err := h.products.ListStorefront(c.Request.Context(), q)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// ListCoupons returns active platform coupons and this month's general coupons
func (h *CatalogHandler) ListCoupons(c *gin.Context) {
	coupons, err := h.coupons.Coupons(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, coupons)
}
