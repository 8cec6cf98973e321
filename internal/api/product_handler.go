package api

import (
	"errors"
	"net/url"

	"github.com/gofiber/fiber/v3"

	"github.com/gentlyhq/gently/internal/config"
	"github.com/gentlyhq/gently/internal/inventory"
)

// ProductHandler serves product CRUD and the filtered product listing.
type ProductHandler struct {
	storage *inventory.Storage
	cfg     *config.Config
}

func NewProductHandler(storage *inventory.Storage, cfg *config.Config) *ProductHandler {
	return &ProductHandler{storage: storage, cfg: cfg}
}

func (h *ProductHandler) RegisterRoutes(router fiber.Router) {
	router.Post("/products", h.Create)
	router.Get("/products", h.List)
	router.Get("/products/:product_id", h.Get)
	router.Patch("/products/:product_id", h.Update)
	router.Delete("/products/:product_id", h.Delete)
}

type CreateProductRequest struct {
	ProductName        string  `json:"product_name"`
	ProductDescription *string `json:"product_description"`
}

func (h *ProductHandler) Create(c fiber.Ctx) error {
	var req CreateProductRequest
	if err := c.Bind().Body(&req); err != nil || req.ProductName == "" {
		return SendBadRequest(c, "product_name is required.")
	}

	product, err := h.storage.CreateProduct(c.RequestCtx(), req.ProductName, req.ProductDescription)
	if err != nil {
		return SendInternalError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(product)
}

// ProductListResponse is the paginated product listing envelope. Offset is
// the cursor for the next page, saturated at Count.
type ProductListResponse struct {
	Items  []*inventory.Product `json:"items"`
	Count  int                  `json:"count"`
	Limit  int                  `json:"limit"`
	Offset int                  `json:"offset"`
}

// List returns products matching every attribute filter in the query
// string, newest first. Filters are fully validated and resolved before
// any product query runs.
func (h *ProductHandler) List(c fiber.Ctx) error {
	ctx := c.RequestCtx()

	page, err := ParsePagination(c.Query("limit"), c.Query("offset"),
		h.cfg.API.DefaultPageSize, h.cfg.API.MaxPageSize)
	if err != nil {
		return SendBadRequest(c, err.Error())
	}

	filters, err := ParseFilters(queryValues(c))
	if err != nil {
		return SendBadRequest(c, err.Error())
	}

	attributes, err := h.storage.ResolveShortCodes(ctx, inventory.ShortCodes(filters))
	if err != nil {
		return SendInternalError(c, err)
	}

	predicates, err := inventory.BuildPredicates(filters, attributes)
	if err != nil {
		var filterErr *inventory.FilterError
		if errors.As(err, &filterErr) {
			return SendBadRequest(c, filterErr.Message)
		}
		return SendInternalError(c, err)
	}

	products, count, err := h.storage.ListProducts(ctx, predicates, page.Limit, page.Offset)
	if err != nil {
		return SendInternalError(c, err)
	}

	return c.JSON(ProductListResponse{
		Items:  products,
		Count:  count,
		Limit:  page.Limit,
		Offset: NextOffset(page.Offset, page.Limit, count),
	})
}

func (h *ProductHandler) Get(c fiber.Ctx) error {
	product, err := h.storage.GetProductWithLookups(c.RequestCtx(), c.Params("product_id"))
	if err != nil {
		return SendInternalError(c, err)
	}
	if product == nil {
		return SendNotFound(c, "Product not found.")
	}
	return c.JSON(product)
}

type UpdateProductRequest struct {
	ProductName        *string `json:"product_name"`
	ProductDescription *string `json:"product_description"`
}

func (h *ProductHandler) Update(c fiber.Ctx) error {
	var req UpdateProductRequest
	if err := c.Bind().Body(&req); err != nil {
		return SendBadRequest(c, "Invalid request body")
	}

	// Empty strings count as absent, so they never blank out a field.
	name := nonEmpty(req.ProductName)
	description := nonEmpty(req.ProductDescription)
	if name == nil && description == nil {
		return SendBadRequest(c, "At least one of product_name or product_description is required.")
	}

	product, err := h.storage.UpdateProduct(c.RequestCtx(), c.Params("product_id"), name, description)
	if err != nil {
		return SendInternalError(c, err)
	}
	if product == nil {
		return SendNotFound(c, "Product not found")
	}
	return c.JSON(product)
}

func (h *ProductHandler) Delete(c fiber.Ctx) error {
	deleted, err := h.storage.DeleteProduct(c.RequestCtx(), c.Params("product_id"))
	if err != nil {
		return SendInternalError(c, err)
	}
	if !deleted {
		return SendNotFound(c, "Product not found")
	}
	return c.SendStatus(fiber.StatusOK)
}

func nonEmpty(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	return s
}

// queryValues collects the raw query parameters, preserving repeated keys
// so duplicate filters can be detected.
func queryValues(c fiber.Ctx) url.Values {
	values := url.Values{}
	c.RequestCtx().QueryArgs().VisitAll(func(key, value []byte) {
		values.Add(string(key), string(value))
	})
	return values
}
