package api

import (
	"errors"

	"github.com/gofiber/fiber/v3"

	"github.com/gentlyhq/gently/internal/inventory"
)

// ProductAttributeHandler serves the lookup rows binding attribute values
// to products.
type ProductAttributeHandler struct {
	storage *inventory.Storage
}

func NewProductAttributeHandler(storage *inventory.Storage) *ProductAttributeHandler {
	return &ProductAttributeHandler{storage: storage}
}

func (h *ProductAttributeHandler) RegisterRoutes(router fiber.Router) {
	router.Post("/products/:product_id/attributes/:attribute_id", h.Create)
	router.Patch("/products/:product_id/attributes/:attribute_id/:product_attribute_lookup_id", h.Update)
	router.Delete("/products/:product_id/attributes/:attribute_id/:product_attribute_lookup_id", h.Delete)
}

type AttributeValueRequest struct {
	AttributeValue string `json:"attribute_value"`
}

// resolvePair verifies the product and attribute named in the path, in that
// order. A nil attribute with a nil error means a response was already sent.
func (h *ProductAttributeHandler) resolvePair(c fiber.Ctx) (*inventory.Attribute, error) {
	ctx := c.RequestCtx()

	product, err := h.storage.GetProduct(ctx, c.Params("product_id"))
	if err != nil {
		return nil, SendInternalError(c, err)
	}
	if product == nil {
		return nil, SendNotFound(c, "Product not found")
	}

	attribute, err := h.storage.GetAttribute(ctx, c.Params("attribute_id"))
	if err != nil {
		return nil, SendInternalError(c, err)
	}
	if attribute == nil {
		return nil, SendNotFound(c, "Attribute not found")
	}
	return attribute, nil
}

func sendCoerceError(c fiber.Ctx, err error) error {
	var coerceErr *inventory.CoerceError
	if errors.As(err, &coerceErr) {
		return SendBadRequest(c, coerceErr.Error())
	}
	return SendInternalError(c, err)
}

// respondLookup wraps a lookup with its attribute definition and the
// canonical string form of the stored value.
func respondLookup(c fiber.Ctx, status int, lookup *inventory.ProductAttributeLookup, attribute *inventory.Attribute) error {
	lookup.Attribute = attribute
	lookup.AttributeValue = lookup.Value(attribute.AttributeType).String()
	return c.Status(status).JSON(lookup)
}

func (h *ProductAttributeHandler) Create(c fiber.Ctx) error {
	var req AttributeValueRequest
	if err := c.Bind().Body(&req); err != nil || req.AttributeValue == "" {
		return SendBadRequest(c, "attribute_value is required.")
	}

	attribute, err := h.resolvePair(c)
	if attribute == nil {
		return err
	}

	value, err := inventory.Coerce(attribute.AttributeType, req.AttributeValue)
	if err != nil {
		return sendCoerceError(c, err)
	}

	lookup, err := h.storage.CreateLookup(c.RequestCtx(), c.Params("product_id"), attribute.AttributeID, value)
	if err != nil {
		return SendInternalError(c, err)
	}
	return respondLookup(c, fiber.StatusCreated, lookup, attribute)
}

func (h *ProductAttributeHandler) Update(c fiber.Ctx) error {
	var req AttributeValueRequest
	if err := c.Bind().Body(&req); err != nil || req.AttributeValue == "" {
		return SendBadRequest(c, "attribute_value is required.")
	}

	attribute, err := h.resolvePair(c)
	if attribute == nil {
		return err
	}

	ctx := c.RequestCtx()
	lookupID := c.Params("product_attribute_lookup_id")

	existing, err := h.storage.GetLookup(ctx, lookupID, c.Params("product_id"), attribute.AttributeID)
	if err != nil {
		return SendInternalError(c, err)
	}
	if existing == nil {
		return SendNotFound(c, "Product attribute lookup not found")
	}

	value, err := inventory.Coerce(attribute.AttributeType, req.AttributeValue)
	if err != nil {
		return sendCoerceError(c, err)
	}

	lookup, err := h.storage.UpdateLookup(ctx, lookupID, value)
	if err != nil {
		return SendInternalError(c, err)
	}
	if lookup == nil {
		return SendNotFound(c, "Product attribute lookup not found")
	}
	return respondLookup(c, fiber.StatusOK, lookup, attribute)
}

func (h *ProductAttributeHandler) Delete(c fiber.Ctx) error {
	attribute, err := h.resolvePair(c)
	if attribute == nil {
		return err
	}

	ctx := c.RequestCtx()
	lookupID := c.Params("product_attribute_lookup_id")

	existing, err := h.storage.GetLookup(ctx, lookupID, c.Params("product_id"), attribute.AttributeID)
	if err != nil {
		return SendInternalError(c, err)
	}
	if existing == nil {
		return SendNotFound(c, "Product attribute lookup not found")
	}

	if _, err := h.storage.DeleteLookup(ctx, lookupID); err != nil {
		return SendInternalError(c, err)
	}
	return c.SendStatus(fiber.StatusOK)
}
