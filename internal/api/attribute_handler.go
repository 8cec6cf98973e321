package api

import (
	"errors"
	"regexp"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"

	"github.com/gentlyhq/gently/internal/config"
	"github.com/gentlyhq/gently/internal/inventory"
)

// shortCodePattern is the grammar that keeps short codes usable as query
// parameter prefixes: 2-10 characters, lowercase alphanumeric, starting
// with a letter.
var shortCodePattern = regexp.MustCompile(`^[a-z][a-z0-9]{1,9}$`)

// AttributeHandler serves attribute definition CRUD.
type AttributeHandler struct {
	storage  *inventory.Storage
	cfg      *config.Config
	validate *validator.Validate
}

func NewAttributeHandler(storage *inventory.Storage, cfg *config.Config) *AttributeHandler {
	v := validator.New()
	_ = v.RegisterValidation("short_code", func(fl validator.FieldLevel) bool {
		return shortCodePattern.MatchString(fl.Field().String())
	})
	return &AttributeHandler{storage: storage, cfg: cfg, validate: v}
}

func (h *AttributeHandler) RegisterRoutes(router fiber.Router) {
	router.Post("/attributes", h.Create)
	router.Get("/attributes", h.List)
	router.Delete("/attributes/:attribute_id", h.Delete)
}

type CreateAttributeRequest struct {
	AttributeName        string                  `json:"attribute_name" validate:"required"`
	AttributeDescription *string                 `json:"attribute_description"`
	AttributeType        inventory.AttributeType `json:"attribute_type" validate:"required,oneof=string number boolean date"`
	ShortCode            string                  `json:"short_code" validate:"required,short_code"`
	IsRequired           *bool                   `json:"is_required" validate:"required"`
}

// createAttributeMessage maps the first failed field to its response
// message. Struct field order matches the original check order.
func createAttributeMessage(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		switch verrs[0].StructField() {
		case "AttributeName":
			return "attribute_name is required."
		case "AttributeType":
			return "attribute_type is required."
		case "ShortCode":
			return "short_code is required, must be 2-10 characters, alphanumeric, and lowercase, and start with a letter."
		case "IsRequired":
			return "is_required is required."
		}
	}
	return "Invalid request body"
}

func (h *AttributeHandler) Create(c fiber.Ctx) error {
	var req CreateAttributeRequest
	if err := c.Bind().Body(&req); err != nil {
		return SendBadRequest(c, "Invalid request body")
	}
	if err := h.validate.Struct(req); err != nil {
		return SendBadRequest(c, createAttributeMessage(err))
	}
	if _, reserved := reservedParams[req.ShortCode]; reserved {
		return SendBadRequest(c, "short_code must not be a reserved query parameter name.")
	}

	attribute, err := h.storage.CreateAttribute(c.RequestCtx(),
		req.AttributeName, req.AttributeDescription, req.AttributeType, req.ShortCode, *req.IsRequired)
	if err != nil {
		return SendInternalError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(attribute)
}

// AttributeListResponse is the paginated attribute listing envelope.
type AttributeListResponse struct {
	Items  []*inventory.Attribute `json:"items"`
	Count  int                    `json:"count"`
	Limit  int                    `json:"limit"`
	Offset int                    `json:"offset"`
}

// List returns attribute definitions, newest first, optionally narrowed by
// a case-insensitive substring match on the name.
func (h *AttributeHandler) List(c fiber.Ctx) error {
	page, err := ParsePagination(c.Query("limit"), c.Query("offset"),
		h.cfg.API.DefaultPageSize, h.cfg.API.MaxPageSize)
	if err != nil {
		return SendBadRequest(c, err.Error())
	}

	attributes, count, err := h.storage.ListAttributes(c.RequestCtx(), c.Query("search"), page.Limit, page.Offset)
	if err != nil {
		return SendInternalError(c, err)
	}

	return c.JSON(AttributeListResponse{
		Items:  attributes,
		Count:  count,
		Limit:  page.Limit,
		Offset: NextOffset(page.Offset, page.Limit, count),
	})
}

func (h *AttributeHandler) Delete(c fiber.Ctx) error {
	deleted, err := h.storage.DeleteAttribute(c.RequestCtx(), c.Params("attribute_id"))
	if err != nil {
		return SendInternalError(c, err)
	}
	if !deleted {
		return SendNotFound(c, "Attribute not found")
	}
	return c.SendStatus(fiber.StatusOK)
}
