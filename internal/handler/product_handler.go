package handler

import (
	"mime/multipart"
	"slices"
	"strconv"
	"strings"

	"go-storefront/internal/middleware"
	"go-storefront/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

type ProductHandler struct {
	service service.ProductService
}

func NewProductHandler(s service.ProductService) *ProductHandler {
	return &ProductHandler{service: s}
}

// Index lists products in the list view
// GET /api/product?page=&sort=&search=&type=
func (h *ProductHandler) Index(c *fiber.Ctx) error {
	page, err := h.service.List(c.UserContext(), listParams(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(page)
}

// Show returns the detail view with every relation
// GET /api/product/:id
func (h *ProductHandler) Show(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	product, err := h.service.Get(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return data(c, product)
}

// POST /api/product (multipart or JSON)
func (h *ProductHandler) Store(c *fiber.Ctx) error {
	req, err := parseProductRequest(c)
	if err != nil {
		return respondError(c, err)
	}
	product, err := h.service.Create(c.UserContext(), req, middleware.Actor(c))
	if err != nil {
		return respondError(c, err)
	}
	return created(c, product)
}

// PUT /api/product/:id
func (h *ProductHandler) Update(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	req, err := parseProductRequest(c)
	if err != nil {
		return respondError(c, err)
	}
	product, err := h.service.Update(c.UserContext(), id, req, middleware.Actor(c))
	if err != nil {
		return respondError(c, err)
	}
	return data(c, product)
}

// DELETE /api/product/:id
func (h *ProductHandler) Destroy(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	if err := h.service.Delete(c.UserContext(), id, middleware.Actor(c)); err != nil {
		return respondError(c, err)
	}
	return message(c, "Product deleted successfully.")
}

// POST /api/product/deleteMany {ids}
func (h *ProductHandler) DeleteMany(c *fiber.Ctx) error {
	ids, err := parseIDs(c)
	if err != nil {
		return badRequest(c)
	}
	if err := h.service.DeleteMany(c.UserContext(), ids, middleware.Actor(c)); err != nil {
		return respondError(c, err)
	}
	return message(c, "Products deleted successfully.")
}

// UploadImage appends images[] to the product gallery
// POST /api/product/uploadImage/:id
func (h *ProductHandler) UploadImage(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	form, err := c.MultipartForm()
	if err != nil {
		return badRequest(c)
	}
	files := formFiles(form, "images")
	if len(files) == 0 {
		return respondError(c, service.NewValidationError().Add("images", "The images field is required."))
	}
	product, err := h.service.UploadImages(c.UserContext(), id, files, middleware.Actor(c))
	if err != nil {
		return respondError(c, err)
	}
	return data(c, product)
}

type DeleteImageRequest struct {
	ProductID uint `json:"product_id"`
	MediaID   uint `json:"media_id"`
}

// POST /api/product/deleteImage {product_id, media_id}
func (h *ProductHandler) DeleteImage(c *fiber.Ctx) error {
	var req DeleteImageRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c)
	}
	if err := h.service.DeleteImage(c.UserContext(), req.ProductID, req.MediaID, middleware.Actor(c)); err != nil {
		return respondError(c, err)
	}
	return message(c, "Image deleted successfully.")
}

// POST /api/product/:id/variants
func (h *ProductHandler) StoreVariant(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	var req service.VariantRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c)
	}
	product, err := h.service.CreateVariant(c.UserContext(), id, &req, middleware.Actor(c))
	if err != nil {
		return respondError(c, err)
	}
	return created(c, product)
}

// PUT /api/product/:id/variants/:variantId
func (h *ProductHandler) UpdateVariant(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	variantID, err := paramID(c, "variantId")
	if err != nil {
		return respondError(c, err)
	}
	var req service.VariantRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c)
	}
	product, err := h.service.UpdateVariant(c.UserContext(), id, variantID, &req, middleware.Actor(c))
	if err != nil {
		return respondError(c, err)
	}
	return data(c, product)
}

// DELETE /api/product/:id/variants/:variantId
func (h *ProductHandler) DestroyVariant(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	variantID, err := paramID(c, "variantId")
	if err != nil {
		return respondError(c, err)
	}
	if err := h.service.DeleteVariant(c.UserContext(), id, variantID, middleware.Actor(c)); err != nil {
		return respondError(c, err)
	}
	return message(c, "Variant deleted successfully.")
}

// parseProductRequest reads the product form. Multipart bodies carry
// tags[], attributes[] and images[]; JSON bodies carry no images.
func parseProductRequest(c *fiber.Ctx) (*service.ProductRequest, error) {
	req := &service.ProductRequest{}
	if !strings.HasPrefix(c.Get(fiber.HeaderContentType), fiber.MIMEMultipartForm) {
		if err := c.BodyParser(req); err != nil {
			return nil, fiber.NewError(fiber.StatusBadRequest, "Invalid request body.")
		}
		return req, nil
	}

	form, err := c.MultipartForm()
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "Invalid multipart form.")
	}

	errs := service.NewValidationError()
	req.Name = formValue(form, "name")
	req.Slug = formValue(form, "slug")
	req.SmallDescription = formValue(form, "small_description")
	req.Description = formValue(form, "description")

	if raw := formValue(form, "price"); raw != "" {
		price, err := decimal.NewFromString(raw)
		if err != nil {
			errs.Add("price", "The price field must be a number.")
		}
		req.Price = price
	}
	if raw := formValue(form, "quantity"); raw != "" {
		qty, err := strconv.Atoi(raw)
		if err != nil {
			errs.Add("quantity", "The quantity field must be an integer.")
		}
		req.Quantity = qty
	}
	if raw := formValue(form, "category_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			errs.Add("category_id", "The selected category id is invalid.")
		}
		categoryID := uint(id)
		req.CategoryID = &categoryID
	}

	var bad bool
	if req.Tags, bad = formIDs(form, "tags"); bad {
		errs.Add("tags", "The selected tags is invalid.")
	}
	if req.Attributes, bad = formIDs(form, "attributes"); bad {
		errs.Add("attributes", "The selected attributes is invalid.")
	}
	req.Images = formFiles(form, "images")

	if !errs.Empty() {
		return nil, errs
	}
	return req, nil
}

func formValue(form *multipart.Form, key string) string {
	if v := form.Value[key]; len(v) > 0 {
		return v[0]
	}
	return ""
}

// formIDs accepts both key[] and key; bad reports a non-numeric id
func formIDs(form *multipart.Form, key string) (ids []uint, bad bool) {
	raw := slices.Concat(form.Value[key+"[]"], form.Value[key])
	ids = make([]uint, 0, len(raw))
	for _, s := range raw {
		if strings.TrimSpace(s) == "" {
			continue
		}
		id, err := strconv.ParseUint(strings.TrimSpace(s), 10, 64)
		if err != nil {
			bad = true
			continue
		}
		ids = append(ids, uint(id))
	}
	return ids, bad
}

func formFiles(form *multipart.Form, key string) []*multipart.FileHeader {
	return slices.Concat(form.File[key+"[]"], form.File[key])
}
