package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"mime/multipart"
	"strings"

	"go-storefront/internal/catalog"
	"go-storefront/internal/listquery"
	"go-storefront/internal/media"
	"go-storefront/internal/model"
	"go-storefront/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ProductRequest is filled from the multipart product form
type ProductRequest struct {
	Name             string                  `json:"name" form:"name" validate:"required,min=2,max=100"`
	Slug             string                  `json:"slug" form:"slug" validate:"required,min=2,max=100"`
	SmallDescription string                  `json:"small_description" form:"small_description" validate:"max=255"`
	Description      string                  `json:"description" form:"description"`
	Price            decimal.Decimal         `json:"price" form:"price" validate:"gte=0"`
	Quantity         int                     `json:"quantity" form:"quantity" validate:"gte=0"`
	CategoryID       *uint                   `json:"category_id" form:"category_id"`
	Tags             []uint                  `json:"tags" form:"tags"`
	Attributes       []uint                  `json:"attributes" form:"attributes"`
	Images           []*multipart.FileHeader `json:"-" form:"-"`
}

type VariantRequest struct {
	Price    decimal.Decimal        `json:"price" validate:"gte=0"`
	Quantity int                    `json:"quantity" validate:"gte=0"`
	Options  []VariantOptionRequest `json:"options" validate:"required,min=1,dive"`
}

type VariantOptionRequest struct {
	AttributeID uint   `json:"attribute_id" validate:"required"`
	Value       string `json:"value" validate:"required,max=100"`
}

type ProductService interface {
	List(ctx context.Context, p listquery.Params) (listquery.Page[catalog.ProductResource], error)
	Get(ctx context.Context, id uint) (*catalog.ProductResource, error)
	Create(ctx context.Context, req *ProductRequest, actor Actor) (*catalog.ProductResource, error)
	Update(ctx context.Context, id uint, req *ProductRequest, actor Actor) (*catalog.ProductResource, error)
	Delete(ctx context.Context, id uint, actor Actor) error
	DeleteMany(ctx context.Context, ids []uint, actor Actor) error
	UploadImages(ctx context.Context, id uint, files []*multipart.FileHeader, actor Actor) (*catalog.ProductResource, error)
	DeleteImage(ctx context.Context, productID, mediaID uint, actor Actor) error
	CreateVariant(ctx context.Context, productID uint, req *VariantRequest, actor Actor) (*catalog.ProductResource, error)
	UpdateVariant(ctx context.Context, productID, variantID uint, req *VariantRequest, actor Actor) (*catalog.ProductResource, error)
	DeleteVariant(ctx context.Context, productID, variantID uint, actor Actor) error
}

type productService struct {
	products   repository.ProductRepository
	categories repository.CategoryRepository
	tags       repository.TagRepository
	attributes repository.AttributeRepository
	storage    media.Storage
	shaper     *catalog.Shaper
	feed       *ChangeFeed
}

func NewProductService(
	products repository.ProductRepository,
	categories repository.CategoryRepository,
	tags repository.TagRepository,
	attributes repository.AttributeRepository,
	storage media.Storage,
	shaper *catalog.Shaper,
	feed *ChangeFeed,
) ProductService {
	return &productService{
		products:   products,
		categories: categories,
		tags:       tags,
		attributes: attributes,
		storage:    storage,
		shaper:     shaper,
		feed:       feed,
	}
}

func (s *productService) List(ctx context.Context, p listquery.Params) (listquery.Page[catalog.ProductResource], error) {
	page, err := s.products.List(ctx, p, repository.ProductFilter{}, model.RelCategory, model.RelTags, model.RelMedia)
	if err != nil {
		return listquery.Page[catalog.ProductResource]{}, err
	}
	return shapePage(s.shaper, catalog.ListView, page)
}

func (s *productService) Get(ctx context.Context, id uint) (*catalog.ProductResource, error) {
	return s.detail(ctx, id)
}

func (s *productService) detail(ctx context.Context, id uint) (*catalog.ProductResource, error) {
	product, err := s.products.FindByID(ctx, id, model.AllRelations...)
	if err != nil {
		return nil, translate(err)
	}
	return shapeOne(s.shaper, catalog.DetailView, product)
}

func (s *productService) Create(ctx context.Context, req *ProductRequest, actor Actor) (*catalog.ProductResource, error) {
	req.normalize()
	if err := s.check(ctx, req, nil); err != nil {
		return nil, err
	}

	product := &model.Product{}
	req.apply(product)
	links := repository.ProductLinks{TagIDs: nonNil(req.Tags), AttributeIDs: nonNil(req.Attributes)}
	if err := s.products.Create(ctx, product, links); err != nil {
		return nil, duplicate(err, "slug")
	}

	if err := s.storeImages(ctx, product.ID, req.Images); err != nil {
		return nil, err
	}

	s.feed.changed(ctx, actor, "products", actionCreated, []uint{product.ID}, product.Name)
	return s.detail(ctx, product.ID)
}

// Update rewrites the scalar fields, replaces tags and attributes and
// appends any uploaded images.
func (s *productService) Update(ctx context.Context, id uint, req *ProductRequest, actor Actor) (*catalog.ProductResource, error) {
	existing, err := s.products.FindByID(ctx, id, model.RelVariants)
	if err != nil {
		return nil, translate(err)
	}

	req.normalize()
	if err := s.check(ctx, req, existing); err != nil {
		return nil, err
	}

	req.apply(existing)
	links := repository.ProductLinks{TagIDs: nonNil(req.Tags), AttributeIDs: nonNil(req.Attributes)}
	if err := s.products.Update(ctx, existing, links); err != nil {
		return nil, duplicate(err, "slug")
	}

	if err := s.storeImages(ctx, id, req.Images); err != nil {
		return nil, err
	}

	s.feed.changed(ctx, actor, "products", actionUpdated, []uint{id}, existing.Name)
	return s.detail(ctx, id)
}

func (s *productService) Delete(ctx context.Context, id uint, actor Actor) error {
	return s.DeleteMany(ctx, []uint{id}, actor)
}

func (s *productService) DeleteMany(ctx context.Context, ids []uint, actor Actor) error {
	if len(ids) == 0 {
		return NewValidationError().Add("ids", "The ids field is required.")
	}
	files, err := s.products.DeleteMany(ctx, ids)
	if err != nil {
		return translate(err)
	}
	s.removeFiles(files)
	s.feed.changed(ctx, actor, "products", actionDeleted, ids, "")
	return nil
}

func (s *productService) UploadImages(ctx context.Context, id uint, files []*multipart.FileHeader, actor Actor) (*catalog.ProductResource, error) {
	if _, err := s.products.FindByID(ctx, id); err != nil {
		return nil, translate(err)
	}
	if len(files) == 0 {
		return nil, NewValidationError().Add("images", "The images field is required.")
	}
	if errs := checkImages(files); !errs.Empty() {
		return nil, errs
	}
	if err := s.storeImages(ctx, id, files); err != nil {
		return nil, err
	}
	s.feed.changed(ctx, actor, "products", actionUpdated, []uint{id}, "")
	return s.detail(ctx, id)
}

func (s *productService) DeleteImage(ctx context.Context, productID, mediaID uint, actor Actor) error {
	files, err := s.products.FindMedia(ctx, []uint{mediaID})
	if err != nil {
		return err
	}
	if len(files) == 0 || files[0].ProductID != productID {
		return ErrNotFound
	}
	if err := s.products.DeleteMedia(ctx, []uint{mediaID}); err != nil {
		return err
	}
	s.removeFiles(files)
	s.feed.changed(ctx, actor, "products", actionUpdated, []uint{productID}, "")
	return nil
}

func (s *productService) CreateVariant(ctx context.Context, productID uint, req *VariantRequest, actor Actor) (*catalog.ProductResource, error) {
	product, err := s.products.FindByID(ctx, productID, model.RelAttributes)
	if err != nil {
		return nil, translate(err)
	}
	if err := checkVariant(product, req); err != nil {
		return nil, err
	}

	variant := &model.Variant{ProductID: productID}
	req.apply(variant)
	if err := s.products.CreateVariant(ctx, variant); err != nil {
		return nil, translate(err)
	}

	s.feed.changed(ctx, actor, "products", actionUpdated, []uint{productID}, product.Name)
	return s.detail(ctx, productID)
}

func (s *productService) UpdateVariant(ctx context.Context, productID, variantID uint, req *VariantRequest, actor Actor) (*catalog.ProductResource, error) {
	product, err := s.products.FindByID(ctx, productID, model.RelAttributes)
	if err != nil {
		return nil, translate(err)
	}
	variant, err := s.products.FindVariant(ctx, productID, variantID)
	if err != nil {
		return nil, translate(err)
	}
	if err := checkVariant(product, req); err != nil {
		return nil, err
	}

	req.apply(variant)
	if err := s.products.UpdateVariant(ctx, variant); err != nil {
		return nil, translate(err)
	}

	s.feed.changed(ctx, actor, "products", actionUpdated, []uint{productID}, product.Name)
	return s.detail(ctx, productID)
}

func (s *productService) DeleteVariant(ctx context.Context, productID, variantID uint, actor Actor) error {
	if err := s.products.DeleteVariant(ctx, productID, variantID); err != nil {
		return translate(err)
	}
	s.feed.changed(ctx, actor, "products", actionUpdated, []uint{productID}, "")
	return nil
}

// check covers the tag rules, slug uniqueness and referenced ids. existing
// is nil on create.
func (s *productService) check(ctx context.Context, req *ProductRequest, existing *model.Product) error {
	tagErrs := validate(req)
	rules := checkImages(req.Images)

	var excludeID uint
	if existing != nil {
		excludeID = existing.ID
	}
	if req.Slug != "" {
		taken, err := s.products.ExistsBy(ctx, "slug", req.Slug, excludeID)
		if err != nil {
			return err
		}
		if taken {
			rules.Add("slug", takenMessage("slug"))
		}
	}

	if req.CategoryID != nil {
		_, err := s.categories.FindByID(ctx, *req.CategoryID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			rules.Add("category_id", invalidMessage("category_id"))
		} else if err != nil {
			return err
		}
	}

	if len(req.Tags) > 0 {
		n, err := s.tags.CountExisting(ctx, req.Tags)
		if err != nil {
			return err
		}
		if n != int64(len(distinct(req.Tags))) {
			rules.Add("tags", invalidMessage("tags"))
		}
	}

	if len(req.Attributes) > 0 {
		n, err := s.attributes.CountExisting(ctx, req.Attributes)
		if err != nil {
			return err
		}
		if n != int64(len(distinct(req.Attributes))) {
			rules.Add("attributes", invalidMessage("attributes"))
		}
	}

	// variants name their options through product attributes
	if existing != nil {
		keep := make(map[uint]bool, len(req.Attributes))
		for _, id := range req.Attributes {
			keep[id] = true
		}
		for _, v := range existing.Variants {
			for _, av := range v.AttributeValues {
				if !keep[av.AttributeID] {
					rules.Add("attributes", "The attributes field must keep every attribute used by a variant.")
					return merge(tagErrs, rules)
				}
			}
		}
	}

	return merge(tagErrs, rules)
}

func checkImages(files []*multipart.FileHeader) *ValidationError {
	errs := NewValidationError()
	for i, fh := range files {
		field := fmt.Sprintf("images.%d", i)
		if fh.Size > media.MaxImageSize {
			errs.Add(field, fmt.Sprintf("The %s field must not be greater than %d kilobytes.", field, media.MaxImageSize/1024))
		}
		// octet-stream means the client did not know; storage sniffs the bytes
		if ct := fh.Header.Get("Content-Type"); ct != "" && ct != "application/octet-stream" && !strings.HasPrefix(ct, "image/") {
			errs.Add(field, fmt.Sprintf("The %s field must be an image.", field))
		}
	}
	return errs
}

// checkVariant requires every option to name a distinct attribute that the
// product carries.
func checkVariant(product *model.Product, req *VariantRequest) error {
	for i := range req.Options {
		req.Options[i].Value = strings.TrimSpace(req.Options[i].Value)
	}
	tagErrs := validate(req)
	rules := NewValidationError()

	seen := make(map[uint]bool, len(req.Options))
	for i, opt := range req.Options {
		if opt.AttributeID == 0 {
			continue
		}
		field := fmt.Sprintf("options.%d.attribute_id", i)
		if !product.HasAttribute(opt.AttributeID) {
			rules.Add(field, invalidMessage("attribute_id"))
			continue
		}
		if seen[opt.AttributeID] {
			rules.Add(field, "The attribute id field has a duplicate value.")
		}
		seen[opt.AttributeID] = true
	}
	return merge(tagErrs, rules)
}

func (s *productService) storeImages(ctx context.Context, productID uint, files []*multipart.FileHeader) error {
	if len(files) == 0 {
		return nil
	}

	records := make([]model.Media, 0, len(files))
	for i, fh := range files {
		stored, err := s.storage.SaveImage(productID, fh)
		if err != nil {
			s.removeFiles(records)
			if errors.Is(err, media.ErrNotAnImage) || errors.Is(err, media.ErrTooLarge) {
				field := fmt.Sprintf("images.%d", i)
				return NewValidationError().Add(field, fmt.Sprintf("The %s field must be an image of at most 5 MB.", field))
			}
			return err
		}
		records = append(records, model.Media{
			FileName: stored.FileName,
			Path:     stored.Path,
			MimeType: stored.MimeType,
			Size:     stored.Size,
		})
	}

	if _, err := s.products.AddMedia(ctx, productID, records); err != nil {
		s.removeFiles(records)
		return translate(err)
	}
	return nil
}

func (s *productService) removeFiles(files []model.Media) {
	for _, f := range files {
		if err := s.storage.Delete(f.Path); err != nil {
			log.Printf("media: delete %s: %v", f.Path, err)
		}
	}
}

func (r *ProductRequest) normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Slug = strings.TrimSpace(r.Slug)
	r.SmallDescription = strings.TrimSpace(r.SmallDescription)
	if r.CategoryID != nil && *r.CategoryID == 0 {
		r.CategoryID = nil
	}
}

func (r *ProductRequest) apply(p *model.Product) {
	p.Name = r.Name
	p.Slug = r.Slug
	p.SmallDescription = r.SmallDescription
	p.Description = r.Description
	p.Price = r.Price.Round(2)
	p.Quantity = r.Quantity
	p.CategoryID = r.CategoryID
}

func (r *VariantRequest) apply(v *model.Variant) {
	v.Price = r.Price.Round(2)
	v.Quantity = r.Quantity
	v.AttributeValues = make([]model.VariantAttribute, 0, len(r.Options))
	for _, opt := range r.Options {
		v.AttributeValues = append(v.AttributeValues, model.VariantAttribute{AttributeID: opt.AttributeID, Value: opt.Value})
	}
}

// shapeOne logs data-consistency failures before handing them up
func shapeOne(shaper *catalog.Shaper, view catalog.View, p *model.Product) (*catalog.ProductResource, error) {
	res, err := shaper.ShapeProduct(view, p)
	if err != nil {
		log.Printf("catalog: shaping product %d (%s view): %v", p.ID, view, err)
		return nil, err
	}
	return &res, nil
}

func shapePage(shaper *catalog.Shaper, view catalog.View, page listquery.Page[model.Product]) (listquery.Page[catalog.ProductResource], error) {
	return listquery.Map(page, func(p model.Product) (catalog.ProductResource, error) {
		res, err := shapeOne(shaper, view, &p)
		if err != nil {
			return catalog.ProductResource{}, err
		}
		return *res, nil
	})
}

// nonNil turns "no ids sent" into an explicit empty set, so links are replaced
func nonNil(ids []uint) []uint {
	if ids == nil {
		return []uint{}
	}
	return ids
}

func distinct(ids []uint) map[uint]struct{} {
	out := make(map[uint]struct{}, len(ids))
	for _, id := range ids {
		out[id] = struct{}{}
	}
	return out
}
