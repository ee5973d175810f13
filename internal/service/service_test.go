package service

import (
	"context"
	"errors"
	"mime/multipart"
	"sync"
	"testing"
	"time"

	"go-storefront/internal/cache"
	"go-storefront/internal/catalog"
	"go-storefront/internal/listquery"
	"go-storefront/internal/media"
	"go-storefront/internal/model"
	"go-storefront/internal/repository"
	"go-storefront/internal/testutil"
	"go-storefront/internal/ws"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeStorage struct {
	mu      sync.Mutex
	deleted []string
}

func (s *fakeStorage) URL(m model.Media) string {
	return "http://cdn.test/storage/" + m.Path
}

func (s *fakeStorage) SaveImage(productID uint, fh *multipart.FileHeader) (media.StoredFile, error) {
	return media.StoredFile{FileName: fh.Filename, Path: "products/" + fh.Filename, MimeType: "image/png", Size: fh.Size}, nil
}

func (s *fakeStorage) Delete(relPath string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deleted = append(s.deleted, relPath)
	return nil
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []ws.Event
}

func (p *recordingPublisher) Publish(ev ws.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
}

func (p *recordingPublisher) last() ws.Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.events[len(p.events)-1]
}

type env struct {
	db         *gorm.DB
	storage    *fakeStorage
	publisher  *recordingPublisher
	cache      *StorefrontCache
	products   repository.ProductRepository
	categories CategoryService
	tags       TagService
	attributes AttributeService
	discounts  DiscountService
	catalog    ProductService
	storefront StorefrontService
	cart       CartService
	orders     OrderService
}

func newEnv(t *testing.T) *env {
	db := testutil.NewDB(t)
	e := &env{
		db:        db,
		storage:   &fakeStorage{},
		publisher: &recordingPublisher{},
		cache:     NewStorefrontCache(cache.NewMemory(), time.Minute),
	}
	feed := NewChangeFeed(e.publisher, e.cache)
	shaper := catalog.NewShaper(e.storage, catalog.NewFormatter("$"))

	categoryRepo := repository.NewCategoryRepo(db, 10)
	tagRepo := repository.NewTagRepo(db, 10)
	attributeRepo := repository.NewAttributeRepo(db, 10)
	cartRepo := repository.NewCartRepo(db)
	e.products = repository.NewProductRepo(db, 10)

	e.categories = NewCategoryService(categoryRepo, feed)
	e.tags = NewTagService(tagRepo, feed)
	e.attributes = NewAttributeService(attributeRepo, feed)
	e.discounts = NewDiscountService(repository.NewDiscountRepo(db, 10), e.products, feed)
	e.catalog = NewProductService(e.products, categoryRepo, tagRepo, attributeRepo, e.storage, shaper, feed)
	e.storefront = NewStorefrontService(e.products, categoryRepo, shaper, e.cache)
	e.cart = NewCartService(cartRepo, e.products)
	e.orders = NewOrderService(repository.NewOrderRepo(db, 10), e.products, cartRepo, db, feed)
	return e
}

var admin = Actor{Name: "Admin"}

func listParams(page int) listquery.Params {
	return listquery.Params{Page: page}
}

func (e *env) product(t *testing.T, req ProductRequest) *catalog.ProductResource {
	t.Helper()
	res, err := e.catalog.Create(context.Background(), &req, admin)
	require.NoError(t, err)
	return res
}

func validationErrors(t *testing.T, err error) map[string][]string {
	t.Helper()
	var verr *ValidationError
	require.True(t, errors.As(err, &verr), "expected validation error, got %v", err)
	return verr.Errors
}

func TestCategoryUniquenessExcludesSelf(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	shoes, err := e.categories.Create(ctx, &CategoryRequest{Name: " Shoes ", Slug: "shoes"}, admin)
	require.NoError(t, err)
	assert.Equal(t, "Shoes", shoes.Name)

	_, err = e.categories.Create(ctx, &CategoryRequest{Name: "Shoes", Slug: "other"}, admin)
	errs := validationErrors(t, err)
	assert.Equal(t, []string{"The name has already been taken."}, errs["name"])
	assert.NotContains(t, errs, "slug")

	updated, err := e.categories.Update(ctx, shoes.ID, &CategoryRequest{Name: "Shoes", Slug: "shoes-2"}, admin)
	require.NoError(t, err)
	assert.Equal(t, "shoes-2", updated.Slug)

	_, err = e.categories.Update(ctx, 999, &CategoryRequest{Name: "Hats", Slug: "hats"}, admin)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCategoryValidationReportsEveryField(t *testing.T) {
	e := newEnv(t)

	_, err := e.categories.Create(context.Background(), &CategoryRequest{Name: "", Slug: "x"}, admin)
	errs := validationErrors(t, err)
	assert.Contains(t, errs, "name")
	assert.Contains(t, errs, "slug")
}

func TestCategoryDeleteBlockedWhileReferenced(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	used, err := e.categories.Create(ctx, &CategoryRequest{Name: "Used", Slug: "used"}, admin)
	require.NoError(t, err)
	free, err := e.categories.Create(ctx, &CategoryRequest{Name: "Free", Slug: "free"}, admin)
	require.NoError(t, err)
	e.product(t, ProductRequest{Name: "Boot", Slug: "boot", CategoryID: &used.ID})

	err = e.categories.DeleteMany(ctx, []uint{used.ID, free.ID}, admin)
	assert.ErrorIs(t, err, ErrInUse)

	_, err = e.categories.Get(ctx, free.ID)
	assert.NoError(t, err, "bulk delete is all-or-nothing")

	require.NoError(t, e.categories.Delete(ctx, free.ID, admin))
	ev := e.publisher.last()
	assert.Equal(t, ws.EventCatalogUpdate, ev.Type)
	assert.Equal(t, "categories", ev.Resource)
	assert.Equal(t, "deleted", ev.Action)
	assert.Equal(t, []uint{free.ID}, ev.IDs)

	err = e.categories.DeleteMany(ctx, nil, admin)
	assert.Contains(t, validationErrors(t, err), "ids")
}

func TestProductRoundTrip(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	cat, err := e.categories.Create(ctx, &CategoryRequest{Name: "Shoes", Slug: "shoes"}, admin)
	require.NoError(t, err)
	tag, err := e.tags.Create(ctx, &TagRequest{Name: "summer"}, admin)
	require.NoError(t, err)
	size, err := e.attributes.Create(ctx, &AttributeRequest{Name: "Size"}, admin)
	require.NoError(t, err)

	res := e.product(t, ProductRequest{
		Name:        "Runner",
		Slug:        "runner",
		Description: "Light shoe",
		Price:       decimal.RequireFromString("1234.5"),
		Quantity:    3,
		CategoryID:  &cat.ID,
		Tags:        []uint{tag.ID},
		Attributes:  []uint{size.ID},
	})
	assert.Equal(t, "$1,234.50", res.Price)
	require.NotNil(t, res.Description)
	assert.Equal(t, "Light shoe", *res.Description)
	assert.Equal(t, &catalog.CategoryRef{ID: cat.ID, Name: "Shoes"}, res.Category)
	assert.Equal(t, []catalog.TagResource{{ID: tag.ID, Name: "summer"}}, res.Tags)
	assert.Equal(t, []catalog.AttributeResource{{ID: size.ID, Name: "Size"}}, res.Attributes)
	assert.NotNil(t, res.Variants)
	assert.Empty(t, res.Variants)

	withVariant, err := e.catalog.CreateVariant(ctx, res.ID, &VariantRequest{
		Price:    decimal.NewFromInt(20),
		Quantity: 1,
		Options:  []VariantOptionRequest{{AttributeID: size.ID, Value: "42"}},
	}, admin)
	require.NoError(t, err)
	require.Len(t, withVariant.Variants, 1)
	assert.Equal(t, "$20.00", withVariant.Variants[0].Price)
	assert.Equal(t, []catalog.OptionResource{{Name: "Size", Value: "42"}}, withVariant.Variants[0].Options)

	page, err := e.catalog.List(ctx, listParams(1))
	require.NoError(t, err)
	require.Len(t, page.Data, 1)
	assert.Equal(t, "summer", page.Data[0].Tags)
	assert.Nil(t, page.Data[0].Description)
	assert.Nil(t, page.Data[0].Variants)
}

func TestProductSlugTakenAndReferences(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	first := e.product(t, ProductRequest{Name: "Runner", Slug: "runner"})

	missing := uint(404)
	_, err := e.catalog.Create(ctx, &ProductRequest{
		Name:       "Other",
		Slug:       "runner",
		CategoryID: &missing,
		Tags:       []uint{7},
		Price:      decimal.NewFromInt(-1),
	}, admin)
	errs := validationErrors(t, err)
	assert.Equal(t, []string{"The slug has already been taken."}, errs["slug"])
	assert.Equal(t, []string{"The selected category id is invalid."}, errs["category_id"])
	assert.Equal(t, []string{"The selected tags is invalid."}, errs["tags"])
	assert.Contains(t, errs, "price")

	_, err = e.catalog.Update(ctx, first.ID, &ProductRequest{Name: "Runner II", Slug: "runner"}, admin)
	assert.NoError(t, err, "a product keeps its own slug")
}

func TestVariantOptionsMustUseProductAttributes(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	size, err := e.attributes.Create(ctx, &AttributeRequest{Name: "Size"}, admin)
	require.NoError(t, err)
	color, err := e.attributes.Create(ctx, &AttributeRequest{Name: "Color"}, admin)
	require.NoError(t, err)
	p := e.product(t, ProductRequest{Name: "Runner", Slug: "runner", Attributes: []uint{size.ID}})

	_, err = e.catalog.CreateVariant(ctx, p.ID, &VariantRequest{
		Options: []VariantOptionRequest{{AttributeID: color.ID, Value: "red"}},
	}, admin)
	assert.Contains(t, validationErrors(t, err), "options.0.attribute_id")

	_, err = e.catalog.CreateVariant(ctx, p.ID, &VariantRequest{
		Options: []VariantOptionRequest{
			{AttributeID: size.ID, Value: "41"},
			{AttributeID: size.ID, Value: "42"},
		},
	}, admin)
	assert.Equal(t, []string{"The attribute id field has a duplicate value."}, validationErrors(t, err)["options.1.attribute_id"])

	_, err = e.catalog.CreateVariant(ctx, p.ID, &VariantRequest{
		Options: []VariantOptionRequest{{AttributeID: size.ID, Value: "41"}},
	}, admin)
	require.NoError(t, err)

	_, err = e.catalog.Update(ctx, p.ID, &ProductRequest{Name: "Runner", Slug: "runner"}, admin)
	assert.Contains(t, validationErrors(t, err), "attributes")
}

func TestProductDeleteManyRemovesFiles(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	p := e.product(t, ProductRequest{Name: "Runner", Slug: "runner"})

	_, err := e.products.AddMedia(ctx, p.ID, []model.Media{{FileName: "a.png", Path: "products/a.png", MimeType: "image/png"}})
	require.NoError(t, err)

	require.NoError(t, e.catalog.DeleteMany(ctx, []uint{p.ID}, admin))
	assert.Equal(t, []string{"products/a.png"}, e.storage.deleted)

	_, err = e.catalog.Get(ctx, p.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDiscountRules(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	p := e.product(t, ProductRequest{Name: "Runner", Slug: "runner"})

	start := time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC)
	end := start.Add(-time.Hour)
	_, err := e.discounts.Create(ctx, &DiscountRequest{
		ProductID: p.ID,
		Name:      "Too much",
		Type:      "percentage",
		Value:     decimal.NewFromInt(150),
		StartsAt:  &start,
		EndsAt:    &end,
	}, admin)
	errs := validationErrors(t, err)
	assert.Contains(t, errs, "value")
	assert.Contains(t, errs, "ends_at")

	_, err = e.discounts.Create(ctx, &DiscountRequest{ProductID: 999, Name: "Ghost", Type: "fixed", Value: decimal.NewFromInt(1)}, admin)
	assert.Contains(t, validationErrors(t, err), "product_id")

	d, err := e.discounts.Create(ctx, &DiscountRequest{ProductID: p.ID, Name: "Spring", Type: "fixed", Value: decimal.NewFromInt(1)}, admin)
	require.NoError(t, err)
	assert.Equal(t, model.DiscountFixed, d.Type)
}

func TestStorefrontCacheInvalidatedByWrites(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	p := e.product(t, ProductRequest{Name: "Runner", Slug: "runner", Price: decimal.NewFromInt(10)})

	first, err := e.storefront.Product(ctx, "runner")
	require.NoError(t, err)
	assert.Equal(t, "Runner", first.Name)

	// a write behind the service's back is not seen while cached
	require.NoError(t, e.db.Model(&model.Product{}).Where("id = ?", p.ID).Update("name", "Sneaky").Error)
	cached, err := e.storefront.Product(ctx, "runner")
	require.NoError(t, err)
	assert.Equal(t, "Runner", cached.Name)

	_, err = e.catalog.Update(ctx, p.ID, &ProductRequest{Name: "Runner II", Slug: "runner", Price: decimal.NewFromInt(10)}, admin)
	require.NoError(t, err)

	fresh, err := e.storefront.Product(ctx, "runner")
	require.NoError(t, err)
	assert.Equal(t, "Runner II", fresh.Name)

	_, err = e.storefront.Product(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStorefrontProductsByCategory(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	cat, err := e.categories.Create(ctx, &CategoryRequest{Name: "Shoes", Slug: "shoes"}, admin)
	require.NoError(t, err)
	e.product(t, ProductRequest{Name: "Runner", Slug: "runner", CategoryID: &cat.ID})
	e.product(t, ProductRequest{Name: "Hat", Slug: "hat"})

	page, err := e.storefront.Products(ctx, listParams(1), "shoes")
	require.NoError(t, err)
	require.Len(t, page.Data, 1)
	assert.Equal(t, "runner", page.Data[0].Slug)

	_, err = e.storefront.Products(ctx, listParams(1), "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

// lateCategories hides existing rows from the first uniqueness pre-check,
// as if another request inserted them in between.
type lateCategories struct {
	repository.CategoryRepository
	blind int // ExistsBy calls still answered with false
}

func (r *lateCategories) ExistsBy(ctx context.Context, field, value string, excludeID uint) (bool, error) {
	if r.blind > 0 {
		r.blind--
		return false, nil
	}
	return r.CategoryRepository.ExistsBy(ctx, field, value, excludeID)
}

func TestCategoryStorageConflictNamesTheField(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	_, err := e.categories.Create(ctx, &CategoryRequest{Name: "Shoes", Slug: "shoes"}, admin)
	require.NoError(t, err)
	boots, err := e.categories.Create(ctx, &CategoryRequest{Name: "Boots", Slug: "boots"}, admin)
	require.NoError(t, err)

	late := &lateCategories{CategoryRepository: repository.NewCategoryRepo(e.db, 10)}
	racing := NewCategoryService(late, NewChangeFeed(nil, nil))

	late.blind = 2
	_, err = racing.Create(ctx, &CategoryRequest{Name: "Sandals", Slug: "shoes"}, admin)
	errs := validationErrors(t, err)
	assert.Equal(t, []string{"The slug has already been taken."}, errs["slug"])
	assert.NotContains(t, errs, "name")

	late.blind = 2
	_, err = racing.Update(ctx, boots.ID, &CategoryRequest{Name: "Shoes", Slug: "boots"}, admin)
	errs = validationErrors(t, err)
	assert.Equal(t, []string{"The name has already been taken."}, errs["name"])
	assert.NotContains(t, errs, "slug")
}

func TestStorefrontCacheKeysDoNotCollide(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	e.product(t, ProductRequest{Name: "Barrel bag", Slug: "barrel-bag"})

	page, err := e.storefront.Products(ctx, listquery.Params{Page: 1, Sort: "name:foo", Search: "bar"}, "")
	require.NoError(t, err)
	require.Len(t, page.Data, 1)

	page, err = e.storefront.Products(ctx, listquery.Params{Page: 1, Sort: "name", Search: "foo:bar"}, "")
	require.NoError(t, err)
	assert.Empty(t, page.Data, "a different query must not be served from another query's cache entry")
}

func checkoutRequest(items ...CheckoutItem) *CheckoutRequest {
	return &CheckoutRequest{
		Email: "buyer@example.com",
		Items: items,
		Addresses: []AddressRequest{
			{Type: "shipping", Name: "Buyer", Line1: "1 Main St", City: "Springfield", Country: "us"},
		},
	}
}

func TestCheckoutAppliesDiscountsAndDecrementsStock(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	p := e.product(t, ProductRequest{Name: "Runner", Slug: "runner", Price: decimal.NewFromInt(100), Quantity: 5})
	_, err := e.discounts.Create(ctx, &DiscountRequest{ProductID: p.ID, Name: "Ten", Type: "percentage", Value: decimal.NewFromInt(10)}, admin)
	require.NoError(t, err)
	_, err = e.discounts.Create(ctx, &DiscountRequest{ProductID: p.ID, Name: "Five off", Type: "fixed", Value: decimal.NewFromInt(5)}, admin)
	require.NoError(t, err)

	userID := uuid.New()
	_, err = e.cart.Add(ctx, userID, &CartRequest{ProductID: p.ID, Quantity: 1})
	require.NoError(t, err)

	order, err := e.orders.Checkout(ctx, checkoutRequest(CheckoutItem{ProductID: p.ID, Quantity: 2}), &userID)
	require.NoError(t, err)

	assert.True(t, decimal.NewFromInt(200).Equal(order.Subtotal))
	assert.True(t, decimal.NewFromInt(20).Equal(order.DiscountTotal))
	assert.True(t, decimal.NewFromInt(180).Equal(order.Total))
	require.Len(t, order.Items, 1)
	assert.True(t, decimal.NewFromInt(90).Equal(order.Items[0].UnitPrice))
	assert.Equal(t, "US", order.Addresses[0].Country)

	stored, err := e.products.FindByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, stored.Quantity)

	items, err := e.cart.Items(ctx, userID)
	require.NoError(t, err)
	assert.Empty(t, items)

	saved, err := e.orders.Get(ctx, order.ID)
	require.NoError(t, err)
	assert.Len(t, saved.Items, 1)
	assert.Len(t, saved.Addresses, 1)
}

func TestCheckoutInsufficientStockRollsBack(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	a := e.product(t, ProductRequest{Name: "Runner", Slug: "runner", Price: decimal.NewFromInt(10), Quantity: 5})
	b := e.product(t, ProductRequest{Name: "Hat", Slug: "hat", Price: decimal.NewFromInt(10), Quantity: 1})

	_, err := e.orders.Checkout(ctx, checkoutRequest(
		CheckoutItem{ProductID: a.ID, Quantity: 2},
		CheckoutItem{ProductID: b.ID, Quantity: 1},
		CheckoutItem{ProductID: b.ID, Quantity: 1},
	), nil)
	assert.ErrorIs(t, err, ErrInsufficientStock)

	stored, err := e.products.FindByID(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, stored.Quantity)

	var orders int64
	require.NoError(t, e.db.Model(&model.Order{}).Count(&orders).Error)
	assert.Zero(t, orders)
}

func TestCheckoutVariantStock(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	size, err := e.attributes.Create(ctx, &AttributeRequest{Name: "Size"}, admin)
	require.NoError(t, err)
	p := e.product(t, ProductRequest{Name: "Runner", Slug: "runner", Price: decimal.NewFromInt(10), Quantity: 9, Attributes: []uint{size.ID}})
	res, err := e.catalog.CreateVariant(ctx, p.ID, &VariantRequest{
		Price:    decimal.NewFromInt(15),
		Quantity: 2,
		Options:  []VariantOptionRequest{{AttributeID: size.ID, Value: "42"}},
	}, admin)
	require.NoError(t, err)
	variantID := res.Variants[0].ID

	order, err := e.orders.Checkout(ctx, checkoutRequest(CheckoutItem{ProductID: p.ID, VariantID: &variantID, Quantity: 2}), nil)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(30).Equal(order.Total))

	variant, err := e.products.FindVariant(ctx, p.ID, variantID)
	require.NoError(t, err)
	assert.Equal(t, 0, variant.Quantity)

	stored, err := e.products.FindByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 9, stored.Quantity, "product stock is untouched by variant purchases")

	other := uint(999)
	_, err = e.orders.Checkout(ctx, checkoutRequest(CheckoutItem{ProductID: p.ID, VariantID: &other, Quantity: 1}), nil)
	assert.Contains(t, validationErrors(t, err), "items.0.variant_id")
}

func TestCartMergesLinesAndChecksStock(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	p := e.product(t, ProductRequest{Name: "Runner", Slug: "runner", Quantity: 3})
	userID := uuid.New()

	first, err := e.cart.Add(ctx, userID, &CartRequest{ProductID: p.ID, Quantity: 1})
	require.NoError(t, err)
	second, err := e.cart.Add(ctx, userID, &CartRequest{ProductID: p.ID, Quantity: 2})
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 3, second.Quantity)

	_, err = e.cart.Add(ctx, userID, &CartRequest{ProductID: p.ID, Quantity: 1})
	assert.Contains(t, validationErrors(t, err), "quantity")

	_, err = e.cart.Get(ctx, uuid.New(), first.ID)
	assert.ErrorIs(t, err, ErrNotFound, "cart lines are private to their owner")
}

func TestDashboardCountsLowStock(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	e.product(t, ProductRequest{Name: "Runner", Slug: "runner", Quantity: 2})
	e.product(t, ProductRequest{Name: "Boot", Slug: "boot", Quantity: 5})
	e.product(t, ProductRequest{Name: "Sandal", Slug: "sandal", Quantity: 40})

	stats, err := NewDashboardService(repository.NewOrderRepo(e.db, 10), e.products, 0).GetDashboardStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), stats.Products)
	assert.Equal(t, int64(1), stats.LowStock, "only quantities under the default threshold count")

	stats, err = NewDashboardService(repository.NewOrderRepo(e.db, 10), e.products, 10).GetDashboardStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.LowStock)
}
