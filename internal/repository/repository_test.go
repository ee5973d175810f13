package repository

import (
	"context"
	"testing"

	"go-storefront/internal/listquery"
	"go-storefront/internal/model"
	"go-storefront/internal/testutil"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fixture struct {
	db         *gorm.DB
	categories CategoryRepository
	tags       TagRepository
	attributes AttributeRepository
	products   ProductRepository
}

func newFixture(t *testing.T) *fixture {
	db := testutil.NewDB(t)
	return &fixture{
		db:         db,
		categories: NewCategoryRepo(db, 10),
		tags:       NewTagRepo(db, 10),
		attributes: NewAttributeRepo(db, 10),
		products:   NewProductRepo(db, 10),
	}
}

func (f *fixture) category(t *testing.T, name string) *model.Category {
	c := &model.Category{Name: name, Slug: name}
	require.NoError(t, f.categories.Create(context.Background(), c))
	return c
}

func (f *fixture) tag(t *testing.T, name string) *model.Tag {
	tag := &model.Tag{Name: name}
	require.NoError(t, f.tags.Create(context.Background(), tag))
	return tag
}

func (f *fixture) attribute(t *testing.T, name string) *model.Attribute {
	a := &model.Attribute{Name: name}
	require.NoError(t, f.attributes.Create(context.Background(), a))
	return a
}

func (f *fixture) product(t *testing.T, name string, categoryID *uint, links ProductLinks) *model.Product {
	p := &model.Product{Name: name, Slug: name, Price: decimal.NewFromInt(10), Quantity: 5, CategoryID: categoryID}
	require.NoError(t, f.products.Create(context.Background(), p, links))
	return p
}

func TestCategoryExistsBySelfExclusion(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	books := f.category(t, "books")
	f.category(t, "boots")

	taken, err := f.categories.ExistsBy(ctx, "name", "books", 0)
	require.NoError(t, err)
	assert.True(t, taken)

	taken, err = f.categories.ExistsBy(ctx, "name", "books", books.ID)
	require.NoError(t, err)
	assert.False(t, taken)

	taken, err = f.categories.ExistsBy(ctx, "slug", "boots", books.ID)
	require.NoError(t, err)
	assert.True(t, taken)
}

func TestCategoryDeleteManyIsAllOrNothing(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	a := f.category(t, "aa")
	b := f.category(t, "bb")
	c := f.category(t, "cc")

	err := f.categories.DeleteMany(ctx, []uint{a.ID, 999})
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	f.product(t, "tee", &c.ID, ProductLinks{})
	err = f.categories.DeleteMany(ctx, []uint{a.ID, c.ID})
	assert.ErrorIs(t, err, ErrInUse)

	count, err := f.categories.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)

	require.NoError(t, f.categories.DeleteMany(ctx, []uint{a.ID, b.ID}))
	page, err := f.categories.List(ctx, listquery.Params{Page: 1})
	require.NoError(t, err)
	require.Len(t, page.Data, 1)
	assert.Equal(t, c.ID, page.Data[0].ID)
}

func TestProductLoadsOnlyRequestedRelations(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	cat := f.category(t, "shirts")
	cotton := f.tag(t, "cotton")
	sale := f.tag(t, "sale")
	p := f.product(t, "tee", &cat.ID, ProductLinks{TagIDs: []uint{sale.ID, cotton.ID}})
	f.product(t, "plain", nil, ProductLinks{})

	page, err := f.products.List(ctx, listquery.Params{Page: 1}, ProductFilter{}, model.RelCategory, model.RelTags)
	require.NoError(t, err)
	require.Len(t, page.Data, 2)

	tee := page.Data[0]
	assert.Equal(t, p.ID, tee.ID)
	assert.True(t, tee.Loaded.Has(model.RelCategory))
	assert.True(t, tee.Loaded.Has(model.RelTags))
	assert.False(t, tee.Loaded.Has(model.RelVariants))
	require.NotNil(t, tee.Category)
	assert.Equal(t, "shirts", tee.Category.Name)
	require.Len(t, tee.Tags, 2)
	assert.Equal(t, "cotton", tee.Tags[0].Name)

	plain := page.Data[1]
	assert.NotNil(t, plain.Tags)
	assert.Empty(t, plain.Tags)

	bare, err := f.products.FindByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Empty(t, bare.Loaded)
	assert.Nil(t, bare.Tags)
}

func TestProductListFiltersByCategory(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	shirts := f.category(t, "shirts")
	hats := f.category(t, "hats")
	f.product(t, "tee", &shirts.ID, ProductLinks{})
	f.product(t, "cap", &hats.ID, ProductLinks{})

	page, err := f.products.List(ctx, listquery.Params{Page: 1}, ProductFilter{CategoryID: hats.ID})
	require.NoError(t, err)
	require.Len(t, page.Data, 1)
	assert.Equal(t, "cap", page.Data[0].Name)
	assert.Equal(t, int64(1), page.Meta.Total)
}

func TestProductVariantsBringAttributes(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	color := f.attribute(t, "Color")
	p := f.product(t, "tee", nil, ProductLinks{AttributeIDs: []uint{color.ID}})

	variant := &model.Variant{
		ProductID:       p.ID,
		Price:           decimal.NewFromInt(12),
		Quantity:        3,
		AttributeValues: []model.VariantAttribute{{AttributeID: color.ID, Value: "Red"}},
	}
	require.NoError(t, f.products.CreateVariant(ctx, variant))

	got, err := f.products.FindBySlug(ctx, "tee", model.RelVariants)
	require.NoError(t, err)
	assert.True(t, got.Loaded.Has(model.RelAttributes))
	require.Len(t, got.Variants, 1)
	require.Len(t, got.Variants[0].AttributeValues, 1)
	assert.Equal(t, "Red", got.Variants[0].AttributeValues[0].Value)
	name, ok := got.AttributeName(color.ID)
	assert.True(t, ok)
	assert.Equal(t, "Color", name)

	variant.AttributeValues = []model.VariantAttribute{{AttributeID: color.ID, Value: "Blue"}}
	require.NoError(t, f.products.UpdateVariant(ctx, variant))
	updated, err := f.products.FindVariant(ctx, p.ID, variant.ID)
	require.NoError(t, err)
	assert.Equal(t, "Blue", updated.AttributeValues[0].Value)

	err = f.attributes.Delete(ctx, color.ID)
	assert.ErrorIs(t, err, ErrInUse)

	require.NoError(t, f.products.DeleteVariant(ctx, p.ID, variant.ID))
	_, err = f.products.FindVariant(ctx, p.ID, variant.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestProductUpdateReplacesLinks(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	a := f.tag(t, "aa")
	b := f.tag(t, "bb")
	p := f.product(t, "tee", nil, ProductLinks{TagIDs: []uint{a.ID}})

	p.Name = "tee shirt"
	require.NoError(t, f.products.Update(ctx, p, ProductLinks{TagIDs: []uint{b.ID}}))

	got, err := f.products.FindByID(ctx, p.ID, model.RelTags)
	require.NoError(t, err)
	assert.Equal(t, "tee shirt", got.Name)
	require.Len(t, got.Tags, 1)
	assert.Equal(t, "bb", got.Tags[0].Name)

	require.NoError(t, f.products.Update(ctx, p, ProductLinks{}))
	got, err = f.products.FindByID(ctx, p.ID, model.RelTags)
	require.NoError(t, err)
	assert.Len(t, got.Tags, 1)
}

func TestProductMediaPositions(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	p := f.product(t, "tee", nil, ProductLinks{})

	first, err := f.products.AddMedia(ctx, p.ID, []model.Media{{FileName: "a.png", Path: "a"}, {FileName: "b.png", Path: "b"}})
	require.NoError(t, err)
	more, err := f.products.AddMedia(ctx, p.ID, []model.Media{{FileName: "c.png", Path: "c"}})
	require.NoError(t, err)

	assert.Equal(t, 0, first[0].Position)
	assert.Equal(t, 1, first[1].Position)
	assert.Equal(t, 2, more[0].Position)

	_, err = f.products.AddMedia(ctx, 999, []model.Media{{FileName: "x.png", Path: "x"}})
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestProductDeleteManyRemovesOwnedRows(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	color := f.attribute(t, "Color")
	tag := f.tag(t, "sale")
	p := f.product(t, "tee", nil, ProductLinks{TagIDs: []uint{tag.ID}, AttributeIDs: []uint{color.ID}})
	keep := f.product(t, "cap", nil, ProductLinks{TagIDs: []uint{tag.ID}})

	_, err := f.products.AddMedia(ctx, p.ID, []model.Media{{FileName: "a.png", Path: "products/1/a.png"}})
	require.NoError(t, err)
	require.NoError(t, f.products.CreateVariant(ctx, &model.Variant{
		ProductID:       p.ID,
		AttributeValues: []model.VariantAttribute{{AttributeID: color.ID, Value: "Red"}},
	}))
	require.NoError(t, f.db.Create(&model.Discount{ProductID: p.ID, Name: "x", Type: model.DiscountFixed, Value: decimal.NewFromInt(1)}).Error)

	_, err = f.products.DeleteMany(ctx, []uint{p.ID, 12345})
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	files, err := f.products.DeleteMany(ctx, []uint{p.ID})
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, "products/1/a.png", files[0].Path)

	for _, m := range []any{&model.Variant{}, &model.VariantAttribute{}, &model.Media{}, &model.Discount{}, &model.ProductAttribute{}} {
		var n int64
		require.NoError(t, f.db.Model(m).Count(&n).Error)
		assert.Zero(t, n, "%T", m)
	}

	got, err := f.products.FindByID(ctx, keep.ID, model.RelTags)
	require.NoError(t, err)
	assert.Len(t, got.Tags, 1)
}

func TestTagDeleteManyDetaches(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	tag := f.tag(t, "sale")
	p := f.product(t, "tee", nil, ProductLinks{TagIDs: []uint{tag.ID}})

	require.NoError(t, f.tags.DeleteMany(ctx, []uint{tag.ID}))

	got, err := f.products.FindByID(ctx, p.ID, model.RelTags)
	require.NoError(t, err)
	assert.Empty(t, got.Tags)
}

func TestDashboardStats(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.category(t, "aa")
	f.tag(t, "bb")
	f.product(t, "tee", nil, ProductLinks{})

	stats, err := NewOrderRepo(f.db, 10).GetDashboardStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, &DashboardStats{Categories: 1, Products: 1, Tags: 1}, stats)
}

func TestSeedRolesIsRepeatable(t *testing.T) {
	db := testutil.NewDB(t)
	privileges := NewPrivilegeRepo(db)
	roles := NewRoleRepo(db)

	for i := 0; i < 2; i++ {
		require.NoError(t, privileges.SeedDefaults())
		require.NoError(t, roles.SeedDefaults())
	}

	all, err := privileges.FindAll()
	require.NoError(t, err)
	assert.Len(t, all, len(model.DefaultPrivileges))

	seeded, err := roles.FindAll()
	require.NoError(t, err)
	require.Len(t, seeded, len(model.DefaultRoles))

	granted := map[string]int{}
	for _, r := range seeded {
		granted[r.Code] = len(r.Privileges)
	}
	assert.Equal(t, len(model.DefaultPrivileges), granted[model.RoleAdmin])
	assert.Equal(t, len(model.DefaultRolePrivilegeCodes(model.RoleEditor)), granted[model.RoleEditor])
	assert.Zero(t, granted[model.RoleCustomer])
}

func TestRoleSeedNeedsPrivileges(t *testing.T) {
	db := testutil.NewDB(t)
	assert.Error(t, NewRoleRepo(db).SeedDefaults())
}

func TestUserEmailLookupIgnoresCase(t *testing.T) {
	db := testutil.NewDB(t)
	users := NewUserRepo(db)
	u := &model.User{Email: "shop@example.com", Name: "Shop", IsActive: true}
	require.NoError(t, u.SetPassword("secret123"))
	require.NoError(t, users.Create(u))

	got, err := users.FindByEmail(" Shop@Example.com ")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	taken, err := users.ExistsByEmail("SHOP@example.com", uuid.Nil)
	require.NoError(t, err)
	assert.True(t, taken)

	taken, err = users.ExistsByEmail("shop@example.com", u.ID)
	require.NoError(t, err)
	assert.False(t, taken)
}
