package service

import (
	"context"
	"net/url"
	"strconv"

	"go-storefront/internal/catalog"
	"go-storefront/internal/listquery"
	"go-storefront/internal/model"
	"go-storefront/internal/repository"
)

// StorefrontService serves the public catalog; reads go through the
// storefront cache.
type StorefrontService interface {
	Categories(ctx context.Context) ([]model.Category, error)
	Products(ctx context.Context, p listquery.Params, categorySlug string) (listquery.Page[catalog.ProductResource], error)
	Product(ctx context.Context, slug string) (*catalog.ProductResource, error)
}

type storefrontService struct {
	products   repository.ProductRepository
	categories repository.CategoryRepository
	shaper     *catalog.Shaper
	cache      *StorefrontCache
}

func NewStorefrontService(products repository.ProductRepository, categories repository.CategoryRepository, shaper *catalog.Shaper, cache *StorefrontCache) StorefrontService {
	return &storefrontService{products: products, categories: categories, shaper: shaper, cache: cache}
}

func (s *storefrontService) Categories(ctx context.Context) ([]model.Category, error) {
	return remember(ctx, s.cache, func() ([]model.Category, error) {
		return s.categories.FindAll(ctx)
	}, "categories", nil)
}

func (s *storefrontService) Products(ctx context.Context, p listquery.Params, categorySlug string) (listquery.Page[catalog.ProductResource], error) {
	load := func() (listquery.Page[catalog.ProductResource], error) {
		var filter repository.ProductFilter
		if categorySlug != "" {
			category, err := s.categories.FindBySlug(ctx, categorySlug)
			if err != nil {
				return listquery.Page[catalog.ProductResource]{}, translate(err)
			}
			filter.CategoryID = category.ID
		}

		page, err := s.products.List(ctx, p, filter, model.RelCategory, model.RelTags, model.RelMedia)
		if err != nil {
			return listquery.Page[catalog.ProductResource]{}, err
		}
		return shapePage(s.shaper, catalog.ListView, page)
	}

	query := url.Values{
		"category": {categorySlug},
		"page":     {strconv.Itoa(p.Page)},
		"sort":     {p.Sort},
		"search":   {p.Search},
		"all":      {strconv.FormatBool(p.All)},
	}
	return remember(ctx, s.cache, load, "products", query)
}

func (s *storefrontService) Product(ctx context.Context, slug string) (*catalog.ProductResource, error) {
	return remember(ctx, s.cache, func() (*catalog.ProductResource, error) {
		product, err := s.products.FindBySlug(ctx, slug, model.AllRelations...)
		if err != nil {
			return nil, translate(err)
		}
		return shapeOne(s.shaper, catalog.DetailView, product)
	}, "product", url.Values{"slug": {slug}})
}
