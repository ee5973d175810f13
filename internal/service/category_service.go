package service

import (
	"context"
	"errors"
	"strings"

	"go-storefront/internal/listquery"
	"go-storefront/internal/model"
	"go-storefront/internal/repository"

	"gorm.io/gorm"
)

type CategoryRequest struct {
	Name string `json:"name" validate:"required,min=2,max=20"`
	Slug string `json:"slug" validate:"required,min=2,max=20"`
}

type CategoryService interface {
	List(ctx context.Context, p listquery.Params) (listquery.Page[model.Category], error)
	Get(ctx context.Context, id uint) (*model.Category, error)
	Create(ctx context.Context, req *CategoryRequest, actor Actor) (*model.Category, error)
	Update(ctx context.Context, id uint, req *CategoryRequest, actor Actor) (*model.Category, error)
	Delete(ctx context.Context, id uint, actor Actor) error
	DeleteMany(ctx context.Context, ids []uint, actor Actor) error
}

type categoryService struct {
	repo repository.CategoryRepository
	feed *ChangeFeed
}

func NewCategoryService(repo repository.CategoryRepository, feed *ChangeFeed) CategoryService {
	return &categoryService{repo: repo, feed: feed}
}

func (s *categoryService) List(ctx context.Context, p listquery.Params) (listquery.Page[model.Category], error) {
	return s.repo.List(ctx, p)
}

func (s *categoryService) Get(ctx context.Context, id uint) (*model.Category, error) {
	category, err := s.repo.FindByID(ctx, id)
	return category, translate(err)
}

func (s *categoryService) Create(ctx context.Context, req *CategoryRequest, actor Actor) (*model.Category, error) {
	req.normalize()
	if err := s.check(ctx, req, 0); err != nil {
		return nil, err
	}

	category := &model.Category{Name: req.Name, Slug: req.Slug}
	if err := s.repo.Create(ctx, category); err != nil {
		return nil, s.conflict(ctx, err, req, 0)
	}

	s.feed.changed(ctx, actor, "categories", actionCreated, []uint{category.ID}, category.Name)
	return category, nil
}

func (s *categoryService) Update(ctx context.Context, id uint, req *CategoryRequest, actor Actor) (*model.Category, error) {
	category, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, translate(err)
	}

	req.normalize()
	if err := s.check(ctx, req, id); err != nil {
		return nil, err
	}

	category.Name = req.Name
	category.Slug = req.Slug
	if err := s.repo.Update(ctx, category); err != nil {
		return nil, s.conflict(ctx, err, req, id)
	}

	s.feed.changed(ctx, actor, "categories", actionUpdated, []uint{id}, category.Name)
	return category, nil
}

func (s *categoryService) Delete(ctx context.Context, id uint, actor Actor) error {
	return s.DeleteMany(ctx, []uint{id}, actor)
}

func (s *categoryService) DeleteMany(ctx context.Context, ids []uint, actor Actor) error {
	if len(ids) == 0 {
		return NewValidationError().Add("ids", "The ids field is required.")
	}
	if err := s.repo.DeleteMany(ctx, ids); err != nil {
		return translate(err)
	}
	s.feed.changed(ctx, actor, "categories", actionDeleted, ids, "")
	return nil
}

// check validates the request and the unique name/slug rules, skipping the
// category being updated.
func (s *categoryService) check(ctx context.Context, req *CategoryRequest, excludeID uint) error {
	tagErrs := validate(req)
	unique := NewValidationError()

	for field, value := range map[string]string{"name": req.Name, "slug": req.Slug} {
		if value == "" || (tagErrs != nil && len(tagErrs.Errors[field]) > 0) {
			continue
		}
		taken, err := s.repo.ExistsBy(ctx, field, value, excludeID)
		if err != nil {
			return err
		}
		if taken {
			unique.Add(field, takenMessage(field))
		}
	}
	return merge(tagErrs, unique)
}

func (r *CategoryRequest) normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Slug = strings.TrimSpace(r.Slug)
}

// conflict handles a write rejected by a unique index after check passed,
// i.e. a concurrent writer took the value. Re-running check names the field
// that collided.
func (s *categoryService) conflict(ctx context.Context, err error, req *CategoryRequest, excludeID uint) error {
	if !errors.Is(err, gorm.ErrDuplicatedKey) {
		return translate(err)
	}
	if verr := s.check(ctx, req, excludeID); verr != nil {
		return verr
	}
	return translate(err)
}
