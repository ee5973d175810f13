package service

import (
	"context"
	"strings"

	"go-storefront/internal/listquery"
	"go-storefront/internal/model"
	"go-storefront/internal/repository"
)

type TagRequest struct {
	Name string `json:"name" validate:"required,min=2,max=30"`
}

type TagService interface {
	List(ctx context.Context, p listquery.Params) (listquery.Page[model.Tag], error)
	Get(ctx context.Context, id uint) (*model.Tag, error)
	Create(ctx context.Context, req *TagRequest, actor Actor) (*model.Tag, error)
	Update(ctx context.Context, id uint, req *TagRequest, actor Actor) (*model.Tag, error)
	Delete(ctx context.Context, id uint, actor Actor) error
	DeleteMany(ctx context.Context, ids []uint, actor Actor) error
}

type tagService struct {
	repo repository.TagRepository
	feed *ChangeFeed
}

func NewTagService(repo repository.TagRepository, feed *ChangeFeed) TagService {
	return &tagService{repo: repo, feed: feed}
}

func (s *tagService) List(ctx context.Context, p listquery.Params) (listquery.Page[model.Tag], error) {
	return s.repo.List(ctx, p)
}

func (s *tagService) Get(ctx context.Context, id uint) (*model.Tag, error) {
	tag, err := s.repo.FindByID(ctx, id)
	return tag, translate(err)
}

func (s *tagService) Create(ctx context.Context, req *TagRequest, actor Actor) (*model.Tag, error) {
	req.Name = strings.TrimSpace(req.Name)
	if err := s.check(ctx, req, 0); err != nil {
		return nil, err
	}

	tag := &model.Tag{Name: req.Name}
	if err := s.repo.Create(ctx, tag); err != nil {
		return nil, duplicate(err, "name")
	}
	s.feed.changed(ctx, actor, "tags", actionCreated, []uint{tag.ID}, tag.Name)
	return tag, nil
}

func (s *tagService) Update(ctx context.Context, id uint, req *TagRequest, actor Actor) (*model.Tag, error) {
	tag, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, translate(err)
	}

	req.Name = strings.TrimSpace(req.Name)
	if err := s.check(ctx, req, id); err != nil {
		return nil, err
	}

	tag.Name = req.Name
	if err := s.repo.Update(ctx, tag); err != nil {
		return nil, duplicate(err, "name")
	}
	s.feed.changed(ctx, actor, "tags", actionUpdated, []uint{id}, tag.Name)
	return tag, nil
}

func (s *tagService) Delete(ctx context.Context, id uint, actor Actor) error {
	return s.DeleteMany(ctx, []uint{id}, actor)
}

func (s *tagService) DeleteMany(ctx context.Context, ids []uint, actor Actor) error {
	if len(ids) == 0 {
		return NewValidationError().Add("ids", "The ids field is required.")
	}
	if err := s.repo.DeleteMany(ctx, ids); err != nil {
		return translate(err)
	}
	s.feed.changed(ctx, actor, "tags", actionDeleted, ids, "")
	return nil
}

func (s *tagService) check(ctx context.Context, req *TagRequest, excludeID uint) error {
	if errs := validate(req); errs != nil {
		return errs
	}
	taken, err := s.repo.ExistsBy(ctx, "name", req.Name, excludeID)
	if err != nil {
		return err
	}
	if taken {
		return NewValidationError().Add("name", takenMessage("name"))
	}
	return nil
}
