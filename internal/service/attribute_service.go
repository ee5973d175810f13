package service

import (
	"context"
	"strings"

	"go-storefront/internal/listquery"
	"go-storefront/internal/model"
	"go-storefront/internal/repository"
)

type AttributeRequest struct {
	Name string `json:"name" validate:"required,min=2,max=30"`
}

type AttributeService interface {
	List(ctx context.Context, p listquery.Params) (listquery.Page[model.Attribute], error)
	Get(ctx context.Context, id uint) (*model.Attribute, error)
	Create(ctx context.Context, req *AttributeRequest, actor Actor) (*model.Attribute, error)
	Update(ctx context.Context, id uint, req *AttributeRequest, actor Actor) (*model.Attribute, error)
	Delete(ctx context.Context, id uint, actor Actor) error
}

type attributeService struct {
	repo repository.AttributeRepository
	feed *ChangeFeed
}

func NewAttributeService(repo repository.AttributeRepository, feed *ChangeFeed) AttributeService {
	return &attributeService{repo: repo, feed: feed}
}

func (s *attributeService) List(ctx context.Context, p listquery.Params) (listquery.Page[model.Attribute], error) {
	return s.repo.List(ctx, p)
}

func (s *attributeService) Get(ctx context.Context, id uint) (*model.Attribute, error) {
	attribute, err := s.repo.FindByID(ctx, id)
	return attribute, translate(err)
}

func (s *attributeService) Create(ctx context.Context, req *AttributeRequest, actor Actor) (*model.Attribute, error) {
	req.Name = strings.TrimSpace(req.Name)
	if err := s.check(ctx, req, 0); err != nil {
		return nil, err
	}

	attribute := &model.Attribute{Name: req.Name}
	if err := s.repo.Create(ctx, attribute); err != nil {
		return nil, duplicate(err, "name")
	}
	s.feed.changed(ctx, actor, "attributes", actionCreated, []uint{attribute.ID}, attribute.Name)
	return attribute, nil
}

func (s *attributeService) Update(ctx context.Context, id uint, req *AttributeRequest, actor Actor) (*model.Attribute, error) {
	attribute, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, translate(err)
	}

	req.Name = strings.TrimSpace(req.Name)
	if err := s.check(ctx, req, id); err != nil {
		return nil, err
	}

	attribute.Name = req.Name
	if err := s.repo.Update(ctx, attribute); err != nil {
		return nil, duplicate(err, "name")
	}
	s.feed.changed(ctx, actor, "attributes", actionUpdated, []uint{id}, attribute.Name)
	return attribute, nil
}

// Delete is refused with ErrInUse while variants still use the attribute
func (s *attributeService) Delete(ctx context.Context, id uint, actor Actor) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return translate(err)
	}
	s.feed.changed(ctx, actor, "attributes", actionDeleted, []uint{id}, "")
	return nil
}

func (s *attributeService) check(ctx context.Context, req *AttributeRequest, excludeID uint) error {
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
