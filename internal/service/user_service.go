package service

import (
	"errors"
	"strings"

	"go-storefront/internal/model"
	"go-storefront/internal/repository"

	"github.com/google/uuid"
)

// UserService manages the signed-in user's own profile and customer sign-up
type UserService interface {
	Register(req *RegisterRequest) (*model.User, error)
	GetProfile(userID uuid.UUID) (*model.UserResponse, error)
	UpdateProfile(userID uuid.UUID, req *ProfileRequest) (*model.UserResponse, error)
}

type RegisterRequest struct {
	Name     string `json:"name" validate:"required,max=255"`
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=6"`
}

type ProfileRequest struct {
	Name     string  `json:"name" validate:"required,max=255"`
	Email    string  `json:"email" validate:"required,email,max=255"`
	Password *string `json:"password,omitempty" validate:"omitempty,min=6"`
}

type userService struct {
	userRepo repository.UserRepository
	roleRepo repository.RoleRepository
}

func NewUserService(userRepo repository.UserRepository, roleRepo repository.RoleRepository) UserService {
	return &userService{
		userRepo: userRepo,
		roleRepo: roleRepo,
	}
}

func (s *userService) Register(req *RegisterRequest) (*model.User, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	errs := validate(req)
	if errs == nil {
		errs = NewValidationError()
	}
	if _, bad := errs.Errors["email"]; !bad {
		if taken, err := s.userRepo.ExistsByEmail(req.Email, uuid.Nil); err != nil {
			return nil, err
		} else if taken {
			errs.Add("email", takenMessage("email"))
		}
	}
	if !errs.Empty() {
		return nil, errs
	}

	role, err := s.roleRepo.FindByCode(model.RoleCustomer)
	if err != nil {
		return nil, errors.New("customer role not seeded")
	}

	user := &model.User{
		Email:    req.Email,
		Name:     req.Name,
		RoleID:   &role.ID,
		IsActive: true,
	}
	user.CreatedBy = req.Email
	user.UpdatedBy = req.Email
	if err := user.SetPassword(req.Password); err != nil {
		return nil, errors.New("failed to hash password")
	}
	if err := s.userRepo.Create(user); err != nil {
		return nil, duplicate(err, "email")
	}
	return user, nil
}

func (s *userService) GetProfile(userID uuid.UUID) (*model.UserResponse, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		return nil, ErrUserNotFound
	}
	response := user.ToResponse()
	return &response, nil
}

func (s *userService) UpdateProfile(userID uuid.UUID, req *ProfileRequest) (*model.UserResponse, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		return nil, ErrUserNotFound
	}

	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	errs := validate(req)
	if errs == nil {
		errs = NewValidationError()
	}
	if _, bad := errs.Errors["email"]; !bad {
		if taken, err := s.userRepo.ExistsByEmail(req.Email, user.ID); err != nil {
			return nil, err
		} else if taken {
			errs.Add("email", takenMessage("email"))
		}
	}
	if !errs.Empty() {
		return nil, errs
	}

	user.Name = req.Name
	user.Email = req.Email
	user.UpdatedBy = user.Email
	if req.Password != nil && *req.Password != "" {
		if err := user.SetPassword(*req.Password); err != nil {
			return nil, errors.New("failed to hash password")
		}
	}

	if err := s.userRepo.Update(user); err != nil {
		return nil, duplicate(err, "email")
	}
	response := user.ToResponse()
	return &response, nil
}
