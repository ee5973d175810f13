package service

import (
	"errors"
	"log"
	"strings"

	"github.com/google/uuid"

	"go-storefront/internal/model"
	"go-storefront/internal/repository"
	"go-storefront/pkg/jwt"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUserNotFound       = errors.New("user not found")
	ErrUserInactive       = errors.New("user account is inactive")
)

type AuthService interface {
	Login(req *LoginRequest) (*LoginResponse, error)
	Authenticate(tokenString string) (*model.User, error)
	Me(userID uuid.UUID) (*TokenValidationResponse, error)
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	Token      string             `json:"token"`
	User       model.UserResponse `json:"user"`
	Role       *model.Role        `json:"role"`
	Privileges []string           `json:"privileges"`
}

type TokenValidationResponse struct {
	User       model.UserResponse `json:"user"`
	Role       *model.Role        `json:"role"`
	Privileges []string           `json:"privileges"`
}

type authService struct {
	userRepo repository.UserRepository
	signer   *jwt.Signer
}

func NewAuthService(userRepo repository.UserRepository, signer *jwt.Signer) AuthService {
	return &authService{
		userRepo: userRepo,
		signer:   signer,
	}
}

func (s *authService) Login(req *LoginRequest) (*LoginResponse, error) {
	req.Email = strings.TrimSpace(req.Email)
	if errs := validate(req); errs != nil {
		return nil, errs
	}

	user, err := s.userRepo.FindByEmail(req.Email)
	if err != nil {
		return nil, ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, ErrUserInactive
	}
	if !user.CheckPassword(req.Password) {
		return nil, ErrInvalidCredentials
	}

	roleCode := ""
	if user.Role != nil {
		roleCode = user.Role.Code
	}

	token, err := s.signer.GenerateToken(user.ID, user.Email, user.Name, roleCode, user.GetPrivilegeCodes())
	if err != nil {
		return nil, errors.New("failed to generate token")
	}

	if err := s.userRepo.UpdateLastSeen(user.ID); err != nil {
		log.Printf("auth: failed to record last seen for %s: %v", user.ID, err)
	}

	return &LoginResponse{
		Token:      token,
		User:       user.ToResponse(),
		Role:       user.Role,
		Privileges: user.GetPrivilegeCodes(),
	}, nil
}

// Authenticate resolves a bearer token to an active user with role and
// privileges loaded. Privileges come from the database, not the token, so
// role changes apply without a new login.
func (s *authService) Authenticate(tokenString string) (*model.User, error) {
	claims, err := s.signer.ValidateToken(tokenString)
	if err != nil {
		return nil, ErrUnauthenticated
	}
	user, err := s.userRepo.FindByID(claims.UserID)
	if err != nil || !user.IsActive {
		return nil, ErrUnauthenticated
	}
	return user, nil
}

func (s *authService) Me(userID uuid.UUID) (*TokenValidationResponse, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		return nil, ErrUserNotFound
	}
	return &TokenValidationResponse{
		User:       user.ToResponse(),
		Role:       user.Role,
		Privileges: user.GetPrivilegeCodes(),
	}, nil
}
