package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/avelkov/eshop-api/internal/hash"
	"github.com/avelkov/eshop-api/internal/models"
	"github.com/avelkov/eshop-api/internal/repo"
	"github.com/avelkov/eshop-api/internal/tokens"
	"github.com/avelkov/eshop-api/internal/transport"
)

// ErrInvalidCredentials covers both an unknown email and a wrong password so
// login failures stay indistinguishable to the caller.
var ErrInvalidCredentials = errors.New("invalid credentials")

type UserService struct {
	Repo      *repo.GormRepo
	JWTSecret []byte
}

func (s *UserService) List(ctx context.Context) ([]models.User, error) {
	return s.Repo.ListUsers(ctx)
}

func (s *UserService) Get(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return s.Repo.GetUser(ctx, id)
}

// Register stores a bcrypt hash; the raw password is never persisted.
func (s *UserService) Register(ctx context.Context, req transport.RegisterRequest) (*models.User, error) {
	if req.Email == "" || req.Password == "" {
		return nil, fmt.Errorf("%w: email and password required", ErrValidation)
	}

	pwHash, err := hash.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: pwHash,
		Phone:        req.Phone,
		IsAdmin:      req.IsAdmin,
		Street:       req.Street,
		Apartment:    req.Apartment,
		Zip:          req.Zip,
		City:         req.City,
		Country:      req.Country,
	}
	return s.Repo.CreateUser(ctx, user)
}

// Update rehashes only when a new password is supplied; otherwise the stored
// hash is kept.
func (s *UserService) Update(ctx context.Context, id uuid.UUID, req transport.UpdateUserRequest) (*models.User, error) {
	user, err := s.Repo.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Password != nil && *req.Password != "" {
		pwHash, err := hash.HashPassword(*req.Password)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = pwHash
	}

	user.Name = req.Name
	user.Email = req.Email
	user.Phone = req.Phone
	user.IsAdmin = req.IsAdmin
	user.Street = req.Street
	user.Apartment = req.Apartment
	user.Zip = req.Zip
	user.City = req.City
	user.Country = req.Country

	return s.Repo.SaveUser(ctx, user)
}

func (s *UserService) Login(ctx context.Context, req transport.LoginRequest) (*transport.LoginResponse, error) {
	user, err := s.Repo.GetUserByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !hash.CheckPassword(user.PasswordHash, req.Password) {
		return nil, ErrInvalidCredentials
	}

	token, err := tokens.Sign(user.ID, user.IsAdmin, s.JWTSecret)
	if err != nil {
		return nil, err
	}
	return &transport.LoginResponse{User: user.Email, Token: token}, nil
}

func (s *UserService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.Repo.DeleteUser(ctx, id)
}

func (s *UserService) Count(ctx context.Context) (int64, error) {
	return s.Repo.CountUsers(ctx)
}
