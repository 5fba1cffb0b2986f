package services

import (
	"context"
	"fmt"

	"brightnest-properties/internal/auth"
	"brightnest-properties/internal/models"
	"brightnest-properties/internal/repositories"
	"brightnest-properties/internal/validators"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
)

type UserService struct {
	repo      repositories.UserRepository
	validator validators.UserValidator
	jwtSecret string
}

func NewUserService(repo repositories.UserRepository, validator validators.UserValidator, jwtSecret string) *UserService {
	return &UserService{
		repo:      repo,
		validator: validator,
		jwtSecret: jwtSecret,
	}
}

func (s *UserService) Register(ctx context.Context, user *models.User) (*auth.TokenDetails, error) {
	if err := s.validator.ValidateRegister(user); err != nil {
		return nil, err
	}

	existingUser, err := s.repo.FindByEmail(ctx, user.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to check email existence: %v", err)
	}
	if existingUser != nil {
		return nil, fmt.Errorf("email already registered")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %v", err)
	}

	user.ID = primitive.NewObjectID()
	user.UserID = uuid.New().String()
	user.Password = string(hashedPassword)

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to register user: %v", err)
	}

	tokenDetails, err := auth.GenerateJWT(user.UserID, user.FullName, user.Email, user.Phone, s.jwtSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %v", err)
	}

	return tokenDetails, nil
}

func (s *UserService) Login(ctx context.Context, email, password string) (*auth.TokenDetails, error) {
	if err := s.validator.ValidateLogin(email, password); err != nil {
		return nil, err
	}

	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to query user: %v", err)
	}
	if user == nil {
		return nil, fmt.Errorf("invalid email or password")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, fmt.Errorf("invalid email or password")
	}

	tokenDetails, err := auth.GenerateJWT(user.UserID, user.FullName, user.Email, user.Phone, s.jwtSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %v", err)
	}

	return tokenDetails, nil
}
