package service

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"ecommerce-recs-be/internal/config"
	"ecommerce-recs-be/internal/dto"
	"ecommerce-recs-be/internal/entity"
	"ecommerce-recs-be/internal/pkg/serverutils"
	"ecommerce-recs-be/internal/repository/contract"
	"ecommerce-recs-be/internal/repository/specification"
)

type IAuthService interface {
	Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResponse, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error)
}

type authService struct {
	userRepository contract.UserRepository
	jwtSecret      string
	tokenTTL       time.Duration
}

func NewAuthService(userRepository contract.UserRepository, cfg *config.Config) IAuthService {
	return &authService{
		userRepository: userRepository,
		jwtSecret:      cfg.Auth.JwtSecret,
		tokenTTL:       time.Duration(cfg.Auth.TokenTTLHours) * time.Hour,
	}
}

func (c *authService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResponse, error) {
	existing, err := c.userRepository.FindOne(ctx, specification.ByEmail{Email: req.Email})
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, serverutils.NewAppError(409, "Email already registered")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := entity.User{
		Id:           uuid.New(),
		Email:        req.Email,
		FullName:     req.FullName,
		PasswordHash: string(hash),
		CreatedAt:    time.Now(),
	}
	if err := c.userRepository.Create(ctx, &user); err != nil {
		return nil, err
	}

	return c.issueToken(&user)
}

func (c *authService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	user, err := c.userRepository.FindOne(ctx, specification.ByEmail{Email: req.Email})
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, serverutils.UnauthorizedError("Invalid email or password")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, serverutils.UnauthorizedError("Invalid email or password")
	}

	return c.issueToken(user)
}

func (c *authService) issueToken(user *entity.User) (*dto.AuthResponse, error) {
	claims := jwt.MapClaims{
		"user_id":  user.Id.String(),
		"is_admin": user.IsAdmin,
		"exp":      time.Now().Add(c.tokenTTL).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(c.jwtSecret))
	if err != nil {
		return nil, err
	}

	return &dto.AuthResponse{
		UserId:      user.Id,
		Email:       user.Email,
		AccessToken: signed,
	}, nil
}
