package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"edumentor-be/internal/dto"
	"edumentor-be/internal/entity"
	"edumentor-be/internal/pkg/apperror"
	"edumentor-be/internal/pkg/serverutils"
	"edumentor-be/internal/repository/specification"
	"edumentor-be/internal/repository/unitofwork"
	"edumentor-be/pkg/events"
	pktNats "edumentor-be/pkg/nats"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type IAuthService interface {
	Register(ctx context.Context, req *dto.RegisterRequest) (*dto.UserResponse, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error)
	Me(ctx context.Context, userId uuid.UUID) (*dto.UserResponse, error)
}

type authService struct {
	uowFactory     unitofwork.RepositoryFactory
	jwtSecret      string
	accessTokenTTL time.Duration
	userCache      *cache.Cache
	eventPublisher *pktNats.Publisher
}

func NewAuthService(
	uowFactory unitofwork.RepositoryFactory,
	jwtSecret string,
	accessTokenTTL time.Duration,
	eventPublisher *pktNats.Publisher,
) IAuthService {
	return &authService{
		uowFactory:     uowFactory,
		jwtSecret:      jwtSecret,
		accessTokenTTL: accessTokenTTL,
		userCache:      cache.New(5*time.Minute, 10*time.Minute),
		eventPublisher: eventPublisher,
	}
}

func (s *authService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.UserResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	existing, err := uow.UserRepository().FindOne(ctx, specification.ByEmail{Email: req.Email})
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperror.Conflict("Email already registered")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &entity.User{
		Id:           uuid.New(),
		Email:        req.Email,
		FullName:     req.Name,
		PasswordHash: string(hash),
		Provider:     entity.UserProviderLocal,
		CreatedAt:    time.Now(),
	}

	if err := uow.UserRepository().Create(ctx, user); err != nil {
		// a concurrent registration can slip past the lookup above; the unique
		// index on email is the authority
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperror.Conflict("Email already registered")
		}
		return nil, err
	}

	return &dto.UserResponse{
		Id:        user.Id,
		Email:     user.Email,
		Name:      user.FullName,
		CreatedAt: user.CreatedAt,
	}, nil
}

func (s *authService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	user, err := uow.UserRepository().FindOne(ctx, specification.ByEmail{Email: req.Username})
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperror.Auth("Incorrect email or password")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, apperror.Auth("Incorrect email or password")
	}

	signedToken, err := serverutils.SignAccessToken(s.jwtSecret, user.Id.String(), s.accessTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to sign access token: %w", err)
	}

	if s.eventPublisher != nil {
		event := events.BaseEvent{
			Type: "USER_LOGIN",
			Data: map[string]interface{}{
				"user_id": user.Id,
				"time":    time.Now().Format(time.RFC822),
			},
			OccurredAt: time.Now(),
		}
		// Auxiliary, never fails the login
		if err := s.eventPublisher.Publish(ctx, event); err != nil {
			fmt.Printf("[WARN] Failed to publish USER_LOGIN event: %v\n", err)
		}
	}

	return &dto.TokenResponse{
		AccessToken: signedToken,
		TokenType:   "bearer",
	}, nil
}

func (s *authService) Me(ctx context.Context, userId uuid.UUID) (*dto.UserResponse, error) {
	if cached, found := s.userCache.Get(userId.String()); found {
		if resp, ok := cached.(*dto.UserResponse); ok {
			return resp, nil
		}
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)

	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: userId})
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperror.NotFound("User not found")
	}

	resp := &dto.UserResponse{
		Id:        user.Id,
		Email:     user.Email,
		Name:      user.FullName,
		CreatedAt: user.CreatedAt,
	}
	s.userCache.Set(userId.String(), resp, cache.DefaultExpiration)

	return resp, nil
}
