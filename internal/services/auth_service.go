package services

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/exp/slog"

	"github.com/spinforge/arcade-backend/internal/models"
	"github.com/spinforge/arcade-backend/internal/repositories"
	"github.com/spinforge/arcade-backend/pkg/jwt"
)

// Compile-time check to ensure AuthServiceImpl implements AuthService
var _ AuthService = (*AuthServiceImpl)(nil)

// AuthServiceImpl handles account registration and login
type AuthServiceImpl struct {
	accountRepo repositories.AccountRepository
	tokens      *jwt.TokenManager
}

// NewAuthService creates a new AuthServiceImpl
func NewAuthService(accountRepo repositories.AccountRepository, tokens *jwt.TokenManager) *AuthServiceImpl {
	return &AuthServiceImpl{
		accountRepo: accountRepo,
		tokens:      tokens,
	}
}

// Register creates a player account with a bcrypt password hash
func (s *AuthServiceImpl) Register(ctx context.Context, req *models.RegisterRequest) (*models.Account, error) {
	_, err := s.accountRepo.FindByEmail(ctx, req.Email)
	if err == nil {
		return nil, fmt.Errorf("%s: %w", req.Email, ErrEmailTaken)
	}
	if err != mongo.ErrNoDocuments {
		slog.Error("Failed to check email", "error", err)
		return nil, fmt.Errorf("failed to check email: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		slog.Error("Failed to hash password", "error", err)
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	account := &models.Account{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: string(hash),
		Role:         models.RolePlayer,
	}
	if err := s.accountRepo.Create(ctx, account); err != nil {
		slog.Error("Failed to create account", "error", err, "email", req.Email)
		return nil, fmt.Errorf("failed to create account: %w", err)
	}

	slog.Info("Account registered", "accountId", account.ID, "username", account.Username)
	return account, nil
}

// Login verifies credentials and returns a signed token with the
// account's role claim. Missing accounts and bad passwords are
// indistinguishable to the caller.
func (s *AuthServiceImpl) Login(ctx context.Context, req *models.LoginRequest) (string, *models.Account, error) {
	account, err := s.accountRepo.FindByEmail(ctx, req.Email)
	if err == mongo.ErrNoDocuments {
		return "", nil, ErrInvalidCredentials
	}
	if err != nil {
		slog.Error("Failed to find account", "error", err)
		return "", nil, fmt.Errorf("failed to find account: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(req.Password)); err != nil {
		slog.Warn("Login rejected", "email", req.Email)
		return "", nil, ErrInvalidCredentials
	}

	token, err := s.tokens.Generate(account.ID.Hex(), account.Role)
	if err != nil {
		slog.Error("Failed to generate token", "error", err, "accountId", account.ID)
		return "", nil, fmt.Errorf("failed to generate token: %w", err)
	}

	slog.Info("Account logged in", "accountId", account.ID, "role", account.Role)
	return token, account, nil
}

// GetAccount returns one account by ID
func (s *AuthServiceImpl) GetAccount(ctx context.Context, id primitive.ObjectID) (*models.Account, error) {
	account, err := s.accountRepo.FindByID(ctx, id)
	if err == mongo.ErrNoDocuments {
		return nil, fmt.Errorf("%s: %w", id.Hex(), ErrAccountNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find account: %w", err)
	}
	return account, nil
}

// ListAccounts pages through registered accounts
func (s *AuthServiceImpl) ListAccounts(ctx context.Context, page, limit int) ([]*models.Account, error) {
	accounts, err := s.accountRepo.FindAll(ctx, page, limit)
	if err != nil {
		slog.Error("Failed to list accounts", "error", err)
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	return accounts, nil
}
