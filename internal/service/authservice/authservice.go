package authservice

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/alexsokolov87/creditspin/internal/domain"
	"github.com/alexsokolov87/creditspin/pkg/auth"
)

//go:generate mockgen -source=authservice.go -destination=authservice_mock.go -package=authservice

type Repo interface {
	GetAccountByLogin(ctx context.Context, login string) (*domain.Account, error)
	CreateAccount(ctx context.Context, acc *domain.Account) (*domain.Account, error)
}

type Service struct {
	accountRepo     Repo
	hashService     auth.HashServiceInterface
	jwtService      auth.JWTServiceInterface
	startingBalance int64
}

func New(repo Repo, hashService auth.HashServiceInterface, jwtService auth.JWTServiceInterface, startingBalance int64) *Service {
	return &Service{
		accountRepo:     repo,
		hashService:     hashService,
		jwtService:      jwtService,
		startingBalance: startingBalance,
	}
}

// Register creates the account together with its starting balance. The
// first BET debit will find a funded account, not an empty one.
func (s *Service) Register(ctx context.Context, login, password, name, email string) (*domain.Account, error) {
	existing, err := s.accountRepo.GetAccountByLogin(ctx, login)
	if err != nil {
		zap.L().Error("can't look up account: ", zap.Error(err))
		return nil, err
	}
	if existing != nil {
		zap.L().Info("login already taken", zap.String("login", login))
		return nil, domain.ErrLoginTaken
	}
	hashedPassword, err := s.hashService.HashPassword(password)
	if err != nil {
		zap.L().Error("can't hash password: ", zap.Error(err))
		return nil, err
	}
	account := &domain.Account{
		ID:           uuid.NewString(),
		Login:        login,
		PasswordHash: hashedPassword,
		ProfileName:  name,
		ProfileEmail: email,
		Balance:      s.startingBalance,
	}
	created, err := s.accountRepo.CreateAccount(ctx, account)
	if err != nil {
		zap.L().Error("can't create account: ", zap.Error(err))
		return nil, err
	}

	zap.L().Info("account registered", zap.String("login", login), zap.String("accountID", created.ID))
	return created, nil
}

func (s *Service) Authenticate(ctx context.Context, login, password string) (*domain.Account, error) {
	account, err := s.accountRepo.GetAccountByLogin(ctx, login)
	if err != nil || account == nil {
		zap.L().Error("invalid credentials", zap.Error(err))
		return nil, domain.ErrInvalidCredentials
	}
	if ok := s.hashService.ComparePassword(account.PasswordHash, password); !ok {
		zap.L().Error("invalid credentials", zap.String("login", login))
		return nil, domain.ErrInvalidCredentials
	}
	zap.L().Info("account authenticated", zap.String("login", login))
	return account, nil
}

func (s *Service) GenerateToken(accountID string) (string, error) {
	expirationTime := time.Now().Add(24 * time.Hour)

	token, err := s.jwtService.GenerateJWT(accountID, expirationTime)
	if err != nil {
		zap.L().Error("can't generate token: ", zap.Error(err))
		return "", err
	}
	return token, nil
}
