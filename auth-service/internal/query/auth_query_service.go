package query

import (
	"context"
	"errors"
	"fmt"

	"github.com/Jpjss/family-finance/auth-service/internal/repository"
	"github.com/Jpjss/family-finance/shared/cqrs"
	"github.com/Jpjss/family-finance/shared/errs"
	"github.com/Jpjss/family-finance/shared/models"
	"github.com/Jpjss/family-finance/shared/token"
	"github.com/Jpjss/family-finance/shared/utils"
)

var errInvalidCredentials = fmt.Errorf("%w: invalid credentials", errs.ErrUnauthorized)

type LoginResult struct {
	User  *models.UserView
	Token token.Issued
}

// AuthQueryService handles login and token refresh. There's no CommandService
// for auth because these operations don't mutate application state.
type AuthQueryService struct {
	userRepo *repository.UserRepository
	codec    token.Codec
	// dummyHash is compared when the email is unknown so both failure paths
	// cost one bcrypt comparison.
	dummyHash string
}

func NewAuthQueryService(userRepo *repository.UserRepository, codec token.Codec, bcryptCost int) (*AuthQueryService, error) {
	dummy, err := utils.HashPassword("unknown-account", bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare password hasher: %w", err)
	}
	return &AuthQueryService{userRepo: userRepo, codec: codec, dummyHash: dummy}, nil
}

func (s *AuthQueryService) Login(ctx context.Context, cmd cqrs.LoginCommand) (*LoginResult, error) {
	user, err := s.userRepo.GetByEmail(ctx, utils.NormalizeEmail(cmd.Email))
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			utils.CheckPassword(cmd.Password, s.dummyHash)
			return nil, errInvalidCredentials
		}
		return nil, err
	}
	if !utils.CheckPassword(cmd.Password, user.PasswordHash) {
		return nil, errInvalidCredentials
	}

	issued, err := s.codec.Issue(user.ID, user.Email)
	if err != nil {
		return nil, err
	}
	return &LoginResult{User: models.NewUserView(user), Token: issued}, nil
}

// RefreshToken issues a fresh token for a token that is still valid.
func (s *AuthQueryService) RefreshToken(_ context.Context, cmd cqrs.RefreshTokenCommand) (token.Issued, error) {
	claims, err := s.codec.Verify(cmd.Token)
	if err != nil {
		return token.Issued{}, fmt.Errorf("%w: %v", errs.ErrUnauthorized, err)
	}
	return s.codec.Issue(claims.OwnerID, claims.Email)
}
