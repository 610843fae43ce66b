package command

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/Jpjss/family-finance/shared/cqrs"
	"github.com/Jpjss/family-finance/shared/errs"
	"github.com/Jpjss/family-finance/shared/events"
	"github.com/Jpjss/family-finance/shared/models"
	"github.com/Jpjss/family-finance/shared/utils"
	"github.com/Jpjss/family-finance/user-service/internal/repository"
)

// UserCommandService writes user state to the SQL store and keeps the Redis
// read model up to date.
type UserCommandService struct {
	writeRepo  *repository.UserWriteRepository
	readRepo   *repository.UserReadRepository
	publisher  *events.Publisher
	bcryptCost int
	now        func() time.Time
}

func NewUserCommandService(
	writeRepo *repository.UserWriteRepository,
	readRepo *repository.UserReadRepository,
	publisher *events.Publisher,
	bcryptCost int,
) *UserCommandService {
	return &UserCommandService{
		writeRepo:  writeRepo,
		readRepo:   readRepo,
		publisher:  publisher,
		bcryptCost: bcryptCost,
		now:        time.Now,
	}
}

// Register creates an account. The unique index still guards against two
// concurrent registrations passing the lookup.
func (s *UserCommandService) Register(ctx context.Context, cmd cqrs.RegisterUserCommand) (*models.UserView, error) {
	email := utils.NormalizeEmail(cmd.Email)

	if _, err := s.writeRepo.GetByEmail(ctx, email); err == nil {
		return nil, fmt.Errorf("%w: email already registered", errs.ErrConflict)
	} else if !errors.Is(err, errs.ErrNotFound) {
		return nil, err
	}

	passwordHash, err := utils.HashPassword(cmd.Password, s.bcryptCost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return nil, fmt.Errorf("%w: password must be at most 72 bytes", errs.ErrValidation)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	user := &models.User{
		ID:           utils.GenerateID(utils.UserPrefix),
		Name:         cmd.Name,
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    s.now().UTC(),
	}
	if err := s.writeRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	view := models.NewUserView(user)
	s.readRepo.CacheUserView(ctx, view)
	s.publisher.PublishAsync(ctx, events.UserEventsStream, events.UserRegistered, events.UserRegisteredEvent{
		UserID: user.ID,
		Email:  user.Email,
		Name:   user.Name,
	})
	return view, nil
}
