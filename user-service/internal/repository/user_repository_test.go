package repository

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"

	"github.com/Jpjss/family-finance/shared/database"
	"github.com/Jpjss/family-finance/shared/errs"
	"github.com/Jpjss/family-finance/shared/models"
)

type UserRepositorySuite struct {
	suite.Suite
	db    *database.DB
	write *UserWriteRepository
	ctx   context.Context
}

func (s *UserRepositorySuite) SetupTest() {
	s.db = database.OpenTest(s.T())
	s.write = NewUserWriteRepository(s.db)
	s.ctx = context.Background()
}

func (s *UserRepositorySuite) newUser(id, email string) *models.User {
	return &models.User{
		ID:           id,
		Name:         "Ana Souza",
		Email:        email,
		PasswordHash: "$2a$04$hash",
		CreatedAt:    time.Date(2024, 2, 1, 8, 0, 0, 0, time.UTC),
	}
}

func (s *UserRepositorySuite) TestCreateAndGetByEmail() {
	s.Require().NoError(s.write.Create(s.ctx, s.newUser("usr-1", "ana@example.com")))

	got, err := s.write.GetByEmail(s.ctx, "ana@example.com")
	s.Require().NoError(err)
	s.Equal("usr-1", got.ID)
	s.Equal("$2a$04$hash", got.PasswordHash)
	s.True(got.CreatedAt.Equal(time.Date(2024, 2, 1, 8, 0, 0, 0, time.UTC)))
}

func (s *UserRepositorySuite) TestCreateDuplicateEmail() {
	s.Require().NoError(s.write.Create(s.ctx, s.newUser("usr-1", "ana@example.com")))

	err := s.write.Create(s.ctx, s.newUser("usr-2", "ana@example.com"))
	s.ErrorIs(err, errs.ErrConflict)
}

func (s *UserRepositorySuite) TestGetByEmailMissing() {
	_, err := s.write.GetByEmail(s.ctx, "nobody@example.com")
	s.ErrorIs(err, errs.ErrNotFound)
}

func (s *UserRepositorySuite) TestReadRepositoryFallsBackAndWarmsCache() {
	mr := miniredis.RunT(s.T())
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	defer client.Close()
	read := NewUserReadRepository(s.db, client, time.Minute)

	s.Require().NoError(s.write.Create(s.ctx, s.newUser("usr-1", "ana@example.com")))

	view, err := read.GetByID(s.ctx, "usr-1")
	s.Require().NoError(err)
	s.Equal("ana@example.com", view.Email)
	s.True(mr.Exists("user:view:usr-1"))

	// served from cache once the row is gone
	_, err = s.db.Exec("DELETE FROM users WHERE id = ?", "usr-1")
	s.Require().NoError(err)
	view, err = read.GetByID(s.ctx, "usr-1")
	s.Require().NoError(err)
	s.Equal("usr-1", view.ID)
}

func (s *UserRepositorySuite) TestReadRepositoryWithoutRedis() {
	read := NewUserReadRepository(s.db, nil, 0)

	_, err := read.GetByID(s.ctx, "usr-missing")
	s.ErrorIs(err, errs.ErrNotFound)
}

func TestUserRepositorySuite(t *testing.T) {
	suite.Run(t, new(UserRepositorySuite))
}
