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

func ptr(s string) *string { return &s }

type NoteRepositorySuite struct {
	suite.Suite
	db    *database.DB
	mr    *miniredis.Miniredis
	write *NoteWriteRepository
	read  *NoteReadRepository
	ctx   context.Context
}

func (s *NoteRepositorySuite) SetupTest() {
	s.db = database.OpenTest(s.T())
	s.mr = miniredis.RunT(s.T())
	client := goredis.NewClient(&goredis.Options{Addr: s.mr.Addr()})
	s.T().Cleanup(func() { client.Close() })

	s.write = NewNoteWriteRepository(s.db)
	s.read = NewNoteReadRepository(s.db, client, time.Minute)
	s.ctx = context.Background()
}

func (s *NoteRepositorySuite) TestUpsertInsertsWithDefaults() {
	at := time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)

	note, err := s.write.Upsert(s.ctx, NoteChange{
		ID: "note-1", OwnerID: "usr-1", Month: 3, Year: 2024,
		ExpenseNotes: ptr("conta de luz alta"), At: at,
	})
	s.Require().NoError(err)
	s.Equal("conta de luz alta", note.ExpenseNotes)
	s.Equal("", note.IncomeNotes)
	s.True(note.CreatedAt.Equal(at))
	s.True(note.UpdatedAt.Equal(at))
}

func (s *NoteRepositorySuite) TestUpsertMergesProvidedFields() {
	first := time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)
	second := first.Add(48 * time.Hour)

	_, err := s.write.Upsert(s.ctx, NoteChange{
		ID: "note-1", OwnerID: "usr-1", Month: 3, Year: 2024,
		ExpenseNotes: ptr("mercado"), IncomeNotes: ptr("bônus"), At: first,
	})
	s.Require().NoError(err)

	note, err := s.write.Upsert(s.ctx, NoteChange{
		ID: "note-2", OwnerID: "usr-1", Month: 3, Year: 2024,
		IncomeNotes: ptr(""), At: second,
	})
	s.Require().NoError(err)
	s.Equal("note-1", note.ID, "the existing record is kept")
	s.Equal("mercado", note.ExpenseNotes)
	s.Equal("", note.IncomeNotes)
	s.True(note.CreatedAt.Equal(first))
	s.True(note.UpdatedAt.Equal(second))
}

func (s *NoteRepositorySuite) TestUpsertNoFieldsOnlyTouches() {
	first := time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)
	_, err := s.write.Upsert(s.ctx, NoteChange{ID: "note-1", OwnerID: "usr-1", Month: 3, Year: 2024, ExpenseNotes: ptr("x"), At: first})
	s.Require().NoError(err)

	note, err := s.write.Upsert(s.ctx, NoteChange{ID: "note-2", OwnerID: "usr-1", Month: 3, Year: 2024, At: first.Add(time.Hour)})
	s.Require().NoError(err)
	s.Equal("x", note.ExpenseNotes)
	s.True(note.UpdatedAt.Equal(first.Add(time.Hour)))
}

func (s *NoteRepositorySuite) TestFindCachesStoredNotes() {
	_, err := s.write.Upsert(s.ctx, NoteChange{ID: "note-1", OwnerID: "usr-1", Month: 12, Year: 2023, ExpenseNotes: ptr("presentes"), At: time.Now().UTC()})
	s.Require().NoError(err)

	view, err := s.read.Find(s.ctx, "usr-1", 12, 2023)
	s.Require().NoError(err)
	s.Equal("presentes", view.ExpenseNotes)
	s.True(s.mr.Exists("note:view:usr-1:2023:12"))

	s.read.InvalidateNoteView(s.ctx, "usr-1", 12, 2023)
	s.False(s.mr.Exists("note:view:usr-1:2023:12"))
	v, err := s.mr.Get("note:version:usr-1:2023:12")
	s.Require().NoError(err)
	s.Equal("1", v)
}

// stale captures what a reader that missed the cache holds right after its
// SQL read: the version it saw and the row it got.
func (s *NoteRepositorySuite) stale(ownerID string, month, year int) (string, int64, *models.NoteView) {
	versionKey, key := noteKeys(ownerID, month, year)
	version := s.read.cache.Version(s.ctx, versionKey)
	note, err := findNote(s.ctx, s.db, ownerID, month, year)
	s.Require().NoError(err)
	return key, version, models.NewNoteView(note)
}

func (s *NoteRepositorySuite) TestFindIgnoresViewReadBeforeWrite() {
	at := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	_, err := s.write.Upsert(s.ctx, NoteChange{ID: "note-1", OwnerID: "usr-1", Month: 6, Year: 2024, ExpenseNotes: ptr("old"), At: at})
	s.Require().NoError(err)

	key, version, old := s.stale("usr-1", 6, 2024)

	_, err = s.write.Upsert(s.ctx, NoteChange{ID: "note-2", OwnerID: "usr-1", Month: 6, Year: 2024, ExpenseNotes: ptr("new"), At: at.Add(time.Hour)})
	s.Require().NoError(err)
	s.read.InvalidateNoteView(s.ctx, "usr-1", 6, 2024)

	// the slow reader finishes after the write
	s.read.cache.Put(s.ctx, key, version, old)

	view, err := s.read.Find(s.ctx, "usr-1", 6, 2024)
	s.Require().NoError(err)
	s.Equal("new", view.ExpenseNotes)

	cached, err := s.read.Find(s.ctx, "usr-1", 6, 2024)
	s.Require().NoError(err)
	s.Equal("new", cached.ExpenseNotes)
}

func (s *NoteRepositorySuite) TestFindDoesNotReviveClearedNote() {
	_, err := s.write.Upsert(s.ctx, NoteChange{ID: "note-1", OwnerID: "usr-1", Month: 7, Year: 2024, IncomeNotes: ptr("férias"), At: time.Now().UTC()})
	s.Require().NoError(err)

	key, version, old := s.stale("usr-1", 7, 2024)

	s.Require().NoError(s.write.Delete(s.ctx, "usr-1", 7, 2024))
	s.read.InvalidateNoteView(s.ctx, "usr-1", 7, 2024)
	s.read.cache.Put(s.ctx, key, version, old)

	_, err = s.read.Find(s.ctx, "usr-1", 7, 2024)
	s.ErrorIs(err, errs.ErrNotFound)
}

func (s *NoteRepositorySuite) TestFindMissing() {
	_, err := s.read.Find(s.ctx, "usr-1", 1, 2024)
	s.ErrorIs(err, errs.ErrNotFound)
	s.Empty(s.mr.Keys())
}

func (s *NoteRepositorySuite) TestNotesAreScopedByOwner() {
	_, err := s.write.Upsert(s.ctx, NoteChange{ID: "note-1", OwnerID: "usr-1", Month: 5, Year: 2024, ExpenseNotes: ptr("a"), At: time.Now().UTC()})
	s.Require().NoError(err)

	_, err = s.read.Find(s.ctx, "usr-2", 5, 2024)
	s.ErrorIs(err, errs.ErrNotFound)
	s.ErrorIs(s.write.Delete(s.ctx, "usr-2", 5, 2024), errs.ErrNotFound)
}

func (s *NoteRepositorySuite) TestListMonthsNewestFirst() {
	at := time.Now().UTC()
	for _, p := range []struct{ month, year int }{{11, 2023}, {2, 2024}, {12, 2023}, {1, 2024}} {
		_, err := s.write.Upsert(s.ctx, NoteChange{ID: "note-x", OwnerID: "usr-1", Month: p.month, Year: p.year, At: at})
		s.Require().NoError(err)
	}

	months, err := s.read.ListMonths(s.ctx, "usr-1")
	s.Require().NoError(err)
	s.Require().Len(months, 4)
	s.Equal(2024, months[0].Year)
	s.Equal(2, months[0].Month)
	s.Equal(1, months[1].Month)
	s.Equal(12, months[2].Month)
	s.Equal(11, months[3].Month)

	empty, err := s.read.ListMonths(s.ctx, "usr-2")
	s.Require().NoError(err)
	s.NotNil(empty)
	s.Empty(empty)
}

func (s *NoteRepositorySuite) TestDelete() {
	_, err := s.write.Upsert(s.ctx, NoteChange{ID: "note-1", OwnerID: "usr-1", Month: 5, Year: 2024, At: time.Now().UTC()})
	s.Require().NoError(err)

	s.Require().NoError(s.write.Delete(s.ctx, "usr-1", 5, 2024))
	s.ErrorIs(s.write.Delete(s.ctx, "usr-1", 5, 2024), errs.ErrNotFound)
}

func TestNoteRepositorySuite(t *testing.T) {
	suite.Run(t, new(NoteRepositorySuite))
}
