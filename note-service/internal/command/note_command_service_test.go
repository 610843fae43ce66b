package command

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Jpjss/family-finance/note-service/internal/query"
	"github.com/Jpjss/family-finance/note-service/internal/repository"
	"github.com/Jpjss/family-finance/shared/cqrs"
	"github.com/Jpjss/family-finance/shared/database"
	"github.com/Jpjss/family-finance/shared/errs"
	"github.com/Jpjss/family-finance/shared/events"
)

func ptr(s string) *string { return &s }

func newTestServices(t *testing.T) (*NoteCommandService, *query.NoteQueryService) {
	return newTestServicesWithRedis(t, nil)
}

func newTestServicesWithRedis(t *testing.T, client *goredis.Client) (*NoteCommandService, *query.NoteQueryService) {
	t.Helper()
	db := database.OpenTest(t)
	read := repository.NewNoteReadRepository(db, client, time.Hour)
	svc := NewNoteCommandService(repository.NewNoteWriteRepository(db), read, events.NewPublisher(nil))
	clock := time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)
	svc.now = func() time.Time {
		clock = clock.Add(time.Minute)
		return clock
	}
	return svc, query.NewNoteQueryService(read)
}

func TestSaveAndGetNote(t *testing.T) {
	ctx := context.Background()
	svc, queries := newTestServices(t)

	saved, err := svc.SaveNote(ctx, cqrs.UpsertNoteCommand{UserID: "usr-1", Month: 3, Year: 2024, ExpenseNotes: ptr("cortar delivery")})
	require.NoError(t, err)
	assert.Equal(t, "cortar delivery", saved.ExpenseNotes)

	_, err = svc.SaveNote(ctx, cqrs.UpsertNoteCommand{UserID: "usr-1", Month: 3, Year: 2024, IncomeNotes: ptr("13º salário")})
	require.NoError(t, err)

	got, err := queries.GetNote(ctx, cqrs.GetNoteQuery{UserID: "usr-1", Month: 3, Year: 2024})
	require.NoError(t, err)
	assert.Equal(t, "cortar delivery", got.ExpenseNotes)
	assert.Equal(t, "13º salário", got.IncomeNotes)
	require.NotNil(t, got.CreatedAt)
	require.NotNil(t, got.UpdatedAt)
	assert.True(t, got.UpdatedAt.After(*got.CreatedAt))
}

func TestCachedNoteFollowsWrites(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	svc, queries := newTestServicesWithRedis(t, client)
	q := cqrs.GetNoteQuery{UserID: "usr-1", Month: 4, Year: 2024}

	_, err := svc.SaveNote(ctx, cqrs.UpsertNoteCommand{UserID: "usr-1", Month: 4, Year: 2024, ExpenseNotes: ptr("old")})
	require.NoError(t, err)
	got, err := queries.GetNote(ctx, q)
	require.NoError(t, err)
	assert.Equal(t, "old", got.ExpenseNotes)
	assert.True(t, mr.Exists("note:view:usr-1:2024:4"))

	_, err = svc.SaveNote(ctx, cqrs.UpsertNoteCommand{UserID: "usr-1", Month: 4, Year: 2024, ExpenseNotes: ptr("new")})
	require.NoError(t, err)
	got, err = queries.GetNote(ctx, q)
	require.NoError(t, err)
	assert.Equal(t, "new", got.ExpenseNotes)

	require.NoError(t, svc.ClearNote(ctx, cqrs.ClearNoteCommand{UserID: "usr-1", Month: 4, Year: 2024}))
	got, err = queries.GetNote(ctx, q)
	require.NoError(t, err)
	assert.Equal(t, "", got.ExpenseNotes)
	assert.Nil(t, got.CreatedAt)
}

func TestGetNote_MissingMonthIsEmpty(t *testing.T) {
	_, queries := newTestServices(t)

	got, err := queries.GetNote(context.Background(), cqrs.GetNoteQuery{UserID: "usr-1", Month: 7, Year: 2024})
	require.NoError(t, err)
	assert.Equal(t, 7, got.Month)
	assert.Equal(t, "", got.ExpenseNotes)
	assert.Equal(t, "", got.IncomeNotes)
	assert.Nil(t, got.CreatedAt)
}

func TestSaveNote_InvalidPeriod(t *testing.T) {
	svc, queries := newTestServices(t)
	ctx := context.Background()

	for _, p := range []struct{ month, year int }{{0, 2024}, {13, 2024}, {5, 0}, {5, 10000}} {
		_, err := svc.SaveNote(ctx, cqrs.UpsertNoteCommand{UserID: "usr-1", Month: p.month, Year: p.year})
		assert.ErrorIs(t, err, errs.ErrValidation)

		_, err = queries.GetNote(ctx, cqrs.GetNoteQuery{UserID: "usr-1", Month: p.month, Year: p.year})
		assert.ErrorIs(t, err, errs.ErrValidation)
	}
}

func TestClearNote(t *testing.T) {
	ctx := context.Background()
	svc, queries := newTestServices(t)

	_, err := svc.SaveNote(ctx, cqrs.UpsertNoteCommand{UserID: "usr-1", Month: 3, Year: 2024, ExpenseNotes: ptr("x")})
	require.NoError(t, err)

	require.NoError(t, svc.ClearNote(ctx, cqrs.ClearNoteCommand{UserID: "usr-1", Month: 3, Year: 2024}))
	assert.ErrorIs(t, svc.ClearNote(ctx, cqrs.ClearNoteCommand{UserID: "usr-1", Month: 3, Year: 2024}), errs.ErrNotFound)

	months, err := queries.ListNoteMonths(ctx, cqrs.ListNoteMonthsQuery{UserID: "usr-1"})
	require.NoError(t, err)
	assert.Empty(t, months)
}
