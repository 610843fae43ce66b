package command

import (
	"context"
	"time"

	"github.com/Jpjss/family-finance/note-service/internal/repository"
	"github.com/Jpjss/family-finance/shared/cqrs"
	"github.com/Jpjss/family-finance/shared/events"
	"github.com/Jpjss/family-finance/shared/models"
	"github.com/Jpjss/family-finance/shared/utils"
)

// NoteCommandService writes monthly notes and invalidates their cached views.
type NoteCommandService struct {
	writeRepo *repository.NoteWriteRepository
	readRepo  *repository.NoteReadRepository
	publisher *events.Publisher
	now       func() time.Time
}

func NewNoteCommandService(
	writeRepo *repository.NoteWriteRepository,
	readRepo *repository.NoteReadRepository,
	publisher *events.Publisher,
) *NoteCommandService {
	return &NoteCommandService{
		writeRepo: writeRepo,
		readRepo:  readRepo,
		publisher: publisher,
		now:       time.Now,
	}
}

// SaveNote merges the provided fields into the month's note, creating it if
// needed.
func (s *NoteCommandService) SaveNote(ctx context.Context, cmd cqrs.UpsertNoteCommand) (*models.NoteView, error) {
	if err := cqrs.ValidatePeriod(cmd.Month, cmd.Year); err != nil {
		return nil, err
	}

	note, err := s.writeRepo.Upsert(ctx, repository.NoteChange{
		ID:           utils.GenerateID(utils.NotePrefix),
		OwnerID:      cmd.UserID,
		Month:        cmd.Month,
		Year:         cmd.Year,
		ExpenseNotes: cmd.ExpenseNotes,
		IncomeNotes:  cmd.IncomeNotes,
		At:           s.now().UTC().Truncate(time.Microsecond),
	})
	if err != nil {
		return nil, err
	}

	s.readRepo.InvalidateNoteView(ctx, cmd.UserID, cmd.Month, cmd.Year)
	s.publisher.PublishAsync(ctx, events.NoteEventsStream, events.NoteSaved, events.NoteEvent{
		UserID: cmd.UserID,
		Month:  cmd.Month,
		Year:   cmd.Year,
	})
	return models.NewNoteView(note), nil
}

func (s *NoteCommandService) ClearNote(ctx context.Context, cmd cqrs.ClearNoteCommand) error {
	if err := cqrs.ValidatePeriod(cmd.Month, cmd.Year); err != nil {
		return err
	}
	if err := s.writeRepo.Delete(ctx, cmd.UserID, cmd.Month, cmd.Year); err != nil {
		return err
	}

	s.readRepo.InvalidateNoteView(ctx, cmd.UserID, cmd.Month, cmd.Year)
	s.publisher.PublishAsync(ctx, events.NoteEventsStream, events.NoteCleared, events.NoteEvent{
		UserID: cmd.UserID,
		Month:  cmd.Month,
		Year:   cmd.Year,
	})
	return nil
}
