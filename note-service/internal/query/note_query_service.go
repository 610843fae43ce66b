package query

import (
	"context"
	"errors"

	"github.com/Jpjss/family-finance/note-service/internal/repository"
	"github.com/Jpjss/family-finance/shared/cqrs"
	"github.com/Jpjss/family-finance/shared/errs"
	"github.com/Jpjss/family-finance/shared/models"
)

type NoteQueryService struct {
	readRepo *repository.NoteReadRepository
}

func NewNoteQueryService(readRepo *repository.NoteReadRepository) *NoteQueryService {
	return &NoteQueryService{readRepo: readRepo}
}

// GetNote never reports a missing note; months without one come back empty.
func (s *NoteQueryService) GetNote(ctx context.Context, q cqrs.GetNoteQuery) (*models.NoteView, error) {
	if err := cqrs.ValidatePeriod(q.Month, q.Year); err != nil {
		return nil, err
	}
	view, err := s.readRepo.Find(ctx, q.UserID, q.Month, q.Year)
	if errors.Is(err, errs.ErrNotFound) {
		return models.EmptyNoteView(q.Month, q.Year), nil
	}
	return view, err
}

func (s *NoteQueryService) ListNoteMonths(ctx context.Context, q cqrs.ListNoteMonthsQuery) ([]models.NoteMonth, error) {
	return s.readRepo.ListMonths(ctx, q.UserID)
}
