package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Jpjss/family-finance/shared/cqrs"
	"github.com/Jpjss/family-finance/shared/middleware"
	"github.com/Jpjss/family-finance/shared/models"
)

// NoteCommander defines the write-side operations used by NoteHandler.
type NoteCommander interface {
	SaveNote(context.Context, cqrs.UpsertNoteCommand) (*models.NoteView, error)
	ClearNote(context.Context, cqrs.ClearNoteCommand) error
}

// NoteQuerier defines the read-side operations used by NoteHandler.
type NoteQuerier interface {
	GetNote(context.Context, cqrs.GetNoteQuery) (*models.NoteView, error)
	ListNoteMonths(context.Context, cqrs.ListNoteMonthsQuery) ([]models.NoteMonth, error)
}

type NoteHandler struct {
	commands NoteCommander
	queries  NoteQuerier
}

// PeriodQuery selects one month through the query string.
type PeriodQuery struct {
	Month int `form:"month" json:"month" validate:"required,min=1,max=12"`
	Year  int `form:"year" json:"year" validate:"required,min=1,max=9999"`
}

// SaveNoteRequest leaves a note field untouched when it is omitted.
type SaveNoteRequest struct {
	Month        int     `json:"month" validate:"required,min=1,max=12"`
	Year         int     `json:"year" validate:"required,min=1,max=9999"`
	ExpenseNotes *string `json:"expenseNotes" validate:"omitempty,max=10000"`
	IncomeNotes  *string `json:"incomeNotes" validate:"omitempty,max=10000"`
}

func NewNoteHandler(commands NoteCommander, queries NoteQuerier) *NoteHandler {
	return &NoteHandler{commands: commands, queries: queries}
}

func (h *NoteHandler) GetNote(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	period, ok := bindPeriod(c)
	if !ok {
		return
	}

	note, err := h.queries.GetNote(c.Request.Context(), cqrs.GetNoteQuery{
		UserID: userID,
		Month:  period.Month,
		Year:   period.Year,
	})
	if err != nil {
		middleware.RespondWithAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"note": note})
}

func (h *NoteHandler) SaveNote(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var req SaveNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.RespondWithError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if validationErrors := middleware.ValidateRequest(req); validationErrors != nil {
		middleware.RespondWithValidationError(c, validationErrors)
		return
	}

	_, err := h.commands.SaveNote(c.Request.Context(), cqrs.UpsertNoteCommand{
		UserID:       userID,
		Month:        req.Month,
		Year:         req.Year,
		ExpenseNotes: req.ExpenseNotes,
		IncomeNotes:  req.IncomeNotes,
	})
	if err != nil {
		middleware.RespondWithAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Notes saved"})
}

func (h *NoteHandler) ClearNote(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	period, ok := bindPeriod(c)
	if !ok {
		return
	}

	err := h.commands.ClearNote(c.Request.Context(), cqrs.ClearNoteCommand{
		UserID: userID,
		Month:  period.Month,
		Year:   period.Year,
	})
	if err != nil {
		middleware.RespondWithAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Notes cleared"})
}

func (h *NoteHandler) ListMonths(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	months, err := h.queries.ListNoteMonths(c.Request.Context(), cqrs.ListNoteMonthsQuery{UserID: userID})
	if err != nil {
		middleware.RespondWithAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"months": months})
}

func bindPeriod(c *gin.Context) (PeriodQuery, bool) {
	var period PeriodQuery
	if err := c.ShouldBindQuery(&period); err != nil {
		middleware.RespondWithError(c, http.StatusBadRequest, "Month and year must be numbers")
		return period, false
	}
	if validationErrors := middleware.ValidateRequest(period); validationErrors != nil {
		middleware.RespondWithValidationError(c, validationErrors)
		return period, false
	}
	return period, true
}

func requireUser(c *gin.Context) (string, bool) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		middleware.RespondWithError(c, http.StatusUnauthorized, "Authorization header required")
	}
	return userID, ok
}
