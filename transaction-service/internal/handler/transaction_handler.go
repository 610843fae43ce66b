package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/Jpjss/family-finance/shared/cqrs"
	"github.com/Jpjss/family-finance/shared/ledger"
	"github.com/Jpjss/family-finance/shared/middleware"
	"github.com/Jpjss/family-finance/shared/models"
)

// TransactionCommander defines the write-side operations used by TransactionHandler.
type TransactionCommander interface {
	CreateTransaction(context.Context, cqrs.CreateTransactionCommand) (*models.TransactionView, error)
	SetPaymentStatus(context.Context, cqrs.SetPaymentStatusCommand) error
	DeleteTransaction(context.Context, cqrs.DeleteTransactionCommand) error
}

// TransactionQuerier defines the read-side operations used by TransactionHandler.
type TransactionQuerier interface {
	ListTransactions(context.Context, cqrs.ListTransactionsQuery) ([]models.TransactionView, error)
	Summary(context.Context, cqrs.SummaryQuery) (*ledger.Summary, error)
}

type TransactionHandler struct {
	commands TransactionCommander
	queries  TransactionQuerier
}

// CreateTransactionRequest accepts the amount as a JSON number or a decimal
// string.
type CreateTransactionRequest struct {
	Description string           `json:"description" validate:"required,max=255"`
	Amount      *decimal.Decimal `json:"amount" validate:"required"`
	Category    string           `json:"category" validate:"required,max=100"`
	Type        string           `json:"type" validate:"required"`
}

type UpdatePaymentRequest struct {
	IsPaid *bool `json:"isPaid" validate:"required"`
}

func NewTransactionHandler(commands TransactionCommander, queries TransactionQuerier) *TransactionHandler {
	return &TransactionHandler{commands: commands, queries: queries}
}

func (h *TransactionHandler) ListTransactions(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	views, err := h.queries.ListTransactions(c.Request.Context(), cqrs.ListTransactionsQuery{UserID: userID})
	if err != nil {
		middleware.RespondWithAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"transactions": views})
}

func (h *TransactionHandler) CreateTransaction(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var req CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.RespondWithError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if validationErrors := middleware.ValidateRequest(req); validationErrors != nil {
		middleware.RespondWithValidationError(c, validationErrors)
		return
	}

	transaction, err := h.commands.CreateTransaction(c.Request.Context(), cqrs.CreateTransactionCommand{
		UserID:      userID,
		Description: req.Description,
		Amount:      *req.Amount,
		Category:    req.Category,
		Type:        req.Type,
	})
	if err != nil {
		middleware.RespondWithAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Transaction created", "transaction": transaction})
}

func (h *TransactionHandler) UpdatePaymentStatus(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var req UpdatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.RespondWithError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if validationErrors := middleware.ValidateRequest(req); validationErrors != nil {
		middleware.RespondWithValidationError(c, validationErrors)
		return
	}

	err := h.commands.SetPaymentStatus(c.Request.Context(), cqrs.SetPaymentStatusCommand{
		TransactionID: c.Param("id"),
		UserID:        userID,
		IsPaid:        *req.IsPaid,
	})
	if err != nil {
		middleware.RespondWithAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Transaction updated"})
}

func (h *TransactionHandler) DeleteTransaction(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	err := h.commands.DeleteTransaction(c.Request.Context(), cqrs.DeleteTransactionCommand{
		TransactionID: c.Param("id"),
		UserID:        userID,
	})
	if err != nil {
		middleware.RespondWithAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Transaction deleted"})
}

// Summary reports totals, ratios and top categories. Optional query
// parameters: month and year (together), top.
func (h *TransactionHandler) Summary(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	q := cqrs.SummaryQuery{UserID: userID}
	for _, p := range []struct {
		name string
		dst  *int
	}{{"month", &q.Month}, {"year", &q.Year}, {"top", &q.Top}} {
		raw := c.Query(p.name)
		if raw == "" {
			continue
		}
		n, err := strconv.Atoi(raw)
		if err != nil {
			middleware.RespondWithError(c, http.StatusBadRequest, "Invalid "+p.name+" parameter")
			return
		}
		*p.dst = n
	}

	summary, err := h.queries.Summary(c.Request.Context(), q)
	if err != nil {
		middleware.RespondWithAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"summary": summary})
}

func requireUser(c *gin.Context) (string, bool) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		middleware.RespondWithError(c, http.StatusUnauthorized, "Authorization header required")
	}
	return userID, ok
}
