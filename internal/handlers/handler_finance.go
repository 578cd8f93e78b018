package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/orghub/orghub-backend/internal/apperrors"
	"github.com/orghub/orghub-backend/internal/core/domain"
	portssvc "github.com/orghub/orghub-backend/internal/core/ports/services"
	"github.com/orghub/orghub-backend/internal/dto"
	"github.com/orghub/orghub-backend/internal/middleware"

	"github.com/gin-gonic/gin"
)

// financeHandler handles HTTP requests for the ledger.
type financeHandler struct {
	financeService portssvc.FinanceSvcFacade
}

func newFinanceHandler(fs portssvc.FinanceSvcFacade) *financeHandler {
	return &financeHandler{financeService: fs}
}

// registerFinanceRoutes registers the ledger routes. Reads are open to all
// members; mutations are gated behind the admin middleware.
func registerFinanceRoutes(rg *gin.RouterGroup, financeService portssvc.FinanceSvcFacade) {
	h := newFinanceHandler(financeService)

	finance := rg.Group("/finance")
	{
		finance.GET("", h.listTransactions)
		finance.GET("/history", h.history)
		finance.GET("/summary", h.summary)
		finance.GET("/balance", h.currentBalance)
		finance.GET("/:id", h.getTransaction)

		admin := finance.Group("", middleware.RequireAdmin())
		{
			admin.POST("", h.createTransaction)
			admin.PUT("/:id", h.updateTransaction)
			admin.DELETE("/:id", h.deleteTransaction)
		}
	}
}

// respondFinanceError maps service errors to HTTP statuses.
func respondFinanceError(c *gin.Context, logger *slog.Logger, err error, action string) {
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		logger.Warn("Transaction not found")
		c.JSON(http.StatusNotFound, gin.H{"error": "Transaction not found"})
	case errors.Is(err, apperrors.ErrValidation):
		logger.Warn("Transaction validation failed", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrForbidden):
		logger.Warn("Transaction access forbidden")
		c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
	default:
		logger.Error("Failed to "+action, slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to " + action})
	}
}

func parseDateWindow(c *gin.Context) (startDate, endDate *time.Time, err error) {
	if raw := c.Query("startDate"); raw != "" {
		t, parseErr := time.Parse(time.RFC3339, raw)
		if parseErr != nil {
			return nil, nil, parseErr
		}
		startDate = &t
	}
	if raw := c.Query("endDate"); raw != "" {
		t, parseErr := time.Parse(time.RFC3339, raw)
		if parseErr != nil {
			return nil, nil, parseErr
		}
		endDate = &t
	}
	return startDate, endDate, nil
}

func parseCategoryFilter(c *gin.Context) (*domain.Category, error) {
	raw := c.Query("category")
	if raw == "" {
		return nil, nil
	}
	category := domain.Category(raw)
	if !category.Valid() {
		return nil, errors.New("category must be Income or Expense")
	}
	return &category, nil
}

// createTransaction godoc
// @Summary Append a ledger entry
// @Description Creates a transaction at its effective date and recomputes the running balances of every later entry
// @Tags finance
// @Accept  json
// @Produce  json
// @Param   transaction body dto.CreateTransactionRequest true "Transaction details"
// @Success 201 {object} dto.TransactionResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Admin access required"
// @Failure 500 {object} map[string]string "Failed to create transaction"
// @Security BearerAuth
// @Router /finance [post]
func (h *financeHandler) createTransaction(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for create transaction", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	creatorUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("Creator user ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	created, err := h.financeService.Append(c.Request.Context(), req, creatorUserID)
	if err != nil {
		respondFinanceError(c, logger, err, "create transaction")
		return
	}

	c.JSON(http.StatusCreated, dto.ToTransactionResponse(created))
}

// updateTransaction godoc
// @Summary Amend a ledger entry
// @Description Applies a partial update; changing amount, category or date recomputes running balances from the earliest affected position
// @Tags finance
// @Accept  json
// @Produce  json
// @Param   id path int true "Transaction ID"
// @Param   transaction body dto.UpdateTransactionRequest true "Fields to change"
// @Success 200 {object} dto.TransactionResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Admin access required"
// @Failure 404 {object} map[string]string "Transaction not found"
// @Failure 500 {object} map[string]string "Failed to update transaction"
// @Security BearerAuth
// @Router /finance/{id} [put]
func (h *financeHandler) updateTransaction(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid transaction ID"})
		return
	}

	var req dto.UpdateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for update transaction", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	updaterUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("Updater user ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	updated, err := h.financeService.Amend(c.Request.Context(), id, req, updaterUserID)
	if err != nil {
		respondFinanceError(c, logger, err, "update transaction")
		return
	}

	c.JSON(http.StatusOK, dto.ToTransactionResponse(updated))
}

// deleteTransaction godoc
// @Summary Delete a ledger entry
// @Description Removes the transaction and recomputes the running balances of its successors
// @Tags finance
// @Produce  json
// @Param   id path int true "Transaction ID"
// @Success 204 "No Content"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Admin access required"
// @Failure 404 {object} map[string]string "Transaction not found"
// @Failure 500 {object} map[string]string "Failed to delete transaction"
// @Security BearerAuth
// @Router /finance/{id} [delete]
func (h *financeHandler) deleteTransaction(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid transaction ID"})
		return
	}

	if err := h.financeService.Remove(c.Request.Context(), id); err != nil {
		respondFinanceError(c, logger, err, "delete transaction")
		return
	}

	c.Status(http.StatusNoContent)
}

// getTransaction godoc
// @Summary Get a ledger entry
// @Tags finance
// @Produce  json
// @Param   id path int true "Transaction ID"
// @Success 200 {object} dto.TransactionResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Transaction not found"
// @Failure 500 {object} map[string]string "Failed to retrieve transaction"
// @Security BearerAuth
// @Router /finance/{id} [get]
func (h *financeHandler) getTransaction(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid transaction ID"})
		return
	}

	txn, err := h.financeService.GetTransaction(c.Request.Context(), id)
	if err != nil {
		respondFinanceError(c, logger, err, "retrieve transaction")
		return
	}

	c.JSON(http.StatusOK, dto.ToTransactionResponse(txn))
}

// listTransactions godoc
// @Summary List ledger entries
// @Description Lists transactions newest first, optionally filtered by category and date window
// @Tags finance
// @Produce  json
// @Param   category query string false "Income or Expense"
// @Param   startDate query string false "RFC3339 lower bound"
// @Param   endDate query string false "RFC3339 upper bound"
// @Param   limit query int false "Limit number of results" default(20)
// @Param   offset query int false "Offset for pagination" default(0)
// @Success 200 {array} dto.TransactionResponse
// @Failure 400 {object} map[string]string "Invalid query parameters"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to list transactions"
// @Security BearerAuth
// @Router /finance [get]
func (h *financeHandler) listTransactions(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	category, err := parseCategoryFilter(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	startDate, endDate, err := parseDateWindow(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Dates must be RFC3339: " + err.Error()})
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	txns, err := h.financeService.ListTransactions(c.Request.Context(), dto.ListTransactionsParams{
		Category:  category,
		StartDate: startDate,
		EndDate:   endDate,
		Limit:     limit,
		Offset:    offset,
	})
	if err != nil {
		respondFinanceError(c, logger, err, "list transactions")
		return
	}

	responses := make([]dto.TransactionResponse, len(txns))
	for i := range txns {
		responses[i] = dto.ToTransactionResponse(&txns[i])
	}
	c.JSON(http.StatusOK, responses)
}

// history godoc
// @Summary Ledger history with running balances
// @Description Returns a cursor-paginated page of the ledger, newest first, with the balance before and after each entry and the overall current balance
// @Tags finance
// @Produce  json
// @Param   category query string false "Income or Expense"
// @Param   startDate query string false "RFC3339 lower bound"
// @Param   endDate query string false "RFC3339 upper bound"
// @Param   limit query int false "Page size" default(20)
// @Param   nextToken query string false "Cursor from the previous page"
// @Success 200 {object} dto.HistoryResponse
// @Failure 400 {object} map[string]string "Invalid query parameters"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to retrieve history"
// @Security BearerAuth
// @Router /finance/history [get]
func (h *financeHandler) history(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	category, err := parseCategoryFilter(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	startDate, endDate, err := parseDateWindow(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Dates must be RFC3339: " + err.Error()})
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	var nextToken *string
	if raw := c.Query("nextToken"); raw != "" {
		nextToken = &raw
	}

	resp, err := h.financeService.History(c.Request.Context(), dto.HistoryParams{
		Category:  category,
		StartDate: startDate,
		EndDate:   endDate,
		Limit:     limit,
		NextToken: nextToken,
	})
	if err != nil {
		respondFinanceError(c, logger, err, "retrieve history")
		return
	}

	c.JSON(http.StatusOK, resp)
}

// summary godoc
// @Summary Income and expense totals
// @Description Sums income and expense within an optional date window
// @Tags finance
// @Produce  json
// @Param   startDate query string false "RFC3339 lower bound"
// @Param   endDate query string false "RFC3339 upper bound"
// @Success 200 {object} dto.SummaryResponse
// @Failure 400 {object} map[string]string "Invalid query parameters"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to summarize"
// @Security BearerAuth
// @Router /finance/summary [get]
func (h *financeHandler) summary(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	startDate, endDate, err := parseDateWindow(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Dates must be RFC3339: " + err.Error()})
		return
	}

	summary, err := h.financeService.Summary(c.Request.Context(), startDate, endDate)
	if err != nil {
		respondFinanceError(c, logger, err, "summarize")
		return
	}

	c.JSON(http.StatusOK, dto.ToSummaryResponse(summary))
}

// currentBalance godoc
// @Summary Current ledger balance
// @Tags finance
// @Produce  json
// @Success 200 {object} map[string]string
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to retrieve balance"
// @Security BearerAuth
// @Router /finance/balance [get]
func (h *financeHandler) currentBalance(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	balance, err := h.financeService.CurrentBalance(c.Request.Context())
	if err != nil {
		respondFinanceError(c, logger, err, "retrieve balance")
		return
	}

	c.JSON(http.StatusOK, gin.H{"balance": balance})
}
