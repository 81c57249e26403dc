package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"cardvault/internal/model"
	"cardvault/internal/repository"
	"cardvault/internal/service"
)

var (
	minTransferAmount = decimal.NewFromFloat(0.01)
	maxTransferAmount = decimal.NewFromInt(100_000)
)

// TransferHandler handles money movement endpoints.
type TransferHandler struct {
	transferService service.TransferService
}

// NewTransferHandler creates a new transfer handler.
func NewTransferHandler(transferService service.TransferService) *TransferHandler {
	return &TransferHandler{transferService: transferService}
}

// TransferRequest represents an own-cards transfer request.
type TransferRequest struct {
	FromCardNumber string          `json:"fromCardNumber" validate:"required,len=16,numeric"`
	ToCardNumber   string          `json:"toCardNumber" validate:"required,len=16,numeric"`
	Amount         decimal.Decimal `json:"amount"`
	Description    string          `json:"description" validate:"max=255"`
}

// TransferOwn godoc
// @Summary Transfer between the caller's own cards
// @Tags transfers
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body TransferRequest true "Transfer data"
// @Success 200 {object} TransactionResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /transfers/own [post]
func (h *TransferHandler) TransferOwn(c echo.Context) error {
	var req TransferRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	if req.Amount.LessThan(minTransferAmount) {
		return echo.NewHTTPError(http.StatusBadRequest,
			map[string]string{"amount": "amount must be at least 0.01"})
	}
	if req.Amount.GreaterThan(maxTransferAmount) {
		return echo.NewHTTPError(http.StatusBadRequest,
			map[string]string{"amount": "amount cannot exceed 100,000"})
	}

	transaction, err := h.transferService.TransferBetweenOwnCards(
		c.Request().Context(), callContext(c), service.TransferParams{
			FromCardNumber: req.FromCardNumber,
			ToCardNumber:   req.ToCardNumber,
			Amount:         req.Amount,
			Description:    req.Description,
		})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, NewTransactionResponse(transaction))
}

// GetByTransactionID godoc
// @Summary Get a transaction by its client-visible id
// @Tags transfers
// @Produce json
// @Security BearerAuth
// @Param transactionId path string true "Transaction id"
// @Success 200 {object} TransactionResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /transfers/{transactionId} [get]
func (h *TransferHandler) GetByTransactionID(c echo.Context) error {
	transaction, err := h.transferService.GetByTransactionID(
		c.Request().Context(), callContext(c), c.Param("transactionId"))
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return echo.NewHTTPError(http.StatusNotFound,
				map[string]string{"transactionId": "transaction not found"})
		}
		return err
	}
	return c.JSON(http.StatusOK, NewTransactionResponse(transaction))
}

// ListMy godoc
// @Summary List the caller's transactions
// @Tags transfers
// @Produce json
// @Security BearerAuth
// @Param direction query string false "outgoing (default) or incoming"
// @Param page query int false "Page (0-based)"
// @Param size query int false "Page size" default(10)
// @Success 200 {object} repository.Page[TransactionResponse]
// @Router /transfers/my [get]
func (h *TransferHandler) ListMy(c echo.Context) error {
	direction := service.TransferOutgoing
	if c.QueryParam("direction") == string(service.TransferIncoming) {
		direction = service.TransferIncoming
	}

	req := parsePageRequest(c, 10)
	if c.QueryParam("sort") == "" {
		req.Sort = "timestamp"
	}

	page, err := h.transferService.ListOwn(c.Request().Context(), callContext(c), direction, req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, repository.MapPage(page, transactionToResponse))
}

func transactionToResponse(transaction model.Transaction) TransactionResponse {
	return NewTransactionResponse(&transaction)
}
