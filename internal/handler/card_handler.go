package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"cardvault/internal/model"
	"cardvault/internal/repository"
	"cardvault/internal/service"
)

var maxInitialBalance = decimal.NewFromInt(1_000_000)

// CardHandler handles card lifecycle endpoints.
type CardHandler struct {
	cardService service.CardService
}

// NewCardHandler creates a new card handler.
func NewCardHandler(cardService service.CardService) *CardHandler {
	return &CardHandler{cardService: cardService}
}

// CardCreateRequest represents a card issuance request.
type CardCreateRequest struct {
	CardNumber     string          `json:"cardNumber" validate:"required,len=16,numeric"`
	CardHolderName string          `json:"cardHolderName" validate:"required,min=2,max=100"`
	ExpirationDate string          `json:"expirationDate" validate:"required,datetime=2006-01-02"`
	UserID         uint            `json:"userId" validate:"required,gt=0"`
	InitialBalance decimal.Decimal `json:"initialBalance"`
}

// Create godoc
// @Summary Issue a new card (admin only)
// @Tags cards
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CardCreateRequest true "Card data"
// @Success 200 {object} CardResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Router /cards [post]
func (h *CardHandler) Create(c echo.Context) error {
	var req CardCreateRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	expiration, fieldErrs := parseFutureDate(req.ExpirationDate)
	if req.InitialBalance.IsNegative() {
		fieldErrs["initialBalance"] = "initialBalance cannot be negative"
	} else if req.InitialBalance.GreaterThan(maxInitialBalance) {
		fieldErrs["initialBalance"] = "initialBalance cannot exceed 1,000,000"
	}
	if len(fieldErrs) > 0 {
		return echo.NewHTTPError(http.StatusBadRequest, fieldErrs)
	}

	card, err := h.cardService.Issue(c.Request().Context(), service.CreateCardParams{
		CardNumber:     req.CardNumber,
		CardHolderName: req.CardHolderName,
		ExpirationDate: expiration,
		UserID:         req.UserID,
		InitialBalance: req.InitialBalance,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, NewCardResponse(card))
}

// GetByID godoc
// @Summary Get a card by id (owner or admin)
// @Tags cards
// @Produce json
// @Security BearerAuth
// @Param id path int true "Card id"
// @Success 200 {object} CardResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /cards/{id} [get]
func (h *CardHandler) GetByID(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	card, err := h.cardService.GetByID(c.Request().Context(), callContext(c), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, NewCardResponse(card))
}

// ListMy godoc
// @Summary List the caller's cards
// @Tags cards
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page (0-based)"
// @Param size query int false "Page size" default(10)
// @Param sort query string false "Sort, e.g. createdAt,desc"
// @Param status query string false "Filter by status"
// @Success 200 {object} repository.Page[CardResponse]
// @Router /cards/my [get]
func (h *CardHandler) ListMy(c echo.Context) error {
	status, err := parseOptionalStatus(c)
	if err != nil {
		return err
	}

	page, err := h.cardService.ListOwn(c.Request().Context(), callContext(c),
		status, parsePageRequest(c, 10))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, repository.MapPage(page, cardToResponse))
}

// ListAll godoc
// @Summary List every card (admin only)
// @Tags cards
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page (0-based)"
// @Param size query int false "Page size" default(20)
// @Param sort query string false "Sort, e.g. createdAt,desc"
// @Param status query string false "Filter by status"
// @Success 200 {object} repository.Page[CardResponse]
// @Router /cards [get]
func (h *CardHandler) ListAll(c echo.Context) error {
	status, err := parseOptionalStatus(c)
	if err != nil {
		return err
	}

	page, err := h.cardService.ListAll(c.Request().Context(), status, parsePageRequest(c, 20))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, repository.MapPage(page, cardToResponse))
}

// UpdateStatus godoc
// @Summary Update card status (owner or admin)
// @Tags cards
// @Produce json
// @Security BearerAuth
// @Param id path int true "Card id"
// @Param status query string true "New status" Enums(ACTIVE, BLOCKED, EXPIRED)
// @Success 200 {object} CardResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /cards/{id}/status [patch]
func (h *CardHandler) UpdateStatus(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	status := model.CardStatus(c.QueryParam("status"))
	if !status.Valid() {
		return echo.NewHTTPError(http.StatusBadRequest,
			map[string]string{"status": "status must be one of ACTIVE, BLOCKED, EXPIRED"})
	}

	card, err := h.cardService.UpdateStatus(c.Request().Context(), callContext(c), id, status)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, NewCardResponse(card))
}

// Delete godoc
// @Summary Delete a card (admin only)
// @Tags cards
// @Security BearerAuth
// @Param id path int true "Card id"
// @Success 204
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /cards/{id} [delete]
func (h *CardHandler) Delete(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	if err := h.cardService.Delete(c.Request().Context(), callContext(c), id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func cardToResponse(card model.Card) CardResponse {
	return NewCardResponse(&card)
}

// parseFutureDate parses a YYYY-MM-DD date and requires it to be after
// today. Failures accumulate into a field error map.
func parseFutureDate(raw string) (model.Date, map[string]string) {
	fieldErrs := map[string]string{}

	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		fieldErrs["expirationDate"] = "expirationDate must be a date in YYYY-MM-DD format"
		return model.Date{}, fieldErrs
	}

	date := model.NewDate(t.Year(), t.Month(), t.Day())
	if !model.Today().Before(date) {
		fieldErrs["expirationDate"] = "expirationDate must be in the future"
	}
	return date, fieldErrs
}

func parseOptionalStatus(c echo.Context) (model.CardStatus, error) {
	raw := c.QueryParam("status")
	if raw == "" {
		return "", nil
	}
	status := model.CardStatus(raw)
	if !status.Valid() {
		return "", echo.NewHTTPError(http.StatusBadRequest,
			map[string]string{"status": "status must be one of ACTIVE, BLOCKED, EXPIRED"})
	}
	return status, nil
}
