package fiber

import (
	"context"
	"errors"
	"net/http"

	"bot-metrics-service/internal/records/core/domain"
	"bot-metrics-service/internal/records/core/usecase"

	"github.com/gofiber/fiber/v2"
)

type ImportSnapshotUseCase interface {
	Execute(ctx context.Context, in usecase.ImportSnapshotInput) (usecase.ImportSnapshotResult, error)
	Sync(ctx context.Context) (usecase.ImportSnapshotResult, error)
}

type RecordsLoader interface {
	LoadRecords(ctx context.Context) ([]domain.MetricRecord, error)
}

type SelectionUseCase interface {
	Save(ctx context.Context, clientID string, sel domain.Selection) error
	Load(ctx context.Context, clientID string) (domain.Selection, error)
}

type RecordsHandler struct {
	importUC    ImportSnapshotUseCase
	loader      RecordsLoader
	selectionUC SelectionUseCase
}

func NewRecordsHandler(importUC ImportSnapshotUseCase, loader RecordsLoader, selectionUC SelectionUseCase) *RecordsHandler {
	return &RecordsHandler{importUC: importUC, loader: loader, selectionUC: selectionUC}
}

func (h *RecordsHandler) Register(app fiber.Router) {
	app.Post("/records/import", h.ImportSnapshot)
	app.Post("/records/sync", h.SyncSnapshot)
	app.Get("/records", h.ListRecords)
	app.Put("/selections/:client", h.SaveSelection)
	app.Get("/selections/:client", h.GetSelection)
}

// ImportSnapshot godoc
// @Summary Replace the stored sheet snapshot
// @Description Validates a full sheet (headers + rows) and stores it as the current snapshot
// @Tags Records
// @Accept json
// @Produce json
// @Param request body ImportSnapshotRequest true "Sheet snapshot"
// @Success 201 {object} ImportSnapshotResponse
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /records/import [post]
func (h *RecordsHandler) ImportSnapshot(c *fiber.Ctx) error {
	var req ImportSnapshotRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
			Error: "invalid_json",
		})
	}

	rows := make([]domain.RawRow, len(req.Rows))
	for i, r := range req.Rows {
		rows[i] = r
	}

	res, err := h.importUC.Execute(c.UserContext(), usecase.ImportSnapshotInput{
		Headers: req.Headers,
		Rows:    rows,
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.Status(http.StatusCreated).JSON(ImportSnapshotResponse{
		ImportID: res.ImportID,
		Rows:     res.Rows,
	})
}

// SyncSnapshot godoc
// @Summary Pull the upstream sheet now
// @Description Fetches the configured spreadsheet export and stores it as the current snapshot
// @Tags Records
// @Produce json
// @Success 201 {object} ImportSnapshotResponse
// @Failure 429 {object} ErrorResponse
// @Failure 501 {object} ErrorResponse
// @Failure 503 {object} ErrorResponse
// @Router /records/sync [post]
func (h *RecordsHandler) SyncSnapshot(c *fiber.Ctx) error {
	res, err := h.importUC.Sync(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}

	return c.Status(http.StatusCreated).JSON(ImportSnapshotResponse{
		ImportID: res.ImportID,
		Rows:     res.Rows,
	})
}

// ListRecords godoc
// @Summary List normalized records
// @Description Raw-data view. With client, the saved selection applies when no filter is given; a given filter is saved for that client.
// @Tags Records
// @Produce json
// @Param from query string false "Start date (YYYY-MM-DD)"
// @Param to query string false "End date (YYYY-MM-DD)"
// @Param groups query string false "Comma separated groups"
// @Param bots query string false "Comma separated bot usernames or note names"
// @Param products query string false "Comma separated products"
// @Param client query string false "Client id owning a saved selection"
// @Success 200 {object} RecordsResponse
// @Failure 400 {object} ErrorResponse
// @Failure 503 {object} ErrorResponse
// @Router /records [get]
func (h *RecordsHandler) ListRecords(c *fiber.Ctx) error {
	sel, explicit, err := ParseSelection(c)
	if err != nil {
		return writeError(c, err)
	}

	if client := c.Query("client"); client != "" {
		if explicit {
			if err := h.selectionUC.Save(c.UserContext(), client, sel); err != nil {
				return writeError(c, err)
			}
		} else {
			saved, err := h.selectionUC.Load(c.UserContext(), client)
			switch {
			case err == nil:
				sel = saved
			case errors.Is(err, domain.ErrSelectionNotFound):
			default:
				return writeError(c, err)
			}
		}
	}

	recs, err := h.loader.LoadRecords(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}

	matched := usecase.Filter(recs, sel)

	resp := RecordsResponse{
		Count:   len(matched),
		Records: make([]RecordResponse, 0, len(matched)),
	}
	for _, r := range matched {
		resp.Records = append(resp.Records, RecordResponse{
			Date:          r.Date.Format(DateLayout),
			BotUsername:   r.BotUsername,
			BotNoteName:   r.BotNoteName,
			Product:       r.Product,
			Group:         r.Group,
			Consultations: r.Consultations,
			Leads:         r.Leads,
		})
	}

	return c.Status(http.StatusOK).JSON(resp)
}

// SaveSelection godoc
// @Summary Save a client's filter
// @Tags Selections
// @Accept json
// @Produce json
// @Param client path string true "Client id"
// @Param request body SelectionRequest true "Selection"
// @Success 200 {object} SelectionResponse
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /selections/{client} [put]
func (h *RecordsHandler) SaveSelection(c *fiber.Ctx) error {
	var req SelectionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
			Error: "invalid_json",
		})
	}

	sel, err := selectionFromRequest(req)
	if err != nil {
		return writeError(c, err)
	}

	if err := h.selectionUC.Save(c.UserContext(), c.Params("client"), sel); err != nil {
		return writeError(c, err)
	}

	return c.Status(http.StatusOK).JSON(selectionToResponse(sel))
}

// GetSelection godoc
// @Summary Load a client's saved filter
// @Tags Selections
// @Produce json
// @Param client path string true "Client id"
// @Success 200 {object} SelectionResponse
// @Failure 404 {object} ErrorResponse
// @Router /selections/{client} [get]
func (h *RecordsHandler) GetSelection(c *fiber.Ctx) error {
	sel, err := h.selectionUC.Load(c.UserContext(), c.Params("client"))
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(http.StatusOK).JSON(selectionToResponse(sel))
}

func writeError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, ErrInvalidQuery),
		errors.Is(err, usecase.ErrInvalidSelection):
		return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
			Error:   "invalid_query",
			Message: err.Error(),
		})
	case errors.Is(err, domain.ErrInvalidSnapshot):
		return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
			Error:   "invalid_snapshot",
			Message: err.Error(),
		})
	case errors.Is(err, domain.ErrSelectionNotFound):
		return c.Status(http.StatusNotFound).JSON(ErrorResponse{
			Error:   "not_found",
			Message: err.Error(),
		})
	case errors.Is(err, domain.ErrSyncThrottled):
		return c.Status(http.StatusTooManyRequests).JSON(ErrorResponse{
			Error:   "sync_throttled",
			Message: err.Error(),
		})
	case errors.Is(err, domain.ErrSourceNotConfigured):
		return c.Status(http.StatusNotImplemented).JSON(ErrorResponse{
			Error:   "source_not_configured",
			Message: err.Error(),
		})
	case errors.Is(err, domain.ErrDataUnavailable):
		return c.Status(http.StatusServiceUnavailable).JSON(ErrorResponse{
			Error:   "data_unavailable",
			Message: err.Error(),
		})
	case errors.Is(err, domain.ErrConfiguration):
		return c.Status(http.StatusInternalServerError).JSON(ErrorResponse{
			Error:   "configuration_error",
			Message: err.Error(),
		})
	default:
		return c.Status(http.StatusInternalServerError).JSON(ErrorResponse{
			Error: "internal_server_error",
		})
	}
}
