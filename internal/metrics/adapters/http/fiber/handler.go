package fiber

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"bot-metrics-service/internal/metrics/core/domain"
	"bot-metrics-service/internal/metrics/core/usecase"
	recordshttp "bot-metrics-service/internal/records/adapters/http/fiber"
	records "bot-metrics-service/internal/records/core/domain"

	"github.com/gofiber/fiber/v2"
)

type GetSummaryUseCase interface {
	Execute(ctx context.Context, in usecase.GetSummaryInput) (*usecase.Summary, error)
}

type GetRankingsUseCase interface {
	Execute(ctx context.Context, in usecase.GetRankingsInput) (*usecase.Rankings, error)
}

type GetTrendUseCase interface {
	Execute(ctx context.Context, sel records.Selection) (*usecase.Trend, error)
}

type GetOverviewUseCase interface {
	Execute(ctx context.Context) (*usecase.Overview, error)
}

type MetricsHandler struct {
	summaryUC  GetSummaryUseCase
	rankingsUC GetRankingsUseCase
	trendUC    GetTrendUseCase
	overviewUC GetOverviewUseCase
}

func NewMetricsHandler(
	summaryUC GetSummaryUseCase,
	rankingsUC GetRankingsUseCase,
	trendUC GetTrendUseCase,
	overviewUC GetOverviewUseCase,
) *MetricsHandler {
	return &MetricsHandler{
		summaryUC:  summaryUC,
		rankingsUC: rankingsUC,
		trendUC:    trendUC,
		overviewUC: overviewUC,
	}
}

func (h *MetricsHandler) Register(app fiber.Router) {
	app.Get("/metrics/summary", h.GetSummary)
	app.Get("/metrics/rankings", h.GetRankings)
	app.Get("/metrics/trend", h.GetTrend)
	app.Get("/metrics/overview", h.GetOverview)
}

// GetSummary godoc
// @Summary Window totals, averages and deltas
// @Description Aggregates the window ending at the latest data date and compares it with the previous window of the same kind
// @Tags Metrics
// @Produce json
// @Param kind query string false "day | week | month | rolling | custom" default(day)
// @Param days query int false "Window length for kind=rolling"
// @Param from query string false "Start date for kind=custom (YYYY-MM-DD)"
// @Param to query string false "End date for kind=custom (YYYY-MM-DD)"
// @Param group_by query string false "none | group | bot | username | product"
// @Success 200 {object} SummaryResponse
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Failure 503 {object} ErrorResponse
// @Router /metrics/summary [get]
func (h *MetricsHandler) GetSummary(c *fiber.Ctx) error {
	spec, err := parseWindow(c)
	if err != nil {
		return writeError(c, err)
	}

	groupBy, err := domain.ParseGroupBy(c.Query("group_by"))
	if err != nil {
		return writeError(c, err)
	}

	res, err := h.summaryUC.Execute(c.UserContext(), usecase.GetSummaryInput{
		Window:  spec,
		GroupBy: groupBy,
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.Status(http.StatusOK).JSON(toSummary(res))
}

// GetRankings godoc
// @Summary Most improved and most declined bot per group
// @Description Ranks bots inside each group by percentage change of consultations and leads
// @Tags Metrics
// @Produce json
// @Param kind query string false "day | week | month | rolling" default(day)
// @Param days query int false "Window length for kind=rolling"
// @Param basis query string false "average | total" default(average)
// @Success 200 {object} RankingsResponse
// @Failure 400 {object} ErrorResponse
// @Failure 503 {object} ErrorResponse
// @Router /metrics/rankings [get]
func (h *MetricsHandler) GetRankings(c *fiber.Ctx) error {
	spec, err := parseWindow(c)
	if err != nil {
		return writeError(c, err)
	}

	basis, err := domain.ParseRankBasis(c.Query("basis"))
	if err != nil {
		return writeError(c, err)
	}

	res, err := h.rankingsUC.Execute(c.UserContext(), usecase.GetRankingsInput{
		Window: spec,
		Basis:  basis,
	})
	if err != nil {
		return writeError(c, err)
	}

	resp := RankingsResponse{
		Kind:      string(res.Kind),
		Reference: res.Reference.Format(dateLayout),
		Current:   toWindow(res.Current),
		Previous:  toWindow(res.Previous),
		Basis:     string(res.Basis),
		Groups:    make([]GroupRankingsResponse, 0, len(res.Groups)),
	}
	for _, g := range res.Groups {
		resp.Groups = append(resp.Groups, GroupRankingsResponse{
			Group:         g.Group,
			Consultations: toRanking(g.Consultations),
			Leads:         toRanking(g.Leads),
		})
	}

	return c.Status(http.StatusOK).JSON(resp)
}

// GetTrend godoc
// @Summary Daily consultations and leads
// @Description Date-indexed series over the filtered records
// @Tags Metrics
// @Produce json
// @Param from query string false "Start date (YYYY-MM-DD)"
// @Param to query string false "End date (YYYY-MM-DD)"
// @Param groups query string false "Comma separated groups"
// @Param bots query string false "Comma separated bot usernames or note names"
// @Param products query string false "Comma separated products"
// @Success 200 {object} TrendResponse
// @Failure 400 {object} ErrorResponse
// @Failure 503 {object} ErrorResponse
// @Router /metrics/trend [get]
func (h *MetricsHandler) GetTrend(c *fiber.Ctx) error {
	sel, _, err := recordshttp.ParseSelection(c)
	if err != nil {
		return writeError(c, err)
	}

	res, err := h.trendUC.Execute(c.UserContext(), sel)
	if err != nil {
		return writeError(c, err)
	}

	resp := TrendResponse{Points: make([]TrendPointResponse, 0, len(res.Points))}
	if res.Window != nil {
		w := toWindow(*res.Window)
		resp.Window = &w
	}
	for _, p := range res.Points {
		resp.Points = append(resp.Points, TrendPointResponse{
			Date:          p.Date.Format(dateLayout),
			Consultations: p.Consultations,
			Leads:         p.Leads,
		})
	}

	return c.Status(http.StatusOK).JSON(resp)
}

// GetOverview godoc
// @Summary Dashboard cards
// @Description Today, week-to-date and month-to-date summaries broken down by group
// @Tags Metrics
// @Produce json
// @Success 200 {object} OverviewResponse
// @Failure 500 {object} ErrorResponse
// @Failure 503 {object} ErrorResponse
// @Router /metrics/overview [get]
func (h *MetricsHandler) GetOverview(c *fiber.Ctx) error {
	res, err := h.overviewUC.Execute(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}

	return c.Status(http.StatusOK).JSON(OverviewResponse{
		Reference: res.Reference.Format(dateLayout),
		Day:       toSummary(res.Day),
		Week:      toSummary(res.Week),
		Month:     toSummary(res.Month),
	})
}

func parseWindow(c *fiber.Ctx) (domain.WindowSpec, error) {
	kind, err := domain.ParseWindowKind(c.Query("kind", string(domain.WindowDay)))
	if err != nil {
		return domain.WindowSpec{}, err
	}
	spec := domain.WindowSpec{Kind: kind}

	switch kind {
	case domain.WindowRolling:
		days, err := strconv.Atoi(c.Query("days", "0"))
		if err != nil {
			return domain.WindowSpec{}, fmt.Errorf("%w: days must be an integer", recordshttp.ErrInvalidQuery)
		}
		spec.RollingDays = days

	case domain.WindowCustom:
		from, err := recordshttp.ParseDate("from", c.Query("from"))
		if err != nil {
			return domain.WindowSpec{}, err
		}
		to, err := recordshttp.ParseDate("to", c.Query("to"))
		if err != nil {
			return domain.WindowSpec{}, err
		}
		if from == nil || to == nil {
			return domain.WindowSpec{}, fmt.Errorf("%w: custom windows need from and to", recordshttp.ErrInvalidQuery)
		}
		spec.Custom = &domain.DateWindow{Start: *from, End: *to}
	}

	return spec, nil
}

func writeError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, recordshttp.ErrInvalidQuery),
		errors.Is(err, domain.ErrInvalidWindow),
		errors.Is(err, domain.ErrInvalidWindowKind),
		errors.Is(err, domain.ErrInvalidRollingDays),
		errors.Is(err, domain.ErrInvalidGroupBy),
		errors.Is(err, domain.ErrInvalidRankBasis),
		errors.Is(err, domain.ErrNoPreviousWindow):
		return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
			Error:   "invalid_query",
			Message: err.Error(),
		})
	case errors.Is(err, records.ErrDataUnavailable):
		return c.Status(http.StatusServiceUnavailable).JSON(ErrorResponse{
			Error:   "data_unavailable",
			Message: err.Error(),
		})
	case errors.Is(err, records.ErrConfiguration):
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
