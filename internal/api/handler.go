package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/templeseva/priest_scheduler/internal/model"
	"github.com/templeseva/priest_scheduler/internal/service"
	"go.uber.org/zap"
)

const (
	defaultRangeDays = 30
	maxRangeDays     = 92
)

// Handler exposes the committed grid and the appointment conflict check.
type Handler struct {
	availability *service.AvailabilityService
	appointments *service.AppointmentService
	logger       *zap.Logger
	now          func() time.Time
}

func NewHandler(availability *service.AvailabilityService, appointments *service.AppointmentService, logger *zap.Logger) *Handler {
	return &Handler{
		availability: availability,
		appointments: appointments,
		logger:       logger,
		now:          time.Now,
	}
}

// RegisterRoutes binds the priest routes to g.
func (h *Handler) RegisterRoutes(g *echo.Group) {
	g.GET("/:id/availability", h.GetAvailability)
	g.GET("/:id/availability/:date", h.GetDay)
	g.GET("/:id/month/:month", h.GetMonth)
	g.POST("/:id/appointments/check", h.CheckAppointment)
}

// Health handles GET /health.
func (h *Handler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// availabilityResponse is the body of GET /priests/:id/availability.
type availabilityResponse struct {
	PriestID  string            `json:"priestId"`
	From      string            `json:"from"`
	To        string            `json:"to"`
	FetchedAt time.Time         `json:"fetchedAt"`
	Days      []service.DayView `json:"days"`
}

// GetAvailability handles GET /priests/:id/availability?from=&to=&refresh=.
// The range defaults to the next 30 days and is capped at 92.
func (h *Handler) GetAvailability(c echo.Context) error {
	priestID := c.Param("id")
	loc := h.availability.Location()

	from, err := h.dateParam(c.QueryParam("from"), h.today())
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid from: "+err.Error())
	}
	to, err := h.dateParam(c.QueryParam("to"), from.AddDate(0, 0, defaultRangeDays-1))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid to: "+err.Error())
	}
	if to.Before(from) {
		return echo.NewHTTPError(http.StatusBadRequest, "to is before from")
	}
	if to.Sub(from) >= maxRangeDays*24*time.Hour {
		return echo.NewHTTPError(http.StatusBadRequest, "range is longer than 92 days")
	}

	if err := h.load(c, priestID); err != nil {
		return err
	}

	fetchedAt, _ := h.availability.FetchedAt(priestID)
	return c.JSON(http.StatusOK, availabilityResponse{
		PriestID:  priestID,
		From:      from.In(loc).Format(model.DateLayout),
		To:        to.In(loc).Format(model.DateLayout),
		FetchedAt: fetchedAt,
		Days:      h.availability.Range(priestID, from, to),
	})
}

type dayResponse struct {
	service.DayView
	Summary  model.DaySummary `json:"summary"`
	Bookings []model.Booking  `json:"bookings"`
}

// GetDay handles GET /priests/:id/availability/:date.
func (h *Handler) GetDay(c echo.Context) error {
	priestID := c.Param("id")
	date, err := time.ParseInLocation(model.DateLayout, c.Param("date"), h.availability.Location())
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "date must be yyyy-MM-dd")
	}

	if err := h.load(c, priestID); err != nil {
		return err
	}

	key := date.Format(model.DateLayout)
	day := h.availability.Day(priestID, key)
	bookings := h.availability.DayBookings(priestID, key)
	if bookings == nil {
		bookings = []model.Booking{}
	}

	return c.JSON(http.StatusOK, dayResponse{
		DayView:  service.DayView{Date: key, Slots: day},
		Summary:  day.Summary(key),
		Bookings: bookings,
	})
}

// GetMonth handles GET /priests/:id/month/:month with month as yyyy-MM.
func (h *Handler) GetMonth(c echo.Context) error {
	priestID := c.Param("id")
	month, err := time.ParseInLocation("2006-01", c.Param("month"), h.availability.Location())
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "month must be yyyy-MM")
	}

	if err := h.load(c, priestID); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, h.availability.Month(priestID, month))
}

// checkRequest is the body of POST /priests/:id/appointments/check. ID is set
// when an existing appointment is being moved.
type checkRequest struct {
	ID    string `json:"id"`
	Start string `json:"start"`
	End   string `json:"end"`
}

type checkResponse struct {
	OK        bool             `json:"ok"`
	Error     string           `json:"error,omitempty"`
	Conflicts []model.Interval `json:"conflicts,omitempty"`
}

// CheckAppointment handles POST /priests/:id/appointments/check. It runs the
// same validation and overlap check as a real save without writing anything.
func (h *Handler) CheckAppointment(c echo.Context) error {
	var req checkRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	loc := h.availability.Location()
	start, err := model.ParseTimestamp(req.Start, loc)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid start")
	}
	end, err := model.ParseTimestamp(req.End, loc)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid end")
	}

	conflicts, err := h.appointments.Check(c.Request().Context(), service.AppointmentInput{
		ID:       req.ID,
		PriestID: c.Param("id"),
		Start:    start,
		End:      end,
	})
	switch {
	case err == nil:
		return c.JSON(http.StatusOK, checkResponse{OK: true})
	case errors.Is(err, service.ErrAppointmentConflict):
		return c.JSON(http.StatusConflict, checkResponse{Error: err.Error(), Conflicts: conflicts})
	case errors.Is(err, service.ErrValidation):
		return c.JSON(http.StatusUnprocessableEntity, checkResponse{Error: err.Error()})
	case errors.Is(err, service.ErrFetchFailed):
		h.logger.Warn("Conflict check without data", zap.String("priest_id", c.Param("id")), zap.Error(err))
		return echo.NewHTTPError(http.StatusBadGateway, "availability sources unavailable")
	default:
		return err
	}
}

// load makes sure a committed grid exists; refresh=true forces a new fetch.
func (h *Handler) load(c echo.Context, priestID string) error {
	ctx := c.Request().Context()

	var err error
	if c.QueryParam("refresh") == "true" {
		_, err = h.availability.Refresh(ctx, priestID)
	} else {
		_, err = h.availability.Ensure(ctx, priestID)
	}
	if err == nil {
		return nil
	}

	// a failed refresh still leaves the previous grid to serve
	if _, ok := h.availability.Committed(priestID); ok && errors.Is(err, service.ErrFetchFailed) {
		h.logger.Warn("Serving stale grid", zap.String("priest_id", priestID), zap.Error(err))
		c.Response().Header().Set("Warning", `110 - "stale availability"`)
		return nil
	}
	if errors.Is(err, service.ErrFetchFailed) {
		return echo.NewHTTPError(http.StatusBadGateway, "availability sources unavailable")
	}
	return err
}

func (h *Handler) today() time.Time {
	loc := h.availability.Location()
	t := h.now().In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

func (h *Handler) dateParam(value string, def time.Time) (time.Time, error) {
	if value == "" {
		return def, nil
	}
	return time.ParseInLocation(model.DateLayout, value, h.availability.Location())
}
