package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/templeseva/priest_scheduler/internal/model"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// AvailabilitySource is the backend contract: three reads and one replacing write.
// It is implemented by the REST client and by the PostgreSQL repositories.
type AvailabilitySource interface {
	ListBookings(ctx context.Context, priestID string) ([]model.Booking, error)
	ListManualAppointments(ctx context.Context, priestID string) ([]model.Appointment, error)
	ListOverrides(ctx context.Context, priestID string) ([]model.AvailabilityOverride, error)
	SaveAvailability(ctx context.Context, req model.SaveAvailabilityRequest) error
}

// AvailabilityService fetches the three sources, merges them and keeps the last
// committed grid of every priest.
type AvailabilityService struct {
	source     AvailabilitySource
	aggregator *Aggregator
	logger     *zap.Logger

	mu        sync.RWMutex
	committed map[string]model.Grid // priestID -> grid
	bookings  map[string][]model.Booking
	fetchedAt map[string]time.Time
}

func NewAvailabilityService(source AvailabilitySource, aggregator *Aggregator, logger *zap.Logger) *AvailabilityService {
	return &AvailabilityService{
		source:     source,
		aggregator: aggregator,
		logger:     logger,
		committed:  make(map[string]model.Grid),
		bookings:   make(map[string][]model.Booking),
		fetchedAt:  make(map[string]time.Time),
	}
}

// Calendar returns the slot universe of the grid.
func (s *AvailabilityService) Calendar() model.SlotCalendar {
	return s.aggregator.Calendar()
}

// Location returns the zone dates are evaluated in.
func (s *AvailabilityService) Location() *time.Location {
	return s.aggregator.Location()
}

// Refresh fetches the three sources concurrently and rebuilds the grid from scratch.
// When any fetch fails nothing is merged and the previous grid is kept.
func (s *AvailabilityService) Refresh(ctx context.Context, priestID string) (model.Grid, error) {
	var (
		overrides    []model.AvailabilityOverride
		bookings     []model.Booking
		appointments []model.Appointment
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		overrides, err = s.source.ListOverrides(gctx, priestID)
		if err != nil {
			return fmt.Errorf("list overrides: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		bookings, err = s.source.ListBookings(gctx, priestID)
		if err != nil {
			return fmt.Errorf("list bookings: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		appointments, err = s.source.ListManualAppointments(gctx, priestID)
		if err != nil {
			return fmt.Errorf("list manual appointments: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		s.logger.Error("Failed to fetch availability sources",
			zap.String("priest_id", priestID),
			zap.Error(err))
		return nil, fmt.Errorf("%w: %w", ErrFetchFailed, err)
	}

	grid := s.aggregator.Aggregate(priestID, overrides, bookings, appointments)

	s.mu.Lock()
	s.committed[priestID] = grid
	s.bookings[priestID] = blocking(bookings)
	s.fetchedAt[priestID] = time.Now()
	s.mu.Unlock()

	s.logger.Info("Availability refreshed",
		zap.String("priest_id", priestID),
		zap.Int("days", len(grid)))

	return grid.Clone(), nil
}

// Committed returns a copy of the last successfully merged grid, if any.
func (s *AvailabilityService) Committed(priestID string) (model.Grid, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	grid, ok := s.committed[priestID]
	if !ok {
		return nil, false
	}
	return grid.Clone(), true
}

// Loaded reports whether a grid of the priest was ever fetched successfully.
func (s *AvailabilityService) Loaded(priestID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.committed[priestID]
	return ok
}

// FetchedAt returns when the committed grid was built.
func (s *AvailabilityService) FetchedAt(priestID string) (time.Time, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.fetchedAt[priestID]
	return t, ok
}

// Day returns the committed view of one date. Dates with no data are fully Available.
func (s *AvailabilityService) Day(priestID, date string) model.DayAvailability {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if grid, ok := s.committed[priestID]; ok {
		if day, ok := grid[date]; ok {
			return day.Clone()
		}
	}
	return s.aggregator.Calendar().EmptyDay()
}

// DayBookings returns the slot-blocking bookings of the committed grid on one date.
func (s *AvailabilityService) DayBookings(priestID, date string) []model.Booking {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []model.Booking
	for _, b := range s.bookings[priestID] {
		if len(b.Date) >= len(model.DateLayout) && b.Date[:len(model.DateLayout)] == date {
			result = append(result, b)
		}
	}
	return result
}

func blocking(bookings []model.Booking) []model.Booking {
	var result []model.Booking
	for _, b := range bookings {
		if b.Blocks() {
			result = append(result, b)
		}
	}
	return result
}

// Ensure returns the committed grid, fetching it first when it was never loaded.
func (s *AvailabilityService) Ensure(ctx context.Context, priestID string) (model.Grid, error) {
	if grid, ok := s.Committed(priestID); ok {
		return grid, nil
	}
	return s.Refresh(ctx, priestID)
}

// SaveDay persists the complete Unavailable set of a date and re-fetches everything.
// A failed write wraps ErrCommitFailed; a failed re-fetch after a successful write
// wraps ErrFetchFailed.
func (s *AvailabilityService) SaveDay(ctx context.Context, priestID, date string, unavailable []model.Slot) error {
	if _, err := time.Parse(model.DateLayout, date); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidDate, date)
	}

	req := model.NewSaveAvailabilityRequest(priestID, date, unavailable)
	if err := s.source.SaveAvailability(ctx, req); err != nil {
		s.logger.Error("Failed to save availability",
			zap.String("priest_id", priestID),
			zap.String("date", date),
			zap.Error(err))
		return fmt.Errorf("%w: %w", ErrCommitFailed, err)
	}

	s.logger.Info("Availability saved",
		zap.String("priest_id", priestID),
		zap.String("date", date),
		zap.Strings("unavailable", req.UnavailableSlots))

	if _, err := s.Refresh(ctx, priestID); err != nil {
		return err
	}
	return nil
}

// Month returns the committed summary of every date of the month containing day.
func (s *AvailabilityService) Month(priestID string, day time.Time) []model.DaySummary {
	first := time.Date(day.Year(), day.Month(), 1, 0, 0, 0, 0, s.Location())
	next := first.AddDate(0, 1, 0)

	var summaries []model.DaySummary
	for d := first; d.Before(next); d = d.AddDate(0, 0, 1) {
		date := d.Format(model.DateLayout)
		summaries = append(summaries, s.Day(priestID, date).Summary(date))
	}
	return summaries
}

// Range returns the committed days between from and to inclusive.
func (s *AvailabilityService) Range(priestID string, from, to time.Time) []DayView {
	var days []DayView
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		date := d.Format(model.DateLayout)
		days = append(days, DayView{Date: date, Slots: s.Day(priestID, date)})
	}
	return days
}

// DayView is one date of the grid, serialized for API consumers.
type DayView struct {
	Date  string                `json:"date"`
	Slots model.DayAvailability `json:"slots"`
}

// Forget drops the cached grid of a priest.
func (s *AvailabilityService) Forget(priestID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.committed, priestID)
	delete(s.bookings, priestID)
	delete(s.fetchedAt, priestID)
}
