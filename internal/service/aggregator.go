package service

import (
	"strings"
	"time"

	"github.com/templeseva/priest_scheduler/internal/model"
	"go.uber.org/zap"
)

// Aggregator folds overrides, bookings and manual appointments into one Grid.
// It is a pure merge: it never fetches or persists anything.
type Aggregator struct {
	calendar model.SlotCalendar
	location *time.Location
	logger   *zap.Logger
}

func NewAggregator(calendar model.SlotCalendar, location *time.Location, logger *zap.Logger) *Aggregator {
	if location == nil {
		location = time.Local
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Aggregator{
		calendar: calendar,
		location: location,
		logger:   logger,
	}
}

// Calendar returns the slot universe used for every day.
func (a *Aggregator) Calendar() model.SlotCalendar {
	return a.calendar
}

// Location returns the zone manual appointment timestamps are converted to.
func (a *Aggregator) Location() *time.Location {
	return a.location
}

// Aggregate builds the merged grid. Later steps win:
// empty days, then overrides (Unavailable), then bookings and manual appointments (Booked).
func (a *Aggregator) Aggregate(
	priestID string,
	overrides []model.AvailabilityOverride,
	bookings []model.Booking,
	appointments []model.Appointment,
) model.Grid {
	type mark struct {
		date string
		slot model.Slot
	}

	grid := make(model.Grid)
	ensureDay := func(date string) model.DayAvailability {
		day, ok := grid[date]
		if !ok {
			day = a.calendar.EmptyDay()
			grid[date] = day
		}
		return day
	}

	// Records are resolved first so that every valid date gets a full day
	// before any status is applied.
	var unavailable, booked []mark

	for _, o := range overrides {
		if !a.ownedBy(priestID, o.PriestID) {
			continue
		}
		date, ok := a.parseDate(o.SlotDate)
		if !ok {
			a.skip("override", "", "missing or invalid slotDate", zap.String("slot_date", o.SlotDate))
			continue
		}
		ensureDay(date)
		slot, ok := a.parseSlot(o.SlotTime)
		if !ok {
			a.skip("override", "", "missing or invalid slotTime", zap.String("slot_time", o.SlotTime))
			continue
		}
		unavailable = append(unavailable, mark{date, slot})
	}

	for _, b := range bookings {
		if !a.ownedBy(priestID, b.PriestID) {
			continue
		}
		date, ok := a.parseDate(b.Date)
		if !ok {
			a.skip("booking", b.ID, "missing or invalid date", zap.String("date", b.Date))
			continue
		}
		ensureDay(date)
		slot, ok := a.parseSlot(b.Start)
		if !ok {
			a.skip("booking", b.ID, "missing or invalid start", zap.String("start", b.Start))
			continue
		}
		if !b.Blocks() {
			continue
		}
		booked = append(booked, mark{date, slot})
	}

	for _, appt := range appointments {
		if !a.ownedBy(priestID, appt.PriestID) {
			continue
		}
		if strings.TrimSpace(appt.Start) == "" {
			a.skip("appointment", appt.ID, "missing start")
			continue
		}
		start, err := model.ParseTimestamp(appt.Start, a.location)
		if err != nil {
			a.skip("appointment", appt.ID, "invalid start", zap.String("start", appt.Start), zap.Error(err))
			continue
		}
		local := start.In(a.location)
		date := local.Format(model.DateLayout)
		ensureDay(date)
		slot := a.calendar.FloorTime(local)
		if !a.calendar.Contains(slot) {
			a.skip("appointment", appt.ID, "start outside of the slot grid", zap.String("slot", string(slot)))
			continue
		}
		booked = append(booked, mark{date, slot})
	}

	for _, m := range unavailable {
		grid[m.date][m.slot] = model.SlotUnavailable
	}
	for _, m := range booked {
		grid[m.date][m.slot] = model.SlotBooked
	}

	a.logger.Debug("Availability aggregated",
		zap.String("priest_id", priestID),
		zap.Int("days", len(grid)),
		zap.Int("overrides", len(overrides)),
		zap.Int("bookings", len(bookings)),
		zap.Int("appointments", len(appointments)))

	return grid
}

// ownedBy skips records that explicitly belong to another priest.
func (a *Aggregator) ownedBy(priestID, recordPriestID string) bool {
	return recordPriestID == "" || priestID == "" || recordPriestID == priestID
}

func (a *Aggregator) parseDate(value string) (string, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", false
	}
	// some records carry a full timestamp in the date field
	if len(value) > len(model.DateLayout) {
		value = value[:len(model.DateLayout)]
	}
	d, err := time.Parse(model.DateLayout, value)
	if err != nil {
		return "", false
	}
	return d.Format(model.DateLayout), true
}

// parseSlot normalizes a record time onto the grid; off-grid values are floored
// and values outside the universe are rejected.
func (a *Aggregator) parseSlot(value string) (model.Slot, bool) {
	if strings.TrimSpace(value) == "" {
		return "", false
	}
	slot, err := model.ParseSlot(value)
	if err != nil {
		return "", false
	}
	slot = a.calendar.Floor(slot.Minutes())
	if !a.calendar.Contains(slot) {
		return "", false
	}
	return slot, true
}

func (a *Aggregator) skip(kind, id, reason string, fields ...zap.Field) {
	fields = append([]zap.Field{
		zap.String("record", kind),
		zap.String("id", id),
		zap.String("reason", reason),
	}, fields...)
	a.logger.Warn("Skipping malformed record", fields...)
}
