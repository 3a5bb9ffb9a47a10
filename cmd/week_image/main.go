// Command week_image renders the week grid for sample data into a PNG file.
// Handy for checking the layout without a running bot.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/templeseva/priest_scheduler/internal/app"
	"github.com/templeseva/priest_scheduler/internal/controller/callbacks/common"
	"github.com/templeseva/priest_scheduler/internal/model"
	"github.com/templeseva/priest_scheduler/internal/service"
	"go.uber.org/zap"
)

func main() {
	out := flag.String("out", "week.png", "output file")
	tz := flag.String("tz", "Asia/Kolkata", "time zone of the grid")
	flag.Parse()

	logger := app.NewLogger("development", "warn")
	defer logger.Sync()

	loc, err := time.LoadLocation(*tz)
	if err != nil {
		logger.Fatal("Unknown time zone", zap.String("tz", *tz), zap.Error(err))
	}

	now := time.Now().In(loc)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)
	grid := sampleGrid(today, loc, logger)

	png, err := common.GenerateWeekImage(today, grid, model.AvailabilityCalendar, today)
	if err != nil {
		logger.Fatal("Failed to render week", zap.Error(err))
	}

	if err := os.WriteFile(*out, png, 0o644); err != nil {
		logger.Fatal("Failed to write image", zap.String("path", *out), zap.Error(err))
	}

	fmt.Printf("✅ Week image saved to %s (%d bytes)\n", *out, len(png))
}

// sampleGrid runs made-up records through the same aggregation and template
// code the bot uses.
func sampleGrid(today time.Time, loc *time.Location, logger *zap.Logger) model.Grid {
	const priestID = "sample"
	day := func(offset int) string {
		return today.AddDate(0, 0, offset).Format(model.DateLayout)
	}

	overrides := []model.AvailabilityOverride{
		{PriestID: priestID, SlotDate: day(0), SlotTime: "06:00"},
		{PriestID: priestID, SlotDate: day(0), SlotTime: "07:00"},
		{PriestID: priestID, SlotDate: day(2), SlotTime: "13:00"},
	}
	bookings := []model.Booking{
		{ID: "b1", PriestID: priestID, Date: day(0), Start: "10:00", Status: model.BookingStatusConfirmed, Pooja: "Homa"},
		{ID: "b2", PriestID: priestID, Date: day(1), Start: "18:00", Status: model.BookingStatusConfirmed, Pooja: "Aarti"},
	}
	appointments := []model.Appointment{{
		ID:       "a1",
		PriestID: priestID,
		Start:    model.FormatTimestamp(today.AddDate(0, 0, 3).Add(15 * time.Hour)),
		End:      model.FormatTimestamp(today.AddDate(0, 0, 3).Add(17 * time.Hour)),
		Title:    "Griha pravesh",
	}}

	aggregator := service.NewAggregator(model.AvailabilityCalendar, loc, logger)
	grid := aggregator.Aggregate(priestID, overrides, bookings, appointments)

	// a templated working day with a lunch break
	tpl := service.DefaultTemplate()
	tpl = tpl.ToggleBreak("13:00")
	date := day(4)
	current, ok := grid[date]
	if !ok {
		current = model.AvailabilityCalendar.EmptyDay()
	}
	grid[date] = service.ApplyTemplate(model.AvailabilityCalendar, current, tpl)

	return grid
}
