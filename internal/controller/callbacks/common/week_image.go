package common

import (
	"bytes"
	"image/color"
	"time"

	"github.com/fogleman/gg"
	"github.com/templeseva/priest_scheduler/internal/model"
	"golang.org/x/image/font/basicfont"
)

// Layout
const (
	imageWidth       = 980
	headerHeight     = 70
	leftLabelsWidth  = 70
	footerHeight     = 50
	rowHeight        = 28
	dayPaddingX      = 6
	slotBorderRadius = 5.0
	shadowOffset     = 2.0
	totalDaysInWeek  = 7
)

// Colors
var (
	bgColor        = color.RGBA{245, 246, 248, 255}
	textColor      = color.RGBA{80, 85, 90, 220}
	hourLabelColor = color.RGBA{110, 115, 120, 200}
	todayBgColor   = color.NRGBA{255, 196, 120, 110}
	evenDayColor   = color.NRGBA{240, 240, 240, 255}
	oddDayColor    = color.NRGBA{226, 226, 226, 255}

	slotAvailableColor   = color.RGBA{133, 193, 85, 220}
	slotUnavailableColor = color.RGBA{170, 170, 170, 210}
	slotBookedColor      = color.RGBA{255, 182, 193, 255}
	slotDefaultColor     = color.RGBA{220, 220, 220, 200}
	slotTextColor        = color.RGBA{20, 24, 28, 230}
	slotBookedTextColor  = color.RGBA{120, 40, 50, 255}
	slotShadowColor      = color.RGBA{0, 0, 0, 20}
)

// GenerateWeekImage renders the availability of the Monday-to-Sunday week containing
// day. days is keyed by yyyy-MM-dd; missing dates render as fully available.
func GenerateWeekImage(day time.Time, days map[string]model.DayAvailability, calendar model.SlotCalendar, today time.Time) ([]byte, error) {
	weekStart := startOfWeek(day)
	slots := calendar.Slots()

	height := headerHeight + len(slots)*rowHeight + footerHeight
	dayWidth := (imageWidth - leftLabelsWidth) / totalDaysInWeek

	dc := gg.NewContext(imageWidth, height)
	dc.SetColor(bgColor)
	dc.Clear()
	dc.SetFontFace(basicfont.Face7x13)

	drawHeader(dc, weekStart)
	drawSlotLabels(dc, slots)

	for i := 0; i < totalDaysInWeek; i++ {
		date := weekStart.AddDate(0, 0, i)
		x := float64(leftLabelsWidth + i*dayWidth)

		drawDayBackground(dc, x, dayWidth, len(slots), i, isSameDay(date, today))
		drawDayHeader(dc, date, x, dayWidth)

		day, ok := days[date.Format(model.DateLayout)]
		if !ok {
			day = calendar.EmptyDay()
		}
		for row, slot := range slots {
			drawSlot(dc, slot, day.Status(slot), x, row, dayWidth)
		}
	}

	drawLegend(dc, height)

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func startOfWeek(date time.Time) time.Time {
	d := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	offset := (int(d.Weekday()) + 6) % 7
	return d.AddDate(0, 0, -offset)
}

func isSameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}

func drawHeader(dc *gg.Context, weekStart time.Time) {
	weekEnd := weekStart.AddDate(0, 0, totalDaysInWeek-1)
	title := weekStart.Format("02 Jan") + " - " + weekEnd.Format("02 Jan 2006")

	dc.SetColor(textColor)
	dc.DrawStringAnchored(title, float64(imageWidth)/2, 18, 0.5, 0.5)
}

func drawSlotLabels(dc *gg.Context, slots []model.Slot) {
	dc.SetColor(hourLabelColor)
	for row, slot := range slots {
		y := float64(headerHeight+row*rowHeight) + rowHeight/2
		dc.DrawStringAnchored(string(slot), float64(leftLabelsWidth)-10, y, 1, 0.5)
	}
}

func drawDayBackground(dc *gg.Context, x float64, dayWidth, rows, index int, today bool) {
	switch {
	case today:
		dc.SetColor(todayBgColor)
	case index%2 == 0:
		dc.SetColor(evenDayColor)
	default:
		dc.SetColor(oddDayColor)
	}
	dc.DrawRectangle(x, float64(headerHeight), float64(dayWidth), float64(rows*rowHeight))
	dc.Fill()
}

func drawDayHeader(dc *gg.Context, date time.Time, x float64, dayWidth int) {
	dc.SetColor(textColor)
	center := x + float64(dayWidth)/2
	dc.DrawStringAnchored(date.Format("Mon"), center, float64(headerHeight)-34, 0.5, 0.5)
	dc.DrawStringAnchored(date.Format("02.01"), center, float64(headerHeight)-16, 0.5, 0.5)
}

func drawSlot(dc *gg.Context, slot model.Slot, status model.SlotStatus, x float64, row, dayWidth int) {
	y := float64(headerHeight+row*rowHeight) + 2
	w := float64(dayWidth - dayPaddingX*2)
	h := float64(rowHeight - 4)
	fill := slotColor(status)

	dc.SetColor(slotShadowColor)
	dc.DrawRoundedRectangle(x+dayPaddingX+shadowOffset, y+shadowOffset, w, h, slotBorderRadius)
	dc.Fill()

	dc.SetColor(fill)
	dc.DrawRoundedRectangle(x+dayPaddingX, y, w, h, slotBorderRadius)
	dc.Fill()

	dc.SetColor(darkenColor(fill, 0.8))
	dc.SetLineWidth(1)
	dc.DrawRoundedRectangle(x+dayPaddingX, y, w, h, slotBorderRadius)
	dc.Stroke()

	if status == model.SlotBooked {
		dc.SetColor(slotBookedTextColor)
	} else {
		dc.SetColor(slotTextColor)
	}
	dc.DrawStringAnchored(string(slot), x+dayPaddingX+8, y+h/2, 0, 0.5)
}

func slotColor(status model.SlotStatus) color.RGBA {
	switch status {
	case model.SlotAvailable:
		return slotAvailableColor
	case model.SlotUnavailable:
		return slotUnavailableColor
	case model.SlotBooked:
		return slotBookedColor
	default:
		return slotDefaultColor
	}
}

func darkenColor(c color.RGBA, factor float64) color.RGBA {
	return color.RGBA{
		R: uint8(float64(c.R) * factor),
		G: uint8(float64(c.G) * factor),
		B: uint8(float64(c.B) * factor),
		A: c.A,
	}
}

func drawLegend(dc *gg.Context, height int) {
	items := []struct {
		label string
		clr   color.Color
	}{
		{"Available", slotAvailableColor},
		{"Unavailable", slotUnavailableColor},
		{"Booked", slotBookedColor},
	}

	x := float64(leftLabelsWidth)
	y := float64(height - footerHeight + 18)
	for _, item := range items {
		dc.SetColor(item.clr)
		dc.DrawRoundedRectangle(x, y, 20, 14, 3)
		dc.Fill()

		dc.SetColor(textColor)
		dc.DrawStringAnchored(item.label, x+28, y+7, 0, 0.5)
		x += 150
	}
}
