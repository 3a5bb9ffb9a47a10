package common

import (
	"bytes"
	"image/png"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/templeseva/priest_scheduler/internal/model"
)

func TestGenerateWeekImage(t *testing.T) {
	day := model.AvailabilityCalendar.EmptyDay()
	day["10:00"] = model.SlotBooked
	day["11:00"] = model.SlotUnavailable

	wed := time.Date(2025, 6, 11, 0, 0, 0, 0, time.UTC)
	data, err := GenerateWeekImage(wed, map[string]model.DayAvailability{"2025-06-11": day}, model.AvailabilityCalendar, wed)
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, imageWidth, img.Bounds().Dx())
	assert.Equal(t, headerHeight+21*rowHeight+footerHeight, img.Bounds().Dy())
}

func TestStartOfWeek(t *testing.T) {
	sunday := time.Date(2025, 6, 15, 13, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2025, 6, 9, 0, 0, 0, 0, time.UTC), startOfWeek(sunday))

	monday := time.Date(2025, 6, 9, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, monday, startOfWeek(monday))
}
