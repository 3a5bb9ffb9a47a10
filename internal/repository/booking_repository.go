package repository

import (
	"context"
	"fmt"

	"github.com/templeseva/priest_scheduler/internal/model"
	"github.com/templeseva/priest_scheduler/internal/repository/base"
)

type BookingRepository struct {
	*base.Repository
}

func NewBookingRepository(repo *base.Repository) *BookingRepository {
	return &BookingRepository{Repository: repo}
}

// ListByPriest returns every booking of a priest regardless of status.
// Status filtering belongs to the aggregator.
func (r *BookingRepository) ListByPriest(ctx context.Context, priestID string) ([]model.Booking, error) {
	query := `
		SELECT id, priest_id, to_char(booking_date, 'YYYY-MM-DD'), to_char(start_time, 'HH24:MI'),
		       status, pooja_name, customer_name
		FROM priest_bookings
		WHERE priest_id = $1
		ORDER BY booking_date, start_time
	`

	rows, err := r.Query(ctx, query, priestID)
	if err != nil {
		return nil, fmt.Errorf("get bookings by priest: %w", err)
	}
	defer rows.Close()

	var bookings []model.Booking
	for rows.Next() {
		var b model.Booking
		err := rows.Scan(
			&b.ID,
			&b.PriestID,
			&b.Date,
			&b.Start,
			&b.Status,
			&b.Pooja,
			&b.Customer,
		)
		if err != nil {
			return nil, fmt.Errorf("scan booking: %w", err)
		}
		bookings = append(bookings, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate bookings: %w", err)
	}

	return bookings, nil
}
