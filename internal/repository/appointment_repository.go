package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/templeseva/priest_scheduler/internal/model"
	"github.com/templeseva/priest_scheduler/internal/repository/base"
)

type AppointmentRepository struct {
	*base.Repository
}

func NewAppointmentRepository(repo *base.Repository) *AppointmentRepository {
	return &AppointmentRepository{Repository: repo}
}

// ListByPriest returns the manual appointments of a priest ordered by start.
func (r *AppointmentRepository) ListByPriest(ctx context.Context, priestID string) ([]model.Appointment, error) {
	query := `
		SELECT id, priest_id, start_at, end_at, title, notes
		FROM manual_appointments
		WHERE priest_id = $1
		ORDER BY start_at
	`

	rows, err := r.Query(ctx, query, priestID)
	if err != nil {
		return nil, fmt.Errorf("get appointments by priest: %w", err)
	}
	defer rows.Close()

	var appointments []model.Appointment
	for rows.Next() {
		var (
			appt       model.Appointment
			start, end time.Time
		)
		if err := rows.Scan(&appt.ID, &appt.PriestID, &start, &end, &appt.Title, &appt.Notes); err != nil {
			return nil, fmt.Errorf("scan appointment: %w", err)
		}
		appt.Start = model.FormatTimestamp(start)
		appt.End = model.FormatTimestamp(end)
		appointments = append(appointments, appt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate appointments: %w", err)
	}

	return appointments, nil
}

// Create inserts a manual appointment. The caller assigns the ID.
func (r *AppointmentRepository) Create(ctx context.Context, appt model.Appointment) (model.Appointment, error) {
	start, end, err := appointmentBounds(appt)
	if err != nil {
		return model.Appointment{}, err
	}

	query := `
		INSERT INTO manual_appointments (id, priest_id, start_at, end_at, title, notes)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	if _, err := r.ExecAffected(ctx, query, appt.ID, appt.PriestID, start, end, appt.Title, appt.Notes); err != nil {
		return model.Appointment{}, fmt.Errorf("create appointment: %w", err)
	}

	return appt, nil
}

// Update rewrites an appointment in place.
func (r *AppointmentRepository) Update(ctx context.Context, appt model.Appointment) (model.Appointment, error) {
	start, end, err := appointmentBounds(appt)
	if err != nil {
		return model.Appointment{}, err
	}

	query := `
		UPDATE manual_appointments
		SET start_at = $1, end_at = $2, title = $3, notes = $4, updated_at = NOW()
		WHERE id = $5 AND priest_id = $6
	`
	affected, err := r.ExecAffected(ctx, query, start, end, appt.Title, appt.Notes, appt.ID, appt.PriestID)
	if err != nil {
		return model.Appointment{}, fmt.Errorf("update appointment: %w", err)
	}
	if affected == 0 {
		return model.Appointment{}, fmt.Errorf("appointment %s not found", appt.ID)
	}

	return appt, nil
}

func appointmentBounds(appt model.Appointment) (time.Time, time.Time, error) {
	start, err := model.ParseTimestamp(appt.Start, time.UTC)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("parse appointment start: %w", err)
	}
	end, err := model.ParseTimestamp(appt.End, time.UTC)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("parse appointment end: %w", err)
	}
	return start, end, nil
}
