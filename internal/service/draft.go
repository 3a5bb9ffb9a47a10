package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/templeseva/priest_scheduler/internal/model"
	"go.uber.org/zap"
)

// Draft is an immutable overlay of a committed day: a snapshot plus pending changes.
// Every mutation returns a new Draft.
type Draft struct {
	base  model.DayAvailability
	patch map[model.Slot]model.SlotStatus
}

// NewDraft starts a draft on top of a committed day.
func NewDraft(base model.DayAvailability) Draft {
	return Draft{
		base:  base.Clone(),
		patch: make(map[model.Slot]model.SlotStatus),
	}
}

// With returns a draft where slot has the given status.
func (d Draft) With(slot model.Slot, status model.SlotStatus) Draft {
	patch := make(map[model.Slot]model.SlotStatus, len(d.patch)+1)
	for s, st := range d.patch {
		patch[s] = st
	}
	if d.base.Status(slot) == status {
		if _, ok := d.base[slot]; ok {
			delete(patch, slot)
			return Draft{base: d.base, patch: patch}
		}
	}
	patch[slot] = status
	return Draft{base: d.base, patch: patch}
}

// WithDay returns a draft whose view equals day.
func (d Draft) WithDay(day model.DayAvailability) Draft {
	next := Draft{base: d.base, patch: make(map[model.Slot]model.SlotStatus)}
	for slot, status := range day {
		if base, ok := d.base[slot]; !ok || base != status {
			next.patch[slot] = status
		}
	}
	return next
}

// View returns the day as it looks with the pending changes applied.
func (d Draft) View() model.DayAvailability {
	view := d.base.Clone()
	for slot, status := range d.patch {
		view[slot] = status
	}
	return view
}

// Changed returns the slots that differ from the committed snapshot.
func (d Draft) Changed() []model.Slot {
	slots := make([]model.Slot, 0, len(d.patch))
	for slot := range d.patch {
		slots = append(slots, slot)
	}
	model.SortSlots(slots)
	return slots
}

// DayStore is what the editor needs from the availability service.
type DayStore interface {
	Calendar() model.SlotCalendar
	Day(priestID, date string) model.DayAvailability
	Loaded(priestID string) bool
	SaveDay(ctx context.Context, priestID, date string, unavailable []model.Slot) error
}

// EditorState is the lifecycle state of one day.
type EditorState string

const (
	StateCommitted EditorState = "committed"
	StateDrafting  EditorState = "drafting"
)

// OverrideRequest is a pending confirmation to free a booked slot.
type OverrideRequest struct {
	Token uuid.UUID  `json:"token"`
	Date  string     `json:"date"`
	Slot  model.Slot `json:"slot"`
}

// DraftEditor holds uncommitted edits of one priest's day.
// Changes stay local until Commit; Discard restores the committed view exactly.
type DraftEditor struct {
	store    DayStore
	priestID string
	date     string
	logger   *zap.Logger

	mu         sync.Mutex
	draft      *Draft
	pending    map[uuid.UUID]model.Slot
	committing bool
	touchedAt  time.Time
}

func NewDraftEditor(store DayStore, priestID, date string, logger *zap.Logger) (*DraftEditor, error) {
	if priestID == "" {
		return nil, ErrMissingPriest
	}
	if _, err := time.Parse(model.DateLayout, date); err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidDate, date)
	}
	// an editor over a never-fetched grid would save a made-up day
	if !store.Loaded(priestID) {
		return nil, ErrNotLoaded
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &DraftEditor{
		store:     store,
		priestID:  priestID,
		date:      date,
		logger:    logger.With(zap.String("priest_id", priestID), zap.String("date", date)),
		pending:   make(map[uuid.UUID]model.Slot),
		touchedAt: time.Now(),
	}, nil
}

// Date returns the edited date.
func (e *DraftEditor) Date() string {
	return e.date
}

// PriestID returns the owner of the edited day.
func (e *DraftEditor) PriestID() string {
	return e.priestID
}

// State reports whether the day has pending changes.
func (e *DraftEditor) State() EditorState {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.draft != nil {
		return StateDrafting
	}
	return StateCommitted
}

// IsDrafting reports whether there are uncommitted changes.
func (e *DraftEditor) IsDrafting() bool {
	return e.State() == StateDrafting
}

// IsCommitting reports whether a save is in flight.
func (e *DraftEditor) IsCommitting() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.committing
}

// TouchedAt returns the time of the last edit.
func (e *DraftEditor) TouchedAt() time.Time {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.touchedAt
}

// View returns the draft when one exists, the committed day otherwise.
func (e *DraftEditor) View() model.DayAvailability {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.viewLocked()
}

// Changed returns the slots edited since the last commit.
func (e *DraftEditor) Changed() []model.Slot {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.draft == nil {
		return nil
	}
	return e.draft.Changed()
}

// Toggle flips an Available slot to Unavailable and back.
// Booked slots must go through RequestOverride.
func (e *DraftEditor) Toggle(slot model.Slot) (model.SlotStatus, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.committing {
		return "", ErrCommitInProgress
	}

	view := e.viewLocked()
	status, ok := view[slot]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownSlot, slot)
	}

	var next model.SlotStatus
	switch status {
	case model.SlotBooked:
		return status, ErrSlotBooked
	case model.SlotAvailable:
		next = model.SlotUnavailable
	default:
		next = model.SlotAvailable
	}

	e.setLocked(slot, next)
	e.logger.Debug("Slot toggled",
		zap.String("slot", string(slot)),
		zap.String("status", string(next)))

	return next, nil
}

// RequestOverride opens a confirmation for freeing a booked slot.
// Nothing changes until ConfirmOverride is called with the returned token.
func (e *DraftEditor) RequestOverride(slot model.Slot) (OverrideRequest, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.committing {
		return OverrideRequest{}, ErrCommitInProgress
	}

	view := e.viewLocked()
	status, ok := view[slot]
	if !ok {
		return OverrideRequest{}, fmt.Errorf("%w: %s", ErrUnknownSlot, slot)
	}
	if status != model.SlotBooked {
		return OverrideRequest{}, ErrSlotNotBooked
	}

	token := uuid.New()
	e.pending[token] = slot
	e.touchedAt = time.Now()

	e.logger.Info("Override requested",
		zap.String("slot", string(slot)),
		zap.String("token", token.String()))

	return OverrideRequest{Token: token, Date: e.date, Slot: slot}, nil
}

// ConfirmOverride marks the slot of a pending request Available in the draft.
// The underlying booking is not cancelled.
func (e *DraftEditor) ConfirmOverride(token uuid.UUID) (model.Slot, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.committing {
		return "", ErrCommitInProgress
	}

	slot, ok := e.pending[token]
	if !ok {
		return "", ErrUnknownToken
	}
	delete(e.pending, token)

	e.setLocked(slot, model.SlotAvailable)
	e.logger.Info("Override confirmed", zap.String("slot", string(slot)))

	return slot, nil
}

// CancelOverride drops a pending request without touching the day.
func (e *DraftEditor) CancelOverride(token uuid.UUID) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, ok := e.pending[token]; !ok {
		return ErrUnknownToken
	}
	delete(e.pending, token)
	return nil
}

// ApplyTemplate replaces the draft with the template applied to the current view.
func (e *DraftEditor) ApplyTemplate(template model.Template) (model.DayAvailability, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.committing {
		return nil, ErrCommitInProgress
	}

	day := ApplyTemplate(e.store.Calendar(), e.viewLocked(), template)
	draft := e.draftLocked().WithDay(day)
	e.draft = &draft
	e.touchedAt = time.Now()

	e.logger.Info("Template applied",
		zap.String("start", string(template.Start)),
		zap.String("end", string(template.End)),
		zap.Int("breaks", len(template.Breaks)))

	return draft.View(), nil
}

// Discard drops the draft and every pending override request.
func (e *DraftEditor) Discard() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.committing {
		// the in-flight save decides the outcome
		return
	}
	e.draft = nil
	e.pending = make(map[uuid.UUID]model.Slot)
}

// Commit persists the Unavailable slots of the draft as the complete override set of
// the date. On success the draft is cleared and the grid re-fetched; when the write
// fails the draft is kept so the user can retry.
func (e *DraftEditor) Commit(ctx context.Context) error {
	e.mu.Lock()
	if e.committing {
		e.mu.Unlock()
		return ErrCommitInProgress
	}
	if e.draft == nil {
		e.mu.Unlock()
		return ErrNoDraft
	}
	if !e.store.Loaded(e.priestID) {
		e.mu.Unlock()
		return ErrNotLoaded
	}
	e.committing = true
	unavailable := e.draft.View().Unavailable()
	e.mu.Unlock()

	err := e.store.SaveDay(ctx, e.priestID, e.date, unavailable)

	e.mu.Lock()
	defer e.mu.Unlock()
	e.committing = false

	if err != nil && !errors.Is(err, ErrFetchFailed) {
		e.logger.Warn("Commit failed, draft kept", zap.Error(err))
		return err
	}

	// the write went through; a failed re-fetch must not resurrect the draft
	e.draft = nil
	e.pending = make(map[uuid.UUID]model.Slot)
	e.touchedAt = time.Now()

	if err != nil {
		e.logger.Warn("Saved but refresh failed", zap.Error(err))
		return err
	}

	e.logger.Info("Draft committed", zap.Int("unavailable", len(unavailable)))
	return nil
}

func (e *DraftEditor) viewLocked() model.DayAvailability {
	if e.draft != nil {
		return e.draft.View()
	}
	return e.store.Day(e.priestID, e.date)
}

func (e *DraftEditor) draftLocked() Draft {
	if e.draft != nil {
		return *e.draft
	}
	return NewDraft(e.store.Day(e.priestID, e.date))
}

func (e *DraftEditor) setLocked(slot model.Slot, status model.SlotStatus) {
	draft := e.draftLocked().With(slot, status)
	e.draft = &draft
	e.touchedAt = time.Now()
}
