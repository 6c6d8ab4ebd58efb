// Package history holds the append-only audit trail of an order's stage transitions.
package history

import (
	"errors"
	"strings"
	"time"

	"orderflow/internal/core/domain/model/actor"
	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/pkg/errs"
)

const MaxNotesLength = 500

var ErrEntryIsNotConstructed = errors.New("Entry must be created via NewEntry constructor")

// Entry records that an order reached a status, who caused it and when. SequenceID is zero until
// the entry has been stored.
type Entry struct {
	restaurantID kernel.RestaurantID
	orderID      kernel.UUID
	sequenceID   int64
	stageReached order.Status
	actor        actor.Actor
	notes        string

	// dedupeKey makes appends idempotent: a second append with the same key is a no-op
	dedupeKey  string
	recordedAt time.Time

	isConstructed bool
}

func NewEntry(
	restaurantID kernel.RestaurantID,
	orderID kernel.UUID,
	stageReached order.Status,
	by actor.Actor,
	notes string,
	dedupeKey string,
	now time.Time,
) (Entry, error) {
	notes = strings.TrimSpace(notes)
	if err := errors.Join(
		restaurantID.Validate(),
		orderID.Validate(),
		stageReached.Validate(),
		by.Validate(),
		validateNotes(notes),
		validateDedupeKey(dedupeKey),
	); err != nil {
		return Entry{}, err
	}

	return Entry{
		restaurantID:  restaurantID,
		orderID:       orderID,
		stageReached:  stageReached,
		actor:         by,
		notes:         notes,
		dedupeKey:     dedupeKey,
		recordedAt:    now.UTC(),
		isConstructed: true,
	}, nil
}

// RestoreEntry rebuilds a stored entry.
func RestoreEntry(
	restaurantID kernel.RestaurantID,
	orderID kernel.UUID,
	sequenceID int64,
	stageReached order.Status,
	by actor.Actor,
	notes string,
	dedupeKey string,
	recordedAt time.Time,
) (Entry, error) {
	e, err := NewEntry(restaurantID, orderID, stageReached, by, notes, dedupeKey, recordedAt)
	if err != nil {
		return Entry{}, err
	}
	if sequenceID < 1 {
		return Entry{}, errs.NewValueIsOutOfRangeError("sequenceID", sequenceID, 1, "unbounded")
	}
	e.sequenceID = sequenceID
	return e, nil
}

// WithSequence returns a stored copy of e.
func (e Entry) WithSequence(sequenceID int64) Entry {
	e.sequenceID = sequenceID
	return e
}

func (e Entry) Validate() error {
	if !e.isConstructed {
		return ErrEntryIsNotConstructed
	}
	return nil
}

func (e Entry) RestaurantID() kernel.RestaurantID { return e.restaurantID }
func (e Entry) OrderID() kernel.UUID              { return e.orderID }
func (e Entry) SequenceID() int64                 { return e.sequenceID }
func (e Entry) StageReached() order.Status        { return e.stageReached }
func (e Entry) Actor() actor.Actor                { return e.actor }
func (e Entry) Notes() string                     { return e.notes }
func (e Entry) DedupeKey() string                 { return e.dedupeKey }
func (e Entry) RecordedAt() time.Time             { return e.recordedAt }

func validateNotes(notes string) error {
	if len(notes) > MaxNotesLength {
		return errs.NewValueIsOutOfRangeError("notes length", len(notes), 0, MaxNotesLength)
	}
	return nil
}

func validateDedupeKey(key string) error {
	if strings.TrimSpace(key) == "" {
		return errs.NewValueIsRequiredError("dedupeKey")
	}
	return nil
}
