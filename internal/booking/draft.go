// Package booking composes multi-service bookings: an ordered selection of
// catalog services, each with its own schedule, priced and validated before
// anything is written.
package booking

import (
	"errors"
	"fmt"

	"homecare/internal/model"
)

var (
	ErrDuplicateService = errors.New("service already selected")
	ErrPosition         = errors.New("position out of range")
	ErrUnknownService   = errors.New("unknown or inactive service")
	ErrEmpty            = errors.New("no services selected")
)

// Line is one selected service and its schedule.
type Line struct {
	ServiceID             string
	ScheduledDate         string
	ScheduledTime         string
	Notes                 string
	RecurringInterval     string
	RecurringIntervalDays int
	Price                 model.Money
}

// Draft is the ordered selection. A service appears at most once.
//
// Remove and Move mirror the client-side composer, where customers drop and
// drag services before submitting. The server receives the final order and
// builds a draft with Add only (see Request.Draft).
type Draft struct {
	lines []Line
}

// NewDraft returns an empty draft.
func NewDraft() *Draft {
	return &Draft{}
}

// Add appends a line at the end of the selection.
func (d *Draft) Add(l Line) error {
	if d.index(l.ServiceID) >= 0 {
		return fmt.Errorf("%w: %s", ErrDuplicateService, l.ServiceID)
	}
	d.lines = append(d.lines, l)
	return nil
}

// Remove drops the line for serviceID and reports whether it was present.
func (d *Draft) Remove(serviceID string) bool {
	i := d.index(serviceID)
	if i < 0 {
		return false
	}
	d.lines = append(d.lines[:i], d.lines[i+1:]...)
	return true
}

// Move relocates the line at position from to position to, shifting the
// lines in between. The set of selected services is unchanged.
func (d *Draft) Move(from, to int) error {
	n := len(d.lines)
	if from < 0 || from >= n || to < 0 || to >= n {
		return fmt.Errorf("%w: move %d -> %d with %d lines", ErrPosition, from, to, n)
	}
	if from == to {
		return nil
	}
	l := d.lines[from]
	if from < to {
		copy(d.lines[from:to], d.lines[from+1:to+1])
	} else {
		copy(d.lines[to+1:from+1], d.lines[to:from])
	}
	d.lines[to] = l
	return nil
}

// Lines returns a copy of the selection in order.
func (d *Draft) Lines() []Line {
	out := make([]Line, len(d.lines))
	copy(out, d.lines)
	return out
}

// Len is the number of selected services.
func (d *Draft) Len() int { return len(d.lines) }

// ServiceIDs lists the selected service ids in order.
func (d *Draft) ServiceIDs() []string {
	ids := make([]string, len(d.lines))
	for i, l := range d.lines {
		ids[i] = l.ServiceID
	}
	return ids
}

// ApplyPrices sets every line's price from the catalog price list.
func (d *Draft) ApplyPrices(prices map[string]model.Money) error {
	for i := range d.lines {
		p, ok := prices[d.lines[i].ServiceID]
		if !ok {
			return fmt.Errorf("%w: %s", ErrUnknownService, d.lines[i].ServiceID)
		}
		d.lines[i].Price = p
	}
	return nil
}

// Total is the sum of line prices.
func (d *Draft) Total() model.Money {
	var sum model.Money
	for _, l := range d.lines {
		sum += l.Price
	}
	return sum
}

func (d *Draft) index(serviceID string) int {
	for i, l := range d.lines {
		if l.ServiceID == serviceID {
			return i
		}
	}
	return -1
}
