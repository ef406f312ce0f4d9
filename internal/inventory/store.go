// Package inventory holds the in-memory transactional ledger of scheduled
// trips and bookings. The store is shared by every session; all seat-count
// mutations happen under a single store mutex so a reserve, cancel or
// reschedule is atomic with respect to the counters it touches.
package inventory

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// Booking status values
const (
	StatusBooked    = "booked"
	StatusCancelled = "cancelled"
)

var (
	ErrScheduleNotFound = errors.New("schedule not found")
	ErrNotEnoughSeats   = errors.New("not enough seats")
	ErrTicketNotFound   = errors.New("ticket not found")
	ErrTicketCancelled  = errors.New("ticket already cancelled")
	ErrNoTripAtTime     = errors.New("no trip at requested time")
)

// Schedule is one scheduled trip: immutable route identity plus a mutable
// seat counter.
type Schedule struct {
	ID             string `json:"id"`
	Departure      string `json:"departure"`
	Destination    string `json:"destination"`
	Date           string `json:"date"` // YYYY-MM-DD
	Time           string `json:"time"` // HH:MM
	AvailableSeats int    `json:"available_seats"`
}

// Booking is a confirmed reservation against a schedule. Bookings are never
// deleted; cancellation flips the status so seat accounting stays auditable.
type Booking struct {
	ID          string `json:"id"`
	TicketCode  string `json:"ticket_code"`
	ScheduleID  string `json:"schedule_id"`
	Departure   string `json:"departure"`
	Destination string `json:"destination"`
	Date        string `json:"date"`
	Time        string `json:"time"`
	Quantity    int    `json:"quantity"`
	Status      string `json:"status"`
}

// Store is the seat inventory. Construct one with NewStore and inject it
// into the orchestrator; there is no package-level instance.
type Store struct {
	mu        sync.RWMutex
	schedules []*Schedule
	byID      map[string]*Schedule
	bookings  map[string]*Booking // keyed by ticket code
	seq       int
}

// NewStore seeds the inventory. Schedules are copied; later mutations go
// through the store only.
func NewStore(seed []Schedule) *Store {
	s := &Store{
		byID:     make(map[string]*Schedule, len(seed)),
		bookings: make(map[string]*Booking),
	}
	for i := range seed {
		sched := seed[i]
		s.schedules = append(s.schedules, &sched)
		s.byID[sched.ID] = &sched
	}
	return s
}

// Find returns schedules matching the route case-insensitively and the
// canonical date exactly, with at least minQuantity free seats. Results keep
// store insertion order.
func (s *Store) Find(departure, destination, date string, minQuantity int) []Schedule {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []Schedule
	for _, sched := range s.schedules {
		if strings.EqualFold(sched.Departure, departure) &&
			strings.EqualFold(sched.Destination, destination) &&
			sched.Date == date &&
			sched.AvailableSeats >= minQuantity {
			out = append(out, *sched)
		}
	}
	return out
}

// Reserve debits quantity seats from the schedule and mints a new booking.
func (s *Store) Reserve(scheduleID string, quantity int) (*Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sched, ok := s.byID[scheduleID]
	if !ok {
		return nil, fmt.Errorf("reserve %s: %w", scheduleID, ErrScheduleNotFound)
	}
	if sched.AvailableSeats < quantity {
		return nil, fmt.Errorf("reserve %s: %w", scheduleID, ErrNotEnoughSeats)
	}

	s.seq++
	booking := &Booking{
		ID:          uuid.New().String(),
		TicketCode:  fmt.Sprintf("VN%06d", s.seq),
		ScheduleID:  sched.ID,
		Departure:   sched.Departure,
		Destination: sched.Destination,
		Date:        sched.Date,
		Time:        sched.Time,
		Quantity:    quantity,
		Status:      StatusBooked,
	}
	sched.AvailableSeats -= quantity
	s.bookings[booking.TicketCode] = booking

	out := *booking
	return &out, nil
}

// Cancel flips the booking to cancelled and credits its seats back to the
// booking's current schedule.
func (s *Store) Cancel(ticketCode string) (*Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	booking, ok := s.bookings[ticketCode]
	if !ok {
		return nil, fmt.Errorf("cancel %s: %w", ticketCode, ErrTicketNotFound)
	}
	if booking.Status == StatusCancelled {
		return nil, fmt.Errorf("cancel %s: %w", ticketCode, ErrTicketCancelled)
	}

	booking.Status = StatusCancelled
	if sched, ok := s.byID[booking.ScheduleID]; ok {
		sched.AvailableSeats += booking.Quantity
	}

	out := *booking
	return &out, nil
}

// Reschedule moves a booking to the same-route, same-date schedule at
// newTime. The credit to the old schedule and debit to the new one are
// applied together or not at all; a capacity miss leaves both untouched.
func (s *Store) Reschedule(ticketCode, newTime string) (*Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	booking, ok := s.bookings[ticketCode]
	if !ok {
		return nil, fmt.Errorf("reschedule %s: %w", ticketCode, ErrTicketNotFound)
	}
	if booking.Status == StatusCancelled {
		return nil, fmt.Errorf("reschedule %s: %w", ticketCode, ErrTicketCancelled)
	}

	var target *Schedule
	for _, sched := range s.schedules {
		if strings.EqualFold(sched.Departure, booking.Departure) &&
			strings.EqualFold(sched.Destination, booking.Destination) &&
			sched.Date == booking.Date &&
			sched.Time == newTime &&
			sched.AvailableSeats >= booking.Quantity {
			target = sched
			break
		}
	}
	if target == nil {
		return nil, fmt.Errorf("reschedule %s to %s: %w", ticketCode, newTime, ErrNoTripAtTime)
	}

	if old, ok := s.byID[booking.ScheduleID]; ok {
		old.AvailableSeats += booking.Quantity
	}
	target.AvailableSeats -= booking.Quantity
	booking.ScheduleID = target.ID
	booking.Time = target.Time

	out := *booking
	return &out, nil
}

// Lookup returns a copy of the booking for the ticket code.
func (s *Store) Lookup(ticketCode string) (*Booking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	booking, ok := s.bookings[ticketCode]
	if !ok {
		return nil, fmt.Errorf("lookup %s: %w", ticketCode, ErrTicketNotFound)
	}
	out := *booking
	return &out, nil
}

// Schedule returns a copy of one schedule by id.
func (s *Store) Schedule(id string) (Schedule, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sched, ok := s.byID[id]
	if !ok {
		return Schedule{}, false
	}
	return *sched, true
}
