package inventory

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func testStore() *Store {
	return NewStore([]Schedule{
		{ID: "TN001", Departure: "hà nội", Destination: "sài gòn", Time: "08:00", Date: "2025-09-05", AvailableSeats: 10},
		{ID: "TN002", Departure: "hà nội", Destination: "sài gòn", Time: "09:00", Date: "2025-09-05", AvailableSeats: 2},
		{ID: "TN003", Departure: "sài gòn", Destination: "hà nội", Time: "09:00", Date: "2025-09-05", AvailableSeats: 5},
	})
}

func TestFindMatchesRouteDateAndCapacity(t *testing.T) {
	s := testStore()

	found := s.Find("Hà Nội", "Sài Gòn", "2025-09-05", 3)
	require.Len(t, found, 1)
	require.Equal(t, "TN001", found[0].ID)

	found = s.Find("hà nội", "sài gòn", "2025-09-05", 1)
	require.Len(t, found, 2)
	// insertion order
	require.Equal(t, "TN001", found[0].ID)
	require.Equal(t, "TN002", found[1].ID)

	require.Empty(t, s.Find("hà nội", "sài gòn", "2025-09-06", 1))
}

func TestReserveDebitsSeats(t *testing.T) {
	s := testStore()

	booking, err := s.Reserve("TN001", 4)
	require.NoError(t, err)
	require.Equal(t, "VN000001", booking.TicketCode)
	require.Equal(t, StatusBooked, booking.Status)
	require.Equal(t, 4, booking.Quantity)

	sched, ok := s.Schedule("TN001")
	require.True(t, ok)
	require.Equal(t, 6, sched.AvailableSeats)

	_, err = s.Reserve("TN002", 3)
	require.ErrorIs(t, err, ErrNotEnoughSeats)

	_, err = s.Reserve("TN999", 1)
	require.ErrorIs(t, err, ErrScheduleNotFound)
}

func TestCancelCreditsSeatsOnce(t *testing.T) {
	s := testStore()

	booking, err := s.Reserve("TN001", 4)
	require.NoError(t, err)

	cancelled, err := s.Cancel(booking.TicketCode)
	require.NoError(t, err)
	require.Equal(t, StatusCancelled, cancelled.Status)

	sched, _ := s.Schedule("TN001")
	require.Equal(t, 10, sched.AvailableSeats)

	_, err = s.Cancel(booking.TicketCode)
	require.ErrorIs(t, err, ErrTicketCancelled)
	sched, _ = s.Schedule("TN001")
	require.Equal(t, 10, sched.AvailableSeats)

	_, err = s.Cancel("VN999999")
	require.ErrorIs(t, err, ErrTicketNotFound)
}

func TestRescheduleMovesSeatsAtomically(t *testing.T) {
	s := testStore()

	booking, err := s.Reserve("TN001", 2)
	require.NoError(t, err)

	moved, err := s.Reschedule(booking.TicketCode, "09:00")
	require.NoError(t, err)
	require.Equal(t, "TN002", moved.ScheduleID)
	require.Equal(t, "09:00", moved.Time)

	old, _ := s.Schedule("TN001")
	require.Equal(t, 10, old.AvailableSeats)
	target, _ := s.Schedule("TN002")
	require.Equal(t, 0, target.AvailableSeats)
}

func TestRescheduleCapacityMissLeavesSeatsUntouched(t *testing.T) {
	s := testStore()

	booking, err := s.Reserve("TN001", 5)
	require.NoError(t, err)

	// TN002 only has 2 seats, and there is no 10:00 trip at all.
	_, err = s.Reschedule(booking.TicketCode, "09:00")
	require.ErrorIs(t, err, ErrNoTripAtTime)
	_, err = s.Reschedule(booking.TicketCode, "10:00")
	require.ErrorIs(t, err, ErrNoTripAtTime)

	old, _ := s.Schedule("TN001")
	require.Equal(t, 5, old.AvailableSeats)
	target, _ := s.Schedule("TN002")
	require.Equal(t, 2, target.AvailableSeats)
}

func TestRescheduleCancelledTicketFails(t *testing.T) {
	s := testStore()

	booking, err := s.Reserve("TN001", 2)
	require.NoError(t, err)
	_, err = s.Cancel(booking.TicketCode)
	require.NoError(t, err)

	_, err = s.Reschedule(booking.TicketCode, "09:00")
	require.ErrorIs(t, err, ErrTicketCancelled)

	sched, _ := s.Schedule("TN001")
	require.Equal(t, 10, sched.AvailableSeats)
}

// Seat conservation: across any sequence of reserve/cancel/reschedule the
// counter never goes negative and never exceeds the seeded capacity.
func TestSeatConservationUnderConcurrency(t *testing.T) {
	s := testStore()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			booking, err := s.Reserve("TN001", 1)
			if err != nil {
				return
			}
			if _, err := s.Reschedule(booking.TicketCode, "09:00"); err != nil {
				_, _ = s.Cancel(booking.TicketCode)
			}
		}()
	}
	wg.Wait()

	for _, id := range []string{"TN001", "TN002"} {
		sched, ok := s.Schedule(id)
		require.True(t, ok)
		require.GreaterOrEqual(t, sched.AvailableSeats, 0)
	}
	tn1, _ := s.Schedule("TN001")
	require.LessOrEqual(t, tn1.AvailableSeats, 10)
	tn2, _ := s.Schedule("TN002")
	require.LessOrEqual(t, tn2.AvailableSeats, 2)
}
