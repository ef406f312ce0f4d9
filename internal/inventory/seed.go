package inventory

import "time"

// DefaultSchedules is the demo trip inventory, dated relative to now so the
// "ngày mai" flows work out of the box.
func DefaultSchedules(now time.Time) []Schedule {
	tomorrow := now.AddDate(0, 0, 1).Format("2006-01-02")
	return []Schedule{
		{ID: "TN001", Departure: "hà nội", Destination: "sài gòn", Time: "08:00", Date: tomorrow, AvailableSeats: 50},
		{ID: "TN002", Departure: "hà nội", Destination: "sài gòn", Time: "09:00", Date: tomorrow, AvailableSeats: 30},
		{ID: "TN003", Departure: "hà nội", Destination: "sài gòn", Time: "14:00", Date: tomorrow, AvailableSeats: 30},
		{ID: "TN004", Departure: "sài gòn", Destination: "hà nội", Time: "09:00", Date: tomorrow, AvailableSeats: 40},
		{ID: "TN005", Departure: "hà nội", Destination: "đà nẵng", Time: "06:30", Date: tomorrow, AvailableSeats: 35},
		{ID: "TN006", Departure: "hà nội", Destination: "đà nẵng", Time: "15:45", Date: tomorrow, AvailableSeats: 35},
	}
}
