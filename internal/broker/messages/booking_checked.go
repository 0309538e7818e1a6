package messages

import "time"

// BookingChecked is emitted once per record terminal outcome, including
// errors and unsupported rows.
type BookingChecked struct {
	Locator       string    `json:"locator"`
	Carrier       string    `json:"carrier"`
	PassengerName string    `json:"passenger_name"`
	Status        string    `json:"status"`
	FlightDate    string    `json:"flight_date,omitempty"`
	CheckedAt     time.Time `json:"checked_at"`
}
