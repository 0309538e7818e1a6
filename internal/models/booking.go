package models

// Carrier classification of a raw row. Closed set.
const (
	CarrierGOL         = "GOL"
	CarrierAZUL        = "AZUL"
	CarrierLATAM       = "LATAM"
	CarrierUnsupported = "UNSUPPORTED"
)

// Terminal per-record statuses.
const (
	StatusOK          = "OK"
	StatusAltered     = "ALTERED"
	StatusUnsupported = "UNSUPPORTED"
	StatusError       = "ERROR"
)

// BookingLookupRequest is the canonical, immutable per-record input
// produced by the normalizer from one raw spreadsheet row.
type BookingLookupRequest struct {
	Carrier        string
	PassengerName  string
	LastName       string
	OriginCode     string
	Locator        string
	PurchaseNumber string
	ScheduledDate  string
	// RawCarrierLabel keeps the original carrier text for unsupported rows.
	RawCarrierLabel string
}

// BookingLookupResult is the output unit, one per request, same order as input.
type BookingLookupResult struct {
	PassengerName string `json:"passenger_name"`
	Locator       string `json:"locator"`
	OriginCode    string `json:"origin_code"`
	LastName      string `json:"last_name"`
	Carrier       string `json:"carrier"`
	Status        string `json:"status"`
	FlightDate    string `json:"flight_date,omitempty"`
}

// DisplayCarrierName maps the carrier enum to the name shown in results.
// Unsupported rows keep their original label.
func DisplayCarrierName(carrier, rawLabel string) string {
	switch carrier {
	case CarrierGOL:
		return "Gol"
	case CarrierAZUL:
		return "Azul"
	case CarrierLATAM:
		return "Latam"
	default:
		return rawLabel
	}
}
