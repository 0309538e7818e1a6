package batch

import (
	"regexp"
	"strings"

	"github.com/voocheck/voocheck/internal/models"
)

// Spreadsheet column names.
const (
	colCarrier  = "Companhia"
	colLocator  = "Localizador"
	colOrigin   = "Origem"
	colName     = "Nome"
	colDate     = "Data"
	colPurchase = "Numero da Compra"
)

var originRe = regexp.MustCompile(`\(([A-Za-z]{3})\)`)

// Normalize maps one raw row onto the canonical lookup request. Pure and
// never fails: malformed or missing fields degrade to empty strings.
func Normalize(row map[string]string) models.BookingLookupRequest {
	name := strings.TrimSpace(row[colName])
	return models.BookingLookupRequest{
		Carrier:         classifyCarrier(row[colCarrier]),
		PassengerName:   name,
		LastName:        lastName(name),
		OriginCode:      originCode(row[colOrigin]),
		Locator:         strings.TrimSpace(row[colLocator]),
		PurchaseNumber:  strings.TrimSpace(row[colPurchase]),
		ScheduledDate:   strings.TrimSpace(row[colDate]),
		RawCarrierLabel: row[colCarrier],
	}
}

// classifyCarrier matches in fixed priority order: a label containing both
// "gol" and "azul" classifies as GOL.
func classifyCarrier(label string) string {
	low := strings.ToLower(label)
	switch {
	case strings.Contains(low, "gol"):
		return models.CarrierGOL
	case strings.Contains(low, "azul"):
		return models.CarrierAZUL
	case strings.Contains(low, "latam"):
		return models.CarrierLATAM
	default:
		return models.CarrierUnsupported
	}
}

func lastName(name string) string {
	fields := strings.Fields(name)
	if len(fields) == 0 {
		return ""
	}
	return strings.ToUpper(fields[len(fields)-1])
}

func originCode(raw string) string {
	m := originRe.FindStringSubmatch(raw)
	if m == nil {
		return ""
	}
	return strings.ToUpper(m[1])
}
