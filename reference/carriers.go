// backend/reference/carriers.go
package reference

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/jszwec/csvutil"
)

// Carrier is one row of the airline reference CSV. The CSV headers must
// EXACTLY match the csv tags.
type Carrier struct {
	IATA string `csv:"iata"`
	ICAO string `csv:"icao"`
	Name string `csv:"name"`
}

// CarrierTable resolves airline codes to the IATA form the flight-data
// providers key on. Policies and job requests sometimes carry 3-letter
// ICAO codes ("DAL"); the providers want "DL".
type CarrierTable struct {
	iataByICAO map[string]string
	iata       map[string]bool
}

// LoadCarriers reads the carrier reference CSV from path.
func LoadCarriers(path string) (*CarrierTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read carriers CSV: %w", err)
	}

	var carriers []Carrier
	if err := csvutil.Unmarshal(data, &carriers); err != nil {
		return nil, fmt.Errorf("failed to decode carriers CSV: %w", err)
	}

	table := &CarrierTable{
		iataByICAO: make(map[string]string, len(carriers)),
		iata:       make(map[string]bool, len(carriers)),
	}
	for _, c := range carriers {
		iata := strings.ToUpper(strings.TrimSpace(c.IATA))
		icao := strings.ToUpper(strings.TrimSpace(c.ICAO))
		if iata == "" {
			continue
		}
		table.iata[iata] = true
		if icao != "" {
			table.iataByICAO[icao] = iata
		}
	}

	log.Printf("Reference: loaded %d carriers from %s\n", len(carriers), path)
	return table, nil
}

// ResolveAirlineCode maps a normalized airline code to its IATA form when
// the reference data knows it; unknown codes pass through unchanged so a
// missing reference row never blocks a lookup.
func (t *CarrierTable) ResolveAirlineCode(code string) string {
	if t == nil {
		return code
	}
	if t.iata[code] {
		return code
	}
	if iata, ok := t.iataByICAO[code]; ok {
		return iata
	}
	return code
}
