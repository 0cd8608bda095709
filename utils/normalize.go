// backend/utils/normalize.go
package utils

import "strings"

// NormalizeAirlineCode uppercases and strips whitespace from an airline
// code. Providers reject lowercase or padded carrier codes, so this must
// run before the code is used as a lookup key.
func NormalizeAirlineCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// NormalizeFlightNumber strips whitespace and a leading carrier prefix from
// a flight number, so both "1234" and "DL1234" (with airline "DL") resolve
// to the same key. Leading zeros are dropped ("0034" -> "34") since the
// providers do not zero-pad.
func NormalizeFlightNumber(flightNumber, airlineCode string) string {
	num := strings.ToUpper(strings.TrimSpace(flightNumber))
	num = strings.ReplaceAll(num, " ", "")

	airline := NormalizeAirlineCode(airlineCode)
	if airline != "" && strings.HasPrefix(num, airline) {
		num = num[len(airline):]
	}

	num = strings.TrimLeft(num, "0")
	return num
}
