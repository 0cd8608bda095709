// backend/reference/carriers_test.go
package reference

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeCarriersCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "carriers.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadCarriersAndResolve(t *testing.T) {
	path := writeCarriersCSV(t, "iata,icao,name\nDL,DAL,Delta Air Lines\nUA,UAL,United Airlines\n")

	table, err := LoadCarriers(path)
	require.NoError(t, err)

	assert.Equal(t, "DL", table.ResolveAirlineCode("DAL"), "ICAO codes map to IATA")
	assert.Equal(t, "DL", table.ResolveAirlineCode("DL"), "known IATA codes pass through")
	assert.Equal(t, "ZZ", table.ResolveAirlineCode("ZZ"), "unknown codes pass through")
}

func TestLoadCarriersMissingFile(t *testing.T) {
	_, err := LoadCarriers(filepath.Join(t.TempDir(), "nope.csv"))
	assert.Error(t, err)
}

func TestLoadCarriersBadHeader(t *testing.T) {
	path := writeCarriersCSV(t, "code;name\nDL;Delta\n")
	table, err := LoadCarriers(path)
	if err == nil {
		// A semicolon file parses as one unknown column; resolution must
		// still pass codes through rather than fail.
		assert.Equal(t, "DAL", table.ResolveAirlineCode("DAL"))
	}
}

func TestNilTableResolves(t *testing.T) {
	var table *CarrierTable
	assert.Equal(t, "DAL", table.ResolveAirlineCode("DAL"))
}
