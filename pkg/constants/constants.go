package constants

import (
	"fmt"
	"strconv"
	"strings"
)

// Magic is the 4-byte marker every encoded duc document starts with.
var Magic = [4]byte{'D', 'U', 'C', '_'}

// FormatVersion is stamped into documents that are encoded without a version.
const FormatVersion = "2.0.0"

// DataType is the default root data type of a duc document.
const DataType = "duc"

// DefaultMaxDeltaHops caps the parent walk during history reconstruction.
const DefaultMaxDeltaHops = 10000

// SchemaVersion identifies the SQLite schema revision of the persistence backend.
type SchemaVersion struct {
	Major int
	Minor int
	Patch int
}

// CurrentSchemaVersion is the schema revision this build bootstraps.
func CurrentSchemaVersion() SchemaVersion {
	return SchemaVersion{Major: 1, Minor: 0, Patch: 0}
}

// Encode packs the version as major*1_000_000 + minor*1_000 + patch so that
// integer comparison orders versions.
func (v SchemaVersion) Encode() int {
	return v.Major*1_000_000 + v.Minor*1_000 + v.Patch
}

func (v SchemaVersion) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
}

// DecodeSchemaVersion reverses Encode.
func DecodeSchemaVersion(encoded int) SchemaVersion {
	return SchemaVersion{
		Major: encoded / 1_000_000,
		Minor: (encoded / 1_000) % 1_000,
		Patch: encoded % 1_000,
	}
}

// ParseSchemaVersion parses the dotted "major.minor.patch" form.
func ParseSchemaVersion(s string) (SchemaVersion, error) {
	parts := strings.Split(s, ".")
	if len(parts) != 3 {
		return SchemaVersion{}, fmt.Errorf("schema version %q is not major.minor.patch", s)
	}
	var nums [3]int
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 || (i > 0 && n > 999) {
			return SchemaVersion{}, fmt.Errorf("schema version %q has invalid component %q", s, p)
		}
		nums[i] = n
	}
	return SchemaVersion{Major: nums[0], Minor: nums[1], Patch: nums[2]}, nil
}
