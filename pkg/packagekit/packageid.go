// Package packagekit implements a client for the system package service
// reached over the D-Bus system bus. Operations (search, install, remove,
// dependency listing, cache refresh) run as remote transactions: the service
// creates a short-lived transaction object, emits discovery signals and
// property updates while it works, and ends with exactly one terminal signal.
package packagekit

import (
	"fmt"
	"strings"
)

// installedMarker is the substring of the source tag that marks a package
// build as installed on the local system.
const installedMarker = "installed"

// PackageID identifies one package build: name, version, architecture and
// the repository tag it came from. It is the unit of identity across the
// whole wire protocol.
type PackageID struct {
	Name         string `json:"name"`
	Version      string `json:"version"`
	Architecture string `json:"architecture"`
	SourceTag    string `json:"source_tag"`
}

// ParsePackageID parses the compound "name;version;architecture;sourceTag"
// wire format. The format has no escaping, so a literal ';' inside a field
// cannot be represented; such input parses as malformed.
func ParsePackageID(s string) (PackageID, error) {
	parts := strings.Split(s, ";")
	if len(parts) != 4 {
		return PackageID{}, fmt.Errorf("malformed package ID %q: expected 4 fields, got %d", s, len(parts))
	}
	if parts[0] == "" {
		return PackageID{}, fmt.Errorf("malformed package ID %q: empty name", s)
	}
	return PackageID{
		Name:         parts[0],
		Version:      parts[1],
		Architecture: parts[2],
		SourceTag:    parts[3],
	}, nil
}

// String re-joins the ID into the wire format. Any ID produced by a
// successful parse round-trips through String and ParsePackageID.
func (id PackageID) String() string {
	return id.Name + ";" + id.Version + ";" + id.Architecture + ";" + id.SourceTag
}

// Installed reports whether the source tag marks this build as installed.
func (id PackageID) Installed() bool {
	return strings.Contains(id.SourceTag, installedMarker)
}
