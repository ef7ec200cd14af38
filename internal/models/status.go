package models

import "strings"

// ActiveStatus maps the accepted spellings of the active flag ("active",
// "Activo", "INACTIVE"...) onto StatusActive or StatusInactive. Anything else
// is returned unchanged with ok false.
func ActiveStatus(s string) (status string, ok bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "active", "activo":
		return StatusActive, true
	case "inactive", "inactivo":
		return StatusInactive, true
	}
	return s, false
}
