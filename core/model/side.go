package model

// Side identifies one of the two curb sides of the street.
type Side int

const (
	// SideUnset marks a day whose side choice has not been resolved yet.
	// It only survives until the optimizer runs.
	SideUnset Side = iota
	SideNear
	SideFar
)

// String returns a human-readable representation of the side.
func (s Side) String() string {
	switch s {
	case SideNear:
		return "near"
	case SideFar:
		return "far"
	default:
		return "unset"
	}
}

// Opposite returns the other curb side. Opposite of SideUnset is SideUnset.
func (s Side) Opposite() Side {
	switch s {
	case SideNear:
		return SideFar
	case SideFar:
		return SideNear
	default:
		return SideUnset
	}
}

// ParseSide converts a configuration string into a Side.
func ParseSide(s string) (Side, bool) {
	switch s {
	case "near":
		return SideNear, true
	case "far":
		return SideFar, true
	}
	return SideUnset, false
}
