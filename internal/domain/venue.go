package domain

// AdmissionMode constrains which zone kinds a venue may contain.
type AdmissionMode string

const (
	AdmissionAssigned AdmissionMode = "assigned"
	AdmissionGeneral  AdmissionMode = "general"
	AdmissionMixed    AdmissionMode = "mixed"
)

func (m AdmissionMode) Valid() bool {
	switch m {
	case AdmissionAssigned, AdmissionGeneral, AdmissionMixed:
		return true
	}
	return false
}

// Allows reports whether a zone of the given kind may exist in a venue
// with this admission mode.
func (m AdmissionMode) Allows(kind ZoneKind) bool {
	switch m {
	case AdmissionAssigned:
		return kind == ZoneAssigned
	case AdmissionGeneral:
		return kind == ZoneGeneral
	case AdmissionMixed:
		return kind == ZoneAssigned || kind == ZoneGeneral
	}
	return false
}

// Venue is a ticketed location owning an ordered set of zones.
type Venue struct {
	ID       string
	Name     string
	Address  string
	Capacity int
	Mode     AdmissionMode
}
