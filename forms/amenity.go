package forms

import "strings"

// Amenity is the edit-time encoding of a 0/1 amenity column.
type Amenity string

const (
	Absent  Amenity = "absent"
	Present Amenity = "present"
)

// AmenityChoices lists the select options in display order.
var AmenityChoices = []Amenity{Absent, Present}

func (a Amenity) Label() string {
	if a == Present {
		return "✔️"
	}
	return "❌"
}

func ToStorage(a Amenity) int {
	if a == Present {
		return 1
	}
	return 0
}

func ToDisplay(stored int) Amenity {
	if stored != 0 {
		return Present
	}
	return Absent
}

// ParseAmenity reads the loose spellings found in spreadsheets.
func ParseAmenity(s string) (Amenity, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "present", "yes", "y", "true", "✔️", "✔":
		return Present, true
	case "0", "absent", "no", "n", "false", "❌":
		return Absent, true
	}
	return "", false
}
