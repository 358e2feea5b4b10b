// Package catalogs defines the canonical vehicle record and the helpers that
// operate on a vehicle catalog: normalization from raw metadata, filtering,
// lookup, and French display formatting.
//
// Every Vehicle produced by Normalize satisfies the catalog invariants:
// list fields are never nil, numeric fields are always well-formed, and
// Brand is upper-case.
package catalogs

// Vehicle is one catalog item. Field order is the serialized order.
type Vehicle struct {
	ID            int      `json:"id" yaml:"id" toml:"id"`
	Brand         string   `json:"brand" yaml:"brand" toml:"brand"`
	Model         string   `json:"model" yaml:"model" toml:"model"`
	Year          int      `json:"year" yaml:"year" toml:"year"`
	Price         float64  `json:"price" yaml:"price" toml:"price"`
	Mileage       float64  `json:"mileage" yaml:"mileage" toml:"mileage"`
	Fuel          string   `json:"fuel" yaml:"fuel" toml:"fuel"`
	Transmission  string   `json:"transmission" yaml:"transmission" toml:"transmission"`
	Motor         string   `json:"motor" yaml:"motor" toml:"motor"`
	ExteriorColor string   `json:"exterior_color" yaml:"exterior_color" toml:"exterior_color"`
	InteriorColor string   `json:"interior_color" yaml:"interior_color" toml:"interior_color"`
	Condition     string   `json:"condition" yaml:"condition" toml:"condition"`
	Types         []string `json:"types" yaml:"types" toml:"types"`
	Destination   string   `json:"destination" yaml:"destination" toml:"destination"`
	Image         string   `json:"image" yaml:"image" toml:"image"`
	Gallery       []string `json:"gallery" yaml:"gallery" toml:"gallery"`
	Description   string   `json:"description" yaml:"description" toml:"description"`
	Features      []string `json:"features" yaml:"features" toml:"features"`
}

// Vehicle type tags.
const (
	TypeNew    = "neuf"
	TypeRecent = "recent"
	TypeUsed   = "occasion"
)

// Destination tags.
const (
	DestinationExport  = "export"
	DestinationAlgeria = "algerie"
	DestinationEurope  = "europe"
)

// Clone returns a deep copy of v.
func (v Vehicle) Clone() Vehicle {
	v.Types = cloneStrings(v.Types)
	v.Gallery = cloneStrings(v.Gallery)
	v.Features = cloneStrings(v.Features)
	return v
}

// HasType reports whether v carries the given type tag.
func (v Vehicle) HasType(tag string) bool {
	for _, t := range v.Types {
		if t == tag {
			return true
		}
	}
	return false
}

// Title returns "BRAND Model", or whichever part is set.
func (v Vehicle) Title() string {
	switch {
	case v.Brand == "":
		return v.Model
	case v.Model == "":
		return v.Brand
	default:
		return v.Brand + " " + v.Model
	}
}

// CloneAll deep-copies a slice of vehicles.
func CloneAll(vehicles []Vehicle) []Vehicle {
	if vehicles == nil {
		return nil
	}
	out := make([]Vehicle, len(vehicles))
	for i, v := range vehicles {
		out[i] = v.Clone()
	}
	return out
}

// FindByID returns the first vehicle with the given identifier.
func FindByID(vehicles []Vehicle, id int) (Vehicle, bool) {
	for _, v := range vehicles {
		if v.ID == id {
			return v, true
		}
	}
	return Vehicle{}, false
}

// IDs returns the identifiers of vehicles in slice order.
func IDs(vehicles []Vehicle) []int {
	ids := make([]int, len(vehicles))
	for i, v := range vehicles {
		ids[i] = v.ID
	}
	return ids
}

func cloneStrings(in []string) []string {
	out := make([]string, len(in))
	copy(out, in)
	return out
}
