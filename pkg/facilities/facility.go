// Package facilities defines the canonical facility records the pipeline
// matches raw program locations against. The facility set is supplied by the
// persistent-store collaborator and is read-only within a pipeline run.
package facilities

import "github.com/swimto/poolsync/pkg/errors"

// Facility is a canonical facility record.
type Facility struct {
	ID         string   `json:"facility_id" yaml:"facility_id"`                     // Stable canonical identifier
	Name       string   `json:"name" yaml:"name"`                                   // Display name (must not be empty)
	Address    string   `json:"address,omitempty" yaml:"address,omitempty"`         // Street address, if known
	PostalCode string   `json:"postal_code,omitempty" yaml:"postal_code,omitempty"` // Postal code, if known
	District   string   `json:"district,omitempty" yaml:"district,omitempty"`       // City district
	Latitude   *float64 `json:"latitude,omitempty" yaml:"latitude,omitempty"`
	Longitude  *float64 `json:"longitude,omitempty" yaml:"longitude,omitempty"`
	Indoor     bool     `json:"indoor,omitempty" yaml:"indoor,omitempty"`
}

// Facilities is an ordered facility list. Order matters: the matcher resolves
// exact score ties in favor of the earlier entry.
type Facilities []Facility

// ByID returns the facility with the given ID.
func (f Facilities) ByID(id string) (Facility, error) {
	for _, fac := range f {
		if fac.ID == id {
			return fac, nil
		}
	}
	return Facility{}, errors.ErrNotFound
}

// IDs returns the facility IDs in order.
func (f Facilities) IDs() []string {
	ids := make([]string, len(f))
	for i, fac := range f {
		ids[i] = fac.ID
	}
	return ids
}
