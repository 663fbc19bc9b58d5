package places

import (
	"fmt"
	"time"
)

// Feature is one of the fixed set of amenity tags a place can carry.
type Feature string

const (
	FeatureRooftop    Feature = "rooftop"
	FeatureOutdoor    Feature = "outdoor"
	FeatureCoffee     Feature = "coffee"
	FeatureWifi       Feature = "wifi"
	FeatureBar        Feature = "bar"
	FeatureRestaurant Feature = "restaurant"
	FeatureQuiet      Feature = "quiet"
	FeatureView       Feature = "view"
)

// AllFeatures lists every valid feature tag, in display order.
var AllFeatures = []Feature{
	FeatureRooftop,
	FeatureOutdoor,
	FeatureCoffee,
	FeatureWifi,
	FeatureBar,
	FeatureRestaurant,
	FeatureQuiet,
	FeatureView,
}

// IsValid reports whether f belongs to the fixed enumeration.
func (f Feature) IsValid() bool {
	for _, known := range AllFeatures {
		if f == known {
			return true
		}
	}
	return false
}

// ParseFeatures converts raw strings into Features, rejecting anything
// outside the fixed enumeration.
func ParseFeatures(raw []string) ([]Feature, error) {
	var out []Feature
	for _, r := range raw {
		f := Feature(r)
		if !f.IsValid() {
			return nil, fmt.Errorf("unknown feature: %q", r)
		}
		out = append(out, f)
	}
	return out, nil
}

// Location is a place's geographic attributes as stored.
type Location struct {
	Lat     float64 `json:"lat"`
	Lng     float64 `json:"lng"`
	Address string  `json:"address"`
}

// Place represents a point-of-interest record.
type Place struct {
	ID           int64      `json:"id"`
	Name         string     `json:"name"`
	Description  string     `json:"description"`
	Images       []string   `json:"images,omitempty"`
	Features     []Feature  `json:"features,omitempty"`
	Location     Location   `json:"location"`
	Rating       float64    `json:"rating"`
	Neighborhood *string    `json:"neighborhood,omitempty"`
	ShareCode    string     `json:"share_code,omitempty"`
	Coordinates  *[2]float64 `json:"coordinates,omitempty"` // resolved [lng, lat], if known
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// HasFeature reports whether the place carries the given tag.
func (p *Place) HasFeature(f Feature) bool {
	for _, have := range p.Features {
		if have == f {
			return true
		}
	}
	return false
}

// MatchesAll reports whether the place carries every selected feature.
// An empty selection matches everything.
func (p *Place) MatchesAll(selected []Feature) bool {
	for _, f := range selected {
		if !p.HasFeature(f) {
			return false
		}
	}
	return true
}

// StoredCoords returns the place's resolvable coordinates without geocoding:
// an attached resolved pair wins, otherwise a non-zero stored lat/lng.
// ok is false when neither is usable and a geocode lookup would be needed.
func (p *Place) StoredCoords() (lng, lat float64, ok bool) {
	if p.Coordinates != nil {
		return p.Coordinates[0], p.Coordinates[1], true
	}
	if p.Location.Lat != 0 && p.Location.Lng != 0 {
		return p.Location.Lng, p.Location.Lat, true
	}
	return 0, 0, false
}

// FilterByFeatures returns the places matching every selected feature.
func FilterByFeatures(all []Place, selected []Feature) []Place {
	if len(selected) == 0 {
		return all
	}
	var out []Place
	for i := range all {
		if all[i].MatchesAll(selected) {
			out = append(out, all[i])
		}
	}
	return out
}
