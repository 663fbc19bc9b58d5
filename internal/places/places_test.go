package places

import "testing"

// samplePlaces mirrors the seeded sample data.
func samplePlaces() []Place {
	return []Place{
		{ID: 1, Name: "Skyview Rooftop Lounge", Features: []Feature{FeatureRooftop, FeatureBar, FeatureView}},
		{ID: 2, Name: "Green Garden Café", Features: []Feature{FeatureOutdoor, FeatureCoffee, FeatureWifi}},
		{ID: 3, Name: "The Hidden Bistro", Features: []Feature{FeatureRestaurant, FeatureQuiet}},
		{ID: 4, Name: "Waterside Deck", Features: []Feature{FeatureOutdoor, FeatureRestaurant, FeatureView}},
		{ID: 5, Name: "Digital Nomad Hub", Features: []Feature{FeatureWifi, FeatureCoffee, FeatureQuiet}},
		{ID: 6, Name: "Sunset Rooftop Bar", Features: []Feature{FeatureRooftop, FeatureBar, FeatureView}},
	}
}

func TestFilterByFeatures(t *testing.T) {
	all := samplePlaces()

	tests := []struct {
		name     string
		selected []Feature
		want     []string
	}{
		{
			name:     "empty selection matches everything",
			selected: nil,
			want:     []string{"Skyview Rooftop Lounge", "Green Garden Café", "The Hidden Bistro", "Waterside Deck", "Digital Nomad Hub", "Sunset Rooftop Bar"},
		},
		{
			name:     "single feature",
			selected: []Feature{FeatureCoffee},
			want:     []string{"Green Garden Café", "Digital Nomad Hub"},
		},
		{
			name:     "coffee and wifi matches only places with both",
			selected: []Feature{FeatureCoffee, FeatureWifi},
			want:     []string{"Green Garden Café", "Digital Nomad Hub"},
		},
		{
			name:     "coffee wifi quiet narrows to one",
			selected: []Feature{FeatureCoffee, FeatureWifi, FeatureQuiet},
			want:     []string{"Digital Nomad Hub"},
		},
		{
			name:     "no place carries all selected",
			selected: []Feature{FeatureRooftop, FeatureCoffee},
			want:     nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FilterByFeatures(all, tt.selected)
			if len(got) != len(tt.want) {
				t.Fatalf("got %d places, want %d", len(got), len(tt.want))
			}
			for i, p := range got {
				if p.Name != tt.want[i] {
					t.Errorf("result[%d] = %q, want %q", i, p.Name, tt.want[i])
				}
			}
		})
	}
}

// Every filtered place must carry every selected feature, and every excluded
// place must be missing at least one.
func TestFilterIsSubsetRule(t *testing.T) {
	all := samplePlaces()
	selected := []Feature{FeatureView, FeatureBar}

	matched := map[int64]bool{}
	for _, p := range FilterByFeatures(all, selected) {
		matched[p.ID] = true
		for _, f := range selected {
			if !p.HasFeature(f) {
				t.Errorf("place %q included but missing feature %q", p.Name, f)
			}
		}
	}
	for i := range all {
		if matched[all[i].ID] {
			continue
		}
		if all[i].MatchesAll(selected) {
			t.Errorf("place %q excluded but carries every selected feature", all[i].Name)
		}
	}
}

func TestParseFeatures(t *testing.T) {
	got, err := ParseFeatures([]string{"coffee", "wifi"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 || got[0] != FeatureCoffee || got[1] != FeatureWifi {
		t.Errorf("unexpected parse result: %v", got)
	}

	if _, err := ParseFeatures([]string{"casino"}); err == nil {
		t.Error("expected error for unknown feature")
	}
}

func TestStoredCoords(t *testing.T) {
	resolved := [2]float64{-74.0, 40.7}

	tests := []struct {
		name    string
		place   Place
		wantLng float64
		wantLat float64
		wantOK  bool
	}{
		{
			name:    "attached coordinates win",
			place:   Place{Coordinates: &resolved, Location: Location{Lat: 1, Lng: 2}},
			wantLng: -74.0, wantLat: 40.7, wantOK: true,
		},
		{
			name:    "stored non-zero location",
			place:   Place{Location: Location{Lat: 40.7, Lng: -74.0}},
			wantLng: -74.0, wantLat: 40.7, wantOK: true,
		},
		{
			name:   "zero location is not resolvable",
			place:  Place{Location: Location{Address: "45 Garden Street"}},
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lng, lat, ok := tt.place.StoredCoords()
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if ok && (lng != tt.wantLng || lat != tt.wantLat) {
				t.Errorf("coords = (%v, %v), want (%v, %v)", lng, lat, tt.wantLng, tt.wantLat)
			}
		})
	}
}
