package mapview

import (
	"context"
	"fmt"
	"sync"

	"localespot/internal/places"
)

// State tracks the lifecycle of one map instance. Marker snapshots are only
// produced in StateMapReady; in earlier states a snapshot carries no markers
// and, after a token failure, the degraded place-name fallback.
type State int

const (
	StateUninitialized State = iota
	StateTokenLoading
	StateTokenFailed
	StateTokenReady
	StateMapLoading
	StateMapReady
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateTokenLoading:
		return "token_loading"
	case StateTokenFailed:
		return "token_failed"
	case StateTokenReady:
		return "token_ready"
	case StateMapLoading:
		return "map_loading"
	case StateMapReady:
		return "map_ready"
	}
	return "unknown"
}

// TokenSource fetches the map-provider access token.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// Geocoder resolves an address string to a [lng, lat] pair. ok is false when
// the provider returned no match; err is reserved for transport failures.
type Geocoder interface {
	Geocode(ctx context.Context, address string) (lng, lat float64, ok bool, err error)
}

// Marker is one visual map annotation, keyed by place identity.
type Marker struct {
	PlaceID     int64   `json:"place_id"`
	Name        string  `json:"name"`
	Lng         float64 `json:"lng"`
	Lat         float64 `json:"lat"`
	Highlighted bool    `json:"highlighted"`
}

// Snapshot is one rendered frame of the map: the markers and center for a
// caller's place list, filter and hover target. Filter and hover belong to
// the snapshot alone, never to the shared view, so concurrent callers cannot
// observe each other's inputs.
type Snapshot struct {
	State         State
	Token         string
	Markers       []Marker
	Center        [2]float64 // mean [lng, lat] over resolvable places
	FallbackNames []string
}

// View owns a single map instance: its token lifecycle, the canonical place
// list, at most one open popup, and the current highlight selection.
type View struct {
	mu       sync.Mutex
	state    State
	token    string
	tokens   TokenSource
	geocoder Geocoder

	placeList  []places.Place
	popupID    int64 // 0 means no open popup
	selectedID int64
}

func New(tokens TokenSource, geocoder Geocoder) *View {
	return &View{tokens: tokens, geocoder: geocoder}
}

// Init fetches the map token and walks the view to StateMapLoading. A token
// failure is non-fatal to the caller: the view lands in StateTokenFailed and
// snapshots serve a degraded place-name list instead of markers.
func (v *View) Init(ctx context.Context) error {
	v.mu.Lock()
	if v.state != StateUninitialized {
		v.mu.Unlock()
		return fmt.Errorf("map already initialized (state %s)", v.state)
	}
	v.state = StateTokenLoading
	v.mu.Unlock()

	token, err := v.tokens.Token(ctx)

	v.mu.Lock()
	defer v.mu.Unlock()
	if err != nil || token == "" {
		v.state = StateTokenFailed
		if err == nil {
			err = fmt.Errorf("empty map token")
		}
		return fmt.Errorf("fetch map token: %w", err)
	}
	v.token = token
	v.state = StateTokenReady
	v.state = StateMapLoading
	return nil
}

// FinishLoad marks the embedded map as loaded.
func (v *View) FinishLoad(ctx context.Context) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.state != StateMapLoading {
		return
	}
	v.state = StateMapReady
}

// Snapshot renders one frame for the given inputs. It stores list as the
// canonical place list (for marker clicks and popups) but computes markers,
// center and fallback from its own arguments, under a single lock hold per
// phase; only geocoding runs unlocked. A full rebuild per call, not a diff:
// place lists are tens of entries.
func (v *View) Snapshot(ctx context.Context, list []places.Place, filter []places.Feature, hovered int64) Snapshot {
	v.mu.Lock()
	v.placeList = list
	state := v.state
	token := v.token
	v.mu.Unlock()

	snap := Snapshot{State: state, Token: token, Markers: []Marker{}}

	if state != StateMapReady {
		if state == StateTokenFailed {
			snap.FallbackNames = fallbackNames(list, filter)
		}
		return snap
	}

	filtered := places.FilterByFeatures(list, filter)
	var sumLng, sumLat float64
	for i := range filtered {
		p := &filtered[i]
		lng, lat, ok := p.StoredCoords()
		if !ok && p.Location.Address != "" && v.geocoder != nil {
			var err error
			lng, lat, ok, err = v.geocoder.Geocode(ctx, p.Location.Address)
			if err != nil || !ok {
				// Dropped from the map, still present in list views.
				continue
			}
		} else if !ok {
			continue
		}
		snap.Markers = append(snap.Markers, Marker{
			PlaceID:     p.ID,
			Name:        p.Name,
			Lng:         lng,
			Lat:         lat,
			Highlighted: hovered != 0 && hovered == p.ID,
		})
		sumLng += lng
		sumLat += lat
	}
	if n := len(snap.Markers); n > 0 {
		snap.Center = [2]float64{sumLng / float64(n), sumLat / float64(n)}
	}
	return snap
}

// fallbackNames is the degraded-mode list of place names, used when the map
// token could not be fetched. The filter still applies.
func fallbackNames(list []places.Place, filter []places.Feature) []string {
	filtered := places.FilterByFeatures(list, filter)
	names := make([]string, 0, len(filtered))
	for i := range filtered {
		names = append(names, filtered[i].Name)
	}
	return names
}

// HandleMarkerClick clears any open popup and selects the clicked place for
// the lightweight highlight summary. It never opens the popup itself; the
// explicit view-details action is a separate path.
func (v *View) HandleMarkerClick(placeID int64) (places.Place, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.popupID = 0
	for i := range v.placeList {
		if v.placeList[i].ID == placeID {
			v.selectedID = placeID
			return v.placeList[i], true
		}
	}
	v.selectedID = 0
	return places.Place{}, false
}

// OpenPopup opens the detail popup for a place, replacing any open one.
func (v *View) OpenPopup(placeID int64) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.state != StateMapReady {
		return
	}
	v.popupID = placeID
}

// ClosePopup closes the open popup, if any.
func (v *View) ClosePopup() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.popupID = 0
}

// State returns the current lifecycle state.
func (v *View) State() State {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.state
}

// Token returns the fetched map token, empty until StateTokenReady.
func (v *View) Token() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.token
}

// PopupPlaceID returns the place whose popup is open, or 0.
func (v *View) PopupPlaceID() int64 {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.popupID
}

// SelectedPlaceID returns the place selected by the last marker click, or 0.
func (v *View) SelectedPlaceID() int64 {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.selectedID
}
