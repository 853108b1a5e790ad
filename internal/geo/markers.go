package geo

// Pin is a stored location as the map sees it.
type Pin struct {
	ID       string
	Name     string
	Position Coordinate
}

// Marker is one rendered map marker.
type Marker struct {
	LocationID string     `json:"location_id,omitempty"`
	Title      string     `json:"title,omitempty"`
	Position   Coordinate `json:"position"`
	Selected   bool       `json:"selected"`
	Transient  bool       `json:"transient"`
}

// Markers lays out the markers for a map view: one per stored pin, with
// the pin matching the in-progress selection flagged as selected, plus a
// transient marker when the selection does not coincide with any pin.
func Markers(pins []Pin, selection *Coordinate) []Marker {
	markers := make([]Marker, 0, len(pins)+1)
	matched := false

	for _, p := range pins {
		m := Marker{
			LocationID: p.ID,
			Title:      p.Name,
			Position:   p.Position,
		}
		if selection != nil && WithinTolerance(p.Position, *selection) {
			m.Selected = true
			matched = true
		}
		markers = append(markers, m)
	}

	if selection != nil && !matched {
		markers = append(markers, Marker{
			Position:  *selection,
			Selected:  true,
			Transient: true,
		})
	}

	return markers
}
