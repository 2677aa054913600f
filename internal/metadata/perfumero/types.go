package perfumero

// Perfume is the wire representation of a catalog entry as returned by the
// Perfumero API. Field names follow the upstream JSON contract; the populate
// layer maps these onto domain records.
type Perfume struct {
	PID           string   `json:"pid"`
	Name          string   `json:"perfume"`
	Brand         string   `json:"brand"`
	Year          int      `json:"year,omitempty"`
	Concentration string   `json:"type,omitempty"`
	NotesTop      []string `json:"top,omitempty"`
	NotesMiddle   []string `json:"middle,omitempty"`
	NotesBase     []string `json:"base,omitempty"`
	Rating        float64  `json:"rating,omitempty"`
	RatingVotes   int      `json:"rating_votes,omitempty"`
	Popularity    float64  `json:"popularity,omitempty"`
	Gender        string   `json:"gender,omitempty"`
	Season        string   `json:"season,omitempty"`
	Occasion      string   `json:"occasion,omitempty"`
}

// searchResponse is the envelope for list endpoints.
type searchResponse struct {
	Results []Perfume `json:"results"`
}
