package record

// Record is a key-value document as stored in the document store or
// returned by the trails API.
type Record map[string]any

const (
	// PlaceholderRating is shown when the upstream has no rating for a trail.
	PlaceholderRating = "N/A"
	// PlaceholderThumbnail references the bundled trail image asset.
	PlaceholderThumbnail = "Placeholder"
)

type Trail struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	Description  string  `json:"description"`
	Difficulty   string  `json:"difficulty"`
	Rating       string  `json:"rating"`
	ThumbnailURL string  `json:"thumbnail_url"`
	LengthKm     float64 `json:"length_km"`
	Lat          string  `json:"lat"`
	Lng          string  `json:"lng"`
}

type Person struct {
	ID        string `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Age       string `json:"age"`
	Email     string `json:"email"`
	ImageRef  string `json:"image_ref"`
	ImageURL  string `json:"image_url"`
}
