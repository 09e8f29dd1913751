package models

// MediaType represents the catalog category of a media item
type MediaType string

const (
	MediaTypeMovie MediaType = "movie"
	MediaTypeTV    MediaType = "tv"
	MediaTypeAnime MediaType = "anime"
	MediaTypeManga MediaType = "manga"
	MediaTypeBook  MediaType = "book"
	MediaTypeGame  MediaType = "game"
)

// MediaTypes lists every media type in display order
var MediaTypes = []MediaType{
	MediaTypeMovie,
	MediaTypeTV,
	MediaTypeAnime,
	MediaTypeManga,
	MediaTypeBook,
	MediaTypeGame,
}

// Valid reports whether t is one of the known media types
func (t MediaType) Valid() bool {
	for _, mt := range MediaTypes {
		if t == mt {
			return true
		}
	}
	return false
}

// Label returns the plural display name of the media type
func (t MediaType) Label() string {
	switch t {
	case MediaTypeMovie:
		return "Movies"
	case MediaTypeTV:
		return "TV Shows"
	case MediaTypeAnime:
		return "Anime"
	case MediaTypeManga:
		return "Manga"
	case MediaTypeBook:
		return "Books"
	case MediaTypeGame:
		return "Games"
	default:
		return string(t)
	}
}

// ParseMediaType converts user input into a MediaType
func ParseMediaType(s string) (MediaType, error) {
	mt := MediaType(s)
	// The frontend navigation used plural page ids
	switch s {
	case "movies":
		mt = MediaTypeMovie
	case "books":
		mt = MediaTypeBook
	case "games":
		mt = MediaTypeGame
	}
	if !mt.Valid() {
		return "", ErrInvalidMediaType
	}
	return mt, nil
}

// Status represents where the user is with a tracked item
type Status string

const (
	StatusWatching  Status = "watching"
	StatusReading   Status = "reading"
	StatusPlaying   Status = "playing"
	StatusCompleted Status = "completed"
	StatusPaused    Status = "paused"
	StatusPlanning  Status = "planning"
	StatusDropped   Status = "dropped"
)

// StatusesFor returns the ordered statuses a media type accepts.
// The first entry is the "in progress" status for that type.
func StatusesFor(t MediaType) []Status {
	var active Status
	switch t {
	case MediaTypeMovie, MediaTypeTV, MediaTypeAnime:
		active = StatusWatching
	case MediaTypeManga, MediaTypeBook:
		active = StatusReading
	case MediaTypeGame:
		active = StatusPlaying
	default:
		return nil
	}
	return []Status{active, StatusCompleted, StatusPaused, StatusPlanning, StatusDropped}
}

// ValidStatus reports whether status is allowed for the media type
func ValidStatus(t MediaType, status Status) bool {
	for _, s := range StatusesFor(t) {
		if s == status {
			return true
		}
	}
	return false
}

// Label returns the capitalized status name
func (s Status) Label() string {
	if s == "" {
		return ""
	}
	b := []byte(s)
	if b[0] >= 'a' && b[0] <= 'z' {
		b[0] -= 'a' - 'A'
	}
	return string(b)
}

// ThemeName identifies one of the UI color themes
type ThemeName string

const (
	ThemeDark    ThemeName = "dark"
	ThemeLight   ThemeName = "light"
	ThemeBlue    ThemeName = "blue"
	ThemeEmerald ThemeName = "emerald"
	ThemePurple  ThemeName = "purple"

	DefaultTheme = ThemeDark
)

// Themes lists the accepted theme names
var Themes = []ThemeName{ThemeDark, ThemeLight, ThemeBlue, ThemeEmerald, ThemePurple}

// ValidTheme reports whether name is an accepted theme
func ValidTheme(name string) bool {
	for _, t := range Themes {
		if string(t) == name {
			return true
		}
	}
	return false
}

// MinRating and MaxRating bound a user rating
const (
	MinRating = 0.0
	MaxRating = 10.0
)

// ValidRating reports whether r is inside the rating scale
func ValidRating(r float64) bool {
	return r >= MinRating && r <= MaxRating
}
