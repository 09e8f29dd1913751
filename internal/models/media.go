package models

import "time"

// MediaItem represents a catalog entity fetched from an external provider
type MediaItem struct {
	ID         string    `json:"id" boltholdKey:"ID"`
	ExternalID string    `json:"external_id" boltholdIndex:"ExternalID"` // Provider id (TMDB, AniList, Google Books, IGDB)
	MediaType  MediaType `json:"media_type" boltholdIndex:"MediaType"`

	Title        string   `json:"title"`
	Year         *int     `json:"year"`
	Genres       []string `json:"genres"`
	PosterPath   string   `json:"poster_path,omitempty"`
	BackdropPath string   `json:"backdrop_path,omitempty"`
	Overview     string   `json:"overview,omitempty"`
	VoteAverage  *float64 `json:"vote_average"`
	ReleaseDate  string   `json:"release_date,omitempty"`

	// TV / anime
	Seasons  *int `json:"seasons,omitempty"`
	Episodes *int `json:"episodes,omitempty"`

	// Anime / manga publication state (FINISHED, RELEASING, ...)
	ReleaseStatus string `json:"release_status,omitempty"`

	// Manga
	Chapters *int `json:"chapters,omitempty"`
	Volumes  *int `json:"volumes,omitempty"`

	// Books
	Authors   []string `json:"authors"`
	Publisher string   `json:"publisher,omitempty"`
	PageCount *int     `json:"page_count,omitempty"`
	ISBN      string   `json:"isbn,omitempty"`

	// Games
	Platforms  []string `json:"platforms"`
	Developers []string `json:"developers"`
	Publishers []string `json:"publishers"`
	GameModes  []string `json:"game_modes"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// DisplayFields are the MediaItem fields copied into a list item when it is
// added, so the list can be rendered without re-reading the catalog.
type DisplayFields struct {
	ExternalID  string   `json:"external_id,omitempty"`
	Title       string   `json:"title,omitempty"`
	Year        *int     `json:"year,omitempty"`
	PosterPath  string   `json:"poster_path,omitempty"`
	Overview    string   `json:"overview,omitempty"`
	Genres      []string `json:"genres,omitempty"`
	VoteAverage *float64 `json:"vote_average,omitempty"`
	Seasons     *int     `json:"seasons,omitempty"`
	Episodes    *int     `json:"episodes,omitempty"`
	Chapters    *int     `json:"chapters,omitempty"`
	Volumes     *int     `json:"volumes,omitempty"`
	Authors     []string `json:"authors,omitempty"`
	Platforms   []string `json:"platforms,omitempty"`
	Developers  []string `json:"developers,omitempty"`
	Publishers  []string `json:"publishers,omitempty"`
}

// Display extracts the denormalized display copy of the item
func (m *MediaItem) Display() DisplayFields {
	return DisplayFields{
		ExternalID:  m.ExternalID,
		Title:       m.Title,
		Year:        m.Year,
		PosterPath:  m.PosterPath,
		Overview:    m.Overview,
		Genres:      cloneStrings(m.Genres),
		VoteAverage: m.VoteAverage,
		Seasons:     m.Seasons,
		Episodes:    m.Episodes,
		Chapters:    m.Chapters,
		Volumes:     m.Volumes,
		Authors:     cloneStrings(m.Authors),
		Platforms:   cloneStrings(m.Platforms),
		Developers:  cloneStrings(m.Developers),
		Publishers:  cloneStrings(m.Publishers),
	}
}

// Empty reports whether no display data was supplied
func (d DisplayFields) Empty() bool {
	return d.Title == ""
}

// Snapshot builds the MediaItem embedded in a list entry
func (d DisplayFields) Snapshot(mediaID string, mediaType MediaType) MediaItem {
	return MediaItem{
		ID:          mediaID,
		ExternalID:  d.ExternalID,
		MediaType:   mediaType,
		Title:       d.Title,
		Year:        d.Year,
		PosterPath:  d.PosterPath,
		Overview:    d.Overview,
		Genres:      cloneStrings(d.Genres),
		VoteAverage: d.VoteAverage,
		Seasons:     d.Seasons,
		Episodes:    d.Episodes,
		Chapters:    d.Chapters,
		Volumes:     d.Volumes,
		Authors:     cloneStrings(d.Authors),
		Platforms:   cloneStrings(d.Platforms),
		Developers:  cloneStrings(d.Developers),
		Publishers:  cloneStrings(d.Publishers),
	}
}

func cloneStrings(s []string) []string {
	if s == nil {
		return nil
	}
	out := make([]string, len(s))
	copy(out, s)
	return out
}
