package models

import "testing"

func TestStatusesFor(t *testing.T) {
	tests := []struct {
		mediaType  MediaType
		wantActive Status
	}{
		{MediaTypeMovie, StatusWatching},
		{MediaTypeTV, StatusWatching},
		{MediaTypeAnime, StatusWatching},
		{MediaTypeManga, StatusReading},
		{MediaTypeBook, StatusReading},
		{MediaTypeGame, StatusPlaying},
	}

	for _, tt := range tests {
		t.Run(string(tt.mediaType), func(t *testing.T) {
			statuses := StatusesFor(tt.mediaType)
			if len(statuses) != 5 {
				t.Fatalf("got %d statuses, want 5", len(statuses))
			}
			if statuses[0] != tt.wantActive {
				t.Errorf("first status = %q, want %q", statuses[0], tt.wantActive)
			}
			if !ValidStatus(tt.mediaType, StatusCompleted) {
				t.Error("completed should be valid for every media type")
			}
		})
	}

	if StatusesFor("podcast") != nil {
		t.Error("unknown media type should have no statuses")
	}
	if ValidStatus(MediaTypeBook, StatusWatching) {
		t.Error("watching is not a book status")
	}
	if ValidStatus(MediaTypeMovie, StatusPlaying) {
		t.Error("playing is not a movie status")
	}
}

func TestParseMediaType(t *testing.T) {
	tests := []struct {
		in      string
		want    MediaType
		wantErr bool
	}{
		{"movie", MediaTypeMovie, false},
		{"movies", MediaTypeMovie, false},
		{"books", MediaTypeBook, false},
		{"anime", MediaTypeAnime, false},
		{"podcast", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseMediaType(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseMediaType(%q) error = %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("ParseMediaType(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestValidTheme(t *testing.T) {
	for _, name := range []string{"dark", "light", "blue", "emerald", "purple"} {
		if !ValidTheme(name) {
			t.Errorf("ValidTheme(%q) = false", name)
		}
	}
	for _, name := range []string{"", "Dark", "solarized"} {
		if ValidTheme(name) {
			t.Errorf("ValidTheme(%q) = true", name)
		}
	}
}

func TestStatusLabel(t *testing.T) {
	if got := StatusPlanning.Label(); got != "Planning" {
		t.Errorf("Label() = %q, want Planning", got)
	}
}
