package models

import (
	"errors"
	"path/filepath"
	"testing"
	"time"
)

func setupTestDB(t *testing.T) *Database {
	t.Helper()
	db, err := NewDatabase(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("opening database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	// Deterministic, strictly increasing clock
	base := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	tick := 0
	db.now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Minute)
	}
	return db
}

func intPtr(i int) *int { return &i }

func TestDatabase_UpsertMedia(t *testing.T) {
	db := setupTestDB(t)

	first, created, err := db.UpsertMedia(&MediaItem{ExternalID: "27205", MediaType: MediaTypeMovie, Title: "Inception", Year: intPtr(2010)})
	if err != nil {
		t.Fatalf("UpsertMedia() error = %v", err)
	}
	if !created || first.ID == "" {
		t.Fatalf("expected a new item with an id, got created=%v id=%q", created, first.ID)
	}

	second, created, err := db.UpsertMedia(&MediaItem{ExternalID: "27205", MediaType: MediaTypeMovie, Title: "Inception (dup)"})
	if err != nil {
		t.Fatalf("UpsertMedia() error = %v", err)
	}
	if created {
		t.Error("same external id and type should reuse the stored item")
	}
	if second.ID != first.ID || second.Title != "Inception" {
		t.Errorf("got %+v, want stored item %q", second, first.ID)
	}

	// Same external id under another type is a different item
	other, created, err := db.UpsertMedia(&MediaItem{ExternalID: "27205", MediaType: MediaTypeTV, Title: "Other"})
	if err != nil {
		t.Fatalf("UpsertMedia() error = %v", err)
	}
	if !created || other.ID == first.ID {
		t.Error("expected a distinct tv item")
	}
}

func TestDatabase_ListItems(t *testing.T) {
	db := setupTestDB(t)

	movie := &ListItem{UserID: DefaultUserID, MediaID: "m1", MediaType: MediaTypeMovie, Status: StatusCompleted}
	book := &ListItem{UserID: DefaultUserID, MediaID: "b1", MediaType: MediaTypeBook, Status: StatusReading}
	for _, item := range []*ListItem{movie, book} {
		if err := db.CreateListItem(item); err != nil {
			t.Fatalf("CreateListItem() error = %v", err)
		}
	}

	dup := &ListItem{UserID: DefaultUserID, MediaID: "m1", MediaType: MediaTypeMovie, Status: StatusPlanning}
	if err := db.CreateListItem(dup); !errors.Is(err, ErrDuplicate) {
		t.Fatalf("CreateListItem() duplicate error = %v, want ErrDuplicate", err)
	}

	tests := []struct {
		name    string
		filter  ListFilter
		wantIDs []string
	}{
		{name: "all", filter: ListFilter{}, wantIDs: []string{movie.ID, book.ID}},
		{name: "by status", filter: ListFilter{Status: StatusReading}, wantIDs: []string{book.ID}},
		{name: "by media type", filter: ListFilter{MediaType: MediaTypeMovie}, wantIDs: []string{movie.ID}},
		{name: "no match", filter: ListFilter{MediaType: MediaTypeGame}, wantIDs: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items, err := db.GetListItems(DefaultUserID, tt.filter)
			if err != nil {
				t.Fatalf("GetListItems() error = %v", err)
			}
			if len(items) != len(tt.wantIDs) {
				t.Fatalf("got %d items, want %d", len(items), len(tt.wantIDs))
			}
			for i, id := range tt.wantIDs {
				if items[i].ID != id {
					t.Errorf("items[%d].ID = %q, want %q", i, items[i].ID, id)
				}
			}
		})
	}

	if _, err := db.GetListItem("someone_else", movie.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetListItem() for another user error = %v, want ErrNotFound", err)
	}

	if err := db.DeleteListItem(DefaultUserID, movie.ID); err != nil {
		t.Fatalf("DeleteListItem() error = %v", err)
	}
	if err := db.DeleteListItem(DefaultUserID, movie.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("second DeleteListItem() error = %v, want ErrNotFound", err)
	}
}

func TestDatabase_GetStats(t *testing.T) {
	db := setupTestDB(t)

	items := []*ListItem{
		{MediaID: "1", MediaType: MediaTypeMovie, Status: StatusCompleted},
		{MediaID: "2", MediaType: MediaTypeMovie, Status: StatusCompleted},
		{MediaID: "3", MediaType: MediaTypeMovie, Status: StatusCompleted},
		{MediaID: "4", MediaType: MediaTypeMovie, Status: StatusWatching},
		{MediaID: "5", MediaType: MediaTypeBook, Status: StatusReading},
		{MediaID: "6", MediaType: MediaTypeBook, Status: StatusReading},
	}
	for _, item := range items {
		item.UserID = DefaultUserID
		if err := db.CreateListItem(item); err != nil {
			t.Fatalf("CreateListItem() error = %v", err)
		}
	}
	// Another user's items never count
	if err := db.CreateListItem(&ListItem{UserID: "other", MediaID: "1", MediaType: MediaTypeMovie, Status: StatusDropped}); err != nil {
		t.Fatalf("CreateListItem() error = %v", err)
	}

	stats, err := db.GetStats(DefaultUserID)
	if err != nil {
		t.Fatalf("GetStats() error = %v", err)
	}

	want := StatsSummary{
		MediaTypeMovie: {StatusCompleted: 3, StatusWatching: 1},
		MediaTypeBook:  {StatusReading: 2},
	}
	if len(stats) != len(want) {
		t.Fatalf("got %d media types, want %d: %v", len(stats), len(want), stats)
	}
	for mt, byStatus := range want {
		for status, n := range byStatus {
			if stats[mt][status] != n {
				t.Errorf("stats[%s][%s] = %d, want %d", mt, status, stats[mt][status], n)
			}
		}
	}
}

func TestDatabase_Preferences(t *testing.T) {
	db := setupTestDB(t)

	prefs, err := db.GetPreferences(DefaultUserID)
	if err != nil {
		t.Fatalf("GetPreferences() error = %v", err)
	}
	if prefs.Theme != ThemeDark || prefs.Language != "en" || !prefs.NotificationsEnabled {
		t.Errorf("unexpected defaults: %+v", prefs)
	}

	prefs.Theme = ThemeEmerald
	if err := db.SavePreferences(prefs); err != nil {
		t.Fatalf("SavePreferences() error = %v", err)
	}

	again, err := db.GetPreferences(DefaultUserID)
	if err != nil {
		t.Fatalf("GetPreferences() error = %v", err)
	}
	if again.ID != prefs.ID || again.Theme != ThemeEmerald {
		t.Errorf("got %+v, want saved emerald preferences", again)
	}
}
