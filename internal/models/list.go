package models

import "time"

// DefaultUserID is the single user the application tracks
const DefaultUserID = "demo_user"

// ListItem is a user's tracking record for one media item
type ListItem struct {
	ID        string    `json:"id" boltholdKey:"ID"`
	UserID    string    `json:"user_id" boltholdIndex:"UserID"`
	MediaID   string    `json:"media_id" boltholdIndex:"MediaID"`
	MediaType MediaType `json:"media_type"`
	Status    Status    `json:"status"`
	Rating    *float64  `json:"rating"`
	Notes     string    `json:"notes,omitempty"`

	// Display copy of the media item taken when the item was added
	Media MediaItem `json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ActivityAt returns the most recent of the creation and update times
func (l *ListItem) ActivityAt() time.Time {
	if l.UpdatedAt.After(l.CreatedAt) {
		return l.UpdatedAt
	}
	return l.CreatedAt
}

// UserListEntry pairs a list item with its media item
type UserListEntry struct {
	ListItem  ListItem  `json:"list_item"`
	MediaItem MediaItem `json:"media_item"`
}

// AddRequest is the body of an add-to-list call
type AddRequest struct {
	MediaID   string    `json:"media_id"`
	MediaType MediaType `json:"media_type"`
	Status    Status    `json:"status"`
	Rating    *float64  `json:"rating,omitempty"`
	Notes     string    `json:"notes,omitempty"`

	DisplayFields
}

// ListItemUpdate carries the fields of a partial list item update.
// Nil fields are left unchanged.
type ListItemUpdate struct {
	Status *Status  `json:"status,omitempty"`
	Rating *float64 `json:"rating,omitempty"`
	Notes  *string  `json:"notes,omitempty"`
}

// Empty reports whether the update changes nothing
func (u ListItemUpdate) Empty() bool {
	return u.Status == nil && u.Rating == nil && u.Notes == nil
}

// StatsSummary counts list items by media type and status
type StatsSummary map[MediaType]map[Status]int

// Clone returns a deep copy of the summary
func (s StatsSummary) Clone() StatsSummary {
	out := make(StatsSummary, len(s))
	for mt, byStatus := range s {
		inner := make(map[Status]int, len(byStatus))
		for status, n := range byStatus {
			inner[status] = n
		}
		out[mt] = inner
	}
	return out
}

// Add increments the count for a media type and status
func (s StatsSummary) Add(mt MediaType, status Status, n int) {
	if s[mt] == nil {
		s[mt] = make(map[Status]int)
	}
	s[mt][status] += n
}
