package models

import "time"

// Preferences holds per-user UI settings
type Preferences struct {
	ID                   string    `json:"id" boltholdKey:"ID"`
	UserID               string    `json:"user_id" boltholdIndex:"UserID"`
	Theme                ThemeName `json:"theme"`
	Language             string    `json:"language"`
	NotificationsEnabled bool      `json:"notifications_enabled"`
	CreatedAt            time.Time `json:"created_at"`
	UpdatedAt            time.Time `json:"updated_at"`
}

// PreferencesUpdate is a partial preferences change
type PreferencesUpdate struct {
	Theme                *string `json:"theme,omitempty"`
	Language             *string `json:"language,omitempty"`
	NotificationsEnabled *bool   `json:"notifications_enabled,omitempty"`
}

// DefaultPreferences returns the settings a new user starts with
func DefaultPreferences(userID string) Preferences {
	return Preferences{
		UserID:               userID,
		Theme:                DefaultTheme,
		Language:             "en",
		NotificationsEnabled: true,
	}
}
