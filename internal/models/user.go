package models

import "time"

// User is the single local account. The password is kept in plain text:
// the store is a local-only toy and never leaves the machine.
type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Password  string    `json:"password"`
	CreatedAt time.Time `json:"createdAt"`
	LastLogin time.Time `json:"lastLogin"`
}

// PublicUser is a User without its credentials.
type PublicUser struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
	LastLogin time.Time `json:"lastLogin"`
}

func (u User) Public() PublicUser {
	return PublicUser{ID: u.ID, Name: u.Name, Email: u.Email, CreatedAt: u.CreatedAt, LastLogin: u.LastLogin}
}

type Settings struct {
	Theme                string     `json:"theme"`
	SoundEnabled         bool       `json:"soundEnabled"`
	NotificationsEnabled bool       `json:"notificationsEnabled"`
	Difficulty           Difficulty `json:"difficulty"`
	AutoAdvance          bool       `json:"autoAdvance"`
	ShowHints            bool       `json:"showHints"`
	Language             string     `json:"language"`
}

func DefaultSettings() Settings {
	return Settings{
		Theme:                "dark",
		SoundEnabled:         true,
		NotificationsEnabled: true,
		Difficulty:           DifficultyMedium,
		AutoAdvance:          true,
		ShowHints:            true,
		Language:             "en",
	}
}

// SettingsPatch carries the settings fields to change; nil fields are kept.
type SettingsPatch struct {
	Theme                *string     `json:"theme,omitempty"`
	SoundEnabled         *bool       `json:"soundEnabled,omitempty"`
	NotificationsEnabled *bool       `json:"notificationsEnabled,omitempty"`
	Difficulty           *Difficulty `json:"difficulty,omitempty"`
	AutoAdvance          *bool       `json:"autoAdvance,omitempty"`
	ShowHints            *bool       `json:"showHints,omitempty"`
	Language             *string     `json:"language,omitempty"`
}
