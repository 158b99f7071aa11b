// Package state implements the client application state container: a store
// of independently serializable slices, a pure reducer over a closed set of
// actions, write-through persistence and startup rehydration.
package state

import (
	"slices"
	"time"
)

// CartItem is one line of the cart. ID references a catalog entry owned by
// static data; the store never holds the entry itself.
type CartItem struct {
	ID       string `json:"id"`
	Quantity int    `json:"quantity"`
}

// User is the identity attached to an authenticated session.
type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Session holds the optional authenticated user.
type Session struct {
	User          *User  `json:"user,omitempty"`
	Token         string `json:"token,omitempty"`
	Authenticated bool   `json:"authenticated"`
}

// Role identifies the author of a transcript message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is a single transcript entry. Messages are never mutated after
// they are appended.
type Message struct {
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// Settings is the flat set of user preferences.
type Settings struct {
	Theme         string  `json:"theme"`
	Language      string  `json:"language"`
	ReducedMotion bool    `json:"reduced_motion"`
	HighContrast  bool    `json:"high_contrast"`
	FontScale     float64 `json:"font_scale"`
}

// DefaultSettings returns the preferences used when nothing is overridden.
func DefaultSettings() Settings {
	return Settings{
		Theme:     "system",
		Language:  "en",
		FontScale: 1,
	}
}

// SettingsPatch is a partial settings update. Nil fields keep their
// current value.
type SettingsPatch struct {
	Theme         *string  `json:"theme,omitempty"`
	Language      *string  `json:"language,omitempty"`
	ReducedMotion *bool    `json:"reduced_motion,omitempty"`
	HighContrast  *bool    `json:"high_contrast,omitempty"`
	FontScale     *float64 `json:"font_scale,omitempty"`
}

// Apply returns s with every non-nil field of p copied over it.
func (p SettingsPatch) Apply(s Settings) Settings {
	if p.Theme != nil {
		s.Theme = *p.Theme
	}
	if p.Language != nil {
		s.Language = *p.Language
	}
	if p.ReducedMotion != nil {
		s.ReducedMotion = *p.ReducedMotion
	}
	if p.HighContrast != nil {
		s.HighContrast = *p.HighContrast
	}
	if p.FontScale != nil {
		s.FontScale = *p.FontScale
	}
	return s
}

// State is the whole client state. Each field is a slice that serializes
// on its own.
type State struct {
	Cart        []CartItem `json:"cart"`
	Session     Session    `json:"session"`
	Profile     Profile    `json:"profile"`
	Transcript  []Message  `json:"transcript"`
	Settings    Settings   `json:"settings"`
	SearchQuery string     `json:"-"`
}

// Initial returns the empty state every store starts from.
func Initial() State {
	return State{
		Cart:       []CartItem{},
		Profile:    NewProfile(),
		Transcript: []Message{},
		Settings:   DefaultSettings(),
	}
}

// CartCount returns the total quantity across all cart lines.
func (s State) CartCount() int {
	n := 0
	for _, it := range s.Cart {
		n += it.Quantity
	}
	return n
}

// CartItem returns the cart line for id.
func (s State) CartItem(id string) (CartItem, bool) {
	i := slices.IndexFunc(s.Cart, func(it CartItem) bool { return it.ID == id })
	if i < 0 {
		return CartItem{}, false
	}
	return s.Cart[i], true
}

// IsAuthenticated reports whether a user is signed in.
func (s State) IsAuthenticated() bool {
	return s.Session.Authenticated && s.Session.User != nil
}
