package state

import "time"

// Action is the closed set of state transitions. Only types in this package
// implement it; Reduce switches over every one of them.
type Action interface {
	isAction()
}

// AddItem puts one unit of ID in the cart, incrementing an existing line.
type AddItem struct {
	ID string
}

// RemoveItem drops the cart line for ID.
type RemoveItem struct {
	ID string
}

// SetQuantity sets the quantity of an existing line. Zero removes the line.
type SetQuantity struct {
	ID       string
	Quantity int
}

// ClearCollection empties the cart.
type ClearCollection struct{}

// SetUser signs a user in.
type SetUser struct {
	User  User
	Token string
}

// Logout clears the session.
type Logout struct{}

// SetSearchQuery replaces the (unpersisted) search query.
type SetSearchQuery struct {
	Query string
}

// Snapshot is a partial state read back from storage. Nil slices are left
// untouched on load.
type Snapshot struct {
	Cart       *[]CartItem
	Session    *Session
	Profile    *Profile
	Transcript *[]Message
	Settings   *Settings
}

// LoadPersistedState merges a snapshot into the current state. Rehydrate is
// the only caller.
type LoadPersistedState struct {
	Snapshot Snapshot
}

// AppendMessage appends to the transcript. A zero CreatedAt is stamped by
// the store before reduction.
type AppendMessage struct {
	Message Message
}

// UpdateSettings shallow-merges a partial settings object.
type UpdateSettings struct {
	Patch SettingsPatch
}

// UpdateProfile merges a wizard step into the draft.
type UpdateProfile struct {
	Patch ProfilePatch
}

// SubmitProfile freezes a complete draft. A zero At is stamped by the store.
type SubmitProfile struct {
	At time.Time
}

// ResetProfile discards the draft and any submitted snapshot.
type ResetProfile struct{}

// ClearAll resets every slice to its default. The store also erases
// persisted storage for it.
type ClearAll struct{}

func (AddItem) isAction()            {}
func (RemoveItem) isAction()         {}
func (SetQuantity) isAction()        {}
func (ClearCollection) isAction()    {}
func (SetUser) isAction()            {}
func (Logout) isAction()             {}
func (SetSearchQuery) isAction()     {}
func (LoadPersistedState) isAction() {}
func (AppendMessage) isAction()      {}
func (UpdateSettings) isAction()     {}
func (UpdateProfile) isAction()      {}
func (SubmitProfile) isAction()      {}
func (ResetProfile) isAction()       {}
func (ClearAll) isAction()           {}
