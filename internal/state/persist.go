package state

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// SliceName names a persisted slice. The storage key is "<app>:<slice>".
type SliceName string

const (
	SliceCart       SliceName = "cart"
	SliceSession    SliceName = "session"
	SliceProfile    SliceName = "profile"
	SliceTranscript SliceName = "transcript"
	SliceSettings   SliceName = "settings"
)

// PersistedSlices lists every slice written to storage. The search query is
// never persisted.
var PersistedSlices = []SliceName{SliceCart, SliceSession, SliceProfile, SliceTranscript, SliceSettings}

// Key returns the storage key of slice for app.
func Key(app string, slice SliceName) string {
	return app + ":" + string(slice)
}

// EncodeSlice serializes one slice of s.
func EncodeSlice(s State, slice SliceName) ([]byte, error) {
	var v any
	switch slice {
	case SliceCart:
		v = s.Cart
	case SliceSession:
		v = s.Session
	case SliceProfile:
		v = s.Profile
	case SliceTranscript:
		v = s.Transcript
	case SliceSettings:
		v = s.Settings
	default:
		return nil, fmt.Errorf("encode %q: unknown slice", slice)
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", slice, err)
	}
	return data, nil
}

// DecodeSlice parses data as slice and returns a snapshot carrying only it.
func DecodeSlice(slice SliceName, data []byte) (Snapshot, error) {
	var snap Snapshot
	var err error
	switch slice {
	case SliceCart:
		var cart []CartItem
		err = unmarshalStrict(data, &cart)
		snap.Cart = &cart
	case SliceSession:
		var sess Session
		err = unmarshalStrict(data, &sess)
		snap.Session = &sess
	case SliceProfile:
		p := NewProfile()
		err = unmarshalStrict(data, &p)
		snap.Profile = &p
	case SliceTranscript:
		var msgs []Message
		err = unmarshalStrict(data, &msgs)
		snap.Transcript = &msgs
	case SliceSettings:
		// Keys missing from the stored object keep their defaults.
		settings := DefaultSettings()
		err = unmarshalStrict(data, &settings)
		snap.Settings = &settings
	default:
		return Snapshot{}, fmt.Errorf("decode %q: unknown slice", slice)
	}
	if err != nil {
		return Snapshot{}, fmt.Errorf("decode %s: %w", slice, err)
	}
	return snap, nil
}

func unmarshalStrict(data []byte, v any) error {
	if len(bytes.TrimSpace(data)) == 0 {
		return fmt.Errorf("empty value")
	}
	return json.Unmarshal(data, v)
}
