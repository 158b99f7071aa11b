package state

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func reduceAll(s State, actions ...Action) State {
	for _, a := range actions {
		s = Reduce(s, a)
	}
	return s
}

func TestAddItemTwiceIncrementsQuantity(t *testing.T) {
	s := reduceAll(Initial(), AddItem{ID: "P001"}, AddItem{ID: "P001"})

	assert.Equal(t, []CartItem{{ID: "P001", Quantity: 2}}, s.Cart)
}

func TestAddItemQuantityEqualsAddCount(t *testing.T) {
	for n := 1; n <= 10; n++ {
		s := Initial()
		for i := 0; i < n; i++ {
			s = Reduce(s, AddItem{ID: "P042"})
		}
		require.Len(t, s.Cart, 1)
		assert.Equal(t, n, s.Cart[0].Quantity)
	}
}

func TestAddItemKeepsInsertionOrder(t *testing.T) {
	s := reduceAll(Initial(), AddItem{ID: "B"}, AddItem{ID: "A"}, AddItem{ID: "B"})

	assert.Equal(t, []CartItem{{ID: "B", Quantity: 2}, {ID: "A", Quantity: 1}}, s.Cart)
}

func TestSetQuantityZeroRemoves(t *testing.T) {
	s := reduceAll(Initial(), AddItem{ID: "P001"}, SetQuantity{ID: "P001", Quantity: 0})
	assert.Empty(t, s.Cart)

	for prior := 1; prior <= 5; prior++ {
		s := Initial()
		for i := 0; i < prior; i++ {
			s = Reduce(s, AddItem{ID: "X"})
		}
		s = Reduce(s, SetQuantity{ID: "X", Quantity: 0})
		_, ok := s.CartItem("X")
		assert.False(t, ok, "prior quantity %d", prior)
	}
}

func TestSetQuantity(t *testing.T) {
	tests := []struct {
		name string
		qty  int
		want []CartItem
	}{
		{name: "positive", qty: 7, want: []CartItem{{ID: "A", Quantity: 7}, {ID: "B", Quantity: 1}}},
		{name: "negative is ignored", qty: -3, want: []CartItem{{ID: "A", Quantity: 1}, {ID: "B", Quantity: 1}}},
		{name: "zero removes", qty: 0, want: []CartItem{{ID: "B", Quantity: 1}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := reduceAll(Initial(), AddItem{ID: "A"}, AddItem{ID: "B"})
			s = Reduce(s, SetQuantity{ID: "A", Quantity: tt.qty})
			assert.Equal(t, tt.want, s.Cart)
		})
	}
}

func TestSetQuantityUnknownIDIsNoop(t *testing.T) {
	s := reduceAll(Initial(), AddItem{ID: "A"})
	next := Reduce(s, SetQuantity{ID: "missing", Quantity: 4})
	assert.Equal(t, s.Cart, next.Cart)
}

func TestRemoveAndClear(t *testing.T) {
	s := reduceAll(Initial(), AddItem{ID: "A"}, AddItem{ID: "B"}, RemoveItem{ID: "A"})
	assert.Equal(t, []CartItem{{ID: "B", Quantity: 1}}, s.Cart)

	s = Reduce(s, ClearCollection{})
	assert.Empty(t, s.Cart)
	assert.NotNil(t, s.Cart)
}

func TestReduceDoesNotMutateInput(t *testing.T) {
	base := reduceAll(Initial(),
		AddItem{ID: "A"},
		AddItem{ID: "B"},
		AppendMessage{Message: Message{Role: RoleUser, Content: "hi"}},
	)
	before := reduceAll(Initial(),
		AddItem{ID: "A"},
		AddItem{ID: "B"},
		AppendMessage{Message: Message{Role: RoleUser, Content: "hi"}},
	)

	actions := []Action{
		AddItem{ID: "A"},
		SetQuantity{ID: "B", Quantity: 9},
		RemoveItem{ID: "A"},
		AppendMessage{Message: Message{Role: RoleAssistant, Content: "hello"}},
		UpdateProfile{Patch: ProfilePatch{Skills: []string{"Go"}}},
		ClearAll{},
	}
	for _, a := range actions {
		_ = Reduce(base, a)
		if diff := cmp.Diff(before, base); diff != "" {
			t.Fatalf("%T mutated input (-want +got):\n%s", a, diff)
		}
	}
}

func TestAppendMessageDoesNotAliasSiblings(t *testing.T) {
	base := Reduce(Initial(), AppendMessage{Message: Message{Role: RoleUser, Content: "q"}})
	a := Reduce(base, AppendMessage{Message: Message{Role: RoleAssistant, Content: "a1"}})
	b := Reduce(base, AppendMessage{Message: Message{Role: RoleAssistant, Content: "a2"}})

	assert.Equal(t, "a1", a.Transcript[1].Content)
	assert.Equal(t, "a2", b.Transcript[1].Content)
	assert.Len(t, base.Transcript, 1)
}

func TestUnknownActionReturnsInput(t *testing.T) {
	s := reduceAll(Initial(), AddItem{ID: "A"})
	assert.Equal(t, s, Reduce(s, nil))
}

func TestSessionActions(t *testing.T) {
	s := Reduce(Initial(), SetUser{User: User{ID: "u1", Name: "Ada", Email: "ada@example.com"}, Token: "tok"})
	require.True(t, s.IsAuthenticated())
	assert.Equal(t, "ada@example.com", s.Session.User.Email)
	assert.Equal(t, "tok", s.Session.Token)

	s = Reduce(s, Logout{})
	assert.False(t, s.IsAuthenticated())
	assert.Nil(t, s.Session.User)
}

func TestSearchQuery(t *testing.T) {
	s := Reduce(Initial(), SetSearchQuery{Query: "shoes"})
	assert.Equal(t, "shoes", s.SearchQuery)
}

func TestUpdateSettingsShallowMerge(t *testing.T) {
	dark := "dark"
	fr := "fr"
	yes := true
	scale := 1.25

	patches := []SettingsPatch{
		{},
		{Theme: &dark},
		{Language: &fr, HighContrast: &yes},
		{FontScale: &scale, ReducedMotion: &yes},
		{Theme: &dark, Language: &fr, ReducedMotion: &yes, HighContrast: &yes, FontScale: &scale},
	}
	start := Settings{Theme: "light", Language: "de", ReducedMotion: false, HighContrast: false, FontScale: 0.9}

	for _, p := range patches {
		got := Reduce(State{Settings: start}, UpdateSettings{Patch: p}).Settings

		want := start
		if p.Theme != nil {
			want.Theme = *p.Theme
		}
		if p.Language != nil {
			want.Language = *p.Language
		}
		if p.ReducedMotion != nil {
			want.ReducedMotion = *p.ReducedMotion
		}
		if p.HighContrast != nil {
			want.HighContrast = *p.HighContrast
		}
		if p.FontScale != nil {
			want.FontScale = *p.FontScale
		}
		assert.Equal(t, want, got)
	}
}

func TestProfileWizard(t *testing.T) {
	name := "Ada"
	edu := "Bachelor"
	goals := "Build compilers"
	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	s := Reduce(Initial(), UpdateProfile{Patch: ProfilePatch{Name: &name, Skills: []string{"Go"}}})
	assert.Equal(t, []string{"education", "interests", "goals"}, s.Profile.Draft.Missing())

	s = Reduce(s, SubmitProfile{At: at})
	assert.False(t, s.Profile.IsSubmitted(), "incomplete draft must not submit")

	s = reduceAll(s,
		UpdateProfile{Patch: ProfilePatch{Education: &edu, Interests: []string{"Systems"}}},
		UpdateProfile{Patch: ProfilePatch{Goals: &goals}},
		SubmitProfile{At: at},
	)
	require.True(t, s.Profile.IsSubmitted())
	assert.Equal(t, at, s.Profile.Submitted.CompletedAt)
	assert.Equal(t, "Ada", s.Profile.Submitted.Fields.Name)

	other := "Grace"
	frozen := Reduce(s, UpdateProfile{Patch: ProfilePatch{Name: &other}})
	assert.Equal(t, "Ada", frozen.Profile.Submitted.Fields.Name)
	assert.Equal(t, "Ada", frozen.Profile.Draft.Name)

	later := Reduce(s, SubmitProfile{At: at.Add(time.Hour)})
	assert.Equal(t, at, later.Profile.Submitted.CompletedAt)

	reset := Reduce(s, ResetProfile{})
	assert.False(t, reset.Profile.IsSubmitted())
	assert.Equal(t, []string{"name", "education", "skills", "interests", "goals"}, reset.Profile.Draft.Missing())
}

func TestLoadPersistedStateMergesPartialSnapshot(t *testing.T) {
	s := reduceAll(Initial(), SetSearchQuery{Query: "q"}, AddItem{ID: "A"})
	cart := []CartItem{{ID: "P001", Quantity: 3}, {ID: "bad", Quantity: 0}}

	s = Reduce(s, LoadPersistedState{Snapshot: Snapshot{Cart: &cart}})

	assert.Equal(t, []CartItem{{ID: "P001", Quantity: 3}}, s.Cart)
	assert.Equal(t, "q", s.SearchQuery)
	if diff := cmp.Diff(DefaultSettings(), s.Settings); diff != "" {
		t.Fatalf("settings changed (-want +got):\n%s", diff)
	}
}

func TestLoadPersistedStateMergesDuplicateIDs(t *testing.T) {
	cart := []CartItem{{ID: "P001", Quantity: 1}, {ID: "P002", Quantity: 5}, {ID: "P001", Quantity: 2}}

	s := Reduce(Initial(), LoadPersistedState{Snapshot: Snapshot{Cart: &cart}})

	assert.Equal(t, []CartItem{{ID: "P001", Quantity: 3}, {ID: "P002", Quantity: 5}}, s.Cart)
	assert.Equal(t, 1, cart[0].Quantity)
}

func TestClearAllResetsEverySlice(t *testing.T) {
	dark := "dark"
	s := reduceAll(Initial(),
		AddItem{ID: "A"},
		SetUser{User: User{ID: "u"}},
		AppendMessage{Message: Message{Role: RoleUser, Content: "x"}},
		UpdateSettings{Patch: SettingsPatch{Theme: &dark}},
		SetSearchQuery{Query: "q"},
		ClearAll{},
	)
	if diff := cmp.Diff(Initial(), s, cmpopts.EquateEmpty()); diff != "" {
		t.Fatalf("ClearAll left state behind (-want +got):\n%s", diff)
	}
}
