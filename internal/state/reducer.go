package state

import "slices"

// Reduce computes the state that follows s under a. It never mutates s:
// changed slices are copied and untouched slices are shared. Actions it does
// not recognise, including nil, return s unchanged.
func Reduce(s State, a Action) State {
	switch a := a.(type) {
	case AddItem:
		s.Cart = addItem(s.Cart, a.ID)
	case RemoveItem:
		s.Cart = removeItem(s.Cart, a.ID)
	case SetQuantity:
		s.Cart = setQuantity(s.Cart, a.ID, a.Quantity)
	case ClearCollection:
		s.Cart = []CartItem{}
	case SetUser:
		u := a.User
		s.Session = Session{User: &u, Token: a.Token, Authenticated: true}
	case Logout:
		s.Session = Session{}
	case SetSearchQuery:
		s.SearchQuery = a.Query
	case LoadPersistedState:
		s = load(s, a.Snapshot)
	case AppendMessage:
		s.Transcript = append(slices.Clip(s.Transcript), a.Message)
	case UpdateSettings:
		s.Settings = a.Patch.Apply(s.Settings)
	case UpdateProfile:
		if !s.Profile.IsSubmitted() {
			s.Profile = Profile{Draft: a.Patch.Apply(s.Profile.Draft)}
		}
	case SubmitProfile:
		if !s.Profile.IsSubmitted() && s.Profile.Draft.Complete() {
			draft := s.Profile.Draft.clone()
			s.Profile = Profile{
				Draft:     draft,
				Submitted: &SubmittedProfile{Fields: draft.clone(), CompletedAt: a.At},
			}
		}
	case ResetProfile:
		s.Profile = NewProfile()
	case ClearAll:
		s = Initial()
	}
	return s
}

func addItem(cart []CartItem, id string) []CartItem {
	if id == "" {
		return cart
	}
	out := slices.Clone(cart)
	for i := range out {
		if out[i].ID == id {
			out[i].Quantity++
			return out
		}
	}
	return append(out, CartItem{ID: id, Quantity: 1})
}

func removeItem(cart []CartItem, id string) []CartItem {
	if !slices.ContainsFunc(cart, func(it CartItem) bool { return it.ID == id }) {
		return cart
	}
	out := make([]CartItem, 0, len(cart))
	for _, it := range cart {
		if it.ID != id {
			out = append(out, it)
		}
	}
	return out
}

func setQuantity(cart []CartItem, id string, qty int) []CartItem {
	switch {
	case qty == 0:
		return removeItem(cart, id)
	case qty < 0:
		return cart
	}
	i := slices.IndexFunc(cart, func(it CartItem) bool { return it.ID == id })
	if i < 0 {
		return cart
	}
	out := slices.Clone(cart)
	out[i].Quantity = qty
	return out
}

func load(s State, snap Snapshot) State {
	if snap.Cart != nil {
		cart := make([]CartItem, 0, len(*snap.Cart))
		for _, it := range *snap.Cart {
			// A stored zero or negative quantity can only come from a
			// foreign writer; drop the line rather than keep it.
			if it.ID == "" || it.Quantity < 1 {
				continue
			}
			// Repeated IDs collapse into the first line, quantities summed.
			if i := slices.IndexFunc(cart, func(c CartItem) bool { return c.ID == it.ID }); i >= 0 {
				cart[i].Quantity += it.Quantity
				continue
			}
			cart = append(cart, it)
		}
		s.Cart = cart
	}
	if snap.Session != nil {
		sess := *snap.Session
		if sess.User != nil {
			u := *sess.User
			sess.User = &u
		}
		s.Session = sess
	}
	if snap.Profile != nil {
		p := Profile{Draft: snap.Profile.Draft.clone()}
		if snap.Profile.Submitted != nil {
			sub := *snap.Profile.Submitted
			sub.Fields = sub.Fields.clone()
			p.Submitted = &sub
		}
		s.Profile = p
	}
	if snap.Transcript != nil {
		s.Transcript = slices.Clone(*snap.Transcript)
	}
	if snap.Settings != nil {
		s.Settings = *snap.Settings
	}
	return s
}
