package client

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/ashureev/nextgen-minds/internal/chat"
	"github.com/ashureev/nextgen-minds/internal/domain"
	"github.com/ashureev/nextgen-minds/internal/state"
)

// Request names tracked by a Session.
const (
	RequestLogin   = "login"
	RequestSignup  = "signup"
	RequestProfile = "profile"
	RequestChat    = "chat"
)

// ErrNotAuthenticated is returned by calls that need a signed-in session.
var ErrNotAuthenticated = errors.New("not signed in")

// Session runs network calls on behalf of a store and dispatches their
// results. Each call is tracked in Requests under its name.
type Session struct {
	api      *Client
	store    *state.Store
	requests *state.Requests
	logger   *slog.Logger
	model    string
	system   string
}

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithChatModel sets the model name sent with chat requests.
func WithChatModel(model string) SessionOption {
	return func(s *Session) { s.model = model }
}

// WithSystemPrompt sets the system prompt sent with chat requests.
func WithSystemPrompt(prompt string) SessionOption {
	return func(s *Session) { s.system = prompt }
}

// WithSessionLogger sets the logger.
func WithSessionLogger(logger *slog.Logger) SessionOption {
	return func(s *Session) { s.logger = logger }
}

// NewSession binds api to store.
func NewSession(api *Client, store *state.Store, opts ...SessionOption) *Session {
	s := &Session{
		api:      api,
		store:    store,
		requests: state.NewRequests(),
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Request returns the lifecycle state of a named request.
func (s *Session) Request(name string) state.RequestState {
	return s.requests.Get(name)
}

// Cancel aborts the named in-flight request.
func (s *Session) Cancel(name string) {
	s.requests.Cancel(name)
}

func (s *Session) signIn(res *AuthResult) {
	s.store.Dispatch(state.SetUser{
		User:  state.User{ID: res.User.ID, Name: res.User.Name, Email: res.User.Email},
		Token: res.Token,
	})
}

// Login authenticates and stores the session.
func (s *Session) Login(ctx context.Context, email, password string) (err error) {
	ctx, done := s.requests.Start(ctx, RequestLogin)
	defer func() { done(err) }()

	res, err := s.api.Login(ctx, email, password)
	if err != nil {
		return err
	}
	s.signIn(res)
	s.logger.Info("Signed in", "user_id", res.User.ID)
	return nil
}

// Signup registers and stores the session.
func (s *Session) Signup(ctx context.Context, name, email, password string) (err error) {
	ctx, done := s.requests.Start(ctx, RequestSignup)
	defer func() { done(err) }()

	res, err := s.api.Signup(ctx, name, email, password)
	if err != nil {
		return err
	}
	s.signIn(res)
	return nil
}

// Logout cancels in-flight authenticated calls and clears the session.
func (s *Session) Logout() {
	s.requests.Cancel(RequestProfile)
	s.requests.Cancel(RequestChat)
	s.store.Dispatch(state.Logout{})
}

func (s *Session) token() (string, error) {
	st := s.store.State()
	if !st.IsAuthenticated() || st.Session.Token == "" {
		return "", ErrNotAuthenticated
	}
	return st.Session.Token, nil
}

func toUpdate(p state.Profile) domain.ProfileUpdate {
	f := p.Draft
	if p.Submitted != nil {
		f = p.Submitted.Fields
	}
	u := domain.ProfileUpdate{
		Name:      &f.Name,
		Education: &f.Education,
		Location:  &f.Location,
		Skills:    f.Skills,
		Interests: f.Interests,
		Goals:     &f.Goals,
	}
	if p.Submitted != nil {
		at := p.Submitted.CompletedAt
		u.CompletedAt = &at
	}
	return u
}

func fromRemote(p *domain.Profile) state.ProfilePatch {
	return state.ProfilePatch{
		Name:      &p.Name,
		Education: &p.Education,
		Location:  &p.Location,
		Skills:    p.Skills,
		Interests: p.Interests,
		Goals:     &p.Goals,
	}
}

// PushProfile uploads the wizard, submitted fields taking precedence over
// the draft.
func (s *Session) PushProfile(ctx context.Context) (err error) {
	token, err := s.token()
	if err != nil {
		return err
	}
	ctx, done := s.requests.Start(ctx, RequestProfile)
	defer func() { done(err) }()

	_, err = s.api.UpdateProfile(ctx, token, toUpdate(s.store.State().Profile))
	return err
}

// PullProfile loads the server profile into the wizard. A remote profile
// with a completion time is submitted locally as well. A missing remote
// profile leaves the wizard untouched.
func (s *Session) PullProfile(ctx context.Context) (err error) {
	token, err := s.token()
	if err != nil {
		return err
	}
	ctx, done := s.requests.Start(ctx, RequestProfile)
	defer func() { done(err) }()

	remote, err := s.api.GetProfile(ctx, token)
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound {
		return nil
	}
	if err != nil {
		return err
	}

	if s.store.State().Profile.IsSubmitted() {
		return nil
	}
	s.store.Dispatch(state.UpdateProfile{Patch: fromRemote(remote)})
	if remote.CompletedAt != nil {
		s.store.Dispatch(state.SubmitProfile{At: *remote.CompletedAt})
	}
	return nil
}

// Send appends content to the transcript, asks the assistant and appends
// its reply. On failure the user's message stays in the transcript.
func (s *Session) Send(ctx context.Context, content string) (reply state.Message, err error) {
	st := s.store.Dispatch(state.AppendMessage{Message: state.Message{Role: state.RoleUser, Content: content}})

	ctx, done := s.requests.Start(ctx, RequestChat)
	defer func() { done(err) }()

	req := chat.Request{Model: s.model, System: s.system}
	for _, m := range st.Transcript {
		req.Messages = append(req.Messages, chat.Message{Role: string(m.Role), Content: m.Content})
	}

	resp, err := s.api.Chat(ctx, st.Session.Token, req)
	if err != nil {
		s.logger.Warn("Chat request failed", "error", err)
		return state.Message{}, err
	}

	next := s.store.Dispatch(state.AppendMessage{Message: state.Message{
		Role:    state.RoleAssistant,
		Content: resp.Message.Content,
	}})
	return next.Transcript[len(next.Transcript)-1], nil
}
