package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ashureev/nextgen-minds/internal/auth"
	"github.com/ashureev/nextgen-minds/internal/catalog"
	"github.com/ashureev/nextgen-minds/internal/chat"
	"github.com/ashureev/nextgen-minds/internal/domain"
	"github.com/ashureev/nextgen-minds/internal/store"
	"github.com/coder/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fakeCompleter struct {
	reply string
	err   error
	calls int
}

func (f *fakeCompleter) Complete(_ context.Context, req chat.Request) (*chat.Response, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return &chat.Response{
		Model:   req.Model,
		Message: chat.Message{Role: chat.RoleAssistant, Content: f.reply},
		Usage:   chat.Usage{PromptTokens: 4, CompletionTokens: 2, TotalTokens: 6},
	}, nil
}

type testEnv struct {
	server *httptest.Server
	repo   *store.SQLiteStore
}

type envOption func(*Deps)

func withCompleter(c chat.Completer) envOption {
	return func(d *Deps) { d.Chat = chat.NewService(c, "test-model", d.Logger) }
}

func withLimit(n int) envOption {
	return func(d *Deps) { d.Limiter = chat.NewRateLimiter(n, time.Minute) }
}

func newTestEnv(t *testing.T, opts ...envOption) *testEnv {
	t.Helper()
	repo, err := store.NewSQLite(filepath.Join(t.TempDir(), "api.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })

	c, err := catalog.Default()
	require.NoError(t, err)
	_, err = catalog.Seed(context.Background(), repo, c, false)
	require.NoError(t, err)

	d := Deps{
		Repo:   repo,
		Issuer: auth.NewIssuer("test-secret", time.Hour),
		Logger: quietLogger(),
	}
	for _, opt := range opts {
		opt(&d)
	}
	if d.Limiter != nil {
		t.Cleanup(d.Limiter.Stop)
	}

	srv := httptest.NewServer(NewRouter(NewHandler(d)))
	t.Cleanup(srv.Close)
	return &testEnv{server: srv, repo: repo}
}

func (e *testEnv) do(t *testing.T, method, path, token string, body any) (*http.Response, []byte) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}
	req, err := http.NewRequest(method, e.server.URL+path, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := e.server.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, data
}

func decodeAs[T any](t *testing.T, data []byte) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(data, &v), string(data))
	return v
}

func (e *testEnv) signup(t *testing.T, email, password string) AuthResponse {
	t.Helper()
	resp, data := e.do(t, http.MethodPost, "/api/auth/signup", "", map[string]string{
		"name": "Ada Lovelace", "email": email, "password": password,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(data))
	return decodeAs[AuthResponse](t, data)
}

func TestSignupAndLogin(t *testing.T) {
	env := newTestEnv(t)

	created := env.signup(t, "Ada@Example.com", "analytical")
	assert.NotEmpty(t, created.Token)
	assert.Equal(t, "ada@example.com", created.User.Email)
	assert.NotEmpty(t, created.User.ID)

	resp, data := env.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email": "ada@example.com", "password": "analytical",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	login := decodeAs[AuthResponse](t, data)
	assert.NotEmpty(t, login.Token)
	assert.Equal(t, "ada@example.com", login.User.Email)
	assert.NotContains(t, string(data), "password")

	resp, data = env.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email": "ada@example.com", "password": "wrong-password",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "Invalid credentials", decodeAs[ErrorBody](t, data).Message)

	resp, data = env.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email": "nobody@example.com", "password": "analytical",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "Invalid credentials", decodeAs[ErrorBody](t, data).Message)

	resp, data = env.do(t, http.MethodGet, "/api/auth/me", login.Token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, created.User, decodeAs[domain.PublicUser](t, data))
}

func TestSignupValidation(t *testing.T) {
	env := newTestEnv(t)

	resp, data := env.do(t, http.MethodPost, "/api/auth/signup", "", map[string]string{
		"email": "not-an-email", "password": "123",
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	body := decodeAs[ErrorBody](t, data)
	assert.Equal(t, "Validation failed", body.Message)

	var fields []string
	for _, f := range body.Errors {
		fields = append(fields, f.Field)
	}
	assert.ElementsMatch(t, []string{"name", "email", "password"}, fields)

	resp, data = env.do(t, http.MethodPost, "/api/auth/signup", "", map[string]string{
		"name": "Ada", "email": "long@example.com", "password": strings.Repeat("p", 80),
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	body = decodeAs[ErrorBody](t, data)
	require.Len(t, body.Errors, 1)
	assert.Equal(t, FieldError{Field: "password", Message: "Password must be at most 72 bytes"}, body.Errors[0])

	env.signup(t, "ada@example.com", "analytical")
	resp, data = env.do(t, http.MethodPost, "/api/auth/signup", "", map[string]string{
		"name": "Imposter", "email": "ADA@example.com", "password": "whatever",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "User already exists", decodeAs[ErrorBody](t, data).Message)
}

func TestProfileRequiresToken(t *testing.T) {
	env := newTestEnv(t)

	for _, token := range []string{"", "forged.token.value"} {
		resp, data := env.do(t, http.MethodGet, "/api/profile", token, nil)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		assert.Equal(t, "Invalid or expired token", decodeAs[ErrorBody](t, data).Message)
	}
}

func TestProfileLifecycle(t *testing.T) {
	env := newTestEnv(t)
	token := env.signup(t, "ada@example.com", "analytical").Token

	resp, data := env.do(t, http.MethodGet, "/api/profile", token, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "Profile not found", decodeAs[ErrorBody](t, data).Message)

	resp, data = env.do(t, http.MethodPut, "/api/profile", token, map[string]any{
		"name":   "Ada",
		"skills": []string{" Python ", "python", "", "Math"},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(data))
	first := decodeAs[domain.Profile](t, data)
	assert.Equal(t, []string{"Python", "Math"}, first.Skills)
	assert.Equal(t, []string{}, first.Interests)

	resp, data = env.do(t, http.MethodPut, "/api/profile", token, map[string]any{
		"education": "Bachelor",
		"goals":     "Build compilers",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, data = env.do(t, http.MethodGet, "/api/profile", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	got := decodeAs[domain.Profile](t, data)
	assert.Equal(t, "Ada", got.Name, "fields not in the update are kept")
	assert.Equal(t, "Bachelor", got.Education)
	assert.Equal(t, "Build compilers", got.Goals)
	assert.Equal(t, []string{"Python", "Math"}, got.Skills)

	resp, data = env.do(t, http.MethodPut, "/api/profile", token, map[string]any{"name": "   "})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "name", decodeAs[ErrorBody](t, data).Errors[0].Field)
}

func TestCareersFilteredBySkill(t *testing.T) {
	env := newTestEnv(t)

	resp, data := env.do(t, http.MethodGet, "/api/careers?skills=Python", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	careers := decodeAs[[]domain.Career](t, data)
	require.NotEmpty(t, careers)

	all, err := env.repo.ListCareers(context.Background())
	require.NoError(t, err)
	assert.Less(t, len(careers), len(all))
	for _, c := range careers {
		found := false
		for _, s := range c.Skills {
			if strings.Contains(strings.ToLower(s), "python") {
				found = true
			}
		}
		assert.True(t, found, "career %s has no Python skill", c.ID)
	}

	resp, data = env.do(t, http.MethodGet, "/api/careers?skills=python,sql&interests=research", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	narrowed := decodeAs[[]domain.Career](t, data)
	require.Len(t, narrowed, 1)
	assert.Equal(t, "data-scientist", narrowed[0].ID)

	resp, data = env.do(t, http.MethodGet, "/api/careers?skills=cobol", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, "[]", string(data))
}

func TestCareerByID(t *testing.T) {
	env := newTestEnv(t)

	resp, data := env.do(t, http.MethodGet, "/api/careers/registered-nurse", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Registered Nurse", decodeAs[domain.Career](t, data).Title)

	resp, data = env.do(t, http.MethodGet, "/api/careers/astronaut", "", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "Career not found", decodeAs[ErrorBody](t, data).Message)
}

func TestScholarshipsAndColleges(t *testing.T) {
	env := newTestEnv(t)

	resp, data := env.do(t, http.MethodGet, "/api/scholarships", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, decodeAs[[]domain.Scholarship](t, data), 3)

	resp, data = env.do(t, http.MethodGet, "/api/colleges?location=delhi&program=nursing", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	colleges := decodeAs[[]domain.College](t, data)
	require.Len(t, colleges, 1)
	assert.Equal(t, "aiims-delhi", colleges[0].ID)
}

func TestUnknownRoute(t *testing.T) {
	env := newTestEnv(t)
	resp, data := env.do(t, http.MethodGet, "/api/nope", "", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Contains(t, decodeAs[ErrorBody](t, data).Message, "/api/nope")
}

func chatBody() map[string]any {
	return map[string]any{
		"model":    "gemini-test",
		"system":   "You are a career counsellor.",
		"messages": []map[string]string{{"role": "user", "content": "What should I study?"}},
	}
}

func TestChatNotConfigured(t *testing.T) {
	env := newTestEnv(t)
	resp, data := env.do(t, http.MethodPost, "/chat", "", chatBody())
	assert.Equal(t, http.StatusNotImplemented, resp.StatusCode)
	assert.Equal(t, "Chat service is not configured", decodeAs[ErrorBody](t, data).Message)
}

func TestChatRelaysCompletion(t *testing.T) {
	env := newTestEnv(t, withCompleter(&fakeCompleter{reply: "Try computer science."}))

	resp, data := env.do(t, http.MethodPost, "/chat", "", chatBody())
	require.Equal(t, http.StatusOK, resp.StatusCode, string(data))
	got := decodeAs[chat.Response](t, data)
	assert.Equal(t, chat.RoleAssistant, got.Message.Role)
	assert.Equal(t, "Try computer science.", got.Message.Content)
	assert.Equal(t, chat.Usage{PromptTokens: 4, CompletionTokens: 2, TotalTokens: 6}, got.Usage)
	assert.Equal(t, "gemini-test", got.Model)
}

func TestChatErrors(t *testing.T) {
	env := newTestEnv(t, withCompleter(&fakeCompleter{err: errors.New("quota exceeded")}))

	resp, data := env.do(t, http.MethodPost, "/chat", "", chatBody())
	assert.Equal(t, http.StatusNotImplemented, resp.StatusCode)
	assert.Contains(t, decodeAs[ErrorBody](t, data).Message, "quota exceeded")

	resp, data = env.do(t, http.MethodPost, "/chat", "", map[string]any{"messages": []any{}})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.NotEmpty(t, decodeAs[ErrorBody](t, data).Errors)
}

func TestChatRateLimited(t *testing.T) {
	fake := &fakeCompleter{reply: "ok"}
	env := newTestEnv(t, withCompleter(fake), withLimit(2))

	for range 2 {
		resp, _ := env.do(t, http.MethodPost, "/chat", "", chatBody())
		require.Equal(t, http.StatusOK, resp.StatusCode)
	}
	resp, _ := env.do(t, http.MethodPost, "/chat", "", chatBody())
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
	assert.Equal(t, 2, fake.calls)

	token := env.signup(t, "ada@example.com", "analytical").Token
	resp, _ = env.do(t, http.MethodPost, "/chat", token, chatBody())
	assert.Equal(t, http.StatusOK, resp.StatusCode, "authenticated callers have their own budget")
}

func TestChatSocket(t *testing.T) {
	env := newTestEnv(t, withCompleter(&fakeCompleter{reply: "Hello over the socket."}))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	url := "ws" + strings.TrimPrefix(env.server.URL, "http") + "/ws/chat"
	conn, _, err := websocket.Dial(ctx, url, nil)
	require.NoError(t, err)
	defer conn.Close(websocket.StatusNormalClosure, "")

	exchange := func(msg any) wsReply {
		data, err := json.Marshal(msg)
		require.NoError(t, err)
		require.NoError(t, conn.Write(ctx, websocket.MessageText, data))
		_, reply, err := conn.Read(ctx)
		require.NoError(t, err)
		return decodeAs[wsReply](t, reply)
	}

	pong := exchange(map[string]string{"type": "ping", "id": "p1"})
	assert.Equal(t, "pong", pong.Type)
	assert.Equal(t, "p1", pong.ID)

	body := chatBody()
	body["type"] = "chat"
	body["id"] = "c1"
	reply := exchange(body)
	assert.Equal(t, "message", reply.Type)
	assert.Equal(t, "c1", reply.ID)
	require.NotNil(t, reply.Message)
	assert.Equal(t, "Hello over the socket.", reply.Message.Content)
	require.NotNil(t, reply.Usage)
	assert.Equal(t, 6, reply.Usage.TotalTokens)

	bad := exchange(map[string]any{"type": "chat", "id": "c2"})
	assert.Equal(t, "error", bad.Type)
	assert.Equal(t, http.StatusBadRequest, bad.Status)

	unknown := exchange(map[string]string{"type": "dance"})
	assert.Equal(t, "error", unknown.Type)
}

type unreachableRepo struct {
	store.Repository
}

func (unreachableRepo) Ping(context.Context) error { return errors.New("disk gone") }

func TestHealth(t *testing.T) {
	env := newTestEnv(t)
	resp, data := env.do(t, http.MethodGet, "/health", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"status":"healthy","checks":{"api":"ok","chat":"disabled","database":"ok"}}`, string(data))

	h := NewHandler(Deps{Repo: unreachableRepo{env.repo}, Logger: quietLogger()})
	rr := httptest.NewRecorder()
	h.Health(rr, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
	assert.Contains(t, rr.Body.String(), "unreachable")
}
