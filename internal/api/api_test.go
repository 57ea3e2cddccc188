package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flagvault/flagvault/internal/api"
	"github.com/flagvault/flagvault/internal/api/response"
	"github.com/flagvault/flagvault/internal/factory"
	"github.com/flagvault/flagvault/internal/services/auth"
	"github.com/flagvault/flagvault/internal/storage/memory"
)

// testServer creates a test server with all dependencies
type testServer struct {
	handler http.Handler
	storage *memory.Storage
	auth    *auth.Service
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

	// API tests are integration tests - use production factory with real clock
	app, err := factory.New(factory.Config{})
	require.NoError(t, err)

	router := api.NewRouter(api.RouterConfig{
		Logger:               logger,
		AuthService:          app.AuthService,
		SubmissionController: app.SubmissionController,
		AuditService:         app.AuditService,
		RegistryService:      app.RegistryService,
		LeaderboardService:   app.LeaderboardService,
	})

	return &testServer{
		handler: router,
		storage: app.Storage.(*memory.Storage),
		auth:    app.AuthService,
	}
}

func (ts *testServer) request(method, path string, body any, token string) *httptest.ResponseRecorder {
	var reqBody *bytes.Buffer
	if body != nil {
		b, _ := json.Marshal(body)
		reqBody = bytes.NewBuffer(b)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rr := httptest.NewRecorder()
	ts.handler.ServeHTTP(rr, req)
	return rr
}

func decodeSubmit(t *testing.T, rr *httptest.ResponseRecorder) response.SubmitFlag {
	t.Helper()
	var resp response.SubmitFlag
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	return resp
}

func TestHealthCheck(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodGet, "/health", nil, "")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "ok")
}

// Flag submission

func TestSubmitCorrectFlag(t *testing.T) {
	ts := newTestServer(t)

	body := map[string]any{
		"challengeId":   "easy-1",
		"submittedFlag": "flag{typ3_c03rc10n_m4gic}",
		"username":      "alice",
	}
	rr := ts.request(http.MethodPost, "/flags/submit", body, "")

	assert.Equal(t, http.StatusOK, rr.Code)
	resp := decodeSubmit(t, rr)
	assert.True(t, resp.Success)
	assert.Equal(t, 100, resp.Points)
	assert.Equal(t, "Correct flag!", resp.Message)
}

func TestSubmitIncorrectFlag(t *testing.T) {
	ts := newTestServer(t)

	body := map[string]any{
		"challengeId":   "easy-1",
		"submittedFlag": "flag{nope}",
		"username":      "alice",
	}
	rr := ts.request(http.MethodPost, "/flags/submit", body, "")

	assert.Equal(t, http.StatusOK, rr.Code)
	resp := decodeSubmit(t, rr)
	assert.False(t, resp.Success)
	assert.Equal(t, 0, resp.Points)
	assert.Equal(t, "Incorrect flag.", resp.Message)
}

func TestSubmitLegacyFieldNames(t *testing.T) {
	ts := newTestServer(t)

	body := map[string]any{
		"challenge": "easy-2",
		"flag":      "flag{b4se64_d3c0d3d_m3}",
		"name":      "bob",
	}
	rr := ts.request(http.MethodPost, "/flags/submit", body, "")

	assert.Equal(t, http.StatusOK, rr.Code)
	resp := decodeSubmit(t, rr)
	assert.True(t, resp.Success)
	assert.Equal(t, 150, resp.Points)
}

func TestSubmitPaddedFieldsCleaned(t *testing.T) {
	ts := newTestServer(t)

	// Copy-pasted ids and emails arrive with stray whitespace and
	// invisible characters; they must match the intended challenge and
	// account, not miss them
	existing, err := ts.auth.Signup(context.Background(), "bob", "bob@example.com", "hunter22")
	require.NoError(t, err)

	body := map[string]any{
		"challengeId":   " easy-1\u200b",
		"submittedFlag": "flag{typ3_c03rc10n_m4gic}",
		"username":      " bob ",
		"email":         "bob@example.com ",
	}
	rr := ts.request(http.MethodPost, "/flags/submit", body, "")

	assert.Equal(t, http.StatusOK, rr.Code)
	resp := decodeSubmit(t, rr)
	assert.True(t, resp.Success)
	assert.Equal(t, 100, resp.Points)

	user, err := ts.storage.GetUser(context.Background(), existing.UserID)
	require.NoError(t, err)
	assert.Equal(t, 100, user.TotalPoints())
}

func TestSubmitWhitespaceOnlyFlagRejected(t *testing.T) {
	ts := newTestServer(t)

	body := map[string]any{
		"challengeId":   "easy-1",
		"submittedFlag": "   ",
		"username":      "alice",
	}
	rr := ts.request(http.MethodPost, "/flags/submit", body, "")

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	resp := decodeSubmit(t, rr)
	assert.False(t, resp.Success)
	assert.Equal(t, "Missing required fields", resp.Message)
}

func TestSubmitMissingFields(t *testing.T) {
	ts := newTestServer(t)

	body := map[string]any{"username": "alice"}
	rr := ts.request(http.MethodPost, "/flags/submit", body, "")

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	resp := decodeSubmit(t, rr)
	assert.False(t, resp.Success)
	assert.Equal(t, "Missing required fields", resp.Message)
}

func TestSubmitUnknownChallenge(t *testing.T) {
	ts := newTestServer(t)

	body := map[string]any{
		"challengeId":   "nonexistent",
		"submittedFlag": "flag{x}",
	}
	rr := ts.request(http.MethodPost, "/flags/submit", body, "")

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	resp := decodeSubmit(t, rr)
	assert.False(t, resp.Success)
	assert.Equal(t, "Unknown challenge", resp.Message)
}

func TestSubmitAlreadySolved(t *testing.T) {
	ts := newTestServer(t)

	body := map[string]any{
		"challengeId":   "easy-1",
		"submittedFlag": "flag{typ3_c03rc10n_m4gic}",
		"username":      "alice",
	}
	first := ts.request(http.MethodPost, "/flags/submit", body, "")
	require.Equal(t, http.StatusOK, first.Code)

	second := ts.request(http.MethodPost, "/flags/submit", body, "")
	assert.Equal(t, http.StatusOK, second.Code)
	resp := decodeSubmit(t, second)
	assert.True(t, resp.Success)
	assert.Equal(t, 0, resp.Points)
	assert.Equal(t, "Challenge already solved!", resp.Message)
}

func TestSubmitHintDeductionsAsString(t *testing.T) {
	ts := newTestServer(t)

	body := map[string]any{
		"challengeId":    "easy-1",
		"submittedFlag":  "flag{typ3_c03rc10n_m4gic}",
		"username":       "alice",
		"hintDeductions": "30",
	}
	rr := ts.request(http.MethodPost, "/flags/submit", body, "")

	assert.Equal(t, http.StatusOK, rr.Code)
	resp := decodeSubmit(t, rr)
	assert.Equal(t, 70, resp.Points)
}

func TestSubmitWithSessionCreditsSessionUser(t *testing.T) {
	ts := newTestServer(t)

	signup := ts.request(http.MethodPost, "/auth/signup", map[string]string{
		"username": "alice",
		"email":    "alice@example.com",
		"password": "secret123",
	}, "")
	require.Equal(t, http.StatusCreated, signup.Code)

	var authResp response.Auth
	require.NoError(t, json.Unmarshal(signup.Body.Bytes(), &authResp))

	body := map[string]any{
		"challengeId":   "medium-1",
		"submittedFlag": "flag{h1dd3n_js_fl4g}",
		"username":      "someone-else",
	}
	rr := ts.request(http.MethodPost, "/flags/submit", body, authResp.SessionToken)
	require.Equal(t, http.StatusOK, rr.Code)

	// The session user got the credit, visible on /auth/status
	status := ts.request(http.MethodGet, "/auth/status", nil, authResp.SessionToken)
	require.Equal(t, http.StatusOK, status.Code)

	var statusResp response.AuthStatus
	require.NoError(t, json.Unmarshal(status.Body.Bytes(), &statusResp))
	assert.True(t, statusResp.Authenticated)
	require.NotNil(t, statusResp.User)
	assert.Equal(t, 200, statusResp.User.TotalPoints)
}

// Attempt log

func TestAttemptsEndpoint(t *testing.T) {
	ts := newTestServer(t)

	_ = ts.request(http.MethodPost, "/flags/submit", map[string]any{
		"challengeId": "easy-1", "submittedFlag": "flag{wrong1}", "username": "alice",
	}, "")
	_ = ts.request(http.MethodPost, "/flags/submit", map[string]any{
		"challengeId": "easy-1", "submittedFlag": "flag{wrong2}", "username": "bob",
	}, "")

	rr := ts.request(http.MethodGet, "/flags/attempts?limit=1", nil, "")
	assert.Equal(t, http.StatusOK, rr.Code)

	var resp response.AttemptList
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	require.Len(t, resp.Attempts, 1)
	assert.Equal(t, "bob", resp.Attempts[0].PlayerName)
}

func TestAttemptsRejectsBadLimit(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodGet, "/flags/attempts?limit=banana", nil, "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

// Auth endpoints

func TestSignupAndLogin(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodPost, "/auth/signup", map[string]string{
		"username": "alice",
		"email":    "alice@example.com",
		"password": "secret123",
	}, "")
	assert.Equal(t, http.StatusCreated, rr.Code)

	var signupResp response.Auth
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &signupResp))
	assert.Equal(t, "alice", signupResp.User.Username)
	assert.NotEmpty(t, signupResp.SessionToken)

	rr = ts.request(http.MethodPost, "/auth/login", map[string]string{
		"email":    "alice@example.com",
		"password": "secret123",
	}, "")
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestLoginWrongPassword(t *testing.T) {
	ts := newTestServer(t)

	_ = ts.request(http.MethodPost, "/auth/signup", map[string]string{
		"username": "alice", "email": "alice@example.com", "password": "secret123",
	}, "")

	rr := ts.request(http.MethodPost, "/auth/login", map[string]string{
		"email": "alice@example.com", "password": "wrong",
	}, "")
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestSignupDuplicateEmail(t *testing.T) {
	ts := newTestServer(t)

	_ = ts.request(http.MethodPost, "/auth/signup", map[string]string{
		"username": "alice", "email": "alice@example.com", "password": "secret123",
	}, "")

	rr := ts.request(http.MethodPost, "/auth/signup", map[string]string{
		"username": "alice2", "email": "alice@example.com", "password": "secret123",
	}, "")
	assert.Equal(t, http.StatusConflict, rr.Code)
}

func TestStatusUnauthenticated(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodGet, "/auth/status", nil, "")
	assert.Equal(t, http.StatusOK, rr.Code)

	var resp response.AuthStatus
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.False(t, resp.Authenticated)
	assert.Nil(t, resp.User)
}

func TestLogout(t *testing.T) {
	ts := newTestServer(t)

	signup := ts.request(http.MethodPost, "/auth/signup", map[string]string{
		"username": "alice", "email": "alice@example.com", "password": "secret123",
	}, "")
	var authResp response.Auth
	require.NoError(t, json.Unmarshal(signup.Body.Bytes(), &authResp))

	rr := ts.request(http.MethodPost, "/auth/logout", nil, authResp.SessionToken)
	assert.Equal(t, http.StatusNoContent, rr.Code)

	// Session is gone
	status := ts.request(http.MethodGet, "/auth/status", nil, authResp.SessionToken)
	var statusResp response.AuthStatus
	require.NoError(t, json.Unmarshal(status.Body.Bytes(), &statusResp))
	assert.False(t, statusResp.Authenticated)
}

func TestLogoutRequiresAuth(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodPost, "/auth/logout", nil, "")
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestUpdateProfile(t *testing.T) {
	ts := newTestServer(t)

	signup := ts.request(http.MethodPost, "/auth/signup", map[string]string{
		"username": "alice", "email": "alice@example.com", "password": "secret123",
	}, "")
	var authResp response.Auth
	require.NoError(t, json.Unmarshal(signup.Body.Bytes(), &authResp))

	rr := ts.request(http.MethodPost, "/auth/update-profile", map[string]string{
		"username": "alicia",
		"bio":      "CTF enjoyer",
	}, authResp.SessionToken)
	assert.Equal(t, http.StatusOK, rr.Code)

	var user response.User
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &user))
	assert.Equal(t, "alicia", user.Username)
	assert.Equal(t, "CTF enjoyer", user.Bio)
}

func TestUpdateProfileConflict(t *testing.T) {
	ts := newTestServer(t)

	_ = ts.request(http.MethodPost, "/auth/signup", map[string]string{
		"username": "alice", "email": "alice@example.com", "password": "secret123",
	}, "")
	signup := ts.request(http.MethodPost, "/auth/signup", map[string]string{
		"username": "bob", "email": "bob@example.com", "password": "secret123",
	}, "")
	var authResp response.Auth
	require.NoError(t, json.Unmarshal(signup.Body.Bytes(), &authResp))

	rr := ts.request(http.MethodPost, "/auth/update-profile", map[string]string{
		"username": "alice",
	}, authResp.SessionToken)
	assert.Equal(t, http.StatusConflict, rr.Code)
}

func TestListUsers(t *testing.T) {
	ts := newTestServer(t)

	_ = ts.request(http.MethodPost, "/auth/signup", map[string]string{
		"username": "alice", "email": "alice@example.com", "password": "secret123",
	}, "")

	rr := ts.request(http.MethodGet, "/auth/users", nil, "")
	assert.Equal(t, http.StatusOK, rr.Code)

	var resp response.UserList
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	require.Len(t, resp.Users, 1)
	assert.Equal(t, "alice", resp.Users[0].Username)
}

// Challenges and leaderboard

func TestChallengesDoNotLeakFlags(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodGet, "/challenges", nil, "")
	assert.Equal(t, http.StatusOK, rr.Code)

	var resp response.ChallengeList
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Len(t, resp.Challenges, 7)
	assert.NotContains(t, rr.Body.String(), "flag{")
}

func TestLeaderboard(t *testing.T) {
	ts := newTestServer(t)

	_ = ts.request(http.MethodPost, "/flags/submit", map[string]any{
		"challengeId": "hard-2", "submittedFlag": "flag{Adv4nc3d_byp4ss_m4st3r}", "username": "alice",
	}, "")
	_ = ts.request(http.MethodPost, "/flags/submit", map[string]any{
		"challengeId": "easy-1", "submittedFlag": "flag{typ3_c03rc10n_m4gic}", "username": "bob",
	}, "")

	rr := ts.request(http.MethodGet, "/leaderboard", nil, "")
	assert.Equal(t, http.StatusOK, rr.Code)

	var resp response.Leaderboard
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	require.Len(t, resp.Standings, 2)
	assert.Equal(t, "alice", resp.Standings[0].Username)
	assert.Equal(t, 500, resp.Standings[0].TotalPoints)
	assert.Equal(t, 1, resp.Standings[0].Rank)
}
