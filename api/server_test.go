package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"gamewin/models"
	"gamewin/service"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type testServer struct {
	server      *Server
	users       *mockUserService
	wallet      *mockWalletService
	tournaments *mockTournamentService
	spins       *mockSpinService
}

func newTestServer(t *testing.T, options Options, pinger Pinger) *testServer {
	t.Helper()
	ts := &testServer{
		users:       new(mockUserService),
		wallet:      new(mockWalletService),
		tournaments: new(mockTournamentService),
		spins:       new(mockSpinService),
	}
	if pinger == nil {
		pinger = stubPinger{}
	}
	ts.server = NewServer(Services{
		Users:       ts.users,
		Wallet:      ts.wallet,
		Tournaments: ts.tournaments,
		Spins:       ts.spins,
	}, pinger, options)
	return ts
}

type envelope struct {
	Success   bool            `json:"success"`
	Message   string          `json:"message"`
	Data      json.RawMessage `json:"data"`
	Retryable bool            `json:"retryable"`
}

func (ts *testServer) do(t *testing.T, method, path, body string, headers map[string]string) (*http.Response, envelope) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := ts.server.App().Test(req, -1)
	require.NoError(t, err)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var env envelope
	require.NoError(t, json.Unmarshal(raw, &env), string(raw))
	return resp, env
}

func asUser(id uuid.UUID) map[string]string {
	return map[string]string{headerUserID: id.String()}
}

func TestHealthz(t *testing.T) {
	ts := newTestServer(t, Options{}, stubPinger{})
	resp, env := ts.do(t, http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, env.Success)

	ts = newTestServer(t, Options{}, stubPinger{err: errors.New("connection refused")})
	resp, env = ts.do(t, http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	assert.False(t, env.Success)
	assert.True(t, env.Retryable)
}

func TestRequestIDHeader(t *testing.T) {
	ts := newTestServer(t, Options{}, nil)

	resp, _ := ts.do(t, http.MethodGet, "/healthz", "", nil)
	assert.NotEmpty(t, resp.Header.Get(headerRequestID))

	resp, _ = ts.do(t, http.MethodGet, "/healthz", "", map[string]string{headerRequestID: "req-123"})
	assert.Equal(t, "req-123", resp.Header.Get(headerRequestID))
}

type recordedRequest struct {
	method string
	route  string
	status int
}

type recordingObserver struct {
	requests []recordedRequest
}

func (o *recordingObserver) RecordHTTPRequest(method, route string, status int, _ time.Duration) {
	o.requests = append(o.requests, recordedRequest{method: method, route: route, status: status})
}

func TestAccessLogRecordsMappedErrorStatus(t *testing.T) {
	observer := &recordingObserver{}
	ts := newTestServer(t, Options{Observer: observer}, nil)
	userID := uuid.New()
	ts.wallet.On("Withdraw", mock.Anything, userID, mock.Anything).
		Return(nil, fmt.Errorf("withdraw: %w", service.ErrInsufficientBalance))

	resp, env := ts.do(t, http.MethodPost, "/api/wallet/withdraw", `{"amount":"10.00"}`, asUser(userID))

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.False(t, env.Success)
	assert.Equal(t, "withdraw: insufficient balance", env.Message)
	require.Len(t, observer.requests, 1)
	assert.Equal(t, recordedRequest{
		method: http.MethodPost,
		route:  "/api/wallet/withdraw",
		status: http.StatusBadRequest,
	}, observer.requests[0])
}

func TestGatewayAuth(t *testing.T) {
	ts := newTestServer(t, Options{GatewayToken: "secret"}, nil)
	userID := uuid.New()
	ts.users.On("GetUser", mock.Anything, userID).Return(&models.User{ID: userID, IsActive: true}, nil)

	resp, env := ts.do(t, http.MethodGet, "/api/me", "", asUser(userID))
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.False(t, env.Success)

	headers := asUser(userID)
	headers["Authorization"] = "Bearer wrong"
	resp, _ = ts.do(t, http.MethodGet, "/api/me", "", headers)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	headers["Authorization"] = "Bearer secret"
	resp, _ = ts.do(t, http.MethodGet, "/api/me", "", headers)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestMissingIdentity(t *testing.T) {
	ts := newTestServer(t, Options{}, nil)

	resp, env := ts.do(t, http.MethodPost, "/api/wallet/add-money", `{"amount":"10"}`, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "missing user identity", env.Message)

	resp, _ = ts.do(t, http.MethodPost, "/api/wallet/add-money", `{"amount":"10"}`, map[string]string{headerUserID: "not-a-uuid"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	ts.wallet.AssertNotCalled(t, "AddFunds")
}

func TestMeHidesPasswordHash(t *testing.T) {
	ts := newTestServer(t, Options{}, nil)
	userID := uuid.New()
	ts.users.On("GetUser", mock.Anything, userID).Return(&models.User{
		ID:           userID,
		Username:     "alice",
		PasswordHash: "$2a$10$hash",
		Balance:      decimal.RequireFromString("12.50"),
		IsActive:     true,
	}, nil)

	resp, env := ts.do(t, http.MethodGet, "/api/me", "", asUser(userID))

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(env.Data), `"username":"alice"`)
	assert.NotContains(t, string(env.Data), "hash")
}

func TestAddMoney(t *testing.T) {
	ts := newTestServer(t, Options{}, nil)
	userID := uuid.New()
	ts.wallet.On("AddFunds", mock.Anything, userID, mock.MatchedBy(func(d decimal.Decimal) bool {
		return d.Equal(decimal.RequireFromString("50.25"))
	})).Return(&models.User{ID: userID, Balance: decimal.RequireFromString("150.25")}, nil)

	resp, env := ts.do(t, http.MethodPost, "/api/wallet/add-money", `{"amount":"50.25"}`, asUser(userID))

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, env.Success)
	assert.JSONEq(t, `{"balance":"150.25"}`, string(env.Data))
	ts.wallet.AssertExpectations(t)
}

func TestWithdrawErrorMapping(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		status    int
		retryable bool
		message   string
	}{
		{
			name:    "insufficient balance",
			err:     fmt.Errorf("withdraw 500.00: %w", service.ErrInsufficientBalance),
			status:  http.StatusBadRequest,
			message: "withdraw 500.00: insufficient balance",
		},
		{
			name:    "invalid amount",
			err:     service.ErrInvalidAmount,
			status:  http.StatusBadRequest,
			message: "invalid amount",
		},
		{
			name:    "user not found",
			err:     service.ErrUserNotFound,
			status:  http.StatusNotFound,
			message: "user not found",
		},
		{
			name:    "inactive user",
			err:     service.ErrUserInactive,
			status:  http.StatusForbidden,
			message: "user account is inactive",
		},
		{
			name:      "conflict",
			err:       fmt.Errorf("failed to debit balance: %w", service.ErrConflict),
			status:    http.StatusConflict,
			retryable: true,
			message:   "failed to debit balance: concurrent update conflict",
		},
		{
			name:      "storage unavailable",
			err:       fmt.Errorf("failed to begin: %w: dial tcp 10.0.0.1:5432", service.ErrStorageUnavailable),
			status:    http.StatusServiceUnavailable,
			retryable: true,
			message:   messageUnavailable,
		},
		{
			name:    "unknown",
			err:     errors.New("pq: relation users does not exist"),
			status:  http.StatusInternalServerError,
			message: messageInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := newTestServer(t, Options{}, nil)
			userID := uuid.New()
			ts.wallet.On("Withdraw", mock.Anything, userID, mock.Anything).Return(nil, tt.err)

			resp, env := ts.do(t, http.MethodPost, "/api/wallet/withdraw", `{"amount":500}`, asUser(userID))

			assert.Equal(t, tt.status, resp.StatusCode)
			assert.False(t, env.Success)
			assert.Equal(t, tt.retryable, env.Retryable)
			assert.Equal(t, tt.message, env.Message)
		})
	}
}

func TestStatusForError(t *testing.T) {
	tests := []struct {
		err       error
		status    int
		retryable bool
	}{
		{service.ErrAlreadySettled, http.StatusConflict, false},
		{service.ErrAlreadyRegistered, http.StatusConflict, false},
		{service.ErrAlreadyClaimedToday, http.StatusConflict, false},
		{service.ErrTournamentFull, http.StatusConflict, false},
		{service.ErrTournamentClosed, http.StatusConflict, false},
		{service.ErrNoRewardsConfigured, http.StatusConflict, false},
		{service.ErrUsernameTaken, http.StatusConflict, false},
		{service.ErrInvalidTransition, http.StatusBadRequest, false},
		{service.ErrInsufficientDil, http.StatusBadRequest, false},
		{service.ErrInvalidCredentials, http.StatusUnauthorized, false},
		{service.ErrAdvertisementNotFound, http.StatusNotFound, false},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			status, retryable := statusForError(tt.err)
			assert.Equal(t, tt.status, status)
			assert.Equal(t, tt.retryable, retryable)
		})
	}
}

func TestAdminRoutesRequireAdminRole(t *testing.T) {
	ts := newTestServer(t, Options{}, nil)
	playerID := uuid.New()
	adminID := uuid.New()
	tournamentID := uuid.New()
	ts.users.On("GetUser", mock.Anything, playerID).Return(&models.User{ID: playerID, Role: models.UserRoleUser, IsActive: true}, nil)
	ts.users.On("GetUser", mock.Anything, adminID).Return(&models.User{ID: adminID, Role: models.UserRoleAdmin, IsActive: true}, nil)
	ts.tournaments.On("UpdateStatus", mock.Anything, tournamentID, models.TournamentStatusCancelled).
		Return(&models.Tournament{ID: tournamentID, Status: models.TournamentStatusCancelled}, nil)

	path := "/api/admin/tournaments/" + tournamentID.String() + "/status"
	body := `{"status":"cancelled"}`

	resp, _ := ts.do(t, http.MethodPatch, path, body, asUser(playerID))
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	ts.tournaments.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)

	resp, env := ts.do(t, http.MethodPatch, path, body, asUser(adminID))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(env.Data), `"status":"cancelled"`)
}

func TestCreateTournamentRecordsAdmin(t *testing.T) {
	ts := newTestServer(t, Options{}, nil)
	adminID := uuid.New()
	ts.users.On("GetUser", mock.Anything, adminID).Return(&models.User{ID: adminID, Role: models.UserRoleAdmin, IsActive: true}, nil)
	ts.tournaments.On("CreateTournament", mock.Anything, mock.MatchedBy(func(p models.CreateTournamentParams) bool {
		return p.Title == "Friday Squads" && p.CreatedBy != nil && *p.CreatedBy == adminID &&
			p.EntryFee.Equal(decimal.RequireFromString("20")) && p.MaxPlayers == 64
	})).Return(&models.Tournament{ID: uuid.New(), Title: "Friday Squads"}, nil)

	body := `{"title":"Friday Squads","game":"PUBG","gameMode":"squad","entryFee":"20","maxPlayers":64,"startTime":"2026-11-01T18:00:00Z"}`
	resp, _ := ts.do(t, http.MethodPost, "/api/admin/tournaments", body, asUser(adminID))

	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	ts.tournaments.AssertExpectations(t)
}

func TestGetTournamentPassesViewer(t *testing.T) {
	ts := newTestServer(t, Options{}, nil)
	tournamentID := uuid.New()
	viewerID := uuid.New()
	ts.tournaments.On("GetTournament", mock.Anything, tournamentID, uuid.Nil).Return(&models.Tournament{ID: tournamentID}, nil)
	ts.tournaments.On("GetTournament", mock.Anything, tournamentID, viewerID).Return(&models.Tournament{ID: tournamentID}, nil)

	resp, _ := ts.do(t, http.MethodGet, "/api/tournaments/"+tournamentID.String(), "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = ts.do(t, http.MethodGet, "/api/tournaments/"+tournamentID.String(), "", asUser(viewerID))
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = ts.do(t, http.MethodGet, "/api/tournaments/not-a-uuid", "", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	ts.tournaments.AssertExpectations(t)
}

func TestListTournamentsRejectsUnknownStatus(t *testing.T) {
	ts := newTestServer(t, Options{}, nil)

	resp, _ := ts.do(t, http.MethodGet, "/api/tournaments?status=paused", "", nil)

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	ts.tournaments.AssertNotCalled(t, "ListTournaments", mock.Anything, mock.Anything, mock.Anything)
}

func TestSpinUsesDefaultCost(t *testing.T) {
	ts := newTestServer(t, Options{DefaultSpinDilCost: 10}, nil)
	userID := uuid.New()
	ts.spins.On("Spin", mock.Anything, userID, int64(10)).Return(&models.SpinResult{}, nil)
	ts.spins.On("Spin", mock.Anything, userID, int64(25)).Return(nil, service.ErrNoRewardsConfigured)

	resp, _ := ts.do(t, http.MethodPost, "/api/spin-wheel/spin", "", asUser(userID))
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, env := ts.do(t, http.MethodPost, "/api/spin-wheel/spin", `{"dilCost":25}`, asUser(userID))
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "no spin rewards configured", env.Message)

	ts.spins.AssertExpectations(t)
}

func TestRegisterForcesUserRole(t *testing.T) {
	ts := newTestServer(t, Options{}, nil)
	ts.users.On("Register", mock.Anything, models.RegisterParams{
		Username: "bob",
		Email:    "bob@example.com",
		Password: "hunter22",
		Role:     models.UserRoleUser,
	}).Return(&models.User{ID: uuid.New(), Username: "bob"}, nil)

	body := `{"username":"bob","email":"bob@example.com","password":"hunter22","role":"admin"}`
	resp, env := ts.do(t, http.MethodPost, "/api/auth/register", body, nil)

	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.True(t, env.Success)
	ts.users.AssertExpectations(t)
}
