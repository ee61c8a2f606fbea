package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/mohakay73/MoviePoll-SmartContract/internal/domain/participant"
	"github.com/mohakay73/MoviePoll-SmartContract/internal/domain/poll"
	jwtpkg "github.com/mohakay73/MoviePoll-SmartContract/internal/platform/jwt"
	"github.com/mohakay73/MoviePoll-SmartContract/internal/repository/leveldb"
)

const (
	testOwner         = "owner"
	testOwnerPassword = "owner-pass"
)

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func setupServer(t *testing.T, opts Options) (*httptest.Server, *testClock) {
	t.Helper()

	store, err := leveldb.Open("")
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	clock := &testClock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}

	participantSvc := participant.NewService(store, testOwner)
	if _, err := participantSvc.Seed(context.Background(), testOwner, testOwnerPassword); err != nil {
		t.Fatalf("seed owner: %v", err)
	}
	pollSvc := poll.NewService(poll.NewEngine(testOwner), store, clock, nil)
	jwtMgr := jwtpkg.NewManager("test-secret", "movie-poll")
	if opts.Ready == nil {
		opts.Ready = store.Ping
	}

	server := httptest.NewServer(NewRouter(participantSvc, pollSvc, jwtMgr, opts))
	t.Cleanup(func() {
		server.Close()
		_ = store.Close()
	})
	return server, clock
}

func doJSON(t *testing.T, method, url, token string, body any) *http.Response {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req, err := http.NewRequest(method, url, reader)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func register(t *testing.T, serverURL, handle string) string {
	t.Helper()
	resp := doJSON(t, http.MethodPost, serverURL+"/api/v1/auth/register", "", authRequest{Handle: handle, Password: "pass123"})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("register %s: status %d", handle, resp.StatusCode)
	}
	var out struct {
		Participant participant.Participant `json:"participant"`
		Token       string                  `json:"token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode register: %v", err)
	}
	if out.Participant.ID != handle || out.Token == "" {
		t.Fatalf("unexpected register payload: %+v", out)
	}
	return out.Token
}

func login(t *testing.T, serverURL, handle, password string) string {
	t.Helper()
	resp := doJSON(t, http.MethodPost, serverURL+"/api/v1/auth/login", "", authRequest{Handle: handle, Password: password})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login %s: status %d", handle, resp.StatusCode)
	}
	var out authResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode login: %v", err)
	}
	return out.Token
}

func decodeError(t *testing.T, resp *http.Response) map[string]string {
	t.Helper()
	var payload map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		t.Fatalf("decode error response: %v", err)
	}
	return payload
}

func expectError(t *testing.T, resp *http.Response, status int, code string) {
	t.Helper()
	if resp.StatusCode != status {
		t.Fatalf("expected %d, got %d", status, resp.StatusCode)
	}
	if got := decodeError(t, resp)["error"]; got != code {
		t.Fatalf("expected error %q, got %q", code, got)
	}
}

func TestHealthAndReady(t *testing.T) {
	server, _ := setupServer(t, Options{})

	if resp := doJSON(t, http.MethodGet, server.URL+"/health", "", nil); resp.StatusCode != http.StatusOK {
		t.Fatalf("health: %d", resp.StatusCode)
	}
	if resp := doJSON(t, http.MethodGet, server.URL+"/ready", "", nil); resp.StatusCode != http.StatusOK {
		t.Fatalf("ready: %d", resp.StatusCode)
	}

	down, _ := setupServer(t, Options{Ready: func(context.Context) error { return context.DeadlineExceeded }})
	expectError(t, doJSON(t, http.MethodGet, down.URL+"/ready", "", nil), http.StatusServiceUnavailable, "storage_unavailable")
}

func TestAuthFlow(t *testing.T) {
	server, _ := setupServer(t, Options{})

	register(t, server.URL, "alice")
	expectError(t,
		doJSON(t, http.MethodPost, server.URL+"/api/v1/auth/register", "", authRequest{Handle: "alice", Password: "x"}),
		http.StatusConflict, "handle_taken")
	expectError(t,
		doJSON(t, http.MethodPost, server.URL+"/api/v1/auth/register", "", authRequest{Handle: "al", Password: "x"}),
		http.StatusBadRequest, "invalid_handle")

	resp := doJSON(t, http.MethodPost, server.URL+"/api/v1/auth/login", "", authRequest{Handle: "alice", Password: "pass123"})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login: %d", resp.StatusCode)
	}
	expectError(t,
		doJSON(t, http.MethodPost, server.URL+"/api/v1/auth/login", "", authRequest{Handle: "alice", Password: "wrong"}),
		http.StatusUnauthorized, "invalid_credentials")

	expectError(t, doJSON(t, http.MethodGet, server.URL+"/api/v1/poll", "", nil), http.StatusUnauthorized, "missing_token")
	expectError(t, doJSON(t, http.MethodGet, server.URL+"/api/v1/poll", "garbage", nil), http.StatusUnauthorized, "invalid_token")
}

func TestPollLifecycle(t *testing.T) {
	server, clock := setupServer(t, Options{VotesPerMinute: 600, VoteBurst: 100})
	api := server.URL + "/api/v1/poll"

	ownerToken := login(t, server.URL, testOwner, testOwnerPassword)
	alice := register(t, server.URL, "alice")
	bob := register(t, server.URL, "bob")

	var status statusResponse
	resp := doJSON(t, http.MethodGet, api+"/status", alice, nil)
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil || status.Status != poll.StatusNotStarted {
		t.Fatalf("initial status %v %v", status.Status, err)
	}
	expectError(t, doJSON(t, http.MethodGet, api+"/tally?candidate=Matrix", alice, nil), http.StatusConflict, "poll_not_started")
	expectError(t, doJSON(t, http.MethodPost, api+"/vote", alice, voteRequest{Candidate: "Matrix"}), http.StatusConflict, "poll_not_active")

	start := startPollRequest{Candidates: []string{"Matrix", "Batman"}, DurationSeconds: 10}
	expectError(t, doJSON(t, http.MethodPost, api+"/start", alice, start), http.StatusForbidden, "not_owner")
	expectError(t,
		doJSON(t, http.MethodPost, api+"/start", ownerToken, startPollRequest{Candidates: nil, DurationSeconds: 10}),
		http.StatusBadRequest, "empty_candidate_list")

	resp = doJSON(t, http.MethodPost, api+"/start", ownerToken, start)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("start: %d", resp.StatusCode)
	}
	var started poll.Poll
	if err := json.NewDecoder(resp.Body).Decode(&started); err != nil {
		t.Fatal(err)
	}
	if started.Status != poll.StatusActive || started.ClosesAt == nil || !started.ClosesAt.Equal(clock.Now().Add(10*time.Second)) {
		t.Fatalf("unexpected started poll: %+v", started)
	}
	expectError(t, doJSON(t, http.MethodPost, api+"/start", ownerToken, start), http.StatusConflict, "poll_already_active")

	if resp := doJSON(t, http.MethodPost, api+"/vote", alice, voteRequest{Candidate: "Matrix"}); resp.StatusCode != http.StatusNoContent {
		t.Fatalf("alice vote: %d", resp.StatusCode)
	}
	if resp := doJSON(t, http.MethodPost, api+"/vote", bob, voteRequest{Candidate: "Batman"}); resp.StatusCode != http.StatusNoContent {
		t.Fatalf("bob vote: %d", resp.StatusCode)
	}
	expectError(t, doJSON(t, http.MethodPost, api+"/vote", alice, voteRequest{Candidate: "Batman"}), http.StatusConflict, "already_voted")
	expectError(t, doJSON(t, http.MethodPost, api+"/vote", ownerToken, voteRequest{Candidate: "Alien"}), http.StatusBadRequest, "invalid_candidate")
	expectError(t, doJSON(t, http.MethodPost, api+"/revote", ownerToken, voteRequest{Candidate: "Matrix"}), http.StatusConflict, "has_not_voted")

	if resp := doJSON(t, http.MethodPost, api+"/revote", bob, voteRequest{Candidate: "Matrix"}); resp.StatusCode != http.StatusNoContent {
		t.Fatalf("bob revote: %d", resp.StatusCode)
	}

	var tally tallyResponse
	resp = doJSON(t, http.MethodGet, api+"/tally?candidate=Matrix", alice, nil)
	if err := json.NewDecoder(resp.Body).Decode(&tally); err != nil || tally.Votes != 2 {
		t.Fatalf("matrix tally %+v %v", tally, err)
	}
	expectError(t, doJSON(t, http.MethodGet, api+"/tally?candidate=Alien", alice, nil), http.StatusBadRequest, "invalid_candidate")

	var ballot poll.Ballot
	resp = doJSON(t, http.MethodGet, api+"/ballot", bob, nil)
	if err := json.NewDecoder(resp.Body).Decode(&ballot); err != nil || !ballot.HasVoted || ballot.Candidate != "Matrix" {
		t.Fatalf("bob ballot %+v %v", ballot, err)
	}

	expectError(t, doJSON(t, http.MethodGet, api+"/winner", alice, nil), http.StatusConflict, "poll_not_ended")
	expectError(t, doJSON(t, http.MethodPost, api+"/end", ownerToken, nil), http.StatusConflict, "voting_period_open")

	clock.advance(10 * time.Second)
	expectError(t, doJSON(t, http.MethodPost, api+"/end", alice, nil), http.StatusForbidden, "not_owner")
	resp = doJSON(t, http.MethodPost, api+"/end", ownerToken, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("end: %d", resp.StatusCode)
	}
	expectError(t, doJSON(t, http.MethodPost, api+"/end", ownerToken, nil), http.StatusConflict, "poll_already_ended")

	var winner winnerResponse
	resp = doJSON(t, http.MethodGet, api+"/winner", bob, nil)
	if err := json.NewDecoder(resp.Body).Decode(&winner); err != nil || winner.Winner != "Matrix" {
		t.Fatalf("winner %+v %v", winner, err)
	}

	var owner ownerResponse
	resp = doJSON(t, http.MethodGet, api+"/owner", bob, nil)
	if err := json.NewDecoder(resp.Body).Decode(&owner); err != nil || owner.Owner != testOwner {
		t.Fatalf("owner %+v %v", owner, err)
	}

	resp = doJSON(t, http.MethodPost, api+"/start", ownerToken, startPollRequest{Candidates: []string{"Alien"}, DurationSeconds: 5})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("restart after end: %d", resp.StatusCode)
	}
	resp = doJSON(t, http.MethodGet, api+"/ballot", bob, nil)
	if err := json.NewDecoder(resp.Body).Decode(&ballot); err != nil || ballot.HasVoted {
		t.Fatalf("ballots should reset on a new poll: %+v %v", ballot, err)
	}
}

func TestVoteRateLimitPerParticipant(t *testing.T) {
	server, _ := setupServer(t, Options{VotesPerMinute: 1, VoteBurst: 1})
	api := server.URL + "/api/v1/poll"

	alice := register(t, server.URL, "alice")
	bob := register(t, server.URL, "bob")

	expectError(t, doJSON(t, http.MethodPost, api+"/vote", alice, voteRequest{Candidate: "A"}), http.StatusConflict, "poll_not_active")
	expectError(t, doJSON(t, http.MethodPost, api+"/vote", alice, voteRequest{Candidate: "A"}), http.StatusTooManyRequests, "rate_limited")

	// each participant has a separate bucket
	expectError(t, doJSON(t, http.MethodPost, api+"/revote", bob, voteRequest{Candidate: "A"}), http.StatusConflict, "poll_not_active")
}

func TestOwnerHandleIsReserved(t *testing.T) {
	server, _ := setupServer(t, Options{})
	api := server.URL + "/api/v1"

	expectError(t,
		doJSON(t, http.MethodPost, api+"/auth/register", "", authRequest{Handle: testOwner, Password: "stranger"}),
		http.StatusForbidden, "handle_reserved")
	expectError(t,
		doJSON(t, http.MethodPost, api+"/auth/login", "", authRequest{Handle: testOwner, Password: "stranger"}),
		http.StatusUnauthorized, "invalid_credentials")

	ownerToken := login(t, server.URL, testOwner, testOwnerPassword)
	start := startPollRequest{Candidates: []string{"Matrix", "Batman"}, DurationSeconds: 10}
	if resp := doJSON(t, http.MethodPost, api+"/poll/start", ownerToken, start); resp.StatusCode != http.StatusCreated {
		t.Fatalf("seeded owner start: %d", resp.StatusCode)
	}
}
