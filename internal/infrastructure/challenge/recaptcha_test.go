package challenge

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/you/studiosvc/internal/logging"
)

type recorded struct {
	action  string
	outcome string
}

type fakeRecorder struct{ calls []recorded }

func (f *fakeRecorder) ObserveChallenge(action, outcome string) {
	f.calls = append(f.calls, recorded{action, outcome})
}

func newServer(t *testing.T, status int, body string, hits *int32) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(hits, 1)
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "server-secret", r.PostForm.Get("secret"))
		assert.Equal(t, "client-token", r.PostForm.Get("response"))
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestVerifier_Verify(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		strict   bool
		action   string
		expected bool
		outcome  string
	}{
		{name: "success with high score", status: 200, body: `{"success":true,"score":0.9,"action":"login"}`, action: "login", expected: true, outcome: OutcomeAccepted},
		{name: "success without score", status: 200, body: `{"success":true}`, action: "login", expected: true, outcome: OutcomeAccepted},
		{name: "score at threshold", status: 200, body: `{"success":true,"score":0.5}`, action: "login", expected: true, outcome: OutcomeAccepted},
		{name: "score below threshold", status: 200, body: `{"success":true,"score":0.3}`, action: "login", expected: false, outcome: OutcomeLowScore},
		{name: "upstream rejects", status: 200, body: `{"success":false,"error-codes":["invalid-input-response"]}`, action: "login", expected: false, outcome: OutcomeRejected},
		{name: "action mismatch is advisory", status: 200, body: `{"success":true,"score":0.9,"action":"register"}`, action: "login", expected: true, outcome: OutcomeAccepted},
		{name: "action mismatch in strict mode", status: 200, body: `{"success":true,"score":0.9,"action":"register"}`, strict: true, action: "login", expected: false, outcome: OutcomeActionMismatch},
		{name: "non-200 fails closed", status: 502, body: `bad gateway`, action: "login", expected: false, outcome: OutcomeUnavailable},
		{name: "malformed body fails closed", status: 200, body: `{"success":`, action: "login", expected: false, outcome: OutcomeUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var hits int32
			srv := newServer(t, tt.status, tt.body, &hits)
			rec := &fakeRecorder{}
			v := NewVerifier(Config{Secret: "server-secret", VerifyURL: srv.URL, StrictAction: tt.strict}, logging.Nop(), WithRecorder(rec))

			got := v.Verify(context.Background(), "client-token", tt.action, "")
			assert.Equal(t, tt.expected, got)
			assert.Equal(t, int32(1), atomic.LoadInt32(&hits), "exactly one upstream call")
			require.Len(t, rec.calls, 1)
			assert.Equal(t, tt.outcome, rec.calls[0].outcome)
			assert.Equal(t, tt.action, rec.calls[0].action)
		})
	}
}

func TestVerifier_MinScore(t *testing.T) {
	zero, strict := 0.0, 0.8
	tests := []struct {
		name     string
		minScore *float64
		score    string
		expected bool
	}{
		{name: "default threshold", minScore: nil, score: "0.4", expected: false},
		{name: "zero accepts any score", minScore: &zero, score: "0.0", expected: true},
		{name: "raised threshold", minScore: &strict, score: "0.7", expected: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var hits int32
			srv := newServer(t, 200, `{"success":true,"score":`+tt.score+`}`, &hits)
			v := NewVerifier(Config{Secret: "s", VerifyURL: srv.URL, MinScore: tt.minScore}, logging.Nop())

			assert.Equal(t, tt.expected, v.Verify(context.Background(), "client-token", "login", ""))
		})
	}
}

func TestVerifier_EmptyTokenSkipsNetwork(t *testing.T) {
	var hits int32
	srv := newServer(t, 200, `{"success":true}`, &hits)
	rec := &fakeRecorder{}
	v := NewVerifier(Config{Secret: "server-secret", VerifyURL: srv.URL}, logging.Nop(), WithRecorder(rec))

	assert.False(t, v.Verify(context.Background(), "", "login", ""))
	assert.False(t, v.Verify(context.Background(), "   ", "login", ""))
	assert.Equal(t, int32(0), atomic.LoadInt32(&hits))
	require.Len(t, rec.calls, 2)
	assert.Equal(t, OutcomeEmptyToken, rec.calls[0].outcome)
}

func TestVerifier_UnreachableFailsClosed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	v := NewVerifier(Config{Secret: "s", VerifyURL: url, Timeout: time.Second}, logging.Nop())
	assert.False(t, v.Verify(context.Background(), "client-token", "login", ""))
}

func TestVerifier_SendsRemoteIP(t *testing.T) {
	var remoteIP string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = r.ParseForm()
		remoteIP = r.PostForm.Get("remoteip")
		_, _ = w.Write([]byte(`{"success":true}`))
	}))
	defer srv.Close()

	v := NewVerifier(Config{Secret: "s", VerifyURL: srv.URL}, logging.Nop(), WithHTTPClient(srv.Client()))
	require.True(t, v.Verify(context.Background(), "tok", "contact", "203.0.113.7"))
	assert.Equal(t, "203.0.113.7", remoteIP)
}
