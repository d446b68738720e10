// Package challenge verifies bot-challenge tokens against reCAPTCHA.
package challenge

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/you/studiosvc/domain"
	"github.com/you/studiosvc/internal/logging"
)

const DefaultVerifyURL = "https://www.google.com/recaptcha/api/siteverify"

// Outcome labels recorded for each verification
const (
	OutcomeAccepted       = "accepted"
	OutcomeEmptyToken     = "empty_token"
	OutcomeRejected       = "rejected"
	OutcomeLowScore       = "low_score"
	OutcomeActionMismatch = "action_mismatch"
	OutcomeUnavailable    = "unavailable"
)

// Recorder receives verification outcomes
type Recorder interface {
	ObserveChallenge(action, outcome string)
}

// DefaultMinScore applies when Config.MinScore is nil
const DefaultMinScore = 0.5

type Config struct {
	Secret       string
	VerifyURL    string
	MinScore     *float64
	StrictAction bool
	Timeout      time.Duration
}

// Verifier implements domain.ChallengeVerifier
type Verifier struct {
	cfg      Config
	minScore float64
	client   *http.Client
	log      logging.Logger
	recorder Recorder
}

type Option func(*Verifier)

func WithHTTPClient(c *http.Client) Option {
	return func(v *Verifier) { v.client = c }
}

func WithRecorder(r Recorder) Option {
	return func(v *Verifier) { v.recorder = r }
}

// NewVerifier creates a reCAPTCHA verifier
func NewVerifier(cfg Config, log logging.Logger, opts ...Option) *Verifier {
	if cfg.VerifyURL == "" {
		cfg.VerifyURL = DefaultVerifyURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 5 * time.Second
	}
	v := &Verifier{
		cfg:      cfg,
		minScore: DefaultMinScore,
		client:   &http.Client{Timeout: cfg.Timeout},
		log:      log.With("component", "challenge"),
	}
	if cfg.MinScore != nil {
		v.minScore = *cfg.MinScore
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

var _ domain.ChallengeVerifier = (*Verifier)(nil)

// Verify implements domain.ChallengeVerifier. Any failure to reach or
// understand the upstream service counts as a rejection.
func (v *Verifier) Verify(ctx context.Context, token, expectedAction, remoteIP string) bool {
	if strings.TrimSpace(token) == "" {
		v.observe(expectedAction, OutcomeEmptyToken)
		return false
	}

	result, err := v.siteVerify(ctx, token, remoteIP)
	if err != nil {
		v.log.Error(ctx, "challenge verification unavailable", "action", expectedAction, "error", err)
		v.observe(expectedAction, OutcomeUnavailable)
		return false
	}

	if !result.Success {
		v.log.Info(ctx, "challenge rejected", "action", expectedAction, "error_codes", result.ErrorCodes)
		v.observe(expectedAction, OutcomeRejected)
		return false
	}
	if result.Score != nil && *result.Score < v.minScore {
		v.log.Info(ctx, "challenge score below threshold", "action", expectedAction, "score", *result.Score, "min_score", v.minScore)
		v.observe(expectedAction, OutcomeLowScore)
		return false
	}
	if expectedAction != "" && result.Action != "" && result.Action != expectedAction {
		v.log.Warn(ctx, "challenge action mismatch", "expected", expectedAction, "actual", result.Action, "strict", v.cfg.StrictAction)
		if v.cfg.StrictAction {
			v.observe(expectedAction, OutcomeActionMismatch)
			return false
		}
	}

	v.observe(expectedAction, OutcomeAccepted)
	return true
}

func (v *Verifier) siteVerify(ctx context.Context, token, remoteIP string) (*domain.ChallengeResult, error) {
	form := url.Values{}
	form.Set("secret", v.cfg.Secret)
	form.Set("response", token)
	if remoteIP != "" {
		form.Set("remoteip", remoteIP)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, v.cfg.VerifyURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := v.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("post siteverify: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("siteverify returned status %d", resp.StatusCode)
	}

	var result domain.ChallengeResult
	if err := json.NewDecoder(io.LimitReader(resp.Body, 64<<10)).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode siteverify response: %w", err)
	}
	return &result, nil
}

func (v *Verifier) observe(action, outcome string) {
	if v.recorder != nil {
		v.recorder.ObserveChallenge(action, outcome)
	}
}
