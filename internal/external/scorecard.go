// Package external provides the client for the scorecard vision service.
// The service looks at a scorecard photo and proposes per-frame ball
// values. Its output is untrusted: it is only ever returned to the caller
// as a draft submission, in the same shape as hand-entered scores, and
// must pass the same validation before settlement will touch it. It never
// participates in a settlement transaction.
package external

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/strikebook/strikebook/internal/league"
)

const scorecardTimeout = 30 * time.Second

// ScorecardReader calls the vision endpoint that drafts frame values from
// a scorecard image.
type ScorecardReader struct {
	baseURL    string // empty = not configured
	apiKey     string
	httpClient *http.Client
}

// NewScorecardReader creates a reader client. baseURL may be empty.
func NewScorecardReader(baseURL, apiKey string) *ScorecardReader {
	return &ScorecardReader{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: scorecardTimeout,
		},
	}
}

// Configured reports whether a vision endpoint is set up.
func (s *ScorecardReader) Configured() bool { return s.baseURL != "" }

// Status returns service configuration status.
func (s *ScorecardReader) Status() map[string]interface{} {
	return map[string]interface{}{
		"configured": s.Configured(),
		"role":       "proposes frame values only; every proposal is re-validated like user input",
	}
}

// Proposal is the reader's draft: an ordinary score submission plus the
// reader's own confidence, for the caller to review before submitting.
type Proposal struct {
	Submission league.ScoreSubmission `json:"submission"`
	Confidence float64                `json:"confidence"`
	Warnings   []string               `json:"warnings,omitempty"`
}

// Read sends a scorecard image and returns the proposed submission. A
// proposal that fails validation comes back anyway, with the validation
// error appended to its warnings — the caller decides what to correct.
func (s *ScorecardReader) Read(ctx context.Context, gameNumber int, image io.Reader, filename string) (*Proposal, error) {
	if !s.Configured() {
		return nil, fmt.Errorf("scorecard reader not configured")
	}

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("scorecard", filename)
	if err != nil {
		return nil, fmt.Errorf("build scorecard form: %w", err)
	}
	if _, err := io.Copy(part, image); err != nil {
		return nil, fmt.Errorf("copy scorecard image: %w", err)
	}
	if err := mw.WriteField("gameNumber", fmt.Sprintf("%d", gameNumber)); err != nil {
		return nil, fmt.Errorf("write gameNumber field: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("close scorecard form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/v1/read", &body)
	if err != nil {
		return nil, fmt.Errorf("build scorecard request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	if s.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+s.apiKey)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call scorecard reader: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("scorecard reader returned %d: %s", resp.StatusCode, string(b))
	}

	var p Proposal
	if err := json.NewDecoder(resp.Body).Decode(&p); err != nil {
		return nil, fmt.Errorf("decode scorecard proposal: %w", err)
	}
	p.Submission.GameNumber = gameNumber

	if err := league.ValidateSubmission(p.Submission); err != nil {
		p.Warnings = append(p.Warnings, fmt.Sprintf("proposal fails validation: %v", err))
	}
	return &p, nil
}
