package transcribe

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/time/rate"

	"github.com/dgnsrekt/readaloud/timing"
)

// RemoteConfig configures a remote whisper-server client.
type RemoteConfig struct {
	BaseURL string
	Token   string // optional, sent as Bearer
	Model   string // default "small"
	Timeout time.Duration
	Retries int

	// RequestsPerMinute paces requests against shared servers. Zero
	// disables pacing.
	RequestsPerMinute int
}

// Remote is a Backend that calls a whisper-server HTTP API.
type Remote struct {
	cfg         RemoteConfig
	client      *http.Client
	limiter     *rate.Limiter
	backoffBase time.Duration
}

// NewRemote creates a remote transcription client.
func NewRemote(cfg RemoteConfig) *Remote {
	if cfg.Model == "" {
		cfg.Model = "small"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 120 * time.Second
	}
	if cfg.Retries <= 0 {
		cfg.Retries = 3
	}

	limiter := rate.NewLimiter(rate.Inf, 1)
	if cfg.RequestsPerMinute > 0 {
		limiter = rate.NewLimiter(rate.Limit(float64(cfg.RequestsPerMinute)/60.0), 1)
	}

	return &Remote{
		cfg:         cfg,
		client:      &http.Client{Timeout: cfg.Timeout},
		limiter:     limiter,
		backoffBase: time.Second,
	}
}

// Name returns the backend identifier.
func (r *Remote) Name() string { return "remote_whisper" }

// transcribeResponse mirrors the whisper-server JSON shape. Word timestamps
// are pointers: the server omits them for words it could not place.
type transcribeResponse struct {
	Segments []struct {
		Text  string  `json:"text"`
		Start float64 `json:"start"`
		End   float64 `json:"end"`
		Words []struct {
			Word  string   `json:"word"`
			Start *float64 `json:"start"`
			End   *float64 `json:"end"`
			Score *float64 `json:"score"`
		} `json:"words"`
	} `json:"segments"`
	Language string  `json:"language"`
	Duration float64 `json:"duration"`
	Model    string  `json:"model"`
}

// Transcribe posts the audio and retries transient failures with jittered
// backoff.
func (r *Remote) Transcribe(ctx context.Context, wav []byte) (*Result, error) {
	var lastErr error
	for attempt := 0; attempt <= r.cfg.Retries; attempt++ {
		if attempt > 0 {
			backoff := r.backoff(attempt)
			log.Debug("retrying transcription", "attempt", attempt, "backoff", backoff)
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		if err := r.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		result, err := r.doTranscribe(ctx, wav)
		if err == nil {
			return result, nil
		}
		if !isRetryable(err) {
			return nil, fmt.Errorf("transcribe: %w", err)
		}
		lastErr = err
	}

	return nil, fmt.Errorf("transcribe: %d retries exhausted: %w", r.cfg.Retries, lastErr)
}

// doTranscribe performs a single multipart POST to /v1/transcribe.
func (r *Remote) doTranscribe(ctx context.Context, wav []byte) (*Result, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile("file", "audio.wav")
	if err != nil {
		return nil, fmt.Errorf("create form file: %w", err)
	}
	if _, err := part.Write(wav); err != nil {
		return nil, fmt.Errorf("write audio data: %w", err)
	}
	_ = writer.WriteField("model", r.cfg.Model)
	_ = writer.WriteField("timestamps", "true")
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("close multipart: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.cfg.BaseURL+"/v1/transcribe", &body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	if r.cfg.Token != "" {
		req.Header.Set("Authorization", "Bearer "+r.cfg.Token)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, &retryableError{err: fmt.Errorf("http request: %w", err)}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &retryableError{err: fmt.Errorf("read response body: %w", err)}
	}

	if resp.StatusCode >= 500 {
		return nil, &retryableError{err: fmt.Errorf("server error %d: %s", resp.StatusCode, truncate(respBody, 200))}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("http %d: %s", resp.StatusCode, truncate(respBody, 200))
	}

	var parsed transcribeResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	segments := make([]timing.Segment, len(parsed.Segments))
	for i, s := range parsed.Segments {
		seg := timing.Segment{
			Text:  s.Text,
			Start: s.Start,
			End:   s.End,
			Words: make([]timing.SegmentWord, len(s.Words)),
		}
		for j, w := range s.Words {
			seg.Words[j] = timing.SegmentWord{
				Word:  w.Word,
				Start: w.Start,
				End:   w.End,
				Score: w.Score,
			}
		}
		segments[i] = seg
	}

	return &Result{
		Segments: segments,
		Language: parsed.Language,
		Duration: parsed.Duration,
		Model:    parsed.Model,
	}, nil
}

// HealthCheck queries /v1/health.
func (r *Remote) HealthCheck(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.cfg.BaseURL+"/v1/health", nil)
	if err != nil {
		return fmt.Errorf("create health request: %w", err)
	}
	if r.cfg.Token != "" {
		req.Header.Set("Authorization", "Bearer "+r.cfg.Token)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: http %d", ErrUnavailable, resp.StatusCode)
	}
	return nil
}

func (r *Remote) backoff(attempt int) time.Duration {
	d := r.backoffBase << (attempt - 1)
	jitter := time.Duration(rand.Int63n(int64(d) / 2))
	return d + jitter
}

type retryableError struct{ err error }

func (e *retryableError) Error() string { return e.err.Error() }
func (e *retryableError) Unwrap() error { return e.err }

func isRetryable(err error) bool {
	var re *retryableError
	return errors.As(err, &re)
}

func truncate(b []byte, n int) string {
	if len(b) > n {
		return string(b[:n]) + "..."
	}
	return string(b)
}
