// Package api is a client for the halfdigit REST API that backs the site's forms.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"

	"github.com/abhayas/halfdigit-web/internal/failure"
)

const DefaultBaseURL = "https://halfdigit-api.onrender.com"

const (
	contactPath = "/contact"
	predictPath = "/predict-titanic"
	speechPath  = "/speech-to-text"
	visitPath   = "/log-visit"

	// AudioField is the multipart field name the transcription endpoint reads.
	AudioField = "audio"

	maxErrorBody = 64 << 10
)

// Doer sends HTTP requests. *http.Client satisfies it.
type Doer interface {
	Do(*http.Request) (*http.Response, error)
}

// Client talks to the halfdigit API. It never retries and sets no timeout of
// its own; the caller's context and the Doer decide how long to wait.
type Client struct {
	baseURL string
	http    Doer
}

// NewClient returns a client for baseURL. A nil doer means http.DefaultClient.
func NewClient(baseURL string, doer Doer) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if doer == nil {
		doer = http.DefaultClient
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    doer,
	}
}

// BaseURL returns the API root the client posts to.
func (c *Client) BaseURL() string { return c.baseURL }

// Contact forwards a contact form message. Any 2xx counts as delivered.
func (c *Client) Contact(ctx context.Context, req ContactRequest) (Ack, int, error) {
	status, err := c.postJSON(ctx, contactPath, req, nil)
	return Ack{}, status, err
}

// PredictTitanic asks the survival model for a prediction.
func (c *Client) PredictTitanic(ctx context.Context, req TitanicRequest) (Prediction, int, error) {
	var out Prediction
	status, err := c.postJSON(ctx, predictPath, req, &out)
	return out, status, err
}

// Transcribe uploads an audio file for speech-to-text.
func (c *Client) Transcribe(ctx context.Context, upload AudioUpload) (Transcript, int, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, AudioField, upload.Filename))
	contentType := upload.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	h.Set("Content-Type", contentType)

	part, err := mw.CreatePart(h)
	if err != nil {
		return Transcript{}, 0, fmt.Errorf("create audio part: %w", err)
	}
	if _, err := part.Write(upload.Data); err != nil {
		return Transcript{}, 0, fmt.Errorf("write audio part: %w", err)
	}
	if err := mw.Close(); err != nil {
		return Transcript{}, 0, fmt.Errorf("close multipart body: %w", err)
	}

	var out Transcript
	status, err := c.post(ctx, speechPath, mw.FormDataContentType(), &buf, &out)
	return out, status, err
}

// LogVisit sends the page view beacon.
func (c *Client) LogVisit(ctx context.Context, req VisitRequest) error {
	_, err := c.postJSON(ctx, visitPath, req, nil)
	return err
}

func (c *Client) postJSON(ctx context.Context, path string, in, out any) (int, error) {
	body, err := json.Marshal(in)
	if err != nil {
		return 0, fmt.Errorf("encode %s request: %w", path, err)
	}
	return c.post(ctx, path, "application/json", bytes.NewReader(body), out)
}

// post sends one request and decodes a 2xx body into out when out is non-nil.
// Non-2xx responses become *failure.Server, network errors *failure.Transport.
func (c *Client) post(ctx context.Context, path, contentType string, body io.Reader, out any) (int, error) {
	op := http.MethodPost + " " + path

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, body)
	if err != nil {
		return 0, fmt.Errorf("build %s: %w", op, err)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, &failure.Transport{Op: op, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return resp.StatusCode, &failure.Server{
			StatusCode: resp.StatusCode,
			Message:    readErrorMessage(resp.Body),
		}
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return resp.StatusCode, nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return resp.StatusCode, fmt.Errorf("decode %s response: %w", op, err)
	}
	return resp.StatusCode, nil
}

func readErrorMessage(r io.Reader) string {
	raw, err := io.ReadAll(io.LimitReader(r, maxErrorBody))
	if err != nil || len(raw) == 0 {
		return ""
	}
	var eb errorBody
	if err := json.Unmarshal(raw, &eb); err != nil {
		return ""
	}
	return strings.TrimSpace(eb.Error)
}
