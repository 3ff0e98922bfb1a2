package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strings"
	"time"

	"pinkas/model"
)

const (
	sessionsPath   = "/api/ai-chat/sessions"
	streamPath     = "/api/ai-chat/stream"
	transcribePath = "/api/ai-chat/transcribe"
	executePath    = "/api/ai-actions/execute"
)

// Client talks to the dashboard backend: session persistence, the chat
// stream, action execution and audio transcription. It implements
// model.Backend.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

// NewClient validates the base URL and builds a client. The shared
// http.Client carries a request timeout; the chat stream uses its own
// client because streams outlive any sane request timeout.
func NewClient(baseURL, token string) (*Client, error) {
	if baseURL == "" {
		return nil, errors.New("api base URL is required")
	}
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid API URL: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, fmt.Errorf("invalid API URL scheme %q", parsed.Scheme)
	}

	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		http: &http.Client{
			Timeout: 10 * time.Second,
		},
	}, nil
}

// LatestSession fetches the most recent session for the business along
// with its persisted messages. Returns nil when no session exists yet.
func (c *Client) LatestSession(ctx context.Context, businessID string) (*model.SessionHistory, error) {
	path := sessionsPath
	if businessID != "" {
		path += "?businessId=" + url.QueryEscape(businessID)
	}

	var resp sessionsResponse
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &resp); err != nil {
		if apiErr := asAPIError(err); apiErr != nil && apiErr.StatusCode == http.StatusNotFound {
			return nil, nil
		}
		return nil, err
	}
	if resp.Session == nil {
		return nil, nil
	}

	history := &model.SessionHistory{
		SessionID: resp.Session.ID,
		Title:     resp.Session.Title,
	}
	for _, msg := range resp.Messages {
		history.Messages = append(history.Messages, model.PersistedMessage{
			ID:        msg.ID,
			Role:      msg.Role,
			Content:   msg.Content,
			ChartData: msg.ChartData,
			Timestamp: msg.Timestamp,
		})
	}
	return history, nil
}

// CreateSession creates a session for the business and returns its id.
func (c *Client) CreateSession(ctx context.Context, businessID string) (string, error) {
	var resp createSessionResponse
	req := createSessionRequest{BusinessID: businessID}
	if err := c.doJSON(ctx, http.MethodPost, sessionsPath, req, &resp); err != nil {
		return "", err
	}
	if resp.ID == "" {
		return "", errors.New("session create returned no id")
	}
	return resp.ID, nil
}

// DeleteSession removes a session server-side.
func (c *Client) DeleteSession(ctx context.Context, sessionID string) error {
	if strings.TrimSpace(sessionID) == "" {
		return errors.New("session id is required")
	}
	return c.doJSON(ctx, http.MethodDelete, sessionsPath+"/"+url.PathEscape(sessionID), nil, nil)
}

// SearchHistory runs the server-side full-history search.
func (c *Client) SearchHistory(ctx context.Context, query string) ([]model.SearchHit, error) {
	var resp searchResponse
	if err := c.doJSON(ctx, http.MethodPatch, sessionsPath, searchRequest{Query: query}, &resp); err != nil {
		return nil, err
	}

	hits := make([]model.SearchHit, 0, len(resp.Results))
	for _, r := range resp.Results {
		hits = append(hits, model.SearchHit{
			ID:           r.ID,
			SessionID:    r.SessionID,
			SessionTitle: r.SessionTitle,
			SessionDate:  r.SessionDate,
			Role:         r.Role,
			Snippet:      r.Snippet,
			Timestamp:    r.Timestamp,
		})
	}
	return hits, nil
}

// ExecuteAction submits a confirmed action payload. A non-2xx response
// with a decodable error body is a server verdict, not a transport
// failure: it comes back as an unsuccessful ActionResult carrying the
// server's message so the card can display it.
func (c *Client) ExecuteAction(ctx context.Context, payload map[string]any) (*model.ActionResult, error) {
	var resp executeResponse
	if err := c.doJSON(ctx, http.MethodPost, executePath, payload, &resp); err != nil {
		if apiErr := asAPIError(err); apiErr != nil {
			return &model.ActionResult{Success: false, Error: apiErr.Message}, nil
		}
		return nil, err
	}
	return &model.ActionResult{
		Success: resp.Success,
		Message: resp.Message,
		Error:   resp.Error,
	}, nil
}

// Transcribe uploads recorded audio as multipart form data and returns
// the transcribed text.
func (c *Client) Transcribe(ctx context.Context, audio []byte, mimeType string) (string, error) {
	if len(audio) == 0 {
		return "", errors.New("audio is empty")
	}

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", `form-data; name="audio"; filename="recording`+audioExtension(mimeType)+`"`)
	header.Set("Content-Type", mimeType)
	part, err := writer.CreatePart(header)
	if err != nil {
		return "", err
	}
	if _, err := part.Write(audio); err != nil {
		return "", err
	}
	if err := writer.Close(); err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+transcribePath, &buf)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	c.setAuth(req)

	// Whisper round-trips take longer than ordinary JSON calls.
	httpClient := &http.Client{
		Timeout:   60 * time.Second,
		Transport: c.http.Transport,
	}
	resp, err := httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", decodeAPIError(resp)
	}
	var out transcribeResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", err
	}
	return out.Text, nil
}

func (c *Client) doJSON(ctx context.Context, method, path string, body any, out any) error {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	c.setAuth(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return decodeAPIError(resp)
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func (c *Client) setAuth(req *http.Request) {
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
}

func decodeAPIError(resp *http.Response) error {
	type errorPayload struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	var payload errorPayload
	_ = json.NewDecoder(resp.Body).Decode(&payload)
	if payload.Error != "" {
		return &APIError{StatusCode: resp.StatusCode, Message: payload.Error}
	}
	if payload.Message != "" {
		return &APIError{StatusCode: resp.StatusCode, Message: payload.Message}
	}
	return &APIError{StatusCode: resp.StatusCode, Message: resp.Status}
}

// APIError is a non-2xx response from the backend.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("api error (%d): %s", e.StatusCode, e.Message)
}

func asAPIError(err error) *APIError {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr
	}
	return nil
}

func audioExtension(mimeType string) string {
	switch mimeType {
	case "audio/mpeg":
		return ".mp3"
	case "audio/mp4":
		return ".m4a"
	case "audio/ogg":
		return ".ogg"
	case "audio/webm":
		return ".webm"
	case "audio/flac":
		return ".flac"
	default:
		return ".wav"
	}
}
