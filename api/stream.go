package api

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"pinkas/config"
	"pinkas/model"
)

// doneSentinel terminates the event stream.
const doneSentinel = "[DONE]"

// ChatStream opens the streaming chat request and feeds each parsed part
// event to the callback. The call blocks until the stream finishes, the
// callback aborts it, or ctx is cancelled; cancelling ctx is the abort
// path and surfaces as ctx.Err().
func (c *Client) ChatStream(ctx context.Context, chatReq model.ChatRequest, callback model.StreamCallback) error {
	buf, err := json.Marshal(chatReq)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+streamPath, bytes.NewReader(buf))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "text/event-stream")
	c.setAuth(req)

	// No Timeout here: the shared client's deadline would kill a healthy
	// stream mid-answer.
	httpClient := &http.Client{Transport: c.http.Transport}
	resp, err := httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return decodeAPIError(resp)
	}

	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	var dataLines []string

	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			if len(dataLines) == 0 {
				continue
			}
			payload := strings.Join(dataLines, "\n")
			dataLines = dataLines[:0]

			if payload == doneSentinel {
				return nil
			}
			var event model.StreamEvent
			if err := json.Unmarshal([]byte(payload), &event); err != nil {
				if config.DebugLog != nil {
					config.DebugLog.Printf("[stream] skipping malformed frame: %v", err)
				}
				continue
			}
			if err := callback(event); err != nil {
				return err
			}
			continue
		}
		if strings.HasPrefix(line, "data:") {
			dataLines = append(dataLines, strings.TrimSpace(line[len("data:"):]))
		}
	}

	if err := scanner.Err(); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("stream read: %w", err)
	}
	return nil
}
