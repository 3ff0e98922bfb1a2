package api

import (
	"encoding/json"
	"time"
)

// Wire shapes for the dashboard endpoints. Field names follow the
// backend's camelCase JSON.

type sessionsResponse struct {
	Session  *sessionInfo `json:"session"`
	Messages []messageDTO `json:"messages"`
}

type sessionInfo struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

type messageDTO struct {
	ID        string          `json:"id"`
	Role      string          `json:"role"`
	Content   string          `json:"content"`
	ChartData json.RawMessage `json:"chartData,omitempty"`
	Timestamp time.Time       `json:"timestamp"`
}

type createSessionRequest struct {
	BusinessID string `json:"businessId"`
}

type createSessionResponse struct {
	ID string `json:"id"`
}

type searchRequest struct {
	Query string `json:"query"`
}

type searchResponse struct {
	Results []searchResultDTO `json:"results"`
}

type searchResultDTO struct {
	ID           string    `json:"id"`
	SessionID    string    `json:"sessionId"`
	SessionTitle string    `json:"sessionTitle"`
	SessionDate  string    `json:"sessionDate"`
	Role         string    `json:"role"`
	Snippet      string    `json:"snippet"`
	Timestamp    time.Time `json:"timestamp"`
}

type executeResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

type transcribeResponse struct {
	Text string `json:"text"`
}
