// Package swapsouq provides a client for the SwapSouq messaging API.
package swapsouq

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// Client is a SwapSouq messaging API client. UserID is sent as the
// X-Souq-User identity header on viewer endpoints.
type Client struct {
	BaseURL    string
	UserID     string
	HTTPClient *http.Client
}

// NewClient creates a new client. userID may be empty for public endpoints.
func NewClient(baseURL, userID string) *Client {
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}
	return &Client{
		BaseURL:    baseURL,
		UserID:     userID,
		HTTPClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// doRequest performs an HTTP request, attaching the identity header when
// the client has a user ID.
func (c *Client) doRequest(method, path string, body []byte) ([]byte, error) {
	req, err := http.NewRequest(method, c.BaseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}

	req.Header.Set("Content-Type", "application/json")
	if c.UserID != "" {
		req.Header.Set("X-Souq-User", c.UserID)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode >= 400 {
		var errResp struct {
			Error string `json:"error"`
		}
		json.Unmarshal(respBody, &errResp)
		return nil, fmt.Errorf("swapsouq error %d: %s", resp.StatusCode, errResp.Error)
	}

	return respBody, nil
}

// Message represents a chat message.
type Message struct {
	ID         string `json:"id"`
	SenderID   string `json:"sender_id"`
	ReceiverID string `json:"receiver_id"`
	ListingID  string `json:"listing_id"`
	Type       string `json:"type"`
	Content    string `json:"content"`
	Timestamp  int64  `json:"ts"`
	Read       bool   `json:"read"`
}

// Partner represents the other side of a conversation.
type Partner struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	AvatarURL string `json:"avatar_url,omitempty"`
}

// Listing represents the listing a conversation is about.
type Listing struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Status string `json:"status"`
}

// InboxRow is one conversation in the inbox.
type InboxRow struct {
	Partner     Partner `json:"partner"`
	Listing     Listing `json:"listing"`
	LastMessage Message `json:"last_message"`
	Unread      int     `json:"unread"`
}

// InboxResponse is the response from the inbox endpoint.
type InboxResponse struct {
	Conversations []InboxRow `json:"conversations"`
	Count         int        `json:"count"`
}

// Inbox retrieves the viewer's conversation list, newest activity first.
func (c *Client) Inbox() (*InboxResponse, error) {
	respBody, err := c.doRequest("GET", "/inbox", nil)
	if err != nil {
		return nil, err
	}

	var resp InboxResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ConversationResponse is the response from opening a conversation.
type ConversationResponse struct {
	Partner  Partner   `json:"partner"`
	Listing  Listing   `json:"listing"`
	Messages []Message `json:"messages"`
	Count    int       `json:"count"`
}

// Conversation opens the conversation with a partner about a listing.
// Opening marks the partner's messages as read.
func (c *Client) Conversation(partnerID, listingID string) (*ConversationResponse, error) {
	path := fmt.Sprintf("/conversations/%s/%s", partnerID, listingID)
	respBody, err := c.doRequest("GET", path, nil)
	if err != nil {
		return nil, err
	}

	var resp ConversationResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// sendMessageRequest is the request body for sending a message.
type sendMessageRequest struct {
	Type    string `json:"type"`
	Content string `json:"content"`
}

// send posts one message into a conversation.
func (c *Client) send(partnerID, listingID, msgType, content string) (*Message, error) {
	reqBody, _ := json.Marshal(sendMessageRequest{Type: msgType, Content: content})

	path := fmt.Sprintf("/conversations/%s/%s/messages", partnerID, listingID)
	respBody, err := c.doRequest("POST", path, reqBody)
	if err != nil {
		return nil, err
	}

	var msg Message
	if err := json.Unmarshal(respBody, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

// SendText sends a text message.
func (c *Client) SendText(partnerID, listingID, body string) (*Message, error) {
	return c.send(partnerID, listingID, "text", body)
}

// SendImage sends an image attachment. mimeType must be an image/* type.
func (c *Client) SendImage(partnerID, listingID, mimeType string, payload []byte) (*Message, error) {
	return c.send(partnerID, listingID, "image", dataURL(mimeType, payload))
}

// SendAudio sends a voice message. mimeType must be an audio/* type (or
// video/webm for Opus-in-WebM recordings).
func (c *Client) SendAudio(partnerID, listingID, mimeType string, payload []byte) (*Message, error) {
	return c.send(partnerID, listingID, "audio", dataURL(mimeType, payload))
}

// dataURL encodes a payload as a base64 data URL, the wire format the
// server accepts media in.
func dataURL(mimeType string, payload []byte) string {
	return "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(payload)
}

// UnreadResponse is the response from the unread-count endpoint.
type UnreadResponse struct {
	Unread int  `json:"unread"`
	Cached bool `json:"cached"`
}

// Unread retrieves the viewer's total unread message count.
func (c *Client) Unread() (*UnreadResponse, error) {
	respBody, err := c.doRequest("GET", "/unread", nil)
	if err != nil {
		return nil, err
	}

	var resp UnreadResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// FindResult represents a search result.
type FindResult struct {
	ID        string `json:"id"`
	ListingID string `json:"listing_id"`
	SenderID  string `json:"sender_id"`
	Body      string `json:"body"`
	Timestamp int64  `json:"ts"`
}

// FindResponse is the response from searching messages.
type FindResponse struct {
	Query   string       `json:"query"`
	Results []FindResult `json:"results"`
	Total   int          `json:"total"`
}

// Find searches the viewer's text messages. listingID optionally scopes
// the search to one listing.
func (c *Client) Find(query string, limit int, listingID string) (*FindResponse, error) {
	path := fmt.Sprintf("/find?q=%s&limit=%d", url.QueryEscape(query), limit)
	if listingID != "" {
		path += "&listing=" + listingID
	}

	respBody, err := c.doRequest("GET", path, nil)
	if err != nil {
		return nil, err
	}

	var resp FindResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// User represents a marketplace member.
type User struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	AvatarURL   string `json:"avatar_url,omitempty"`
	Governorate string `json:"governorate,omitempty"`
	Status      string `json:"status"`
}

// GetUser retrieves a user's public profile.
func (c *Client) GetUser(id string) (*User, error) {
	respBody, err := c.doRequest("GET", "/users/"+id, nil)
	if err != nil {
		return nil, err
	}

	var user User
	if err := json.Unmarshal(respBody, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// CreateUserRequest is the request body for creating a user record.
type CreateUserRequest struct {
	Name        string `json:"name"`
	AvatarURL   string `json:"avatar_url,omitempty"`
	Governorate string `json:"governorate,omitempty"`
}

// CreateUser creates a user record (seeding and local development).
func (c *Client) CreateUser(name string) (*User, error) {
	reqBody, _ := json.Marshal(CreateUserRequest{Name: name})

	respBody, err := c.doRequest("POST", "/users", reqBody)
	if err != nil {
		return nil, err
	}

	var user User
	if err := json.Unmarshal(respBody, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// StatsResponse is the response from the stats endpoint.
type StatsResponse struct {
	TotalUsers    int64 `json:"total_users"`
	TotalListings int64 `json:"total_listings"`
	TotalMessages int64 `json:"total_messages"`
}

// Stats retrieves aggregate platform counts.
func (c *Client) Stats() (*StatsResponse, error) {
	respBody, err := c.doRequest("GET", "/stats", nil)
	if err != nil {
		return nil, err
	}

	var resp StatsResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// HealthResponse is the response from the health endpoint.
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

// Health checks service health.
func (c *Client) Health() (*HealthResponse, error) {
	respBody, err := c.doRequest("GET", "/health", nil)
	if err != nil {
		return nil, err
	}

	var resp HealthResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
