// Package client is the Go client for a chathaven server: a small REST
// client for the command endpoints, plus the live-sync side — a Bridge
// that subscribes to the server's snapshot streams and a StateStore
// holding the projected view state.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/nived-m/chathaven/internal/models"
)

// Client is the REST client. All command operations go through it; live
// reads go through the Bridge instead.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// New creates a client. token may be empty for the public endpoints and
// can be set later via Authenticate.
func New(baseURL, token string) *Client {
	return &Client{
		baseURL: baseURL,
		token:   token,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Token returns the bearer token currently in use.
func (c *Client) Token() string { return c.token }

type envelope struct {
	Status string          `json:"status"`
	Data   json.RawMessage `json:"data,omitempty"`
	Error  string          `json:"error,omitempty"`
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	if resp.StatusCode >= 400 || env.Status == "error" {
		return &HTTPError{StatusCode: resp.StatusCode, Message: env.Error}
	}
	if out != nil && env.Data != nil {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("decode payload: %w", err)
		}
	}
	return nil
}

type createUserRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	DisplayName string `json:"displayName"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type tokenResponse struct {
	Token string `json:"token"`
}

// CreateUser registers a profile and stores the returned token on the
// client.
func (c *Client) CreateUser(ctx context.Context, email, password, displayName string) error {
	var tok tokenResponse
	err := c.do(ctx, http.MethodPost, "/api/createUser", createUserRequest{
		Email:       email,
		Password:    password,
		DisplayName: displayName,
	}, &tok)
	if err != nil {
		return fmt.Errorf("client.CreateUser: %w", err)
	}
	c.token = tok.Token
	return nil
}

// Authenticate logs in and stores the returned token on the client.
func (c *Client) Authenticate(ctx context.Context, email, password string) error {
	var tok tokenResponse
	err := c.do(ctx, http.MethodPost, "/api/login", loginRequest{Email: email, Password: password}, &tok)
	if err != nil {
		return fmt.Errorf("client.Authenticate: %w", err)
	}
	c.token = tok.Token
	return nil
}

type createChannelRequest struct {
	ChannelName string   `json:"channelName"`
	Users       []string `json:"users,omitempty"`
}

// CreateChannel creates a channel owned by the authenticated user.
func (c *Client) CreateChannel(ctx context.Context, name string, users []string) (*models.ChannelDoc, error) {
	var doc models.ChannelDoc
	err := c.do(ctx, http.MethodPost, "/channel/createChannel", createChannelRequest{
		ChannelName: name,
		Users:       users,
	}, &doc)
	if err != nil {
		return nil, fmt.Errorf("client.CreateChannel: %w", err)
	}
	return &doc, nil
}

// DeleteChannel deletes a channel the authenticated user owns.
func (c *Client) DeleteChannel(ctx context.Context, name string) error {
	err := c.do(ctx, http.MethodDelete, "/channel/deleteChannel", map[string]string{"channelName": name}, nil)
	if err != nil {
		return fmt.Errorf("client.DeleteChannel: %w", err)
	}
	return nil
}

// Channels lists every channel name.
func (c *Client) Channels(ctx context.Context) ([]string, error) {
	var names []string
	if err := c.do(ctx, http.MethodGet, "/channel/getChannels", nil, &names); err != nil {
		return nil, fmt.Errorf("client.Channels: %w", err)
	}
	return names, nil
}

// MyChannels lists the channels whose user list contains the caller.
func (c *Client) MyChannels(ctx context.Context) ([]models.ChannelDoc, error) {
	var docs []models.ChannelDoc
	if err := c.do(ctx, http.MethodGet, "/channel/getMyChannels", nil, &docs); err != nil {
		return nil, fmt.Errorf("client.MyChannels: %w", err)
	}
	return docs, nil
}

type addRoomRequest struct {
	ChannelName string          `json:"channelName"`
	RoomName    string          `json:"roomName"`
	RoomType    models.RoomType `json:"roomType"`
	RoomUsers   []string        `json:"roomUsers,omitempty"`
}

// AddRoom adds a room to a channel the authenticated user owns.
func (c *Client) AddRoom(ctx context.Context, channelName, roomName string, roomType models.RoomType, roomUsers []string) error {
	err := c.do(ctx, http.MethodPost, "/channel/addRoomToChannel", addRoomRequest{
		ChannelName: channelName,
		RoomName:    roomName,
		RoomType:    roomType,
		RoomUsers:   roomUsers,
	}, nil)
	if err != nil {
		return fmt.Errorf("client.AddRoom: %w", err)
	}
	return nil
}

// DeleteRoom removes a room from a channel the authenticated user owns.
func (c *Client) DeleteRoom(ctx context.Context, channelName, roomName string) error {
	err := c.do(ctx, http.MethodDelete, "/channel/deleteRoomFromChanel", map[string]string{
		"channelName": channelName,
		"roomName":    roomName,
	}, nil)
	if err != nil {
		return fmt.Errorf("client.DeleteRoom: %w", err)
	}
	return nil
}

// Rooms lists the rooms of a channel.
func (c *Client) Rooms(ctx context.Context, channelName string) ([]models.Room, error) {
	var rooms []models.Room
	err := c.do(ctx, http.MethodGet, "/channel/getRooms/"+url.PathEscape(channelName), nil, &rooms)
	if err != nil {
		return nil, fmt.Errorf("client.Rooms: %w", err)
	}
	return rooms, nil
}

type sendMessageRequest struct {
	ChannelID string    `json:"channelId"`
	RoomID    string    `json:"roomId"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

// SendMessage appends a message to a room, sent as the authenticated user.
func (c *Client) SendMessage(ctx context.Context, channelName, roomName, content string) (*models.Message, error) {
	var msg models.Message
	err := c.do(ctx, http.MethodPost, "/channel/addMessageToChannel", sendMessageRequest{
		ChannelID: channelName,
		RoomID:    roomName,
		Content:   content,
		CreatedAt: time.Now(),
	}, &msg)
	if err != nil {
		return nil, fmt.Errorf("client.SendMessage: %w", err)
	}
	return &msg, nil
}

// Messages lists every message in a room, oldest first.
func (c *Client) Messages(ctx context.Context, channelName, roomName string) ([]models.Message, error) {
	var msgs []models.Message
	err := c.do(ctx, http.MethodGet,
		"/channel/getMessages/"+url.PathEscape(channelName)+"/"+url.PathEscape(roomName), nil, &msgs)
	if err != nil {
		return nil, fmt.Errorf("client.Messages: %w", err)
	}
	return msgs, nil
}

// AddUserToChannel appends a user to the channel's user list.
func (c *Client) AddUserToChannel(ctx context.Context, channelName, user string) error {
	err := c.do(ctx, http.MethodPost, "/channel/addUserToChannel", map[string]string{
		"channelName": channelName,
		"userToAdd":   user,
	}, nil)
	if err != nil {
		return fmt.Errorf("client.AddUserToChannel: %w", err)
	}
	return nil
}

// AddUserToRoom appends a user to a room's user list.
func (c *Client) AddUserToRoom(ctx context.Context, channelName, roomName, user string) error {
	err := c.do(ctx, http.MethodPost, "/channel/addUserstoRoom", map[string]string{
		"channelName": channelName,
		"roomName":    roomName,
		"userToAdd":   user,
	}, nil)
	if err != nil {
		return fmt.Errorf("client.AddUserToRoom: %w", err)
	}
	return nil
}

type updateSettingsRequest struct {
	TargetType  string          `json:"targetType"`
	ChannelName string          `json:"channelName"`
	RoomName    string          `json:"roomName,omitempty"`
	RoomType    models.RoomType `json:"roomType,omitempty"`
	RemoveUser  string          `json:"removeUser,omitempty"`
}

// UpdateChannelSettings mutates channel-level settings (owner only).
func (c *Client) UpdateChannelSettings(ctx context.Context, channelName, removeUser string) error {
	err := c.do(ctx, http.MethodPost, "/channel/updateSettings", updateSettingsRequest{
		TargetType:  "channel",
		ChannelName: channelName,
		RemoveUser:  removeUser,
	}, nil)
	if err != nil {
		return fmt.Errorf("client.UpdateChannelSettings: %w", err)
	}
	return nil
}

// UpdateRoomSettings mutates one room's settings (owner only).
func (c *Client) UpdateRoomSettings(ctx context.Context, channelName, roomName string, roomType models.RoomType, removeUser string) error {
	err := c.do(ctx, http.MethodPost, "/channel/updateSettings", updateSettingsRequest{
		TargetType:  "room",
		ChannelName: channelName,
		RoomName:    roomName,
		RoomType:    roomType,
		RemoveUser:  removeUser,
	}, nil)
	if err != nil {
		return fmt.Errorf("client.UpdateRoomSettings: %w", err)
	}
	return nil
}
