package models

import "time"

// ChatMessage is one message of the global chat room.
type ChatMessage struct {
	ID        string    `json:"id"`
	UserID    int       `json:"user_id"`
	UserName  string    `json:"user_name"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

// SendMessageRequest is the body of POST /api/messages and of websocket "send" frames.
type SendMessageRequest struct {
	Message string `json:"message" validate:"required,max=4000"`
}

// OnlineUser is one presence entry of the chat room.
type OnlineUser struct {
	UserID   int       `json:"user_id"`
	UserName string    `json:"user_name"`
	OnlineAt time.Time `json:"online_at"`
}

// DeviceToken is a push notification token registered by a user's device.
type DeviceToken struct {
	UserID int    `json:"user_id"`
	Token  string `json:"token" validate:"required"`
}
