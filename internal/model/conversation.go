package model

import "time"

// ConversationStatus is the state of a support conversation.
type ConversationStatus string

const (
	ConversationOpen   ConversationStatus = "OPEN"
	ConversationClosed ConversationStatus = "CLOSED"
)

// Conversation is a support thread between a visitor and the park's
// back office.  Messages hang off the conversation; closing it stops
// further visitor messages.
//
// Fields:
//  ID        – primary key identifier.
//  UserID    – visitor who opened the thread.
//  Subject   – short subject line.
//  Status    – OPEN or CLOSED.
//  CreatedAt – creation timestamp.
//  UpdatedAt – last update timestamp.
type Conversation struct {
	ID        uint64             `json:"id"`
	UserID    uint64             `json:"user_id"`
	Subject   string             `json:"subject"`
	Status    ConversationStatus `json:"status"`
	CreatedAt time.Time          `json:"created_at"`
	UpdatedAt time.Time          `json:"updated_at"`
}

// Message is a single entry in a conversation, written either by the
// visitor or by an admin.
//
// Fields:
//  ID             – primary key identifier.
//  ConversationID – owning conversation.
//  SenderID       – user who wrote the message.
//  FromAdmin      – true when the sender acted as back office.
//  Body           – message text.
//  CreatedAt      – creation timestamp.
type Message struct {
	ID             uint64    `json:"id"`
	ConversationID uint64    `json:"conversation_id"`
	SenderID       uint64    `json:"sender_id"`
	FromAdmin      bool      `json:"from_admin"`
	Body           string    `json:"body"`
	CreatedAt      time.Time `json:"created_at"`
}
