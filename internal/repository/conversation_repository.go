package repository

import (
	"context"
	"database/sql"

	"github.com/zombieland/zombieland-api/internal/model"
)

// ConversationRepo persists support conversations and their messages.
type ConversationRepo struct{ DB *sql.DB }

func NewConversationRepo(db *sql.DB) *ConversationRepo { return &ConversationRepo{DB: db} }

const conversationColumns = "id,user_id,subject,status,created_at,updated_at"

func scanConversation(row rowScanner) (model.Conversation, error) {
	var (
		c      model.Conversation
		status string
	)
	err := row.Scan(&c.ID, &c.UserID, &c.Subject, &status, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return model.Conversation{}, err
	}
	c.Status = model.ConversationStatus(status)
	return c, nil
}

// Create opens a conversation with its first message in one
// transaction, so a thread can never exist empty.
func (r *ConversationRepo) Create(ctx context.Context, userID uint64, subject, body string) (model.Conversation, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return model.Conversation{}, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	res, err := tx.ExecContext(ctx,
		"INSERT INTO conversations (user_id, subject, status) VALUES (?,?,?)",
		userID, subject, string(model.ConversationOpen))
	if err != nil {
		return model.Conversation{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.Conversation{}, err
	}
	if _, err := tx.ExecContext(ctx,
		"INSERT INTO messages (conversation_id, sender_id, from_admin, body) VALUES (?,?,?,?)",
		id, userID, false, body); err != nil {
		return model.Conversation{}, err
	}
	conv, err := scanConversation(tx.QueryRowContext(ctx,
		"SELECT "+conversationColumns+" FROM conversations WHERE id=?", id))
	if err != nil {
		return model.Conversation{}, err
	}
	if err := tx.Commit(); err != nil {
		return model.Conversation{}, err
	}
	committed = true
	return conv, nil
}

// GetByID fetches one conversation.
func (r *ConversationRepo) GetByID(ctx context.Context, id uint64) (model.Conversation, error) {
	return scanConversation(r.DB.QueryRowContext(ctx,
		"SELECT "+conversationColumns+" FROM conversations WHERE id=? LIMIT 1", id))
}

// ListByUser returns a visitor's conversations, most recent activity first.
func (r *ConversationRepo) ListByUser(ctx context.Context, userID uint64) ([]model.Conversation, error) {
	return r.list(ctx, " WHERE user_id=? ORDER BY updated_at DESC", userID)
}

// List returns all conversations for the back office, optionally
// filtered by status.
func (r *ConversationRepo) List(ctx context.Context, status model.ConversationStatus) ([]model.Conversation, error) {
	if status != "" {
		return r.list(ctx, " WHERE status=? ORDER BY updated_at DESC", string(status))
	}
	return r.list(ctx, " ORDER BY updated_at DESC")
}

func (r *ConversationRepo) list(ctx context.Context, clause string, args ...any) ([]model.Conversation, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+conversationColumns+" FROM conversations"+clause, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	convs := []model.Conversation{}
	for rows.Next() {
		c, err := scanConversation(rows)
		if err != nil {
			return nil, err
		}
		convs = append(convs, c)
	}
	return convs, rows.Err()
}

// AddMessage appends a message and touches the conversation's
// updated_at so thread lists sort by recent activity.
func (r *ConversationRepo) AddMessage(ctx context.Context, conversationID, senderID uint64, fromAdmin bool, body string) (model.Message, error) {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO messages (conversation_id, sender_id, from_admin, body) VALUES (?,?,?,?)",
		conversationID, senderID, fromAdmin, body)
	if err != nil {
		return model.Message{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.Message{}, err
	}
	if _, err := r.DB.ExecContext(ctx,
		"UPDATE conversations SET updated_at=NOW() WHERE id=?", conversationID); err != nil {
		return model.Message{}, err
	}
	var m model.Message
	err = r.DB.QueryRowContext(ctx,
		"SELECT id, conversation_id, sender_id, from_admin, body, created_at FROM messages WHERE id=?",
		id).Scan(&m.ID, &m.ConversationID, &m.SenderID, &m.FromAdmin, &m.Body, &m.CreatedAt)
	return m, err
}

// ListMessages returns a conversation's messages in chronological order.
func (r *ConversationRepo) ListMessages(ctx context.Context, conversationID uint64) ([]model.Message, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT id, conversation_id, sender_id, from_admin, body, created_at FROM messages WHERE conversation_id=? ORDER BY created_at ASC, id ASC",
		conversationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	msgs := []model.Message{}
	for rows.Next() {
		var m model.Message
		if err := rows.Scan(&m.ID, &m.ConversationID, &m.SenderID, &m.FromAdmin, &m.Body, &m.CreatedAt); err != nil {
			return nil, err
		}
		msgs = append(msgs, m)
	}
	return msgs, rows.Err()
}

// SetStatus opens or closes a conversation.
func (r *ConversationRepo) SetStatus(ctx context.Context, id uint64, status model.ConversationStatus) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE conversations SET status=?, updated_at=NOW() WHERE id=?", string(status), id)
	if err != nil {
		return err
	}
	return requireRowAffected(res)
}
