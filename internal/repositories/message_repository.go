package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/krishyadav90/ProJobHub-IND/internal/models"
)

type MessageRepository struct {
	DB      *sql.DB
	Dialect Dialect
}

// Insert stores msg. It reports false without error when a message with the same id already exists.
func (r *MessageRepository) Insert(ctx context.Context, msg models.ChatMessage) (bool, error) {
	query := `
        INSERT INTO chat_messages (id, user_id, user_name, message, created_at)
        VALUES (?, ?, ?, ?, ?)`
	_, err := r.DB.ExecContext(ctx, r.Dialect.Rebind(query), msg.ID, msg.UserID, msg.UserName, msg.Message, msg.CreatedAt)
	if err != nil {
		if isDuplicateKey(err) {
			return false, nil
		}
		return false, fmt.Errorf("insert chat message: %w", err)
	}
	return true, nil
}

// Recent returns the latest limit messages in ascending created_at order.
func (r *MessageRepository) Recent(ctx context.Context, limit int) ([]models.ChatMessage, error) {
	query := `
        SELECT id, user_id, user_name, message, created_at FROM (
            SELECT id, user_id, user_name, message, created_at
            FROM chat_messages
            ORDER BY created_at DESC
            LIMIT ?
        ) recent
        ORDER BY created_at ASC`
	rows, err := r.DB.QueryContext(ctx, r.Dialect.Rebind(query), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	messages := []models.ChatMessage{}
	for rows.Next() {
		var m models.ChatMessage
		if err := rows.Scan(&m.ID, &m.UserID, &m.UserName, &m.Message, &m.CreatedAt); err != nil {
			return nil, err
		}
		messages = append(messages, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return messages, nil
}
