package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/krishyadav90/ProJobHub-IND/internal/metrics"
	"github.com/krishyadav90/ProJobHub-IND/internal/models"
	"github.com/krishyadav90/ProJobHub-IND/utils"
)

type MessageStore interface {
	Insert(ctx context.Context, msg models.ChatMessage) (bool, error)
	Recent(ctx context.Context, limit int) ([]models.ChatMessage, error)
}

// Publisher delivers a stored message to every subscriber of the room.
type Publisher interface {
	Publish(ctx context.Context, msg models.ChatMessage) error
}

type PresenceLister interface {
	List() []models.OnlineUser
}

// ChatNotifier pushes a message to users who are not in the room.
type ChatNotifier interface {
	NotifyChat(ctx context.Context, msg models.ChatMessage, present map[int]bool)
}

type MessageService struct {
	Store        MessageStore
	Bus          Publisher
	Presence     PresenceLister // optional
	Notifier     ChatNotifier   // optional
	HistoryLimit int
	Logger       Logger
}

func (s *MessageService) log() Logger { return loggerOrNop(s.Logger) }

// Send trims text, stores it as a message of user and publishes it to the room.
func (s *MessageService) Send(ctx context.Context, userID int, userName, text string) (models.ChatMessage, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		metrics.ChatMessage("rejected")
		return models.ChatMessage{}, models.ErrEmptyMessage
	}
	if err := Validate(models.SendMessageRequest{Message: text}); err != nil {
		metrics.ChatMessage("rejected")
		return models.ChatMessage{}, err
	}

	msg := models.ChatMessage{
		ID:        utils.NewCanonicalID(),
		UserID:    userID,
		UserName:  userName,
		Message:   text,
		CreatedAt: time.Now().UTC(),
	}

	if _, err := s.Store.Insert(ctx, msg); err != nil {
		metrics.ChatMessage("failed")
		return models.ChatMessage{}, fmt.Errorf("store message: %w", err)
	}
	// The row is stored; live delivery failing is logged, not reported, so a
	// retry from the sender cannot duplicate the message. Readers catch up from history.
	if err := s.Bus.Publish(ctx, msg); err != nil {
		metrics.ChatMessage("unpublished")
		s.log().Errorf("publish message %s: %v", msg.ID, err)
	} else {
		metrics.ChatMessage("sent")
	}

	if s.Notifier != nil {
		present := map[int]bool{userID: true}
		if s.Presence != nil {
			for _, u := range s.Presence.List() {
				present[u.UserID] = true
			}
		}
		go s.Notifier.NotifyChat(context.Background(), msg, present)
	}
	return msg, nil
}

// History returns the most recent messages in ascending created_at order.
func (s *MessageService) History(ctx context.Context) ([]models.ChatMessage, error) {
	limit := s.HistoryLimit
	if limit <= 0 {
		limit = 200
	}
	return s.Store.Recent(ctx, limit)
}
