package services

import (
	"context"
	"unicode/utf8"

	"firebase.google.com/go/messaging"

	"github.com/krishyadav90/ProJobHub-IND/internal/models"
)

type DeviceTokenStore interface {
	Save(ctx context.Context, t models.DeviceToken) error
	List(ctx context.Context) ([]models.DeviceToken, error)
	Delete(ctx context.Context, token string) error
}

// PushSender is the part of *messaging.Client the service uses.
type PushSender interface {
	Send(ctx context.Context, message *messaging.Message) (string, error)
}

type NotificationService struct {
	Tokens DeviceTokenStore
	Client PushSender // nil disables push
	Logger Logger
}

func (s *NotificationService) RegisterToken(ctx context.Context, t models.DeviceToken) error {
	if err := Validate(t); err != nil {
		return err
	}
	return s.Tokens.Save(ctx, t)
}

// NotifyChat sends msg to every registered device whose user is not in present.
func (s *NotificationService) NotifyChat(ctx context.Context, msg models.ChatMessage, present map[int]bool) {
	if s.Client == nil {
		return
	}
	log := loggerOrNop(s.Logger)

	tokens, err := s.Tokens.List(ctx)
	if err != nil {
		log.Errorf("list device tokens: %v", err)
		return
	}

	body := preview(msg.Message, 120)
	for _, t := range tokens {
		if present[t.UserID] {
			continue
		}
		_, err := s.Client.Send(ctx, &messaging.Message{
			Token: t.Token,
			Notification: &messaging.Notification{
				Title: msg.UserName,
				Body:  body,
			},
			Data: map[string]string{
				"type":       "chat",
				"message_id": msg.ID,
			},
			Android: &messaging.AndroidConfig{
				Priority: "high",
			},
			APNS: &messaging.APNSConfig{
				Headers: map[string]string{"apns-priority": "10"},
				Payload: &messaging.APNSPayload{
					Aps: &messaging.Aps{Sound: "default"},
				},
			},
		})
		if err != nil {
			log.Errorf("push to user %d: %v", t.UserID, err)
			if messaging.IsRegistrationTokenNotRegistered(err) {
				if err := s.Tokens.Delete(ctx, t.Token); err != nil {
					log.Errorf("drop stale device token: %v", err)
				}
			}
		}
	}
}

func preview(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	r := []rune(s)
	return string(r[:max]) + "…"
}
