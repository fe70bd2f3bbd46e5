package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/quantraven93/court-tracker-api/databases"
	"github.com/quantraven93/court-tracker-api/models"
	templates "github.com/quantraven93/court-tracker-api/templates/html"
)

// Dispatcher fans a change event out to the notification channels the
// owning user has enabled. Dispatch never returns an error: a failed
// delivery is logged, recorded in the delivery log, and does not block the
// pipeline.
type Dispatcher interface {
	Dispatch(ctx context.Context, event models.ChangeEvent, trackedCase models.TrackedCase)
}

// Service is the production Dispatcher: sendgrid for email, the Telegram
// bot API for chat messages, with every attempt appended to deliverylogs
type Service struct {
	UserDB databases.UserDatabase
	LogDB  databases.DeliveryLogDatabase

	SendgridAPIKey   string
	TelegramBotToken string
	FromEmail        string
	FromName         string

	httpClient *http.Client
}

// NewService creates a dispatcher backed by the configured channels
func NewService(userDB databases.UserDatabase, logDB databases.DeliveryLogDatabase, sendgridAPIKey, telegramBotToken string) *Service {
	return &Service{
		UserDB:           userDB,
		LogDB:            logDB,
		SendgridAPIKey:   sendgridAPIKey,
		TelegramBotToken: telegramBotToken,
		FromEmail:        "no-reply@court-tracker.in",
		FromName:         "Court Tracker",
		httpClient:       &http.Client{Timeout: 10 * time.Second},
	}
}

// Dispatch implements Dispatcher
func (s *Service) Dispatch(ctx context.Context, event models.ChangeEvent, trackedCase models.TrackedCase) {
	user, err := s.lookupUser(ctx, event.Details.UserID)
	if err != nil {
		zap.S().Warnw("failed to load user for notification",
			"userID", event.Details.UserID, "error", err)
		return
	}

	subject, body := renderMessage(event, trackedCase)

	if user.Details.EmailEnabled && user.Details.Email != "" {
		err := s.sendEmail(user.Details.Email, user.Details.Name, subject, body)
		s.logDelivery(ctx, event, "email", err)
	}
	if user.Details.TelegramEnabled && user.Details.TelegramChatID != "" {
		err := s.sendTelegram(ctx, user.Details.TelegramChatID, subject+"\n\n"+body)
		s.logDelivery(ctx, event, "telegram", err)
	}
}

func (s *Service) lookupUser(ctx context.Context, userID string) (*models.User, error) {
	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, fmt.Errorf("bad user id %q: %w", userID, err)
	}
	return s.UserDB.FindOne(ctx, bson.M{"_id": oid})
}

func (s *Service) sendEmail(toEmail, toName, subject, body string) error {
	if s.SendgridAPIKey == "" {
		return fmt.Errorf("sendgrid api key not configured")
	}
	from := mail.NewEmail(s.FromName, s.FromEmail)
	to := mail.NewEmail(toName, toEmail)
	message := mail.NewSingleEmail(from, subject, to, body, templates.RenderCaseEmail(subject, body))
	client := sendgrid.NewSendClient(s.SendgridAPIKey)
	response, err := client.Send(message)
	if err != nil {
		return err
	}
	if response.StatusCode >= 400 {
		return fmt.Errorf("sendgrid returned status %d: %s", response.StatusCode, response.Body)
	}
	return nil
}

func (s *Service) sendTelegram(ctx context.Context, chatID, text string) error {
	if s.TelegramBotToken == "" {
		return fmt.Errorf("telegram bot token not configured")
	}
	payload, err := json.Marshal(map[string]string{
		"chat_id": chatID,
		"text":    text,
	})
	if err != nil {
		return err
	}
	target := fmt.Sprintf("https://api.telegram.org/bot%s/sendMessage", s.TelegramBotToken)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("telegram returned status %d: %s", resp.StatusCode, body)
	}
	return nil
}

// logDelivery appends one delivery-log record per attempt
func (s *Service) logDelivery(ctx context.Context, event models.ChangeEvent, channel string, deliveryErr error) {
	status := "sent"
	errMsg := ""
	if deliveryErr != nil {
		status = "failed"
		errMsg = deliveryErr.Error()
		zap.S().Warnw("notification delivery failed",
			"channel", channel, "eventID", event.ID.Hex(), "error", deliveryErr)
	}
	log := models.DeliveryLog{
		ID: primitive.NewObjectID(),
		Details: models.DeliveryLogDetails{
			EventID:   event.ID.Hex(),
			CaseID:    event.Details.CaseID,
			UserID:    event.Details.UserID,
			Channel:   channel,
			Status:    status,
			Error:     errMsg,
			CreatedAt: primitive.NewDateTimeFromTime(time.Now()),
		},
		Version: 1,
	}
	if _, err := s.LogDB.InsertOne(ctx, log); err != nil {
		zap.S().Errorw("failed to append delivery log", "error", err)
	}
}

// renderMessage turns a change event into a subject and body a user can act
// on without opening the app
func renderMessage(event models.ChangeEvent, trackedCase models.TrackedCase) (subject, body string) {
	title := trackedCase.Details.Title
	if title == "" {
		title = fmt.Sprintf("%s %s/%s", trackedCase.Details.CaseType,
			trackedCase.Details.CaseNumber, trackedCase.Details.CaseYear)
	}

	switch event.Details.Kind {
	case models.StatusChange:
		subject = "Case status changed: " + title
		body = fmt.Sprintf("The status of %s changed from %q to %q.",
			title, event.Details.OldValue, event.Details.NewValue)
	case models.HearingDateChange:
		subject = "Hearing date updated: " + title
		body = fmt.Sprintf("The next hearing for %s is now listed for %s.",
			title, event.Details.NewValue)
		if event.Details.OldValue != "" {
			body += fmt.Sprintf(" It was previously %s.", event.Details.OldValue)
		}
	case models.NewOrder:
		subject = "New order in: " + title
		body = fmt.Sprintf("A new order was published in %s. %s", title, event.Details.NewValue)
	case models.JudgeChange:
		subject = "Bench changed: " + title
		body = fmt.Sprintf("%s has been reassigned from %s to %s.",
			title, event.Details.OldValue, event.Details.NewValue)
	case models.HearingReminder:
		subject = "Hearing tomorrow: " + title
		body = fmt.Sprintf("Reminder: %s is listed for hearing on %s.",
			title, event.Details.NewValue)
	case models.NewCase:
		subject = "Now tracking: " + title
		body = fmt.Sprintf("You are now tracking %s. Current status: %s.",
			title, event.Details.NewValue)
	default:
		subject = "Case update: " + title
		body = fmt.Sprintf("%s: %s", event.Details.Field, event.Details.NewValue)
	}
	return subject, body
}
