package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	pushRepo "anoa.com/lostfound/internal/modules/push/repository"
	"anoa.com/lostfound/pkg/apperror"
	"github.com/google/uuid"
)

const DefaultEndpoint = "https://fcm.googleapis.com/fcm/send"

// ErrNoDeviceToken is returned when the recipient never registered a device.
var ErrNoDeviceToken = errors.New("user has no FCM token")

type fcmNotification struct {
	Title string `json:"title"`
	Body  string `json:"body"`
	Sound string `json:"sound"`
	Badge string `json:"badge"`
}

type fcmMessage struct {
	RegistrationIDs []string          `json:"registration_ids"`
	Notification    fcmNotification   `json:"notification"`
	Data            map[string]string `json:"data"`
	Priority        string            `json:"priority"`
}

type FCMConfig struct {
	Endpoint  string
	ServerKey string
	Timeout   time.Duration
}

// FCMSender delivers push notifications through the FCM legacy HTTP API.
type FCMSender struct {
	log    *slog.Logger
	tokens pushRepo.DeviceTokenRepository
	client *http.Client
	cfg    FCMConfig
}

func NewFCMSender(log *slog.Logger, tokens pushRepo.DeviceTokenRepository, cfg FCMConfig) *FCMSender {
	if cfg.Endpoint == "" {
		cfg.Endpoint = DefaultEndpoint
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.ServerKey == "" {
		log.Warn("FCM_SERVER_KEY is not set; push delivery will be rejected by FCM")
	}
	return &FCMSender{
		log:    log.With("service", "fcm"),
		tokens: tokens,
		client: &http.Client{Timeout: cfg.Timeout},
		cfg:    cfg,
	}
}

// Send pushes one notification to the recipient's registered device. Only an
// HTTP 200 from FCM counts as delivered.
func (s *FCMSender) Send(ctx context.Context, recipientID uuid.UUID, title, body string, data map[string]string) error {
	device, err := s.tokens.FindByUserID(ctx, recipientID)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return ErrNoDeviceToken
		}
		return fmt.Errorf("look up device token: %w", err)
	}
	if device.Token == "" {
		return ErrNoDeviceToken
	}

	if data == nil {
		data = map[string]string{}
	}
	payload, err := json.Marshal(fcmMessage{
		RegistrationIDs: []string{device.Token},
		Notification: fcmNotification{
			Title: title,
			Body:  body,
			Sound: "default",
			Badge: "1",
		},
		Data:     data,
		Priority: "high",
	})
	if err != nil {
		return fmt.Errorf("encode fcm message: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.cfg.Endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build fcm request: %w", err)
	}
	req.Header.Set("Authorization", "key="+s.cfg.ServerKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("fcm request: %w", err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("fcm returned %d: %s", resp.StatusCode, bytes.TrimSpace(respBody))
	}

	s.log.DebugContext(ctx, "push delivered", slog.String("recipient_id", recipientID.String()))
	return nil
}
