// Package whatsapp delivers outbound notifications over the WhatsApp Cloud API.
package whatsapp

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/young4chicks/brooder/internal/domain/models"
	client "github.com/young4chicks/brooder/pkg/clients/whatsapp"
)

const sendTimeout = 10 * time.Second

// Notifier sends text notifications to a phone number.
type Notifier interface {
	SendOutbound(ctx context.Context, req models.OutboundMessageRequest) error
}

// MetaWhatsAppService is the production Notifier backed by WhatsApp Cloud API.
type MetaWhatsAppService struct {
	client client.Client
	logger *zap.Logger
}

// NewMetaWhatsAppService wires a new service instance.
func NewMetaWhatsAppService(client client.Client, logger *zap.Logger) *MetaWhatsAppService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MetaWhatsAppService{client: client, logger: logger}
}

// SendOutbound pushes one text message. The Cloud API expects the recipient
// without the leading plus of E.164.
func (s *MetaWhatsAppService) SendOutbound(ctx context.Context, req models.OutboundMessageRequest) error {
	to := strings.TrimPrefix(strings.TrimSpace(req.To), "+")
	if to == "" {
		return errors.New("missing recipient")
	}
	if strings.TrimSpace(req.Message) == "" {
		return errors.New("empty message body")
	}

	ctxWithTimeout, cancel := context.WithTimeout(ctx, sendTimeout)
	defer cancel()

	resp, err := s.client.SendTextMessage(ctxWithTimeout, client.SendTextMessageRequest{
		To:         to,
		Body:       req.Message,
		PreviewURL: req.PreviewURL,
	})
	if err != nil {
		return err
	}

	var messageID string
	if len(resp.Messages) > 0 {
		messageID = resp.Messages[0].ID
	}
	s.logger.Info("whatsapp message sent", zap.String("to", to), zap.String("message_id", messageID))
	return nil
}
