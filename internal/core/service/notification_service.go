package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/onless/driving-school-api/internal/core/ports"
	"github.com/onless/driving-school-api/pkg/metrics"
)

// NotificationService handles verification notices for freshly registered
// accounts. Delivery is a structured log line for now; the transport behind
// it (SMS or email) is owned by an external provider.
type NotificationService struct {
	log zerolog.Logger
}

func NewNotificationService(log zerolog.Logger) *NotificationService {
	return &NotificationService{log: log}
}

// Process records that the user owes an account verification.
func (s *NotificationService) Process(ctx context.Context, notice ports.VerificationNotice) error {
	if err := ctx.Err(); err != nil {
		metrics.VerificationNoticesTotal.WithLabelValues("failed").Inc()
		return err
	}

	s.log.Info().
		Int64("user_id", notice.UserID).
		Str("email", notice.Email).
		Msg("verification pending for new account")

	metrics.VerificationNoticesTotal.WithLabelValues("processed").Inc()
	return nil
}
