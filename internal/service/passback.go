package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/hxat/annotation-api/internal/models"
)

// GradeSender delivers a grade-passback notification to the hosting LMS.
// The LTI outcomes transport itself lives in the launch layer; this service
// only guarantees a single invocation per qualifying event, not delivery.
type GradeSender interface {
	Send(ctx context.Context, session *models.LaunchSession) error
}

// LogGradeSender records passback invocations without a transport behind
// it. Deployments plug the real outcomes client in through the GradeSender
// seam in main.
type LogGradeSender struct {
	logger *zap.Logger
}

// NewLogGradeSender constructs a logging grade sender.
func NewLogGradeSender(logger *zap.Logger) *LogGradeSender {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogGradeSender{logger: logger}
}

// Send logs the passback event.
func (s *LogGradeSender) Send(ctx context.Context, session *models.LaunchSession) error {
	s.logger.Info("grade passback triggered",
		zap.String("user_id", session.UserID),
		zap.String("context_id", session.ContextID),
		zap.String("collection_id", session.CollectionID))
	return nil
}
