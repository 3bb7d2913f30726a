package contact

import (
	"context"
	"errors"

	"go.uber.org/zap"
)

// Outcome classifies a submission attempt.
type Outcome string

const (
	OutcomeSuccess    Outcome = "success"
	OutcomeValidation Outcome = "validation_error"
	OutcomeRateLimit  Outcome = "rate_limited"
	OutcomeRejected   Outcome = "rejected"
	OutcomeNetwork    Outcome = "network_error"
	OutcomeSpam       Outcome = "spam"
)

const (
	msgSuccess   = "Your raven has taken flight. Expect a reply soon."
	msgRateLimit = "You're sending messages too quickly, please try again later."
	msgNetwork   = "Network error. Please check your connection and try again."
)

// Result is what the form displays after a submission.
type Result struct {
	Outcome Outcome
	Message string
	Fields  FieldErrors
}

// OK reports whether the visitor should see the success state.
func (r Result) OK() bool {
	return r.Outcome == OutcomeSuccess || r.Outcome == OutcomeSpam
}

type Service struct {
	relay  Relay
	logger *zap.Logger
}

func NewService(relay Relay, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{relay: relay, logger: logger}
}

// Submit validates s and hands it to the relay.
func (s *Service) Submit(ctx context.Context, sub Submission) Result {
	sub = sub.Trimmed()
	if fe := Validate(sub); fe != nil {
		return Result{Outcome: OutcomeValidation, Fields: fe}
	}
	if sub.Honeypot != "" {
		s.logger.Info("dropping honeypot submission")
		return Result{Outcome: OutcomeSpam, Message: msgSuccess}
	}

	err := s.relay.Send(ctx, sub)
	if err == nil {
		s.logger.Info("raven sent", zap.String("name", sub.Name))
		return Result{Outcome: OutcomeSuccess, Message: msgSuccess}
	}

	s.logger.Warn("raven failed", zap.Error(err))
	var rej *RejectedError
	switch {
	case errors.As(err, &rej) && len(rej.Fields) > 0:
		return Result{Outcome: OutcomeValidation, Fields: rej.Fields}
	case errors.As(err, &rej):
		return Result{Outcome: OutcomeRejected, Message: rej.Msg}
	case errors.Is(err, ErrRateLimited):
		return Result{Outcome: OutcomeRateLimit, Message: msgRateLimit}
	default:
		return Result{Outcome: OutcomeNetwork, Message: msgNetwork}
	}
}
