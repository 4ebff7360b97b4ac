package session

import (
	"context"
	"errors"
	"log/slog"

	"github.com/looplab/fsm"

	"airstream/pkg/domain"
)

const (
	eventSubmitEmail    = "submit_email"
	eventSubmitCode     = "submit_code"
	eventSubmitPassword = "submit_password"
)

// newResetFlow builds the forward-only reset sequence. Submitting the email is
// allowed from every step and restarts the flow.
func newResetFlow(logger *slog.Logger) *fsm.FSM {
	events := fsm.Events{
		{
			Name: eventSubmitEmail,
			Src: []string{
				string(domain.StepEmail),
				string(domain.StepVerification),
				string(domain.StepNewPassword),
				string(domain.StepSuccess),
			},
			Dst: string(domain.StepVerification),
		},
		{
			Name: eventSubmitCode,
			Src:  []string{string(domain.StepVerification), string(domain.StepNewPassword)},
			Dst:  string(domain.StepNewPassword),
		},
		{
			Name: eventSubmitPassword,
			Src:  []string{string(domain.StepNewPassword)},
			Dst:  string(domain.StepSuccess),
		},
	}
	callbacks := fsm.Callbacks{
		"enter_state": func(_ context.Context, e *fsm.Event) {
			logger.Debug("reset flow transition", "event", e.Event, "from", e.Src, "to", e.Dst)
		},
	}
	return fsm.NewFSM(string(domain.StepEmail), events, callbacks)
}

// fire runs event on flow. Re-entering the current step is not an error.
func fire(ctx context.Context, flow *fsm.FSM, event string) error {
	err := flow.Event(ctx, event)
	if err == nil {
		return nil
	}
	var noTransition fsm.NoTransitionError
	if errors.As(err, &noTransition) {
		return nil
	}
	var invalid fsm.InvalidEventError
	if errors.As(err, &invalid) {
		return ErrResetOutOfOrder
	}
	return err
}
