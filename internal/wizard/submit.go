package wizard

import (
	"context"
	"errors"
	"fmt"
	"time"
)

const (
	MessageRejectedFallback  = "Something went wrong. Please try again."
	MessageTransportFallback = "An unexpected error occurred. Please try again."
	MessageTimeout           = "The request timed out. Please try again."
	MessageCanceled          = "The request was canceled."
)

type SubmitResult struct {
	Success bool
	Message string
	Data    any
}

// Submitter receives the merged payload once every step validates. A false
// Success with a message is a rejection; a returned error is a transport
// failure.
type Submitter interface {
	Submit(ctx context.Context, payload Record) (SubmitResult, error)
}

type SubmitterFunc func(ctx context.Context, payload Record) (SubmitResult, error)

func (f SubmitterFunc) Submit(ctx context.Context, payload Record) (SubmitResult, error) {
	return f(ctx, payload)
}

type SubmissionKind string

const (
	KindRejected  SubmissionKind = "rejected"
	KindTransport SubmissionKind = "transport"
	KindTimeout   SubmissionKind = "timeout"
	KindCanceled  SubmissionKind = "canceled"
)

var ErrSubmission = errors.New("submission failed")

type SubmissionError struct {
	Kind    SubmissionKind
	Message string
	Cause   error
}

func (e *SubmissionError) Error() string {
	if e == nil {
		return ""
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s (%s): %s: %v", ErrSubmission, e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s (%s): %s", ErrSubmission, e.Kind, e.Message)
}

func (e *SubmissionError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

func (e *SubmissionError) Is(target error) bool {
	return target == ErrSubmission
}

// Checkpoint persists the submitting state before the submitter runs, so
// that concurrent readers see the submission in flight.
type Checkpoint func(ctx context.Context, st State) error

// Submit runs the final transition of a session: full re-validation, the
// checkpoint, the submitter call under an optional deadline, then success or a
// return to the editable step. Failures are never retried here. A failed
// checkpoint aborts before the submitter is called.
func Submit(ctx context.Context, s *Session, sub Submitter, timeout time.Duration, checkpoint Checkpoint) (SubmitResult, error) {
	payload, err := s.BeginSubmit()
	if err != nil {
		return SubmitResult{}, err
	}

	if checkpoint != nil {
		if err := checkpoint(ctx, s.State()); err != nil {
			_ = s.Fail(MessageTransportFallback)
			return SubmitResult{}, fmt.Errorf("persist submitting state: %w", err)
		}
	}

	res, serr := call(ctx, sub, payload, timeout)
	if serr != nil {
		_ = s.Fail(serr.Message)
		return res, serr
	}
	_ = s.Succeed()
	return res, nil
}

func call(ctx context.Context, sub Submitter, payload Record, timeout time.Duration) (SubmitResult, *SubmissionError) {
	if sub == nil {
		return SubmitResult{}, &SubmissionError{Kind: KindTransport, Message: MessageTransportFallback, Cause: errors.New("nil submitter")}
	}

	callCtx := ctx
	if timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	res, err := sub.Submit(callCtx, payload)
	if err == nil && res.Success {
		return res, nil
	}
	return res, classify(ctx, callCtx, res, err)
}

func classify(parent, callCtx context.Context, res SubmitResult, err error) *SubmissionError {
	switch {
	case parent.Err() != nil && errors.Is(parent.Err(), context.Canceled):
		return &SubmissionError{Kind: KindCanceled, Message: MessageCanceled, Cause: parent.Err()}
	case errors.Is(err, context.DeadlineExceeded) || errors.Is(callCtx.Err(), context.DeadlineExceeded):
		cause := err
		if cause == nil {
			cause = callCtx.Err()
		}
		return &SubmissionError{Kind: KindTimeout, Message: MessageTimeout, Cause: cause}
	case err != nil:
		return &SubmissionError{Kind: KindTransport, Message: MessageTransportFallback, Cause: err}
	}

	msg := res.Message
	if msg == "" {
		msg = MessageRejectedFallback
	}
	return &SubmissionError{Kind: KindRejected, Message: msg}
}
