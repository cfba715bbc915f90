package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"pathexplorer/internal/wizard"
)

// ErrInvalidSubmitTimeout means the submission deadline would not finish
// inside the session lock lifetime.
var ErrInvalidSubmitTimeout = fmt.Errorf("submit timeout must be positive and below %s", wizard.LockTTL)

type SignupUsecase interface {
	Start(ctx context.Context) (wizard.State, error)
	Get(ctx context.Context, id uuid.UUID) (wizard.State, error)
	SetFields(ctx context.Context, id uuid.UUID, step string, values map[string]string) (wizard.State, error)
	Advance(ctx context.Context, id uuid.UUID) (wizard.State, error)
	Back(ctx context.Context, id uuid.UUID) (wizard.State, error)
	Submit(ctx context.Context, id uuid.UUID) (wizard.State, wizard.SubmitResult, error)
	Abandon(ctx context.Context, id uuid.UUID) error

	SaveStepOne(ctx context.Context, rec wizard.Record) (string, error)
	LoadStepOne(ctx context.Context, token string) (wizard.Record, error)
	CompleteRegistration(ctx context.Context, token string, stepTwo wizard.Record) (wizard.SubmitResult, error)
}

type Signup struct {
	schema    *wizard.Schema
	sessions  wizard.SessionStore
	flow      *wizard.TwoPageFlow
	submitter wizard.Submitter
	timeout   time.Duration
	logger    *zap.Logger
}

func NewSignupUsecase(schema *wizard.Schema, sessions wizard.SessionStore, fragments wizard.FragmentStore, submitter wizard.Submitter, timeout time.Duration, logger *zap.Logger) (*Signup, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if timeout <= 0 || timeout >= wizard.LockTTL {
		return nil, fmt.Errorf("%w: got %s", ErrInvalidSubmitTimeout, timeout)
	}
	flow, err := wizard.NewTwoPageFlow(schema, wizard.StepOneKeys(), wizard.StepTwoKeys(), fragments, submitter, timeout, logger)
	if err != nil {
		return nil, err
	}
	return &Signup{
		schema:    schema,
		sessions:  sessions,
		flow:      flow,
		submitter: submitter,
		timeout:   timeout,
		logger:    logger,
	}, nil
}

func (u *Signup) Start(ctx context.Context) (wizard.State, error) {
	s := wizard.NewSession(u.schema, uuid.New())
	st := s.State()
	if err := u.sessions.Save(ctx, st); err != nil {
		return wizard.State{}, err
	}
	u.logger.Debug("signup session started", zap.String("session_id", st.ID.String()))
	return st, nil
}

func (u *Signup) Get(ctx context.Context, id uuid.UUID) (wizard.State, error) {
	return u.sessions.Load(ctx, id)
}

// SetFields applies a batch of edits to one step. Unknown steps or fields
// reject the whole batch before anything is stored.
func (u *Signup) SetFields(ctx context.Context, id uuid.UUID, step string, values map[string]string) (wizard.State, error) {
	if err := u.checkFields(step, values); err != nil {
		return wizard.State{}, err
	}
	return u.withSession(ctx, id, func(s *wizard.Session) error {
		for field, v := range values {
			if err := s.SetField(step, field, v); err != nil {
				return err
			}
		}
		return nil
	})
}

func (u *Signup) Advance(ctx context.Context, id uuid.UUID) (wizard.State, error) {
	return u.withSession(ctx, id, (*wizard.Session).Advance)
}

func (u *Signup) Back(ctx context.Context, id uuid.UUID) (wizard.State, error) {
	return u.withSession(ctx, id, (*wizard.Session).Back)
}

// Submit runs the final transition while holding the session lock. The
// submitting phase is stored before the submitter is called, so a second
// request is rejected with ErrSessionBusy while the lock is held and with
// ErrSubmissionInFlight even if the lock is gone.
func (u *Signup) Submit(ctx context.Context, id uuid.UUID) (wizard.State, wizard.SubmitResult, error) {
	var res wizard.SubmitResult
	checkpoint := func(ctx context.Context, st wizard.State) error {
		return u.sessions.Save(context.WithoutCancel(ctx), st)
	}
	st, err := u.withSession(ctx, id, func(s *wizard.Session) error {
		var serr error
		res, serr = wizard.Submit(ctx, s, u.submitter, u.timeout, checkpoint)
		return serr
	})
	if err != nil {
		var subErr *wizard.SubmissionError
		if errors.As(err, &subErr) {
			u.logger.Warn("signup submission failed", zap.String("session_id", id.String()), zap.String("kind", string(subErr.Kind)))
		}
		return st, res, err
	}
	u.logger.Info("signup completed", zap.String("session_id", id.String()))
	return st, res, nil
}

func (u *Signup) Abandon(ctx context.Context, id uuid.UUID) error {
	unlock, err := u.sessions.Lock(ctx, id)
	if err != nil {
		return err
	}
	defer unlock()
	return u.sessions.Delete(ctx, id)
}

func (u *Signup) SaveStepOne(ctx context.Context, rec wizard.Record) (string, error) {
	return u.flow.SaveStepOne(ctx, rec)
}

func (u *Signup) LoadStepOne(ctx context.Context, token string) (wizard.Record, error) {
	return u.flow.LoadStepOne(ctx, token)
}

func (u *Signup) CompleteRegistration(ctx context.Context, token string, stepTwo wizard.Record) (wizard.SubmitResult, error) {
	res, err := u.flow.Complete(ctx, token, stepTwo)
	if err != nil {
		var subErr *wizard.SubmissionError
		if errors.As(err, &subErr) {
			u.logger.Warn("two page signup failed", zap.String("kind", string(subErr.Kind)))
		}
		return res, err
	}
	return res, nil
}

func (u *Signup) checkFields(step string, values map[string]string) error {
	st, ok := u.schema.Step(step)
	if !ok {
		return fmt.Errorf("%w: %s", wizard.ErrUnknownStep, step)
	}
	known := make(map[string]bool, len(st.Fields))
	for _, f := range st.Fields {
		known[f.Name] = true
	}
	for field := range values {
		if !known[field] {
			return fmt.Errorf("%w: %s.%s", wizard.ErrUnknownField, step, field)
		}
	}
	return nil
}

// withSession serializes one transition: lock, load, apply, persist. The state
// is persisted even when fn fails because failed transitions record field
// errors and submission outcomes.
func (u *Signup) withSession(ctx context.Context, id uuid.UUID, fn func(*wizard.Session) error) (wizard.State, error) {
	unlock, err := u.sessions.Lock(ctx, id)
	if err != nil {
		return wizard.State{}, err
	}
	defer unlock()

	stored, err := u.sessions.Load(ctx, id)
	if err != nil {
		return wizard.State{}, err
	}

	s := wizard.Restore(u.schema, stored)
	if s.RecoverStale(wizard.LockTTL) {
		u.logger.Warn("stale signup submission reset", zap.String("session_id", id.String()))
	}
	fnErr := fn(s)

	st := s.State()
	if err := u.sessions.Save(context.WithoutCancel(ctx), st); err != nil {
		return st, err
	}
	return st, fnErr
}
