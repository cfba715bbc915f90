package wizard

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

type Phase string

const (
	PhaseEditing    Phase = "editing"
	PhaseSubmitting Phase = "submitting"
	PhaseSucceeded  Phase = "succeeded"
)

var (
	ErrValidation         = errors.New("validation failed")
	ErrUnknownStep        = errors.New("unknown step")
	ErrUnknownField       = errors.New("unknown field")
	ErrNotLastStep        = errors.New("submit is only allowed on the last step")
	ErrNoNextStep         = errors.New("already on the last step")
	ErrSubmissionInFlight = errors.New("submission already in progress")
	ErrSessionClosed      = errors.New("session already completed")
	ErrNotSubmitting      = errors.New("session is not submitting")
)

type ValidationError struct {
	Step   string
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	if e == nil {
		return ""
	}
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Message)
	}
	return fmt.Sprintf("%s: step %s: %s", ErrValidation, e.Step, strings.Join(parts, "; "))
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// State is the serializable snapshot of a form session.
type State struct {
	ID          uuid.UUID                  `json:"id"`
	CurrentStep int                        `json:"current_step"`
	Phase       Phase                      `json:"phase"`
	StepData    map[string]Record          `json:"step_data"`
	Touched     map[string]map[string]bool `json:"touched"`
	Validation  map[string]bool            `json:"validation"`
	FieldErrors []FieldError               `json:"field_errors,omitempty"`
	LastError   string                     `json:"last_error,omitempty"`
	CreatedAt   time.Time                  `json:"created_at"`
	UpdatedAt   time.Time                  `json:"updated_at"`
}

func (st State) clone() State {
	out := st
	out.StepData = make(map[string]Record, len(st.StepData))
	for k, v := range st.StepData {
		out.StepData[k] = v.clone()
	}
	out.Touched = make(map[string]map[string]bool, len(st.Touched))
	for k, v := range st.Touched {
		m := make(map[string]bool, len(v))
		for f, t := range v {
			m[f] = t
		}
		out.Touched[k] = m
	}
	out.Validation = make(map[string]bool, len(st.Validation))
	for k, v := range st.Validation {
		out.Validation[k] = v
	}
	out.FieldErrors = append([]FieldError(nil), st.FieldErrors...)
	return out
}

// Session drives one user through the steps of a Schema. It is not safe for
// concurrent use; callers serialize transitions.
type Session struct {
	schema *Schema
	state  State
	now    func() time.Time
}

func NewSession(schema *Schema, id uuid.UUID) *Session {
	s := &Session{schema: schema, now: time.Now}
	ts := s.now().UTC()
	st := State{
		ID:         id,
		Phase:      PhaseEditing,
		StepData:   make(map[string]Record, schema.Len()),
		Touched:    make(map[string]map[string]bool, schema.Len()),
		Validation: make(map[string]bool, schema.Len()),
		CreatedAt:  ts,
		UpdatedAt:  ts,
	}
	for _, step := range schema.steps {
		st.StepData[step.Key] = step.Defaults()
		st.Touched[step.Key] = map[string]bool{}
		st.Validation[step.Key] = false
	}
	s.state = st
	return s
}

// Restore rebuilds a session from a stored snapshot, filling any step the
// snapshot does not know about.
func Restore(schema *Schema, st State) *Session {
	st = st.clone()
	for _, step := range schema.steps {
		if _, ok := st.StepData[step.Key]; !ok {
			st.StepData[step.Key] = step.Defaults()
		}
		if _, ok := st.Touched[step.Key]; !ok {
			st.Touched[step.Key] = map[string]bool{}
		}
	}
	if st.CurrentStep < 0 {
		st.CurrentStep = 0
	}
	if st.CurrentStep >= schema.Len() {
		st.CurrentStep = schema.Len() - 1
	}
	if st.Phase == "" {
		st.Phase = PhaseEditing
	}
	return &Session{schema: schema, state: st, now: time.Now}
}

func (s *Session) State() State { return s.state.clone() }

func (s *Session) ID() uuid.UUID { return s.state.ID }

func (s *Session) CurrentStep() Step {
	st, _ := s.schema.StepAt(s.state.CurrentStep)
	return st
}

func (s *Session) IsLastStep() bool {
	return s.state.CurrentStep == s.schema.Len()-1
}

// SetField stores a user edit and marks the field touched.
func (s *Session) SetField(stepKey, field, value string) error {
	if err := s.editable(); err != nil {
		return err
	}
	step, ok := s.schema.Step(stepKey)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownStep, stepKey)
	}
	if _, ok := step.field(field); !ok {
		return fmt.Errorf("%w: %s.%s", ErrUnknownField, stepKey, field)
	}

	s.state.StepData[stepKey][field] = value
	s.state.Touched[stepKey][field] = true
	s.state.Validation[stepKey] = len(s.schema.ValidateStep(stepKey, s.merged(), s.state.Touched[stepKey])) == 0
	s.touch()
	return nil
}

// Advance moves to the next step when every required field of the current
// step has been touched and passes validation.
func (s *Session) Advance() error {
	if err := s.editable(); err != nil {
		return err
	}
	if s.IsLastStep() {
		return ErrNoNextStep
	}

	step := s.CurrentStep()
	errs := s.schema.ValidateStep(step.Key, s.merged(), s.state.Touched[step.Key])
	s.state.Validation[step.Key] = len(errs) == 0
	s.state.FieldErrors = errs
	s.touch()
	if len(errs) > 0 {
		return &ValidationError{Step: step.Key, Fields: errs}
	}

	s.state.CurrentStep++
	return nil
}

// Back moves one step backwards. Entered data is kept.
func (s *Session) Back() error {
	if err := s.editable(); err != nil {
		return err
	}
	if s.state.CurrentStep > 0 {
		s.state.CurrentStep--
	}
	s.state.FieldErrors = nil
	s.touch()
	return nil
}

// BeginSubmit re-validates every step and switches the session into the
// submitting phase, returning the merged payload. On failure the session moves
// to the step that holds the first invalid field.
func (s *Session) BeginSubmit() (Record, error) {
	switch s.state.Phase {
	case PhaseSubmitting:
		return nil, ErrSubmissionInFlight
	case PhaseSucceeded:
		return nil, ErrSessionClosed
	}
	if !s.IsLastStep() {
		return nil, ErrNotLastStep
	}

	merged := s.merged()
	for i, step := range s.schema.steps {
		errs := s.schema.ValidateStep(step.Key, merged, nil)
		s.state.Validation[step.Key] = len(errs) == 0
		if len(errs) > 0 {
			s.state.CurrentStep = i
			s.state.FieldErrors = errs
			s.touch()
			return nil, &ValidationError{Step: step.Key, Fields: errs}
		}
	}

	s.state.Phase = PhaseSubmitting
	s.state.FieldErrors = nil
	s.state.LastError = ""
	s.touch()
	return merged, nil
}

// Succeed finishes a submission: the session is closed and its data cleared.
func (s *Session) Succeed() error {
	if s.state.Phase != PhaseSubmitting {
		return ErrNotSubmitting
	}
	s.state.Phase = PhaseSucceeded
	for k := range s.state.StepData {
		s.state.StepData[k] = Record{}
		s.state.Touched[k] = map[string]bool{}
	}
	s.state.LastError = ""
	s.touch()
	return nil
}

// Fail returns a submitting session to editing on the same step with all
// entered data intact and message surfaced.
func (s *Session) Fail(message string) error {
	if s.state.Phase != PhaseSubmitting {
		return ErrNotSubmitting
	}
	s.state.Phase = PhaseEditing
	s.state.LastError = message
	s.touch()
	return nil
}

// RecoverStale returns a session stuck in submitting for at least maxAge to
// editing. Only the lock holder may call it; a live submission finishes well
// within the lock lifetime, so an old submitting phase means its owner died.
func (s *Session) RecoverStale(maxAge time.Duration) bool {
	if s.state.Phase != PhaseSubmitting || s.now().Sub(s.state.UpdatedAt) < maxAge {
		return false
	}
	_ = s.Fail(MessageTransportFallback)
	return true
}

func (s *Session) editable() error {
	switch s.state.Phase {
	case PhaseSubmitting:
		return ErrSubmissionInFlight
	case PhaseSucceeded:
		return ErrSessionClosed
	}
	return nil
}

func (s *Session) merged() Record {
	out := Record{}
	for _, step := range s.schema.steps {
		for k, v := range s.state.StepData[step.Key] {
			out[k] = v
		}
	}
	return out
}

func (s *Session) touch() {
	s.state.UpdatedAt = s.now().UTC()
}
