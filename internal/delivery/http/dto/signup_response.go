package dto

import (
	"time"

	"github.com/google/uuid"

	"pathexplorer/internal/wizard"
)

// Fields never echoed back to the client.
var secretFields = map[string]bool{
	"password":         true,
	"confirm_password": true,
}

type SignupStepResponse struct {
	Key     string            `json:"key"`
	Title   string            `json:"title"`
	Valid   bool              `json:"valid"`
	Values  map[string]string `json:"values"`
	Touched []string          `json:"touched"`
}

type SignupSessionResponse struct {
	ID          uuid.UUID            `json:"id"`
	CurrentStep int                  `json:"current_step"`
	StepKey     string               `json:"step_key"`
	IsLastStep  bool                 `json:"is_last_step"`
	Phase       string               `json:"phase"`
	Steps       []SignupStepResponse `json:"steps"`
	FieldErrors []FieldErrorResponse `json:"field_errors"`
	LastError   string               `json:"last_error,omitempty"`
	UpdatedAt   time.Time            `json:"updated_at"`
}

type FieldErrorResponse struct {
	Step    string `json:"step"`
	Field   string `json:"field"`
	Message string `json:"message"`
}

type SignupResultResponse struct {
	Session  *SignupSessionResponse `json:"session,omitempty"`
	Message  string                 `json:"message"`
	Redirect string                 `json:"redirect,omitempty"`
	Auth     *AuthResponse          `json:"auth,omitempty"`
}

type StepOneResponse struct {
	Token  string            `json:"token"`
	Values map[string]string `json:"values,omitempty"`
}

// NewSignupSessionResponse renders a session snapshot in schema order with
// secret fields blanked.
func NewSignupSessionResponse(schema *wizard.Schema, st wizard.State) SignupSessionResponse {
	out := SignupSessionResponse{
		ID:          st.ID,
		CurrentStep: st.CurrentStep,
		IsLastStep:  st.CurrentStep == schema.Len()-1,
		Phase:       string(st.Phase),
		Steps:       make([]SignupStepResponse, 0, schema.Len()),
		FieldErrors: NewFieldErrors(st.FieldErrors),
		LastError:   st.LastError,
		UpdatedAt:   st.UpdatedAt,
	}
	if step, ok := schema.StepAt(st.CurrentStep); ok {
		out.StepKey = step.Key
	}

	for _, step := range schema.Steps() {
		sr := SignupStepResponse{
			Key:     step.Key,
			Title:   step.Title,
			Valid:   st.Validation[step.Key],
			Values:  RedactRecord(st.StepData[step.Key]),
			Touched: make([]string, 0),
		}
		for _, f := range step.Fields {
			if st.Touched[step.Key][f.Name] {
				sr.Touched = append(sr.Touched, f.Name)
			}
		}
		out.Steps = append(out.Steps, sr)
	}
	return out
}

func NewFieldErrors(errs []wizard.FieldError) []FieldErrorResponse {
	out := make([]FieldErrorResponse, 0, len(errs))
	for _, e := range errs {
		out = append(out, FieldErrorResponse{Step: e.Step, Field: e.Field, Message: e.Message})
	}
	return out
}

func RedactRecord(rec wizard.Record) map[string]string {
	out := make(map[string]string, len(rec))
	for k, v := range rec {
		if secretFields[k] {
			v = ""
		}
		out[k] = v
	}
	return out
}
