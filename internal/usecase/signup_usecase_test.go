package usecase

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"

	"pathexplorer/internal/infrastructure/cache"
	"pathexplorer/internal/wizard"
)

func newTestSignup(t *testing.T, sub wizard.Submitter) (*Signup, *cache.Memory) {
	t.Helper()
	schema, err := wizard.NewSignUpSchema(wizard.NewRuleValidator())
	if err != nil {
		t.Fatalf("schema: %v", err)
	}
	kv := cache.NewMemory()
	u, err := NewSignupUsecase(schema,
		wizard.NewKVSessionStore(kv, time.Hour),
		wizard.NewKVFragmentStore(kv, time.Hour),
		sub, time.Second, nil)
	if err != nil {
		t.Fatalf("usecase: %v", err)
	}
	return u, kv
}

func pick(p wizard.Record, keys ...string) map[string]string {
	out := make(map[string]string, len(keys))
	for _, k := range keys {
		out[k] = p[k]
	}
	return out
}

func walkToLastStep(t *testing.T, u *Signup, id uuid.UUID) {
	t.Helper()
	ctx := context.Background()
	p := signupPayload()

	steps := []struct {
		key    string
		fields []string
	}{
		{wizard.StepPersonal, []string{"name", "last_name_1"}},
		{wizard.StepContact, []string{"email", "password", "confirm_password", "phone_number"}},
		{wizard.StepProfessional, []string{"seniority", "position", "location", "capability", "role"}},
	}
	for i, s := range steps {
		if _, err := u.SetFields(ctx, id, s.key, pick(p, s.fields...)); err != nil {
			t.Fatalf("set %s: %v", s.key, err)
		}
		if i < len(steps)-1 {
			if _, err := u.Advance(ctx, id); err != nil {
				t.Fatalf("advance from %s: %v", s.key, err)
			}
		}
	}
}

func TestSignup_StartAndGet(t *testing.T) {
	u, _ := newTestSignup(t, nil)

	st, err := u.Start(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if st.Phase != wizard.PhaseEditing || st.CurrentStep != 0 {
		t.Fatalf("unexpected initial state: %+v", st)
	}
	if st.StepData[wizard.StepProfessional]["role"] != wizard.RoleDeveloper {
		t.Fatalf("expected role default on a new session")
	}

	got, err := u.Get(context.Background(), st.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.ID != st.ID {
		t.Fatalf("expected %s, got %s", st.ID, got.ID)
	}

	if _, err := u.Get(context.Background(), uuid.New()); !errors.Is(err, wizard.ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestSignup_SetFieldsRejectsUnknownFieldAtomically(t *testing.T) {
	u, _ := newTestSignup(t, nil)
	st, _ := u.Start(context.Background())

	_, err := u.SetFields(context.Background(), st.ID, wizard.StepPersonal, map[string]string{"name": "Ana", "nickname": "A"})
	if !errors.Is(err, wizard.ErrUnknownField) {
		t.Fatalf("expected ErrUnknownField, got %v", err)
	}

	got, _ := u.Get(context.Background(), st.ID)
	if got.StepData[wizard.StepPersonal]["name"] != "" {
		t.Fatalf("expected no partial write, got %q", got.StepData[wizard.StepPersonal]["name"])
	}
}

func TestSignup_AdvanceBlockedByValidationPersistsErrors(t *testing.T) {
	u, _ := newTestSignup(t, nil)
	st, _ := u.Start(context.Background())

	_, err := u.Advance(context.Background(), st.ID)
	var verr *wizard.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}

	got, _ := u.Get(context.Background(), st.ID)
	if got.CurrentStep != 0 {
		t.Fatalf("expected to stay on step 0, got %d", got.CurrentStep)
	}
	if len(got.FieldErrors) == 0 {
		t.Fatalf("expected field errors to be stored")
	}
}

func TestSignup_BackKeepsData(t *testing.T) {
	u, _ := newTestSignup(t, nil)
	ctx := context.Background()
	st, _ := u.Start(ctx)

	if _, err := u.SetFields(ctx, st.ID, wizard.StepPersonal, map[string]string{"name": "Ana", "last_name_1": "Lopez"}); err != nil {
		t.Fatalf("set: %v", err)
	}
	if _, err := u.Advance(ctx, st.ID); err != nil {
		t.Fatalf("advance: %v", err)
	}
	got, err := u.Back(ctx, st.ID)
	if err != nil {
		t.Fatalf("back: %v", err)
	}
	if got.CurrentStep != 0 || got.StepData[wizard.StepPersonal]["name"] != "Ana" {
		t.Fatalf("unexpected state after back: %+v", got)
	}
}

func TestSignup_SubmitSuccess(t *testing.T) {
	var calls int32
	sub := wizard.SubmitterFunc(func(_ context.Context, p wizard.Record) (wizard.SubmitResult, error) {
		atomic.AddInt32(&calls, 1)
		if p["email"] != "ana@example.com" || p["role"] != "TFS" {
			t.Errorf("unexpected payload: %v", p)
		}
		return wizard.SubmitResult{Success: true, Message: "ok"}, nil
	})
	u, _ := newTestSignup(t, sub)
	st, _ := u.Start(context.Background())
	walkToLastStep(t, u, st.ID)

	got, res, err := u.Submit(context.Background(), st.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.Success || got.Phase != wizard.PhaseSucceeded {
		t.Fatalf("unexpected outcome: %+v %+v", res, got)
	}
	if got.StepData[wizard.StepContact]["password"] != "" {
		t.Fatalf("expected data cleared after success")
	}

	if _, _, err := u.Submit(context.Background(), st.ID); !errors.Is(err, wizard.ErrSessionClosed) {
		t.Fatalf("expected ErrSessionClosed on resubmit, got %v", err)
	}
	if calls != 1 {
		t.Fatalf("expected one submitter call, got %d", calls)
	}
}

func TestSignup_SubmitRejectedReturnsToEditing(t *testing.T) {
	sub := wizard.SubmitterFunc(func(context.Context, wizard.Record) (wizard.SubmitResult, error) {
		return wizard.SubmitResult{Success: false, Message: MessageUserExists}, nil
	})
	u, _ := newTestSignup(t, sub)
	st, _ := u.Start(context.Background())
	walkToLastStep(t, u, st.ID)

	got, _, err := u.Submit(context.Background(), st.ID)
	var subErr *wizard.SubmissionError
	if !errors.As(err, &subErr) || subErr.Kind != wizard.KindRejected {
		t.Fatalf("expected rejected submission, got %v", err)
	}

	stored, _ := u.Get(context.Background(), st.ID)
	for _, s := range []wizard.State{got, stored} {
		if s.Phase != wizard.PhaseEditing || s.LastError != MessageUserExists {
			t.Fatalf("unexpected state: %+v", s)
		}
		if s.StepData[wizard.StepContact]["email"] != "ana@example.com" {
			t.Fatalf("expected entered data to survive")
		}
	}
}

func TestSignup_SubmitWhileLockedIsBusy(t *testing.T) {
	u, kv := newTestSignup(t, nil)
	st, _ := u.Start(context.Background())

	if ok, _ := kv.SetIfNotExists(context.Background(), "signup:lock:"+st.ID.String(), "other", time.Minute); !ok {
		t.Fatalf("could not take lock")
	}
	if _, _, err := u.Submit(context.Background(), st.ID); !errors.Is(err, wizard.ErrSessionBusy) {
		t.Fatalf("expected ErrSessionBusy, got %v", err)
	}
}

func TestSignup_Abandon(t *testing.T) {
	u, _ := newTestSignup(t, nil)
	st, _ := u.Start(context.Background())

	if err := u.Abandon(context.Background(), st.ID); err != nil {
		t.Fatalf("abandon: %v", err)
	}
	if _, err := u.Get(context.Background(), st.ID); !errors.Is(err, wizard.ErrSessionNotFound) {
		t.Fatalf("expected session to be gone, got %v", err)
	}
}

func TestSignup_TwoPageFlow(t *testing.T) {
	var got wizard.Record
	sub := wizard.SubmitterFunc(func(_ context.Context, p wizard.Record) (wizard.SubmitResult, error) {
		got = p
		return wizard.SubmitResult{Success: true}, nil
	})
	u, _ := newTestSignup(t, sub)
	ctx := context.Background()
	p := signupPayload()

	token, err := u.SaveStepOne(ctx, p)
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	rec, err := u.LoadStepOne(ctx, token)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if _, ok := rec["seniority"]; ok {
		t.Fatalf("step one must not carry page two fields")
	}

	if _, err := u.CompleteRegistration(ctx, token, wizard.Record(pick(p, "seniority", "position", "location", "capability", "role"))); err != nil {
		t.Fatalf("complete: %v", err)
	}
	if got["email"] != "ana@example.com" || got["capability"] != "Engineering" {
		t.Fatalf("unexpected merged payload: %v", got)
	}

	if _, err := u.LoadStepOne(ctx, token); !errors.Is(err, wizard.ErrSessionExpired) {
		t.Fatalf("expected fragment to be consumed, got %v", err)
	}
}

func TestSignup_SecondSubmitDuringCallIsRejected(t *testing.T) {
	var (
		u       *Signup
		kv      *cache.Memory
		calls   int32
		during  wizard.Phase
		nested  error
		session uuid.UUID
	)
	sub := wizard.SubmitterFunc(func(ctx context.Context, _ wizard.Record) (wizard.SubmitResult, error) {
		atomic.AddInt32(&calls, 1)
		stored, err := u.Get(ctx, session)
		if err != nil {
			t.Errorf("get during submit: %v", err)
		}
		during = stored.Phase
		// The lock can lapse while the call is running.
		_ = kv.Delete(ctx, "signup:lock:"+session.String())
		_, _, nested = u.Submit(ctx, session)
		return wizard.SubmitResult{Success: true}, nil
	})
	u, kv = newTestSignup(t, sub)
	st, _ := u.Start(context.Background())
	session = st.ID
	walkToLastStep(t, u, st.ID)

	got, _, err := u.Submit(context.Background(), st.ID)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if during != wizard.PhaseSubmitting {
		t.Fatalf("expected stored phase %q during the call, got %q", wizard.PhaseSubmitting, during)
	}
	if !errors.Is(nested, wizard.ErrSubmissionInFlight) {
		t.Fatalf("expected ErrSubmissionInFlight for the second submit, got %v", nested)
	}
	if calls != 1 || got.Phase != wizard.PhaseSucceeded {
		t.Fatalf("expected one successful call, got calls=%d phase=%s", calls, got.Phase)
	}
}

func TestSignup_StaleSubmittingSessionRecovers(t *testing.T) {
	u, kv := newTestSignup(t, nil)
	ctx := context.Background()
	st, _ := u.Start(ctx)

	stuck, _ := u.Get(ctx, st.ID)
	stuck.Phase = wizard.PhaseSubmitting
	stuck.UpdatedAt = time.Now().UTC().Add(-2 * wizard.LockTTL)
	if err := kv.SetJSON(ctx, "signup:session:"+st.ID.String(), stuck, time.Hour); err != nil {
		t.Fatalf("seed: %v", err)
	}

	got, err := u.Back(ctx, st.ID)
	if err != nil {
		t.Fatalf("back: %v", err)
	}
	if got.Phase != wizard.PhaseEditing || got.LastError != wizard.MessageTransportFallback {
		t.Fatalf("expected recovered editing session, got %+v", got)
	}
}

func TestNewSignupUsecase_RejectsSubmitTimeout(t *testing.T) {
	schema, err := wizard.NewSignUpSchema(wizard.NewRuleValidator())
	if err != nil {
		t.Fatalf("schema: %v", err)
	}
	kv := cache.NewMemory()

	for _, timeout := range []time.Duration{0, -time.Second, wizard.LockTTL, 2 * wizard.LockTTL} {
		_, err := NewSignupUsecase(schema,
			wizard.NewKVSessionStore(kv, time.Hour),
			wizard.NewKVFragmentStore(kv, time.Hour),
			nil, timeout, nil)
		if !errors.Is(err, ErrInvalidSubmitTimeout) {
			t.Fatalf("timeout %s: expected ErrInvalidSubmitTimeout, got %v", timeout, err)
		}
	}
}
