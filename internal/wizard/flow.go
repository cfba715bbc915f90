package wizard

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrSessionExpired means the step one fragment is gone or unusable and the
// user has to start the flow again.
var ErrSessionExpired = errors.New("sign-up session expired")

// TwoPageFlow splits registration across two page loads. Page one stores its
// fields as a fragment keyed by a random token; page two reads it back,
// validates its own fields and submits the merged payload.
type TwoPageFlow struct {
	schema    *Schema
	pageOne   []string
	pageTwo   []string
	store     FragmentStore
	submitter Submitter
	timeout   time.Duration
	logger    *zap.Logger

	newToken func() string
}

func NewTwoPageFlow(schema *Schema, pageOne, pageTwo []string, store FragmentStore, submitter Submitter, timeout time.Duration, logger *zap.Logger) (*TwoPageFlow, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	for _, k := range append(append([]string{}, pageOne...), pageTwo...) {
		if _, ok := schema.Step(k); !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownStep, k)
		}
	}
	return &TwoPageFlow{
		schema:    schema,
		pageOne:   pageOne,
		pageTwo:   pageTwo,
		store:     store,
		submitter: submitter,
		timeout:   timeout,
		logger:    logger,
		newToken:  uuid.NewString,
	}, nil
}

// SaveStepOne validates the first page and persists it. The returned token
// identifies the fragment for the second page.
func (f *TwoPageFlow) SaveStepOne(ctx context.Context, rec Record) (string, error) {
	rec = f.pick(rec, f.pageOne)
	if verr := f.validate(f.pageOne, rec); verr != nil {
		return "", verr
	}

	token := f.newToken()
	if err := f.store.Put(ctx, token, rec); err != nil {
		return "", fmt.Errorf("store step one: %w", err)
	}
	return token, nil
}

// LoadStepOne returns the stored fragment. A missing or malformed fragment, or
// one that no longer satisfies the step one schema, is ErrSessionExpired.
func (f *TwoPageFlow) LoadStepOne(ctx context.Context, token string) (Record, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, ErrSessionExpired
	}

	rec, ok, err := f.store.Get(ctx, token)
	if err != nil {
		if errors.Is(err, ErrMalformed) {
			_ = f.store.Delete(ctx, token)
			return nil, ErrSessionExpired
		}
		return nil, fmt.Errorf("load step one: %w", err)
	}
	if !ok || rec == nil {
		return nil, ErrSessionExpired
	}

	if verr := f.validate(f.pageOne, rec); verr != nil {
		_ = f.store.Delete(ctx, token)
		return nil, ErrSessionExpired
	}
	return rec, nil
}

// Complete validates page two, merges it with the stored fragment and submits.
// The fragment is deleted only after a successful submission. Once the
// submitter succeeded the account exists, so a failed delete is logged and the
// fragment is left to its TTL.
func (f *TwoPageFlow) Complete(ctx context.Context, token string, stepTwo Record) (SubmitResult, error) {
	stepOne, err := f.LoadStepOne(ctx, token)
	if err != nil {
		return SubmitResult{}, err
	}

	stepTwo = f.pick(stepTwo, f.pageTwo)
	if verr := f.validate(f.pageTwo, stepTwo); verr != nil {
		return SubmitResult{}, verr
	}

	payload := stepOne.clone()
	for k, v := range stepTwo {
		payload[k] = v
	}

	res, serr := call(ctx, f.submitter, payload, f.timeout)
	if serr != nil {
		return res, serr
	}

	if err := f.store.Delete(context.WithoutCancel(ctx), token); err != nil {
		f.logger.Warn("step one cleanup failed", zap.Error(err))
	}
	return res, nil
}

func (f *TwoPageFlow) validate(keys []string, rec Record) *ValidationError {
	for _, k := range keys {
		if errs := f.schema.ValidateStep(k, rec, nil); len(errs) > 0 {
			return &ValidationError{Step: k, Fields: errs}
		}
	}
	return nil
}

func (f *TwoPageFlow) pick(rec Record, keys []string) Record {
	out := Record{}
	for _, k := range keys {
		st, _ := f.schema.Step(k)
		for _, fld := range st.Fields {
			v, ok := rec[fld.Name]
			if !ok {
				v = fld.Default
			}
			out[fld.Name] = v
		}
	}
	return out
}
