package wizard

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrSessionBusy     = errors.New("session is busy")
	ErrMalformed       = errors.New("malformed stored data")
)

// KV is the subset of a JSON key-value cache the stores need.
type KV interface {
	GetJSON(ctx context.Context, key string, out any) (bool, error)
	SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	SetIfNotExists(ctx context.Context, key string, value string, ttl time.Duration) (bool, error)
	// DeleteIfEquals removes key only while it still holds value.
	DeleteIfEquals(ctx context.Context, key string, value string) (bool, error)
}

type SessionStore interface {
	Load(ctx context.Context, id uuid.UUID) (State, error)
	Save(ctx context.Context, st State) error
	Delete(ctx context.Context, id uuid.UUID) error
	Lock(ctx context.Context, id uuid.UUID) (func(), error)
}

type FragmentStore interface {
	Put(ctx context.Context, token string, rec Record) error
	Get(ctx context.Context, token string) (Record, bool, error)
	Delete(ctx context.Context, token string) error
}

// LockTTL bounds how long one request may hold a session. Submission
// deadlines must stay below it.
const LockTTL = 30 * time.Second

const (
	sessionKeyPrefix  = "signup:session:"
	lockKeyPrefix     = "signup:lock:"
	fragmentKeyPrefix = "signup:step_one:"
)

type KVSessionStore struct {
	kv  KV
	ttl time.Duration
}

func NewKVSessionStore(kv KV, ttl time.Duration) *KVSessionStore {
	return &KVSessionStore{kv: kv, ttl: ttl}
}

func (s *KVSessionStore) Load(ctx context.Context, id uuid.UUID) (State, error) {
	var st State
	ok, err := s.kv.GetJSON(ctx, sessionKeyPrefix+id.String(), &st)
	if err != nil {
		return State{}, err
	}
	if !ok {
		return State{}, ErrSessionNotFound
	}
	return st, nil
}

func (s *KVSessionStore) Save(ctx context.Context, st State) error {
	return s.kv.SetJSON(ctx, sessionKeyPrefix+st.ID.String(), st, s.ttl)
}

func (s *KVSessionStore) Delete(ctx context.Context, id uuid.UUID) error {
	return s.kv.Delete(ctx, sessionKeyPrefix+id.String())
}

// Lock takes a short lived exclusive lock on one session so that two requests
// cannot run transitions on it at the same time. The returned release only
// removes the lock while this holder still owns it.
func (s *KVSessionStore) Lock(ctx context.Context, id uuid.UUID) (func(), error) {
	key := lockKeyPrefix + id.String()
	owner := uuid.NewString()
	ok, err := s.kv.SetIfNotExists(ctx, key, owner, LockTTL)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrSessionBusy
	}
	return func() { _, _ = s.kv.DeleteIfEquals(context.WithoutCancel(ctx), key, owner) }, nil
}

type KVFragmentStore struct {
	kv  KV
	ttl time.Duration
}

func NewKVFragmentStore(kv KV, ttl time.Duration) *KVFragmentStore {
	return &KVFragmentStore{kv: kv, ttl: ttl}
}

func (s *KVFragmentStore) Put(ctx context.Context, token string, rec Record) error {
	return s.kv.SetJSON(ctx, fragmentKeyPrefix+token, rec, s.ttl)
}

func (s *KVFragmentStore) Get(ctx context.Context, token string) (Record, bool, error) {
	var rec Record
	ok, err := s.kv.GetJSON(ctx, fragmentKeyPrefix+token, &rec)
	if err != nil {
		if isDecodeError(err) {
			return nil, false, ErrMalformed
		}
		return nil, false, err
	}
	return rec, ok, nil
}

func (s *KVFragmentStore) Delete(ctx context.Context, token string) error {
	return s.kv.Delete(ctx, fragmentKeyPrefix+token)
}

func isDecodeError(err error) bool {
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	return errors.As(err, &syntaxErr) || errors.As(err, &typeErr)
}
