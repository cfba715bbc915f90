package wizard

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
)

type memKV struct {
	mu     sync.Mutex
	data   map[string][]byte
	err    error
	delErr error
}

func newMemKV() *memKV { return &memKV{data: map[string][]byte{}} }

func (m *memKV) GetJSON(_ context.Context, key string, out any) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return false, m.err
	}
	b, ok := m.data[key]
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(b, out); err != nil {
		return false, err
	}
	return true, nil
}

func (m *memKV) SetJSON(_ context.Context, key string, value any, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.data[key] = b
	return nil
}

func (m *memKV) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.delErr != nil {
		return m.delErr
	}
	delete(m.data, key)
	return nil
}

func (m *memKV) DeleteIfEquals(_ context.Context, key string, value string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if b, ok := m.data[key]; !ok || string(b) != value {
		return false, nil
	}
	delete(m.data, key)
	return true, nil
}

func (m *memKV) SetIfNotExists(_ context.Context, key string, value string, _ time.Duration) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return false, m.err
	}
	if _, ok := m.data[key]; ok {
		return false, nil
	}
	m.data[key] = []byte(value)
	return true, nil
}

func (m *memKV) raw(key string, b []byte) {
	m.mu.Lock()
	m.data[key] = b
	m.mu.Unlock()
}

func (m *memKV) has(key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.data[key]
	return ok
}

func mustSignUpSchema(t *testing.T) *Schema {
	t.Helper()
	s, err := NewSignUpSchema(nil)
	if err != nil {
		t.Fatalf("schema: %v", err)
	}
	return s
}

func validPersonal() Record {
	return Record{"name": "Ana", "last_name_1": "Lopez", "last_name_2": ""}
}

func validContact() Record {
	return Record{
		"email":            "ana@example.com",
		"password":         "s3cretpass",
		"confirm_password": "s3cretpass",
		"phone_number":     "5551234567",
	}
}

func validProfessional() Record {
	return Record{
		"seniority":  "5",
		"position":   "Backend Engineer",
		"location":   "Monterrey",
		"capability": "Cloud",
		"role":       RoleDeveloper,
	}
}

func merge(recs ...Record) Record {
	out := Record{}
	for _, r := range recs {
		for k, v := range r {
			out[k] = v
		}
	}
	return out
}

// fillStep sets every field of rec on the session's step.
func fillStep(t *testing.T, s *Session, step string, rec Record) {
	t.Helper()
	for k, v := range rec {
		if err := s.SetField(step, k, v); err != nil {
			t.Fatalf("set %s.%s: %v", step, k, err)
		}
	}
}

// completedSession returns a session sitting on the last step with every
// field valid.
func completedSession(t *testing.T) *Session {
	t.Helper()
	s := NewSession(mustSignUpSchema(t), uuid.New())
	fillStep(t, s, StepPersonal, validPersonal())
	if err := s.Advance(); err != nil {
		t.Fatalf("advance personal: %v", err)
	}
	fillStep(t, s, StepContact, validContact())
	if err := s.Advance(); err != nil {
		t.Fatalf("advance contact: %v", err)
	}
	fillStep(t, s, StepProfessional, validProfessional())
	return s
}
