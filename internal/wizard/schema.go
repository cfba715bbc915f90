package wizard

import (
	"errors"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Record holds the raw field values of one step, keyed by field name.
type Record map[string]string

func (r Record) clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

type FieldKind string

const (
	KindText FieldKind = "text"
	KindInt  FieldKind = "int"
)

// Field describes one input of a step. Rule uses go-playground/validator
// syntax and is applied to the parsed value; EqualTo names a sibling field
// (in any step) that the value must equal. Messages overrides Message for a
// failing rule tag. Secret values are checked exactly as typed, without
// trimming.
type Field struct {
	Name     string
	Kind     FieldKind
	Required bool
	Secret   bool
	Rule     string
	EqualTo  string
	Default  string
	Message  string
	Messages map[string]string
}

type Step struct {
	Key    string
	Title  string
	Fields []Field
}

type FieldError struct {
	Step    string `json:"step"`
	Field   string `json:"field"`
	Message string `json:"message"`
}

// FieldValidator is the per-field predicate. values carries every field of the
// session so cross-field rules can look up their counterpart.
type FieldValidator interface {
	ValidateField(f Field, value string, values Record) (bool, string)
}

type Schema struct {
	steps     []Step
	index     map[string]int
	validator FieldValidator
}

var errEmptySchema = errors.New("wizard: schema has no steps")

func NewSchema(fv FieldValidator, steps ...Step) (*Schema, error) {
	if len(steps) == 0 {
		return nil, errEmptySchema
	}
	if fv == nil {
		fv = NewRuleValidator()
	}
	idx := make(map[string]int, len(steps))
	for i, s := range steps {
		if strings.TrimSpace(s.Key) == "" {
			return nil, errors.New("wizard: step without key")
		}
		if _, dup := idx[s.Key]; dup {
			return nil, errors.New("wizard: duplicate step key " + s.Key)
		}
		idx[s.Key] = i
	}
	return &Schema{steps: steps, index: idx, validator: fv}, nil
}

func (s *Schema) Len() int { return len(s.steps) }

func (s *Schema) Steps() []Step {
	out := make([]Step, len(s.steps))
	copy(out, s.steps)
	return out
}

func (s *Schema) StepAt(i int) (Step, bool) {
	if i < 0 || i >= len(s.steps) {
		return Step{}, false
	}
	return s.steps[i], true
}

func (s *Schema) Step(key string) (Step, bool) {
	i, ok := s.index[key]
	if !ok {
		return Step{}, false
	}
	return s.steps[i], true
}

func (s *Schema) StepIndex(key string) (int, bool) {
	i, ok := s.index[key]
	return i, ok
}

func (st Step) field(name string) (Field, bool) {
	for _, f := range st.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// Defaults returns the initial record of a step.
func (st Step) Defaults() Record {
	rec := make(Record, len(st.Fields))
	for _, f := range st.Fields {
		rec[f.Name] = f.Default
	}
	return rec
}

// ValidateStep checks every field of the step against values. When touched is
// not nil a required field that was never touched fails even if its value
// would pass.
func (s *Schema) ValidateStep(key string, values Record, touched map[string]bool) []FieldError {
	st, ok := s.Step(key)
	if !ok {
		return []FieldError{{Step: key, Message: "unknown step"}}
	}

	var out []FieldError
	for _, f := range st.Fields {
		if touched != nil && f.Required && !touched[f.Name] {
			out = append(out, FieldError{Step: key, Field: f.Name, Message: f.message()})
			continue
		}
		if ok, msg := s.validator.ValidateField(f, values[f.Name], values); !ok {
			out = append(out, FieldError{Step: key, Field: f.Name, Message: msg})
		}
	}
	return out
}

func (f Field) message() string {
	if f.Message != "" {
		return f.Message
	}
	return f.Name + " is invalid"
}

// RuleValidator evaluates Field rules with go-playground/validator.
type RuleValidator struct {
	v *validator.Validate
}

// NewRuleValidator registers maxbytes on top of the built-in tags. max counts
// characters; maxbytes bounds the encoded length, which is what bcrypt limits.
func NewRuleValidator() *RuleValidator {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("maxbytes", func(fl validator.FieldLevel) bool {
		n, err := strconv.Atoi(fl.Param())
		return err == nil && len(fl.Field().String()) <= n
	})
	return &RuleValidator{v: v}
}

func (r *RuleValidator) ValidateField(f Field, value string, values Record) (bool, string) {
	other := values[f.EqualTo]
	if !f.Secret {
		value = strings.TrimSpace(value)
		other = strings.TrimSpace(other)
	}

	if value == "" {
		if f.Required {
			return false, f.message()
		}
		return true, ""
	}

	switch f.Kind {
	case KindInt:
		n, err := strconv.Atoi(value)
		if err != nil {
			return false, f.message()
		}
		if f.Rule != "" {
			if err := r.v.Var(n, f.Rule); err != nil {
				return false, f.message()
			}
		}
	default:
		if f.Rule != "" {
			if err := r.v.Var(value, f.Rule); err != nil {
				return false, f.ruleMessage(err)
			}
		}
	}

	if f.EqualTo != "" {
		if err := r.v.VarWithValue(value, other, "eqfield"); err != nil {
			return false, f.message()
		}
	}
	return true, ""
}

func (f Field) ruleMessage(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		if msg, ok := f.Messages[verrs[0].Tag()]; ok {
			return msg
		}
	}
	return f.message()
}
