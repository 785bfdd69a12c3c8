package validation

import (
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"
)

// Mode selects which fields a schema treats as required.
type Mode int

const (
	// Full expects a complete server record, audit fields included.
	Full Mode = iota
	// Create is for outbound payloads: the server assigns id and audit
	// fields, so they are not checked at all.
	Create
	// Update treats every field as optional except the id.
	Update
)

func (m Mode) String() string {
	switch m {
	case Full:
		return "full"
	case Create:
		return "create"
	case Update:
		return "update"
	default:
		return "unknown"
	}
}

// Issue is a single rule violation, addressed by field path so a form can
// attach the message to the right input.
type Issue struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

func (i Issue) String() string {
	return fmt.Sprintf("%s: %s", i.Path, i.Message)
}

// Kind is the expected wire type of a field.
type Kind int

const (
	String Kind = iota
	Int
	Bool
	Datetime
	Email
)

// Field is one declarative rule row. Rules are evaluated in declaration
// order and each field contributes at most one issue per pass.
type Field struct {
	Path     string
	Kind     Kind
	Label    string // human name used in generated messages, defaults to Path
	Required bool   // required in Full mode (Create/Update relax this)
	Identity bool   // the record id: skipped in Create, required in Update
	Audit    bool   // server-assigned bookkeeping: skipped in Create
	Nullable bool   // explicit null is allowed and treated as absent
	MinLen   int
	MaxLen   int // 0 means unbounded
	MinInt   *int

	// Optional overrides for the generated texts.
	RequiredMessage string
	TypeMessage     string
	MaxMessage      string
	MinMessage      string
}

// Invariant is a named cross-field rule. It only fires when every field it
// references is present and non-null; otherwise it is vacuously true.
type Invariant struct {
	Name    string
	Path    string
	Message string
	Fields  []string
	Check   func(rec map[string]any) bool
}

// Schema is the full rule table for one entity.
type Schema struct {
	Entity     string
	Fields     []Field
	Invariants []Invariant
}

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Validate evaluates every rule against the record and collects all
// violations; it never stops at the first error.
func (s *Schema) Validate(rec map[string]any, mode Mode) []Issue {
	var issues []Issue

	for _, f := range s.Fields {
		if mode == Create && (f.Identity || f.Audit) {
			continue
		}
		if issue := f.check(rec, mode); issue != nil {
			issues = append(issues, *issue)
		}
	}

	for _, inv := range s.Invariants {
		if !inv.applies(rec) {
			continue
		}
		if !inv.Check(rec) {
			issues = append(issues, Issue{Path: inv.Path, Message: inv.Message})
		}
	}

	return issues
}

func (f *Field) required(mode Mode) bool {
	switch mode {
	case Update:
		return f.Identity
	case Create:
		return f.Required
	default:
		return f.Required || f.Identity
	}
}

func (f *Field) check(rec map[string]any, mode Mode) *Issue {
	raw, ok := rec[f.Path]
	if !ok || raw == nil {
		if raw == nil && ok && f.Nullable {
			return nil
		}
		if f.required(mode) {
			return f.issue(f.RequiredMessage, "%s is required")
		}
		return nil
	}

	switch f.Kind {
	case String:
		s, ok := raw.(string)
		if !ok {
			return f.issue(f.TypeMessage, "%s must be a string")
		}
		// Length limits count characters, not bytes, so multi-byte names
		// near a limit are not falsely rejected.
		length := utf8.RuneCountInString(s)
		if length < f.MinLen {
			if f.MinLen == 1 {
				return f.issue(f.RequiredMessage, "%s is required")
			}
			return f.issue(f.MinMessage, "%s is too short")
		}
		if f.MaxLen > 0 && length > f.MaxLen {
			return &Issue{Path: f.Path, Message: f.maxLenMessage()}
		}
	case Int:
		n, ok := intValue(raw)
		if !ok {
			return f.issue(f.TypeMessage, "%s must be an integer")
		}
		if f.MinInt != nil && n < *f.MinInt {
			return f.issue(f.MinMessage, f.defaultMinMessage())
		}
	case Bool:
		if _, ok := raw.(bool); !ok {
			return f.issue(f.TypeMessage, "%s must be a boolean")
		}
	case Datetime:
		s, ok := raw.(string)
		if !ok {
			return f.issue(f.TypeMessage, "%s must be a valid datetime")
		}
		if _, err := time.Parse(time.RFC3339, s); err != nil {
			return f.issue(f.TypeMessage, "%s must be a valid datetime")
		}
	case Email:
		s, ok := raw.(string)
		if !ok || !emailPattern.MatchString(s) {
			return f.issue(f.TypeMessage, "Must be a valid email address")
		}
	}

	return nil
}

func (f *Field) label() string {
	if f.Label != "" {
		return f.Label
	}
	return f.Path
}

func (f *Field) issue(override, format string) *Issue {
	msg := override
	if msg == "" {
		if strings.Contains(format, "%s") {
			msg = fmt.Sprintf(format, f.label())
		} else {
			msg = format
		}
	}
	return &Issue{Path: f.Path, Message: msg}
}

func (f *Field) maxLenMessage() string {
	if f.MaxMessage != "" {
		return f.MaxMessage
	}
	return fmt.Sprintf("%s must be %d characters or less", f.label(), f.MaxLen)
}

func (f *Field) defaultMinMessage() string {
	if f.MinInt != nil && *f.MinInt == 0 {
		return fmt.Sprintf("%s cannot be negative", f.label())
	}
	return fmt.Sprintf("%s must be a positive integer", f.label())
}

func (inv *Invariant) applies(rec map[string]any) bool {
	for _, path := range inv.Fields {
		v, ok := rec[path]
		if !ok || v == nil {
			return false
		}
	}
	return true
}

// intValue coerces the usual JSON/form representations of an integer.
// Numeric-looking strings (HTML number inputs) coerce; anything else fails
// rather than collapsing to zero.
func intValue(raw any) (int, bool) {
	switch v := raw.(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case float64:
		if v != math.Trunc(v) {
			return 0, false
		}
		return int(v), true
	case json.Number:
		n, err := v.Int64()
		if err != nil {
			return 0, false
		}
		return int(n), true
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return 0, false
		}
		return n, true
	default:
		return 0, false
	}
}

// timeAt reads an RFC3339 datetime out of a record for invariant checks.
func timeAt(rec map[string]any, path string) (time.Time, bool) {
	s, ok := rec[path].(string)
	if !ok {
		return time.Time{}, false
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

func intAt(rec map[string]any, path string) (int, bool) {
	raw, ok := rec[path]
	if !ok || raw == nil {
		return 0, false
	}
	return intValue(raw)
}

// RecordOf flattens any JSON-serializable value into the raw map form the
// engine works on.
func RecordOf(v any) (map[string]any, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var rec map[string]any
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, err
	}
	return rec, nil
}
