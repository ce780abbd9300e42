package evaluator

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/emberhealth/fhirpath/pkg/types"
)

// comparableKind tags a coerced scalar. Ordering is defined only between
// values of the same kind.
type comparableKind uint8

const (
	kindString comparableKind = iota
	kindInteger
	kindBoolean
	kindDate
	kindDateTime
)

// String returns the kind name for error messages.
func (k comparableKind) String() string {
	switch k {
	case kindString:
		return "string"
	case kindInteger:
		return "integer"
	case kindBoolean:
		return "boolean"
	case kindDate:
		return "date"
	case kindDateTime:
		return "datetime"
	default:
		return "(unknown)"
	}
}

// comparable is a document scalar coerced for ordering and equality.
type comparable struct {
	kind    comparableKind
	str     string
	integer int64
	boolean bool
	instant time.Time
}

const dateLayout = "2006-01-02"

// dateTimeLayouts are tried in order when coercing a textual scalar that
// is not a plain date.
var dateTimeLayouts = []string{
	"2006-01-02T15:04:05.999999999Z07:00",
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
}

// toComparable coerces a scalar into its comparable form. A textual
// scalar is tried as an ISO-8601 date, then a date-time, and falls back
// to plain string comparison; date-valued strings therefore compare
// chronologically rather than lexicographically. Numbers must be
// representable as a 64-bit integer.
func toComparable(v interface{}, pos int) (comparable, error) {
	switch s := v.(type) {
	case string:
		if d, err := time.Parse(dateLayout, s); err == nil {
			return comparable{kind: kindDate, instant: d}, nil
		}
		for _, layout := range dateTimeLayouts {
			if d, err := time.Parse(layout, s); err == nil {
				return comparable{kind: kindDateTime, instant: d}, nil
			}
		}
		return comparable{kind: kindString, str: s}, nil

	case int64:
		return comparable{kind: kindInteger, integer: s}, nil

	case float64:
		if s != math.Trunc(s) || s < math.MinInt64 || s >= math.MaxInt64 {
			return comparable{}, types.NewError(types.ErrNumberNotInteger,
				fmt.Sprintf("number %v cannot be represented as a 64-bit integer", s), pos)
		}
		return comparable{kind: kindInteger, integer: int64(s)}, nil

	case bool:
		return comparable{kind: kindBoolean, boolean: s}, nil

	default:
		return comparable{}, types.NewError(types.ErrUncomparableValue,
			fmt.Sprintf("comparison not supported for %T", v), pos)
	}
}

// compareValues applies an equality/ordering operator over two coerced
// scalars. Mismatched kinds are a coercion error.
func compareValues(op types.Operator, lhs, rhs comparable, pos int) (bool, error) {
	if lhs.kind != rhs.kind {
		return false, types.NewError(types.ErrIncomparableTypes,
			fmt.Sprintf("cannot compare %s with %s", lhs.kind, rhs.kind), pos)
	}

	var cmp int
	switch lhs.kind {
	case kindString:
		cmp = strings.Compare(lhs.str, rhs.str)
	case kindInteger:
		switch {
		case lhs.integer < rhs.integer:
			cmp = -1
		case lhs.integer > rhs.integer:
			cmp = 1
		}
	case kindBoolean:
		// false sorts before true
		cmp = boolToInt(lhs.boolean) - boolToInt(rhs.boolean)
	case kindDate, kindDateTime:
		cmp = lhs.instant.Compare(rhs.instant)
	}

	switch op {
	case types.OpEqual:
		return cmp == 0, nil
	case types.OpNotEqual:
		return cmp != 0, nil
	case types.OpLess:
		return cmp < 0, nil
	case types.OpLessEqual:
		return cmp <= 0, nil
	case types.OpGreater:
		return cmp > 0, nil
	case types.OpGreaterEqual:
		return cmp >= 0, nil
	default:
		return false, types.NewError(types.ErrNotImplemented,
			fmt.Sprintf("operator not implemented: %s", op), pos)
	}
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
