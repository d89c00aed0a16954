package wizard

import (
	"encoding/json"
	"math"
	"time"

	ierr "github.com/flexprice/adminconsole/internal/errors"
	"github.com/shopspring/decimal"
	"github.com/spf13/cast"
)

// Values reach UpdateField either decoded from JSON (string, float64, bool, nil)
// or as typed Go values from callers inside the module. The helpers below
// accept both.

func invalidValue(field Field, value any) error {
	return ierr.NewErrorf("invalid value %v (%T) for field %s", value, value, field).
		WithHintf("Invalid value for %s", field).
		WithReportableDetails(map[string]any{
			"field": field,
		}).
		Mark(ierr.ErrValidation)
}

func toString(field Field, value any) (string, error) {
	if p, ok := value.(*string); ok && p == nil {
		return "", nil
	}
	v, err := cast.ToStringE(value)
	if err != nil {
		return "", invalidValue(field, value)
	}
	return v, nil
}

func toBool(field Field, value any) (bool, error) {
	if p, ok := value.(*bool); ok && p == nil {
		return false, nil
	}
	b, err := cast.ToBoolE(value)
	if err != nil {
		return false, invalidValue(field, value)
	}
	return b, nil
}

func toInt(field Field, value any) (*int, error) {
	switch v := value.(type) {
	case nil:
		return nil, nil
	case *int:
		if v == nil {
			return nil, nil
		}
	case string:
		if v == "" {
			return nil, nil
		}
	case float64:
		// cast truncates, a day count must be whole
		if v != math.Trunc(v) || math.IsInf(v, 0) {
			return nil, invalidValue(field, value)
		}
	}

	n, err := cast.ToIntE(value)
	if err != nil {
		return nil, invalidValue(field, value)
	}
	return &n, nil
}

func toDecimal(field Field, value any) (*decimal.Decimal, error) {
	var out decimal.Decimal
	switch v := value.(type) {
	case nil:
		return nil, nil
	case decimal.Decimal:
		out = v
	case *decimal.Decimal:
		if v == nil {
			return nil, nil
		}
		out = *v
	case float64:
		if math.IsInf(v, 0) || math.IsNaN(v) {
			return nil, invalidValue(field, value)
		}
		out = decimal.NewFromFloat(v)
	case int:
		out = decimal.NewFromInt(int64(v))
	case int64:
		out = decimal.NewFromInt(v)
	case json.Number:
		d, err := decimal.NewFromString(v.String())
		if err != nil {
			return nil, invalidValue(field, value)
		}
		out = d
	case string:
		if v == "" {
			return nil, nil
		}
		d, err := decimal.NewFromString(v)
		if err != nil {
			return nil, invalidValue(field, value)
		}
		out = d
	default:
		return nil, invalidValue(field, value)
	}
	return &out, nil
}

// dateTimeLocal is what a datetime-local input submits
const dateTimeLocal = "2006-01-02T15:04"

// toTime reads strings without a zone as UTC. Numbers are epoch milliseconds.
func toTime(field Field, value any) (*time.Time, error) {
	switch v := value.(type) {
	case nil:
		return nil, nil
	case *time.Time:
		if v == nil {
			return nil, nil
		}
	case string:
		if v == "" {
			return nil, nil
		}
		if t, err := time.Parse(dateTimeLocal, v); err == nil {
			return &t, nil
		}
	case float64:
		if math.IsInf(v, 0) || math.IsNaN(v) {
			return nil, invalidValue(field, value)
		}
		t := time.UnixMilli(int64(v)).UTC()
		return &t, nil
	case int:
		t := time.UnixMilli(int64(v)).UTC()
		return &t, nil
	case int64:
		t := time.UnixMilli(v).UTC()
		return &t, nil
	}

	t, err := cast.ToTimeInDefaultLocationE(value, time.UTC)
	if err != nil {
		return nil, invalidValue(field, value)
	}
	if t.IsZero() {
		return nil, nil
	}
	t = t.UTC()
	return &t, nil
}
