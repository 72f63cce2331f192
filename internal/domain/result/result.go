// Package result defines the tagged value type produced by indicator
// calculators. A yearly indicator is either a computed number, NoData
// (undefined for that year, e.g. an empty cohort), or an error. NoData is
// never represented by a sentinel numeric value.
package result

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
)

// State identifies the variant held by a Value.
type State uint8

const (
	// StateValue means the indicator was computed.
	StateValue State = iota
	// StateNoData means the indicator is undefined for the year.
	StateNoData
	// StateError means the computation failed.
	StateError
)

// String returns the wire name of the state.
func (s State) String() string {
	switch s {
	case StateValue:
		return "value"
	case StateNoData:
		return "no_data"
	case StateError:
		return "error"
	default:
		return "unknown"
	}
}

// Value is the tagged result of one indicator computation for one year.
// The zero Value is NoData; constructors below should be preferred.
type Value struct {
	state State
	val   float64
	err   error
}

// Of returns a computed value.
func Of(v float64) Value {
	return Value{state: StateValue, val: v}
}

// NoData returns the undefined variant.
func NoData() Value {
	return Value{state: StateNoData}
}

// Err returns the error variant. A nil err degrades to NoData so callers
// cannot construct an error state without a cause.
func Err(err error) Value {
	if err == nil {
		return NoData()
	}
	return Value{state: StateError, err: err}
}

// State reports which variant v holds.
func (v Value) State() State { return v.state }

// Float returns the computed number and true, or 0 and false when v is not
// a computed value.
func (v Value) Float() (float64, bool) {
	if v.state != StateValue {
		return 0, false
	}
	return v.val, true
}

// IsNoData reports whether v is the undefined variant.
func (v Value) IsNoData() bool { return v.state == StateNoData }

// Unwrap returns the underlying error for the error variant, nil otherwise.
func (v Value) Unwrap() error { return v.err }

// Equal compares two values. Error variants compare by errors.Is in both
// directions so sentinel kinds match regardless of wrapping.
func (v Value) Equal(o Value) bool {
	if v.state != o.state {
		return false
	}
	switch v.state {
	case StateValue:
		return v.val == o.val
	case StateError:
		return errors.Is(v.err, o.err) || errors.Is(o.err, v.err)
	default:
		return true
	}
}

// String renders the value for logs.
func (v Value) String() string {
	switch v.state {
	case StateValue:
		return fmt.Sprintf("%g", v.val)
	case StateError:
		return "error: " + v.err.Error()
	default:
		return "no data"
	}
}

// valueJSON mirrors the wire shape consumed by report clients.
type valueJSON struct {
	State string   `json:"state"`
	Value *float64 `json:"value,omitempty"`
	Error string   `json:"error,omitempty"`
}

// MarshalJSON renders NoData as a null value with an explicit state tag so
// consumers cannot mistake it for zero.
func (v Value) MarshalJSON() ([]byte, error) {
	out := valueJSON{State: v.state.String()}
	switch v.state {
	case StateValue:
		f := v.val
		if math.IsNaN(f) || math.IsInf(f, 0) {
			out.State = StateNoData.String()
			break
		}
		out.Value = &f
	case StateError:
		out.Error = v.err.Error()
	}
	b, err := json.Marshal(out)
	if err != nil {
		return nil, fmt.Errorf("marshal result value: %w", err)
	}
	return b, nil
}

// UnmarshalJSON restores a Value from its wire shape.
func (v *Value) UnmarshalJSON(data []byte) error {
	var in valueJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return fmt.Errorf("unmarshal result value: %w", err)
	}
	switch in.State {
	case StateValue.String():
		if in.Value == nil {
			*v = NoData()
			return nil
		}
		*v = Of(*in.Value)
	case StateError.String():
		*v = Err(errors.New(in.Error))
	default:
		*v = NoData()
	}
	return nil
}
