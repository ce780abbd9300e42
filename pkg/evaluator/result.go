package evaluator

import (
	"fmt"

	"github.com/emberhealth/fhirpath/pkg/types"
)

// value is the copy-on-write result threaded through every recursive
// evaluation call. It is either a view into data owned by the caller's
// document or a value the evaluator synthesized itself (a flattened
// collection, a boolean, a count, a literal).
//
// The owned flag tracks the container, not its elements: elements spliced
// out of the document into a synthesized collection still alias the
// document. Destructive element extraction (swap-remove) is therefore
// permitted only on an owned container, and values extracted from any
// container are handed on as views.
type value struct {
	v     interface{}
	owned bool
}

// borrowed wraps a view into caller-owned data.
func borrowed(v interface{}) value {
	return value{v: v}
}

// owned wraps a value synthesized by the evaluator.
func owned(v interface{}) value {
	return value{v: v, owned: true}
}

// getFromObject fetches a field from a structured value. The result is a
// view; a missing field is a lookup failure.
func getFromObject(val value, key string, pos int) (value, error) {
	m, ok := val.v.(map[string]interface{})
	if !ok {
		return value{}, types.NewError(types.ErrShapeMismatch, "expected an object", pos)
	}
	v, ok := m[key]
	if !ok {
		return value{}, types.NewError(types.ErrFieldNotFound,
			fmt.Sprintf("couldn't retrieve member: %s", key), pos)
	}
	return borrowed(v), nil
}

// getFromArray fetches the element at index. Out of range is a lookup
// failure. When the receiver is an owned collection whose remainder is
// about to be discarded, the element is relocated out by an
// order-disregarding swap-remove; a borrowed view is never mutated.
func getFromArray(val value, index int, pos int) (value, error) {
	arr, ok := val.v.([]interface{})
	if !ok {
		return value{}, types.NewError(types.ErrShapeMismatch, "expected a collection", pos)
	}
	if index >= len(arr) {
		return value{}, types.NewError(types.ErrIndexOutOfRange,
			fmt.Sprintf("couldn't retrieve index: %d", index), pos)
	}

	if val.owned {
		element := arr[index]
		arr[index] = arr[len(arr)-1]
		return borrowed(element), nil
	}
	return borrowed(arr[index]), nil
}

// asCollection asserts that val holds a collection.
func asCollection(val value, pos int) ([]interface{}, error) {
	arr, ok := val.v.([]interface{})
	if !ok {
		return nil, types.NewError(types.ErrShapeMismatch, "expected a collection", pos)
	}
	return arr, nil
}
