package evaluator

import (
	"fmt"

	"github.com/emberhealth/fhirpath/pkg/types"
)

// callFunction dispatches a builtin by exact name over its receiver.
// The builtin set is closed; an unknown name is an unrecoverable error
// and never degrades to an empty result.
func callFunction(name string, receiver value, pos int) (value, error) {
	switch name {
	case "first":
		return getFromArray(receiver, 0, pos)
	case "last":
		return lastElement(receiver, pos)
	case "count":
		arr, err := asCollection(receiver, pos)
		if err != nil {
			return value{}, err
		}
		return owned(int64(len(arr))), nil
	case "exists":
		arr, err := asCollection(receiver, pos)
		if err != nil {
			return value{}, err
		}
		return owned(len(arr) > 0), nil
	case "empty":
		arr, err := asCollection(receiver, pos)
		if err != nil {
			return value{}, err
		}
		return owned(len(arr) == 0), nil
	default:
		return value{}, types.NewError(types.ErrUnknownFunction,
			fmt.Sprintf("couldn't evaluate function: %s", name), pos)
	}
}

// lastElement returns the final element of a collection. An empty
// collection is a lookup failure, so first()/last() on no matches become
// an empty result at the outer boundary rather than an error.
func lastElement(receiver value, pos int) (value, error) {
	arr, err := asCollection(receiver, pos)
	if err != nil {
		return value{}, err
	}
	if len(arr) == 0 {
		return value{}, types.NewError(types.ErrEmptyCollection, "last of empty collection", pos)
	}
	return getFromArray(receiver, len(arr)-1, pos)
}
