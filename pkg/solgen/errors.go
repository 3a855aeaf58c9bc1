package solgen

import "fmt"

// EmptyScopeError reports a variable reference attempted against a scope with
// no binding of the requested type. It is always a generator defect.
type EmptyScopeError struct {
	Type Type
}

func (e *EmptyScopeError) Error() string {
	return fmt.Sprintf("no binding of type %s in scope", e.Type)
}
