package executor

import "fmt"

// WhenTypeError reports a when expression that evaluated to something
// other than a bool.
type WhenTypeError struct {
	Expr string
}

func (e *WhenTypeError) Error() string {
	return fmt.Sprintf("when expression %q did not evaluate to a bool", e.Expr)
}
