package bridge

// Result is the outcome of a platform channel call: exactly one of a value,
// an error, or "not implemented".
type Result struct {
	Value          any
	Err            *Error
	NotImplemented bool
}

// Success returns a Result carrying v.
func Success(v any) Result {
	return Result{Value: v}
}

// Failure returns a Result carrying err.
func Failure(err *Error) Result {
	return Result{Err: err}
}

// NotImplemented returns the Result for unknown methods.
func NotImplemented() Result {
	return Result{NotImplemented: true}
}
