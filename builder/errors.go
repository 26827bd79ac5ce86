package builder

import "errors"

var (
	ErrInvalidDimension = errors.New("page dimension must be two positive lengths [width_mm, height_mm]")
	ErrNoPage           = errors.New("no page present")
	ErrNoFont           = errors.New("no font set")
	ErrUnknownFont      = errors.New("unknown base font")
	ErrUnknownEncoding  = errors.New("unknown font encoding")
	ErrImagePending     = errors.New("image still loading")
)

// ConfigurationError reports a document that cannot be constructed.
type ConfigurationError struct {
	Err    error
	Detail string
}

func (e *ConfigurationError) Error() string {
	if e.Detail == "" {
		return "configuration: " + e.Err.Error()
	}
	return "configuration: " + e.Err.Error() + ": " + e.Detail
}

func (e *ConfigurationError) Unwrap() error { return e.Err }

// SequenceError reports an operation called before the state it depends on
// exists, such as drawing before the first page.
type SequenceError struct {
	Op  string
	Err error
}

func (e *SequenceError) Error() string { return e.Op + ": " + e.Err.Error() }
func (e *SequenceError) Unwrap() error { return e.Err }

// ValidationError reports an argument outside its allowed set.
type ValidationError struct {
	Op    string
	Value string
	Err   error
}

func (e *ValidationError) Error() string {
	return e.Op + ": " + e.Err.Error() + " " + `"` + e.Value + `"`
}

func (e *ValidationError) Unwrap() error { return e.Err }
