package try

// Fataler is something with Fatal, like *testing.T or *log.Logger.
type Fataler interface {
	Fatal(...any)
}

// Result holds a return pair of a function, (T, error).
type Result[T any] struct {
	value T
	err   error
}

// To captures a (T, error) pair.
//
//	conf := try.To(frontend.LoadFrontendConfig(path)).OrFatal(t)
func To[T any](value T, err error) Result[T] {
	return Result[T]{value: value, err: err}
}

func (r Result[T]) Get() (T, error) {
	return r.value, r.err
}

// OrFatal returns the value if the error is nil.
//
// Otherwise it calls ftl.Fatal with the error, and returns the zero value
// in case Fatal returns (it does not for *testing.T).
func (r Result[T]) OrFatal(ftl Fataler) T {
	if r.err == nil {
		return r.value
	}
	if h, ok := ftl.(interface{ Helper() }); ok {
		h.Helper()
	}
	ftl.Fatal(r.err)
	return *new(T)
}
