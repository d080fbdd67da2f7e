package module

import "errors"

var (
	ErrNoRoute = errors.New("you must implement the route property")
	ErrSkip    = errors.New("not a handler module")
)
