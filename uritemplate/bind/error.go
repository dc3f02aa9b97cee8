package bind

import "github.com/ardnew/urit/uritemplate"

// Predefined errors (sentinel values).
var (
	ErrReadBinding   = uritemplate.NewError("failed to read binding source")
	ErrDecodeBinding = uritemplate.NewError("failed to decode binding")
	ErrBindingValue  = uritemplate.NewError("unsupported binding value")
	ErrBindingSyntax = uritemplate.NewError("malformed binding assignment")
	ErrExprCompile   = uritemplate.NewError("failed to compile expression")
	ErrExprEval      = uritemplate.NewError("failed to evaluate expression")
)
