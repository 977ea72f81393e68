package banking

import "errors"

func asToolError(err error, target **ToolError) bool {
	return errors.As(err, target)
}

// IsTransient reports whether the failure is worth retrying: only
// service-availability faults qualify, typed rejections are final.
func IsTransient(err error) bool {
	kind := KindOf(err)
	return kind == "" || kind == ErrKindServiceUnavailable
}
