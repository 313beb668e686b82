package errors

import "fmt"

// Taxonomy codes. Every failure surfaced by the service carries one of
// these; the HTTP layer maps them to status codes in HandleError.
const (
	CodePolicyViolation    = "policy_violation"
	CodeSessionNotFound    = "session_not_found"
	CodeFileNotFound       = "file_not_found"
	CodeLinkNotFound       = "link_not_found"
	CodeLinkExpired        = "link_expired"
	CodeInvalidState       = "invalid_state"
	CodeRangeConflict      = "range_conflict"
	CodeIncompleteUpload   = "incomplete_upload"
	CodeStorageUnavailable = "storage_unavailable"
	CodeOverloaded         = "overloaded"
	CodeInternal           = "internal_error"
)

type UploadError struct {
	Code    string
	Message string
	Err     error
}

func (e *UploadError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *UploadError) Unwrap() error {
	return e.Err
}

// Is lets errors.Is match two UploadErrors by code.
func (e *UploadError) Is(target error) bool {
	t, ok := target.(*UploadError)
	return ok && t.Code == e.Code
}

var (
	ErrPolicyViolation = func(err error) *UploadError {
		return &UploadError{Code: CodePolicyViolation, Message: "upload rejected by policy", Err: err}
	}
	ErrSessionNotFound = func(err error) *UploadError {
		return &UploadError{Code: CodeSessionNotFound, Message: "upload session not found", Err: err}
	}
	ErrFileNotFound = func(err error) *UploadError {
		return &UploadError{Code: CodeFileNotFound, Message: "file not found", Err: err}
	}
	ErrLinkNotFound = func(err error) *UploadError {
		return &UploadError{Code: CodeLinkNotFound, Message: "share link not found", Err: err}
	}
	ErrLinkExpired = func(err error) *UploadError {
		return &UploadError{Code: CodeLinkExpired, Message: "share link has expired", Err: err}
	}
	ErrInvalidState = func(err error) *UploadError {
		return &UploadError{Code: CodeInvalidState, Message: "session is not accepting this operation", Err: err}
	}
	ErrRangeConflict = func(err error) *UploadError {
		return &UploadError{Code: CodeRangeConflict, Message: "byte range conflicts with an accepted chunk", Err: err}
	}
	ErrIncompleteUpload = func(err error) *UploadError {
		return &UploadError{Code: CodeIncompleteUpload, Message: "declared size is not fully covered", Err: err}
	}
	ErrStorageUnavailable = func(err error) *UploadError {
		return &UploadError{Code: CodeStorageUnavailable, Message: "blob store operation failed", Err: err}
	}
	ErrOverloaded = func(err error) *UploadError {
		return &UploadError{Code: CodeOverloaded, Message: "too many concurrent upload sessions", Err: err}
	}
	ErrInternal = func(err error) *UploadError {
		return &UploadError{Code: CodeInternal, Message: "internal server error", Err: err}
	}
)
