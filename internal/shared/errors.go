package shared

import (
	"errors"
	"fmt"
)

// RequestError is used when we want a specific error message and StatusCode.
// sane defaults are listed below. For routes that need custom error messages,
// a request error can be generated and a handler expects the router to return
// the exact message inside the request error msg
//
// Error codes should be bubbled where the RequestError msg is expected to be
// returned to the user. If the user should see a generic error message but
// the error chain should include more detail for logging purposes, then a generic
// error should be added that provides context
type RequestError struct {
	StatusCode int
	Err        error
}

func (r *RequestError) Error() string {
	return fmt.Sprintf("status %d: err %v", r.StatusCode, r.Err)
}

var (
	ErrMissingAuth   = &RequestError{Err: errors.New("missing authorization header"), StatusCode: 401}
	ErrInvalidFormat = &RequestError{Err: errors.New("invalid authentication format"), StatusCode: 401}
	ErrInvalidKeyLen = &RequestError{Err: errors.New("invalid API key length"), StatusCode: 401}

	ErrMethodNotAllowed  = &RequestError{Err: errors.New("method not allowed"), StatusCode: 405}
	ErrMissingCredential = &RequestError{Err: errors.New("server is missing its upstream API key"), StatusCode: 500}
	ErrInvalidRequest    = &RequestError{Err: errors.New("invalid request body"), StatusCode: 400}

	ErrInternalServerError = &RequestError{Err: errors.New("internal server error"), StatusCode: 500}

	ErrFailedUpstreamReq         = &MetricsError{Msg: "failed to send http request to upstream", Code: "upstream_http_err"}
	ErrFailedUpstreamReqFromCode = &MetricsError{Msg: "upstream responded with non-2xx", Code: "upstream_status_err"}
	ErrFailedReadingResponse     = &MetricsError{Msg: "failed to read upstream response", Code: "upstream_read_err"}
)

type MetricsError struct {
	Msg  string
	Code string
}

func (m *MetricsError) Error() string {
	return m.String()
}

func (m *MetricsError) String() string {
	return m.Msg
}
