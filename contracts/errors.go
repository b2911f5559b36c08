package contracts

import (
	"fmt"
)

// ErrorInfo describes an error reported by the remote side of an exchange.
// Only Ename is required.
type ErrorInfo struct {
	// Ename is the error class name.
	Ename string `json:"ename"`

	// Evalue is the error message text.
	Evalue string `json:"evalue,omitempty"`

	// Traceback is an ordered sequence of stack-frame strings.
	Traceback []string `json:"traceback,omitempty"`
}

// NewErrorInfo captures a Go error as an ErrorInfo.
func NewErrorInfo(err error) ErrorInfo {
	if err == nil {
		return ErrorInfo{}
	}
	return ErrorInfo{
		Ename:  fmt.Sprintf("%T", err),
		Evalue: err.Error(),
	}
}

// WithTraceback returns a copy of the ErrorInfo with the given stack frames.
func (e ErrorInfo) WithTraceback(frames []string) ErrorInfo {
	e.Traceback = append([]string(nil), frames...)
	return e
}

// String returns the textual representation stamped into content.error.
func (e ErrorInfo) String() string {
	if e.Evalue == "" {
		return e.Ename
	}
	return fmt.Sprintf("%s: %s", e.Ename, e.Evalue)
}
