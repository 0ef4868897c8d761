package tools

import "fmt"

// Kind classifies the outcome of a tool call.
type Kind string

const (
	KindOK            Kind = "ok"
	KindValidation    Kind = "validation"     // bad or missing argument
	KindNotFound      Kind = "not_found"      // file, directory, job or skill absent
	KindWrongKind     Kind = "wrong_kind"     // file where a directory was expected, or vice versa
	KindExternal      Kind = "external"       // HTTP status or network failure
	KindTimeout       Kind = "timeout"        // process exceeded its deadline
	KindSafetyBlocked Kind = "safety_blocked" // refused by the command deny-list
	KindAmbiguous     Kind = "ambiguous"      // edit target matched more than once
	KindInternal      Kind = "internal"       // unexpected I/O or encoding failure
)

// Result is what every tool returns. Text is always safe to hand back to a
// model verbatim; Kind lets programmatic callers branch without parsing it.
type Result struct {
	Kind Kind
	Text string
}

// OK wraps a successful output.
func OK(text string) *Result {
	return &Result{Kind: KindOK, Text: text}
}

// Fail builds a non-ok result with a formatted message.
func Fail(kind Kind, format string, args ...any) *Result {
	return &Result{Kind: kind, Text: fmt.Sprintf(format, args...)}
}

// String returns the rendered text.
func (r *Result) String() string {
	if r == nil {
		return ""
	}
	return r.Text
}

// IsError reports whether the call did not succeed.
func (r *Result) IsError() bool {
	return r == nil || r.Kind != KindOK
}

func required(param string) *Result {
	return Fail(KindValidation, "Error: %s is required", param)
}
