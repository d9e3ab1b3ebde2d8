package relation

// Kind classifies a rejected mutation so the HTTP layer can map it to a
// response code without string matching.
type Kind string

const (
	KindNotFound   Kind = "not_found"
	KindForbidden  Kind = "forbidden"
	KindBadRequest Kind = "bad_request"
)

// Error is a guarded-mutation rejection. Anything else coming out of the
// engine is an unexpected store error and propagates unwrapped into the
// Internal bucket.
type Error struct {
	Kind   Kind
	Detail string
}

func (e *Error) Error() string {
	return e.Detail
}

func notFound(detail string) *Error {
	return &Error{Kind: KindNotFound, Detail: detail}
}

func forbidden(detail string) *Error {
	return &Error{Kind: KindForbidden, Detail: detail}
}

func badRequest(detail string) *Error {
	return &Error{Kind: KindBadRequest, Detail: detail}
}
