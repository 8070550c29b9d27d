package content

import (
	"errors"
	"fmt"

	goerrors "github.com/goliatone/go-errors"
)

const (
	codeNotFound = "POST_NOT_FOUND"
	codeStatus   = "CONTENT_HTTP_STATUS"
	codeNetwork  = "CONTENT_NETWORK"
)

// ErrPostNotFound means the requested post does not resolve to a catalog record.
var ErrPostNotFound = errors.New("content: post not found")

// StatusError reports a fetch that completed with a non-2xx status.
type StatusError struct {
	Path   string
	Status int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("fetch %s: unexpected status %d", e.Path, e.Status)
}

// Kind classifies a failed load
type Kind int

const (
	KindNone Kind = iota
	KindNotFound
	KindHTTP
	KindNetwork
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindHTTP:
		return "http"
	case KindNetwork:
		return "network"
	default:
		return "none"
	}
}

// classify maps a raw fetch error onto a Kind. Anything that is not a
// status error counts as a network failure.
func classify(err error) Kind {
	var se *StatusError
	switch {
	case err == nil:
		return KindNone
	case errors.Is(err, ErrPostNotFound):
		return KindNotFound
	case errors.As(err, &se):
		return KindHTTP
	default:
		return KindNetwork
	}
}

// categorize attaches a go-errors category and text code so callers at the
// HTTP boundary can map failures without inspecting the Kind.
func categorize(kind Kind, err error) error {
	switch kind {
	case KindNotFound:
		return goerrors.Wrap(err, goerrors.CategoryNotFound, "post not found").
			WithTextCode(codeNotFound)
	case KindHTTP:
		return goerrors.Wrap(err, goerrors.CategoryExternal, "content fetch returned an error status").
			WithTextCode(codeStatus)
	case KindNetwork:
		return goerrors.Wrap(err, goerrors.CategoryExternal, "content fetch failed").
			WithTextCode(codeNetwork)
	default:
		return err
	}
}

// reason is the user-facing message for a failure.
func reason(kind Kind, err error) string {
	switch kind {
	case KindNotFound:
		return "post not found"
	case KindHTTP:
		var se *StatusError
		if errors.As(err, &se) {
			return fmt.Sprintf("could not load the post file (%d)", se.Status)
		}
		return "could not load the post file"
	default:
		return "an error occurred while loading the post"
	}
}
