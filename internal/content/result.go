package content

import "encoding/json"

// State is where a load session is in its lifecycle
type State int

const (
	StateIdle State = iota
	StatePending
	StateLoaded
	StateFailed
)

func (s State) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateLoaded:
		return "loaded"
	case StateFailed:
		return "failed"
	default:
		return "idle"
	}
}

// MarshalText lets State appear as a string in JSON
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Result is the observable outcome of loading one post's content.
// Content is set only when State is StateLoaded; Reason, Kind and Err only
// when State is StateFailed.
type Result struct {
	State   State
	PostID  int
	Content string
	Reason  string
	Kind    Kind
	Err     error
}

func idle() Result {
	return Result{State: StateIdle}
}

func pending(id int) Result {
	return Result{State: StatePending, PostID: id}
}

func loaded(id int, content string) Result {
	return Result{State: StateLoaded, PostID: id, Content: content}
}

func failed(id int, kind Kind, err error) Result {
	return Result{
		State:  StateFailed,
		PostID: id,
		Reason: reason(kind, err),
		Kind:   kind,
		Err:    categorize(kind, err),
	}
}

type resultJSON struct {
	State   State  `json:"state"`
	PostID  int    `json:"post_id,omitempty"`
	Content string `json:"content,omitempty"`
	Reason  string `json:"reason,omitempty"`
	Kind    string `json:"kind,omitempty"`
}

// MarshalJSON omits the raw error.
func (r Result) MarshalJSON() ([]byte, error) {
	out := resultJSON{
		State:   r.State,
		PostID:  r.PostID,
		Content: r.Content,
		Reason:  r.Reason,
	}
	if r.Kind != KindNone {
		out.Kind = r.Kind.String()
	}
	return json.Marshal(out)
}
