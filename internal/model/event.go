package model

import "time"

// EventSource is the platform an inbound event came from.
type EventSource string

const (
	SourceGitLab EventSource = "gitlab"
	SourceManual EventSource = "manual"
)

// Event kinds understood by the pipeline.
const (
	EventMergeRequest = "merge_request"
	EventPush         = "push"
	EventNote         = "note"
)

// EventProject is the project block of an inbound envelope.
type EventProject struct {
	ID                int64  `json:"id"`
	Name              string `json:"name"`
	URL               string `json:"url"`
	WebURL            string `json:"web_url"`
	HTTPURL           string `json:"http_url"`
	PathWithNamespace string `json:"path_with_namespace"`
	Namespace         string `json:"namespace"`
}

// CloneURL picks the best URL to clone the project from.
func (p EventProject) CloneURL() string {
	switch {
	case p.HTTPURL != "":
		return p.HTTPURL
	case p.WebURL != "":
		return p.WebURL
	default:
		return p.URL
	}
}

// EventUser is the user block of an inbound envelope.
type EventUser struct {
	Name     string `json:"name"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// Event is a parsed inbound webhook envelope.
type Event struct {
	Source     EventSource
	EventType  string
	Project    EventProject
	User       EventUser
	Attributes map[string]any
	Payload    map[string]any // full decoded body, used for rule matching
	DeliveryID string
	RequestID  string
	RemoteAddr string
	ReceivedAt time.Time
}

// ChangeRef returns the merge request iid, or 0 when the event carries none.
func (e Event) ChangeRef() int64 {
	return int64Attr(e.Attributes, "iid")
}

func (e Event) Action() string       { return stringAttr(e.Attributes, "action") }
func (e Event) Title() string        { return stringAttr(e.Attributes, "title") }
func (e Event) SourceBranch() string { return stringAttr(e.Attributes, "source_branch") }
func (e Event) TargetBranch() string { return stringAttr(e.Attributes, "target_branch") }

// Author prefers the last commit author and falls back to the event user.
func (e Event) Author() string {
	if lc, ok := e.Attributes["last_commit"].(map[string]any); ok {
		if a, ok := lc["author"].(map[string]any); ok {
			if name := stringAttr(a, "name"); name != "" {
				return name
			}
		}
	}
	if e.User.Name != "" {
		return e.User.Name
	}
	return e.User.Username
}

func stringAttr(m map[string]any, key string) string {
	if v, ok := m[key].(string); ok {
		return v
	}
	return ""
}

func int64Attr(m map[string]any, key string) int64 {
	switch v := m[key].(type) {
	case float64:
		return int64(v)
	case int:
		return int64(v)
	case int64:
		return v
	default:
		return 0
	}
}
