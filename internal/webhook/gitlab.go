package webhook

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"code-review-pipeline/internal/model"
)

// gitlabEvents maps the X-Gitlab-Event header to an event kind for bodies
// without object_kind.
var gitlabEvents = map[string]string{
	"Merge Request Hook": model.EventMergeRequest,
	"Push Hook":          model.EventPush,
	"Note Hook":          model.EventNote,
}

type envelope struct {
	ObjectKind string             `json:"object_kind"`
	EventType  string             `json:"event_type"`
	Project    model.EventProject `json:"project"`
	ProjectID  int64              `json:"project_id"`
	User       model.EventUser    `json:"user"`
	UserName   string             `json:"user_name"`
}

// ParseGitLab decodes a GitLab webhook body into an Event. Only the envelope
// shape is checked; deciding whether the event matters is the pipeline's job.
func ParseGitLab(body []byte, header string, receivedAt time.Time) (model.Event, error) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 || body[0] != '{' {
		return model.Event{}, ErrMalformedPayload
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return model.Event{}, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}
	var payload map[string]any
	if err := json.Unmarshal(body, &payload); err != nil {
		return model.Event{}, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}

	kind := env.ObjectKind
	if kind == "" {
		kind = env.EventType
	}
	if kind == "" {
		kind = gitlabEvents[strings.TrimSpace(header)]
	}
	if kind == "" {
		return model.Event{}, fmt.Errorf("%w: no event kind", ErrMalformedPayload)
	}

	if env.Project.ID == 0 {
		env.Project.ID = env.ProjectID
	}
	if env.User.Name == "" {
		env.User.Name = env.UserName
	}
	attrs, _ := payload["object_attributes"].(map[string]any)
	if attrs == nil {
		attrs = map[string]any{}
	}

	return model.Event{
		Source:     model.SourceGitLab,
		EventType:  kind,
		Project:    env.Project,
		User:       env.User,
		Attributes: attrs,
		Payload:    payload,
		ReceivedAt: receivedAt,
	}, nil
}
