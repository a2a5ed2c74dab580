package webhook

import (
	"time"

	"code-review-pipeline/internal/model"
)

const (
	DefaultRateLimitPerMin = 120
	DefaultDedupTTL        = 10 * time.Minute
	dedupSize              = 4096
)

// SecurityConfig holds webhook security settings.
type SecurityConfig struct {
	Secret          string   // shared X-Gitlab-Token value; empty disables verification
	AllowedIPs      []string // IP or CIDR allow list, empty allows all
	RateLimitPerMin int      // per source address
}

// Status is how an inbound delivery was acknowledged.
type Status string

const (
	StatusAccepted  Status = "accepted"
	StatusSkipped   Status = "skipped"
	StatusIgnored   Status = "ignored"
	StatusDuplicate Status = "duplicate"
	StatusCoalesced Status = "coalesced"
)

type ReceiveInput struct {
	Body        []byte
	EventHeader string // X-Gitlab-Event
	DeliveryID  string // X-Gitlab-Event-UUID
	RequestID   string
	RemoteAddr  string
}

type ReceiveOutput struct {
	Status     Status
	SkipReason string
	JobID      string
	LogID      string
}

type ListInput struct {
	ProjectID  int64
	EventType  string
	SkipReason string
	Limit      int
	Offset     int
}

type ListOutput struct {
	Logs   []model.WebhookLog
	Total  int
	Limit  int
	Offset int
}
