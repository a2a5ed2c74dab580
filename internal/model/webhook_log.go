package model

import "time"

// Skip reasons recorded on a WebhookLog.
const (
	SkipProjectUnknown   = "project_unknown"
	SkipReviewDisabled   = "review_disabled"
	SkipNoRulesEnabled   = "no_rules_enabled"
	SkipNoRuleMatched    = "no_rule_matched"
	SkipUnsupportedEvent = "unsupported_event"
	SkipDuplicate        = "duplicate_delivery"
	SkipJobInFlight      = "job_in_flight"
)

// WebhookLog is the audit record of one inbound delivery.
type WebhookLog struct {
	ID           string
	EventType    string
	ProjectID    int64
	ChangeRef    int64
	UserName     string
	SourceBranch string
	TargetBranch string
	Payload      []byte
	RemoteAddr   string
	RequestID    string
	Processed    bool
	SkipReason   string
	ErrorMessage string
	CreatedAt    time.Time
}
