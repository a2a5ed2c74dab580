package model

import (
	"fmt"
	"time"
)

// ChannelType is the closed set of notification surfaces.
type ChannelType string

const (
	ChannelDingTalk ChannelType = "dingtalk"
	ChannelFeishu   ChannelType = "feishu"
	ChannelSlack    ChannelType = "slack"
	ChannelWeChat   ChannelType = "wechat"
	ChannelTelegram ChannelType = "telegram"
	ChannelEmail    ChannelType = "email"
	ChannelGitLab   ChannelType = "gitlab"
)

// ChannelTypes lists every supported type.
var ChannelTypes = []ChannelType{
	ChannelDingTalk, ChannelFeishu, ChannelSlack, ChannelWeChat,
	ChannelTelegram, ChannelEmail, ChannelGitLab,
}

// Valid reports whether t is a known channel type.
func (t ChannelType) Valid() bool {
	for _, k := range ChannelTypes {
		if k == t {
			return true
		}
	}
	return false
}

// NotificationChannel is a configured notification endpoint.
type NotificationChannel struct {
	ID          string
	Name        string
	Type        ChannelType
	Description string
	Config      map[string]any
	IsDefault   bool
	Active      bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ConfigString returns a string config value or "".
func (c NotificationChannel) ConfigString(key string) string {
	if v, ok := c.Config[key]; ok && v != nil {
		if s, ok := v.(string); ok {
			return s
		}
		return fmt.Sprint(v)
	}
	return ""
}

// ConfigStrings returns a list config value. A comma separated string is split.
func (c NotificationChannel) ConfigStrings(key string) []string {
	switch v := c.Config[key].(type) {
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok && s != "" {
				out = append(out, s)
			}
		}
		return out
	case string:
		return splitList(v)
	default:
		return nil
	}
}

// DispatchResult is the outcome of sending one report to one channel.
type DispatchResult struct {
	Channel      ChannelType    `json:"channel"`
	ChannelID    string         `json:"channel_id"`
	ChannelName  string         `json:"channel_name"`
	Success      bool           `json:"success"`
	Message      string         `json:"message"`
	ResponseTime time.Duration  `json:"response_time"`
	Details      map[string]any `json:"details,omitempty"`
}

// DispatchSummary aggregates every DispatchResult of one fan-out.
type DispatchSummary struct {
	Success           bool             `json:"success"`
	Message           string           `json:"message"`
	TotalChannels     int              `json:"total_channels"`
	SuccessChannels   int              `json:"success_channels"`
	FailedChannels    int              `json:"failed_channels"`
	FailedChannelList []string         `json:"failed_channel_list"`
	Results           []DispatchResult `json:"results"`
	DispatchTime      time.Duration    `json:"dispatch_time"`
}
