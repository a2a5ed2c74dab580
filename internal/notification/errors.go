package notification

import "errors"

var (
	ErrChannelNotFound = errors.New("notification channel not found")
	ErrNameRequired    = errors.New("channel name is required")
	ErrInvalidType     = errors.New("unsupported channel type")
)

// MessageNoChannels is the summary message when a project resolves to no channel.
const MessageNoChannels = "no enabled channels"
