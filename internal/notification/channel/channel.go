package channel

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"code-review-pipeline/internal/model"
	"code-review-pipeline/pkg/gitlab"
	"code-review-pipeline/pkg/telegram"
)

// Body caps per surface, in runes.
const (
	CapDingTalk = 1500
	CapFeishu   = 1500
	CapWeChat   = 1500
	CapSlack    = 1000
	CapTelegram = 4000

	TruncateMarker = "\n\n...(truncated, see the full report)"

	defaultTimeout = 30 * time.Second
)

// Message is one report rendered for delivery.
type Message struct {
	Subject     string
	ProjectName string
	ChangeTitle string
	ProjectID   int64
	ChangeRef   int64
	Body        string
	Time        time.Time
}

// Receipt describes an accepted delivery.
type Receipt struct {
	Message string
	Details map[string]any
}

// Adapter delivers a Message to one configured channel.
// The set of adapters is closed; New is the only constructor.
type Adapter interface {
	Type() model.ChannelType
	Send(ctx context.Context, msg Message) (Receipt, error)
	sealed()
}

// NoteClient posts merge request comments.
type NoteClient interface {
	CreateMergeRequestNote(ctx context.Context, projectID, iid int64, body string) (gitlab.Note, error)
}

// SMTPConfig is the outgoing mail server shared by every email channel.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// Deps are the shared clients adapters are built with.
type Deps struct {
	HTTPClient *http.Client
	Notes      NoteClient
	SMTP       SMTPConfig
	// TelegramBaseURL replaces the public Bot API host, e.g. for a local Bot API server.
	TelegramBaseURL string
}

// ProviderError is a delivery the remote side rejected.
type ProviderError struct {
	Provider   model.ChannelType
	HTTPStatus int
	Code       int
	Message    string
}

func (e *ProviderError) Error() string {
	if e.Code != 0 {
		return fmt.Sprintf("%s API error %d: %s", e.Provider, e.Code, e.Message)
	}
	return fmt.Sprintf("%s API error: HTTP %d %s", e.Provider, e.HTTPStatus, e.Message)
}

// New builds the adapter for ch. A missing endpoint or an unknown type
// yields a *model.ConfigError.
func New(ch model.NotificationChannel, d Deps) (Adapter, error) {
	hc := d.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: defaultTimeout}
	}

	switch ch.Type {
	case model.ChannelDingTalk:
		u, err := webhookURL(ch)
		if err != nil {
			return nil, err
		}
		return &dingTalk{url: u, secret: ch.ConfigString("secret"), hc: hc}, nil
	case model.ChannelFeishu:
		u, err := webhookURL(ch)
		if err != nil {
			return nil, err
		}
		return &feishu{url: u, secret: ch.ConfigString("secret"), hc: hc}, nil
	case model.ChannelSlack:
		u, err := webhookURL(ch)
		if err != nil {
			return nil, err
		}
		return &slack{url: u, hc: hc}, nil
	case model.ChannelWeChat:
		u, err := webhookURL(ch)
		if err != nil {
			return nil, err
		}
		return &weChat{url: u, hc: hc}, nil
	case model.ChannelTelegram:
		return newTelegram(ch, d)
	case model.ChannelEmail:
		return newEmail(ch, d.SMTP)
	case model.ChannelGitLab:
		if d.Notes == nil {
			return nil, &model.ConfigError{Field: "gitlab.token", Reason: "source control client is not configured"}
		}
		return &gitLab{notes: d.Notes}, nil
	default:
		return nil, &model.ConfigError{Field: "type", Reason: fmt.Sprintf("unsupported channel type %q", ch.Type)}
	}
}

func webhookURL(ch model.NotificationChannel) (string, error) {
	if u := ch.ConfigString("webhook_url"); u != "" {
		return u, nil
	}
	if u := ch.ConfigString("webhook"); u != "" {
		return u, nil
	}
	return "", &model.ConfigError{Field: string(ch.Type) + ".webhook_url"}
}

func newTelegram(ch model.NotificationChannel, d Deps) (Adapter, error) {
	token := ch.ConfigString("bot_token")
	if token == "" {
		return nil, &model.ConfigError{Field: "telegram.bot_token"}
	}
	chatID := ch.ConfigString("chat_id")
	if chatID == "" {
		return nil, &model.ConfigError{Field: "telegram.chat_id"}
	}
	bot := telegram.NewBot(token)
	if base := ch.ConfigString("api_url"); base != "" {
		bot.SetAPIURL(strings.TrimRight(base, "/") + "/bot" + token)
	} else if d.TelegramBaseURL != "" {
		bot.SetAPIURL(strings.TrimRight(d.TelegramBaseURL, "/") + "/bot" + token)
	}
	return &telegramChat{bot: bot, chatID: chatID}, nil
}
