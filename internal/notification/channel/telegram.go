package channel

import (
	"context"
	"fmt"

	"code-review-pipeline/internal/model"
	"code-review-pipeline/internal/report"
	"code-review-pipeline/pkg/telegram"
)

type telegramChat struct {
	bot    *telegram.Bot
	chatID string
}

func (*telegramChat) sealed()                 {}
func (*telegramChat) Type() model.ChannelType { return model.ChannelTelegram }

// Send posts plain text; report markdown does not survive Telegram's Markdown parser.
func (a *telegramChat) Send(ctx context.Context, msg Message) (Receipt, error) {
	text := fmt.Sprintf("🤖 %s\n\n%s", msg.Subject, report.Truncate(msg.Body, CapTelegram, TruncateMarker))
	if err := a.bot.SendMessage(ctx, a.chatID, text, ""); err != nil {
		return Receipt{}, &model.ExternalCallError{Op: "telegram.sendMessage", Err: err}
	}
	return Receipt{Message: "telegram message sent", Details: map[string]any{"chat_id": a.chatID}}, nil
}
