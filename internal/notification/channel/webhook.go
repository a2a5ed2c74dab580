package channel

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"code-review-pipeline/internal/model"
	"code-review-pipeline/internal/report"
)

const timeLayout = "2006-01-02 15:04:05"

// sign returns base64(HMAC-SHA256(secret, "{ts}\n{secret}")).
func sign(secret string, ts int64) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(strconv.FormatInt(ts, 10) + "\n" + secret))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

// signedURL appends the timestamp and escaped signature query parameters.
func signedURL(raw, secret string, tsMillis int64) string {
	sep := "?"
	if strings.Contains(raw, "?") {
		sep = "&"
	}
	return fmt.Sprintf("%s%stimestamp=%d&sign=%s", raw, sep, tsMillis, url.QueryEscape(sign(secret, tsMillis)))
}

type httpReply struct {
	status int
	body   []byte
}

func postJSON(ctx context.Context, hc *http.Client, endpoint string, payload any) (httpReply, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return httpReply{}, fmt.Errorf("failed to marshal payload: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(raw))
	if err != nil {
		return httpReply{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := hc.Do(req)
	if err != nil {
		return httpReply{}, &model.ExternalCallError{Op: "POST " + redact(endpoint), Err: err}
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	return httpReply{status: resp.StatusCode, body: body}, nil
}

// redact drops the query string, which carries tokens for most webhook providers.
func redact(endpoint string) string {
	if i := strings.IndexByte(endpoint, '?'); i >= 0 {
		return endpoint[:i]
	}
	return endpoint
}

func snippet(b []byte) string {
	return report.Truncate(string(b), 200, "...")
}

func header(msg Message) string {
	at := msg.Time
	if at.IsZero() {
		at = time.Now()
	}
	return fmt.Sprintf("Project: %s\nMR: %s\nTime: %s", msg.ProjectName, msg.ChangeTitle, at.Format(timeLayout))
}

type dingTalk struct {
	url    string
	secret string
	hc     *http.Client
	now    func() time.Time
}

func (*dingTalk) sealed()                 {}
func (*dingTalk) Type() model.ChannelType { return model.ChannelDingTalk }

func (a *dingTalk) Send(ctx context.Context, msg Message) (Receipt, error) {
	endpoint := a.url
	if a.secret != "" {
		endpoint = signedURL(a.url, a.secret, clock(a.now).UnixMilli())
	}

	text := fmt.Sprintf("### 🤖 AI Code Review Report\n\n**Project**: %s\n\n**MR**: %s\n\n---\n%s\n---\n",
		msg.ProjectName, msg.ChangeTitle, report.Truncate(msg.Body, CapDingTalk, TruncateMarker))
	payload := map[string]any{
		"msgtype":  "markdown",
		"markdown": map[string]string{"title": msg.Subject, "text": text},
	}

	reply, err := postJSON(ctx, a.hc, endpoint, payload)
	if err != nil {
		return Receipt{}, err
	}
	var out struct {
		ErrCode int    `json:"errcode"`
		ErrMsg  string `json:"errmsg"`
	}
	if err := json.Unmarshal(reply.body, &out); err != nil {
		return Receipt{}, &ProviderError{Provider: model.ChannelDingTalk, HTTPStatus: reply.status, Message: snippet(reply.body)}
	}
	if out.ErrCode != 0 {
		return Receipt{}, &ProviderError{Provider: model.ChannelDingTalk, HTTPStatus: reply.status, Code: out.ErrCode, Message: out.ErrMsg}
	}
	return Receipt{Message: "dingtalk message sent", Details: map[string]any{"errcode": out.ErrCode}}, nil
}

type feishu struct {
	url    string
	secret string
	hc     *http.Client
	now    func() time.Time
}

func (*feishu) sealed()                 {}
func (*feishu) Type() model.ChannelType { return model.ChannelFeishu }

func (a *feishu) Send(ctx context.Context, msg Message) (Receipt, error) {
	text := fmt.Sprintf("🤖 AI Code Review Report\n\n%s\n\n%s", header(msg), report.Truncate(msg.Body, CapFeishu, TruncateMarker))
	payload := map[string]any{
		"msg_type": "text",
		"content":  map[string]string{"text": text},
	}
	if a.secret != "" {
		ts := clock(a.now).Unix()
		payload["timestamp"] = strconv.FormatInt(ts, 10)
		payload["sign"] = sign(a.secret, ts)
	}

	reply, err := postJSON(ctx, a.hc, a.url, payload)
	if err != nil {
		return Receipt{}, err
	}
	if reply.status != http.StatusOK {
		return Receipt{}, &ProviderError{Provider: model.ChannelFeishu, HTTPStatus: reply.status, Message: snippet(reply.body)}
	}
	var out struct {
		Code          *int   `json:"code"`
		Msg           string `json:"msg"`
		StatusCode    *int   `json:"StatusCode"`
		StatusMessage string `json:"StatusMessage"`
	}
	if err := json.Unmarshal(reply.body, &out); err != nil {
		return Receipt{}, &ProviderError{Provider: model.ChannelFeishu, HTTPStatus: reply.status, Message: snippet(reply.body)}
	}
	switch {
	case out.Code != nil && *out.Code == 0, out.Code == nil && out.StatusCode != nil && *out.StatusCode == 0:
		return Receipt{Message: "feishu message sent", Details: map[string]any{"code": 0}}, nil
	case out.Code != nil:
		return Receipt{}, &ProviderError{Provider: model.ChannelFeishu, HTTPStatus: reply.status, Code: *out.Code, Message: out.Msg}
	case out.StatusCode != nil:
		return Receipt{}, &ProviderError{Provider: model.ChannelFeishu, HTTPStatus: reply.status, Code: *out.StatusCode, Message: out.StatusMessage}
	default:
		return Receipt{}, &ProviderError{Provider: model.ChannelFeishu, HTTPStatus: reply.status, Message: snippet(reply.body)}
	}
}

type slack struct {
	url string
	hc  *http.Client
}

func (*slack) sealed()                 {}
func (*slack) Type() model.ChannelType { return model.ChannelSlack }

func (a *slack) Send(ctx context.Context, msg Message) (Receipt, error) {
	at := msg.Time
	if at.IsZero() {
		at = time.Now()
	}
	mrkdwn := func(s string) map[string]string { return map[string]string{"type": "mrkdwn", "text": s} }
	payload := map[string]any{
		"text": "🤖 " + msg.Subject,
		"blocks": []any{
			map[string]any{"type": "header", "text": map[string]string{"type": "plain_text", "text": "🤖 AI Code Review Report"}},
			map[string]any{"type": "section", "fields": []any{
				mrkdwn("*Project:*\n" + msg.ProjectName),
				mrkdwn("*MR:*\n" + msg.ChangeTitle),
				mrkdwn("*Time:*\n" + at.Format(timeLayout)),
			}},
			map[string]any{"type": "divider"},
			map[string]any{"type": "section", "text": mrkdwn("```\n" + report.Truncate(msg.Body, CapSlack, TruncateMarker) + "\n```")},
		},
	}

	reply, err := postJSON(ctx, a.hc, a.url, payload)
	if err != nil {
		return Receipt{}, err
	}
	if reply.status != http.StatusOK {
		return Receipt{}, &ProviderError{Provider: model.ChannelSlack, HTTPStatus: reply.status, Message: snippet(reply.body)}
	}
	return Receipt{Message: "slack message sent", Details: map[string]any{"status_code": reply.status}}, nil
}

type weChat struct {
	url string
	hc  *http.Client
}

func (*weChat) sealed()                 {}
func (*weChat) Type() model.ChannelType { return model.ChannelWeChat }

func (a *weChat) Send(ctx context.Context, msg Message) (Receipt, error) {
	text := fmt.Sprintf("🤖 AI Code Review Report\n\n%s\n\n%s", header(msg), report.Truncate(msg.Body, CapWeChat, TruncateMarker))
	payload := map[string]any{
		"msgtype": "text",
		"text":    map[string]string{"content": text},
	}

	reply, err := postJSON(ctx, a.hc, a.url, payload)
	if err != nil {
		return Receipt{}, err
	}
	var out struct {
		ErrCode int    `json:"errcode"`
		ErrMsg  string `json:"errmsg"`
	}
	if err := json.Unmarshal(reply.body, &out); err != nil {
		return Receipt{}, &ProviderError{Provider: model.ChannelWeChat, HTTPStatus: reply.status, Message: snippet(reply.body)}
	}
	if out.ErrCode != 0 {
		return Receipt{}, &ProviderError{Provider: model.ChannelWeChat, HTTPStatus: reply.status, Code: out.ErrCode, Message: out.ErrMsg}
	}
	return Receipt{Message: "wechat message sent", Details: map[string]any{"errcode": 0}}, nil
}

func clock(now func() time.Time) time.Time {
	if now == nil {
		return time.Now()
	}
	return now()
}
