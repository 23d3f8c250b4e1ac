package mail

import (
	"LittleStories/internal/api/config"
	"context"
	"fmt"
	log "log/slog"
	"time"

	"github.com/go-resty/resty/v2"
)

// Message 一封待发送的邮件
type Message struct {
	To      string `json:"to"`
	From    string `json:"from"`
	Subject string `json:"subject"`
	Text    string `json:"text"`
}

type Mailer interface {
	Send(ctx context.Context, msg *Message) error
}

// NewMailer 配置了 URL 时通过 HTTP 接口发送，否则只记录日志
func NewMailer(cfg config.MailConfig) Mailer {
	if cfg.URL == "" {
		return &LogMailer{from: cfg.From}
	}
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	client := resty.New().
		SetBaseURL(cfg.URL).
		SetTimeout(timeout).
		SetRetryCount(2).
		SetHeader("Content-Type", "application/json")
	if cfg.ApiKey != "" {
		client.SetAuthToken(cfg.ApiKey)
	}
	return &HTTPMailer{client: client, from: cfg.From}
}

type HTTPMailer struct {
	client *resty.Client
	from   string
}

func (s *HTTPMailer) Send(ctx context.Context, msg *Message) error {
	if msg.From == "" {
		msg.From = s.from
	}
	resp, err := s.client.R().
		SetContext(ctx).
		SetBody(msg).
		Post("")
	if err != nil {
		return fmt.Errorf("send mail: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("send mail: status %d: %s", resp.StatusCode(), resp.String())
	}
	log.InfoContext(ctx, "Mail sent", "to", msg.To, "subject", msg.Subject)
	return nil
}

// LogMailer 开发环境使用，邮件内容直接写入日志
type LogMailer struct {
	from string
}

func (s *LogMailer) Send(ctx context.Context, msg *Message) error {
	log.InfoContext(ctx, "Mail (not delivered, no mail url configured)",
		"to", msg.To,
		"subject", msg.Subject,
		"text", msg.Text,
	)
	return nil
}
