package notification

import (
	"context"
	"fmt"
	"mime"
	"net"
	"net/smtp"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/xiebiao/storefront/internal/infrastructure/config"
	"github.com/xiebiao/storefront/pkg/metrics"
)

// Mailer 邮件发送
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// LogMailer 只把邮件写到日志，开发环境使用
type LogMailer struct {
	logger *zap.Logger
}

// NewLogMailer 创建日志邮件发送器
func NewLogMailer(logger *zap.Logger) *LogMailer {
	return &LogMailer{logger: logger}
}

// Send 记录邮件内容
func (m *LogMailer) Send(_ context.Context, msg Message) error {
	m.logger.Info("mail",
		zap.String("to", msg.To),
		zap.String("subject", msg.Subject),
		zap.String("body", msg.Body),
	)
	metrics.NotificationsTotal.WithLabelValues("log", "success").Inc()
	return nil
}

// SMTPMailer 通过SMTP发送纯文本邮件
type SMTPMailer struct {
	addr string
	auth smtp.Auth
	send func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

// NewSMTPMailer Username为空时不做认证
func NewSMTPMailer(cfg config.SMTPConfig) *SMTPMailer {
	var auth smtp.Auth
	if cfg.Username != "" {
		auth = smtp.PlainAuth("", cfg.Username, cfg.Password, cfg.Host)
	}
	return &SMTPMailer{
		addr: net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port)),
		auth: auth,
		send: smtp.SendMail,
	}
}

// Send 发送邮件
// net/smtp不支持context，这里只在发送前检查一次
func (m *SMTPMailer) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	err := m.send(m.addr, m.auth, msg.From, []string{msg.To}, buildMIME(msg))
	metrics.NotificationsTotal.WithLabelValues("mail", metrics.Result(err)).Inc()
	if err != nil {
		return fmt.Errorf("smtp send to %s: %w", msg.To, err)
	}
	return nil
}

func buildMIME(msg Message) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", msg.From)
	fmt.Fprintf(&b, "To: %s\r\n", msg.To)
	fmt.Fprintf(&b, "Subject: %s\r\n", mimeHeader(msg.Subject))
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=UTF-8\r\n")
	b.WriteString("Content-Transfer-Encoding: 8bit\r\n\r\n")
	b.WriteString(strings.ReplaceAll(msg.Body, "\n", "\r\n"))
	return []byte(b.String())
}

// mimeHeader 非ASCII主题按RFC 2047编码
func mimeHeader(s string) string {
	return mime.BEncoding.Encode("UTF-8", s)
}

// NewMailer 配置了SMTP主机时使用SMTPMailer
func NewMailer(cfg config.NotificationConfig, logger *zap.Logger) Mailer {
	if cfg.SMTP.Host == "" {
		return NewLogMailer(logger)
	}
	return NewSMTPMailer(cfg.SMTP)
}
