package share

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"go.uber.org/zap"

	"github.com/jask/cardcraft/internal/logging"
)

const (
	HeaderTitle    = "Share-Title"
	HeaderText     = "Share-Text"
	HeaderFilename = "Share-Filename"
	HeaderMIME     = "Share-Content-Type"

	flushTimeout = 5 * time.Second
)

// NATSConfig selects the server and subject shared cards are published to.
type NATSConfig struct {
	URL     string
	Subject string
	Token   string
}

// NATSSurface publishes shared cards on a subject. Each file becomes one
// message; a text-only share is published as the message body.
type NATSSurface struct {
	conn    *nats.Conn
	subject string
	log     *zap.Logger
}

func ConnectNATS(cfg NATSConfig, log *zap.Logger) (*NATSSurface, error) {
	if strings.TrimSpace(cfg.URL) == "" {
		return nil, ErrShareUnsupported
	}
	subject := cfg.Subject
	if subject == "" {
		subject = "cardcraft.share"
	}
	opts := []nats.Option{
		nats.Name("cardcraft"),
	}
	if cfg.Token != "" {
		opts = append(opts, nats.Token(cfg.Token))
	}
	conn, err := nats.Connect(cfg.URL, opts...)
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}
	return &NATSSurface{conn: conn, subject: subject, log: logging.OrNop(log).Named("nats")}, nil
}

func (s *NATSSurface) CanShareFiles() bool {
	return s.conn != nil && s.conn.IsConnected()
}

func (s *NATSSurface) Share(ctx context.Context, p Payload) error {
	if s.conn == nil || !s.conn.IsConnected() {
		return ErrShareUnsupported
	}
	msgs := buildMessages(s.subject, p)
	for _, m := range msgs {
		if err := s.conn.PublishMsg(m); err != nil {
			return fmt.Errorf("nats publish: %w", err)
		}
	}
	ctx, cancel := context.WithTimeout(ctx, flushTimeout)
	defer cancel()
	if err := s.conn.FlushWithContext(ctx); err != nil {
		return fmt.Errorf("nats flush: %w", err)
	}
	s.log.Info("shared", zap.String("subject", s.subject), zap.Int("messages", len(msgs)))
	return nil
}

func (s *NATSSurface) Close() {
	if s.conn != nil {
		s.conn.Close()
	}
}

func buildMessages(subject string, p Payload) []*nats.Msg {
	base := func() *nats.Msg {
		m := nats.NewMsg(subject)
		m.Header.Set(nats.MsgIdHdr, uuid.NewString())
		m.Header.Set(HeaderTitle, p.Title)
		return m
	}
	if len(p.Files) == 0 {
		m := base()
		m.Header.Set(HeaderMIME, "text/plain; charset=utf-8")
		m.Data = []byte(p.Text)
		return []*nats.Msg{m}
	}
	out := make([]*nats.Msg, 0, len(p.Files))
	for _, f := range p.Files {
		m := base()
		m.Header.Set(HeaderText, p.Text)
		m.Header.Set(HeaderFilename, f.Name)
		m.Header.Set(HeaderMIME, f.MIME)
		m.Data = f.Data
		out = append(out, m)
	}
	return out
}
