// Package events publishes mutation events to NATS.
package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/fivetwenty-io/automation-client/internal/constants"
	"github.com/fivetwenty-io/automation-client/pkg/automation"
)

// Static errors for err113 compliance.
var (
	ErrNATSURLRequired = errors.New("NATS URL is required")
)

// conn is the part of *nats.Conn the publisher uses.
type conn interface {
	Publish(subject string, data []byte) error
	FlushWithContext(ctx context.Context) error
	Drain() error
}

// NATSPublisher publishes every MutationEvent as JSON on
// <prefix>.<kind>.<action>.
type NATSPublisher struct {
	conn   conn
	prefix string
	flush  bool
}

// Option configures a NATSPublisher.
type Option func(*NATSPublisher)

// WithSubjectPrefix replaces the default subject prefix.
func WithSubjectPrefix(prefix string) Option {
	return func(p *NATSPublisher) {
		if prefix = strings.Trim(prefix, "."); prefix != "" {
			p.prefix = prefix
		}
	}
}

// WithFlush waits for the server to acknowledge each publish.
func WithFlush() Option {
	return func(p *NATSPublisher) { p.flush = true }
}

// Connect dials the NATS server at url.
func Connect(url string, opts ...Option) (*NATSPublisher, error) {
	if url == "" {
		return nil, ErrNATSURLRequired
	}

	nc, err := nats.Connect(url,
		nats.Name(constants.NATSClientName),
		nats.Timeout(constants.ShortHTTPTimeout),
		nats.MaxReconnects(constants.NATSMaxReconnects),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS at %s: %w", url, err)
	}

	return newPublisher(nc, opts...), nil
}

func newPublisher(c conn, opts ...Option) *NATSPublisher {
	publisher := &NATSPublisher{conn: c, prefix: constants.DefaultEventSubjectPrefix}

	for _, opt := range opts {
		opt(publisher)
	}

	return publisher
}

// Subject returns the subject an event is published on.
func (p *NATSPublisher) Subject(event automation.MutationEvent) string {
	return fmt.Sprintf("%s.%s.%s", p.prefix, subjectToken(string(event.Kind)), subjectToken(string(event.Action)))
}

// Publish implements automation.EventPublisher.
func (p *NATSPublisher) Publish(ctx context.Context, event automation.MutationEvent) error {
	if event.Time.IsZero() {
		event.Time = time.Now().UTC()
	}

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to encode mutation event: %w", err)
	}

	subject := p.Subject(event)

	err = p.conn.Publish(subject, data)
	if err != nil {
		return fmt.Errorf("failed to publish to %s: %w", subject, err)
	}

	if p.flush {
		err = p.conn.FlushWithContext(ctx)
		if err != nil {
			return fmt.Errorf("failed to flush %s: %w", subject, err)
		}
	}

	return nil
}

// Close drains pending messages and closes the connection.
func (p *NATSPublisher) Close() error {
	err := p.conn.Drain()
	if err != nil {
		return fmt.Errorf("failed to drain NATS connection: %w", err)
	}

	return nil
}

// subjectToken lowercases a value and strips characters NATS treats as
// separators or wildcards.
func subjectToken(value string) string {
	value = strings.ToLower(value)

	return strings.Map(func(r rune) rune {
		switch r {
		case '.', '*', '>', ' ', '\t':
			return '_'
		default:
			return r
		}
	}, value)
}

// NoopPublisher discards events.
type NoopPublisher struct{}

// Publish implements automation.EventPublisher.
func (NoopPublisher) Publish(context.Context, automation.MutationEvent) error {
	return nil
}

var (
	_ automation.EventPublisher = (*NATSPublisher)(nil)
	_ automation.EventPublisher = NoopPublisher{}
)
