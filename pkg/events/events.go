// Package events publishes order lifecycle notifications.
//
// With NATS_URL set the server connects once at boot; otherwise it falls
// back to Nop and orders are placed without notifications.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/shashiranjanraj/devburger/pkg/logger"
)

const (
	SubjectOrderPlaced        = "orders.placed"
	SubjectOrderStatusUpdated = "orders.status_updated"
)

// Publisher sends a JSON payload on subject.
type Publisher interface {
	Publish(ctx context.Context, subject string, payload any) error
}

// Nop drops every event.
type Nop struct{}

func (Nop) Publish(context.Context, string, any) error { return nil }

// NATS publishes on a core NATS connection.
type NATS struct {
	nc *nats.Conn
}

// Connect dials url and keeps reconnecting in the background.
func Connect(url string) (*NATS, error) {
	nc, err := nats.Connect(url,
		nats.Name("devburger"),
		nats.Timeout(5*time.Second),
		nats.MaxReconnects(-1),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				logger.Warn("events: nats disconnected", "error", err)
			}
		}),
		nats.ReconnectHandler(func(c *nats.Conn) {
			logger.Info("events: nats reconnected", "url", c.ConnectedUrl())
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("events: connect %s: %w", url, err)
	}
	return &NATS{nc: nc}, nil
}

func (n *NATS) Publish(ctx context.Context, subject string, payload any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if n.nc == nil || n.nc.IsClosed() {
		return nats.ErrConnectionClosed
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("events: encode %s: %w", subject, err)
	}
	if err := n.nc.Publish(subject, data); err != nil {
		return fmt.Errorf("events: publish %s: %w", subject, err)
	}
	return nil
}

// Close flushes pending messages and closes the connection.
func (n *NATS) Close() {
	if n.nc == nil || n.nc.IsClosed() {
		return
	}
	if err := n.nc.Drain(); err != nil {
		n.nc.Close()
	}
}

// Recorder keeps published events in memory. Tests use it in place of NATS.
type Recorder struct {
	Events []Event
	Err    error
}

type Event struct {
	Subject string
	Payload any
}

func (r *Recorder) Publish(_ context.Context, subject string, payload any) error {
	if r.Err != nil {
		return r.Err
	}
	r.Events = append(r.Events, Event{Subject: subject, Payload: payload})
	return nil
}
