package publisher

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/aws/aws-xray-sdk-go/xray"
	"github.com/nats-io/nats.go"
)

const flushTimeout = 5 * time.Second

// Publisher はスナップショットの配信先です
type Publisher interface {
	Publish(ctx context.Context, subject string, msg []byte) error
	Close() error
}

// NATSPublisher は NATS にメッセージを配信します
type NATSPublisher struct {
	conn *nats.Conn
}

// NewNATSPublisher は NATS に接続します
func NewNATSPublisher(url string) (*NATSPublisher, error) {
	conn, err := nats.Connect(url,
		nats.Name("sbcntr-dining-batch"),
		nats.Timeout(5*time.Second),
		nats.MaxReconnects(-1),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				log.Printf("NATS disconnected: %v", err)
			}
		}),
		nats.ReconnectHandler(func(c *nats.Conn) {
			log.Printf("NATS reconnected to %s", c.ConnectedUrl())
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}
	return &NATSPublisher{conn: conn}, nil
}

// Publish はメッセージを配信し、サーバーに届くまで待ちます
func (p *NATSPublisher) Publish(ctx context.Context, subject string, msg []byte) error {
	ctx, seg := xray.BeginSubsegment(ctx, "NATSPublisher.Publish")
	defer seg.Close(nil)

	if err := p.conn.Publish(subject, msg); err != nil {
		seg.Close(err)
		return fmt.Errorf("failed to publish to %s: %w", subject, err)
	}
	// FlushWithContext は期限のないコンテキストを受け付けない
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, flushTimeout)
		defer cancel()
	}
	if err := p.conn.FlushWithContext(ctx); err != nil {
		seg.Close(err)
		return fmt.Errorf("failed to flush NATS connection: %w", err)
	}
	return nil
}

func (p *NATSPublisher) Close() error {
	if err := p.conn.Drain(); err != nil {
		p.conn.Close()
		return err
	}
	return nil
}
