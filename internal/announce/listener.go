package announce

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	deviceDomain "github.com/allisson/sporeid/internal/device/domain"
	"github.com/allisson/sporeid/internal/device/usecase"
	"github.com/allisson/sporeid/internal/metrics"
)

// disconnectQuiesce is how long, in milliseconds, in-flight work gets on shutdown.
const disconnectQuiesce = 250

// Announcer records a device announcement. usecase.DeviceUseCase satisfies it.
type Announcer interface {
	Announce(ctx context.Context, input *deviceDomain.AnnounceInput) (*deviceDomain.Device, error)
}

// Client is the subset of the paho client used by the listener.
type Client interface {
	Connect() mqtt.Token
	Subscribe(topic string, qos byte, callback mqtt.MessageHandler) mqtt.Token
	Unsubscribe(topics ...string) mqtt.Token
	Disconnect(quiesce uint)
}

// Config holds the broker connection and subscription settings.
type Config struct {
	BrokerURL      string
	ClientID       string
	Username       string
	Password       string
	Topic          string
	QoS            byte
	PayloadFormat  string
	ConnectTimeout time.Duration
	MaxRetries     int
}

// Listener subscribes to the announce topic and forwards each message to an Announcer.
type Listener struct {
	client    Client
	cfg       Config
	decode    Decoder
	announcer Announcer
	logger    *slog.Logger
}

// NewClientOptions builds paho client options from cfg. Reconnects after the first
// successful connection are left to paho.
func NewClientOptions(cfg Config) *mqtt.ClientOptions {
	opts := mqtt.NewClientOptions().AddBroker(cfg.BrokerURL)
	opts.SetClientID(cfg.ClientID)
	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
		opts.SetPassword(cfg.Password)
	}
	opts.SetAutoReconnect(true)
	opts.SetConnectTimeout(cfg.ConnectTimeout)
	return opts
}

// NewListener creates a listener backed by a paho client.
func NewListener(cfg Config, announcer Announcer, logger *slog.Logger) (*Listener, error) {
	return NewListenerWithClient(mqtt.NewClient(NewClientOptions(cfg)), cfg, announcer, logger)
}

// NewListenerWithClient creates a listener on an existing client.
func NewListenerWithClient(client Client, cfg Config, announcer Announcer, logger *slog.Logger) (*Listener, error) {
	decode, err := NewDecoder(cfg.PayloadFormat)
	if err != nil {
		return nil, err
	}
	if cfg.QoS > 2 {
		return nil, fmt.Errorf("invalid MQTT QoS: %d", cfg.QoS)
	}
	if cfg.MaxRetries < 1 {
		cfg.MaxRetries = 1
	}
	if cfg.ConnectTimeout <= 0 {
		cfg.ConnectTimeout = 5 * time.Second
	}

	return &Listener{
		client:    client,
		cfg:       cfg,
		decode:    decode,
		announcer: announcer,
		logger:    logger,
	}, nil
}

// Run connects, subscribes and processes announcements until ctx is cancelled.
func (l *Listener) Run(ctx context.Context) error {
	if err := l.connect(ctx); err != nil {
		return err
	}
	defer l.client.Disconnect(disconnectQuiesce)

	token := l.client.Subscribe(l.cfg.Topic, l.cfg.QoS, func(_ mqtt.Client, msg mqtt.Message) {
		l.HandleMessage(ctx, msg.Topic(), msg.Payload())
	})
	if err := waitToken(token, l.cfg.ConnectTimeout); err != nil {
		return fmt.Errorf("failed to subscribe to %s: %w", l.cfg.Topic, err)
	}

	l.logger.Info("announcement listener started",
		slog.String("broker", l.cfg.BrokerURL),
		slog.String("topic", l.cfg.Topic),
		slog.String("format", l.cfg.PayloadFormat),
	)

	<-ctx.Done()

	if err := waitToken(l.client.Unsubscribe(l.cfg.Topic), l.cfg.ConnectTimeout); err != nil {
		l.logger.Warn("failed to unsubscribe", slog.String("topic", l.cfg.Topic), slog.Any("error", err))
	}
	l.logger.Info("announcement listener stopped")

	return nil
}

// connect tries up to MaxRetries times, waiting ConnectTimeout between attempts.
func (l *Listener) connect(ctx context.Context) error {
	var err error
	for attempt := 1; attempt <= l.cfg.MaxRetries; attempt++ {
		if err = waitToken(l.client.Connect(), l.cfg.ConnectTimeout); err == nil {
			l.logger.Info("connected to MQTT broker", slog.String("broker", l.cfg.BrokerURL))
			return nil
		}

		l.logger.Warn("failed to connect to MQTT broker",
			slog.Int("attempt", attempt),
			slog.Int("max_retries", l.cfg.MaxRetries),
			slog.Any("error", err),
		)

		if attempt == l.cfg.MaxRetries {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(l.cfg.ConnectTimeout):
		}
	}
	return fmt.Errorf("failed to connect to MQTT broker after %d attempts: %w", l.cfg.MaxRetries, err)
}

// HandleMessage decodes one payload and records the announcement. Rejections are
// logged with their reason and never stop the listener.
func (l *Listener) HandleMessage(ctx context.Context, topic string, payload []byte) {
	msg, err := l.decode(payload)
	if err != nil {
		l.logger.Warn("announcement rejected",
			slog.String("topic", topic),
			slog.String("reason", "undecodable"),
			slog.Any("error", err),
		)
		return
	}

	input, err := msg.ToInput()
	if err != nil {
		l.logger.Warn("announcement rejected",
			slog.String("topic", topic),
			slog.String("device_id", msg.DeviceID),
			slog.String("reason", "undecodable"),
			slog.Any("error", err),
		)
		return
	}

	if _, err := l.announcer.Announce(ctx, input); err != nil {
		level := slog.LevelWarn
		outcome := usecase.AnnouncementOutcome(err)
		if outcome == metrics.AnnouncementFailed {
			level = slog.LevelError
		}
		l.logger.Log(ctx, level, "announcement rejected",
			slog.String("topic", topic),
			slog.String("device_id", input.DeviceID),
			slog.String("reason", outcome),
			slog.Any("error", err),
		)
		return
	}

	l.logger.Debug("announcement accepted",
		slog.String("topic", topic),
		slog.String("device_id", input.DeviceID),
	)
}

func waitToken(token mqtt.Token, timeout time.Duration) error {
	if !token.WaitTimeout(timeout) {
		return errors.New("timed out waiting for broker")
	}
	return token.Error()
}
