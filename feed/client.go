package feed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/gorilla/websocket"
)

const (
	DefaultFeedURL           = "wss://ws.evjourney.ae"
	DefaultReconnectDelay    = 5 * time.Second
	DefaultMaxReconnectDelay = 2 * time.Minute
	readTimeout              = 90 * time.Second
)

// Client consumes the real-time feed, applies station status updates to a
// Store and republishes every decoded update.
type Client struct {
	url     string
	store   *Store
	metrics *Metrics
	machine *Machine
	updates *Bus[Update]
	dialer  *websocket.Dialer

	reconnectDelay    time.Duration
	maxReconnectDelay time.Duration
}

type Option func(*Client)

func WithMetrics(m *Metrics) Option {
	return func(c *Client) { c.metrics = m }
}

func WithReconnectDelay(initial, maxDelay time.Duration) Option {
	return func(c *Client) {
		c.reconnectDelay = initial
		c.maxReconnectDelay = maxDelay
	}
}

// NewClient prepares a feed client. The API key is sent as the token query
// parameter.
func NewClient(feedURL, apiKey string, store *Store, opts ...Option) (*Client, error) {
	if feedURL == "" {
		feedURL = DefaultFeedURL
	}
	u, err := url.Parse(feedURL)
	if err != nil {
		return nil, fmt.Errorf("invalid feed url: %w", err)
	}
	if u.Scheme != "ws" && u.Scheme != "wss" {
		return nil, fmt.Errorf("invalid feed url scheme %q", u.Scheme)
	}
	if apiKey != "" {
		q := u.Query()
		q.Set("token", apiKey)
		u.RawQuery = q.Encode()
	}

	c := &Client{
		url:               u.String(),
		store:             store,
		updates:           NewBus[Update](),
		dialer:            &websocket.Dialer{HandshakeTimeout: 10 * time.Second},
		reconnectDelay:    DefaultReconnectDelay,
		maxReconnectDelay: DefaultMaxReconnectDelay,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.machine = NewMachine(func(from, to string) {
		log.Debugf("feed connection %s -> %s", from, to)
		c.metrics.setConnected(to == StateConnected)
	})
	return c, nil
}

func (c *Client) State() string {
	return c.machine.Current()
}

// Updates subscribes to every update decoded from the feed.
func (c *Client) Updates() <-chan Update {
	return c.updates.Subscribe()
}

// Run keeps the feed connected until ctx is canceled, reconnecting with
// exponential backoff.
func (c *Client) Run(ctx context.Context) error {
	defer c.updates.Close()
	delay := c.reconnectDelay

	for {
		if ctx.Err() != nil {
			c.trigger(EventClose)
			return nil
		}

		c.trigger(EventDial)
		conn, _, err := c.dialer.DialContext(ctx, c.url, nil)
		if err == nil {
			log.Infof("connected to real-time feed")
			c.trigger(EventEstablished)
			delay = c.reconnectDelay
			err = c.readLoop(ctx, conn)
		}
		if ctx.Err() != nil {
			c.trigger(EventClose)
			return nil
		}

		c.trigger(EventFail)
		c.metrics.observeReconnect()
		log.Warnf("feed disconnected, reconnecting in %s: %v", delay, err)

		select {
		case <-ctx.Done():
			c.trigger(EventClose)
			return nil
		case <-time.After(delay):
		}
		delay = min(delay*2, c.maxReconnectDelay)
	}
}

func (c *Client) trigger(event string) {
	if err := c.machine.Trigger(event); err != nil {
		log.Debugf("%v", err)
	}
}

func (c *Client) readLoop(ctx context.Context, conn *websocket.Conn) error {
	defer conn.Close()

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				time.Now().Add(time.Second))
			_ = conn.Close()
		case <-done:
		}
	}()

	for {
		_ = conn.SetReadDeadline(time.Now().Add(readTimeout))
		_, message, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure) {
				return errors.New("feed closed by server")
			}
			return err
		}
		c.handleMessage(message)
	}
}

func (c *Client) handleMessage(message []byte) {
	var u Update
	if err := json.Unmarshal(message, &u); err != nil {
		c.metrics.observeDecodeError()
		log.Warnf("unable to parse feed message: %v", err)
		return
	}
	c.metrics.observeUpdate(u.Type)

	if c.store != nil {
		if _, err := c.store.Apply(u); err != nil {
			log.Debugf("update for station %s not applied: %v", u.StationID, err)
		}
	}
	c.updates.Publish(u)
}
