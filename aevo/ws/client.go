// Package ws is the exchange WebSocket client: market data subscriptions
// plus the authenticated order operations.
package ws

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/pkg/errors"

	"github.com/aevoxyz/aevo-sdk/aevo/types"
	"github.com/aevoxyz/aevo-sdk/pkg/logger"
)

// Client maintains one WebSocket connection. It reconnects with backoff,
// re-authenticates and replays subscriptions after a drop, and delivers
// frames on the Messages channel.
type Client struct {
	url    string
	config *Config

	apiKey    string
	apiSecret string

	conn   *websocket.Conn
	connMu sync.Mutex

	running   bool
	runningMu sync.RWMutex

	subscriptions map[string]bool
	subMu         sync.RWMutex

	msgChan chan Message
	errChan chan error

	ctx    context.Context
	cancel context.CancelFunc
	stopCh chan struct{}
	doneCh chan struct{}

	reconnectAttempts int
	reconnectMu       sync.Mutex
}

// NewClient builds a client for env. Leave key and secret empty for a
// public, market-data-only connection.
func NewClient(env types.Env, apiKey, apiSecret string, config *Config) *Client {
	if config == nil {
		config = DefaultConfig()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Client{
		url:           env.Configuration().WSURL,
		config:        config,
		apiKey:        apiKey,
		apiSecret:     apiSecret,
		subscriptions: make(map[string]bool),
		msgChan:       make(chan Message, config.MessageBufferSize),
		errChan:       make(chan error, config.ErrorBufferSize),
		ctx:           ctx,
		cancel:        cancel,
		stopCh:        make(chan struct{}),
		doneCh:        make(chan struct{}),
	}
}

// Start connects and launches the read and ping loops.
func (c *Client) Start(ctx context.Context) error {
	c.runningMu.Lock()
	if c.running {
		c.runningMu.Unlock()
		return errors.New("client already running")
	}
	c.running = true
	c.runningMu.Unlock()

	if ctx != nil {
		c.ctx = ctx
	}

	if err := c.connect(); err != nil {
		c.runningMu.Lock()
		c.running = false
		c.runningMu.Unlock()
		return errors.Wrap(err, "initial connect")
	}

	go c.readLoop()
	go c.pingLoop()

	logger.Infof("websocket connected to %s", c.url)
	return nil
}

// Stop closes the connection and waits for the read loop to exit.
func (c *Client) Stop() {
	c.runningMu.Lock()
	if !c.running {
		c.runningMu.Unlock()
		return
	}
	c.running = false
	c.runningMu.Unlock()

	c.cancel()
	close(c.stopCh)

	c.connMu.Lock()
	if c.conn != nil {
		c.conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		c.conn.Close()
		c.conn = nil
	}
	c.connMu.Unlock()

	select {
	case <-c.doneCh:
	case <-time.After(5 * time.Second):
		logger.Warnf("websocket close timed out")
	}
}

// Messages returns the inbound frame channel.
func (c *Client) Messages() <-chan Message { return c.msgChan }

// Errors returns the asynchronous error channel.
func (c *Client) Errors() <-chan error { return c.errChan }

func (c *Client) IsRunning() bool {
	c.runningMu.RLock()
	defer c.runningMu.RUnlock()
	return c.running
}

// Subscribe adds channels and sends the subscription frame for any that are
// new on this connection.
func (c *Client) Subscribe(channels ...string) error {
	c.subMu.Lock()
	fresh := make([]string, 0, len(channels))
	for _, ch := range channels {
		if !c.subscriptions[ch] {
			c.subscriptions[ch] = true
			fresh = append(fresh, ch)
		}
	}
	c.subMu.Unlock()

	if len(fresh) == 0 {
		return nil
	}
	return c.send(request{Op: "subscribe", Data: fresh})
}

// Unsubscribe removes channels from the subscription set and notifies the
// server.
func (c *Client) Unsubscribe(channels ...string) error {
	c.subMu.Lock()
	active := make([]string, 0, len(channels))
	for _, ch := range channels {
		if c.subscriptions[ch] {
			delete(c.subscriptions, ch)
			active = append(active, ch)
		}
	}
	c.subMu.Unlock()

	if len(active) == 0 {
		return nil
	}
	return c.send(request{Op: "unsubscribe", Data: active})
}

// CreateOrder submits a signed order over the socket and returns the
// request id for correlating the response frame.
func (c *Client) CreateOrder(order *types.OrderRequest) (string, error) {
	id := uuid.NewString()
	return id, c.send(request{ID: id, Op: "create_order", Data: order})
}

// EditOrder replaces a resting order. The order payload must be freshly
// signed and carry the id of the order being replaced.
func (c *Client) EditOrder(orderID string, order *types.OrderRequest) (string, error) {
	order.OrderID = orderID
	id := uuid.NewString()
	return id, c.send(request{ID: id, Op: "edit_order", Data: order})
}

// CancelOrder cancels one order by id.
func (c *Client) CancelOrder(orderID string) (string, error) {
	id := uuid.NewString()
	return id, c.send(request{ID: id, Op: "cancel_order", Data: map[string]string{"order_id": orderID}})
}

// CancelAllOrders cancels every resting order on the account.
func (c *Client) CancelAllOrders() (string, error) {
	id := uuid.NewString()
	return id, c.send(request{ID: id, Op: "cancel_all_orders"})
}

func (c *Client) send(req request) error {
	c.connMu.Lock()
	defer c.connMu.Unlock()
	if c.conn == nil {
		return errors.New("not connected")
	}
	return c.conn.WriteJSON(req)
}

func (c *Client) connect() error {
	c.connMu.Lock()
	defer c.connMu.Unlock()

	if c.conn != nil {
		c.conn.Close()
	}

	dialer := websocket.Dialer{
		HandshakeTimeout: c.config.HandshakeTimeout,
	}
	headers := make(http.Header)
	headers.Set("User-Agent", "aevo-sdk/go")

	conn, _, err := dialer.Dial(c.url, headers)
	if err != nil {
		return errors.Wrapf(err, "dial %s", c.url)
	}
	c.conn = conn

	if c.apiKey != "" && c.apiSecret != "" {
		err := conn.WriteJSON(request{
			ID: uuid.NewString(),
			Op: "auth",
			Data: map[string]string{
				"key":    c.apiKey,
				"secret": c.apiSecret,
			},
		})
		if err != nil {
			conn.Close()
			c.conn = nil
			return errors.Wrap(err, "send auth")
		}
	}

	c.reconnectMu.Lock()
	c.reconnectAttempts = 0
	c.reconnectMu.Unlock()
	return nil
}

// resubscribe replays the subscription set after a reconnect.
func (c *Client) resubscribe() error {
	c.subMu.RLock()
	channels := make([]string, 0, len(c.subscriptions))
	for ch := range c.subscriptions {
		channels = append(channels, ch)
	}
	c.subMu.RUnlock()

	if len(channels) == 0 {
		return nil
	}
	return c.send(request{Op: "subscribe", Data: channels})
}

func (c *Client) readLoop() {
	defer close(c.doneCh)

	for {
		select {
		case <-c.ctx.Done():
			return
		case <-c.stopCh:
			return
		default:
		}

		c.connMu.Lock()
		conn := c.conn
		c.connMu.Unlock()

		if conn == nil {
			if c.config.ReconnectEnabled {
				c.reconnect()
			}
			time.Sleep(1 * time.Second)
			continue
		}

		var msg Message
		if err := conn.ReadJSON(&msg); err != nil {
			c.connMu.Lock()
			if c.conn != nil {
				c.conn.Close()
				c.conn = nil
			}
			c.connMu.Unlock()

			if c.config.OnDisconnect != nil {
				c.config.OnDisconnect(err)
			}
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				logger.Infof("websocket closed by server")
				return
			}
			logger.Warnf("websocket read error: %v", err)
			if c.config.ReconnectEnabled {
				c.reconnect()
			} else {
				time.Sleep(1 * time.Second)
			}
			continue
		}

		if msg.Error != "" {
			select {
			case c.errChan <- errors.Errorf("server error: %s", msg.Error):
			default:
			}
			continue
		}

		select {
		case c.msgChan <- msg:
		default:
			select {
			case c.errChan <- errors.Errorf("message buffer full, dropping %s frame", msg.Channel):
			default:
			}
		}
	}
}

func (c *Client) pingLoop() {
	ticker := time.NewTicker(c.config.PingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-c.ctx.Done():
			return
		case <-c.stopCh:
			return
		case <-ticker.C:
			if err := c.send(request{Op: "ping"}); err != nil {
				logger.Warnf("ping failed: %v", err)
			}
		}
	}
}

// reconnect retries the connection with linear backoff capped at
// MaxReconnectDelay, then re-auths and replays subscriptions.
func (c *Client) reconnect() {
	c.reconnectMu.Lock()
	c.reconnectAttempts++
	attempts := c.reconnectAttempts
	c.reconnectMu.Unlock()

	if attempts > c.config.MaxReconnectAttempts {
		select {
		case c.errChan <- errors.Errorf("reconnect attempts exhausted (%d)", c.config.MaxReconnectAttempts):
		default:
		}
		return
	}

	delay := c.config.ReconnectDelay * time.Duration(attempts)
	if delay > c.config.MaxReconnectDelay {
		delay = c.config.MaxReconnectDelay
	}
	logger.Infof("reconnecting in %v (attempt %d/%d)", delay, attempts, c.config.MaxReconnectAttempts)

	select {
	case <-c.ctx.Done():
		return
	case <-c.stopCh:
		return
	case <-time.After(delay):
	}

	if err := c.connect(); err != nil {
		logger.Warnf("reconnect failed: %v", err)
		return
	}
	if err := c.resubscribe(); err != nil {
		logger.Warnf("resubscribe failed: %v", err)
	}
}
