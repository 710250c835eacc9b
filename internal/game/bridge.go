package game

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const defaultRequestTimeout = 5 * time.Second

var (
	ErrBridgeClosed = errors.New("game bridge is not connected")
	ErrCannotSell   = errors.New("host refused the trade")
)

type bridgeRequest struct {
	ID     uint64 `json:"id"`
	Method string `json:"method"`
	Params any    `json:"params,omitempty"`
}

type bridgeResponse struct {
	ID     uint64          `json:"id"`
	Result json.RawMessage `json:"result,omitempty"`
	Error  string          `json:"error,omitempty"`
}

// Bridge implements Host by relaying calls to the bridge script running inside
// the game page. The page dials in, Serve owns that connection until it drops.
type Bridge struct {
	logger  *slog.Logger
	timeout time.Duration

	mu      sync.Mutex
	nextID  uint64
	session *bridgeSession
}

type bridgeSession struct {
	conn    *websocket.Conn
	writeMu sync.Mutex

	mu      sync.Mutex
	closed  bool
	pending map[uint64]chan bridgeResponse
}

func NewBridge(logger *slog.Logger, requestTimeout time.Duration) *Bridge {
	if requestTimeout <= 0 {
		requestTimeout = defaultRequestTimeout
	}

	return &Bridge{
		logger:  logger,
		timeout: requestTimeout,
	}
}

// Connected reports whether a page is currently attached.
func (b *Bridge) Connected() bool {
	return b.current() != nil
}

// Serve attaches conn as the active page connection and reads replies until
// the connection fails or ctx ends. A newer connection replaces an older one.
func (b *Bridge) Serve(ctx context.Context, conn *websocket.Conn) error {
	s := &bridgeSession{conn: conn, pending: make(map[uint64]chan bridgeResponse)}

	b.mu.Lock()
	previous := b.session
	b.session = s
	b.mu.Unlock()

	if previous != nil {
		b.logger.Info("Game bridge reconnected, dropping previous page connection")
		previous.conn.Close()
	} else {
		b.logger.Info("Game bridge connected", slog.String("remote", conn.RemoteAddr().String()))
	}

	stop := context.AfterFunc(ctx, func() { conn.Close() })
	defer stop()

	defer func() {
		b.mu.Lock()
		if b.session == s {
			b.session = nil
		}
		b.mu.Unlock()
		s.close()
		conn.Close()
	}()

	for {
		var resp bridgeResponse
		if err := conn.ReadJSON(&resp); err != nil {
			if ctx.Err() != nil || websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				b.logger.Info("Game bridge disconnected")
				return nil
			}
			return fmt.Errorf("game bridge read: %w", err)
		}
		s.deliver(resp)
	}
}

func (b *Bridge) current() *bridgeSession {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.session
}

func (b *Bridge) call(ctx context.Context, method string, params any, out any) error {
	s := b.current()
	if s == nil {
		return ErrBridgeClosed
	}

	ctx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()

	b.mu.Lock()
	b.nextID++
	id := b.nextID
	b.mu.Unlock()

	ch, ok := s.register(id)
	if !ok {
		return ErrBridgeClosed
	}
	defer s.forget(id)

	if err := s.write(bridgeRequest{ID: id, Method: method, Params: params}); err != nil {
		return fmt.Errorf("%s: %w", method, err)
	}

	select {
	case resp, ok := <-ch:
		if !ok {
			return ErrBridgeClosed
		}
		if resp.Error != "" {
			return fmt.Errorf("%s: %s", method, resp.Error)
		}
		if out == nil || len(resp.Result) == 0 {
			return nil
		}
		if err := json.Unmarshal(resp.Result, out); err != nil {
			return fmt.Errorf("%s: decoding result: %w", method, err)
		}
		return nil
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", method, ctx.Err())
	}
}

func (s *bridgeSession) register(id uint64) (chan bridgeResponse, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, false
	}
	ch := make(chan bridgeResponse, 1)
	s.pending[id] = ch

	return ch, true
}

func (s *bridgeSession) forget(id uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.pending, id)
}

func (s *bridgeSession) deliver(resp bridgeResponse) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if ch, found := s.pending[resp.ID]; found {
		ch <- resp
		delete(s.pending, resp.ID)
	}
}

func (s *bridgeSession) write(req bridgeRequest) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	return s.conn.WriteJSON(req)
}

func (s *bridgeSession) close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	s.closed = true
	for id, ch := range s.pending {
		close(ch)
		delete(s.pending, id)
	}
}

func (b *Bridge) UndergroundAccessible(ctx context.Context) (bool, error) {
	var ok bool
	err := b.call(ctx, "underground.canAccess", nil, &ok)

	return ok, err
}

func (b *Bridge) InventoryLoaded(ctx context.Context) (bool, error) {
	var ok bool
	err := b.call(ctx, "player.loaded", nil, &ok)

	return ok, err
}

func (b *Bridge) UndergroundItem(ctx context.Context, name string) (Item, bool, error) {
	var itm *Item
	if err := b.call(ctx, "underground.item", map[string]string{"name": name}, &itm); err != nil {
		return Item{}, false, err
	}
	if itm == nil {
		return Item{}, false, nil
	}

	return *itm, true, nil
}

func (b *Bridge) ItemQuantity(ctx context.Context, name string) (int, error) {
	var qty int
	err := b.call(ctx, "player.itemQuantity", map[string]string{"name": name}, &qty)

	return qty, err
}

func (b *Bridge) Sell(ctx context.Context, itm Item, quantity int) error {
	params := struct {
		ItemID   int    `json:"itemId"`
		ItemName string `json:"itemName"`
		Amount   int    `json:"amount"`
	}{itm.ID, itm.Name, quantity}

	var result struct {
		Sold bool `json:"sold"`
	}
	if err := b.call(ctx, "underground.sell", params, &result); err != nil {
		return err
	}
	if !result.Sold {
		return fmt.Errorf("%w: %s x%d", ErrCannotSell, itm.Name, quantity)
	}

	return nil
}

func (b *Bridge) Currency(ctx context.Context, c Currency) (int, error) {
	var amount int
	err := b.call(ctx, "wallet.currency", map[string]string{"currency": string(c)}, &amount)

	return amount, err
}
