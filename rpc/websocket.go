// Copyright 2025 The ethergo Authors
// This file is part of the ethergo library.
//
// The ethergo library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The ethergo library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the ethergo library. If not, see <http://www.gnu.org/licenses/>.

package rpc

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/quaylabs/ethergo/log"
)

const (
	wsReadBuffer       = 1024
	wsWriteBuffer      = 1024
	wsMessageSizeLimit = 32 * 1024 * 1024
	wsWriteTimeout     = 10 * time.Second
)

// websocketConn is a JSON-RPC connection over a websocket. A single read
// loop dispatches responses to pending calls and notifications to
// subscriptions.
type websocketConn struct {
	conn    *websocket.Conn
	writeMu sync.Mutex
	logger  log.Logger

	mu      sync.Mutex // protects pending, subs, closed
	pending map[string]*requestOp
	subs    map[string]*ClientSubscription
	closed  bool
	closeCh chan struct{}
}

// requestOp is an in-flight request. For eth_subscribe requests, sub is
// activated by the read loop when the response arrives, so notifications
// following the response on the wire are never dropped.
type requestOp struct {
	resp chan *jsonrpcMessage
	sub  *ClientSubscription
}

// DialWebsocket creates a new RPC client that communicates with a JSON-RPC
// server that is listening on the given endpoint.
func DialWebsocket(ctx context.Context, endpoint, origin string) (*Client, error) {
	cfg := new(clientConfig)
	if origin != "" {
		cfg.setHeader("origin", origin)
	}
	conn, err := newWebsocketConn(ctx, endpoint, cfg)
	if err != nil {
		return nil, err
	}
	return newClient(conn), nil
}

func newWebsocketConn(ctx context.Context, endpoint string, cfg *clientConfig) (*websocketConn, error) {
	dialer := cfg.wsDialer
	if dialer == nil {
		dialer = &websocket.Dialer{
			ReadBufferSize:  wsReadBuffer,
			WriteBufferSize: wsWriteBuffer,
			Proxy:           http.ProxyFromEnvironment,
		}
	}
	header := make(http.Header)
	for key, values := range cfg.httpHeaders {
		header[key] = values
	}
	conn, resp, err := dialer.DialContext(ctx, endpoint, header)
	if err != nil {
		if resp != nil {
			return nil, HTTPError{Status: resp.Status, StatusCode: resp.StatusCode}
		}
		return nil, err
	}
	conn.SetReadLimit(wsMessageSizeLimit)
	wc := &websocketConn{
		conn:    conn,
		logger:  log.New("endpoint", endpoint),
		pending: make(map[string]*requestOp),
		subs:    make(map[string]*ClientSubscription),
		closeCh: make(chan struct{}),
	}
	go wc.readLoop()
	return wc, nil
}

func (wc *websocketConn) close() {
	wc.mu.Lock()
	if wc.closed {
		wc.mu.Unlock()
		return
	}
	wc.closed = true
	close(wc.closeCh)
	wc.mu.Unlock()
	wc.conn.Close()
}

// shutdown tears down all pending calls and subscriptions after a read
// failure or Close.
func (wc *websocketConn) shutdown(err error) {
	wc.mu.Lock()
	for id, op := range wc.pending {
		close(op.resp)
		delete(wc.pending, id)
	}
	subs := make([]*ClientSubscription, 0, len(wc.subs))
	for id, sub := range wc.subs {
		subs = append(subs, sub)
		delete(wc.subs, id)
	}
	wc.mu.Unlock()
	for _, sub := range subs {
		sub.quitWithError(err)
	}
}

func (wc *websocketConn) write(msg interface{}) error {
	wc.writeMu.Lock()
	defer wc.writeMu.Unlock()
	wc.conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
	return wc.conn.WriteJSON(msg)
}

func (wc *websocketConn) registerOp(id string, sub *ClientSubscription) *requestOp {
	op := &requestOp{resp: make(chan *jsonrpcMessage, 1), sub: sub}
	wc.mu.Lock()
	wc.pending[id] = op
	wc.mu.Unlock()
	return op
}

func (wc *websocketConn) cancelOp(id string) {
	wc.mu.Lock()
	delete(wc.pending, id)
	wc.mu.Unlock()
}

func (wc *websocketConn) call(ctx context.Context, msg *jsonrpcMessage) (*jsonrpcMessage, error) {
	op := wc.registerOp(string(msg.ID), nil)
	defer wc.cancelOp(string(msg.ID))
	if err := wc.write(msg); err != nil {
		return nil, err
	}
	return wc.waitOp(ctx, op)
}

func (wc *websocketConn) waitOp(ctx context.Context, op *requestOp) (*jsonrpcMessage, error) {
	select {
	case resp, ok := <-op.resp:
		if !ok {
			return nil, errDead
		}
		return resp, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-wc.closeCh:
		return nil, ErrClientQuit
	}
}

func (wc *websocketConn) batchCall(ctx context.Context, msgs []*jsonrpcMessage) ([]*jsonrpcMessage, error) {
	ops := make([]*requestOp, len(msgs))
	for i, msg := range msgs {
		ops[i] = wc.registerOp(string(msg.ID), nil)
		defer wc.cancelOp(string(msg.ID))
	}
	if err := wc.write(msgs); err != nil {
		return nil, err
	}
	resps := make([]*jsonrpcMessage, 0, len(msgs))
	for _, op := range ops {
		resp, err := wc.waitOp(ctx, op)
		if err != nil {
			return nil, err
		}
		resps = append(resps, resp)
	}
	return resps, nil
}

func (wc *websocketConn) subscribe(ctx context.Context, c *Client, namespace string, channel interface{}, args []interface{}) (*ClientSubscription, error) {
	chanVal := reflectChannel(channel)
	sub := newClientSubscription(wc, namespace, chanVal)

	msg, err := newMessage(c.nextID(), namespace+"_subscribe", args...)
	if err != nil {
		return nil, err
	}
	// The read loop activates sub when the response arrives.
	op := wc.registerOp(string(msg.ID), sub)
	defer wc.cancelOp(string(msg.ID))
	if err := wc.write(msg); err != nil {
		return nil, err
	}
	resp, err := wc.waitOp(ctx, op)
	// subid is written by the read loop under wc.mu.
	wc.mu.Lock()
	subid := sub.subid
	wc.mu.Unlock()
	switch {
	case err != nil:
		// The read loop may have activated the subscription already.
		if subid != "" {
			sub.Unsubscribe()
		}
		return nil, err
	case resp.Error != nil:
		return nil, resp.Error
	case subid == "":
		return nil, fmt.Errorf("invalid subscription id in response: %s", resp.Result)
	}
	return sub, nil
}

func (wc *websocketConn) unsubscribe(namespace, subid string) {
	wc.mu.Lock()
	delete(wc.subs, subid)
	closed := wc.closed
	wc.mu.Unlock()
	if closed {
		return
	}
	msg, err := newMessage(0, namespace+"_unsubscribe", subid)
	if err == nil {
		wc.write(msg)
	}
}

func (wc *websocketConn) readLoop() {
	for {
		_, data, err := wc.conn.ReadMessage()
		if err != nil {
			wc.mu.Lock()
			closed := wc.closed
			wc.mu.Unlock()
			if !closed {
				wc.logger.Debug("RPC connection read error", "err", err)
			}
			wc.shutdown(err)
			return
		}
		if err := wc.dispatchData(data); err != nil {
			wc.logger.Debug("Dropping invalid RPC message", "err", err)
		}
	}
}

func (wc *websocketConn) dispatchData(data []byte) error {
	// Batch responses arrive as a JSON array.
	for i := 0; i < len(data); i++ {
		switch data[i] {
		case ' ', '\t', '\r', '\n':
			continue
		case '[':
			var msgs []*jsonrpcMessage
			if err := json.Unmarshal(data, &msgs); err != nil {
				return err
			}
			for _, msg := range msgs {
				wc.dispatchMessage(msg)
			}
			return nil
		default:
			var msg jsonrpcMessage
			if err := json.Unmarshal(data, &msg); err != nil {
				return err
			}
			wc.dispatchMessage(&msg)
			return nil
		}
	}
	return nil
}

func (wc *websocketConn) dispatchMessage(msg *jsonrpcMessage) {
	switch {
	case msg.isNotification():
		var result subscriptionResult
		if err := json.Unmarshal(msg.Params, &result); err != nil {
			wc.logger.Debug("Dropping invalid subscription message", "msg", msg)
			return
		}
		wc.mu.Lock()
		sub := wc.subs[result.ID]
		wc.mu.Unlock()
		if sub != nil {
			sub.deliver(result.Result)
		}
	case msg.isResponse():
		wc.mu.Lock()
		op := wc.pending[string(msg.ID)]
		delete(wc.pending, string(msg.ID))
		wc.mu.Unlock()
		if op == nil {
			return
		}
		if op.sub != nil && msg.Error == nil {
			// Activate the subscription before handing the response
			// back, so notifications already queued behind the
			// response are dispatched to it.
			var subid string
			if err := json.Unmarshal(msg.Result, &subid); err == nil && subid != "" {
				wc.mu.Lock()
				op.sub.subid = subid
				wc.subs[subid] = op.sub
				wc.mu.Unlock()
				go op.sub.forward()
			}
		}
		op.resp <- msg
	default:
		wc.logger.Debug("Dropping weird RPC message", "msg", msg)
	}
}
