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
	"errors"
	"fmt"
	"net/url"
	"reflect"
	"sync/atomic"
)

var errDead = errors.New("connection lost")

// Client represents a connection to an RPC server.
type Client struct {
	idCounter atomic.Uint64
	conn      connection
}

// connection is the transport behind a Client.
type connection interface {
	call(ctx context.Context, msg *jsonrpcMessage) (*jsonrpcMessage, error)
	batchCall(ctx context.Context, msgs []*jsonrpcMessage) ([]*jsonrpcMessage, error)
	subscribe(ctx context.Context, c *Client, namespace string, channel interface{}, args []interface{}) (*ClientSubscription, error)
	close()
}

// BatchElem is an element in a batch request.
type BatchElem struct {
	Method string
	Args   []interface{}
	// The result is unmarshaled into this field. Result must be set to a
	// non-nil pointer value of the desired type, otherwise the response
	// will be discarded.
	Result interface{}
	// Error is set if the server returns an error for this request, or if
	// unmarshalling into Result fails. It is not set for I/O errors.
	Error error
}

// Dial creates a new client for the given URL.
//
// The currently supported URL schemes are "http", "https", "ws" and "wss".
func Dial(rawurl string) (*Client, error) {
	return DialContext(context.Background(), rawurl)
}

// DialContext creates a new RPC client, just like Dial.
//
// The context is used to cancel or time out the initial connection
// establishment. It does not affect subsequent interactions with the client.
func DialContext(ctx context.Context, rawurl string) (*Client, error) {
	return DialOptions(ctx, rawurl)
}

// DialOptions creates a new RPC client for the given URL. You can supply any
// of the pre-defined client options to configure the underlying transport.
func DialOptions(ctx context.Context, rawurl string, options ...ClientOption) (*Client, error) {
	u, err := url.Parse(rawurl)
	if err != nil {
		return nil, err
	}
	cfg := new(clientConfig)
	for _, opt := range options {
		opt.applyOption(cfg)
	}
	switch u.Scheme {
	case "http", "https":
		return newClient(newHTTPConn(rawurl, cfg)), nil
	case "ws", "wss":
		conn, err := newWebsocketConn(ctx, rawurl, cfg)
		if err != nil {
			return nil, err
		}
		return newClient(conn), nil
	default:
		return nil, fmt.Errorf("no known transport for URL scheme %q", u.Scheme)
	}
}

func newClient(conn connection) *Client {
	return &Client{conn: conn}
}

func (c *Client) nextID() uint64 {
	return c.idCounter.Add(1)
}

// SupportsSubscriptions reports whether subscriptions are supported by the
// client transport. When this returns false, Subscribe and related methods
// will return ErrNotificationsUnsupported.
func (c *Client) SupportsSubscriptions() bool {
	_, ok := c.conn.(*websocketConn)
	return ok
}

// Close closes the client, aborting any in-flight requests.
func (c *Client) Close() {
	c.conn.close()
}

// Call performs a JSON-RPC call with the given arguments and unmarshals into
// result if no error occurred.
//
// The result must be a pointer so that package json can unmarshal into it.
// You can also pass nil, in which case the result is ignored.
func (c *Client) Call(result interface{}, method string, args ...interface{}) error {
	return c.CallContext(context.Background(), result, method, args...)
}

// CallContext performs a JSON-RPC call with the given arguments. If the
// context is canceled before the call has successfully returned, CallContext
// returns immediately.
func (c *Client) CallContext(ctx context.Context, result interface{}, method string, args ...interface{}) error {
	if result != nil && reflect.ValueOf(result).Kind() != reflect.Ptr {
		return fmt.Errorf("call result parameter must be pointer or nil interface: %v", result)
	}
	msg, err := newMessage(c.nextID(), method, args...)
	if err != nil {
		return err
	}
	resp, err := c.conn.call(ctx, msg)
	if err != nil {
		return err
	}
	switch {
	case resp.Error != nil:
		return resp.Error
	case len(resp.Result) == 0:
		return ErrNoResult
	case result == nil:
		return nil
	default:
		// Note that a "null" result unmarshals into pointer results as
		// nil; callers distinguish missing objects that way.
		return json.Unmarshal(resp.Result, result)
	}
}

// ErrNoResult is returned by client operations when the server responds with
// an empty result, which happens e.g. when the requested object does not
// exist.
var ErrNoResult = errors.New("no result in JSON-RPC response")

// BatchCall sends all given requests as a single batch and waits for the
// server to return a response for all of them.
//
// In contrast to Call, BatchCall only returns I/O errors. Any error specific
// to a request is reported through the Error field of the corresponding
// BatchElem.
func (c *Client) BatchCall(b []BatchElem) error {
	return c.BatchCallContext(context.Background(), b)
}

// BatchCallContext sends all given requests as a single batch and waits for
// the server to return a response for all of them. The wait duration is
// bounded by the context's deadline.
func (c *Client) BatchCallContext(ctx context.Context, b []BatchElem) error {
	msgs := make([]*jsonrpcMessage, len(b))
	byID := make(map[string]int, len(b))
	for i, elem := range b {
		msg, err := newMessage(c.nextID(), elem.Method, elem.Args...)
		if err != nil {
			return err
		}
		msgs[i] = msg
		byID[string(msg.ID)] = i
	}
	resps, err := c.conn.batchCall(ctx, msgs)
	if err != nil {
		return err
	}
	for n := 0; n < len(resps); n++ {
		resp := resps[n]
		if resp == nil {
			continue
		}
		index, ok := byID[string(resp.ID)]
		if !ok {
			continue
		}
		delete(byID, string(resp.ID))
		elem := &b[index]
		switch {
		case resp.Error != nil:
			elem.Error = resp.Error
		case len(resp.Result) == 0:
			elem.Error = ErrNoResult
		case elem.Result != nil:
			elem.Error = json.Unmarshal(resp.Result, elem.Result)
		}
	}
	// Check that all expected responses have been received.
	for _, index := range byID {
		elem := &b[index]
		elem.Error = ErrMissingBatchResponse
	}
	return nil
}

// ErrMissingBatchResponse is set on a BatchElem when the server did not
// include a response for its id in the batch reply.
var ErrMissingBatchResponse = errors.New("missing response in batch")

// EthSubscribe registers a subscription under the "eth" namespace.
func (c *Client) EthSubscribe(ctx context.Context, channel interface{}, args ...interface{}) (*ClientSubscription, error) {
	return c.Subscribe(ctx, "eth", channel, args...)
}

// Subscribe calls the "<namespace>_subscribe" method with the given
// arguments, registering a subscription. Server notifications for the
// subscription are sent to the given channel. The element type of the
// channel must match the expected type of content returned by the
// subscription.
//
// The context argument cancels the RPC request that sets up the
// subscription, but has no effect on the subscription after Subscribe has
// returned.
//
// Slow subscribers will be dropped eventually. Client buffers up to 20000
// notifications before considering the subscriber dead. The subscription
// Err channel will receive ErrSubscriptionQueueOverflow. Use a sufficiently
// large buffer on the channel or ensure that the channel usually has at
// least one reader to prevent this issue.
func (c *Client) Subscribe(ctx context.Context, namespace string, channel interface{}, args ...interface{}) (*ClientSubscription, error) {
	return c.conn.subscribe(ctx, c, namespace, channel, args)
}
