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
	"encoding/json"
	"reflect"
	"sync"
)

// maxClientSubscriptionBuffer is the maximum number of notifications queued
// for a subscriber before it is considered dead.
const maxClientSubscriptionBuffer = 20000

// ClientSubscription is a subscription established through the Client's
// Subscribe method.
type ClientSubscription struct {
	conn      *websocketConn
	namespace string
	subid     string // guarded by conn.mu, written by the read loop
	channel   reflect.Value
	in        chan json.RawMessage
	quit      chan error
	err       chan error
	done      chan struct{} // closed when forward exits

	unsubOnce sync.Once
}

func newClientSubscription(conn *websocketConn, namespace string, channel reflect.Value) *ClientSubscription {
	return &ClientSubscription{
		conn:      conn,
		namespace: namespace,
		channel:   channel,
		in:        make(chan json.RawMessage),
		quit:      make(chan error, 1),
		err:       make(chan error, 1),
		done:      make(chan struct{}),
	}
}

// reflectChannel checks that channel is a writable channel and returns its
// reflect value.
func reflectChannel(channel interface{}) reflect.Value {
	chanVal := reflect.ValueOf(channel)
	if chanVal.Kind() != reflect.Chan || chanVal.Type().ChanDir()&reflect.SendDir == 0 {
		panic("rpc: channel argument of Subscribe has to be a writable channel")
	}
	if chanVal.IsNil() {
		panic("rpc: channel given to Subscribe must not be nil")
	}
	return chanVal
}

// Err returns the subscription error channel. The intended use of Err is to
// schedule resubscription when the client connection is closed unexpectedly.
//
// The error channel receives a value when the subscription has ended due to
// an error. The received error is nil if Unsubscribe was called.
func (sub *ClientSubscription) Err() <-chan error {
	return sub.err
}

// Unsubscribe unsubscribes the notification and closes the error channel.
// It can safely be called more than once.
func (sub *ClientSubscription) Unsubscribe() {
	sub.unsubOnce.Do(func() {
		select {
		case sub.quit <- nil:
		default:
		}
		sub.conn.mu.Lock()
		subid := sub.subid
		sub.conn.mu.Unlock()
		sub.conn.unsubscribe(sub.namespace, subid)
	})
}

// quitWithError ends the subscription because the connection died.
func (sub *ClientSubscription) quitWithError(err error) {
	select {
	case sub.quit <- err:
	default:
	}
}

// deliver hands a notification payload to the forwarding goroutine.
// If the forward goroutine has quit, the payload is dropped.
func (sub *ClientSubscription) deliver(result json.RawMessage) {
	select {
	case sub.in <- result:
	case <-sub.done:
	}
}

// forward moves notifications from the connection to the subscriber channel,
// buffering when the subscriber is slow. It exits when the subscription ends.
func (sub *ClientSubscription) forward() {
	defer close(sub.err)
	defer close(sub.done)

	cases := []reflect.SelectCase{
		{Dir: reflect.SelectRecv, Chan: reflect.ValueOf(sub.quit)},
		{Dir: reflect.SelectRecv, Chan: reflect.ValueOf(sub.in)},
		{Dir: reflect.SelectSend, Chan: sub.channel},
	}
	buffer := make([]interface{}, 0, 16)
	for {
		var chosen int
		var recv reflect.Value
		if len(buffer) == 0 {
			// Idle, omit send case.
			chosen, recv, _ = reflect.Select(cases[:2])
		} else {
			cases[2].Send = reflect.ValueOf(buffer[0])
			chosen, recv, _ = reflect.Select(cases)
		}
		switch chosen {
		case 0: // <-sub.quit
			if err := recv.Interface(); err != nil {
				sub.err <- err.(error)
			}
			return
		case 1: // <-sub.in
			val := reflect.New(sub.channel.Type().Elem())
			if err := json.Unmarshal(recv.Interface().(json.RawMessage), val.Interface()); err != nil {
				sub.err <- err
				return
			}
			if len(buffer) == maxClientSubscriptionBuffer {
				sub.err <- ErrSubscriptionQueueOverflow
				return
			}
			buffer = append(buffer, val.Elem().Interface())
		case 2: // sub.channel<-
			cases[2].Send = reflect.Value{} // avoid holding onto the value
			buffer = buffer[1:]
		}
	}
}
