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
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"sync"
)

const (
	maxResponseSize = 10 * 1024 * 1024
	contentType     = "application/json"
)

// httpConn wraps an HTTP endpoint. Each call is an independent POST request.
type httpConn struct {
	client  *http.Client
	url     string
	mu      sync.Mutex // protects headers
	headers http.Header
}

func newHTTPConn(url string, cfg *clientConfig) *httpConn {
	client := cfg.httpClient
	if client == nil {
		client = new(http.Client)
	}
	headers := make(http.Header, 2+len(cfg.httpHeaders))
	headers.Set("accept", contentType)
	headers.Set("content-type", contentType)
	for key, values := range cfg.httpHeaders {
		headers[key] = values
	}
	return &httpConn{client: client, url: url, headers: headers}
}

func (hc *httpConn) close() {
	hc.client.CloseIdleConnections()
}

func (hc *httpConn) call(ctx context.Context, msg *jsonrpcMessage) (*jsonrpcMessage, error) {
	respBody, err := hc.doRequest(ctx, msg)
	if err != nil {
		return nil, err
	}
	var resp jsonrpcMessage
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (hc *httpConn) batchCall(ctx context.Context, msgs []*jsonrpcMessage) ([]*jsonrpcMessage, error) {
	respBody, err := hc.doRequest(ctx, msgs)
	if err != nil {
		return nil, err
	}
	var resps []*jsonrpcMessage
	if err := json.Unmarshal(respBody, &resps); err != nil {
		return nil, err
	}
	return resps, nil
}

func (hc *httpConn) subscribe(ctx context.Context, c *Client, namespace string, channel interface{}, args []interface{}) (*ClientSubscription, error) {
	return nil, ErrNotificationsUnsupported
}

func (hc *httpConn) doRequest(ctx context.Context, msg interface{}) ([]byte, error) {
	body, err := json.Marshal(msg)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, hc.url, io.NopCloser(bytes.NewReader(body)))
	if err != nil {
		return nil, err
	}
	req.ContentLength = int64(len(body))
	req.GetBody = func() (io.ReadCloser, error) {
		return io.NopCloser(bytes.NewReader(body)), nil
	}

	// set headers
	hc.mu.Lock()
	req.Header = hc.headers.Clone()
	hc.mu.Unlock()

	// do request
	resp, err := hc.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var buf bytes.Buffer
		var body []byte
		if _, err := buf.ReadFrom(io.LimitReader(resp.Body, 1024)); err == nil {
			body = buf.Bytes()
		}
		return nil, HTTPError{
			Status:     resp.Status,
			StatusCode: resp.StatusCode,
			Body:       body,
		}
	}
	return io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
}
