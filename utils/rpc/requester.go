// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package rpc

import (
	"context"
	"fmt"
	"net/url"
)

var _ EndpointRequester = (*endpointRequester)(nil)

// EndpointRequester sends JSON-RPC requests to a single endpoint.
type EndpointRequester interface {
	SendRequest(ctx context.Context, method string, params interface{}, reply interface{}) error
}

type endpointRequester struct {
	uri string
}

func NewEndpointRequester(uri string) EndpointRequester {
	return &endpointRequester{
		uri: uri,
	}
}

func (e *endpointRequester) SendRequest(
	ctx context.Context,
	method string,
	params interface{},
	reply interface{},
) error {
	uri, err := url.Parse(e.uri)
	if err != nil {
		return fmt.Errorf("invalid endpoint %q: %w", e.uri, err)
	}
	return SendJSONRequest(ctx, uri, method, params, reply)
}
