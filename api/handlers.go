// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package api

import (
	"context"
	"net/http"

	"github.com/gorilla/rpc/v2"
	"github.com/luxfi/database"

	"github.com/luxfi/diamond/client"
	"github.com/luxfi/diamond/diamond"
	"github.com/luxfi/diamond/metrics"
	"github.com/luxfi/diamond/utils/json"
)

// ServiceName is the prefix of every method, e.g. "diamond.owner".
const ServiceName = "diamond"

// NewHandler returns the JSON-RPC handler for s. interceptor may be nil.
func NewHandler(s *Service, interceptor metrics.APIInterceptor) (http.Handler, error) {
	codec := json.NewCodec()

	rpcServer := rpc.NewServer()
	rpcServer.RegisterCodec(codec, "application/json")
	rpcServer.RegisterCodec(codec, "application/json;charset=UTF-8")
	if interceptor != nil {
		rpcServer.RegisterInterceptFunc(interceptor.InterceptRequest)
		rpcServer.RegisterAfterFunc(interceptor.AfterRequest)
	}
	return rpcServer, rpcServer.RegisterService(s, ServiceName)
}

// ConsistencyCheck verifies the routing table of the diamond c talks to.
// It reports the number of bound facets.
func ConsistencyCheck(c *client.Client) func(context.Context) (interface{}, error) {
	return func(ctx context.Context) (interface{}, error) {
		var facets int
		err := c.Host().View(ctx, c.Address(), func(storage database.Database) error {
			l := diamond.NewLayout(storage)
			if err := l.CheckConsistency(); err != nil {
				return err
			}
			addrs, err := l.FacetAddresses()
			facets = len(addrs)
			return err
		})
		if err != nil {
			return nil, err
		}
		return map[string]int{"facets": facets}, nil
	}
}
