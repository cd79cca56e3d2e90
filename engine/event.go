// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package engine

import (
	"strconv"

	"github.com/holiman/uint256"
	"github.com/luxfi/geth/common"
)

// Field is one named event argument rendered as text.
type Field struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Event is emitted by a contract and kept only if every frame up to the
// transaction root commits.
type Event struct {
	Address common.Address `json:"address"`
	Name    string         `json:"name"`
	Fields  []Field        `json:"fields,omitempty"`
}

// Get returns the value of the first field named key.
func (e Event) Get(key string) (string, bool) {
	for _, f := range e.Fields {
		if f.Key == key {
			return f.Value, true
		}
	}
	return "", false
}

func Address(key string, addr common.Address) Field {
	return Field{Key: key, Value: addr.Hex()}
}

func Amount(key string, v *uint256.Int) Field {
	if v == nil {
		return Field{Key: key, Value: "0"}
	}
	return Field{Key: key, Value: v.Dec()}
}

func Uint64(key string, v uint64) Field {
	return Field{Key: key, Value: strconv.FormatUint(v, 10)}
}

func String(key, v string) Field {
	return Field{Key: key, Value: v}
}

func Bool(key string, v bool) Field {
	return Field{Key: key, Value: strconv.FormatBool(v)}
}
