// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package state

import (
	"context"

	"github.com/ava-labs/avalanchego/database"
	"github.com/ava-labs/avalanchego/utils/maybe"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

var _ Mutable = (*SimpleMutable)(nil)

// SimpleMutable buffers writes on top of [v] until they are committed or
// discarded. Nothing reaches the underlying database before [Commit].
type SimpleMutable struct {
	v Immutable

	changes map[string]maybe.Maybe[[]byte]
}

func NewSimpleMutable(v Immutable) *SimpleMutable {
	return &SimpleMutable{v, make(map[string]maybe.Maybe[[]byte])}
}

func (s *SimpleMutable) GetValue(ctx context.Context, k []byte) ([]byte, error) {
	if v, ok := s.changes[string(k)]; ok {
		if v.IsNothing() {
			return nil, database.ErrNotFound
		}
		return v.Value(), nil
	}
	return s.v.GetValue(ctx, k)
}

func (s *SimpleMutable) Insert(_ context.Context, k []byte, v []byte) error {
	s.changes[string(k)] = maybe.Some(v)
	return nil
}

func (s *SimpleMutable) Remove(_ context.Context, k []byte) error {
	s.changes[string(k)] = maybe.Nothing[[]byte]()
	return nil
}

// Len returns the number of pending changes.
func (s *SimpleMutable) Len() int {
	return len(s.changes)
}

// Discard drops all pending changes.
func (s *SimpleMutable) Discard() {
	clear(s.changes)
}

// Commit writes the pending changes to [db] in key order and resets the
// overlay.
func (s *SimpleMutable) Commit(_ context.Context, db database.KeyValueWriterDeleter) error {
	keys := maps.Keys(s.changes)
	slices.Sort(keys)
	for _, k := range keys {
		v := s.changes[k]
		var err error
		if v.IsNothing() {
			err = db.Delete([]byte(k))
		} else {
			err = db.Put([]byte(k), v.Value())
		}
		if err != nil {
			return err
		}
	}
	clear(s.changes)
	return nil
}
