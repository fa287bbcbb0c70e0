// Copyright 2025 Naren Yellavula
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"time"

	"github.com/patrickmn/go-cache"
)

const (
	// Decoded snapshots stay warm for 30 minutes so repeated loads of
	// the same file skip the decode
	snapshotCacheExpiration = 30 * time.Minute
	// Clean up expired entries every 5 minutes
	snapshotCacheCleanup = 5 * time.Minute
)

// NewSnapshotCache creates a cache for decoded snapshot files keyed by path
func NewSnapshotCache() *cache.Cache {
	return cache.New(snapshotCacheExpiration, snapshotCacheCleanup)
}

func CacheSnapshot(c *cache.Cache, path string, snap *Snapshot) {
	// Use Set instead of Add to allow overwriting after a re-save
	c.Set(path, snap, snapshotCacheExpiration)
}

func GetSnapshot(c *cache.Cache, path string) *Snapshot {
	val, ok := c.Get(path)
	if !ok {
		return nil
	}
	return val.(*Snapshot)
}
