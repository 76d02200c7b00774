/* Copyright 2025 Jobtrail Authors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package stats

import (
	"sync"

	"github.com/jobtrail/jobtrail/pkg/jobapp"
)

// Collection caches the complete, unpaged set of records next to the paged
// view. It is safe for concurrent use.
type Collection struct {
	mu      sync.RWMutex
	records []jobapp.Record
	stats   Stats
}

// NewCollection returns an empty collection
func NewCollection() *Collection {
	return &Collection{stats: Compute(nil)}
}

// Load replaces the cached records, typically with a fresh server listing
func (c *Collection) Load(records []jobapp.Record) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.records = append([]jobapp.Record(nil), records...)
	c.stats = Compute(c.records)
}

// Apply reduces the action into the cache and recomputes the aggregate
func (c *Collection) Apply(a Action) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.records = Reduce(c.records, a)
	c.stats = Compute(c.records)
}

// Records returns a copy of the cached records
func (c *Collection) Records() []jobapp.Record {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return append([]jobapp.Record(nil), c.records...)
}

// Stats returns the aggregate over the cached records
func (c *Collection) Stats() Stats {
	c.mu.RLock()
	defer c.mu.RUnlock()

	ret := c.stats
	ret.ByStatus = make(map[jobapp.Status]int, len(c.stats.ByStatus))
	for k, v := range c.stats.ByStatus {
		ret.ByStatus[k] = v
	}

	return ret
}
