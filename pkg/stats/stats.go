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

// Package stats derives aggregate counts from the complete collection of job
// applications and keeps that collection in step with the mutations made
// through the paged view.
package stats

import (
	"fmt"

	"github.com/jobtrail/jobtrail/pkg/jobapp"
)

// Stats is the aggregate over an unpaged collection
type Stats struct {
	Total      int                   `json:"total"`
	InProgress int                   `json:"inProgress"`
	ByStatus   map[jobapp.Status]int `json:"byStatus"`
}

// FromCounts builds the aggregate from per-status counts. Every known status
// is present in the result, possibly with a zero count.
func FromCounts(counts map[jobapp.Status]int) Stats {
	ret := Stats{ByStatus: make(map[jobapp.Status]int, len(jobapp.Statuses))}

	for _, s := range jobapp.Statuses {
		ret.ByStatus[s] = 0
	}

	for s, n := range counts {
		ret.ByStatus[s] += n
		ret.Total += n
		if !s.Settled() {
			ret.InProgress += n
		}
	}

	return ret
}

// Compute returns the aggregate over records
func Compute(records []jobapp.Record) Stats {
	counts := map[jobapp.Status]int{}
	for _, r := range records {
		counts[r.Status]++
	}

	return FromCounts(counts)
}

// Action is a mutation of the collection. The set of actions is closed: Create,
// Edit, Duplicate, Delete and DeleteMany.
type Action interface {
	action()
}

// Create adds a new record
type Create struct {
	Record jobapp.Record
}

// Edit replaces the record with the same id
type Edit struct {
	Record jobapp.Record
}

// Duplicate adds the copy of an existing record, as returned by the server
type Duplicate struct {
	Record jobapp.Record
}

// Delete removes the record with the id
type Delete struct {
	ID string
}

// DeleteMany removes every record whose id is listed
type DeleteMany struct {
	IDs []string
}

func (Create) action()     {}
func (Edit) action()       {}
func (Duplicate) action()  {}
func (Delete) action()     {}
func (DeleteMany) action() {}

// Reduce returns the collection after applying the action. The input slice is
// never modified.
func Reduce(records []jobapp.Record, a Action) []jobapp.Record {
	switch a := a.(type) {
	case Create:
		return prepend(records, a.Record)
	case Duplicate:
		return prepend(records, a.Record)
	case Edit:
		ret := make([]jobapp.Record, len(records))
		for i, r := range records {
			if r.ID == a.Record.ID {
				r = a.Record
			}
			ret[i] = r
		}
		return ret
	case Delete:
		return without(records, map[string]bool{a.ID: true})
	case DeleteMany:
		ids := make(map[string]bool, len(a.IDs))
		for _, id := range a.IDs {
			ids[id] = true
		}
		return without(records, ids)
	default:
		panic(fmt.Sprintf("stats: unknown action %T", a))
	}
}

func prepend(records []jobapp.Record, r jobapp.Record) []jobapp.Record {
	ret := make([]jobapp.Record, 0, len(records)+1)
	ret = append(ret, r)

	return append(ret, records...)
}

func without(records []jobapp.Record, ids map[string]bool) []jobapp.Record {
	ret := make([]jobapp.Record, 0, len(records))
	for _, r := range records {
		if !ids[r.ID] {
			ret = append(ret, r)
		}
	}

	return ret
}
