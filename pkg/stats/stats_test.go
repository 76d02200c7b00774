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
	"testing"

	"github.com/jobtrail/jobtrail/pkg/assert"
	"github.com/jobtrail/jobtrail/pkg/jobapp"
)

func rec(id string, status jobapp.Status) jobapp.Record {
	return jobapp.Record{ID: id, Title: "Engineer " + id, Status: status}
}

func ids(records []jobapp.Record) []string {
	ret := []string{}
	for _, r := range records {
		ret = append(ret, r.ID)
	}

	return ret
}

func TestCompute(t *testing.T) {
	records := []jobapp.Record{
		rec("a", jobapp.StatusApplied),
		rec("b", jobapp.StatusApplied),
		rec("c", jobapp.StatusInterview),
		rec("d", jobapp.StatusOffer),
		rec("e", jobapp.StatusAccepted),
		rec("f", jobapp.StatusRejected),
		rec("g", jobapp.StatusRejected),
	}

	got := Compute(records)

	assert.Equal(t, got.Total, 7, "total mismatch")
	assert.Equal(t, got.InProgress, 4, "inProgress mismatch")
	assert.DeepEqual(t, got.ByStatus, map[jobapp.Status]int{
		jobapp.StatusApplied:   2,
		jobapp.StatusInterview: 1,
		jobapp.StatusOffer:     1,
		jobapp.StatusAccepted:  1,
		jobapp.StatusRejected:  2,
	}, "byStatus mismatch")
}

func TestCompute_empty(t *testing.T) {
	got := Compute(nil)

	assert.Equal(t, got.Total, 0, "total mismatch")
	assert.Equal(t, got.InProgress, 0, "inProgress mismatch")
	assert.Equal(t, len(got.ByStatus), len(jobapp.Statuses), "every status should be present")
}

func TestReduce(t *testing.T) {
	base := []jobapp.Record{
		rec("a", jobapp.StatusApplied),
		rec("b", jobapp.StatusInterview),
		rec("c", jobapp.StatusOffer),
	}

	testCases := []struct {
		name     string
		action   Action
		expected []string
	}{
		{
			name:     "create",
			action:   Create{Record: rec("d", jobapp.StatusApplied)},
			expected: []string{"d", "a", "b", "c"},
		},
		{
			name:     "duplicate",
			action:   Duplicate{Record: rec("a2", jobapp.StatusApplied)},
			expected: []string{"a2", "a", "b", "c"},
		},
		{
			name:     "edit",
			action:   Edit{Record: rec("b", jobapp.StatusRejected)},
			expected: []string{"a", "b", "c"},
		},
		{
			name:     "delete",
			action:   Delete{ID: "b"},
			expected: []string{"a", "c"},
		},
		{
			name:     "delete missing",
			action:   Delete{ID: "z"},
			expected: []string{"a", "b", "c"},
		},
		{
			name:     "delete many",
			action:   DeleteMany{IDs: []string{"a", "c", "z"}},
			expected: []string{"b"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := Reduce(base, tc.action)

			assert.DeepEqual(t, ids(got), tc.expected, "ids mismatch")
			assert.DeepEqual(t, ids(base), []string{"a", "b", "c"}, "input should not be modified")
		})
	}
}

func TestReduce_editReplacesRecord(t *testing.T) {
	base := []jobapp.Record{rec("a", jobapp.StatusApplied)}

	got := Reduce(base, Edit{Record: rec("a", jobapp.StatusOffer)})

	assert.Equal(t, got[0].Status, jobapp.StatusOffer, "status mismatch")
	assert.Equal(t, base[0].Status, jobapp.StatusApplied, "input should not be modified")
}

type bogusAction struct{ Create }

func TestReduce_unknownAction(t *testing.T) {
	defer func() {
		assert.NotEqual(t, recover(), nil, "expected a panic")
	}()

	Reduce(nil, bogusAction{})
}

func TestCollection(t *testing.T) {
	c := NewCollection()
	c.Load([]jobapp.Record{
		rec("a", jobapp.StatusApplied),
		rec("b", jobapp.StatusInterview),
		rec("c", jobapp.StatusAccepted),
	})

	assert.Equal(t, c.Stats().Total, 3, "total after load")
	assert.Equal(t, c.Stats().InProgress, 2, "inProgress after load")

	c.Apply(Create{Record: rec("d", jobapp.StatusRejected)})
	assert.Equal(t, c.Stats().Total, 4, "total after create")
	assert.Equal(t, c.Stats().ByStatus[jobapp.StatusRejected], 1, "rejected after create")

	c.Apply(Edit{Record: rec("a", jobapp.StatusOffer)})
	assert.Equal(t, c.Stats().ByStatus[jobapp.StatusApplied], 0, "applied after edit")
	assert.Equal(t, c.Stats().ByStatus[jobapp.StatusOffer], 1, "offer after edit")

	c.Apply(DeleteMany{IDs: []string{"a", "b"}})
	s := c.Stats()
	assert.Equal(t, s.Total, 2, "total after batch delete")
	assert.Equal(t, s.InProgress, 0, "inProgress after batch delete")
	assert.DeepEqual(t, ids(c.Records()), []string{"d", "c"}, "records after batch delete")
}

func TestCollection_statsAreCopies(t *testing.T) {
	c := NewCollection()
	c.Load([]jobapp.Record{rec("a", jobapp.StatusApplied)})

	s := c.Stats()
	s.ByStatus[jobapp.StatusApplied] = 99

	assert.Equal(t, c.Stats().ByStatus[jobapp.StatusApplied], 1, "cache should not be affected")
}
