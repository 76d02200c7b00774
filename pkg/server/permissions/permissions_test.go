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

package permissions

import (
	"testing"

	"github.com/jobtrail/jobtrail/pkg/assert"
	"github.com/jobtrail/jobtrail/pkg/server/database"
	"github.com/jobtrail/jobtrail/pkg/server/testutils"
)

func TestViewApplication(t *testing.T) {
	db := testutils.InitMemoryDB(t)

	user := testutils.SetupUserData(db, "user@test.com", "password123")
	anotherUser := testutils.SetupUserData(db, "another@test.com", "password123")

	ja := testutils.SetupJobApplication(db, user, testutils.JobApplicationParams{Title: "SRE"})

	t.Run("owner", func(t *testing.T) {
		assert.Equal(t, ViewApplication(&user, ja), true, "result mismatch")
	})

	t.Run("non-owner", func(t *testing.T) {
		assert.Equal(t, ViewApplication(&anotherUser, ja), false, "result mismatch")
	})

	t.Run("guest", func(t *testing.T) {
		assert.Equal(t, ViewApplication(nil, ja), false, "result mismatch")
	})

	t.Run("record without owner", func(t *testing.T) {
		assert.Equal(t, ViewApplication(&user, database.JobApplication{}), false, "result mismatch")
	})
}
