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

package app

import (
	"testing"
	"time"

	"github.com/jobtrail/jobtrail/pkg/assert"
	"github.com/jobtrail/jobtrail/pkg/clock"
	"github.com/jobtrail/jobtrail/pkg/server/database"
	"github.com/jobtrail/jobtrail/pkg/server/testutils"
	"github.com/pkg/errors"
)

func TestCreateSession(t *testing.T) {
	db := testutils.InitMemoryDB(t)
	user := testutils.SetupUserData(db, "alice@example.com", "pass1234")

	a := NewTest()
	a.DB = db

	s1, err := a.CreateSession(user.ID)
	if err != nil {
		t.Fatal(errors.Wrap(err, "creating first session"))
	}
	s2, err := a.CreateSession(user.ID)
	if err != nil {
		t.Fatal(errors.Wrap(err, "creating second session"))
	}

	assert.NotEqual(t, s1.Key, s2.Key, "session keys should differ")
	assert.Equal(t, s1.LastUsedAt.Equal(a.Clock.Now()), true, "last used mismatch")
}

func TestDeleteSession(t *testing.T) {
	db := testutils.InitMemoryDB(t)
	user := testutils.SetupUserData(db, "alice@example.com", "pass1234")
	s1 := testutils.SetupSession(db, user)
	s2 := testutils.SetupSession(db, user)

	a := NewTest()
	a.DB = db

	if err := a.DeleteSession(s1.Key); err != nil {
		t.Fatal(err)
	}

	var remaining []database.Session
	testutils.MustExec(t, db.Find(&remaining), "finding sessions")
	assert.Equalf(t, len(remaining), 1, "session count mismatch")
	assert.Equal(t, remaining[0].Key, s2.Key, "remaining session mismatch")
}

func TestDeleteExpiredSessions(t *testing.T) {
	db := testutils.InitMemoryDB(t)
	user := testutils.SetupUserData(db, "alice@example.com", "pass1234")

	a := NewTest()
	a.DB = db
	c := a.Clock.(*clock.Mock)

	expired := database.Session{UserID: user.ID, Key: "expired", ExpiresAt: c.Now().Add(-time.Minute)}
	live := database.Session{UserID: user.ID, Key: "live", ExpiresAt: c.Now().Add(time.Hour)}
	testutils.MustExec(t, db.Create(&expired), "preparing expired session")
	testutils.MustExec(t, db.Create(&live), "preparing live session")

	n, err := a.DeleteExpiredSessions()
	if err != nil {
		t.Fatal(err)
	}

	assert.Equal(t, n, int64(1), "deleted count mismatch")

	var keys []string
	testutils.MustExec(t, db.Model(&database.Session{}).Pluck("key", &keys), "plucking keys")
	assert.DeepEqual(t, keys, []string{"live"}, "remaining sessions mismatch")
}
