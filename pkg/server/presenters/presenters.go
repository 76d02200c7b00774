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

// Package presenters converts the database models to the shapes the API
// responds with
package presenters

import (
	"time"

	"github.com/jobtrail/jobtrail/pkg/jobapp"
	"github.com/jobtrail/jobtrail/pkg/server/database"
)

// timestamp rounds to the microsecond, the precision postgres stores
func timestamp(ts time.Time) time.Time {
	return ts.UTC().Round(time.Microsecond)
}

// PresentApplication presents a job application
func PresentApplication(ja database.JobApplication) jobapp.Record {
	return jobapp.Record{
		ID:        ja.UUID,
		Title:     ja.Title,
		Company:   ja.Company,
		Location:  ja.Location,
		Date:      ja.Date.UTC().Format(jobapp.DateLayout),
		Category:  jobapp.Category(ja.Category),
		Status:    jobapp.Status(ja.Status),
		Link:      ja.Link,
		Notes:     ja.Notes,
		Favorite:  ja.Favorite,
		CreatedAt: timestamp(ja.CreatedAt),
		UpdatedAt: timestamp(ja.UpdatedAt),
	}
}

// PresentApplications presents job applications
func PresentApplications(applications []database.JobApplication) []jobapp.Record {
	ret := make([]jobapp.Record, 0, len(applications))

	for _, ja := range applications {
		ret = append(ret, PresentApplication(ja))
	}

	return ret
}

// User is the public shape of a user
type User struct {
	UUID      string `json:"uuid"`
	Email     string `json:"email"`
	Name      string `json:"name"`
	AvatarURL string `json:"avatarUrl,omitempty"`
}

// PresentUser presents a user
func PresentUser(u database.User) User {
	return User{
		UUID:      u.UUID,
		Email:     u.Email.String,
		Name:      u.Name,
		AvatarURL: u.AvatarURL,
	}
}
