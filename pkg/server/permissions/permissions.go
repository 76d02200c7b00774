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
	"github.com/jobtrail/jobtrail/pkg/server/database"
)

// ViewApplication checks if the given user can view the given job application
func ViewApplication(user *database.User, ja database.JobApplication) bool {
	if user == nil {
		return false
	}
	if ja.UserID == 0 {
		return false
	}

	return ja.UserID == user.ID
}
