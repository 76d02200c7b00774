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

// Package jobapp holds the enumerations of a job application that are shared
// by the server and its clients.
package jobapp

import "time"

// Category is the kind of position applied for
type Category string

// Status is the stage an application is at
type Status string

const (
	CategoryFullTime       Category = "FULL_TIME"
	CategoryPartTime       Category = "PART_TIME"
	CategoryInternship     Category = "INTERNSHIP"
	CategoryContract       Category = "CONTRACT"
	CategoryFreelance      Category = "FREELANCE"
	CategoryApprenticeship Category = "APPRENTICESHIP"
	CategoryOther          Category = "OTHER"
)

const (
	StatusApplied   Status = "APPLIED"
	StatusInterview Status = "INTERVIEW"
	StatusOffer     Status = "OFFER"
	StatusAccepted  Status = "ACCEPTED"
	StatusRejected  Status = "REJECTED"
)

// Categories lists every category in display order
var Categories = []Category{
	CategoryFullTime,
	CategoryPartTime,
	CategoryInternship,
	CategoryContract,
	CategoryFreelance,
	CategoryApprenticeship,
	CategoryOther,
}

// Statuses lists every status in display order
var Statuses = []Status{
	StatusApplied,
	StatusInterview,
	StatusOffer,
	StatusAccepted,
	StatusRejected,
}

var categoryLabels = map[Category]string{
	CategoryFullTime:       "Full-time",
	CategoryPartTime:       "Part-time",
	CategoryInternship:     "Internship",
	CategoryContract:       "Contract",
	CategoryFreelance:      "Freelance",
	CategoryApprenticeship: "Apprenticeship",
	CategoryOther:          "Other",
}

var statusLabels = map[Status]string{
	StatusApplied:   "Applied",
	StatusInterview: "Interview",
	StatusOffer:     "Offer",
	StatusAccepted:  "Accepted",
	StatusRejected:  "Rejected",
}

// Valid reports whether c is one of the known categories
func (c Category) Valid() bool {
	_, ok := categoryLabels[c]
	return ok
}

// Label returns the English display label. Unknown values are returned verbatim.
func (c Category) Label() string {
	if l, ok := categoryLabels[c]; ok {
		return l
	}

	return string(c)
}

// Valid reports whether s is one of the known statuses
func (s Status) Valid() bool {
	_, ok := statusLabels[s]
	return ok
}

// Label returns the English display label. Unknown values are returned verbatim.
func (s Status) Label() string {
	if l, ok := statusLabels[s]; ok {
		return l
	}

	return string(s)
}

// Settled reports whether the application reached a final outcome
func (s Status) Settled() bool {
	return s == StatusAccepted || s == StatusRejected
}

// Record is the wire representation of a job application
type Record struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Company   string    `json:"company"`
	Location  string    `json:"location"`
	Date      string    `json:"date"`
	Category  Category  `json:"category"`
	Status    Status    `json:"status"`
	Link      string    `json:"link,omitempty"`
	Notes     string    `json:"notes,omitempty"`
	Favorite  bool      `json:"favorite"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// DateLayout is the wire format of an application date
const DateLayout = "2006-01-02"

// ParseDate parses a calendar date in DateLayout into UTC midnight
func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, s, time.UTC)
}
