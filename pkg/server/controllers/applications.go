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

package controllers

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/jobtrail/jobtrail/pkg/jobapp"
	"github.com/jobtrail/jobtrail/pkg/server/app"
	"github.com/jobtrail/jobtrail/pkg/server/context"
	"github.com/jobtrail/jobtrail/pkg/server/helpers"
	"github.com/jobtrail/jobtrail/pkg/server/presenters"
	"github.com/jobtrail/jobtrail/pkg/stats"
)

// NewApplications creates a new Applications controller
func NewApplications(app *app.App) *Applications {
	return &Applications{
		app: app,
	}
}

// Applications is a controller for job applications
type Applications struct {
	app *app.App
}

type applicationsResponse struct {
	JobApplications []jobapp.Record `json:"jobApplications"`
	Count           int64           `json:"count"`
	TranslationKey  string          `json:"translationKey"`
}

type applicationResponse struct {
	JobApplication jobapp.Record `json:"jobApplication"`
	TranslationKey string        `json:"translationKey"`
}

type statsResponse struct {
	stats.Stats
	TranslationKey string `json:"translationKey"`
}

// applicationID reads the id path variable. Anything that could not have
// been issued is reported as not found without a query.
func applicationID(r *http.Request) (string, error) {
	id := mux.Vars(r)["id"]
	if !helpers.IsUUID(id) {
		return "", app.ErrNotFound
	}

	return id, nil
}

// Index responds with a page of the user's job applications. The page query
// parameter is 1-based.
func (a *Applications) Index(w http.ResponseWriter, r *http.Request) {
	user := context.User(r.Context())

	p, err := helpers.ParsePagination(r.URL.Query())
	if err != nil {
		handleJSONError(w, err, "parsing pagination")
		return
	}

	res, err := a.app.ListApplications(*user, p)
	if err != nil {
		handleJSONError(w, err, "listing job applications")
		return
	}

	respondJSON(w, http.StatusOK, applicationsResponse{
		JobApplications: presenters.PresentApplications(res.Applications),
		Count:           res.Total,
		TranslationKey:  "jobApplications.list.success",
	})
}

// All responds with every job application of the user
func (a *Applications) All(w http.ResponseWriter, r *http.Request) {
	user := context.User(r.Context())

	all, err := a.app.ListAllApplications(*user)
	if err != nil {
		handleJSONError(w, err, "listing job applications")
		return
	}

	respondJSON(w, http.StatusOK, applicationsResponse{
		JobApplications: presenters.PresentApplications(all),
		Count:           int64(len(all)),
		TranslationKey:  "jobApplications.all.success",
	})
}

// Stats responds with the aggregate counts of the user's job applications
func (a *Applications) Stats(w http.ResponseWriter, r *http.Request) {
	user := context.User(r.Context())

	s, err := a.app.ApplicationStats(*user)
	if err != nil {
		handleJSONError(w, err, "computing stats")
		return
	}

	respondJSON(w, http.StatusOK, statsResponse{
		Stats:          s,
		TranslationKey: "jobApplications.stats.success",
	})
}

// Create creates a job application
func (a *Applications) Create(w http.ResponseWriter, r *http.Request) {
	user := context.User(r.Context())

	var params app.ApplicationParams
	if err := parseRequestData(r, &params); err != nil {
		handleJSONError(w, err, "parsing payload")
		return
	}

	ja, err := a.app.CreateApplication(*user, params)
	if err != nil {
		handleJSONError(w, err, "creating job application")
		return
	}

	respondJSON(w, http.StatusCreated, applicationResponse{
		JobApplication: presenters.PresentApplication(ja),
		TranslationKey: "jobApplications.create.success",
	})
}

// Show responds with a single job application
func (a *Applications) Show(w http.ResponseWriter, r *http.Request) {
	user := context.User(r.Context())
	id, err := applicationID(r)
	if err != nil {
		handleJSONError(w, err, "reading id")
		return
	}

	ja, err := a.app.GetApplication(*user, id)
	if err != nil {
		handleJSONError(w, err, "finding job application")
		return
	}

	respondJSON(w, http.StatusOK, applicationResponse{
		JobApplication: presenters.PresentApplication(ja),
		TranslationKey: "jobApplications.show.success",
	})
}

// Update replaces a job application
func (a *Applications) Update(w http.ResponseWriter, r *http.Request) {
	user := context.User(r.Context())
	id, err := applicationID(r)
	if err != nil {
		handleJSONError(w, err, "reading id")
		return
	}

	var params app.ApplicationParams
	if err := parseRequestData(r, &params); err != nil {
		handleJSONError(w, err, "parsing payload")
		return
	}

	ja, err := a.app.UpdateApplication(*user, id, params)
	if err != nil {
		handleJSONError(w, err, "updating job application")
		return
	}

	respondJSON(w, http.StatusOK, applicationResponse{
		JobApplication: presenters.PresentApplication(ja),
		TranslationKey: "jobApplications.update.success",
	})
}

// Patch sets some fields of a job application
func (a *Applications) Patch(w http.ResponseWriter, r *http.Request) {
	user := context.User(r.Context())
	id, err := applicationID(r)
	if err != nil {
		handleJSONError(w, err, "reading id")
		return
	}

	var patch app.ApplicationPatch
	if err := parseRequestData(r, &patch); err != nil {
		handleJSONError(w, err, "parsing payload")
		return
	}

	ja, err := a.app.PatchApplication(*user, id, patch)
	if err != nil {
		handleJSONError(w, err, "patching job application")
		return
	}

	respondJSON(w, http.StatusOK, applicationResponse{
		JobApplication: presenters.PresentApplication(ja),
		TranslationKey: "jobApplications.update.success",
	})
}

// Delete deletes a job application
func (a *Applications) Delete(w http.ResponseWriter, r *http.Request) {
	user := context.User(r.Context())
	id, err := applicationID(r)
	if err != nil {
		handleJSONError(w, err, "reading id")
		return
	}

	if err := a.app.DeleteApplication(*user, id); err != nil {
		handleJSONError(w, err, "deleting job application")
		return
	}

	respondJSON(w, http.StatusOK, message{TranslationKey: "jobApplications.delete.success"})
}

// Duplicate copies a job application under a new id
func (a *Applications) Duplicate(w http.ResponseWriter, r *http.Request) {
	user := context.User(r.Context())
	id, err := applicationID(r)
	if err != nil {
		handleJSONError(w, err, "reading id")
		return
	}

	ja, err := a.app.DuplicateApplication(*user, id)
	if err != nil {
		handleJSONError(w, err, "duplicating job application")
		return
	}

	respondJSON(w, http.StatusCreated, applicationResponse{
		JobApplication: presenters.PresentApplication(ja),
		TranslationKey: "jobApplications.duplicate.success",
	})
}

type batchDeletePayload struct {
	IDs []string `schema:"ids" json:"ids"`
}

type batchDeleteResponse struct {
	DeletedCount   int64  `json:"deletedCount"`
	TranslationKey string `json:"translationKey"`
}

// BatchDelete deletes the listed job applications of the user
func (a *Applications) BatchDelete(w http.ResponseWriter, r *http.Request) {
	user := context.User(r.Context())

	var payload batchDeletePayload
	if err := parseRequestData(r, &payload); err != nil {
		handleJSONError(w, err, "parsing payload")
		return
	}

	n, err := a.app.DeleteApplications(*user, payload.IDs)
	if err != nil {
		handleJSONError(w, err, "deleting job applications")
		return
	}

	respondJSON(w, http.StatusOK, batchDeleteResponse{
		DeletedCount:   n,
		TranslationKey: "jobApplications.batchDelete.success",
	})
}
