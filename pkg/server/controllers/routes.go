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
	"strings"

	"github.com/gorilla/mux"
	"github.com/jobtrail/jobtrail/pkg/server/app"
	mw "github.com/jobtrail/jobtrail/pkg/server/middleware"
	"github.com/pkg/errors"
)

// APIPrefix is the path every API route is mounted under
const APIPrefix = "/api/v1"

// Route represents a single route
type Route struct {
	Method    string
	Pattern   string
	Handler   http.HandlerFunc
	RateLimit bool
}

// RouteConfig is the configuration for routes
type RouteConfig struct {
	Controllers *Controllers
	APIRoutes   []Route
}

// NewAPIRoutes returns the routes mounted under APIPrefix. Literal paths are
// listed before the parameterized ones they would otherwise be shadowed by.
func NewAPIRoutes(a *app.App, c *Controllers) []Route {
	auth := func(h http.HandlerFunc) http.HandlerFunc {
		return mw.Auth(a.DB, a.Clock, h)
	}

	ret := []Route{
		{"POST", "/auth/signin", c.Users.SignIn, true},
		{"POST", "/auth/signout", c.Users.SignOut, true},
		{"POST", "/auth/forgot-password", c.Users.ForgotPassword, true},
		{"POST", "/auth/verify-reset-code", c.Users.VerifyResetCode, true},
		{"POST", "/auth/reset-password", c.Users.ResetPassword, true},

		{"GET", "/users/me", auth(c.Users.Me), true},
		{"PATCH", "/users/me", auth(c.Users.UpdateMe), true},
		{"PATCH", "/users/me/password", auth(c.Users.UpdatePassword), true},
		{"POST", "/users/me/avatar", auth(c.Users.UploadAvatar), true},

		{"GET", "/jobApplications", auth(c.Applications.Index), false},
		{"POST", "/jobApplications", auth(c.Applications.Create), true},
		{"GET", "/jobApplications/all", auth(c.Applications.All), false},
		{"GET", "/jobApplications/stats", auth(c.Applications.Stats), false},
		{"DELETE", "/jobApplications/batch", auth(c.Applications.BatchDelete), true},
		{"GET", "/jobApplications/{id}", auth(c.Applications.Show), false},
		{"PUT", "/jobApplications/{id}", auth(c.Applications.Update), true},
		{"PATCH", "/jobApplications/{id}", auth(c.Applications.Patch), true},
		{"DELETE", "/jobApplications/{id}", auth(c.Applications.Delete), true},
		{"POST", "/jobApplications/{id}/duplicate", auth(c.Applications.Duplicate), true},

		{"GET", "/health", c.Health.Index, false},
	}

	if !a.DisableRegistration {
		ret = append(ret, Route{"POST", "/auth/register", c.Users.Register, true})
	}

	return ret
}

func registerRoutes(router *mux.Router, routes []Route) {
	for _, route := range routes {
		router.
			Handle(route.Pattern, mw.ApplyLimit(route.Handler, route.RateLimit)).
			Methods(route.Method)
	}
}

func notFound(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusNotFound, errorResponse{
		Error:          "not found",
		TranslationKey: "errors.notFound",
	})
}

func methodNotAllowed(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusMethodNotAllowed, errorResponse{
		Error:          "method not allowed",
		TranslationKey: "errors.methodNotAllowed",
	})
}

// NewRouter creates and returns a new router
func NewRouter(a *app.App, rc RouteConfig) (http.Handler, error) {
	if err := a.Validate(); err != nil {
		return nil, errors.Wrap(err, "validating the app parameters")
	}

	router := mux.NewRouter()
	router.NotFoundHandler = http.HandlerFunc(notFound)
	router.MethodNotAllowedHandler = http.HandlerFunc(methodNotAllowed)

	apiRouter := router.PathPrefix(APIPrefix).Subrouter()
	apiRouter.NotFoundHandler = http.HandlerFunc(notFound)
	apiRouter.MethodNotAllowedHandler = http.HandlerFunc(methodNotAllowed)
	registerRoutes(apiRouter, rc.APIRoutes)

	if s, ok := a.Avatars.(app.DirStore); ok && s.Dir != "" {
		prefix := strings.TrimSuffix(s.BaseURL, "/") + "/"
		router.PathPrefix(prefix).Handler(http.StripPrefix(prefix, http.FileServer(http.Dir(s.Dir))))
	}

	return mw.Logging(router), nil
}
