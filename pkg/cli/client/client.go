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

// Package client provides interfaces for interacting with the Jobtrail server
// and the data structures for responses
package client

import (
	"bytes"
	stdcontext "context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/jobtrail/jobtrail/pkg/cli/context"
	"github.com/jobtrail/jobtrail/pkg/cli/log"
	"github.com/jobtrail/jobtrail/pkg/jobapp"
	"github.com/jobtrail/jobtrail/pkg/stats"
	"github.com/jobtrail/jobtrail/pkg/table"
	"github.com/pkg/errors"
	"golang.org/x/time/rate"
)

// ErrInvalidLogin is an error for invalid credentials for login
var ErrInvalidLogin = errors.New("wrong credentials")

// ErrContentTypeMismatch is an error for a response that is not of the expected type
var ErrContentTypeMismatch = errors.New("content type mismatch")

// ErrNotLoggedIn is an error for a request needing a session made without one
var ErrNotLoggedIn = errors.New("not logged in")

// HTTPError represents an HTTP error response from the server
type HTTPError struct {
	StatusCode     int
	Message        string
	TranslationKey string
	Fields         map[string]string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf(`response %d "%s"`, e.StatusCode, e.Message)
}

// IsConflict returns true if the error is a 409 Conflict error
func (e *HTTPError) IsConflict() bool {
	return e.StatusCode == http.StatusConflict
}

// IsNotFound returns true if the error is a 404 Not Found error
func (e *HTTPError) IsNotFound() bool {
	return e.StatusCode == http.StatusNotFound
}

// AsHTTPError returns the HTTPError in the chain of err, if any
func AsHTTPError(err error) (*HTTPError, bool) {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr, true
	}

	return nil, false
}

var contentTypeApplicationJSON = "application/json"
var contentTypeNone = ""

// requestOptions contains options for requests
type requestOptions struct {
	// ExpectedContentType is the Content-Type that the client is expecting from the server
	ExpectedContentType *string
	// BearerToken replaces the session key in the Authorization header
	BearerToken string
}

const (
	// clientRateLimitPerSecond is the max requests per second the client will make
	clientRateLimitPerSecond = 50
	// clientRateLimitBurst is the burst capacity for rate limiting
	clientRateLimitBurst = 100
)

// rateLimitedTransport wraps an http.RoundTripper with rate limiting
type rateLimitedTransport struct {
	transport http.RoundTripper
	limiter   *rate.Limiter
}

func (t *rateLimitedTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if err := t.limiter.Wait(req.Context()); err != nil {
		return nil, err
	}
	return t.transport.RoundTrip(req)
}

// NewRateLimitedHTTPClient creates an HTTP client with rate limiting
func NewRateLimitedHTTPClient() *http.Client {
	interval := time.Second / time.Duration(clientRateLimitPerSecond)

	transport := &rateLimitedTransport{
		transport: http.DefaultTransport,
		limiter:   rate.NewLimiter(rate.Every(interval), clientRateLimitBurst),
	}
	return &http.Client{
		Transport: transport,
	}
}

func getHTTPClient(ctx context.Ctx) *http.Client {
	if ctx.HTTPClient != nil {
		return ctx.HTTPClient
	}

	return &http.Client{}
}

func getExpectedContentType(options *requestOptions) string {
	if options != nil && options.ExpectedContentType != nil {
		return *options.ExpectedContentType
	}

	return contentTypeApplicationJSON
}

func getReq(c stdcontext.Context, ctx context.Ctx, method, path string, body []byte, options *requestOptions) (*http.Request, error) {
	endpoint := fmt.Sprintf("%s%s", ctx.APIEndpoint, path)
	req, err := http.NewRequestWithContext(c, method, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, errors.Wrap(err, "constructing http request")
	}

	req.Header.Set("CLI-Version", ctx.Version)
	if body != nil {
		req.Header.Set("Content-Type", contentTypeApplicationJSON)
	}

	token := ctx.SessionKey
	if options != nil && options.BearerToken != "" {
		token = options.BearerToken
	}
	if token != "" {
		req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", token))
	}

	return req, nil
}

// errorResponse is the body of an error response
type errorResponse struct {
	Error          string            `json:"error"`
	TranslationKey string            `json:"translationKey"`
	Fields         map[string]string `json:"fields"`
}

// checkRespErr returns an HTTPError if the response indicates an error
func checkRespErr(res *http.Response) error {
	if res.StatusCode < 400 {
		return nil
	}

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return errors.Wrapf(err, "server responded with %d but client could not read the response body", res.StatusCode)
	}

	var er errorResponse
	if err := json.Unmarshal(body, &er); err != nil || er.Error == "" {
		return &HTTPError{
			StatusCode: res.StatusCode,
			Message:    strings.TrimRight(string(body), "\n"),
		}
	}

	return &HTTPError{
		StatusCode:     res.StatusCode,
		Message:        er.Error,
		TranslationKey: er.TranslationKey,
		Fields:         er.Fields,
	}
}

func checkContentType(res *http.Response, options *requestOptions) error {
	expected := getExpectedContentType(options)

	got := res.Header.Get("Content-Type")
	if !strings.HasPrefix(got, expected) || (expected == "" && got != "") {
		return errors.Wrapf(ErrContentTypeMismatch, "got: '%s' want: '%s'. Did you configure your endpoint correctly?", got, expected)
	}

	return nil
}

// doReq does a http request to the given path in the api endpoint and decodes
// the JSON response into dest, unless dest is nil
func doReq(c stdcontext.Context, ctx context.Ctx, method, path string, payload, dest interface{}, options *requestOptions) error {
	var body []byte
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return errors.Wrap(err, "marshaling payload")
		}
		body = b
	}

	req, err := getReq(c, ctx, method, path, body, options)
	if err != nil {
		return errors.Wrap(err, "getting request")
	}

	log.Debug("HTTP %s %s\n", method, path)

	res, err := getHTTPClient(ctx).Do(req)
	if err != nil {
		return errors.Wrap(err, "making http request")
	}
	defer res.Body.Close()

	log.Debug("HTTP %d %s\n", res.StatusCode, res.Status)

	if err = checkRespErr(res); err != nil {
		return errors.Wrap(err, "server responded with an error")
	}

	if err = checkContentType(res, options); err != nil {
		return errors.Wrap(err, "unexpected Content-Type")
	}

	if dest == nil {
		return nil
	}
	if err := json.NewDecoder(res.Body).Decode(dest); err != nil {
		return errors.Wrap(err, "decoding the response")
	}

	return nil
}

// doAuthorizedReq does a http request as the logged in user
func doAuthorizedReq(c stdcontext.Context, ctx context.Ctx, method, path string, payload, dest interface{}) error {
	if ctx.SessionKey == "" {
		return ErrNotLoggedIn
	}

	return doReq(c, ctx, method, path, payload, dest, nil)
}

// SigninPayload is a payload for /auth/signin
type SigninPayload struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// User is the user in session responses
type User struct {
	UUID      string `json:"uuid"`
	Email     string `json:"email"`
	Name      string `json:"name"`
	AvatarURL string `json:"avatarUrl"`
}

// SigninResponse is a response from /auth/signin endpoint
type SigninResponse struct {
	Key       string    `json:"key"`
	ExpiresAt time.Time `json:"expiresAt"`
	User      User      `json:"user"`
}

// Signin requests a session token
func Signin(ctx context.Ctx, email, password string) (SigninResponse, error) {
	var resp SigninResponse

	payload := SigninPayload{
		Email:    email,
		Password: password,
	}
	if err := doReq(stdcontext.Background(), ctx, "POST", "/auth/signin", payload, &resp, nil); err != nil {
		if httpErr, ok := AsHTTPError(err); ok && httpErr.StatusCode == http.StatusUnauthorized {
			return SigninResponse{}, ErrInvalidLogin
		}
		return SigninResponse{}, errors.Wrap(err, "signing in")
	}

	return resp, nil
}

// Signout deletes the current session on the server side
func Signout(ctx context.Ctx) error {
	opts := requestOptions{
		ExpectedContentType: &contentTypeNone,
	}
	if ctx.SessionKey == "" {
		return ErrNotLoggedIn
	}

	if err := doReq(stdcontext.Background(), ctx, "POST", "/auth/signout", nil, nil, &opts); err != nil {
		return errors.Wrap(err, "signing out")
	}

	return nil
}

// JobApplicationsResponse is a page of job applications
type JobApplicationsResponse struct {
	JobApplications []jobapp.Record `json:"jobApplications"`
	Count           int             `json:"count"`
}

// GetJobApplications gets one page of job applications. page is one-based.
func GetJobApplications(c stdcontext.Context, ctx context.Ctx, page, size int) (JobApplicationsResponse, error) {
	var resp JobApplicationsResponse

	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("size", strconv.Itoa(size))

	if err := doAuthorizedReq(c, ctx, "GET", "/jobApplications?"+q.Encode(), nil, &resp); err != nil {
		return resp, errors.Wrap(err, "getting job applications")
	}

	return resp, nil
}

// GetAllJobApplications gets every job application of the user
func GetAllJobApplications(ctx context.Ctx) ([]jobapp.Record, error) {
	var resp JobApplicationsResponse

	if err := doAuthorizedReq(stdcontext.Background(), ctx, "GET", "/jobApplications/all", nil, &resp); err != nil {
		return nil, errors.Wrap(err, "getting all job applications")
	}

	return resp.JobApplications, nil
}

// GetStats gets the aggregate counts computed by the server
func GetStats(ctx context.Ctx) (stats.Stats, error) {
	var resp stats.Stats

	if err := doAuthorizedReq(stdcontext.Background(), ctx, "GET", "/jobApplications/stats", nil, &resp); err != nil {
		return resp, errors.Wrap(err, "getting stats")
	}

	return resp, nil
}

// JobApplicationPayload is a payload for creating or replacing a job application
type JobApplicationPayload struct {
	Title    string `json:"title"`
	Company  string `json:"company"`
	Location string `json:"location"`
	Date     string `json:"date"`
	Category string `json:"category"`
	Status   string `json:"status"`
	Link     string `json:"link,omitempty"`
	Notes    string `json:"notes,omitempty"`
	Favorite bool   `json:"favorite"`
}

type jobApplicationResponse struct {
	JobApplication jobapp.Record `json:"jobApplication"`
}

// CreateJobApplication creates a job application
func CreateJobApplication(ctx context.Ctx, p JobApplicationPayload) (jobapp.Record, error) {
	var resp jobApplicationResponse

	if err := doAuthorizedReq(stdcontext.Background(), ctx, "POST", "/jobApplications", p, &resp); err != nil {
		return jobapp.Record{}, errors.Wrap(err, "creating job application")
	}

	return resp.JobApplication, nil
}

// GetJobApplication gets the job application with the id
func GetJobApplication(ctx context.Ctx, id string) (jobapp.Record, error) {
	var resp jobApplicationResponse

	endpoint := fmt.Sprintf("/jobApplications/%s", url.PathEscape(id))
	if err := doAuthorizedReq(stdcontext.Background(), ctx, "GET", endpoint, nil, &resp); err != nil {
		return jobapp.Record{}, errors.Wrap(err, "getting job application")
	}

	return resp.JobApplication, nil
}

// DuplicateJobApplication copies the job application with the id and returns the copy
func DuplicateJobApplication(ctx context.Ctx, id string) (jobapp.Record, error) {
	var resp jobApplicationResponse

	endpoint := fmt.Sprintf("/jobApplications/%s/duplicate", url.PathEscape(id))
	if err := doAuthorizedReq(stdcontext.Background(), ctx, "POST", endpoint, nil, &resp); err != nil {
		return jobapp.Record{}, errors.Wrap(err, "duplicating job application")
	}

	return resp.JobApplication, nil
}

// PatchJobApplicationPayload changes a subset of the fields of a job
// application. Nil fields are left unchanged.
type PatchJobApplicationPayload struct {
	Title    *string `json:"title,omitempty"`
	Company  *string `json:"company,omitempty"`
	Location *string `json:"location,omitempty"`
	Date     *string `json:"date,omitempty"`
	Category *string `json:"category,omitempty"`
	Status   *string `json:"status,omitempty"`
	Link     *string `json:"link,omitempty"`
	Notes    *string `json:"notes,omitempty"`
	Favorite *bool   `json:"favorite,omitempty"`
}

// PatchJobApplication changes the given fields of a job application
func PatchJobApplication(ctx context.Ctx, id string, p PatchJobApplicationPayload) (jobapp.Record, error) {
	var resp jobApplicationResponse

	endpoint := fmt.Sprintf("/jobApplications/%s", url.PathEscape(id))
	if err := doAuthorizedReq(stdcontext.Background(), ctx, "PATCH", endpoint, p, &resp); err != nil {
		return jobapp.Record{}, errors.Wrap(err, "patching job application")
	}

	return resp.JobApplication, nil
}

// DeleteJobApplication deletes the job application with the id
func DeleteJobApplication(ctx context.Ctx, id string) error {
	endpoint := fmt.Sprintf("/jobApplications/%s", url.PathEscape(id))
	if err := doAuthorizedReq(stdcontext.Background(), ctx, "DELETE", endpoint, nil, nil); err != nil {
		return errors.Wrap(err, "deleting job application")
	}

	return nil
}

type batchDeletePayload struct {
	IDs []string `json:"ids"`
}

type batchDeleteResponse struct {
	DeletedCount int `json:"deletedCount"`
}

// DeleteJobApplications deletes the job applications with the ids and returns
// how many were deleted
func DeleteJobApplications(ctx context.Ctx, ids []string) (int, error) {
	var resp batchDeleteResponse

	if err := doAuthorizedReq(stdcontext.Background(), ctx, "DELETE", "/jobApplications/batch", batchDeletePayload{IDs: ids}, &resp); err != nil {
		return 0, errors.Wrap(err, "deleting job applications")
	}

	return resp.DeletedCount, nil
}

type forgotPasswordPayload struct {
	Email string `json:"email"`
}

// ForgotPassword asks the server to email a reset code
func ForgotPassword(ctx context.Ctx, email string) error {
	if err := doReq(stdcontext.Background(), ctx, "POST", "/auth/forgot-password", forgotPasswordPayload{Email: email}, nil, nil); err != nil {
		return errors.Wrap(err, "requesting reset code")
	}

	return nil
}

type verifyResetCodePayload struct {
	Email string `json:"email"`
	Code  string `json:"code"`
}

type verifyResetCodeResponse struct {
	Token string `json:"token"`
}

// VerifyResetCode exchanges a reset code for a token allowing a password reset
func VerifyResetCode(ctx context.Ctx, email, code string) (string, error) {
	var resp verifyResetCodeResponse

	payload := verifyResetCodePayload{Email: email, Code: code}
	if err := doReq(stdcontext.Background(), ctx, "POST", "/auth/verify-reset-code", payload, &resp, nil); err != nil {
		return "", errors.Wrap(err, "verifying reset code")
	}

	return resp.Token, nil
}

type resetPasswordPayload struct {
	NewPassword        string `json:"newPassword"`
	NewPasswordConfirm string `json:"newPasswordConfirm"`
}

// ResetPassword sets a new password using the token from VerifyResetCode
func ResetPassword(ctx context.Ctx, token, password, confirmation string) error {
	opts := requestOptions{BearerToken: token}
	payload := resetPasswordPayload{NewPassword: password, NewPasswordConfirm: confirmation}

	if err := doReq(stdcontext.Background(), ctx, "POST", "/auth/reset-password", payload, nil, &opts); err != nil {
		return errors.Wrap(err, "resetting password")
	}

	return nil
}

// PageFetcher loads pages of job applications for a table.Engine
type PageFetcher struct {
	Ctx context.Ctx
}

// FetchPage implements table.Fetcher
func (f PageFetcher) FetchPage(c stdcontext.Context, pageIndex, pageSize int) (table.Page, error) {
	resp, err := GetJobApplications(c, f.Ctx, pageIndex+1, pageSize)
	if err != nil {
		return table.Page{}, err
	}

	return table.Page{Records: resp.JobApplications, Count: resp.Count}, nil
}
