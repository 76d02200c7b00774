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

// Package testutils provides utilities used in tests
package testutils

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"reflect"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/jobtrail/jobtrail/pkg/server/database"
	"github.com/jobtrail/jobtrail/pkg/server/helpers"
	"github.com/jobtrail/jobtrail/pkg/server/log"
	"github.com/jobtrail/jobtrail/pkg/server/mailer"
	"github.com/jobtrail/jobtrail/pkg/server/token"
	"github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// InitMemoryDB creates an in-memory SQLite database with the schema initialized
func InitMemoryDB(t *testing.T) *gorm.DB {
	// each test gets its own shared-cache database so that every pooled
	// connection sees the same data
	uuid := MustUUID(t)
	dbName := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid)

	db, err := gorm.Open(sqlite.Open(dbName), database.GormConfig(log.LevelInfo))
	if err != nil {
		t.Fatalf("failed to open in-memory database: %v", err)
	}

	database.InitSchema(db)
	if err := database.Migrate(db); err != nil {
		t.Fatal(errors.Wrap(err, "migrating"))
	}

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	return db
}

// InitDB opens the SQLite database file at dbPath and initializes the schema
func InitDB(dbPath string) *gorm.DB {
	db := database.Open(database.DriverSQLite, dbPath, log.LevelInfo)
	database.InitSchema(db)
	if err := database.Migrate(db); err != nil {
		panic(errors.Wrap(err, "migrating"))
	}

	return db
}

// MustUUID generates a UUID and fails the test on error
func MustUUID(t *testing.T) string {
	uuid, err := helpers.NewUUID()
	if err != nil {
		t.Fatal(errors.Wrap(err, "Failed to generate UUID"))
	}
	return uuid
}

// SetupUserData creates and returns a new user with email and password for testing purposes
func SetupUserData(db *gorm.DB, email, password string) database.User {
	uuid, err := helpers.NewUUID()
	if err != nil {
		panic(errors.Wrap(err, "Failed to generate UUID"))
	}

	// the minimum cost keeps the suites fast
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		panic(errors.Wrap(err, "Failed to hash password"))
	}

	user := database.User{
		UUID:     uuid,
		Email:    database.ToNullString(email),
		Password: database.ToNullString(string(hashedPassword)),
	}

	if err := db.Save(&user).Error; err != nil {
		panic(errors.Wrap(err, "Failed to prepare user"))
	}

	return user
}

// SetupSession creates and returns a new user session
func SetupSession(db *gorm.DB, user database.User) database.Session {
	key, err := token.GetRandomStr(32)
	if err != nil {
		panic(errors.Wrap(err, "generating session key"))
	}

	session := database.Session{
		Key:        key,
		UserID:     user.ID,
		LastUsedAt: time.Now(),
		ExpiresAt:  time.Now().Add(time.Hour * 24),
	}
	if err := db.Save(&session).Error; err != nil {
		panic(errors.Wrap(err, "Failed to prepare session"))
	}

	return session
}

// JobApplicationParams overrides the defaults of SetupJobApplication. Zero
// values keep the defaults.
type JobApplicationParams struct {
	Title     string
	Company   string
	Location  string
	Date      time.Time
	Category  string
	Status    string
	Link      string
	Notes     string
	Favorite  bool
	CreatedAt time.Time
}

// SetupJobApplication creates and returns a job application owned by the user
func SetupJobApplication(db *gorm.DB, user database.User, p JobApplicationParams) database.JobApplication {
	uuid, err := helpers.NewUUID()
	if err != nil {
		panic(errors.Wrap(err, "Failed to generate UUID"))
	}

	ja := database.JobApplication{
		UUID:     uuid,
		UserID:   user.ID,
		Title:    "Backend Engineer",
		Company:  "Acme",
		Location: "Berlin",
		Date:     time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		Category: "FULL_TIME",
		Status:   "APPLIED",
		Link:     p.Link,
		Notes:    p.Notes,
		Favorite: p.Favorite,
	}
	if p.Title != "" {
		ja.Title = p.Title
	}
	if p.Company != "" {
		ja.Company = p.Company
	}
	if p.Location != "" {
		ja.Location = p.Location
	}
	if !p.Date.IsZero() {
		ja.Date = p.Date
	}
	if p.Category != "" {
		ja.Category = p.Category
	}
	if p.Status != "" {
		ja.Status = p.Status
	}
	if !p.CreatedAt.IsZero() {
		ja.CreatedAt = p.CreatedAt
		ja.UpdatedAt = p.CreatedAt
	}

	if err := db.Save(&ja).Error; err != nil {
		panic(errors.Wrap(err, "Failed to prepare job application"))
	}

	return ja
}

// HTTPDo makes an HTTP request and returns a response
func HTTPDo(t *testing.T, req *http.Request) *http.Response {
	hc := http.Client{
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}

	res, err := hc.Do(req)
	if err != nil {
		t.Fatal(errors.Wrap(err, "performing http request"))
	}

	return res
}

// SetReqAuthHeader sets the authorization header in the given request for the given user with a specific DB
func SetReqAuthHeader(t *testing.T, db *gorm.DB, req *http.Request, user database.User) {
	session := SetupSession(db, user)

	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", session.Key))
}

// HTTPAuthDo makes an HTTP request with an appropriate authorization header for a user with a specific DB
func HTTPAuthDo(t *testing.T, db *gorm.DB, req *http.Request, user database.User) *http.Response {
	SetReqAuthHeader(t, db, req, user)

	return HTTPDo(t, req)
}

// MakeReq makes an HTTP request and returns a response
func MakeReq(endpoint string, method, path, data string) *http.Request {
	u := fmt.Sprintf("%s%s", endpoint, path)

	req, err := http.NewRequest(method, u, strings.NewReader(data))
	if err != nil {
		panic(errors.Wrap(err, "constructing http request"))
	}

	return req
}

// MakeFormReq makes an HTTP request and returns a response
func MakeFormReq(endpoint, method, path string, data url.Values) *http.Request {
	req := MakeReq(endpoint, method, path, data.Encode())
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	return req
}

// MustExec fails the test if the given database query has error
func MustExec(t *testing.T, db *gorm.DB, message string) {
	t.Helper()

	if err := db.Error; err != nil {
		t.Fatalf("%s: %s", message, err.Error())
	}
}

// DecodeJSON decodes the response body into v and fails the test on error
func DecodeJSON(t *testing.T, res *http.Response, v interface{}) {
	t.Helper()

	defer res.Body.Close()
	if err := json.NewDecoder(res.Body).Decode(v); err != nil {
		t.Fatal(errors.Wrap(err, "decoding response body"))
	}
}

// MustRespondJSON responds with the JSON-encoding of the given interface. If the encoding
// fails, the test fails. It is used by test servers.
func MustRespondJSON(t *testing.T, w http.ResponseWriter, i interface{}, message string) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(i); err != nil {
		t.Fatal(message)
	}
}

// MockEmailbackendImplementation is an email backend that records the emails
// instead of sending them
type MockEmailbackendImplementation struct {
	mu     sync.RWMutex
	Emails []mailer.Email
}

// Clear clears the mock email queue
func (b *MockEmailbackendImplementation) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.Emails = nil
}

// Send implements mailer.Backend
func (b *MockEmailbackendImplementation) Send(e mailer.Email) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.Emails = append(b.Emails, e)

	return nil
}

// Sent returns a copy of the recorded emails
func (b *MockEmailbackendImplementation) Sent() []mailer.Email {
	b.mu.RLock()
	defer b.mu.RUnlock()

	return append([]mailer.Email(nil), b.Emails...)
}

// PayloadType is the encoding of a request body
type PayloadType int

const (
	// PayloadJSON encodes the body as JSON
	PayloadJSON PayloadType = iota
	// PayloadForm encodes the body as URL form values
	PayloadForm
)

type payloadTest func(t *testing.T, target PayloadType)

// RunForJSONAndForm runs the given test function with both request encodings
func RunForJSONAndForm(t *testing.T, name string, runTest payloadTest) {
	t.Run(fmt.Sprintf("%s-json", name), func(t *testing.T) {
		runTest(t, PayloadJSON)
	})

	t.Run(fmt.Sprintf("%s-form", name), func(t *testing.T) {
		runTest(t, PayloadForm)
	})
}

// PayloadWrapper is a wrapper for a payload that can be converted to
// either URL form values or JSON
type PayloadWrapper struct {
	Data interface{}
}

// ToURLValues converts the struct fields into form values keyed by their
// schema tag. Nil pointer fields are omitted.
func (p PayloadWrapper) ToURLValues() url.Values {
	values := url.Values{}

	el := reflect.ValueOf(p.Data)
	if el.Kind() == reflect.Ptr {
		el = el.Elem()
	}
	typ := el.Type()
	for i := 0; i < el.NumField(); i++ {
		fi := typ.Field(i)
		name := fi.Tag.Get("schema")
		if name == "" {
			name = fi.Name
		}

		f := el.Field(i)
		switch {
		case f.Kind() == reflect.Ptr && f.IsNil():
			continue
		case f.Kind() == reflect.Ptr:
			values.Set(name, fmt.Sprint(f.Elem()))
		case f.Kind() == reflect.Slice:
			for j := 0; j < f.Len(); j++ {
				values.Add(name, fmt.Sprint(f.Index(j)))
			}
		default:
			values.Set(name, fmt.Sprint(f))
		}
	}

	return values
}

// ToJSON marshals the payload
func (p PayloadWrapper) ToJSON(t *testing.T) string {
	b, err := json.Marshal(p.Data)
	if err != nil {
		t.Fatal(err)
	}

	return string(b)
}

// MakePayloadReq makes a request whose body is encoded as the target
func MakePayloadReq(t *testing.T, target PayloadType, endpoint, method, path string, data interface{}) *http.Request {
	p := PayloadWrapper{Data: data}

	if target == PayloadForm {
		return MakeFormReq(endpoint, method, path, p.ToURLValues())
	}

	req := MakeReq(endpoint, method, path, p.ToJSON(t))
	req.Header.Set("Content-Type", "application/json")

	return req
}

// TrueVal is a true value
var TrueVal = true

// FalseVal is a false value
var FalseVal = false

// GetCookieByName returns a cookie with the given name
func GetCookieByName(cookies []*http.Cookie, name string) *http.Cookie {
	var ret *http.Cookie

	for i := 0; i < len(cookies); i++ {
		if cookies[i].Name == name {
			ret = cookies[i]
			break
		}
	}

	return ret
}
