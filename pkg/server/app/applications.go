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
	"errors"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/jobtrail/jobtrail/pkg/jobapp"
	"github.com/jobtrail/jobtrail/pkg/server/database"
	"github.com/jobtrail/jobtrail/pkg/server/helpers"
	"github.com/jobtrail/jobtrail/pkg/server/permissions"
	"github.com/jobtrail/jobtrail/pkg/stats"
	pkgErrors "github.com/pkg/errors"
	"gorm.io/gorm"
)

// ApplicationParams is the complete set of user-editable fields of a job
// application
type ApplicationParams struct {
	Title    string `json:"title" schema:"title" validate:"required,max=200"`
	Company  string `json:"company" schema:"company" validate:"required,max=200"`
	Location string `json:"location" schema:"location" validate:"required,max=200"`
	Date     string `json:"date" schema:"date" validate:"required,datetime=2006-01-02"`
	Category string `json:"category" schema:"category" validate:"required,jobcategory"`
	Status   string `json:"status" schema:"status" validate:"required,jobstatus"`
	Link     string `json:"link" schema:"link" validate:"omitempty,max=2048,http_url"`
	Notes    string `json:"notes" schema:"notes" validate:"max=5000"`
	Favorite bool   `json:"favorite" schema:"favorite"`
}

// ApplicationPatch sets the non-nil fields of a job application
type ApplicationPatch struct {
	Title    *string `json:"title" schema:"title"`
	Company  *string `json:"company" schema:"company"`
	Location *string `json:"location" schema:"location"`
	Date     *string `json:"date" schema:"date"`
	Category *string `json:"category" schema:"category"`
	Status   *string `json:"status" schema:"status"`
	Link     *string `json:"link" schema:"link"`
	Notes    *string `json:"notes" schema:"notes"`
	Favorite *bool   `json:"favorite" schema:"favorite"`
}

func (p ApplicationPatch) empty() bool {
	return p == ApplicationPatch{}
}

func (p ApplicationPatch) apply(params *ApplicationParams) {
	if p.Title != nil {
		params.Title = *p.Title
	}
	if p.Company != nil {
		params.Company = *p.Company
	}
	if p.Location != nil {
		params.Location = *p.Location
	}
	if p.Date != nil {
		params.Date = *p.Date
	}
	if p.Category != nil {
		params.Category = *p.Category
	}
	if p.Status != nil {
		params.Status = *p.Status
	}
	if p.Link != nil {
		params.Link = *p.Link
	}
	if p.Notes != nil {
		params.Notes = *p.Notes
	}
	if p.Favorite != nil {
		params.Favorite = *p.Favorite
	}
}

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func getValidator() *validator.Validate {
	validateOnce.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())

		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})

		if err := v.RegisterValidation("jobcategory", func(fl validator.FieldLevel) bool {
			return jobapp.Category(fl.Field().String()).Valid()
		}); err != nil {
			panic(err)
		}
		if err := v.RegisterValidation("jobstatus", func(fl validator.FieldLevel) bool {
			return jobapp.Status(fl.Field().String()).Valid()
		}); err != nil {
			panic(err)
		}

		validate = v
	})

	return validate
}

func trimParams(p *ApplicationParams) {
	p.Title = strings.TrimSpace(p.Title)
	p.Company = strings.TrimSpace(p.Company)
	p.Location = strings.TrimSpace(p.Location)
	p.Date = strings.TrimSpace(p.Date)
	p.Link = strings.TrimSpace(p.Link)
}

// validateApplication checks the params and returns a *ValidationError
// listing every failing field
func validateApplication(p ApplicationParams) error {
	err := getValidator().Struct(p)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return pkgErrors.Wrap(err, "validating job application")
	}

	ret := &ValidationError{Fields: map[string]string{}}
	for _, fe := range verrs {
		ret.Fields[fe.Field()] = fe.Tag()
	}

	return ret
}

func paramsOf(ja database.JobApplication) ApplicationParams {
	return ApplicationParams{
		Title:    ja.Title,
		Company:  ja.Company,
		Location: ja.Location,
		Date:     ja.Date.UTC().Format(jobapp.DateLayout),
		Category: ja.Category,
		Status:   ja.Status,
		Link:     ja.Link,
		Notes:    ja.Notes,
		Favorite: ja.Favorite,
	}
}

// assign copies validated params onto the record
func assign(ja *database.JobApplication, p ApplicationParams) error {
	date, err := jobapp.ParseDate(p.Date)
	if err != nil {
		return pkgErrors.Wrap(err, "parsing date")
	}

	ja.Title = p.Title
	ja.Company = p.Company
	ja.Location = p.Location
	ja.Date = date
	ja.Category = p.Category
	ja.Status = p.Status
	ja.Link = p.Link
	ja.Notes = p.Notes
	ja.Favorite = p.Favorite

	return nil
}

// CreateApplication creates a job application owned by the user
func (a *App) CreateApplication(user database.User, p ApplicationParams) (database.JobApplication, error) {
	trimParams(&p)
	if err := validateApplication(p); err != nil {
		return database.JobApplication{}, err
	}

	uuid, err := helpers.NewUUID()
	if err != nil {
		return database.JobApplication{}, err
	}

	ja := database.JobApplication{
		UUID:   uuid,
		UserID: user.ID,
	}
	if err := assign(&ja, p); err != nil {
		return database.JobApplication{}, err
	}

	if err := a.DB.Create(&ja).Error; err != nil {
		return database.JobApplication{}, pkgErrors.Wrap(err, "inserting job application")
	}

	return ja, nil
}

// GetApplication returns the job application with the uuid. Records owned by
// another user are reported as not found.
func (a *App) GetApplication(user database.User, uuid string) (database.JobApplication, error) {
	var ja database.JobApplication

	err := a.DB.Where("uuid = ?", uuid).First(&ja).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ja, ErrNotFound
	} else if err != nil {
		return ja, pkgErrors.Wrap(err, "finding job application")
	}

	if !permissions.ViewApplication(&user, ja) {
		return database.JobApplication{}, ErrNotFound
	}

	return ja, nil
}

// ApplicationsResult is a page of job applications with the total count
type ApplicationsResult struct {
	Applications []database.JobApplication
	Total        int64
}

func (a *App) userApplications(user database.User) *gorm.DB {
	return a.DB.Model(&database.JobApplication{}).Where("user_id = ?", user.ID)
}

// ListApplications returns the requested page of the user's job applications,
// newest first
func (a *App) ListApplications(user database.User, p helpers.Pagination) (ApplicationsResult, error) {
	var ret ApplicationsResult

	if err := a.userApplications(user).Count(&ret.Total).Error; err != nil {
		return ret, pkgErrors.Wrap(err, "counting job applications")
	}

	err := a.userApplications(user).
		Order("created_at DESC, id DESC").
		Offset(p.Offset()).
		Limit(p.Size).
		Find(&ret.Applications).Error
	if err != nil {
		return ret, pkgErrors.Wrap(err, "finding job applications")
	}

	return ret, nil
}

// ListAllApplications returns every job application of the user, newest first
func (a *App) ListAllApplications(user database.User) ([]database.JobApplication, error) {
	var ret []database.JobApplication

	if err := a.userApplications(user).Order("created_at DESC, id DESC").Find(&ret).Error; err != nil {
		return nil, pkgErrors.Wrap(err, "finding job applications")
	}

	return ret, nil
}

// UpdateApplication replaces every editable field of the job application
func (a *App) UpdateApplication(user database.User, uuid string, p ApplicationParams) (database.JobApplication, error) {
	ja, err := a.GetApplication(user, uuid)
	if err != nil {
		return ja, err
	}

	trimParams(&p)
	if err := validateApplication(p); err != nil {
		return ja, err
	}
	if err := assign(&ja, p); err != nil {
		return ja, err
	}

	if err := a.DB.Save(&ja).Error; err != nil {
		return ja, pkgErrors.Wrap(err, "updating job application")
	}

	return ja, nil
}

// PatchApplication sets the fields given in the patch and leaves the others
// untouched
func (a *App) PatchApplication(user database.User, uuid string, patch ApplicationPatch) (database.JobApplication, error) {
	if patch.empty() {
		return database.JobApplication{}, ErrEmptyPatch
	}

	ja, err := a.GetApplication(user, uuid)
	if err != nil {
		return ja, err
	}

	p := paramsOf(ja)
	patch.apply(&p)

	return a.UpdateApplication(user, uuid, p)
}

// DeleteApplication deletes the job application
func (a *App) DeleteApplication(user database.User, uuid string) error {
	ja, err := a.GetApplication(user, uuid)
	if err != nil {
		return err
	}

	if err := a.DB.Delete(&ja).Error; err != nil {
		return pkgErrors.Wrap(err, "deleting job application")
	}

	return nil
}

// DeleteApplications deletes the listed job applications of the user in one
// statement. Ids that are unknown or owned by someone else are skipped. It
// returns the number of deleted records.
func (a *App) DeleteApplications(user database.User, uuids []string) (int64, error) {
	if len(uuids) == 0 {
		return 0, ErrEmptyIDs
	}

	res := a.DB.Where("user_id = ? AND uuid IN ?", user.ID, uuids).Delete(&database.JobApplication{})
	if err := res.Error; err != nil {
		return 0, pkgErrors.Wrap(err, "deleting job applications")
	}

	return res.RowsAffected, nil
}

// DuplicateApplication creates a copy of the job application under a new id
func (a *App) DuplicateApplication(user database.User, uuid string) (database.JobApplication, error) {
	ja, err := a.GetApplication(user, uuid)
	if err != nil {
		return ja, err
	}

	return a.CreateApplication(user, paramsOf(ja))
}

type statusCount struct {
	Status string
	Count  int
}

// ApplicationStats aggregates the user's job applications by status
func (a *App) ApplicationStats(user database.User) (stats.Stats, error) {
	var rows []statusCount

	err := a.userApplications(user).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return stats.Stats{}, pkgErrors.Wrap(err, "counting job applications by status")
	}

	counts := make(map[jobapp.Status]int, len(rows))
	for _, r := range rows {
		counts[jobapp.Status(r.Status)] = r.Count
	}

	return stats.FromCounts(counts), nil
}
