// Package attendance models the upload of a trainee's attendance for one
// course-run session.
package attendance

import (
	ri "github.com/DSACMS/training-registry-client/pkg/requestinfo"
)

const (
	defaultCountryCode = 65
	maxHours           = 24.0
)

// UploadAttendanceInfo reports a trainee's attendance of a session.
type UploadAttendanceInfo struct {
	UEN                   string              `json:"uen"`
	CourseReferenceNumber string              `json:"courseReferenceNumber"`
	SessionID             string              `json:"sessionId"`
	Status                ri.AttendanceStatus `json:"status"`
	TraineeID             string              `json:"traineeId"`
	TraineeName           string              `json:"traineeName"`
	TraineeEmail          *string             `json:"traineeEmail,omitempty"`
	TraineeIDType         ri.IDType           `json:"traineeIdType"`
	Mobile                *string             `json:"mobile,omitempty"`
	AreaCode              *string             `json:"areaCode,omitempty"`
	CountryCode           *int                `json:"countryCode,omitempty"`
	NumberOfHours         *float64            `json:"numberOfHours,omitempty"`
	SurveyLanguage        ri.SurveyLanguage   `json:"surveyLanguage"`
	CorpPassID            *string             `json:"corppassId,omitempty"`
}

func (a UploadAttendanceInfo) Validate() ri.Result {
	var c ri.Collector
	c.RequireString("UEN", a.UEN)
	c.UEN("UEN", a.UEN)
	c.RequireString("course reference number", a.CourseReferenceNumber)
	c.RequireString("session ID", a.SessionID)
	c.Require("attendance status", a.Status != "")
	ri.CheckEnum(&c, "attendance status", a.Status)

	c.RequireString("trainee ID", a.TraineeID)
	c.RequireString("trainee name", a.TraineeName)
	c.Require("trainee ID type", a.TraineeIDType != "")
	ri.CheckEnum(&c, "trainee ID type", a.TraineeIDType)
	if a.TraineeIDType == "SB" || a.TraineeIDType == "SP" {
		c.NRIC("trainee ID", a.TraineeID)
	}
	c.Email("trainee email", a.TraineeEmail, false)
	c.WarnEmpty("mobile number", a.Mobile)
	c.WarnEmpty("area code", a.AreaCode)

	c.Require("survey language", a.SurveyLanguage != "")
	ri.CheckEnum(&c, "survey language", a.SurveyLanguage)

	if a.NumberOfHours != nil && (*a.NumberOfHours <= 0 || *a.NumberOfHours > maxHours) {
		c.Errorf("number of hours must be more than 0 and at most %g", maxHours)
	}
	c.WarnEmpty("CorpPass ID", a.CorpPassID)
	return c.Result()
}

func (a UploadAttendanceInfo) Payload(verify bool) (map[string]any, error) {
	return ri.Finalize(a, verify, func() (map[string]any, error) {
		var contact any
		if a.Mobile != nil {
			country := defaultCountryCode
			if a.CountryCode != nil {
				country = *a.CountryCode
			}
			contact = map[string]any{
				"mobile":      *a.Mobile,
				"areaCode":    ri.Str(a.AreaCode),
				"countryCode": country,
			}
		}

		return map[string]any{
			"uen": ri.NonEmpty(a.UEN),
			"course": map[string]any{
				"sessionID": ri.NonEmpty(a.SessionID),
				"attendance": map[string]any{
					"status": ri.CodeOnly(a.Status),
					"trainee": map[string]any{
						"id":             ri.NonEmpty(a.TraineeID),
						"name":           ri.NonEmpty(a.TraineeName),
						"email":          ri.Str(a.TraineeEmail),
						"idType":         ri.CodeOnly(a.TraineeIDType),
						"contactNumber":  contact,
						"numberOfHours":  ri.Float(a.NumberOfHours),
						"surveyLanguage": ri.CodeOnly(a.SurveyLanguage),
					},
				},
				"referenceNumber": ri.NonEmpty(a.CourseReferenceNumber),
			},
			"corppassId": ri.Str(a.CorpPassID),
		}, nil
	}, "areaCode")
}
