// Package enrolments models trainee enrolments on course runs.
package enrolments

import (
	ri "github.com/DSACMS/training-registry-client/pkg/requestinfo"
)

// areaCode must be present on the wire even when null.
const areaCode = "areaCode"

// CreateEnrolmentInfo enrols a trainee on a course run.
type CreateEnrolmentInfo struct {
	CourseRunID           string             `json:"courseRunId"`
	CourseReferenceNumber string             `json:"courseReferenceNumber"`
	TraineeID             string             `json:"traineeId"`
	TraineeIDType         ri.TraineeIDType   `json:"traineeIdType"`
	FullName              string             `json:"fullName"`
	DateOfBirth           *ri.Date           `json:"dateOfBirth,omitempty"`
	EmailAddress          *string            `json:"emailAddress,omitempty"`
	ContactNumber         ContactNumber      `json:"contactNumber"`
	SponsorshipType       ri.SponsorshipType `json:"sponsorshipType"`
	EmployerUEN           *string            `json:"employerUen,omitempty"`
	EmployerContact       *Contact           `json:"employerContact,omitempty"`
	Fees                  Fees               `json:"fees"`
	EnrolmentDate         *ri.Date           `json:"enrolmentDate,omitempty"`
	TrainingPartnerUEN    string             `json:"trainingPartnerUen"`
	TrainingPartnerCode   string             `json:"trainingPartnerCode"`
}

func (e CreateEnrolmentInfo) Validate() ri.Result {
	var c ri.Collector
	c.RequireString("course run ID", e.CourseRunID)
	c.RequireString("course reference number", e.CourseReferenceNumber)

	c.RequireString("trainee ID", e.TraineeID)
	c.Require("trainee ID type", e.TraineeIDType != "")
	ri.CheckEnum(&c, "trainee ID type", e.TraineeIDType)
	if e.TraineeIDType == "NRIC" || e.TraineeIDType == "FIN" {
		c.NRIC("trainee ID", e.TraineeID)
	}
	c.RequireString("trainee full name", e.FullName)
	c.Require("date of birth", e.DateOfBirth != nil)
	c.Email("trainee email", e.EmailAddress, true)
	e.ContactNumber.check(&c, "trainee contact number")

	c.Require("sponsorship type", e.SponsorshipType != "")
	ri.CheckEnum(&c, "sponsorship type", e.SponsorshipType)
	employer := e.SponsorshipType == "EMPLOYER"
	if employer {
		c.Require("employer UEN", !ri.Blank(e.EmployerUEN))
		c.Require("employer contact", e.EmployerContact != nil)
	} else {
		c.WarnEmpty("employer UEN", e.EmployerUEN)
	}
	if e.EmployerUEN != nil {
		c.UEN("employer UEN", *e.EmployerUEN)
	}
	if e.EmployerContact != nil {
		e.EmployerContact.check(&c, employer)
	}

	e.Fees.check(&c, true)
	c.Require("enrolment date", e.EnrolmentDate != nil)
	c.DateOrder("date of birth", "enrolment date", e.DateOfBirth, e.EnrolmentDate)

	c.RequireString("training partner UEN", e.TrainingPartnerUEN)
	c.UEN("training partner UEN", e.TrainingPartnerUEN)
	c.RequireString("training partner code", e.TrainingPartnerCode)
	return c.Result()
}

func (e CreateEnrolmentInfo) Payload(verify bool) (map[string]any, error) {
	return ri.Finalize(e, verify, func() (map[string]any, error) {
		var employer any
		if e.EmployerUEN != nil || e.EmployerContact != nil {
			employer = map[string]any{
				"uen":     ri.Str(e.EmployerUEN),
				"contact": e.EmployerContact.payload(),
			}
		}

		trainee := map[string]any{
			"id":              ri.NonEmpty(e.TraineeID),
			"idType":          map[string]any{"type": ri.Enum(e.TraineeIDType)},
			"fullName":        ri.NonEmpty(e.FullName),
			"dateOfBirth":     ri.ISODate(e.DateOfBirth),
			"emailAddress":    ri.Str(e.EmailAddress),
			"contactNumber":   e.ContactNumber.payload(),
			"sponsorshipType": ri.Enum(e.SponsorshipType),
			"employer":        employer,
			"fees":            e.Fees.payload(),
			"enrolmentDate":   ri.ISODate(e.EnrolmentDate),
		}

		return map[string]any{
			"enrolment": map[string]any{
				"course": map[string]any{
					"run":             map[string]any{"id": ri.NonEmpty(e.CourseRunID)},
					"referenceNumber": ri.NonEmpty(e.CourseReferenceNumber),
				},
				"trainee": trainee,
				"trainingPartner": map[string]any{
					"uen":  ri.NonEmpty(e.TrainingPartnerUEN),
					"code": ri.NonEmpty(e.TrainingPartnerCode),
				},
			},
		}, nil
	}, areaCode)
}

// UpdateEnrolmentInfo changes the mutable parts of an enrolment. The trainee
// identity (id, name, date of birth) is fixed once enrolled.
type UpdateEnrolmentInfo struct {
	CourseRunID     *string        `json:"courseRunId,omitempty"`
	EmailAddress    *string        `json:"emailAddress,omitempty"`
	ContactNumber   *ContactNumber `json:"contactNumber,omitempty"`
	EmployerContact *Contact       `json:"employerContact,omitempty"`
	Fees            *Fees          `json:"fees,omitempty"`
}

func (u UpdateEnrolmentInfo) Validate() ri.Result {
	var c ri.Collector
	c.WarnEmpty("course run ID", u.CourseRunID)
	c.Email("trainee email", u.EmailAddress, false)
	if u.ContactNumber != nil {
		u.ContactNumber.check(&c, "trainee contact number")
	}
	if u.EmployerContact != nil {
		u.EmployerContact.check(&c, false)
	}
	if u.Fees != nil {
		u.Fees.check(&c, false)
	}
	if u.CourseRunID == nil && u.EmailAddress == nil && u.ContactNumber == nil && u.EmployerContact == nil && u.Fees == nil {
		c.Warnf("no enrolment fields were specified")
	}
	return c.Result()
}

func (u UpdateEnrolmentInfo) Payload(verify bool) (map[string]any, error) {
	return ri.Finalize(u, verify, func() (map[string]any, error) {
		var run, employer, fees any
		if u.CourseRunID != nil {
			run = map[string]any{"run": map[string]any{"id": *u.CourseRunID}}
		}
		if u.EmployerContact != nil {
			employer = map[string]any{"contact": u.EmployerContact.payload()}
		}
		if u.Fees != nil {
			fees = u.Fees.payload()
		}

		return map[string]any{
			"enrolment": map[string]any{
				"action": "Update",
				"course": run,
				"trainee": map[string]any{
					"emailAddress":  ri.Str(u.EmailAddress),
					"contactNumber": u.ContactNumber.payload(),
					"employer":      employer,
					"fees":          fees,
				},
			},
		}, nil
	}, areaCode)
}

// CancelEnrolmentInfo cancels an enrolment. The enrolment reference travels
// in the request path so the body is only the action.
type CancelEnrolmentInfo struct{}

func (CancelEnrolmentInfo) Validate() ri.Result {
	var c ri.Collector
	return c.Result()
}

func (x CancelEnrolmentInfo) Payload(verify bool) (map[string]any, error) {
	return ri.Finalize(x, verify, func() (map[string]any, error) {
		return map[string]any{"enrolment": map[string]any{"action": "Cancel"}}, nil
	})
}

// UpdateFeeCollectionInfo records a change in fee collection status.
type UpdateFeeCollectionInfo struct {
	CollectionStatus ri.CollectionStatus `json:"collectionStatus"`
}

func (f UpdateFeeCollectionInfo) Validate() ri.Result {
	var c ri.Collector
	c.Require("fee collection status", f.CollectionStatus != "")
	ri.CheckEnum(&c, "fee collection status", f.CollectionStatus)
	return c.Result()
}

func (f UpdateFeeCollectionInfo) Payload(verify bool) (map[string]any, error) {
	return ri.Finalize(f, verify, func() (map[string]any, error) {
		return map[string]any{
			"enrolment": map[string]any{
				"fees": map[string]any{"collectionStatus": ri.Enum(f.CollectionStatus)},
			},
		}, nil
	})
}
