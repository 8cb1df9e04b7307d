// Package assessments models trainee assessment records: creating one,
// updating or voiding it and searching the records of a provider.
package assessments

import (
	ri "github.com/DSACMS/training-registry-client/pkg/requestinfo"
)

// Outcome holds the graded fields shared by create and update.
type Outcome struct {
	Grade          ri.Grade            `json:"grade,omitempty"`
	Score          *int                `json:"score,omitempty"`
	Result         ri.AssessmentResult `json:"result,omitempty"`
	SkillCode      *string             `json:"skillCode,omitempty"`
	AssessmentDate *ri.Date            `json:"assessmentDate,omitempty"`
}

func (o Outcome) check(c *ri.Collector) {
	ri.CheckEnum(c, "grade", o.Grade)
	ri.CheckEnum(c, "result", o.Result)
	if o.Score != nil && (*o.Score < 0 || *o.Score > 100) {
		c.Errorf("score must be between 0 and 100")
	}
	c.WarnEmpty("skill code", o.SkillCode)
}

func (o Outcome) fields() map[string]any {
	return map[string]any{
		"grade":          ri.Enum(o.Grade),
		"score":          ri.Int(o.Score),
		"result":         ri.Enum(o.Result),
		"skillCode":      ri.Str(o.SkillCode),
		"assessmentDate": ri.ISODate(o.AssessmentDate),
	}
}

// Trainee identifies the person assessed. It can only be set at creation.
type Trainee struct {
	IDType   ri.TraineeIDType `json:"idType"`
	ID       string           `json:"id"`
	FullName string           `json:"fullName"`
}

func (t Trainee) check(c *ri.Collector) {
	c.Require("trainee ID type", t.IDType != "")
	ri.CheckEnum(c, "trainee ID type", t.IDType)
	c.RequireString("trainee ID", t.ID)
	c.RequireString("trainee full name", t.FullName)
	if t.IDType == "NRIC" || t.IDType == "FIN" {
		c.NRIC("trainee ID", t.ID)
	}
}

// CreateAssessmentInfo records the assessment of one trainee on a run.
type CreateAssessmentInfo struct {
	Outcome
	Trainee                 Trainee `json:"trainee"`
	CourseRunID             string  `json:"courseRunId"`
	CourseReferenceNumber   string  `json:"courseReferenceNumber"`
	TrainingPartnerUEN      string  `json:"trainingPartnerUen"`
	TrainingPartnerCode     string  `json:"trainingPartnerCode"`
	ConferringInstituteCode *string `json:"conferringInstituteCode,omitempty"`
}

func (a CreateAssessmentInfo) Validate() ri.Result {
	var c ri.Collector
	a.Trainee.check(&c)
	c.RequireString("course run ID", a.CourseRunID)
	c.RequireString("course reference number", a.CourseReferenceNumber)
	c.RequireString("training partner UEN", a.TrainingPartnerUEN)
	c.UEN("training partner UEN", a.TrainingPartnerUEN)
	c.RequireString("training partner code", a.TrainingPartnerCode)
	c.Require("result", a.Result != "")
	c.Require("assessment date", a.AssessmentDate != nil)
	c.Require("skill code", !ri.Blank(a.SkillCode))
	a.Outcome.check(&c)
	c.WarnEmpty("conferring institute code", a.ConferringInstituteCode)
	return c.Result()
}

func (a CreateAssessmentInfo) Payload(verify bool) (map[string]any, error) {
	return ri.Finalize(a, verify, func() (map[string]any, error) {
		body := a.fields()
		body["trainee"] = map[string]any{
			"idType":   ri.Enum(a.Trainee.IDType),
			"id":       ri.NonEmpty(a.Trainee.ID),
			"fullName": ri.NonEmpty(a.Trainee.FullName),
		}
		body["course"] = map[string]any{
			"runId":           ri.NonEmpty(a.CourseRunID),
			"referenceNumber": ri.NonEmpty(a.CourseReferenceNumber),
		}
		body["trainingPartner"] = map[string]any{
			"uen":  ri.NonEmpty(a.TrainingPartnerUEN),
			"code": ri.NonEmpty(a.TrainingPartnerCode),
		}
		if a.ConferringInstituteCode != nil {
			body["conferringInstitute"] = map[string]any{"code": *a.ConferringInstituteCode}
		}
		return map[string]any{"assessment": body}, nil
	})
}

// UpdateVoidAssessmentInfo updates or voids an existing assessment. The
// trainee can no longer be changed. Voiding carries only the action.
type UpdateVoidAssessmentInfo struct {
	Action ri.AssessmentAction `json:"action"`
	Outcome
	TraineeFullName *string `json:"traineeFullName,omitempty"`
}

func (u UpdateVoidAssessmentInfo) Validate() ri.Result {
	var c ri.Collector
	c.Require("action", u.Action != "")
	ri.CheckEnum(&c, "action", u.Action)
	if u.Action == "void" {
		if u.Grade != "" || u.Score != nil || u.Result != "" || u.SkillCode != nil || u.AssessmentDate != nil || u.TraineeFullName != nil {
			c.Warnf("assessment fields are ignored when voiding")
		}
		return c.Result()
	}
	u.Outcome.check(&c)
	c.WarnEmpty("trainee full name", u.TraineeFullName)
	return c.Result()
}

func (u UpdateVoidAssessmentInfo) Payload(verify bool) (map[string]any, error) {
	return ri.Finalize(u, verify, func() (map[string]any, error) {
		body := map[string]any{"action": ri.Enum(u.Action)}
		if u.Action != "void" {
			body = u.fields()
			body["action"] = ri.Enum(u.Action)
			if u.TraineeFullName != nil {
				body["trainee"] = map[string]any{"fullName": *u.TraineeFullName}
			}
		}
		return map[string]any{"assessment": body}, nil
	})
}
