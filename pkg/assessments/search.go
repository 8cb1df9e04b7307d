package assessments

import (
	ri "github.com/DSACMS/training-registry-client/pkg/requestinfo"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// SearchAssessmentInfo filters the assessments of a training partner.
type SearchAssessmentInfo struct {
	LastUpdateDateFrom    *ri.Date     `json:"lastUpdateDateFrom,omitempty"`
	LastUpdateDateTo      *ri.Date     `json:"lastUpdateDateTo,omitempty"`
	SortField             ri.SortField `json:"sortField,omitempty"`
	SortOrder             ri.SortOrder `json:"sortOrder,omitempty"`
	Page                  int          `json:"page"`
	PageSize              int          `json:"pageSize"`
	CourseRunID           *string      `json:"courseRunId,omitempty"`
	CourseReferenceNumber *string      `json:"courseReferenceNumber,omitempty"`
	TraineeID             *string      `json:"traineeId,omitempty"`
	EnrolmentReference    *string      `json:"enrolmentReferenceNumber,omitempty"`
	SkillCode             *string      `json:"skillCode,omitempty"`
	TrainingPartnerUEN    string       `json:"trainingPartnerUen"`
	TrainingPartnerCode   *string      `json:"trainingPartnerCode,omitempty"`
}

func (s SearchAssessmentInfo) Validate() ri.Result {
	var c ri.Collector
	c.RequireString("training partner UEN", s.TrainingPartnerUEN)
	c.UEN("training partner UEN", s.TrainingPartnerUEN)
	c.DateOrder("last update date from", "last update date to", s.LastUpdateDateFrom, s.LastUpdateDateTo)
	c.Paired("sort field", "sort order", s.SortField != "", s.SortOrder != "")
	ri.CheckEnum(&c, "sort field", s.SortField)
	ri.CheckEnum(&c, "sort order", s.SortOrder)
	if s.SortField == "enrolmentDate" {
		c.Errorf("sort field %q cannot be used for assessments", string(s.SortField))
	}
	if s.Page < 0 {
		c.Errorf("page must not be negative")
	}
	if s.PageSize < 1 || s.PageSize > MaxPageSize {
		c.Errorf("page size must be between 1 and %d", MaxPageSize)
	}
	for _, f := range []struct {
		label string
		value *string
	}{
		{"course run ID", s.CourseRunID},
		{"course reference number", s.CourseReferenceNumber},
		{"trainee ID", s.TraineeID},
		{"enrolment reference number", s.EnrolmentReference},
		{"skill code", s.SkillCode},
		{"training partner code", s.TrainingPartnerCode},
	} {
		c.WarnEmpty(f.label, f.value)
	}
	return c.Result()
}

func (s SearchAssessmentInfo) Payload(verify bool) (map[string]any, error) {
	return ri.Finalize(s, verify, func() (map[string]any, error) {
		var sortBy any
		if s.SortField != "" {
			sortBy = map[string]any{"field": ri.Enum(s.SortField), "order": ri.Enum(s.SortOrder)}
		}

		var run any
		if s.CourseRunID != nil {
			run = map[string]any{"id": *s.CourseRunID}
		}

		var enrolment any
		if s.EnrolmentReference != nil {
			enrolment = map[string]any{"referenceNumber": *s.EnrolmentReference}
		}

		var trainee any
		if s.TraineeID != nil {
			trainee = map[string]any{"id": *s.TraineeID}
		}

		return map[string]any{
			"meta": map[string]any{
				"lastUpdateDateFrom": ri.ISODate(s.LastUpdateDateFrom),
				"lastUpdateDateTo":   ri.ISODate(s.LastUpdateDateTo),
			},
			"sortBy": sortBy,
			"parameters": map[string]any{
				"page":     s.Page,
				"pageSize": s.PageSize,
			},
			"assessment": map[string]any{
				"course": map[string]any{
					"run":             run,
					"referenceNumber": ri.Str(s.CourseReferenceNumber),
				},
				"trainee":   trainee,
				"enrolment": enrolment,
				"skillCode": ri.Str(s.SkillCode),
				"trainingPartner": map[string]any{
					"uen":  ri.NonEmpty(s.TrainingPartnerUEN),
					"code": ri.Str(s.TrainingPartnerCode),
				},
			},
		}, nil
	})
}

// NewSearch returns a search on the first page with the default page size.
func NewSearch(uen string) SearchAssessmentInfo {
	return SearchAssessmentInfo{TrainingPartnerUEN: uen, PageSize: DefaultPageSize}
}
