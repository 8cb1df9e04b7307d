package enrolments

import (
	ri "github.com/DSACMS/training-registry-client/pkg/requestinfo"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// SearchEnrolmentInfo filters the enrolments of a training partner.
type SearchEnrolmentInfo struct {
	LastUpdateDateFrom    *ri.Date            `json:"lastUpdateDateFrom,omitempty"`
	LastUpdateDateTo      *ri.Date            `json:"lastUpdateDateTo,omitempty"`
	SortField             ri.SortField        `json:"sortField,omitempty"`
	SortOrder             ri.SortOrder        `json:"sortOrder,omitempty"`
	Page                  int                 `json:"page"`
	PageSize              int                 `json:"pageSize"`
	CourseRunID           *string             `json:"courseRunId,omitempty"`
	CourseReferenceNumber *string             `json:"courseReferenceNumber,omitempty"`
	Status                ri.EnrolmentStatus  `json:"status,omitempty"`
	TraineeID             *string             `json:"traineeId,omitempty"`
	EmployerUEN           *string             `json:"employerUen,omitempty"`
	EnrolmentDate         *ri.Date            `json:"enrolmentDate,omitempty"`
	SponsorshipType       ri.SponsorshipType  `json:"sponsorshipType,omitempty"`
	CollectionStatus      ri.CollectionStatus `json:"collectionStatus,omitempty"`
	TrainingPartnerUEN    string              `json:"trainingPartnerUen"`
	TrainingPartnerCode   *string             `json:"trainingPartnerCode,omitempty"`
}

func NewSearch(uen string) SearchEnrolmentInfo {
	return SearchEnrolmentInfo{TrainingPartnerUEN: uen, PageSize: DefaultPageSize}
}

func (s SearchEnrolmentInfo) Validate() ri.Result {
	var c ri.Collector
	c.RequireString("training partner UEN", s.TrainingPartnerUEN)
	c.UEN("training partner UEN", s.TrainingPartnerUEN)
	c.DateOrder("last update date from", "last update date to", s.LastUpdateDateFrom, s.LastUpdateDateTo)
	c.Paired("sort field", "sort order", s.SortField != "", s.SortOrder != "")
	ri.CheckEnum(&c, "sort field", s.SortField)
	ri.CheckEnum(&c, "sort order", s.SortOrder)
	if s.SortField == "assessmentDate" {
		c.Errorf("sort field %q cannot be used for enrolments", string(s.SortField))
	}
	ri.CheckEnum(&c, "enrolment status", s.Status)
	ri.CheckEnum(&c, "sponsorship type", s.SponsorshipType)
	ri.CheckEnum(&c, "fee collection status", s.CollectionStatus)
	if s.Page < 0 {
		c.Errorf("page must not be negative")
	}
	if s.PageSize < 1 || s.PageSize > MaxPageSize {
		c.Errorf("page size must be between 1 and %d", MaxPageSize)
	}
	if s.EmployerUEN != nil {
		c.UEN("employer UEN", *s.EmployerUEN)
	}
	c.WarnEmpty("course run ID", s.CourseRunID)
	c.WarnEmpty("course reference number", s.CourseReferenceNumber)
	c.WarnEmpty("trainee ID", s.TraineeID)
	c.WarnEmpty("training partner code", s.TrainingPartnerCode)
	return c.Result()
}

func (s SearchEnrolmentInfo) Payload(verify bool) (map[string]any, error) {
	return ri.Finalize(s, verify, func() (map[string]any, error) {
		var sortBy, run, trainee, employer, fees any
		if s.SortField != "" {
			sortBy = map[string]any{"field": ri.Enum(s.SortField), "order": ri.Enum(s.SortOrder)}
		}
		if s.CourseRunID != nil {
			run = map[string]any{"id": *s.CourseRunID}
		}
		if s.TraineeID != nil {
			trainee = map[string]any{"id": *s.TraineeID}
		}
		if s.EmployerUEN != nil {
			employer = map[string]any{"uen": *s.EmployerUEN}
		}
		if s.CollectionStatus != "" {
			fees = map[string]any{"collectionStatus": string(s.CollectionStatus)}
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
			"enrolment": map[string]any{
				"course": map[string]any{
					"run":             run,
					"referenceNumber": ri.Str(s.CourseReferenceNumber),
				},
				"status":          ri.Enum(s.Status),
				"trainee":         trainee,
				"employer":        employer,
				"fees":            fees,
				"enrolmentDate":   ri.ISODate(s.EnrolmentDate),
				"sponsorshipType": ri.Enum(s.SponsorshipType),
				"trainingPartner": map[string]any{
					"uen":  ri.NonEmpty(s.TrainingPartnerUEN),
					"code": ri.Str(s.TrainingPartnerCode),
				},
			},
		}, nil
	})
}
