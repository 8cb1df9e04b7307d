package assessments

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ri "github.com/DSACMS/training-registry-client/pkg/requestinfo"
)

func strp(s string) *string { return &s }
func intp(n int) *int       { return &n }

func validCreate() CreateAssessmentInfo {
	date := ri.MustDate("2025-03-14")
	return CreateAssessmentInfo{
		Outcome: Outcome{
			Grade:          "B",
			Score:          intp(80),
			Result:         "Pass",
			SkillCode:      strp("TGS-CRE-001"),
			AssessmentDate: &date,
		},
		Trainee:               Trainee{IDType: "NRIC", ID: "S1234567D", FullName: "Tan Ah Kow"},
		CourseRunID:           "10026",
		CourseReferenceNumber: "TGS-2020001234",
		TrainingPartnerUEN:    "201000372W",
		TrainingPartnerCode:   "201000372W-01",
	}
}

func TestCreateAssessmentInfo_Payload(t *testing.T) {
	payload, err := validCreate().Payload(true)
	require.NoError(t, err)

	expected := map[string]any{
		"assessment": map[string]any{
			"grade":          "B",
			"score":          80,
			"result":         "Pass",
			"skillCode":      "TGS-CRE-001",
			"assessmentDate": "2025-03-14",
			"trainee":        map[string]any{"idType": "NRIC", "id": "S1234567D", "fullName": "Tan Ah Kow"},
			"course":         map[string]any{"runId": "10026", "referenceNumber": "TGS-2020001234"},
			"trainingPartner": map[string]any{
				"uen":  "201000372W",
				"code": "201000372W-01",
			},
		},
	}
	assert.Equal(t, expected, payload)
}

func TestCreateAssessmentInfo_Required(t *testing.T) {
	result := CreateAssessmentInfo{}.Validate()

	assert.Contains(t, result.Errors, "trainee ID is required")
	assert.Contains(t, result.Errors, "trainee full name is required")
	assert.Contains(t, result.Errors, "assessment date is required")
	assert.Contains(t, result.Errors, "result is required")
}

func TestCreateAssessmentInfo_ChecksNRIC(t *testing.T) {
	a := validCreate()
	a.Trainee.ID = "S1234567A"
	assert.Contains(t, a.Validate().Errors, `trainee ID "S1234567A" is not a valid NRIC/FIN`)

	a.Trainee.IDType = "OTHERS"
	assert.Empty(t, a.Validate().Errors)
}

func TestCreateAssessmentInfo_ScoreRange(t *testing.T) {
	a := validCreate()
	a.Score = intp(101)

	assert.Contains(t, a.Validate().Errors, "score must be between 0 and 100")
}

func TestUpdateVoid_TraineeIsLocked(t *testing.T) {
	dec := json.NewDecoder(bytes.NewBufferString(`{"action":"update","trainee":{"id":"S1234567D"}}`))
	dec.DisallowUnknownFields()

	var u UpdateVoidAssessmentInfo
	assert.Error(t, dec.Decode(&u))
}

func TestUpdateVoid_Payload(t *testing.T) {
	update := UpdateVoidAssessmentInfo{
		Action:          "update",
		Outcome:         Outcome{Grade: "A", Score: intp(95)},
		TraineeFullName: strp("Tan Ah Kow"),
	}

	payload, err := update.Payload(true)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{
		"assessment": map[string]any{
			"action":  "update",
			"grade":   "A",
			"score":   95,
			"trainee": map[string]any{"fullName": "Tan Ah Kow"},
		},
	}, payload)

	void := UpdateVoidAssessmentInfo{Action: "void", Outcome: Outcome{Grade: "A"}}

	assert.Equal(t, []string{"assessment fields are ignored when voiding"}, void.Validate().Warnings)

	payload, err = void.Payload(true)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"assessment": map[string]any{"action": "void"}}, payload)
}

func TestUpdateVoid_RequiresAction(t *testing.T) {
	_, err := UpdateVoidAssessmentInfo{}.Payload(true)

	assert.ErrorIs(t, err, ri.ErrInvalid)
}

func TestSearchAssessmentInfo(t *testing.T) {
	from := ri.MustDate("2025-01-01")
	to := ri.MustDate("2025-02-01")

	s := NewSearch("201000372W")
	s.LastUpdateDateFrom = &from
	s.LastUpdateDateTo = &to
	s.SortField = "updatedOn"
	s.SortOrder = "desc"
	s.TraineeID = strp("S1234567D")

	payload, err := s.Payload(true)
	require.NoError(t, err)

	assert.Equal(t, map[string]any{"lastUpdateDateFrom": "2025-01-01", "lastUpdateDateTo": "2025-02-01"}, payload["meta"])
	assert.Equal(t, map[string]any{"field": "updatedOn", "order": "desc"}, payload["sortBy"])
	assert.Equal(t, map[string]any{"page": 0, "pageSize": DefaultPageSize}, payload["parameters"])
	assert.Equal(t, map[string]any{
		"trainee":         map[string]any{"id": "S1234567D"},
		"trainingPartner": map[string]any{"uen": "201000372W"},
	}, payload["assessment"])
}

func TestSearchAssessmentInfo_Invalid(t *testing.T) {
	from := ri.MustDate("2025-03-01")
	to := ri.MustDate("2025-02-01")

	s := SearchAssessmentInfo{
		LastUpdateDateFrom: &from,
		LastUpdateDateTo:   &to,
		SortOrder:          "asc",
		Page:               -1,
	}

	assert.Equal(t, []string{
		"training partner UEN is required",
		"last update date from must not be after last update date to",
		"sort field and sort order must be specified together",
		"page must not be negative",
		"page size must be between 1 and 100",
	}, s.Validate().Errors)
}
