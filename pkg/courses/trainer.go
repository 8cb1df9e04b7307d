package courses

import (
	"fmt"
	"slices"

	ri "github.com/DSACMS/training-registry-client/pkg/requestinfo"
)

// Qualification links a trainer to an SSEC EQA qualification level.
type Qualification struct {
	Level       ri.QualificationLevel `json:"ssecEQA"`
	Description *string               `json:"description,omitempty"`
}

func (q Qualification) Validate() ri.Result {
	var c ri.Collector
	c.Require("SSEC EQA", q.Level != "")
	ri.CheckEnum(&c, "SSEC EQA", q.Level)
	c.WarnEmpty("qualification description", q.Description)
	return c.Result()
}

func (q Qualification) Payload(verify bool) (map[string]any, error) {
	return ri.Finalize(q, verify, func() (map[string]any, error) {
		return map[string]any{
			"description": ri.Str(q.Description),
			"ssecEQA":     ri.CodeOnly(q.Level),
		}, nil
	})
}

// TrainerDetails are the fields shared by the trainer add and edit variants.
type TrainerDetails struct {
	TrainerType               ri.TrainerType   `json:"trainerType,omitempty"`
	IndexNumber               *int             `json:"indexNumber,omitempty"`
	ID                        *string          `json:"id,omitempty"`
	Name                      *string          `json:"name,omitempty"`
	Email                     *string          `json:"email,omitempty"`
	IDNumber                  *string          `json:"idNumber,omitempty"`
	IDType                    ri.IDType        `json:"idType,omitempty"`
	Roles                     []ri.TrainerRole `json:"roles,omitempty"`
	InTrainingProviderProfile *bool            `json:"inTrainingProviderProfile,omitempty"`
	DomainAreaOfPractice      *string          `json:"domainAreaOfPractice,omitempty"`
	Experience                *string          `json:"experience,omitempty"`
	LinkedInURL               *string          `json:"linkedInURL,omitempty"`
	Salutation                ri.Salutation    `json:"salutationId,omitempty"`
	Photo                     *ri.File         `json:"photo,omitempty"`
	Qualifications            []Qualification  `json:"linkedSsecEQAs,omitempty"`
}

// AddQualification appends a copy of q.
func (t *TrainerDetails) AddQualification(q Qualification) {
	t.Qualifications = append(t.Qualifications, q.clone())
}

func (q Qualification) clone() Qualification {
	q.Description = ri.ClonePtr(q.Description)
	return q
}

func (t TrainerDetails) check(c *ri.Collector, add bool) {
	if add {
		c.Require("trainer type", t.TrainerType != "")
		switch t.TrainerType {
		case "1":
			// existing trainers are referenced by their registry id
			c.Require("trainer ID", !ri.Blank(t.ID))
		case "2":
			c.Require("trainer name", !ri.Blank(t.Name))
			c.Require("trainer ID number", !ri.Blank(t.IDNumber))
			c.Require("trainer ID type", t.IDType != "")
			c.Require("trainer role", len(t.Roles) > 0)
		}
	} else {
		c.WarnEmpty("trainer ID", t.ID)
		c.WarnEmpty("trainer name", t.Name)
		c.WarnEmpty("trainer ID number", t.IDNumber)
	}

	c.Email("trainer email", t.Email, add && t.TrainerType == "2")

	ri.CheckEnum(c, "trainer type", t.TrainerType)
	ri.CheckEnum(c, "trainer ID type", t.IDType)
	ri.CheckEnum(c, "salutation", t.Salutation)
	for _, role := range t.Roles {
		ri.CheckEnum(c, "trainer role", role)
	}

	if t.IndexNumber != nil && *t.IndexNumber < 0 {
		c.Errorf("trainer index number must not be negative")
	}

	c.WarnEmpty("domain area of practice", t.DomainAreaOfPractice)
	c.WarnEmpty("experience", t.Experience)
	c.WarnEmpty("LinkedIn URL", t.LinkedInURL)

	if t.Photo != nil && len(t.Photo.Content) == 0 {
		c.Warnf("trainer photo %q is empty", t.Photo.Name)
	}

	for i, q := range t.Qualifications {
		c.Nest(fmt.Sprintf("Qualification %d", i+1), q.Validate())
	}
}

func (t TrainerDetails) fields() (map[string]any, error) {
	qualifications, err := ri.Children(t.Qualifications)
	if err != nil {
		return nil, err
	}

	var roles any
	if len(t.Roles) > 0 {
		list := make([]map[string]any, 0, len(t.Roles))
		for _, role := range t.Roles {
			code := role.Code()
			list = append(list, map[string]any{
				"role": map[string]any{"id": code.Int(), "description": code.Description},
			})
		}
		roles = list
	}

	var photo any
	if t.Photo != nil {
		photo = map[string]any{"name": t.Photo.Name, "content": t.Photo.Encoded()}
	}

	trainer := map[string]any{
		"trainerType":               ri.CodeObject(t.TrainerType),
		"indexNumber":               ri.Int(t.IndexNumber),
		"id":                        ri.Str(t.ID),
		"name":                      ri.Str(t.Name),
		"email":                     ri.Str(t.Email),
		"idNumber":                  ri.Str(t.IDNumber),
		"idType":                    ri.CodeObject(t.IDType),
		"roles":                     roles,
		"inTrainingProviderProfile": ri.Bool(t.InTrainingProviderProfile),
		"domainAreaOfPractice":      ri.Str(t.DomainAreaOfPractice),
		"experience":                ri.Str(t.Experience),
		"linkedInURL":               ri.Str(t.LinkedInURL),
		"salutationId":              ri.EnumInt(t.Salutation),
		"photo":                     photo,
		"linkedSsecEQAs":            qualifications,
	}
	return map[string]any{"trainer": trainer}, nil
}

func cloneTrainer(t TrainerDetails) TrainerDetails {
	t.IndexNumber = ri.ClonePtr(t.IndexNumber)
	t.ID = ri.ClonePtr(t.ID)
	t.Name = ri.ClonePtr(t.Name)
	t.Email = ri.ClonePtr(t.Email)
	t.IDNumber = ri.ClonePtr(t.IDNumber)
	t.Roles = slices.Clone(t.Roles)
	t.InTrainingProviderProfile = ri.ClonePtr(t.InTrainingProviderProfile)
	t.DomainAreaOfPractice = ri.ClonePtr(t.DomainAreaOfPractice)
	t.Experience = ri.ClonePtr(t.Experience)
	t.LinkedInURL = ri.ClonePtr(t.LinkedInURL)
	t.Photo = t.Photo.Clone()

	qualifications := t.Qualifications
	t.Qualifications = nil
	for _, q := range qualifications {
		t.AddQualification(q)
	}
	return t
}

// RunTrainerAddInfo links a trainer to a run being created. New trainers
// (type 2) must be fully described; existing ones (type 1) need their id.
type RunTrainerAddInfo struct {
	TrainerDetails
}

func (t RunTrainerAddInfo) Validate() ri.Result {
	var c ri.Collector
	t.check(&c, true)
	return c.Result()
}

func (t RunTrainerAddInfo) Payload(verify bool) (map[string]any, error) {
	return ri.Finalize(t, verify, t.fields)
}

// RunTrainerEditInfo updates a trainer link on an existing run. Every field
// is optional.
type RunTrainerEditInfo struct {
	TrainerDetails
}

func (t RunTrainerEditInfo) Validate() ri.Result {
	var c ri.Collector
	t.check(&c, false)
	return c.Result()
}

func (t RunTrainerEditInfo) Payload(verify bool) (map[string]any, error) {
	return ri.Finalize(t, verify, t.fields)
}
