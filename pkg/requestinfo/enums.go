package requestinfo

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"
)

// ErrNotInSet is wrapped by every error for a value outside a closed
// enumeration.
var ErrNotInSet = errors.New("value is not in the allowed set")

// Code is one (code, description) pair of a lookup table.
type Code struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

// Int returns the code as an integer for tables whose wire form is numeric.
func (c Code) Int() int {
	n, _ := strconv.Atoi(c.Code)
	return n
}

// Table is a closed, ordered set of codes.
type Table struct {
	Name  string
	codes []Code
	index map[string]int
}

func NewTable(name string, codes ...Code) *Table {
	t := &Table{Name: name, codes: codes, index: make(map[string]int, len(codes))}
	for i, c := range codes {
		t.index[c.Code] = i
	}
	return t
}

// Lookup returns the entry for code or an *EnumError.
func (t *Table) Lookup(code string) (Code, error) {
	i, ok := t.index[code]
	if !ok {
		return Code{}, &EnumError{Table: t.Name, Value: code}
	}
	return t.codes[i], nil
}

func (t *Table) Contains(code string) bool {
	_, ok := t.index[code]
	return ok
}

// Codes returns a copy of the table entries in declaration order.
func (t *Table) Codes() []Code {
	out := make([]Code, len(t.codes))
	copy(out, t.codes)
	return out
}

// EnumError reports a value outside a closed set.
type EnumError struct {
	Table string
	Value string
}

func (e *EnumError) Error() string {
	return fmt.Sprintf("%q is not a valid %s", e.Value, e.Table)
}

func (e *EnumError) Unwrap() error {
	return ErrNotInSet
}

// Parse converts s into the enum type E after checking it against t.
func Parse[E ~string](t *Table, s string) (E, error) {
	if _, err := t.Lookup(s); err != nil {
		return "", err
	}
	return E(s), nil
}

func decodeEnum(b []byte, t *Table, dst *string) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		// numeric codes are accepted bare, e.g. "salutation": 1
		var n json.Number
		if numErr := json.Unmarshal(b, &n); numErr != nil {
			return fmt.Errorf("%s must be a string: %w", t.Name, err)
		}
		s = n.String()
	}
	if _, err := t.Lookup(s); err != nil {
		return err
	}
	*dst = s
	return nil
}

func describe(t *Table, s string) Code {
	c, err := t.Lookup(s)
	if err != nil {
		return Code{Code: s}
	}
	return c
}

var (
	ModesOfTraining = NewTable("mode of training",
		Code{"1", "Classroom"},
		Code{"2", "Asynchronous eLearning"},
		Code{"3", "In-house"},
		Code{"4", "On-the-Job"},
		Code{"5", "Practical / Practicum"},
		Code{"6", "Supervised Field"},
		Code{"7", "Traineeship"},
		Code{"8", "Assessment"},
		Code{"9", "Synchronous eLearning"},
	)

	IDTypes = NewTable("ID type",
		Code{"SB", "Singapore Blue Identification Card"},
		Code{"SP", "Singapore Pink Identification Card"},
		Code{"SO", "Fin/Work Permit/SAF 11B"},
		Code{"OT", "Others"},
	)

	Salutations = NewTable("salutation",
		Code{"1", "Mr"},
		Code{"2", "Ms"},
		Code{"3", "Mdm"},
		Code{"4", "Mrs"},
		Code{"5", "Dr"},
		Code{"6", "Prof"},
	)

	Vacancies = NewTable("vacancy status",
		Code{"A", "Available"},
		Code{"F", "Full"},
		Code{"L", "Limited Vacancy"},
	)

	TrainerRoles = NewTable("trainer role",
		Code{"1", "Trainer"},
		Code{"2", "Assessor"},
	)

	TrainerTypes = NewTable("trainer type",
		Code{"1", "Existing"},
		Code{"2", "New"},
	)

	ScheduleInfoTypes = NewTable("schedule info type",
		Code{"01", "Description"},
	)

	QualificationLevels = NewTable("SSEC EQA",
		Code{"01", "Never attended school or attended pre-primary"},
		Code{"03", "Primary education without PSLE or equivalent"},
		Code{"04", "PSLE or equivalent"},
		Code{"11", "Lower secondary education"},
		Code{"21", "Secondary education"},
		Code{"31", "Post-secondary (non-tertiary) general"},
		Code{"41", "Polytechnic diploma"},
		Code{"51", "Professional qualification and other diploma"},
		Code{"61", "Bachelor's or equivalent"},
		Code{"71", "Postgraduate diploma or certificate"},
		Code{"81", "Master's and doctorate or equivalent"},
		Code{"91", "Modular certification (non-award courses)"},
	)

	TraineeIDTypes = NewTable("trainee ID type",
		Code{"NRIC", "Singapore Citizen / Permanent Resident"},
		Code{"FIN", "Foreign Identification Number"},
		Code{"OTHERS", "Others"},
	)

	SponsorshipTypes = NewTable("sponsorship type",
		Code{"EMPLOYER", "Employer"},
		Code{"INDIVIDUAL", "Individual"},
	)

	CollectionStatuses = NewTable("fee collection status",
		Code{"Pending Payment", "Pending Payment"},
		Code{"Partial Payment", "Partial Payment"},
		Code{"Full Payment", "Full Payment"},
		Code{"Cancelled", "Cancelled"},
	)

	EnrolmentStatuses = NewTable("enrolment status",
		Code{"Confirmed", "Confirmed"},
		Code{"Cancelled", "Cancelled"},
	)

	AssessmentResults = NewTable("assessment result",
		Code{"Pass", "Pass"},
		Code{"Fail", "Fail"},
		Code{"Exempt", "Exempt"},
	)

	Grades = NewTable("grade",
		Code{"A", "A"},
		Code{"B", "B"},
		Code{"C", "C"},
		Code{"D", "D"},
		Code{"E", "E"},
		Code{"F", "F"},
	)

	AssessmentActions = NewTable("assessment action",
		Code{"update", "Update"},
		Code{"void", "Void"},
	)

	AttendanceStatuses = NewTable("attendance status",
		Code{"1", "Confirmed"},
		Code{"2", "Unconfirmed"},
		Code{"3", "Rejected"},
		Code{"4", "TP Voided"},
	)

	SurveyLanguages = NewTable("survey language",
		Code{"EL", "English"},
		Code{"MN", "Mandarin"},
		Code{"MY", "Malay"},
		Code{"TM", "Tamil"},
	)

	CancelClaimCodes = NewTable("cancel claim code",
		Code{"51", "Individual did not attend the course"},
		Code{"52", "Individual withdrew from the course"},
		Code{"53", "Duplicate claim"},
		Code{"54", "Incorrect claim amount"},
		Code{"55", "Others"},
	)

	SortOrders = NewTable("sort order",
		Code{"asc", "Ascending"},
		Code{"desc", "Descending"},
	)

	SortFields = NewTable("sort field",
		Code{"updatedOn", "Last updated"},
		Code{"createdOn", "Created"},
		Code{"assessmentDate", "Assessment date"},
		Code{"enrolmentDate", "Enrolment date"},
	)
)

// Tables indexes every lookup table by a URL-friendly name.
var Tables = map[string]*Table{
	"modes-of-training":    ModesOfTraining,
	"id-types":             IDTypes,
	"salutations":          Salutations,
	"vacancies":            Vacancies,
	"trainer-roles":        TrainerRoles,
	"trainer-types":        TrainerTypes,
	"schedule-info-types":  ScheduleInfoTypes,
	"qualification-levels": QualificationLevels,
	"trainee-id-types":     TraineeIDTypes,
	"sponsorship-types":    SponsorshipTypes,
	"collection-statuses":  CollectionStatuses,
	"enrolment-statuses":   EnrolmentStatuses,
	"assessment-results":   AssessmentResults,
	"grades":               Grades,
	"assessment-actions":   AssessmentActions,
	"attendance-statuses":  AttendanceStatuses,
	"survey-languages":     SurveyLanguages,
	"cancel-claim-codes":   CancelClaimCodes,
	"sort-orders":          SortOrders,
	"sort-fields":          SortFields,
}

// TableNames returns the keys of Tables in sorted order.
func TableNames() []string {
	names := make([]string, 0, len(Tables))
	for name := range Tables {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
