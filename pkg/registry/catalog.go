// Package registry lists the training registry operations and sends them:
// each submission is validated, turned into a request, previewed and
// dispatched in one pass.
package registry

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"slices"
	"strings"

	"github.com/DSACMS/training-registry-client/pkg/assessments"
	"github.com/DSACMS/training-registry-client/pkg/attendance"
	"github.com/DSACMS/training-registry-client/pkg/claims"
	"github.com/DSACMS/training-registry-client/pkg/courses"
	"github.com/DSACMS/training-registry-client/pkg/enrolments"
	ri "github.com/DSACMS/training-registry-client/pkg/requestinfo"
)

var (
	ErrUnknownOperation = errors.New("unknown operation")
	ErrMissingParam     = errors.New("missing parameter")
	ErrUnknownParam     = errors.New("unknown parameter")
)

// Param is a query parameter an operation accepts.
type Param struct {
	Name     string `json:"name"`
	Required bool   `json:"required"`
}

// Operation describes one registry endpoint.
type Operation struct {
	Name   string `json:"name"`
	Title  string `json:"title"`
	Method string `json:"method"`
	// Path template relative to the base URL, with {name} placeholders.
	Path  string  `json:"path"`
	Query []Param `json:"query,omitempty"`
	// Encrypted bodies are sent as ciphertext, Decrypt responses come back as
	// ciphertext.
	Encrypted bool `json:"encrypted"`
	Decrypt   bool `json:"decrypt"`
	// APIVersion overrides the configured x-api-version header.
	APIVersion string `json:"apiVersion,omitempty"`

	newInfo func(uen string) ri.RequestInfo
}

var placeholder = regexp.MustCompile(`\{([A-Za-z]+)\}`)

// HasBody reports whether the operation takes a request-info body.
func (o Operation) HasBody() bool {
	return o.newInfo != nil
}

// NewInfo returns an empty request info ready to be decoded into, or nil for
// operations without a body. uen prefills training provider fields where the
// entity has a sensible default.
func (o Operation) NewInfo(uen string) ri.RequestInfo {
	if o.newInfo == nil {
		return nil
	}
	return o.newInfo(uen)
}

// PathParams returns the placeholder names in the path template in order.
func (o Operation) PathParams() []string {
	var names []string
	for _, m := range placeholder.FindAllStringSubmatch(o.Path, -1) {
		names = append(names, m[1])
	}
	return names
}

// Expand fills the path template. Values are path-escaped.
func (o Operation) Expand(values map[string]string) (string, error) {
	var errs []error
	path := placeholder.ReplaceAllStringFunc(o.Path, func(m string) string {
		name := m[1 : len(m)-1]
		v := strings.TrimSpace(values[name])
		if v == "" {
			errs = append(errs, fmt.Errorf("%w: path %q", ErrMissingParam, name))
			return m
		}
		return url.PathEscape(v)
	})

	for name := range values {
		if !slices.Contains(o.PathParams(), name) {
			errs = append(errs, fmt.Errorf("%w: path %q", ErrUnknownParam, name))
		}
	}
	return path, errors.Join(errs...)
}

func (o Operation) param(name string) (Param, bool) {
	for _, p := range o.Query {
		if p.Name == name {
			return p, true
		}
	}
	return Param{}, false
}

func required(name string) Param { return Param{Name: name, Required: true} }
func optional(name string) Param { return Param{Name: name} }

func info[T any, P interface {
	*T
	ri.RequestInfo
}]() func(string) ri.RequestInfo {
	return func(string) ri.RequestInfo { return P(new(T)) }
}

var catalog = []Operation{
	{
		Name:   "view-course-run",
		Title:  "View course run",
		Method: http.MethodGet,
		Path:   "/courses/courseRuns/id/{runId}",
		Query:  []Param{optional("includeExpiredCourses")},
	},
	{
		Name:    "add-course-runs",
		Title:   "Add course runs",
		Method:  http.MethodPost,
		Path:    "/courses/courseRuns/publish",
		Query:   []Param{optional("includeExpiredCourses")},
		newInfo: info[courses.AddRunInfo](),
	},
	{
		Name:    "edit-course-run",
		Title:   "Edit course run",
		Method:  http.MethodPost,
		Path:    "/courses/courseRuns/edit/{runId}",
		Query:   []Param{optional("includeExpiredCourses")},
		newInfo: info[courses.EditRunInfo](),
	},
	{
		Name:    "delete-course-run",
		Title:   "Delete course run",
		Method:  http.MethodPost,
		Path:    "/courses/courseRuns/edit/{runId}",
		Query:   []Param{optional("includeExpiredCourses")},
		newInfo: info[courses.DeleteRunInfo](),
	},
	{
		Name:   "view-course-sessions",
		Title:  "View course sessions",
		Method: http.MethodGet,
		Path:   "/courses/runs/{runId}/sessions",
		Query: []Param{
			required("uen"),
			required("courseReferenceNumber"),
			optional("sessionMonth"),
			optional("includeExpiredCourses"),
		},
	},
	{
		Name:   "view-session-attendance",
		Title:  "View course session attendance",
		Method: http.MethodGet,
		Path:   "/courses/runs/{runId}/sessions/attendance",
		Query: []Param{
			required("uen"),
			required("courseReferenceNumber"),
			required("sessionId"),
		},
		Decrypt: true,
	},
	{
		Name:      "upload-session-attendance",
		Title:     "Upload course session attendance",
		Method:    http.MethodPost,
		Path:      "/courses/runs/{runId}/sessions/attendance",
		Encrypted: true,
		Decrypt:   true,
		newInfo: func(uen string) ri.RequestInfo {
			return &attendance.UploadAttendanceInfo{UEN: uen}
		},
	},
	{
		Name:   "view-trainers",
		Title:  "View course run trainers",
		Method: http.MethodGet,
		Path:   "/trainingProviders/{uen}/trainers",
		Query: []Param{
			optional("pageSize"),
			optional("page"),
			optional("keyword"),
		},
	},
	{
		Name:      "create-assessment",
		Title:     "Create assessment",
		Method:    http.MethodPost,
		Path:      "/tpg/assessments",
		Encrypted: true,
		Decrypt:   true,
		newInfo: func(uen string) ri.RequestInfo {
			return &assessments.CreateAssessmentInfo{TrainingPartnerUEN: uen}
		},
	},
	{
		Name:      "update-void-assessment",
		Title:     "Update or void assessment",
		Method:    http.MethodPost,
		Path:      "/tpg/assessments/details/{referenceNumber}",
		Encrypted: true,
		Decrypt:   true,
		newInfo:   info[assessments.UpdateVoidAssessmentInfo](),
	},
	{
		Name:      "search-assessments",
		Title:     "Search assessments",
		Method:    http.MethodPost,
		Path:      "/tpg/assessments/search",
		Encrypted: true,
		Decrypt:   true,
		newInfo: func(uen string) ri.RequestInfo {
			s := assessments.NewSearch(uen)
			return &s
		},
	},
	{
		Name:    "view-assessment",
		Title:   "View assessment",
		Method:  http.MethodGet,
		Path:    "/tpg/assessments/details/{referenceNumber}",
		Decrypt: true,
	},
	{
		Name:       "create-enrolment",
		Title:      "Create enrolment",
		APIVersion: "v2.0",
		Method:     http.MethodPost,
		Path:       "/tpg/enrolments",
		Encrypted:  true,
		Decrypt:    true,
		newInfo: func(uen string) ri.RequestInfo {
			return &enrolments.CreateEnrolmentInfo{TrainingPartnerUEN: uen}
		},
	},
	{
		Name:       "update-enrolment",
		Title:      "Update enrolment",
		APIVersion: "v2.0",
		Method:     http.MethodPost,
		Path:       "/tpg/enrolments/details/{referenceNumber}",
		Encrypted:  true,
		Decrypt:    true,
		newInfo:    info[enrolments.UpdateEnrolmentInfo](),
	},
	{
		Name:       "cancel-enrolment",
		Title:      "Cancel enrolment",
		APIVersion: "v2.0",
		Method:     http.MethodPost,
		Path:       "/tpg/enrolments/details/{referenceNumber}",
		Encrypted:  true,
		Decrypt:    true,
		newInfo:    info[enrolments.CancelEnrolmentInfo](),
	},
	{
		Name:       "search-enrolments",
		Title:      "Search enrolments",
		APIVersion: "v2.0",
		Method:     http.MethodPost,
		Path:       "/tpg/enrolments/search",
		Encrypted:  true,
		Decrypt:    true,
		newInfo: func(uen string) ri.RequestInfo {
			s := enrolments.NewSearch(uen)
			return &s
		},
	},
	{
		Name:       "view-enrolment",
		Title:      "View enrolment",
		APIVersion: "v2.0",
		Method:     http.MethodGet,
		Path:       "/tpg/enrolments/details/{referenceNumber}",
		Decrypt:    true,
	},
	{
		Name:       "update-fee-collection",
		Title:      "Update enrolment fee collection",
		APIVersion: "v2.0",
		Method:     http.MethodPost,
		Path:       "/tpg/enrolments/feeCollections/{referenceNumber}",
		Encrypted:  true,
		Decrypt:    true,
		newInfo:    info[enrolments.UpdateFeeCollectionInfo](),
	},
	{
		Name:      "encrypt-claim",
		Title:     "Encrypt credit claim request",
		Method:    http.MethodPost,
		Path:      "/skillsFutureCredits/claims/encryptRequests",
		Encrypted: true,
		Decrypt:   true,
		newInfo:   info[claims.EncryptPayloadInfo](),
	},
	{
		Name:      "decrypt-claim",
		Title:     "Decrypt credit claim status",
		Method:    http.MethodPost,
		Path:      "/skillsFutureCredits/claims/decryptRequests",
		Encrypted: true,
		Decrypt:   true,
		newInfo:   info[claims.DecryptPayloadInfo](),
	},
	{
		Name:    "view-claim",
		Title:   "View credit claim",
		Method:  http.MethodGet,
		Path:    "/skillsFutureCredits/claims/{claimId}",
		Query:   []Param{required("nric")},
		Decrypt: true,
	},
	{
		Name:      "cancel-claim",
		Title:     "Cancel credit claim",
		Method:    http.MethodPost,
		Path:      "/skillsFutureCredits/claims/{claimId}",
		Encrypted: true,
		Decrypt:   true,
		newInfo:   info[claims.CancelClaimsInfo](),
	},
	{
		Name:      "upload-claim-documents",
		Title:     "Upload credit claim supporting documents",
		Method:    http.MethodPost,
		Path:      "/skillsFutureCredits/claims/{claimId}/supportingdocuments",
		Encrypted: true,
		Decrypt:   true,
		newInfo:   info[claims.UploadDocumentInfo](),
	},
}

// Operations returns the catalog in display order.
func Operations() []Operation {
	return slices.Clone(catalog)
}

func Lookup(name string) (Operation, error) {
	i := slices.IndexFunc(catalog, func(o Operation) bool { return o.Name == name })
	if i < 0 {
		return Operation{}, fmt.Errorf("%w: %q", ErrUnknownOperation, name)
	}
	return catalog[i], nil
}
