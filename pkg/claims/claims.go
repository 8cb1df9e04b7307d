// Package claims models SkillsFuture credit claims: preparing an encrypted
// claim request, reading back its status, cancelling a claim and attaching
// supporting documents to it.
package claims

import (
	"net/url"
	"strconv"

	ri "github.com/DSACMS/training-registry-client/pkg/requestinfo"
)

// EncryptPayloadInfo is a claim request that the registry encrypts for the
// individual to submit.
type EncryptPayloadInfo struct {
	CourseID              string   `json:"courseId"`
	CourseRunID           *string  `json:"courseRunId,omitempty"`
	CourseFee             *float64 `json:"courseFee,omitempty"`
	CourseStartDate       *ri.Date `json:"courseStartDate,omitempty"`
	NRIC                  string   `json:"nric"`
	Email                 *string  `json:"email,omitempty"`
	HomeNumber            *string  `json:"homeNumber,omitempty"`
	MobileNumber          *string  `json:"mobileNumber,omitempty"`
	Name                  *string  `json:"name,omitempty"`
	AdditionalInformation *string  `json:"additionalInformation,omitempty"`
	CallbackURL           *string  `json:"callbackUrl,omitempty"`
}

func (e EncryptPayloadInfo) Validate() ri.Result {
	var c ri.Collector
	c.RequireString("course ID", e.CourseID)
	c.WarnEmpty("course run ID", e.CourseRunID)
	c.Require("course fee", e.CourseFee != nil)
	if e.CourseFee != nil && *e.CourseFee < 0 {
		c.Errorf("course fee must not be negative")
	}
	c.Require("course start date", e.CourseStartDate != nil)

	c.RequireString("NRIC", e.NRIC)
	c.NRIC("NRIC", e.NRIC)
	c.Email("email", e.Email, true)
	c.WarnEmpty("home number", e.HomeNumber)
	c.WarnEmpty("mobile number", e.MobileNumber)
	c.WarnEmpty("name", e.Name)
	c.WarnEmpty("additional information", e.AdditionalInformation)

	if !ri.Blank(e.CallbackURL) {
		u, err := url.Parse(*e.CallbackURL)
		if err != nil || u.Host == "" || (u.Scheme != "https" && u.Scheme != "http") {
			c.Errorf("callback URL %q must be an absolute http(s) URL", *e.CallbackURL)
		}
	} else {
		c.WarnEmpty("callback URL", e.CallbackURL)
	}
	return c.Result()
}

func (e EncryptPayloadInfo) Payload(verify bool) (map[string]any, error) {
	return ri.Finalize(e, verify, func() (map[string]any, error) {
		var fee any
		if e.CourseFee != nil {
			fee = strconv.FormatFloat(*e.CourseFee, 'f', 2, 64)
		}

		return map[string]any{
			"claimRequest": map[string]any{
				"course": map[string]any{
					"id":        ri.NonEmpty(e.CourseID),
					"runId":     ri.Str(e.CourseRunID),
					"fee":       fee,
					"startDate": ri.ISODate(e.CourseStartDate),
				},
				"individual": map[string]any{
					"nric":         ri.NonEmpty(e.NRIC),
					"email":        ri.Str(e.Email),
					"homeNumber":   ri.Str(e.HomeNumber),
					"mobileNumber": ri.Str(e.MobileNumber),
					"name":         ri.Str(e.Name),
				},
				"additionalInformation": ri.Str(e.AdditionalInformation),
				"callbackUrl":           ri.Str(e.CallbackURL),
			},
		}, nil
	})
}

// DecryptPayloadInfo asks the registry to decrypt a claim status blob it
// handed back earlier.
type DecryptPayloadInfo struct {
	ClaimRequestStatus string `json:"claimRequestStatus"`
}

func (d DecryptPayloadInfo) Validate() ri.Result {
	var c ri.Collector
	c.RequireString("claim request status", d.ClaimRequestStatus)
	return c.Result()
}

func (d DecryptPayloadInfo) Payload(verify bool) (map[string]any, error) {
	return ri.Finalize(d, verify, func() (map[string]any, error) {
		return map[string]any{"claimRequestStatus": ri.NonEmpty(d.ClaimRequestStatus)}, nil
	})
}

// CancelClaimsInfo cancels a claim. The claim id travels in the request path.
type CancelClaimsInfo struct {
	NRIC            string             `json:"nric"`
	CancelClaimCode ri.CancelClaimCode `json:"cancelClaimCode"`
}

func (x CancelClaimsInfo) Validate() ri.Result {
	var c ri.Collector
	c.RequireString("NRIC", x.NRIC)
	c.NRIC("NRIC", x.NRIC)
	c.Require("cancel claim code", x.CancelClaimCode != "")
	ri.CheckEnum(&c, "cancel claim code", x.CancelClaimCode)
	return c.Result()
}

func (x CancelClaimsInfo) Payload(verify bool) (map[string]any, error) {
	return ri.Finalize(x, verify, func() (map[string]any, error) {
		return map[string]any{
			"nric":            ri.NonEmpty(x.NRIC),
			"cancelClaimCode": ri.Enum(x.CancelClaimCode),
		}, nil
	})
}
