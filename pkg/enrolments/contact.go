package enrolments

import (
	"regexp"

	ri "github.com/DSACMS/training-registry-client/pkg/requestinfo"
)

// DefaultCountryCode is the dialling code assumed when none is given.
const DefaultCountryCode = 65

var phonePattern = regexp.MustCompile(`^[0-9]{4,15}$`)

// ContactNumber is a phone number. AreaCode is always sent, as null when
// unset.
type ContactNumber struct {
	CountryCode *int    `json:"countryCode,omitempty"`
	AreaCode    *string `json:"areaCode,omitempty"`
	PhoneNumber string  `json:"phoneNumber"`
}

func (n ContactNumber) check(c *ri.Collector, label string) {
	c.RequireString(label, n.PhoneNumber)
	if n.PhoneNumber != "" && !phonePattern.MatchString(n.PhoneNumber) {
		c.Errorf("%s %q must contain only digits", label, n.PhoneNumber)
	}
	if n.CountryCode != nil && *n.CountryCode <= 0 {
		c.Errorf("%s country code must be positive", label)
	}
}

func (n *ContactNumber) payload() any {
	if n == nil {
		return nil
	}
	country := DefaultCountryCode
	if n.CountryCode != nil {
		country = *n.CountryCode
	}
	return map[string]any{
		"countryCode": country,
		"areaCode":    ri.Str(n.AreaCode),
		"phoneNumber": n.PhoneNumber,
	}
}

// Contact is the employer's point of contact for a sponsored trainee.
type Contact struct {
	FullName      *string        `json:"fullName,omitempty"`
	EmailAddress  *string        `json:"emailAddress,omitempty"`
	ContactNumber *ContactNumber `json:"contactNumber,omitempty"`
}

func (ct Contact) check(c *ri.Collector, required bool) {
	if required {
		c.Require("employer contact name", !ri.Blank(ct.FullName))
		c.Require("employer contact number", ct.ContactNumber != nil)
	} else {
		c.WarnEmpty("employer contact name", ct.FullName)
	}
	c.Email("employer contact email", ct.EmailAddress, required)
	if ct.ContactNumber != nil {
		ct.ContactNumber.check(c, "employer contact number")
	}
}

func (ct *Contact) payload() any {
	if ct == nil {
		return nil
	}
	return map[string]any{
		"fullName":      ri.Str(ct.FullName),
		"emailAddress":  ri.Str(ct.EmailAddress),
		"contactNumber": ct.ContactNumber.payload(),
	}
}

// Fees describes what the trainee was charged.
type Fees struct {
	DiscountAmount   *float64            `json:"discountAmount,omitempty"`
	CollectionStatus ri.CollectionStatus `json:"collectionStatus,omitempty"`
}

func (f Fees) check(c *ri.Collector, required bool) {
	if required {
		c.Require("fee collection status", f.CollectionStatus != "")
	}
	ri.CheckEnum(c, "fee collection status", f.CollectionStatus)
	if f.DiscountAmount != nil && *f.DiscountAmount < 0 {
		c.Errorf("discount amount must not be negative")
	}
}

func (f Fees) payload() any {
	return map[string]any{
		"discountAmount":   ri.Float(f.DiscountAmount),
		"collectionStatus": ri.Enum(f.CollectionStatus),
	}
}
