package requestinfo

import (
	"encoding/base64"
	"fmt"
	"slices"
	"strings"

	"github.com/DSACMS/training-registry-client/pkg/prune"
	"github.com/DSACMS/training-registry-client/pkg/validators"
)

// Validator is implemented by every request-info entity and by the child
// entities they own.
type Validator interface {
	Validate() Result
}

// RequestInfo is one API operation's request body.
type RequestInfo interface {
	Validator
	// Payload returns the wire representation with nil values pruned. With
	// verify set, a payload is only built when Validate reports no errors.
	Payload(verify bool) (map[string]any, error)
}

// Finalize runs the shared tail of every Payload implementation: the
// optional validation guard, the build itself and pruning. Keys named in
// exclude survive pruning even when nil.
func Finalize(v Validator, verify bool, build func() (map[string]any, error), exclude ...string) (map[string]any, error) {
	if verify {
		if err := v.Validate().Err(); err != nil {
			return nil, err
		}
	}

	m, err := build()
	if err != nil {
		return nil, err
	}
	return prune.Map(m, exclude...), nil
}

// Children builds the payload of every child without re-validating it; the
// parent's Validate already covered them. An empty collection yields nil so
// the key is pruned.
func Children[T RequestInfo](children []T) (any, error) {
	if len(children) == 0 {
		return nil, nil
	}

	out := make([]map[string]any, 0, len(children))
	for i, child := range children {
		p, err := child.Payload(false)
		if err != nil {
			return nil, fmt.Errorf("child %d: %w", i+1, err)
		}
		out = append(out, p)
	}
	return out, nil
}

// File is a binary attachment. Content is base64 encoded on the wire.
type File struct {
	Name    string `json:"name"`
	Content []byte `json:"content"`
}

func (f File) Encoded() string {
	return base64.StdEncoding.EncodeToString(f.Content)
}

// Blank reports whether p is unset or only whitespace.
func Blank(p *string) bool {
	return p == nil || strings.TrimSpace(*p) == ""
}

// DeclaredEmpty reports whether p was provided but left blank.
func DeclaredEmpty(p *string) bool {
	return p != nil && strings.TrimSpace(*p) == ""
}

// The helpers below turn unset optional values into an untyped nil so that
// prune.Map drops them. A typed nil pointer stored in a map[string]any is not
// == nil and would leak into the payload.

func Str(p *string) any {
	if p == nil {
		return nil
	}
	return *p
}

// NonEmpty is Str for plain strings where "" means unset.
func NonEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func Int(p *int) any {
	if p == nil {
		return nil
	}
	return *p
}

func Float(p *float64) any {
	if p == nil {
		return nil
	}
	return *p
}

func Bool(p *bool) any {
	if p == nil {
		return nil
	}
	return *p
}

func ISODate(d *Date) any {
	if d == nil {
		return nil
	}
	return d.ISO()
}

func CompactDate(d *Date) any {
	if d == nil {
		return nil
	}
	return d.Compact()
}

func CompactDateInt(d *Date) any {
	if d == nil {
		return nil
	}
	return d.CompactInt()
}

func Clock(t *ClockTime) any {
	if t == nil {
		return nil
	}
	return t.String()
}

type enum interface {
	~string
	Code() Code
	Valid() bool
}

// Enum returns the bare code of v.
func Enum[E enum](v E) any {
	if v == "" {
		return nil
	}
	return string(v)
}

// EnumInt returns the code of v as a number, for tables with numeric codes.
func EnumInt[E enum](v E) any {
	if v == "" {
		return nil
	}
	return v.Code().Int()
}

// CodeObject renders v as {"code": ..., "description": ...}.
func CodeObject[E enum](v E) any {
	if v == "" {
		return nil
	}
	c := v.Code()
	return map[string]any{"code": c.Code, "description": c.Description}
}

// CodeOnly renders v as {"code": ...}.
func CodeOnly[E enum](v E) any {
	if v == "" {
		return nil
	}
	return map[string]any{"code": string(v)}
}

// Require records a missing-field error unless present.
func (c *Collector) Require(label string, present bool) {
	if !present {
		c.Errorf("%s is required", label)
	}
}

// RequireString records a missing-field error when s is blank.
func (c *Collector) RequireString(label, s string) {
	c.Require(label, strings.TrimSpace(s) != "")
}

// WarnEmpty records a warning when p was specified but left blank.
func (c *Collector) WarnEmpty(label string, p *string) {
	if DeclaredEmpty(p) {
		c.Warnf("%s was specified but left empty", label)
	}
}

// CheckEnum records an error for a value outside its closed set. Unset
// values are left to Require.
func CheckEnum[E enum](c *Collector, label string, v E) {
	if v != "" && !v.Valid() {
		c.Errorf("%s %q is not an allowed value", label, string(v))
	}
}

// DateOrder records an error when both dates are present and start is after
// end. Equal dates are allowed.
func (c *Collector) DateOrder(startLabel, endLabel string, start, end *Date) {
	if start != nil && end != nil && start.After(*end) {
		c.Errorf("%s must not be after %s", startLabel, endLabel)
	}
}

// ClockOrder is DateOrder for times of day.
func (c *Collector) ClockOrder(startLabel, endLabel string, start, end *ClockTime) {
	if start != nil && end != nil && start.After(*end) {
		c.Errorf("%s must not be after %s", startLabel, endLabel)
	}
}

// Paired records an error when exactly one member of a pair is present.
func (c *Collector) Paired(aLabel, bLabel string, a, b bool) {
	if a != b {
		c.Errorf("%s and %s must be specified together", aLabel, bLabel)
	}
}

// Email checks an address. Malformed required addresses are errors, malformed
// optional ones only warnings.
func (c *Collector) Email(label string, address *string, required bool) {
	if Blank(address) {
		if required {
			c.Errorf("%s is required", label)
		} else {
			c.WarnEmpty(label, address)
		}
		return
	}
	if validators.Email(*address) {
		return
	}
	if required {
		c.Errorf("%s %q is not a valid email address", label, *address)
	} else {
		c.Warnf("%s %q does not look like a valid email address", label, *address)
	}
}

// NRIC records an error when id is present but fails the checksum.
func (c *Collector) NRIC(label, id string) {
	if id != "" && !validators.NRIC(id) {
		c.Errorf("%s %q is not a valid NRIC/FIN", label, id)
	}
}

// UEN records an error when uen is present but malformed.
func (c *Collector) UEN(label, uen string) {
	if uen != "" && !validators.UEN(uen) {
		c.Errorf("%s %q is not a valid UEN", label, uen)
	}
}

// ClonePtr returns a pointer to a copy of *p, or nil.
func ClonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

// Clone returns a copy of f that shares no content with it.
func (f *File) Clone() *File {
	if f == nil {
		return nil
	}
	return &File{Name: f.Name, Content: slices.Clone(f.Content)}
}
