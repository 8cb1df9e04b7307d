package courses

import (
	"regexp"

	ri "github.com/DSACMS/training-registry-client/pkg/requestinfo"
)

var postalCodePattern = regexp.MustCompile(`^[0-9]{6}$`)

// Venue is where a run or session takes place.
type Venue struct {
	Block            *string `json:"block,omitempty"`
	Street           *string `json:"street,omitempty"`
	Floor            *string `json:"floor,omitempty"`
	Unit             *string `json:"unit,omitempty"`
	Building         *string `json:"building,omitempty"`
	PostalCode       *string `json:"postalCode,omitempty"`
	Room             *string `json:"room,omitempty"`
	WheelChairAccess *bool   `json:"wheelChairAccess,omitempty"`
	PrimaryVenue     *bool   `json:"primaryVenue,omitempty"`
}

// check validates the venue. Floor, unit, postal code and room are only
// mandatory when required is set.
func (v Venue) check(c *ri.Collector, required bool) {
	mandatory := []struct {
		label string
		value *string
	}{
		{"venue floor", v.Floor},
		{"venue unit", v.Unit},
		{"venue postal code", v.PostalCode},
		{"venue room", v.Room},
	}
	for _, f := range mandatory {
		if required {
			c.Require(f.label, !ri.Blank(f.value))
		} else {
			c.WarnEmpty(f.label, f.value)
		}
	}

	c.WarnEmpty("venue block", v.Block)
	c.WarnEmpty("venue street", v.Street)
	c.WarnEmpty("venue building", v.Building)

	if !ri.Blank(v.PostalCode) && !postalCodePattern.MatchString(*v.PostalCode) {
		c.Errorf("venue postal code %q must be 6 digits", *v.PostalCode)
	}
}

func (v *Venue) payload() any {
	if v == nil {
		return nil
	}
	return map[string]any{
		"block":            ri.Str(v.Block),
		"street":           ri.Str(v.Street),
		"floor":            ri.Str(v.Floor),
		"unit":             ri.Str(v.Unit),
		"building":         ri.Str(v.Building),
		"postalCode":       ri.Str(v.PostalCode),
		"room":             ri.Str(v.Room),
		"wheelChairAccess": ri.Bool(v.WheelChairAccess),
		"primaryVenue":     ri.Bool(v.PrimaryVenue),
	}
}

func (v *Venue) clone() *Venue {
	if v == nil {
		return nil
	}
	return &Venue{
		Block:            ri.ClonePtr(v.Block),
		Street:           ri.ClonePtr(v.Street),
		Floor:            ri.ClonePtr(v.Floor),
		Unit:             ri.ClonePtr(v.Unit),
		Building:         ri.ClonePtr(v.Building),
		PostalCode:       ri.ClonePtr(v.PostalCode),
		Room:             ri.ClonePtr(v.Room),
		WheelChairAccess: ri.ClonePtr(v.WheelChairAccess),
		PrimaryVenue:     ri.ClonePtr(v.PrimaryVenue),
	}
}

// remoteModes are the modes of training that need no physical venue.
var remoteModes = map[ri.ModeOfTraining]bool{
	"2": true, // Asynchronous eLearning
	"9": true, // Synchronous eLearning
}
