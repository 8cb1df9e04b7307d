package courses

import (
	ri "github.com/DSACMS/training-registry-client/pkg/requestinfo"
)

// SessionDetails are the fields shared by the session add and edit variants.
type SessionDetails struct {
	StartDate      *ri.Date          `json:"startDate,omitempty"`
	EndDate        *ri.Date          `json:"endDate,omitempty"`
	StartTime      *ri.ClockTime     `json:"startTime,omitempty"`
	EndTime        *ri.ClockTime     `json:"endTime,omitempty"`
	ModeOfTraining ri.ModeOfTraining `json:"modeOfTraining,omitempty"`
	Venue          *Venue            `json:"venue,omitempty"`
}

func (s SessionDetails) check(c *ri.Collector, add bool) {
	if add {
		c.Require("start date", s.StartDate != nil)
		c.Require("end date", s.EndDate != nil)
		c.Require("start time", s.StartTime != nil)
		c.Require("end time", s.EndTime != nil)
		c.Require("mode of training", s.ModeOfTraining != "")
		if !remoteModes[s.ModeOfTraining] {
			c.Require("venue", s.Venue != nil)
		}
	} else {
		c.Paired("start date", "end date", s.StartDate != nil, s.EndDate != nil)
		c.Paired("start time", "end time", s.StartTime != nil, s.EndTime != nil)
	}

	ri.CheckEnum(c, "mode of training", s.ModeOfTraining)
	c.DateOrder("start date", "end date", s.StartDate, s.EndDate)
	if s.StartDate == nil || s.EndDate == nil || s.StartDate.Compare(*s.EndDate) == 0 {
		c.ClockOrder("start time", "end time", s.StartTime, s.EndTime)
	}

	if s.Venue != nil {
		s.Venue.check(c, add)
	}
}

func (s SessionDetails) fields() map[string]any {
	return map[string]any{
		"startDate":      ri.CompactDate(s.StartDate),
		"endDate":        ri.CompactDate(s.EndDate),
		"startTime":      ri.Clock(s.StartTime),
		"endTime":        ri.Clock(s.EndTime),
		"modeOfTraining": ri.Enum(s.ModeOfTraining),
		"venue":          s.Venue.payload(),
	}
}

// within reports whether the session dates, when set, fall inside the
// given course dates.
func (s SessionDetails) within(start, end *ri.Date) bool {
	for _, d := range []*ri.Date{s.StartDate, s.EndDate} {
		if d == nil {
			continue
		}
		if start != nil && d.Before(*start) {
			return false
		}
		if end != nil && d.After(*end) {
			return false
		}
	}
	return true
}

// RunSessionAddInfo is a session created together with its run. It never
// carries a session id or an action.
type RunSessionAddInfo struct {
	SessionDetails
}

func (s RunSessionAddInfo) Validate() ri.Result {
	var c ri.Collector
	s.check(&c, true)
	return c.Result()
}

func (s RunSessionAddInfo) Payload(verify bool) (map[string]any, error) {
	return ri.Finalize(s, verify, func() (map[string]any, error) {
		return s.fields(), nil
	})
}

// RunSessionEditInfo updates an existing session identified by SessionID.
// Dates and times may be omitted but only in pairs.
type RunSessionEditInfo struct {
	SessionID string `json:"sessionId"`
	SessionDetails
}

func (s RunSessionEditInfo) Validate() ri.Result {
	var c ri.Collector
	c.RequireString("session ID", s.SessionID)
	s.check(&c, false)
	return c.Result()
}

func (s RunSessionEditInfo) Payload(verify bool) (map[string]any, error) {
	return ri.Finalize(s, verify, func() (map[string]any, error) {
		m := s.fields()
		m["action"] = "update"
		m["sessionId"] = ri.NonEmpty(s.SessionID)
		return m, nil
	})
}

func cloneSession(d SessionDetails) SessionDetails {
	d.StartDate = ri.ClonePtr(d.StartDate)
	d.EndDate = ri.ClonePtr(d.EndDate)
	d.StartTime = ri.ClonePtr(d.StartTime)
	d.EndTime = ri.ClonePtr(d.EndTime)
	d.Venue = d.Venue.clone()
	return d
}
