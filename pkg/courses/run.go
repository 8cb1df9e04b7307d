package courses

import (
	"fmt"

	ri "github.com/DSACMS/training-registry-client/pkg/requestinfo"
)

// RunDetails are the run-level fields shared by the add and edit variants.
type RunDetails struct {
	SequenceNumber      *int                `json:"sequenceNumber,omitempty"`
	RegistrationOpen    *ri.Date            `json:"registrationOpeningDate,omitempty"`
	RegistrationClose   *ri.Date            `json:"registrationClosingDate,omitempty"`
	CourseStart         *ri.Date            `json:"courseStartDate,omitempty"`
	CourseEnd           *ri.Date            `json:"courseEndDate,omitempty"`
	ModeOfTraining      ri.ModeOfTraining   `json:"modeOfTraining,omitempty"`
	ScheduleInfoType    ri.ScheduleInfoType `json:"scheduleInfoType,omitempty"`
	ScheduleInfo        *string             `json:"scheduleInfo,omitempty"`
	Venue               *Venue              `json:"venue,omitempty"`
	IntakeSize          *int                `json:"intakeSize,omitempty"`
	Threshold           *int                `json:"threshold,omitempty"`
	RegisteredUserCount *int                `json:"registeredUserCount,omitempty"`
	CourseAdminEmail    *string             `json:"courseAdminEmail,omitempty"`
	CourseVacancy       ri.Vacancy          `json:"courseVacancy,omitempty"`
	File                *ri.File            `json:"file,omitempty"`
}

func (r RunDetails) check(c *ri.Collector, add bool) {
	if add {
		c.Require("registration opening date", r.RegistrationOpen != nil)
		c.Require("registration closing date", r.RegistrationClose != nil)
		c.Require("course start date", r.CourseStart != nil)
		c.Require("course end date", r.CourseEnd != nil)
		c.Require("mode of training", r.ModeOfTraining != "")
		c.Require("schedule info type", r.ScheduleInfoType != "")
		c.Require("schedule info", !ri.Blank(r.ScheduleInfo))
		c.Require("course vacancy", r.CourseVacancy != "")
		if !remoteModes[r.ModeOfTraining] {
			c.Require("venue", r.Venue != nil)
		}
	} else {
		c.Paired("registration opening date", "registration closing date", r.RegistrationOpen != nil, r.RegistrationClose != nil)
		c.Paired("course start date", "course end date", r.CourseStart != nil, r.CourseEnd != nil)
		c.Paired("schedule info type", "schedule info", r.ScheduleInfoType != "", r.ScheduleInfo != nil)
		c.WarnEmpty("schedule info", r.ScheduleInfo)
	}

	c.Email("course admin email", r.CourseAdminEmail, add)

	ri.CheckEnum(c, "mode of training", r.ModeOfTraining)
	ri.CheckEnum(c, "schedule info type", r.ScheduleInfoType)
	ri.CheckEnum(c, "course vacancy", r.CourseVacancy)

	c.DateOrder("registration opening date", "registration closing date", r.RegistrationOpen, r.RegistrationClose)
	c.DateOrder("course start date", "course end date", r.CourseStart, r.CourseEnd)

	for _, n := range []struct {
		label string
		value *int
	}{
		{"sequence number", r.SequenceNumber},
		{"intake size", r.IntakeSize},
		{"threshold", r.Threshold},
		{"registered user count", r.RegisteredUserCount},
	} {
		if n.value != nil && *n.value < 0 {
			c.Errorf("%s must not be negative", n.label)
		}
	}

	if r.Venue != nil {
		r.Venue.check(c, add)
	}
	if r.File != nil && len(r.File.Content) == 0 {
		c.Warnf("file %q is empty", r.File.Name)
	}
}

func (r RunDetails) fields() map[string]any {
	var registration, course any
	if r.RegistrationOpen != nil || r.RegistrationClose != nil {
		registration = map[string]any{
			"opening": ri.CompactDateInt(r.RegistrationOpen),
			"closing": ri.CompactDateInt(r.RegistrationClose),
		}
	}
	if r.CourseStart != nil || r.CourseEnd != nil {
		course = map[string]any{
			"start": ri.CompactDateInt(r.CourseStart),
			"end":   ri.CompactDateInt(r.CourseEnd),
		}
	}

	var scheduleType any
	if r.ScheduleInfoType != "" {
		scheduleType = ri.CodeObject(r.ScheduleInfoType)
	}

	var file any
	if r.File != nil {
		file = map[string]any{"Name": r.File.Name, "content": r.File.Encoded()}
	}

	return map[string]any{
		"sequenceNumber":      ri.Int(r.SequenceNumber),
		"modeOfTraining":      ri.Enum(r.ModeOfTraining),
		"registrationDates":   registration,
		"courseDates":         course,
		"scheduleInfoType":    scheduleType,
		"scheduleInfo":        ri.Str(r.ScheduleInfo),
		"venue":               r.Venue.payload(),
		"intakeSize":          ri.Int(r.IntakeSize),
		"threshold":           ri.Int(r.Threshold),
		"registeredUserCount": ri.Int(r.RegisteredUserCount),
		"courseAdminEmail":    ri.Str(r.CourseAdminEmail),
		"courseVacancy":       ri.CodeObject(r.CourseVacancy),
		"file":                file,
	}
}

func (r RunDetails) clone() RunDetails {
	r.SequenceNumber = ri.ClonePtr(r.SequenceNumber)
	r.RegistrationOpen = ri.ClonePtr(r.RegistrationOpen)
	r.RegistrationClose = ri.ClonePtr(r.RegistrationClose)
	r.CourseStart = ri.ClonePtr(r.CourseStart)
	r.CourseEnd = ri.ClonePtr(r.CourseEnd)
	r.ScheduleInfo = ri.ClonePtr(r.ScheduleInfo)
	r.Venue = r.Venue.clone()
	r.IntakeSize = ri.ClonePtr(r.IntakeSize)
	r.Threshold = ri.ClonePtr(r.Threshold)
	r.RegisteredUserCount = ri.ClonePtr(r.RegisteredUserCount)
	r.CourseAdminEmail = ri.ClonePtr(r.CourseAdminEmail)
	r.File = r.File.Clone()
	return r
}

// sessionsWithin reports sessions whose dates fall outside the run's course
// dates.
func (r RunDetails) sessionsWithin(c *ri.Collector, sessions []SessionDetails) {
	for i, s := range sessions {
		if !s.within(r.CourseStart, r.CourseEnd) {
			c.Errorf("Session %d: session dates must fall within the course start and end dates", i+1)
		}
	}
}

// AddRunIndividualInfo is one run published as part of an AddRunInfo.
type AddRunIndividualInfo struct {
	RunDetails
	Sessions []RunSessionAddInfo `json:"sessions,omitempty"`
	Trainers []RunTrainerAddInfo `json:"trainers,omitempty"`
}

// AddSession appends a copy of s to the run.
func (r *AddRunIndividualInfo) AddSession(s RunSessionAddInfo) {
	s.SessionDetails = cloneSession(s.SessionDetails)
	r.Sessions = append(r.Sessions, s)
}

// AddTrainer appends a copy of t to the run.
func (r *AddRunIndividualInfo) AddTrainer(t RunTrainerAddInfo) {
	t.TrainerDetails = cloneTrainer(t.TrainerDetails)
	r.Trainers = append(r.Trainers, t)
}

func (r AddRunIndividualInfo) Validate() ri.Result {
	var c ri.Collector
	r.check(&c, true)

	details := make([]SessionDetails, 0, len(r.Sessions))
	for i, s := range r.Sessions {
		c.Nest(fmt.Sprintf("Session %d", i+1), s.Validate())
		details = append(details, s.SessionDetails)
	}
	r.sessionsWithin(&c, details)

	for i, t := range r.Trainers {
		c.Nest(fmt.Sprintf("Trainer %d", i+1), t.Validate())
	}
	return c.Result()
}

func (r AddRunIndividualInfo) Payload(verify bool) (map[string]any, error) {
	return ri.Finalize(r, verify, func() (map[string]any, error) {
		m := r.fields()

		sessions, err := ri.Children(r.Sessions)
		if err != nil {
			return nil, fmt.Errorf("sessions: %w", err)
		}
		trainers, err := ri.Children(r.Trainers)
		if err != nil {
			return nil, fmt.Errorf("trainers: %w", err)
		}

		m["sessions"] = sessions
		m["linkCourseRunTrainer"] = trainers
		return m, nil
	})
}

func (r AddRunIndividualInfo) clone() AddRunIndividualInfo {
	out := AddRunIndividualInfo{RunDetails: r.RunDetails.clone()}
	for _, s := range r.Sessions {
		out.AddSession(s)
	}
	for _, t := range r.Trainers {
		out.AddTrainer(t)
	}
	return out
}
