// Package courses models the course-run operations: publishing runs with
// their sessions and trainers, editing a run and deleting one.
package courses

import (
	"fmt"

	ri "github.com/DSACMS/training-registry-client/pkg/requestinfo"
)

// Course identifies the course and training provider a run belongs to.
type Course struct {
	CourseReferenceNumber string `json:"courseReferenceNumber"`
	UEN                   string `json:"uen"`
}

func (k Course) check(c *ri.Collector) {
	c.RequireString("course reference number", k.CourseReferenceNumber)
	c.RequireString("training provider UEN", k.UEN)
	c.UEN("training provider UEN", k.UEN)
}

func (k Course) wrap(extra map[string]any) map[string]any {
	course := map[string]any{
		"courseReferenceNumber": ri.NonEmpty(k.CourseReferenceNumber),
		"trainingProvider":      map[string]any{"uen": ri.NonEmpty(k.UEN)},
	}
	for key, v := range extra {
		course[key] = v
	}
	return map[string]any{"course": course}
}

// AddRunInfo publishes one or more runs of a course.
type AddRunInfo struct {
	Course
	Runs []AddRunIndividualInfo `json:"runs"`
}

// AddRun appends a copy of run.
func (a *AddRunInfo) AddRun(run AddRunIndividualInfo) {
	a.Runs = append(a.Runs, run.clone())
}

func (a AddRunInfo) Validate() ri.Result {
	var c ri.Collector
	a.check(&c)
	c.Require("at least one run", len(a.Runs) > 0)
	for i, run := range a.Runs {
		c.Nest(fmt.Sprintf("Run %d", i+1), run.Validate())
	}
	return c.Result()
}

func (a AddRunInfo) Payload(verify bool) (map[string]any, error) {
	return ri.Finalize(a, verify, func() (map[string]any, error) {
		runs, err := ri.Children(a.Runs)
		if err != nil {
			return nil, fmt.Errorf("runs: %w", err)
		}
		return a.wrap(map[string]any{"runs": runs}), nil
	})
}

// EditRunInfo updates an existing run. The run id travels in the request
// path; every run field is optional but date pairs must be given together.
type EditRunInfo struct {
	Course
	RunDetails
	Sessions []RunSessionEditInfo `json:"sessions,omitempty"`
	Trainers []RunTrainerEditInfo `json:"trainers,omitempty"`
}

func (e *EditRunInfo) AddSession(s RunSessionEditInfo) {
	s.SessionDetails = cloneSession(s.SessionDetails)
	e.Sessions = append(e.Sessions, s)
}

func (e *EditRunInfo) AddTrainer(t RunTrainerEditInfo) {
	t.TrainerDetails = cloneTrainer(t.TrainerDetails)
	e.Trainers = append(e.Trainers, t)
}

func (e EditRunInfo) Validate() ri.Result {
	var c ri.Collector
	e.Course.check(&c)
	e.RunDetails.check(&c, false)

	details := make([]SessionDetails, 0, len(e.Sessions))
	for i, s := range e.Sessions {
		c.Nest(fmt.Sprintf("Session %d", i+1), s.Validate())
		details = append(details, s.SessionDetails)
	}
	e.sessionsWithin(&c, details)

	for i, t := range e.Trainers {
		c.Nest(fmt.Sprintf("Trainer %d", i+1), t.Validate())
	}
	return c.Result()
}

func (e EditRunInfo) Payload(verify bool) (map[string]any, error) {
	return ri.Finalize(e, verify, func() (map[string]any, error) {
		run := e.fields()
		run["action"] = "update"

		sessions, err := ri.Children(e.Sessions)
		if err != nil {
			return nil, fmt.Errorf("sessions: %w", err)
		}
		trainers, err := ri.Children(e.Trainers)
		if err != nil {
			return nil, fmt.Errorf("trainers: %w", err)
		}
		run["sessions"] = sessions
		run["linkCourseRunTrainer"] = trainers

		return e.wrap(map[string]any{"run": run}), nil
	})
}

// DeleteRunInfo deletes a run. Only the course key is carried; the run id
// travels in the request path.
type DeleteRunInfo struct {
	Course
}

func (d DeleteRunInfo) Validate() ri.Result {
	var c ri.Collector
	d.check(&c)
	return c.Result()
}

func (d DeleteRunInfo) Payload(verify bool) (map[string]any, error) {
	return ri.Finalize(d, verify, func() (map[string]any, error) {
		return d.wrap(map[string]any{"run": map[string]any{"action": "delete"}}), nil
	})
}
