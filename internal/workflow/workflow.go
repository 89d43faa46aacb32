// Package workflow tracks resolution of detected COB issues. Each alert
// category has a fixed sequence of billing-office steps; a workflow walks the
// sequence one completed step at a time.
package workflow

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/cob-agent/internal/domain"
)

// minutesPerStep is the planning estimate applied uniformly to every step.
const minutesPerStep = 5

// WorkflowStatus is the lifecycle state of a resolution workflow.
type WorkflowStatus string

const (
	IN_PROGRESS WorkflowStatus = "IN_PROGRESS"
	COMPLETED   WorkflowStatus = "COMPLETED"
)

// Workflow is the resolution plan for one alert.
type Workflow struct {
	ID            string               `json:"id"`
	AlertID       string               `json:"alert_id"`
	Category      domain.AlertCategory `json:"category"`
	Steps         []string             `json:"steps"`
	CompletedStep int                  `json:"completed_step"`
	Status        WorkflowStatus       `json:"status"`
}

// Progress reports completed steps over total steps, in [0, 1].
func (w *Workflow) Progress() float64 {
	if len(w.Steps) == 0 {
		return 1
	}
	return float64(w.CompletedStep) / float64(len(w.Steps))
}

// EstimatedMinutes is the planning estimate for the remaining work.
func (w *Workflow) EstimatedMinutes() int {
	return (len(w.Steps) - w.CompletedStep) * minutesPerStep
}

var categorySteps = map[domain.AlertCategory][]string{
	domain.MSP_VIOLATION: {
		"Verify patient employment status via HR or patient contact",
		"Complete MSP questionnaire",
		"Identify correct primary payer",
		"Rebill claim to correct primary",
		"Track remittance and adjust patient balance",
	},
	domain.WRONG_PRIMARY_ORDER: {
		"Pull current coordination of benefits from both payers",
		"Confirm correct payer order per COB rules",
		"Void claim with incorrectly billed payer",
		"Rebill in correct order",
	},
	domain.AUTO_LIABILITY_PRIMARY: {
		"Contact patient for accident details",
		"Obtain auto liability carrier and claim number",
		"File lien or claim with liability carrier",
		"Bill health plan as secondary with liability EOB",
		"Track settlement and reconcile payments",
	},
	domain.DEPENDENT_AGE_OUT: {
		"Confirm coverage termination date with payer",
		"Contact patient for current insurance",
		"Update registration with new coverage",
		"Rebill claim to active payer",
	},
}

// defaultSteps covers categories without a dedicated sequence: the generic
// secondary-coverage investigation.
var defaultSteps = []string{
	"Contact patient to verify other coverage",
	"Run eligibility check against common payers",
	"Update coordination of benefits on file",
	"Bill secondary payer for patient responsibility",
}

// Tracker creates and advances resolution workflows.
type Tracker struct {
	logger *logrus.Logger
}

// NewTracker creates a workflow tracker.
func NewTracker(logger *logrus.Logger) *Tracker {
	return &Tracker{logger: logger}
}

// Create builds a new workflow for an alert. The step sequence is fixed by
// the alert's category; the workflow ID derives from the alert ID so repeated
// creation is stable.
func (t *Tracker) Create(alert domain.Alert) *Workflow {
	steps, ok := categorySteps[alert.Category]
	if !ok {
		steps = defaultSteps
	}

	w := &Workflow{
		ID:       workflowID(alert.ID),
		AlertID:  alert.ID,
		Category: alert.Category,
		Steps:    append([]string(nil), steps...),
		Status:   IN_PROGRESS,
	}

	t.logger.WithFields(logrus.Fields{
		"workflow_id": w.ID,
		"category":    w.Category,
		"steps":       len(w.Steps),
	}).Debug("Created resolution workflow")

	return w
}

// Advance marks the next step complete. Advancing a completed workflow is an
// error.
func (t *Tracker) Advance(w *Workflow) error {
	if w.Status == COMPLETED {
		return fmt.Errorf("workflow %s is already completed", w.ID)
	}

	w.CompletedStep++
	if w.CompletedStep >= len(w.Steps) {
		w.CompletedStep = len(w.Steps)
		w.Status = COMPLETED
		t.logger.WithField("workflow_id", w.ID).Info("Resolution workflow completed")
	}
	return nil
}

func workflowID(alertID string) string {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte("cob://workflow/"+alertID)).String()
}
