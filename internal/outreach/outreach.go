// Package outreach drafts patient-facing messages for detected COB issues:
// requests for the missing insurance information each alert category needs.
// Drafting is pure in-memory rendering; nothing is sent from here.
package outreach

import (
	"fmt"
	"strings"
	"text/template"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/cob-agent/internal/domain"
)

// Channel is the delivery channel a draft targets.
type Channel string

const (
	EMAIL Channel = "EMAIL"
	SMS   Channel = "SMS"
)

// Message is a rendered outreach draft tied to the alert that motivated it.
type Message struct {
	ID        string  `json:"id"`
	AlertID   string  `json:"alert_id"`
	PatientID string  `json:"patient_id"`
	Channel   Channel `json:"channel"`
	Body      string  `json:"body"`
}

// messageData is the context available to every template.
type messageData struct {
	PatientName    string
	BilledAmount   string
	Responsibility string
	ServiceDaysAgo int
	PortalLink     string
}

const portalLink = "https://portal.example.health/update-insurance"

var templateSources = map[domain.AlertCategory]map[Channel]string{
	domain.MISSING_SECONDARY: {
		EMAIL: `Subject: Update Your Insurance Information - Potential Coverage Available

Dear {{.PatientName}},

Our records show you may have additional insurance coverage that could help reduce your out-of-pocket costs.

Claim details:
- Service: {{.ServiceDaysAgo}} days ago
- Amount you owe: ${{.Responsibility}}

If you or your spouse have other insurance coverage (through employment, retirement, or other sources), please update your information at {{.PortalLink}}.

Thank you,
Revenue Cycle Team`,
		SMS: `Your recent medical bill may be covered by additional insurance. Update your insurance info at {{.PortalLink}} - could save you ${{.Responsibility}}.`,
	},
	domain.MSP_VIOLATION: {
		EMAIL: `Subject: Action Required - Update Your Insurance Information

Dear {{.PatientName}},

We need to verify your current insurance coverage to ensure your claim is processed correctly.

Please confirm:
1. Are you currently employed or covered by an employer's insurance?
2. Do you have any insurance besides Medicare?

Update your information at {{.PortalLink}}.

Thank you,
Revenue Cycle Team`,
	},
	domain.AUTO_LIABILITY_PRIMARY: {
		EMAIL: `Subject: Auto Insurance Information Needed

Dear {{.PatientName}},

Your recent visit appears to be related to an accident. Your auto insurance may cover these medical expenses.

Claim details:
- Service: {{.ServiceDaysAgo}} days ago
- Billed amount: ${{.BilledAmount}}

Please provide your auto insurance company, policy number, date of accident, and claim number (if already filed) at {{.PortalLink}}.

Thank you,
Revenue Cycle Team`,
	},
	domain.DEPENDENT_AGE_OUT: {
		EMAIL: `Subject: Important - Insurance Coverage Update Needed

Dear {{.PatientName}},

Our records show your previous insurance coverage has ended. To ensure your medical bills are covered, we need your current insurance information.

Please provide your new insurance details as soon as possible at {{.PortalLink}}. Having current insurance on file will prevent delays in claim processing.

Thank you,
Revenue Cycle Team`,
	},
}

// fallbackCategory covers alert categories without a dedicated template.
const fallbackCategory = domain.MISSING_SECONDARY

// Planner renders outreach drafts from parsed templates.
type Planner struct {
	logger    *logrus.Logger
	templates map[domain.AlertCategory]map[Channel]*template.Template
}

// NewPlanner parses all message templates up front so rendering cannot fail
// on template syntax at draft time.
func NewPlanner(logger *logrus.Logger) (*Planner, error) {
	p := &Planner{
		logger:    logger,
		templates: make(map[domain.AlertCategory]map[Channel]*template.Template),
	}

	for cat, byChannel := range templateSources {
		p.templates[cat] = make(map[Channel]*template.Template)
		for ch, src := range byChannel {
			tmpl, err := template.New(string(cat) + "/" + string(ch)).Parse(src)
			if err != nil {
				return nil, fmt.Errorf("failed to parse outreach template %s/%s: %w", cat, ch, err)
			}
			p.templates[cat][ch] = tmpl
		}
	}

	return p, nil
}

// Draft renders one outreach message for an alert. Categories without a
// dedicated template fall back to the generic coverage inquiry, and channels
// without a variant fall back to email.
func (p *Planner) Draft(alert domain.Alert, patient *domain.Patient, claim *domain.Claim, ch Channel) (Message, error) {
	byChannel, ok := p.templates[alert.Category]
	if !ok {
		byChannel = p.templates[fallbackCategory]
	}
	tmpl, ok := byChannel[ch]
	if !ok {
		tmpl = byChannel[EMAIL]
	}

	data := messageData{
		PatientName:    patient.Name(),
		BilledAmount:   claim.BilledAmount.StringFixed(2),
		Responsibility: claim.PatientResponsibility().StringFixed(2),
		ServiceDaysAgo: claim.ServiceDaysAgo,
		PortalLink:     portalLink,
	}

	var body strings.Builder
	if err := tmpl.Execute(&body, data); err != nil {
		return Message{}, fmt.Errorf("failed to render outreach for alert %s: %w", alert.ID, err)
	}

	return Message{
		ID:        messageID(alert.ID, ch),
		AlertID:   alert.ID,
		PatientID: patient.ID,
		Channel:   ch,
		Body:      body.String(),
	}, nil
}

// PlanTop drafts email outreach for the report's top-priority alerts, at most
// limit messages. Alerts whose claim cannot be resolved are skipped.
func (p *Planner) PlanTop(r *domain.AnalysisReport, limit int) []Message {
	messages := make([]Message, 0, limit)
	for _, alert := range r.Aggregate.TopAlerts {
		if len(messages) >= limit {
			break
		}
		patient, ok := r.PatientByID(alert.PatientID)
		if !ok {
			continue
		}
		claim, ok := r.ClaimByID(alert.ClaimID)
		if !ok {
			continue
		}
		msg, err := p.Draft(alert, patient, claim, EMAIL)
		if err != nil {
			p.logger.WithError(err).WithField("alert_id", alert.ID).Warn("Skipping outreach draft")
			continue
		}
		messages = append(messages, msg)
	}

	p.logger.WithField("messages", len(messages)).Info("Planned patient outreach")
	return messages
}

func messageID(alertID string, ch Channel) string {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte("cob://outreach/"+alertID+"/"+string(ch))).String()
}
