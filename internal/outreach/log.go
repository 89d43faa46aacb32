package outreach

import (
	"math"
	"sync"

	"github.com/sirupsen/logrus"
)

// Outcome classifies how an outreach attempt ended.
type Outcome string

const (
	RESOLVED    Outcome = "RESOLVED"
	NO_RESPONSE Outcome = "NO_RESPONSE"
	DECLINED    Outcome = "DECLINED"
)

// Attempt is a sent outreach message plus whatever came back.
type Attempt struct {
	Message  Message `json:"message"`
	Response string  `json:"response,omitempty"`
	Outcome  Outcome `json:"outcome,omitempty"`
}

// Responded reports whether the patient answered at all.
func (a *Attempt) Responded() bool {
	return a.Response != ""
}

// ChannelMetrics is the effectiveness breakdown for one channel.
type ChannelMetrics struct {
	Sent      int `json:"sent"`
	Responded int `json:"responded"`
	Resolved  int `json:"resolved"`
}

// Metrics summarizes outreach effectiveness across all attempts.
type Metrics struct {
	Attempts       int                        `json:"attempts"`
	Responses      int                        `json:"responses"`
	Resolved       int                        `json:"resolved"`
	ResponseRate   float64                    `json:"response_rate"`   // percent
	ResolutionRate float64                    `json:"resolution_rate"` // percent
	ByChannel      map[Channel]ChannelMetrics `json:"by_channel"`
}

// Log records sent outreach and patient responses so the revenue team can see
// which channels actually collect missing coverage information. Safe for
// concurrent use.
type Log struct {
	logger *logrus.Logger

	mu       sync.Mutex
	attempts []*Attempt
}

// NewLog creates an outreach log.
func NewLog(logger *logrus.Logger) *Log {
	return &Log{logger: logger}
}

// Record registers a drafted message as sent.
func (l *Log) Record(msg Message) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.attempts = append(l.attempts, &Attempt{Message: msg})
}

// TrackResponse attaches a patient response and outcome to a recorded
// attempt. It reports whether the message ID was found.
func (l *Log) TrackResponse(messageID, response string, outcome Outcome) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	for _, a := range l.attempts {
		if a.Message.ID == messageID {
			a.Response = response
			a.Outcome = outcome
			l.logger.WithFields(logrus.Fields{
				"message_id": messageID,
				"outcome":    outcome,
			}).Debug("Tracked outreach response")
			return true
		}
	}
	return false
}

// OutreachMetrics computes effectiveness rates over everything recorded. An
// empty log yields the zero value.
func (l *Log) OutreachMetrics() Metrics {
	l.mu.Lock()
	defer l.mu.Unlock()

	m := Metrics{
		Attempts:  len(l.attempts),
		ByChannel: make(map[Channel]ChannelMetrics),
	}
	if m.Attempts == 0 {
		return m
	}

	for _, a := range l.attempts {
		ch := m.ByChannel[a.Message.Channel]
		ch.Sent++
		if a.Responded() {
			m.Responses++
			ch.Responded++
		}
		if a.Outcome == RESOLVED {
			m.Resolved++
			ch.Resolved++
		}
		m.ByChannel[a.Message.Channel] = ch
	}

	m.ResponseRate = percent(m.Responses, m.Attempts)
	m.ResolutionRate = percent(m.Resolved, m.Attempts)
	return m
}

// percent rounds to one decimal place.
func percent(part, total int) float64 {
	return math.Round(float64(part)/float64(total)*1000) / 10
}
