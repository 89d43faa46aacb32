package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"io"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cob-agent/internal/domain"
	"github.com/cob-agent/internal/service"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func testReport(t *testing.T) *domain.AnalysisReport {
	t.Helper()
	analyzer, err := service.NewAnalyzer(testLogger())
	require.NoError(t, err)

	report, err := analyzer.Run(50, 42)
	require.NoError(t, err)
	return report
}

func TestWriteCSV(t *testing.T) {
	report := testReport(t)
	exporter := New(testLogger())

	var buf bytes.Buffer
	require.NoError(t, exporter.WriteCSV(&buf, report))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, len(report.Alerts)+1, "header plus one row per alert")

	assert.Equal(t, csvHeader, rows[0])

	for i, alert := range report.Alerts {
		row := rows[i+1]
		assert.Equal(t, alert.ID, row[0])
		assert.Equal(t, alert.RuleCode, row[1])
		assert.Equal(t, string(alert.Category), row[2])
		assert.Equal(t, alert.RecoveryEstimate.StringFixed(2), row[7])
	}
}

func TestWriteCSVEmptyReport(t *testing.T) {
	exporter := New(testLogger())

	var buf bytes.Buffer
	require.NoError(t, exporter.WriteCSV(&buf, &domain.AnalysisReport{}))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Len(t, lines, 1, "empty report still writes the header")
}

func TestWriteJSONRoundTrips(t *testing.T) {
	report := testReport(t)
	exporter := New(testLogger())

	var buf bytes.Buffer
	require.NoError(t, exporter.WriteJSON(&buf, report))

	var decoded domain.AnalysisReport
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))

	assert.Equal(t, report.RunID, decoded.RunID)
	assert.Equal(t, report.ClaimCount, decoded.ClaimCount)
	assert.Len(t, decoded.Alerts, len(report.Alerts))
	assert.Equal(t, report.Aggregate.TotalAlerts, decoded.Aggregate.TotalAlerts)
}

func TestWriteJSONIsByteStable(t *testing.T) {
	report := testReport(t)
	exporter := New(testLogger())

	var first, second bytes.Buffer
	require.NoError(t, exporter.WriteJSON(&first, report))
	require.NoError(t, exporter.WriteJSON(&second, report))

	assert.Equal(t, first.Bytes(), second.Bytes())
}
