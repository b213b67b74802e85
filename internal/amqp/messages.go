package amqp

import (
	"encoding/json"
	"time"

	"shiftreport/internal/core"
)

// ReportExportedMessage announces that a branch report was exported.
type ReportExportedMessage struct {
	Branch    string       `json:"branch"`
	Title     string       `json:"title"`
	Date      string       `json:"date"`
	Format    string       `json:"format"`
	FileName  string       `json:"fileName"`
	Rows      int          `json:"rows"`
	Summary   core.Summary `json:"summary"`
	Timestamp time.Time    `json:"timestamp"`
}

// NewReportExportedMessage creates a message stamped with the current time.
func NewReportExportedMessage(branch, title, date, format, fileName string, rows int, summary core.Summary) *ReportExportedMessage {
	return &ReportExportedMessage{
		Branch:    branch,
		Title:     title,
		Date:      date,
		Format:    format,
		FileName:  fileName,
		Rows:      rows,
		Summary:   summary,
		Timestamp: time.Now(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *ReportExportedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// ReportExportedMessageFromJSON decodes a message.
func ReportExportedMessageFromJSON(data []byte) (*ReportExportedMessage, error) {
	var msg ReportExportedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
