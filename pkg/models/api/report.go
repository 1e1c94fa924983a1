package api

import "time"

const (
	StatusReceived = "received"
	StatusHealthy  = "healthy"

	MsgNoJSON = "No JSON data received"
)

type Acknowledgement struct {
	Status   string `json:"status"`
	ReportID string `json:"report_id"`
}

type Error struct {
	Error string `json:"error"`
}

type Health struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
}

type ArchivedReport struct {
	Name       string    `json:"name"`
	ReportID   string    `json:"report_id"`
	ArchivedAt time.Time `json:"archived_at"`
	Size       int64     `json:"size"`
}

type ReportList struct {
	Reports []ArchivedReport `json:"reports"`
}
