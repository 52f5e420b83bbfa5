package mail

import "time"

type ImportReportData struct {
	JobID      string
	UserID     string
	Status     string
	Total      int
	Added      int
	Error      string
	StartedAt  time.Time
	FinishedAt time.Time
}

type EmailSender struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
	To       string
}
