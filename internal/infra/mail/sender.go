package mail

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/xavierca1/oneconsig-crm/internal/infra/progress"
	"gopkg.in/gomail.v2"
)

var importReportTmpl = template.Must(template.New("import_report").Parse(`<p>Importação <strong>{{.JobID}}</strong> finalizada com status <strong>{{.Status}}</strong>.</p>
<ul>
  <li>Atendente: {{.UserID}}</li>
  <li>Leads no arquivo: {{.Total}}</li>
  <li>Leads gravados: {{.Added}}</li>
  <li>Início: {{.StartedAt.Format "02/01/2006 15:04"}}</li>
  <li>Fim: {{.FinishedAt.Format "02/01/2006 15:04"}}</li>
</ul>
{{if .Error}}<p style="color:#b00020">Erro: {{.Error}}</p>{{end}}`))

// Dialer é o pedaço do gomail usado para enviar; trocado nos testes.
type Dialer interface {
	DialAndSend(m ...*gomail.Message) error
}

func NewEmailSender(host string, port int, user, password, from, to string) *EmailSender {
	return &EmailSender{
		Host:     host,
		Port:     port,
		User:     user,
		Password: password,
		From:     from,
		To:       to,
	}
}

func (s *EmailSender) SendImportReport(job *progress.ImportJob) error {
	return s.send(gomail.NewDialer(s.Host, s.Port, s.User, s.Password), job)
}

func (s *EmailSender) send(d Dialer, job *progress.ImportJob) error {
	m, err := s.BuildImportReport(job)
	if err != nil {
		return err
	}
	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("erro ao enviar email SMTP: %w", err)
	}
	return nil
}

func (s *EmailSender) BuildImportReport(job *progress.ImportJob) (*gomail.Message, error) {
	data := ImportReportData{
		JobID:      job.ID,
		UserID:     job.UserID,
		Status:     string(job.Status),
		Total:      job.Total,
		Added:      job.Added,
		Error:      job.Error,
		StartedAt:  job.CreatedAt,
		FinishedAt: job.UpdatedAt,
	}

	var body bytes.Buffer
	if err := importReportTmpl.Execute(&body, data); err != nil {
		return nil, fmt.Errorf("erro ao processar template: %w", err)
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.From)
	m.SetHeader("To", s.To)
	m.SetHeader("Subject", importSubject(job))
	m.SetBody("text/html", body.String())
	return m, nil
}

func importSubject(job *progress.ImportJob) string {
	if job.Status == progress.JobFailed {
		return fmt.Sprintf("Importação com falha: %d de %d leads gravados", job.Added, job.Total)
	}
	return fmt.Sprintf("Importação concluída: %d leads gravados", job.Added)
}
