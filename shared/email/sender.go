package email

import (
	"bytes"
	"fmt"
	"html/template"
	"net/smtp"

	"trendforge/internal/models"
	"trendforge/shared/config"
)

type Sender struct {
	config *config.EmailConfig
}

func NewSender(cfg *config.EmailConfig) *Sender {
	return &Sender{
		config: cfg,
	}
}

// Configured reports whether the sender has enough settings to deliver.
func (s *Sender) Configured() bool {
	return s.config.SMTPServer != "" && s.config.FromEmail != "" && s.config.ToEmail != ""
}

// SendRunReport emails a summary of one pipeline run.
func (s *Sender) SendRunReport(envelope *models.ResultEnvelope) error {
	if envelope == nil {
		return fmt.Errorf("envelope cannot be nil")
	}

	subject := fmt.Sprintf("Trend Pipeline Run %s - %d analyses, %d blueprints (%s)",
		envelope.RunID, len(envelope.Analyses), len(envelope.Blueprints),
		envelope.StartedAt.Format("Jan 2, 2006"))

	body, err := s.generateRunBody(envelope)
	if err != nil {
		return fmt.Errorf("failed to generate email body: %w", err)
	}

	return s.SendHTML(subject, body)
}

// SendHTML sends an email with custom HTML content
func (s *Sender) SendHTML(subject, htmlBody string) error {
	return s.sendViaSMTP(subject, htmlBody)
}

func (s *Sender) sendViaSMTP(subject, body string) error {
	auth := smtp.PlainAuth("", s.config.Username, s.config.Password, s.config.SMTPServer)

	to := []string{s.config.ToEmail}
	msg := []byte(fmt.Sprintf(`To: %s
From: %s
Subject: %s
MIME-Version: 1.0
Content-Type: text/html; charset=UTF-8

%s`, s.config.ToEmail, s.config.FromEmail, subject, body))

	addr := fmt.Sprintf("%s:%d", s.config.SMTPServer, s.config.SMTPPort)
	return smtp.SendMail(addr, auth, s.config.FromEmail, to, msg)
}

var runReportTemplate = template.Must(template.New("run-report").Parse(`<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; max-width: 640px; margin: 0 auto;">
  <h2>Trend Pipeline Run {{.RunID}}</h2>
  <p>Started {{.StartedAt.Format "Jan 2 15:04"}}, completed {{.CompletedAt.Format "15:04"}}.</p>

  {{if .Error}}<p style="color: #c0392b;"><strong>Error:</strong> {{.Error}}</p>{{end}}

  <ul>
    <li>{{len .Discovered}} candidates discovered</li>
    <li>{{len .Analyses}} candidates analyzed</li>
    <li>{{len .Blueprints}} trend blueprints identified</li>
  </ul>

  {{range .Blueprints}}
  <div style="border: 1px solid #ddd; border-radius: 6px; padding: 10px; margin: 8px 0;">
    <strong>{{.TrendName}}</strong> ({{.SampleCount}} samples, confidence {{printf "%.2f" .ConfidenceScore}})<br>
    Hook within {{printf "%.1f" .HookSeconds}}s, pacing {{.Editing.Pacing}}, style {{.Visual.Style}}
  </div>
  {{end}}

  {{if .GeneratedScript}}
  <h3>Generated Script</h3>
  <p><strong>{{.GeneratedScript.Title}}</strong> ({{printf "%.0f" .GeneratedScript.EstimatedDuration}}s)</p>
  {{end}}

  {{if .GeneratedVideo}}
  <p>Video generated via <strong>{{.GeneratedVideo.Backend}}</strong>{{if .GeneratedVideo.Placeholder}} (placeholder){{end}}: {{.GeneratedVideo.MediaPath}}</p>
  {{end}}

  {{if .PublishResults}}
  <h3>Publishing</h3>
  <ul>
  {{range $platform, $result := .PublishResults}}
    <li>{{$platform}}: {{$result.Status}}{{if $result.URL}} - {{$result.URL}}{{end}}{{if $result.Error}} ({{$result.Error}}){{end}}</li>
  {{end}}
  </ul>
  {{end}}
</body>
</html>`))

func (s *Sender) generateRunBody(envelope *models.ResultEnvelope) (string, error) {
	var buf bytes.Buffer
	if err := runReportTemplate.Execute(&buf, envelope); err != nil {
		return "", err
	}
	return buf.String(), nil
}
