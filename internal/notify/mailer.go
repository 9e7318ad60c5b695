// Package notify sends run summaries to operators and escalates
// orchestration failures to administrators over SMTP.
package notify

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/wneessen/go-mail"

	"github.com/dbsmedya/gosweep/internal/config"
	"github.com/dbsmedya/gosweep/internal/logger"
)

// Summary carries the run facts included in the operator notification.
type Summary struct {
	RunID             string
	StartedAt         time.Time
	Duration          time.Duration
	TargetsScanned    int
	MatchingFiles     int
	SearchErrors      int
	TransportFailures int
	FiltersApplied    int

	// ReportPath, when non-empty, is attached to the summary mail.
	ReportPath string
}

// Mailer sends notifications through the configured SMTP server.
type Mailer struct {
	cfg    config.NotifyConfig
	logger *logger.Logger
}

// NewMailer creates a Mailer from configuration.
func NewMailer(cfg config.NotifyConfig, log *logger.Logger) *Mailer {
	if log == nil {
		log = logger.NewDefault()
	}
	return &Mailer{cfg: cfg, logger: log}
}

// SendSummary mails the run summary to the operator recipients at normal
// importance. Per-path errors and transport failures appear in the body and
// counters; they do not escalate the message.
func (m *Mailer) SendSummary(ctx context.Context, summary Summary) error {
	msg, err := m.newMessage(m.cfg.Recipients)
	if err != nil {
		return err
	}

	msg.Subject(summarySubject(summary))
	msg.SetBodyString(mail.TypeTextHTML, summaryBody(summary))

	if summary.ReportPath != "" {
		msg.AttachFile(summary.ReportPath)
	}

	if err := m.send(ctx, msg); err != nil {
		return fmt.Errorf("failed to send summary mail: %w", err)
	}

	m.logger.Infow("Summary notification sent",
		"recipients", len(m.cfg.Recipients),
		"attached", summary.ReportPath != "",
	)
	return nil
}

// SendAdminAlert mails a high-importance failure notice to the administrator
// recipients, naming the failing stage and the underlying cause.
func (m *Mailer) SendAdminAlert(ctx context.Context, runID, stage string, cause error) error {
	msg, err := m.newMessage(m.cfg.AdminRecipients)
	if err != nil {
		return err
	}

	msg.Subject(alertSubject(stage))
	msg.SetBodyString(mail.TypeTextHTML, alertBody(runID, stage, cause))
	msg.SetImportance(mail.ImportanceHigh)

	if err := m.send(ctx, msg); err != nil {
		return fmt.Errorf("failed to send admin alert: %w", err)
	}

	m.logger.Warnw("Admin alert sent",
		"stage", stage,
		"recipients", len(m.cfg.AdminRecipients),
	)
	return nil
}

// newMessage builds a message addressed from the configured sender.
func (m *Mailer) newMessage(recipients []string) (*mail.Msg, error) {
	msg := mail.NewMsg()
	if err := msg.From(m.cfg.SMTP.From); err != nil {
		return nil, fmt.Errorf("invalid from address %q: %w", m.cfg.SMTP.From, err)
	}
	if err := msg.To(recipients...); err != nil {
		return nil, fmt.Errorf("invalid recipient list: %w", err)
	}
	return msg, nil
}

// send connects to the SMTP server and delivers the message.
func (m *Mailer) send(ctx context.Context, msg *mail.Msg) error {
	opts := []mail.Option{
		mail.WithPort(m.cfg.SMTP.Port),
		mail.WithTLSPolicy(mail.TLSOpportunistic),
	}
	if m.cfg.SMTP.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(m.cfg.SMTP.Username),
			mail.WithPassword(m.cfg.SMTP.Password),
		)
	}

	client, err := mail.NewClient(m.cfg.SMTP.Host, opts...)
	if err != nil {
		return fmt.Errorf("failed to create SMTP client for %s: %w", m.cfg.SMTP.Host, err)
	}

	return client.DialAndSendWithContext(ctx, msg)
}

// summarySubject builds the operator mail subject from the run counters.
func summarySubject(s Summary) string {
	subject := fmt.Sprintf("gosweep scan complete: %d targets, %d matching files",
		s.TargetsScanned, s.MatchingFiles)
	if s.SearchErrors > 0 || s.TransportFailures > 0 {
		subject += fmt.Sprintf(" (%d errors)", s.SearchErrors+s.TransportFailures)
	}
	return subject
}

// summaryBody renders the run summary as a small HTML table.
func summaryBody(s Summary) string {
	var b strings.Builder
	b.WriteString("<h3>Inventory scan summary</h3>")
	b.WriteString("<table border=\"1\" cellpadding=\"4\" cellspacing=\"0\">")
	writeRow(&b, "Run", s.RunID)
	writeRow(&b, "Started", s.StartedAt.Format("2006-01-02 15:04:05"))
	writeRow(&b, "Duration", s.Duration.Round(time.Second).String())
	writeRow(&b, "Targets scanned", fmt.Sprintf("%d", s.TargetsScanned))
	writeRow(&b, "Filters applied", fmt.Sprintf("%d", s.FiltersApplied))
	writeRow(&b, "Matching files", fmt.Sprintf("%d", s.MatchingFiles))
	writeRow(&b, "Search errors", fmt.Sprintf("%d", s.SearchErrors))
	writeRow(&b, "Unreachable targets", fmt.Sprintf("%d", s.TransportFailures))
	b.WriteString("</table>")
	if s.ReportPath != "" {
		b.WriteString("<p>The full report is attached.</p>")
	} else {
		b.WriteString("<p>No matching files or errors; no report attached.</p>")
	}
	return b.String()
}

// alertSubject builds the administrator alert subject.
func alertSubject(stage string) string {
	return fmt.Sprintf("gosweep scan FAILED: %s", stage)
}

// alertBody names the failing stage and underlying cause.
func alertBody(runID, stage string, cause error) string {
	var b strings.Builder
	b.WriteString("<h3>Inventory scan failed</h3>")
	b.WriteString("<table border=\"1\" cellpadding=\"4\" cellspacing=\"0\">")
	writeRow(&b, "Run", runID)
	writeRow(&b, "Failed stage", stage)
	writeRow(&b, "Cause", cause.Error())
	b.WriteString("</table>")
	b.WriteString("<p>The run was aborted before producing a report.</p>")
	return b.String()
}

func writeRow(b *strings.Builder, key, value string) {
	fmt.Fprintf(b, "<tr><td><b>%s</b></td><td>%s</td></tr>", key, value)
}
