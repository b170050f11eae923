package services

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/silani/discipline/internal/app/models"
	"github.com/silani/discipline/internal/pkg/fonnte"
	"github.com/silani/discipline/internal/pkg/phone"
)

// OccurredAtLayout is the timestamp layout used in guardian messages
const OccurredAtLayout = "2006-01-02 15:04:05"

// MessageSender delivers a text message to a normalized phone number
type MessageSender interface {
	SendMessage(ctx context.Context, target, message string) fonnte.Result
}

// Signature identifies the sender at the bottom of every guardian message
type Signature struct {
	AppName    string
	SchoolName string
}

// ComposeViolationMessage renders the guardian notification for a violation.
// student carries the already recomputed total and status.
func ComposeViolationMessage(student *models.Student, rule *models.Rule, violation *models.Violation, sig Signature) string {
	return fmt.Sprintf(`Kepada Yth.
Orangtua/Wali siswa %s
Nama  : %s
NISN  : %s
Kelas : %s

Anak anda melakukan pelanggaran di sekolah:
- Pelanggaran: %s
- Status: %s
- Waktu: %s

%s memiliki total *%d* poin,
dengan status: *%s*.

> %s | Pesan Otomatis
> %s`,
		student.GuardianName,
		student.Name,
		student.NISN,
		student.ClassLabel(),
		rule.Description,
		violation.Status.Label(),
		violation.OccurredAt.Format(OccurredAtLayout),
		student.Name,
		student.TotalPoints,
		student.Status,
		sig.AppName,
		sig.SchoolName,
	)
}

// NotificationOutcome describes one guardian notification attempt
type NotificationOutcome struct {
	Target  string    `json:"target"`
	Message string    `json:"message,omitempty"`
	Sent    bool      `json:"sent"`
	Skipped bool      `json:"skipped"`
	Reason  string    `json:"reason,omitempty"`
	At      time.Time `json:"at"`
}

// Skip reasons
const (
	ReasonInvalidPhone   = "guardian phone number is invalid"
	ReasonIncompleteData = "violation data is incomplete"
)

// GuardianNotifier gates, composes and sends guardian notifications and
// records every outcome in the audit sink
type GuardianNotifier struct {
	sender    MessageSender
	audit     AuditSink
	signature Signature
	logger    zerolog.Logger
	now       func() time.Time
}

// NewGuardianNotifier creates a new guardian notifier
func NewGuardianNotifier(sender MessageSender, audit AuditSink, signature Signature, logger zerolog.Logger) *GuardianNotifier {
	return &GuardianNotifier{
		sender:    sender,
		audit:     audit,
		signature: signature,
		logger:    logger,
		now:       time.Now,
	}
}

// Notify sends the violation message to the student's guardian. It never
// returns an error; failures and skips are reported in the outcome.
func (n *GuardianNotifier) Notify(ctx context.Context, actorID *int64, student *models.Student, rule *models.Rule, violation *models.Violation) NotificationOutcome {
	outcome := NotificationOutcome{At: n.now()}

	if student == nil || rule == nil || violation == nil {
		outcome.Skipped = true
		outcome.Reason = ReasonIncompleteData
		name, raw := "", ""
		if student != nil {
			name, raw = student.Name, student.GuardianPhone
		}
		n.logger.Info().Str("student", name).Str("guardianPhone", raw).Msg("Guardian notification skipped, incomplete data")
		n.audit.Record(ctx, actorID, models.ActivityFonnte,
			fmt.Sprintf("WhatsApp not sent, %s for student %s (%s)", outcome.Reason, name, raw))
		return outcome
	}

	outcome.Target = phone.Normalize(student.GuardianPhone)
	if !phone.IsValid(outcome.Target) {
		outcome.Skipped = true
		outcome.Reason = ReasonInvalidPhone
		n.logger.Info().Str("student", student.Name).Str("guardianPhone", student.GuardianPhone).
			Msg("Guardian notification skipped, invalid phone")
		n.audit.Record(ctx, actorID, models.ActivityFonnte,
			fmt.Sprintf("WhatsApp not sent, %s for student %s (%s)", outcome.Reason, student.Name, student.GuardianPhone))
		return outcome
	}

	outcome.Message = ComposeViolationMessage(student, rule, violation, n.signature)

	result := n.sender.SendMessage(ctx, outcome.Target, outcome.Message)
	outcome.At = n.now()
	if !result.Success {
		outcome.Reason = result.Reason
		n.logger.Warn().Str("target", outcome.Target).Str("reason", result.Reason).
			Int64("violationId", violation.ID).Msg("Failed to send guardian WhatsApp message")
		n.audit.Record(ctx, actorID, models.ActivityFonnte,
			fmt.Sprintf("Failed to send WhatsApp to guardian of student %s (%s): %s", student.Name, outcome.Target, result.Reason))
		return outcome
	}

	outcome.Sent = true
	n.logger.Info().Str("target", outcome.Target).Int64("violationId", violation.ID).Msg("Guardian WhatsApp message sent")
	n.audit.Record(ctx, actorID, models.ActivityFonnte,
		fmt.Sprintf("WhatsApp sent to guardian of student %s (%s)", student.Name, outcome.Target))
	return outcome
}
