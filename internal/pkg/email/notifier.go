package email

import (
	"context"
	"fmt"
	"path"

	"github.com/rs/zerolog"
)

// FileReader loads stored files for attachments
type FileReader interface {
	ReadFile(relPath string) ([]byte, error)
}

// Notification is a message whose attachments are referenced by storage path
type Notification struct {
	To              string
	ToName          string
	Subject         string
	Body            string // HTML
	AttachmentPaths []string
}

// Notifier resolves attachments from storage and hands messages to a Sender
type Notifier struct {
	sender Sender
	files  FileReader
	logger zerolog.Logger
}

// NewNotifier creates a Notifier
func NewNotifier(sender Sender, files FileReader, logger zerolog.Logger) *Notifier {
	return &Notifier{sender: sender, files: files, logger: logger}
}

// Send loads every attachment and delivers the message
func (n *Notifier) Send(ctx context.Context, note Notification) error {
	msg := Message{
		To:       note.To,
		ToName:   note.ToName,
		Subject:  note.Subject,
		HTMLBody: note.Body,
	}
	for _, p := range note.AttachmentPaths {
		data, err := n.files.ReadFile(p)
		if err != nil {
			return fmt.Errorf("failed to load attachment %s: %w", p, err)
		}
		msg.Attachments = append(msg.Attachments, Attachment{
			Filename:    path.Base(p),
			ContentType: contentTypeFor(p),
			Content:     data,
		})
	}

	if err := n.sender.Send(ctx, msg); err != nil {
		return err
	}
	n.logger.Info().Str("toEmail", note.To).Str("subject", note.Subject).Msg("Email sent")
	return nil
}

func contentTypeFor(p string) string {
	switch path.Ext(p) {
	case ".pdf":
		return "application/pdf"
	case ".xlsx":
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	default:
		return "application/octet-stream"
	}
}
