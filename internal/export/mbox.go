// Package export writes the mailbox to an mbox file.
package export

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	mboxlib "github.com/emersion/go-mbox"
	"github.com/emersion/go-message/mail"

	"github.com/nhle/inbox/internal/model"
)

const (
	// envelopeFrom is the mbox "From " line sender.
	envelopeFrom = "inbox@localhost"

	// messageIDDomain qualifies exported Message-Id headers.
	messageIDDomain = "inbox.local"

	// HeaderLabels carries the message labels, comma separated.
	HeaderLabels = "X-Inbox-Labels"

	// HeaderFlags carries the read and starred flags, e.g. "read,starred".
	HeaderFlags = "X-Inbox-Flags"

	// HeaderID carries the server-assigned message id.
	HeaderID = "X-Inbox-Id"
)

// MessageID returns the Message-Id (without angle brackets) used for m.
func MessageID(id int) string {
	return strconv.Itoa(id) + "@" + messageIDDomain
}

// Flags renders the read and starred state, e.g. "read,starred".
func Flags(m model.Message) string {
	var flags []string
	if m.Read {
		flags = append(flags, "read")
	}
	if m.Starred {
		flags = append(flags, "starred")
	}
	return strings.Join(flags, ",")
}

// WriteMbox writes messages to w in list order. All messages are stamped
// with date, since the API carries no timestamps.
func WriteMbox(w io.Writer, messages []model.Message, date time.Time) error {
	mw := mboxlib.NewWriter(w)

	for _, m := range messages {
		part, err := mw.CreateMessage(envelopeFrom, date)
		if err != nil {
			return fmt.Errorf("starting message %d: %w", m.ID, err)
		}
		if err := writeMessage(part, m, date); err != nil {
			return fmt.Errorf("writing message %d: %w", m.ID, err)
		}
	}

	if err := mw.Close(); err != nil {
		return fmt.Errorf("finishing mbox: %w", err)
	}
	return nil
}

func writeMessage(w io.Writer, m model.Message, date time.Time) error {
	var h mail.Header
	h.SetDate(date)
	h.SetSubject(m.Subject)
	h.SetMessageID(MessageID(m.ID))
	h.SetAddressList("From", []*mail.Address{{Name: "inbox", Address: envelopeFrom}})
	h.SetContentType("text/plain", map[string]string{"charset": "utf-8"})
	h.Set("Content-Transfer-Encoding", "quoted-printable")
	h.Set(HeaderID, strconv.Itoa(m.ID))
	if len(m.Labels) > 0 {
		h.Set(HeaderLabels, strings.Join(m.Labels, ", "))
	}
	if flags := Flags(m); flags != "" {
		h.Set(HeaderFlags, flags)
	}
	if m.Read {
		h.Set("Status", "RO")
	} else {
		h.Set("Status", "O")
	}

	body, err := mail.CreateSingleInlineWriter(w, h)
	if err != nil {
		return fmt.Errorf("creating body writer: %w", err)
	}
	if _, err := io.WriteString(body, m.Body); err != nil {
		body.Close()
		return fmt.Errorf("writing body: %w", err)
	}
	return body.Close()
}

// WriteFile exports messages to path. The file is replaced atomically.
func WriteFile(path string, messages []model.Message, date time.Time) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating export directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".inbox-export-*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := WriteMbox(tmp, messages, date); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("moving export into place: %w", err)
	}
	return nil
}
