// internal/testutil/mail.go
package testutil

import (
	"sync"

	"github.com/dalemusser/trackhub/internal/app/system/mailer"
)

// CaptureSender records outbound email instead of delivering it.
type CaptureSender struct {
	mu     sync.Mutex
	Emails []mailer.Email
}

func (c *CaptureSender) Send(email mailer.Email) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Emails = append(c.Emails, email)
	return nil
}

// Sent returns a copy of the captured emails.
func (c *CaptureSender) Sent() []mailer.Email {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]mailer.Email, len(c.Emails))
	copy(out, c.Emails)
	return out
}

// SentTo returns the captured emails addressed to the given recipient.
func (c *CaptureSender) SentTo(addr string) []mailer.Email {
	c.mu.Lock()
	defer c.mu.Unlock()
	var out []mailer.Email
	for _, e := range c.Emails {
		if e.To == addr {
			out = append(out, e)
		}
	}
	return out
}
