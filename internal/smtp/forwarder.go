package smtp

import (
	"bytes"
	"fmt"
	"time"

	gosmtp "github.com/emersion/go-smtp"
)

// RelayForwarder delivers messages through an upstream smarthost.
type RelayForwarder struct {
	relayAddr string
	timeout   time.Duration
}

// NewRelayForwarder creates a forwarder that relays via relayAddr
// (host:port of the smarthost).
func NewRelayForwarder(relayAddr string) *RelayForwarder {
	return &RelayForwarder{
		relayAddr: relayAddr,
		timeout:   30 * time.Second,
	}
}

// Forward relays the raw message to a single recipient.
func (f *RelayForwarder) Forward(from string, to string, raw []byte) error {
	c, err := gosmtp.Dial(f.relayAddr)
	if err != nil {
		return fmt.Errorf("dial relay %s: %w", f.relayAddr, err)
	}
	defer c.Close()

	c.CommandTimeout = f.timeout
	c.SubmissionTimeout = f.timeout

	if err := c.SendMail(from, []string{to}, bytes.NewReader(raw)); err != nil {
		return fmt.Errorf("relay to %s: %w", to, err)
	}
	return c.Quit()
}
