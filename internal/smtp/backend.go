package smtp

import (
	"bytes"
	"context"
	"errors"
	"io"

	gosmtp "github.com/emersion/go-smtp"
	"go.uber.org/zap"

	"github.com/govindup63/Ghstmail.me/internal/cache"
	"github.com/govindup63/Ghstmail.me/internal/domain"
	"github.com/govindup63/Ghstmail.me/internal/monitoring"
	"github.com/govindup63/Ghstmail.me/internal/pool"
	"github.com/govindup63/Ghstmail.me/internal/security"
	"github.com/govindup63/Ghstmail.me/internal/service"
	"github.com/govindup63/Ghstmail.me/internal/storage/redis"
)

// maxMessageBytes caps what a session may buffer before forwarding.
const maxMessageBytes = 10 * 1024 * 1024

var errUnknownRecipient = &gosmtp.SMTPError{
	Code:         550,
	EnhancedCode: gosmtp.EnhancedCode{5, 1, 1},
	Message:      "no such alias here",
}

var errQueueFull = &gosmtp.SMTPError{
	Code:         451,
	EnhancedCode: gosmtp.EnhancedCode{4, 3, 2},
	Message:      "server busy, try again later",
}

// Forwarder relays an accepted message to a forward target.
type Forwarder interface {
	Forward(from string, to string, raw []byte) error
}

// BackendDeps are the collaborators of the SMTP backend. Aliases and
// ForwarderImpl are required; everything else may be nil.
type BackendDeps struct {
	Aliases   *service.AliasService
	Forwarder Forwarder
	Local     *cache.AliasCache
	Remote    *redis.ResolveCache
	Filter    *security.ContentFilter
	Pool      *pool.WorkerPool
	Limiter   *ConnectionLimiter
	Metrics   *monitoring.Metrics
	Log       *zap.Logger
}

// Backend implements the go-smtp backend for the inbound relay.
//
// This is a forwarding-only server: it accepts mail exclusively for
// active aliases it can resolve, relays each message to the alias's
// forward target, and rejects everything else. It never relays for
// arbitrary recipients, so it cannot be used as an open relay.
type Backend struct {
	deps BackendDeps
	log  *zap.Logger
}

// NewBackend creates the SMTP backend.
func NewBackend(deps BackendDeps) *Backend {
	if deps.Log == nil {
		deps.Log = zap.NewNop()
	}
	return &Backend{deps: deps, log: deps.Log}
}

// NewSession starts a session if the connection limiter allows it.
func (b *Backend) NewSession(c *gosmtp.Conn) (gosmtp.Session, error) {
	if b.deps.Limiter != nil && !b.deps.Limiter.Acquire() {
		return nil, &gosmtp.SMTPError{
			Code:         421,
			EnhancedCode: gosmtp.EnhancedCode{4, 4, 5},
			Message:      "too many connections, try again later",
		}
	}
	return &session{backend: b}, nil
}

type session struct {
	backend     *Backend
	fromAddress string
	targets     []forwardTarget
}

type forwardTarget struct {
	alias   string
	forward string
}

// Mail handles the MAIL FROM command.
func (s *session) Mail(from string, opts *gosmtp.MailOptions) error {
	s.fromAddress = from
	return nil
}

// Rcpt handles the RCPT TO command. Only resolvable active aliases are
// accepted; everything else gets a 550.
func (s *session) Rcpt(to string, opts *gosmtp.RcptOptions) error {
	alias, err := s.backend.resolve(to)
	if err != nil {
		s.backend.log.Info("recipient rejected", zap.String("to", to))
		s.backend.countRejected()
		return errUnknownRecipient
	}

	s.targets = append(s.targets, forwardTarget{
		alias:   alias.AliasAddress,
		forward: alias.ForwardTarget,
	})
	return nil
}

// Data receives the message body, screens it, and relays it to every
// accepted recipient's forward target.
func (s *session) Data(r io.Reader) error {
	if len(s.targets) == 0 {
		return errUnknownRecipient
	}

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, io.LimitReader(r, maxMessageBytes)); err != nil {
		return err
	}
	raw := buf.Bytes()

	if s.backend.deps.Filter != nil {
		if ok, reason := s.backend.deps.Filter.Check(raw); !ok {
			s.backend.log.Info("message rejected by content filter",
				zap.String("from", s.fromAddress),
				zap.String("reason", reason),
			)
			s.backend.countRejected()
			return &gosmtp.SMTPError{
				Code:         550,
				EnhancedCode: gosmtp.EnhancedCode{5, 7, 1},
				Message:      "message rejected: " + reason,
			}
		}
	}

	if m := s.backend.deps.Metrics; m != nil {
		m.MailAccepted.Inc()
	}

	// With a pool the message is accepted and relayed in the
	// background; without one delivery happens inline and errors
	// surface to the sender.
	if s.backend.deps.Pool != nil {
		return s.queueForwards(raw)
	}
	for _, target := range s.targets {
		if err := s.backend.forward(s.fromAddress, target, raw); err != nil {
			return &gosmtp.SMTPError{
				Code:         451,
				EnhancedCode: gosmtp.EnhancedCode{4, 4, 1},
				Message:      "forwarding failed, try again later",
			}
		}
	}
	return nil
}

func (s *session) queueForwards(raw []byte) error {
	from := s.fromAddress
	for _, target := range s.targets {
		target := target
		ok := s.backend.deps.Pool.TrySubmit(func() {
			_ = s.backend.forward(from, target, raw)
		})
		if !ok {
			return errQueueFull
		}
	}
	return nil
}

// Reset clears per-message state.
func (s *session) Reset() {
	s.fromAddress = ""
	s.targets = nil
}

// Logout ends the session and releases the connection slot.
func (s *session) Logout() error {
	if s.backend.deps.Limiter != nil {
		s.backend.deps.Limiter.Release()
	}
	return nil
}

func (b *Backend) forward(from string, target forwardTarget, raw []byte) error {
	if err := b.deps.Forwarder.Forward(from, target.forward, raw); err != nil {
		b.log.Error("forward failed",
			zap.String("alias", target.alias),
			zap.String("target", target.forward),
			zap.Error(err),
		)
		if b.deps.Metrics != nil {
			b.deps.Metrics.ForwardErrors.Inc()
		}
		return err
	}

	b.log.Info("mail forwarded",
		zap.String("alias", target.alias),
		zap.String("from", from),
	)
	if b.deps.Metrics != nil {
		b.deps.Metrics.MailForwarded.Inc()
	}
	return nil
}

func (b *Backend) countRejected() {
	if b.deps.Metrics != nil {
		b.deps.Metrics.MailRejected.Inc()
	}
}

// resolve checks the in-process cache, then Redis, then the service,
// back-filling both caches on the way out.
func (b *Backend) resolve(address string) (*domain.Alias, error) {
	if b.deps.Local != nil {
		if alias, ok := b.deps.Local.Get(address); ok {
			return alias, nil
		}
	}

	ctx := context.Background()
	if b.deps.Remote != nil {
		if alias, err := b.deps.Remote.Get(ctx, address); err == nil {
			if b.deps.Local != nil {
				b.deps.Local.Put(alias)
			}
			return alias, nil
		} else if !errors.Is(err, redis.ErrCacheMiss) {
			b.log.Warn("resolve cache error", zap.Error(err))
		}
	}

	alias, err := b.deps.Aliases.Resolve(address)
	if err != nil {
		return nil, err
	}

	if b.deps.Local != nil {
		b.deps.Local.Put(alias)
	}
	if b.deps.Remote != nil {
		if err := b.deps.Remote.Put(ctx, alias); err != nil {
			b.log.Warn("resolve cache write failed", zap.Error(err))
		}
	}
	return alias, nil
}
