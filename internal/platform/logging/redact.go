package logging

import (
	"context"
	"log/slog"
	"regexp"

	"github.com/m-mizutani/masq"
)

var (
	jwtPattern       = regexp.MustCompile(`^eyJ[A-Za-z0-9_-]*\.eyJ[A-Za-z0-9_-]*\.[A-Za-z0-9_-]*$`)
	bearerPattern    = regexp.MustCompile(`(?i)^bearer\s+.+$`)
	basicAuthPattern = regexp.MustCompile(`(?i)^basic\s+.+$`)

	// GitHub personal access tokens, classic and fine-grained.
	githubTokenPattern = regexp.MustCompile(`^(gh[pousr]_[A-Za-z0-9]{20,}|github_pat_[A-Za-z0-9_]{20,})$`)
)

// Attribute keys whose values are always masked, matched exactly or by prefix.
var (
	secretKeys = []string{
		"password", "password_hash", "secret", "token", "sync_token",
		"apiKey", "apikey", "api_key",
		"accessToken", "access_token", "refreshToken", "refresh_token",
		"credential", "credentials", "authorization", "auth", "bearer",
		"cookie", "session",
		"privateKey", "private_key", "secretKey", "secret_key",
	}
	secretPrefixes = []string{"secret", "private", "cookie"}
)

// DefaultRedactOptions returns the masq options applied to every log record.
// Sync tokens, admin passwords and session cookies never reach a log line.
func DefaultRedactOptions() []masq.Option {
	opts := make([]masq.Option, 0, len(secretKeys)+len(secretPrefixes)+4)

	for _, k := range secretKeys {
		opts = append(opts, masq.WithFieldName(k))
	}

	for _, p := range secretPrefixes {
		opts = append(opts, masq.WithFieldPrefix(p))
	}

	for _, re := range []*regexp.Regexp{jwtPattern, bearerPattern, basicAuthPattern, githubTokenPattern} {
		opts = append(opts, masq.WithRegex(re))
	}

	return opts
}

// NewReplaceAttr returns a slog ReplaceAttr that masks secrets. opts extend
// DefaultRedactOptions.
func NewReplaceAttr(opts ...masq.Option) func(groups []string, a slog.Attr) slog.Attr {
	return masq.New(append(DefaultRedactOptions(), opts...)...)
}

// redactingHandler applies a ReplaceAttr function in front of a handler that
// does not support one.
type redactingHandler struct {
	next    slog.Handler
	replace func(groups []string, a slog.Attr) slog.Attr
	groups  []string
}

func newRedactingHandler(next slog.Handler, replace func([]string, slog.Attr) slog.Attr) *redactingHandler {
	return &redactingHandler{next: next, replace: replace}
}

func (h *redactingHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

func (h *redactingHandler) Handle(ctx context.Context, r slog.Record) error { //nolint:gocritic // slog.Handler interface requires value
	out := slog.NewRecord(r.Time, r.Level, r.Message, r.PC)

	r.Attrs(func(a slog.Attr) bool {
		out.AddAttrs(h.replace(h.groups, a))
		return true
	})

	return h.next.Handle(ctx, out)
}

func (h *redactingHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	redacted := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		redacted[i] = h.replace(h.groups, a)
	}

	return &redactingHandler{next: h.next.WithAttrs(redacted), replace: h.replace, groups: h.groups}
}

func (h *redactingHandler) WithGroup(name string) slog.Handler {
	groups := append(append([]string(nil), h.groups...), name)

	return &redactingHandler{next: h.next.WithGroup(name), replace: h.replace, groups: groups}
}
