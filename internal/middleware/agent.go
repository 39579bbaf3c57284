package middleware

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/dunglas/httpsfv"
)

// AgentSessionHeader optionally identifies the conversation a request
// belongs to, as an RFC 8941 dictionary:
//
//	Agent-Session: platform="dialogflow", session="projects/p/agent/sessions/123"
//
// It is used for log correlation only and is never trusted for access control.
const AgentSessionHeader = "Agent-Session"

// AgentSession is the parsed Agent-Session header.
type AgentSession struct {
	Platform string
	Session  string
}

type agentSessionKey struct{}

// ParseAgentSession parses an Agent-Session header value.
// Both keys are optional; unknown keys and parameters are ignored.
func ParseAgentSession(header string) (AgentSession, error) {
	header = strings.TrimSpace(header)
	if header == "" {
		return AgentSession{}, errors.New("empty Agent-Session header")
	}

	dict, err := httpsfv.UnmarshalDictionary([]string{header})
	if err != nil {
		return AgentSession{}, fmt.Errorf("invalid Agent-Session header: %w", err)
	}

	var s AgentSession
	if s.Platform, err = dictString(dict, "platform"); err != nil {
		return AgentSession{}, err
	}
	if s.Session, err = dictString(dict, "session"); err != nil {
		return AgentSession{}, err
	}
	if s.Platform == "" && s.Session == "" {
		return AgentSession{}, errors.New("Agent-Session header has neither platform nor session")
	}
	return s, nil
}

// dictString returns the string or token value of key, "" when absent.
func dictString(dict *httpsfv.Dictionary, key string) (string, error) {
	member, ok := dict.Get(key)
	if !ok {
		return "", nil
	}

	item, ok := member.(httpsfv.Item)
	if !ok {
		return "", fmt.Errorf("%s value must be an item", key)
	}

	switch v := item.Value.(type) {
	case string:
		return v, nil
	case httpsfv.Token:
		return string(v), nil
	default:
		return "", fmt.Errorf("%s value must be a string", key)
	}
}

// AgentContext returns middleware that stores a parsed Agent-Session header
// in the request context. Requests without the header, or with a malformed
// one, pass through unchanged.
func AgentContext(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get(AgentSessionHeader)
			if header == "" {
				next.ServeHTTP(w, r)
				return
			}

			session, err := ParseAgentSession(header)
			if err != nil {
				logger.Warn("ignoring Agent-Session header",
					slog.String("header", header),
					slog.String("error", err.Error()))
				next.ServeHTTP(w, r)
				return
			}

			ctx := context.WithValue(r.Context(), agentSessionKey{}, session)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// AgentSessionFrom returns the Agent-Session stored by AgentContext.
func AgentSessionFrom(ctx context.Context) (AgentSession, bool) {
	s, ok := ctx.Value(agentSessionKey{}).(AgentSession)
	return s, ok
}
