package llm

import (
	"context"
	"strings"
)

// ScriptedClient serves canned replies keyed by markers found in the request's
// system prompt. It backs keyless local development and acts as the terminal
// fallback when no real provider is configured.
type ScriptedClient struct {
	replies      map[string]string // marker substring -> reply
	defaultReply string
}

func NewScriptedClient(replies map[string]string, defaultReply string) *ScriptedClient {
	return &ScriptedClient{replies: replies, defaultReply: defaultReply}
}

func (c *ScriptedClient) Complete(_ context.Context, req Request) (Response, error) {
	system := strings.ToLower(strings.Join(req.System, "\n"))
	for marker, reply := range c.replies {
		if strings.Contains(system, strings.ToLower(marker)) {
			return Response{Text: reply, StopReason: "end_turn"}, nil
		}
	}
	return Response{Text: c.defaultReply, StopReason: "end_turn"}, nil
}
