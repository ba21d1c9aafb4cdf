package llm

import (
	"context"
	"time"

	"github.com/cloudwego/eino/schema"
	"github.com/pkg/errors"
	"github.com/specialistvlad/slidegridgo/internal/ctxlog"
)

// Client sends conversations to one chat model.
type Client struct {
	name    string
	model   ChatModel
	timeout time.Duration
}

// NewClient wraps m. A zero timeout means requests are bounded only by the
// caller's context.
func NewClient(name string, m ChatModel, timeout time.Duration) *Client {
	return &Client{name: name, model: m, timeout: timeout}
}

// Name returns the model alias the client was built for.
func (c *Client) Name() string {
	return c.name
}

// Generate sends msgs and returns the text of the reply.
func (c *Client) Generate(ctx context.Context, msgs []*schema.Message) (string, error) {
	logger := ctxlog.FromContext(ctx).With("model", c.name)
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	start := time.Now()
	reply, err := c.model.Generate(ctx, msgs)
	if err != nil {
		return "", errors.Wrapf(err, "model '%s' generate failed", c.name)
	}
	if reply == nil {
		return "", errors.Errorf("model '%s' returned no message", c.name)
	}
	logger.Debug("Model replied.", "messages", len(msgs), "chars", len(reply.Content), "duration", time.Since(start))
	return reply.Content, nil
}

// Conversation accumulates the messages of one agent exchange, so a retry
// can show the model its previous answer and what was wrong with it.
type Conversation struct {
	messages []*schema.Message
}

// NewConversation starts a conversation with a system prompt and the first
// user message.
func NewConversation(system, user string) *Conversation {
	return &Conversation{messages: []*schema.Message{
		schema.SystemMessage(system),
		schema.UserMessage(user),
	}}
}

// Reply records the model's answer and a corrective follow-up.
func (c *Conversation) Reply(answer, feedback string) {
	c.messages = append(c.messages,
		schema.AssistantMessage(answer, nil),
		schema.UserMessage(feedback),
	)
}

// Messages returns the conversation so far.
func (c *Conversation) Messages() []*schema.Message {
	return append([]*schema.Message(nil), c.messages...)
}
