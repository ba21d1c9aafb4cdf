// Package agents implements the three step handlers on top of chat models.
//
// Every agent follows the same exchange: build a prompt from the step and
// the document snapshots, ask the model, extract JSON from the reply, decode
// it strictly and validate it. When the answer is rejected the model is
// shown its answer together with the reason and asked again, up to
// MaxRetries more times.
package agents

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/schema"
	"github.com/specialistvlad/slidegridgo/internal/ctxlog"
	"github.com/specialistvlad/slidegridgo/internal/llm"
	"github.com/specialistvlad/slidegridgo/internal/registry"
	"github.com/specialistvlad/slidegridgo/internal/sink"
	"github.com/specialistvlad/slidegridgo/internal/step"
)

// DefaultMaxRetries is the number of corrective re-prompts after a rejected answer.
const DefaultMaxRetries = 2

// Generator produces the reply text for a conversation. *llm.Client
// implements it.
type Generator interface {
	Generate(ctx context.Context, msgs []*schema.Message) (string, error)
}

// Agent binds a generator to its retry budget.
type Agent struct {
	Generator  Generator
	MaxRetries int
}

// Module registers an LLM-backed handler for every kind that has an agent.
type Module struct {
	Relayouter *Agent
	Coupler    *Agent
	Executor   *Agent
	// Sink receives the raw answer of every step as "<kind>-result-<id>".
	Sink sink.Sink
}

// Register implements registry.Module.
func (m *Module) Register(r *registry.Registry) {
	if m.Relayouter != nil {
		r.RegisterRelayouter("agents", &relayouter{agent: m.Relayouter, sink: m.sink()})
	}
	if m.Coupler != nil {
		r.RegisterCoupler("agents", &coupler{agent: m.Coupler, sink: m.sink()})
	}
	if m.Executor != nil {
		r.RegisterExecutor("agents", &executor{agent: m.Executor, sink: m.sink()})
	}
}

func (m *Module) sink() sink.Sink {
	if m.Sink == nil {
		return sink.Nop{}
	}
	return m.Sink
}

// converse runs the validate-and-retry exchange. parse either accepts the
// reply or explains what is wrong with it; the explanation becomes the
// next user message.
func converse[T any](ctx context.Context, a *Agent, kind step.Kind, stepID, system, user string, parse func(reply string) (T, error)) (T, string, error) {
	logger := ctxlog.FromContext(ctx).With("stepID", stepID, "kind", kind)
	conv := llm.NewConversation(system, user)

	var zero T
	for attempt := 0; ; attempt++ {
		reply, err := a.Generator.Generate(ctx, conv.Messages())
		if err != nil {
			return zero, "", err
		}

		v, perr := parse(reply)
		if perr == nil {
			if attempt > 0 {
				logger.Info("Agent answer accepted after retry.", "attempt", attempt+1)
			}
			return v, reply, nil
		}
		if attempt >= a.MaxRetries {
			return zero, reply, fmt.Errorf("rejected %s answer after %d attempts: %w", kind, attempt+1, perr)
		}

		logger.Warn("Agent answer rejected; asking again.", "attempt", attempt+1, "error", perr)
		conv.Reply(reply, fmt.Sprintf("# Error: Your last answer was rejected.\n\n%s\n\nFix only this and answer again in the required format.", perr))
	}
}

// decodeStrict extracts JSON from reply and decodes it into out, refusing
// unknown fields.
func decodeStrict(reply string, out any) (json.RawMessage, error) {
	raw, err := llm.ExtractJSON(reply)
	if err != nil {
		return nil, err
	}
	dec := json.NewDecoder(strings.NewReader(string(raw)))
	dec.DisallowUnknownFields()
	if err := dec.Decode(out); err != nil {
		return nil, fmt.Errorf("answer does not match the schema: %w", err)
	}
	return raw, nil
}

// persist stores an agent answer. Failures are logged, never returned.
func persist(ctx context.Context, s sink.Sink, processID string, kind step.Kind, stepID string, v any) {
	name := fmt.Sprintf("%s-result-%s", kind, stepID)
	if err := s.Put(ctx, processID, name, v); err != nil {
		ctxlog.FromContext(ctx).Warn("Failed to persist agent result.", "artifact", name, "error", err)
	}
}

type section struct {
	title string
	body  string
}

func renderPrompt(sections ...section) string {
	var b strings.Builder
	for _, s := range sections {
		if strings.TrimSpace(s.body) == "" {
			continue
		}
		fmt.Fprintf(&b, "# %s\n\n%s\n\n", s.title, strings.TrimSpace(s.body))
	}
	return b.String()
}

func mustJSON(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("<unencodable: %v>", err)
	}
	return string(data)
}

// rawOrText keeps a JSON answer as JSON and anything else as text.
func rawOrText(reply string) any {
	if raw, err := llm.ExtractJSON(reply); err == nil {
		return raw
	}
	return strings.TrimSpace(reply)
}
