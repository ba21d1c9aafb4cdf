package app

import (
	"context"
	"fmt"

	"github.com/specialistvlad/slidegridgo/internal/agents"
	"github.com/specialistvlad/slidegridgo/internal/config"
	"github.com/specialistvlad/slidegridgo/internal/ctxlog"
	"github.com/specialistvlad/slidegridgo/internal/llm"
	"github.com/specialistvlad/slidegridgo/internal/sink"
	"github.com/specialistvlad/slidegridgo/internal/step"
)

// agentModule builds one LLM client per agent block and binds it to its
// step kind. Models shared by several agents get one client each.
func agentModule(ctx context.Context, plan *config.Model, s sink.Sink) (*agents.Module, error) {
	logger := ctxlog.FromContext(ctx)
	mod := &agents.Module{Sink: s}

	for _, kind := range step.Kinds {
		a, ok := plan.Agents[kind]
		if !ok {
			continue
		}
		def := plan.Models[a.Model]
		cm, err := llm.NewChatModel(ctx, modelConfig(def))
		if err != nil {
			return nil, fmt.Errorf("agent '%s': %w", kind, err)
		}
		agent := &agents.Agent{
			Generator:  llm.NewClient(def.Name, cm, def.Timeout),
			MaxRetries: a.MaxRetries,
		}
		logger.Debug("Agent configured.", "kind", kind, "model", def.Name, "type", def.Type, "max_retries", a.MaxRetries)

		switch kind {
		case step.KindRelayouter:
			mod.Relayouter = agent
		case step.KindCoupler:
			mod.Coupler = agent
		case step.KindExecutor:
			mod.Executor = agent
		}
	}
	return mod, nil
}

func modelConfig(def *config.ModelDef) llm.ModelConfig {
	return llm.ModelConfig{
		Name:        def.Name,
		APIType:     llm.NewModelType(def.Type),
		BaseURL:     def.BaseURL,
		APIKey:      def.APIKey,
		ModelName:   def.ModelName,
		Temperature: def.Temperature,
		MaxTokens:   def.MaxTokens,
		Timeout:     def.Timeout,
	}
}
