// Package agent runs the conversation loop: one user message in, one final
// assistant answer out, with any number of permission-gated tool calls in
// between.
package agent

import (
	"context"
	"errors"
	"fmt"

	"vellum/internal/chat"
	"vellum/internal/client"
	"vellum/internal/logging"
	"vellum/internal/permission"
	"vellum/internal/prompt"
	"vellum/internal/tools"
)

const (
	// maxToolDepth bounds the request/tool cycle for one user message. A
	// model that keeps asking for tools is cut off with a budget notice
	// instead of recursing forever.
	maxToolDepth = 15

	toolBudgetMessage = "Tool budget exceeded: I stopped after too many consecutive tool calls. Ask again to continue from here."
)

// Agent owns one conversation. All processing is strictly sequential: a
// tool call fully resolves before the next provider request is issued, so
// results always reach the model in call order.
type Agent struct {
	client  client.Client
	prompts *prompt.Builder
	tools   *tools.Handler
	gate    *permission.Gate
	log     *chat.Log
}

// New creates an agent over its collaborators.
func New(c client.Client, prompts *prompt.Builder, handler *tools.Handler, gate *permission.Gate, log *chat.Log) *Agent {
	return &Agent{
		client:  c,
		prompts: prompts,
		tools:   handler,
		gate:    gate,
		log:     log,
	}
}

// ProcessMessage turns one user message into one final assistant answer.
// Tool chrome produced along the way lands in the transcript as notes; the
// scratch turns exchanged with the provider during this call never outlive
// it.
func (a *Agent) ProcessMessage(ctx context.Context, text string) {
	a.log.Append(chat.NewMessage(chat.RoleUser, text))

	// The persisted conversation plus this turn's ephemeral scratch tail.
	turns := a.log.Turns()

	for depth := 0; depth < maxToolDepth; depth++ {
		select {
		case <-ctx.Done():
			a.log.Append(chat.NewMessage(chat.RoleAssistant, "Interrupted."))
			return
		default:
		}

		// Rebuilt every request: the current document and vault listing
		// may have changed since the last tool ran.
		systemPrompt := a.prompts.Build()

		result, err := a.client.Complete(ctx, systemPrompt, turns, tools.Declarations())
		if err != nil {
			a.log.Append(chat.NewMessage(chat.RoleAssistant, providerErrorText(err)))
			return
		}

		if result.Kind != client.KindToolCall {
			a.log.Append(chat.NewMessage(chat.RoleAssistant, result.Text))
			return
		}

		for _, call := range result.Calls {
			resultText, err := a.runTool(ctx, call)
			if err != nil {
				a.log.Append(chat.NewMessage(chat.RoleAssistant, "Interrupted."))
				return
			}
			turns = append(turns,
				client.Turn{Role: client.RoleAssistant, Content: fmt.Sprintf("Calling tool: %s", call.Name)},
				client.Turn{Role: client.RoleUser, Content: fmt.Sprintf("Tool result for %s:\n%s", call.Name, resultText)},
			)
		}
	}

	logging.Warn("tool budget exceeded", "depth", maxToolDepth)
	a.log.Append(chat.NewMessage(chat.RoleAssistant, toolBudgetMessage))
}

// runTool authorizes and dispatches one call. Denials and unknown names
// become ordinary result strings the model can react to; the only error is
// context cancellation while a permission prompt is suspended.
func (a *Agent) runTool(ctx context.Context, call client.ToolCall) (string, error) {
	name, ok := tools.ParseName(call.Name)
	if !ok {
		logging.Warn("model requested unknown tool", "tool", call.Name)
		return fmt.Sprintf("Unknown tool: %s", call.Name), nil
	}

	resp, err := a.gate.Authorize(ctx, string(name), call.Arguments)
	if err != nil {
		return "", err
	}
	if !resp.Allowed {
		reason := resp.Reason
		if reason == "" {
			reason = "blocked by user"
		}
		logging.Info("tool call blocked", "tool", name, "reason", reason)
		return fmt.Sprintf("Tool call %s: %s.", name, reason), nil
	}

	a.log.Append(chat.NewToolNote(fmt.Sprintf("[Tool used: %s]", name)))
	return a.tools.Dispatch(ctx, name, call.Arguments), nil
}

// providerErrorText renders a provider failure for the transcript. The
// conversation itself stays usable for the next message.
func providerErrorText(err error) string {
	var provErr *client.ProviderError
	if errors.As(err, &provErr) {
		return fmt.Sprintf("The provider returned an error: %v", provErr)
	}
	return fmt.Sprintf("Could not reach the provider: %v", err)
}
