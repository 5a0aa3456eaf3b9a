package service

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/cheyennechau/Cowlendar-backend/internal/domain/entity"
	"github.com/cheyennechau/Cowlendar-backend/internal/llm"
	"github.com/cheyennechau/Cowlendar-backend/internal/tools"
)

// FallbackModel is the known-stable model retried once when the configured
// model name is rejected as unknown.
const FallbackModel = "claude-3-haiku-20240307"

// MaxAgentTurns caps the tool-augmented conversation loop
const MaxAgentTurns = 10

const directSystemPrompt = `Return ONLY compact JSON like {"mood":"great|okay|low","message":"<<=120 chars>"}`

// Synthesizer turns a completion percentage and recent history into a
// mood/message pair via a generative text service, falling back to the
// deterministic rule-based generator on any failure. A nil client means no
// credential is configured; the service is then never contacted.
type Synthesizer struct {
	client        llm.Client
	model         string
	fallbackModel string
	dispatcher    *tools.Dispatcher
}

// NewSynthesizer creates a new mood synthesizer
func NewSynthesizer(client llm.Client, model string, dispatcher *tools.Dispatcher) *Synthesizer {
	return &Synthesizer{
		client:        client,
		model:         model,
		fallbackModel: FallbackModel,
		dispatcher:    dispatcher,
	}
}

// Direct runs single-shot synthesis for an externally computed percentage.
// The result is always fully populated; no error crosses this boundary.
func (s *Synthesizer) Direct(ctx context.Context, percent int32, history []int32) entity.MoodResult {
	percent = entity.ClampPercent(percent)
	if s.client == nil {
		return FallbackResult(percent)
	}

	userPrompt := fmt.Sprintf(
		"You are a cheerful cow productivity coach.\n"+
			"Today percent_done: %d.\n"+
			"Recent history (old→new): %v\n"+
			"Rules:\n"+
			"- Mood: \"great\" (>=80), \"okay\" (50–79), \"low\" (<50).\n"+
			"- Message: upbeat, cow-themed, <=120 chars, no quotes escaping issues.\n"+
			"Output JSON only.",
		percent, historyTail(history))

	// Explicit two-step attempt sequence: the configured model, then the
	// known-stable fallback when the name is rejected as unknown.
	models := []string{s.model}
	if s.model != s.fallbackModel {
		models = append(models, s.fallbackModel)
	}

	for i, model := range models {
		resp, err := s.client.Complete(ctx, llm.Request{
			Model:       model,
			MaxTokens:   150,
			System:      directSystemPrompt,
			Messages:    []llm.Message{llm.UserText(userPrompt)},
			Temperature: 0.3,
		})
		if err != nil {
			if errors.Is(err, llm.ErrUnknownModel) && i == 0 {
				log.Printf("Model %s unknown, retrying with %s", model, s.fallbackModel)
				continue
			}
			log.Printf("Mood synthesis failed (%s): %v", model, err)
			return FallbackResult(percent)
		}

		result, err := ParseMoodPayload(resp.Text(), percent)
		if err != nil {
			log.Printf("Mood synthesis returned invalid payload, using fallback")
			return FallbackResult(percent)
		}
		// Percent is ours in direct mode, whatever the model echoed back
		result.PercentDone = percent
		return result
	}

	return FallbackResult(percent)
}

const agentGoalPrompt = `You are the Cow's Brain in a productivity game.

Analyze the user's productivity today by:
1. Fetching their calendar events
2. Optionally querying Notion for tasks (if you think it's helpful)
3. Optionally reading Slack or Fetch AI for extra context

Based on the data, determine:
- percent_done: 0-100 (percentage of completed events/tasks)
- mood: "great" (80-100%%), "okay" (50-79%%), or "low" (0-49%%)
- message: Short encouraging message (max 120 chars) in cute cow tone

Recent history: %v

Return ONLY valid JSON: {"percent_done": <int>, "mood": "<string>", "message": "<string>"}`

// WithTools runs the multi-turn tool-augmented synthesis. The model gathers
// its own data through the dispatcher and self-reports percent_done. The
// conversation accumulator lives and dies inside this call.
func (s *Synthesizer) WithTools(ctx context.Context, history []int32) entity.MoodResult {
	if s.client == nil || s.dispatcher == nil {
		return FallbackResult(0)
	}

	messages := []llm.Message{
		llm.UserText(fmt.Sprintf(agentGoalPrompt, historyTail(history))),
	}
	menu := s.dispatcher.Definitions()

	for turn := 0; turn < MaxAgentTurns; turn++ {
		resp, err := s.client.Complete(ctx, llm.Request{
			Model:     s.model,
			MaxTokens: 4096,
			Messages:  messages,
			Tools:     menu,
		})
		if err != nil {
			log.Printf("Agent synthesis failed on turn %d: %v", turn+1, err)
			return unableToAnalyzeResult()
		}

		switch resp.StopReason {
		case llm.StopEndTurn:
			return s.extractFinalResult(resp)

		case llm.StopToolUse:
			messages = append(messages, llm.Message{Role: "assistant", Content: resp.Content})
			messages = append(messages, llm.Message{Role: "user", Content: s.runToolCalls(ctx, resp)})

		default:
			// Unexpected termination signal ends the loop without a result
			log.Printf("Agent synthesis stopped with unexpected stop_reason %q", resp.StopReason)
			return tookTooLongResult()
		}
	}

	return tookTooLongResult()
}

// extractFinalResult pulls the first text block containing a valid payload
func (s *Synthesizer) extractFinalResult(resp *llm.Response) entity.MoodResult {
	for _, block := range resp.Content {
		if block.Type != llm.BlockText {
			continue
		}
		result, err := ParseMoodPayload(block.Text, 0)
		if err != nil {
			continue
		}
		return result
	}
	return unableToAnalyzeResult()
}

// runToolCalls dispatches every requested tool call and collects the
// result blocks. Failures become error-tagged results the model can see.
func (s *Synthesizer) runToolCalls(ctx context.Context, resp *llm.Response) []llm.ContentBlock {
	var results []llm.ContentBlock
	for _, call := range resp.ToolCalls() {
		content, isError := s.dispatcher.Execute(ctx, call.Name, call.Input)
		results = append(results, llm.ContentBlock{
			Type:      llm.BlockToolResult,
			ToolUseID: call.ID,
			Content:   content,
			IsError:   isError,
		})
	}
	return results
}

func unableToAnalyzeResult() entity.MoodResult {
	return entity.MoodResult{PercentDone: 0, Mood: entity.MoodLow, Message: unableToAnalyzeMessage}
}

func tookTooLongResult() entity.MoodResult {
	return entity.MoodResult{PercentDone: 0, Mood: entity.MoodLow, Message: tookTooLongMessage}
}

// historyTail bounds the history context to the ledger window size
func historyTail(history []int32) []int32 {
	if len(history) > HistoryWindowSize {
		return history[len(history)-HistoryWindowSize:]
	}
	return history
}
