package importer

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"

	"tradergym/internal/errors"
	"tradergym/internal/models"
	"tradergym/internal/performance"
	"tradergym/pkg/utils"
)

const parserSystemPrompt = `You are a trading journal parser. The user pastes a free-text
description of one executed futures trade. Extract it into JSON with exactly these fields:
{
  "date": "YYYY-MM-DD",
  "symbol": "contract symbol, e.g. MNQ",
  "pnl_net": number (negative for a loss),
  "discipline_score": integer 1-5 (how disciplined the execution sounds, 3 if unclear),
  "execution_error": one of "None", "Stop-Loss Sabotage", "Revenge Trading", "Early Exit", "Oversizing", "Chased Entry",
  "according_to_plan": "yes", "no" or "",
  "notes": "one-sentence summary of the trade in the trader's own words"
}
Respond with the JSON object only, no markdown fences, no commentary.`

// AIParser turns free-text journal entries into structured trades.
type AIParser struct {
	client      *openai.Client
	model       string
	temperature float32
	maxTokens   int
	limiter     *performance.RateLimiter
}

// NewAIParser creates a parser backed by the OpenAI API. ratePerMinute
// throttles calls client-side.
func NewAIParser(apiKey, model string, temperature float64, maxTokens, ratePerMinute int) (*AIParser, error) {
	if apiKey == "" {
		return nil, errors.ErrParserUnavailable
	}
	if model == "" {
		model = openai.GPT4o
	}
	if ratePerMinute <= 0 {
		ratePerMinute = 20
	}
	return &AIParser{
		client:      openai.NewClient(apiKey),
		model:       model,
		temperature: float32(temperature),
		maxTokens:   maxTokens,
		limiter:     performance.NewRateLimiter(float64(ratePerMinute)/60.0, ratePerMinute),
	}, nil
}

type parsedTrade struct {
	Date            string  `json:"date"`
	Symbol          string  `json:"symbol"`
	PnLNet          float64 `json:"pnl_net"`
	DisciplineScore int     `json:"discipline_score"`
	ExecutionError  string  `json:"execution_error"`
	AccordingToPlan string  `json:"according_to_plan"`
	Notes           string  `json:"notes"`
}

// Parse extracts a structured trade from free text. The returned trade
// passes the same validation as CSV rows.
func (p *AIParser) Parse(ctx context.Context, text, accountID string) (*models.Trade, error) {
	if strings.TrimSpace(text) == "" {
		return nil, errors.NewValidationError("text", text, "journal text is empty")
	}

	if err := p.limiter.Wait(ctx); err != nil {
		return nil, errors.Wrap(errors.ErrRateLimited, err.Error())
	}

	resp, err := utils.RetryWithResult(ctx, utils.DefaultRetryConfig(), func() (openai.ChatCompletionResponse, error) {
		return p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
			Model:       p.model,
			Temperature: p.temperature,
			MaxTokens:   p.maxTokens,
			Messages: []openai.ChatCompletionMessage{
				{Role: openai.ChatMessageRoleSystem, Content: parserSystemPrompt},
				{Role: openai.ChatMessageRoleUser, Content: text},
			},
		})
	})
	if err != nil {
		return nil, errors.NewParserError(p.model, "completion", err)
	}
	if len(resp.Choices) == 0 {
		return nil, errors.NewParserError(p.model, "completion", fmt.Errorf("no response from openai"))
	}

	return p.decode(resp.Choices[0].Message.Content, accountID)
}

func (p *AIParser) decode(content, accountID string) (*models.Trade, error) {
	content = stripFences(content)

	var parsed parsedTrade
	if err := json.Unmarshal([]byte(content), &parsed); err != nil {
		return nil, errors.NewParserError(p.model, "decode", err)
	}

	trade, err := rowToTrade(csvTradeRow{
		Date:            parsed.Date,
		Symbol:          parsed.Symbol,
		PnLNet:          parsed.PnLNet,
		DisciplineScore: parsed.DisciplineScore,
		ExecutionError:  parsed.ExecutionError,
		AccordingToPlan: parsed.AccordingToPlan,
		Notes:           parsed.Notes,
	}, accountID, fmt.Sprintf("TRD-%d", time.Now().UnixNano()))
	if err != nil {
		return nil, errors.NewParserError(p.model, "validate", err)
	}
	return &trade, nil
}

// stripFences removes markdown code fences models sometimes wrap
// around JSON despite instructions.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		s = strings.TrimSuffix(s, "```")
	}
	return strings.TrimSpace(s)
}
