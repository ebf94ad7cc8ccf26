package generator

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/anthropics/anthropic-sdk-go/packages/param"
	"github.com/disasterprep/backend/internal/models"
)

// LLMClient is the interface both generator implementations satisfy.
type LLMClient interface {
	Generate(ctx context.Context, systemPrompt string, userPrompt string) (*LLMResponse, error)
}

// LLMResponse holds the raw response content and token usage.
type LLMResponse struct {
	Content      string
	PromptTokens int
	OutputTokens int
}

// Generator wraps an LLMClient and adds drill-specific content methods.
type Generator struct {
	llm   LLMClient
	model string
}

func NewGenerator() *Generator {
	var llm LLMClient
	model := "mock"

	if os.Getenv("USE_CLI_GENERATOR") == "true" {
		cliPath := os.Getenv("CLAUDE_CLI_PATH")
		if cliPath == "" {
			cliPath = "claude"
		}
		llm = NewCLIClient(cliPath)
		model = "claude-cli"
		log.Println("Generator using Claude CLI (local plan)")
	} else if os.Getenv("MOCK_GENERATOR") == "true" {
		llm = NewMockClient()
		log.Println("Generator using mock data")
	} else {
		model = os.Getenv("ANTHROPIC_MODEL")
		if model == "" {
			model = "claude-sonnet-4-20250514"
		}
		llm = NewAPIClient(model)
		log.Println("Generator using Anthropic API:", model)
	}

	return &Generator{llm: llm, model: model}
}

func (g *Generator) ModelName() string {
	return g.model
}

// GenerateQuiz produces a five-question quiz for a module topic at the given
// difficulty.
func (g *Generator) GenerateQuiz(ctx context.Context, topicName string, difficulty models.Difficulty) (*GeneratedQuiz, *LLMResponse, error) {
	systemPrompt := QuizSystemPrompt()
	userPrompt := BuildQuizUserPrompt(topicName, difficulty)

	resp, err := g.llm.Generate(ctx, systemPrompt, userPrompt)
	if err != nil {
		return nil, nil, fmt.Errorf("generate quiz: %w", err)
	}

	quiz, err := ParseQuizResponse(resp.Content)
	if err != nil {
		return nil, resp, fmt.Errorf("parse quiz response: %w", err)
	}

	return quiz, resp, nil
}

// GenerateSafetyInfo produces digestible safety cards for a module topic.
// When regional is true the prompt asks for location-specific guidance.
func (g *Generator) GenerateSafetyInfo(ctx context.Context, topicName string, regional bool) (*GeneratedSafetyInfo, *LLMResponse, error) {
	systemPrompt := SafetySystemPrompt()
	userPrompt := BuildSafetyUserPrompt(topicName, regional)

	resp, err := g.llm.Generate(ctx, systemPrompt, userPrompt)
	if err != nil {
		return nil, nil, fmt.Errorf("generate safety info: %w", err)
	}

	info, err := ParseSafetyResponse(resp.Content)
	if err != nil {
		return nil, resp, fmt.Errorf("parse safety response: %w", err)
	}

	return info, resp, nil
}

// ── APIClient — Anthropic SDK (Production) ─────────────────

type APIClient struct {
	client *anthropic.Client
	model  string
}

func NewAPIClient(model string) *APIClient {
	client := anthropic.NewClient(
		option.WithAPIKey(os.Getenv("ANTHROPIC_API_KEY")),
	)
	return &APIClient{client: &client, model: model}
}

func (c *APIClient) Generate(ctx context.Context, systemPrompt string, userPrompt string) (*LLMResponse, error) {
	params := anthropic.MessageNewParams{
		Model:       anthropic.Model(c.model),
		MaxTokens:   4096,
		Temperature: param.NewOpt(0.7),
		System: []anthropic.TextBlockParam{
			{Text: systemPrompt},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(userPrompt)),
		},
	}

	message, err := c.callWithRetry(ctx, params)
	if err != nil {
		return nil, err
	}

	var responseText string
	for _, block := range message.Content {
		if block.Type == "text" {
			responseText = block.Text
			break
		}
	}

	if responseText == "" {
		return nil, fmt.Errorf("no text content in API response")
	}

	return &LLMResponse{
		Content:      responseText,
		PromptTokens: int(message.Usage.InputTokens),
		OutputTokens: int(message.Usage.OutputTokens),
	}, nil
}

func (c *APIClient) callWithRetry(ctx context.Context, params anthropic.MessageNewParams) (*anthropic.Message, error) {
	var lastErr error
	for attempt := 0; attempt < 2; attempt++ {
		if attempt > 0 {
			sleepDuration := time.Duration(1<<uint(attempt)) * time.Second
			log.Printf("Retrying Anthropic API call in %v (attempt %d)", sleepDuration, attempt+1)
			time.Sleep(sleepDuration)
		}

		message, err := c.client.Messages.New(ctx, params)
		if err == nil {
			return message, nil
		}
		lastErr = err
		log.Printf("Anthropic API attempt %d failed: %v", attempt+1, err)
	}
	return nil, fmt.Errorf("anthropic API failed after retries: %w", lastErr)
}

// ── MockClient — Local Development ─────────────────────────

type MockClient struct{}

func NewMockClient() *MockClient {
	return &MockClient{}
}

func (m *MockClient) Generate(ctx context.Context, systemPrompt string, userPrompt string) (*LLMResponse, error) {
	var mockJSON string
	if strings.Contains(userPrompt, "safety information cards") {
		mockJSON = buildMockSafetyJSON()
	} else {
		mockJSON = buildMockQuizJSON()
	}
	return &LLMResponse{
		Content:      mockJSON,
		PromptTokens: 800,
		OutputTokens: 1200,
	}, nil
}

func buildMockQuizJSON() string {
	topics := []string{
		"evacuation routes", "emergency supplies", "hazard recognition",
		"communication plans", "first aid basics",
	}

	questions := "["
	for i := 0; i < 5; i++ {
		topic := topics[i%len(topics)]
		if i > 0 {
			questions += ","
		}

		options := "["
		for j := 0; j < 4; j++ {
			if j > 0 {
				options += ","
			}
			isCorrect := j == i%4
			options += fmt.Sprintf(`{"text":"[Mock] Option %d describing a response involving %s with enough detail to read naturally.","is_correct":%t}`,
				j+1, topic, isCorrect)
		}
		options += "]"

		questions += fmt.Sprintf(`{"question_text":"[Mock] During a drill, what is the recommended first action concerning %s?","options":%s,"explanation":"[Mock] The correct choice follows standard guidance on %s."}`,
			topic, options, topic)
	}
	questions += "]"

	return fmt.Sprintf(`{"questions":%s}`, questions)
}

func buildMockSafetyJSON() string {
	return `{"cards":[` +
		`{"title":"[Mock] Before the Event","points":["Prepare an emergency kit with water and supplies.","Know your evacuation routes.","Agree on a family meeting point."]},` +
		`{"title":"[Mock] During the Event","points":["Stay calm and follow official instructions.","Move away from hazards immediately.","Keep your phone charged for alerts."]},` +
		`{"title":"[Mock] After the Event","points":["Check for injuries before moving.","Avoid damaged structures.","Listen to local authorities for the all-clear."]}]}`
}
