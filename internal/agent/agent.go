package agent

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"licensing-map/internal/catalog"
	"licensing-map/internal/logging"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

const (
	// DefaultModel is used when no model name is configured.
	DefaultModel = "gemini-2.5-flash"

	// Greeting opens every conversation.
	Greeting = "Hello! I'm your M365 Licensing Specialist. Need help picking a plan for your business? Ask me anything!"
	// NoAnswer is returned when the model answers with no text.
	NoAnswer = "I'm sorry, I couldn't process that request."
	// Unavailable is returned for every failure to reach the model.
	Unavailable = "The AI assistant is currently unavailable. Please check your network or try again later."

	defaultContext = "General M365 Licensing"
	temperature    = 0.7
)

const systemPrompt = `You are an expert Microsoft 365 Licensing Consultant.
Your goal is to help users understand the complex landscape of M365 plans (E3, E5, Business Premium, F3, etc.).
Be concise, accurate, and focus on value-for-money and security requirements.
If you are unsure about pricing, mention it is estimated and can change.
Suggest the most cost-effective plan based on their needs.
Keep responses in clear Markdown format.`

var errNoCandidates = errors.New("no response candidates")

// textGenerator turns a prompt into model text.
type textGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Agent wraps the Gemini client and model used for licensing questions.
type Agent struct {
	client *genai.Client
	gen    textGenerator
}

// NewAgent initializes the Gemini client. If the API key is empty, the
// caller receives a nil Agent and no error; a nil Agent answers every
// question with Unavailable.
func NewAgent(ctx context.Context, apiKey, modelName string) (*Agent, error) {
	if apiKey == "" {
		return nil, nil
	}
	if modelName == "" {
		modelName = DefaultModel
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}

	model := client.GenerativeModel(modelName)
	model.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(systemPrompt)}}
	model.SetTemperature(temperature)

	return &Agent{client: client, gen: &geminiGenerator{model: model}}, nil
}

// Close releases underlying resources.
func (a *Agent) Close() {
	if a == nil || a.client == nil {
		return
	}
	if err := a.client.Close(); err != nil {
		log.Printf("warning: failed to close Gemini client: %v", err)
	}
}

// Ask sends the question with the plan context and returns the answer text.
// It never fails: errors degrade to Unavailable and empty answers to NoAnswer.
func (a *Agent) Ask(ctx context.Context, question, planContext string) string {
	if a == nil || a.gen == nil {
		return Unavailable
	}

	text, err := a.gen.Generate(ctx, UserPrompt(question, planContext))
	if err != nil {
		logging.LogKV("error", "gemini request failed", map[string]interface{}{"error": err.Error()})
		return Unavailable
	}
	if strings.TrimSpace(text) == "" {
		return NoAnswer
	}
	return text
}

// UserPrompt builds the user turn sent to the model.
func UserPrompt(question, planContext string) string {
	if planContext == "" {
		planContext = defaultContext
	}
	return fmt.Sprintf("Context about M365 Plans: %s\n\nUser Question: %s", planContext, question)
}

// PlanContext lists the bundles with their monthly USD price.
func PlanContext(bundles []catalog.Bundle) string {
	parts := make([]string, len(bundles))
	for i, b := range bundles {
		parts[i] = fmt.Sprintf("%s at %s", b.Name, b.MonthlyPriceUSD)
	}
	return fmt.Sprintf("The user is looking at Microsoft 365 licensing. Available plans include: %s.", strings.Join(parts, ", "))
}

type geminiGenerator struct {
	model *genai.GenerativeModel
}

func (g *geminiGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := g.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0] == nil || resp.Candidates[0].Content == nil {
		return "", errNoCandidates
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			sb.WriteString(string(text))
		}
	}
	return sb.String(), nil
}
