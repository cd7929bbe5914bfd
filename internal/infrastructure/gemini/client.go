package gemini

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/generative-ai-go/genai"
	"github.com/yourusername/retail-insights-bot/internal/domain/repository"
	"google.golang.org/api/option"
)

type geminiClient struct {
	client *genai.Client
	model  *genai.GenerativeModel
	sem    chan struct{}
	mu     sync.Mutex
	last   time.Time
	delay  time.Duration
}

// NewGeminiClient builds the AI insights client.
func NewGeminiClient(apiKey string) (repository.AIRepository, error) {
	ctx := context.Background()
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	model := client.GenerativeModel("gemini-2.0-flash-exp")

	// Low temperature: report answers must stay close to the numbers
	model.SetTemperature(0.3)
	model.SetTopK(20)
	model.SetTopP(0.9)
	model.SetMaxOutputTokens(2048)

	model.SystemInstruction = &genai.Content{
		Parts: []genai.Part{
			genai.Text(`You are a retail inventory analyst. You answer questions about a sales and inventory dataset.

RULES:
1. Answer ONLY from the dataset report included in the prompt. Never invent products, regions, categories or numbers.
2. Quote figures exactly as they appear in the report. Do not recompute or round differently.
3. If the report does not contain what the user asks for, say so plainly and point to the closest figure it does contain.
4. Keep answers short and concrete: lead with the number, then one or two sentences of context.
5. When asked for recommendations (e.g. what to reorder), base them strictly on the reorder alert rows and stock figures in the report.`),
		},
	}

	return &geminiClient{
		client: client,
		model:  model,
		sem:    make(chan struct{}, 3), // at most 3 in-flight requests
		delay:  350 * time.Millisecond, // minimal interval between calls
	}, nil
}

// GenerateInsights answers a question grounded on the report text.
func (g *geminiClient) GenerateInsights(ctx context.Context, reportContext string, question string) (string, error) {
	release := g.acquire()
	defer release()

	prompt := fmt.Sprintf(`Question: %s

━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━
%s
━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━

Answer the question using only the report above.`, question, reportContext)

	resp, err := g.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("failed to generate response: %w", err)
	}
	if len(resp.Candidates) == 0 {
		return "", fmt.Errorf("no response candidates")
	}

	return extractText(resp), nil
}

func extractText(resp *genai.GenerateContentResponse) string {
	var result strings.Builder
	for _, cand := range resp.Candidates {
		if cand.Content != nil {
			for _, part := range cand.Content.Parts {
				result.WriteString(fmt.Sprintf("%v", part))
			}
		}
	}
	return result.String()
}

func (g *geminiClient) acquire() func() {
	g.sem <- struct{}{}
	g.mu.Lock()
	defer g.mu.Unlock()

	now := time.Now()
	if g.last.IsZero() {
		g.last = now
	} else {
		if sleep := g.delay - now.Sub(g.last); sleep > 0 {
			time.Sleep(sleep)
			now = time.Now()
		}
		g.last = now
	}

	return func() {
		<-g.sem
	}
}

// Close releases the underlying client.
func (g *geminiClient) Close() error {
	return g.client.Close()
}
