// Package vision submits satellite snapshots to a vision-capable model
// and turns its free-form output into a structured occupancy judgement.
package vision

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"

	"landscout/types"
)

// Client classifies plot occupancy through the OpenAI vision API.
type Client struct {
	client *openai.Client
	model  string
}

// NewClient creates a vision classifier with the default model.
func NewClient(apiKey string) *Client {
	return &Client{
		client: openai.NewClient(apiKey),
		model:  openai.GPT4o,
	}
}

// ClassifyOccupancy sends the image plus plot metadata to the model and
// parses the reply. Transport failures and empty replies return an error;
// the caller decides how that degrades.
func (c *Client) ClassifyOccupancy(ctx context.Context, image []byte, details types.PlotDetails) (types.OccupancyJudgement, error) {
	imageURL := "data:image/png;base64," + base64.StdEncoding.EncodeToString(image)

	resp, err := c.client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{
			Model: c.model,
			Messages: []openai.ChatCompletionMessage{
				{
					Role:    openai.ChatMessageRoleSystem,
					Content: "You are an assistant specializing in analyzing satellite imagery of land plots for construction planning.",
				},
				{
					Role: openai.ChatMessageRoleUser,
					MultiContent: []openai.ChatMessagePart{
						{
							Type: openai.ChatMessagePartTypeImageURL,
							ImageURL: &openai.ChatMessageImageURL{
								URL:    imageURL,
								Detail: openai.ImageURLDetailHigh,
							},
						},
						{
							Type: openai.ChatMessagePartTypeText,
							Text: buildPrompt(details),
						},
					},
				},
			},
			MaxTokens:   1024,
			Temperature: 0.2,
		},
	)
	if err != nil {
		return types.OccupancyJudgement{}, fmt.Errorf("vision chat completion: %w", err)
	}

	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return types.OccupancyJudgement{}, fmt.Errorf("vision model returned empty response")
	}

	return ParseJudgement(resp.Choices[0].Message.Content), nil
}

// buildPrompt asks for a structured judgement, with the registry metadata
// as context.
func buildPrompt(details types.PlotDetails) string {
	var b strings.Builder

	b.WriteString("Analyze this satellite image of a land plot.\n\n")
	b.WriteString("Plot information:\n")
	fmt.Fprintf(&b, "- Cadastral number: %s\n", details.CadastralNumber)
	fmt.Fprintf(&b, "- Area: %.0f %s\n", details.Area, details.AreaUnit)
	fmt.Fprintf(&b, "- Land category: %s\n", details.Category)
	fmt.Fprintf(&b, "- Permitted use: %s\n", details.PermittedUse)
	fmt.Fprintf(&b, "- Address: %s\n", details.Address)

	b.WriteString(`
Answer the following:

1. Occupancy: are there buildings or structures on the plot?
2. Confidence: how certain are you? (high/medium/low)
3. Description: what is visible - landscape, structures, roads, vegetation.
4. Building detection: are clear building outlines visible?
5. Vegetation: what is the vegetation level? (dense/moderate/sparse/none)
6. Development suitability: does the plot look clear for multi-story construction?
7. Recommendations: what additional checks are needed?

Respond with a single JSON object using exactly these keys:
- is_occupied (boolean)
- confidence (string: "high"/"medium"/"low")
- description (string)
- buildings_detected (boolean)
- vegetation_level (string)
- suitable_for_development (boolean)
- recommendations (string)
`)

	return b.String()
}
