/*
Package ai provides functionality to interact with the Gemini AI API and summarize
KAP disclosures.
*/
package ai

import (
	"context"
	"encoding/json"
	"fmt"

	"google.golang.org/genai"
)

type Observation struct {
	Category string `json:"category"`
	Details  string `json:"details"`
}

type Analysis struct {
	Summary   []string      `json:"summary"`
	KeyPoints []Observation `json:"key_points"`
}

// GenerateSummary asks Gemini for a structured summary of one disclosure.
// documentURLs are the detail PDF and attachment links the model may open.
func GenerateSummary(ctx context.Context, code string, text string, documentURLs []string, apiKey string, modelName string) (*Analysis, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	contents := []*genai.Content{
		genai.NewContentFromText(buildUserPrompt(code, text, documentURLs), genai.RoleUser),
	}

	resp, err := client.Models.GenerateContent(ctx, modelName, contents, &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(systemInstruction, genai.RoleUser),
		ResponseMIMEType:  "application/json",
		ResponseSchema:    getResponseSchema(),
		Tools: []*genai.Tool{
			{
				URLContext:   &genai.URLContext{},
				GoogleSearch: &genai.GoogleSearch{},
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("gemini API call failed: %w", err)
	}

	return parseAnalysis(resp.Text())
}

func parseAnalysis(respText string) (*Analysis, error) {
	var analysis Analysis
	if err := json.Unmarshal([]byte(respText), &analysis); err != nil {
		return nil, fmt.Errorf("failed to unmarshal gemini JSON response: %w. Raw text: %s", err, respText)
	}
	return &analysis, nil
}

func getResponseSchema() *genai.Schema {
	observationSchema := &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"category": {Type: genai.TypeString, Description: "One of the defined disclosure categories."},
			"details":  {Type: genai.TypeString, Description: "Specific figures, dates or terms from the disclosure."},
		},
		Required: []string{"category", "details"},
	}

	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"summary": {
				Type:        genai.TypeArray,
				Items:       &genai.Schema{Type: genai.TypeString},
				Description: "A list of 2-4 concise bullet points summarizing the disclosure in English.",
			},
			"key_points": {
				Type:        genai.TypeArray,
				Items:       observationSchema,
				Description: "A list of specific, actionable observations.",
			},
		},
		Required: []string{"summary", "key_points"},
	}
}
