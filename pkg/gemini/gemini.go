// Package gemini implements the chat completion boundary against the
// Gemini generateContent REST API.
package gemini

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

const defaultBaseUrl = "https://generativelanguage.googleapis.com"

type Client struct {
	http   *resty.Client
	apiKey string
	model  string
}

func NewClient(baseUrl, apiKey, model string) *Client {
	if baseUrl == "" {
		baseUrl = defaultBaseUrl
	}
	return &Client{
		http:   resty.New().SetBaseURL(baseUrl).SetTimeout(5 * time.Minute),
		apiKey: apiKey,
		model:  model,
	}
}

type part struct {
	Text string `json:"text"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type generateRequest struct {
	SystemInstruction *content  `json:"system_instruction,omitempty"`
	Contents          []content `json:"contents"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}

// ChatCompletion sends one system+user exchange and returns the reply text.
func (c *Client) ChatCompletion(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	var body generateResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("key", c.apiKey).
		SetBody(generateRequest{
			SystemInstruction: &content{Parts: []part{{Text: systemPrompt}}},
			Contents:          []content{{Role: "user", Parts: []part{{Text: userPrompt}}}},
		}).
		SetResult(&body).
		Post(fmt.Sprintf("/v1beta/models/%s:generateContent", c.model))
	if err != nil {
		return "", err
	}
	if resp.IsError() {
		return "", fmt.Errorf("gemini api status %s: %s", resp.Status(), resp.String())
	}
	if len(body.Candidates) == 0 || len(body.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("gemini returned no candidates")
	}
	return body.Candidates[0].Content.Parts[0].Text, nil
}
