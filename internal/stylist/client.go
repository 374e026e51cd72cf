// Package stylist talks to the Gemini generateContent API over plain HTTP.
//
// There is no official Go SDK dependency here: the two calls we make
// (schema-constrained text generation and inline image analysis) are a
// single endpoint with typed JSON bodies, and owning the request structs
// keeps the error mapping in our hands. Quota exhaustion in particular
// must surface as apperror.ErrQuota so the handler can return 429 with a
// friendly message instead of a generic failure.
package stylist

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/OfirNeeman/ai-stylist/internal/apperror"
	"github.com/OfirNeeman/ai-stylist/internal/model"
)

// Client calls the Gemini generateContent endpoint. It implements
// service.ModelClient.
type Client struct {
	baseURL string
	apiKey  string
	model   string
	http    *http.Client
	logger  *slog.Logger
}

// NewClient creates a Gemini client. baseURL is the API root without a
// trailing slash, e.g. https://generativelanguage.googleapis.com; tests
// point it at an httptest server.
func NewClient(baseURL, apiKey, modelName string, logger *slog.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		model:   modelName,
		http:    &http.Client{Timeout: 60 * time.Second},
		logger:  logger,
	}
}

// ---------------------------------------------------------------------
// Wire types for the generateContent endpoint.
// ---------------------------------------------------------------------

type generateRequest struct {
	Contents         []content       `json:"contents"`
	GenerationConfig *generateConfig `json:"generationConfig,omitempty"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text       string      `json:"text,omitempty"`
	InlineData *inlineData `json:"inlineData,omitempty"`
}

type inlineData struct {
	MimeType string `json:"mimeType"`
	Data     string `json:"data"` // base64
}

type generateConfig struct {
	ResponseMIMEType string          `json:"responseMimeType,omitempty"`
	ResponseSchema   json.RawMessage `json:"responseSchema,omitempty"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
	Error *apiError `json:"error,omitempty"`
}

type apiError struct {
	Code    int    `json:"code"`
	Status  string `json:"status"`
	Message string `json:"message"`
}

// recommendationSchema constrains the model output to the exact JSON
// shape of model.StyleRecommendation. Keeping it as a literal mirrors
// what the endpoint accepts and avoids a schema-builder dependency.
var recommendationSchema = json.RawMessage(`{
  "type": "OBJECT",
  "properties": {
    "colorPalette": {
      "type": "OBJECT",
      "properties": {
        "name": {"type": "STRING"},
        "description": {"type": "STRING"},
        "hexCodes": {"type": "ARRAY", "items": {"type": "STRING"}}
      }
    },
    "styleAdvice": {"type": "STRING"},
    "recommendedItems": {
      "type": "ARRAY",
      "items": {
        "type": "OBJECT",
        "properties": {
          "name": {"type": "STRING"},
          "description": {"type": "STRING"},
          "price": {"type": "NUMBER"},
          "category": {"type": "STRING"},
          "imageUrl": {"type": "STRING"}
        }
      }
    }
  }
}`)

// Recommend asks the model for a palette, advice, and shoppable items
// matching the profile, clothing type, and budget ceiling.
func (c *Client) Recommend(ctx context.Context, profile *model.UserProfile, budget float64, clothingType string) (*model.StyleRecommendation, error) {
	prompt := buildRecommendPrompt(profile, budget, clothingType)

	req := generateRequest{
		Contents: []content{{Parts: []part{{Text: prompt}}}},
		GenerationConfig: &generateConfig{
			ResponseMIMEType: "application/json",
			ResponseSchema:   recommendationSchema,
		},
	}

	text, err := c.generate(ctx, req)
	if err != nil {
		return nil, err
	}

	var rec model.StyleRecommendation
	if err := json.Unmarshal([]byte(text), &rec); err != nil {
		c.logger.Warn("recommendation output is not valid JSON", slog.String("error", err.Error()))
		return nil, apperror.AnalysisFailed("model returned malformed recommendation")
	}
	if err := rec.Validate(); err != nil {
		c.logger.Warn("recommendation failed validation", slog.String("error", err.Error()))
		return nil, apperror.AnalysisFailed("model returned incomplete recommendation")
	}
	return &rec, nil
}

// analyzedProfile is the looser shape the vision prompt asks for. The
// body shape comes back as a casual label and is normalized afterwards.
type analyzedProfile struct {
	BodyShape string `json:"bodyShape"`
	HairColor string `json:"hairColor"`
	SkinTone  string `json:"skinTone"`
	EyeColor  string `json:"eyeColor"`
	Aesthetic string `json:"aesthetic"`
}

// AnalyzeImage derives a style profile from a full-body photo.
func (c *Client) AnalyzeImage(ctx context.Context, data []byte, mimeType string) (*model.UserProfile, error) {
	req := generateRequest{
		Contents: []content{{Parts: []part{
			{Text: analyzeImagePrompt},
			{InlineData: &inlineData{
				MimeType: mimeType,
				Data:     base64.StdEncoding.EncodeToString(data),
			}},
		}}},
	}

	text, err := c.generate(ctx, req)
	if err != nil {
		return nil, err
	}

	var raw analyzedProfile
	if err := json.Unmarshal([]byte(stripFences(text)), &raw); err != nil {
		c.logger.Warn("image analysis output is not valid JSON", slog.String("error", err.Error()))
		return nil, apperror.AnalysisFailed("Failed to analyze image")
	}

	profile := &model.UserProfile{
		Aesthetic: model.Aesthetic(raw.Aesthetic),
		BodyShape: model.NormalizeBodyShape(raw.BodyShape),
		HairColor: raw.HairColor,
		SkinTone:  raw.SkinTone,
		EyeColor:  raw.EyeColor,
	}
	if !profile.Aesthetic.Valid() {
		// The model sometimes invents aesthetics; fall back to the most
		// broadly applicable one rather than failing the whole analysis.
		profile.Aesthetic = model.AestheticMinimalist
	}
	return profile, nil
}

// generate performs one generateContent call and returns the text of the
// first candidate part.
func (c *Client) generate(ctx context.Context, req generateRequest) (string, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("stylist: encoding request: %w", err)
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent", c.baseURL, c.model)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("stylist: building request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-goog-api-key", c.apiKey)

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("stylist: calling model: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("stylist: reading response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", c.mapAPIError(resp.StatusCode, body)
	}

	var out generateResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return "", fmt.Errorf("stylist: decoding response: %w", err)
	}
	if len(out.Candidates) == 0 || len(out.Candidates[0].Content.Parts) == 0 {
		return "", apperror.AnalysisFailed("model returned no candidates")
	}
	return strings.TrimSpace(out.Candidates[0].Content.Parts[0].Text), nil
}

// mapAPIError turns a non-200 response into a domain error. Quota
// exhaustion is the one case callers branch on; everything else is an
// analysis failure.
func (c *Client) mapAPIError(status int, body []byte) error {
	var wrapped struct {
		Error apiError `json:"error"`
	}
	_ = json.Unmarshal(body, &wrapped)

	c.logger.Error("model API error",
		slog.Int("status", status),
		slog.String("api_status", wrapped.Error.Status),
		slog.String("message", wrapped.Error.Message),
	)

	if status == http.StatusTooManyRequests || wrapped.Error.Status == "RESOURCE_EXHAUSTED" {
		return apperror.QuotaExceeded("API quota exceeded. Please check your plan and billing details, or try again later.")
	}
	return apperror.AnalysisFailed(fmt.Sprintf("model request failed with status %d", status))
}

// stripFences removes markdown code fences the model wraps around JSON
// when no response schema is in force.
func stripFences(s string) string {
	s = strings.ReplaceAll(s, "```json", "")
	s = strings.ReplaceAll(s, "```", "")
	return strings.TrimSpace(s)
}

const analyzeImagePrompt = `Analyze this full-body photo for a fashion app.
Return a JSON object with the following fields:
- bodyShape (string: 'lean', 'curvy', 'athletic', 'broad')
- hairColor (string)
- skinTone (string)
- eyeColor (string)
- aesthetic (string: one of 'Minimalist', 'Vintage', 'Bohemian', 'Streetwear', 'Preppy', 'Grunge', 'Arty' that best matches the outfit in the photo)

Return ONLY the JSON.`

// buildRecommendPrompt interpolates the profile and filters into the
// stylist prompt. The schema does the structural enforcement; the prompt
// carries the taste.
func buildRecommendPrompt(profile *model.UserProfile, budget float64, clothingType string) string {
	var sb strings.Builder
	sb.WriteString("Act as a world-class AI fashion stylist. Based on the user's profile, generate personalized style recommendations.\n")
	fmt.Fprintf(&sb, "The user wants recommendations for a %q with a maximum budget of $%.0f.\n\n", clothingType, budget)
	sb.WriteString("User Profile:\n")
	fmt.Fprintf(&sb, "- Aesthetic: %s\n", profile.Aesthetic)
	fmt.Fprintf(&sb, "- Body Shape: %s\n", profile.BodyShape)
	fmt.Fprintf(&sb, "- Hair Color: %s\n", profile.HairColor)
	fmt.Fprintf(&sb, "- Skin Tone: %s\n", profile.SkinTone)
	fmt.Fprintf(&sb, "- Eye Color: %s\n\n", profile.EyeColor)
	sb.WriteString("Your response must be a JSON object that strictly follows the provided schema.\n\n")
	sb.WriteString("Tasks:\n")
	sb.WriteString("1. Color Palette: based on the user's features (hair, skin, eyes), recommend a harmonious color palette with a name (e.g. 'Warm Autumn'), a description, and an array of 5-7 hex codes.\n")
	sb.WriteString("2. Style Advice: provide a paragraph of actionable style advice tailored to the user's body shape and aesthetic.\n")
	fmt.Fprintf(&sb, "3. Recommended Items: suggest 3 distinct, fictional clothing items of the type %q that fit the user's profile and are under the $%.0f budget. For each item, provide a name, category, price, a compelling description, and a realistic image URL from 'https://picsum.photos/seed/{some_unique_seed}/400/600'.\n", clothingType, budget)
	return sb.String()
}
