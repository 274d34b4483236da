package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	openai "github.com/sashabaranov/go-openai"

	"fixif/internal/cache"
	apperrors "fixif/internal/errors"
	"fixif/internal/model"
)

const diagnosisCacheTTL = 10 * time.Minute

// systemInstructions is the fixed system prompt sent with every diagnosis
// request. The model is contractually required to answer with a single JSON
// object; the JSON-mode response format backs that up.
const systemInstructions = `
You are an expert automotive diagnostic AI that assists a repair shop service advisor.

Your job:
- Turn raw customer and vehicle data into a clear, structured PRELIMINARY diagnosis.
- Write in clear, non-scary language but do NOT hide serious safety issues.
- Assume this is for a workshop in the Philippines.

INPUT:
You will receive a single JSON object:
{
  "customer": {...},
  "vehicle": {...},
  "complaint": {...},
  "preferences": {...}
}

OUTPUT:
Return ONLY valid JSON (no markdown, no extra text) in this exact structure:

{
  "summary": "Short summary for the repair order in 1-3 sentences.",
  "probableCauses": [
    {
      "title": "Short cause name",
      "likelihood": "high | medium | low",
      "explanation": "1-3 sentence explanation in layman's terms"
    }
  ],
  "immediateChecks": [
    "Short checklist item for quick checks or safe DIY tips"
  ],
  "recommendedActions": [
    "Recommended workshop-level diagnostic or repair actions, in order"
  ],
  "safetyNotes": [
    "Specific safety warnings or notes if the car may be unsafe to drive"
  ],
  "partsNeeded": [
    {
      "partName": "Likely part or assembly (e.g. 'front brake pads', 'radiator cap')",
      "oemOrAftermarket": "OEM | aftermarket ok | unspecified",
      "urgency": "required before releasing vehicle | recommended soon | optional",
      "notes": "Important notes (e.g. 'replace in pairs', 'requires fluid flush', 'special tools needed')"
    }
  ]
}

Rules:
- Include 2-6 probableCauses when possible.
- Include 3-8 recommendedActions when possible.
- If uncertain about exact parts, list generic components and clearly say that final confirmation requires physical inspection.
- Respect any preferences.tone, preferences.detailLevel, and preferences.language if provided.
`

// DiagnosisService forwards a validated vehicle intake to the LLM provider
// and returns its structured reply.
type DiagnosisService interface {
	Diagnose(ctx context.Context, userID string, req *model.DiagnoseRequest) (*model.DiagnosisResult, error)
}

type diagnosisService struct {
	client *openai.Client // nil when no provider credential is configured
	model  string
	cache  *cache.Client
}

// NewDiagnosisService creates a diagnosis service. A nil client puts the
// service in degraded mode: every call fails with ErrProviderKeyMissing.
func NewDiagnosisService(client *openai.Client, modelName string, cache *cache.Client) DiagnosisService {
	return &diagnosisService{
		client: client,
		model:  modelName,
		cache:  cache,
	}
}

// Diagnose validates the intake, asks the provider for a report and maps
// the reply. A provider answer that is not valid JSON is recovered locally:
// the caller gets the raw text plus a warning instead of an error.
func (s *diagnosisService) Diagnose(ctx context.Context, userID string, req *model.DiagnoseRequest) (*model.DiagnosisResult, error) {
	if req == nil || strings.TrimSpace(req.Complaint.Symptoms) == "" {
		return nil, apperrors.ErrMissingSymptoms
	}
	if s.client == nil {
		return nil, apperrors.ErrProviderKeyMissing
	}

	payload := s.normalize(userID, req)

	result := &model.DiagnosisResult{
		Customer:  payload.Customer,
		Vehicle:   payload.Vehicle,
		Complaint: payload.Complaint,
	}

	// Identical vehicle/complaint/preference intakes within the TTL reuse
	// the previous report. Customer contact data is not part of the key.
	key, ok := s.cacheKey(payload)
	if ok {
		var cachedAI json.RawMessage
		if s.cache.GetJSON(ctx, key, &cachedAI) {
			result.AI = cachedAI
			result.Meta = &model.DiagnosisMeta{Model: s.model, CreatedAt: time.Now().UTC()}
			return result, nil
		}
	}

	rawText, err := s.complete(ctx, payload)
	if err != nil {
		return nil, err
	}

	if !json.Valid([]byte(rawText)) {
		log.Warn().Str("raw", rawText).Msg("provider reply is not valid JSON")
		result.AI = nil
		result.RawText = rawText
		result.Warning = "AI did not return valid JSON. Check rawText and/or tighten the instructions."
		return result, nil
	}

	result.AI = json.RawMessage(rawText)
	result.Meta = &model.DiagnosisMeta{Model: s.model, CreatedAt: time.Now().UTC()}
	if ok {
		s.cache.SetJSON(ctx, key, result.AI, diagnosisCacheTTL)
	}
	return result, nil
}

// normalize applies the preference defaults and stamps the requesting user.
func (s *diagnosisService) normalize(userID string, req *model.DiagnoseRequest) *model.IntakePayload {
	prefs := req.Preferences
	if prefs.Tone == "" {
		prefs.Tone = "friendly, professional automotive service advisor"
	}
	if prefs.DetailLevel == "" {
		prefs.DetailLevel = "normal"
	}
	if prefs.Language == "" {
		prefs.Language = "English"
	}

	return &model.IntakePayload{
		Customer:    req.Customer,
		Vehicle:     req.Vehicle,
		Complaint:   req.Complaint,
		Preferences: prefs,
		UserID:      userID,
	}
}

// complete runs the chat completion and returns the trimmed reply text.
func (s *diagnosisService) complete(ctx context.Context, payload *model.IntakePayload) (string, error) {
	intakeJSON, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal intake payload: %w", err)
	}

	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: s.model,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: systemInstructions,
			},
			{
				Role: openai.ChatMessageRoleUser,
				Content: "Here is the intake payload as JSON. " +
					"Generate ONLY the diagnosis JSON object as specified in the instructions (no extra text).\n\n" +
					string(intakeJSON),
			},
		},
	})
	if err != nil {
		return "", mapProviderError(err)
	}

	if len(resp.Choices) == 0 {
		log.Error().Msg("provider returned no choices")
		return "", apperrors.ErrEmptyCompletion
	}
	rawText := strings.TrimSpace(resp.Choices[0].Message.Content)
	if rawText == "" {
		log.Error().Msg("provider returned empty completion content")
		return "", apperrors.ErrEmptyCompletion
	}
	return rawText, nil
}

// mapProviderError folds provider failures into the domain taxonomy.
// Credential rejections get their own variant so operators can tell a bad
// key apart from a transport problem.
func mapProviderError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		if apiErr.HTTPStatusCode == http.StatusUnauthorized || apiErr.HTTPStatusCode == http.StatusForbidden {
			log.Error().Int("status", apiErr.HTTPStatusCode).Msg("provider rejected credential")
			return apperrors.ErrProviderAuth
		}
		log.Error().Int("status", apiErr.HTTPStatusCode).Str("type", apiErr.Type).Msg("provider call failed")
		return fmt.Errorf("provider call failed: %w", err)
	}
	log.Error().Err(err).Msg("provider transport failure")
	return fmt.Errorf("provider transport failure: %w", err)
}

// cacheKey hashes the non-PII slice of the intake.
func (s *diagnosisService) cacheKey(payload *model.IntakePayload) (string, bool) {
	keyed := struct {
		Vehicle     model.Vehicle     `json:"vehicle"`
		Complaint   model.Complaint   `json:"complaint"`
		Preferences model.Preferences `json:"preferences"`
		Model       string            `json:"model"`
	}{payload.Vehicle, payload.Complaint, payload.Preferences, s.model}

	data, err := json.Marshal(keyed)
	if err != nil {
		return "", false
	}
	sum := sha256.Sum256(data)
	return "diagnosis:" + hex.EncodeToString(sum[:]), true
}
