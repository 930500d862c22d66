// Package brief includes all routes and functionality for the news brief proxy
package brief

import (
	"encoding/json"
	"errors"
	"net/http"

	"newsbrief-api/internal/shared"
)

const (
	IntentRaw       = "raw"
	IntentFetch     = "fetch"
	IntentSummarize = "summarize"
)

const (
	fetchSystemInstruction = "You are a sharp, neutral financial news editor. " +
		"Use real-time search results to report only current, verifiable stories from reputable outlets. " +
		"Respond with a numbered list, one line of context per story."

	fetchUserQuery = "What are the top 5 finance and business news stories right now? " +
		"Give each story's headline and a one-sentence summary."

	summarizeSystemInstruction = "You are an editor. Summarize the provided text in a single paragraph " +
		"of at most 60 words. Use plain language, no jargon. " +
		"Do not include a title, headings, or citations."
)

// rawForward mirrors the upstream payload shape without re-typing it, so a
// caller-supplied prebuilt payload passes through with its fields intact.
type rawForward struct {
	Contents          json.RawMessage `json:"contents"`
	SystemInstruction json.RawMessage `json:"systemInstruction,omitempty"`
	Tools             json.RawMessage `json:"tools,omitempty"`
}

// Translate validates an inbound request and produces the generateContent
// body to send upstream. It is a pure transform: same input, same payload,
// and no network side effects on any path.
func Translate(method string, body []byte) ([]byte, string, *shared.RequestError) {
	if method != http.MethodPost {
		return nil, "", shared.ErrMethodNotAllowed
	}

	var req shared.BriefRequest
	if err := json.Unmarshal(body, &req); err != nil {
		return nil, "", &shared.RequestError{StatusCode: 400, Err: errors.New("request body is not valid JSON")}
	}

	// Prebuilt payload passthrough
	if len(req.Contents) > 0 {
		var contents []json.RawMessage
		if err := json.Unmarshal(req.Contents, &contents); err != nil || len(contents) == 0 {
			return nil, "", &shared.RequestError{StatusCode: 400, Err: errors.New("contents must be a non-empty array")}
		}
		payload, err := json.Marshal(rawForward{
			Contents:          req.Contents,
			SystemInstruction: req.SystemInstruction,
			Tools:             req.Tools,
		})
		if err != nil {
			return nil, "", &shared.RequestError{StatusCode: 400, Err: errors.New("failed building payload")}
		}
		return payload, IntentRaw, nil
	}

	switch req.Type {
	case IntentFetch:
		payload, err := json.Marshal(shared.GeminiPayload{
			Contents: []shared.GeminiContent{
				{Role: "user", Parts: []shared.GeminiPart{{Text: fetchUserQuery}}},
			},
			SystemInstruction: &shared.GeminiContent{
				Parts: []shared.GeminiPart{{Text: fetchSystemInstruction}},
			},
			Tools: []shared.GeminiTool{{GoogleSearch: &struct{}{}}},
		})
		if err != nil {
			return nil, "", &shared.RequestError{StatusCode: 400, Err: errors.New("failed building payload")}
		}
		return payload, IntentFetch, nil

	case IntentSummarize:
		if req.TextToSummarize == "" {
			return nil, "", &shared.RequestError{StatusCode: 400, Err: errors.New("summarize requires textToSummarize")}
		}
		payload, err := json.Marshal(shared.GeminiPayload{
			Contents: []shared.GeminiContent{
				{Role: "user", Parts: []shared.GeminiPart{{Text: req.TextToSummarize}}},
			},
			SystemInstruction: &shared.GeminiContent{
				Parts: []shared.GeminiPart{{Text: summarizeSystemInstruction}},
			},
		})
		if err != nil {
			return nil, "", &shared.RequestError{StatusCode: 400, Err: errors.New("failed building payload")}
		}
		return payload, IntentSummarize, nil
	}

	return nil, "", &shared.RequestError{StatusCode: 400, Err: errors.New("unrecognized request type")}
}
