// Package shared
package shared

import "encoding/json"

// ErrorResponse is the envelope returned to the caller on every failure
// path. Details carries the last upstream failure message when retries are
// exhausted and is omitted otherwise.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// GeminiPart is a single piece of content inside a Gemini message.
type GeminiPart struct {
	Text string `json:"text"`
}

// GeminiContent is one message in the generateContent wire format.
type GeminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []GeminiPart `json:"parts"`
}

// GeminiTool activates a server-side capability on the upstream model.
// GoogleSearch enables real-time grounding for the request.
type GeminiTool struct {
	GoogleSearch *struct{} `json:"google_search,omitempty"`
}

// GeminiPayload is the request body sent to :generateContent. Contents is
// always present; SystemInstruction and Tools are attached only when the
// intent calls for them.
type GeminiPayload struct {
	Contents          []GeminiContent `json:"contents"`
	SystemInstruction *GeminiContent  `json:"systemInstruction,omitempty"`
	Tools             []GeminiTool    `json:"tools,omitempty"`
}

// BriefRequest is the inbound body. Either Contents is set (prebuilt
// payload forwarded as-is) or Type selects a canned intent.
type BriefRequest struct {
	Type              string          `json:"type,omitempty"`
	TextToSummarize   string          `json:"textToSummarize,omitempty"`
	Contents          json.RawMessage `json:"contents,omitempty"`
	SystemInstruction json.RawMessage `json:"systemInstruction,omitempty"`
	Tools             json.RawMessage `json:"tools,omitempty"`
}
