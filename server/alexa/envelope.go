// Package alexa is the voice platform's webhook envelope plus a small
// dispatcher that routes each turn to a Skill.
package alexa

import (
	"bytes"
	"encoding/json"
	"strings"
)

const Version = "1.0"

const (
	LaunchRequest       = "LaunchRequest"
	IntentRequest       = "IntentRequest"
	SessionEndedRequest = "SessionEndedRequest"
)

// RequestEnvelope is the body the platform posts for every turn.
type RequestEnvelope struct {
	Version string  `json:"version"`
	Session Session `json:"session"`
	Request Request `json:"request"`
}

type Session struct {
	New         bool            `json:"new"`
	SessionID   string          `json:"sessionId"`
	Application Application     `json:"application"`
	Attributes  json.RawMessage `json:"attributes,omitempty"`
	User        User            `json:"user"`
}

type Application struct {
	ApplicationID string `json:"applicationId"`
}

type User struct {
	UserID string `json:"userId"`
}

type Request struct {
	Type      string  `json:"type"`
	RequestID string  `json:"requestId"`
	Timestamp string  `json:"timestamp"`
	Locale    string  `json:"locale,omitempty"`
	Intent    *Intent `json:"intent,omitempty"`
	Reason    string  `json:"reason,omitempty"`
}

type Intent struct {
	Name  string          `json:"name"`
	Slots map[string]Slot `json:"slots,omitempty"`
}

type Slot struct {
	Name  string `json:"name"`
	Value string `json:"value,omitempty"`
}

// SlotValue returns the trimmed value of a slot, or "" when it was not filled.
func (i *Intent) SlotValue(name string) string {
	if i == nil {
		return ""
	}
	return strings.TrimSpace(i.Slots[name].Value)
}

// hasAttributes reports whether the platform sent usable session attributes.
func hasAttributes(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	return len(raw) > 0 && !bytes.Equal(raw, []byte("null")) && !bytes.Equal(raw, []byte("{}"))
}

// ResponseEnvelope is what the webhook answers with.
type ResponseEnvelope struct {
	Version           string          `json:"version"`
	SessionAttributes json.RawMessage `json:"sessionAttributes,omitempty"`
	Response          Response        `json:"response"`
}

type Response struct {
	OutputSpeech     *OutputSpeech `json:"outputSpeech,omitempty"`
	Card             *Card         `json:"card,omitempty"`
	Reprompt         *Reprompt     `json:"reprompt,omitempty"`
	ShouldEndSession bool          `json:"shouldEndSession"`
}

type OutputSpeech struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type Card struct {
	Type    string `json:"type"`
	Title   string `json:"title"`
	Content string `json:"content"`
}

type Reprompt struct {
	OutputSpeech OutputSpeech `json:"outputSpeech"`
}
