// Package game keeps a voice conversation in step with the remote blackjack
// game service: which actions are legal now, and what the service last said.
package game

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"

	"blackjack-tutor/server/apperr"
)

// Session is the game state the service returned, kept alongside the exact
// bytes it arrived as. The raw form is what goes back into the voice
// session's attributes.
type Session struct {
	UserID          string          `json:"userID"`
	PossibleActions []string        `json:"possibleActions"`
	Raw             json.RawMessage `json:"-"`
}

var errNoUserID = errors.New("game state has no userID")

// DecodeSession parses a game state blob. The blob must be a JSON object
// carrying a userID.
func DecodeSession(raw []byte) (*Session, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '{' {
		return nil, errors.New("game state is not a JSON object")
	}
	var s Session
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, err
	}
	if strings.TrimSpace(s.UserID) == "" {
		return nil, errNoUserID
	}
	s.Raw = append(json.RawMessage(nil), raw...)
	return &s, nil
}

// Lookup returns the legal action matching the spoken one, ignoring case.
func (s *Session) Lookup(action string) (string, bool) {
	action = strings.TrimSpace(action)
	for _, a := range s.PossibleActions {
		if strings.EqualFold(a, action) {
			return a, true
		}
	}
	return "", false
}

// Validate checks the spoken action against the current legal actions and
// returns the service's spelling of it.
func (s *Session) Validate(action string) (string, error) {
	if strings.TrimSpace(action) == "" {
		return "", apperr.Validationf(apperr.CodeMissingAction,
			"I'm sorry, I didn't catch that action. Please say what you want to do on this hand like hit or stand. What else can I help with?")
	}
	canonical, ok := s.Lookup(action)
	if !ok {
		return "", apperr.Validationf(apperr.CodeIllegalAction,
			"I'm sorry, "+strings.TrimSpace(action)+" is not a valid action at this time. What else can I help with?")
	}
	return canonical, nil
}
