package dto

import (
	"bytes"
	"encoding/json"

	"github.com/iho/splitledger/internal/domain"
	"github.com/iho/splitledger/internal/usecase"
)

// RawValue keeps a JSON scalar as the text the user typed. Strings are
// unquoted; numbers and other literals keep their JSON text. Set is false
// when the field was missing or null.
type RawValue struct {
	Text string
	Set  bool
}

// UnmarshalJSON implements json.Unmarshaler.
func (v *RawValue) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		return nil
	}

	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		v.Text, v.Set = s, true
		return nil
	}

	v.Text, v.Set = string(data), true
	return nil
}

// CreateSessionRequest represents a request to create a session.
type CreateSessionRequest struct {
	Seed *bool `json:"seed,omitempty"`
}

// ToUseCaseInput converts to use case input. defaultSeed applies when the
// request does not say.
func (r *CreateSessionRequest) ToUseCaseInput(defaultSeed bool) usecase.CreateSessionInput {
	seed := defaultSeed
	if r.Seed != nil {
		seed = *r.Seed
	}
	return usecase.CreateSessionInput{Seed: seed}
}

// AddEntryRequest represents a request to add an entry. Cost may be sent as
// a number or as a string.
type AddEntryRequest struct {
	Name string   `json:"name"`
	Cost RawValue `json:"cost"`
}

// ToCandidate converts to an unvalidated entry.
func (r *AddEntryRequest) ToCandidate() domain.EntryCandidate {
	return domain.EntryCandidate{
		Name:    r.Name,
		Cost:    r.Cost.Text,
		HasCost: r.Cost.Set,
	}
}

// ToUseCaseInput converts to use case input.
func (r *AddEntryRequest) ToUseCaseInput(sessionID string) usecase.AddEntryInput {
	return usecase.AddEntryInput{
		SessionID: sessionID,
		Candidate: r.ToCandidate(),
	}
}

// SetSplitRequest represents a request to store the split headcount.
type SetSplitRequest struct {
	Count RawValue `json:"count"`
}
