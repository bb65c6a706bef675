// Copyright (c) 2025 April
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package review reconciles lint responses from different backend implementations.
// An OpenAI-backed server returns structured risks; other model backends return one
// block of free text. The backend field of the envelope says which one is populated.
package review

import (
	"encoding/json"
	"fmt"

	apperrors "april/cli/internal/errors"
)

// BackendOpenAI is the discriminator value selecting the structured risk list.
const BackendOpenAI = "openai"

// Risk is one structured finding.
type Risk struct {
	Code   string `json:"which_part_of_code"`
	Reason string `json:"reason"`
	Fix    string `json:"fix"`
}

// Report is the lint response envelope.
type Report struct {
	Risks      []Risk `json:"risks"`
	PlainRisks string `json:"plain_risks"`
	Backend    string `json:"backend"`
}

// Structured reports whether the discriminator selects the risk list.
func (r Report) Structured() bool { return r.Backend == BackendOpenAI }

// RecordKind tells which representation a Record carries.
type RecordKind int

const (
	// KindRisk records carry a structured Risk.
	KindRisk RecordKind = iota
	// KindText records carry free text, usually markdown.
	KindText
)

// Record is one displayable entry of a reconciled report.
type Record struct {
	Kind RecordKind
	Risk Risk
	Text string
}

// Records normalizes the report into display order. Exactly one representation
// is used: the structured list for BackendOpenAI, the plain text otherwise.
func (r Report) Records() []Record {
	if r.Structured() {
		out := make([]Record, 0, len(r.Risks))
		for _, risk := range r.Risks {
			out = append(out, Record{Kind: KindRisk, Risk: risk})
		}
		return out
	}
	return []Record{{Kind: KindText, Text: r.PlainRisks}}
}

// Parse decodes a lint payload into a Report. The payload must be a JSON object
// carrying the representation its backend field selects; anything else is a
// MalformedResponse error with the raw payload attached. The representation that
// is not selected is never decoded, so a stale or mistyped field there is ignored.
func Parse(payload []byte) (Report, error) {
	malformed := func(msg string, err error) error {
		return apperrors.WithRaw(apperrors.MalformedResponse, msg, err, string(payload))
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(payload, &fields); err != nil {
		return Report{}, malformed("lint response is not a JSON object", err)
	}
	risks, hasRisks := fields["risks"]
	plain, hasPlain := fields["plain_risks"]
	if !hasRisks && !hasPlain {
		return Report{}, malformed("lint response has neither risks nor plain_risks", nil)
	}

	var rep Report
	if raw, ok := fields["backend"]; ok {
		if err := json.Unmarshal(raw, &rep.Backend); err != nil {
			return Report{}, malformed("lint response backend is not a string", err)
		}
	}

	if rep.Structured() {
		if !hasRisks {
			return Report{}, malformed(fmt.Sprintf("backend %q sent no risks", rep.Backend), nil)
		}
		// Risks with empty or missing fields are kept as sent.
		if err := json.Unmarshal(risks, &rep.Risks); err != nil {
			return Report{}, malformed("lint response risks are not a list of risks", err)
		}
		return rep, nil
	}

	if !hasPlain {
		return Report{}, malformed(fmt.Sprintf("backend %q sent no plain_risks", rep.Backend), nil)
	}
	if err := json.Unmarshal(plain, &rep.PlainRisks); err != nil {
		return Report{}, malformed("lint response plain_risks is not a string", err)
	}
	return rep, nil
}

// Reconcile parses payload and returns its records in display order.
func Reconcile(payload []byte) ([]Record, error) {
	rep, err := Parse(payload)
	if err != nil {
		return nil, err
	}
	return rep.Records(), nil
}
