// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import (
	"encoding/json"
	"testing"
)

func TestRefUnmarshal(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{"bare string", `"cand-1"`, "cand-1", false},
		{"object id", `{"id":"cand-1","name":"x"}`, "cand-1", false},
		{"legacy _id", `{"_id":"cand-1"}`, "cand-1", false},
		{"id preferred over _id", `{"id":"new","_id":"old"}`, "new", false},
		{"empty id falls back to _id", `{"id":"","_id":"old"}`, "old", false},
		{"null", `null`, "", false},
		{"empty object", `{}`, "", false},
		{"number", `42`, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var r Ref
			err := json.Unmarshal([]byte(tt.input), &r)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && r.ID != tt.want {
				t.Errorf("got %q, want %q", r.ID, tt.want)
			}
		})
	}
}

func TestRefInsideRequest(t *testing.T) {
	body := `{"candidate_id":{"_id":"c1"},"job_id":"j1","target_stage_id":{"id":"s2"}}`

	var req MoveStageRequest
	if err := json.Unmarshal([]byte(body), &req); err != nil {
		t.Fatal(err)
	}

	if req.CandidateID.ID != "c1" || req.JobID.ID != "j1" || req.TargetStageID.ID != "s2" {
		t.Errorf("unexpected request: %+v", req)
	}

	out, err := json.Marshal(req)
	if err != nil {
		t.Fatal(err)
	}
	want := `{"candidate_id":"c1","job_id":"j1","target_stage_id":"s2"}`
	if string(out) != want {
		t.Errorf("got %s, want %s", out, want)
	}
}

func TestCandidateApplication(t *testing.T) {
	c := Candidate{
		ID: "c1",
		Applications: []JobApplication{
			{JobID: "j1", CurrentStageID: "s0", Status: StatusActive},
			{JobID: "j2", CurrentStageID: "x", Status: StatusRejected},
		},
	}

	app, ok := c.Application("j2")
	if !ok || app.Status != StatusRejected {
		t.Errorf("expected rejected application for j2, got %+v ok=%v", app, ok)
	}
	if _, ok := c.Application("j3"); ok {
		t.Error("expected no application for j3")
	}
}
