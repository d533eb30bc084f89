package llm

import (
	"context"
	"errors"
	"testing"
)

const tailorPayload = `{
	"tailored_resume": "Jane Doe\nStaff Engineer\n- Led platform team",
	"changes_summary": ["moved platform work to the top"],
	"suggested_additions": ["certifications section"],
	"accuracy_checklist": ["no invented employers"]
}`

func TestTailorResume_Valid(t *testing.T) {
	gen := &fakeGenerator{responses: []*Response{textResponse(tailorPayload)}}

	result, err := TailorResume(context.Background(), gen, "Jane Doe\n- Led platform team", "Staff Engineer role")
	if err != nil {
		t.Fatalf("TailorResume failed: %v", err)
	}
	if result.TailoredResume == "" {
		t.Error("TailoredResume is empty")
	}
	if len(result.ChangesSummary) != 1 || len(result.SuggestedAdditions) != 1 {
		t.Errorf("result = %+v", result)
	}

	req := gen.requests[0]
	if !req.JSONOnly {
		t.Error("tailoring request should constrain the response to JSON")
	}
	if req.EnableRetrieval {
		t.Error("tailoring request should not enable retrieval")
	}
}

func TestTailorResume_FenceWrapped(t *testing.T) {
	gen := &fakeGenerator{responses: []*Response{
		textResponse("```json\n" + tailorPayload + "\n```"),
	}}

	result, err := TailorResume(context.Background(), gen, "resume", "jd")
	if err != nil {
		t.Fatalf("TailorResume failed: %v", err)
	}
	if result.TailoredResume == "" {
		t.Error("TailoredResume is empty")
	}
}

func TestTailorResume_EmptyResumeIsNotAnError(t *testing.T) {
	gen := &fakeGenerator{responses: []*Response{
		textResponse(`{"tailored_resume":"","changes_summary":[],"suggested_additions":[],"accuracy_checklist":[]}`),
	}}

	result, err := TailorResume(context.Background(), gen, "resume", "jd")
	if err != nil {
		t.Fatalf("TailorResume failed: %v", err)
	}
	if result.TailoredResume != "" {
		t.Errorf("TailoredResume = %q, want empty", result.TailoredResume)
	}
}

func TestTailorResume_Malformed(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"empty", ""},
		{"prose", "Here is your tailored resume: ..."},
		{"wrong type", `{"tailored_resume": 42}`},
		{"truncated JSON", `{"tailored_resume": "Jane`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gen := &fakeGenerator{responses: []*Response{textResponse(tt.text)}}
			_, err := TailorResume(context.Background(), gen, "resume", "jd")

			var me *MalformedResponseError
			if !errors.As(err, &me) {
				t.Fatalf("error = %v, want MalformedResponseError", err)
			}
		})
	}
}

func TestTailorResume_NoCandidateFallback(t *testing.T) {
	// A valid payload hiding in a non-primary candidate does not rescue an
	// empty primary text; only extraction gets that leniency.
	gen := &fakeGenerator{responses: []*Response{{
		PrimaryText: "",
		Candidates: []Candidate{
			{TextFragments: nil},
			{TextFragments: []string{tailorPayload}},
		},
	}}}

	_, err := TailorResume(context.Background(), gen, "resume", "jd")
	var me *MalformedResponseError
	if !errors.As(err, &me) {
		t.Fatalf("error = %v, want MalformedResponseError", err)
	}
}

func TestTailorResume_ConnectivityError(t *testing.T) {
	gen := &fakeGenerator{err: &ConnectivityError{Op: "generate", Err: errors.New("timeout")}}

	_, err := TailorResume(context.Background(), gen, "resume", "jd")
	var ce *ConnectivityError
	if !errors.As(err, &ce) {
		t.Fatalf("error = %v, want ConnectivityError", err)
	}
}
