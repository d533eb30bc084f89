package llm

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jonathan/job-tailor/internal/prompts"
	"github.com/jonathan/job-tailor/internal/schemas"
)

// TailorResult is the model's rewrite of a base resume against one job
// description, plus the audit lists that keep the rewrite honest.
//
// TailoredResume may be empty. That is not a parse failure: the model
// answered in the right shape but produced no resume text, and the caller
// decides how to surface it.
type TailorResult struct {
	TailoredResume     string   `json:"tailored_resume"`
	ChangesSummary     []string `json:"changes_summary"`
	SuggestedAdditions []string `json:"suggested_additions"`
	AccuracyChecklist  []string `json:"accuracy_checklist"`
}

// TailorResume asks the model to tailor resumeText for jdText. Unlike
// extraction there is no candidate fallback: the call is not
// retrieval-grounded, so a response whose primary text is not the expected
// JSON is malformed, full stop.
func TailorResume(ctx context.Context, gen Generator, resumeText, jdText string) (*TailorResult, error) {
	system := prompts.MustGet("tailoring.json", "tailor_system")
	user := prompts.Format(prompts.MustGet("tailoring.json", "tailor_user"), map[string]string{
		"ResumeText": resumeText,
		"JDText":     jdText,
	})

	resp, err := gen.Generate(ctx, Request{
		System:   system,
		Prompt:   user,
		JSONOnly: true,
	})
	if err != nil {
		return nil, err
	}

	cleaned := cleanJSONBlock(resp.PrimaryText)
	if cleaned == "" {
		return nil, &MalformedResponseError{Raw: resp.PrimaryText, Err: fmt.Errorf("empty response text")}
	}
	if err := schemas.ValidateTailor(cleaned); err != nil {
		return nil, &MalformedResponseError{Raw: cleaned, Err: err}
	}

	var result TailorResult
	if err := json.Unmarshal([]byte(cleaned), &result); err != nil {
		return nil, &MalformedResponseError{Raw: cleaned, Err: err}
	}
	return &result, nil
}
