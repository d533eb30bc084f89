package llm

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/jonathan/job-tailor/internal/prompts"
	"github.com/jonathan/job-tailor/internal/schemas"
)

// JobExtract is a job posting pulled out of a URL by the model. Any field may
// be empty when the page did not carry it.
type JobExtract struct {
	Company  string `json:"company"`
	Title    string `json:"title"`
	Location string `json:"location"`
	JDText   string `json:"jd_text"`
}

// ExtractJobFromURL asks the model to read a job posting URL and return its
// structured fields.
//
// Retrieval-grounded responses sometimes arrive with an empty primary text
// while a candidate part carries the payload, so parsing tries the primary
// text first and then each candidate's joined fragments. Only when every
// source fails to parse is the URL declared unreadable.
func ExtractJobFromURL(ctx context.Context, gen Generator, url string) (*JobExtract, error) {
	system := prompts.MustGet("tailoring.json", "extract_system")
	user := prompts.Format(prompts.MustGet("tailoring.json", "extract_user"), map[string]string{"URL": url})

	resp, err := gen.Generate(ctx, Request{
		System:          system,
		Prompt:          user,
		EnableRetrieval: true,
	})
	if err != nil {
		return nil, err
	}

	if extract := parseExtract(resp.PrimaryText); extract != nil {
		return extract, nil
	}
	for _, cand := range resp.Candidates {
		if extract := parseExtract(strings.Join(cand.TextFragments, "\n")); extract != nil {
			return extract, nil
		}
	}
	return nil, &ExtractionError{URL: url}
}

// parseExtract attempts to read one text payload as an extraction result.
// Returns nil when the payload is empty, not JSON, or fails the schema.
func parseExtract(text string) *JobExtract {
	cleaned := cleanJSONBlock(text)
	if cleaned == "" {
		return nil
	}
	if err := schemas.ValidateExtract(cleaned); err != nil {
		return nil
	}
	var extract JobExtract
	if err := json.Unmarshal([]byte(cleaned), &extract); err != nil {
		return nil
	}
	extract.Company = strings.TrimSpace(extract.Company)
	extract.Title = strings.TrimSpace(extract.Title)
	extract.Location = strings.TrimSpace(extract.Location)
	extract.JDText = strings.TrimSpace(extract.JDText)
	if extract.JDText == "" {
		return nil
	}
	return &extract
}
