package ingestion

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/justin/job-advisor/internal/llm"
	"github.com/justin/job-advisor/internal/prompts"
	"github.com/justin/job-advisor/internal/schemas"
)

// Experience is one work entry extracted from a resume
type Experience struct {
	Title       string `json:"title,omitempty"`
	Company     string `json:"company,omitempty"`
	Duration    string `json:"duration,omitempty"`
	Description string `json:"description,omitempty"`
}

// Education is one education entry extracted from a resume
type Education struct {
	Degree      string `json:"degree,omitempty"`
	Institution string `json:"institution,omitempty"`
	Year        string `json:"year,omitempty"`
}

// ResumeInfo is the structured summary extracted from resume text
type ResumeInfo struct {
	Name        string       `json:"name,omitempty"`
	Email       string       `json:"email,omitempty"`
	Skills      []string     `json:"skills,omitempty"`
	Experiences []Experience `json:"experiences,omitempty"`
	Education   []Education  `json:"education,omitempty"`
	Interests   []string     `json:"interests,omitempty"`
}

// ExtractResumeInfo asks the model for a structured summary of cleaned
// resume text. The payload must pass schema validation before it is
// accepted.
func ExtractResumeInfo(ctx context.Context, client llm.Client, resumeText string) (*ResumeInfo, error) {
	prompt, err := prompts.Render("ingestion.json", "resume-info", map[string]string{
		"ResumeText": resumeText,
	})
	if err != nil {
		return nil, err
	}

	raw, err := client.GenerateJSON(ctx, prompt, llm.TierLite)
	if err != nil {
		return nil, fmt.Errorf("resume extraction failed: %w", err)
	}

	cleaned := llm.CleanJSONBlock(raw)
	if err := schemas.ValidateResumeInfo(cleaned); err != nil {
		return nil, fmt.Errorf("resume extraction failed schema validation: %w", err)
	}

	var info ResumeInfo
	if err := json.Unmarshal([]byte(cleaned), &info); err != nil {
		return nil, fmt.Errorf("failed to parse resume extraction: %w", err)
	}
	return &info, nil
}
