package builder

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/justin/job-advisor/internal/db"
	"github.com/justin/job-advisor/internal/llm"
	"github.com/justin/job-advisor/internal/prompts"
	"github.com/justin/job-advisor/internal/schemas"
)

// Extraction is the structured profile payload the interview converges on
type Extraction struct {
	Interests   []string       `json:"interests"`
	Strengths   []string       `json:"strengths"`
	Weaknesses  []string       `json:"weaknesses"`
	CareerGoals db.CareerGoals `json:"career_goals"`
}

// reply is the model's answer to a follow-up prompt: either another round of
// questions or the final extraction
type reply struct {
	Completed  bool            `json:"completed"`
	Questions  []string        `json:"questions"`
	Extraction json.RawMessage `json:"extraction"`
}

func buildInitialPrompt(profile *db.Profile, resumeText string) (string, error) {
	if resumeText == "" && profile.ResumeText != nil {
		resumeText = *profile.ResumeText
	}

	if resumeText != "" {
		return prompts.Render("builder.json", "initial-extraction", map[string]string{
			"ResumeText": resumeText,
		})
	}

	return prompts.Render("builder.json", "start-questions", map[string]string{
		"ProfileSummary": profile.Summary(),
	})
}

func buildFollowUpPrompt(profile *db.Profile, session *db.BuilderSession, response string) (string, error) {
	return prompts.Render("builder.json", "follow-up", map[string]string{
		"ProfileSummary": profile.Summary(),
		"History":        session.History(),
		"UserResponse":   response,
	})
}

func buildForcePrompt(profile *db.Profile, session *db.BuilderSession) (string, error) {
	return prompts.Render("builder.json", "force-extraction", map[string]string{
		"ProfileSummary": profile.Summary(),
		"History":        session.History(),
	})
}

// parseQuestions reads a question list from the opening generation call
func parseQuestions(raw string) ([]string, error) {
	cleaned := llm.CleanJSONBlock(raw)

	var parsed struct {
		Questions []string `json:"questions"`
	}
	if err := json.Unmarshal([]byte(cleaned), &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse question list: %w", err)
	}

	questions := trimQuestions(parsed.Questions)
	if len(questions) == 0 {
		return nil, fmt.Errorf("model returned no questions")
	}
	return questions, nil
}

// parseReply reads a follow-up response: another question round, or the
// final extraction. The extraction payload must pass schema validation
// before it is accepted.
func parseReply(raw string) (*reply, *Extraction, error) {
	cleaned := llm.CleanJSONBlock(raw)

	var r reply
	if err := json.Unmarshal([]byte(cleaned), &r); err != nil {
		return nil, nil, fmt.Errorf("failed to parse follow-up reply: %w", err)
	}

	if !r.Completed {
		r.Questions = trimQuestions(r.Questions)
		if len(r.Questions) == 0 {
			return nil, nil, fmt.Errorf("reply has neither questions nor extraction")
		}
		return &r, nil, nil
	}

	extraction, err := parseExtraction(string(r.Extraction))
	if err != nil {
		return nil, nil, err
	}
	return &r, extraction, nil
}

// parseExtraction validates and decodes an extraction payload
func parseExtraction(raw string) (*Extraction, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == "null" {
		return nil, fmt.Errorf("reply marked completed without an extraction")
	}

	if err := schemas.ValidateExtraction(raw); err != nil {
		return nil, fmt.Errorf("extraction failed schema validation: %w", err)
	}

	var e Extraction
	if err := json.Unmarshal([]byte(raw), &e); err != nil {
		return nil, fmt.Errorf("failed to parse extraction: %w", err)
	}
	return &e, nil
}

// parseForcedExtraction reads the force-extraction response. The prompt asks
// for the completed-reply wrapper; a bare extraction object is accepted too.
func parseForcedExtraction(raw string) (*Extraction, error) {
	cleaned := llm.CleanJSONBlock(raw)

	var r reply
	if err := json.Unmarshal([]byte(cleaned), &r); err == nil && r.Completed && len(r.Extraction) > 0 {
		return parseExtraction(string(r.Extraction))
	}
	return parseExtraction(cleaned)
}

func trimQuestions(in []string) []string {
	var out []string
	for _, q := range in {
		q = strings.TrimSpace(q)
		if q != "" {
			out = append(out, q)
		}
	}
	return out
}
