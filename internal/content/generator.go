// Package content generates application material: cover letters, outreach
// emails, and an application strategy for a tracked job.
package content

import (
	"context"
	"fmt"
	"strings"

	"github.com/justin/job-advisor/internal/db"
	"github.com/justin/job-advisor/internal/llm"
	"github.com/justin/job-advisor/internal/prompts"
)

// maxStarStories caps how many stories are woven into the cover letter
const maxStarStories = 3

// maxConnectionEmails caps networking emails generated per run
const maxConnectionEmails = 2

// Input gathers everything the generator works from. Company and Stories
// are optional.
type Input struct {
	Profile *db.Profile
	Job     *db.Job
	Company *db.Company
	Stories []db.Story
}

// Output is the generated application material
type Output struct {
	CoverLetter    string       `json:"cover_letter"`
	OutreachEmails db.EmailList `json:"outreach_emails"`
	Strategy       string       `json:"strategy"`
}

// Generator produces application content through an injected model client
type Generator struct {
	client llm.Client
}

// New creates a Generator
func New(client llm.Client) *Generator {
	return &Generator{client: client}
}

// Generate produces the full content bundle for one job application
func (g *Generator) Generate(ctx context.Context, in Input) (*Output, error) {
	if in.Profile == nil || in.Job == nil {
		return nil, fmt.Errorf("profile and job are required")
	}

	coverLetter, err := g.generateCoverLetter(ctx, in)
	if err != nil {
		return nil, err
	}

	emails, err := g.generateOutreachEmails(ctx, in)
	if err != nil {
		return nil, err
	}

	strategy, err := g.generateStrategy(ctx, in)
	if err != nil {
		return nil, err
	}

	return &Output{
		CoverLetter:    coverLetter,
		OutreachEmails: emails,
		Strategy:       strategy,
	}, nil
}

func (g *Generator) generateCoverLetter(ctx context.Context, in Input) (string, error) {
	prompt, err := prompts.Render("content.json", "cover-letter", map[string]string{
		"JobTitle":        in.Job.Title,
		"CompanyName":     in.Job.CompanyName,
		"JobDescription":  truncate(derefOrNA(in.Job.Description), 1000),
		"CandidateName":   in.Profile.Name,
		"ResumeSummary":   truncate(derefOrNA(in.Profile.ResumeText), 1000),
		"CareerGoals":     formatGoals(in.Profile.CareerGoals),
		"Strengths":       strings.Join(in.Profile.Strengths, ", "),
		"Interests":       strings.Join(in.Profile.Interests, ", "),
		"CompanyResearch": truncate(researchSummary(in.Company), 500),
		"StarContext":     formatStories(selectStories(in.Stories)),
	})
	if err != nil {
		return "", err
	}

	letter, err := g.client.GenerateContent(ctx, prompt, llm.TierAdvanced)
	if err != nil {
		return "", fmt.Errorf("cover letter generation failed: %w", err)
	}
	return strings.TrimSpace(letter), nil
}

func (g *Generator) generateOutreachEmails(ctx context.Context, in Input) (db.EmailList, error) {
	emails := db.EmailList{}

	recruiter, err := g.generateEmail(ctx, "recruiter-email", map[string]string{
		"JobTitle":      in.Job.Title,
		"CompanyName":   in.Job.CompanyName,
		"CandidateName": in.Profile.Name,
		"ResumeSummary": truncate(derefOrNA(in.Profile.ResumeText), 500),
	})
	if err != nil {
		return nil, err
	}
	recruiter.Recipient = "Recruiter"
	recruiter.Purpose = db.EmailPurposeRecruiter
	emails = append(emails, *recruiter)

	manager, err := g.generateEmail(ctx, "hiring-manager-email", map[string]string{
		"JobTitle":        in.Job.Title,
		"CompanyName":     in.Job.CompanyName,
		"CandidateName":   in.Profile.Name,
		"ResumeSummary":   truncate(derefOrNA(in.Profile.ResumeText), 500),
		"CompanyResearch": truncate(researchSummary(in.Company), 300),
	})
	if err != nil {
		return nil, err
	}
	manager.Recipient = "Hiring Manager"
	manager.Purpose = db.EmailPurposeHiringManager
	emails = append(emails, *manager)

	if in.Company != nil {
		people := in.Company.KeyPeople
		if len(people) > maxConnectionEmails {
			people = people[:maxConnectionEmails]
		}
		for _, person := range people {
			connection, err := g.generateEmail(ctx, "connection-email", map[string]string{
				"PersonName":    person.Name,
				"PersonTitle":   person.Title,
				"CompanyName":   in.Job.CompanyName,
				"ResumeSummary": truncate(derefOrNA(in.Profile.ResumeText), 300),
			})
			if err != nil {
				return nil, err
			}
			connection.Recipient = fmt.Sprintf("%s (%s)", person.Name, person.Title)
			connection.Purpose = db.EmailPurposeConnection
			emails = append(emails, *connection)
		}
	}

	return emails, nil
}

func (g *Generator) generateEmail(ctx context.Context, promptKey string, data map[string]string) (*db.OutreachEmail, error) {
	prompt, err := prompts.Render("content.json", promptKey, data)
	if err != nil {
		return nil, err
	}

	response, err := g.client.GenerateContent(ctx, prompt, llm.TierStandard)
	if err != nil {
		return nil, fmt.Errorf("email generation failed (%s): %w", promptKey, err)
	}

	subject, body := ParseEmail(response)
	return &db.OutreachEmail{Subject: subject, Body: body}, nil
}

func (g *Generator) generateStrategy(ctx context.Context, in Input) (string, error) {
	prompt, err := prompts.Render("content.json", "application-strategy", map[string]string{
		"JobTitle":        in.Job.Title,
		"CompanyName":     in.Job.CompanyName,
		"ResumeSummary":   truncate(derefOrNA(in.Profile.ResumeText), 500),
		"CompanyResearch": truncate(researchSummary(in.Company), 300),
	})
	if err != nil {
		return "", err
	}

	strategy, err := g.client.GenerateContent(ctx, prompt, llm.TierStandard)
	if err != nil {
		return "", fmt.Errorf("strategy generation failed: %w", err)
	}
	return strings.TrimSpace(strategy), nil
}

// ParseEmail splits a "Subject: ...\nBody: ..." response into its parts.
// Responses without the markers degrade gracefully: the first plain line
// becomes the subject.
func ParseEmail(response string) (subject, body string) {
	var bodyLines []string
	inBody := false

	for _, line := range strings.Split(strings.TrimSpace(response), "\n") {
		trimmed := strings.TrimSpace(line)
		lower := strings.ToLower(trimmed)

		switch {
		case strings.HasPrefix(lower, "subject:"):
			subject = strings.TrimSpace(trimmed[len("subject:"):])
		case strings.HasPrefix(lower, "body:"):
			inBody = true
			if rest := strings.TrimSpace(trimmed[len("body:"):]); rest != "" {
				bodyLines = append(bodyLines, rest)
			}
		case inBody:
			bodyLines = append(bodyLines, line)
		case subject == "" && !strings.Contains(line, ":"):
			subject = trimmed
		default:
			bodyLines = append(bodyLines, line)
		}
	}

	body = strings.TrimSpace(strings.Join(bodyLines, "\n"))
	if subject == "" {
		subject = "Regarding the position at the company"
	}
	return subject, body
}

// selectStories picks the stories woven into the cover letter. Relevance
// ranking over embeddings would go here; for now the most recent stories
// win.
func selectStories(stories []db.Story) []db.Story {
	if len(stories) > maxStarStories {
		return stories[:maxStarStories]
	}
	return stories
}

func formatStories(stories []db.Story) string {
	if len(stories) == 0 {
		return "No specific examples provided."
	}

	var parts []string
	for i, s := range stories {
		parts = append(parts, fmt.Sprintf("%d. Situation: %s\n   Task: %s\n   Action: %s\n   Result: %s",
			i+1, s.Situation, s.Task, s.Action, s.Result))
	}
	return strings.Join(parts, "\n\n")
}

func formatGoals(goals db.CareerGoals) string {
	if goals.IsZero() {
		return "N/A"
	}

	var parts []string
	if goals.ShortTerm != "" {
		parts = append(parts, "short term: "+goals.ShortTerm)
	}
	if goals.LongTerm != "" {
		parts = append(parts, "long term: "+goals.LongTerm)
	}
	if len(goals.PreferredRoles) > 0 {
		parts = append(parts, "preferred roles: "+strings.Join(goals.PreferredRoles, ", "))
	}
	if len(goals.PreferredIndustries) > 0 {
		parts = append(parts, "preferred industries: "+strings.Join(goals.PreferredIndustries, ", "))
	}
	if len(goals.PreferredLocations) > 0 {
		parts = append(parts, "preferred locations: "+strings.Join(goals.PreferredLocations, ", "))
	}
	return strings.Join(parts, "; ")
}

func researchSummary(company *db.Company) string {
	if company == nil || company.ResearchSummary == nil {
		return "N/A"
	}
	return *company.ResearchSummary
}

func derefOrNA(s *string) string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return "N/A"
	}
	return *s
}

func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	return s[:limit]
}
