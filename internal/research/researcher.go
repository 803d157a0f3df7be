// Package research implements the company researcher: web search, website
// scraping, and model-written summaries compiled into a company record.
package research

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/justin/job-advisor/internal/db"
	"github.com/justin/job-advisor/internal/fetch"
	"github.com/justin/job-advisor/internal/llm"
	"github.com/justin/job-advisor/internal/prompts"
	"github.com/justin/job-advisor/internal/schemas"
	"github.com/justin/job-advisor/internal/search"
)

// maxNewsItems caps how many news hits are kept on the company record
const maxNewsItems = 5

// maxKeyPeople caps how many people the extraction keeps
const maxKeyPeople = 5

// newsSummaryLimit truncates news summaries stored on the record
const newsSummaryLimit = 200

// cultureContentLimit bounds scraped website text passed to the model
const cultureContentLimit = 5000

// Store is the persistence surface the researcher needs
type Store interface {
	FindOrCreateCompany(ctx context.Context, name string) (*db.Company, error)
	SaveCompanyResearch(ctx context.Context, id uuid.UUID, update db.CompanyUpdate) (*db.Company, error)
}

// Request names the company to research. Website and JobTitle are optional
// context.
type Request struct {
	CompanyName string
	Website     string
	JobTitle    string
}

// Researcher runs the research pipeline against injected dependencies
type Researcher struct {
	store    Store
	searcher *search.Client
	client   llm.Client
	fetchOpt *fetch.Options
}

// New creates a Researcher
func New(store Store, searcher *search.Client, client llm.Client) *Researcher {
	return &Researcher{
		store:    store,
		searcher: searcher,
		client:   client,
		fetchOpt: fetch.DefaultOptions(),
	}
}

// companyInfo is the structured output of the company-info extraction
type companyInfo struct {
	Description string `json:"description"`
	Industry    string `json:"industry"`
	Size        string `json:"size"`
	Website     string `json:"website"`
}

// Research compiles information about a company and persists it on the
// company record. Search and scrape steps degrade to partial results; only
// the structured extractions and the final summary are fatal.
func (r *Researcher) Research(ctx context.Context, req Request) (*db.Company, error) {
	if strings.TrimSpace(req.CompanyName) == "" {
		return nil, fmt.Errorf("company name is required")
	}

	company, err := r.store.FindOrCreateCompany(ctx, req.CompanyName)
	if err != nil {
		return nil, err
	}

	var (
		info   companyInfo
		news   db.NewsList
		people db.PeopleList
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		info, err = r.searchCompanyInfo(gctx, req.CompanyName)
		return err
	})

	g.Go(func() error {
		news = r.searchRecentNews(gctx, req.CompanyName)
		return nil
	})

	g.Go(func() error {
		var err error
		people, err = r.searchKeyPeople(gctx, req.CompanyName)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	website := req.Website
	if website == "" {
		website = info.Website
	}

	cultureNotes := ""
	if website != "" {
		cultureNotes = r.analyzeCulture(ctx, website)
	}

	summary, err := r.generateSummary(ctx, req, info, cultureNotes, news, people)
	if err != nil {
		return nil, err
	}

	update := db.CompanyUpdate{
		Description:     &info.Description,
		Industry:        &info.Industry,
		Size:            &info.Size,
		RecentNews:      &news,
		KeyPeople:       &people,
		ResearchSummary: &summary,
	}
	if website != "" {
		update.Website = &website
	}
	if cultureNotes != "" {
		update.CultureNotes = &cultureNotes
	}

	saved, err := r.store.SaveCompanyResearch(ctx, company.ID, update)
	if err != nil {
		return nil, err
	}
	if saved == nil {
		return nil, fmt.Errorf("company vanished during research: %s", company.ID)
	}
	return saved, nil
}

// searchCompanyInfo searches for the company and extracts structured facts
func (r *Researcher) searchCompanyInfo(ctx context.Context, companyName string) (companyInfo, error) {
	results, err := r.searcher.SearchCompany(ctx, companyName)
	if err != nil {
		// Mock results were substituted; research continues
		log.Printf("[research] company info search degraded for %s: %v", companyName, err)
	}

	prompt, err := prompts.Render("research.json", "company-info", map[string]string{
		"Company":       companyName,
		"SearchResults": search.FormatResults(topResults(results, 3)),
	})
	if err != nil {
		return companyInfo{}, err
	}

	raw, err := r.client.GenerateJSON(ctx, prompt, llm.TierLite)
	if err != nil {
		return companyInfo{}, fmt.Errorf("company info extraction failed: %w", err)
	}

	var info companyInfo
	if err := json.Unmarshal([]byte(llm.CleanJSONBlock(raw)), &info); err != nil {
		return companyInfo{}, fmt.Errorf("failed to parse company info: %w", err)
	}
	return info, nil
}

// searchRecentNews maps news search hits to stored news items. Failures
// yield an empty list rather than failing the pipeline.
func (r *Researcher) searchRecentNews(ctx context.Context, companyName string) db.NewsList {
	results, err := r.searcher.SearchCompanyNews(ctx, companyName)
	if err != nil {
		log.Printf("[research] news search degraded for %s: %v", companyName, err)
	}

	news := db.NewsList{}
	for _, result := range topResults(results, maxNewsItems) {
		news = append(news, db.NewsItem{
			Title:   result.Title,
			URL:     result.URL,
			Summary: truncate(result.Content, newsSummaryLimit),
		})
	}
	return news
}

// searchKeyPeople searches for notable people and extracts a structured,
// schema-validated list
func (r *Researcher) searchKeyPeople(ctx context.Context, companyName string) (db.PeopleList, error) {
	results, err := r.searcher.SearchCompanyPeople(ctx, companyName, "")
	if err != nil {
		log.Printf("[research] people search degraded for %s: %v", companyName, err)
	}

	prompt, err := prompts.Render("research.json", "key-people", map[string]string{
		"Company":       companyName,
		"SearchResults": search.FormatResults(topResults(results, 3)),
	})
	if err != nil {
		return nil, err
	}

	raw, err := r.client.GenerateJSON(ctx, prompt, llm.TierLite)
	if err != nil {
		return nil, fmt.Errorf("key people extraction failed: %w", err)
	}

	cleaned := llm.CleanJSONBlock(raw)
	if err := schemas.ValidateKeyPeople(cleaned); err != nil {
		return nil, fmt.Errorf("key people extraction failed schema validation: %w", err)
	}

	var parsed struct {
		People []db.KeyPerson `json:"people"`
	}
	if err := json.Unmarshal([]byte(cleaned), &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse key people: %w", err)
	}

	if len(parsed.People) > maxKeyPeople {
		parsed.People = parsed.People[:maxKeyPeople]
	}
	return db.PeopleList(parsed.People), nil
}

// analyzeCulture scrapes the company website and summarizes culture signals.
// Any failure degrades to a fixed note, matching the tolerance of the rest
// of the scrape path.
func (r *Researcher) analyzeCulture(ctx context.Context, website string) string {
	text, err := fetch.PageText(ctx, website, fetch.CompanyPageSelectors(), r.fetchOpt)
	if err != nil {
		log.Printf("[research] website scrape failed for %s: %v", website, err)
		return "Unable to scrape website"
	}
	if strings.TrimSpace(text) == "" {
		return "Unable to scrape website"
	}

	prompt, err := prompts.Render("research.json", "culture-analysis", map[string]string{
		"WebsiteContent": truncate(text, cultureContentLimit),
	})
	if err != nil {
		return "Unable to scrape website"
	}

	notes, err := r.client.GenerateContent(ctx, prompt, llm.TierStandard)
	if err != nil {
		log.Printf("[research] culture analysis failed for %s: %v", website, err)
		return "Unable to scrape website"
	}
	return strings.TrimSpace(notes)
}

// generateSummary writes the final research summary over everything gathered
func (r *Researcher) generateSummary(ctx context.Context, req Request, info companyInfo,
	cultureNotes string, news db.NewsList, people db.PeopleList) (string, error) {

	jobTitleSection := ""
	if req.JobTitle != "" {
		jobTitleSection = fmt.Sprintf("6. How this relates to the %s role", req.JobTitle)
	}

	prompt, err := prompts.Render("research.json", "research-summary", map[string]string{
		"Company":         req.CompanyName,
		"JobTitleSection": jobTitleSection,
		"Context":         buildContext(req, info, cultureNotes, news, people),
	})
	if err != nil {
		return "", err
	}

	summary, err := r.client.GenerateContent(ctx, prompt, llm.TierAdvanced)
	if err != nil {
		return "", fmt.Errorf("research summary generation failed: %w", err)
	}
	return strings.TrimSpace(summary), nil
}

func buildContext(req Request, info companyInfo, cultureNotes string, news db.NewsList, people db.PeopleList) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Company: %s\n", req.CompanyName)
	fmt.Fprintf(&b, "Description: %s\n", orNA(info.Description))
	fmt.Fprintf(&b, "Industry: %s\n", orNA(info.Industry))
	fmt.Fprintf(&b, "Size: %s\n\n", orNA(info.Size))
	fmt.Fprintf(&b, "Culture Notes:\n%s\n\n", orNA(cultureNotes))

	fmt.Fprintf(&b, "Recent News (%d items):\n%s\n\n", len(news), formatNews(news))
	fmt.Fprintf(&b, "Key People (%d identified):\n%s\n", len(people), formatPeople(people))

	if req.JobTitle != "" {
		fmt.Fprintf(&b, "\nJob Title Context: %s\n", req.JobTitle)
	}
	return b.String()
}

func formatNews(news db.NewsList) string {
	if len(news) == 0 {
		return "No recent news found"
	}
	var lines []string
	for _, item := range topNews(news, 3) {
		lines = append(lines, fmt.Sprintf("- %s", item.Title))
	}
	return strings.Join(lines, "\n")
}

func formatPeople(people db.PeopleList) string {
	if len(people) == 0 {
		return "No key people identified"
	}
	var lines []string
	for _, p := range people {
		lines = append(lines, fmt.Sprintf("- %s, %s", p.Name, p.Title))
	}
	return strings.Join(lines, "\n")
}

func topResults(results []search.Result, n int) []search.Result {
	if len(results) > n {
		return results[:n]
	}
	return results
}

func topNews(news db.NewsList, n int) db.NewsList {
	if len(news) > n {
		return news[:n]
	}
	return news
}

func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	return s[:limit]
}

func orNA(s string) string {
	if strings.TrimSpace(s) == "" {
		return "N/A"
	}
	return s
}
