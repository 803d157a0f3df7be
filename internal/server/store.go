package server

import (
	"context"

	"github.com/google/uuid"
	"github.com/justin/job-advisor/internal/builder"
	"github.com/justin/job-advisor/internal/content"
	"github.com/justin/job-advisor/internal/db"
	"github.com/justin/job-advisor/internal/research"
)

// Store is the persistence surface the handlers use. *db.DB satisfies it;
// tests substitute an in-memory fake.
type Store interface {
	// Profiles
	CreateProfile(ctx context.Context, name string, email, resumeText *string) (*db.Profile, error)
	GetProfile(ctx context.Context, id uuid.UUID) (*db.Profile, error)
	ListProfiles(ctx context.Context) ([]db.Profile, error)
	UpdateProfile(ctx context.Context, id uuid.UUID, update db.ProfileUpdate) (*db.Profile, error)
	SetProfileResume(ctx context.Context, id uuid.UUID, resumeText string) error
	DeleteProfile(ctx context.Context, id uuid.UUID) error

	// Stories
	CreateStory(ctx context.Context, profileID uuid.UUID, situation, task, action, result string, tags db.StringArray) (*db.Story, error)
	ListStories(ctx context.Context, profileID uuid.UUID) ([]db.Story, error)
	DeleteStory(ctx context.Context, id uuid.UUID) error

	// Jobs
	CreateJob(ctx context.Context, job *db.Job) (*db.Job, error)
	GetJob(ctx context.Context, id uuid.UUID) (*db.Job, error)
	GetJobDetail(ctx context.Context, id uuid.UUID) (*db.JobDetail, error)
	ListJobs(ctx context.Context, filters db.JobFilters) ([]db.Job, error)
	UpdateJob(ctx context.Context, id uuid.UUID, update db.JobUpdate) (*db.Job, error)
	DeleteJob(ctx context.Context, id uuid.UUID) error

	// Companies
	CreateCompany(ctx context.Context, company *db.Company) (*db.Company, error)
	GetCompany(ctx context.Context, id uuid.UUID) (*db.Company, error)
	GetCompanyByName(ctx context.Context, name string) (*db.Company, error)
	ListCompanies(ctx context.Context) ([]db.Company, error)
	UpdateCompany(ctx context.Context, id uuid.UUID, update db.CompanyUpdate) (*db.Company, error)
	DeleteCompany(ctx context.Context, id uuid.UUID) error

	// Applications
	CreateApplication(ctx context.Context, app *db.Application) (*db.Application, error)
	GetApplication(ctx context.Context, id uuid.UUID) (*db.Application, error)
	ListApplications(ctx context.Context, filters db.ApplicationFilters) ([]db.Application, error)
	UpdateApplication(ctx context.Context, id uuid.UUID, update db.ApplicationUpdate) (*db.Application, error)
	DeleteApplication(ctx context.Context, id uuid.UUID) error
}

// profileBuilder runs the profile interview. *builder.Builder satisfies it.
type profileBuilder interface {
	Start(ctx context.Context, profileID uuid.UUID, resumeText string) (*builder.Result, error)
	SubmitAnswer(ctx context.Context, profileID uuid.UUID, response string) (*builder.Result, error)
}

// companyResearcher runs the research pipeline. *research.Researcher
// satisfies it.
type companyResearcher interface {
	Research(ctx context.Context, req research.Request) (*db.Company, error)
}

// contentGenerator produces application material. *content.Generator
// satisfies it.
type contentGenerator interface {
	Generate(ctx context.Context, in content.Input) (*content.Output, error)
}
