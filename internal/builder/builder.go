// Package builder implements the conversational profile interview: the
// model asks questions, answers accumulate as session turns, and the session
// ends with a structured extraction merged into the profile.
package builder

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/justin/job-advisor/internal/db"
	"github.com/justin/job-advisor/internal/llm"
)

// DefaultMaxTurns is the question-round bound before extraction is forced
const DefaultMaxTurns = 6

// Config tunes a Builder. Zero values fall back to defaults.
type Config struct {
	// MaxTurns bounds the number of question rounds per session
	MaxTurns int
	// Tier selects the model capability level for interview calls
	Tier llm.ModelTier
	// Timeout bounds each generation call
	Timeout time.Duration
}

// Builder runs profile interviews against an injected store and model client
type Builder struct {
	store    Store
	client   llm.Client
	maxTurns int
	tier     llm.ModelTier
	timeout  time.Duration
}

// New creates a Builder. cfg may be nil for defaults.
func New(store Store, client llm.Client, cfg *Config) *Builder {
	b := &Builder{
		store:    store,
		client:   client,
		maxTurns: DefaultMaxTurns,
		tier:     llm.TierStandard,
		timeout:  llm.DefaultTimeout,
	}
	if cfg != nil {
		if cfg.MaxTurns > 0 {
			b.maxTurns = cfg.MaxTurns
		}
		if cfg.Tier != "" {
			b.tier = cfg.Tier
		}
		if cfg.Timeout > 0 {
			b.timeout = cfg.Timeout
		}
	}
	return b
}

// Result is the outcome of a Start or SubmitAnswer call
type Result struct {
	SessionID uuid.UUID   `json:"session_id"`
	Completed bool        `json:"completed"`
	Questions []string    `json:"questions,omitempty"`
	Profile   *db.Profile `json:"profile,omitempty"`
	// ExtractionSkipped is set when the session hit the turn bound and the
	// best-effort extraction failed, so the profile was left unchanged.
	ExtractionSkipped bool `json:"extraction_skipped,omitempty"`
}

// Start begins an interview for the profile, or resumes the active session.
// Calling Start while a session is active returns its outstanding questions
// without creating anything.
func (b *Builder) Start(ctx context.Context, profileID uuid.UUID, resumeText string) (*Result, error) {
	profile, err := b.store.GetProfile(ctx, profileID)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, &NotFoundError{Resource: "profile", ID: profileID.String()}
	}

	active, err := b.store.GetActiveSession(ctx, profileID)
	if err != nil {
		return nil, err
	}
	if active != nil {
		return &Result{SessionID: active.ID, Questions: active.Pending}, nil
	}

	session, err := b.store.CreateSession(ctx, profileID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		// A concurrent Start won the insert; resume its session
		active, err = b.store.GetActiveSession(ctx, profileID)
		if err != nil {
			return nil, err
		}
		if active == nil {
			return nil, &GenerationUnavailableError{Message: "session creation raced and vanished"}
		}
		return &Result{SessionID: active.ID, Questions: active.Pending}, nil
	}

	prompt, err := buildInitialPrompt(profile, resumeText)
	if err != nil {
		b.rollback(ctx, session.ID)
		return nil, err
	}

	raw, err := b.generateJSON(ctx, prompt)
	if err != nil {
		b.rollback(ctx, session.ID)
		return nil, &GenerationUnavailableError{Message: "opening question generation failed", Cause: err}
	}

	questions, err := parseQuestions(raw)
	if err != nil {
		b.rollback(ctx, session.ID)
		return nil, &GenerationUnavailableError{Message: "opening questions unparseable", Cause: err}
	}

	session.Turns = db.TurnList{{Questions: questions}}
	session.Pending = questions
	if err := b.store.UpdateSession(ctx, session); err != nil {
		b.rollback(ctx, session.ID)
		return nil, err
	}

	return &Result{SessionID: session.ID, Questions: questions}, nil
}

// SubmitAnswer records the user's answer to the outstanding questions and
// advances the session: either another question round comes back, or the
// session completes and the extraction is merged into the profile. Any
// generation or parse failure leaves the stored session untouched.
func (b *Builder) SubmitAnswer(ctx context.Context, profileID uuid.UUID, response string) (*Result, error) {
	if strings.TrimSpace(response) == "" {
		return nil, &InvalidStateError{Message: "answer must not be empty"}
	}

	profile, err := b.store.GetProfile(ctx, profileID)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, &NotFoundError{Resource: "profile", ID: profileID.String()}
	}

	session, err := b.store.GetActiveSession(ctx, profileID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, &InvalidStateError{Message: "no active builder session; start one first"}
	}

	// Record the answer in memory only. Nothing is persisted until the
	// model's reply parses.
	if n := len(session.Turns); n > 0 {
		session.Turns[n-1].Answer = response
	} else {
		session.Turns = append(session.Turns, db.Turn{Answer: response})
	}

	if session.TurnCount() >= b.maxTurns {
		return b.forceComplete(ctx, profile, session)
	}

	prompt, err := buildFollowUpPrompt(profile, session, response)
	if err != nil {
		return nil, err
	}

	raw, err := b.generateJSON(ctx, prompt)
	if err != nil {
		return nil, &GenerationUnavailableError{Message: "follow-up generation failed", Cause: err}
	}

	r, extraction, err := parseReply(raw)
	if err != nil {
		return nil, &GenerationUnavailableError{Message: "follow-up reply unparseable", Cause: err}
	}

	if extraction != nil {
		return b.complete(ctx, profile, session, extraction)
	}

	session.Turns = append(session.Turns, db.Turn{Questions: r.Questions})
	session.Pending = r.Questions
	if err := b.store.UpdateSession(ctx, session); err != nil {
		return nil, err
	}

	return &Result{SessionID: session.ID, Questions: r.Questions}, nil
}

// forceComplete ends a session that hit the turn bound. It asks once for a
// best-effort extraction; if that fails the session still completes, with
// the profile left as it was.
func (b *Builder) forceComplete(ctx context.Context, profile *db.Profile, session *db.BuilderSession) (*Result, error) {
	prompt, err := buildForcePrompt(profile, session)
	if err != nil {
		return nil, err
	}

	raw, genErr := b.generateJSON(ctx, prompt)
	if genErr == nil {
		extraction, parseErr := parseForcedExtraction(raw)
		if parseErr == nil {
			return b.complete(ctx, profile, session, extraction)
		}
		genErr = parseErr
	}

	log.Printf("[builder] forced extraction failed for session %s, completing without changes: %v", session.ID, genErr)
	result, err := b.complete(ctx, profile, session, &Extraction{CareerGoals: profile.CareerGoals})
	if err != nil {
		return nil, err
	}
	result.ExtractionSkipped = true
	return result, nil
}

// complete merges the extraction and commits session + profile atomically
func (b *Builder) complete(ctx context.Context, profile *db.Profile, session *db.BuilderSession, e *Extraction) (*Result, error) {
	interests, strengths, weaknesses, goals := mergeExtraction(profile, e)

	updated, err := b.store.CompleteSessionWithProfile(ctx, session, interests, strengths, weaknesses, goals)
	if err != nil {
		return nil, err
	}

	return &Result{SessionID: session.ID, Completed: true, Profile: updated}, nil
}

func (b *Builder) generateJSON(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()
	return b.client.GenerateJSON(ctx, prompt, b.tier)
}

func (b *Builder) rollback(ctx context.Context, sessionID uuid.UUID) {
	if err := b.store.DeleteSession(ctx, sessionID); err != nil {
		log.Printf("[builder] failed to roll back session %s: %v", sessionID, err)
	}
}
