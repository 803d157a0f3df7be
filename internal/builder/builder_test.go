package builder

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/justin/job-advisor/internal/db"
	"github.com/justin/job-advisor/internal/llm"
)

// fakeClient replays scripted responses in order. A response may instead be
// an error to simulate a backend failure.
type fakeClient struct {
	responses []any // string or error
	prompts   []string
}

func (f *fakeClient) GenerateJSON(ctx context.Context, prompt string, tier llm.ModelTier) (string, error) {
	f.prompts = append(f.prompts, prompt)
	if len(f.responses) == 0 {
		return "", errors.New("fakeClient: no scripted response")
	}
	next := f.responses[0]
	f.responses = f.responses[1:]
	if err, ok := next.(error); ok {
		return "", err
	}
	return next.(string), nil
}

func (f *fakeClient) GenerateContent(ctx context.Context, prompt string, tier llm.ModelTier) (string, error) {
	return f.GenerateJSON(ctx, prompt, tier)
}

func (f *fakeClient) GetModel(tier llm.ModelTier) string { return "fake-model" }
func (f *fakeClient) Close() error                       { return nil }

// memStore is an in-memory Store implementation for builder tests
type memStore struct {
	profiles  map[uuid.UUID]*db.Profile
	sessions  map[uuid.UUID]*db.BuilderSession
	failWrite bool
}

func newMemStore() *memStore {
	return &memStore{
		profiles: make(map[uuid.UUID]*db.Profile),
		sessions: make(map[uuid.UUID]*db.BuilderSession),
	}
}

func (m *memStore) addProfile(p *db.Profile) *db.Profile {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	m.profiles[p.ID] = p
	return p
}

func (m *memStore) GetProfile(ctx context.Context, id uuid.UUID) (*db.Profile, error) {
	p, ok := m.profiles[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (m *memStore) GetActiveSession(ctx context.Context, profileID uuid.UUID) (*db.BuilderSession, error) {
	for _, s := range m.sessions {
		if s.ProfileID == profileID && !s.Completed {
			cp := *s
			cp.Turns = append(db.TurnList{}, s.Turns...)
			cp.Pending = append(db.StringArray{}, s.Pending...)
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *memStore) CreateSession(ctx context.Context, profileID uuid.UUID) (*db.BuilderSession, error) {
	for _, s := range m.sessions {
		if s.ProfileID == profileID && !s.Completed {
			return nil, nil
		}
	}
	s := &db.BuilderSession{ID: uuid.New(), ProfileID: profileID, Turns: db.TurnList{}, Pending: db.StringArray{}}
	m.sessions[s.ID] = s
	cp := *s
	return &cp, nil
}

func (m *memStore) UpdateSession(ctx context.Context, session *db.BuilderSession) error {
	if m.failWrite {
		return errors.New("memStore: write failure")
	}
	stored, ok := m.sessions[session.ID]
	if !ok {
		return fmt.Errorf("session not found: %s", session.ID)
	}
	stored.Turns = append(db.TurnList{}, session.Turns...)
	stored.Pending = append(db.StringArray{}, session.Pending...)
	return nil
}

func (m *memStore) DeleteSession(ctx context.Context, id uuid.UUID) error {
	delete(m.sessions, id)
	return nil
}

func (m *memStore) CompleteSessionWithProfile(ctx context.Context, session *db.BuilderSession,
	interests, strengths, weaknesses db.StringArray, goals db.CareerGoals) (*db.Profile, error) {
	if m.failWrite {
		return nil, errors.New("memStore: write failure")
	}
	stored, ok := m.sessions[session.ID]
	if !ok {
		return nil, fmt.Errorf("session not found: %s", session.ID)
	}
	p, ok := m.profiles[session.ProfileID]
	if !ok {
		return nil, fmt.Errorf("profile not found: %s", session.ProfileID)
	}

	stored.Turns = append(db.TurnList{}, session.Turns...)
	stored.Pending = db.StringArray{}
	stored.Completed = true

	p.Interests = interests
	p.Strengths = strengths
	p.Weaknesses = weaknesses
	p.CareerGoals = goals

	cp := *p
	return &cp, nil
}

func (m *memStore) activeSession(profileID uuid.UUID) *db.BuilderSession {
	for _, s := range m.sessions {
		if s.ProfileID == profileID && !s.Completed {
			return s
		}
	}
	return nil
}

const questionsReply = `{"questions": ["What kind of work energizes you?", "What should a role avoid?"]}`

const followUpQuestionsReply = `{"completed": false, "questions": ["Where do you want to be in five years?"]}`

const completionReply = `{
	"completed": true,
	"extraction": {
		"interests": ["distributed systems", "databases"],
		"strengths": ["Go", "mentoring"],
		"weaknesses": ["public speaking"],
		"career_goals": {
			"short_term": "senior backend role",
			"long_term": "staff engineer",
			"preferred_industries": ["fintech"],
			"preferred_roles": ["backend engineer"],
			"preferred_locations": ["remote"]
		}
	}
}`

func newTestBuilder(store Store, client llm.Client) *Builder {
	return New(store, client, nil)
}

func TestStart_ProfileNotFound(t *testing.T) {
	store := newMemStore()
	b := newTestBuilder(store, &fakeClient{})

	_, err := b.Start(context.Background(), uuid.New(), "")
	require.Error(t, err)

	var notFound *NotFoundError
	assert.True(t, errors.As(err, &notFound))
}

func TestStart_NewSession(t *testing.T) {
	store := newMemStore()
	p := store.addProfile(&db.Profile{Name: "Ada"})
	client := &fakeClient{responses: []any{questionsReply}}
	b := newTestBuilder(store, client)

	result, err := b.Start(context.Background(), p.ID, "")
	require.NoError(t, err)

	assert.False(t, result.Completed)
	assert.Len(t, result.Questions, 2)
	require.NotNil(t, store.activeSession(p.ID))
	assert.Equal(t, 1, store.activeSession(p.ID).TurnCount())
}

func TestStart_UsesResumeTextWhenProvided(t *testing.T) {
	store := newMemStore()
	p := store.addProfile(&db.Profile{Name: "Ada"})
	client := &fakeClient{responses: []any{questionsReply}}
	b := newTestBuilder(store, client)

	_, err := b.Start(context.Background(), p.ID, "Ten years of Go and Postgres.")
	require.NoError(t, err)

	require.Len(t, client.prompts, 1)
	assert.Contains(t, client.prompts[0], "Ten years of Go and Postgres.")
}

func TestStart_IdempotentResume(t *testing.T) {
	store := newMemStore()
	p := store.addProfile(&db.Profile{Name: "Ada"})
	client := &fakeClient{responses: []any{questionsReply}}
	b := newTestBuilder(store, client)

	first, err := b.Start(context.Background(), p.ID, "")
	require.NoError(t, err)

	// Second Start resumes: same session, same questions, no model call
	second, err := b.Start(context.Background(), p.ID, "")
	require.NoError(t, err)

	assert.Equal(t, first.SessionID, second.SessionID)
	assert.Equal(t, first.Questions, second.Questions)
	assert.Len(t, client.prompts, 1)
}

func TestStart_GenerationFailureRollsBackSession(t *testing.T) {
	store := newMemStore()
	p := store.addProfile(&db.Profile{Name: "Ada"})
	client := &fakeClient{responses: []any{errors.New("backend down")}}
	b := newTestBuilder(store, client)

	_, err := b.Start(context.Background(), p.ID, "")
	require.Error(t, err)

	var unavailable *GenerationUnavailableError
	assert.True(t, errors.As(err, &unavailable))
	assert.Nil(t, store.activeSession(p.ID), "failed start must not leave a session behind")

	// A retry after the failure starts cleanly
	client.responses = []any{questionsReply}
	result, err := b.Start(context.Background(), p.ID, "")
	require.NoError(t, err)
	assert.Len(t, result.Questions, 2)
}

func TestStart_UnparseableQuestionsRollsBackSession(t *testing.T) {
	store := newMemStore()
	p := store.addProfile(&db.Profile{Name: "Ada"})
	client := &fakeClient{responses: []any{"I cannot answer in JSON, sorry."}}
	b := newTestBuilder(store, client)

	_, err := b.Start(context.Background(), p.ID, "")
	require.Error(t, err)

	var unavailable *GenerationUnavailableError
	assert.True(t, errors.As(err, &unavailable))
	assert.Nil(t, store.activeSession(p.ID))
}

func TestSubmitAnswer_EmptyAnswer(t *testing.T) {
	store := newMemStore()
	p := store.addProfile(&db.Profile{Name: "Ada"})
	b := newTestBuilder(store, &fakeClient{})

	_, err := b.SubmitAnswer(context.Background(), p.ID, "   \n\t")
	require.Error(t, err)

	var invalid *InvalidStateError
	assert.True(t, errors.As(err, &invalid))
}

func TestSubmitAnswer_NoActiveSession(t *testing.T) {
	store := newMemStore()
	p := store.addProfile(&db.Profile{Name: "Ada"})
	b := newTestBuilder(store, &fakeClient{})

	_, err := b.SubmitAnswer(context.Background(), p.ID, "I like building data pipelines.")
	require.Error(t, err)

	var invalid *InvalidStateError
	assert.True(t, errors.As(err, &invalid))
}

func TestSubmitAnswer_ProfileNotFound(t *testing.T) {
	store := newMemStore()
	b := newTestBuilder(store, &fakeClient{})

	_, err := b.SubmitAnswer(context.Background(), uuid.New(), "answer")
	require.Error(t, err)

	var notFound *NotFoundError
	assert.True(t, errors.As(err, &notFound))
}

func TestSubmitAnswer_FollowUpQuestions(t *testing.T) {
	store := newMemStore()
	p := store.addProfile(&db.Profile{Name: "Ada"})
	client := &fakeClient{responses: []any{questionsReply, followUpQuestionsReply}}
	b := newTestBuilder(store, client)

	_, err := b.Start(context.Background(), p.ID, "")
	require.NoError(t, err)

	result, err := b.SubmitAnswer(context.Background(), p.ID, "Deep technical work with a small team.")
	require.NoError(t, err)

	assert.False(t, result.Completed)
	assert.Equal(t, []string{"Where do you want to be in five years?"}, result.Questions)

	session := store.activeSession(p.ID)
	require.NotNil(t, session)
	assert.Equal(t, 2, session.TurnCount())
	assert.Equal(t, "Deep technical work with a small team.", session.Turns[0].Answer)
}

func TestSubmitAnswer_Completion(t *testing.T) {
	store := newMemStore()
	p := store.addProfile(&db.Profile{
		Name:      "Ada",
		Interests: db.StringArray{"databases", "compilers"},
	})
	client := &fakeClient{responses: []any{questionsReply, completionReply}}
	b := newTestBuilder(store, client)

	_, err := b.Start(context.Background(), p.ID, "")
	require.NoError(t, err)

	result, err := b.SubmitAnswer(context.Background(), p.ID, "Mostly backend infrastructure.")
	require.NoError(t, err)

	assert.True(t, result.Completed)
	require.NotNil(t, result.Profile)

	// Set union: existing entries kept, "databases" not duplicated
	assert.Equal(t, db.StringArray{"databases", "compilers", "distributed systems"}, result.Profile.Interests)
	assert.Equal(t, db.StringArray{"Go", "mentoring"}, result.Profile.Strengths)
	assert.Equal(t, "staff engineer", result.Profile.CareerGoals.LongTerm)

	assert.Nil(t, store.activeSession(p.ID), "completed session must no longer be active")
}

func TestSubmitAnswer_GenerationFailureLeavesSessionUntouched(t *testing.T) {
	store := newMemStore()
	p := store.addProfile(&db.Profile{Name: "Ada"})
	client := &fakeClient{responses: []any{questionsReply, errors.New("quota exceeded")}}
	b := newTestBuilder(store, client)

	_, err := b.Start(context.Background(), p.ID, "")
	require.NoError(t, err)

	before := store.activeSession(p.ID)
	beforeTurns := append(db.TurnList{}, before.Turns...)

	_, err = b.SubmitAnswer(context.Background(), p.ID, "An answer that will be lost.")
	require.Error(t, err)

	var unavailable *GenerationUnavailableError
	assert.True(t, errors.As(err, &unavailable))

	after := store.activeSession(p.ID)
	require.NotNil(t, after)
	assert.Equal(t, beforeTurns, after.Turns, "failed call must not change stored history")
	assert.Equal(t, "", after.Turns[0].Answer)
}

func TestSubmitAnswer_InvalidExtractionFailsClosed(t *testing.T) {
	store := newMemStore()
	p := store.addProfile(&db.Profile{Name: "Ada"})
	// Completed reply whose extraction is missing required fields
	badCompletion := `{"completed": true, "extraction": {"interests": []}}`
	client := &fakeClient{responses: []any{questionsReply, badCompletion}}
	b := newTestBuilder(store, client)

	_, err := b.Start(context.Background(), p.ID, "")
	require.NoError(t, err)

	_, err = b.SubmitAnswer(context.Background(), p.ID, "answer")
	require.Error(t, err)

	var unavailable *GenerationUnavailableError
	assert.True(t, errors.As(err, &unavailable))

	// Session still active, profile unchanged
	assert.NotNil(t, store.activeSession(p.ID))
	stored, _ := store.GetProfile(context.Background(), p.ID)
	assert.Empty(t, stored.Interests)
}

func TestSubmitAnswer_TurnBoundForcesExtraction(t *testing.T) {
	store := newMemStore()
	p := store.addProfile(&db.Profile{Name: "Ada"})

	// Adversarial model: never stops asking questions
	responses := []any{questionsReply}
	for i := 0; i < DefaultMaxTurns-1; i++ {
		responses = append(responses, followUpQuestionsReply)
	}
	// The forced extraction call replies in the shape its prompt asks for,
	// the completed-reply wrapper
	responses = append(responses, `{
		"completed": true,
		"extraction": {
			"interests": ["systems"],
			"strengths": ["persistence"],
			"weaknesses": [],
			"career_goals": {"short_term": "any backend role"}
		}
	}`)

	client := &fakeClient{responses: responses}
	b := newTestBuilder(store, client)

	_, err := b.Start(context.Background(), p.ID, "")
	require.NoError(t, err)

	var result *Result
	for i := 0; ; i++ {
		require.Less(t, i, DefaultMaxTurns+1, "session must terminate within the turn bound")
		result, err = b.SubmitAnswer(context.Background(), p.ID, fmt.Sprintf("answer %d", i))
		require.NoError(t, err)
		if result.Completed {
			break
		}
	}

	assert.True(t, result.Completed)
	assert.False(t, result.ExtractionSkipped)
	assert.Equal(t, db.StringArray{"systems"}, result.Profile.Interests)
	assert.Nil(t, store.activeSession(p.ID))
}

func TestParseForcedExtraction(t *testing.T) {
	bare := `{
		"interests": ["systems"],
		"strengths": ["persistence"],
		"weaknesses": [],
		"career_goals": {"short_term": "any backend role"}
	}`
	wrapped := fmt.Sprintf(`{"completed": true, "extraction": %s}`, bare)

	for _, tt := range []struct {
		name string
		raw  string
	}{
		{"completed-reply wrapper", wrapped},
		{"bare extraction object", bare},
		{"fenced wrapper", "```json\n" + wrapped + "\n```"},
	} {
		t.Run(tt.name, func(t *testing.T) {
			e, err := parseForcedExtraction(tt.raw)
			require.NoError(t, err)
			assert.Equal(t, []string{"systems"}, e.Interests)
			assert.Equal(t, "any backend role", e.CareerGoals.ShortTerm)
		})
	}

	_, err := parseForcedExtraction(`{"completed": true, "extraction": null}`)
	assert.Error(t, err)
}

func TestSubmitAnswer_ForcedExtractionFailureStillCompletes(t *testing.T) {
	store := newMemStore()
	p := store.addProfile(&db.Profile{
		Name:      "Ada",
		Interests: db.StringArray{"compilers"},
	})

	responses := []any{questionsReply}
	for i := 0; i < DefaultMaxTurns-1; i++ {
		responses = append(responses, followUpQuestionsReply)
	}
	// Forced extraction fails too
	responses = append(responses, errors.New("backend down"))

	client := &fakeClient{responses: responses}
	b := newTestBuilder(store, client)

	_, err := b.Start(context.Background(), p.ID, "")
	require.NoError(t, err)

	var result *Result
	for i := 0; ; i++ {
		require.Less(t, i, DefaultMaxTurns+1)
		result, err = b.SubmitAnswer(context.Background(), p.ID, fmt.Sprintf("answer %d", i))
		require.NoError(t, err)
		if result.Completed {
			break
		}
	}

	// Session ends; profile keeps its prior values
	assert.True(t, result.Completed)
	assert.True(t, result.ExtractionSkipped)
	assert.Equal(t, db.StringArray{"compilers"}, result.Profile.Interests)
	assert.Nil(t, store.activeSession(p.ID))
}

func TestStart_SessionWriteFailureRollsBack(t *testing.T) {
	store := newMemStore()
	p := store.addProfile(&db.Profile{Name: "Ada"})

	client := &fakeClient{responses: []any{questionsReply}}
	b := newTestBuilder(store, client)

	store.failWrite = true
	_, err := b.Start(context.Background(), p.ID, "")
	require.Error(t, err)

	// The half-initialized session must not survive to be resumed later
	assert.Nil(t, store.activeSession(p.ID))

	store.failWrite = false
	client.responses = []any{questionsReply}
	result, err := b.Start(context.Background(), p.ID, "")
	require.NoError(t, err)
	assert.NotEmpty(t, result.Questions)
}

func TestSubmitAnswer_MaxTurnsConfigurable(t *testing.T) {
	store := newMemStore()
	p := store.addProfile(&db.Profile{Name: "Ada"})

	forced := `{"interests": [], "strengths": [], "weaknesses": [], "career_goals": {"short_term": "x"}}`
	client := &fakeClient{responses: []any{questionsReply, forced}}
	b := New(store, client, &Config{MaxTurns: 1})

	_, err := b.Start(context.Background(), p.ID, "")
	require.NoError(t, err)

	// With MaxTurns=1 the first answer already triggers forced extraction
	result, err := b.SubmitAnswer(context.Background(), p.ID, "only answer")
	require.NoError(t, err)
	assert.True(t, result.Completed)
}

func TestMergeSets(t *testing.T) {
	tests := []struct {
		name     string
		existing db.StringArray
		incoming []string
		expected db.StringArray
	}{
		{
			name:     "union preserves order",
			existing: db.StringArray{"a", "b"},
			incoming: []string{"b", "c"},
			expected: db.StringArray{"a", "b", "c"},
		},
		{
			name:     "case and whitespace insensitive dedup",
			existing: db.StringArray{"Go"},
			incoming: []string{" go ", "Rust"},
			expected: db.StringArray{"Go", "Rust"},
		},
		{
			name:     "empty strings dropped",
			existing: db.StringArray{},
			incoming: []string{"", "  ", "x"},
			expected: db.StringArray{"x"},
		},
		{
			name:     "nil existing",
			existing: nil,
			incoming: []string{"a"},
			expected: db.StringArray{"a"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, mergeSets(tt.existing, tt.incoming))
		})
	}
}

func TestMergeGoals(t *testing.T) {
	existing := db.CareerGoals{ShortTerm: "old", PreferredRoles: []string{"sre"}}

	// Empty incoming keeps existing
	assert.Equal(t, existing, mergeGoals(existing, db.CareerGoals{}))

	// Non-empty incoming replaces wholesale
	incoming := db.CareerGoals{LongTerm: "new"}
	merged := mergeGoals(existing, incoming)
	assert.Equal(t, incoming, merged)
	assert.Empty(t, merged.ShortTerm)
}

func TestParseReply_MarkdownWrapped(t *testing.T) {
	raw := "```json\n" + followUpQuestionsReply + "\n```"
	r, extraction, err := parseReply(raw)
	require.NoError(t, err)
	assert.Nil(t, extraction)
	assert.Len(t, r.Questions, 1)
}

func TestParseReply_NoQuestionsNoExtraction(t *testing.T) {
	_, _, err := parseReply(`{"completed": false, "questions": []}`)
	assert.Error(t, err)
}

func TestParseReply_CompletedWithoutExtraction(t *testing.T) {
	_, _, err := parseReply(`{"completed": true}`)
	assert.Error(t, err)
}
