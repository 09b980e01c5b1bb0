// Package enhance enriches job records with details inferred by a language
// model. Enhancement is best effort: a record that cannot be enhanced is
// returned unchanged.
package enhance

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/AIbySomnath/Linkdin-Scraper/internal/llm"
	"github.com/AIbySomnath/Linkdin-Scraper/internal/logging"
	"github.com/AIbySomnath/Linkdin-Scraper/internal/normalize"
	"github.com/AIbySomnath/Linkdin-Scraper/internal/prompts"
	"github.com/AIbySomnath/Linkdin-Scraper/internal/types"
)

const (
	promptFile = "enhancement.json"

	// DefaultMaxWords bounds improved_description.
	DefaultMaxWords = 200
	// maxInputChars bounds the description sent to the model.
	maxInputChars = 4000
)

// ErrNoDescription is returned for records with nothing to enhance.
var ErrNoDescription = errors.New("job has no description")

// Enhancer adds inferred fields to a single record.
type Enhancer interface {
	Enhance(ctx context.Context, job types.JobRecord) (types.JobRecord, error)
}

// Noop is the Enhancer used when no model is configured.
type Noop struct{}

// Enhance returns job unchanged.
func (Noop) Enhance(_ context.Context, job types.JobRecord) (types.JobRecord, error) {
	return job, nil
}

// Fields is the model's reply.
type Fields struct {
	Skills              []string `json:"skills"`
	ExperienceLevel     string   `json:"experience_level"`
	JobType             string   `json:"job_type"`
	SalaryRange         string   `json:"salary_range"`
	ImprovedDescription string   `json:"improved_description"`
}

// Schema is the reply shape requested from the model.
func Schema(maxWords int) llm.ExtractionSchema {
	rules, err := prompts.WithPrefix(promptFile, "enhance-job-rule-")
	if err != nil {
		panic(fmt.Sprintf("failed to load enhancement rules: %v", err))
	}
	for i, r := range rules {
		rules[i] = prompts.Format(r, map[string]string{"MaxWords": strconv.Itoa(maxWords)})
	}
	return llm.ExtractionSchema{
		Name:         "JobEnhancement",
		Instructions: prompts.MustGet(promptFile, "enhance-job-instructions"),
		Fields: []llm.SchemaField{
			{Name: "skills", Type: `["string"]`, Description: "technologies and competencies", Required: true},
			{Name: "experience_level", Description: "Entry level, Mid level or Senior level"},
			{Name: "job_type", Description: "Full-time, Part-time, Contract, Internship or Temporary"},
			{Name: "salary_range", Description: "salary stated in the listing"},
			{Name: "improved_description", Description: fmt.Sprintf("at most %d words", maxWords), Required: true},
		},
		Rules: rules,
	}
}

// LLMEnhancer asks a model to fill skills, experience_level, job_type and
// salary_range, and to rewrite the description.
type LLMEnhancer struct {
	client   llm.Client
	tier     llm.ModelTier
	maxWords int
	log      *zap.SugaredLogger
}

// NewLLMEnhancer creates an enhancer on the lite model tier.
func NewLLMEnhancer(client llm.Client, log *zap.SugaredLogger) *LLMEnhancer {
	return &LLMEnhancer{
		client:   client,
		tier:     llm.TierLite,
		maxWords: DefaultMaxWords,
		log:      logging.Component(log, "enhance"),
	}
}

// BuildPrompt renders the enhancement prompt for job.
func (e *LLMEnhancer) BuildPrompt(job types.JobRecord) string {
	input := prompts.Format(prompts.MustGet(promptFile, "enhance-job-input"), map[string]string{
		"Title":       job.Title(),
		"Company":     job.Get("company"),
		"Location":    job.Get("location"),
		"Description": normalize.Truncate(job.Get("description"), maxInputChars),
	})
	return llm.BuildExtractionPrompt(Schema(e.maxWords), input)
}

// Enhance implements Enhancer. The returned record is a copy; job is never
// modified.
func (e *LLMEnhancer) Enhance(ctx context.Context, job types.JobRecord) (types.JobRecord, error) {
	if job.Get("description") == "" {
		return job, ErrNoDescription
	}

	raw, err := e.client.GenerateJSON(ctx, e.BuildPrompt(job), e.tier)
	if err != nil {
		return job, fmt.Errorf("failed to enhance job: %w", err)
	}

	var fields Fields
	if err := json.Unmarshal([]byte(llm.CleanJSONBlock(raw)), &fields); err != nil {
		return job, fmt.Errorf("failed to parse enhancement: %w", err)
	}
	return Merge(job, fields, e.maxWords), nil
}

// Merge copies non-empty fields onto a clone of job. A salary range is only
// written when the record has no salary; the improved description replaces
// the original.
func Merge(job types.JobRecord, f Fields, maxWords int) types.JobRecord {
	out := job.Clone()

	var skills []string
	for _, s := range f.Skills {
		if s = normalize.Clean(s); s != "" {
			skills = append(skills, s)
		}
	}
	if len(skills) > 0 {
		out["skills"] = strings.Join(skills, ", ")
	}
	if v := normalize.Clean(f.ExperienceLevel); v != "" {
		out["experience_level"] = v
	}
	if v := normalize.Clean(f.JobType); v != "" {
		out["job_type"] = v
	}
	if v := normalize.Clean(f.SalaryRange); v != "" && job.Get(types.SalaryFields...) == "" {
		out["salary"] = v
	}
	if v := normalize.Clean(f.ImprovedDescription); v != "" {
		out["description"] = limitWords(v, maxWords)
	}
	return out
}

func limitWords(s string, n int) string {
	words := strings.Fields(s)
	if n <= 0 || len(words) <= n {
		return s
	}
	return strings.Join(words[:n], " ") + "..."
}

// EnhanceAll enhances each record in order. Failures are logged and the
// original record kept. A nil or Noop Enhancer returns jobs as is.
func EnhanceAll(ctx context.Context, e Enhancer, jobs []types.JobRecord, log *zap.SugaredLogger) []types.JobRecord {
	if _, ok := e.(Noop); ok || e == nil {
		return jobs
	}
	log = logging.OrNop(log)

	out := make([]types.JobRecord, len(jobs))
	enhanced := 0
	for i, job := range jobs {
		out[i] = job
		if ctx.Err() != nil {
			continue
		}
		got, err := e.Enhance(ctx, job)
		switch {
		case errors.Is(err, ErrNoDescription):
			continue
		case err != nil:
			log.Warnw("enhancement failed", "title", job.Title(), logging.FieldError, err)
			continue
		}
		out[i] = got
		enhanced++
	}
	log.Infow("enhanced jobs", logging.FieldCount, enhanced, "total", len(jobs))
	return out
}
