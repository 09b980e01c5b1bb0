// Package orchestrator runs a search plan through the extraction tiers in
// fallback order and stops at the first tier that returns jobs.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/AIbySomnath/Linkdin-Scraper/internal/db"
	"github.com/AIbySomnath/Linkdin-Scraper/internal/enhance"
	"github.com/AIbySomnath/Linkdin-Scraper/internal/extraction"
	"github.com/AIbySomnath/Linkdin-Scraper/internal/filter"
	"github.com/AIbySomnath/Linkdin-Scraper/internal/logging"
	"github.com/AIbySomnath/Linkdin-Scraper/internal/scraper"
	"github.com/AIbySomnath/Linkdin-Scraper/internal/types"
)

// State is a step of the fallback state machine.
type State string

const (
	StatePlanning    State = "PLANNING"
	StateLightweight State = "TIER_LIGHTWEIGHT"
	StateDedicated   State = "TIER_DEDICATED"
	StateBrowser     State = "TIER_BROWSER"
	StateStatic      State = "TIER_STATIC"
	StateDone        State = "DONE"
)

// Status messages for outcomes that do not name a tier.
const (
	StatusNoPlan          = "no plan provided"
	StatusNoJobs          = "no jobs found"
	StatusStatic          = "fell back to static sample data"
	StatusFiltersRelaxed  = "filters matched nothing; returning unfiltered sample data"
	StatusNoFilterMatches = "no jobs matched filters"
)

// ErrNoPlan is reported when Run is called without a plan.
var ErrNoPlan = errors.New("no search plan provided")

// DedicatedTier is a tier that only serves some sites.
type DedicatedTier interface {
	scraper.Tier
	Handles(site string) bool
}

// Tiers holds the tier implementations. Nil tiers are skipped.
type Tiers struct {
	Lightweight scraper.Tier
	Dedicated   DedicatedTier
	Browser     scraper.Tier
	Static      scraper.Tier
}

// Recorder persists finished runs. *db.DB implements it.
type Recorder interface {
	RecordRun(ctx context.Context, run *db.SearchRun) error
}

// Options configures an Orchestrator. Every field is optional.
type Options struct {
	Filter       *filter.Engine
	Enhancer     enhance.Enhancer
	Logger       *zap.SugaredLogger
	Recorder     Recorder
	OnTransition func(from, to State)
}

// Attempt is one tier invocation.
type Attempt struct {
	Tier     types.Tier
	Jobs     int
	Err      error
	Duration time.Duration
}

// Outcome is the result of one Run.
type Outcome struct {
	RunID    uuid.UUID
	Plan     types.SearchPlan
	Jobs     []types.JobRecord
	Tier     types.Tier
	Method   extraction.Method
	Status   string
	States   []State
	Attempts []Attempt
	Err      error
}

// Orchestrator drives the fallback sequence. It holds no per-run state and
// may be reused, but each Run is sequential.
type Orchestrator struct {
	tiers  Tiers
	filter *filter.Engine
	enh    enhance.Enhancer
	rec    Recorder
	onStep func(from, to State)
	log    *zap.SugaredLogger
}

// New creates an orchestrator over tiers.
func New(tiers Tiers, opts Options) *Orchestrator {
	f := opts.Filter
	if f == nil {
		f = filter.New(opts.Logger)
	}
	enh := opts.Enhancer
	if enh == nil {
		enh = enhance.Noop{}
	}
	return &Orchestrator{
		tiers:  tiers,
		filter: f,
		enh:    enh,
		rec:    opts.Recorder,
		onStep: opts.OnTransition,
		log:    logging.Component(opts.Logger, "orchestrator"),
	}
}

type step struct {
	state State
	tier  scraper.Tier
}

// sequence returns the tiers to try for site. LinkedIn goes to the dedicated
// tier first; other sites try it only when it handles them.
func (o *Orchestrator) sequence(site string) []step {
	var dedicated scraper.Tier
	if o.tiers.Dedicated != nil && o.tiers.Dedicated.Handles(site) {
		dedicated = o.tiers.Dedicated
	}

	var steps []step
	if types.IsLinkedIn(site) {
		steps = []step{{StateDedicated, dedicated}, {StateLightweight, o.tiers.Lightweight}}
	} else {
		steps = []step{{StateLightweight, o.tiers.Lightweight}, {StateDedicated, dedicated}}
	}
	steps = append(steps, step{StateBrowser, o.tiers.Browser}, step{StateStatic, o.tiers.Static})

	out := steps[:0]
	for _, s := range steps {
		if s.tier != nil {
			out = append(out, s)
		}
	}
	return out
}

type run struct {
	o       *Orchestrator
	outcome Outcome
	state   State
	log     *zap.SugaredLogger
}

func (r *run) to(next State) {
	r.log.Debugw("state transition", "from", string(r.state), logging.FieldState, string(next))
	if r.o.onStep != nil {
		r.o.onStep(r.state, next)
	}
	r.state = next
	r.outcome.States = append(r.outcome.States, next)
}

// Run executes plan. It only fails for a nil plan; tier failures move on to
// the next tier and are reported in Outcome.Attempts.
func (o *Orchestrator) Run(ctx context.Context, plan *types.SearchPlan) Outcome {
	if plan == nil {
		return Outcome{Tier: types.TierNone, Method: extraction.MethodNone, Status: StatusNoPlan, Err: ErrNoPlan}
	}

	started := time.Now()
	r := &run{o: o, outcome: Outcome{RunID: uuid.New(), Tier: types.TierNone, Method: extraction.MethodNone}}
	r.log = o.log.With(logging.FieldRunID, r.outcome.RunID.String())
	r.state = StatePlanning
	r.outcome.States = []State{StatePlanning}
	if o.onStep != nil {
		o.onStep("", StatePlanning)
	}

	p := o.prepare(*plan, r.log)
	r.outcome.Plan = p
	r.log.Infow("starting search",
		logging.FieldSite, p.Site,
		"search_term", p.SearchTerm,
		"location", p.Location,
		"filters", p.Filters,
		"max_jobs", p.MaxJobs)

	var hit *scraper.Result
	for _, s := range o.sequence(p.Site) {
		r.to(s.state)
		res := o.attempt(ctx, s.tier, p, r.log)
		r.outcome.Attempts = append(r.outcome.Attempts, Attempt{
			Tier: s.tier.Name(), Jobs: len(res.Jobs), Err: res.Err, Duration: res.duration,
		})
		if !res.Empty() {
			hit = &res.Result
			break
		}
	}

	if hit == nil {
		r.outcome.Status = StatusNoJobs
	} else {
		o.finish(ctx, r, p, *hit)
	}
	r.to(StateDone)

	r.log.Infow("search finished",
		logging.FieldTier, string(r.outcome.Tier),
		logging.FieldMethod, string(r.outcome.Method),
		logging.FieldCount, len(r.outcome.Jobs),
		logging.FieldStatus, r.outcome.Status,
		logging.FieldDurationMS, time.Since(started).Milliseconds())

	o.record(ctx, &r.outcome, started, r.log)
	return r.outcome
}

// prepare applies defaults and repairs what validation rejects.
func (o *Orchestrator) prepare(plan types.SearchPlan, log *zap.SugaredLogger) types.SearchPlan {
	p := plan.WithDefaults()
	if err := p.Validate(); err != nil {
		log.Warnw("repairing invalid plan", logging.FieldError, err)
		p = Repair(p)
	}
	return p
}

// Repair drops or clips the plan values that fail validation.
func Repair(p types.SearchPlan) types.SearchPlan {
	known := map[string]bool{}
	for _, f := range types.KnownFields {
		known[f] = true
	}
	fields := make([]string, 0, len(p.Fields))
	for _, f := range p.Fields {
		if known[f] {
			fields = append(fields, f)
		}
	}
	if len(fields) == 0 {
		fields = append(fields, types.DefaultFields...)
	}
	p.Fields = fields

	if len(p.Filters) > types.MaxFilters {
		p.Filters = p.Filters[:types.MaxFilters]
	}
	for i, f := range p.Filters {
		p.Filters[i] = clip(f, 200)
	}
	p.Site = clip(p.Site, 100)
	p.SearchTerm = clip(p.SearchTerm, 200)
	p.Location = clip(p.Location, 200)
	return p
}

func clip(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

type timedResult struct {
	scraper.Result
	duration time.Duration
}

// attempt runs one tier. Tiers recover their own panics; this catches
// implementations that do not.
func (o *Orchestrator) attempt(ctx context.Context, tier scraper.Tier, p types.SearchPlan, log *zap.SugaredLogger) (res timedResult) {
	start := time.Now()
	name := tier.Name()
	defer func() {
		if rec := recover(); rec != nil {
			log.Errorw("tier panicked", logging.FieldTier, string(name), "panic", rec)
			res = timedResult{Result: scraper.Result{Tier: name, Method: extraction.MethodNone, Err: fmt.Errorf("%s tier panicked: %v", name, rec)}}
		}
		res.duration = time.Since(start)
	}()

	res.Result = tier.Scrape(ctx, p)
	if res.Tier == "" {
		res.Tier = name
	}
	if res.Err != nil {
		log.Infow("tier failed", logging.FieldTier, string(name), logging.FieldError, res.Err)
	} else {
		log.Infow("tier finished", logging.FieldTier, string(name), logging.FieldCount, len(res.Jobs))
	}
	return res
}

// finish filters, enhances, truncates, canonicalizes and projects the
// winning result onto the plan's fields.
func (o *Orchestrator) finish(ctx context.Context, r *run, p types.SearchPlan, hit scraper.Result) {
	r.outcome.Tier, r.outcome.Method = hit.Tier, hit.Method

	jobs := hit.Jobs
	relaxed := false
	if len(p.Filters) > 0 {
		filtered := o.filter.Apply(jobs, p.Filters)
		switch {
		case len(filtered) > 0:
			jobs = filtered
		case hit.Tier == types.TierStatic:
			relaxed = true
			r.log.Infow("filters removed every sample; keeping unfiltered matches", "filters", p.Filters)
		default:
			r.outcome.Status = StatusNoFilterMatches
			return
		}
	}

	jobs = enhance.EnhanceAll(ctx, o.enh, jobs, r.log)
	if len(jobs) > p.MaxJobs {
		jobs = jobs[:p.MaxJobs]
	}
	r.outcome.Jobs = types.ProjectAll(types.CanonicalizeAll(jobs), p.Fields)

	switch {
	case relaxed:
		r.outcome.Status = StatusFiltersRelaxed
	case hit.Tier == types.TierStatic:
		r.outcome.Status = StatusStatic
	default:
		r.outcome.Status = fmt.Sprintf("extracted %d jobs via %s (%s)", len(r.outcome.Jobs), hit.Tier, hit.Method)
	}
}

func (o *Orchestrator) record(ctx context.Context, out *Outcome, started time.Time, log *zap.SugaredLogger) {
	if o.rec == nil {
		return
	}
	run := &db.SearchRun{
		ID:          out.RunID,
		Site:        out.Plan.Site,
		SearchTerm:  out.Plan.SearchTerm,
		Location:    out.Plan.Location,
		Filters:     out.Plan.Filters,
		Tier:        string(out.Tier),
		Method:      string(out.Method),
		Status:      out.Status,
		JobCount:    len(out.Jobs),
		StartedAt:   started,
		CompletedAt: time.Now(),
	}
	if err := lastError(out.Attempts); err != nil && len(out.Jobs) == 0 {
		run.Error = err.Error()
	}
	if err := o.rec.RecordRun(ctx, run); err != nil {
		log.Warnw("failed to record run", logging.FieldError, err)
	}
}

func lastError(attempts []Attempt) error {
	for i := len(attempts) - 1; i >= 0; i-- {
		if attempts[i].Err != nil {
			return attempts[i].Err
		}
	}
	return nil
}
