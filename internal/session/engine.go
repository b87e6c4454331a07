package session

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"goalkeep/internal/analyzer"
	"goalkeep/internal/behavior"
	"goalkeep/internal/cognitive"
	"goalkeep/internal/config"
	"goalkeep/internal/llm"
	"goalkeep/internal/logging"
	"goalkeep/internal/signal"
	"goalkeep/internal/store"
	"goalkeep/internal/transcript"
)

// EventType tags an engine event.
type EventType string

const (
	EventDrift       EventType = "drift"
	EventInsight     EventType = "insight"
	EventActions     EventType = "actions"
	EventObservation EventType = "observation"
)

// Event is an asynchronous analyzer result surfaced to the UI.
type Event struct {
	Type         EventType
	Drift        *analyzer.DriftSignal
	Insight      *transcript.Insight
	ActionsAdded int
	Observation  *behavior.PendingObservation
}

// Engine owns one live session and the analyzer stack around it.
//
// Local analyzers run synchronously on the caller's goroutine. LLM-backed
// analyzers run on their own goroutines; each is single-flight via its
// throttle, results are applied under the engine lock last-write-wins,
// and there is no ordering guarantee across analyzer types.
type Engine struct {
	cfg    *config.Config
	client llm.Client

	sessions      *Repository
	behaviorRepo  *store.BehaviorRepository
	cognitiveRepo *store.CognitiveRepository
	insightRepo   *store.InsightRepository
	clipRepo      *store.ClipRepository

	mu       sync.Mutex
	state    *State
	keywords map[string]struct{}

	extractor *signal.Extractor
	momentum  *signal.MomentumEstimator

	driftAn   *analyzer.DriftAnalyzer
	insightAn *analyzer.InsightAnalyzer
	actionAn  *analyzer.ActionAnalyzer
	unifiedAn *analyzer.UnifiedAnalyzer

	behavior  *behavior.Profile
	inferrer  *behavior.Inferrer
	cognitive *cognitive.Profile
	blender   *cognitive.Blender
	insights  *transcript.InsightHistory

	policy DriftPolicy

	events chan Event
	wg     sync.WaitGroup
}

// NewEngine assembles an engine for a session. Profiles and history are
// loaded once here; saves happen at explicit boundaries, not as ambient
// side effects.
func NewEngine(cfg *config.Config, client llm.Client, kv store.KV, st *State) *Engine {
	acfg := analyzer.FromAnalysis(cfg.Analysis)

	e := &Engine{
		cfg:    cfg,
		client: client,

		sessions:      NewRepository(kv),
		behaviorRepo:  store.NewBehaviorRepository(kv),
		cognitiveRepo: store.NewCognitiveRepository(kv),
		insightRepo:   store.NewInsightRepository(kv, cfg.Analysis.InsightHistoryMax),
		clipRepo:      store.NewClipRepository(kv),

		state:    st,
		keywords: signal.ExtractKeywords(st.Goal),

		extractor: signal.NewExtractor(signal.ExtractorOptions{
			MinLen: cfg.Analysis.ActionTextMinLen,
			MaxLen: cfg.Analysis.ActionTextMaxLen,
		}),
		momentum: signal.NewMomentumEstimator(momentumOptions(cfg.Analysis)),

		driftAn:   analyzer.NewDriftAnalyzer(client, acfg),
		insightAn: analyzer.NewInsightAnalyzer(client, acfg),
		actionAn:  analyzer.NewActionAnalyzer(client, acfg),
		unifiedAn: analyzer.NewUnifiedAnalyzer(client, acfg),

		inferrer: behavior.NewInferrer(behavior.InferrerConfig{
			MinSamples:          cfg.Analysis.TraitMinSamples,
			ObservationCooldown: cfg.GetObservationCooldown(),
			HintConfidenceMin:   cfg.Analysis.TraitConfidenceMin,
		}),
		blender: cognitive.NewBlender(cognitive.BlenderConfig{
			Keep:  cfg.Analysis.SmoothingKeep,
			Blend: cfg.Analysis.SmoothingBlend,
		}),

		policy: DriftPolicy{
			BaseThreshold: cfg.Analysis.DriftThreshold,
			HighThreshold: cfg.Analysis.DriftHighSensitivity,
		},

		events: make(chan Event, 16),
	}

	e.behavior = e.behaviorRepo.Load()
	e.cognitive = e.cognitiveRepo.Load()
	e.insights = e.insightRepo.Load()
	e.momentum.Restore(st.Momentum)

	return e
}

func momentumOptions(a config.AnalysisConfig) signal.MomentumOptions {
	opts := signal.DefaultMomentumOptions()
	opts.SmoothingKeep = a.SmoothingKeep
	opts.SmoothingBlend = a.SmoothingBlend
	return opts
}

// Events exposes asynchronous analyzer results. The channel is buffered;
// events are dropped, not blocked on, when nobody is listening.
func (e *Engine) Events() <-chan Event {
	return e.events
}

// State returns the live session state. Callers must treat it as
// read-only outside the engine.
func (e *Engine) State() *State {
	return e.state
}

// Behavior returns the behavioral profile.
func (e *Engine) Behavior() *behavior.Profile { return e.behavior }

// Cognitive returns the cognitive profile.
func (e *Engine) Cognitive() *cognitive.Profile { return e.cognitive }

// Insights returns the insight history.
func (e *Engine) Insights() *transcript.InsightHistory { return e.insights }

// Hints returns the current personalization hints.
func (e *Engine) Hints() behavior.Hints {
	return e.inferrer.PersonalizationHints(e.behavior)
}

// SetGoal updates the session goal and recomputes the keyword set.
func (e *Engine) SetGoal(goal string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.state.Goal = goal
	e.keywords = signal.ExtractKeywords(goal)
}

// Send appends the user message, obtains the assistant reply, runs the
// local analyzers synchronously and kicks the LLM analyzers off in the
// background. The session is saved before returning.
func (e *Engine) Send(ctx context.Context, text string) (transcript.Message, error) {
	userMsg := transcript.NewMessage(transcript.RoleUser, text)

	e.mu.Lock()
	e.state.Transcript.Append(userMsg)
	e.mu.Unlock()

	reply, err := e.client.CompleteWithSystem(ctx, e.chatSystemPrompt(), e.chatPrompt())
	if err != nil {
		// The user message stays in the transcript; the turn just has no reply.
		_ = e.SaveSession()
		return transcript.Message{}, fmt.Errorf("completion failed: %w", err)
	}

	assistantMsg := transcript.NewMessage(transcript.RoleAssistant, reply)

	e.mu.Lock()
	e.state.Transcript.Append(assistantMsg)
	e.runLocalLocked(assistantMsg)
	e.mu.Unlock()

	e.spawnAnalyzers(ctx)

	if err := e.SaveSession(); err != nil {
		logging.Get(logging.CategorySession).Error("save after send: %v", err)
	}
	return assistantMsg, nil
}

// chatSystemPrompt includes the goal and the personalization preferences
// that shape reply style.
func (e *Engine) chatSystemPrompt() string {
	var b strings.Builder
	b.WriteString("You are a focused assistant helping the user pursue a stated goal.\n")
	if goal := strings.TrimSpace(e.state.Goal); goal != "" {
		b.WriteString("The user's goal: " + goal + "\n")
		b.WriteString("Keep your answers anchored to this goal; gently flag digressions.\n")
	}
	switch e.cognitive.Preferences.BriefVsDetailed {
	case "brief":
		b.WriteString("Keep replies brief.\n")
	case "detailed":
		b.WriteString("The user prefers thorough, detailed replies.\n")
	}
	if hints := e.Hints(); hints.PromptForAlternatives != nil && *hints.PromptForAlternatives {
		b.WriteString("When proposing a course of action, offer one alternative.\n")
	}
	return b.String()
}

func (e *Engine) chatPrompt() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state.Transcript.Window(e.cfg.Analysis.PromptWindowMessages, 0)
}

// runLocalLocked runs the zero-latency analyzers. Caller holds e.mu.
func (e *Engine) runLocalLocked(assistantMsg transcript.Message) {
	e.state.Momentum = e.momentum.Update(e.state.Transcript.Messages)

	items := e.extractor.AnalyzeMessage(assistantMsg)
	if added := e.state.Actions.Merge(items); added > 0 {
		for i := 0; i < added; i++ {
			e.behavior.RecordActionItemCreated()
		}
		e.emit(Event{Type: EventActions, ActionsAdded: added})
	}

	if signal.CheckForHighlight(assistantMsg) {
		logging.Get(logging.CategoryInsight).Debug("highlight keyword in message %s", assistantMsg.ID)
	}
}

// spawnAnalyzers starts the LLM-backed analyzers. Each is independently
// throttled and single-flight; results race by design and are applied
// last-write-wins.
func (e *Engine) spawnAnalyzers(ctx context.Context) {
	snapshot := e.snapshotTranscript()
	goal := e.state.Goal

	e.wg.Add(3)
	go func() {
		defer e.wg.Done()
		sig, err := e.driftAn.Analyze(ctx, snapshot, goal)
		if err != nil {
			logging.Get(logging.CategoryDrift).Error("drift analyzer: %v", err)
			return
		}
		if sig == nil {
			return
		}
		e.applyDrift(sig, snapshot)
	}()
	go func() {
		defer e.wg.Done()
		in, err := e.insightAn.Analyze(ctx, snapshot, goal)
		if err != nil {
			logging.Get(logging.CategoryInsight).Error("insight analyzer: %v", err)
			return
		}
		if in == nil {
			return
		}
		e.applyInsight(in)
	}()
	go func() {
		defer e.wg.Done()
		items, err := e.actionAn.Analyze(ctx, snapshot)
		if err != nil {
			logging.Get(logging.CategoryActions).Error("action analyzer: %v", err)
			return
		}
		if len(items) == 0 {
			return
		}
		e.applyActions(items)
	}()
}

func (e *Engine) snapshotTranscript() *transcript.Transcript {
	e.mu.Lock()
	defer e.mu.Unlock()
	msgs := make([]transcript.Message, len(e.state.Transcript.Messages))
	copy(msgs, e.state.Transcript.Messages)
	return &transcript.Transcript{Messages: msgs}
}

func (e *Engine) applyDrift(sig *analyzer.DriftSignal, snapshot *transcript.Transcript) {
	e.mu.Lock()
	heur := signal.CheckDrift(snapshot.Messages, e.keywords, signal.DriftOptions{
		Threshold:   e.cfg.Analysis.DriftThreshold,
		MinMessages: e.cfg.Analysis.DriftMinMessages,
		Window:      e.cfg.Analysis.DriftWindow,
	})
	hints := e.inferrer.PersonalizationHints(e.behavior)
	alert := e.policy.ShouldAlert(heur, sig, hints)
	e.mu.Unlock()

	if alert {
		e.emit(Event{Type: EventDrift, Drift: sig})
	}
}

func (e *Engine) applyInsight(in *transcript.Insight) {
	e.mu.Lock()
	e.insights.Add(*in)
	e.inferrer.Analyze(e.behavior)
	obs := e.inferrer.GenerateObservations(e.behavior)
	e.mu.Unlock()

	e.emit(Event{Type: EventInsight, Insight: in})
	for i := range obs {
		e.emit(Event{Type: EventObservation, Observation: &obs[i]})
	}
	if err := e.insightRepo.Save(e.insights); err != nil {
		logging.Get(logging.CategoryInsight).Error("save insight history: %v", err)
	}
	if err := e.behaviorRepo.Save(e.behavior); err != nil {
		logging.Get(logging.CategoryBehavior).Error("save behavioral profile: %v", err)
	}
}

func (e *Engine) applyActions(items []transcript.ActionItem) {
	e.mu.Lock()
	added := e.state.Actions.Merge(items)
	for i := 0; i < added; i++ {
		e.behavior.RecordActionItemCreated()
	}
	e.mu.Unlock()

	if added > 0 {
		e.emit(Event{Type: EventActions, ActionsAdded: added})
	}
}

// AnalyzeNow runs the three single-purpose analyzers concurrently,
// bypassing their throttles' intervals only to the extent the intervals
// allow. Used by the one-shot analyze command.
func (e *Engine) AnalyzeNow(ctx context.Context) error {
	snapshot := e.snapshotTranscript()
	goal := e.state.Goal

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		sig, err := e.driftAn.Analyze(ctx, snapshot, goal)
		if err != nil {
			return err
		}
		if sig != nil {
			e.applyDrift(sig, snapshot)
		}
		return nil
	})
	g.Go(func() error {
		in, err := e.insightAn.Analyze(ctx, snapshot, goal)
		if err != nil {
			return err
		}
		if in != nil {
			e.applyInsight(in)
		}
		return nil
	})
	g.Go(func() error {
		items, err := e.actionAn.Analyze(ctx, snapshot)
		if err != nil {
			return err
		}
		if len(items) > 0 {
			e.applyActions(items)
		}
		return nil
	})
	return g.Wait()
}

// AnalyzeUnified runs the combined single-call analysis.
func (e *Engine) AnalyzeUnified(ctx context.Context) (*analyzer.UnifiedResult, error) {
	snapshot := e.snapshotTranscript()
	result, err := e.unifiedAn.Analyze(ctx, snapshot, e.state.Goal)
	if err != nil || result == nil {
		return nil, err
	}
	if result.Drift != nil {
		e.applyDrift(result.Drift, snapshot)
	}
	if result.Insight != nil {
		e.applyInsight(result.Insight)
	}
	if len(result.Actions) > 0 {
		e.applyActions(result.Actions)
	}
	return result, nil
}

// AcceptInsight records the user keeping an insight.
func (e *Engine) AcceptInsight(id string) {
	e.mu.Lock()
	e.behavior.RecordInsightAccepted()
	e.mu.Unlock()
	e.saveBehavior()
}

// DismissInsight removes an insight and records the dismissal.
func (e *Engine) DismissInsight(id string) {
	e.mu.Lock()
	e.insights.Remove(id)
	e.behavior.RecordInsightDismissed()
	e.mu.Unlock()
	if err := e.insightRepo.Save(e.insights); err != nil {
		logging.Get(logging.CategoryInsight).Error("save insight history: %v", err)
	}
	e.saveBehavior()
}

// ToggleAction toggles an action item's completed flag.
func (e *Engine) ToggleAction(id string) bool {
	e.mu.Lock()
	ok := e.state.Actions.Complete(id)
	if ok {
		e.behavior.RecordActionItemCompleted()
	}
	e.mu.Unlock()
	if ok {
		e.saveBehavior()
	}
	return ok
}

// DismissAction dismisses an action item.
func (e *Engine) DismissAction(id string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state.Actions.Dismiss(id)
}

// AddClip saves a clip and feeds the capture-style counters.
func (e *Engine) AddClip(text, category, sourceMessageID string) error {
	clip := transcript.NewClip(text, category, sourceMessageID)

	e.mu.Lock()
	e.behavior.RecordClip(category)
	e.mu.Unlock()

	clips := e.clipRepo.LoadClips()
	clips = append(clips, clip)
	if err := e.clipRepo.SaveClips(clips); err != nil {
		return err
	}
	e.saveBehavior()
	return nil
}

// RespondObservation records the user's answer to a pending observation.
func (e *Engine) RespondObservation(id string, resp behavior.ObservationResponse) bool {
	e.mu.Lock()
	ok := e.inferrer.Respond(e.behavior, id, resp)
	e.mu.Unlock()
	if ok {
		e.saveBehavior()
	}
	return ok
}

// MergeCognitive folds an observed cognitive update into the profile.
func (e *Engine) MergeCognitive(u cognitive.Update) {
	e.mu.Lock()
	e.blender.Merge(e.cognitive, u)
	e.mu.Unlock()
	if err := e.cognitiveRepo.Save(e.cognitive); err != nil {
		logging.Get(logging.CategoryCognitive).Error("save cognitive profile: %v", err)
	}
}

// SaveSession persists the live session state.
func (e *Engine) SaveSession() error {
	e.mu.Lock()
	e.state.Momentum = e.momentum.Current()
	st := e.state
	e.mu.Unlock()
	return e.sessions.Save(st)
}

// Close waits for outstanding analyzer goroutines and performs the final
// session-boundary save of everything the engine owns.
func (e *Engine) Close() error {
	e.wg.Wait()
	if err := e.SaveSession(); err != nil {
		return err
	}
	e.saveBehavior()
	if err := e.cognitiveRepo.Save(e.cognitive); err != nil {
		return err
	}
	return e.insightRepo.Save(e.insights)
}

func (e *Engine) saveBehavior() {
	if err := e.behaviorRepo.Save(e.behavior); err != nil {
		logging.Get(logging.CategoryBehavior).Error("save behavioral profile: %v", err)
	}
}

func (e *Engine) emit(ev Event) {
	select {
	case e.events <- ev:
	default:
		// nobody listening; drop rather than block an analyzer goroutine
	}
}
