package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/albapepper/scoracle-persona/internal/config"
	"github.com/albapepper/scoracle-persona/internal/conversation"
	"github.com/albapepper/scoracle-persona/internal/generator"
	"github.com/albapepper/scoracle-persona/internal/persona"
	"github.com/albapepper/scoracle-persona/internal/retrieval"
	"github.com/albapepper/scoracle-persona/internal/security"
	"github.com/albapepper/scoracle-persona/internal/store"
	"github.com/albapepper/scoracle-persona/internal/telemetry"
)

// ChatRequest is the ingress operation's input: a message, optional
// conversation id (absent/unknown creates a new conversation), and
// optional persona id. SessionID defaults to ConversationID when empty —
// session identity is stable for the life of a conversation, so in the
// absence of a separate auth/session layer the conversation id doubles as
// the security session key.
type ChatRequest struct {
	Message        string
	ConversationID string
	PersonaID      string
	SessionID      string
}

// ChatResponse is the ingress operation's output.
type ChatResponse struct {
	ResponseText   string
	ConversationID string
	Sources        []retrieval.Source
	Confidence     float64
	Usage          *generator.Usage
	Metadata       ResponseMetadata
}

// ResponseMetadata carries the degradation and provenance flags callers
// can observe without seeing raw diagnostics.
type ResponseMetadata struct {
	Deflected       bool
	StoreDegraded   bool
	GeneratorFailed bool
	TrustLevel      store.TrustLevel
	Intent          string
	FallbackStep    int
	CacheHit        bool
}

// Store is the subset of store operations the pipeline touches directly;
// retrieval owns its own read surface. *store.Store is the production
// implementation.
type Store interface {
	GetTeamByID(ctx context.Context, id int) (*store.Team, error)
	GetInjuries(ctx context.Context, teamID *int, status store.InjuryStatus) ([]store.Injury, error)
	CurrentForm(ctx context.Context, teamID int, lastN int) (string, error)
	LoadPersona(ctx context.Context, teamID int) (*store.PersonaIdentity, error)
	AppendSecurityLog(ctx context.Context, e store.SecurityLogEntry) error
	AppendAnalytics(ctx context.Context, r store.AnalyticsRecord) error
	UpsertSessionState(ctx context.Context, r store.SessionTrustRecord) error
}

// Orchestrator wires the four subsystems (store, retrieval, persona,
// conversation) behind the security gate into the single per-request
// pipeline.
type Orchestrator struct {
	store   Store
	engine  *retrieval.Engine
	convs   *conversation.Manager
	sec     *security.Manager
	gen     generator.Generator
	cfg     *config.Config
	metrics *telemetry.Metrics
	logger  *slog.Logger
	now     func() time.Time
}

// New constructs an Orchestrator. metrics may be nil to disable recording.
func New(s Store, engine *retrieval.Engine, convs *conversation.Manager, sec *security.Manager, gen generator.Generator, cfg *config.Config, metrics *telemetry.Metrics, logger *slog.Logger) *Orchestrator {
	return &Orchestrator{
		store: s, engine: engine, convs: convs, sec: sec, gen: gen,
		cfg: cfg, metrics: metrics, logger: logger, now: time.Now,
	}
}

func demoteThresholds(cfg *config.Config) security.DemoteThresholds {
	return security.DemoteThresholds{
		WarnedToNormal:    cfg.TrustDemoteThresholds["warned"],
		CautiousToNormal:  cfg.TrustDemoteThresholds["cautious"],
		ProbationToNormal: cfg.TrustDemoteThresholds["probation"],
	}
}

// Chat runs one request through the full pipeline. The returned error is
// non-nil only for ErrInvalidInput and ErrCancelled — every other failure
// mode (deflection, store outage, generator failure) is absorbed into a
// still-valid ChatResponse: nothing unwinds past this boundary as a raw
// error.
func (o *Orchestrator) Chat(ctx context.Context, req ChatRequest) (*ChatResponse, error) {
	start := o.now()

	// --- 1. Input sanitization ---
	trimmed, ok := Sanitize(req.Message, o.cfg.MaxQueryLength)
	if !ok || trimmed == "" {
		return nil, ErrInvalidInput
	}

	convState := o.convs.Resolve(req.ConversationID, req.PersonaID)
	convState.Mu.Lock()
	defer convState.Mu.Unlock()

	// SessionID defaults to the (now-resolved, always non-empty)
	// conversation id — see the ChatRequest doc comment.
	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = convState.ConversationID
	}

	personaTeamID, hasPersona := o.cfg.TeamIDForPersona(req.PersonaID)

	// --- 2. Security gate ---
	patternID, isInjection := security.Detect(trimmed)
	if sessionID != "" {
		sess := o.sec.Resolve(sessionID)
		outcome := sess.Attempt(isInjection, patternID, demoteThresholds(o.cfg), o.now())
		snap := sess.Snapshot()
		if err := o.store.UpsertSessionState(ctx, snap); err != nil {
			o.logger.Warn("failed to persist session trust state", "session_id", sessionID, "error", err)
		}
		if isInjection {
			o.logSecurity(ctx, sessionID, string(patternID), len(trimmed), "injection")
			if o.metrics != nil {
				o.metrics.RecordTrustPromotion(ctx, string(patternID))
			}
		}

		nickname := ""
		if identity := convState.PersonaCache; identity != nil {
			nickname = identity.Nickname
		}
		delay := security.DelayForLevel(outcome.Level, o.cfg.RateLimitDelaysMS)
		respText, class, bypass := security.Respond(outcome.Level, isInjection, nickname, snap.EscalationCount)
		if bypass {
			if delay > 0 {
				// Release the conversation mutex across the synchronous
				// stall so other requests to this conversation aren't
				// starved by one session's penalty delay.
				convState.Mu.Unlock()
				select {
				case <-time.After(delay):
				case <-ctx.Done():
					convState.Mu.Lock()
					o.appendAnalytics(context.WithoutCancel(ctx), convState.ConversationID, req.PersonaID, "", 0, 0, start, false, true)
					return nil, ErrCancelled
				}
				convState.Mu.Lock()
			}
			conversation.Update(convState, nil, "", nil)
			o.appendAnalytics(ctx, convState.ConversationID, req.PersonaID, "", 0, 0, start, false, false)
			if o.metrics != nil {
				o.metrics.RecordDeflection(ctx, string(class))
			}
			return &ChatResponse{
				ResponseText:   respText,
				ConversationID: convState.ConversationID,
				Confidence:     0,
				Metadata:       ResponseMetadata{Deflected: true, TrustLevel: outcome.Level},
			}, nil
		}
	}

	// --- 3. Conversation resolve (pronoun/ellipsis rewriting) ---
	personaTeamName := ""
	var identity *store.PersonaIdentity
	cacheHit := false
	if hasPersona {
		var err error
		identity, cacheHit, err = o.loadPersona(ctx, convState, personaTeamID)
		if err != nil {
			return o.degradedResponse(ctx, convState, req, start, "store unavailable during persona load"), nil
		}
		if team, err := o.store.GetTeamByID(ctx, personaTeamID); err == nil {
			personaTeamName = team.Name
		}
	}
	if o.metrics != nil {
		o.metrics.RecordCache(ctx, cacheHit)
	}

	resolvedQuery := conversation.Resolve(trimmed, convState, personaTeamName)

	// --- 4. Retrieval ---
	result, err := o.engine.Retrieve(ctx, resolvedQuery, personaTeamName, o.now())
	if err != nil {
		if errors.Is(err, retrieval.ErrInvalidQuery) {
			return nil, ErrInvalidInput
		}
		if errors.Is(err, store.ErrStoreUnavailable) {
			return o.degradedResponse(ctx, convState, req, start, "store unavailable during retrieval"), nil
		}
		return o.degradedResponse(ctx, convState, req, start, "retrieval failed"), nil
	}

	if ctx.Err() != nil {
		o.appendAnalytics(context.WithoutCancel(ctx), convState.ConversationID, req.PersonaID, string(result.Metadata.Intent), len(result.Sources), 0, start, cacheHit, true)
		return nil, ErrCancelled
	}

	if result.Metadata.OnlyStopWords {
		conversation.Update(convState, nil, string(result.Metadata.Intent), nil)
		o.appendAnalytics(ctx, convState.ConversationID, req.PersonaID, string(result.Metadata.Intent), 0, 0, start, cacheHit, false)
		return &ChatResponse{
			ResponseText:   stopWordFallback(identity),
			ConversationID: convState.ConversationID,
			Confidence:     0,
			Metadata:       ResponseMetadata{Intent: string(result.Metadata.Intent)},
		}, nil
	}

	lines := splitLines(result.ContextText)

	// --- 5. Persona enrich ---
	mood := persona.Mood{}
	enrichedLines := lines
	if identity != nil {
		var injuries []store.Injury
		if persona.DetectSquadFitness(resolvedQuery) {
			injuries, _ = o.store.GetInjuries(ctx, &personaTeamID, store.InjuryActive)
		}
		form, _ := o.store.CurrentForm(ctx, personaTeamID, 5)
		enrich := persona.Enrich(resolvedQuery, strings.Join(lines, "\n"), identity, form, persona.Mode(o.cfg.MoodMode), nil, o.now(), injuries)
		mood = enrich.Mood
		enrichedLines = splitLines(enrich.EnrichedContext)
	}

	// --- 6. Conversation dedupe ---
	filtered := conversation.DedupeContext(enrichedLines, convState)
	contextBlock := strings.Join(filtered, "\n")

	// --- 7. Prompt synthesis ---
	systemPrompt := SynthesizePrompt(identity, mood, contextBlock)

	// --- 8. LLM call (retry-once policy) ---
	genResp, genErr := o.generate(ctx, systemPrompt, resolvedQuery)
	if genErr != nil {
		if errors.Is(genErr, ErrCancelled) {
			o.appendAnalytics(context.WithoutCancel(ctx), convState.ConversationID, req.PersonaID, string(result.Metadata.Intent), len(result.Sources), 0, start, cacheHit, true)
			return nil, ErrCancelled
		}
		conversation.Update(convState, entityMap(result.Metadata.Entities), string(result.Metadata.Intent), nil)
		o.appendAnalytics(ctx, convState.ConversationID, req.PersonaID, string(result.Metadata.Intent), len(result.Sources), 0, start, cacheHit, false)
		return &ChatResponse{
			ResponseText:   apology(identity),
			ConversationID: convState.ConversationID,
			Sources:        result.Sources,
			Confidence:     0,
			Metadata: ResponseMetadata{
				GeneratorFailed: true,
				Intent:          string(result.Metadata.Intent),
				FallbackStep:    result.Metadata.FallbackStep,
			},
		}, nil
	}

	// --- 9. Vocabulary enforcement ---
	responseText := genResp.Text
	if identity != nil {
		responseText = EnforceVocabulary(responseText, identity.Vocabulary)
	}

	confidence := deriveConfidence(len(result.Sources))

	// --- 10. Conversation update ---
	conversation.Update(convState, entityMap(result.Metadata.Entities), string(result.Metadata.Intent), filtered)

	// --- 11. Analytics ---
	o.appendAnalytics(ctx, convState.ConversationID, req.PersonaID, string(result.Metadata.Intent), len(result.Sources), confidence, start, cacheHit, false)
	if o.metrics != nil {
		o.metrics.RecordRequest(ctx, string(result.Metadata.Intent), float64(o.now().Sub(start).Milliseconds()), len(result.Sources), confidence)
	}

	return &ChatResponse{
		ResponseText:   responseText,
		ConversationID: convState.ConversationID,
		Sources:        result.Sources,
		Confidence:     confidence,
		Usage:          genResp.Usage,
		Metadata: ResponseMetadata{
			Intent:       string(result.Metadata.Intent),
			FallbackStep: result.Metadata.FallbackStep,
			CacheHit:     cacheHit,
		},
	}, nil
}

// loadPersona returns the persona bundle for teamID, caching it on
// convState on first use; later turns reuse it without a Store read.
func (o *Orchestrator) loadPersona(ctx context.Context, convState *conversation.State, teamID int) (*store.PersonaIdentity, bool, error) {
	if convState.PersonaCache != nil {
		return convState.PersonaCache, true, nil
	}
	identity, err := o.store.LoadPersona(ctx, teamID)
	if err != nil {
		return nil, false, err
	}
	convState.PersonaCache = identity
	return identity, false, nil
}

// generate calls the generator with a retry-once policy.
func (o *Orchestrator) generate(ctx context.Context, systemPrompt, userQuery string) (*generator.Response, error) {
	req := generator.Request{SystemPrompt: systemPrompt, UserQuery: userQuery}
	resp, err := o.gen.Generate(ctx, req)
	if err == nil {
		return resp, nil
	}
	if ctx.Err() != nil {
		return nil, ErrCancelled
	}
	o.logger.Warn("generator call failed, retrying once", "error", err)
	resp, err = o.gen.Generate(ctx, req)
	if err == nil {
		return resp, nil
	}
	if ctx.Err() != nil {
		return nil, ErrCancelled
	}
	return nil, fmt.Errorf("%w: %v", generator.ErrGeneratorUnavailable, err)
}

// degradedResponse handles a Store outage: a graceful "no data available"
// response with confidence 0, still updating the conversation's turn
// counter and logging the event.
func (o *Orchestrator) degradedResponse(ctx context.Context, convState *conversation.State, req ChatRequest, start time.Time, reason string) *ChatResponse {
	o.logger.Warn("store unavailable, degrading gracefully", "reason", reason, "conversation_id", convState.ConversationID)
	conversation.Update(convState, nil, "", nil)
	o.appendAnalytics(ctx, convState.ConversationID, req.PersonaID, "", 0, 0, start, false, false)
	return &ChatResponse{
		ResponseText:   "Sorry, I can't pull that up right now — no data available.",
		ConversationID: convState.ConversationID,
		Confidence:     0,
		Metadata:       ResponseMetadata{StoreDegraded: true},
	}
}

func (o *Orchestrator) logSecurity(ctx context.Context, sessionID, patternID string, rawLen int, class string) {
	err := o.store.AppendSecurityLog(ctx, store.SecurityLogEntry{
		SessionID: sessionID, OccurredAt: o.now(), PatternID: patternID,
		RawLength: rawLen, ResponseClass: class,
	})
	if err != nil {
		o.logger.Warn("failed to append security log", "error", err)
	}
}

func (o *Orchestrator) appendAnalytics(ctx context.Context, conversationID, personaID, intent string, sourceCount int, confidence float64, start time.Time, cacheHit, cancelled bool) {
	err := o.store.AppendAnalytics(ctx, store.AnalyticsRecord{
		ConversationID: conversationID, PersonaID: personaID, Intent: intent,
		SourceCount: sourceCount, Confidence: confidence,
		LatencyMS: o.now().Sub(start).Milliseconds(), CacheHit: cacheHit,
		Cancelled: cancelled, OccurredAt: o.now(),
	})
	if err != nil {
		o.logger.Warn("failed to append analytics", "error", err)
	}
}

func splitLines(text string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	parts := strings.Split(text, "\n")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if strings.TrimSpace(p) != "" {
			out = append(out, p)
		}
	}
	return out
}

func entityMap(entities []retrieval.ExtractedEntity) map[string][]string {
	out := make(map[string][]string)
	for _, e := range entities {
		out[e.Kind.String()] = append(out[e.Kind.String()], e.Name)
	}
	return out
}

// deriveConfidence is the source-count heuristic used when the generator
// reports no confidence of its own: bounded to [0,1], rising with the
// number of attributable sources.
func deriveConfidence(sourceCount int) float64 {
	if sourceCount <= 0 {
		return 0
	}
	c := 0.5 + 0.05*float64(sourceCount)
	if c > 1 {
		c = 1
	}
	return c
}

func stopWordFallback(identity *store.PersonaIdentity) string {
	if identity != nil {
		return fmt.Sprintf("%s here — ask me something about the team!", identity.Nickname)
	}
	return "Ask me something about a team, player, or match!"
}

func apology(identity *store.PersonaIdentity) string {
	if identity != nil {
		return fmt.Sprintf("%s here — sorry, I'm having trouble finding the words right now. Try again in a moment.", identity.Nickname)
	}
	return "Sorry, I'm having trouble responding right now. Try again in a moment."
}
