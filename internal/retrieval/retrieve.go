package retrieval

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/albapepper/scoracle-persona/internal/store"
)

// Store is the read surface the engine retrieves against; *store.Store is
// the production implementation.
type Store interface {
	SearchText(ctx context.Context, domain store.FTSDomain, query string, limit int, strictEscaping bool) ([]store.FTSResult, error)
	SearchGraphByName(ctx context.Context, query string) ([]store.GraphNode, error)
	GraphNeighbors(ctx context.Context, nodeID int, relations []store.GraphRelation, depth int) ([]store.NeighborResult, error)
	GetTeamByName(ctx context.Context, name string) (*store.Team, error)
	GetTeamByID(ctx context.Context, id int) (*store.Team, error)
	ListMatches(ctx context.Context, f store.ListMatchesFilter) ([]store.Match, error)
}

// Config tunes the engine's thresholds and weights.
type Config struct {
	FTSTopKPerDomain int
	FTSTotalCap      int
	GraphMaxDepth    int
	Fusion           FusionWeights
	DepthDecayDepth1 float64
	DepthDecayDepth2 float64
	MaxQueryLength   int
	StrictFTSEscaping bool
}

// Engine is the hybrid retrieval engine: entity/intent parsing, FTS,
// graph traversal, fusion, and fallback, behind one Retrieve call.
type Engine struct {
	store Store
	dict  *EntityDictionary
	cfg   Config
}

// NewEngine constructs a retrieval engine bound to a store and a compiled
// entity dictionary.
func NewEngine(s Store, dict *EntityDictionary, cfg Config) *Engine {
	return &Engine{store: s, dict: dict, cfg: cfg}
}

// Metadata carries parse results and fallback provenance for the caller.
type Metadata struct {
	Intent        Intent
	Entities      []ExtractedEntity
	FallbackStep  int
	FallbackNote  string
	ExtractedDate *time.Time
	OnlyStopWords bool
}

// Result is the contract's return value: the assembled context text, its
// attributable sources, and parse/fallback metadata.
type Result struct {
	ContextText string
	Sources     []Source
	Metadata    Metadata
}

// Retrieve implements the contract: retrieve(query, persona_id?, conversation_state) →
// {context_text, sources, metadata}. personaTeamName seeds graph traversal
// from the persona's own team node when a persona is active; pass "" for none.
func (e *Engine) Retrieve(ctx context.Context, query, personaTeamName string, now time.Time) (*Result, error) {
	trimmed := strings.TrimSpace(query)
	maxLen := e.cfg.MaxQueryLength
	if maxLen <= 0 {
		maxLen = 1000
	}
	if len(trimmed) > maxLen {
		return nil, fmt.Errorf("%w: query exceeds %d characters", ErrInvalidQuery, maxLen)
	}

	entities := e.dict.Extract(trimmed)
	intent := ClassifyIntent(trimmed)
	extractedDate, hasDate := ExtractDate(trimmed, now)
	if IsLatestOrRecent(trimmed) && (intent == IntentScores || intent == IntentFixtures) {
		hasDate = false
	}

	meta := Metadata{Intent: intent, Entities: entities}
	if hasDate {
		meta.ExtractedDate = &extractedDate
	}

	if IsOnlyStopWords(trimmed) {
		meta.OnlyStopWords = true
		return &Result{ContextText: "", Sources: nil, Metadata: meta}, nil
	}

	topK := e.cfg.FTSTopKPerDomain
	if topK <= 0 {
		topK = 5
	}

	var personaTeamID *int
	if personaTeamName != "" {
		if team, err := e.store.GetTeamByName(ctx, personaTeamName); err == nil {
			personaTeamID = &team.ID
		}
	}

	var ftsEvidence, graphEvidence, structuredEvidence []Evidence
	var fallbackStep int
	var fallbackNote string
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		ftsEvidence, err = runFTS(gctx, e.store, trimmed, intent, topK, e.cfg.StrictFTSEscaping)
		return err
	})
	g.Go(func() error {
		var err error
		graphEvidence, err = runGraph(gctx, e.store, entities, personaTeamName, e.cfg.GraphMaxDepth, e.cfg.DepthDecayDepth1, e.cfg.DepthDecayDepth2)
		return err
	})
	g.Go(func() error {
		var err error
		structuredEvidence, fallbackStep, fallbackNote, err = runStructured(gctx, e.store, intent, entities, personaTeamID, meta.ExtractedDate, now)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	meta.FallbackStep = fallbackStep
	meta.FallbackNote = fallbackNote

	totalCap := e.cfg.FTSTotalCap
	if totalCap <= 0 {
		totalCap = 20
	}
	fused := Fuse(append(ftsEvidence, structuredEvidence...), graphEvidence, e.cfg.Fusion, totalCap)

	sort.SliceStable(fused, func(i, j int) bool { return fused[i].Score > fused[j].Score })

	var lines []string
	var sources []Source
	for _, ev := range fused {
		lines = append(lines, ev.Text)
		sources = append(sources, Source{Type: string(ev.Kind), ID: ev.ID})
	}

	return &Result{
		ContextText: strings.Join(lines, "\n"),
		Sources:     sources,
		Metadata:    meta,
	}, nil
}
