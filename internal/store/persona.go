package store

import (
	"context"
	"encoding/json"
	"fmt"
)

// personaPayload mirrors the JSON shape produced by the persona_payload
// Postgres function — the atomic read backing LoadPersona.
type personaPayload struct {
	TeamID            int      `json:"team_id"`
	Nickname          string   `json:"nickname"`
	Motto             string   `json:"motto"`
	CoreValues        []string `json:"core_values"`
	ForbiddenTopics   []string `json:"forbidden_topics"`
	EmotionalBaseline string   `json:"emotional_baseline"`
	Vocabulary        []struct {
		Word        string `json:"word"`
		Replacement string `json:"replacement"`
	} `json:"vocabulary"`
	Rivals []struct {
		TeamName  string   `json:"team_name"`
		Intensity int      `json:"intensity"`
		Origin    string   `json:"origin"`
		Banter    []string `json:"banter"`
	} `json:"rivals"`
	Legends []struct {
		Name    string `json:"name"`
		Summary string `json:"summary"`
	} `json:"legends"`
	Moments []struct {
		Summary  string  `json:"summary"`
		Date     *string `json:"date"`
		Opponent string  `json:"opponent"`
	} `json:"moments"`
}

// LoadPersona assembles the per-identity bundle in one atomic read.
func (s *Store) LoadPersona(ctx context.Context, teamID int) (*PersonaIdentity, error) {
	row := s.pool.QueryRow(ctx, "load_persona", teamID)
	var raw []byte
	if err := row.Scan(&raw); err != nil {
		return nil, wrapErr(err)
	}

	var p personaPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("%w: decode persona payload: %v", ErrStoreUnavailable, err)
	}

	identity := &PersonaIdentity{
		TeamID:            p.TeamID,
		Nickname:          p.Nickname,
		Motto:             p.Motto,
		CoreValues:        p.CoreValues,
		ForbiddenTopics:   p.ForbiddenTopics,
		EmotionalBaseline: p.EmotionalBaseline,
	}
	for _, v := range p.Vocabulary {
		identity.Vocabulary = append(identity.Vocabulary, VocabularyRule{Word: v.Word, Replacement: v.Replacement})
	}
	for _, r := range p.Rivals {
		identity.Rivals = append(identity.Rivals, RivalSummary{
			TeamName: r.TeamName, Intensity: r.Intensity, Origin: r.Origin, Banter: r.Banter,
		})
	}
	for _, l := range p.Legends {
		identity.Legends = append(identity.Legends, LegendSummary{Name: l.Name, Summary: l.Summary})
	}
	for _, m := range p.Moments {
		ms := MomentSummary{Summary: m.Summary, Opponent: m.Opponent}
		if m.Date != nil {
			if t, err := parseMonthDay(*m.Date); err == nil {
				ms.Date = &t
			}
		}
		identity.Moments = append(identity.Moments, ms)
	}
	return identity, nil
}
