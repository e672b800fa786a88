// Package json persists rework sessions as versioned JSON records.
package json

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fwojciec/rework"
)

const version = 1

// envelope is the v1 wire format for a session record.
type envelope struct {
	Version    int         `json:"version"`
	ID         string      `json:"id"`
	Stage      string      `json:"stage"`
	Original   string      `json:"original"`
	Objective  string      `json:"objective"`
	Candidates []string    `json:"candidates"`
	Chosen     string      `json:"chosen,omitempty"`
	Generated  string      `json:"generated,omitempty"`
	Verdict    string      `json:"verdict,omitempty"`
	Models     *modelsDTO  `json:"models,omitempty"`
	Outcome    *outcomeDTO `json:"outcome,omitempty"`
	CreatedAt  time.Time   `json:"created_at"`
	UpdatedAt  time.Time   `json:"updated_at"`
}

type modelsDTO struct {
	Brainstorm string `json:"brainstorm"`
	Execute    string `json:"execute"`
	Verify     string `json:"verify"`
}

// MarshalSession serializes a Session to JSON in v1 envelope format.
func MarshalSession(s *rework.Session) ([]byte, error) {
	env := envelope{
		Version:    version,
		ID:         s.ID,
		Stage:      s.Stage.String(),
		Original:   s.Original,
		Objective:  s.Objective,
		Candidates: s.Candidates,
		Chosen:     s.Chosen,
		Generated:  s.Generated,
		Verdict:    s.Verdict,
		CreatedAt:  s.CreatedAt,
		UpdatedAt:  s.UpdatedAt,
	}
	if env.Candidates == nil {
		env.Candidates = []string{}
	}
	if s.Models != (rework.StageModels{}) {
		env.Models = &modelsDTO{Brainstorm: s.Models.Brainstorm, Execute: s.Models.Execute, Verify: s.Models.Verify}
	}
	if s.Outcome != nil {
		dto, err := marshalOutcome(s.Outcome)
		if err != nil {
			return nil, fmt.Errorf("outcome: %w", err)
		}
		env.Outcome = &dto
	}
	return json.MarshalIndent(env, "", "  ")
}

// UnmarshalSession deserializes a Session from JSON in v1 envelope format.
func UnmarshalSession(data []byte) (*rework.Session, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("unmarshal envelope: %w", err)
	}
	if env.Version != version {
		return nil, fmt.Errorf("unsupported envelope version: %d", env.Version)
	}
	stage, err := parseStage(env.Stage)
	if err != nil {
		return nil, err
	}
	s := &rework.Session{
		ID:        env.ID,
		Stage:     stage,
		Original:  env.Original,
		Objective: env.Objective,
		Chosen:    env.Chosen,
		Generated: env.Generated,
		Verdict:   env.Verdict,
		CreatedAt: env.CreatedAt,
		UpdatedAt: env.UpdatedAt,
	}
	if len(env.Candidates) > 0 {
		s.Candidates = env.Candidates
	}
	if env.Models != nil {
		s.Models = rework.StageModels{Brainstorm: env.Models.Brainstorm, Execute: env.Models.Execute, Verify: env.Models.Verify}
	}
	if env.Outcome != nil {
		o, err := unmarshalOutcome(*env.Outcome)
		if err != nil {
			return nil, fmt.Errorf("outcome: %w", err)
		}
		s.Outcome = o
	}
	return s, nil
}

func parseStage(name string) (rework.Stage, error) {
	for st := rework.StageIdle; st <= rework.StageTerminal; st++ {
		if st.String() == name {
			return st, nil
		}
	}
	return 0, fmt.Errorf("unknown stage: %q", name)
}

// Save writes a Session record, creating parent directories as needed.
func Save(path string, s *rework.Session) error {
	data, err := MarshalSession(s)
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("create directories: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp) // best-effort cleanup
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}

// Load reads a Session record from a JSON file.
func Load(path string) (*rework.Session, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	return UnmarshalSession(data)
}
