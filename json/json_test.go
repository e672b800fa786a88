package json_test

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fwojciec/rework"
	reworkjson "github.com/fwojciec/rework/json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func appliedSession() *rework.Session {
	created := time.Date(2026, 2, 18, 12, 0, 0, 0, time.UTC)
	return &rework.Session{
		ID:         "0b6f5c1e-8a39-4d7e-9a43-2f1f4a0f7c55",
		Original:   "def add(a,b): return a+b",
		Objective:  "add type hints",
		Stage:      rework.StageTerminal,
		Candidates: []string{"Add parameter annotations", "Add a return annotation", "Add docstring"},
		Chosen:     "Add parameter annotations",
		Generated:  "def add(a: int, b: int) -> int: return a+b",
		Verdict:    "YES. Behavior is unchanged.",
		Outcome:    rework.OutcomeApplied{Text: "def add(a: int, b: int) -> int: return a+b"},
		Models:     rework.SingleModel("codegemma"),
		CreatedAt:  created,
		UpdatedAt:  created.Add(30 * time.Second),
	}
}

func TestMarshalSession_RoundTrip(t *testing.T) {
	t.Parallel()

	session := appliedSession()
	data, err := reworkjson.MarshalSession(session)
	require.NoError(t, err)

	got, err := reworkjson.UnmarshalSession(data)
	require.NoError(t, err)
	assert.Equal(t, session, got)
}

func TestMarshalSession_Format(t *testing.T) {
	t.Parallel()

	data, err := reworkjson.MarshalSession(appliedSession())
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Equal(t, float64(1), raw["version"])
	assert.Equal(t, "terminal", raw["stage"])
	assert.Equal(t, map[string]any{"type": "applied", "text": "def add(a: int, b: int) -> int: return a+b"}, raw["outcome"])
	assert.Equal(t, map[string]any{"brainstorm": "codegemma", "execute": "codegemma", "verify": "codegemma"}, raw["models"])
}

func TestMarshalSession_Failed(t *testing.T) {
	t.Parallel()

	t.Run("backend failure keeps status and body", func(t *testing.T) {
		t.Parallel()
		s := rework.NewSession("x := 1", "rename x")
		s.Fail(rework.NewBackendError(500, "model not loaded"))

		data, err := reworkjson.MarshalSession(s)
		require.NoError(t, err)
		got, err := reworkjson.UnmarshalSession(data)
		require.NoError(t, err)

		failed, ok := got.Outcome.(rework.OutcomeFailed)
		require.True(t, ok)
		var f *rework.Failure
		require.ErrorAs(t, failed.Err, &f)
		assert.Equal(t, rework.BackendError, f.Kind)
		assert.Equal(t, 500, f.Status)
		assert.Equal(t, "model not loaded", f.Body)
	})

	t.Run("parse failure keeps raw text", func(t *testing.T) {
		t.Parallel()
		s := rework.NewSession("x := 1", "rename x")
		s.Fail(rework.NewParseError("I have no ideas."))

		data, err := reworkjson.MarshalSession(s)
		require.NoError(t, err)
		got, err := reworkjson.UnmarshalSession(data)
		require.NoError(t, err)

		var f *rework.Failure
		require.ErrorAs(t, got.Outcome.(rework.OutcomeFailed).Err, &f)
		assert.Equal(t, rework.ParseError, f.Kind)
		assert.Equal(t, "I have no ideas.", f.Body)
	})

	t.Run("plain error keeps message", func(t *testing.T) {
		t.Parallel()
		s := rework.NewSession("x := 1", "rename x")
		s.Fail(errors.New("apply replacement: disk full"))

		data, err := reworkjson.MarshalSession(s)
		require.NoError(t, err)
		got, err := reworkjson.UnmarshalSession(data)
		require.NoError(t, err)

		assert.EqualError(t, got.Outcome.(rework.OutcomeFailed).Err, "apply replacement: disk full")
	})
}

func TestMarshalSession_Cancelled(t *testing.T) {
	t.Parallel()

	s := rework.NewSession("", "rename x")
	data, err := reworkjson.MarshalSession(s)
	require.NoError(t, err)

	got, err := reworkjson.UnmarshalSession(data)
	require.NoError(t, err)
	assert.Equal(t, rework.OutcomeCancelled{Reason: "no text selected"}, got.Outcome)
	assert.Equal(t, rework.StageTerminal, got.Stage)
	assert.Nil(t, got.Candidates)
	assert.Equal(t, rework.StageModels{}, got.Models)
}

func TestUnmarshalSession_Errors(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"invalid json":         `{`,
		"unsupported version":  `{"version":2,"stage":"idle"}`,
		"unknown stage":        `{"version":1,"stage":"dreaming"}`,
		"unknown outcome":      `{"version":1,"stage":"terminal","outcome":{"type":"exploded"}}`,
		"failed without error": `{"version":1,"stage":"terminal","outcome":{"type":"failed"}}`,
		"unknown failure kind": `{"version":1,"stage":"terminal","outcome":{"type":"failed","failure":{"kind":"cosmic_ray","message":""}}}`,
	}
	for name, data := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			_, err := reworkjson.UnmarshalSession([]byte(data))
			assert.Error(t, err)
		})
	}
}

func TestSaveLoad(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "records", "session.json")
	session := appliedSession()

	require.NoError(t, reworkjson.Save(path, session))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
	_, err = os.Stat(path + ".tmp")
	assert.ErrorIs(t, err, os.ErrNotExist)

	got, err := reworkjson.Load(path)
	require.NoError(t, err)
	assert.Equal(t, session, got)
}

func TestLoad_Missing(t *testing.T) {
	t.Parallel()

	_, err := reworkjson.Load(filepath.Join(t.TempDir(), "nope.json"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
