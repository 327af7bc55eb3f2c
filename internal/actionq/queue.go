// Package actionq keeps the CLI's planned focus actions on disk between
// invocations, so a week's plan is assembled across several commands and
// submitted in one advance.
package actionq

import (
	"encoding/json"
	"os"
	"path/filepath"

	"backbeat/internal/sim"
)

type Plan struct {
	GameID  string       `json:"game_id"`
	Actions []sim.Action `json:"actions"`
}

func planPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	dir := filepath.Join(home, ".backbeat")
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", err
	}
	return filepath.Join(dir, "plan.json"), nil
}

func Load() (Plan, error) {
	path, err := planPath()
	if err != nil {
		return Plan{}, err
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Plan{}, nil
		}
		return Plan{}, err
	}
	if len(raw) == 0 {
		return Plan{}, nil
	}
	var out Plan
	if err := json.Unmarshal(raw, &out); err != nil {
		return Plan{}, err
	}
	return out, nil
}

func Save(p Plan) error {
	path, err := planPath()
	if err != nil {
		return err
	}
	raw, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, raw, 0o600)
}

// Push appends an action to the plan. Switching games discards the stale
// plan rather than submitting another game's actions.
func Push(gameID string, a sim.Action) (int, error) {
	p, err := Load()
	if err != nil {
		return 0, err
	}
	if p.GameID != gameID {
		p = Plan{GameID: gameID}
	}
	p.Actions = append(p.Actions, a)
	if err := Save(p); err != nil {
		return 0, err
	}
	return len(p.Actions), nil
}

func Clear() error {
	path, err := planPath()
	if err != nil {
		return err
	}
	if _, err := os.Stat(path); err != nil {
		return nil
	}
	return os.Remove(path)
}
