package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"backbeat/internal/sim"
)

type Client struct {
	BaseURL string
	HTTP    *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

type AdvanceResult struct {
	State   sim.GameState   `json:"state"`
	Summary sim.WeekSummary `json:"summary"`
}

type CreateGameResult struct {
	ID    string        `json:"id"`
	State sim.GameState `json:"state"`
}

func (c *Client) CreateGame(ctx context.Context, seed uint64) (CreateGameResult, error) {
	var out CreateGameResult
	err := c.jsonRequest(ctx, http.MethodPost, "/v1/games", map[string]any{"seed": seed}, &out, "")
	return out, err
}

func (c *Client) GameState(ctx context.Context, gameID string) (sim.GameState, error) {
	var out sim.GameState
	err := c.jsonRequest(ctx, http.MethodGet, "/v1/games/"+gameID, nil, &out, "")
	return out, err
}

func (c *Client) Advance(ctx context.Context, gameID string, actions []sim.Action, idem string) (AdvanceResult, error) {
	var out AdvanceResult
	if actions == nil {
		actions = []sim.Action{}
	}
	err := c.jsonRequest(ctx, http.MethodPost, "/v1/games/"+gameID+"/advance", map[string]any{
		"actions": actions,
	}, &out, idem)
	return out, err
}

func (c *Client) Preview(ctx context.Context, gameID, artistID string, plan sim.ProjectPlan) (sim.ProjectPreview, error) {
	var out sim.ProjectPreview
	err := c.jsonRequest(ctx, http.MethodPost, "/v1/games/"+gameID+"/preview", map[string]any{
		"artist_id": artistID,
		"project":   plan,
	}, &out, "")
	return out, err
}

func (c *Client) Chart(ctx context.Context, gameID string) (int, []sim.ChartEntry, error) {
	var out struct {
		Week    int              `json:"week"`
		Entries []sim.ChartEntry `json:"entries"`
	}
	err := c.jsonRequest(ctx, http.MethodGet, "/v1/games/"+gameID+"/chart", nil, &out, "")
	return out.Week, out.Entries, err
}

func (c *Client) Summaries(ctx context.Context, gameID string, limit int) ([]sim.WeekSummary, error) {
	var out struct {
		Summaries []sim.WeekSummary `json:"summaries"`
	}
	path := fmt.Sprintf("/v1/games/%s/summaries?limit=%d", gameID, limit)
	err := c.jsonRequest(ctx, http.MethodGet, path, nil, &out, "")
	return out.Summaries, err
}

func (c *Client) jsonRequest(ctx context.Context, method, path string, body any, out any, idem string) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(raw)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if idem != "" {
		req.Header.Set("Idempotency-Key", idem)
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode >= 400 {
		var apiErr struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(raw, &apiErr) == nil && apiErr.Error != "" {
			return fmt.Errorf("%s", apiErr.Error)
		}
		return fmt.Errorf("api error: %s", resp.Status)
	}
	if out == nil {
		return nil
	}
	return json.Unmarshal(raw, out)
}
