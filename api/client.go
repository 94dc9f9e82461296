package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/aguxez/foodplates/models"
)

const foodsPath = "/foods"

// StatusError is returned when the backend answers outside 2xx.
type StatusError struct {
	Method     string
	Path       string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %s: HTTP %d: %s", e.Method, e.Path, e.StatusCode, e.Body)
}

// Client talks to the remote /foods collection. A zero timeout means requests run
// until the context ends.
type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// ListFoods fetches the whole collection.
func (c *Client) ListFoods(ctx context.Context) ([]models.FoodPlate, error) {
	var out []models.FoodPlate
	if err := c.do(ctx, http.MethodGet, foodsPath, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateFood posts a new plate and returns the record with its assigned id.
func (c *Client) CreateFood(ctx context.Context, p models.FoodPlate) (models.FoodPlate, error) {
	var out models.FoodPlate
	if err := c.do(ctx, http.MethodPost, foodsPath, p, &out); err != nil {
		return models.FoodPlate{}, err
	}
	return out, nil
}

// ReplaceFood PUTs the full record under id.
func (c *Client) ReplaceFood(ctx context.Context, id int, p models.FoodPlate) (models.FoodPlate, error) {
	var out models.FoodPlate
	if err := c.do(ctx, http.MethodPut, foodPath(id), replaceBody(id, p), &out); err != nil {
		return models.FoodPlate{}, err
	}
	return out, nil
}

// DeleteFood removes the plate under id. Any response body is ignored.
func (c *Client) DeleteFood(ctx context.Context, id int) error {
	return c.do(ctx, http.MethodDelete, foodPath(id), nil, nil)
}

// Describe asks the backend to draft a menu description for d.
func (c *Client) Describe(ctx context.Context, d models.Draft) (string, error) {
	var out describeResponse
	if err := c.do(ctx, http.MethodPost, describePath, d, &out); err != nil {
		return "", err
	}
	return out.Description, nil
}

func foodPath(id int) string {
	return foodsPath + "/" + strconv.Itoa(id)
}

// replaceBody always carries id and available, even when they are zero values.
type replaceRequest struct {
	ID          int    `json:"id"`
	Available   bool   `json:"available"`
	Image       string `json:"image"`
	Name        string `json:"name"`
	Price       string `json:"price"`
	Description string `json:"description"`
}

func replaceBody(id int, p models.FoodPlate) replaceRequest {
	return replaceRequest{
		ID:          id,
		Available:   p.Available,
		Image:       p.Image,
		Name:        p.Name,
		Price:       p.Price,
		Description: p.Description,
	}
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encoding %s %s: %w", method, path, err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("building %s %s: %w", method, path, err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading %s %s: %w", method, path, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &StatusError{
			Method:     method,
			Path:       path,
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(raw)),
		}
	}
	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decoding %s %s: %w", method, path, err)
	}
	return nil
}
