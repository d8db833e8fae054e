package integrations

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"slices"
	"strings"

	"github.com/chxlky/trello-card-automation/internal/models"
	"go.uber.org/zap"
)

const DefaultTrelloBaseURL = "https://api.trello.com/1"

// APIError is returned for any non-2xx response from the board API.
type APIError struct {
	StatusCode int
	Status     string
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("trello API returned non-2xx status: %s, body: %s", e.Status, e.Body)
}

type TrelloClient struct {
	Client   *http.Client
	BaseURL  string
	APIKey   string
	APIToken string
	BoardID  string
}

func NewTrelloClient(key, token, boardID string) *TrelloClient {
	return &TrelloClient{
		Client:   &http.Client{},
		BaseURL:  DefaultTrelloBaseURL,
		APIKey:   key,
		APIToken: token,
		BoardID:  boardID,
	}
}

// do sends an authenticated request and decodes the JSON response into out.
func (tc *TrelloClient) do(ctx context.Context, method, endpoint string, params url.Values, body any, out any) error {
	if params == nil {
		params = url.Values{}
	}
	params.Set("key", tc.APIKey)
	params.Set("token", tc.APIToken)

	apiURL := strings.TrimRight(tc.BaseURL, "/") + endpoint + "?" + params.Encode()

	var reqBody io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reqBody = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, apiURL, reqBody)
	if err != nil {
		return fmt.Errorf("failed to create %s request: %w", method, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := tc.Client.Do(req)
	if err != nil {
		// The request URL carries key and token; keep them out of the error.
		var uerr *url.Error
		if errors.As(err, &uerr) {
			uerr.URL = strings.TrimRight(tc.BaseURL, "/") + endpoint
		}
		zap.L().Error("Trello API request failed", zap.String("method", method), zap.String("endpoint", endpoint), zap.Error(err))
		return fmt.Errorf("failed to send %s request: %w", method, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		bodyBytes, _ := io.ReadAll(resp.Body)
		apiErr := &APIError{StatusCode: resp.StatusCode, Status: resp.Status, Body: string(bodyBytes)}
		zap.L().Error("Trello API request failed", zap.String("method", method), zap.String("endpoint", endpoint), zap.Error(apiErr))
		return apiErr
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode Trello response: %w", err)
	}
	return nil
}

// GetLists fetches every list on the configured board.
func (tc *TrelloClient) GetLists(ctx context.Context) ([]models.TrelloList, error) {
	var lists []models.TrelloList
	if err := tc.do(ctx, http.MethodGet, fmt.Sprintf("/boards/%s/lists", tc.BoardID), nil, nil, &lists); err != nil {
		return nil, err
	}
	return lists, nil
}

// GetLabels fetches every label on the configured board.
func (tc *TrelloClient) GetLabels(ctx context.Context) ([]models.TrelloLabel, error) {
	var labels []models.TrelloLabel
	if err := tc.do(ctx, http.MethodGet, fmt.Sprintf("/boards/%s/labels", tc.BoardID), nil, nil, &labels); err != nil {
		return nil, err
	}
	return labels, nil
}

// ResolveListID returns the id of the first list whose name matches
// case-insensitively. ok is false when nothing matches.
func (tc *TrelloClient) ResolveListID(ctx context.Context, name string) (id string, ok bool, err error) {
	lists, err := tc.GetLists(ctx)
	if err != nil {
		return "", false, err
	}
	for _, l := range lists {
		if strings.EqualFold(l.Name, name) {
			return l.ID, true, nil
		}
	}
	return "", false, nil
}

// ResolveLabelIDs maps label names to board label ids. Names with no matching
// label are dropped, and each id appears once.
func (tc *TrelloClient) ResolveLabelIDs(ctx context.Context, names []string) ([]string, error) {
	labels, err := tc.GetLabels(ctx)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(names))
	for _, name := range names {
		for _, label := range labels {
			if strings.EqualFold(label.Name, name) {
				if !slices.Contains(ids, label.ID) {
					ids = append(ids, label.ID)
				}
				break
			}
		}
	}
	return ids, nil
}

func (tc *TrelloClient) CreateCard(ctx context.Context, card models.CardRequest) (*models.TrelloCard, error) {
	params := map[string]string{
		"name":   card.Name,
		"desc":   card.Description,
		"idList": card.ListID,
	}
	if card.DueDate != "" {
		params["due"] = card.DueDate
	}
	if len(card.Labels) > 0 {
		labelIDs, err := tc.ResolveLabelIDs(ctx, card.Labels)
		if err != nil {
			return nil, err
		}
		if len(labelIDs) > 0 {
			params["idLabels"] = strings.Join(labelIDs, ",")
		}
	}

	var created models.TrelloCard
	if err := tc.do(ctx, http.MethodPost, "/cards", nil, params, &created); err != nil {
		return nil, err
	}

	zap.L().Info("Created Trello card", zap.String("cardID", created.ID), zap.String("name", created.Name))

	return &created, nil
}
