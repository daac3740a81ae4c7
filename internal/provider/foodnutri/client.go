// Package foodnutri queries the public processed-food nutrition dataset
// published on data.go.kr.
package foodnutri

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/janghjun/healthlog/internal/model"
	"github.com/janghjun/healthlog/internal/service"
)

const (
	defaultBaseURL = "http://api.data.go.kr/openapi/tn_pubr_public_nutri_process_info_api"
	defaultLimit   = 5
)

// FoodLookup is one food from the dataset. Nutrients are per the dataset's
// reference amount.
type FoodLookup struct {
	Code      string  `json:"code,omitempty"`
	Name      string  `json:"name"`
	Reference string  `json:"reference,omitempty"`
	Kcal      float64 `json:"kcal"`
	Carb      float64 `json:"carb"`
	Protein   float64 `json:"protein"`
	Fat       float64 `json:"fat"`
	Sodium    float64 `json:"sodium"`
}

// FoodInput turns the lookup into a diet entry of one serving.
func (f FoodLookup) FoodInput() service.FoodInput {
	return service.FoodInput{
		Name:    f.Name,
		Weight:  model.NumberOf(1),
		Kcal:    model.NumberOf(f.Kcal),
		Carb:    model.NumberOf(f.Carb),
		Protein: model.NumberOf(f.Protein),
		Fat:     model.NumberOf(f.Fat),
		Sodium:  model.NumberOf(f.Sodium),
	}
}

// Favorite turns the lookup into a reusable favorite food.
func (f FoodLookup) Favorite() model.FoodItem {
	return model.FoodItem{
		Name:    f.Name,
		Weight:  1,
		Kcal:    model.Number(f.Kcal),
		Carb:    model.Number(f.Carb),
		Protein: model.Number(f.Protein),
		Fat:     model.Number(f.Fat),
		Sodium:  model.Number(f.Sodium),
	}
}

type Client struct {
	APIKey     string
	BaseURL    string
	HTTPClient *http.Client
}

// Search returns up to limit foods whose name matches query.
func (c *Client) Search(ctx context.Context, query string, limit int) ([]FoodLookup, error) {
	if strings.TrimSpace(c.APIKey) == "" {
		return nil, fmt.Errorf("missing food nutrition API key")
	}
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("search query is required")
	}
	base := strings.TrimRight(strings.TrimSpace(c.BaseURL), "/")
	if base == "" {
		base = defaultBaseURL
	}
	httpClient := c.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 12 * time.Second}
	}
	if limit <= 0 {
		limit = defaultLimit
	}

	params := url.Values{}
	params.Set("serviceKey", c.APIKey)
	params.Set("type", "json")
	params.Set("pageNo", "1")
	params.Set("numOfRows", strconv.Itoa(limit))
	params.Set("foodNm", query)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, base+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("create food nutrition request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute food nutrition request: %w", err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read food nutrition response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("food nutrition request failed with status %d", resp.StatusCode)
	}

	var parsed nutriResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("decode food nutrition response: %w", err)
	}
	if code := strings.TrimSpace(parsed.Response.Header.ResultCode); code != "" && code != "00" {
		return nil, fmt.Errorf("food nutrition API error %s: %s", code, parsed.Response.Header.ResultMsg)
	}

	out := make([]FoodLookup, 0, len(parsed.Response.Body.Items))
	for _, item := range parsed.Response.Body.Items {
		name := strings.TrimSpace(item.FoodNm)
		if name == "" {
			continue
		}
		out = append(out, FoodLookup{
			Code:      strings.TrimSpace(item.FoodCd),
			Name:      name,
			Reference: strings.TrimSpace(item.NutConSrtrQua),
			Kcal:      item.Enerc.Float(),
			Carb:      item.Chocdf.Float(),
			Protein:   item.Prot.Float(),
			Fat:       item.Fatce.Float(),
			Sodium:    item.Nat.Float(),
		})
	}
	return out, nil
}

type nutriResponse struct {
	Response struct {
		Header struct {
			ResultCode string `json:"resultCode"`
			ResultMsg  string `json:"resultMsg"`
		} `json:"header"`
		Body struct {
			Items []nutriItem `json:"items"`
		} `json:"body"`
	} `json:"response"`
}

type nutriItem struct {
	FoodCd        string       `json:"foodCd"`
	FoodNm        string       `json:"foodNm"`
	NutConSrtrQua string       `json:"nutConSrtrQua"`
	Enerc         model.Number `json:"enerc"`
	Chocdf        model.Number `json:"chocdf"`
	Prot          model.Number `json:"prot"`
	Fatce         model.Number `json:"fatce"`
	Nat           model.Number `json:"nat"`
}
