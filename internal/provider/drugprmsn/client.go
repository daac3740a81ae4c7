// Package drugprmsn reads the drug product approval list from the public
// data portal and filters it locally by keyword.
package drugprmsn

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
	"unicode"

	"github.com/janghjun/healthlog/internal/model"
	"golang.org/x/text/unicode/norm"
)

const (
	defaultBaseURL  = "https://apis.data.go.kr/1471000/DrugPrdtPrmsnInfoService06/getDrugPrdtPrmsnInq06"
	defaultRows     = 100
	defaultMaxPages = 10
)

// Product is one approved drug product.
type Product struct {
	Seq        string `json:"ITEM_SEQ"`
	Name       string `json:"ITEM_NAME"`
	EngName    string `json:"ITEM_ENG_NAME"`
	Company    string `json:"ENTP_NAME"`
	Ingredient string `json:"ITEM_INGR_NAME"`
	Chart      string `json:"CHART"`
	Class      string `json:"ETC_OTC_NAME"`
	ImageURL   string `json:"BIG_PRDT_IMG_URL"`
}

// Favorite maps the product onto a saved medication, keyed by its sequence
// number.
func (p Product) Favorite() model.FavoriteMedication {
	return model.FavoriteMedication{
		ID:         strings.TrimSpace(p.Seq),
		Name:       strings.TrimSpace(p.Name),
		Company:    strings.TrimSpace(p.Company),
		Ingredient: strings.TrimSpace(p.Ingredient),
		Dosage:     strings.TrimSpace(p.Chart),
		Usage:      strings.TrimSpace(p.Class),
		Image:      strings.TrimSpace(p.ImageURL),
	}
}

// Matches reports whether keyword appears in the product's name, English
// name or ingredients, ignoring case, spaces and punctuation.
func (p Product) Matches(keyword string) bool {
	k := Normalize(keyword)
	if k == "" {
		return true
	}
	for _, field := range []string{p.Name, p.EngName, p.Ingredient} {
		if strings.Contains(Normalize(field), k) {
			return true
		}
	}
	return false
}

// Normalize lower-cases s and keeps only ASCII word characters and Hangul.
func Normalize(s string) string {
	s = strings.ToLower(norm.NFC.String(s))
	return strings.Map(func(r rune) rune {
		switch {
		case r == '_', r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)):
			return r
		case r >= 0x3131 && r <= 0xD79D:
			return r
		default:
			return -1
		}
	}, s)
}

type Client struct {
	APIKey     string
	BaseURL    string
	HTTPClient *http.Client
}

// Page fetches one page of the product list.
func (c *Client) Page(ctx context.Context, page, rows int) ([]Product, error) {
	if strings.TrimSpace(c.APIKey) == "" {
		return nil, fmt.Errorf("missing drug product API key")
	}
	base := strings.TrimRight(strings.TrimSpace(c.BaseURL), "/")
	if base == "" {
		base = defaultBaseURL
	}
	httpClient := c.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 12 * time.Second}
	}
	if page <= 0 {
		page = 1
	}
	if rows <= 0 {
		rows = defaultRows
	}

	params := url.Values{}
	params.Set("serviceKey", c.APIKey)
	params.Set("type", "json")
	params.Set("numOfRows", strconv.Itoa(rows))
	params.Set("pageNo", strconv.Itoa(page))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, base+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("create drug product request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute drug product request: %w", err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read drug product response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("drug product request failed with status %d", resp.StatusCode)
	}

	var parsed drugResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("decode drug product response: %w", err)
	}
	if code := strings.TrimSpace(parsed.Header.ResultCode); code != "" && code != "00" {
		return nil, fmt.Errorf("drug product API error %s: %s", code, parsed.Header.ResultMsg)
	}
	if parsed.Body.Items == nil {
		return []Product{}, nil
	}
	return parsed.Body.Items, nil
}

// Search pages through the list until an empty page or maxPages pages and
// returns the products matching keyword.
func (c *Client) Search(ctx context.Context, keyword string, maxPages int) ([]Product, error) {
	if maxPages <= 0 {
		maxPages = defaultMaxPages
	}
	out := []Product{}
	for page := 1; page <= maxPages; page++ {
		items, err := c.Page(ctx, page, defaultRows)
		if err != nil {
			return nil, fmt.Errorf("search drug products page %d: %w", page, err)
		}
		if len(items) == 0 {
			break
		}
		for _, p := range items {
			if p.Matches(keyword) {
				out = append(out, p)
			}
		}
	}
	return out, nil
}

type drugResponse struct {
	Header struct {
		ResultCode string `json:"resultCode"`
		ResultMsg  string `json:"resultMsg"`
	} `json:"header"`
	Body struct {
		PageNo     int       `json:"pageNo"`
		TotalCount int       `json:"totalCount"`
		NumOfRows  int       `json:"numOfRows"`
		Items      []Product `json:"items"`
	} `json:"body"`
}
