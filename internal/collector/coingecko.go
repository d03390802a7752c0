package collector

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"DrawSentinel/internal/format"
	"DrawSentinel/internal/metrics"
	"DrawSentinel/internal/model"

	"github.com/shopspring/decimal"
	"github.com/tidwall/gjson"
	"golang.org/x/time/rate"
)

// DefaultCoinGeckoURL is the public CoinGecko v3 API.
const DefaultCoinGeckoURL = "https://api.coingecko.com/api/v3"

const vsCurrency = "eur"

// CoinGeckoFetcher implements Fetcher using the CoinGecko REST API.
type CoinGeckoFetcher struct {
	BaseURL string
	APIKey  string
	Client  *http.Client
	Limiter *rate.Limiter
}

// NewCoinGeckoFetcher creates a fetcher with optional proxy support. Requests
// are spaced to at most requestsPerMinute; zero or less disables the limit.
func NewCoinGeckoFetcher(baseURL, apiKey, proxyURL string, requestsPerMinute int, timeout time.Duration) *CoinGeckoFetcher {
	if baseURL == "" {
		baseURL = DefaultCoinGeckoURL
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	limit := rate.Inf
	if requestsPerMinute > 0 {
		limit = rate.Every(time.Minute / time.Duration(requestsPerMinute))
	}
	return &CoinGeckoFetcher{
		BaseURL: strings.TrimRight(baseURL, "/"),
		APIKey:  apiKey,
		Client:  newHTTPClient(proxyURL, timeout),
		Limiter: rate.NewLimiter(limit, 1),
	}
}

func (f *CoinGeckoFetcher) Name() string { return "coingecko" }

func (f *CoinGeckoFetcher) FetchCurrentPrice(ctx context.Context) (*model.PricePoint, error) {
	q := url.Values{}
	q.Set("ids", model.Asset)
	q.Set("vs_currencies", vsCurrency)

	amount, err := f.fetchAmount(ctx, model.PriceCurrent, "/simple/price", q, model.Asset+"."+vsCurrency)
	if err != nil {
		return nil, fmt.Errorf("fetch current bitcoin price: %w", err)
	}
	return &model.PricePoint{
		Amount:   amount,
		Currency: model.Currency,
		At:       time.Now(),
		Kind:     model.PriceCurrent,
		Source:   f.Name(),
	}, nil
}

func (f *CoinGeckoFetcher) FetchHistoricalPrice(ctx context.Context, date time.Time) (*model.PricePoint, error) {
	q := url.Values{}
	q.Set("date", format.APIDate(date))
	q.Set("localization", "false")

	amount, err := f.fetchAmount(ctx, model.PriceHistorical, "/coins/"+model.Asset+"/history", q, "market_data.current_price."+vsCurrency)
	if err != nil {
		return nil, fmt.Errorf("fetch bitcoin price for %s: %w", format.APIDate(date), err)
	}
	return &model.PricePoint{
		Amount:   amount,
		Currency: model.Currency,
		At:       date,
		Kind:     model.PriceHistorical,
		Source:   f.Name(),
	}, nil
}

func (f *CoinGeckoFetcher) fetchAmount(ctx context.Context, kind model.PriceKind, path string, q url.Values, field string) (decimal.Decimal, error) {
	start := time.Now()
	amount, err := f.doFetch(ctx, path, q, field)

	result := metrics.ResultSuccess
	switch {
	case errors.Is(err, ErrNoPriceData):
		result = metrics.ResultNoData
	case err != nil:
		result = metrics.ResultError
	}
	metrics.ObservePriceFetch(f.Name(), string(kind), result, time.Since(start))
	return amount, err
}

func (f *CoinGeckoFetcher) doFetch(ctx context.Context, path string, q url.Values, field string) (decimal.Decimal, error) {
	if err := f.Limiter.Wait(ctx); err != nil {
		return decimal.Zero, fmt.Errorf("rate limit wait: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.BaseURL+path+"?"+q.Encode(), nil)
	if err != nil {
		return decimal.Zero, err
	}
	req.Header.Set("Accept", "application/json")
	if f.APIKey != "" {
		req.Header.Set("x-cg-demo-api-key", f.APIKey)
	}

	resp, err := f.Client.Do(req)
	if err != nil {
		return decimal.Zero, fmt.Errorf("coingecko fetch: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return decimal.Zero, fmt.Errorf("coingecko read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return decimal.Zero, &APIError{Source: f.Name(), StatusCode: resp.StatusCode, Body: string(body)}
	}

	return parseAmount(body, field)
}

// parseAmount extracts the number at the gjson path field. The raw JSON text
// is parsed so no precision is lost to float64.
func parseAmount(body []byte, field string) (decimal.Decimal, error) {
	if !gjson.ValidBytes(body) {
		return decimal.Zero, fmt.Errorf("coingecko decode: invalid json")
	}
	res := gjson.GetBytes(body, field)
	if !res.Exists() || res.Type != gjson.Number {
		return decimal.Zero, ErrNoPriceData
	}
	amount, err := decimal.NewFromString(res.Raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("coingecko decode %s: %w", field, err)
	}
	if !amount.IsPositive() {
		return decimal.Zero, ErrNoPriceData
	}
	return amount, nil
}
