package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"
)

// NominatimGeocoder resolves addresses through the public Nominatim API.
// Requests are rate-limited to one per MinInterval and results are cached,
// per the service's usage policy.
type NominatimGeocoder struct {
	BaseURL     string
	UserAgent   string
	MinInterval time.Duration
	Client      *http.Client

	mu        sync.Mutex
	lastReqAt time.Time
	cache     map[string]Result
}

type nominatimItem struct {
	Lat         string  `json:"lat"`
	Lon         string  `json:"lon"`
	DisplayName string  `json:"display_name"`
	Importance  float64 `json:"importance"`
}

func (g *NominatimGeocoder) Search(ctx context.Context, query string) (Result, error) {
	endpoint := fmt.Sprintf("%s/search?q=%s&format=json&addressdetails=1&limit=1",
		g.baseURL(), url.QueryEscape(query))
	return g.lookup(ctx, "q:"+query, endpoint, true)
}

func (g *NominatimGeocoder) Reverse(ctx context.Context, lat, lon float64) (Result, error) {
	endpoint := fmt.Sprintf("%s/reverse?lat=%s&lon=%s&format=json",
		g.baseURL(),
		url.QueryEscape(strconv.FormatFloat(lat, 'f', -1, 64)),
		url.QueryEscape(strconv.FormatFloat(lon, 'f', -1, 64)))
	key := fmt.Sprintf("r:%.6f,%.6f", lat, lon)
	return g.lookup(ctx, key, endpoint, false)
}

func (g *NominatimGeocoder) baseURL() string {
	if g.BaseURL == "" {
		return "https://nominatim.openstreetmap.org"
	}
	return g.BaseURL
}

var defaultClient = &http.Client{Timeout: 10 * time.Second}

func (g *NominatimGeocoder) lookup(ctx context.Context, cacheKey, endpoint string, list bool) (Result, error) {
	// Lookups run concurrently; never write the shared configuration fields.
	client := g.Client
	if client == nil {
		client = defaultClient
	}
	userAgent := g.UserAgent
	if userAgent == "" {
		userAgent = "alerta-conecta-mobile"
	}
	minInterval := g.MinInterval
	if minInterval <= 0 {
		minInterval = time.Second
	}

	g.mu.Lock()
	if g.cache == nil {
		g.cache = map[string]Result{}
	}
	if cached, ok := g.cache[cacheKey]; ok {
		g.mu.Unlock()
		return cached, nil
	}
	sleepFor := time.Until(g.lastReqAt.Add(minInterval))
	if sleepFor > 0 {
		g.mu.Unlock()
		select {
		case <-time.After(sleepFor):
		case <-ctx.Done():
			return Result{}, ctx.Err()
		}
		g.mu.Lock()
	}
	g.lastReqAt = time.Now()
	g.mu.Unlock()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return Result{}, err
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := client.Do(req)
	if err != nil {
		return Result{}, err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return Result{}, fmt.Errorf("nominatim http error: %s", resp.Status)
	}

	var result Result
	if list {
		var items []nominatimItem
		if err := json.NewDecoder(resp.Body).Decode(&items); err != nil {
			return Result{}, err
		}
		result, err = parseNominatimItems(items)
	} else {
		var item nominatimItem
		if err := json.NewDecoder(resp.Body).Decode(&item); err != nil {
			return Result{}, err
		}
		result, err = parseNominatimItem(item)
	}
	if err != nil {
		return Result{}, err
	}

	g.mu.Lock()
	g.cache[cacheKey] = result
	g.mu.Unlock()
	return result, nil
}

func parseNominatimItems(items []nominatimItem) (Result, error) {
	if len(items) == 0 {
		return Result{}, ErrNotFound
	}
	return parseNominatimItem(items[0])
}

func parseNominatimItem(item nominatimItem) (Result, error) {
	if item.Lat == "" && item.Lon == "" && item.DisplayName == "" {
		return Result{}, ErrNotFound
	}
	lat, err := strconv.ParseFloat(item.Lat, 64)
	if err != nil {
		return Result{}, err
	}
	lon, err := strconv.ParseFloat(item.Lon, 64)
	if err != nil {
		return Result{}, err
	}
	return Result{
		Lat:         lat,
		Lon:         lon,
		DisplayName: item.DisplayName,
		Confidence:  item.Importance,
	}, nil
}
