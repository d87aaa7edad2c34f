// Package fred downloads daily exchange-rate series from the St. Louis Fed
// (FRED) CSV endpoint.
package fred

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"donorboard/internal/fx"
)

const defaultBaseURL = "https://fred.stlouisfed.org/graph/fredgraph.csv"

const dayFormat = "2006-01-02"

type Client struct {
	httpClient *http.Client
	baseURL    string
}

func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		baseURL:    baseURL,
	}
}

// FetchSeries downloads one series over [start, end]. Missing observations
// (weekends, holidays, published as ".") are omitted from the result; the
// caller's table builder fills the gaps.
func (c *Client) FetchSeries(ctx context.Context, series string, start, end time.Time) ([]fx.RatePoint, error) {
	q := url.Values{}
	q.Set("id", series)
	q.Set("cosd", start.Format(dayFormat))
	q.Set("coed", end.Format(dayFormat))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", series, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 256))
		return nil, fmt.Errorf("fetch %s: status %d: %s", series, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	return parseSeriesCSV(resp.Body, series)
}

// parseSeriesCSV reads a two-column FRED CSV (date, value).
func parseSeriesCSV(r io.Reader, series string) ([]fx.RatePoint, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	if _, err := cr.Read(); err != nil {
		return nil, fmt.Errorf("read %s header: %w", series, err)
	}

	var points []fx.RatePoint
	for line := 2; ; line++ {
		fields, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read %s row %d: %w", series, line, err)
		}
		if len(fields) < 2 {
			continue
		}
		value := strings.TrimSpace(fields[1])
		if value == "" || value == "." {
			continue
		}
		date, err := time.Parse(dayFormat, strings.TrimSpace(fields[0]))
		if err != nil {
			return nil, fmt.Errorf("%s row %d: bad date %q", series, line, fields[0])
		}
		rate, err := decimal.NewFromString(value)
		if err != nil {
			return nil, fmt.Errorf("%s row %d: bad rate %q", series, line, value)
		}
		points = append(points, fx.RatePoint{Date: date, Rate: rate})
	}
	return points, nil
}
