package datasource

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/PaesslerAG/jsonpath"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// RateProvider fetches mid rates from JSON HTTP endpoints, extracting the
// quote with a JSONPath expression. It covers ad-hoc cross-rate sources that
// publish a whole document of which only one number matters.
type RateProvider struct {
	client *http.Client
	log    *zap.Logger
}

// NewRateProvider returns a provider using the given HTTP client, or
// http.DefaultClient when nil. The logger must not be nil; use zap.NewNop()
// to silence it.
func NewRateProvider(client *http.Client, log *zap.Logger) *RateProvider {
	if client == nil {
		client = http.DefaultClient
	}
	return &RateProvider{client: client, log: log}
}

// LatestMid GETs addr and extracts the mid quote at path.
func (p *RateProvider) LatestMid(addr, path string) (decimal.Decimal, error) {
	var jobj any
	if err := p.jwget(addr, &jobj); err != nil {
		return decimal.Decimal{}, fmt.Errorf("fetching mid from %q: %w", addr, err)
	}

	jval, err := jsonpath.Get(path, jobj)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("extracting %q: %w", path, err)
	}
	// jsonpath is never clear about whether it returns a list of one answer
	// or a single answer: keep the first one if any.
	if jlist, ok := jval.([]any); ok && len(jlist) > 0 {
		jval = jlist[0]
	}

	val, ok := jval.(float64)
	if !ok {
		return decimal.Decimal{}, fmt.Errorf("extracting %q: not a number: %v", path, jval)
	}

	p.log.Debug("fetched mid", zap.String("addr", addr), zap.Float64("mid", val))
	return decimal.NewFromFloat(val), nil
}

// jwget performs an HTTP GET request and unmarshals the JSON response into
// the provided data structure.
func (p *RateProvider) jwget(addr string, data any) error {
	resp, err := p.client.Get(addr)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		p.log.Warn("mid fetch failed",
			zap.String("addr", addr),
			zap.String("status", resp.Status))
		return fmt.Errorf("cannot http GET %v: %v", addr, resp.Status)
	}

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, resp.Body); err != nil {
		return err
	}
	return json.Unmarshal(buf.Bytes(), data)
}
