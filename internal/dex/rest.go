package dex

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	xerrors "github.com/imaad666/Aya-Wallet-MCP/internal/errors"
)

// RESTSource quotes swaps against an HTTP price endpoint, such as the
// SaucerSwap public API.
type RESTSource struct {
	name    string
	baseURL string
	client  *http.Client
}

// NewRESTSource builds a REST-backed quote source.
func NewRESTSource(name, baseURL string) *RESTSource {
	return &RESTSource{
		name:    name,
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

// Name identifies the exchange in quotes and aggregation results.
func (s *RESTSource) Name() string { return s.name }

type restQuoteResponse struct {
	AmountOut json.Number `json:"amountOut"`
}

// Quote issues a GET against the quote endpoint and parses the amount out.
func (s *RESTSource) Quote(ctx context.Context, tokenIn, tokenOut string, amount float64) (Quote, error) {
	if s.baseURL == "" {
		return Quote{}, xerrors.New(xerrors.CodeInitializationFailure, "rest quote source has no base url")
	}

	query := url.Values{}
	query.Set("tokenIn", strings.ToUpper(tokenIn))
	query.Set("tokenOut", strings.ToUpper(tokenOut))
	query.Set("amount", strconv.FormatFloat(amount, 'f', -1, 64))

	endpoint := fmt.Sprintf("%s/v2/quote?%s", s.baseURL, query.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return Quote{}, xerrors.Wrap(xerrors.CodeDownstreamFailure, err, "build quote request")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return Quote{}, xerrors.Wrap(xerrors.CodeDownstreamFailure, err, fmt.Sprintf("%s quote request", s.name))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Quote{}, xerrors.Newf(xerrors.CodeDownstreamFailure, "%s quote endpoint returned %d", s.name, resp.StatusCode)
	}

	var body restQuoteResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return Quote{}, xerrors.Wrap(xerrors.CodeDownstreamFailure, err, "decode quote response")
	}
	amountOut, err := body.AmountOut.Float64()
	if err != nil {
		return Quote{}, xerrors.Wrap(xerrors.CodeDownstreamFailure, err, "parse amount out")
	}

	return Quote{
		Exchange:  s.name,
		TokenIn:   strings.ToUpper(tokenIn),
		TokenOut:  strings.ToUpper(tokenOut),
		AmountIn:  amount,
		AmountOut: amountOut,
	}, nil
}
