package sos

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	serviceName     = "SOS"
	serviceVersion  = "2.0.0"
	defaultFromDate = "1900-01-01"
	defaultTimeout  = 30 * time.Second
)

// Client talks to a 52°North SOS 2.0 endpoint over its KVP GET binding.
//
// The capabilities document and the data-availability index are fetched
// once by NewClient and never change afterwards, so a constructed Client is
// safe for concurrent use.
type Client struct {
	baseURL    string
	httpClient HTTPClient
	header     http.Header
	base       Params
	logger     zerolog.Logger

	capabilities Record
	availability Availability
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default *http.Client.
func WithHTTPClient(hc HTTPClient) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithLogger sets the logger used to report failed requests.
func WithLogger(l zerolog.Logger) Option {
	return func(c *Client) {
		c.logger = l
	}
}

// NewClient builds a client for the service at baseURL and loads its
// capabilities and data-availability index.
func NewClient(ctx context.Context, baseURL, token string, opts ...Option) (*Client, error) {
	c := &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: defaultTimeout},
		header:     http.Header{},
		base:       NewParams("service", serviceName, "version", serviceVersion),
		logger:     log.Logger,
	}
	c.header.Set("Authorization", token)
	c.header.Set("Accept", "application/json")

	for _, opt := range opts {
		opt(c)
	}

	caps, err := c.GetCapabilities(ctx, LevelAll)
	if err != nil {
		return nil, fmt.Errorf("load capabilities: %w", err)
	}
	avail, err := c.GetDataAvailability(ctx, AvailabilityQuery{})
	if err != nil {
		return nil, fmt.Errorf("load data availability: %w", err)
	}

	c.capabilities = caps
	c.availability = avail
	return c, nil
}

// BaseURL returns the service endpoint.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Capabilities returns the capabilities document loaded at construction.
func (c *Client) Capabilities() Record {
	return c.capabilities
}

// DataAvailability returns the data-availability index loaded at
// construction.
func (c *Client) DataAvailability() Availability {
	return c.availability
}

// get issues one SOS request. Parameters are sent in the order base,
// filters, request, then extra key/value pairs.
func (c *Client) get(ctx context.Context, request string, filters Params, extra ...string) (Record, error) {
	p := c.base.Merge(filters)
	p.Set("request", request)
	for i := 0; i+1 < len(extra); i += 2 {
		p.Set(extra[i], extra[i+1])
	}
	url := requestURL(c.baseURL, p)

	c.logger.Debug().Str("request", request).Str("url", url).Msg("sos request")

	payload, err := fetchJSON(ctx, c.httpClient, url, c.header)
	if err != nil {
		var te *TransportError
		if errors.As(err, &te) {
			c.logger.Error().
				Err(err).
				Str("request", request).
				Int("status", te.StatusCode).
				Msg("sos request failed")
		}
		return nil, err
	}
	return payload, nil
}

// GetCapabilities retrieves the capabilities document, restricted to the
// sections of level. An unknown level is logged and yields a nil document
// without error.
func (c *Client) GetCapabilities(ctx context.Context, level Level) (Record, error) {
	if !level.Valid() {
		c.logger.Error().
			Str("level", string(level)).
			Strs("valid", levelNames()).
			Msg("invalid capabilities level")
		return nil, nil
	}

	var extra []string
	if level != LevelMinimal {
		extra = []string{"sections", level.Sections()}
	}
	return c.get(ctx, "GetCapabilities", Params{}, extra...)
}

// AvailabilityQuery restricts a data-availability request.
type AvailabilityQuery struct {
	FeatureOfInterest string
	Procedure         string
	ObservedProperty  string
}

// GetDataAvailability retrieves the data-availability index. Filters are
// validated against the index loaded at construction.
func (c *Client) GetDataAvailability(ctx context.Context, q AvailabilityQuery) (Availability, error) {
	fq := FilterQuery{
		FeatureOfInterest: q.FeatureOfInterest,
		Procedure:         q.Procedure,
		ObservedProperty:  q.ObservedProperty,
	}
	var filters Params
	if !fq.IsZero() {
		var err error
		if filters, err = BuildFilters(c.availability, fq); err != nil {
			return nil, err
		}
	}

	payload, err := c.get(ctx, "GetDataAvailability", filters)
	if err != nil {
		return nil, err
	}
	raw, ok := asSlice(payload["dataAvailability"])
	if !ok {
		return nil, missing("dataAvailability")
	}
	return parseAvailability(raw)
}

// GetFeatures retrieves the features of interest, optionally only foi.
func (c *Client) GetFeatures(ctx context.Context, foi string) ([]FeatureOfInterest, error) {
	var filters Params
	if foi != "" {
		var err error
		if filters, err = BuildFilters(c.availability, FilterQuery{FeatureOfInterest: foi}); err != nil {
			return nil, err
		}
	}

	payload, err := c.get(ctx, "GetFeatureOfInterest", filters)
	if err != nil {
		return nil, err
	}
	raw, ok := asSlice(payload["featureOfInterest"])
	if !ok {
		return nil, missing("featureOfInterest")
	}

	features := make([]FeatureOfInterest, 0, len(raw))
	for i, item := range raw {
		r, ok := asRecord(item)
		if !ok {
			continue
		}
		f, err := ParseFeature(r)
		if err != nil {
			return nil, fmt.Errorf("featureOfInterest %d: %w", i, err)
		}
		features = append(features, f)
	}
	return features, nil
}

// GetFeatureOfInterest retrieves the features of interest as a flat table
// with identifier, lat and lon columns.
func (c *Client) GetFeatureOfInterest(ctx context.Context, foi string) (*Table, error) {
	features, err := c.GetFeatures(ctx, foi)
	if err != nil {
		return nil, err
	}
	rows := make([]Record, len(features))
	for i, f := range features {
		rows[i] = f.Flat()
	}
	return NewTable(rows), nil
}

// GetObservation retrieves observations of one observed property at one
// feature of interest and flattens them into a table. FromDate defaults to
// 1900-01-01; an empty observation list yields an empty table.
func (c *Client) GetObservation(ctx context.Context, q FilterQuery) (*Table, error) {
	if q.FeatureOfInterest == "" {
		return nil, fmt.Errorf("%w: foi", ErrMissingArgument)
	}
	if q.ObservedProperty == "" {
		return nil, fmt.Errorf("%w: observedProperty", ErrMissingArgument)
	}
	if q.FromDate == "" {
		q.FromDate = defaultFromDate
	}

	filters, err := BuildFilters(c.availability, q)
	if err != nil {
		return nil, err
	}

	payload, err := c.get(ctx, "GetObservation", filters)
	if err != nil {
		return nil, err
	}
	raw, ok := asSlice(payload["observations"])
	if !ok {
		return nil, missing("observations")
	}
	if len(raw) == 0 {
		return NewTable(nil), nil
	}
	return ProcessObservations(raw)
}
