// Package enrich fills in actual departure/arrival times for already
// extracted legs. Enrichment runs after the browser session is released and
// touches only an independent flight-status endpoint, so lookups run with
// bounded concurrency.
package enrich

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"rosterhound/internal/schedule"
)

const maxConcurrentLookups = 10

// Enricher looks up flight status for extracted legs. Failures are
// best-effort: a failed lookup leaves the leg's actual times nil.
type Enricher struct {
	client  *http.Client
	baseURL string
	log     *zap.Logger
}

// New returns an enricher against a flight-status endpoint. An empty baseURL
// disables enrichment.
func New(baseURL string, log *zap.Logger) *Enricher {
	return &Enricher{
		client:  &http.Client{Timeout: 10 * time.Second},
		baseURL: baseURL,
		log:     log.Named("enrich"),
	}
}

// statusResponse is the flight-status endpoint's payload.
type statusResponse struct {
	ActualDeparture string `json:"actual_departure"`
	ActualArrival   string `json:"actual_arrival"`
}

// ActualTimes enriches every operating leg of the snapshot in place, capped
// at ten concurrent lookups.
func (e *Enricher) ActualTimes(ctx context.Context, snap *schedule.Snapshot) {
	if e.baseURL == "" {
		return
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentLookups)

	for di := range snap.Duties {
		for li := range snap.Duties[di].Legs {
			leg := &snap.Duties[di].Legs[li]
			if leg.IsDeadhead || leg.FlightNumber == "" || leg.Departure.Date == "" {
				continue
			}
			g.Go(func() error {
				e.enrichLeg(ctx, leg)
				return nil
			})
		}
	}
	_ = g.Wait()
}

func (e *Enricher) enrichLeg(ctx context.Context, leg *schedule.Leg) {
	status, err := e.lookup(ctx, leg.FlightNumber, leg.Departure.Date)
	if err != nil {
		e.log.Debug("status lookup failed",
			zap.String("flight", leg.FlightNumber),
			zap.String("date", leg.Departure.Date),
			zap.Error(err))
		return
	}
	if status.ActualDeparture != "" {
		leg.ActualDeparture = &status.ActualDeparture
	}
	if status.ActualArrival != "" {
		leg.ActualArrival = &status.ActualArrival
	}
}

func (e *Enricher) lookup(ctx context.Context, flightNumber, date string) (*statusResponse, error) {
	u := fmt.Sprintf("%s?flight=%s&date=%s", e.baseURL,
		url.QueryEscape(flightNumber), url.QueryEscape(date))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	resp, err := e.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP %d", resp.StatusCode)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
	if err != nil {
		return nil, err
	}

	var status statusResponse
	if err := json.Unmarshal(body, &status); err != nil {
		return nil, err
	}
	return &status, nil
}
