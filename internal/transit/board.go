package transit

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Station is a resolved departure-board stop.
type Station struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Type string `json:"type"`
}

// BoardFetcher resolves stations and lists their departures.
type BoardFetcher interface {
	ResolveStation(ctx context.Context, apiURL, name string) (Station, error)
	Departures(ctx context.Context, apiURL, stationID string, window time.Duration) ([]Record, error)
}

var _ BoardFetcher = (*BoardClient)(nil)

// BoardClient talks to a transport.rest style departure-board API.
type BoardClient struct {
	http *http.Client
}

// NewBoardClient builds a BoardClient with the default timeout.
func NewBoardClient() *BoardClient {
	return &BoardClient{http: newHTTPClient()}
}

// ResolveStation looks up name and returns the single best match.
func (c *BoardClient) ResolveStation(ctx context.Context, apiURL, name string) (Station, error) {
	values := url.Values{}
	values.Set("query", name)
	values.Set("results", "1")
	reqURL, err := endpoint(apiURL, "/locations", values)
	if err != nil {
		return Station{}, err
	}

	body, err := get(ctx, c.http, reqURL, "application/json")
	if err != nil {
		return Station{}, err
	}

	var stations []Station
	if err := json.Unmarshal(body, &stations); err != nil {
		return Station{}, &DecodeError{Format: "locations", Err: err}
	}
	if len(stations) == 0 {
		return Station{}, &ResolutionError{Query: name, Err: errors.New("no results")}
	}
	top := stations[0]
	if strings.TrimSpace(top.ID) == "" {
		return Station{}, &ResolutionError{Query: name, Err: errors.New("result has no id")}
	}
	return top, nil
}

// Departures lists departures from stationID within window.
func (c *BoardClient) Departures(ctx context.Context, apiURL, stationID string, window time.Duration) ([]Record, error) {
	values := url.Values{}
	if minutes := int(window / time.Minute); minutes > 0 {
		values.Set("duration", strconv.Itoa(minutes))
	}
	reqURL, err := endpoint(apiURL, "/stops/"+url.PathEscape(stationID)+"/departures", values)
	if err != nil {
		return nil, err
	}

	body, err := get(ctx, c.http, reqURL, "application/json")
	if err != nil {
		return nil, err
	}

	board, err := NormalizeBoard(body)
	if err != nil {
		return nil, err
	}
	return board.Records, nil
}

func endpoint(apiURL, path string, values url.Values) (string, error) {
	base, err := url.Parse(strings.TrimRight(strings.TrimSpace(apiURL), "/"))
	if err != nil || base.Host == "" {
		return "", &FetchError{URL: apiURL, Err: fmt.Errorf("invalid api url %q", apiURL)}
	}
	base.Path += path
	base.RawQuery = values.Encode()
	return base.String(), nil
}

// ShapeKind tags which top-level JSON shape a departure board used.
type ShapeKind int

const (
	ShapeUnrecognized ShapeKind = iota
	ShapeList
	ShapeDepartures
	ShapeResults
)

func (k ShapeKind) String() string {
	switch k {
	case ShapeList:
		return "list"
	case ShapeDepartures:
		return "departures"
	case ShapeResults:
		return "results"
	default:
		return "unrecognized"
	}
}

// Board is the normalized result of a departure-board response.
type Board struct {
	Kind    ShapeKind
	Records []Record
}

// NormalizeBoard accepts a bare JSON array of departures, or an object whose
// "departures" or "results" field holds that array. The first recognized
// shape wins.
func NormalizeBoard(raw []byte) (Board, error) {
	trimmed := bytes.TrimSpace(raw)
	if !json.Valid(trimmed) {
		return Board{}, &DecodeError{Format: "departures", Err: errors.New("invalid JSON")}
	}

	kind, items := classifyBoard(trimmed)
	if kind == ShapeUnrecognized {
		return Board{Kind: kind}, &FormatError{Detail: "expected a departures array, or an object with departures or results"}
	}

	var departures []departure
	if err := json.Unmarshal(items, &departures); err != nil {
		return Board{Kind: kind}, &DecodeError{Format: "departures", Err: err}
	}

	records := make([]Record, 0, len(departures))
	for _, d := range departures {
		records = append(records, d.record())
	}
	return Board{Kind: kind, Records: records}, nil
}

func classifyBoard(raw json.RawMessage) (ShapeKind, json.RawMessage) {
	if len(raw) > 0 && raw[0] == '[' {
		return ShapeList, raw
	}
	var wrapped map[string]json.RawMessage
	if err := json.Unmarshal(raw, &wrapped); err != nil {
		return ShapeUnrecognized, nil
	}
	if list, ok := wrapped["departures"]; ok && isArray(list) {
		return ShapeDepartures, list
	}
	if list, ok := wrapped["results"]; ok && isArray(list) {
		return ShapeResults, list
	}
	return ShapeUnrecognized, nil
}

func isArray(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && trimmed[0] == '['
}

type departure struct {
	TripID       string    `json:"tripId"`
	Line         boardLine `json:"line"`
	Direction    string    `json:"direction"`
	Delay        *int32    `json:"delay"`
	ArrivalDelay *int32    `json:"arrivalDelay"`
	Cancelled    bool      `json:"cancelled"`
	Canceled     bool      `json:"canceled"`
	When         string    `json:"when"`
	PlannedWhen  string    `json:"plannedWhen"`
}

type boardLine struct {
	Name    string `json:"name"`
	Product string `json:"product"`
}

func (d departure) record() Record {
	return Record{
		ID:             d.TripID,
		Line:           d.Line.Name,
		Direction:      d.Direction,
		Cancelled:      d.Cancelled || d.Canceled,
		DepartureDelay: FromPtr(d.Delay),
		ArrivalDelay:   FromPtr(d.ArrivalDelay),
		When:           parseWhen(d.When).Or(parseWhen(d.PlannedWhen)),
	}
}

func parseWhen(value string) Optional[time.Time] {
	value = strings.TrimSpace(value)
	if value == "" {
		return None[time.Time]()
	}
	if ts, err := time.Parse(time.RFC3339, value); err == nil {
		return Some(ts)
	}
	return None[time.Time]()
}
