package transit

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	gtfs "github.com/MobilityData/gtfs-realtime-bindings/golang/gtfs"
	"google.golang.org/protobuf/proto"
)

// FeedFetcher fetches GTFS-Realtime trip updates as normalized records.
type FeedFetcher interface {
	FetchRecords(ctx context.Context, feedURL string) ([]Record, error)
}

var _ FeedFetcher = (*FeedClient)(nil)

// FeedClient reads GTFS-Realtime protobuf feeds over HTTP or from local files.
type FeedClient struct {
	http *http.Client
}

// NewFeedClient builds a FeedClient with the default timeout.
func NewFeedClient() *FeedClient {
	return &FeedClient{http: newHTTPClient()}
}

// FetchRecords downloads and decodes the feed, returning one record per trip
// update entity in feed order.
func (c *FeedClient) FetchRecords(ctx context.Context, feedURL string) ([]Record, error) {
	body, err := c.fetch(ctx, feedURL)
	if err != nil {
		return nil, err
	}
	feed, err := DecodeFeed(body)
	if err != nil {
		return nil, err
	}
	return FeedRecords(feed), nil
}

func (c *FeedClient) fetch(ctx context.Context, feedURL string) ([]byte, error) {
	if !strings.HasPrefix(feedURL, "http://") && !strings.HasPrefix(feedURL, "https://") {
		body, err := os.ReadFile(feedURL)
		if err != nil {
			return nil, &FetchError{URL: feedURL, Err: err}
		}
		return body, nil
	}
	return get(ctx, c.http, feedURL, "application/x-protobuf")
}

// DecodeFeed parses raw protobuf bytes as a FeedMessage.
func DecodeFeed(body []byte) (*gtfs.FeedMessage, error) {
	feed := &gtfs.FeedMessage{}
	if err := proto.Unmarshal(body, feed); err != nil {
		return nil, &DecodeError{Format: "gtfs-realtime", Err: fmt.Errorf("parse protobuf: %w", err)}
	}
	return feed, nil
}

// FeedRecords flattens the trip updates of feed. Entities without a trip
// update are skipped. Delays and times come from the first stop time update.
func FeedRecords(feed *gtfs.FeedMessage) []Record {
	records := make([]Record, 0, len(feed.GetEntity()))
	for _, entity := range feed.GetEntity() {
		update := entity.GetTripUpdate()
		if update == nil {
			continue
		}
		trip := update.GetTrip()
		rec := Record{
			ID:        trip.GetTripId(),
			Line:      trip.GetRouteId(),
			Cancelled: trip.GetScheduleRelationship() == gtfs.TripDescriptor_CANCELED,
		}
		if stops := update.GetStopTimeUpdate(); len(stops) > 0 {
			first := stops[0]
			if dep := first.GetDeparture(); dep != nil {
				rec.DepartureDelay = FromPtr(dep.Delay)
				rec.When = eventTime(dep)
			}
			if arr := first.GetArrival(); arr != nil {
				rec.ArrivalDelay = FromPtr(arr.Delay)
				rec.When = rec.When.Or(eventTime(arr))
			}
		}
		records = append(records, rec)
	}
	return records
}

func eventTime(ev *gtfs.TripUpdate_StopTimeEvent) Optional[time.Time] {
	if ev.Time == nil || *ev.Time <= 0 {
		return None[time.Time]()
	}
	return Some(time.Unix(*ev.Time, 0))
}
