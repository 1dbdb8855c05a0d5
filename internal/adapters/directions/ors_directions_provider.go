package directions

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"math"
	"net/http"
	"route-consolidation-service/internal/adapters/cache"
	"route-consolidation-service/internal/domain"
	"route-consolidation-service/internal/platform/obs"
	"route-consolidation-service/internal/ports"
	"time"
)

const (
	DefaultBaseURL = "https://api.openrouteservice.org"
	DefaultProfile = "driving-car"
)

// ORSDirectionsProvider implements ports.DirectionsProvider using the
// OpenRouteService directions endpoint.
//
// Routed trips are cached by their ordered stop list when a cache is
// configured. Transient failures are retried with backoff. The provider is
// safe for concurrent use.
type ORSDirectionsProvider struct {
	session *http.Client
	apiKey  string
	baseURL string
	profile string
	cache   *cache.SQLDirectionsCache
}

func NewORSDirectionsProvider(
	apiKey string,
	baseURL string,
	profile string,
	directionsCache *cache.SQLDirectionsCache,
) (*ORSDirectionsProvider, error) {
	if apiKey == "" {
		return nil, errors.New("ORS api key is empty")
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if profile == "" {
		profile = DefaultProfile
	}

	return &ORSDirectionsProvider{
		session: &http.Client{Timeout: 10 * time.Second},
		apiKey:  apiKey,
		baseURL: baseURL,
		profile: profile,
		cache:   directionsCache,
	}, nil
}

type directionsRequest struct {
	Coordinates [][]float64 `json:"coordinates"`
}

type directionsResponse struct {
	Routes []struct {
		Segments []struct {
			Distance float64 `json:"distance"`
			Duration float64 `json:"duration"`
		} `json:"segments"`
		Geometry string `json:"geometry"`
	} `json:"routes"`
}

// Route returns the road route origin -> waypoints... -> destination.
// Any failure is reported wrapped in ports.ErrDirectionsUnavailable.
func (o *ORSDirectionsProvider) Route(
	ctx context.Context,
	origin domain.Coordinates,
	destination domain.Coordinates,
	waypoints []domain.Coordinates,
) (_ ports.Directions, err error) {
	defer obs.Time(ctx, "ors.Route")(&err)

	stops := make([]domain.Coordinates, 0, len(waypoints)+2)
	stops = append(stops, origin)
	stops = append(stops, waypoints...)
	stops = append(stops, destination)

	for i, s := range stops {
		if err := s.Validate(); err != nil {
			return ports.Directions{}, fmt.Errorf("ORS route: stop %d: %w", i, err)
		}
	}

	key := cache.RouteKey(stops)
	if o.cache != nil {
		cached, ok, err := o.cache.Get(ctx, key)
		if err != nil {
			log.Printf("op=ors.Route directions cache read failed: %v", err)
		} else if ok {
			return cached, nil
		}
	}

	fetched, err := o.fetchDirections(ctx, stops)
	if err != nil {
		return ports.Directions{}, fmt.Errorf("%w: %w", ports.ErrDirectionsUnavailable, err)
	}

	if o.cache != nil {
		if err := o.cache.Put(ctx, key, fetched); err != nil {
			log.Printf("op=ors.Route directions cache write failed: %v", err)
		}
	}

	return fetched, nil
}

func (o *ORSDirectionsProvider) fetchDirections(ctx context.Context, stops []domain.Coordinates) (ports.Directions, error) {
	endpoint := fmt.Sprintf("%s/v2/directions/%s", o.baseURL, o.profile)

	coords := make([][]float64, 0, len(stops))
	for _, s := range stops {
		coords = append(coords, s.CoordsToList())
	}

	payload, err := json.Marshal(directionsRequest{Coordinates: coords})
	if err != nil {
		return ports.Directions{}, fmt.Errorf("marshal directions request: %w", err)
	}

	resp, err := o.doWithRetry(ctx, func() (*http.Request, error) {
		return o.newRequest(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	})
	if err != nil {
		return ports.Directions{}, fmt.Errorf("directions request failed: %w", err)
	}
	defer resp.Body.Close()

	var dr directionsResponse
	if err := json.NewDecoder(resp.Body).Decode(&dr); err != nil {
		return ports.Directions{}, fmt.Errorf("decode directions response: %w", err)
	}

	if len(dr.Routes) == 0 {
		return ports.Directions{}, errors.New("directions response has no routes")
	}

	route := dr.Routes[0]
	if len(route.Segments) != len(stops)-1 {
		return ports.Directions{}, fmt.Errorf(
			"expected %d segments; got %d",
			len(stops)-1, len(route.Segments),
		)
	}

	out := ports.Directions{
		Legs:             make([]ports.DirectionsLeg, 0, len(route.Segments)),
		OverviewPolyline: route.Geometry,
	}
	for _, seg := range route.Segments {
		// ORS returns float metrics; round to whole meters and seconds.
		out.Legs = append(out.Legs, ports.DirectionsLeg{
			DistanceMeters:  int(math.Round(seg.Distance)),
			DurationSeconds: int(math.Round(seg.Duration)),
		})
	}

	return out, nil
}
