package itunes

import (
	"context"
	"errors"
	"net/url"
	"strconv"

	"github.com/adrg/strutil"
	"github.com/adrg/strutil/metrics"

	ythttp "github.com/handiism/ytmp3/internal/http"
	"github.com/handiism/ytmp3/internal/itunes/dto"
	"github.com/handiism/ytmp3/internal/model"
)

// DefaultEndpoint is the public iTunes Search API.
const DefaultEndpoint = "https://itunes.apple.com/search"

// Config controls how the search is issued.
type Config struct {
	// Endpoint is the search URL without query string.
	Endpoint string

	// Country is the two-letter store front, e.g. "US".
	Country string

	// Limit caps the number of results the service returns.
	Limit int

	// ArtworkSize is the edge length requested for cover art URLs.
	ArtworkSize int
}

// DefaultConfig returns the configuration used against the public service.
func DefaultConfig() Config {
	return Config{
		Endpoint:    DefaultEndpoint,
		Country:     "US",
		Limit:       10,
		ArtworkSize: 600,
	}
}

// LookupResult is the outcome of one search.
type LookupResult struct {
	// Found is false when nothing matched. That is an ordinary outcome,
	// not an error.
	Found bool
	Song  model.SongMetadata

	// Similarity between the search term and "{artist} {title}" of the
	// accepted entry, in [0, 1]. Only meaningful when Found.
	Similarity float64
}

// Client queries the iTunes Search API for song metadata.
//
// Example usage:
//
//	client := itunes.NewClient(ythttp.NewClient(10*time.Second), itunes.DefaultConfig())
//	res, err := client.Search(ctx, "The Beatles - Come Together")
//	if err == nil && res.Found {
//	    fmt.Println(res.Song.Album.OrElse(""))
//	}
type Client struct {
	http *ythttp.Client
	cfg  Config
}

// NewClient creates a Client. Zero fields of cfg take their defaults.
func NewClient(httpClient *ythttp.Client, cfg Config) *Client {
	def := DefaultConfig()
	if cfg.Endpoint == "" {
		cfg.Endpoint = def.Endpoint
	}
	if cfg.Country == "" {
		cfg.Country = def.Country
	}
	if cfg.Limit <= 0 {
		cfg.Limit = def.Limit
	}
	if cfg.ArtworkSize <= 0 {
		cfg.ArtworkSize = def.ArtworkSize
	}
	return &Client{http: httpClient, cfg: cfg}
}

// Search issues a single GET for term and returns the first entry
// that is a song whose track and artist names both occur in term.
//
// A non-200 answer is reported as not found. Transport and decoding
// failures are returned as errors.
func (c *Client) Search(ctx context.Context, term string) (LookupResult, error) {
	var resp dto.SearchResponse
	err := c.http.GetJSON(ctx, c.searchURL(term), &resp)
	if err != nil {
		var statusErr *ythttp.StatusError
		if errors.As(err, &statusErr) {
			return LookupResult{}, nil
		}
		return LookupResult{}, err
	}

	metric := metrics.NewLevenshtein()
	metric.CaseSensitive = false

	for i := range resp.Results {
		r := &resp.Results[i]
		if !r.IsSong() || !r.MatchedBy(term) {
			continue
		}
		return LookupResult{
			Found:      true,
			Song:       r.ToSong(c.cfg.ArtworkSize),
			Similarity: strutil.Similarity(term, r.ArtistName+" "+r.TrackName, metric),
		}, nil
	}
	return LookupResult{}, nil
}

func (c *Client) searchURL(term string) string {
	q := url.Values{}
	q.Set("term", term)
	q.Set("media", "music")
	q.Set("entity", "song")
	q.Set("limit", strconv.Itoa(c.cfg.Limit))
	q.Set("country", c.cfg.Country)
	return c.cfg.Endpoint + "?" + q.Encode()
}
