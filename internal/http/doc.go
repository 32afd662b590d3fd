// Package http provides the HTTP plumbing shared by the song lookup,
// artwork download and stream download steps.
//
// The Client in this package handles:
//   - User-Agent headers
//   - Timeout handling
//   - JSON API responses
//   - Small in-memory downloads
//
// # Basic Usage
//
//	client := http.NewClient(30 * time.Second)
//
//	var resp searchResponse
//	err := client.GetJSON(ctx, searchURL, &resp)
//
// # Progress Tracking
//
// ReadAll drains a stream into a caller-owned buffer while reporting
// bytes, rate and ETA:
//
//	buf, err := http.ReadAll(ctx, stream, size, 100*time.Millisecond, func(p http.Progress) {
//	    fmt.Printf("%.1f%%\n", p.Percent())
//	})
//
// The ProgressWriter type can wrap any io.Writer for the same purpose.
package http
