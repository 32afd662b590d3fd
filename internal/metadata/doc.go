// Package metadata derives song metadata from a video title.
package metadata
