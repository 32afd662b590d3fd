// Package itunes looks up song metadata in the iTunes Search API.
//
// The lookup is a best-effort fuzzy filter, not a ranking: the first
// returned song whose track and artist names both appear in the search
// term wins.
package itunes
