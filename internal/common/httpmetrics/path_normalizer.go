package httpmetrics

import "strings"

// UnmatchedPath labels every request outside the known route table.
const UnmatchedPath = "{unmatched}"

const contentsPrefix = "/api/contents/"

var staticPaths = map[string]struct{}{
	"/":                    {},
	"/health":              {},
	"/metrics":             {},
	"/ws/feed":             {},
	"/api/users/register":  {},
	"/api/session/signin":  {},
	"/api/session/signout": {},
	"/api/contents":        {},
}

var contentActions = map[string]struct{}{
	"like":     {},
	"dislike":  {},
	"comments": {},
}

// NormalizePath maps a request path onto a bounded set of metric labels.
// The content id segment always collapses to {id}, whatever its shape.
func NormalizePath(path string) string {
	trimmed := strings.TrimSuffix(path, "/")
	if trimmed == "" {
		return "/"
	}

	if _, ok := staticPaths[trimmed]; ok {
		return trimmed
	}

	rest, ok := strings.CutPrefix(trimmed, contentsPrefix)
	if !ok {
		return UnmatchedPath
	}

	id, action, hasAction := strings.Cut(rest, "/")
	if id == "" {
		return UnmatchedPath
	}
	if !hasAction {
		return contentsPrefix + "{id}"
	}
	if _, ok := contentActions[action]; ok {
		return contentsPrefix + "{id}/" + action
	}
	return UnmatchedPath
}
