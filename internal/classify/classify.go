// Package classify maps project-relative paths to SvelteKit file roles.
package classify

import (
	"path"
	"regexp"
	"strings"
)

var configFiles = map[string]struct{}{
	"svelte.config.js": {},
	"svelte.config.ts": {},
	"vite.config.js":   {},
	"vite.config.ts":   {},
}

// Routing conventions, most specific first.
var routePatterns = []struct {
	re   *regexp.Regexp
	role Role
}{
	{regexp.MustCompile(`\+page\.server\.[tj]s$`), RolePageServer},
	{regexp.MustCompile(`\+layout\.server\.[tj]s$`), RoleLayoutServer},
	{regexp.MustCompile(`\+server\.[tj]s$`), RoleServerEndpoint},
	{regexp.MustCompile(`\+page\.[tj]s$`), RolePageClient},
	{regexp.MustCompile(`\+layout\.[tj]s$`), RoleLayoutClient},
}

var serverSuffix = regexp.MustCompile(`\.server\.[tj]s$`)

// File returns the role of the file at p. It is a pure function of the path:
// no filesystem access, every input maps to exactly one role.
func File(p string) Role {
	normalized := strings.ReplaceAll(p, `\`, "/")
	base := path.Base(normalized)

	if _, ok := configFiles[base]; ok {
		return RoleConfig
	}

	if strings.HasSuffix(normalized, ".svelte") {
		return RoleComponent
	}

	for _, rp := range routePatterns {
		if rp.re.MatchString(base) {
			return rp.role
		}
	}

	if strings.Contains("/"+normalized, "/lib/server/") || serverSuffix.MatchString(base) {
		return RoleLibServer
	}

	return RoleLibClient
}
