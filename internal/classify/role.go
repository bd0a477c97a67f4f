package classify

import (
	"fmt"
	"strings"
)

// Role is the place a file takes in the SvelteKit routing and rendering
// conventions. It decides which rules run on the file.
type Role uint8

const (
	RoleUnknown Role = iota
	RoleComponent
	RolePageServer
	RoleLayoutServer
	RoleServerEndpoint
	RolePageClient
	RoleLayoutClient
	RoleLibServer
	RoleLibClient
	RoleConfig
)

var roleNames = [...]string{
	RoleUnknown:        "unknown",
	RoleComponent:      "svelte-component",
	RolePageServer:     "page-server",
	RoleLayoutServer:   "layout-server",
	RoleServerEndpoint: "server-endpoint",
	RolePageClient:     "page-client",
	RoleLayoutClient:   "layout-client",
	RoleLibServer:      "lib-server",
	RoleLibClient:      "lib-client",
	RoleConfig:         "config",
}

func (r Role) String() string {
	if int(r) < len(roleNames) {
		return roleNames[r]
	}
	return "unknown"
}

// ParseRole is the inverse of Role.String.
func ParseRole(s string) (Role, error) {
	for i, name := range roleNames {
		if i == int(RoleUnknown) {
			continue
		}
		if strings.EqualFold(name, s) {
			return Role(i), nil //nolint:gosec // i < len(roleNames)
		}
	}
	return RoleUnknown, fmt.Errorf("unknown file role: %q", s)
}

// IsServer reports whether code with this role only ever runs on the server.
func (r Role) IsServer() bool {
	switch r {
	case RolePageServer, RoleLayoutServer, RoleServerEndpoint, RoleLibServer:
		return true
	}
	return false
}

// RoleSet is a bitset of roles.
type RoleSet uint16

// Roles builds a RoleSet.
func Roles(roles ...Role) RoleSet {
	var s RoleSet
	for _, r := range roles {
		s |= 1 << r
	}
	return s
}

// Has reports whether r is in the set.
func (s RoleSet) Has(r Role) bool {
	return s&(1<<r) != 0
}

// List returns the roles in declaration order.
func (s RoleSet) List() []Role {
	out := make([]Role, 0, 4)
	for r := RoleComponent; r <= RoleConfig; r++ {
		if s.Has(r) {
			out = append(out, r)
		}
	}
	return out
}

func (s RoleSet) String() string {
	roles := s.List()
	parts := make([]string, len(roles))
	for i, r := range roles {
		parts[i] = r.String()
	}
	return strings.Join(parts, ",")
}
