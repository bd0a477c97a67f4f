package classify

import (
	"testing"
)

func TestFile(t *testing.T) {
	tests := []struct {
		path string
		want Role
	}{
		{"svelte.config.js", RoleConfig},
		{"vite.config.ts", RoleConfig},
		{"apps/web/vite.config.js", RoleConfig},
		{"src/lib/Button.svelte", RoleComponent},
		{"src/routes/+page.svelte", RoleComponent},
		{"src/routes/+layout.svelte", RoleComponent},
		{"src/routes/blog/+page.server.ts", RolePageServer},
		{"src/routes/+page.server.js", RolePageServer},
		{"src/routes/+layout.server.ts", RoleLayoutServer},
		{"src/routes/api/items/+server.ts", RoleServerEndpoint},
		{"src/routes/blog/+page.ts", RolePageClient},
		{"src/routes/+layout.js", RoleLayoutClient},
		{"src/lib/server/db.ts", RoleLibServer},
		{"src/lib/auth.server.ts", RoleLibServer},
		{`src\lib\server\db.ts`, RoleLibServer},
		{"lib/server/db.ts", RoleLibServer},
		{"src/lib/utils.ts", RoleLibClient},
		{"src/hooks.client.js", RoleLibClient},
		{"src/lib/serverless.ts", RoleLibClient},
		{"src/routes/+page.server.tsx", RoleLibClient},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			if got := File(tt.path); got != tt.want {
				t.Errorf("File(%q) = %v, want %v", tt.path, got, tt.want)
			}
		})
	}
}

func TestFileIsDeterministic(t *testing.T) {
	paths := []string{"src/routes/+page.server.ts", "src/App.svelte", "src/lib/x.ts"}
	first := make([]Role, len(paths))
	for i, p := range paths {
		first[i] = File(p)
	}
	// обратный порядок не должен влиять на результат
	for i := len(paths) - 1; i >= 0; i-- {
		if got := File(paths[i]); got != first[i] {
			t.Fatalf("File(%q) changed between calls: %v vs %v", paths[i], got, first[i])
		}
	}
}

func TestRoleNamesRoundTrip(t *testing.T) {
	for r := RoleComponent; r <= RoleConfig; r++ {
		got, err := ParseRole(r.String())
		if err != nil || got != r {
			t.Fatalf("ParseRole(%q) = %v, %v", r.String(), got, err)
		}
	}
	if _, err := ParseRole("nope"); err == nil {
		t.Fatalf("expected error for unknown role")
	}
}

func TestRoleSet(t *testing.T) {
	s := Roles(RolePageServer, RoleLayoutServer, RoleServerEndpoint)
	if !s.Has(RolePageServer) || s.Has(RoleComponent) {
		t.Fatalf("unexpected membership in %v", s)
	}
	if got := s.String(); got != "page-server,layout-server,server-endpoint" {
		t.Fatalf("String = %q", got)
	}
	if !RoleServerEndpoint.IsServer() || RolePageClient.IsServer() {
		t.Fatalf("IsServer mismatch")
	}
}
