package packager

import "testing"

func TestSanitizePath_Accepts(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"src/main.rs", "src/main.rs"},
		{"./src/lib.rs", "src/lib.rs"},
		{"  src/lib.rs  ", "src/lib.rs"},
		{`src\util\mod.rs`, "src/util/mod.rs"},
		{"tests/integration.rs", "tests/integration.rs"},
		{"README.md", "README.md"},
		{"deeply/nested/dir/file.rs", "deeply/nested/dir/file.rs"},
	}

	for _, tt := range tests {
		got, ok := SanitizePath(tt.raw)
		if !ok {
			t.Errorf("SanitizePath(%q) rejected, want %q", tt.raw, tt.want)
			continue
		}
		if got != tt.want {
			t.Errorf("SanitizePath(%q) = %q, want %q", tt.raw, got, tt.want)
		}
	}
}

func TestSanitizePath_Rejects(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"empty", ""},
		{"whitespace only", "   "},
		{"dot slash only", "./"},
		{"dot only", "."},
		{"absolute", "/etc/passwd"},
		{"absolute after trim", "  /etc/passwd"},
		{"windows absolute", `C:\Windows\system32`},
		{"windows drive forward slash", "C:/Windows/system32"},
		{"traversal", "../../x"},
		{"embedded traversal", "src/../../etc/shadow"},
		{"trailing traversal", "src/.."},
		{"reserved prefix", "templates/evil.tera"},
		{"reserved prefix nested", "templates/rust/Cargo.toml.template"},
		{"reserved dir itself", "templates"},
		{"dotted reserved via cwd prefix", "./templates/evil.tera"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got, ok := SanitizePath(tt.raw); ok {
				t.Errorf("SanitizePath(%q) = %q, want rejection", tt.raw, got)
			}
		})
	}
}

func TestSanitizePath_DoesNotRejectLookalikes(t *testing.T) {
	// Names that merely resemble the reserved prefix or traversal markers
	// are legitimate.
	tests := []struct {
		raw  string
		want string
	}{
		{"templates.rs", "templates.rs"},
		{"src/templates/page.html", "src/templates/page.html"},
		{"src/..hidden/file.rs", "src/..hidden/file.rs"},
	}

	for _, tt := range tests {
		got, ok := SanitizePath(tt.raw)
		if !ok || got != tt.want {
			t.Errorf("SanitizePath(%q) = %q, %v; want %q, true", tt.raw, got, ok, tt.want)
		}
	}
}
