package packager

import "testing"

func TestSanitizeContent_NormalizesNewlinesAndBOM(t *testing.T) {
	got := SanitizeContent("src/main.rs", "\uFEFFfn main() {}\r\nlet x = 1;\rdone")
	want := "fn main() {}\nlet x = 1;\ndone\n"
	if got != want {
		t.Errorf("SanitizeContent = %q, want %q", got, want)
	}
}

func TestSanitizeContent_StripsLeadingMarker(t *testing.T) {
	in := "### FILE: src/main.rs\nfn main() {}\n"
	got := SanitizeContent("src/main.rs", in)
	if got != "fn main() {}\n" {
		t.Errorf("SanitizeContent = %q, want marker stripped", got)
	}
}

func TestSanitizeContent_UnwrapsFullFence(t *testing.T) {
	in := "```rust\nfn main() {}\n```"
	got := SanitizeContent("src/main.rs", in)
	if got != "fn main() {}\n" {
		t.Errorf("SanitizeContent = %q, want fence unwrapped", got)
	}
}

func TestSanitizeContent_UnwrapsDoubleWrappedFence(t *testing.T) {
	in := "````\n```rust\nfn main() {}\n```\n````"
	got := SanitizeContent("src/main.rs", in)
	if got != "fn main() {}\n" {
		t.Errorf("SanitizeContent = %q, want both fences unwrapped", got)
	}
}

func TestSanitizeContent_KeepsPartialFence(t *testing.T) {
	// A fence followed by more content is not a full-file wrap.
	in := "```rust\nfn main() {}\n```\nextra line\n"
	got := SanitizeContent("src/main.rs", in)
	if got != in {
		t.Errorf("SanitizeContent = %q, want unchanged", got)
	}
}

func TestSanitizeContent_DocLikeKeepsFences(t *testing.T) {
	in := "```sh\nmake build\n```\n"
	for _, path := range []string{"README.md", "docs/GUIDE.MARKDOWN", "notes.rst"} {
		if got := SanitizeContent(path, in); got != in {
			t.Errorf("SanitizeContent(%q) = %q, want fences preserved", path, got)
		}
	}
}

func TestSanitizeContent_DocLikeStillNormalizes(t *testing.T) {
	got := SanitizeContent("README.md", "\uFEFF# Title\r\nBody")
	want := "# Title\nBody\n"
	if got != want {
		t.Errorf("SanitizeContent = %q, want %q", got, want)
	}
}

func TestSanitizeContent_EmptyStaysEmpty(t *testing.T) {
	if got := SanitizeContent("src/empty.rs", ""); got != "" {
		t.Errorf("SanitizeContent(empty) = %q, want empty", got)
	}
}

func TestSanitizeContent_Idempotent(t *testing.T) {
	cases := []struct {
		path    string
		content string
	}{
		{"src/main.rs", "```rust\nfn main() {}\n```"},
		{"src/main.rs", "### FILE: src/main.rs\n```rust\nfn main() {}\n```"},
		{"src/main.rs", "````\n```rust\nfn main() {}\n```\n````"},
		{"src/main.rs", "```rust\n### FILE: src/main.rs\nfn main() {}\n```"},
		{"src/main.rs", "plain content\r\nwith crlf"},
		{"README.md", "```sh\nmake\n```"},
		{"src/empty.rs", ""},
		{"src/odd.rs", "``` \nnot a fence tag\n```"},
	}

	for _, tt := range cases {
		once := SanitizeContent(tt.path, tt.content)
		twice := SanitizeContent(tt.path, once)
		if once != twice {
			t.Errorf("SanitizeContent(%q, %q) not idempotent: %q != %q",
				tt.path, tt.content, once, twice)
		}
	}
}
