package location

import (
	"errors"
	"net/url"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseCanonicalizesPath(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantPath string
		wantErr  error
	}{
		{
			name:     "root",
			input:    "/",
			wantPath: "/",
		},
		{
			name:     "empty string",
			input:    "",
			wantPath: "/",
		},
		{
			name:     "no leading slash",
			input:    "about",
			wantPath: "/about",
		},
		{
			name:     "collapse slashes",
			input:    "/contacts//5",
			wantPath: "/contacts/5",
		},
		{
			name:     "single dot",
			input:    "/contacts/./5",
			wantPath: "/contacts/5",
		},
		{
			name:     "double dot",
			input:    "/contacts/5/../7",
			wantPath: "/contacts/7",
		},
		{
			name:     "trailing slash removed",
			input:    "/contacts/",
			wantPath: "/contacts",
		},
		{
			name:     "query not part of the path",
			input:    "/contacts/5?tab=notes",
			wantPath: "/contacts/5",
		},
		{
			name:    "backslash rejected",
			input:   `/contacts\5`,
			wantErr: ErrBackslashInPath,
		},
		{
			name:    "null byte rejected",
			input:   "/contacts/%00",
			wantErr: ErrNullByteInPath,
		},
		{
			name:    "bad percent escape",
			input:   "/contacts/%GG",
			wantErr: ErrInvalidPercentEscape,
		},
		{
			name:    "truncated percent escape",
			input:   "/contacts/%2",
			wantErr: ErrInvalidPercentEscape,
		},
		{
			name:    "escape root",
			input:   "/../secret",
			wantErr: ErrPathEscapesRoot,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.input)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Parse(%q) error = %v, want %v", tt.input, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Parse(%q) unexpected error: %v", tt.input, err)
			}
			if got.Path != tt.wantPath {
				t.Errorf("Path = %q, want %q", got.Path, tt.wantPath)
			}
		})
	}
}

func TestParse(t *testing.T) {
	loc, err := Parse("/contacts/5?q=alex&sort=last&sort=first#notes")
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}

	want := Location{
		Path: "/contacts/5",
		Query: url.Values{
			"q":    {"alex"},
			"sort": {"last", "first"},
		},
		Hash: "notes",
	}
	if diff := cmp.Diff(want, loc); diff != "" {
		t.Errorf("Parse mismatch (-want +got):\n%s", diff)
	}
}

func TestParseRejectsAbsoluteURLs(t *testing.T) {
	for _, input := range []string{"http://evil.test/", "https://evil.test/", "//evil.test/"} {
		if _, err := Parse(input); !errors.Is(err, ErrInvalidPath) {
			t.Errorf("Parse(%q) error = %v, want ErrInvalidPath", input, err)
		}
	}
}

func TestString(t *testing.T) {
	tests := []struct {
		name string
		loc  Location
		want string
	}{
		{
			name: "path only",
			loc:  Location{Path: "/contacts"},
			want: "/contacts",
		},
		{
			name: "empty path renders root",
			loc:  Location{},
			want: "/",
		},
		{
			name: "with query",
			loc:  Location{Path: "/", Query: url.Values{"q": {"alex"}}},
			want: "/?q=alex",
		},
		{
			name: "with hash",
			loc:  Location{Path: "/contacts/5", Hash: "notes"},
			want: "/contacts/5#notes",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.loc.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRoundTrip(t *testing.T) {
	inputs := []string{"/", "/contacts", "/contacts/5?q=alex", "/contacts/5#notes"}
	for _, input := range inputs {
		loc := MustParse(input)
		again := MustParse(loc.String())
		if !loc.Equal(again) {
			t.Errorf("round trip of %q: %v != %v", input, loc, again)
		}
	}
}

func TestEqual(t *testing.T) {
	a := MustParse("/contacts/5?q=alex&sort=last")
	b := MustParse("/contacts/5?sort=last&q=alex")
	if !a.Equal(b) {
		t.Error("key order should not affect equality")
	}

	c := MustParse("/contacts/5?q=alex")
	if a.Equal(c) {
		t.Error("differing query values reported equal")
	}

	d := MustParse("/contacts/6?q=alex&sort=last")
	if a.Equal(d) {
		t.Error("differing paths reported equal")
	}
}

func TestSegments(t *testing.T) {
	tests := []struct {
		path string
		want []string
	}{
		{"/", nil},
		{"/contacts", []string{"contacts"}},
		{"/contacts/5/edit", []string{"contacts", "5", "edit"}},
	}

	for _, tt := range tests {
		got := Location{Path: tt.path}.Segments()
		if diff := cmp.Diff(tt.want, got); diff != "" {
			t.Errorf("Segments(%q) mismatch (-want +got):\n%s", tt.path, diff)
		}
	}
}
