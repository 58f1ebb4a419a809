package resolver

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestResolve(t *testing.T) {
	t.Parallel()

	base := mustParseURL(t, "https://example.com/blog/post#comments")

	testCases := []struct {
		name string
		ref  string
		want string
	}{
		{"path absolute", "/favicon.ico", "https://example.com/favicon.ico"},
		{"path relative", "img/cover.png", "https://example.com/blog/img/cover.png"},
		{"dot segments", "../up.png", "https://example.com/up.png"},
		{"scheme relative", "//cdn.example.com/a.png", "https://cdn.example.com/a.png"},
		{"absolute", "http://other.org/x.png", "http://other.org/x.png"},
		{"query only", "?size=large", "https://example.com/blog/post?size=large"},
		{"fragment only", "#top", "https://example.com/blog/post#top"},
		{"empty drops base fragment", "", "https://example.com/blog/post"},
		{"surrounding whitespace", "  /a.png\n", "https://example.com/a.png"},
		{"embedded tab and newline", "/a\tb\n.png", "https://example.com/ab.png"},
		{"space in path is escaped", "my icon.png", "https://example.com/blog/my%20icon.png"},
		{"data uri", "data:image/png;base64,AA==", "data:image/png;base64,AA=="},
		{"lone percent sign", "/img/100%.png", "https://example.com/img/100%25.png"},
		{"invalid escape is encoded", "%zz", "https://example.com/blog/%25zz"},
		{"valid escape is kept", "/a%20b.png", "https://example.com/a%20b.png"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got, ok := Resolve(base, tc.ref).Get()
			require.True(t, ok, "expected %q to resolve", tc.ref)
			require.Equal(t, tc.want, got.String())
		})
	}
}

func TestResolveUnresolvable(t *testing.T) {
	t.Parallel()

	base := mustParseURL(t, "https://example.com/blog/post")

	testCases := []struct {
		name string
		base *url.URL
		ref  string
	}{
		{"unterminated ipv6 host", base, "http://[::1"},
		{"space in host", base, "http://a b.com/"},
		{"nil base", nil, "/favicon.ico"},
		{"relative base", mustParseURL(t, "/only/a/path"), "favicon.ico"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			require.True(t, Resolve(tc.base, tc.ref).IsNone())
		})
	}
}

func TestResolveDoesNotMutateBase(t *testing.T) {
	t.Parallel()

	base := mustParseURL(t, "https://example.com/blog/post#frag")
	_ = Resolve(base, "img.png")
	require.Equal(t, "https://example.com/blog/post#frag", base.String())
}

func TestCanonicalHost(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		raw  string
		want string
	}{
		{"https://www.example.com/page", "example.com"},
		{"https://shop.www.example.com/", "shop.www.example.com"},
		{"https://example.com/", "example.com"},
		{"https://WWW.Example.com/", "WWW.Example.com"},
		{"https://www.www.example.com/", "www.example.com"},
		{"http://www.example.com:8080/x", "example.com"},
		{"http://[::1]:3001/", "[::1]"},
		{"http://[::1]/", "[::1]"},
	}

	for _, tc := range testCases {
		t.Run(tc.raw, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tc.want, CanonicalHost(mustParseURL(t, tc.raw)))
		})
	}
	require.Equal(t, "", CanonicalHost(nil))
}

func TestCanonicalHostIdempotentWithoutPrefix(t *testing.T) {
	t.Parallel()

	u := mustParseURL(t, "https://example.org/")
	once := CanonicalHost(u)
	twice := CanonicalHost(&url.URL{Scheme: "https", Host: once})
	require.Equal(t, once, twice)
}

func TestParse(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		raw  string
		want string
	}{
		{"https://example.com/sale-50%", "https://example.com/sale-50%25"},
		{"https://example.com/a?b=c", "https://example.com/a?b=c"},
		{" https://example.com/x\n", "https://example.com/x"},
		{"HTTPS://Example.COM/Path", "https://example.com/Path"},
	}

	for _, tc := range testCases {
		t.Run(tc.raw, func(t *testing.T) {
			t.Parallel()

			u, err := Parse(tc.raw)
			require.NoError(t, err)
			require.Equal(t, tc.want, u.String())
		})
	}
}

func TestParseRejects(t *testing.T) {
	t.Parallel()

	for _, raw := range []string{"", "/just/a/path", "example.com", "http://[::1", "http://a b.com/"} {
		_, err := Parse(raw)
		require.Error(t, err, raw)
	}

	_, err := Parse("mailto:someone@example.com")
	require.ErrorIs(t, err, ErrNotAbsolute)
}

func TestIsAbsolute(t *testing.T) {
	t.Parallel()

	require.True(t, IsAbsolute(mustParseURL(t, "https://example.com")))
	require.False(t, IsAbsolute(mustParseURL(t, "example.com/path")))
	require.False(t, IsAbsolute(mustParseURL(t, "mailto:someone@example.com")))
	require.False(t, IsAbsolute(nil))
}

func FuzzResolve(f *testing.F) {
	for _, seed := range []string{"/favicon.ico", "img/cover.png", "//cdn.example.com/x", "%", "http://[", "../../..", ""} {
		f.Add(seed)
	}
	base, err := url.Parse("https://example.com/blog/post")
	if err != nil {
		f.Fatal(err)
	}
	f.Fuzz(func(t *testing.T, ref string) {
		if got, ok := Resolve(base, ref).Get(); ok && !got.IsAbs() {
			t.Errorf("Resolve(%q) returned non-absolute %q", ref, got)
		}
	})
}

func mustParseURL(t *testing.T, raw string) *url.URL {
	t.Helper()
	u, err := url.Parse(raw)
	if err != nil {
		t.Fatalf("failed to parse url %q: %v", raw, err)
	}
	return u
}
