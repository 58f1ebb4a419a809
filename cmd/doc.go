// Package cmd defines the CLI commands for the linkpreview executable.
//
// Architecture overview:
//   - Surfaces: `serve` exposes internal/api.Server over HTTP, `fetch` runs a single preview from the shell,
//     and `mcp` offers the same preview as an MCP tool on stdio. All three call preview.Service.Handle.
//   - Pipeline: the target URL is validated, fetched exactly once through the shared Colly fetcher, parsed into a
//     goquery document and passed through the field extractors. Each field falls back through its candidate
//     selectors and is null when none yields a value. Relative favicon and image URLs resolve against the target.
//   - Failures: invalid input, fetch failure and parse failure are distinct kinds and map to 400, 502 and 422.
//   - Configuration & plumbing: Viper populates config from file, LINKPREVIEW_* env vars and flags; zap provides
//     structured logging on stderr; Prometheus metrics are exported on /metrics; OpenTelemetry spans wrap the HTTP
//     handler, the outbound transport and each preview.
//
// Operational notes:
//   - Concurrency model: one goroutine per inbound request. The fetcher's transport and settings are configured once
//     at startup and never mutated per request, so a per-request User-Agent cannot leak into other requests.
//   - Nothing is stored between requests. Readiness is unconditional.
//   - The HTTP server drains in-flight requests on SIGTERM within server.shutdown_timeout.
//
// Quick checklist:
//   - Run locally: go run . serve --port 3001, then curl 'localhost:3001/?url=https://example.com'.
//   - One-off: go run . fetch https://example.com --user-agent "my-bot/1.0".
//   - Env overrides: LINKPREVIEW_FETCH_TIMEOUT=5s, LINKPREVIEW_TRACING_ENABLED=true, LINKPREVIEW_TRACING_EXPORTER=stdout.
package cmd
