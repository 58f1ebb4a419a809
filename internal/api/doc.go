// Package api hosts the HTTP server, middleware, and handlers. Notable routes:
//   - GET /?url=<absolute URL> returns the link preview as JSON. Failures map to
//     400 (invalid input), 502 (fetch failure) and 422 (unparseable page).
//   - GET /healthz / readyz for Kubernetes liveness and readiness checks.
//   - GET /metrics for Prometheus scraping when metrics are enabled.
//
// Every response carries an X-Request-ID header and permissive CORS headers
// unless the allowed origins are narrowed in config.
package api
