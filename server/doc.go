// Package server exposes the aggregator over HTTP using gin.
//
// Routes:
//
//	GET  /search?q=<query>&provider=<id>[&provider=<id>...]
//	POST /search         {"query": "...", "providers": ["..."]}
//	GET  /providers
//	GET  /history?limit=<n>
//	GET  /health
//	GET  /metrics
//
// Requests are validated before they reach the aggregator. Validation
// failures and unsupported providers are answered with 400.
package server
