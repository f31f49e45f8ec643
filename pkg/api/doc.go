// Package api serves the funnel pipeline over HTTP.
//
// Routes:
//
//	GET  /healthz                                  liveness and version
//	POST /v1/funnels                               build and render a funnel
//	GET  /v1/documents/{doc}/settings              list document settings
//	PUT  /v1/documents/{doc}/settings/{name}       store a document setting
//
// A funnel request carries the raw table and pipeline options:
//
//	{"table": [["Stage","Users"],["Visited",1000],["Paid",30]], "style": "outline"}
//
// With ?format=svg (or png, pdf, json) the artifact is returned as the
// response body. Without it the response is a JSON envelope holding the
// layout and every requested artifact.
//
// When the request names a document and no explicit speed, the document's
// animation_speed setting scales the reveal speed.
//
// Errors are returned as {"code": "...", "message": "..."}. Validation
// errors map to 400, unsupported conversions to 415, unreachable backends
// to 503 and everything else to 500.
package api
