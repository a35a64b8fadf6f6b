// Package api exposes the authentication core over HTTP.
//
// NewServer assembles a gorilla/mux router with three groups of routes:
//
//	GET  /               landing document
//	POST /auth/login     multipart or urlencoded login form
//	GET  /auth/logout    private; ends the caller's session
//	GET  /health[/live|/ready], GET /metrics
//
// Every request is tagged with an X-Request-ID, logged, guarded against
// panics and given CORS headers. API routes then pass the admission gate
// and the body size cap before bearer authentication and routing. Bodies
// over ServerConfig.MaxBodyBytes get 413. Unknown paths and known paths
// requested with the wrong method both get a JSON 404.
//
// Extra route groups can be mounted behind the same stages:
//
//	server.RegisterRoutes(myHandlers)
package api
