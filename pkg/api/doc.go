// Package api serves the mapping pipeline over HTTP.
//
// # Endpoints
//
//	GET    /healthz          liveness and build information
//	POST   /v1/map           map a graph, see [MapRequest]
//	GET    /v1/runs          recent runs, newest first (?limit=N)
//	GET    /v1/runs/{id}     one run
//	DELETE /v1/runs/{id}     forget a run
//
// Errors are returned as {"error": {"code": ..., "message": ...}} with the
// code taken from [github.com/matzehuels/stackmap/pkg/errors]. Input codes
// map to 400, NOT_FOUND to 404 and OUT_OF_MEMORY to 507.
//
// The server never reads files on behalf of a client: deco architectures
// must send the processor graph inline.
package api
