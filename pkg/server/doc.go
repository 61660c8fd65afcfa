// Package server exposes duplicate detection over HTTP.
//
// # Endpoints
//
//	GET  /healthz         liveness and build version
//	POST /v1/duplicates   find duplicate subtrees
//	POST /v1/key          canonical key of the whole tree
//	POST /v1/render       Graphviz diagram (svg or dot)
//
// Request bodies carry the tree in either format accepted by pkg/io: a
// nested object or a level-order array.
//
//	POST /v1/duplicates
//	{"tree": [1,2,3,4,null,2,4,null,null,4], "options": {"scheme": "hash"}}
//
// Errors are JSON objects with the pkg/errors code, and the status comes
// from [errors.HTTPStatus]:
//
//	{"error": {"code": "INVALID_SCHEME", "message": "..."}, "request_id": "..."}
//
// Every response carries an X-Request-ID header; a client-supplied one is
// kept, otherwise a UUID is generated.
package server
