// Package server exposes tree decoding, checking, and storage over HTTP.
//
// # Routes
//
//	GET    /healthz                  liveness and build version
//	POST   /v1/decode                CBOR body, JSON rendering of its primitive form
//	POST   /v1/check                 CBOR body, JSON summary of the decoded tree
//	PUT    /v1/trees                 CBOR body, stores the tree and returns its key
//	GET    /v1/trees/{key}           stored tree as CBOR (or JSON with ?format=json)
//	GET    /v1/trees/{key}/dump      stored tree as a text dump
//	DELETE /v1/trees/{key}           removes a stored tree
//
// Every response carries an X-Request-ID header, taken from the request or
// generated. Errors are JSON objects {"error": {"code", "message"},
// "request_id"} with a status derived from the error code: malformed input
// is 400, trees that decode but are not well-formed are 422, and unknown
// keys are 404.
package server
