/*
Package jsonrpc defines the wire types for the node's JSON-RPC interface.

A request is a JSON object carrying a method name, optional parameters and
an opaque correlation id. A response echoes the id and carries exactly one
of result or error; the unused field is serialized as JSON null so clients
always see both keys:

	{"result": "pong", "error": null, "id": 7}
	{"result": null, "error": {"code": -32601, "message": "Method not found"}, "id": 7}

The package also defines the error-code space shared between the method
registry and the HTTP gateway. Error values implement the error interface
so they can travel through ordinary error returns and be recovered with
errors.As at the translator boundary.
*/
package jsonrpc
