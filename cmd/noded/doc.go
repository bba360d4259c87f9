// Command noded runs the node with its authenticated JSON-RPC front-end.
package main
