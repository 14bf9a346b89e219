// Package client is a thin gRPC client for the Marketplace service. Requests
// and replies are JSON-shaped documents carried as google.protobuf.Struct.
package client
