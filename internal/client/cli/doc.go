// Package cli implements the handtohand command-line client on urfave/cli.
//
// Every command dials the Marketplace gRPC service, runs one request under
// the configured timeout and prints the reply. Commands other than ping need
// an access token from --token, HANDTOHAND_TOKEN, the JSON config, or a
// hidden terminal prompt.
package cli
