// Package config provides configuration loading, merging, and validation
// facilities for the sync engine and the dev remote-store server.
//
// Configuration is assembled from multiple sources in the following
// priority order (first non-zero value wins):
//  1. Environment variables
//  2. Command-line flags
//  3. JSON config file
//  4. Built-in defaults
//
// The main entry points are [GetEngineConfig] for the engine runtime and
// [GetServerConfig] for the dev remote-store server.
package config
