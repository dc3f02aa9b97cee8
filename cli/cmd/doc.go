// Package cmd implements the urit subcommands for expanding, matching,
// and formatting URI templates.
//
// Each subcommand is a struct whose Run method is invoked by kong after
// flag parsing. Shared state crosses the kong boundary through
// [context.Context]: the kong context itself via [WithContext], and the
// deduplicated set of value binding files via [WithValuesFiles].
package cmd

var (
	// CacheIdentifier is the kong variable identifier containing the path to
	// the runtime cache directory.
	CacheIdentifier = "cache"

	// ConfigIdentifier is the kong variable identifier containing the path to
	// the default configuration file.
	ConfigIdentifier = "config"
)
