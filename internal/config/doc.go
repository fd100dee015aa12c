// Package config loads bot configuration from a YAML file and the
// environment.
//
// Loading happens in four steps:
//
//  1. Start from Default().
//  2. Validate the raw YAML document against an embedded CUE schema, so
//     unknown keys and out-of-range values are reported with their path.
//  3. Decode the document over the defaults.
//  4. Apply environment overrides (BOT_USERNAME, BOT_DB_PATH,
//     BOT_STATIC_PATH, BOT_LOG_LEVEL).
//
// A missing file is an error only when a path was given explicitly.
package config
