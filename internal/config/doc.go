// Package config loads, normalizes, and validates charscan configuration data.
//
// It supplies repository defaults (including the built-in cmip5, c3s-cmip5,
// c3s-cmip6, and c3s-cordex projects), expands user paths (including tilde
// shortcuts), reads TOML files, and honours the CHARSCAN_OUTPUT_DIR
// environment fallback. The Config type centralizes the per-project base
// directories, facet schemas, and output path templates the scanner needs.
//
// A Config is read once at startup and treated as immutable afterwards; build
// a project.Registry from it and pass that to the components that need it.
package config
