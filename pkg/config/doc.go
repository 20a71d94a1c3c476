// Package config loads folio's configuration file.
//
// The file is a versioned YAML document validated against an embedded JSON
// schema. A loaded [Config] implements [provider.Provider], so it can be
// passed directly to [factory.NewConfigFactory]. Top-level mappings that are
// not part of the schema are kept as [Config.Sections] and serve as the
// options of custom decorators.
package config
