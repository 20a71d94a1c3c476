// Package factory builds paginators and decorator chains.
//
// A [ConfigFactory] reads the items per page and a comma-separated list of
// decorator names from a [provider.Provider], and constructs a fresh chain
// for every [ConfigFactory.Decorate] call. Applications can add their own
// decorators with [ConfigFactory.RegisterDecorator].
//
// A [DefaultFactory] is configured in code with a prebuilt chain, which is
// rebound to each paginator passed to [DefaultFactory.Decorate].
package factory
