// Package internal holds the hacknight server internals.
//
// The internal tree is organized by responsibility:
// - api: HTTP handlers, middleware, problem responses, and routing
// - domain: business logic, one package per resource, plus the shared
//   relationship engine and the identity resolver
// - storage: repository interfaces and the Postgres implementations
// - events, jobs: domain event emission and webhook delivery workers
// - slack: the Slack Web API directory client
// - config, metrics: shared infrastructure
//
// Code in internal/ is not meant for external import.
package internal
