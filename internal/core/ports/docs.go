// Package ports defines the contracts between the dispatch core and its
// infrastructure.
//
// Repositories persist aggregates. Collaborators are the services the
// delivery orchestrator drives; each has an in-process implementation in
// application/services and a remote one in adapters/out/peers.
package ports
