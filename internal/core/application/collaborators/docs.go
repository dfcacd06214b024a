// Package collaborators implements, in process, the services driven by the
// delivery orchestrator: the id generator, the vehicle registry, the
// assignment store, the event log and the notification gateway.
//
// Each type satisfies the matching interface in ports, so the composition
// root can swap any of them for a remote peer client.
package collaborators
