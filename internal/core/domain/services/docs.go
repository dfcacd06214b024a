// Package services provides domain services that operate across several
// domain entities of the dispatch system.
//
// The package includes:
//   - VehicleSelector: picks the vehicle a parcel is bound to, honouring a
//     preferred vehicle or falling back to the first available one
package services
