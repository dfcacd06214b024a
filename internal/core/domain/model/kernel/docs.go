// Package kernel provides the identifier value objects shared by the
// dispatch domain.
//
// The package includes:
//   - ParcelID: the opaque token minted by the id generator for every parcel
//   - VehicleID: the opaque token naming a vehicle in the registry
//
// Both are immutable, comparable by value and invalid as zero values; build
// them through NewParcelID, ParcelIDFromString or VehicleIDFromString.
package kernel
