// Package vehicle provides the Vehicle aggregate held by the vehicle
// registry's inventory.
//
// The package includes:
//   - Vehicle: a registered vehicle with its availability flag and an
//     optional endpoint that receives assignment notifications
//
// Key business rules:
//   - A vehicle is identified by a non-blank VehicleID
//   - Only available vehicles are picked when the requester states no preference
//   - A preferred vehicle is honoured when it is registered, available or not
//   - The notify URL, when set, must be an absolute http(s) URL
package vehicle
