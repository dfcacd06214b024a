// Package assignment provides the Assignment aggregate: the record binding a
// parcel to a vehicle together with its delivery status.
//
// The package includes:
//   - Assignment: the aggregate root keyed by parcel id
//   - Status: the delivery status values and their vehicle requirements
//   - Metadata: free-form request details carried with the assignment
//
// Key business rules:
//   - A parcel maps to at most one Assignment
//   - An Assignment starts as a pending placeholder without a vehicle
//   - Once a vehicle is attached it never changes
//   - Assigned, InTransit and Delivered require an attached vehicle
//   - Assignments are never deleted
package assignment
