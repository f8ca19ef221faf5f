// Package model holds the panel's mirror of the controller object model.
//
// # Entities
//
// The store keeps five ordered lists, each sorted by the controller-assigned
// index with no duplicates:
//
//	Axes      move:axes^
//	Tools     tools^
//	Spindles  spindles^
//	Beds      heat:bedHeaters^
//	Chambers  heat:chamberHeaters^
//
// plus the heaters they reference (heat:heaters^). Entities are created on
// first reference and destroyed only by explicit removal, either of exactly
// one index or of an index and everything after it.
//
// # Relations
//
// Tools, beds and chambers reference heaters by heater number. A tool also
// holds a weak reference to the spindle driving it, by spindle index, and a
// spindle names the tool it belongs to. Only the first heater, extruder and
// spindle per tool is tracked.
//
// # Display Slots
//
// Slots are derived positions on the panel's screens. They are recomputed
// from the lists by AssignToolSlots and AssignAxisSlots and are never used to
// identify an entity.
//
// # Changes
//
// Every mutation records a Change. The owner drains them with TakeChanges and
// forwards them to subscribers once per tick; the store never calls out
// while it is being mutated.
//
// Store is not safe for concurrent use.
package model
