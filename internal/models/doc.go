// Package models defines the core domain models for Multi-Manager.
//
// # Expense splitting
//
// ExpenseGroup is the aggregate for the expense-splitting ledger: a set of
// participants plus an embedded, insertion-ordered list of Expense entries.
// Expenses have no storage identity outside their group; every mutation
// rewrites the whole group record.
//
// Participants are identified by display name (strings). Names are the join
// key for paidBy and custom splits, so renaming a participant does not
// propagate to historical expenses. This is a known consistency gap kept for
// compatibility with existing data; a stronger design would key participants
// by stable ID and treat the name as a display attribute.
//
// # Tracker records
//
// The remaining types (Medicine, Subscription, Bill, Insurance, Vehicle, Pet,
// Travel, CustomCategory, CustomItem) are plain CRUD records persisted as
// JSON documents in the record store. JSON tags match the field names found
// in existing backup files, so old backups import cleanly.
package models
