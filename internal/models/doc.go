// Package models defines the persisted domain models for PayShare.
//
// # Models
//
//   - Group: a named set of people sharing expenses
//   - Expense: one payment made by a participant, with its splits
//   - Split: a named share of an expense
//   - Settlement: one row of a group's settlement snapshot
//   - User: a registered account
//
// Participants are identified by name strings, exactly as entered. A name does
// not need a User account; users and participants are separate concepts.
//
// # Money
//
// Expense and split amounts are exact decimals so that sub-cent shares add up
// correctly. Settlement amounts are already rounded and use integer cents.
package models
