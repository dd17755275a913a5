// Package models defines the core domain models for pokersplit.
//
// # Calculation models
//
// These only live for the duration of one calculation:
//   - ParticipantEntry: raw per-player input as typed by the user
//   - NormalizedEntry: the same player with a rounded net in minor units
//   - Transfer / SettlementResult: output of the settlement engine
//
// # Persisted models
//
//   - Session: one saved poker night with each player's raw buy-in and cash-out
//
// Sessions keep the raw per-player record, never the transfer list. Transfers are
// always recomputed from the record so a change of rounding step or strategy
// applies to old nights as well.
//
// # Identity
//
// Participants are identified by name strings. Names are case sensitive and are
// the join key for lifetime statistics.
package models
