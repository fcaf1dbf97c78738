// Package models defines the core domain records for billbook.
//
// # Records
//
//   - Bill: a tracked shared-expense period with participants and daily entries
//   - DailyDetail: one dated expense entry within a bill
//   - Participant: a named person, either embedded in a bill or kept in the
//     per-user global registry
//   - User: a registered account
//   - Note: a free-form personal note
//   - Vocabulary / LearnedWord: the English-vocabulary learner records
//
// # Design notes
//
// Bills exclusively own their embedded DailyDetail entries; details have no
// independent lifecycle. A daily detail's SelectedParticipants are weak
// references by id: deleting a global participant does not rewrite historical
// selections, name resolution falls back to an "Unknown" placeholder instead.
//
// Relationships use id strings rather than pointers to keep the records
// JSON-serializable as flat documents.
package models
