// Package model contains the ledger record of an issued note.
//
// Identifiers are defined in the serial sub-package and the action service
// contract shared by all services lives in types.
package model
