// Package sheetledger keeps the ledger in a Google Sheets spreadsheet: one
// row per calendar date in a B:D column range (date, tracked duration,
// weekly cumulative hours).
//
// Interactive OAuth consent is out of scope: the token file must already
// exist; only silent refresh happens here.
package sheetledger
