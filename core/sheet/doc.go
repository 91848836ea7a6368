// Package sheet reads the reference set from a spreadsheet.
//
// Rows come from a local CSV file, a CSV object in the storage bucket, a CSV
// URL, or a Google Sheets worksheet read through the Sheets API with a
// service account key or an authorized user token. The first record is the
// header and cells that look numeric become numbers, the way spreadsheet
// record exports behave.
//
// Writer adds a worksheet holding the merged prices to the same spreadsheet.
package sheet
