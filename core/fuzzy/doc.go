// Package fuzzy implements weighted string similarity scoring on a 0-100 scale.
//
// The scorers follow the familiar ratio family: a plain normalized Indel ratio,
// a partial ratio over sliding windows, token sort and token set ratios that
// ignore word order and extra words, and WRatio which combines them based on the
// length difference of the inputs.
//
// Edit distances come from the Levenshtein metric of github.com/adrg/strutil,
// configured with a substitution cost of two so that it yields the Indel distance.
//
// # Usage
//
//	score := fuzzy.WRatio("hagi jawan", "hagi chawan") // ~85.7
//	if score >= 92 {
//	    // accept
//	}
package fuzzy
