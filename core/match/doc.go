// Package match correlates items of two entity types that share an identifier space.
//
// # Matcher
//
// Matcher.Match walks the first sequence in order and pairs each item with the
// earliest not yet consumed item of the second sequence carrying the same id.
// Items without an id stay unmatched. Leftovers of the second sequence follow
// at the end, in their original order. Every input item ends up in exactly one
// ItemMatch, and no ItemMatch is empty.
//
// # Completion
//
// When the input sequences are only windows over their stores, a missing side
// may still exist. Completer asks the owning store:
//
//   - CompleteEach issues one Read per incomplete match.
//   - CompleteBatch issues one ReadMany for every match missing a chosen side and
//     re-matches the result.
//
// A match that stays incomplete after lookup is passed on as is.
package match
