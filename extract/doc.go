// Package extract derives a single result count from a provider response.
//
// Providers disagree on whether and where they report a total, so the count is
// taken from the first of three strategies that yields a positive value:
//
//  1. Total results: total_results or search_information.total_results,
//     a number or a string with comma separators
//  2. Answer box: answer_box.result or answer_box.answer, a string with
//     comma or space separators
//  3. Sample estimate: the length of organic_results times the provider's
//     fallback multiplier
//
// A response for which every strategy yields 0 counts as 0. A genuine zero
// and an undeterminable count are deliberately indistinguishable.
package extract
