// Package search holds the debounced search view model.
//
// The pipeline run by ViewModel.Run is
//
//	text -> debounce -> lowercase -> KeywordSearch(scope, text) -> switch to latest fetch -> publish
//
// with one-off requests from Load merged in after the debounce. Only the
// latest request's result is ever published and a failed fetch publishes an
// empty list. Empty text is not special: it still issues a request.
package search
