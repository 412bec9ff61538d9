// Package errors provides structured, actionable error messages for featureroutes.
//
// Errors carry a registered code, the file they refer to, a plain-language
// detail and an optional suggestion. Lower layers return ordinary wrapped
// errors; the manifest builder and the CLI attach codes at the boundary.
//
// # Error Categories
//
//   - config: domain config and featureroutes.json problems
//   - discovery: app directory and route file listing
//   - manifest: route ID collisions, missing root route
//   - publish: object storage uploads
//
// # Usage
//
//	err := errors.New("E101").
//	    WithFile("app/admin/config.cue").
//	    WithSuggestion("Check the file with 'cue vet'").
//	    Wrap(cause)
//
//	fmt.Println(err.Format())
//	// Output:
//	// ERROR E101: Domain config syntax error
//	//
//	//   app/admin/config.cue
//	//
//	//   The domain's config file does not parse or compile.
//	//
//	//   Cause: ...
//	//
//	//   Hint: Check the file with 'cue vet'
package errors
