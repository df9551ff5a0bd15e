// Package filtering selects dependencies by name.
//
// A pattern is interpreted in this order:
//
//	/eslint-.*/     regular expression between slashes
//	@types/*        glob when the pattern contains * or ?
//	react,vue       otherwise a comma-separated list of exact names
//
// Include is applied before exclude and input order is preserved:
//
//	deps, err := filtering.Filter(deps, "@types/*", "@types/node")
package filtering
