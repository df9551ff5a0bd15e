// Package registry is the update-checking engine behind turbo-ncu.
//
// It fetches abbreviated package metadata from an npm-compatible registry,
// caches the published version lists in a JSON file, and picks the newest
// acceptable version for each dependency under a target policy:
//
//	latest  highest published version
//	minor   highest version with the same major
//	patch   highest version with the same major.minor
//	semver  highest version satisfying the declared range
//
// Checker implements check.Checker:
//
//	c := registry.NewChecker()
//	res, err := c.Check(ctx, deps, check.Options{Target: "minor", Concurrency: 24})
package registry
