// Package catalogsync pulls marketplace search results into the product
// catalog and keeps coupons and run records current.
//
// Engine.RunSync is the main entry point. Failures are contained in three
// tiers: a bad product is recorded and skipped, a failing query is recorded
// and the next query runs, and only errors outside the query loop mark the
// run failed. Queries and their results are processed sequentially.
package catalogsync
