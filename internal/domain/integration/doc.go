// Package integration contains the marketplace integration bounded context.
// It defines the port the catalog sync uses to talk to the affiliate
// marketplace, and the product shapes that cross it.
//
// Key concepts:
//   - Marketplace: port interface for searching products, generating affiliate
//     links and reading promotions
//   - RawProduct: an untyped search hit exactly as the marketplace returned it
//   - NormalizedProduct: a validated, canonical product built from a RawProduct
//
// Design Pattern: Ports & Adapters
//   - Ports (interfaces) are defined here in the domain layer
//   - Adapters (implementations) are in the infrastructure layer
package integration
