// Package models contains GORM-specific persistence models that map to database tables.
// These models are separate from domain entities to keep the domain layer pure and free
// from ORM concerns.
//
// Key Principles:
// 1. Domain entities should be free of GORM tags and infrastructure concerns
// 2. Persistence models contain all GORM annotations and table mappings
// 3. Mappers (ToDomain / FromDomain) convert between the two
// 4. Repositories use persistence models for database operations
//
// Boolean and counter columns carry no gorm default tag so false and zero
// are inserted as given.
//
// Structure:
// - base.go: ReferenceModel shared by brands and categories
// - catalog.go: brands, categories, search queries, products, overrides, platform coupons
// - syncrun.go: sync runs and sync logs
package models
