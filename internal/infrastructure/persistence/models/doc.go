// Package models contains GORM-specific persistence models that map to database tables.
// These models are separate from domain entities to keep the domain layer pure and free
// from ORM concerns.
//
// Key Principles:
// 1. Domain entities should be free of GORM tags and infrastructure concerns
// 2. Persistence models contain all GORM annotations and table mappings
// 3. Mappers convert between domain entities and persistence models
// 4. Repositories use persistence models for database operations
//
// Calendar dates are stored in DATE columns and carried as midnight UTC
// time.Time values; DateToTime and TimeToDate convert at the boundary.
//
// Structure:
// - base.go: Base persistence models (BaseModel, AggregateModel) and date helpers
// - identity.go: User
// - asset.go: Category, Asset, PurchaseRecord, assignment history
// - valuation.go: DepreciationRate
package models
