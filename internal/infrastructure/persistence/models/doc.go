// Package models contains GORM persistence models that map to database tables.
// They are kept apart from domain entities so the domain stays free of ORM
// tags. Each model has ToDomain / FromDomain mappers used by the repositories.
//
// Monetary columns are split into an amount (decimal(18,4)) and a currency
// code (char(3)), the latter CHECK-constrained in the migrations.
package models
