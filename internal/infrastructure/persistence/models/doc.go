// Package models holds the GORM rows behind the shop tables and the mapping
// to and from domain aggregates. Domain types carry no GORM tags.
//
// Cart, order and saved lines point at either a product or a variant. Both
// references are nullable columns and exactly one of them is set; the
// database enforces this with a CHECK constraint.
package models
