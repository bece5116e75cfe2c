// Package store owns the public.products table: its DDL and the batched
// upsert writer used by the loader.
//
// The table keeps one row per product id. Derived columns are overwritten on
// every load and ingested_at is refreshed; rows absent from a load are left
// untouched.
package store
