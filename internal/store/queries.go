package store

// SQL for the products table. Statements are kept apart from the Go code that
// runs them.

// schemaStatements bootstrap the table and its indexes. Every statement is
// idempotent.
var schemaStatements = []string{
	`CREATE EXTENSION IF NOT EXISTS postgis`,
	`CREATE TABLE IF NOT EXISTS public.products (
		product_id             text PRIMARY KEY,
		product_name           text NOT NULL,
		product_name_language  text,
		company_business_name  text,
		product_type           text,
		webshop_url_primary    text,
		url_primary            text,
		accessible             boolean,
		updated_at             timestamptz,
		postal_code            text,
		street_name            text,
		city                   text,
		location               geography(Point, 4326),
		raw                    jsonb NOT NULL,
		ingested_at            timestamptz NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS products_location_gix ON public.products USING gist (location)`,
	`CREATE INDEX IF NOT EXISTS products_updated_at_idx ON public.products (updated_at DESC)`,
	`CREATE INDEX IF NOT EXISTS products_type_idx ON public.products (product_type)`,
	`CREATE INDEX IF NOT EXISTS products_name_idx ON public.products (product_name)`,
	`CREATE INDEX IF NOT EXISTS products_raw_gin ON public.products USING gin (raw jsonb_path_ops)`,
}

// queryUpsertProduct inserts or refreshes one product.
// Parameters $1-$12: derived text/boolean columns in table order,
// $13/$14: longitude/latitude (both NULL for no location), $15: raw JSON.
// updated_at arrives as source text and is cast by the server.
const queryUpsertProduct = `
	INSERT INTO public.products (
		product_id,
		product_name,
		product_name_language,
		company_business_name,
		product_type,
		webshop_url_primary,
		url_primary,
		accessible,
		updated_at,
		postal_code,
		street_name,
		city,
		location,
		raw
	)
	VALUES (
		$1, $2, $3, $4, $5, $6, $7,
		$8::boolean,
		$9::text::timestamptz,
		$10, $11, $12,
		CASE
			WHEN $13::double precision IS NULL OR $14::double precision IS NULL THEN NULL
			ELSE ST_SetSRID(ST_MakePoint($13::double precision, $14::double precision), 4326)::geography
		END,
		$15::jsonb
	)
	ON CONFLICT (product_id) DO UPDATE SET
		product_name          = EXCLUDED.product_name,
		product_name_language = EXCLUDED.product_name_language,
		company_business_name = EXCLUDED.company_business_name,
		product_type          = EXCLUDED.product_type,
		webshop_url_primary   = EXCLUDED.webshop_url_primary,
		url_primary           = EXCLUDED.url_primary,
		accessible            = EXCLUDED.accessible,
		updated_at            = EXCLUDED.updated_at,
		postal_code           = EXCLUDED.postal_code,
		street_name           = EXCLUDED.street_name,
		city                  = EXCLUDED.city,
		location              = EXCLUDED.location,
		raw                   = EXCLUDED.raw,
		ingested_at           = now()
`
