// Package services orchestrates the two batch jobs: FetchService pulls the
// catalog into a JSON file and LoadService upserts such a file into Postgres.
//
// Services validate their configuration, own every resource they open and
// return errors wrapping the pkg/datahub sentinels. Neither retries.
package services
