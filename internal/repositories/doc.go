// Package repositories implements SQLite persistence for state the client keeps between runs.
//
// Key Implementations:
//   - [LocalStorageRepository] : durable string key/value entries; the session store keeps the bearer
//     credential and the serialized identity here
//   - [TMDBCacheRepository] : TMDB search results with expiry, so repeated lookups skip the network
//
// Tables are created by the embedded migrations in the shared package.
package repositories
