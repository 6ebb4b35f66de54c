// Package stash is the GraphQL client for the Stash library store. It covers
// the operations the reconciliation engine needs: scene search and update,
// catalog entity loading and creation, and the built-in Freeones performer
// scraper used as an alias evidence source.
package stash
