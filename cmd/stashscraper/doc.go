// Command stashscraper reconciles Stash scene records against ThePornDB.
package main
