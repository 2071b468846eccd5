// Package catalog holds the cluster inventory view of indices.
package catalog

// Index summarizes one index as listed by the cat API.
type Index struct {
	Index     string `json:"index"`
	Health    string `json:"health"`
	Status    string `json:"status"`
	DocsCount string `json:"docsCount"`
}
