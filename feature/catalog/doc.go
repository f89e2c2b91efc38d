// Package catalog exposes the rental catalog over HTTP.
//
// It serves the materials available for rent and their categories:
//
//	GET /materials        - list materials, paginated, optional search
//	GET /materials/:id    - one material with its physical units
//	GET /categories       - list categories with material counts
//
// The catalog is read-only; stock levels change through the return
// inventory workflow, not here.
package catalog
