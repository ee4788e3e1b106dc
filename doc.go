// Package encyclopedia is the composition root of a small markdown wiki.
//
// It connects the core business logic (pkg/core) with the storage adapters
// (pkg/adapters/fs, pkg/adapters/sqlite) and the goldmark renderer
// (pkg/markdown) using the Hexagonal Architecture pattern. The HTTP front
// end lives in pkg/web and the CLI in cmd/encyclopedia.
//
// An entry is a title and its markdown. Titles are case-sensitive and map
// 1:1 onto files (<title>.md) or rows of the entries table.
//
// Usage:
//
//	svc, err := encyclopedia.New("./entries",
//		encyclopedia.WithLogger(logger),
//	)
//
//	page, err := svc.Create(ctx, "Go", "# Go\n\nA language.")
//	fmt.Println(string(page.HTML))
package encyclopedia
