package encyclopedia_test

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/aretw0/encyclopedia"
)

// Example_basic creates an entry, then finds it by search.
func Example_basic() {
	tmpDir, err := os.MkdirTemp("", "encyclopedia-example-*")
	if err != nil {
		log.Fatal(err)
	}
	defer os.RemoveAll(tmpDir)

	svc, err := encyclopedia.New(tmpDir)
	if err != nil {
		log.Fatal(err)
	}
	ctx := context.Background()

	page, err := svc.Create(ctx, "Go", "# Go\n\nGo is a *language*.")
	if err != nil {
		log.Fatal(err)
	}
	fmt.Print(string(page.HTML))

	result, err := svc.Search(ctx, "g")
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(result.Matches)
	// Output:
	// <h1 id="go">Go</h1>
	// <p>Go is a <em>language</em>.</p>
	// [Go]
}

// Example_sqlite stores entries in an in-memory SQLite database.
func Example_sqlite() {
	svc, err := encyclopedia.New(":memory:", encyclopedia.WithAdapter(encyclopedia.AdapterSQLite))
	if err != nil {
		log.Fatal(err)
	}
	defer encyclopedia.Close(svc)

	ctx := context.Background()
	for _, title := range []string{"Python", "C", "Java"} {
		if _, err := svc.Create(ctx, title, "# "+title); err != nil {
			log.Fatal(err)
		}
	}

	titles, err := svc.List(ctx)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(titles)
	// Output:
	// [C Java Python]
}
