package core

import "context"

// Repository defines the contract for storing and retrieving entries.
// Adhering to this interface keeps the Service independent of the
// underlying storage (flat directory, embedded SQLite, ...).
type Repository interface {
	// Save persists an entry. It creates if not exists, or overwrites if it does.
	Save(ctx context.Context, e Entry) error

	// Get retrieves an entry by its title.
	// A missing entry is reported as found == false with a nil error;
	// err is reserved for real failures.
	Get(ctx context.Context, title string) (e Entry, found bool, err error)

	// List returns the titles of all stored entries.
	List(ctx context.Context) ([]string, error)

	// Initialize ensures the underlying storage is ready (create directory, schema migration).
	Initialize(ctx context.Context) error
}

// Watchable is implemented by repositories that can report changes made
// outside of the Service (e.g. an editor writing into the entries directory).
type Watchable interface {
	// Watch emits events for entries whose title matches pattern (doublestar syntax).
	// The channel is closed when ctx is done.
	Watch(ctx context.Context, pattern string) (<-chan Event, error)
}

// Renderer converts raw entry markdown into HTML.
type Renderer interface {
	Render(src []byte) ([]byte, error)
}
