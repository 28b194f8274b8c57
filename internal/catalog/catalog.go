// Package catalog holds the static, ordered list of books the tracker
// knows about. It is reference data: loaded once, never mutated, never
// persisted per user.
package catalog

// Book is one catalog entry: a named book with a fixed chapter count.
// Its index in the catalog defines the canonical sort position
type Book struct {
	Name     string `json:"name"`
	Chapters int    `json:"chapters"`
}

// Catalog provides ordered access and name lookup over the book list
type Catalog struct {
	books     []Book
	positions map[string]int
}

// Default returns the built-in 66-book catalog
func Default() *Catalog {
	return New(books)
}

// New builds a catalog from an ordered book list
func New(entries []Book) *Catalog {
	c := &Catalog{
		books:     make([]Book, len(entries)),
		positions: make(map[string]int, len(entries)),
	}
	copy(c.books, entries)
	for i, b := range entries {
		c.positions[b.Name] = i
	}
	return c
}

// Books returns the catalog in canonical order. The returned slice must
// not be modified
func (c *Catalog) Books() []Book {
	return c.books
}

// Len returns the number of books in the catalog
func (c *Catalog) Len() int {
	return len(c.books)
}

// Lookup returns the book with the given name
func (c *Catalog) Lookup(name string) (Book, bool) {
	pos, ok := c.positions[name]
	if !ok {
		return Book{}, false
	}
	return c.books[pos], true
}

// Position returns the canonical sort position of a book name. Names
// not in the catalog report ok=false and sort after every catalog book
func (c *Catalog) Position(name string) (int, bool) {
	pos, ok := c.positions[name]
	return pos, ok
}

// ChapterCount returns the fixed chapter count for a book name, or 0
// if the name is not in the catalog
func (c *Catalog) ChapterCount(name string) int {
	if b, ok := c.Lookup(name); ok {
		return b.Chapters
	}
	return 0
}
