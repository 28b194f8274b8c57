package catalog

import "testing"

func TestDefaultCatalog(t *testing.T) {
	c := Default()

	if c.Len() != 66 {
		t.Errorf("Default().Len() = %d, want 66", c.Len())
	}

	books := c.Books()
	if books[0].Name != "Genesis" || books[0].Chapters != 50 {
		t.Errorf("first book = %+v, want Genesis with 50 chapters", books[0])
	}
	if last := books[len(books)-1]; last.Name != "Revelation" || last.Chapters != 22 {
		t.Errorf("last book = %+v, want Revelation with 22 chapters", last)
	}

	total := 0
	for _, b := range books {
		if b.Chapters < 1 {
			t.Errorf("book %s has invalid chapter count %d", b.Name, b.Chapters)
		}
		total += b.Chapters
	}
	if total != 1189 {
		t.Errorf("total chapters = %d, want 1189", total)
	}
}

func TestLookup(t *testing.T) {
	c := Default()

	tests := []struct {
		name         string
		book         string
		wantChapters int
		wantOK       bool
	}{
		{name: "first book", book: "Genesis", wantChapters: 50, wantOK: true},
		{name: "middle book", book: "Psalms", wantChapters: 150, wantOK: true},
		{name: "single chapter book", book: "Obadiah", wantChapters: 1, wantOK: true},
		{name: "unknown book", book: "Enoch", wantOK: false},
		{name: "case sensitive", book: "genesis", wantOK: false},
		{name: "empty name", book: "", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			book, ok := c.Lookup(tt.book)
			if ok != tt.wantOK {
				t.Fatalf("Lookup(%q) ok = %v, want %v", tt.book, ok, tt.wantOK)
			}
			if ok && book.Chapters != tt.wantChapters {
				t.Errorf("Lookup(%q).Chapters = %d, want %d", tt.book, book.Chapters, tt.wantChapters)
			}
		})
	}
}

func TestPosition(t *testing.T) {
	c := Default()

	if pos, ok := c.Position("Genesis"); !ok || pos != 0 {
		t.Errorf("Position(Genesis) = %d, %v, want 0, true", pos, ok)
	}
	if pos, ok := c.Position("Exodus"); !ok || pos != 1 {
		t.Errorf("Position(Exodus) = %d, %v, want 1, true", pos, ok)
	}
	if pos, ok := c.Position("Revelation"); !ok || pos != 65 {
		t.Errorf("Position(Revelation) = %d, %v, want 65, true", pos, ok)
	}
	if _, ok := c.Position("Enoch"); ok {
		t.Error("Position(Enoch) reported ok for an unknown book")
	}
}

func TestChapterCount(t *testing.T) {
	c := Default()

	if n := c.ChapterCount("Jude"); n != 1 {
		t.Errorf("ChapterCount(Jude) = %d, want 1", n)
	}
	if n := c.ChapterCount("Enoch"); n != 0 {
		t.Errorf("ChapterCount(Enoch) = %d, want 0", n)
	}
}
