package docmodel

import "testing"

func TestDocument_PositionRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"empty", ""},
		{"single line no newline", "hello"},
		{"single line with newline", "hello\n"},
		{"multiple lines", "line1\nline2\nline3"},
		{"crlf endings", "line1\r\nline2\r\nline3\r\n"},
		{"empty lines", "line1\n\nline3\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := Of(tt.text)
			for idx := 0; idx <= len(tt.text); idx++ {
				pos := d.PositionOf(idx)
				got := d.IndexOf(pos)
				if got != idx {
					t.Fatalf("index_of(position_of(%d)) = %d, want %d", idx, got, idx)
				}
			}
		})
	}
}

func TestDocument_IndexOfClampsOutOfRange(t *testing.T) {
	d := Of("line1\nline2\n")

	if got := d.IndexOf(Position{Line: 100, Column: 0}); got != len(d.Text()) {
		t.Fatalf("expected clamp to text length, got %d", got)
	}
	if got := d.IndexOf(Position{Line: 0, Column: 1000}); got != d.LineEnd(0) {
		t.Fatalf("expected clamp to line end, got %d", got)
	}
	if got := d.IndexOf(Position{Line: -5, Column: 0}); got != 0 {
		t.Fatalf("expected clamp to 0, got %d", got)
	}
}

func TestDocument_RangeBetween(t *testing.T) {
	d := Of("namespace com.a\n")

	if _, ok := d.RangeBetween(5, 2); ok {
		t.Fatal("expected no range for a > b")
	}
	if _, ok := d.RangeBetween(0, 1000); ok {
		t.Fatal("expected no range for out-of-bounds end")
	}
	r, ok := d.RangeBetween(0, 9)
	if !ok {
		t.Fatal("expected a valid range")
	}
	if r.Start != (Position{0, 0}) || r.End != (Position{0, 9}) {
		t.Fatalf("unexpected range: %+v", r)
	}
}

func TestDocument_ApplyEdit(t *testing.T) {
	d := Of("namespace com.a\n\nstructure Foo {}\n")
	before := d.FastHash()

	// Insert "@required\n" before "structure Foo"
	insertAt := d.IndexOf(Position{Line: 2, Column: 0})
	d.ApplyEdit(insertAt, insertAt, "@required\n")

	want := "namespace com.a\n\n@required\nstructure Foo {}\n"
	if d.Text() != want {
		t.Fatalf("got %q, want %q", d.Text(), want)
	}
	if d.FastHash() == before {
		t.Fatal("expected fast hash to change after edit")
	}

	// Every offset in the new text must still round-trip.
	for idx := 0; idx <= len(d.Text()); idx++ {
		if got := d.IndexOf(d.PositionOf(idx)); got != idx {
			t.Fatalf("post-edit round trip failed at %d: got %d", idx, got)
		}
	}
}

func TestDocument_CopyDocumentID(t *testing.T) {
	d := Of("member: smithy.example#Foo$bar")
	idx := d.IndexOf(Position{Line: 0, Column: 20}) // inside "Foo"

	text, start, end, ok := d.CopyDocumentID(idx)
	if !ok {
		t.Fatal("expected a shape id token")
	}
	if text != "smithy.example#Foo$bar" {
		t.Fatalf("got %q", text)
	}
	if d.Text()[start:end] != text {
		t.Fatalf("range mismatch: %q", d.Text()[start:end])
	}
}

func TestDocument_CopyDocumentID_NoToken(t *testing.T) {
	d := Of("   ")
	if _, _, _, ok := d.CopyDocumentID(1); ok {
		t.Fatal("expected no token in whitespace")
	}
}
