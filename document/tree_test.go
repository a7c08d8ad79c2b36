package document

import "testing"

func TestDecodeBasicTree(t *testing.T) {
	tr, err := DecodeBytes([]byte(`<a><b><c/></b><b><c/></b></a>`))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	root := tr.Root()
	if root.Kind() != RootKind {
		t.Fatalf("root kind = %v, want RootKind", root.Kind())
	}
	a := root.Children()[0]
	if a.Name().Local != "a" {
		t.Fatalf("a.Name().Local = %q, want a", a.Name().Local)
	}
	if len(a.Children()) != 2 {
		t.Fatalf("len(a.Children()) = %d, want 2", len(a.Children()))
	}
	for _, b := range a.Children() {
		if b.Name().Local != "b" {
			t.Fatalf("child local name = %q, want b", b.Name().Local)
		}
		if len(b.Children()) != 1 || b.Children()[0].Name().Local != "c" {
			t.Fatalf("b child mismatch")
		}
	}
}

func TestDocumentOrderMonotonic(t *testing.T) {
	tr, err := DecodeBytes([]byte(`<a x="1"><b>text</b><!--c--></a>`))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	root := tr.Root()
	a := root.Children()[0]
	attrs := a.Attributes()
	if len(attrs) != 1 {
		t.Fatalf("expected 1 attribute")
	}
	if DocumentOrder(root, a) >= 0 {
		t.Fatalf("root should precede a in document order")
	}
	if DocumentOrder(a, attrs[0]) >= 0 {
		t.Fatalf("a should precede its attribute")
	}
	if DocumentOrder(attrs[0], a.Children()[0]) >= 0 {
		t.Fatalf("attribute should precede element children")
	}
}

func TestStringValueConcatenatesDescendantText(t *testing.T) {
	tr, err := DecodeBytes([]byte(`<a>hello<b> world</b></a>`))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	a := tr.Root().Children()[0]
	if got, want := a.StringValue(), "hello world"; got != want {
		t.Fatalf("StringValue() = %q, want %q", got, want)
	}
}

func TestNamespaceInheritance(t *testing.T) {
	tr := NewTree()
	a := tr.AddElement(tr.Root(), ExpandedName{Local: "a"}, "")
	tr.DeclareNamespace(a, "p", "uri:p")
	b := tr.AddElement(a, ExpandedName{Local: "b"}, "")

	found := false
	for _, ns := range b.Namespaces() {
		if ns.Name().Local == "p" && ns.StringValue() == "uri:p" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected namespace p=uri:p to be inherited by b")
	}
}
