package node_test

import (
	"errors"
	"slices"
	"testing"

	"github.com/mwantia/sftptest/data"
	"github.com/mwantia/sftptest/node"
)

type inner struct {
	Something string
}

type testObject struct {
	X      string
	Inner  inner
	hidden string
	Secret string `sftp:"-"`
	Count  int    `sftp:"count"`
}

// TestNode_Classify verifies that only scalars are files, empty containers included.
func TestNode_Classify(t *testing.T) {
	tests := []struct {
		name string
		node node.Node
		dir  bool
	}{
		{"string", node.String("x"), false},
		{"empty string", node.String(""), false},
		{"int", node.Int(0), false},
		{"float", node.Float(1.5), false},
		{"bool", node.Bool(true), false},
		{"bytes", node.Bytes(nil), false},
		{"mapping", node.NewMapping(), true},
		{"sequence", node.NewSequence(), true},
		{"object", node.NewObject("o"), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(tst *testing.T) {
			if got := node.IsDir(tt.node); got != tt.dir {
				tst.Errorf("Expected IsDir %v, got %v", tt.dir, got)
			}
			if !tt.dir && len(node.Children(tt.node)) != 0 {
				tst.Errorf("Expected no children for a file")
			}
		})
	}
}

// TestNode_Children verifies child listings for every container kind.
func TestNode_Children(t *testing.T) {
	m := node.MappingOf(map[string]node.Node{
		"b": node.String("1"),
		"a": node.String("2"),
	})
	if got := node.Children(m); !slices.Equal(got, []string{"a", "b"}) {
		t.Errorf("Expected sorted mapping keys, got %v", got)
	}

	s := node.NewSequence(node.String("x"), node.String("y"), node.String("z"))
	if got := node.Children(s); !slices.Equal(got, []string{"0", "1", "2"}) {
		t.Errorf("Expected sequence indices, got %v", got)
	}

	o := node.NewObject("o")
	o.Assign("x", node.String("1"))
	o.Assign("__private", node.String("2"))
	if got := node.Children(o); !slices.Equal(got, []string{"x"}) {
		t.Errorf("Expected only public attributes, got %v", got)
	}
	if _, ok := node.Child(o, "__private"); !ok {
		t.Errorf("Expected private attribute to stay reachable")
	}
}

// TestNode_Child verifies the single resolution step per container kind.
func TestNode_Child(t *testing.T) {
	s := node.NewSequence(node.String("a"), node.String("b"))

	if child, ok := node.Child(s, "1"); !ok || child.(node.Scalar).Text() != "b" {
		t.Errorf("Expected index 1 to resolve to 'b', got %v %v", child, ok)
	}
	if _, ok := node.Child(s, "2"); ok {
		t.Errorf("Expected index 2 to be out of range")
	}
	if _, ok := node.Child(s, "-1"); ok {
		t.Errorf("Expected non digit name to fail on a sequence")
	}
	if _, ok := node.Child(node.String("x"), "0"); ok {
		t.Errorf("Expected scalar to have no children")
	}
}

// TestNode_Size verifies reported sizes for files and directories.
func TestNode_Size(t *testing.T) {
	tests := []struct {
		name string
		node node.Node
		size int64
	}{
		{"text", node.String("testfile3"), 9},
		{"int", node.Int(123), 3},
		{"negative", node.Int(-42), 3},
		{"bool", node.Bool(false), 5},
		{"mapping", node.MappingOf(map[string]node.Node{"a": node.Int(1), "b": node.Int(2)}), 2},
		{"sequence", node.NewSequence(node.Int(1)), 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(tst *testing.T) {
			if got := node.Size(tt.node); got != tt.size {
				tst.Errorf("Expected size %d, got %d", tt.size, got)
			}
		})
	}
}

// TestNode_AssignSequence verifies append, replace and the out of range policy.
func TestNode_AssignSequence(t *testing.T) {
	s := node.NewSequence(node.String("a"))

	created, err := node.Assign(s, "1", node.String("b"))
	if err != nil || !created {
		t.Fatalf("Append failed: %v (created=%v)", err, created)
	}

	created, err = node.Assign(s, "0", node.String("c"))
	if err != nil || created {
		t.Fatalf("Replace failed: %v (created=%v)", err, created)
	}

	if _, err := node.Assign(s, "5", node.String("d")); !errors.Is(err, data.ErrOutOfRange) {
		t.Errorf("Expected ErrOutOfRange, got %v", err)
	}
	if _, err := node.Assign(s, "x", node.String("d")); !errors.Is(err, data.ErrInvalidTarget) {
		t.Errorf("Expected ErrInvalidTarget, got %v", err)
	}

	if got := node.ToValue(s); !slices.Equal(got.([]any), []any{"c", "b"}) {
		t.Errorf("Expected [c b], got %v", got)
	}
}

// TestNode_Unassign verifies deletion and index shifting.
func TestNode_Unassign(t *testing.T) {
	s := node.NewSequence(node.String("a"), node.String("b"), node.String("c"))
	if err := node.Unassign(s, "0"); err != nil {
		t.Fatalf("Unassign failed: %v", err)
	}
	if child, _ := node.Child(s, "0"); child.(node.Scalar).Text() != "b" {
		t.Errorf("Expected later elements to shift down")
	}
	if err := node.Unassign(s, "10"); !errors.Is(err, data.ErrOutOfRange) {
		t.Errorf("Expected ErrOutOfRange, got %v", err)
	}

	m := node.NewMapping()
	if err := node.Unassign(m, "missing"); !errors.Is(err, data.ErrNotExist) {
		t.Errorf("Expected ErrNotExist, got %v", err)
	}

	if err := node.Unassign(node.String("x"), "a"); !errors.Is(err, data.ErrInvalidTarget) {
		t.Errorf("Expected ErrInvalidTarget, got %v", err)
	}
}

// TestNode_SealedObject verifies that struct conversions keep a fixed attribute set.
func TestNode_SealedObject(t *testing.T) {
	n, err := node.From(&testObject{X: "testfile7", Inner: inner{Something: "a"}, Secret: "s", Count: 3})
	if err != nil {
		t.Fatalf("From failed: %v", err)
	}

	o, ok := n.(*node.Object)
	if !ok {
		t.Fatalf("Expected *node.Object, got %T", n)
	}
	if !o.Sealed() {
		t.Errorf("Expected struct object to be sealed")
	}
	if got := node.Children(o); !slices.Equal(got, []string{"Inner", "X", "count"}) {
		t.Errorf("Expected exported, renamed attributes, got %v", got)
	}

	if _, err := node.Assign(o, "X", node.String("replaced")); err != nil {
		t.Errorf("Expected replacing an attribute to succeed, got %v", err)
	}
	if _, err := node.Assign(o, "Y", node.String("new")); !errors.Is(err, data.ErrInvalidTarget) {
		t.Errorf("Expected ErrInvalidTarget for a new attribute, got %v", err)
	}
	if err := node.Unassign(o, "X"); !errors.Is(err, data.ErrInvalidTarget) {
		t.Errorf("Expected ErrInvalidTarget for deletion, got %v", err)
	}

	open := node.NewObject("open")
	if created, err := node.Assign(open, "y", node.String("1")); err != nil || !created {
		t.Errorf("Expected new attribute on open object, got %v (created=%v)", err, created)
	}
	if err := node.Unassign(open, "y"); err != nil {
		t.Errorf("Expected deletion on open object, got %v", err)
	}
}

// TestNode_From verifies conversion of plain Go values.
func TestNode_From(t *testing.T) {
	n, err := node.From(map[string]any{
		"a": map[string]any{"b": "testfile1", "f": []string{"testfile5", "testfile6"}},
		"d": "testfile3",
		"n": 42,
		"r": []byte("raw"),
	})
	if err != nil {
		t.Fatalf("From failed: %v", err)
	}

	var paths []string
	node.Walk(n, func(parent, leaf string, child node.Node) bool {
		paths = append(paths, data.Join(parent, leaf))
		return true
	})

	expected := []string{"/", "/a", "/a/b", "/a/f", "/a/f/0", "/a/f/1", "/d", "/n", "/r"}
	if !slices.Equal(paths, expected) {
		t.Errorf("Expected %v, got %v", expected, paths)
	}

	if _, err := node.From(nil); err == nil {
		t.Errorf("Expected error converting nil")
	}
	if _, err := node.From(map[string]any{"c": make(chan int)}); err == nil {
		t.Errorf("Expected error converting a channel")
	}
}

// TestNode_Lazy verifies evaluation, chained results and recovered panics.
func TestNode_Lazy(t *testing.T) {
	calls := 0
	lazy := node.Lazy(func() (node.Node, error) {
		calls++
		return node.Lazy(func() (node.Node, error) {
			return node.String("computed"), nil
		}), nil
	})

	n, err := node.Evaluate(lazy)
	if err != nil {
		t.Fatalf("Evaluate failed: %v", err)
	}
	if text, _ := node.Text(n); text != "computed" {
		t.Errorf("Expected 'computed', got %q", text)
	}
	if calls != 1 {
		t.Errorf("Expected one call, got %d", calls)
	}

	failing := node.Lazy(func() (node.Node, error) {
		panic("boom")
	})
	if _, err := node.Evaluate(failing); !errors.Is(err, data.ErrLazyEvaluation) {
		t.Errorf("Expected ErrLazyEvaluation, got %v", err)
	}

	cause := errors.New("cause")
	erroring := node.Lazy(func() (node.Node, error) {
		return nil, cause
	})
	if _, err := node.Evaluate(erroring); !errors.Is(err, data.ErrLazyEvaluation) || !errors.Is(err, cause) {
		t.Errorf("Expected wrapped cause, got %v", err)
	}

	converted, err := node.From(func() string { return "from func" })
	if err != nil {
		t.Fatalf("From func failed: %v", err)
	}
	if converted.Kind() != node.KindLazy {
		t.Fatalf("Expected lazy node, got %s", converted.Kind())
	}
	n, err = node.Evaluate(converted)
	if err != nil {
		t.Fatalf("Evaluate failed: %v", err)
	}
	if text, _ := node.Text(n); text != "from func" {
		t.Errorf("Expected 'from func', got %q", text)
	}
}

// TestNode_Clone verifies that clones do not share containers.
func TestNode_Clone(t *testing.T) {
	original := node.MustFrom(map[string]any{"a": map[string]any{"b": "1"}})
	clone := node.Clone(original)

	a, _ := node.Child(clone, "a")
	node.Assign(a, "c", node.String("2"))

	origA, _ := node.Child(original, "a")
	if _, ok := node.Child(origA, "c"); ok {
		t.Errorf("Expected original to stay untouched")
	}
}

// TestNode_Cycles verifies that self-referencing graphs are walked, converted
// and cloned without endless recursion.
func TestNode_Cycles(t *testing.T) {
	m := node.NewMapping()
	m.Set("b", node.String("testfile1"))
	m.Set("self", m)

	t.Run("Walk", func(tst *testing.T) {
		var paths []string
		var revisited []string
		node.Walk(m, func(parent, leaf string, child node.Node) bool {
			path := data.Join(parent, leaf)
			paths = append(paths, path)
			if child == nil {
				revisited = append(revisited, path)
			}
			return true
		})

		expected := []string{"/", "/b", "/self"}
		if !slices.Equal(paths, expected) {
			tst.Errorf("Expected %v, got %v", expected, paths)
		}
		if !slices.Equal(revisited, []string{"/self"}) {
			tst.Errorf("Expected '/self' reported with a nil node, got %v", revisited)
		}
	})

	t.Run("Shared", func(tst *testing.T) {
		shared := node.MustFrom(map[string]any{"x": "1"})
		root := node.NewMapping()
		root.Set("l", shared)
		root.Set("r", shared)

		count := 0
		node.Walk(root, func(parent, leaf string, child node.Node) bool {
			if child == nil {
				tst.Errorf("Expected shared subtree at %s to be walked", data.Join(parent, leaf))
			}
			count++
			return true
		})
		if count != 5 {
			tst.Errorf("Expected 5 visits, got %d", count)
		}
	})

	t.Run("Reaches", func(tst *testing.T) {
		outer := node.NewMapping()
		inner := node.NewMapping()
		outer.Set("inner", inner)

		if !node.Reaches(outer, inner) {
			tst.Errorf("Expected outer to reach inner")
		}
		if !node.Reaches(inner, inner) {
			tst.Errorf("Expected inner to reach itself")
		}
		if node.Reaches(inner, outer) {
			tst.Errorf("Expected inner not to reach outer")
		}
		if node.Reaches(node.String("x"), outer) {
			tst.Errorf("Expected a scalar to reach nothing")
		}
		if !node.Reaches(m, m) {
			tst.Errorf("Expected cyclic mapping to reach itself")
		}
	})

	t.Run("ToValue", func(tst *testing.T) {
		value, ok := node.ToValue(m).(map[string]any)
		if !ok {
			tst.Fatalf("Expected map, got %T", node.ToValue(m))
		}
		if value["b"] != "testfile1" {
			tst.Errorf("Expected 'testfile1', got %v", value["b"])
		}
		if self, found := value["self"]; !found || self != nil {
			tst.Errorf("Expected nil for the cycle, got %v", self)
		}
	})

	t.Run("Clone", func(tst *testing.T) {
		clone := node.Clone(m)
		if clone == node.Node(m) {
			tst.Fatalf("Expected a new container")
		}
		self, ok := node.Child(clone, "self")
		if !ok || self != clone {
			tst.Errorf("Expected the clone to reference itself")
		}
	})

	t.Run("From", func(tst *testing.T) {
		cyclic := map[string]any{"b": "testfile1"}
		cyclic["self"] = cyclic
		if _, err := node.From(cyclic); err == nil {
			tst.Errorf("Expected error converting a self-referencing map")
		}

		list := []any{"x", nil}
		list[1] = list
		if _, err := node.From(list); err == nil {
			tst.Errorf("Expected error converting a self-referencing slice")
		}

		shared := map[string]any{"x": "1"}
		if _, err := node.From(map[string]any{"l": shared, "r": shared}); err != nil {
			tst.Errorf("Expected shared values to convert, got %v", err)
		}
	})
}
