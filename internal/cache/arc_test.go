package cache

import "testing"

func TestARC(t *testing.T) {
	t.Parallel()

	c, err := NewARC(2)
	if err != nil {
		t.Fatal(err)
	}

	c.Add("a", 1)
	c.Add("b", 2)
	if v, ok := c.Get("a"); !ok || v.(int) != 1 {
		t.Fatalf("expected 1 got %v %v", v, ok)
	}

	c.Add("c", 3)
	if c.Len() != 2 {
		t.Errorf("expected len 2 got %d", c.Len())
	}

	c.Delete("c")
	if _, ok := c.Get("c"); ok {
		t.Error("expected c to be deleted")
	}

	c.Purge()
	if len(c.Keys()) != 0 {
		t.Errorf("expected empty cache, keys %v", c.Keys())
	}
}

func TestNewARCInvalidSize(t *testing.T) {
	t.Parallel()

	if _, err := NewARC(0); err == nil {
		t.Fatal("expected error for zero size")
	}
}
