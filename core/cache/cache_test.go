package cache

import (
	"testing"
	"time"
)

func TestCache_SetGetDelete(t *testing.T) {
	c := NewCache()
	c.Set("k", "v", 0, nil)
	if v, ok := c.Get("k"); !ok || v.(string) != "v" {
		t.Errorf("Get = %v %v, want v true", v, ok)
	}
	c.Delete("k")
	if _, ok := c.Get("k"); ok {
		t.Error("deleted key still present")
	}
}

func TestCache_TTLExpires(t *testing.T) {
	c := NewCache()
	c.Set("k", "v", 1, nil)
	if _, ok := c.Get("k"); !ok {
		t.Fatal("value should be present before expiry")
	}
	time.Sleep(1100 * time.Millisecond)
	if _, ok := c.Get("k"); ok {
		t.Error("value should expire after TTL")
	}
}

func TestCache_CompositeKeys(t *testing.T) {
	c := NewCache()
	c.SetN([]interface{}{"inv", uint(1), uint(2)}, 99, 0, nil)
	if v, ok := c.GetN("inv", uint(1), uint(2)); !ok || v.(int) != 99 {
		t.Errorf("GetN = %v %v, want 99 true", v, ok)
	}
	// Different composite parts are different keys.
	if _, ok := c.GetN("inv", uint(1), uint(3)); ok {
		t.Error("distinct composite key should miss")
	}
	c.DeleteN("inv", uint(1), uint(2))
	if _, ok := c.GetN("inv", uint(1), uint(2)); ok {
		t.Error("deleted composite key still present")
	}
}

func TestCache_Tags(t *testing.T) {
	c := NewCache()
	c.Set("a", 1, 0, []string{"grp"})
	c.Set("b", 2, 0, []string{"grp"})
	c.Set("c", 3, 0, nil)

	if keys := c.GetKeysByTag("grp"); len(keys) != 2 {
		t.Errorf("tagged keys = %v, want 2", keys)
	}
	c.DeleteByTag("grp")
	if _, ok := c.Get("a"); ok {
		t.Error("tagged key a should be deleted")
	}
	if _, ok := c.Get("b"); ok {
		t.Error("tagged key b should be deleted")
	}
	if _, ok := c.Get("c"); !ok {
		t.Error("untagged key c should survive")
	}
}
