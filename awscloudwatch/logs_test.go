package awscloudwatch

import "testing"

func TestPruneSeen(t *testing.T) {
	seen := map[string]int64{"a": 10, "b": 20, "c": 30}
	pruneSeen(seen, 20)
	if len(seen) != 2 {
		t.Fatalf("%#v", seen)
	}
	if _, ok := seen["a"]; ok {
		t.Fatal("expected events behind the window to be pruned")
	}
	if _, ok := seen["b"]; !ok {
		t.Fatal("expected events at the cutoff to survive")
	}
}
