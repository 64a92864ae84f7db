package list

import (
	"testing"
	"time"
)

func TestAge(t *testing.T) {
	for _, test := range []struct {
		age      time.Duration
		expected string
	}{
		{30 * time.Second, "30s"},
		{90 * time.Minute, "1h"},
		{36 * time.Hour, "36h"},
		{72 * time.Hour, "3d"},
	} {
		if actual := age(time.Now().Add(-test.age)); actual != test.expected {
			t.Fatalf("age(now - %s) == %q, expected %q", test.age, actual, test.expected)
		}
	}
	if age(time.Time{}) != "" {
		t.Fatal("zero time must render empty")
	}
}

func TestFormatLabels(t *testing.T) {
	if s := formatLabels(map[string]string{"stage": "dev", "ci": "ok"}); s != "ci:ok,stage:dev" {
		t.Fatal(s)
	}
	if s := formatLabels(nil); s != "" {
		t.Fatal(s)
	}
}
