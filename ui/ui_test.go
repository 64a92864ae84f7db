package ui

import (
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
)

func TestFtable(t *testing.T) {
	cells := MakeTableCells(2, 3)
	cells[0][0], cells[0][1] = "NAME", "VERSION"
	cells[1][0], cells[1][1] = "iris_classifier", "20230101120000_ABCDEF"
	cells[2][0], cells[2][1] = "churn", "1"
	builder := &strings.Builder{}
	Ftable(builder, cells)
	s := builder.String()
	t.Log("\n" + s)
	lines := strings.Split(strings.TrimSuffix(s, "\n"), "\n")
	if len(lines) != 6 { // three delimiters, a header, two rows
		t.Fatal(lines)
	}
	for _, line := range lines {
		if len(line) != len(lines[0]) {
			t.Fatal(lines)
		}
	}
}

func TestHelpfulMissingRegion(t *testing.T) {
	err := helpful(&aws.MissingRegionError{})
	if s := err.Error(); !strings.Contains(s, "AWS_REGION") || !strings.Contains(s, "bundlekit.region") {
		t.Fatal(s)
	}

	// only suggest remedies that exist
	if strings.Contains(err.Error(), "-region") {
		t.Fatal(err)
	}
}

func TestPrintfWithCaller(t *testing.T) {
	PrintfWithCaller("this is a visual test which is bad but is better than no test")
}
