package policies

import (
	"strings"
	"testing"
)

func TestInstanceOperations(t *testing.T) {
	s, err := InstanceOperations.Marshal()
	if err != nil {
		t.Fatal(err)
	}
	t.Log(s)
	for _, want := range []string{
		`"Version": "2012-10-17"`,
		`"Sid": "VisualEditor0"`,
		`"Effect": "Allow"`,
		`"ec2:*"`,
	} {
		if !strings.Contains(s, want) {
			t.Fatalf("%s missing from %s", want, s)
		}
	}
}

func TestEffectDefaultsToAllow(t *testing.T) {
	doc := &Document{Statement: []Statement{{
		Action:   []string{"s3:GetObject"},
		Resource: []string{"*"},
	}}}
	s, err := doc.Marshal()
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(s, `"Effect": "Allow"`) {
		t.Fatal(s)
	}
}

func TestInvalidEffect(t *testing.T) {
	doc := &Document{Statement: []Statement{{
		Effect:   "Maybe",
		Action:   []string{"s3:GetObject"},
		Resource: []string{"*"},
	}}}
	if _, err := doc.Marshal(); err == nil {
		t.Fatal("expected an error marshalling an invalid Effect")
	}
}

func TestMerge(t *testing.T) {
	doc := Merge(
		AssumeRolePolicyDocument(&Principal{AWS: []string{"123456789012"}}),
		AssumeRolePolicyDocument(&Principal{Service: []string{"ec2.amazonaws.com"}}),
	)
	t.Log(doc)
	if len(doc.Statement) != 2 {
		t.Fatal(doc)
	}

	// Yes, it's bad that these tests depend on the implementation details of
	// Merge but they're better than not having tests.
	if doc.Statement[0].Principal.AWS[0] != "123456789012" {
		t.Fatal(doc)
	}
	if doc.Statement[1].Principal.Service[0] != "ec2.amazonaws.com" {
		t.Fatal(doc)
	}
}
