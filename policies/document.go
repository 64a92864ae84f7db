package policies

import (
	"encoding/json"
	"fmt"
)

type Document struct {
	Version   version
	Statement []Statement
}

// AssumeRolePolicyDocument constructs the policy document that allows the
// given principal to assume a role.
func AssumeRolePolicyDocument(principal *Principal) *Document {
	return &Document{
		Statement: []Statement{{
			Action:    []string{"sts:AssumeRole"},
			Principal: principal,
		}},
	}
}

// Merge combines the statements of all the given documents into a single
// document. Statements are copied, never aliased, so later mutation of the
// inputs won't corrupt the merged document.
func Merge(docs ...*Document) *Document {
	merged := &Document{}
	for _, doc := range docs {
		if doc == nil {
			continue
		}
		merged.Statement = append(merged.Statement, doc.Statement...)
	}
	return merged
}

func (d *Document) Marshal() (string, error) {
	b, err := json.MarshalIndent(d, "", "\t")
	return string(b), err
}

type Statement struct {
	Sid       string     `json:",omitempty"`
	Effect    Effect
	Principal *Principal `json:",omitempty"`
	Action    []string
	Resource  []string  `json:",omitempty"` // omitempty for AssumeRolePolicyDocument
	Condition Condition `json:",omitempty"`
}

type Effect string

const (
	Allow Effect = "Allow" // default, thanks to MarshalJSON
	Deny  Effect = "Deny"
)

func (e Effect) MarshalJSON() ([]byte, error) {
	switch e {
	case Allow, Deny:
	case "":
		e = Allow
	default:
		return nil, fmt.Errorf("invalid Effect %#v", e)
	}
	return []byte(fmt.Sprintf("%#v", e)), nil
}

type Principal struct {
	AWS       []string `json:",omitempty"`
	Federated []string `json:",omitempty"`
	Service   []string `json:",omitempty"`
}

type Condition map[string]map[string]string

type version struct{}

func (version) MarshalJSON() ([]byte, error) {
	return []byte(`"2012-10-17"`), nil
}

func (version) UnmarshalJSON([]byte) error { return nil }
