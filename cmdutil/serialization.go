package cmdutil

import (
	"flag"
	"fmt"
)

const (
	SerializationFormatJSON = "json"
	SerializationFormatText = "text"
	SerializationFormatYAML = "yaml"
)

type SerializationFormat struct {
	format string
}

func SerializationFormatFlag(format string) *SerializationFormat {
	f := &SerializationFormat{format}
	flag.Var(
		f,
		"format",
		`output format - "json" for JSON, "yaml" for YAML, and "text" for human-readable plain text`,
	)
	return f
}

func (f *SerializationFormat) Set(format string) error {
	switch format {
	case SerializationFormatJSON, SerializationFormatText, SerializationFormatYAML:
	default:
		return SerializationFormatError(format)
	}
	f.format = format
	return nil
}

func (f *SerializationFormat) String() string {
	if f.format == "" {
		return SerializationFormatText
	}
	return f.format
}

type SerializationFormatError string

func (err SerializationFormatError) Error() string {
	return fmt.Sprintf(`-format=%q not supported`, string(err))
}
