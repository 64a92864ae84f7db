package cmdutil

import (
	"flag"
	"strings"
)

type StringSliceFlag []string

func StringSlice(name, usage string) *StringSliceFlag {
	ss := &StringSliceFlag{}
	flag.Var(ss, name, usage)
	return ss
}

func (ssf *StringSliceFlag) Len() int {
	if ssf == nil || *ssf == nil {
		return 0
	}
	return len(*ssf)
}

func (ssf *StringSliceFlag) Set(s string) error {
	*ssf = append(*ssf, s)
	return nil
}

func (ssf *StringSliceFlag) Slice() []string {
	if ssf == nil || *ssf == nil {
		return []string{}
	}
	return append([]string{}, *ssf...)
}

func (ssf *StringSliceFlag) String() string {
	if ssf == nil || *ssf == nil {
		return ""
	}
	return strings.Join(*ssf, ", ")
}
