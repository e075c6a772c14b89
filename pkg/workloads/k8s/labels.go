package k8s

import (
	"slices"
	"strings"
)

// SelectorElement is a condition for a label.
type SelectorElement interface {
	// QueryString renders the condition for the label key, like "key=value".
	QueryString(key string) string
}

// LabelSelector is a set of conditions, keyed by label names.
type LabelSelector map[string]SelectorElement

// QueryString renders selector as comma separated conditions,
// sorted by label names.
func (ls LabelSelector) QueryString() string {
	keys := make([]string, 0, len(ls))
	for k := range ls {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	conds := make([]string, 0, len(keys))
	for _, k := range keys {
		conds = append(conds, ls[k].QueryString(k))
	}
	return strings.Join(conds, ",")
}

// EqualityBased is a selector element with "=", "==" or "!=".
//
// Values without operators mean equality.
type EqualityBased string

func (e EqualityBased) QueryString(key string) string {
	s := string(e)
	switch {
	case strings.HasPrefix(s, "!="):
		return key + "!=" + s[2:]
	case strings.HasPrefix(s, "=="):
		return key + "=" + s[2:]
	default:
		return key + "=" + strings.TrimPrefix(s, "=")
	}
}

// MatchLabels makes LabelSelector selecting labels equal to the map.
func MatchLabels(labels map[string]string) LabelSelector {
	ls := LabelSelector{}
	for k, v := range labels {
		ls[k] = EqualityBased("=" + v)
	}
	return ls
}
