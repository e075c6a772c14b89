package experiments

import (
	"slices"
	"strconv"
	"strings"

	"github.com/nauta/nauta-gui/pkg/datetime"
	"github.com/nauta/nauta-gui/pkg/utils/sets"
	"k8s.io/apimachinery/pkg/labels"
)

// Restriction is a value-set filter for an attribute.
//
// The zero value is Unrestricted.
type Restriction struct {
	restricted bool
	values     []string
}

// Restricted allows only the values.
//
// Restricted() with no values allows nothing.
func Restricted(values ...string) Restriction {
	return Restriction{restricted: true, values: slices.Clone(values)}
}

// Unrestricted allows everything.
func Unrestricted() Restriction {
	return Restriction{}
}

// Values returns allowed values. ok is false for Unrestricted.
func (r Restriction) Values() (values []string, ok bool) {
	if !r.restricted {
		return nil, false
	}
	return slices.Clone(r.values), true
}

// resolve returns values allowed by the restriction.
// For Unrestricted, it is dflt.
func (r Restriction) resolve(dflt []string) []string {
	if !r.restricted {
		return dflt
	}
	if r.values == nil {
		return []string{}
	}
	return slices.Clone(r.values)
}

// FilterParams are conditions of Filter.
type FilterParams struct {
	Name      Restriction
	Namespace Restriction
	State     Restriction
	Type      Restriction

	// Search is a free text searched in all attributes, case insensitively.
	Search string

	// TimezoneOffset is the timezone of the searcher, in minutes
	// (Date.getTimezoneOffset convention).
	//
	// If nil, the offset of the server is used.
	TimezoneOffset *int
}

// Options are values selectable in filters.
type Options struct {
	Name      []string `json:"name"`
	Namespace []string `json:"namespace"`
	State     []string `json:"state"`
	Type      []string `json:"type"`
}

// Current is the filter applied actually.
type Current struct {
	Name           []string `json:"name"`
	Namespace      []string `json:"namespace"`
	State          []string `json:"state"`
	Type           []string `json:"type"`
	SearchPattern  string   `json:"searchPattern"`
	SearchTimezone int      `json:"searchTimezone"`
}

type FilterResult struct {
	// Data are entities passing the filter, in the original order.
	Data []Entity

	Current Current
	Options Options
}

// Filter selects entities matching with params.
//
// Options of name, state and type are narrowed to entities in the current namespaces.
// Options of namespace are always all namespaces.
func Filter(env datetime.Env, entities []Entity, params FilterParams) FilterResult {
	names := sets.NewOrdered[string]()
	namespaces := sets.NewOrdered[string]()
	states := sets.NewOrdered[string]()
	types := sets.NewOrdered[string]()
	for _, e := range entities {
		names.Add(e.Name)
		namespaces.Add(e.Namespace)
		states.Add(e.State)
		types.Add(e.Type)
	}

	current := Current{
		Name:           params.Name.resolve(names.Values()),
		Namespace:      params.Namespace.resolve(namespaces.Values()),
		State:          params.State.resolve(states.Values()),
		Type:           params.Type.resolve(types.Values()),
		SearchPattern:  strings.ToUpper(params.Search),
		SearchTimezone: env.OffsetMinutes(),
	}
	if params.TimezoneOffset != nil {
		current.SearchTimezone = *params.TimezoneOffset
	}

	inNames := sets.NewOrdered(current.Name...)
	inNamespaces := sets.NewOrdered(current.Namespace...)
	inStates := sets.NewOrdered(current.State...)
	inTypes := sets.NewOrdered(current.Type...)

	optNames := sets.NewOrdered[string]()
	optStates := sets.NewOrdered[string]()
	optTypes := sets.NewOrdered[string]()

	data := []Entity{}
	for _, e := range entities {
		if !inNamespaces.Has(e.Namespace) {
			continue
		}
		optNames.Add(e.Name)
		optStates.Add(e.State)
		optTypes.Add(e.Type)

		if !inNames.Has(e.Name) || !inStates.Has(e.State) || !inTypes.Has(e.Type) {
			continue
		}
		if !matches(e, current.SearchPattern, current.SearchTimezone) {
			continue
		}
		data = append(data, e)
	}

	return FilterResult{
		Data:    data,
		Current: current,
		Options: Options{
			Name:      optNames.Values(),
			Namespace: namespaces.Values(),
			State:     optStates.Values(),
			Type:      optTypes.Values(),
		},
	}
}

// matches reports whether any attribute contains pattern.
//
// pattern should be upper case.
//
// Missing or empty attributes are not searched. So searching words like
// "undefined" or "invalid date" does not hit entities just because some of
// their attributes (for example, trainingEndTime of running ones) are unset.
func matches(e Entity, pattern string, timezoneOffset int) bool {
	if pattern == "" {
		return true
	}
	for _, name := range e.AttributeNames() {
		v, _ := e.Attribute(name)
		s := stringify(v)
		if s == "" {
			continue
		}
		if _, ok := timeAttributes[name]; ok {
			s = datetime.LocalizedString(s, timezoneOffset)
		}
		if strings.Contains(strings.ToUpper(s), pattern) {
			return true
		}
	}
	return false
}

// stringify renders an attribute value as it is searched.
func stringify(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case int64:
		return strconv.FormatInt(x, 10)
	case []string:
		return strings.Join(x, ",")
	case map[string]string:
		// like "k1=v1,k2=v2", sorted by key
		return labels.Set(x).String()
	default:
		return ""
	}
}
