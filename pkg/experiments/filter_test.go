package experiments_test

import (
	"testing"
	"time"

	"github.com/nauta/nauta-gui/pkg/datetime"
	"github.com/nauta/nauta-gui/pkg/experiments"
	"github.com/nauta/nauta-gui/pkg/utils/cmp"
)

func ptr[T any](v T) *T {
	return &v
}

func TestRestriction(t *testing.T) {
	t.Run("zero value is unrestricted", func(t *testing.T) {
		if _, ok := (experiments.Restriction{}).Values(); ok {
			t.Error("zero value should be unrestricted")
		}
		if _, ok := experiments.Unrestricted().Values(); ok {
			t.Error("Unrestricted() should be unrestricted")
		}
	})

	t.Run("restricted remembers values", func(t *testing.T) {
		got, ok := experiments.Restricted("a", "b").Values()
		if !ok || !cmp.SliceEq(got, []string{"a", "b"}) {
			t.Errorf("unexpected values: %v, %v", got, ok)
		}
	})
}

func TestFilter(t *testing.T) {
	population := []experiments.Entity{
		entity("exp-mnist-sing-18-06-11-09-34-45-41", "user-a", "COMPLETE", "training"),
		entity("exp-mnist-multi-1", "user-a", "FAILED", "training", withPodCount(4)),
		entity("infer-1", "user-b", "RUNNING", "inference",
			withMetrics(map[string]string{"accuracy": "0.98"}),
			withCreationTimestamp("2018-05-23T11:50:27Z"),
		),
		entity("exp-mnist-multi-1", "user-b", "COMPLETE", "training"),
	}

	type When struct {
		env      datetime.Env
		entities []experiments.Entity
		params   experiments.FilterParams
	}
	type Then struct {
		data    []string // names
		current experiments.Current
		options experiments.Options
	}

	theory := func(when When, then Then) func(*testing.T) {
		return func(t *testing.T) {
			env := when.env
			if env.Now == nil {
				env = testEnv()
			}
			got := experiments.Filter(env, when.entities, when.params)

			if actual := names(got.Data); !cmp.SliceEq(actual, then.data) {
				t.Errorf("data:\n===actual===\n%v\n===expected===\n%v", actual, then.data)
			}

			c := got.Current
			if !cmp.SliceEq(c.Name, then.current.Name) ||
				!cmp.SliceEq(c.Namespace, then.current.Namespace) ||
				!cmp.SliceEq(c.State, then.current.State) ||
				!cmp.SliceEq(c.Type, then.current.Type) ||
				c.SearchPattern != then.current.SearchPattern ||
				c.SearchTimezone != then.current.SearchTimezone {
				t.Errorf("current:\n===actual===\n%+v\n===expected===\n%+v", c, then.current)
			}

			o := got.Options
			if !cmp.SliceEq(o.Name, then.options.Name) ||
				!cmp.SliceEq(o.Namespace, then.options.Namespace) ||
				!cmp.SliceEq(o.State, then.options.State) ||
				!cmp.SliceEq(o.Type, then.options.Type) {
				t.Errorf("options:\n===actual===\n%+v\n===expected===\n%+v", o, then.options)
			}
		}
	}

	allNames := []string{"exp-mnist-sing-18-06-11-09-34-45-41", "exp-mnist-multi-1", "infer-1"}
	allNamespaces := []string{"user-a", "user-b"}
	allStates := []string{"COMPLETE", "FAILED", "RUNNING"}
	allTypes := []string{"training", "inference"}

	t.Run("without conditions, it passes everything", theory(
		When{entities: population},
		Then{
			data: names(population),
			current: experiments.Current{
				Name: allNames, Namespace: allNamespaces, State: allStates, Type: allTypes,
				SearchTimezone: 0,
			},
			options: experiments.Options{
				Name: allNames, Namespace: allNamespaces, State: allStates, Type: allTypes,
			},
		},
	))

	t.Run("empty entities give empty lists", theory(
		When{entities: []experiments.Entity{}},
		Then{
			data: []string{},
			current: experiments.Current{
				Name: []string{}, Namespace: []string{}, State: []string{}, Type: []string{},
			},
			options: experiments.Options{
				Name: []string{}, Namespace: []string{}, State: []string{}, Type: []string{},
			},
		},
	))

	t.Run("search is case insensitive", theory(
		When{
			entities: population,
			params:   experiments.FilterParams{Search: "mnist-SING-18-06-11-09-34-45-41"},
		},
		Then{
			data: []string{"exp-mnist-sing-18-06-11-09-34-45-41"},
			current: experiments.Current{
				Name: allNames, Namespace: allNamespaces, State: allStates, Type: allTypes,
				SearchPattern: "MNIST-SING-18-06-11-09-34-45-41",
			},
			options: experiments.Options{
				Name: allNames, Namespace: allNamespaces, State: allStates, Type: allTypes,
			},
		},
	))

	t.Run("search looks into metrics, parameters and pod selectors", func(t *testing.T) {
		for search, want := range map[string][]string{
			"0.98":          {"infer-1"},
			"runName=infer": {"infer-1"},
			"--EPOCHS,3":    names(population),
		} {
			got := experiments.Filter(testEnv(), population, experiments.FilterParams{Search: search})
			if actual := names(got.Data); !cmp.SliceEq(actual, want) {
				t.Errorf("search %q: %v != %v", search, actual, want)
			}
		}
	})

	t.Run("unset attributes are not searched", func(t *testing.T) {
		queued := entity("exp-queued", "user-a", "QUEUED", "training", func(e *experiments.Entity) {
			e.TrainingStartTime = ""
			e.TrainingEndTime = ""
			e.TemplateVersion = ""
		})
		for _, search := range []string{"undefined", "invalid date", "invalid", "null"} {
			got := experiments.Filter(testEnv(), []experiments.Entity{queued}, experiments.FilterParams{Search: search})
			if len(got.Data) != 0 {
				t.Errorf("search %q: unexpected hit: %v", search, names(got.Data))
			}
		}

		got := experiments.Filter(testEnv(), []experiments.Entity{queued}, experiments.FilterParams{Search: "queued"})
		if actual := names(got.Data); !cmp.SliceEq(actual, []string{"exp-queued"}) {
			t.Errorf("unexpected data: %v", actual)
		}
	})

	t.Run("search matches timestamps as the searcher sees", func(t *testing.T) {
		// 11:50:27 UTC is 01:50:27 pm in UTC+02:00
		for offset, want := range map[int][]string{
			-120: {"infer-1"},
			0:    {},
		} {
			got := experiments.Filter(testEnv(), population, experiments.FilterParams{
				Search:         "05/23/2018 01:50:27 PM",
				TimezoneOffset: ptr(offset),
			})
			if actual := names(got.Data); !cmp.SliceEq(actual, want) {
				t.Errorf("offset %d: %v != %v", offset, actual, want)
			}
			if got.Current.SearchTimezone != offset {
				t.Errorf("offset %d: searchTimezone = %d", offset, got.Current.SearchTimezone)
			}
		}
	})

	t.Run("searchTimezone defaults to the timezone of the server", theory(
		When{
			env:      datetime.Fixed(fixedNow, time.FixedZone("CEST", 2*60*60)),
			entities: population,
			params:   experiments.FilterParams{Search: "01:50:27 pm"},
		},
		Then{
			data: []string{"infer-1"},
			current: experiments.Current{
				Name: allNames, Namespace: allNamespaces, State: allStates, Type: allTypes,
				SearchPattern: "01:50:27 PM", SearchTimezone: -120,
			},
			options: experiments.Options{
				Name: allNames, Namespace: allNamespaces, State: allStates, Type: allTypes,
			},
		},
	))

	t.Run("restrictions override option lists, and namespace narrows options", theory(
		When{
			entities: population,
			params: experiments.FilterParams{
				Namespace: experiments.Restricted("user-b"),
				State:     experiments.Restricted("COMPLETE", "FAILED"),
			},
		},
		Then{
			data: []string{"exp-mnist-multi-1"},
			current: experiments.Current{
				Name:      allNames,
				Namespace: []string{"user-b"},
				State:     []string{"COMPLETE", "FAILED"},
				Type:      allTypes,
			},
			options: experiments.Options{
				Name:      []string{"infer-1", "exp-mnist-multi-1"},
				Namespace: allNamespaces,
				State:     []string{"RUNNING", "COMPLETE"},
				Type:      []string{"inference", "training"},
			},
		},
	))

	t.Run("restriction with no values passes nothing", theory(
		When{
			entities: population,
			params:   experiments.FilterParams{Type: experiments.Restricted()},
		},
		Then{
			data: []string{},
			current: experiments.Current{
				Name: allNames, Namespace: allNamespaces, State: allStates, Type: []string{},
			},
			options: experiments.Options{
				Name: allNames, Namespace: allNamespaces, State: allStates, Type: allTypes,
			},
		},
	))

	t.Run("unrestricted is the same as no condition", theory(
		When{
			entities: population,
			params: experiments.FilterParams{
				Name:      experiments.Unrestricted(),
				Namespace: experiments.Unrestricted(),
				State:     experiments.Unrestricted(),
				Type:      experiments.Unrestricted(),
			},
		},
		Then{
			data: names(population),
			current: experiments.Current{
				Name: allNames, Namespace: allNamespaces, State: allStates, Type: allTypes,
			},
			options: experiments.Options{
				Name: allNames, Namespace: allNamespaces, State: allStates, Type: allTypes,
			},
		},
	))
}
