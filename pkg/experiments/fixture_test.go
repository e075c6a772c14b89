package experiments_test

import (
	"time"

	"github.com/nauta/nauta-gui/pkg/datetime"
	"github.com/nauta/nauta-gui/pkg/experiments"
)

var fixedNow = time.Date(2018, 8, 24, 7, 0, 0, 0, time.UTC)

func testEnv() datetime.Env {
	return datetime.Fixed(fixedNow, time.UTC)
}

type entityOption func(*experiments.Entity)

func withMetrics(kv map[string]string) entityOption {
	return func(e *experiments.Entity) {
		e.AdditionalAttributes = kv
	}
}

func withPodCount(n int64) entityOption {
	return func(e *experiments.Entity) {
		e.PodCount = n
	}
}

func withCreationTimestamp(ts string) entityOption {
	return func(e *experiments.Entity) {
		e.CreationTimestamp = ts
	}
}

func entity(name, namespace, state, typ string, options ...entityOption) experiments.Entity {
	e := experiments.Entity{
		Name:              name,
		Namespace:         namespace,
		State:             state,
		Type:              typ,
		CreationTimestamp: "2018-08-24T06:40:00Z",
		TrainingStartTime: "2018-08-24T06:42:10Z",
		TrainingEndTime:   "2018-08-24T06:43:10Z",
		PodSelector:       map[string]string{"runName": name},
		PodCount:          1,
		Parameters:        []string{"--epochs", "3"},
		TemplateName:      "tf-training-tfjob",
		TemplateNamespace: "template-namespace",
		TemplateVersion:   "0.1.0",
	}
	for _, o := range options {
		o(&e)
	}
	return e
}

func names(entities []experiments.Entity) []string {
	ret := make([]string, 0, len(entities))
	for _, e := range entities {
		ret = append(ret, e.Name)
	}
	return ret
}
