package experiments

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
)

// ErrInvalidInput is returned when payloads from the cluster do not have the
// shape of runs or experiments.
var ErrInvalidInput = errors.New("incorrect array data")

// RunResource is a `runs.aipg.intel.com` custom object.
type RunResource struct {
	Name              string
	Namespace         string
	CreationTimestamp string

	// RunKind is the value of label "runKind" (training, inference, ...).
	RunKind string

	State     string
	StartTime string
	EndTime   string

	// PodSelector is `spec.pod-selector.matchLabels`.
	PodSelector map[string]string
	PodCount    int64
	Parameters  []string

	// Metrics are free form key-value pairs reported by the run.
	Metrics map[string]string

	ExperimentName string
}

// ExperimentResource is a `experiments.aipg.intel.com` custom object.
type ExperimentResource struct {
	Name              string
	Namespace         string
	TemplateName      string
	TemplateNamespace string
	TemplateVersion   string
}

// DecodeRuns converts custom objects into RunResources.
//
// Missing fields are left empty. Fields in unexpected types cause ErrInvalidInput.
func DecodeRuns(list *unstructured.UnstructuredList) ([]RunResource, error) {
	if list == nil {
		return nil, fmt.Errorf("%w: no run list", ErrInvalidInput)
	}

	ret := make([]RunResource, 0, len(list.Items))
	for nth, item := range list.Items {
		r, err := decodeRun(item.Object)
		if err != nil {
			return nil, fmt.Errorf("%w: runs[%d] (%s): %s", ErrInvalidInput, nth, item.GetName(), err)
		}
		ret = append(ret, r)
	}
	return ret, nil
}

func decodeRun(obj map[string]any) (RunResource, error) {
	r := RunResource{}
	var err error

	if r.Name, err = nestedString(obj, "metadata", "name"); err != nil {
		return r, err
	}
	if r.Name == "" {
		return r, errors.New("metadata.name is missing")
	}
	if r.Namespace, err = nestedString(obj, "metadata", "namespace"); err != nil {
		return r, err
	}
	if r.CreationTimestamp, err = nestedString(obj, "metadata", "creationTimestamp"); err != nil {
		return r, err
	}
	if r.RunKind, err = nestedString(obj, "metadata", "labels", "runKind"); err != nil {
		return r, err
	}
	if r.State, err = nestedString(obj, "spec", "state"); err != nil {
		return r, err
	}
	if r.StartTime, err = nestedString(obj, "spec", "start-time"); err != nil {
		return r, err
	}
	if r.EndTime, err = nestedString(obj, "spec", "end-time"); err != nil {
		return r, err
	}
	if r.ExperimentName, err = nestedString(obj, "spec", "experiment-name"); err != nil {
		return r, err
	}

	if r.PodSelector, err = nestedScalarMap(obj, "spec", "pod-selector", "matchLabels"); err != nil {
		return r, err
	}

	if r.PodCount, err = nestedInt64(obj, "spec", "pod-count"); err != nil {
		return r, err
	}

	params, _, err := unstructured.NestedStringSlice(obj, "spec", "parameters")
	if err != nil {
		return r, err
	}
	r.Parameters = params

	if r.Metrics, err = nestedScalarMap(obj, "spec", "metrics"); err != nil {
		return r, err
	}

	return r, nil
}

// DecodeExperiments converts custom objects into ExperimentResources.
func DecodeExperiments(list *unstructured.UnstructuredList) ([]ExperimentResource, error) {
	if list == nil {
		return nil, fmt.Errorf("%w: no experiment list", ErrInvalidInput)
	}

	ret := make([]ExperimentResource, 0, len(list.Items))
	for nth, item := range list.Items {
		e, err := decodeExperiment(item.Object)
		if err != nil {
			return nil, fmt.Errorf("%w: experiments[%d] (%s): %s", ErrInvalidInput, nth, item.GetName(), err)
		}
		ret = append(ret, e)
	}
	return ret, nil
}

func decodeExperiment(obj map[string]any) (ExperimentResource, error) {
	e := ExperimentResource{}
	var err error

	if e.Name, err = nestedString(obj, "metadata", "name"); err != nil {
		return e, err
	}
	if e.Name == "" {
		return e, errors.New("metadata.name is missing")
	}
	if e.Namespace, err = nestedString(obj, "metadata", "namespace"); err != nil {
		return e, err
	}
	if e.TemplateName, err = nestedString(obj, "spec", "template-name"); err != nil {
		return e, err
	}
	if e.TemplateNamespace, err = nestedString(obj, "spec", "template-namespace"); err != nil {
		return e, err
	}
	if e.TemplateVersion, err = nestedScalar(obj, "spec", "template-version"); err != nil {
		return e, err
	}
	return e, nil
}

// nestedString is unstructured.NestedString which tolerates explicit null.
func nestedString(obj map[string]any, fields ...string) (string, error) {
	v, found, err := unstructured.NestedFieldNoCopy(obj, fields...)
	if err != nil || !found || v == nil {
		return "", err
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("%s: expected string, got %T", path(fields), v)
	}
	return s, nil
}

func nestedInt64(obj map[string]any, fields ...string) (int64, error) {
	v, found, err := unstructured.NestedFieldNoCopy(obj, fields...)
	if err != nil || !found || v == nil {
		return 0, err
	}
	switch n := v.(type) {
	case int64:
		return n, nil
	case int:
		return int64(n), nil
	case int32:
		return int64(n), nil
	case float64:
		if n != float64(int64(n)) {
			return 0, fmt.Errorf("%s: not an integer: %v", path(fields), n)
		}
		return int64(n), nil
	default:
		return 0, fmt.Errorf("%s: expected integer, got %T", path(fields), v)
	}
}

// nestedScalar reads a string, number or boolean as a string.
func nestedScalar(obj map[string]any, fields ...string) (string, error) {
	v, found, err := unstructured.NestedFieldNoCopy(obj, fields...)
	if err != nil || !found || v == nil {
		return "", err
	}
	s, ok := scalarString(v)
	if !ok {
		return "", fmt.Errorf("%s: expected scalar, got %T", path(fields), v)
	}
	return s, nil
}

func nestedScalarMap(obj map[string]any, fields ...string) (map[string]string, error) {
	v, found, err := unstructured.NestedFieldNoCopy(obj, fields...)
	if err != nil || !found || v == nil {
		return nil, err
	}
	m, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%s: expected map, got %T", path(fields), v)
	}
	ret := make(map[string]string, len(m))
	for k, mv := range m {
		s, ok := scalarString(mv)
		if !ok {
			return nil, fmt.Errorf("%s.%s: expected scalar, got %T", path(fields), k, mv)
		}
		ret[k] = s
	}
	return ret, nil
}

func scalarString(v any) (string, bool) {
	switch s := v.(type) {
	case string:
		return s, true
	case int64:
		return strconv.FormatInt(s, 10), true
	case int:
		return strconv.Itoa(s), true
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64), true
	case bool:
		return strconv.FormatBool(s), true
	default:
		return "", false
	}
}

func path(fields []string) string {
	return strings.Join(fields, ".")
}
