package experiments

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"slices"

	"github.com/nauta/nauta-gui/pkg/datetime"
)

// names of attributes every Entity has.
const (
	AttrName                 = "name"
	AttrState                = "state"
	AttrCreationTimestamp    = "creationTimestamp"
	AttrTrainingStartTime    = "trainingStartTime"
	AttrTrainingEndTime      = "trainingEndTime"
	AttrTrainingDurationTime = "trainingDurationTime"
	AttrTrainingTimeInQueue  = "trainingTimeInQueue"
	AttrType                 = "type"
	AttrNamespace            = "namespace"
	AttrPodSelector          = "podSelector"
	AttrPodCount             = "podCount"
	AttrParameters           = "parameters"
	AttrTemplateName         = "template-name"
	AttrTemplateNamespace    = "template-namespace"
	AttrTemplateVersion      = "template-version"
)

// CoreAttributes are names of attributes every Entity has, in the order of serialization.
var CoreAttributes = []string{
	AttrName,
	AttrState,
	AttrCreationTimestamp,
	AttrTrainingStartTime,
	AttrTrainingEndTime,
	AttrTrainingDurationTime,
	AttrTrainingTimeInQueue,
	AttrType,
	AttrNamespace,
	AttrPodSelector,
	AttrPodCount,
	AttrParameters,
	AttrTemplateName,
	AttrTemplateNamespace,
	AttrTemplateVersion,
}

// attributes holding timestamps.
var timeAttributes = map[string]struct{}{
	AttrCreationTimestamp: {},
	AttrTrainingStartTime: {},
	AttrTrainingEndTime:   {},
}

func isCore(name string) bool {
	return slices.Contains(CoreAttributes, name)
}

// ErrMalformedJoin is returned when a run has no experiment in the same name.
var ErrMalformedJoin = errors.New("run without experiment")

// Entity is a run joined with its experiment, flattened for the dashboard table.
type Entity struct {
	Name              string
	State             string
	CreationTimestamp string
	TrainingStartTime string
	TrainingEndTime   string

	// milliseconds
	TrainingDurationTime int64
	TrainingTimeInQueue  int64

	Type        string
	Namespace   string
	PodSelector map[string]string
	PodCount    int64
	Parameters  []string

	TemplateName      string
	TemplateNamespace string
	TemplateVersion   string

	// AdditionalAttributes are metrics of the run.
	//
	// A key which is the same as a core attribute name is ignored.
	AdditionalAttributes map[string]string
}

// Attribute returns the value of the attribute.
//
// The value is string, int64, []string or map[string]string.
//
// ok is false if the entity does not have the attribute.
func (e Entity) Attribute(name string) (value any, ok bool) {
	switch name {
	case AttrName:
		return e.Name, true
	case AttrState:
		return e.State, true
	case AttrCreationTimestamp:
		return e.CreationTimestamp, true
	case AttrTrainingStartTime:
		return e.TrainingStartTime, true
	case AttrTrainingEndTime:
		return e.TrainingEndTime, true
	case AttrTrainingDurationTime:
		return e.TrainingDurationTime, true
	case AttrTrainingTimeInQueue:
		return e.TrainingTimeInQueue, true
	case AttrType:
		return e.Type, true
	case AttrNamespace:
		return e.Namespace, true
	case AttrPodSelector:
		return e.PodSelector, true
	case AttrPodCount:
		return e.PodCount, true
	case AttrParameters:
		return e.Parameters, true
	case AttrTemplateName:
		return e.TemplateName, true
	case AttrTemplateNamespace:
		return e.TemplateNamespace, true
	case AttrTemplateVersion:
		return e.TemplateVersion, true
	}
	v, ok := e.AdditionalAttributes[name]
	return v, ok
}

// AttributeNames returns names of attributes of the entity.
//
// Core attributes come first, then metric names in lexical order.
func (e Entity) AttributeNames() []string {
	names := slices.Clone(CoreAttributes)
	for _, k := range slices.Sorted(maps.Keys(e.AdditionalAttributes)) {
		if isCore(k) {
			continue
		}
		names = append(names, k)
	}
	return names
}

func (e Entity) Equal(o Entity) bool {
	return e.Name == o.Name &&
		e.State == o.State &&
		e.CreationTimestamp == o.CreationTimestamp &&
		e.TrainingStartTime == o.TrainingStartTime &&
		e.TrainingEndTime == o.TrainingEndTime &&
		e.TrainingDurationTime == o.TrainingDurationTime &&
		e.TrainingTimeInQueue == o.TrainingTimeInQueue &&
		e.Type == o.Type &&
		e.Namespace == o.Namespace &&
		maps.Equal(e.PodSelector, o.PodSelector) &&
		e.PodCount == o.PodCount &&
		slices.Equal(e.Parameters, o.Parameters) &&
		e.TemplateName == o.TemplateName &&
		e.TemplateNamespace == o.TemplateNamespace &&
		e.TemplateVersion == o.TemplateVersion &&
		maps.Equal(e.AdditionalAttributes, o.AdditionalAttributes)
}

// MarshalJSON encodes the entity as
//
//	{"attributes": {<core attributes>..., <metrics>...}}
func (e Entity) MarshalJSON() ([]byte, error) {
	buf := new(bytes.Buffer)
	buf.WriteString(`{"attributes":{`)
	for nth, name := range e.AttributeNames() {
		v, _ := e.Attribute(name)
		if nth != 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(name)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(v)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteString(`}}`)
	return buf.Bytes(), nil
}

// Build joins runs and experiments by name, into entities.
//
// Entities are in the order of runs.
// When a run does not have its experiment, it returns ErrMalformedJoin.
func Build(env datetime.Env, runs []RunResource, experiments []ExperimentResource) ([]Entity, error) {
	templates := map[string]ExperimentResource{}
	for _, exp := range experiments {
		templates[exp.Name] = exp
	}

	entities := make([]Entity, 0, len(runs))
	for _, run := range runs {
		exp, ok := templates[run.Name]
		if !ok {
			return nil, fmt.Errorf("%w: %s/%s", ErrMalformedJoin, run.Namespace, run.Name)
		}

		var metrics map[string]string
		if len(run.Metrics) != 0 {
			metrics = make(map[string]string, len(run.Metrics))
			for k, v := range run.Metrics {
				if isCore(k) {
					continue
				}
				metrics[k] = v
			}
		}

		entities = append(entities, Entity{
			Name:                 run.Name,
			State:                run.State,
			CreationTimestamp:    run.CreationTimestamp,
			TrainingStartTime:    run.StartTime,
			TrainingEndTime:      run.EndTime,
			TrainingDurationTime: datetime.DifferenceMillis(env, run.StartTime, run.EndTime),
			TrainingTimeInQueue:  datetime.DifferenceMillis(env, run.CreationTimestamp, run.StartTime),
			Type:                 run.RunKind,
			Namespace:            run.Namespace,
			PodSelector:          run.PodSelector,
			PodCount:             run.PodCount,
			Parameters:           run.Parameters,
			TemplateName:         exp.TemplateName,
			TemplateNamespace:    exp.TemplateNamespace,
			TemplateVersion:      exp.TemplateVersion,
			AdditionalAttributes: metrics,
		})
	}
	return entities, nil
}
