package experiments

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	kubecore "k8s.io/api/core/v1"
	kubeapimeta "k8s.io/apimachinery/pkg/apis/meta/v1"
)

// ContainerResource describes a container in a pod of an experiment.
type ContainerResource struct {
	Name      string                        `json:"name"`
	Resources kubecore.ResourceRequirements `json:"resources"`
	Status    string                        `json:"status"`
}

// PodResource describes a pod of an experiment.
type PodResource struct {
	Name       string              `json:"name"`
	State      []string            `json:"state"`
	Containers []ContainerResource `json:"containers"`
}

// ComposePodResources converts pods into PodResources, keeping the order.
func ComposePodResources(pods []kubecore.Pod) []PodResource {
	ret := make([]PodResource, 0, len(pods))
	for _, pod := range pods {
		ret = append(ret, ComposePodResource(pod))
	}
	return ret
}

func ComposePodResource(pod kubecore.Pod) PodResource {
	state := make([]string, 0, len(pod.Status.Conditions))
	for _, cond := range pod.Status.Conditions {
		state = append(state, ConditionString(cond))
	}

	statuses := map[string]*kubecore.ContainerState{}
	for i := range pod.Status.ContainerStatuses {
		cs := &pod.Status.ContainerStatuses[i]
		statuses[cs.Name] = &cs.State
	}

	containers := make([]ContainerResource, 0, len(pod.Spec.Containers))
	for _, c := range pod.Spec.Containers {
		containers = append(containers, ContainerResource{
			Name:      c.Name,
			Resources: c.Resources,
			Status:    ContainerStateString(statuses[c.Name]),
		})
	}

	return PodResource{
		Name:       pod.Name,
		State:      state,
		Containers: containers,
	}
}

// ConditionString formats a pod condition as "<type>: <status> , reason: <reason>, message: <message>".
//
// The reason and message parts are present only when they are not empty.
func ConditionString(cond kubecore.PodCondition) string {
	msg := ""
	if cond.Reason != "" {
		msg = ", reason: " + cond.Reason
	}
	if cond.Message != "" {
		msg += ", message: " + cond.Message
	}
	return fmt.Sprintf("%s: %s %s", cond.Type, cond.Status, msg)
}

// ContainerStateString describes the state of a container.
//
// nil state means that the container is not created yet.
func ContainerStateString(state *kubecore.ContainerState) string {
	switch {
	case state == nil:
		return "Not created"
	case state.Running != nil:
		return "Running, " + fields(
			field{"startedAt", timestamp(state.Running.StartedAt)},
		)
	case state.Terminated != nil:
		t := state.Terminated
		return "Terminated, " + fields(
			field{"exitCode", strconv.Itoa(int(t.ExitCode))},
			field{"signal", nonZero(t.Signal)},
			field{"reason", t.Reason},
			field{"message", t.Message},
			field{"startedAt", timestamp(t.StartedAt)},
			field{"finishedAt", timestamp(t.FinishedAt)},
			field{"containerID", t.ContainerID},
		)
	case state.Waiting != nil:
		return "Waiting, " + fields(
			field{"reason", state.Waiting.Reason},
			field{"message", state.Waiting.Message},
		)
	}
	return ""
}

type field struct {
	key   string
	value string
}

// fields formats non-empty fields as "k: v; k: v; ".
func fields(fs ...field) string {
	b := new(strings.Builder)
	for _, f := range fs {
		if f.value == "" {
			continue
		}
		fmt.Fprintf(b, "%s: %s; ", f.key, f.value)
	}
	return b.String()
}

func timestamp(t kubeapimeta.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

func nonZero(i int32) string {
	if i == 0 {
		return ""
	}
	return strconv.Itoa(int(i))
}
