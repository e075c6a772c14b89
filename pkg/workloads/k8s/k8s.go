package k8s

import (
	"context"
	"errors"
	"net/http"

	"github.com/nauta/nauta-gui/pkg/tracing"
	"go.opentelemetry.io/otel/attribute"
	kubecore "k8s.io/api/core/v1"
	kubeerr "k8s.io/apimachinery/pkg/api/errors"
	kubeapimeta "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/apimachinery/pkg/runtime/schema"
	"k8s.io/client-go/dynamic"
	k8s "k8s.io/client-go/kubernetes"
	"k8s.io/client-go/rest"
)

// CustomResources names the API group of nauta custom objects.
type CustomResources struct {
	Group   string
	Version string
}

// DefaultCustomResources is aipg.intel.com/v1 .
var DefaultCustomResources = CustomResources{Group: "aipg.intel.com", Version: "v1"}

func (c CustomResources) Runs() schema.GroupVersionResource {
	return schema.GroupVersionResource{Group: c.Group, Version: c.Version, Resource: "runs"}
}

func (c CustomResources) Experiments() schema.GroupVersionResource {
	return schema.GroupVersionResource{Group: c.Group, Version: c.Version, Resource: "experiments"}
}

// Client accesses the cluster on behalf of a user.
type Client interface {
	// ListClusterCustomObjects lists custom objects in all namespaces.
	ListClusterCustomObjects(ctx context.Context, gvr schema.GroupVersionResource) (*unstructured.UnstructuredList, error)

	// FindPods lists pods matching with the selector.
	//
	// Empty namespace means all namespaces.
	FindPods(ctx context.Context, namespace string, labelSelector LabelSelector) ([]kubecore.Pod, error)
}

// A wrapper for dynamic.Interface and k8s.Interface;
// because it does not prefer method chain-style invocations of those types.
type k8sClient struct {
	dynamic dynamic.Interface
	client  k8s.Interface
}

// type check: k8sClient implements Client
var _ Client = &k8sClient{}

func WrapClient(dyn dynamic.Interface, client k8s.Interface) Client {
	return &k8sClient{dynamic: dyn, client: client}
}

func (k *k8sClient) ListClusterCustomObjects(ctx context.Context, gvr schema.GroupVersionResource) (_ *unstructured.UnstructuredList, err error) {
	ctx, span := tracing.StartSpan(
		ctx, "k8s.list",
		attribute.String("k8s.resource", gvr.Resource),
		attribute.String("k8s.group", gvr.Group),
	)
	defer func() { tracing.End(span, err) }()

	return k.dynamic.Resource(gvr).List(ctx, kubeapimeta.ListOptions{})
}

func (k *k8sClient) FindPods(ctx context.Context, namespace string, labels LabelSelector) (_ []kubecore.Pod, err error) {
	ctx, span := tracing.StartSpan(
		ctx, "k8s.pods",
		attribute.String("k8s.namespace", namespace),
		attribute.String("k8s.selector", labels.QueryString()),
	)
	defer func() { tracing.End(span, err) }()

	resp, err := k.client.CoreV1().Pods(namespace).List(ctx, kubeapimeta.ListOptions{
		LabelSelector: labels.QueryString(),
	})
	if err != nil {
		return nil, err
	}
	return resp.Items, nil
}

// Cluster makes clients authenticated as callers.
type Cluster interface {
	// ForToken returns Client which authenticates with the bearer token.
	ForToken(token string) (Client, error)
}

type cluster struct {
	base *rest.Config
}

// NewCluster creates Cluster connecting to the API server of base.
//
// Credentials in base are not used. Clients authenticate only with the callers' tokens.
func NewCluster(base *rest.Config) Cluster {
	return &cluster{base: base}
}

func (c *cluster) ForToken(token string) (Client, error) {
	if token == "" {
		return nil, errors.New("token is empty")
	}

	conf := rest.AnonymousClientConfig(c.base)
	conf.BearerToken = token

	dyn, err := dynamic.NewForConfig(conf)
	if err != nil {
		return nil, err
	}
	client, err := k8s.NewForConfig(conf)
	if err != nil {
		return nil, err
	}
	return WrapClient(dyn, client), nil
}

// StatusOf returns HTTP status code of an error from the API server.
//
// If the status is unknown, it returns 0.
func StatusOf(err error) int {
	if err == nil {
		return 0
	}
	var status kubeerr.APIStatus
	if errors.As(err, &status) {
		return int(status.Status().Code)
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return http.StatusGatewayTimeout
	}
	return 0
}
