package mock

import (
	"context"
	"errors"
	"sync"

	k8s "github.com/nauta/nauta-gui/pkg/workloads/k8s"
	kubecore "k8s.io/api/core/v1"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/apimachinery/pkg/runtime/schema"
)

// MockClient is a fake k8s.Client.
//
// Set Impl to fake behaviours, and read Called to spy its usage.
// Methods are safe for concurrent use as long as Impl is.
type MockClient struct {
	mux sync.Mutex

	Impl struct {
		ListClusterCustomObjects func(ctx context.Context, gvr schema.GroupVersionResource) (*unstructured.UnstructuredList, error)
		FindPods                 func(ctx context.Context, namespace string, ls k8s.LabelSelector) ([]kubecore.Pod, error)
	}
	Called struct {
		ListClusterCustomObjects []schema.GroupVersionResource
		FindPods                 []k8s.LabelSelector
	}
}

// type check
var _ k8s.Client = &MockClient{}

func NewMockClient() *MockClient {
	return &MockClient{}
}

func (m *MockClient) ListClusterCustomObjects(ctx context.Context, gvr schema.GroupVersionResource) (*unstructured.UnstructuredList, error) {
	m.mux.Lock()
	m.Called.ListClusterCustomObjects = append(m.Called.ListClusterCustomObjects, gvr)
	m.mux.Unlock()

	if m.Impl.ListClusterCustomObjects == nil {
		return nil, errors.New("[MOCK] not implemented")
	}
	return m.Impl.ListClusterCustomObjects(ctx, gvr)
}

func (m *MockClient) FindPods(ctx context.Context, namespace string, ls k8s.LabelSelector) ([]kubecore.Pod, error) {
	m.mux.Lock()
	m.Called.FindPods = append(m.Called.FindPods, ls)
	m.mux.Unlock()

	if m.Impl.FindPods == nil {
		return nil, errors.New("[MOCK] not implemented")
	}
	return m.Impl.FindPods(ctx, namespace, ls)
}

// MockCluster is a fake k8s.Cluster handing out Client.
type MockCluster struct {
	Client *MockClient

	// Err, if not nil, is returned from ForToken.
	Err error

	// Tokens are tokens passed to ForToken.
	Tokens []string
}

// type check
var _ k8s.Cluster = &MockCluster{}

// NewCluster returns mocked k8s.Cluster and its client.
func NewCluster() (*MockCluster, *MockClient) {
	client := NewMockClient()
	return &MockCluster{Client: client}, client
}

func (m *MockCluster) ForToken(token string) (k8s.Client, error) {
	m.Tokens = append(m.Tokens, token)
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Client, nil
}
