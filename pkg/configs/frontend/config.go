package frontend

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DefaultPort             = "8080"
	DefaultAPIGroup         = "aipg.intel.com"
	DefaultAPIVersion       = "v1"
	DefaultElasticsearchURL = "http://nauta-elasticsearch.nauta:9200"
	DefaultTensorboardURL   = "http://tensorboard-service.nauta:80"
)

var ErrInvalidConfig = errors.New("config: invalid")

// FrontendConfig is the configuration of nauta-gui server.
type FrontendConfig struct {
	// Port which the server listens.
	Port string `yaml:"port"`

	// Timezone is the IANA timezone name of the server, like "Asia/Tokyo".
	//
	// It is the default timezone of the free-text search of experiments.
	// Empty or "Local" means the system timezone.
	Timezone string `yaml:"timezone"`

	Kubernetes    KubernetesConfig `yaml:"kubernetes"`
	Elasticsearch ServiceConfig    `yaml:"elasticsearch"`
	Tensorboard   ServiceConfig    `yaml:"tensorboard"`
	Tracing       TracingConfig    `yaml:"tracing"`
}

type KubernetesConfig struct {
	// Kubeconfig is the path to kubeconfig file.
	//
	// When it is empty, KUBECONFIG, ~/.kube/config or in-cluster config are used.
	Kubeconfig string `yaml:"kubeconfig"`

	APIGroup string `yaml:"apiGroup"`
	Version  string `yaml:"version"`
}

type ServiceConfig struct {
	URL string `yaml:"url"`
}

type TracingConfig struct {
	// Exporter is one of "none", "stdout" or "otlphttp".
	Exporter string `yaml:"exporter"`

	// Endpoint is the URL of OTLP/HTTP collector, like "http://collector:4318".
	Endpoint string `yaml:"endpoint"`
}

// Location resolves Timezone.
func (c *FrontendConfig) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.Local, nil
	}
	return time.LoadLocation(c.Timezone)
}

func LoadFrontendConfig(filepath string) (*FrontendConfig, error) {
	content, err := os.ReadFile(filepath)
	if err != nil {
		return nil, err
	}
	return Unmarshal(content)
}

// Unmarshal parses yaml config, and fills defaults for missing values.
func Unmarshal(conf []byte) (*FrontendConfig, error) {
	var out FrontendConfig
	if err := yaml.Unmarshal(conf, &out); err != nil {
		return nil, err
	}

	if out.Port == "" {
		out.Port = DefaultPort
	}
	if out.Kubernetes.APIGroup == "" {
		out.Kubernetes.APIGroup = DefaultAPIGroup
	}
	if out.Kubernetes.Version == "" {
		out.Kubernetes.Version = DefaultAPIVersion
	}
	if out.Elasticsearch.URL == "" {
		out.Elasticsearch.URL = DefaultElasticsearchURL
	}
	if out.Tensorboard.URL == "" {
		out.Tensorboard.URL = DefaultTensorboardURL
	}
	if out.Tracing.Exporter == "" {
		out.Tracing.Exporter = "none"
	}

	for name, u := range map[string]string{
		"elasticsearch.url": out.Elasticsearch.URL,
		"tensorboard.url":   out.Tensorboard.URL,
	} {
		if err := absoluteURL(u); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrInvalidConfig, name, err)
		}
	}
	if _, err := out.Location(); err != nil {
		return nil, fmt.Errorf("%w: timezone: %w", ErrInvalidConfig, err)
	}
	switch out.Tracing.Exporter {
	case "none", "stdout", "otlphttp":
	default:
		return nil, fmt.Errorf("%w: tracing.exporter: unknown exporter %q", ErrInvalidConfig, out.Tracing.Exporter)
	}

	return &out, nil
}

func absoluteURL(s string) error {
	u, err := url.Parse(s)
	if err != nil {
		return err
	}
	if !u.IsAbs() || u.Hostname() == "" {
		return fmt.Errorf("not absolute: %s", s)
	}
	return nil
}
