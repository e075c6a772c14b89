package kubeutil

import (
	"os"
	"path/filepath"

	"k8s.io/client-go/rest"
	"k8s.io/client-go/tools/clientcmd"
	"k8s.io/client-go/util/homedir"
)

// LoadConfig detects *rest.Config to connect kubernetes.
//
// # It searches kubeconfig from
//
// - `~/.kube/config`
//
// - environmental variable `KUBECONFIG`
//
// - the file found first from the kubeconfigSearchPath
//
// Later ones take priority.
// When no files are found from above, it tries to use in-cluster config.
func LoadConfig(kubeconfigSearchPath ...string) (*rest.Config, error) {
	kubeconfig := FindKubeconfig(kubeconfigSearchPath...)
	if kubeconfig == "" {
		return rest.InClusterConfig()
	}
	return clientcmd.BuildConfigFromFlags("", kubeconfig)
}

// FindKubeconfig returns the path of kubeconfig file which LoadConfig uses.
//
// If no files are found, it returns "".
func FindKubeconfig(kubeconfigSearchPath ...string) string {
	kubeconfig := ""

	// priority 1 (least): ~/.kube/config
	if home := homedir.HomeDir(); home != "" {
		if p := filepath.Join(home, ".kube", "config"); isFile(p) {
			kubeconfig = p
		}
	}

	// priority 2: envvar KUBECONFIG
	if k := os.Getenv("KUBECONFIG"); k != "" && isFile(k) {
		kubeconfig = k
	}

	// priority 3 (most): search path
	for _, sp := range kubeconfigSearchPath {
		if sp != "" && isFile(sp) {
			kubeconfig = sp
			break
		}
	}

	return kubeconfig
}

func isFile(p string) bool {
	s, err := os.Stat(p)
	return err == nil && !s.IsDir()
}
