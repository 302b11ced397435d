// Package kubeconfig normalizes, merges, and rewrites kubeconfig files
// produced by provider drivers before they are handed to operators or
// embedded in Argo CD cluster secrets.
package kubeconfig

import (
	"fmt"
	"io"

	"k8s.io/client-go/tools/clientcmd"
	clientcmdapi "k8s.io/client-go/tools/clientcmd/api"
	"sigs.k8s.io/yaml"
)

// Change summarizes what a merge did to the target kubeconfig.
type Change struct {
	Action string
	Count  int
	// Current reports whether the merged context became the current one.
	Current bool
}

// currentEntries resolves the current context of cfg and returns its name
// together with the cluster and user entry names it references. A config
// without a current context is accepted only when it holds exactly one.
func currentEntries(cfg *clientcmdapi.Config) (ctxName, clusterName, userName string, err error) {
	ctxName = cfg.CurrentContext
	if ctxName == "" {
		if len(cfg.Contexts) != 1 {
			return "", "", "", fmt.Errorf("kubeconfig has no current context")
		}
		for k := range cfg.Contexts {
			ctxName = k
		}
		cfg.CurrentContext = ctxName
	}
	c := cfg.Contexts[ctxName]
	if c == nil {
		return "", "", "", fmt.Errorf("context %q not found in kubeconfig", ctxName)
	}
	if _, ok := cfg.Clusters[c.Cluster]; !ok {
		return "", "", "", fmt.Errorf("referenced cluster %q not found", c.Cluster)
	}
	if _, ok := cfg.AuthInfos[c.AuthInfo]; !ok {
		return "", "", "", fmt.Errorf("referenced user %q not found", c.AuthInfo)
	}
	return ctxName, c.Cluster, c.AuthInfo, nil
}

// rekey moves m[from] to m[to] when the names differ.
func rekey[T any](m map[string]T, from, to string) {
	if from == to {
		return
	}
	m[to] = m[from]
	delete(m, from)
}

// LoadAndNormalize parses kubeconfig bytes into a single-context config
// with all file references inlined. When ctxName is non-empty the context
// and the cluster/user entries it references are renamed to it; nsName,
// when non-empty, becomes the context's default namespace.
func LoadAndNormalize(data []byte, ctxName, nsName string) (*clientcmdapi.Config, error) {
	cfg, err := clientcmd.Load(data)
	if err != nil {
		return nil, fmt.Errorf("parse kubeconfig: %w", err)
	}
	if _, _, _, err := currentEntries(cfg); err != nil {
		return nil, err
	}
	if err := clientcmdapi.MinifyConfig(cfg); err != nil {
		return nil, fmt.Errorf("minify kubeconfig: %w", err)
	}
	if err := clientcmdapi.FlattenConfig(cfg); err != nil {
		return nil, fmt.Errorf("flatten kubeconfig: %w", err)
	}

	curName, clusterName, userName, err := currentEntries(cfg)
	if err != nil {
		return nil, err
	}
	c := cfg.Contexts[curName]
	if nsName != "" {
		c.Namespace = nsName
	}
	if ctxName != "" {
		rekey(cfg.Contexts, curName, ctxName)
		rekey(cfg.Clusters, clusterName, ctxName)
		rekey(cfg.AuthInfos, userName, ctxName)
		c.Cluster = ctxName
		c.AuthInfo = ctxName
		cfg.CurrentContext = ctxName
	}
	return cfg, nil
}

// MergeIntoExisting merges the current context of newCfg into the
// kubeconfig at path, leaving unrelated entries alone. A missing or
// unreadable file is treated as empty. Name collisions are resolved with
// -1, -2... suffixes unless force is set, which overwrites the colliding
// entries instead. The merge is pure: the caller writes the result.
func MergeIntoExisting(newCfg *clientcmdapi.Config, path string, force, setCurrent bool) (*clientcmdapi.Config, string, Change, error) {
	if newCfg == nil || newCfg.CurrentContext == "" {
		return nil, "", Change{}, fmt.Errorf("input kubeconfig has no current context")
	}
	ctxName, clusterName, userName, err := currentEntries(newCfg)
	if err != nil {
		return nil, "", Change{}, err
	}

	existing, err := clientcmd.LoadFromFile(path)
	if err != nil {
		existing = clientcmdapi.NewConfig()
	}

	if force {
		delete(existing.Contexts, ctxName)
		delete(existing.Clusters, clusterName)
		delete(existing.AuthInfos, userName)
	} else {
		ctxName = uniqueName(ctxName, existing.Contexts)
		clusterName = uniqueName(clusterName, existing.Clusters)
		userName = uniqueName(userName, existing.AuthInfos)
	}

	src := newCfg.Contexts[newCfg.CurrentContext]
	existing.Clusters[clusterName] = newCfg.Clusters[src.Cluster].DeepCopy()
	existing.AuthInfos[userName] = newCfg.AuthInfos[src.AuthInfo].DeepCopy()
	merged := src.DeepCopy()
	merged.Cluster = clusterName
	merged.AuthInfo = userName
	existing.Contexts[ctxName] = merged

	change := Change{Action: "add/update", Count: 3}
	if setCurrent || existing.CurrentContext == "" {
		existing.CurrentContext = ctxName
		change.Current = true
	}
	return existing, ctxName, change, nil
}

// Print writes cfg to w as YAML, or JSON when format is "json".
func Print(w io.Writer, cfg *clientcmdapi.Config, format string) error {
	data, err := clientcmd.Write(*cfg)
	if err != nil {
		return fmt.Errorf("serialize kubeconfig: %w", err)
	}
	if format == "json" {
		if data, err = yaml.YAMLToJSON(data); err != nil {
			return fmt.Errorf("convert to json: %w", err)
		}
	}
	_, err = w.Write(data)
	return err
}

// uniqueName returns name, suffixed with -1, -2... if m already holds it.
func uniqueName[T any](name string, m map[string]T) string {
	if _, ok := m[name]; !ok {
		return name
	}
	for i := 1; ; i++ {
		cand := fmt.Sprintf("%s-%d", name, i)
		if _, ok := m[cand]; !ok {
			return cand
		}
	}
}
