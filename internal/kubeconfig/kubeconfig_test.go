package kubeconfig

import (
	"os"
	"path/filepath"
	"testing"

	"k8s.io/client-go/tools/clientcmd"
	clientcmdapi "k8s.io/client-go/tools/clientcmd/api"
)

func testConfigBytes(t *testing.T, ctxName string) []byte {
	t.Helper()
	cfg := clientcmdapi.NewConfig()
	cfg.Clusters[ctxName] = &clientcmdapi.Cluster{Server: "https://" + ctxName + ".example.com:443"}
	cfg.AuthInfos[ctxName] = &clientcmdapi.AuthInfo{Token: "tok-" + ctxName}
	cfg.Contexts[ctxName] = &clientcmdapi.Context{Cluster: ctxName, AuthInfo: ctxName}
	cfg.CurrentContext = ctxName
	data, err := clientcmd.Write(*cfg)
	if err != nil {
		t.Fatalf("write config: %v", err)
	}
	return data
}

func TestLoadAndNormalizeRenames(t *testing.T) {
	data := testConfigBytes(t, "original")
	cfg, err := LoadAndNormalize(data, "spoke-dev", "demo-app")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.CurrentContext != "spoke-dev" {
		t.Fatalf("context not renamed: %s", cfg.CurrentContext)
	}
	ctx := cfg.Contexts["spoke-dev"]
	if ctx == nil {
		t.Fatalf("renamed context missing")
	}
	if ctx.Cluster != "spoke-dev" || ctx.AuthInfo != "spoke-dev" {
		t.Fatalf("cluster/user not renamed: %+v", ctx)
	}
	if ctx.Namespace != "demo-app" {
		t.Fatalf("namespace not set: %s", ctx.Namespace)
	}
	if _, ok := cfg.Clusters["original"]; ok {
		t.Fatalf("old cluster entry should be gone")
	}
}

func TestMergeIntoExistingUniqueNames(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config")

	first, err := LoadAndNormalize(testConfigBytes(t, "spoke"), "", "")
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	merged, name, _, err := MergeIntoExisting(first, path, false, true)
	if err != nil {
		t.Fatalf("merge: %v", err)
	}
	if name != "spoke" {
		t.Fatalf("unexpected context name: %s", name)
	}
	if err := clientcmd.WriteToFile(*merged, path); err != nil {
		t.Fatalf("write merged: %v", err)
	}

	second, err := LoadAndNormalize(testConfigBytes(t, "spoke"), "", "")
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	merged2, name2, change, err := MergeIntoExisting(second, path, false, false)
	if err != nil {
		t.Fatalf("merge second: %v", err)
	}
	if name2 != "spoke-1" {
		t.Fatalf("expected suffixed context name, got %s", name2)
	}
	if change.Current {
		t.Fatalf("current context must not change without setCurrent")
	}
	if merged2.CurrentContext != "spoke" {
		t.Fatalf("current context changed: %s", merged2.CurrentContext)
	}
	if len(merged2.Contexts) != 2 {
		t.Fatalf("expected 2 contexts, got %d", len(merged2.Contexts))
	}
}

func TestMergeIntoExistingMissingFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nonexistent", "config")
	cfg, err := LoadAndNormalize(testConfigBytes(t, "hub"), "", "")
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	merged, _, change, err := MergeIntoExisting(cfg, path, false, false)
	if err != nil {
		t.Fatalf("merge into missing file should start empty: %v", err)
	}
	if !change.Current {
		t.Fatalf("first context should become current")
	}
	if merged.CurrentContext != "hub" {
		t.Fatalf("unexpected current context: %s", merged.CurrentContext)
	}
	// Parent dir absent: only WriteToFile would fail, merge itself is pure.
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("merge must not write the file")
	}
}
