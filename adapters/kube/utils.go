package kube

import (
	"bytes"
	"fmt"

	yaml "gopkg.in/yaml.v3"
	"k8s.io/apimachinery/pkg/runtime"
)

// BuildCleanManifest renders typed objects as a multi-document YAML
// manifest suitable for display or for feeding back through ApplyYAML.
// Null values, empty maps, the zero creationTimestamp, and empty status
// blocks are pruned so the output matches what an operator would write by
// hand.
func BuildCleanManifest(objs []runtime.Object) (string, error) {
	var buf bytes.Buffer
	for _, obj := range objs {
		if obj == nil {
			continue
		}
		m, err := runtime.DefaultUnstructuredConverter.ToUnstructured(obj)
		if err != nil {
			return "", fmt.Errorf("to unstructured: %w", err)
		}
		prune(m)
		if meta, ok := m["metadata"].(map[string]any); ok {
			delete(meta, "creationTimestamp")
			if len(meta) == 0 {
				delete(m, "metadata")
			}
		}
		if st, ok := m["status"].(map[string]any); ok && len(st) == 0 {
			delete(m, "status")
		}
		doc, err := encodeYAMLDoc(m)
		if err != nil {
			return "", err
		}
		buf.WriteString("---\n")
		buf.Write(doc)
	}
	return buf.String(), nil
}

func encodeYAMLDoc(m map[string]any) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(m); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	b := buf.Bytes()
	if len(b) == 0 || b[len(b)-1] != '\n' {
		b = append(b, '\n')
	}
	return b, nil
}

// prune removes nils and empty maps in place. Empty slices survive:
// an explicitly empty list is meaningful in a manifest.
func prune(v any) any {
	switch x := v.(type) {
	case map[string]any:
		for k, val := range x {
			switch cv := prune(val).(type) {
			case nil:
				delete(x, k)
			case map[string]any:
				if len(cv) == 0 {
					delete(x, k)
				} else {
					x[k] = cv
				}
			default:
				x[k] = cv
			}
		}
		return x
	case []any:
		for i, it := range x {
			x[i] = prune(it)
		}
		return x
	default:
		return x
	}
}
