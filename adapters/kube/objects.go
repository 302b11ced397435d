package kube

import (
	"fmt"

	appsv1 "k8s.io/api/apps/v1"
	corev1 "k8s.io/api/core/v1"
	"k8s.io/apimachinery/pkg/api/resource"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/apimachinery/pkg/util/intstr"

	"github.com/spokeops/spokeops/domain/model"
)

// BuildWorkloadObjects renders the demo workload for an app: its Namespace,
// a Deployment, and a LoadBalancer Service exposing port 80.
// The returned objects are ready for server-side apply.
func BuildWorkloadObjects(app *model.App) ([]runtime.Object, error) {
	if app == nil {
		return nil, fmt.Errorf("app is nil")
	}
	if app.Name == "" || app.Namespace == "" || app.Image == "" {
		return nil, fmt.Errorf("app name, namespace, and image are required")
	}
	replicas := app.Replicas
	if replicas <= 0 {
		replicas = 1
	}

	labels := map[string]string{
		LabelAppSelector:     app.Name,
		LabelAppK8sName:      app.Name,
		LabelAppK8sManagedBy: ManagedByValue,
	}
	selector := map[string]string{LabelAppSelector: app.Name}

	requests, err := buildResourceList(app.Requests)
	if err != nil {
		return nil, fmt.Errorf("app resource requests: %w", err)
	}
	limits, err := buildResourceList(app.Limits)
	if err != nil {
		return nil, fmt.Errorf("app resource limits: %w", err)
	}

	ns := &corev1.Namespace{
		TypeMeta:   metav1.TypeMeta{APIVersion: "v1", Kind: "Namespace"},
		ObjectMeta: metav1.ObjectMeta{Name: app.Namespace, Labels: labels},
	}

	dep := &appsv1.Deployment{
		TypeMeta: metav1.TypeMeta{APIVersion: "apps/v1", Kind: "Deployment"},
		ObjectMeta: metav1.ObjectMeta{
			Name:      app.Name,
			Namespace: app.Namespace,
			Labels:    labels,
		},
		Spec: appsv1.DeploymentSpec{
			Replicas: &replicas,
			Selector: &metav1.LabelSelector{MatchLabels: selector},
			Template: corev1.PodTemplateSpec{
				ObjectMeta: metav1.ObjectMeta{Labels: labels},
				Spec: corev1.PodSpec{
					Containers: []corev1.Container{{
						Name:  app.Name,
						Image: app.Image,
						Ports: []corev1.ContainerPort{{Name: "http", ContainerPort: 80}},
						Resources: corev1.ResourceRequirements{
							Requests: requests,
							Limits:   limits,
						},
					}},
				},
			},
		},
	}

	svc := &corev1.Service{
		TypeMeta: metav1.TypeMeta{APIVersion: "v1", Kind: "Service"},
		ObjectMeta: metav1.ObjectMeta{
			Name:      app.Name,
			Namespace: app.Namespace,
			Labels:    labels,
		},
		Spec: corev1.ServiceSpec{
			Type:     corev1.ServiceTypeLoadBalancer,
			Selector: selector,
			Ports: []corev1.ServicePort{{
				Name:       "http",
				Port:       80,
				TargetPort: intstr.FromInt32(80),
				Protocol:   corev1.ProtocolTCP,
			}},
		},
	}

	return []runtime.Object{ns, dep, svc}, nil
}

// buildResourceList parses quantity strings keyed by resource name (cpu, memory).
func buildResourceList(m map[string]string) (corev1.ResourceList, error) {
	if len(m) == 0 {
		return nil, nil
	}
	rl := corev1.ResourceList{}
	for k, v := range m {
		q, err := resource.ParseQuantity(v)
		if err != nil {
			return nil, fmt.Errorf("parse quantity %s=%q: %w", k, v, err)
		}
		rl[corev1.ResourceName(k)] = q
	}
	return rl, nil
}
