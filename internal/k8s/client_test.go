package k8s

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes/fake"
)

func TestNewClient_InvalidKubeconfig(t *testing.T) {
	_, err := NewClient(filepath.Join(t.TempDir(), "missing-kubeconfig"), false)
	assert.Error(t, err)
}

func TestNewTestClient(t *testing.T) {
	fakeClientset := fake.NewSimpleClientset()

	client := NewTestClient(fakeClientset)

	require.NotNil(t, client)
	assert.Equal(t, fakeClientset, client.Clientset())
}

func TestClient_PortForwardService_ServiceNotFound(t *testing.T) {
	client := NewTestClient(fake.NewSimpleClientset())

	_, _, err := client.PortForwardService("default", "missing-service", 9201, 9200)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to get service")
}

func TestClient_PortForwardService_NoPods(t *testing.T) {
	fakeClientset := fake.NewSimpleClientset(
		&corev1.Service{
			ObjectMeta: metav1.ObjectMeta{
				Name:      "opensearch",
				Namespace: "default",
			},
			Spec: corev1.ServiceSpec{
				Selector: map[string]string{"app": "opensearch"},
			},
		},
	)
	client := NewTestClient(fakeClientset)

	_, _, err := client.PortForwardService("default", "opensearch", 9201, 9200)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "no pods found")
}

func TestClient_PortForwardService_NoRunningPods(t *testing.T) {
	fakeClientset := fake.NewSimpleClientset(
		&corev1.Service{
			ObjectMeta: metav1.ObjectMeta{
				Name:      "opensearch",
				Namespace: "default",
			},
			Spec: corev1.ServiceSpec{
				Selector: map[string]string{"app": "opensearch"},
			},
		},
		&corev1.Pod{
			ObjectMeta: metav1.ObjectMeta{
				Name:      "opensearch-0",
				Namespace: "default",
				Labels:    map[string]string{"app": "opensearch"},
			},
			Status: corev1.PodStatus{
				Phase: corev1.PodPending,
			},
		},
	)
	client := NewTestClient(fakeClientset)

	_, _, err := client.PortForwardService("default", "opensearch", 9201, 9200)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "no running pods")
}
