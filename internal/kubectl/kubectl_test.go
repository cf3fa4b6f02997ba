package kubectl

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

type fakeRunner struct {
	out     []byte
	err     error
	gotArgs []string
}

func (f *fakeRunner) Run(args ...string) ([]byte, error) {
	f.gotArgs = args
	if f.err != nil {
		return nil, f.err
	}
	return f.out, nil
}

func podListJSON(t *testing.T, pods ...corev1.Pod) []byte {
	t.Helper()
	data, err := json.Marshal(corev1.PodList{Items: pods})
	require.NoError(t, err)
	return data
}

func namedPod(name string, phase corev1.PodPhase) corev1.Pod {
	return corev1.Pod{
		ObjectMeta: metav1.ObjectMeta{Name: name},
		Status:     corev1.PodStatus{Phase: phase},
	}
}

func TestBuildGetPods(t *testing.T) {
	assert.Equal(t, []string{"get", "pods", "-n", "prod", "-o", "json"}, BuildGetPods("prod"))
}

func TestBuilders_Deterministic(t *testing.T) {
	assert.Equal(t, BuildGetPods("prod"), BuildGetPods("prod"))
	assert.Equal(t, BuildUseContext("gke_x_y_z"), BuildUseContext("gke_x_y_z"))
	assert.Equal(t, BuildCurrentContext(), BuildCurrentContext())
}

func TestBuildContextVectors(t *testing.T) {
	assert.Equal(t, []string{"config", "use-context", "gke_x_y_z"}, BuildUseContext("gke_x_y_z"))
	assert.Equal(t, []string{"config", "current-context"}, BuildCurrentContext())
}

func TestGetPods_States(t *testing.T) {
	crashing := namedPod("web-crash", corev1.PodRunning)
	crashing.Status.ContainerStatuses = []corev1.ContainerStatus{{
		State: corev1.ContainerState{
			Waiting: &corev1.ContainerStateWaiting{Reason: "CrashLoopBackOff"},
		},
	}}

	oomKilled := namedPod("web-oom", corev1.PodRunning)
	oomKilled.Status.ContainerStatuses = []corev1.ContainerStatus{{
		State: corev1.ContainerState{
			Terminated: &corev1.ContainerStateTerminated{Reason: "OOMKilled", ExitCode: 137},
		},
	}}

	runner := &fakeRunner{out: podListJSON(t,
		namedPod("web-ok", corev1.PodRunning),
		namedPod("job-done", corev1.PodSucceeded),
		namedPod("web-pending", corev1.PodPending),
		crashing,
		oomKilled,
	)}

	pods, err := GetPods(runner, "prod")
	require.NoError(t, err)
	assert.Equal(t, []string{"get", "pods", "-n", "prod", "-o", "json"}, runner.gotArgs)

	require.Len(t, pods, 5)
	assert.Equal(t, Pod{Name: "web-ok", State: "Running", Bad: false}, pods[0])
	assert.Equal(t, Pod{Name: "job-done", State: "Succeeded", Bad: false}, pods[1])
	assert.Equal(t, Pod{Name: "web-pending", State: "Pending", Bad: true}, pods[2])
	assert.Equal(t, Pod{Name: "web-crash", State: "CrashLoopBackOff", Bad: true}, pods[3])
	assert.Equal(t, Pod{Name: "web-oom", State: "OOMKilled(exit=137)", Bad: true}, pods[4])
}

func TestGetPods_ZeroExitTerminationIsNotBad(t *testing.T) {
	completed := namedPod("job-ok", corev1.PodSucceeded)
	completed.Status.ContainerStatuses = []corev1.ContainerStatus{{
		State: corev1.ContainerState{
			Terminated: &corev1.ContainerStateTerminated{Reason: "Completed", ExitCode: 0},
		},
	}}

	runner := &fakeRunner{out: podListJSON(t, completed)}
	pods, err := GetPods(runner, "default")
	require.NoError(t, err)
	require.Len(t, pods, 1)
	assert.Equal(t, Pod{Name: "job-ok", State: "Succeeded", Bad: false}, pods[0])
}

func TestGetPods_RunnerError(t *testing.T) {
	wantErr := &ExecError{Args: []string{"get", "pods"}, Stderr: "error: context deadline exceeded"}
	runner := &fakeRunner{err: wantErr}

	_, err := GetPods(runner, "prod")
	require.Error(t, err)
	assert.Equal(t, "error: context deadline exceeded", err.Error())
}

func TestGetPods_UnparseableOutput(t *testing.T) {
	runner := &fakeRunner{out: []byte("NAME READY STATUS\nweb-1 1/1 Running\n")}

	_, err := GetPods(runner, "prod")
	var execErr *ExecError
	require.ErrorAs(t, err, &execErr)
}

func TestUseContext(t *testing.T) {
	runner := &fakeRunner{out: []byte("Switched to context \"gke_x_y_z\".\n")}

	msg, err := UseContext(runner, "gke_x_y_z")
	require.NoError(t, err)
	assert.Equal(t, []string{"config", "use-context", "gke_x_y_z"}, runner.gotArgs)
	assert.Equal(t, `Switched to context "gke_x_y_z".`, msg)
}

func TestCurrentContext(t *testing.T) {
	runner := &fakeRunner{out: []byte("gke_x_y_z\n")}

	current, err := CurrentContext(runner)
	require.NoError(t, err)
	assert.Equal(t, []string{"config", "current-context"}, runner.gotArgs)
	assert.Equal(t, "gke_x_y_z", current)
}

func TestExecError_PrefersStderr(t *testing.T) {
	err := &ExecError{
		Args:   []string{"get", "pods"},
		Stderr: "Unable to connect to the server",
		Err:    errors.New("exit status 1"),
	}
	assert.Equal(t, "Unable to connect to the server", err.Error())

	bare := &ExecError{Args: []string{"get", "pods"}, Err: errors.New("exit status 1")}
	assert.Contains(t, bare.Error(), "kubectl get pods")
}
