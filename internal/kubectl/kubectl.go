// Package kubectl builds and runs kubectl invocations and parses their
// output. Nothing here talks to the cluster API directly: all access goes
// through the kubectl binary so the tool inherits the caller's kubeconfig,
// auth, and context handling.
package kubectl

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os/exec"
	"strings"

	corev1 "k8s.io/api/core/v1"
)

// ExecError reports a kubectl invocation that exited non-zero or produced
// output we could not parse.
type ExecError struct {
	Args   []string
	Stderr string
	Err    error
}

func (e *ExecError) Error() string {
	if e.Stderr != "" {
		return e.Stderr
	}
	return fmt.Sprintf("kubectl %s: %v", strings.Join(e.Args, " "), e.Err)
}

func (e *ExecError) Unwrap() error { return e.Err }

// Runner executes kubectl with the given arguments and returns its stdout.
type Runner interface {
	Run(args ...string) ([]byte, error)
}

// ExecRunner shells out to the kubectl binary on PATH.
type ExecRunner struct {
	Binary string
}

func NewExecRunner() *ExecRunner {
	return &ExecRunner{Binary: "kubectl"}
}

func (r *ExecRunner) Run(args ...string) ([]byte, error) {
	cmd := exec.Command(r.Binary, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, &ExecError{
			Args:   args,
			Stderr: strings.TrimSpace(stderr.String()),
			Err:    err,
		}
	}
	return stdout.Bytes(), nil
}

// BuildGetPods returns the argument vector for listing pods in a namespace.
// Pure: the same namespace always yields the same vector.
func BuildGetPods(namespace string) []string {
	return []string{"get", "pods", "-n", namespace, "-o", "json"}
}

// BuildUseContext returns the argument vector for switching to a context.
func BuildUseContext(context string) []string {
	return []string{"config", "use-context", context}
}

// BuildCurrentContext returns the argument vector for querying the current
// context.
func BuildCurrentContext() []string {
	return []string{"config", "current-context"}
}

// Pod is one row of a pod listing.
type Pod struct {
	Name  string
	State string
	Bad   bool
}

// GetPods lists the pods in a namespace and reduces each to a display state.
func GetPods(r Runner, namespace string) ([]Pod, error) {
	argv := BuildGetPods(namespace)
	out, err := r.Run(argv...)
	if err != nil {
		return nil, err
	}

	var list corev1.PodList
	if err := json.Unmarshal(out, &list); err != nil {
		return nil, &ExecError{Args: argv, Err: fmt.Errorf("parse pod list: %w", err)}
	}

	pods := make([]Pod, 0, len(list.Items))
	for i := range list.Items {
		pod := &list.Items[i]
		state, bad := podState(pod)
		pods = append(pods, Pod{Name: pod.Name, State: state, Bad: bad})
	}
	return pods, nil
}

// UseContext switches kubectl to the named context and returns kubectl's
// confirmation line.
func UseContext(r Runner, context string) (string, error) {
	out, err := r.Run(BuildUseContext(context)...)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}

// CurrentContext returns the name of the current kubectl context.
func CurrentContext(r Runner) (string, error) {
	out, err := r.Run(BuildCurrentContext()...)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}

// podState reduces a pod's status to a single display state. A container
// stuck waiting (CrashLoopBackOff, ImagePullBackOff, ...) or terminated with
// a non-zero exit overrides the phase; otherwise any phase outside Running
// and Succeeded counts as bad.
func podState(pod *corev1.Pod) (string, bool) {
	for _, cs := range pod.Status.ContainerStatuses {
		if w := cs.State.Waiting; w != nil {
			reason := w.Reason
			if reason == "" {
				reason = "Waiting"
			}
			return reason, true
		}
		if t := cs.State.Terminated; t != nil && t.ExitCode != 0 {
			reason := t.Reason
			if reason == "" {
				reason = "Exit"
			}
			return fmt.Sprintf("%s(exit=%d)", reason, t.ExitCode), true
		}
	}

	phase := string(pod.Status.Phase)
	if phase == "" {
		phase = "Unknown"
	}
	bad := pod.Status.Phase != corev1.PodRunning && pod.Status.Phase != corev1.PodSucceeded
	return phase, bad
}
