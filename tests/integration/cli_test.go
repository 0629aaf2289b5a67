// CLI integration tests for the observation lifecycle: record, query,
// amend, share, delete, plus the stateless validation commands.
package integration

import (
	"strconv"
	"strings"
	"testing"
	"time"
)

func TestObservationLifecycle(t *testing.T) {
	env := NewTestEnv(t)

	env.MustRunPulse("record", "consensus-latency", "1200", "100")

	result := env.MustRunPulse("--json", "get", env.Identity, "consensus-latency", "100")
	obs := ParseJSON[Observation](t, result.Stdout)
	if obs.Value != 1200 {
		t.Errorf("value = %d, want 1200", obs.Value)
	}
	if obs.Owner != env.Identity {
		t.Errorf("owner = %q, want %q", obs.Owner, env.Identity)
	}

	result = env.MustRunPulse("count", env.Identity, "consensus-latency")
	if got := strings.TrimSpace(result.Stdout); got != "1" {
		t.Errorf("count = %s, want 1", got)
	}

	env.MustRunPulse("amend", "consensus-latency", "100", "1600", "fixed")

	result = env.MustRunPulse("--json", "get", env.Identity, "consensus-latency", "100")
	obs = ParseJSON[Observation](t, result.Stdout)
	if obs.Value != 1600 || obs.Annotation != "fixed" {
		t.Errorf("after amend: value = %d, annotation = %q", obs.Value, obs.Annotation)
	}

	result = env.MustRunPulse("count", env.Identity, "consensus-latency")
	if got := strings.TrimSpace(result.Stdout); got != "1" {
		t.Errorf("count after amend = %s, want 1", got)
	}

	env.MustRunPulse("delete", "consensus-latency", "100")

	result = env.MustRunPulse("count", env.Identity, "consensus-latency")
	if got := strings.TrimSpace(result.Stdout); got != "0" {
		t.Errorf("count after delete = %s, want 0", got)
	}

	result = env.MustRunPulse("latest", env.Identity, "consensus-latency")
	if !strings.Contains(result.Stdout, "no data") {
		t.Errorf("latest after delete = %q, want no data", result.Stdout)
	}
}

func TestLatestFollowsMostRecentWrite(t *testing.T) {
	env := NewTestEnv(t)

	env.MustRunPulse("record", "mempool-size", "400", "200")
	env.MustRunPulse("record", "mempool-size", "700", "100")

	// The pointer tracks write order, not observation time.
	result := env.MustRunPulse("--json", "latest", env.Identity, "mempool-size")
	obs := ParseJSON[Observation](t, result.Stdout)
	if obs.Timestamp != 100 {
		t.Errorf("latest timestamp = %d, want 100", obs.Timestamp)
	}
}

func TestShareReturnsPayload(t *testing.T) {
	env := NewTestEnv(t)

	env.MustRunPulse("record", "staker-participation", "85", "100", "epoch 12")

	result := env.MustRunPulse("--json", "share", "auditor-1", "staker-participation", "100")
	obs := ParseJSON[Observation](t, result.Stdout)
	if obs.Value != 85 || obs.Annotation != "epoch 12" {
		t.Errorf("shared payload = %+v", obs)
	}

	// The grant is not persisted: the recipient still owns nothing.
	result = env.MustRunPulse("count", "auditor-1", "staker-participation")
	if got := strings.TrimSpace(result.Stdout); got != "0" {
		t.Errorf("recipient count = %s, want 0", got)
	}
}

func TestRecordRejections(t *testing.T) {
	future := strconv.FormatInt(time.Now().Unix()+3600, 10)

	tests := []struct {
		name    string
		args    []string
		wantMsg string
	}{
		{"invalid kind", []string{"record", "disk-usage", "50", "100"}, "invalid metric kind"},
		{"value below range", []string{"record", "consensus-latency", "50", "100"}, "measurement outside kind range"},
		{"value above range", []string{"record", "consensus-latency", "6000", "100"}, "measurement outside kind range"},
		{"future timestamp", []string{"record", "consensus-latency", "1200", future}, "observation time is in the future"},
		{"amend missing record", []string{"amend", "consensus-latency", "999", "1200"}, "observation not found"},
		{"delete missing record", []string{"delete", "consensus-latency", "999"}, "observation not found"},
		{"share missing record", []string{"share", "auditor-1", "consensus-latency", "999"}, "observation not found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := NewTestEnv(t)
			result := env.RunPulse(tt.args...)
			if result.ExitCode == 0 {
				t.Fatalf("pulse %v succeeded, want failure", tt.args)
			}
			if !strings.Contains(result.Stderr, tt.wantMsg) {
				t.Errorf("stderr = %q, want it to contain %q", result.Stderr, tt.wantMsg)
			}
		})
	}
}

func TestOwnersStayIsolated(t *testing.T) {
	env := NewTestEnv(t)

	env.MustRunPulse("--identity", "node-a", "record", "peer-connectivity", "64", "100")
	env.MustRunPulse("--identity", "node-b", "record", "peer-connectivity", "32", "100")

	env.MustRunPulse("--identity", "node-a", "delete", "peer-connectivity", "100")

	result := env.MustRunPulse("--json", "get", "node-b", "peer-connectivity", "100")
	obs := ParseJSON[Observation](t, result.Stdout)
	if obs.Value != 32 {
		t.Errorf("node-b value = %d, want 32", obs.Value)
	}

	result = env.MustRunPulse("count", "node-b", "peer-connectivity")
	if got := strings.TrimSpace(result.Stdout); got != "1" {
		t.Errorf("node-b count = %s, want 1", got)
	}
}

func TestStatelessCommands(t *testing.T) {
	env := NewTestEnv(t)

	result := env.MustRunPulse("kinds")
	for _, kind := range []string{
		"consensus-latency", "block-propagation", "tx-validation-time",
		"mempool-size", "node-availability", "network-throughput",
		"staker-participation", "peer-connectivity",
	} {
		if !strings.Contains(result.Stdout, kind) {
			t.Errorf("kinds output missing %q", kind)
		}
	}

	tests := []struct {
		args []string
		want string
	}{
		{[]string{"validate", "consensus-latency"}, "true"},
		{[]string{"validate", "disk-usage"}, "false"},
		{[]string{"validate", "consensus-latency", "2500"}, "true"},
		{[]string{"validate", "consensus-latency", "50"}, "false"},
		{[]string{"validate", "consensus-latency", "6000"}, "false"},
	}
	for _, tt := range tests {
		result := env.MustRunPulse(tt.args...)
		if got := strings.TrimSpace(result.Stdout); got != tt.want {
			t.Errorf("pulse %v = %s, want %s", tt.args, got, tt.want)
		}
	}
}

func TestDataSurvivesRestart(t *testing.T) {
	env := NewTestEnv(t)

	env.MustRunPulse("record", "network-throughput", "5000", "100")

	// Each CLI invocation is a separate process; a second one reads what the
	// first wrote.
	result := env.MustRunPulse("--json", "get", env.Identity, "network-throughput", "100")
	obs := ParseJSON[Observation](t, result.Stdout)
	if obs.Value != 5000 {
		t.Errorf("value after restart = %d, want 5000", obs.Value)
	}
}
