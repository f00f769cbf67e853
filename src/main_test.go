package main

import (
	"strings"
	"testing"
)

func TestRun_RejectsBadConfig(t *testing.T) {
	cases := []struct {
		args []string
		want string
	}{
		{[]string{"-addr", "no-port"}, "config: addr"},
		{[]string{"-log-level", "loud"}, "unknown log level"},
		{[]string{"-data", "/nonexistent/states.json"}, "read dataset"},
		{[]string{"-strict", "-sum-tolerance", "1", "-open=false"}, "sum tolerance"},
	}
	for _, c := range cases {
		err := run(c.args)
		if err == nil || !strings.Contains(err.Error(), c.want) {
			t.Fatalf("run(%v) = %v, want error containing %q", c.args, err, c.want)
		}
	}
}
