package commands

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMaskPassword(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"with password", "postgresql://sched:s3cret@db:5432/stratsched", "postgresql://sched:xxxxx@db:5432/stratsched"},
		{"no password", "postgresql://sched@db:5432/stratsched", "postgresql://sched@db:5432/stratsched"},
		{"no user", "postgresql://db:5432/stratsched", "postgresql://db:5432/stratsched"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, maskPassword(tt.in))
		})
	}
}

func TestRootCommandTree(t *testing.T) {
	want := []string{"api", "assign", "deactivate", "loads", "onboard", "roster", "scheduler", "test-db", "unassign"}

	got := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		got[c.Name()] = true
	}
	for _, name := range want {
		assert.True(t, got[name], "missing command %s", name)
	}

	sub := map[string]bool{}
	for _, c := range schedulerCmd.Commands() {
		sub[c.Name()] = true
	}
	for _, name := range []string{"start", "list", "run", "status"} {
		assert.True(t, sub[name], "missing scheduler subcommand %s", name)
	}
}
