package version

import (
	"strings"
	"testing"
)

func TestInfo(t *testing.T) {
	info := Info()
	if !strings.HasPrefix(info, "pgedge-lakeetl "+Version) {
		t.Errorf("Expected info to start with program and version, got %q", info)
	}
	if !strings.Contains(info, "commit: "+Commit) {
		t.Errorf("Expected commit in info, got %q", info)
	}
	if Short() != Version {
		t.Errorf("Expected %s, got %s", Version, Short())
	}
}
