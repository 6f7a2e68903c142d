package discovery_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/regmap-project/regmap-go/pkg/discovery"
)

// TestAnnouncerLifecycle exercises announce, update, and withdraw against
// real multicast sockets.
func TestAnnouncerLifecycle(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping network test in short mode")
	}

	ann := discovery.NewAnnouncer(discovery.DefaultAnnouncerConfig())
	defer ann.StopAll()

	info := &discovery.AgentInfo{
		SpaceName: "pcie-link",
		Registers: 3,
		Port:      7442,
	}

	if err := ann.Announce(info); err != nil {
		t.Fatalf("Announce() error = %v", err)
	}

	// Update TXT records in place
	info.Description = "link training on"
	if err := ann.Update("pcie-link", info); err != nil {
		t.Errorf("Update() error = %v", err)
	}

	if err := ann.Withdraw("pcie-link"); err != nil {
		t.Errorf("Withdraw() error = %v", err)
	}

	// Withdrawing again should report the instance as gone
	if err := ann.Withdraw("pcie-link"); !errors.Is(err, discovery.ErrNotFound) {
		t.Errorf("second Withdraw() error = %v, want ErrNotFound", err)
	}
}

// TestAnnouncerReplacesInstance verifies re-announcing the same instance
// does not leak the previous advertisement.
func TestAnnouncerReplacesInstance(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping network test in short mode")
	}

	ann := discovery.NewAnnouncer(discovery.DefaultAnnouncerConfig())
	defer ann.StopAll()

	info := &discovery.AgentInfo{SpaceName: "pcie-link"}

	if err := ann.Announce(info); err != nil {
		t.Fatalf("first Announce() error = %v", err)
	}
	if err := ann.Announce(info); err != nil {
		t.Fatalf("second Announce() error = %v", err)
	}

	if err := ann.Withdraw("pcie-link"); err != nil {
		t.Errorf("Withdraw() error = %v", err)
	}
}

func TestAnnounceRequiresSpaceName(t *testing.T) {
	ann := discovery.NewAnnouncer(discovery.DefaultAnnouncerConfig())
	defer ann.StopAll()

	err := ann.Announce(&discovery.AgentInfo{})
	if !errors.Is(err, discovery.ErrMissingRequired) {
		t.Errorf("Announce() error = %v, want ErrMissingRequired", err)
	}
}

func TestUpdateUnknownInstance(t *testing.T) {
	ann := discovery.NewAnnouncer(discovery.DefaultAnnouncerConfig())
	defer ann.StopAll()

	err := ann.Update("nobody", &discovery.AgentInfo{SpaceName: "pcie-link"})
	if !errors.Is(err, discovery.ErrNotFound) {
		t.Errorf("Update() error = %v, want ErrNotFound", err)
	}
}

// TestFindAllTimeout verifies that FindAll returns without error when no
// agents appear before the context expires.
func TestFindAllTimeout(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping network test in short mode")
	}

	browser := discovery.NewBrowser(discovery.DefaultBrowserConfig())

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	_, err := browser.FindAll(ctx)
	assert.NoError(t, err)
}

// TestFindAllContextCancelled verifies that cancelling the context returns
// whatever was collected so far (empty in this case).
func TestFindAllContextCancelled(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping network test in short mode")
	}

	browser := discovery.NewBrowser(discovery.DefaultBrowserConfig())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results, err := browser.FindAll(ctx)
	assert.NoError(t, err)
	assert.Empty(t, results, "should return empty slice on immediate cancel")
}

// TestFindBySpaceTimeout verifies the not-found path of a bounded lookup.
func TestFindBySpaceTimeout(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping network test in short mode")
	}

	browser := discovery.NewBrowser(discovery.BrowserConfig{
		BrowseTimeout: 100 * time.Millisecond,
	})

	_, err := browser.FindBySpace(context.Background(), "no-such-space")
	if err == nil {
		t.Fatal("FindBySpace() expected an error for an absent space")
	}
}
