package main

import (
	"context"
	"log"
	"time"

	"github.com/regmap-project/regmap-go/pkg/pcie"
	"github.com/regmap-project/regmap-go/pkg/register"
	"github.com/regmap-project/regmap-go/pkg/remote"
)

const simInterval = 2 * time.Second

// runSimulation plays the device side of the Link registers: a cold link
// trains on its own, retrain requests train again, and linkDisable drops
// the link. Each step runs under the server's space lock, the same lock
// every remote access takes.
func runSimulation(ctx context.Context, server *remote.Server) {
	log.Println("Simulation mode enabled")

	ticker := time.NewTicker(simInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			server.WithSpace(simulateLinkStep)
		}
	}
}

// simulateLinkStep advances the link state machine by one tick. Spaces
// without the Link registers are left untouched.
func simulateLinkStep(space *register.Space) {
	control, ok := space.ByName(pcie.LinkControlLayout.Name())
	if !ok {
		return
	}
	status, ok := space.ByName(pcie.LinkStatusLayout.Name())
	if !ok {
		return
	}
	caps, ok := space.ByName(pcie.LinkCapabilitiesLayout.Name())
	if !ok {
		return
	}

	disabled, _ := control.GetInternal(pcie.LinkControlFieldLinkDisable)
	training, _ := status.GetInternal(pcie.LinkStatusFieldLinkTraining)
	active, _ := status.GetInternal(pcie.LinkStatusFieldDataLinkLayerActive)

	if disabled == 1 {
		if training == 1 || active == 1 {
			_ = status.SetInternal(pcie.LinkStatusFieldLinkTraining, 0)
			_ = status.SetInternal(pcie.LinkStatusFieldDataLinkLayerActive, 0)
			_ = status.SetInternal(pcie.LinkStatusFieldCurrentLinkSpeed, 0)
			_ = status.SetInternal(pcie.LinkStatusFieldNegotiatedWidth, 0)
			log.Println("[SIM] Link disabled, data link down")
		}
		return
	}

	if retrain, _ := control.GetInternal(pcie.LinkControlFieldRetrainLink); retrain == 1 {
		// Hardware clears the retrain bit as training begins.
		_ = control.SetInternal(pcie.LinkControlFieldRetrainLink, 0)
		_ = status.SetInternal(pcie.LinkStatusFieldLinkTraining, 1)
		_ = status.SetInternal(pcie.LinkStatusFieldDataLinkLayerActive, 0)
		log.Println("[SIM] Retrain requested, link training")
		return
	}

	if training == 1 {
		speed, _ := caps.GetInternal(pcie.LinkCapabilitiesFieldMaxLinkSpeed)
		width, _ := caps.GetInternal(pcie.LinkCapabilitiesFieldMaxLinkWidth)
		if speed == 0 {
			speed = pcie.LinkCapabilitiesMaxLinkSpeedGen1
		}
		if width == 0 {
			width = 1
		}
		_ = status.SetInternal(pcie.LinkStatusFieldCurrentLinkSpeed, speed)
		_ = status.SetInternal(pcie.LinkStatusFieldNegotiatedWidth, width)
		_ = status.SetInternal(pcie.LinkStatusFieldLinkTraining, 0)
		_ = status.SetInternal(pcie.LinkStatusFieldDataLinkLayerActive, 1)
		log.Printf("[SIM] Link trained: Gen%d x%d", speed, width)
		return
	}

	if active == 0 {
		_ = status.SetInternal(pcie.LinkStatusFieldLinkTraining, 1)
		log.Println("[SIM] Link down, starting training")
	}
}
