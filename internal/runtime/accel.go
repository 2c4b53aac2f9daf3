package runtime

import "runtime"

// fullOffloadLayers is passed as the GPU layer count when the whole model
// should live on accelerated hardware. llama.cpp clamps any count past the
// model's actual depth, so a large constant means "everything".
const fullOffloadLayers = 999

// Acceleration describes the hardware offload configuration chosen for the host.
type Acceleration struct {
	Enabled bool
	Type    string
	Layers  int
}

// DetectAcceleration decides the offload layer count from host capability.
// Apple silicon gets full Metal offload; every other host runs CPU-only.
// override >= 0 forces an explicit layer count (0 disables offload).
func DetectAcceleration(override int) Acceleration {
	if override >= 0 {
		return Acceleration{Enabled: override > 0, Type: overrideType(override), Layers: override}
	}
	if runtime.GOOS == "darwin" && runtime.GOARCH == "arm64" {
		return Acceleration{Enabled: true, Type: "metal", Layers: fullOffloadLayers}
	}
	return Acceleration{Enabled: false, Type: "cpu", Layers: 0}
}

func overrideType(layers int) string {
	if layers == 0 {
		return "cpu"
	}
	if runtime.GOOS == "darwin" {
		return "metal"
	}
	return "gpu"
}
