//go:build !linux

package capture

import (
	"fmt"

	"firestige.xyz/strix/internal/config"
	"firestige.xyz/strix/internal/core"
)

func newAfpacketSource(cfg config.CaptureConfig) (Source, error) {
	return nil, fmt.Errorf("%w: afpacket requires linux", core.ErrNoCaptureSource)
}
