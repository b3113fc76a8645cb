package drc

import (
	"fmt"

	"github.com/OpenTraceLab/pcbdrc/pkg/board"
	"github.com/OpenTraceLab/pcbdrc/pkg/marker"
)

// testNetclasses validates every netclass row (spec.md §4.4) and returns
// whether the configuration passed — a failure here aborts the whole run
// since downstream clearance results would be meaningless.
func testNetclasses(settings board.DesignSettings, reporter *marker.Reporter) bool {
	ok := true
	for _, nc := range settings.Netclasses {
		if nc.TrackWidth < settings.MinTrackWidth {
			reporter.Report(marker.Marker{
				Kind:    marker.NetclassBadTrackWidth,
				Message: fmt.Sprintf("netclass '%s' track width %d below board minimum %d", nc.Name, nc.TrackWidth, settings.MinTrackWidth),
			})
			ok = false
		}
		if nc.ViaSize < nc.ViaDrill+settings.MinViaAnnularRing {
			reporter.Report(marker.Marker{
				Kind:    marker.NetclassBadViaSize,
				Message: fmt.Sprintf("netclass '%s' via size %d too small for drill %d + annular ring %d", nc.Name, nc.ViaSize, nc.ViaDrill, settings.MinViaAnnularRing),
			})
			ok = false
		}
		if nc.ViaDrill < settings.MinViaDrill {
			reporter.Report(marker.Marker{
				Kind:    marker.NetclassBadViaDrill,
				Message: fmt.Sprintf("netclass '%s' via drill %d below board minimum %d", nc.Name, nc.ViaDrill, settings.MinViaDrill),
			})
			ok = false
		}
		if nc.MicroViaDrill > 0 && nc.MicroViaDrill < settings.MinMicroViaDrill {
			reporter.Report(marker.Marker{
				Kind:    marker.NetclassBadMicroDrill,
				Message: fmt.Sprintf("netclass '%s' micro-via drill %d below board minimum %d", nc.Name, nc.MicroViaDrill, settings.MinMicroViaDrill),
			})
			ok = false
		}
		if nc.Clearance <= 0 {
			reporter.Report(marker.Marker{
				Kind:    marker.NetclassBadClearance,
				Message: fmt.Sprintf("netclass '%s' clearance must be positive", nc.Name),
			})
			ok = false
		}
	}
	return ok
}
