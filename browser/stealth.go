package browser

import (
	"crypto/rand"
	"math/big"
	"time"

	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/launcher/flags"
)

// stealthLaunchFlags supplements the stealth page injection with launch-time
// flags. The injection handles the JS-visible surface (navigator.webdriver
// and friends); these cover what only the process command line can.
var stealthLaunchFlags = map[string]string{
	"disable-blink-features":                 "AutomationControlled",
	"disable-infobars":                       "",
	"disable-dev-shm-usage":                  "",
	"disable-background-timer-throttling":    "",
	"disable-backgrounding-occluded-windows": "",
	"disable-renderer-backgrounding":         "",
	"no-first-run":                           "",
	"no-default-browser-check":               "",
}

func applyStealthFlags(l *launcher.Launcher) {
	for name, value := range stealthLaunchFlags {
		if value == "" {
			l.Set(flags.Flag(name))
		} else {
			l.Set(flags.Flag(name), value)
		}
	}
}

// humanDelay sleeps for a random duration in [minMs, maxMs) so sequences of
// actions do not fire at machine cadence.
func humanDelay(minMs, maxMs int) {
	if minMs <= 0 || maxMs <= minMs {
		return
	}
	n, err := rand.Int(rand.Reader, big.NewInt(int64(maxMs-minMs)))
	if err != nil {
		time.Sleep(time.Duration(minMs) * time.Millisecond)
		return
	}
	time.Sleep(time.Duration(minMs+int(n.Int64())) * time.Millisecond)
}
