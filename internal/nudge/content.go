package nudge

import "fmt"

// Content is the copy shown on a nudge card.
type Content struct {
	Label       string `json:"label,omitempty"`
	Title       string `json:"title"`
	Description string `json:"description"`
	CTA         string `json:"cta"`
}

// ContentFor returns the card copy for t. The watch-setup title turns
// personal once the user has a few captures behind them.
func ContentFor(t Type, captureCount int) Content {
	switch t {
	case SignIn:
		return Content{
			Title:       "Save across devices",
			Description: "Sign in to keep your captures safe across devices and set up watch capture.",
			CTA:         "Sign in",
		}
	case WatchSetup:
		title := "Capture without your phone"
		if captureCount >= SignInMinCaptures {
			title = fmt.Sprintf("You've captured %d things, try your wrist next", captureCount)
		}

		return Content{
			Label:       "Level up your capture",
			Title:       title,
			Description: "Add the Handled complication to your watch and capture from your wrist.",
			CTA:         "Set up watch",
		}
	case WatchUsage:
		return Content{
			Title:       "Your watch is ready",
			Description: "Next time, just raise your wrist and tap to capture.",
			CTA:         "Got it",
		}
	default:
		return Content{}
	}
}
