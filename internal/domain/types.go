package domain

import "time"

type SessionID string
type MessageID string
type AssetKey string

type Sender string

const (
	SenderUser      Sender = "user"
	SenderAssistant Sender = "assistant"
)

// Screen identifies one of the navigable surfaces of the site. It is a
// closed set; the zero value ScreenNone means "no screen".
type Screen string

const (
	ScreenNone          Screen = ""
	ScreenLanding       Screen = "landing"
	ScreenPdf           Screen = "pdf"
	ScreenDownloads     Screen = "downloads"
	ScreenBooker        Screen = "booker"
	ScreenPortalMagico  Screen = "portalMagico"
	ScreenRevolucao     Screen = "revolucao"
	ScreenProdutosLogin Screen = "produtosLogin"
	ScreenAdminHome     Screen = "adminHome"
	ScreenWelcome       Screen = "welcome"
)

// ParseScreen maps a wire string onto the closed Screen set.
// Unknown values collapse to ScreenNone.
func ParseScreen(s string) Screen {
	switch Screen(s) {
	case ScreenLanding, ScreenPdf, ScreenDownloads, ScreenBooker,
		ScreenPortalMagico, ScreenRevolucao, ScreenProdutosLogin,
		ScreenAdminHome, ScreenWelcome:
		return Screen(s)
	default:
		return ScreenNone
	}
}

type Timestamp = time.Time
