// Package signal defines the page-signal snapshot the rubric evaluates and
// the scoped session contract for collecting it. The checker core treats
// signal collection as an external collaborator: a session is acquired per
// audit, its page load is bounded by the caller's context, and it is
// released on both the success and failure paths.
package signal

import "context"

// PageSignals is the computed DOM/style snapshot of one page load. Every
// field is derivable by a headless-browser runner; the built-in HTTP
// collector fills the subset that static HTML exposes and leaves the rest at
// their zero values, which the evaluators treat as "not observed".
type PageSignals struct {
	URL      string `json:"url"`
	Viewport string `json:"viewport"`
	Title    string `json:"title"`
	Lang     string `json:"lang"`

	// Design-style signals.
	ColorCount    int      `json:"colorCount"`
	FontFamilies  []string `json:"fontFamilies"`
	FontSizeCount int      `json:"fontSizeCount"`
	RadiusCount   int      `json:"radiusCount"`
	IconCount     int      `json:"iconCount"`
	IconsWithText int      `json:"iconsWithText"`
	SpacingValues int      `json:"spacingValues"`

	// Component signals.
	ButtonCount          int `json:"buttonCount"`
	ButtonsWithoutLabel  int `json:"buttonsWithoutLabel"`
	LinkCount            int `json:"linkCount"`
	EmptyLinks           int `json:"emptyLinks"`
	InputCount           int `json:"inputCount"`
	InputsWithoutLabel   int `json:"inputsWithoutLabel"`
	CheckboxCount        int `json:"checkboxCount"`
	TableCount           int `json:"tableCount"`
	TablesWithoutCaption int `json:"tablesWithoutCaption"`

	// Structure and pattern signals.
	HeadingLevels     []int `json:"headingLevels"`
	ImageCount        int   `json:"imageCount"`
	ImagesWithoutAlt  int   `json:"imagesWithoutAlt"`
	HasSkipLink       bool  `json:"hasSkipLink"`
	HasMasthead       bool  `json:"hasMasthead"`
	HasMainLandmark   bool  `json:"hasMainLandmark"`
	HasFooter         bool  `json:"hasFooter"`
	HasBreadcrumb     bool  `json:"hasBreadcrumb"`
	HasOfficialBanner bool  `json:"hasOfficialBanner"`
	HasSearchField    bool  `json:"hasSearchField"`
	HasLoginForm      bool  `json:"hasLoginForm"`
	HasErrorTemplate  bool  `json:"hasErrorTemplate"`
	HasPrivacyNotice  bool  `json:"hasPrivacyNotice"`
	HasViewportMeta   bool  `json:"hasViewportMeta"`
}

// Session is one acquired page-signal session. Collect may be called once
// per audit; Close must be called on both success and failure paths.
type Session interface {
	Collect(ctx context.Context, url, viewport string) (*PageSignals, error)
	Close() error
}

// Source hands out sessions, one per analysis request. Sessions are not
// shared between concurrent audits.
type Source interface {
	Acquire(ctx context.Context) (Session, error)
}

// Static wraps pre-computed signals (from a browser runner or a test) as a
// Source, bypassing collection.
type Static struct {
	Signals PageSignals
}

// Acquire returns a session that serves the wrapped signals.
func (s *Static) Acquire(ctx context.Context) (Session, error) {
	return staticSession{signals: s.Signals}, nil
}

type staticSession struct {
	signals PageSignals
}

func (s staticSession) Collect(ctx context.Context, url, viewport string) (*PageSignals, error) {
	out := s.signals
	if out.URL == "" {
		out.URL = url
	}
	if out.Viewport == "" {
		out.Viewport = viewport
	}
	return &out, nil
}

func (s staticSession) Close() error { return nil }
