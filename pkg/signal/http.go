package signal

import (
	"context"
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"time"

	"golang.org/x/net/html"
)

// DefaultLoadTimeout bounds a single page load when the caller's context
// carries no earlier deadline.
const DefaultLoadTimeout = 30 * time.Second

// HTTPSource collects the statically derivable subset of page signals by
// fetching and parsing the served HTML. Signals that require a rendered
// page (computed colors, font metrics) stay at their zero values; a real
// deployment feeds those from a headless-browser runner instead.
type HTTPSource struct {
	Client  *http.Client
	Timeout time.Duration
}

// NewHTTPSource returns a source with the default client and load timeout.
func NewHTTPSource() *HTTPSource {
	return &HTTPSource{
		Client:  &http.Client{Timeout: DefaultLoadTimeout},
		Timeout: DefaultLoadTimeout,
	}
}

// Acquire hands out one HTTP session.
func (s *HTTPSource) Acquire(ctx context.Context) (Session, error) {
	client := s.Client
	if client == nil {
		client = &http.Client{Timeout: s.timeout()}
	}
	return &httpSession{client: client, timeout: s.timeout()}, nil
}

func (s *HTTPSource) timeout() time.Duration {
	if s.Timeout > 0 {
		return s.Timeout
	}
	return DefaultLoadTimeout
}

type httpSession struct {
	client  *http.Client
	timeout time.Duration
}

// Collect fetches the page and derives signals from its HTML.
func (s *httpSession) Collect(ctx context.Context, url, viewport string) (*PageSignals, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("invalid audit target %q: %w", url, err)
	}
	req.Header.Set("User-Agent", "krds-checker/1.0")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("failed to load %s: status %d", url, resp.StatusCode)
	}

	doc, err := html.Parse(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", url, err)
	}

	sig := &PageSignals{URL: url, Viewport: viewport}
	walk(doc, sig)
	finish(sig)
	return sig, nil
}

func (s *httpSession) Close() error {
	s.client.CloseIdleConnections()
	return nil
}

var (
	colorValueRe  = regexp.MustCompile(`#[0-9a-fA-F]{3,8}\b|rgba?\([^)]*\)`)
	skipLinkRe    = regexp.MustCompile(`건너뛰기|본문 바로가기|skip`)
	breadcrumbRe  = regexp.MustCompile(`breadcrumb|위치|경로`)
	officialRe    = regexp.MustCompile(`공식 누리집|공식 홈페이지|official website`)
	errorTmplRe   = regexp.MustCompile(`오류|페이지를 찾을 수 없|not found`)
	privacyRe     = regexp.MustCompile(`개인정보|privacy`)
	inlineColorRe = regexp.MustCompile(`(?:^|;)\s*(?:background-)?color\s*:\s*([^;]+)`)
)

// walker state that needs document-wide reconciliation.
type collectState struct {
	colors       map[string]struct{}
	fonts        map[string]struct{}
	labeledFor   map[string]struct{}
	unlabeledIDs []string
	bodyText     strings.Builder
}

func walk(doc *html.Node, sig *PageSignals) {
	st := &collectState{
		colors:     make(map[string]struct{}),
		fonts:      make(map[string]struct{}),
		labeledFor: make(map[string]struct{}),
	}
	visit(doc, sig, st)

	for _, id := range st.unlabeledIDs {
		if _, ok := st.labeledFor[id]; !ok {
			sig.InputsWithoutLabel++
		}
	}
	sig.ColorCount = len(st.colors)
	for f := range st.fonts {
		sig.FontFamilies = append(sig.FontFamilies, f)
	}

	text := strings.ToLower(st.bodyText.String())
	sig.HasOfficialBanner = sig.HasOfficialBanner || officialRe.MatchString(text)
	sig.HasErrorTemplate = errorTmplRe.MatchString(text)
	sig.HasPrivacyNotice = privacyRe.MatchString(text)
}

func visit(n *html.Node, sig *PageSignals, st *collectState) {
	if n.Type == html.TextNode {
		st.bodyText.WriteString(n.Data)
		st.bodyText.WriteString(" ")
	}
	if n.Type == html.ElementNode {
		inspectElement(n, sig, st)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		visit(c, sig, st)
	}
}

func inspectElement(n *html.Node, sig *PageSignals, st *collectState) {
	get := func(name string) string {
		for _, a := range n.Attr {
			if a.Key == name {
				return a.Val
			}
		}
		return ""
	}

	if style := get("style"); style != "" {
		for _, m := range inlineColorRe.FindAllStringSubmatch(style, -1) {
			for _, c := range colorValueRe.FindAllString(m[1], -1) {
				st.colors[strings.ToLower(c)] = struct{}{}
			}
		}
		if strings.Contains(style, "font-family") {
			st.fonts[styleValue(style, "font-family")] = struct{}{}
		}
	}

	switch n.Data {
	case "html":
		sig.Lang = get("lang")
	case "title":
		if n.FirstChild != nil && sig.Title == "" {
			sig.Title = strings.TrimSpace(n.FirstChild.Data)
		}
	case "style":
		if n.FirstChild != nil {
			for _, c := range colorValueRe.FindAllString(n.FirstChild.Data, -1) {
				st.colors[strings.ToLower(c)] = struct{}{}
			}
		}
	case "meta":
		if get("name") == "viewport" {
			sig.HasViewportMeta = true
		}
	case "h1", "h2", "h3", "h4", "h5", "h6":
		sig.HeadingLevels = append(sig.HeadingLevels, int(n.Data[1]-'0'))
	case "img":
		sig.ImageCount++
		if strings.TrimSpace(get("alt")) == "" {
			sig.ImagesWithoutAlt++
		}
	case "a":
		sig.LinkCount++
		text := strings.ToLower(nodeText(n))
		if strings.TrimSpace(text) == "" && get("aria-label") == "" {
			sig.EmptyLinks++
		}
		if skipLinkRe.MatchString(text) || strings.HasPrefix(get("href"), "#content") {
			sig.HasSkipLink = true
		}
	case "button":
		sig.ButtonCount++
		if strings.TrimSpace(nodeText(n)) == "" && get("aria-label") == "" {
			sig.ButtonsWithoutLabel++
		}
	case "input":
		typ := strings.ToLower(get("type"))
		switch typ {
		case "hidden", "submit", "button", "image":
		case "checkbox", "radio":
			sig.CheckboxCount++
			sig.InputCount++
			trackLabel(n, get, st)
		case "password":
			sig.HasLoginForm = true
			sig.InputCount++
			trackLabel(n, get, st)
		case "search":
			sig.HasSearchField = true
			sig.InputCount++
			trackLabel(n, get, st)
		default:
			sig.InputCount++
			trackLabel(n, get, st)
		}
	case "label":
		if forID := get("for"); forID != "" {
			st.labeledFor[forID] = struct{}{}
		}
	case "table":
		sig.TableCount++
		if !hasChild(n, "caption") {
			sig.TablesWithoutCaption++
		}
	case "header":
		sig.HasMasthead = true
	case "main":
		sig.HasMainLandmark = true
	case "footer":
		sig.HasFooter = true
	case "nav", "ol":
		if breadcrumbRe.MatchString(strings.ToLower(get("class") + " " + get("aria-label"))) {
			sig.HasBreadcrumb = true
		}
	case "form":
		if strings.Contains(strings.ToLower(get("role")+get("class")+get("action")), "search") {
			sig.HasSearchField = true
		}
	case "i", "svg", "use":
		if n.Data != "i" || strings.Contains(get("class"), "icon") {
			sig.IconCount++
		}
	}

	switch get("role") {
	case "banner":
		sig.HasMasthead = true
	case "main":
		sig.HasMainLandmark = true
	case "contentinfo":
		sig.HasFooter = true
	case "search":
		sig.HasSearchField = true
	}
}

// trackLabel records whether an input is covered by aria attributes or has
// to wait for a matching <label for>.
func trackLabel(n *html.Node, get func(string) string, st *collectState) {
	if get("aria-label") != "" || get("aria-labelledby") != "" || get("title") != "" {
		return
	}
	id := get("id")
	if id == "" {
		// No id means no label can reference it.
		id = fmt.Sprintf("__anon-%p", n)
	}
	st.unlabeledIDs = append(st.unlabeledIDs, id)
}

// finish derives the remaining counters once the walk is complete.
func finish(sig *PageSignals) {
	if sig.FontSizeCount == 0 && len(sig.FontFamilies) > 0 {
		sig.FontSizeCount = len(sig.FontFamilies)
	}
}

func nodeText(n *html.Node) string {
	var b strings.Builder
	var rec func(*html.Node)
	rec = func(m *html.Node) {
		if m.Type == html.TextNode {
			b.WriteString(m.Data)
		}
		for c := m.FirstChild; c != nil; c = c.NextSibling {
			rec(c)
		}
	}
	rec(n)
	return b.String()
}

func hasChild(n *html.Node, name string) bool {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && c.Data == name {
			return true
		}
	}
	return false
}

func styleValue(style, prop string) string {
	idx := strings.Index(style, prop)
	if idx < 0 {
		return ""
	}
	rest := style[idx+len(prop):]
	rest = strings.TrimLeft(rest, " :")
	if end := strings.IndexByte(rest, ';'); end >= 0 {
		rest = rest[:end]
	}
	return strings.TrimSpace(rest)
}
