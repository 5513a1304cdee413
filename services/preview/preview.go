package preview

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"syscall"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/UnicornXOS/bl1nk-web-portal/utils"
)

const (
	maxBodyBytes = 2 << 20
	maxRedirects = 5
)

var (
	ErrInvalidURL     = errors.New("url must be absolute http(s)")
	ErrBlockedAddress = errors.New("url resolves to a non-public address")
)

// sharedRanges are not covered by the net.IP predicates.
var sharedRanges = []*net.IPNet{
	mustCIDR("100.64.0.0/10"),
	mustCIDR("192.0.0.0/24"),
	mustCIDR("198.18.0.0/15"),
	mustCIDR("64:ff9b::/96"),
}

func mustCIDR(s string) *net.IPNet {
	_, n, err := net.ParseCIDR(s)
	if err != nil {
		panic(err)
	}
	return n
}

// Preview is the link card built from a page's OpenGraph tags.
type Preview struct {
	URL         string `json:"url"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Image       string `json:"image"`
	SiteName    string `json:"siteName,omitempty"`
}

type Fetcher struct {
	http *http.Client
	// allow vets each dialed "ip:port"; nil permits every address.
	allow func(address string) bool
}

// NewFetcher returns a fetcher that only connects to public addresses. The check runs
// on the resolved IP at dial time, so it also applies to every redirect hop.
func NewFetcher(timeout time.Duration) *Fetcher {
	return newFetcher(timeout, publicAddress)
}

func newFetcher(timeout time.Duration, allow func(address string) bool) *Fetcher {
	dialer := &net.Dialer{Timeout: timeout}
	if allow != nil {
		dialer.Control = func(network, address string, _ syscall.RawConn) error {
			if !allow(address) {
				return fmt.Errorf("%w: %s", ErrBlockedAddress, address)
			}
			return nil
		}
	}
	transport := &http.Transport{
		DialContext:         dialer.DialContext,
		TLSHandshakeTimeout: timeout,
		MaxIdleConns:        10,
		IdleConnTimeout:     30 * time.Second,
	}
	client := &http.Client{
		Timeout:   timeout,
		Transport: transport,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= maxRedirects {
				return fmt.Errorf("stopped after %d redirects", maxRedirects)
			}
			if req.URL.Scheme != "http" && req.URL.Scheme != "https" {
				return ErrInvalidURL
			}
			return nil
		},
	}
	return &Fetcher{http: client, allow: allow}
}

func publicAddress(address string) bool {
	host, _, err := net.SplitHostPort(address)
	if err != nil {
		return false
	}
	ip := net.ParseIP(host)
	return ip != nil && isPublicIP(ip)
}

func isPublicIP(ip net.IP) bool {
	if ip.IsLoopback() || ip.IsPrivate() || ip.IsUnspecified() || ip.IsMulticast() ||
		ip.IsLinkLocalUnicast() || ip.IsLinkLocalMulticast() || ip.IsInterfaceLocalMulticast() {
		return false
	}
	for _, n := range sharedRanges {
		if n.Contains(ip) {
			return false
		}
	}
	return true
}

// Fetch downloads rawURL and reads og:* meta tags, falling back to <title> and the
// description meta tag. Relative image urls are resolved against the page.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (*Preview, error) {
	u, err := url.Parse(rawURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, ErrInvalidURL
	}
	if ip := net.ParseIP(u.Hostname()); ip != nil && f.allow != nil && !f.allow(net.JoinHostPort(ip.String(), port(u))) {
		return nil, ErrBlockedAddress
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "bl1nk-preview/1.0")
	req.Header.Set("Accept", "text/html")

	resp, err := f.http.Do(req)
	if err != nil {
		if errors.Is(err, ErrBlockedAddress) {
			return nil, ErrBlockedAddress
		}
		return nil, fmt.Errorf("fetch %s: %w", u.Host, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("fetch %s: status %d", u.Host, resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", u.Host, err)
	}
	return extract(doc, u), nil
}

func port(u *url.URL) string {
	if p := u.Port(); p != "" {
		return p
	}
	if u.Scheme == "https" {
		return "443"
	}
	return "80"
}

func extract(doc *goquery.Document, page *url.URL) *Preview {
	meta := func(attr, name string) string {
		v, _ := doc.Find(fmt.Sprintf(`meta[%s="%s"]`, attr, name)).First().Attr("content")
		return strings.TrimSpace(v)
	}

	p := &Preview{
		URL:         page.String(),
		Title:       meta("property", "og:title"),
		Description: meta("property", "og:description"),
		Image:       meta("property", "og:image"),
		SiteName:    meta("property", "og:site_name"),
	}
	if p.Title == "" {
		p.Title = strings.TrimSpace(doc.Find("title").First().Text())
	}
	if p.Description == "" {
		p.Description = meta("name", "description")
	}
	if p.Image != "" {
		if ref, err := url.Parse(p.Image); err == nil {
			p.Image = page.ResolveReference(ref).String()
		}
	}
	p.Title = utils.Truncate(p.Title, 200)
	p.Description = utils.Truncate(p.Description, 1000)
	return p
}
